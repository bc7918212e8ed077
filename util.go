package pvss

import "github.com/bwesterb/go-ristretto"

// ScalarExp iterates the powers x^0, x^1, x^2, ... of a scalar.
type ScalarExp struct {
	X        *ristretto.Scalar
	NextExpX *ristretto.Scalar
}

func NewScalarExp(x *ristretto.Scalar) *ScalarExp {
	var one ristretto.Scalar
	return &ScalarExp{
		X:        x,
		NextExpX: one.SetOne(),
	}
}

func (s *ScalarExp) Next() *ristretto.Scalar {
	next := cloneScalar(s.NextExpX)
	s.NextExpX.Mul(s.NextExpX, s.X)
	return next
}
