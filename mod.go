package pvss

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/bwesterb/go-ristretto"
)

func uint64ToScalar(i uint64) *ristretto.Scalar {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[:], i)
	var s ristretto.Scalar
	return s.SetBytes(&buf)
}

func scalarFromBytes(buf []byte) (*ristretto.Scalar, error) {
	if len(buf) != 32 {
		return nil, fmt.Errorf("scalarFromBytes invalid length %d: %w", len(buf), ErrInvalidParameters)
	}
	var buf32 [32]byte
	copy(buf32[:], buf)
	var s ristretto.Scalar
	s.SetBytes(&buf32)
	// SetBytes reduces mod ℓ, so only canonical encodings survive the round trip.
	if !bytes.Equal(s.Bytes(), buf) {
		return nil, fmt.Errorf("scalarFromBytes non-canonical scalar: %w", ErrInvalidParameters)
	}
	return &s, nil
}

func pointFromBytes(buf []byte) (*ristretto.Point, error) {
	if len(buf) != 32 {
		return nil, fmt.Errorf("pointFromBytes invalid length %d: %w", len(buf), ErrInvalidParameters)
	}
	var buf32 [32]byte
	copy(buf32[:], buf)
	var p ristretto.Point
	if !p.SetBytes(&buf32) {
		return nil, fmt.Errorf("pointFromBytes invalid ristretto encoding: %w", ErrInvalidParameters)
	}
	return &p, nil
}

func hexToScalar(h string) (*ristretto.Scalar, error) {
	buf, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("hexToScalar %v: %w", err, ErrInvalidParameters)
	}
	return scalarFromBytes(buf)
}

func hexToPoint(h string) (*ristretto.Point, error) {
	buf, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("hexToPoint %v: %w", err, ErrInvalidParameters)
	}
	return pointFromBytes(buf)
}

func multiscalarMul(scalars []*ristretto.Scalar, points []*ristretto.Point) *ristretto.Point {
	var p ristretto.Point
	p.SetZero()
	for i := range scalars {
		var t ristretto.Point
		t.ScalarMult(points[i], scalars[i])
		p.Add(&p, &t)
	}
	return &p
}

func fromBytesModOrderWide(data []byte) *ristretto.Scalar {
	var data64 [64]byte
	copy(data64[:], data)
	var hs ristretto.Scalar
	return hs.SetReduced(&data64)
}

func pointFromUniformBytes(key []byte) *ristretto.Point {
	var r1Bytes, r2Bytes [32]byte
	copy(r1Bytes[:], key[:32])
	copy(r2Bytes[:], key[32:])
	var r, r1, r2 ristretto.Point
	return r.Add(r1.SetElligator(&r1Bytes), r2.SetElligator(&r2Bytes))
}

func isIdentity(p *ristretto.Point) bool {
	var zero ristretto.Point
	zero.SetZero()
	return p.Equals(&zero)
}

func isZeroScalar(s *ristretto.Scalar) bool {
	var zero ristretto.Scalar
	zero.SetZero()
	return s.Equals(&zero)
}

// randomScalar draws a uniform scalar from crypto/rand.
func randomScalar() *ristretto.Scalar {
	var s ristretto.Scalar
	return s.Rand()
}

func randomNonZeroScalar() *ristretto.Scalar {
	for {
		s := randomScalar()
		if !isZeroScalar(s) {
			return s
		}
	}
}

func clonePoint(p *ristretto.Point) *ristretto.Point {
	var z ristretto.Point
	z.SetZero()
	return z.Add(&z, p)
}

func cloneScalar(s *ristretto.Scalar) *ristretto.Scalar {
	var z ristretto.Scalar
	z.SetZero()
	return z.Add(&z, s)
}
