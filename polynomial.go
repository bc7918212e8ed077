package pvss

import (
	"fmt"

	"github.com/bwesterb/go-ristretto"
)

// Polynomial holds the coefficients a_0..a_{t-1} of the sharing polynomial,
// a_0 being the secret. It never leaves the dealer.
type Polynomial struct {
	Coefficients []*ristretto.Scalar
}

// GeneratePolynomial returns a random polynomial of degree t-1 with the
// secret as constant term.
func GeneratePolynomial(threshold int, secret *ristretto.Scalar) (*Polynomial, error) {
	if threshold < 1 {
		return nil, fmt.Errorf("GeneratePolynomial invalid threshold %d: %w", threshold, ErrInvalidParameters)
	}
	if secret == nil {
		return nil, fmt.Errorf("GeneratePolynomial nil secret: %w", ErrInvalidParameters)
	}

	coefficients := make([]*ristretto.Scalar, threshold)
	coefficients[0] = cloneScalar(secret)
	for j := 1; j < threshold; j++ {
		coefficients[j] = randomScalar()
	}
	return &Polynomial{Coefficients: coefficients}, nil
}

func (p *Polynomial) Threshold() int {
	return len(p.Coefficients)
}

// Eval computes p(x) mod ℓ with Horner's rule.
func (p *Polynomial) Eval(x uint64) *ristretto.Scalar {
	xs := uint64ToScalar(x)
	var result ristretto.Scalar
	result.SetZero()
	for j := len(p.Coefficients) - 1; j >= 0; j-- {
		result.Mul(&result, xs)
		result.Add(&result, p.Coefficients[j])
	}
	return &result
}

// Shares evaluates the polynomial at 1..n. There must be strictly more
// participants than the threshold.
func (p *Polynomial) Shares(n int) ([]*ristretto.Scalar, error) {
	if n <= p.Threshold() {
		return nil, fmt.Errorf("Shares participants %d not above threshold %d: %w", n, p.Threshold(), ErrInvalidParameters)
	}
	shares := make([]*ristretto.Scalar, n)
	for i := range shares {
		shares[i] = p.Eval(uint64(i + 1))
	}
	return shares, nil
}

// Commit returns C_j = a_j·H for every coefficient, in order.
func (p *Polynomial) Commit(h *ristretto.Point) []*ristretto.Point {
	commitments := make([]*ristretto.Point, len(p.Coefficients))
	for j, a := range p.Coefficients {
		var c ristretto.Point
		commitments[j] = c.ScalarMult(h, a)
	}
	return commitments
}

// EvaluateCommitment computes X_i = Σ_j i^j·C_j, which equals p(i)·H for
// honest commitments. The integer power i^j is taken mod ℓ, matching the
// reduction the group applies to any scalar multiplier.
func EvaluateCommitment(commitments []*ristretto.Point, i uint64) *ristretto.Point {
	exp := NewScalarExp(uint64ToScalar(i))
	scalars := make([]*ristretto.Scalar, len(commitments))
	for j := range commitments {
		scalars[j] = exp.Next()
	}
	return multiscalarMul(scalars, commitments)
}

// EvaluateCommitments returns X_1..X_n.
func EvaluateCommitments(commitments []*ristretto.Point, n int) []*ristretto.Point {
	xs := make([]*ristretto.Point, n)
	for i := range xs {
		xs[i] = EvaluateCommitment(commitments, uint64(i+1))
	}
	return xs
}
