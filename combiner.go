package pvss

import (
	"fmt"

	"github.com/MixinNetwork/pvss-go/log"
	"github.com/bwesterb/go-ristretto"
)

// LagrangeCoefficient returns L_i(0) = Π_{j≠i} j·(j-i)^-1 mod ℓ over indices.
// Only the first occurrence of i is skipped, so a repeated i is reported.
func LagrangeCoefficient(i uint64, indices []uint64) (*ristretto.Scalar, error) {
	xi := uint64ToScalar(i)
	var num, den ristretto.Scalar
	num.SetOne()
	den.SetOne()
	skipped := false
	for _, j := range indices {
		if j == i && !skipped {
			skipped = true
			continue
		}
		xj := uint64ToScalar(j)
		var diff ristretto.Scalar
		diff.Sub(xj, xi)
		if isZeroScalar(&diff) {
			return nil, fmt.Errorf("LagrangeCoefficient index %d collides with %d: %w", j, i, ErrReconstruction)
		}
		num.Mul(&num, xj)
		den.Mul(&den, &diff)
	}
	if isZeroScalar(&den) {
		return nil, fmt.Errorf("LagrangeCoefficient non-invertible denominator for %d: %w", i, ErrReconstruction)
	}
	var inv, l ristretto.Scalar
	inv.Inverse(&den)
	return l.Mul(&num, &inv), nil
}

// Reconstruct interpolates Σ L_i(0)·S_i, which is secret·G when indices holds
// at least threshold genuine indices of the same sharing. With fewer shares
// the result is a wrong point and no error is reported; Combiner enforces the
// threshold.
func Reconstruct(shares []*ristretto.Point, indices []uint64) (*ristretto.Point, error) {
	if len(shares) != len(indices) {
		return nil, fmt.Errorf("Reconstruct shares %d, indices %d: %w", len(shares), len(indices), ErrInvalidParameters)
	}
	if err := validateIndices(indices); err != nil {
		return nil, err
	}

	coefficients := make([]*ristretto.Scalar, len(indices))
	for k, i := range indices {
		if shares[k] == nil {
			return nil, fmt.Errorf("Reconstruct nil share for index %d: %w", i, ErrInvalidParameters)
		}
		l, err := LagrangeCoefficient(i, indices)
		if err != nil {
			return nil, err
		}
		coefficients[k] = l
	}
	return multiscalarMul(coefficients, shares), nil
}

func validateIndices(indices []uint64) error {
	if len(indices) == 0 {
		return fmt.Errorf("validateIndices empty index set: %w", ErrInvalidParameters)
	}
	seen := make(map[uint64]bool, len(indices))
	for _, i := range indices {
		if i == 0 {
			return fmt.Errorf("validateIndices index 0: %w", ErrInvalidParameters)
		}
		if seen[i] {
			return fmt.Errorf("validateIndices duplicate index %d: %w", i, ErrInvalidParameters)
		}
		seen[i] = true
	}
	return nil
}

// Combiner collects decrypted shares for one published bundle and recovers
// secret·G once enough of them verify. The bundle itself is verified when the
// combiner is created, so every t-subset of accepted shares yields the same
// point.
type Combiner struct {
	Params     *Parameters
	Bundle     *PublicBundle
	PublicKeys []*ristretto.Point
}

func NewCombiner(params *Parameters, bundle *PublicBundle, publicKeys []*ristretto.Point) (*Combiner, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := bundle.Validate(); err != nil {
		return nil, err
	}
	if len(publicKeys) != bundle.Participants() {
		return nil, fmt.Errorf("NewCombiner public keys %d, participants %d: %w", len(publicKeys), bundle.Participants(), ErrInvalidParameters)
	}
	ok, err := VerifyBundle(params, bundle, publicKeys)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Warnw("pvss bundle rejected", "threshold", bundle.Threshold(), "participants", bundle.Participants())
		return nil, fmt.Errorf("NewCombiner bundle proof rejected: %w", ErrProofVerificationFailed)
	}
	return &Combiner{
		Params:     params,
		Bundle:     bundle,
		PublicKeys: publicKeys,
	}, nil
}

// Combine requires at least threshold shares with distinct indices in
// [1, n]. All proofs must verify, otherwise nothing is reconstructed.
func (c *Combiner) Combine(shares []*DecryptedShare) (*ristretto.Point, error) {
	t, n := c.Bundle.Threshold(), c.Bundle.Participants()
	if len(shares) < t {
		return nil, fmt.Errorf("Combine shares %d below threshold %d: %w", len(shares), t, ErrInvalidParameters)
	}

	indices := make([]uint64, len(shares))
	points := make([]*ristretto.Point, len(shares))
	encrypted := make([]*ristretto.Point, len(shares))
	publicKeys := make([]*ristretto.Point, len(shares))
	for k, s := range shares {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if s.Index > uint64(n) {
			return nil, fmt.Errorf("Combine index %d out of range [1, %d]: %w", s.Index, n, ErrInvalidParameters)
		}
		indices[k] = s.Index
		points[k] = s.S
		encrypted[k] = c.Bundle.EncryptedShares[s.Index-1]
		publicKeys[k] = c.PublicKeys[s.Index-1]
	}
	if err := validateIndices(indices); err != nil {
		return nil, err
	}

	ok, err := BatchVerifyDecryption(c.Params, shares, encrypted, publicKeys)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Warnw("decrypted shares rejected", "shares", len(shares))
		return nil, fmt.Errorf("Combine decrypted shares rejected: %w", ErrProofVerificationFailed)
	}

	secret, err := Reconstruct(points, indices)
	if err != nil {
		return nil, err
	}
	log.Infow("combined pvss secret", "shares", len(shares), "threshold", t, "participants", n)
	return secret, nil
}

// NewSecret encodes a big-endian message of at most 32 bytes as a scalar.
// Messages that do not fit below ℓ are rejected rather than reduced.
func NewSecret(message []byte) (*ristretto.Scalar, error) {
	if len(message) > 32 {
		return nil, fmt.Errorf("NewSecret message too long %d: %w", len(message), ErrInvalidParameters)
	}
	le := make([]byte, 32)
	for i := range message {
		le[i] = message[len(message)-1-i]
	}
	return scalarFromBytes(le)
}
