package pvss

import (
	"fmt"

	"github.com/bwesterb/go-ristretto"
	"golang.org/x/crypto/sha3"
)

const COMMITMENT_GENERATOR_DOMAIN_TAG = "pvss_commitment_generator"

// Parameters is the public setup shared by dealer, participants and
// verifiers. G is the base for key pairs and decrypted shares, H the base
// for commitments. Nobody may know log_G(H).
type Parameters struct {
	G          *ristretto.Point
	H          *ristretto.Point
	Challenger Challenger
	// Concurrency bounds the goroutines used for per-index work in batch
	// proofs. Values below 2 keep everything on the calling goroutine.
	Concurrency int
}

// DefaultParameters uses the Ristretto base point as G and derives H from it
// by hashing, so H is a nothing-up-my-sleeve point.
func DefaultParameters() *Parameters {
	var base ristretto.Point
	base.SetBase()

	return &Parameters{
		G:           &base,
		H:           hashToPoint(COMMITMENT_GENERATOR_DOMAIN_TAG, base.Bytes()),
		Challenger:  Blake2bChallenger{},
		Concurrency: 1,
	}
}

func NewParameters(g, h *ristretto.Point, challenger Challenger) (*Parameters, error) {
	if challenger == nil {
		challenger = Blake2bChallenger{}
	}
	p := &Parameters{
		G:           g,
		H:           h,
		Challenger:  challenger,
		Concurrency: 1,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parameters) Validate() error {
	if p == nil || p.G == nil || p.H == nil {
		return fmt.Errorf("Parameters missing generator: %w", ErrInvalidParameters)
	}
	if p.Challenger == nil {
		return fmt.Errorf("Parameters missing challenger: %w", ErrInvalidParameters)
	}
	if isIdentity(p.G) || isIdentity(p.H) {
		return fmt.Errorf("Parameters identity generator: %w", ErrInvalidParameters)
	}
	if p.G.Equals(p.H) {
		return fmt.Errorf("Parameters G equals H: %w", ErrInvalidParameters)
	}
	return nil
}

func hashToPoint(domain string, data []byte) *ristretto.Point {
	h := sha3.New512()
	h.Write([]byte(domain))
	h.Write(data)
	return pointFromUniformBytes(h.Sum(nil))
}
