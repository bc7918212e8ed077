package pvss

import (
	"fmt"

	"github.com/MixinNetwork/pvss-go/log"
	"github.com/bwesterb/go-ristretto"
)

// Dealer splits a secret among the holders of PublicKeys so that any
// Threshold of them can recover secret·G.
type Dealer struct {
	Params     *Parameters
	Threshold  int
	PublicKeys []*ristretto.Point
}

func NewDealer(params *Parameters, threshold int, publicKeys []*ristretto.Point) (*Dealer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if threshold < 1 {
		return nil, fmt.Errorf("NewDealer InvalidThreshold %d: %w", threshold, ErrInvalidParameters)
	}
	if len(publicKeys) <= threshold {
		return nil, fmt.Errorf("NewDealer participants %d not above threshold %d: %w", len(publicKeys), threshold, ErrInvalidParameters)
	}
	if err := validatePublicKeys(publicKeys); err != nil {
		return nil, err
	}

	keys := make([]*ristretto.Point, len(publicKeys))
	for i, y := range publicKeys {
		keys[i] = clonePoint(y)
	}
	return &Dealer{
		Params:     params,
		Threshold:  threshold,
		PublicKeys: keys,
	}, nil
}

func validatePublicKeys(publicKeys []*ristretto.Point) error {
	for i, y := range publicKeys {
		if y == nil || isIdentity(y) {
			return fmt.Errorf("InvalidPublicKey %d: %w", i+1, ErrInvalidParameters)
		}
	}
	return nil
}

// Deal shares secret and returns the public bundle. The polynomial and the
// plain shares are dropped before returning.
func (d *Dealer) Deal(secret *ristretto.Scalar) (*PublicBundle, error) {
	poly, err := GeneratePolynomial(d.Threshold, secret)
	if err != nil {
		return nil, err
	}
	commitments := poly.Commit(d.Params.H)
	shares, err := poly.Shares(len(d.PublicKeys))
	if err != nil {
		return nil, err
	}
	encrypted, err := EncryptShares(d.PublicKeys, shares)
	if err != nil {
		return nil, err
	}

	xs := EvaluateCommitments(commitments, len(shares))
	proof, err := ProveDLEQBatch(d.Params, d.Params.H, d.PublicKeys, xs, encrypted, shares)
	if err != nil {
		return nil, err
	}

	log.Debugw("dealt pvss bundle", "threshold", d.Threshold, "participants", len(d.PublicKeys))
	return &PublicBundle{
		Commitments:     commitments,
		EncryptedShares: encrypted,
		Proof:           proof,
	}, nil
}

// VerifyBundle checks that every encrypted share is the evaluation committed
// to by the bundle, encrypted under the matching public key.
func VerifyBundle(params *Parameters, bundle *PublicBundle, publicKeys []*ristretto.Point) (bool, error) {
	if err := params.Validate(); err != nil {
		return false, err
	}
	if err := bundle.Validate(); err != nil {
		return false, err
	}
	n := bundle.Participants()
	if len(publicKeys) != n {
		return false, fmt.Errorf("VerifyBundle public keys %d, encrypted shares %d: %w", len(publicKeys), n, ErrInvalidParameters)
	}
	if err := validatePublicKeys(publicKeys); err != nil {
		return false, err
	}

	xs := make([]*ristretto.Point, n)
	err := params.forEach(n, func(i int) error {
		xs[i] = EvaluateCommitment(bundle.Commitments, uint64(i+1))
		return nil
	})
	if err != nil {
		return false, err
	}
	return VerifyDLEQBatch(params, params.H, publicKeys, xs, bundle.EncryptedShares, bundle.Proof)
}
