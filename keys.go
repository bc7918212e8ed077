package pvss

import (
	"fmt"

	"github.com/bwesterb/go-ristretto"
)

type KeyPair struct {
	Private *ristretto.Scalar
	Public  *ristretto.Point
}

// GenerateKeyPair draws x uniformly from [1, ℓ) and returns (x, x·G).
func GenerateKeyPair(params *Parameters) *KeyPair {
	x := randomNonZeroScalar()
	return &KeyPair{
		Private: x,
		Public:  PublicKey(params, x),
	}
}

func PublicKey(params *Parameters, private *ristretto.Scalar) *ristretto.Point {
	var y ristretto.Point
	return y.ScalarMult(params.G, private)
}

// EncryptShares returns Y_i = s_i·y_i for every participant.
func EncryptShares(publicKeys []*ristretto.Point, shares []*ristretto.Scalar) ([]*ristretto.Point, error) {
	if len(publicKeys) != len(shares) {
		return nil, fmt.Errorf("EncryptShares public keys %d, shares %d: %w", len(publicKeys), len(shares), ErrInvalidParameters)
	}
	encrypted := make([]*ristretto.Point, len(shares))
	for i := range shares {
		var y ristretto.Point
		encrypted[i] = y.ScalarMult(publicKeys[i], shares[i])
	}
	return encrypted, nil
}
