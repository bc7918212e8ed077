package pvss

import (
	"fmt"

	"github.com/MixinNetwork/pvss-go/log"
	"github.com/bwesterb/go-ristretto"
)

// DecryptShare returns S_i = x_i^-1·Y_i.
func DecryptShare(private *ristretto.Scalar, encrypted *ristretto.Point) (*ristretto.Point, error) {
	if private == nil || isZeroScalar(private) {
		return nil, fmt.Errorf("DecryptShare private key not invertible: %w", ErrDecryption)
	}
	if encrypted == nil {
		return nil, fmt.Errorf("DecryptShare nil encrypted share: %w", ErrInvalidParameters)
	}
	var inv ristretto.Scalar
	inv.Inverse(private)
	var s ristretto.Point
	return s.ScalarMult(encrypted, &inv), nil
}

// Participant is the holder of the Index-th key pair. NewParticipant keeps
// its own copy of the key.
type Participant struct {
	Params *Parameters
	Index  uint64
	Key    *KeyPair
}

func NewParticipant(params *Parameters, index uint64, key *KeyPair) (*Participant, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if index == 0 {
		return nil, fmt.Errorf("NewParticipant index 0: %w", ErrInvalidParameters)
	}
	if key == nil || key.Private == nil {
		return nil, fmt.Errorf("NewParticipant missing key: %w", ErrInvalidParameters)
	}
	public := PublicKey(params, key.Private)
	if key.Public != nil && !key.Public.Equals(public) {
		return nil, fmt.Errorf("NewParticipant public key does not match private key: %w", ErrInvalidParameters)
	}
	return &Participant{
		Params: params,
		Index:  index,
		Key:    &KeyPair{Private: cloneScalar(key.Private), Public: public},
	}, nil
}

// EncryptedShare picks this participant's share out of a bundle.
func (p *Participant) EncryptedShare(bundle *PublicBundle) (*ristretto.Point, error) {
	if bundle == nil || p.Index > uint64(len(bundle.EncryptedShares)) {
		return nil, fmt.Errorf("EncryptedShare index %d out of range: %w", p.Index, ErrInvalidParameters)
	}
	return bundle.EncryptedShares[p.Index-1], nil
}

func (p *Participant) Decrypt(encrypted *ristretto.Point) (*ristretto.Point, error) {
	return DecryptShare(p.Key.Private, encrypted)
}

// DecryptAndProve decrypts Y_i and proves with the same exponent x_i that
// y_i = x_i·G and Y_i = x_i·S_i.
func (p *Participant) DecryptAndProve(encrypted *ristretto.Point) (*DecryptedShare, error) {
	s, err := p.Decrypt(encrypted)
	if err != nil {
		return nil, err
	}
	y := PublicKey(p.Params, p.Key.Private)
	proof := ProveDLEQ(p.Params, p.Params.G, s, y, encrypted, p.Key.Private)
	return &DecryptedShare{
		Index: p.Index,
		S:     s,
		Proof: proof,
	}, nil
}

// VerifyDecryption checks a decrypted share against the encrypted share and
// the public key it claims to come from.
func VerifyDecryption(params *Parameters, share *DecryptedShare, encrypted, publicKey *ristretto.Point) (bool, error) {
	if err := share.Validate(); err != nil {
		return false, err
	}
	if encrypted == nil || publicKey == nil {
		return false, fmt.Errorf("VerifyDecryption missing encrypted share or public key: %w", ErrInvalidParameters)
	}
	return VerifyDLEQ(params, params.G, share.S, publicKey, encrypted, share.Proof)
}

// BatchVerifyDecryption fails closed: one bad share rejects the batch. Use
// VerifyDecryptions to find out which share is bad.
func BatchVerifyDecryption(params *Parameters, shares []*DecryptedShare, encrypted, publicKeys []*ristretto.Point) (bool, error) {
	if len(shares) != len(encrypted) || len(shares) != len(publicKeys) {
		return false, fmt.Errorf("BatchVerifyDecryption shares %d, encrypted %d, public keys %d: %w", len(shares), len(encrypted), len(publicKeys), ErrInvalidParameters)
	}
	for i := range shares {
		ok, err := VerifyDecryption(params, shares[i], encrypted[i], publicKeys[i])
		if err != nil {
			return false, err
		}
		if !ok {
			log.Debugw("decryption batch rejected", "index", shares[i].Index)
			return false, nil
		}
	}
	return true, nil
}

// VerifyDecryptions verifies every share independently and reports one
// result per share.
func VerifyDecryptions(params *Parameters, shares []*DecryptedShare, encrypted, publicKeys []*ristretto.Point) ([]bool, error) {
	if len(shares) != len(encrypted) || len(shares) != len(publicKeys) {
		return nil, fmt.Errorf("VerifyDecryptions shares %d, encrypted %d, public keys %d: %w", len(shares), len(encrypted), len(publicKeys), ErrInvalidParameters)
	}
	results := make([]bool, len(shares))
	err := params.forEach(len(shares), func(i int) error {
		ok, err := VerifyDecryption(params, shares[i], encrypted[i], publicKeys[i])
		results[i] = ok
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
