package pvss

import (
	"fmt"

	"github.com/bwesterb/go-ristretto"
)

// DLEQProof proves log_{g1}(h1) == log_{g2}(h2).
type DLEQProof struct {
	C  *ristretto.Scalar // challenge
	R  *ristretto.Scalar // response
	A1 *ristretto.Point  // w·g1
	A2 *ristretto.Point  // w·g2
}

func (p *DLEQProof) Validate() error {
	if p == nil || p.C == nil || p.R == nil || p.A1 == nil || p.A2 == nil {
		return fmt.Errorf("DLEQProof incomplete: %w", ErrInvalidParameters)
	}
	return nil
}

// BatchDLEQProof proves n relations under one shared challenge C.
type BatchDLEQProof struct {
	C      *ristretto.Scalar
	RList  []*ristretto.Scalar
	A1List []*ristretto.Point
	A2List []*ristretto.Point
}

// Validate checks that the proof carries exactly n fully populated relations.
func (p *BatchDLEQProof) Validate(n int) error {
	if p == nil || p.C == nil {
		return fmt.Errorf("BatchDLEQProof missing challenge: %w", ErrInvalidParameters)
	}
	if len(p.RList) != n || len(p.A1List) != n || len(p.A2List) != n {
		return fmt.Errorf("BatchDLEQProof WrongLength r %d, a1 %d, a2 %d, want %d: %w", len(p.RList), len(p.A1List), len(p.A2List), n, ErrInvalidParameters)
	}
	for i := 0; i < n; i++ {
		if p.RList[i] == nil || p.A1List[i] == nil || p.A2List[i] == nil {
			return fmt.Errorf("BatchDLEQProof nil entry %d: %w", i, ErrInvalidParameters)
		}
	}
	return nil
}

// Relation returns the i-th relation as a standalone proof sharing C.
func (p *BatchDLEQProof) Relation(i int) *DLEQProof {
	return &DLEQProof{
		C:  p.C,
		R:  p.RList[i],
		A1: p.A1List[i],
		A2: p.A2List[i],
	}
}

// PublicBundle is everything a dealer publishes. Participant i (1-based)
// owns EncryptedShares[i-1].
type PublicBundle struct {
	Commitments     []*ristretto.Point
	EncryptedShares []*ristretto.Point
	Proof           *BatchDLEQProof
}

func (b *PublicBundle) Threshold() int {
	return len(b.Commitments)
}

func (b *PublicBundle) Participants() int {
	return len(b.EncryptedShares)
}

func (b *PublicBundle) Validate() error {
	if b == nil {
		return fmt.Errorf("PublicBundle nil: %w", ErrInvalidParameters)
	}
	t, n := b.Threshold(), b.Participants()
	if t < 1 || n <= t {
		return fmt.Errorf("PublicBundle threshold %d, participants %d: %w", t, n, ErrInvalidParameters)
	}
	for j, c := range b.Commitments {
		if c == nil {
			return fmt.Errorf("PublicBundle nil commitment %d: %w", j, ErrInvalidParameters)
		}
	}
	for i, y := range b.EncryptedShares {
		if y == nil {
			return fmt.Errorf("PublicBundle nil encrypted share %d: %w", i, ErrInvalidParameters)
		}
	}
	return b.Proof.Validate(n)
}

// DecryptedShare is S_i = s_i·G published by participant Index with its
// proof of correct decryption.
type DecryptedShare struct {
	Index uint64
	S     *ristretto.Point
	Proof *DLEQProof
}

func (d *DecryptedShare) Validate() error {
	if d == nil || d.S == nil {
		return fmt.Errorf("DecryptedShare incomplete: %w", ErrInvalidParameters)
	}
	if d.Index == 0 {
		return fmt.Errorf("DecryptedShare index 0: %w", ErrInvalidParameters)
	}
	return d.Proof.Validate()
}
