package pvss

import (
	"errors"
	"fmt"

	"github.com/MixinNetwork/pvss-go/log"
	"github.com/bwesterb/go-ristretto"
)

var errRelationRejected = errors.New("relation rejected")

// ProveDLEQ proves knowledge of x with h1 = x·g1 and h2 = x·g2:
// a1 = w·g1, a2 = w·g2, c = H(h1, h2, a1, a2), r = w - c·x.
func ProveDLEQ(params *Parameters, g1, g2, h1, h2 *ristretto.Point, x *ristretto.Scalar) *DLEQProof {
	w := randomScalar()
	var a1, a2 ristretto.Point
	a1.ScalarMult(g1, w)
	a2.ScalarMult(g2, w)

	c := params.Challenger.Challenge(DLEQ_CHALLENGE_DOMAIN_TAG,
		[]*ristretto.Point{h1}, []*ristretto.Point{h2}, []*ristretto.Point{&a1}, []*ristretto.Point{&a2})

	return &DLEQProof{
		C:  c,
		R:  dleqResponse(w, c, x),
		A1: &a1,
		A2: &a2,
	}
}

// VerifyDLEQ recomputes the challenge and both commitments. A malformed
// proof is an error, a wrong one is just false.
func VerifyDLEQ(params *Parameters, g1, g2, h1, h2 *ristretto.Point, proof *DLEQProof) (bool, error) {
	if err := proof.Validate(); err != nil {
		return false, err
	}
	c := params.Challenger.Challenge(DLEQ_CHALLENGE_DOMAIN_TAG,
		[]*ristretto.Point{h1}, []*ristretto.Point{h2}, []*ristretto.Point{proof.A1}, []*ristretto.Point{proof.A2})
	if !c.Equals(proof.C) {
		log.Debugw("dleq proof rejected", "reason", "challenge mismatch")
		return false, nil
	}
	if !verifyRelation(g1, g2, h1, h2, proof) {
		log.Debugw("dleq proof rejected", "reason", "equation mismatch")
		return false, nil
	}
	return true, nil
}

// ProveDLEQBatch proves log_h(X_i) == log_{y_i}(Y_i) == share_i for every i
// with a single challenge over the full vectors. Commitments are computed in
// parallel, then hashed together, then the responses are computed in
// parallel again.
func ProveDLEQBatch(params *Parameters, h *ristretto.Point, ys, xs, bigYs []*ristretto.Point, shares []*ristretto.Scalar) (*BatchDLEQProof, error) {
	n := len(shares)
	if len(ys) != n || len(xs) != n || len(bigYs) != n {
		return nil, fmt.Errorf("ProveDLEQBatch WrongLength y %d, X %d, Y %d, shares %d: %w", len(ys), len(xs), len(bigYs), n, ErrInvalidParameters)
	}

	ws := make([]*ristretto.Scalar, n)
	a1s := make([]*ristretto.Point, n)
	a2s := make([]*ristretto.Point, n)
	err := params.forEach(n, func(i int) error {
		ws[i] = randomScalar()
		var a1, a2 ristretto.Point
		a1s[i] = a1.ScalarMult(h, ws[i])
		a2s[i] = a2.ScalarMult(ys[i], ws[i])
		return nil
	})
	if err != nil {
		return nil, err
	}

	c := params.Challenger.Challenge(DLEQ_BATCH_CHALLENGE_DOMAIN_TAG, xs, bigYs, a1s, a2s)

	rs := make([]*ristretto.Scalar, n)
	err = params.forEach(n, func(i int) error {
		rs[i] = dleqResponse(ws[i], c, shares[i])
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &BatchDLEQProof{
		C:      c,
		RList:  rs,
		A1List: a1s,
		A2List: a2s,
	}, nil
}

// VerifyDLEQBatch checks a batch proof against already evaluated X_i. The
// shared challenge is checked once; afterwards every relation must hold.
func VerifyDLEQBatch(params *Parameters, h *ristretto.Point, ys, xs, bigYs []*ristretto.Point, proof *BatchDLEQProof) (bool, error) {
	n := len(ys)
	if len(xs) != n || len(bigYs) != n {
		return false, fmt.Errorf("VerifyDLEQBatch WrongLength y %d, X %d, Y %d: %w", n, len(xs), len(bigYs), ErrInvalidParameters)
	}
	if h == nil {
		return false, fmt.Errorf("VerifyDLEQBatch nil generator: %w", ErrInvalidParameters)
	}
	for i := 0; i < n; i++ {
		if ys[i] == nil || xs[i] == nil || bigYs[i] == nil {
			return false, fmt.Errorf("VerifyDLEQBatch nil element %d: %w", i, ErrInvalidParameters)
		}
	}
	if err := proof.Validate(n); err != nil {
		return false, err
	}

	c := params.Challenger.Challenge(DLEQ_BATCH_CHALLENGE_DOMAIN_TAG, xs, bigYs, proof.A1List, proof.A2List)
	if !c.Equals(proof.C) {
		log.Debugw("batch dleq proof rejected", "reason", "challenge mismatch")
		return false, nil
	}

	err := params.forEach(n, func(i int) error {
		if !verifyRelation(h, ys[i], xs[i], bigYs[i], proof.Relation(i)) {
			log.Debugw("batch dleq proof rejected", "reason", "equation mismatch", "index", i+1)
			return errRelationRejected
		}
		return nil
	})
	if errors.Is(err, errRelationRejected) {
		return false, nil
	}
	return err == nil, err
}

// verifyRelation checks r·g1 + c·h1 == a1 and r·g2 + c·h2 == a2 for an
// already trusted challenge.
func verifyRelation(g1, g2, h1, h2 *ristretto.Point, proof *DLEQProof) bool {
	a1 := multiscalarMul([]*ristretto.Scalar{proof.R, proof.C}, []*ristretto.Point{g1, h1})
	a2 := multiscalarMul([]*ristretto.Scalar{proof.R, proof.C}, []*ristretto.Point{g2, h2})
	return a1.Equals(proof.A1) && a2.Equals(proof.A2)
}

func dleqResponse(w, c, x *ristretto.Scalar) *ristretto.Scalar {
	var cx, r ristretto.Scalar
	cx.Mul(c, x)
	return r.Sub(w, &cx)
}
