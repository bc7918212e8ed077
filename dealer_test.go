package pvss

import (
	"errors"
	"testing"

	"github.com/bwesterb/go-ristretto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type session struct {
	params       *Parameters
	secret       *ristretto.Scalar
	participants []*Participant
	publicKeys   []*ristretto.Point
	bundle       *PublicBundle
}

func newSession(t *testing.T, params *Parameters, threshold, n int, secret *ristretto.Scalar) *session {
	if secret == nil {
		var s ristretto.Scalar
		secret = s.Rand()
	}
	participants := make([]*Participant, n)
	publicKeys := make([]*ristretto.Point, n)
	for i := range participants {
		p, err := NewParticipant(params, uint64(i+1), GenerateKeyPair(params))
		require.NoError(t, err)
		participants[i] = p
		publicKeys[i] = p.Key.Public
	}
	dealer, err := NewDealer(params, threshold, publicKeys)
	require.NoError(t, err)
	bundle, err := dealer.Deal(secret)
	require.NoError(t, err)

	return &session{
		params:       params,
		secret:       secret,
		participants: participants,
		publicKeys:   publicKeys,
		bundle:       bundle,
	}
}

func (s *session) decryptAll(t *testing.T) []*DecryptedShare {
	shares := make([]*DecryptedShare, len(s.participants))
	for i, p := range s.participants {
		y, err := p.EncryptedShare(s.bundle)
		require.NoError(t, err)
		shares[i], err = p.DecryptAndProve(y)
		require.NoError(t, err)
	}
	return shares
}

func (s *session) expected() *ristretto.Point {
	var p ristretto.Point
	return p.ScalarMult(s.params.G, s.secret)
}

func TestNewDealer(t *testing.T) {
	assert := assert.New(t)
	params := DefaultParameters()

	keys := make([]*ristretto.Point, 4)
	for i := range keys {
		keys[i] = GenerateKeyPair(params).Public
	}

	_, err := NewDealer(params, 3, keys)
	assert.Nil(err)
	_, err = NewDealer(params, 1, keys)
	assert.Nil(err)

	// n == t is rejected even though it would be an all-or-nothing sharing
	_, err = NewDealer(params, 4, keys)
	assert.True(errors.Is(err, ErrInvalidParameters))
	_, err = NewDealer(params, 5, keys)
	assert.True(errors.Is(err, ErrInvalidParameters))
	_, err = NewDealer(params, 0, keys)
	assert.True(errors.Is(err, ErrInvalidParameters))

	var zero ristretto.Point
	zero.SetZero()
	_, err = NewDealer(params, 2, []*ristretto.Point{keys[0], &zero, keys[2]})
	assert.True(errors.Is(err, ErrInvalidParameters))
	_, err = NewDealer(params, 2, []*ristretto.Point{keys[0], nil, keys[2]})
	assert.True(errors.Is(err, ErrInvalidParameters))
}

func TestDealerKeepsOwnKeys(t *testing.T) {
	assert := assert.New(t)
	params := DefaultParameters()

	keys := make([]*ristretto.Point, 3)
	for i := range keys {
		keys[i] = GenerateKeyPair(params).Public
	}
	original := make([]*ristretto.Point, len(keys))
	for i, y := range keys {
		original[i] = clonePoint(y)
	}

	dealer, err := NewDealer(params, 2, keys)
	require.NoError(t, err)

	// the caller reuses its slice and its points after handing them over
	keys[1] = GenerateKeyPair(params).Public
	keys[0].Add(keys[0], params.G)
	assert.False(keys[0].Equals(original[0]))

	bundle, err := dealer.Deal(randomScalar())
	require.NoError(t, err)
	ok, err := VerifyBundle(params, bundle, original)
	assert.Nil(err)
	assert.True(ok)
}

func TestVerifyBundleCompleteness(t *testing.T) {
	assert := assert.New(t)

	for n := 2; n <= 7; n++ {
		for threshold := 1; threshold < n; threshold++ {
			s := newSession(t, DefaultParameters(), threshold, n, nil)
			assert.Len(s.bundle.Commitments, threshold)
			assert.Len(s.bundle.EncryptedShares, n)

			ok, err := VerifyBundle(s.params, s.bundle, s.publicKeys)
			assert.Nil(err)
			assert.True(ok, "t=%d n=%d", threshold, n)
		}
	}
}

func cloneBundle(b *PublicBundle) *PublicBundle {
	return &PublicBundle{
		Commitments:     append([]*ristretto.Point{}, b.Commitments...),
		EncryptedShares: append([]*ristretto.Point{}, b.EncryptedShares...),
		Proof: &BatchDLEQProof{
			C:      b.Proof.C,
			RList:  append([]*ristretto.Scalar{}, b.Proof.RList...),
			A1List: append([]*ristretto.Point{}, b.Proof.A1List...),
			A2List: append([]*ristretto.Point{}, b.Proof.A2List...),
		},
	}
}

func TestVerifyBundleSoundness(t *testing.T) {
	params := DefaultParameters()
	s := newSession(t, params, 3, 5, nil)

	var offset ristretto.Point
	offset.Rand()
	bump := func(p *ristretto.Point) *ristretto.Point {
		var q ristretto.Point
		return q.Add(p, &offset)
	}

	mutations := map[string]func(b *PublicBundle, i int){
		"commitment": func(b *PublicBundle, i int) {
			j := i % len(b.Commitments)
			b.Commitments[j] = bump(b.Commitments[j])
		},
		"encrypted share": func(b *PublicBundle, i int) { b.EncryptedShares[i] = bump(b.EncryptedShares[i]) },
		"c": func(b *PublicBundle, i int) {
			var one, c ristretto.Scalar
			one.SetOne()
			b.Proof.C = c.Add(b.Proof.C, &one)
		},
		"r":  func(b *PublicBundle, i int) { b.Proof.RList[i] = randomScalar() },
		"a1": func(b *PublicBundle, i int) { b.Proof.A1List[i] = bump(b.Proof.A1List[i]) },
		"a2": func(b *PublicBundle, i int) { b.Proof.A2List[i] = bump(b.Proof.A2List[i]) },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			for i := 0; i < 5; i++ {
				b := cloneBundle(s.bundle)
				mutate(b, i)
				ok, err := VerifyBundle(params, b, s.publicKeys)
				assert.Nil(err)
				assert.False(ok, "index %d", i)
			}
		})
	}

	t.Run("swapped public keys", func(t *testing.T) {
		keys := append([]*ristretto.Point{}, s.publicKeys...)
		keys[0], keys[1] = keys[1], keys[0]
		ok, err := VerifyBundle(params, s.bundle, keys)
		assert.Nil(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed", func(t *testing.T) {
		assert := assert.New(t)
		_, err := VerifyBundle(params, s.bundle, s.publicKeys[:4])
		assert.True(errors.Is(err, ErrInvalidParameters))

		b := cloneBundle(s.bundle)
		b.Proof.RList = b.Proof.RList[:4]
		_, err = VerifyBundle(params, b, s.publicKeys)
		assert.True(errors.Is(err, ErrInvalidParameters))

		b = cloneBundle(s.bundle)
		b.Proof = nil
		_, err = VerifyBundle(params, b, s.publicKeys)
		assert.True(errors.Is(err, ErrInvalidParameters))

		var zero ristretto.Point
		zero.SetZero()
		for _, bad := range []*ristretto.Point{nil, &zero} {
			keys := append([]*ristretto.Point{}, s.publicKeys...)
			keys[1] = bad
			assert.NotPanics(func() {
				ok, err := VerifyBundle(params, s.bundle, keys)
				assert.False(ok)
				assert.True(errors.Is(err, ErrInvalidParameters))
			})
		}
	})
}
