package pvss

import (
	"errors"
	"testing"

	"github.com/bwesterb/go-ristretto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSession(t *testing.T, params *Parameters, m *ristretto.Scalar) {
	assert := assert.New(t)
	s := newSession(t, params, 3, 4, m)

	ok, err := VerifyBundle(params, s.bundle, s.publicKeys)
	require.NoError(t, err)
	require.True(t, ok)

	shares := s.decryptAll(t)
	ok, err = BatchVerifyDecryption(params, shares, s.bundle.EncryptedShares, s.publicKeys)
	assert.Nil(err)
	assert.True(ok)

	var expected ristretto.Point
	expected.ScalarMult(params.G, m)

	combiner, err := NewCombiner(params, s.bundle, s.publicKeys)
	require.NoError(t, err)
	first, err := combiner.Combine(shares[:3])
	assert.Nil(err)
	assert.True(first.Equals(&expected))
	last, err := combiner.Combine(shares[1:])
	assert.Nil(err)
	assert.True(last.Equals(&expected))
	assert.Equal(SecretKey(first), SecretKey(last))

	_, err = combiner.Combine(shares[:2])
	assert.True(errors.Is(err, ErrInvalidParameters))
}

func TestPVSS(t *testing.T) {
	m, err := NewSecret([]byte("This is a test"))
	require.NoError(t, err)

	var minusOne ristretto.Scalar
	minusOne.Sub(uint64ToScalar(0), uint64ToScalar(1))

	merlin := DefaultParameters()
	merlin.Challenger = TranscriptChallenger{}
	concurrent := DefaultParameters()
	concurrent.Concurrency = 8

	for name, tc := range map[string]struct {
		params *Parameters
		m      *ristretto.Scalar
	}{
		"message":       {DefaultParameters(), m},
		"order minus 1": {DefaultParameters(), &minusOne},
		"zero":          {DefaultParameters(), uint64ToScalar(0)},
		"merlin":        {merlin, m},
		"concurrent":    {concurrent, m},
	} {
		t.Run(name, func(t *testing.T) {
			runSession(t, tc.params, tc.m)
		})
	}
}

func TestPVSSChallengerMismatch(t *testing.T) {
	assert := assert.New(t)
	s := newSession(t, DefaultParameters(), 2, 3, nil)

	// a bundle proven under one challenge hash does not verify under another
	other := DefaultParameters()
	other.Challenger = TranscriptChallenger{}
	ok, err := VerifyBundle(other, s.bundle, s.publicKeys)
	assert.Nil(err)
	assert.False(ok)
}

func TestPVSSDistinctBundles(t *testing.T) {
	assert := assert.New(t)
	params := DefaultParameters()
	m := randomScalar()

	a := newSession(t, params, 2, 3, m)
	b := newSession(t, params, 2, 3, m)

	// C_0 = m·H is shared, the random coefficients are not
	assert.True(a.bundle.Commitments[0].Equals(b.bundle.Commitments[0]))
	assert.False(a.bundle.Commitments[1].Equals(b.bundle.Commitments[1]))

	// shares from one session do not combine under the other bundle
	shares := a.decryptAll(t)
	combiner, err := NewCombiner(params, b.bundle, b.publicKeys)
	require.NoError(t, err)
	_, err = combiner.Combine(shares[:2])
	assert.True(errors.Is(err, ErrProofVerificationFailed))
}
