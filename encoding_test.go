package pvss

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"

	"github.com/bwesterb/go-ristretto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestBundleBinary(t *testing.T) {
	assert := assert.New(t)
	s := newSession(t, DefaultParameters(), 3, 5, nil)

	data, err := s.bundle.MarshalBinary()
	require.NoError(t, err)

	var decoded PublicBundle
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(3, decoded.Threshold())
	assert.Equal(5, decoded.Participants())
	for i := range s.bundle.EncryptedShares {
		assert.True(decoded.EncryptedShares[i].Equals(s.bundle.EncryptedShares[i]))
	}
	again, err := decoded.MarshalBinary()
	assert.Nil(err)
	assert.Equal(data, again)

	ok, err := VerifyBundle(s.params, &decoded, s.publicKeys)
	assert.Nil(err)
	assert.True(ok)

	// unknown fields are skipped
	extra := protowire.AppendTag(append([]byte{}, data...), 15, protowire.VarintType)
	extra = protowire.AppendVarint(extra, 42)
	assert.Nil(decoded.UnmarshalBinary(extra))

	err = decoded.UnmarshalBinary(data[:len(data)-1])
	assert.True(errors.Is(err, ErrInvalidParameters))
	err = decoded.UnmarshalBinary(nil)
	assert.True(errors.Is(err, ErrInvalidParameters))
}

func TestBundleBinaryNonCanonical(t *testing.T) {
	assert := assert.New(t)
	s := newSession(t, DefaultParameters(), 1, 2, nil)

	// a response scalar of 2^256-1 is not below the group order
	proof := *s.bundle.Proof
	var b []byte
	b = appendScalarField(b, fieldProofC, proof.C)
	b = protowire.AppendTag(b, fieldProofR, protowire.BytesType)
	high := make([]byte, 32)
	for i := range high {
		high[i] = 0xff
	}
	b = protowire.AppendBytes(b, high)
	b = appendScalarField(b, fieldProofR, proof.RList[1])
	for _, a := range proof.A1List {
		b = appendPointField(b, fieldProofA1, a)
	}
	for _, a := range proof.A2List {
		b = appendPointField(b, fieldProofA2, a)
	}
	var decoded BatchDLEQProof
	err := decoded.UnmarshalBinary(b)
	assert.True(errors.Is(err, ErrInvalidParameters))

	// an encoding that is not a valid ristretto point
	var c []byte
	c = protowire.AppendTag(c, fieldBundleCommitments, protowire.BytesType)
	c = protowire.AppendBytes(c, high)
	var bundle PublicBundle
	err = bundle.UnmarshalBinary(c)
	assert.True(errors.Is(err, ErrInvalidParameters))

	// points must be exactly 32 bytes
	c = protowire.AppendTag(nil, fieldBundleCommitments, protowire.BytesType)
	c = protowire.AppendBytes(c, s.bundle.Commitments[0].Bytes()[:31])
	err = bundle.UnmarshalBinary(c)
	assert.True(errors.Is(err, ErrInvalidParameters))
}

func TestScalarFromBytes(t *testing.T) {
	assert := assert.New(t)

	var minusOne, one ristretto.Scalar
	one.SetOne()
	minusOne.Sub(uint64ToScalar(0), &one)
	s, err := scalarFromBytes(minusOne.Bytes())
	assert.Nil(err)
	assert.True(s.Equals(&minusOne))

	// ℓ itself and ℓ+1 reduce to 0 and 1 and are rejected
	order, err := hex.DecodeString("edd3f55c1a631258d69cf7a2def9de1400000000000000000000000000000010")
	require.NoError(t, err)
	_, err = scalarFromBytes(order)
	assert.True(errors.Is(err, ErrInvalidParameters))
	order[0]++
	_, err = scalarFromBytes(order)
	assert.True(errors.Is(err, ErrInvalidParameters))

	_, err = scalarFromBytes(make([]byte, 31))
	assert.True(errors.Is(err, ErrInvalidParameters))
	s, err = scalarFromBytes(make([]byte, 32))
	assert.Nil(err)
	assert.True(isZeroScalar(s))
}

func TestDecryptedShareBinary(t *testing.T) {
	assert := assert.New(t)
	s := newSession(t, DefaultParameters(), 2, 3, nil)
	shares := s.decryptAll(t)

	data, err := shares[2].MarshalBinary()
	require.NoError(t, err)
	var decoded DecryptedShare
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(uint64(3), decoded.Index)
	assert.True(decoded.S.Equals(shares[2].S))

	ok, err := VerifyDecryption(s.params, &decoded, s.bundle.EncryptedShares[2], s.publicKeys[2])
	assert.Nil(err)
	assert.True(ok)

	// index sent with the wrong wire type
	bad := protowire.AppendTag(nil, fieldShareIndex, protowire.BytesType)
	bad = protowire.AppendBytes(bad, []byte{3})
	err = decoded.UnmarshalBinary(bad)
	assert.True(errors.Is(err, ErrInvalidParameters))

	_, err = (&DecryptedShare{Index: 1, S: shares[0].S}).MarshalBinary()
	assert.True(errors.Is(err, ErrInvalidParameters))
}

func TestBundleJSON(t *testing.T) {
	assert := assert.New(t)
	s := newSession(t, DefaultParameters(), 2, 4, nil)

	data, err := json.Marshal(s.bundle)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(raw["commitments"], 2)
	assert.Len(raw["encrypted_shares"], 4)
	assert.Equal(hex.EncodeToString(s.bundle.Commitments[0].Bytes()), raw["commitments"].([]any)[0])

	var decoded PublicBundle
	require.NoError(t, json.Unmarshal(data, &decoded))
	ok, err := VerifyBundle(s.params, &decoded, s.publicKeys)
	assert.Nil(err)
	assert.True(ok)

	err = json.Unmarshal([]byte(`{"commitments":["zz"]}`), &decoded)
	assert.NotNil(err)
	err = json.Unmarshal([]byte(`{"commitments":[],"encrypted_shares":[]}`), &decoded)
	assert.NotNil(err)
}

func TestDecryptedShareJSON(t *testing.T) {
	assert := assert.New(t)
	s := newSession(t, DefaultParameters(), 2, 3, nil)
	shares := s.decryptAll(t)

	data, err := json.Marshal(shares[1])
	require.NoError(t, err)
	var decoded DecryptedShare
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(uint64(2), decoded.Index)

	combiner, err := NewCombiner(s.params, s.bundle, s.publicKeys)
	require.NoError(t, err)
	secret, err := combiner.Combine([]*DecryptedShare{shares[0], &decoded})
	assert.Nil(err)
	assert.True(secret.Equals(s.expected()))

	err = json.Unmarshal([]byte(`{"index":0}`), &decoded)
	assert.NotNil(err)
}
