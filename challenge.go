package pvss

import (
	"encoding/binary"

	"github.com/bwesterb/go-ristretto"
	"github.com/dchest/blake2b"
	"github.com/gtank/merlin"
)

const (
	DLEQ_CHALLENGE_DOMAIN_TAG       = "pvss_dleq"
	DLEQ_BATCH_CHALLENGE_DOMAIN_TAG = "pvss_dleq_batch"
	TRANSCRIPT_PROTOCOL_LABEL       = "pvss_transcript"
)

// Challenger derives a Fiat-Shamir challenge from ordered lists of group
// elements. Implementations must bind the domain, the number of lists, each
// list length and every element, so that distinct inputs never share an
// encoding.
type Challenger interface {
	Challenge(domain string, lists ...[]*ristretto.Point) *ristretto.Scalar
}

// Blake2bChallenger hashes with BLAKE2b-512 and reduces the digest mod ℓ.
type Blake2bChallenger struct{}

func (Blake2bChallenger) Challenge(domain string, lists ...[]*ristretto.Point) *ristretto.Scalar {
	hash := blake2b.New512()
	hash.Write(lengthPrefix(uint64(len(domain))))
	hash.Write([]byte(domain))
	hash.Write(lengthPrefix(uint64(len(lists))))
	for _, list := range lists {
		hash.Write(lengthPrefix(uint64(len(list))))
		for _, p := range list {
			hash.Write(p.Bytes())
		}
	}
	return fromBytesModOrderWide(hash.Sum(nil))
}

// TranscriptChallenger feeds the same framing into a merlin transcript. Merlin
// labels every message with its length, so the framing stays injective.
type TranscriptChallenger struct{}

func (TranscriptChallenger) Challenge(domain string, lists ...[]*ristretto.Point) *ristretto.Scalar {
	t := merlin.NewTranscript(TRANSCRIPT_PROTOCOL_LABEL)
	appendBytes([]byte("dom-sep"), []byte(domain), t)
	appendInt64("lists", uint64(len(lists)), t)
	for _, list := range lists {
		appendInt64("len", uint64(len(list)), t)
		for _, p := range list {
			appendPoint("element", p, t)
		}
	}
	return ChallengeScalar("challenge", t)
}

func lengthPrefix(n uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, n)
	return buf
}

func appendInt64(label string, i uint64, t *merlin.Transcript) {
	appendBytes([]byte(label), lengthPrefix(i), t)
}

func appendPoint(label string, p *ristretto.Point, t *merlin.Transcript) {
	appendBytes([]byte(label), p.Bytes(), t)
}

func appendBytes(field, data []byte, t *merlin.Transcript) {
	t.AppendMessage(field, data)
}

func ChallengeScalar(label string, t *merlin.Transcript) *ristretto.Scalar {
	data := t.ExtractBytes([]byte(label), 64)
	return fromBytesModOrderWide(data)
}
