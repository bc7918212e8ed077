package main

import (
	"encoding/hex"
	"fmt"

	pvss "github.com/MixinNetwork/pvss-go"
	"github.com/MixinNetwork/pvss-go/log"
	"github.com/bwesterb/go-ristretto"
)

type simulation struct {
	Bundle    *pvss.PublicBundle
	Expected  *ristretto.Point
	Recovered *ristretto.Point
}

func parameters(cfg *Config) *pvss.Parameters {
	params := pvss.DefaultParameters()
	if cfg.Challenge == "merlin" {
		params.Challenger = pvss.TranscriptChallenger{}
	}
	params.Concurrency = cfg.Concurrency
	return params
}

func secret(cfg *Config) (*ristretto.Scalar, error) {
	if cfg.Secret == "" {
		var s ristretto.Scalar
		return s.Rand(), nil
	}
	buf, err := hex.DecodeString(cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("invalid secret hex: %w", err)
	}
	return pvss.NewSecret(buf)
}

// simulate runs one full session: every participant decrypts, and the secret
// is reconstructed from the first and from the last threshold shares.
func simulate(cfg *Config) (*simulation, error) {
	params := parameters(cfg)
	m, err := secret(cfg)
	if err != nil {
		return nil, err
	}

	participants := make([]*pvss.Participant, cfg.Participants)
	publicKeys := make([]*ristretto.Point, cfg.Participants)
	for i := range participants {
		p, err := pvss.NewParticipant(params, uint64(i+1), pvss.GenerateKeyPair(params))
		if err != nil {
			return nil, err
		}
		participants[i] = p
		publicKeys[i] = p.Key.Public
	}

	dealer, err := pvss.NewDealer(params, cfg.Threshold, publicKeys)
	if err != nil {
		return nil, err
	}
	bundle, err := dealer.Deal(m)
	if err != nil {
		return nil, err
	}
	ok, err := pvss.VerifyBundle(params, bundle, publicKeys)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("bundle rejected: %w", pvss.ErrProofVerificationFailed)
	}
	log.Infow("bundle verified", "participants", cfg.Participants, "threshold", cfg.Threshold)

	shares := make([]*pvss.DecryptedShare, len(participants))
	for i, p := range participants {
		y, err := p.EncryptedShare(bundle)
		if err != nil {
			return nil, err
		}
		shares[i], err = p.DecryptAndProve(y)
		if err != nil {
			return nil, err
		}
	}

	combiner, err := pvss.NewCombiner(params, bundle, publicKeys)
	if err != nil {
		return nil, err
	}
	first, err := combiner.Combine(shares[:cfg.Threshold])
	if err != nil {
		return nil, err
	}
	last, err := combiner.Combine(shares[len(shares)-cfg.Threshold:])
	if err != nil {
		return nil, err
	}
	if !first.Equals(last) {
		return nil, fmt.Errorf("subsets disagree on the secret: %w", pvss.ErrReconstruction)
	}

	var expected ristretto.Point
	expected.ScalarMult(params.G, m)
	return &simulation{
		Bundle:    bundle,
		Expected:  &expected,
		Recovered: first,
	}, nil
}
