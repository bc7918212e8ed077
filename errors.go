package pvss

import "errors"

var (
	// ErrInvalidParameters covers threshold/participant violations, length
	// mismatches and malformed index sets.
	ErrInvalidParameters = errors.New("InvalidParameters")
	// ErrProofVerificationFailed is returned by operations that refuse to go
	// on after a DLEQ proof was rejected. Verify functions report a rejected
	// proof as false instead.
	ErrProofVerificationFailed = errors.New("ProofVerificationFailed")
	// ErrDecryption signals a private key without inverse mod ℓ.
	ErrDecryption = errors.New("DecryptionError")
	// ErrReconstruction signals a non-invertible Lagrange term.
	ErrReconstruction = errors.New("ReconstructionError")
)
