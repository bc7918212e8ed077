package pvss

import (
	"github.com/bwesterb/go-ristretto"
	"github.com/dchest/blake2b"
)

const SECRET_KEY_DOMAIN_TAG = "pvss_secret_key"

// SecretKey derives 32 bytes of key material from a reconstructed secret·G.
func SecretKey(secret *ristretto.Point) []byte {
	hash := blake2b.New256()
	hash.Write([]byte(SECRET_KEY_DOMAIN_TAG))
	hash.Write(secret.Bytes())
	return hash.Sum(nil)
}
