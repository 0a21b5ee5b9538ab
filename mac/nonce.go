package mac

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// nonceSize is the number of random bytes used to generate a nonce.
const nonceSize = 8

// GenerateNonce returns a fresh nonce drawn from crypto/rand. The value is
// 8 random bytes encoded as padded standard base64 (12 characters).
func GenerateNonce() (string, error) {
	return readNonce(rand.Reader)
}

// NewNonceGenerator returns a nonce function that draws its entropy from r.
// A nil r selects crypto/rand.
func NewNonceGenerator(r io.Reader) func() (string, error) {
	if r == nil {
		return GenerateNonce
	}

	return func() (string, error) {
		return readNonce(r)
	}
}

func readNonce(r io.Reader) (string, error) {
	b := make([]byte, nonceSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("mac: read nonce entropy: %w", err)
	}

	return base64.StdEncoding.EncodeToString(b), nil
}
