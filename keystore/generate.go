package keystore

import (
	"crypto/rand"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultSecretSize is the secret length used by Generate when size is zero.
const DefaultSecretSize = 32

// Generate mints a key with a random UUID identifier and size random bytes
// of secret.
func Generate(size int) (Key, error) {
	if size < 0 {
		return Key{}, errors.Errorf("keystore: invalid secret size %d", size)
	}

	if size == 0 {
		size = DefaultSecretSize
	}

	secret := make([]byte, size)
	if _, err := rand.Read(secret); err != nil {
		return Key{}, errors.Wrap(err, "keystore: read secret entropy")
	}

	return Key{ID: uuid.NewString(), Secret: secret}, nil
}
