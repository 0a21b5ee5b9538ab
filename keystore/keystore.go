// Package keystore maps MAC key identifiers to shared secrets.
//
// Keys can be declared in code, loaded from a YAML key file or from a JSON
// Web Key Set of symmetric keys. A Static store's Resolve method satisfies
// mac.SecretResolver:
//
//	keys, err := keystore.Load("/etc/macauth/keys.yaml", keystore.FormatYAML)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	verifier, err := mac.NewVerifier(mac.VerifierConfig{Resolver: keys.Resolve})
package keystore

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/vitalvas/macauth/mac"
)

// ErrKeyNotFound is returned when a key identifier is not in the store. It
// wraps mac.ErrUnknownKey.
var ErrKeyNotFound = fmt.Errorf("keystore: key not found: %w", mac.ErrUnknownKey)

// Format names a key file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJWKS Format = "jwks"
)

// Key is a key identifier and its shared secret.
type Key struct {
	ID     string
	Secret []byte
}

// Static is an immutable in-memory key store.
type Static struct {
	keys map[string][]byte
}

// NewStatic builds a store from keys. Secrets are copied. A duplicate or
// empty identifier, or an empty secret, is an error.
func NewStatic(keys ...Key) (*Static, error) {
	s := &Static{keys: make(map[string][]byte, len(keys))}

	for _, k := range keys {
		if k.ID == "" {
			return nil, errors.New("keystore: empty key id")
		}

		if len(k.Secret) == 0 {
			return nil, errors.Errorf("keystore: key %q: %v", k.ID, mac.ErrEmptySecret)
		}

		if _, ok := s.keys[k.ID]; ok {
			return nil, errors.Errorf("keystore: duplicate key id %q", k.ID)
		}

		secret := make([]byte, len(k.Secret))
		copy(secret, k.Secret)
		s.keys[k.ID] = secret
	}

	return s, nil
}

// Resolve returns the secret for keyID, or ErrKeyNotFound.
func (s *Static) Resolve(_ context.Context, keyID string) ([]byte, error) {
	secret, ok := s.keys[keyID]
	if !ok {
		return nil, ErrKeyNotFound
	}

	return secret, nil
}

// IDs returns the known key identifiers in sorted order.
func (s *Static) IDs() []string {
	ids := make([]string, 0, len(s.keys))
	for id := range s.keys {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// Len returns the number of keys in the store.
func (s *Static) Len() int {
	return len(s.keys)
}

// Parse decodes a key file in the given format.
func Parse(data []byte, format Format) (*Static, error) {
	switch format {
	case FormatYAML, "":
		return ParseYAML(data)
	case FormatJWKS:
		return ParseJWKS(data)
	default:
		return nil, errors.Errorf("keystore: unknown format %q", format)
	}
}

// Load reads and decodes the key file at path.
func Load(path string, format Format) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "keystore: read key file")
	}

	return Parse(data, format)
}
