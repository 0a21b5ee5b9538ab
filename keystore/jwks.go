package keystore

import (
	"encoding/json"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/pkg/errors"
)

// ParseJWKS decodes a JSON Web Key Set. Every key must be a symmetric (oct)
// key carrying a kid, which becomes the MAC key identifier.
func ParseJWKS(data []byte) (*Static, error) {
	set, err := jwk.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "keystore: decode jwks")
	}

	keys := make([]Key, 0, set.Len())

	for i := 0; i < set.Len(); i++ {
		key, ok := set.Key(i)
		if !ok {
			continue
		}

		kid, ok := key.KeyID()
		if !ok || kid == "" {
			return nil, errors.Errorf("keystore: jwks key %d has no kid", i)
		}

		var secret []byte
		if err := jwk.Export(key, &secret); err != nil {
			return nil, errors.Wrapf(err, "keystore: jwks key %q is not a symmetric key", kid)
		}

		keys = append(keys, Key{ID: kid, Secret: secret})
	}

	return NewStatic(keys...)
}

// EncodeJWKS renders keys as a JSON Web Key Set of oct keys.
func EncodeJWKS(keys ...Key) ([]byte, error) {
	set := jwk.NewSet()

	for _, k := range keys {
		key, err := jwk.Import(k.Secret)
		if err != nil {
			return nil, errors.Wrapf(err, "keystore: import key %q", k.ID)
		}

		if err := key.Set(jwk.KeyIDKey, k.ID); err != nil {
			return nil, errors.Wrapf(err, "keystore: set kid %q", k.ID)
		}

		if err := set.AddKey(key); err != nil {
			return nil, errors.Wrapf(err, "keystore: add key %q", k.ID)
		}
	}

	out, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "keystore: encode jwks")
	}

	return out, nil
}
