package keystore

import (
	"encoding/base64"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Secret encodings accepted in YAML key files.
const (
	EncodingRaw    = "raw"
	EncodingBase64 = "base64"
)

type yamlFile struct {
	Keys []yamlKey `yaml:"keys"`
}

type yamlKey struct {
	ID       string `yaml:"id"`
	Secret   string `yaml:"secret"`
	Encoding string `yaml:"encoding,omitempty"`
}

// ParseYAML decodes a key file of the form
//
//	keys:
//	  - id: client-a
//	    secret: c2VjcmV0
//	    encoding: base64
//	  - id: client-b
//	    secret: plain text secret
//
// An absent encoding means raw.
func ParseYAML(data []byte) (*Static, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "keystore: decode yaml")
	}

	keys := make([]Key, 0, len(f.Keys))

	for _, k := range f.Keys {
		secret, err := decodeSecret(k.Secret, k.Encoding)
		if err != nil {
			return nil, errors.Wrapf(err, "keystore: key %q", k.ID)
		}

		keys = append(keys, Key{ID: k.ID, Secret: secret})
	}

	return NewStatic(keys...)
}

// EncodeYAML renders keys in the format read by ParseYAML, with secrets in
// base64.
func EncodeYAML(keys ...Key) ([]byte, error) {
	f := yamlFile{Keys: make([]yamlKey, 0, len(keys))}

	for _, k := range keys {
		f.Keys = append(f.Keys, yamlKey{
			ID:       k.ID,
			Secret:   base64.StdEncoding.EncodeToString(k.Secret),
			Encoding: EncodingBase64,
		})
	}

	out, err := yaml.Marshal(f)
	if err != nil {
		return nil, errors.Wrap(err, "keystore: encode yaml")
	}

	return out, nil
}

func decodeSecret(value, encoding string) ([]byte, error) {
	switch encoding {
	case "", EncodingRaw:
		return []byte(value), nil
	case EncodingBase64:
		secret, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, errors.Wrap(err, "decode base64 secret")
		}

		return secret, nil
	default:
		return nil, errors.Errorf("unknown secret encoding %q", encoding)
	}
}
