package mac

import (
	"crypto/hmac"
	"crypto/sha1"
	"fmt"
	"strings"

	"github.com/lestrrat-go/jwx/v3/jws/jwsbb"
)

// Algorithm identifies the keyed hash used to sign normalized request
// strings.
type Algorithm string

const (
	// AlgorithmHMACSHA1 is HMAC using SHA-1. It is the default and matches
	// keyczar HmacKey peers.
	AlgorithmHMACSHA1 Algorithm = "hmac-sha1"

	// AlgorithmHMACSHA256 is HMAC using SHA-256.
	AlgorithmHMACSHA256 Algorithm = "hmac-sha256"

	// AlgorithmHMACSHA512 is HMAC using SHA-512.
	AlgorithmHMACSHA512 Algorithm = "hmac-sha512"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = AlgorithmHMACSHA1

// String returns the configuration name of the algorithm.
func (a Algorithm) String() string {
	return string(a)
}

// ParseAlgorithm maps a configuration name to an Algorithm. Matching is
// case-insensitive; the empty string selects DefaultAlgorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(name))); a {
	case "":
		return DefaultAlgorithm, nil
	case AlgorithmHMACSHA1, AlgorithmHMACSHA256, AlgorithmHMACSHA512:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, name)
	}
}

// Sum computes the raw MAC of message under key.
func (a Algorithm) Sum(key, message []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrEmptySecret
	}

	switch a {
	case AlgorithmHMACSHA1, "":
		h := hmac.New(sha1.New, key)
		h.Write(message)

		return h.Sum(nil), nil
	case AlgorithmHMACSHA256:
		return jwsbb.Sign(key, "HS256", message, nil)
	case AlgorithmHMACSHA512:
		return jwsbb.Sign(key, "HS512", message, nil)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, a)
	}
}
