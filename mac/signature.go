package mac

import (
	"crypto/hmac"
	"encoding/base64"
	"strings"
)

// SignatureEngine computes and checks the keyed signature over a normalized
// request string.
type SignatureEngine interface {
	// Sign returns the text-encoded MAC of normalized under secret.
	Sign(secret []byte, normalized string) (string, error)

	// Verify returns ErrInvalidSignature unless signature is the MAC of
	// normalized under secret.
	Verify(signature string, secret []byte, normalized string) error
}

// HMAC is the SignatureEngine used by default. Signatures are emitted as
// padded standard base64 and accepted in either standard or URL-safe base64,
// padded or not.
type HMAC struct {
	Algorithm Algorithm
}

// NewHMAC returns an HMAC engine for alg. The zero Algorithm selects
// DefaultAlgorithm.
func NewHMAC(alg Algorithm) HMAC {
	if alg == "" {
		alg = DefaultAlgorithm
	}

	return HMAC{Algorithm: alg}
}

func (e HMAC) Sign(secret []byte, normalized string) (string, error) {
	sum, err := e.Algorithm.Sum(secret, []byte(normalized))
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(sum), nil
}

func (e HMAC) Verify(signature string, secret []byte, normalized string) error {
	expected, err := e.Algorithm.Sum(secret, []byte(normalized))
	if err != nil {
		return err
	}

	actual, ok := decodeSignature(signature)
	if !ok || !hmac.Equal(expected, actual) {
		return ErrInvalidSignature
	}

	return nil
}

// decodeSignature maps standard base64 onto the web-safe alphabet, drops
// padding and decodes the result.
func decodeSignature(s string) ([]byte, bool) {
	s = strings.TrimRight(s, "=")
	s = strings.NewReplacer("+", "-", "/", "_").Replace(s)

	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil || len(b) == 0 {
		return nil, false
	}

	return b, true
}

func engineOrDefault(e SignatureEngine) SignatureEngine {
	if e == nil {
		return NewHMAC(DefaultAlgorithm)
	}

	return e
}
