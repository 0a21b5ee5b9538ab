package main

import (
	"encoding/base64"
	"os"

	"github.com/pkg/errors"

	"github.com/vitalvas/macauth/mac"
)

// secretArgs are shared by the commands that take a secret on the command
// line or from the environment.
type secretArgs struct {
	Secret         string `arg:"--secret,env:MACAUTH_SECRET" help:"shared secret"`
	SecretEncoding string `arg:"--secret-encoding" default:"raw" help:"secret encoding: raw or base64"`
	Algorithm      string `arg:"--algorithm" default:"hmac-sha1" help:"hmac-sha1, hmac-sha256 or hmac-sha512"`
}

func (s secretArgs) secret() ([]byte, error) {
	if s.Secret == "" {
		return nil, mac.ErrEmptySecret
	}

	switch s.SecretEncoding {
	case "", "raw":
		return []byte(s.Secret), nil
	case "base64":
		secret, err := base64.StdEncoding.DecodeString(s.Secret)
		if err != nil {
			return nil, errors.Wrap(err, "decode secret")
		}

		return secret, nil
	default:
		return nil, errors.Errorf("unknown secret encoding %q", s.SecretEncoding)
	}
}

func (s secretArgs) engine() (mac.SignatureEngine, error) {
	alg, err := mac.ParseAlgorithm(s.Algorithm)
	if err != nil {
		return nil, err
	}

	return mac.NewHMAC(alg), nil
}

// bodyArgs selects the request body from a literal or a file.
type bodyArgs struct {
	ContentType string `arg:"--content-type" help:"request Content-Type"`
	Body        string `arg:"--body" help:"request body"`
	BodyFile    string `arg:"--body-file" help:"read the request body from a file"`
}

func (b bodyArgs) body() ([]byte, error) {
	if b.BodyFile == "" {
		return []byte(b.Body), nil
	}

	if b.Body != "" {
		return nil, errors.New("--body and --body-file are mutually exclusive")
	}

	data, err := os.ReadFile(b.BodyFile)
	if err != nil {
		return nil, errors.Wrap(err, "read body file")
	}

	return data, nil
}
