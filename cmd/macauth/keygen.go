package main

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/vitalvas/macauth/keystore"
)

type keygenCmd struct {
	Count  int    `arg:"-n,--count" default:"1" help:"number of keys"`
	Size   int    `arg:"--size" default:"32" help:"secret size in bytes"`
	Format string `arg:"--format" default:"yaml" help:"output format: yaml or jwks"`
}

func (c *keygenCmd) run(_ context.Context, stdout io.Writer) error {
	if c.Count < 1 {
		return errors.Errorf("count must be positive, got %d", c.Count)
	}

	keys := make([]keystore.Key, 0, c.Count)

	for i := 0; i < c.Count; i++ {
		k, err := keystore.Generate(c.Size)
		if err != nil {
			return err
		}

		keys = append(keys, k)
	}

	var (
		out []byte
		err error
	)

	switch keystore.Format(c.Format) {
	case keystore.FormatYAML:
		out, err = keystore.EncodeYAML(keys...)
	case keystore.FormatJWKS:
		out, err = keystore.EncodeJWKS(keys...)
		out = append(out, '\n')
	default:
		return errors.Errorf("unknown format %q", c.Format)
	}

	if err != nil {
		return err
	}

	_, err = stdout.Write(out)

	return err
}
