package main

import (
	"context"
	"fmt"
	"io"

	"github.com/vitalvas/macauth/mac"
)

type signCmd struct {
	secretArgs
	bodyArgs

	KeyID  string `arg:"--key-id,required" help:"key identifier"`
	Method string `arg:"--method" default:"GET" help:"request method"`
	URL    string `arg:"positional,required" help:"request URL"`
}

func (c *signCmd) run(_ context.Context, stdout io.Writer) error {
	secret, err := c.secret()
	if err != nil {
		return err
	}

	engine, err := c.engine()
	if err != nil {
		return err
	}

	body, err := c.body()
	if err != nil {
		return err
	}

	header, err := mac.NewGenerator(mac.GeneratorConfig{Engine: engine}).
		Header(c.Method, c.URL, c.KeyID, secret, c.ContentType, body)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, header)

	return err
}
