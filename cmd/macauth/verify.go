package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/vitalvas/macauth/mac"
)

type verifyCmd struct {
	secretArgs
	bodyArgs

	Header        string `arg:"--header,required,env:MACAUTH_HEADER" help:"Authorization header value"`
	Method        string `arg:"--method" default:"GET" help:"request method"`
	URL           string `arg:"--url,required" help:"request URL as received"`
	MaxSkew       int    `arg:"--max-skew" default:"300" help:"accepted clock skew in seconds"`
	AllowEmptyExt bool   `arg:"--allow-empty-ext" help:"accept headers of bodyless requests"`
	Verbose       bool   `arg:"-v,--verbose" help:"log parser and timestamp decisions to stderr"`
}

func (c *verifyCmd) run(ctx context.Context, stdout io.Writer) error {
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

	target, err := mac.ParseTarget(c.URL, nil)
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if c.Verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer logger.Sync()
	}

	verifier, err := mac.NewVerifier(mac.VerifierConfig{
		Resolver:      func(context.Context, string) ([]byte, error) { return secret, nil },
		Engine:        engine,
		MaxSkew:       time.Duration(c.MaxSkew) * time.Second,
		Logger:        logger.Sugar(),
		AllowEmptyExt: c.AllowEmptyExt,
	})
	if err != nil {
		return err
	}

	h, err := verifier.Verify(ctx, c.Header, mac.RequestContext{
		Method:      c.Method,
		Host:        target.Host,
		Port:        target.Port,
		RequestURI:  target.RequestURI,
		ContentType: c.ContentType,
		Body:        body,
	})
	if err != nil {
		color.New(color.FgRed, color.Bold).Fprint(stdout, "REJECTED")
		fmt.Fprintf(stdout, " %v\n", err)

		return errRejected
	}

	color.New(color.FgGreen, color.Bold).Fprint(stdout, "OK")
	fmt.Fprintf(stdout, " id=%s ts=%s nonce=%s\n", h.KeyID, h.Timestamp, h.Nonce)

	return nil
}
