// Command macauth signs and verifies HTTP MAC Authorization headers, mints
// shared keys and runs a verifying echo server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
)

type args struct {
	Sign   *signCmd   `arg:"subcommand:sign" help:"print an Authorization header for a request"`
	Verify *verifyCmd `arg:"subcommand:verify" help:"check an Authorization header against a request"`
	Keygen *keygenCmd `arg:"subcommand:keygen" help:"generate shared keys"`
	Serve  *serveCmd  `arg:"subcommand:serve" help:"run a server that accepts only signed requests"`
}

func (args) Description() string {
	return "macauth - HTTP MAC Access Authentication tool\n"
}

type command interface {
	run(ctx context.Context, stdout io.Writer) error
}

// errRejected marks a verification that completed and said no.
var errRejected = errors.New("rejected")

func main() {
	var a args
	p := arg.MustParse(&a)

	cmd, ok := p.Subcommand().(command)
	if !ok {
		p.Fail("missing subcommand")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.run(ctx, os.Stdout); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}

		stop()
		os.Exit(1)
	}
}
