// Package server is a small HTTP service that accepts only requests carrying
// a valid MAC Authorization header and echoes what it authenticated. It backs
// the serve command and doubles as an integration harness for clients.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vitalvas/macauth/mac"
)

const shutdownTimeout = 5 * time.Second

// Config configures NewHandler.
type Config struct {
	// Verify configures request verification. Its Logger defaults to
	// Logger.
	Verify mac.VerifierConfig

	// Logger defaults to a no-op logger.
	Logger *zap.SugaredLogger
}

// Echo is the body returned for an authenticated request.
type Echo struct {
	KeyID       string `json:"key_id"`
	RequestID   string `json:"request_id"`
	Method      string `json:"method"`
	RequestURI  string `json:"request_uri"`
	ContentType string `json:"content_type,omitempty"`
	Body        string `json:"body,omitempty"`
}

// NewHandler returns the service handler. /healthz is served without
// authentication; every other path requires a valid MAC header.
func NewHandler(cfg Config) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	verify := cfg.Verify
	if verify.Logger == nil {
		verify.Logger = logger
	}

	auth, err := mac.Middleware(mac.MiddlewareConfig{
		Verify: verify,
		OnError: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warnw("rejected request",
				"request_id", RequestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)

			w.Header().Set("WWW-Authenticate", mac.Challenge(err))
			w.WriteHeader(http.StatusUnauthorized)
		},
	})
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/", auth(http.HandlerFunc(echo)))

	return requestIDMiddleware(recoveryMiddleware(logger)(mux)), nil
}

func echo(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Echo{
		KeyID:       mac.KeyIDFromContext(r.Context()),
		RequestID:   RequestIDFromContext(r.Context()),
		Method:      r.Method,
		RequestURI:  r.URL.RequestURI(),
		ContentType: r.Header.Get("Content-Type"),
		Body:        string(body),
	})
}

// Run serves handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, readHeaderTimeout time.Duration, logger *zap.SugaredLogger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return Serve(ctx, ln, handler, readHeaderTimeout, logger)
}

// Serve is Run on an existing listener.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, readHeaderTimeout time.Duration, logger *zap.SugaredLogger) error {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Infow("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Infow("shutting down")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
