package mac

import (
	"context"
	"errors"
	"net/http"
)

type keyIDContextKey struct{}

// KeyIDFromContext returns the key identifier authenticated by Middleware,
// or the empty string when the request was not verified.
func KeyIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(keyIDContextKey{}).(string); ok {
		return id
	}

	return ""
}

// MiddlewareConfig configures the server-side verification middleware.
type MiddlewareConfig struct {
	// Verify configures how requests are verified.
	Verify VerifierConfig

	// OnError is called when verification fails. When nil, a 401
	// Unauthorized response carrying a MAC challenge is sent.
	OnError func(w http.ResponseWriter, r *http.Request, err error)
}

// Middleware returns a middleware that verifies the MAC Authorization header
// of every request before passing it on. The authenticated key identifier
// is available to downstream handlers through KeyIDFromContext.
//
// It returns ErrNoResolver if VerifierConfig.Resolver is nil.
func Middleware(cfg MiddlewareConfig) (func(http.Handler) http.Handler, error) {
	verifier, err := NewVerifier(cfg.Verify)
	if err != nil {
		return nil, err
	}

	onError := cfg.OnError
	if onError == nil {
		onError = defaultOnError
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h, err := verifier.VerifyRequest(r)
			if err != nil {
				onError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), keyIDContextKey{}, h.KeyID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}, nil
}

// Challenge returns the WWW-Authenticate value for a rejected request. Only
// malformed headers and stale timestamps are described; every other failure
// yields the bare scheme.
func Challenge(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAuthHeader):
		return Scheme + ` error="invalid_request"`
	case errors.Is(err, ErrInvalidTimestamp):
		return Scheme + ` error="stale_timestamp"`
	default:
		return Scheme
	}
}

// defaultOnError writes a 401 Unauthorized response with no body.
func defaultOnError(w http.ResponseWriter, _ *http.Request, err error) {
	w.Header().Set("WWW-Authenticate", Challenge(err))
	w.WriteHeader(http.StatusUnauthorized)
}
