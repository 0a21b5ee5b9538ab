package mac

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// SecretResolver returns the shared secret for a key identifier. It should
// return an error wrapping ErrUnknownKey when the identifier is not known.
type SecretResolver func(ctx context.Context, keyID string) ([]byte, error)

// NonceStore records nonces that passed verification. Claim returns an
// error wrapping ErrReplayedNonce when the nonce was already claimed for
// keyID within ttl.
type NonceStore interface {
	Claim(ctx context.Context, keyID, nonce string, ttl time.Duration) error
}

// RequestContext is the request as received by the verifier.
type RequestContext struct {
	Method      string
	Host        string
	Port        int
	RequestURI  string
	ContentType string
	Body        []byte
}

// VerifierConfig configures Authorization header verification.
type VerifierConfig struct {
	// Resolver looks up the shared secret for a key identifier. Required.
	Resolver SecretResolver

	// Engine verifies signatures. Defaults to HMAC with DefaultAlgorithm.
	Engine SignatureEngine

	// MaxSkew is the accepted clock skew. Defaults to DefaultMaxSkew.
	MaxSkew time.Duration

	// Clock defaults to SystemClock.
	Clock Clock

	// Logger defaults to a no-op logger.
	Logger Logger

	// Nonces, when set, is asked to claim every nonce whose signature
	// verified. Its TTL is the full skew window, twice MaxSkew.
	Nonces NonceStore

	// AllowEmptyExt accepts headers whose ext is empty, as produced for
	// requests without a body.
	AllowEmptyExt bool

	// Ports maps schemes to default ports for RequestContextFromHTTP.
	// Defaults to DefaultPorts.
	Ports map[string]int
}

// Verifier checks MAC Authorization headers against received requests.
// It is safe for concurrent use.
type Verifier struct {
	cfg        VerifierConfig
	engine     SignatureEngine
	timestamps TimestampValidator
	logger     Logger
}

// NewVerifier creates a Verifier. It returns ErrNoResolver if
// cfg.Resolver is nil.
func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	if cfg.Resolver == nil {
		return nil, ErrNoResolver
	}

	logger := loggerOrNop(cfg.Logger)

	return &Verifier{
		cfg:    cfg,
		engine: engineOrDefault(cfg.Engine),
		timestamps: TimestampValidator{
			MaxSkew: cfg.MaxSkew,
			Clock:   cfg.Clock,
			Logger:  logger,
		},
		logger: logger,
	}, nil
}

// Verify parses header, validates its timestamp, resolves the secret for its
// key identifier and checks its ext and signature against req. On success
// the parsed header is returned.
func (v *Verifier) Verify(ctx context.Context, header string, req RequestContext) (AuthHeader, error) {
	var (
		h   AuthHeader
		err error
	)

	if v.cfg.AllowEmptyExt {
		h, err = ParseAuthHeaderAllowEmptyExt(header, v.logger)
	} else {
		h, err = ParseAuthHeader(header, v.logger)
	}

	if err != nil {
		return AuthHeader{}, err
	}

	if err := v.timestamps.Validate(h.Timestamp); err != nil {
		return AuthHeader{}, err
	}

	secret, err := v.cfg.Resolver(ctx, h.KeyID)
	if err != nil {
		if !errors.Is(err, ErrUnknownKey) {
			err = fmt.Errorf("%w: %w", ErrUnknownKey, err)
		}

		return AuthHeader{}, err
	}

	if Ext(req.ContentType, req.Body) != h.Ext {
		return AuthHeader{}, ErrInvalidSignature
	}

	normalized := NormalizedRequest{
		Timestamp:  h.Timestamp,
		Nonce:      h.Nonce,
		Method:     req.Method,
		Host:       strings.ToLower(req.Host),
		Port:       req.Port,
		RequestURI: req.RequestURI,
		Ext:        h.Ext,
	}

	if err := v.engine.Verify(h.MAC, secret, normalized.String()); err != nil {
		return AuthHeader{}, err
	}

	if v.cfg.Nonces != nil {
		if err := v.cfg.Nonces.Claim(ctx, h.KeyID, h.Nonce, 2*v.timestamps.maxSkew()); err != nil {
			if !errors.Is(err, ErrReplayedNonce) {
				err = fmt.Errorf("%w: %w", ErrReplayedNonce, err)
			}

			return AuthHeader{}, err
		}
	}

	return h, nil
}

// VerifyRequest verifies the Authorization header of an incoming request.
func (v *Verifier) VerifyRequest(r *http.Request) (AuthHeader, error) {
	req, err := RequestContextFromHTTP(r, v.cfg.Ports)
	if err != nil {
		return AuthHeader{}, err
	}

	return v.Verify(r.Context(), r.Header.Get("Authorization"), req)
}

// RequestContextFromHTTP captures the signable parts of an incoming request.
// The host and port come from r.Host, falling back to the default port of
// the request scheme. The body is restored after being read.
func RequestContextFromHTTP(r *http.Request, ports map[string]int) (RequestContext, error) {
	body, err := readAndRestoreBody(r)
	if err != nil {
		return RequestContext{}, err
	}

	host, port, err := requestHostPort(r, ports)
	if err != nil {
		return RequestContext{}, err
	}

	return RequestContext{
		Method:      r.Method,
		Host:        host,
		Port:        port,
		RequestURI:  requestTarget(r),
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func requestHostPort(r *http.Request, ports map[string]int) (string, int, error) {
	hostport := r.Host
	if hostport == "" {
		hostport = r.URL.Host
	}

	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		host, portStr = strings.Trim(hostport, "[]"), ""
	}

	if portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return "", 0, fmt.Errorf("%w: port %q", ErrInvalidURL, portStr)
		}

		return strings.ToLower(host), port, nil
	}

	if ports == nil {
		ports = DefaultPorts
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	return strings.ToLower(host), ports[scheme], nil
}

// requestTarget returns the origin-form request target. Absolute-form
// targets are reduced to path and query.
func requestTarget(r *http.Request) string {
	if strings.HasPrefix(r.RequestURI, "/") {
		return r.RequestURI
	}

	return r.URL.RequestURI()
}
