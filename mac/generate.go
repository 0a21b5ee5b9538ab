package mac

import (
	"net/http"
	"net/url"
	"strconv"
)

// GeneratorConfig configures Authorization header generation. Every field
// is optional.
type GeneratorConfig struct {
	// Engine signs the normalized request string. Defaults to HMAC with
	// DefaultAlgorithm.
	Engine SignatureEngine

	// Clock supplies the request timestamp. Defaults to SystemClock.
	Clock Clock

	// Nonce returns a fresh nonce per request. Defaults to GenerateNonce.
	Nonce func() (string, error)

	// Ext digests the request content. Defaults to Ext.
	Ext func(contentType string, body []byte) string

	// Ports maps schemes to default ports. Defaults to DefaultPorts.
	Ports map[string]int
}

// Generator produces MAC Authorization headers for outgoing requests.
// It is safe for concurrent use.
type Generator struct {
	engine SignatureEngine
	clock  Clock
	nonce  func() (string, error)
	ext    func(contentType string, body []byte) string
	ports  map[string]int
}

// NewGenerator creates a Generator, filling unset fields of cfg with their
// defaults.
func NewGenerator(cfg GeneratorConfig) *Generator {
	g := &Generator{
		engine: engineOrDefault(cfg.Engine),
		clock:  clockOrSystem(cfg.Clock),
		nonce:  cfg.Nonce,
		ext:    cfg.Ext,
		ports:  cfg.Ports,
	}

	if g.nonce == nil {
		g.nonce = GenerateNonce
	}

	if g.ext == nil {
		g.ext = Ext
	}

	return g
}

// Header returns the Authorization header value for a request with the given
// method, URL and content, signed with secret on behalf of keyID.
func (g *Generator) Header(method, rawURL, keyID string, secret []byte, contentType string, body []byte) (string, error) {
	h, err := g.Sign(method, rawURL, keyID, secret, contentType, body)
	if err != nil {
		return "", err
	}

	return h.String(), nil
}

// Sign is Header without the final serialization.
func (g *Generator) Sign(method, rawURL, keyID string, secret []byte, contentType string, body []byte) (AuthHeader, error) {
	ts := strconv.FormatInt(g.clock.Now().Unix(), 10)

	nonce, err := g.nonce()
	if err != nil {
		return AuthHeader{}, err
	}

	ext := g.ext(contentType, body)

	target, err := ParseTarget(rawURL, g.ports)
	if err != nil {
		return AuthHeader{}, err
	}

	normalized := NormalizedRequest{
		Timestamp:  ts,
		Nonce:      nonce,
		Method:     method,
		Host:       target.Host,
		Port:       target.Port,
		RequestURI: target.RequestURI,
		Ext:        ext,
	}

	sig, err := g.engine.Sign(secret, normalized.String())
	if err != nil {
		return AuthHeader{}, err
	}

	return AuthHeader{
		KeyID:     keyID,
		Timestamp: ts,
		Nonce:     nonce,
		Ext:       ext,
		MAC:       sig,
	}, nil
}

// SignRequest sets the Authorization header of an outgoing request. The URL
// host is overridden by r.Host when set, and the body is restored after
// being digested.
func SignRequest(r *http.Request, g *Generator, keyID string, secret []byte) error {
	body, err := readAndRestoreBody(r)
	if err != nil {
		return err
	}

	header, err := g.Header(r.Method, outgoingURL(r).String(), keyID, secret, r.Header.Get("Content-Type"), body)
	if err != nil {
		return err
	}

	r.Header.Set("Authorization", header)

	return nil
}

func outgoingURL(r *http.Request) *url.URL {
	u := *r.URL

	if r.Host != "" {
		u.Host = r.Host
	}

	if u.Scheme == "" {
		u.Scheme = "http"
		if r.TLS != nil {
			u.Scheme = "https"
		}
	}

	return &u
}
