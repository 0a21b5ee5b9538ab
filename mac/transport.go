package mac

import "net/http"

// TransportConfig configures a signing Transport.
type TransportConfig struct {
	// KeyID is sent in the id parameter of every request.
	KeyID string

	// Secret is the shared secret for KeyID.
	Secret []byte

	// Generator configures header generation.
	Generator GeneratorConfig
}

// Transport is an http.RoundTripper that adds a MAC Authorization header to
// every outgoing request.
type Transport struct {
	base      http.RoundTripper
	generator *Generator
	keyID     string
	secret    []byte
}

// NewTransport creates a signing Transport that delegates to base after
// signing each request. When base is nil, a clone of http.DefaultTransport
// is used.
func NewTransport(base *http.Transport, cfg TransportConfig) *Transport {
	var rt http.RoundTripper
	if base != nil {
		rt = base
	} else {
		rt = http.DefaultTransport.(*http.Transport).Clone()
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &Transport{
		base:      rt,
		generator: NewGenerator(cfg.Generator),
		keyID:     cfg.KeyID,
		secret:    secret,
	}
}

// RoundTrip signs a clone of the request and then delegates to the base
// transport. When GetBody is available the clone receives its own body copy
// so that digesting it does not consume the caller's body.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if clone.Body != nil && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}

		clone.Body = body
	}

	if err := SignRequest(clone, t.generator, t.keyID, t.secret); err != nil {
		return nil, err
	}

	return t.base.RoundTrip(clone)
}
