// Package mac implements HTTP MAC Access Authentication: a client proves
// possession of a shared secret by signing a normalized form of the request,
// and the server checks that signature together with the request timestamp.
//
// The Authorization header has a fixed layout:
//
//	MAC id="<key-id>", ts="<unix-seconds>", nonce="<nonce>", ext="<ext>", mac="<signature>"
//
// The signature covers the normalized request string, one value per line:
//
//	<ts>\n<nonce>\n<method>\n<path?query>\n<host>\n<port>\n<ext>\n
//
// where ext is the SHA-1 hex digest of the content type followed by the body,
// or empty for requests without content.
//
// # Generating Headers
//
//	gen := mac.NewGenerator(mac.GeneratorConfig{})
//
//	header, err := gen.Header("POST", "https://api.example.com/credits", keyID, secret,
//	    "application/json", body)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	req.Header.Set("Authorization", header)
//
// # Verifying Headers
//
// The verifier needs a SecretResolver to map key identifiers to secrets:
//
//	v, err := mac.NewVerifier(mac.VerifierConfig{
//	    Resolver: func(ctx context.Context, keyID string) ([]byte, error) {
//	        return lookup(keyID)
//	    },
//	    MaxSkew: time.Minute,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_, err = v.VerifyRequest(r)
//
// Every rejection wraps one of ErrInvalidAuthHeader, ErrInvalidTimestamp,
// ErrInvalidSignature, ErrUnknownKey or ErrReplayedNonce.
//
// Nonces are not tracked by the verifier itself. Set VerifierConfig.Nonces to
// reject replays within the skew window.
//
// # Client Transport
//
//	client := &http.Client{
//	    Transport: mac.NewTransport(nil, mac.TransportConfig{
//	        KeyID:  keyID,
//	        Secret: secret,
//	    }),
//	}
//
// # Server Middleware
//
//	mw, err := mac.Middleware(mac.MiddlewareConfig{
//	    Verify: mac.VerifierConfig{Resolver: resolver, AllowEmptyExt: true},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	handler = mw(handler)
package mac
