package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vitalvas/macauth/keystore"
	"github.com/vitalvas/macauth/mac"
	"github.com/vitalvas/macauth/noncestore"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestServer(t *testing.T) (*httptest.Server, *observer.ObservedLogs) {
	t.Helper()

	keys, err := keystore.NewStatic(keystore.Key{ID: "client-a", Secret: testSecret})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)

	h, err := NewHandler(Config{
		Verify: mac.VerifierConfig{
			Resolver:      keys.Resolve,
			Nonces:        noncestore.NewMemory(nil),
			AllowEmptyExt: true,
		},
		Logger: zap.New(core).Sugar(),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return srv, logs
}

func signingClient(secret []byte) *http.Client {
	return &http.Client{Transport: mac.NewTransport(nil, mac.TransportConfig{KeyID: "client-a", Secret: secret})}
}

func TestNewHandler(t *testing.T) {
	t.Run("requires resolver", func(t *testing.T) {
		_, err := NewHandler(Config{})
		assert.ErrorIs(t, err, mac.ErrNoResolver)
	})

	t.Run("echoes authenticated request", func(t *testing.T) {
		srv, _ := newTestServer(t)

		resp, err := signingClient(testSecret).Post(srv.URL+"/items?x=1", "application/json", strings.NewReader(`{"a":1}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got Echo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

		assert.Equal(t, "client-a", got.KeyID)
		assert.Equal(t, "POST", got.Method)
		assert.Equal(t, "/items?x=1", got.RequestURI)
		assert.Equal(t, "application/json", got.ContentType)
		assert.Equal(t, `{"a":1}`, got.Body)
		assert.NotEmpty(t, got.RequestID)
		assert.Equal(t, got.RequestID, resp.Header.Get(RequestIDHeader))
	})

	t.Run("rejects and logs unsigned request", func(t *testing.T) {
		srv, logs := newTestServer(t)

		resp, err := http.Get(srv.URL + "/items")
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, `MAC error="invalid_request"`, resp.Header.Get("WWW-Authenticate"))

		rejected := logs.FilterMessage("rejected request").All()
		require.Len(t, rejected, 1)
		assert.Equal(t, resp.Header.Get(RequestIDHeader), rejected[0].ContextMap()["request_id"])
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		srv, _ := newTestServer(t)

		resp, err := signingClient([]byte("wrong")).Get(srv.URL + "/items")
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "MAC", resp.Header.Get("WWW-Authenticate"))
	})

	t.Run("rejects replay", func(t *testing.T) {
		srv, _ := newTestServer(t)

		req, err := http.NewRequest(http.MethodGet, srv.URL+"/items", nil)
		require.NoError(t, err)

		g := mac.NewGenerator(mac.GeneratorConfig{})
		require.NoError(t, mac.SignRequest(req, g, "client-a", testSecret))

		first, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		first.Body.Close()
		assert.Equal(t, http.StatusOK, first.StatusCode)

		second, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		second.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, second.StatusCode)
	})

	t.Run("health check is unauthenticated", func(t *testing.T) {
		srv, _ := newTestServer(t)

		resp, err := http.Get(srv.URL + "/healthz")
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	h := requestIDMiddleware(recoveryMiddleware(zap.New(core).Sugar())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	entries := logs.FilterMessage("handler panic").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].ContextMap()["panic"])
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string

	h := requestIDMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-chosen")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEqual(t, "client-chosen", seen)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- Serve(ctx, ln, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}), time.Second, nil)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusTeapot
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
