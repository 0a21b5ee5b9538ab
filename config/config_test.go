package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/macauth/mac"
)

func TestLoadEmbeddedDefault(t *testing.T) {
	c, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, mac.DefaultMaxSkew, c.Auth.MaxSkew())
	assert.Equal(t, "hmac-sha1", c.Auth.Algorithm)
	assert.False(t, c.Auth.AllowEmptyExt)
	assert.Equal(t, "keys.yaml", c.Keys.File)
	assert.Equal(t, "yaml", c.Keys.Format)
	assert.Equal(t, NonceBackendMemory, c.Nonce.Backend)
	assert.Equal(t, time.Minute, c.Nonce.SweepInterval)
	assert.Equal(t, "localhost", c.Redis.Host)
	assert.Equal(t, "6379", c.Redis.Port)
	assert.Equal(t, ":8080", c.Server.Listen)
	assert.Equal(t, 10*time.Second, c.Server.ReadHeaderTimeout)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
auth:
  max_skew_seconds: 60
  algorithm: hmac-sha256
keys:
  file: /etc/macauth/keys.json
  format: jwks
nonce:
  backend: redis
redis:
  host: redis.internal
  dial_timeout: 2s
server:
  listen: "127.0.0.1:9000"
`), 0o600))

	c, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, time.Minute, c.Auth.MaxSkew())
	assert.Equal(t, "hmac-sha256", c.Auth.Algorithm)
	assert.Equal(t, "jwks", c.Keys.Format)
	assert.Equal(t, NonceBackendRedis, c.Nonce.Backend)
	assert.Equal(t, "127.0.0.1:9000", c.Server.Listen)

	rc := c.Redis.ClientConfig()
	assert.Equal(t, "redis.internal", rc.Host)
	assert.Equal(t, 2*time.Second, rc.DialTimeout)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MACAUTH_SERVER_LISTEN", ":9999")
	t.Setenv("MACAUTH_AUTH_MAX_SKEW_SECONDS", "30")
	t.Setenv("MACAUTH_NONCE_BACKEND", "none")

	c, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":9999", c.Server.Listen)
	assert.Equal(t, 30*time.Second, c.Auth.MaxSkew())
	assert.Equal(t, NonceBackendNone, c.Nonce.Backend)
}

func TestParseWithoutFileOrDefault(t *testing.T) {
	_, err := Parse[Config]([]string{t.TempDir()}, nil)
	assert.Error(t, err)
}

func TestParseMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("auth: ["), 0o600))

	_, err := Parse[Config]([]string{dir}, Default)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Auth:   Auth{Algorithm: "hmac-sha1"},
			Keys:   Keys{Format: "yaml"},
			Nonce:  Nonce{Backend: NonceBackendMemory},
			Server: Server{Listen: ":8080"},
			Log:    Log{Level: "debug"},
		}
	}

	require.NoError(t, valid().Validate())

	tests := map[string]func(*Config){
		"negative skew":     func(c *Config) { c.Auth.MaxSkewSeconds = -1 },
		"unknown algorithm": func(c *Config) { c.Auth.Algorithm = "hmac-md5" },
		"unknown format":    func(c *Config) { c.Keys.Format = "toml" },
		"unknown backend":   func(c *Config) { c.Nonce.Backend = "memcached" },
		"empty listen":      func(c *Config) { c.Server.Listen = "" },
		"unknown log level": func(c *Config) { c.Log.Level = "verbose" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
