// Package config loads macauth service settings from a YAML file with
// environment variable overrides.
package config

import (
	_ "embed"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"github.com/vitalvas/macauth/keystore"
	"github.com/vitalvas/macauth/mac"
	"github.com/vitalvas/macauth/noncestore"
)

// Default is the configuration used when no config.yaml is found.
//
//go:embed default.yaml
var Default []byte

// Nonce store backends.
const (
	NonceBackendNone   = "none"
	NonceBackendMemory = "memory"
	NonceBackendRedis  = "redis"
)

type Config struct {
	Auth   Auth   `structs:"auth" mapstructure:"auth"`
	Keys   Keys   `structs:"keys" mapstructure:"keys"`
	Nonce  Nonce  `structs:"nonce" mapstructure:"nonce"`
	Redis  Redis  `structs:"redis" mapstructure:"redis"`
	Server Server `structs:"server" mapstructure:"server"`
	Log    Log    `structs:"log" mapstructure:"log"`
}

type Auth struct {
	// MaxSkewSeconds is the accepted clock skew. Zero means
	// mac.DefaultMaxSkew.
	MaxSkewSeconds int    `structs:"max_skew_seconds" mapstructure:"max_skew_seconds"`
	Algorithm      string `structs:"algorithm" mapstructure:"algorithm"`
	AllowEmptyExt  bool   `structs:"allow_empty_ext" mapstructure:"allow_empty_ext"`
}

// MaxSkew returns MaxSkewSeconds as a duration.
func (a Auth) MaxSkew() time.Duration {
	return time.Duration(a.MaxSkewSeconds) * time.Second
}

type Keys struct {
	File   string `structs:"file" mapstructure:"file"`
	Format string `structs:"format" mapstructure:"format"`
}

type Nonce struct {
	Backend       string        `structs:"backend" mapstructure:"backend"`
	SweepInterval time.Duration `structs:"sweep_interval" mapstructure:"sweep_interval"`
}

type Redis struct {
	Host         string        `structs:"host" mapstructure:"host"`
	Port         string        `structs:"port" mapstructure:"port"`
	Username     string        `structs:"username" mapstructure:"username"`
	Password     string        `structs:"password" mapstructure:"password"`
	DB           int           `structs:"db" mapstructure:"db"`
	TLS          bool          `structs:"tls" mapstructure:"tls"`
	DialTimeout  time.Duration `structs:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `structs:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `structs:"write_timeout" mapstructure:"write_timeout"`
}

// ClientConfig converts the section for noncestore.NewRedisClient.
func (r Redis) ClientConfig() noncestore.RedisConfig {
	return noncestore.RedisConfig{
		Host:         r.Host,
		Port:         r.Port,
		Username:     r.Username,
		Password:     r.Password,
		DB:           r.DB,
		TLS:          r.TLS,
		DialTimeout:  r.DialTimeout,
		ReadTimeout:  r.ReadTimeout,
		WriteTimeout: r.WriteTimeout,
	}
}

type Server struct {
	Listen            string        `structs:"listen" mapstructure:"listen"`
	ReadHeaderTimeout time.Duration `structs:"read_header_timeout" mapstructure:"read_header_timeout"`
}

type Log struct {
	Level       string `structs:"level" mapstructure:"level"`
	Development bool   `structs:"development" mapstructure:"development"`
}

// Load parses config.yaml from paths, falling back to Default, and
// validates the result.
func Load(paths ...string) (*Config, error) {
	c, err := Parse[Config](paths, Default)
	if err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Auth.MaxSkewSeconds < 0 {
		return errors.Errorf("auth.max_skew_seconds must not be negative, got %d", c.Auth.MaxSkewSeconds)
	}

	if _, err := mac.ParseAlgorithm(c.Auth.Algorithm); err != nil {
		return errors.Wrap(err, "auth.algorithm")
	}

	switch keystore.Format(c.Keys.Format) {
	case keystore.FormatYAML, keystore.FormatJWKS, "":
	default:
		return errors.Errorf("keys.format must be yaml or jwks, got %q", c.Keys.Format)
	}

	switch c.Nonce.Backend {
	case NonceBackendNone, NonceBackendMemory, NonceBackendRedis, "":
	default:
		return errors.Errorf("nonce.backend must be none, memory or redis, got %q", c.Nonce.Backend)
	}

	if c.Server.Listen == "" {
		return errors.New("server.listen must not be empty")
	}

	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return errors.Wrap(err, "log.level")
		}
	}

	return nil
}
