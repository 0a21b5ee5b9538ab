package noncestore

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// SetNXer is the subset of a Redis client used by Redis.
type SetNXer interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

// Redis is a Store shared between processes. Each claim is a single
// SET NX with the claim TTL, so the first writer wins.
type Redis struct {
	client SetNXer
}

// NewRedis creates a store on top of client, typically a *redis.Client.
func NewRedis(client SetNXer) *Redis {
	return &Redis{client: client}
}

// Claim records the nonce with the given TTL, or returns ErrReplayed if the
// key already exists.
func (r *Redis) Claim(ctx context.Context, keyID, nonce string, ttl time.Duration) error {
	ok, err := r.client.SetNX(ctx, storageKey(keyID, nonce), 1, ttl).Result()
	if err != nil {
		return errors.Wrap(err, "noncestore: redis setnx")
	}

	if !ok {
		return ErrReplayed
	}

	return nil
}

// RedisConfig configures NewRedisClient.
type RedisConfig struct {
	Host         string        // default "localhost"
	Port         string        // default "6379"
	Username     string        // optional
	Password     string        // optional
	DB           int           // default 0
	TLS          bool          // enable TLS
	DialTimeout  time.Duration // default 5s
	ReadTimeout  time.Duration // default 3s
	WriteTimeout time.Duration // default 3s
}

// NewRedisClient creates and pings a Redis client.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(redisOptions(cfg))

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "noncestore: redis ping")
	}

	return rdb, nil
}

func redisOptions(cfg RedisConfig) *redis.Options {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == "" {
		cfg.Port = "6379"
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 3 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 3 * time.Second
	}

	opts := &redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	return opts
}
