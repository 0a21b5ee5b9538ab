package main

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vitalvas/macauth/config"
	"github.com/vitalvas/macauth/keystore"
	"github.com/vitalvas/macauth/mac"
	"github.com/vitalvas/macauth/noncestore"
	"github.com/vitalvas/macauth/server"
)

type serveCmd struct {
	Config []string `arg:"-c,--config,separate" help:"directory holding config.yaml, may be repeated"`
}

func (c *serveCmd) run(ctx context.Context, _ io.Writer) error {
	cfg, err := config.Load(c.configPaths()...)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sugar := logger.Sugar()

	verify, err := verifierConfig(ctx, cfg, sugar)
	if err != nil {
		return err
	}

	handler, err := server.NewHandler(server.Config{Verify: verify, Logger: sugar})
	if err != nil {
		return err
	}

	return server.Run(ctx, cfg.Server.Listen, handler, cfg.Server.ReadHeaderTimeout, sugar)
}

func (c *serveCmd) configPaths() []string {
	if len(c.Config) == 0 {
		return []string{".", "/etc/macauth"}
	}

	return c.Config
}

func verifierConfig(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (mac.VerifierConfig, error) {
	alg, err := mac.ParseAlgorithm(cfg.Auth.Algorithm)
	if err != nil {
		return mac.VerifierConfig{}, err
	}

	keys, err := keystore.Load(cfg.Keys.File, keystore.Format(cfg.Keys.Format))
	if err != nil {
		return mac.VerifierConfig{}, err
	}

	logger.Infow("loaded keys", "file", cfg.Keys.File, "count", keys.Len())

	nonces, err := nonceStore(ctx, cfg)
	if err != nil {
		return mac.VerifierConfig{}, err
	}

	return mac.VerifierConfig{
		Resolver:      keys.Resolve,
		Engine:        mac.NewHMAC(alg),
		MaxSkew:       cfg.Auth.MaxSkew(),
		Logger:        logger,
		Nonces:        nonces,
		AllowEmptyExt: cfg.Auth.AllowEmptyExt,
	}, nil
}

func nonceStore(ctx context.Context, cfg *config.Config) (mac.NonceStore, error) {
	switch cfg.Nonce.Backend {
	case config.NonceBackendMemory:
		m := noncestore.NewMemory(nil)
		if cfg.Nonce.SweepInterval > 0 {
			go m.Run(ctx, cfg.Nonce.SweepInterval)
		}

		return m, nil
	case config.NonceBackendRedis:
		client, err := noncestore.NewRedisClient(ctx, cfg.Redis.ClientConfig())
		if err != nil {
			return nil, err
		}

		go func() {
			<-ctx.Done()
			client.Close()
		}()

		return noncestore.NewRedis(client), nil
	case config.NonceBackendNone, "":
		return nil, nil
	default:
		return nil, errors.Errorf("unknown nonce backend %q", cfg.Nonce.Backend)
	}
}

func newLogger(cfg config.Log) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, errors.Wrap(err, "log level")
		}

		zc.Level = zap.NewAtomicLevelAt(level)
	}

	return zc.Build()
}
