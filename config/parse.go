package config

import (
	"bytes"
	"strings"

	"github.com/fatih/structs"
	"github.com/jeremywohl/flatten"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Parse.
const EnvPrefix = "MACAUTH"

// Parse loads config.yaml from the first of paths that has one and
// overlays environment variables named EnvPrefix_SECTION_FIELD. When no
// file is found and embedded is not empty, embedded is used instead.
func Parse[T any](paths []string, embedded []byte) (*T, error) {
	v := viper.New()

	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindAllConfigKeys[T](v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var nfErr viper.ConfigFileNotFoundError
		if !errors.As(err, &nfErr) || len(embedded) == 0 {
			return nil, errors.Wrap(err, "unable to read config")
		}

		if err := v.ReadConfig(bytes.NewReader(embedded)); err != nil {
			return nil, errors.Wrap(err, "failed to load embedded default config")
		}
	}

	var c T
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unable to decode into struct")
	}

	return &c, nil
}

// bindAllConfigKeys registers every struct field with viper so that
// environment variables are honoured for keys absent from the file.
// See https://github.com/spf13/viper/issues/761
func bindAllConfigKeys[T any](v *viper.Viper) error {
	var cd T

	flat, err := flatten.Flatten(structs.Map(cd), "", flatten.DotStyle)
	if err != nil {
		return errors.Wrap(err, "unable to flatten config")
	}

	for key := range flat {
		if err := v.BindEnv(key); err != nil {
			return errors.Wrapf(err, "unable to bind env var: %s", key)
		}
	}

	return nil
}
