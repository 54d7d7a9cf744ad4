// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

// Package config loads seccore settings from defaults, a YAML file and
// command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/alissa-agent/seccore/internal/xdg"
	"github.com/alissa-agent/seccore/pkg/credential"
	"github.com/alissa-agent/seccore/pkg/token"
)

// Log formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// LogConfig selects the log encoding and threshold.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// Config is the complete seccore configuration.
type Config struct {
	Log        LogConfig         `koanf:"log"`
	Credential credential.Config `koanf:"credential"`
	Token      token.Config      `koanf:"token"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:        LogConfig{Format: FormatJSON, Level: "info"},
		Credential: credential.DefaultConfig(),
		Token:      token.DefaultConfig(),
	}
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"log-format":     "log.format",
	"log-level":      "log.level",
	"kdf":            "credential.algorithm",
	"salt-length":    "credential.salt_length",
	"max-concurrent": "credential.max_concurrent",
	"scrypt-n":       "credential.scrypt.n",
	"scrypt-r":       "credential.scrypt.r",
	"scrypt-p":       "credential.scrypt.p",
	"argon2-time":    "credential.argon2id.time",
	"argon2-memory":  "credential.argon2id.memory_kib",
	"argon2-threads": "credential.argon2id.threads",
	"api-key-bytes":  "token.api_key.bytes",
	"access-bytes":   "token.access_token.bytes",
	"refresh-bytes":  "token.refresh_token.bytes",
	"api-key-prefix": "token.api_key.prefix",
	"access-prefix":  "token.access_token.prefix",
	"refresh-prefix": "token.refresh_token.prefix",
}

// RegisterFlags defines the configuration flags on fs. Flag defaults mirror
// Default; only flags set explicitly override the config file.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()

	fs.String("log-format", d.Log.Format, "log format (json or text)")
	fs.String("log-level", d.Log.Level, "log level (debug, info, warn, error)")

	fs.String("kdf", d.Credential.Algorithm, "password KDF (scrypt or argon2id)")
	fs.Int("salt-length", d.Credential.SaltLength, "salt length in bytes")
	fs.Int("max-concurrent", d.Credential.MaxConcurrent, "maximum concurrent key derivations (0 = GOMAXPROCS)")
	fs.Int("scrypt-n", d.Credential.Scrypt.N, "scrypt CPU/memory cost (power of two)")
	fs.Int("scrypt-r", d.Credential.Scrypt.R, "scrypt block size")
	fs.Int("scrypt-p", d.Credential.Scrypt.P, "scrypt parallelism")
	fs.Uint32("argon2-time", d.Credential.Argon2id.Time, "argon2id iterations")
	fs.Uint32("argon2-memory", d.Credential.Argon2id.MemoryKiB, "argon2id memory in KiB")
	fs.Uint8("argon2-threads", d.Credential.Argon2id.Threads, "argon2id lanes")

	fs.Int("api-key-bytes", d.Token.APIKey.Bytes, "random bytes in an API key")
	fs.Int("access-bytes", d.Token.AccessToken.Bytes, "random bytes in an access token")
	fs.Int("refresh-bytes", d.Token.RefreshToken.Bytes, "random bytes in a refresh token")
	fs.String("api-key-prefix", d.Token.APIKey.Prefix, "API key prefix")
	fs.String("access-prefix", d.Token.AccessToken.Prefix, "access token prefix")
	fs.String("refresh-prefix", d.Token.RefreshToken.Prefix, "refresh token prefix")
}

// Load builds the configuration. When path is empty the XDG config file is
// used if it exists; an explicit path must exist. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	filePath, required := path, path != ""
	if !required {
		filePath = xdg.ConfigFile()
	}
	if err := loadFile(k, filePath, required); err != nil {
		return Config{}, err
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "flags").
				Wrap(err)
		}
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, oops.Code("CONFIG_LOAD_FAILED").
			With("operation", "unmarshal").
			Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(k *koanf.Koanf, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return oops.Code("CONFIG_NOT_FOUND").
			With("path", path).
			Wrap(err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return oops.Code("CONFIG_LOAD_FAILED").
			With("path", path).
			Wrap(err)
	}
	return nil
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs error
	switch c.Log.Format {
	case FormatJSON, FormatText:
	default:
		errs = multierr.Append(errs, oops.With("log.format", c.Log.Format).Errorf("log format must be %q or %q", FormatJSON, FormatText))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = multierr.Append(errs, oops.With("log.level", c.Log.Level).Errorf("unknown log level %q", c.Log.Level))
	}
	errs = multierr.Append(errs, c.Credential.Validate())
	errs = multierr.Append(errs, c.Token.Validate())

	if errs != nil {
		return oops.Code("CONFIG_INVALID").
			With("problems", len(multierr.Errors(errs))).
			Wrap(errs)
	}
	return nil
}
