// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

// Package token issues namespaced, URL-safe random tokens.
//
// A token is a literal prefix followed by the unpadded base64url encoding of
// N secure random bytes:
//
//	ak_<32 bytes>  API key
//	at_<48 bytes>  access token
//	rt_<64 bytes>  refresh token
//
// Tokens are not checked for uniqueness. Store Fingerprint(token), never the
// plaintext.
package token

import (
	"encoding/base64"
	"strings"

	"github.com/samber/oops"

	"github.com/alissa-agent/seccore/pkg/digest"
	"github.com/alissa-agent/seccore/pkg/secrand"
)

// MinBytes is the smallest accepted random payload.
const MinBytes = 16

// Kind identifies the purpose of a token.
type Kind int

// Token kinds.
const (
	KindAPIKey Kind = iota
	KindAccessToken
	KindRefreshToken
)

// Kinds lists every token kind.
func Kinds() []Kind {
	return []Kind{KindAPIKey, KindAccessToken, KindRefreshToken}
}

// String returns the kind's metric/CLI name.
func (k Kind) String() string {
	switch k {
	case KindAPIKey:
		return "api_key"
	case KindAccessToken:
		return "access_token"
	case KindRefreshToken:
		return "refresh_token"
	default:
		return "unknown"
	}
}

// ParseKind resolves a kind name as returned by Kind.String. Hyphens and the
// short forms "api", "access" and "refresh" are accepted.
func ParseKind(name string) (Kind, error) {
	switch strings.ReplaceAll(strings.ToLower(name), "-", "_") {
	case "api_key", "api", "apikey":
		return KindAPIKey, nil
	case "access_token", "access":
		return KindAccessToken, nil
	case "refresh_token", "refresh":
		return KindRefreshToken, nil
	default:
		return 0, oops.Code("TOKEN_INVALID_KIND").With("kind", name).Errorf("unknown token kind: %s", name)
	}
}

// Spec is the prefix and random payload size of one token kind.
type Spec struct {
	Prefix string `koanf:"prefix"`
	Bytes  int    `koanf:"bytes"`
}

// EncodedLen returns the length of a token issued with this spec.
func (s Spec) EncodedLen() int {
	return len(s.Prefix) + base64.RawURLEncoding.EncodedLen(s.Bytes)
}

// Config maps each kind to its Spec.
type Config struct {
	APIKey       Spec `koanf:"api_key"`
	AccessToken  Spec `koanf:"access_token"`
	RefreshToken Spec `koanf:"refresh_token"`
}

// DefaultConfig returns the standard prefixes and sizes.
func DefaultConfig() Config {
	return Config{
		APIKey:       Spec{Prefix: "ak_", Bytes: 32},
		AccessToken:  Spec{Prefix: "at_", Bytes: 48},
		RefreshToken: Spec{Prefix: "rt_", Bytes: 64},
	}
}

// Spec returns the spec for kind.
func (c Config) Spec(kind Kind) (Spec, bool) {
	switch kind {
	case KindAPIKey:
		return c.APIKey, true
	case KindAccessToken:
		return c.AccessToken, true
	case KindRefreshToken:
		return c.RefreshToken, true
	default:
		return Spec{}, false
	}
}

// Validate checks prefixes and sizes. Prefixes must be non-empty, URL-safe and
// must not be prefixes of one another, so that KindOf is unambiguous.
func (c Config) Validate() error {
	kinds := Kinds()
	for i, k := range kinds {
		spec, _ := c.Spec(k)
		if spec.Prefix == "" || !isURLSafe(spec.Prefix) {
			return oops.Code("TOKEN_INVALID_CONFIG").
				With("kind", k.String()).
				With("prefix", spec.Prefix).
				Errorf("prefix must be non-empty and URL-safe")
		}
		if spec.Bytes < MinBytes {
			return oops.Code("TOKEN_INVALID_CONFIG").
				With("kind", k.String()).
				With("bytes", spec.Bytes).
				Errorf("token needs at least %d random bytes", MinBytes)
		}
		for _, other := range kinds[i+1:] {
			otherSpec, _ := c.Spec(other)
			if strings.HasPrefix(spec.Prefix, otherSpec.Prefix) || strings.HasPrefix(otherSpec.Prefix, spec.Prefix) {
				return oops.Code("TOKEN_INVALID_CONFIG").
					With("kind", k.String()).
					With("other", other.String()).
					Errorf("prefixes %q and %q overlap", spec.Prefix, otherSpec.Prefix)
			}
		}
	}
	return nil
}

// Recorder receives token metrics.
type Recorder interface {
	RecordIssued(kind string)
}

type nopRecorder struct{}

func (nopRecorder) RecordIssued(string) {}

// Issuer generates tokens.
type Issuer struct {
	cfg      Config
	random   secrand.Source
	recorder Recorder
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithRandom sets the random source.
func WithRandom(src secrand.Source) Option {
	return func(i *Issuer) { i.random = src }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(i *Issuer) { i.recorder = r }
}

// NewIssuer creates an Issuer from cfg.
func NewIssuer(cfg Config, opts ...Option) (*Issuer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	i := &Issuer{
		cfg:      cfg,
		random:   secrand.System(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue returns a new token of the given kind.
func (i *Issuer) Issue(kind Kind) (string, error) {
	spec, ok := i.cfg.Spec(kind)
	if !ok {
		return "", oops.Code("TOKEN_INVALID_KIND").With("kind", int(kind)).Errorf("unknown token kind")
	}

	body, err := i.RandomString(spec.Bytes)
	if err != nil {
		return "", oops.With("kind", kind.String()).Wrap(err)
	}
	i.recorder.RecordIssued(kind.String())
	return spec.Prefix + body, nil
}

// APIKey issues an API key.
func (i *Issuer) APIKey() (string, error) { return i.Issue(KindAPIKey) }

// AccessToken issues an access token.
func (i *Issuer) AccessToken() (string, error) { return i.Issue(KindAccessToken) }

// RefreshToken issues a refresh token.
func (i *Issuer) RefreshToken() (string, error) { return i.Issue(KindRefreshToken) }

// RandomString returns n random bytes as unpadded base64url.
func (i *Issuer) RandomString(n int) (string, error) {
	raw, err := secrand.Bytes(i.random, n)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// KindOf classifies tok by prefix. It returns false when no prefix matches,
// the body length is wrong for the kind, or the body is not base64url.
func (i *Issuer) KindOf(tok string) (Kind, bool) {
	for _, k := range Kinds() {
		spec, _ := i.cfg.Spec(k)
		if !strings.HasPrefix(tok, spec.Prefix) {
			continue
		}
		if len(tok) != spec.EncodedLen() || !isURLSafe(tok[len(spec.Prefix):]) {
			return 0, false
		}
		return k, true
	}
	return 0, false
}

// Fingerprint returns the SHA-256 hex digest of tok for at-rest storage.
func Fingerprint(tok string) string {
	return digest.SHA256(tok)
}

func isURLSafe(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
