// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package credential

import (
	"context"
	"encoding/hex"
	"log/slog"
	"runtime"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/alissa-agent/seccore/pkg/secrand"
)

var tracer = otel.Tracer("seccore/credential")

// Verification outcomes reported to a Recorder.
const (
	OutcomeMatch    = "match"
	OutcomeMismatch = "mismatch"
	OutcomeError    = "error"
)

// Credential is the persisted form of a hashed password.
type Credential struct {
	PasswordHash string `json:"passwordHash"`
	Salt         string `json:"salt"`
}

// Recorder receives credential metrics. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveDerivation(algorithm string, d time.Duration)
	RecordVerification(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveDerivation(string, time.Duration) {}
func (nopRecorder) RecordVerification(string)               {}

// Config holds construction-time parameters for a Service.
type Config struct {
	// Algorithm selects the KDF: AlgorithmScrypt (default) or AlgorithmArgon2id.
	Algorithm string `koanf:"algorithm"`
	// SaltLength is the salt size in bytes.
	SaltLength int `koanf:"salt_length"`
	// MaxConcurrent bounds simultaneous derivations. Zero means GOMAXPROCS.
	MaxConcurrent int `koanf:"max_concurrent"`

	Scrypt   ScryptKDF   `koanf:"scrypt"`
	Argon2id Argon2idKDF `koanf:"argon2id"`
}

// DefaultConfig returns a Config using scrypt with recommended parameters.
func DefaultConfig() Config {
	return Config{
		Algorithm:  AlgorithmScrypt,
		SaltLength: DefaultSaltLength,
		Scrypt:     DefaultScryptParams(),
		Argon2id:   DefaultArgon2idParams(),
	}
}

// Validate checks the configuration, including the selected KDF's parameters.
func (c Config) Validate() error {
	if c.SaltLength <= 0 {
		return oops.Code("CREDENTIAL_INVALID_CONFIG").With("salt_length", c.SaltLength).Errorf("salt length must be positive")
	}
	if c.MaxConcurrent < 0 {
		return oops.Code("CREDENTIAL_INVALID_CONFIG").With("max_concurrent", c.MaxConcurrent).Errorf("max concurrent must not be negative")
	}
	kdf, err := c.NewKDF()
	if err != nil {
		return err
	}
	if kdf.KeyLen() != DerivedKeyLength {
		return oops.Code("CREDENTIAL_INVALID_CONFIG").
			With("key_length", kdf.KeyLen()).
			Errorf("derived key length must be %d bytes", DerivedKeyLength)
	}
	return nil
}

// NewKDF returns the KDF selected by Algorithm after validating its parameters.
func (c Config) NewKDF() (KDF, error) {
	switch c.Algorithm {
	case AlgorithmScrypt, "":
		if err := c.Scrypt.Validate(); err != nil {
			return nil, err
		}
		return c.Scrypt, nil
	case AlgorithmArgon2id:
		if err := c.Argon2id.Validate(); err != nil {
			return nil, err
		}
		return c.Argon2id, nil
	default:
		return nil, oops.Code("CREDENTIAL_INVALID_CONFIG").
			With("algorithm", c.Algorithm).
			Errorf("unsupported algorithm: %s", c.Algorithm)
	}
}

// Service hashes and verifies passwords.
type Service struct {
	kdf        KDF
	random     secrand.Source
	saltLength int
	gate       *semaphore.Weighted
	recorder   Recorder
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRandom sets the random source used for salts.
func WithRandom(src secrand.Source) Option {
	return func(s *Service) { s.random = src }
}

// WithKDF replaces the KDF selected by the Config.
func WithKDF(kdf KDF) Option {
	return func(s *Service) { s.kdf = kdf }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a Service from cfg.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kdf, err := cfg.NewKDF()
	if err != nil {
		return nil, err
	}

	limit := cfg.MaxConcurrent
	if limit == 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	s := &Service{
		kdf:        kdf,
		random:     secrand.System(),
		saltLength: cfg.SaltLength,
		gate:       semaphore.NewWeighted(int64(limit)),
		recorder:   nopRecorder{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.kdf == nil {
		return nil, oops.Code("CREDENTIAL_INVALID_CONFIG").Errorf("kdf is required")
	}
	return s, nil
}

// Algorithm returns the name of the KDF in use.
func (s *Service) Algorithm() string {
	return s.kdf.Name()
}

// GenerateSalt returns a new salt of the configured length.
func (s *Service) GenerateSalt() (string, error) {
	return GenerateSalt(s.random, s.saltLength)
}

// Hash derives the hex-encoded key for password and salt.
func (s *Service) Hash(ctx context.Context, password, salt string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if salt == "" {
		return "", ErrEmptySalt
	}

	key, err := s.derive(ctx, password, salt)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}

// Verify recomputes the key for password and salt and compares it with
// storedHash in constant time.
// Returns (true, nil) on match, (false, nil) on mismatch, or an error when the
// stored hash is malformed or derivation fails.
func (s *Service) Verify(ctx context.Context, password, storedHash, salt string) (ok bool, err error) {
	ctx, span := tracer.Start(ctx, "credential.verify",
		trace.WithAttributes(attribute.String("kdf.algorithm", s.kdf.Name())),
	)
	outcome := OutcomeError
	defer func() {
		s.recorder.RecordVerification(outcome)
		span.SetAttributes(attribute.String("credential.outcome", outcome))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if salt == "" {
		return false, ErrEmptySalt
	}
	expected, err := hex.DecodeString(storedHash)
	if err != nil || len(expected) == 0 {
		return false, oops.Code("CREDENTIAL_INVALID_HASH").
			With("hash_len", len(storedHash)).
			Errorf("stored hash is not valid hex")
	}
	if password == "" {
		outcome = OutcomeMismatch
		return false, nil
	}

	computed, err := s.derive(ctx, password, salt)
	if err != nil {
		return false, err
	}
	defer clear(computed)

	if !Equal(computed, expected) {
		outcome = OutcomeMismatch
		return false, nil
	}
	outcome = OutcomeMatch
	return true, nil
}

// NewCredential generates a salt and hashes password with it.
func (s *Service) NewCredential(ctx context.Context, password string) (Credential, error) {
	if password == "" {
		return Credential{}, ErrEmptyPassword
	}
	salt, err := s.GenerateSalt()
	if err != nil {
		return Credential{}, err
	}
	hash, err := s.Hash(ctx, password, salt)
	if err != nil {
		return Credential{}, err
	}
	return Credential{PasswordHash: hash, Salt: salt}, nil
}

func (s *Service) derive(ctx context.Context, password, salt string) (key []byte, err error) {
	ctx, span := tracer.Start(ctx, "credential.derive",
		trace.WithAttributes(attribute.String("kdf.algorithm", s.kdf.Name())),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := s.gate.Acquire(ctx, 1); err != nil {
		return nil, oops.Code("CREDENTIAL_CANCELLED").
			With("operation", "acquire derivation slot").
			Wrap(err)
	}
	defer s.gate.Release(1)

	start := time.Now()
	key, err = s.kdf.Derive([]byte(password), []byte(salt))
	elapsed := time.Since(start)
	s.recorder.ObserveDerivation(s.kdf.Name(), elapsed)
	span.SetAttributes(attribute.Int64("kdf.duration_ms", elapsed.Milliseconds()))
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "password key derived",
		"algorithm", s.kdf.Name(),
		"duration_ms", elapsed.Milliseconds(),
	)
	return key, nil
}
