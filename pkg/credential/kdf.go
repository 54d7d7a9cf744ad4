// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package credential

import (
	"fmt"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/scrypt"
)

// DerivedKeyLength is the fixed derived key size in bytes (128 hex characters).
const DerivedKeyLength = 64

// Algorithm names accepted by Config.Algorithm.
const (
	AlgorithmScrypt   = "scrypt"
	AlgorithmArgon2id = "argon2id"
)

// KDF derives a fixed-length key from a password and salt.
// Implementations are deterministic for identical inputs and parameters and
// must never return a partial key.
type KDF interface {
	// Derive computes the key. It blocks for the full cost of the function.
	Derive(password, salt []byte) ([]byte, error)

	// KeyLen returns the derived key length in bytes.
	KeyLen() int

	// Name returns the algorithm name used in metrics and logs.
	Name() string
}

// ScryptKDF derives keys with scrypt.
//
// Memory use is 128 * N * R bytes per derivation; the defaults use 32 MiB and
// take a few tens of milliseconds on commodity hardware.
type ScryptKDF struct {
	N         int `koanf:"n"`
	R         int `koanf:"r"`
	P         int `koanf:"p"`
	KeyLength int `koanf:"key_length"`
}

// DefaultScryptParams returns the recommended scrypt cost for interactive logins.
func DefaultScryptParams() ScryptKDF {
	return ScryptKDF{N: 1 << 15, R: 8, P: 1, KeyLength: DerivedKeyLength}
}

// LegacyScryptParams returns the parameters hashes from the original Node.js
// platform were produced with (N=16384, r=8, p=1). Use them only to verify
// those records.
func LegacyScryptParams() ScryptKDF {
	return ScryptKDF{N: 1 << 14, R: 8, P: 1, KeyLength: DerivedKeyLength}
}

// Validate checks the scrypt parameters.
func (k ScryptKDF) Validate() error {
	if k.N <= 1 || k.N&(k.N-1) != 0 {
		return oops.Code("CREDENTIAL_INVALID_PARAMS").With("n", k.N).Errorf("scrypt N must be a power of two greater than 1")
	}
	if k.R <= 0 || k.P <= 0 {
		return oops.Code("CREDENTIAL_INVALID_PARAMS").With("r", k.R).With("p", k.P).Errorf("scrypt r and p must be positive")
	}
	if uint64(k.R)*uint64(k.P) >= 1<<30 {
		return oops.Code("CREDENTIAL_INVALID_PARAMS").With("r", k.R).With("p", k.P).Errorf("scrypt r*p must be below 2^30")
	}
	if k.KeyLength <= 0 {
		return oops.Code("CREDENTIAL_INVALID_PARAMS").With("key_length", k.KeyLength).Errorf("key length must be positive")
	}
	return nil
}

// Derive computes scrypt(password, salt, N, r, p, KeyLength).
func (k ScryptKDF) Derive(password, salt []byte) (key []byte, err error) {
	defer recoverDerivation(k.Name(), &key, &err)

	key, err = scrypt.Key(password, salt, k.N, k.R, k.P, k.KeyLength)
	if err != nil {
		return nil, derivationError(k.Name(), err)
	}
	return checkKeyLength(k.Name(), key, k.KeyLength)
}

// KeyLen returns the derived key length in bytes.
func (k ScryptKDF) KeyLen() int { return k.KeyLength }

// Name returns "scrypt".
func (k ScryptKDF) Name() string { return AlgorithmScrypt }

// Argon2idKDF derives keys with Argon2id.
type Argon2idKDF struct {
	Time      uint32 `koanf:"time"`
	MemoryKiB uint32 `koanf:"memory_kib"`
	Threads   uint8  `koanf:"threads"`
	KeyLength uint32 `koanf:"key_length"`
}

// DefaultArgon2idParams returns the OWASP minimum Argon2id profile
// (19 MiB, 2 iterations, 1 lane).
func DefaultArgon2idParams() Argon2idKDF {
	return Argon2idKDF{Time: 2, MemoryKiB: 19 * 1024, Threads: 1, KeyLength: DerivedKeyLength}
}

// Validate checks the Argon2id parameters.
func (k Argon2idKDF) Validate() error {
	if k.Time < 1 {
		return oops.Code("CREDENTIAL_INVALID_PARAMS").With("time", k.Time).Errorf("argon2id time must be at least 1")
	}
	if k.Threads < 1 {
		return oops.Code("CREDENTIAL_INVALID_PARAMS").With("threads", k.Threads).Errorf("argon2id threads must be at least 1")
	}
	if k.MemoryKiB < 8*uint32(k.Threads) {
		return oops.Code("CREDENTIAL_INVALID_PARAMS").With("memory_kib", k.MemoryKiB).Errorf("argon2id memory must be at least 8 KiB per thread")
	}
	if k.KeyLength == 0 || k.KeyLength > 1<<30 {
		return oops.Code("CREDENTIAL_INVALID_PARAMS").With("key_length", k.KeyLength).Errorf("invalid key length")
	}
	return nil
}

// Derive computes argon2id(password, salt, Time, MemoryKiB, Threads, KeyLength).
func (k Argon2idKDF) Derive(password, salt []byte) (key []byte, err error) {
	defer recoverDerivation(k.Name(), &key, &err)

	if verr := k.Validate(); verr != nil {
		return nil, derivationError(k.Name(), verr)
	}
	key = argon2.IDKey(password, salt, k.Time, k.MemoryKiB, k.Threads, k.KeyLength)
	return checkKeyLength(k.Name(), key, int(k.KeyLength))
}

// KeyLen returns the derived key length in bytes.
func (k Argon2idKDF) KeyLen() int { return int(k.KeyLength) }

// Name returns "argon2id".
func (k Argon2idKDF) Name() string { return AlgorithmArgon2id }

func derivationError(algorithm string, cause error) error {
	return oops.Code("CREDENTIAL_KDF_FAILED").
		With("algorithm", algorithm).
		Wrap(fmt.Errorf("%w: %w", ErrDerivation, cause))
}

func checkKeyLength(algorithm string, key []byte, want int) ([]byte, error) {
	if len(key) != want {
		clear(key)
		return nil, oops.Code("CREDENTIAL_KDF_FAILED").
			With("algorithm", algorithm).
			With("key_length", len(key)).
			Wrap(fmt.Errorf("%w: short key", ErrDerivation))
	}
	return key, nil
}

// recoverDerivation turns a panic inside the KDF into ErrDerivation so no
// partially written key escapes.
func recoverDerivation(algorithm string, key *[]byte, err *error) {
	if r := recover(); r != nil {
		*key = nil
		*err = derivationError(algorithm, fmt.Errorf("panic: %v", r))
	}
}
