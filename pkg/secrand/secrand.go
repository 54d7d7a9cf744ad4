// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

// Package secrand provides the cryptographically secure random source used by
// credential hashing and token issuance.
//
// Production code uses System, which reads from crypto/rand on every call.
// Tests may inject a Deterministic source to obtain reproducible output; it
// must never be used to mint real salts or tokens.
package secrand

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"sync"

	"github.com/samber/oops"
	"golang.org/x/crypto/chacha20"

	"github.com/alissa-agent/seccore/pkg/errutil"
)

// ErrUnavailable is wrapped by every error caused by a failing random source.
// It is fatal: callers must abort the enclosing operation and never retry
// with a weaker generator.
var ErrUnavailable = errutil.NewFatal("secure random source unavailable")

// Source is a cryptographically secure byte source.
type Source interface {
	io.Reader
}

type systemSource struct{}

func (systemSource) Read(p []byte) (int, error) {
	//nolint:wrapcheck // Bytes wraps read failures with context
	return rand.Read(p)
}

// System returns the operating system CSPRNG.
func System() Source {
	return systemSource{}
}

// Bytes returns n freshly read random bytes from src.
// A short read or read error is reported as a fatal error wrapping ErrUnavailable.
func Bytes(src Source, n int) ([]byte, error) {
	if n <= 0 {
		return nil, oops.Code("SECRAND_INVALID_LENGTH").
			With("requested_bytes", n).
			Errorf("random byte count must be positive")
	}
	if src == nil {
		src = System()
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(src, buf); err != nil {
		return nil, oops.Code("SECRAND_READ_FAILED").
			With("operation", "read random bytes").
			With("requested_bytes", n).
			Wrap(fmt.Errorf("%w: %w", ErrUnavailable, err))
	}
	return buf, nil
}

// Deterministic is a reproducible ChaCha20 keystream. Two instances built from
// the same seed yield identical byte sequences.
type Deterministic struct {
	mu     sync.Mutex
	cipher *chacha20.Cipher
}

// NewDeterministic creates a Deterministic source keyed by SHA-256(seed).
// For tests only.
func NewDeterministic(seed []byte) (*Deterministic, error) {
	key := sha256.Sum256(seed)
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	if err != nil {
		return nil, oops.Code("SECRAND_SEED_FAILED").Wrap(err)
	}
	return &Deterministic{cipher: c}, nil
}

// Read fills p with the next bytes of the keystream.
func (d *Deterministic) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	clear(p)
	d.cipher.XORKeyStream(p, p)
	return len(p), nil
}
