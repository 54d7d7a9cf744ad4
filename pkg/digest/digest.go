// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

// Package digest provides fast one-way hashes rendered as lowercase hex.
//
// These functions are for fingerprints, checksums, idempotency keys and cache
// keys. They are NOT suitable for password storage; use package credential.
package digest

import (
	"crypto/md5" //nolint:gosec // G501: fingerprinting only, never credentials
	"crypto/sha512"
	"encoding/hex"
	"strings"

	"github.com/minio/sha256-simd"
	"github.com/samber/oops"
	"lukechampine.com/blake3"
)

// Algorithm names a supported digest.
type Algorithm string

// Supported algorithms.
const (
	MD5Algorithm    Algorithm = "md5"
	SHA256Algorithm Algorithm = "sha256"
	SHA512Algorithm Algorithm = "sha512"
	BLAKE3Algorithm Algorithm = "blake3"
)

// Algorithms lists the supported algorithms in a stable order.
func Algorithms() []Algorithm {
	return []Algorithm{MD5Algorithm, SHA256Algorithm, SHA512Algorithm, BLAKE3Algorithm}
}

// HexLen returns the length of the hex digest produced by a.
func (a Algorithm) HexLen() int {
	switch a {
	case MD5Algorithm:
		return 32
	case SHA256Algorithm, BLAKE3Algorithm:
		return 64
	case SHA512Algorithm:
		return 128
	default:
		return 0
	}
}

// ParseAlgorithm resolves a case-insensitive algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	if a.HexLen() == 0 {
		return "", oops.Code("DIGEST_UNKNOWN_ALGORITHM").
			With("algorithm", name).
			Errorf("unsupported digest algorithm: %s", name)
	}
	return a, nil
}

// MD5 returns the MD5 digest of data.
func MD5(data string) string {
	sum := md5.Sum([]byte(data)) //nolint:gosec // G401: fingerprinting only
	return hex.EncodeToString(sum[:])
}

// SHA256 returns the SHA-256 digest of data.
func SHA256(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// SHA512 returns the SHA-512 digest of data.
func SHA512(data string) string {
	sum := sha512.Sum512([]byte(data))
	return hex.EncodeToString(sum[:])
}

// BLAKE3 returns the 256-bit BLAKE3 digest of data.
func BLAKE3(data string) string {
	sum := blake3.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// Sum hashes data with the named algorithm.
func Sum(a Algorithm, data []byte) (string, error) {
	switch a {
	case MD5Algorithm:
		return MD5(string(data)), nil
	case SHA256Algorithm:
		return SHA256(string(data)), nil
	case SHA512Algorithm:
		return SHA512(string(data)), nil
	case BLAKE3Algorithm:
		return BLAKE3(string(data)), nil
	default:
		return "", oops.Code("DIGEST_UNKNOWN_ALGORITHM").
			With("algorithm", string(a)).
			Errorf("unsupported digest algorithm: %s", a)
	}
}
