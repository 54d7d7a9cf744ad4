// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

// Package credential hashes and verifies passwords.
//
// # Components
//
//   - GenerateSalt - hex-encoded random salt from a secrand.Source
//   - KDF - memory-hard key derivation (ScryptKDF, Argon2idKDF), 64-byte output
//   - Equal - constant-time comparison of derived keys
//   - Service - composes the above into Hash, Verify and NewCredential
//
// # Storage shape
//
// A stored credential is the pair
//
//	{ "passwordHash": <128 hex chars>, "salt": <32 hex chars> }
//
// The salt's hex text is the KDF salt input, so a hash is only reproducible
// from the exact salt string it was stored with.
//
// # Blocking
//
// Derivation is CPU and memory heavy and blocks the calling goroutine. The
// Service bounds concurrent derivations with a semaphore sized by
// Config.MaxConcurrent; callers waiting for a slot are released when their
// context is cancelled.
package credential
