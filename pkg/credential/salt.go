// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package credential

import (
	"encoding/hex"

	"github.com/samber/oops"

	"github.com/alissa-agent/seccore/pkg/secrand"
)

// DefaultSaltLength is the salt size in bytes (32 hex characters).
const DefaultSaltLength = 16

// GenerateSalt returns length random bytes from src as lowercase hex.
// A nil src uses the system CSPRNG.
func GenerateSalt(src secrand.Source, length int) (string, error) {
	if length <= 0 {
		return "", oops.Code("CREDENTIAL_INVALID_SALT_LENGTH").
			With("length", length).
			Errorf("salt length must be positive")
	}

	raw, err := secrand.Bytes(src, length)
	if err != nil {
		return "", oops.Code("CREDENTIAL_SALT_FAILED").Wrap(err)
	}
	return hex.EncodeToString(raw), nil
}
