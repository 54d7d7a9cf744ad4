// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package credential

import (
	"github.com/samber/oops"

	"github.com/alissa-agent/seccore/pkg/errutil"
)

// ErrDerivation is wrapped by every key derivation failure. It is fatal.
var ErrDerivation = errutil.NewFatal("key derivation failed")

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = oops.Code("CREDENTIAL_EMPTY_PASSWORD").Errorf("password cannot be empty")

// ErrEmptySalt is returned when a salt is required but empty.
var ErrEmptySalt = oops.Code("CREDENTIAL_INVALID_SALT").Errorf("salt cannot be empty")
