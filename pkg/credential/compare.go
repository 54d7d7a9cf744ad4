// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package credential

import "crypto/subtle"

// Equal reports whether a and b hold the same bytes. For equal-length inputs
// the running time does not depend on where they differ. Inputs of different
// length return false immediately; length is not secret.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
