// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package errutil

import (
	"fmt"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode asserts that err is an oops error with the given code.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	assert.Equal(t, code, oopsErr.Code())
}

// AssertErrorContext asserts that err is an oops error with the given context key/value.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	ctx := oopsErr.Context()
	assert.Contains(t, ctx, key)
	assert.Equal(t, value, ctx[key])
}

// AssertNoSecret asserts that none of the secrets appear in the error message
// or, for oops errors, in any context value.
func AssertNoSecret(t *testing.T, err error, secrets ...string) {
	t.Helper()
	require.Error(t, err)
	for _, s := range secrets {
		assert.NotContains(t, err.Error(), s)
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return
	}
	for k, v := range oopsErr.Context() {
		rendered := fmt.Sprint(v)
		for _, s := range secrets {
			assert.NotContains(t, rendered, s, "context key %q leaks a secret", k)
		}
	}
}
