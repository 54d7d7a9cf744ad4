// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package errutil_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alissa-agent/seccore/pkg/errutil"
)

func TestLogError_WithOopsError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := oops.Code("CREDENTIAL_INVALID_HASH").
		With("hash_len", 12).
		Errorf("stored hash is not valid hex")

	errutil.LogError(logger, "verify failed", err)

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "ERROR", logEntry["level"])
	assert.Equal(t, "verify failed", logEntry["msg"])
	assert.Equal(t, "CREDENTIAL_INVALID_HASH", logEntry["code"])
	assert.NotContains(t, logEntry, "fatal")
}

func TestLogError_WithStandardError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	errutil.LogError(logger, "operation failed", errors.New("standard error"))

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "ERROR", logEntry["level"])
	assert.Contains(t, logEntry["error"], "standard error")
}

func TestLogError_FlagsFatal(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	fatal := errutil.NewFatal("entropy gone")
	errutil.LogError(logger, "salt generation failed", oops.Code("SECRAND_READ_FAILED").Wrap(fatal))

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, true, logEntry["fatal"])
}

func TestIsFatal(t *testing.T) {
	sentinel := errutil.NewFatal("kdf exploded")

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"sentinel", sentinel, true},
		{"wrapped with fmt", fmt.Errorf("hash: %w", sentinel), true},
		{"wrapped with oops", oops.Code("X").Wrap(sentinel), true},
		{"plain error", errors.New("bad input"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errutil.IsFatal(tt.err))
		})
	}
}
