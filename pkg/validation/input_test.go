// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alissa-agent/seccore/pkg/validation"
)

func TestDecodeYAML(t *testing.T) {
	t.Run("nested documents become JSON types", func(t *testing.T) {
		v, err := validation.DecodeYAML([]byte("name: agent\nsettings:\n  temperature: 0.5\ntags:\n  - a\n  - b\n"))
		require.NoError(t, err)

		m, ok := v.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "agent", m["name"])
		settings, ok := m["settings"].(map[string]any)
		require.True(t, ok)
		assert.InDelta(t, 0.5, settings["temperature"], 1e-9)
		assert.Equal(t, []any{"a", "b"}, m["tags"])
	})

	t.Run("malformed yaml is a validation issue", func(t *testing.T) {
		_, err := validation.DecodeYAML([]byte("name: [unterminated"))
		require.Error(t, err)

		var verr *validation.Error
		require.True(t, errors.As(err, &verr))
		first, _ := verr.First()
		assert.Equal(t, "invalid_yaml", first.Code)
	})
}
