// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alissa-agent/seccore/pkg/token"
)

func TestDigestCmd(t *testing.T) {
	const helloSHA256 = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

	res := execute(t, "", "digest", "hello")
	require.NoError(t, res.err)
	assert.Equal(t, helloSHA256+"\n", res.stdout)

	res = execute(t, "hello", "digest")
	require.NoError(t, res.err)
	assert.Equal(t, helloSHA256+"\n", res.stdout)

	res = execute(t, "", "digest", "-a", "md5", "hello")
	require.NoError(t, res.err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592\n", res.stdout)

	res = execute(t, "", "digest", "--algorithm", "sha1", "hello")
	assert.Error(t, res.err)
}

func TestTokenCmd(t *testing.T) {
	res := execute(t, "", "token")
	require.NoError(t, res.err)
	tok := strings.TrimSpace(res.stdout)
	assert.True(t, strings.HasPrefix(tok, "ak_"), tok)

	res = execute(t, "", "token", "refresh", "--count=3")
	require.NoError(t, res.err)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "rt_"), line)
	}

	res = execute(t, "", "token", "access_token", "--fingerprint")
	require.NoError(t, res.err)
	fields := strings.Fields(res.stdout)
	require.Len(t, fields, 2)
	assert.Equal(t, token.Fingerprint(fields[0]), fields[1])

	res = execute(t, "", "token", "session")
	assert.Error(t, res.err)

	res = execute(t, "", "token", "--count=0")
	assert.Error(t, res.err)
}

func TestTokenCmd_ConfiguredPrefix(t *testing.T) {
	res := execute(t, "", "token", "--api-key-prefix=key_")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "key_"), res.stdout)
}

func decodeResult(t *testing.T, out string) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestValidateCmd(t *testing.T) {
	t.Run("valid stdin", func(t *testing.T) {
		res := execute(t, `{"email":"user@example.com","password":"x"}`, "validate", "login")
		require.NoError(t, res.err)
		v := decodeResult(t, res.stdout)
		assert.Equal(t, true, v["success"])
	})

	t.Run("invalid input exits non-zero", func(t *testing.T) {
		res := execute(t, `{"email":"user@example.com","username":"al","password":"Secret123!"}`, "validate", "register")
		require.Error(t, res.err)
		v := decodeResult(t, res.stdout)
		assert.Equal(t, false, v["success"])
		assert.True(t, strings.HasPrefix(v["error"].(string), "username: "), v["error"])
	})

	t.Run("yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "agent.yaml")
		require.NoError(t, os.WriteFile(path, []byte("name: coach\ntype: interview\nsettings:\n  model: m1\n"), 0o600))

		res := execute(t, "", "validate", "agent-config", path)
		require.NoError(t, res.err, res.stdout)
		v := decodeResult(t, res.stdout)
		data := v["data"].(map[string]any)
		assert.Equal(t, true, data["enabled"])
	})

	t.Run("malformed yaml", func(t *testing.T) {
		res := execute(t, "name: [", "validate", "agent-config", "--yaml")
		require.Error(t, res.err)
		assert.Equal(t, false, decodeResult(t, res.stdout)["success"])
	})

	t.Run("unknown schema", func(t *testing.T) {
		res := execute(t, "{}", "validate", "nope")
		require.Error(t, res.err)
		assert.Empty(t, res.stdout)
	})

	t.Run("list", func(t *testing.T) {
		res := execute(t, "", "validate", "--list")
		require.NoError(t, res.err)
		for _, name := range []string{"register", "login", "pagination", "agent-config", "user-preferences"} {
			assert.Contains(t, res.stdout, name)
		}
	})

	t.Run("schema document", func(t *testing.T) {
		res := execute(t, "", "validate", "pagination", "--schema")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "sortOrder")
	})

	t.Run("metrics", func(t *testing.T) {
		res := execute(t, "{}", "validate", "pagination", "--metrics")
		require.NoError(t, res.err)
		assert.Contains(t, res.stderr, `seccore_validations_total{outcome="valid",schema="pagination"} 1`)
	})
}

func TestBenchCompareCmd(t *testing.T) {
	res := execute(t, "", "bench", "compare", "--size=256", "--trials=5", "--batch=2", "--tolerance=1")
	require.NoError(t, res.err)
	for _, want := range []string{"comparator:   constant", "first-byte:", "last-byte:", "relative:"} {
		assert.Contains(t, res.stdout, want)
	}

	res = execute(t, "", "bench", "compare", "--comparator=xor")
	assert.Error(t, res.err)

	res = execute(t, "", "bench", "compare", "--trials=1")
	assert.Error(t, res.err)
}
