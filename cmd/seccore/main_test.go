// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alissa-agent/seccore/pkg/secrand"
)

// fastKDF keeps CLI tests quick; the derived key length is unchanged.
var fastKDF = []string{"--scrypt-n=1024"}

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	src, err := secrand.NewDeterministic([]byte(t.Name()))
	require.NoError(t, err)

	cmd := newRootCmd(Deps{Random: src})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err = cmd.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	res := execute(t, "", "--help")
	require.NoError(t, res.err)

	for _, sub := range []string{"salt", "hash", "verify", "digest", "token", "validate", "bench"} {
		assert.Contains(t, res.stdout, sub, "Help missing %q command", sub)
	}
}

func TestRootCommand_ConfigFlags(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"config", "metrics", "kdf", "scrypt-n", "log-level", "api-key-prefix"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCommand_MissingConfigFile(t *testing.T) {
	res := execute(t, "", "salt", "--config", "/nonexistent/seccore.yaml")
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "Error:")
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	res := execute(t, "", "salt", "--kdf=bcrypt")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "bcrypt")
}

func TestRootCommand_Metrics(t *testing.T) {
	res := execute(t, "", "token", "access_token", "--count=2", "--metrics")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, `seccore_tokens_issued_total{kind="access_token"} 2`)
}
