// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/alissa-agent/seccore/internal/config"
	"github.com/alissa-agent/seccore/internal/observability"
	"github.com/alissa-agent/seccore/pkg/credential"
	"github.com/alissa-agent/seccore/pkg/errutil"
	"github.com/alissa-agent/seccore/pkg/schemas"
	"github.com/alissa-agent/seccore/pkg/secrand"
	"github.com/alissa-agent/seccore/pkg/token"
)

// Deps contains injectable dependencies for the CLI.
// All fields with nil values will use their default implementations.
type Deps struct {
	// Random supplies salts and tokens.
	// Default: secrand.System
	Random secrand.Source

	// ConfigLoader builds the configuration from a file and flags.
	// Default: config.Load
	ConfigLoader func(path string, flags *pflag.FlagSet) (config.Config, error)

	// PasswordReader reads a password from an interactive terminal.
	// Default: term.ReadPassword
	PasswordReader func(fd int) ([]byte, error)
}

func (d Deps) withDefaults() Deps {
	if d.Random == nil {
		d.Random = secrand.System()
	}
	if d.ConfigLoader == nil {
		d.ConfigLoader = config.Load
	}
	if d.PasswordReader == nil {
		d.PasswordReader = term.ReadPassword
	}
	return d
}

// app holds what every subcommand needs once flags are parsed.
type app struct {
	deps     Deps
	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *observability.Metrics
}

func (a *app) credentialService() (*credential.Service, error) {
	return credential.NewService(a.cfg.Credential,
		credential.WithRandom(a.deps.Random),
		credential.WithRecorder(a.metrics),
		credential.WithLogger(a.logger),
	)
}

func (a *app) tokenIssuer() (*token.Issuer, error) {
	return token.NewIssuer(a.cfg.Token,
		token.WithRandom(a.deps.Random),
		token.WithRecorder(a.metrics),
	)
}

func (a *app) schemaRegistry() *schemas.Registry {
	return schemas.NewRegistry(schemas.WithRecorder(a.metrics))
}

// fail logs err and returns it so cobra reports it and exits non-zero.
func (a *app) fail(msg string, err error) error {
	if a.logger != nil {
		errutil.LogError(a.logger, msg, err)
	}
	return err
}

// readPassword prompts on a terminal without echo, or reads one line from in
// when it is not a terminal.
func (a *app) readPassword(in io.Reader, prompt io.Writer, label string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(prompt, "%s: ", label)
		b, err := a.deps.PasswordReader(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", oops.Code("CLI_PASSWORD_READ_FAILED").Wrap(err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", oops.Code("CLI_PASSWORD_READ_FAILED").Wrap(err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
