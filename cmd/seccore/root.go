// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/alissa-agent/seccore/internal/config"
	"github.com/alissa-agent/seccore/internal/logging"
	"github.com/alissa-agent/seccore/internal/observability"
)

// NewRootCmd creates the root command for the seccore CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(Deps{})
}

func newRootCmd(deps Deps) *cobra.Command {
	a := &app{deps: deps.withDefaults()}

	var (
		configFile  string
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "seccore",
		Short: "seccore - password hashing, tokens and input validation",
		Long: `seccore hashes and verifies passwords with a memory-hard KDF,
issues prefixed random tokens, computes digests and validates request
payloads against the platform schemas.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.deps.ConfigLoader(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.Setup("seccore", cmd.Root().Version, cfg.Log.Format,
				logging.ParseLevel(cfg.Log.Level), cmd.ErrOrStderr())
			a.registry = observability.NewRegistry()
			a.metrics = observability.NewMetrics(a.registry)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if !showMetrics {
				return nil
			}
			return observability.WriteText(cmd.ErrOrStderr(), a.registry)
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	cmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "print collected metrics to stderr on exit")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newSaltCmd(a))
	cmd.AddCommand(newHashCmd(a))
	cmd.AddCommand(newVerifyCmd(a))
	cmd.AddCommand(newDigestCmd(a))
	cmd.AddCommand(newTokenCmd(a))
	cmd.AddCommand(newValidateCmd(a))
	cmd.AddCommand(newBenchCmd(a))

	return cmd
}
