// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package main

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/alissa-agent/seccore/pkg/token"
)

func newTokenCmd(a *app) *cobra.Command {
	var (
		count       int
		fingerprint bool
	)

	cmd := &cobra.Command{
		Use:   "token [api_key|access_token|refresh_token]",
		Short: "Issue random tokens",
		Long: `Issue prefixed random tokens. The kind defaults to api_key. With
--fingerprint each token is followed by the SHA-256 fingerprint to store.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"api_key", "access_token", "refresh_token"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := token.KindAPIKey
			if len(args) == 1 {
				k, err := token.ParseKind(args[0])
				if err != nil {
					return a.fail("parse token kind", err)
				}
				kind = k
			}
			if count < 1 {
				return a.fail("issue token", oops.Code("CLI_INVALID_COUNT").With("count", count).Errorf("count must be at least 1"))
			}

			issuer, err := a.tokenIssuer()
			if err != nil {
				return a.fail("create token issuer", err)
			}
			for range count {
				tok, err := issuer.Issue(kind)
				if err != nil {
					return a.fail("issue token", err)
				}
				if fingerprint {
					fmt.Fprintln(cmd.OutOrStdout(), tok, token.Fingerprint(tok))
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), tok)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "c", 1, "number of tokens to issue")
	cmd.Flags().BoolVar(&fingerprint, "fingerprint", false, "also print each token's storage fingerprint")
	return cmd
}
