// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package main

import (
	"encoding/json"
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/alissa-agent/seccore/pkg/credential"
)

// Verification results printed by the verify command.
const (
	resultMatch    = "match"
	resultMismatch = "mismatch"
)

// errMismatch makes verify exit non-zero without logging anything about the
// password.
var errMismatch = oops.Code("CREDENTIAL_MISMATCH").Errorf("password does not match")

func newSaltCmd(a *app) *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "salt",
		Short: "Generate a random salt",
		Long:  `Generate a random salt and print it as lowercase hex.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if length == 0 {
				length = a.cfg.Credential.SaltLength
			}
			salt, err := credential.GenerateSalt(a.deps.Random, length)
			if err != nil {
				return a.fail("generate salt", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), salt)
			return nil
		},
	}

	cmd.Flags().IntVarP(&length, "length", "n", 0, "salt length in bytes (default from config)")
	return cmd
}

func newHashCmd(a *app) *cobra.Command {
	var salt string

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Hash a password",
		Long: `Hash a password read from the terminal (or one line of stdin) and print
the stored credential as JSON: {"passwordHash": ..., "salt": ...}.
A fresh salt is generated unless --salt is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.credentialService()
			if err != nil {
				return a.fail("create credential service", err)
			}
			password, err := a.readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password")
			if err != nil {
				return a.fail("read password", err)
			}

			var cred credential.Credential
			if salt == "" {
				cred, err = svc.NewCredential(cmd.Context(), password)
			} else {
				cred.Salt = salt
				cred.PasswordHash, err = svc.Hash(cmd.Context(), password, salt)
			}
			if err != nil {
				return a.fail("hash password", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cred)
		},
	}

	cmd.Flags().StringVar(&salt, "salt", "", "use this salt instead of generating one")
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	var storedHash, salt string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a password against a stored hash",
		Long: `Verify a password read from the terminal (or one line of stdin) against a
stored hash and salt. Prints "match" or "mismatch"; a mismatch exits non-zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.credentialService()
			if err != nil {
				return a.fail("create credential service", err)
			}
			password, err := a.readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password")
			if err != nil {
				return a.fail("read password", err)
			}

			ok, err := svc.Verify(cmd.Context(), password, storedHash, salt)
			if err != nil {
				return a.fail("verify password", err)
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), resultMismatch)
				return errMismatch
			}
			fmt.Fprintln(cmd.OutOrStdout(), resultMatch)
			return nil
		},
	}

	cmd.Flags().StringVar(&storedHash, "hash", "", "stored password hash (hex)")
	cmd.Flags().StringVar(&salt, "salt", "", "stored salt")
	_ = cmd.MarkFlagRequired("hash")
	_ = cmd.MarkFlagRequired("salt")
	return cmd
}
