// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/alissa-agent/seccore/pkg/digest"
)

func newDigestCmd(a *app) *cobra.Command {
	var algorithm string

	names := make([]string, 0, len(digest.Algorithms()))
	for _, alg := range digest.Algorithms() {
		names = append(names, string(alg))
	}

	cmd := &cobra.Command{
		Use:   "digest [text]",
		Short: "Print the hex digest of text or stdin",
		Long: `Print the lowercase hex digest of the argument, or of stdin when no
argument is given. Supported algorithms: ` + strings.Join(names, ", ") + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := digest.ParseAlgorithm(algorithm)
			if err != nil {
				return a.fail("parse algorithm", err)
			}

			var data []byte
			if len(args) == 1 {
				data = []byte(args[0])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return a.fail("read input", oops.Code("CLI_INPUT_READ_FAILED").Wrap(err))
				}
			}

			sum, err := digest.Sum(alg, data)
			if err != nil {
				return a.fail("digest", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), sum)
			return nil
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", string(digest.SHA256Algorithm), "digest algorithm")
	return cmd
}
