// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/alissa-agent/seccore/pkg/validation"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		list     bool
		document bool
		yamlIn   bool
	)

	cmd := &cobra.Command{
		Use:   "validate <schema> [file]",
		Short: "Validate a JSON or YAML payload against a request schema",
		Long: `Validate a payload read from file (or stdin) against a named request
schema and print the result as {"success": true, "data": ...} or
{"success": false, "error": ...}. Invalid input exits non-zero.

Files ending in .yaml or .yml, or input with --yaml, are decoded as YAML.
Use --list to show the schema names and --schema to print a schema document.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := a.schemaRegistry()

			if list {
				for _, name := range reg.Names() {
					desc, _ := reg.Describe(name)
					fmt.Fprintf(cmd.OutOrStdout(), "%-18s %s\n", name, desc)
				}
				return nil
			}

			name := args[0]
			if document {
				doc, err := reg.Document(name)
				if err != nil {
					return a.fail("schema document", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(doc))
				return nil
			}

			var (
				raw []byte
				err error
			)
			if len(args) == 2 {
				raw, err = os.ReadFile(args[1])
				ext := strings.ToLower(filepath.Ext(args[1]))
				yamlIn = yamlIn || ext == ".yaml" || ext == ".yml"
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return a.fail("read input", oops.Code("CLI_INPUT_READ_FAILED").Wrap(err))
			}

			var input any = raw
			if yamlIn {
				decoded, err := validation.DecodeYAML(raw)
				if err != nil {
					return a.printResult(cmd, name, validation.Fail[any](err.Error()))
				}
				input = decoded
			}

			res, err := reg.Validate(cmd.Context(), name, input)
			if err != nil {
				return a.fail("validate", err)
			}
			return a.printResult(cmd, name, res)
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list schema names")
	cmd.Flags().BoolVar(&document, "schema", false, "print the JSON Schema document instead of validating")
	cmd.Flags().BoolVar(&yamlIn, "yaml", false, "decode input as YAML")
	return cmd
}

func (a *app) printResult(cmd *cobra.Command, name string, res validation.Result[any]) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return oops.Code("CLI_OUTPUT_FAILED").Wrap(err)
	}
	if !res.OK() {
		return oops.Code("VALIDATION_FAILED").With("schema", name).Errorf("input does not match schema %q", name)
	}
	return nil
}
