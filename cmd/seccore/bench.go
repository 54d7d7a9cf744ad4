// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package main

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/alissa-agent/seccore/internal/timing"
	"github.com/alissa-agent/seccore/pkg/credential"
)

func newBenchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure security properties of the primitives",
	}
	cmd.AddCommand(newBenchCompareCmd(a))
	return cmd
}

// earlyExitEqual stops at the first differing byte. It exists only as a
// reference point for the compare benchmark.
func earlyExitEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func newBenchCompareCmd(a *app) *cobra.Command {
	var (
		size       int
		trials     int
		batch      int
		tolerance  float64
		comparator string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Check that hash comparison time does not depend on content",
		Long: `Time the comparator on inputs differing in the first byte against inputs
differing in the last byte, and report the relative difference of the means.
Exits non-zero when the difference exceeds --tolerance.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cmp timing.Comparator
			switch comparator {
			case "constant":
				cmp = credential.Equal
			case "early-exit":
				cmp = earlyExitEqual
			default:
				return a.fail("bench compare", oops.Code("CLI_INVALID_COMPARATOR").
					With("comparator", comparator).
					Errorf("comparator must be \"constant\" or \"early-exit\""))
			}

			report, err := timing.CompareComparator(cmp, size, trials,
				timing.WithRandom(a.deps.Random), timing.WithBatch(batch))
			if err != nil {
				return a.fail("bench compare", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "comparator:   %s\n", comparator)
			fmt.Fprintf(cmd.OutOrStdout(), "size:         %d bytes\n", report.Size)
			fmt.Fprintf(cmd.OutOrStdout(), "trials:       %d x %d comparisons\n", report.Trials, batch)
			fmt.Fprintf(cmd.OutOrStdout(), "first-byte:   mean %v, stddev %v\n", report.FirstDiff.Mean, report.FirstDiff.StdDev)
			fmt.Fprintf(cmd.OutOrStdout(), "last-byte:    mean %v, stddev %v\n", report.LastDiff.Mean, report.LastDiff.StdDev)
			fmt.Fprintf(cmd.OutOrStdout(), "relative:     %.2f%%\n", report.RelativeDiff*100)

			if !report.Within(tolerance) {
				return oops.Code("TIMING_DEPENDS_ON_INPUT").
					With("relative_diff", report.RelativeDiff).
					With("tolerance", tolerance).
					Errorf("comparison time differs by %.2f%%, above %.2f%%", report.RelativeDiff*100, tolerance*100)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", credential.DerivedKeyLength*64, "input size in bytes")
	cmd.Flags().IntVar(&trials, "trials", 200, "number of samples per case")
	cmd.Flags().IntVar(&batch, "batch", timing.DefaultBatch, "comparisons per sample")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0.2, "maximum accepted relative difference")
	cmd.Flags().StringVar(&comparator, "comparator", "constant", "comparator to measure (constant or early-exit)")
	return cmd
}
