// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

// Package timing measures whether a byte comparator's running time depends
// on where its inputs differ.
package timing

import (
	"math"
	"runtime"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/samber/oops"

	"github.com/alissa-agent/seccore/pkg/secrand"
)

// DefaultBatch is the number of comparisons timed together in one sample.
const DefaultBatch = 64

// Comparator reports whether a and b are equal.
type Comparator func(a, b []byte) bool

// Sample summarises the per-comparison durations of one input pair.
type Sample struct {
	Mean   time.Duration
	StdDev time.Duration
}

// Report is the outcome of CompareComparator.
type Report struct {
	Size      int
	Trials    int
	FirstDiff Sample
	LastDiff  Sample
	// RelativeDiff is |first-last| / max(first, last) over the means.
	RelativeDiff float64
}

// Within reports whether the relative difference is at most tolerance.
func (r Report) Within(tolerance float64) bool {
	return r.RelativeDiff <= tolerance
}

type harness struct {
	clock  clock.Clock
	random secrand.Source
	batch  int
}

// Option configures CompareComparator.
type Option func(*harness)

// WithClock sets the time source.
func WithClock(c clock.Clock) Option {
	return func(h *harness) { h.clock = c }
}

// WithRandom sets the source of the compared bytes.
func WithRandom(src secrand.Source) Option {
	return func(h *harness) { h.random = src }
}

// WithBatch sets how many comparisons each sample times.
func WithBatch(n int) Option {
	return func(h *harness) { h.batch = n }
}

// CompareComparator times cmp on equal-length inputs that differ only in the
// first byte against inputs that differ only in the last byte. The two cases
// are interleaved trial by trial so drift affects both alike.
func CompareComparator(cmp Comparator, size, trials int, opts ...Option) (Report, error) {
	h := &harness{clock: clock.New(), random: secrand.System(), batch: DefaultBatch}
	for _, opt := range opts {
		opt(h)
	}
	if cmp == nil {
		return Report{}, oops.Code("TIMING_INVALID_ARGS").Errorf("comparator is required")
	}
	if size < 1 || trials < 2 || h.batch < 1 {
		return Report{}, oops.Code("TIMING_INVALID_ARGS").
			With("size", size).
			With("trials", trials).
			With("batch", h.batch).
			Errorf("size and batch must be positive and trials at least 2")
	}

	base, err := secrand.Bytes(h.random, size)
	if err != nil {
		return Report{}, err
	}
	first := flipped(base, 0)
	last := flipped(base, size-1)

	firstRuns := make([]float64, trials)
	lastRuns := make([]float64, trials)
	for i := range trials {
		firstRuns[i] = h.measure(cmp, base, first)
		lastRuns[i] = h.measure(cmp, base, last)
	}

	f, l := summarise(firstRuns), summarise(lastRuns)
	return Report{
		Size:         size,
		Trials:       trials,
		FirstDiff:    f,
		LastDiff:     l,
		RelativeDiff: relative(float64(f.Mean), float64(l.Mean)),
	}, nil
}

// measure returns the mean nanoseconds per comparison over one batch.
func (h *harness) measure(cmp Comparator, a, b []byte) float64 {
	var matches int
	start := h.clock.Now()
	for range h.batch {
		if cmp(a, b) {
			matches++
		}
	}
	elapsed := h.clock.Since(start)
	runtime.KeepAlive(matches)
	return float64(elapsed.Nanoseconds()) / float64(h.batch)
}

func flipped(b []byte, i int) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	out[i] ^= 0xff
	return out
}

func summarise(runs []float64) Sample {
	var sum float64
	for _, r := range runs {
		sum += r
	}
	mean := sum / float64(len(runs))

	var sq float64
	for _, r := range runs {
		sq += (r - mean) * (r - mean)
	}
	stddev := math.Sqrt(sq / float64(len(runs)-1))

	return Sample{
		Mean:   time.Duration(math.Round(mean)),
		StdDev: time.Duration(math.Round(stddev)),
	}
}

func relative(a, b float64) float64 {
	hi := math.Max(a, b)
	if hi == 0 {
		return 0
	}
	return math.Abs(a-b) / hi
}
