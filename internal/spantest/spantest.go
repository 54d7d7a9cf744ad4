// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

// Package spantest records OpenTelemetry spans in memory for tests.
package spantest

import (
	"context"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Span is a finished or in-flight span captured by a Recorder.
type Span struct {
	noop.Span

	Name   string
	Status codes.Code
	Ended  bool
	Errors []error

	mu    sync.Mutex
	attrs []attribute.KeyValue
}

// SetAttributes records kv.
func (s *Span) SetAttributes(kv ...attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, kv...)
}

// SetStatus records the status code.
func (s *Span) SetStatus(code codes.Code, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = code
}

// RecordError records err.
func (s *Span) RecordError(err error, _ ...trace.EventOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors = append(s.Errors, err)
}

// End marks the span ended.
func (s *Span) End(...trace.SpanEndOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Ended = true
}

// Attributes returns every attribute set on the span, start attributes first.
func (s *Span) Attributes() []attribute.KeyValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.attrs)
}

// Attribute returns the last value recorded for key.
func (s *Span) Attribute(key attribute.Key) (attribute.Value, bool) {
	attrs := s.Attributes()
	for i := len(attrs) - 1; i >= 0; i-- {
		if attrs[i].Key == key {
			return attrs[i].Value, true
		}
	}
	return attribute.Value{}, false
}

// Recorder is a TracerProvider that keeps every started span.
type Recorder struct {
	noop.TracerProvider

	mu    sync.Mutex
	spans []*Span
}

type tracer struct {
	noop.Tracer
	rec *Recorder
}

// Tracer returns a tracer that records into r.
func (r *Recorder) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return tracer{rec: r}
}

func (t tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	span := &Span{Name: name, attrs: slices.Clone(cfg.Attributes())}

	t.rec.mu.Lock()
	t.rec.spans = append(t.rec.spans, span)
	t.rec.mu.Unlock()

	return trace.ContextWithSpan(ctx, span), span
}

// Reset forgets recorded spans.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spans = nil
}

// Named returns the recorded spans called name, in start order.
func (r *Recorder) Named(name string) []*Span {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Span
	for _, s := range r.spans {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

var (
	global     = &Recorder{}
	installOne sync.Once
)

// Install makes the process-wide Recorder the global TracerProvider and
// returns it emptied. The global provider can only be delegated once, so
// every caller shares the same Recorder.
func Install() *Recorder {
	installOne.Do(func() { otel.SetTracerProvider(global) })
	global.Reset()
	return global
}
