// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

// Package observability provides Prometheus metrics for the credential,
// token and validation services.
package observability

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
	"github.com/samber/oops"
)

// Metrics implements credential.Recorder, token.Recorder and
// schemas.Recorder.
type Metrics struct {
	KDFDuration   *prometheus.HistogramVec
	Verifications *prometheus.CounterVec
	TokensIssued  *prometheus.CounterVec
	Validations   *prometheus.CounterVec
}

// NewRegistry returns a registry with the Go runtime collector registered.
func NewRegistry() *prometheus.Registry {
	// A private registry keeps the global one clean.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	return registry
}

// NewMetrics creates and registers the seccore metrics.
// Panics if registration fails (following prometheus convention).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		KDFDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "seccore_kdf_duration_seconds",
				Help:    "Password key derivation duration in seconds by algorithm",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"algorithm"},
		),
		Verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seccore_credential_verifications_total",
				Help: "Total number of password verifications by outcome",
			},
			[]string{"outcome"},
		),
		TokensIssued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seccore_tokens_issued_total",
				Help: "Total number of tokens issued by kind",
			},
			[]string{"kind"},
		),
		Validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seccore_validations_total",
				Help: "Total number of schema validations by schema and outcome",
			},
			[]string{"schema", "outcome"},
		),
	}

	reg.MustRegister(m.KDFDuration)
	reg.MustRegister(m.Verifications)
	reg.MustRegister(m.TokensIssued)
	reg.MustRegister(m.Validations)

	return m
}

// ObserveDerivation records the duration of one key derivation.
func (m *Metrics) ObserveDerivation(algorithm string, d time.Duration) {
	m.KDFDuration.WithLabelValues(algorithm).Observe(d.Seconds())
}

// RecordVerification increments the verification counter.
func (m *Metrics) RecordVerification(outcome string) {
	m.Verifications.WithLabelValues(outcome).Inc()
}

// RecordIssued increments the issued token counter.
func (m *Metrics) RecordIssued(kind string) {
	m.TokensIssued.WithLabelValues(kind).Inc()
}

// RecordValidation increments the validation counter.
func (m *Metrics) RecordValidation(schema, outcome string) {
	m.Validations.WithLabelValues(schema, outcome).Inc()
}

// WriteText writes every metric family gathered from g in the Prometheus
// text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return oops.Code("METRICS_GATHER_FAILED").Wrap(err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return oops.Code("METRICS_WRITE_FAILED").
				With("family", mf.GetName()).
				Wrap(err)
		}
	}
	return nil
}
