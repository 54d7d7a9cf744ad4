// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

package observability_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alissa-agent/seccore/internal/observability"
	"github.com/alissa-agent/seccore/pkg/credential"
	"github.com/alissa-agent/seccore/pkg/schemas"
	"github.com/alissa-agent/seccore/pkg/token"
)

var (
	_ credential.Recorder = (*observability.Metrics)(nil)
	_ token.Recorder      = (*observability.Metrics)(nil)
	_ schemas.Recorder    = (*observability.Metrics)(nil)
)

func TestMetricsRecorders(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	m.ObserveDerivation("scrypt", 40*time.Millisecond)
	m.ObserveDerivation("scrypt", 60*time.Millisecond)
	m.RecordVerification(credential.OutcomeMatch)
	m.RecordVerification(credential.OutcomeMismatch)
	m.RecordVerification(credential.OutcomeMismatch)
	m.RecordIssued(token.KindAPIKey.String())
	m.RecordValidation(schemas.NameLogin, schemas.OutcomeInvalid)

	assert.Equal(t, 1, testutil.CollectAndCount(m.KDFDuration))
	assert.InDelta(t, 1, testutil.ToFloat64(m.Verifications.WithLabelValues("match")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Verifications.WithLabelValues("mismatch")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.TokensIssued.WithLabelValues("api_key")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Validations.WithLabelValues("login", "invalid")), 0)

	expected := `
# HELP seccore_tokens_issued_total Total number of tokens issued by kind
# TYPE seccore_tokens_issued_total counter
seccore_tokens_issued_total{kind="api_key"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "seccore_tokens_issued_total"))
}

func TestMetricsWithServices(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	issuer, err := token.NewIssuer(token.DefaultConfig(), token.WithRecorder(m))
	require.NoError(t, err)
	_, err = issuer.AccessToken()
	require.NoError(t, err)
	_, err = issuer.AccessToken()
	require.NoError(t, err)

	assert.InDelta(t, 2, testutil.ToFloat64(m.TokensIssued.WithLabelValues("access_token")), 0)
}

func TestNewMetricsDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.NewMetrics(reg)
	assert.Panics(t, func() { observability.NewMetrics(reg) })
}

func TestWriteText(t *testing.T) {
	reg := observability.NewRegistry()
	m := observability.NewMetrics(reg)
	m.RecordIssued("refresh_token")

	var buf bytes.Buffer
	require.NoError(t, observability.WriteText(&buf, reg))

	out := buf.String()
	assert.Contains(t, out, "# HELP seccore_tokens_issued_total")
	assert.Contains(t, out, `seccore_tokens_issued_total{kind="refresh_token"} 1`)
	assert.Contains(t, out, "go_goroutines")
}
