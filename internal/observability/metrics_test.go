package observability

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/v1/schools", "GET", 200, 15*time.Millisecond)
	m.RecordRequest("/v1/schools", "GET", 200, 20*time.Millisecond)
	m.RecordError("/v1/schools", "GET", "FORBIDDEN")
	m.RecordRateLimited("login")
	m.RecordGuardDenial("authorize", "deny_forbidden")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/v1/schools", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/v1/schools", "GET", "FORBIDDEN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited.WithLabelValues("login")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.guardDenials.WithLabelValues("authorize", "deny_forbidden")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordRateLimited("v1")
		m.RecordGuardDenial("authenticate", "deny_unauthenticated")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.RecordRateLimited("v1")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `school_ratelimit_rejected_total{rule="v1"} 1`)
}
