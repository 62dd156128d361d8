package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.IncConversion("jewish", "jd_to_ymd", OutcomeOK)
	m.IncConversion("jewish", "jd_to_ymd", OutcomeOK)
	m.IncConversion("french", "ymd_to_jd", OutcomeRange)
	m.IncCache(CacheMiss)
	m.AddBuilt(42)
	m.ObserveRequest(http.MethodGet, "/api/v1/calendars", http.StatusOK, time.Now())

	assert.InDelta(t, 2, testutil.ToFloat64(m.Conversions.WithLabelValues("jewish", "jd_to_ymd", OutcomeOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Conversions.WithLabelValues("french", "ymd_to_jd", OutcomeRange)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ConcordanceCache.WithLabelValues(CacheMiss)), 0)
	assert.InDelta(t, 42, testutil.ToFloat64(m.ConcordanceBuilt), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/v1/calendars", "200")), 0)
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.AddBuilt(1)
	assert.InDelta(t, 0, testutil.ToFloat64(b.ConcordanceBuilt), 0)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncConversion("gregorian", "jd_to_ymd", OutcomeOK)
		m.IncCache(CacheHit)
		m.AddBuilt(3)
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Now())
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.IncConversion("persian", "jd_to_ymd", OutcomeOK)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `calendar_conversions_total{calendar="persian",op="jd_to_ymd",outcome="ok"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
