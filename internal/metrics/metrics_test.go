package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewServerMetrics(reg, "api")

	m.Requests.WithLabelValues("/api/cart", "GET", "200").Inc()
	m.Requests.WithLabelValues("/api/cart", "GET", "200").Inc()
	m.LatencyMS.WithLabelValues("/api/cart").Observe(12)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("/api/cart", "GET", "200")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "planetbeauty_api_http_requests_total")
	assert.Contains(t, rec.Body.String(), "planetbeauty_api_http_request_duration_ms_bucket")
}

func TestNewServerMetrics_NilRegistry(t *testing.T) {
	a := NewServerMetrics(nil, "api")
	b := NewServerMetrics(nil, "api")
	assert.NotSame(t, a.Requests, b.Requests)
}
