package obs

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestStatusRecorder(t *testing.T) {
	rec := NewStatusRecorder(httptest.NewRecorder())
	require.Equal(t, http.StatusOK, rec.Status())

	rec.WriteHeader(http.StatusTeapot)
	n, err := rec.Write([]byte("short and stout"))
	require.NoError(t, err)
	require.Equal(t, 15, n)
	require.Equal(t, http.StatusTeapot, rec.Status())
	require.Equal(t, int64(15), rec.BytesWritten())
}

func TestHTTPObsMiddlewareRecordsRouteAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics("studio_test", nil, reg)

	r := chi.NewRouter()
	r.Use(RoutePatternMiddleware)
	r.Use(HTTPObs{Metrics: metrics}.Middleware)
	r.Get("/api/v1/quotes/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/abc", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	count := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "/api/v1/quotes/{id}", "404"))
	require.Equal(t, float64(1), count)
	require.Equal(t, float64(0), testutil.ToFloat64(metrics.InFlight))
}

func TestHTTPObsMiddlewareNilMetricsPassesThrough(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })
	HTTPObs{}.Middleware(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, called)
}

func TestNewHTTPMetricsTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewHTTPMetrics("studio_dup", nil, reg)
	second := NewHTTPMetrics("studio_dup", nil, reg)
	require.Same(t, first.ReqTotal, second.ReqTotal)
}

func TestParseBucketsCSV(t *testing.T) {
	require.Nil(t, ParseBucketsCSV("  "))
	require.Equal(t, []float64{5, 50, 500}, ParseBucketsCSV("5, 50,500"))
	require.Equal(t, []float64{10}, ParseBucketsCSV("10, zero, -3"))
}

func TestDurationMillis(t *testing.T) {
	require.Equal(t, 1500.0, DurationMillis(1500*time.Millisecond))
}
