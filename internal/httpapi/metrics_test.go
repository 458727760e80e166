package httpapi

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsRequestsAndErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := newTestServer(Options{Registry: reg})
	h := s.observe(s.mux())

	rr := do(t, h, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodGet, "/sub", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues("GET /healthz", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues("GET /sub", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.appErrors.WithLabelValues("validate_request", "INVALID_ARGUMENT")))

	rr = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `mihomo_override_http_requests_total{pattern="GET /sub",status="400"} 1`)
	assert.Contains(t, body, `mihomo_override_app_errors_total{code="INVALID_ARGUMENT",stage="validate_request"} 1`)
}

func TestMetrics_FetchResults(t *testing.T) {
	up := newUpstream(t)
	s := newTestServer(Options{})
	h := s.mux()

	for i := 0; i < 2; i++ {
		rr := do(t, h, http.MethodGet, "/sub?"+subURL(up.URL, "/clash.yaml"), nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
	rr := do(t, h, http.MethodGet, "/sub?"+subURL(up.URL, "/gone"), nil)
	require.Equal(t, http.StatusBadGateway, rr.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.fetches.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.fetches.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.fetches.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.appErrors.WithLabelValues("fetch_sub", "FETCH_FAILED")))
}

func TestHandler_Gzip(t *testing.T) {
	up := newUpstream(t)
	h := NewHandlerWithOptions(Options{Logger: quietLogger(), Registry: prometheus.NewRegistry()})

	req := httptest.NewRequest(http.MethodGet, "/sub?"+subURL(up.URL, "/clash.yaml"), nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rr.Body)
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(plain), "proxies:"), "got %q", string(plain[:min(len(plain), 40)]))
}
