package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveQuery(t *testing.T) {
	c := NewCollector("test")

	c.ObserveQuery("listing", 12)
	c.ObserveQuery("listing", 3)
	c.ObserveQuery("empty", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Queries.WithLabelValues("listing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Queries.WithLabelValues("empty")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("test")
	c.ObserveHTTP(http.MethodPost, "/charity_info", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_http_requests_total{method="POST",route="/charity_info",status="200"} 1`)
}
