package httpserver_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/jonesrussell/llmstxt-pipeline/internal/httpserver"
	"github.com/jonesrussell/llmstxt-pipeline/internal/metrics"
)

func TestMetricsMiddleware_RecordsRequestByRoute(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.NewRegistry(reg)

	router := gin.New()
	router.Use(httpserver.MetricsMiddleware(m))
	router.GET("/api/status", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/api/status", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	metric := &dto.Metric{}
	counter, err := m.HTTPRequestsTotal.GetMetricWithLabelValues(http.MethodGet, "/api/status", "200")
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues() error = %v", err)
	}
	if err := counter.Write(metric); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := metric.GetCounter().GetValue(); got != 1 {
		t.Errorf("request count = %v, want 1", got)
	}
}
