package httpserver_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/llmstxt-pipeline/internal/httpserver"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func TestHealthHandler_HealthyWhenPingSucceeds(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.GET("/health", httpserver.HealthHandler(fakePinger{}))

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.String() != "healthy" {
		t.Errorf("body = %q, want healthy", w.Body.String())
	}
}

func TestHealthHandler_UnhealthyWhenPingFails(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.GET("/health", httpserver.HealthHandler(fakePinger{err: errors.New("connection refused")}))

	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}
