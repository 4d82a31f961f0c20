package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 5 * time.Second

// Pinger is the subset of *store.Store the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler returns a gin handler reporting 200 "healthy" when db
// responds to Ping within healthCheckTimeout, 503 "unhealthy" otherwise.
func HealthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.String(http.StatusServiceUnavailable, "unhealthy")
			return
		}
		c.String(http.StatusOK, "healthy")
	}
}
