package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/llmstxt-pipeline/internal/config"
	"github.com/jonesrussell/llmstxt-pipeline/internal/logger"
	"github.com/jonesrussell/llmstxt-pipeline/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

// Server wraps a gin.Engine with a standard middleware stack and a
// graceful-shutdown-capable http.Server.
type Server struct {
	Router *gin.Engine

	httpServer *http.Server
	tls        config.TLSConfig
	log        logger.Logger
}

// NewServer builds a Server bound to addr, applying the standard
// middleware chain. setupRoutes registers the API tier's endpoints on the
// returned engine. m may be nil, in which case no request metrics are
// recorded.
func NewServer(addr string, tls config.TLSConfig, log logger.Logger, m *metrics.Registry, setupRoutes func(*gin.Engine)) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(RecoveryMiddleware(log))
	router.Use(RequestIDLoggerMiddleware(log))
	router.Use(LoggerMiddleware(log))
	if m != nil {
		router.Use(MetricsMiddleware(m))
	}
	router.Use(CORSMiddleware(nil))

	if setupRoutes != nil {
		setupRoutes(router)
	}

	return &Server{
		Router: router,
		tls:    tls,
		log:    log,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run starts the server and blocks until it shuts down, either via
// SIGINT/SIGTERM or ctx cancellation.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if s.tls.Enabled() {
			s.log.Info("starting https server", logger.String("address", s.httpServer.Addr))
			err = s.httpServer.ListenAndServeTLS(s.tls.CertPath, s.tls.KeyPath)
		} else {
			s.log.Info("starting http server", logger.String("address", s.httpServer.Addr))
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
			return
		}
		errCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		s.log.Info("shutdown signal received", logger.String("signal", sig.String()))
	case <-ctx.Done():
		s.log.Info("context cancelled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.log.Info("http server stopped gracefully")
	return nil
}
