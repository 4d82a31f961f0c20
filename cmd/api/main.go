// Command api runs the API tier: the public HTTP surface for job
// submission, status lookup, and artifact retrieval.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonesrussell/llmstxt-pipeline/internal/api"
	"github.com/jonesrussell/llmstxt-pipeline/internal/config"
	"github.com/jonesrussell/llmstxt-pipeline/internal/httpserver"
	"github.com/jonesrussell/llmstxt-pipeline/internal/logger"
	"github.com/jonesrussell/llmstxt-pipeline/internal/metrics"
	"github.com/jonesrussell/llmstxt-pipeline/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig(config.GetConfigPath(""))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.NewFromLoggingConfig(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if err := store.RunMigrations(cfg.Database.URL, "", log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	db, err := store.Open(cfg.Database.URL, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = db.Close() }()

	svc := api.NewService(db)
	handler := api.NewHandler(svc, log)
	authHandler := api.NewAuthHandler(&cfg.Auth, log)

	reg := prometheus.NewRegistry()
	metricsReg := metrics.NewRegistry(reg)

	server := httpserver.NewServer(cfg.Service.Address(), cfg.TLS, log, metricsReg, func(router *gin.Engine) {
		api.RegisterRoutes(router, svc, &cfg.Auth, handler, authHandler, httpserver.HealthHandler(db))
		router.GET("/metrics", gin.WrapH(metrics.Handler(reg)))
	})

	return server.Run(context.Background())
}
