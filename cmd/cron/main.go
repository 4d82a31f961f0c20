// Command cron runs the drift-detector tier: it periodically re-checks
// every URL with a stored artifact and asks the API tier to re-generate
// or update ones whose HTML has drifted or whose last attempt failed.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonesrussell/llmstxt-pipeline/internal/auth"
	"github.com/jonesrussell/llmstxt-pipeline/internal/cache"
	"github.com/jonesrussell/llmstxt-pipeline/internal/config"
	"github.com/jonesrussell/llmstxt-pipeline/internal/cron"
	"github.com/jonesrussell/llmstxt-pipeline/internal/logger"
	"github.com/jonesrussell/llmstxt-pipeline/internal/metrics"
	"github.com/jonesrussell/llmstxt-pipeline/internal/pipeline"
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

	db, err := store.Open(cfg.Database.URL, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = db.Close() }()

	dedup, err := cache.New(cfg.Redis.URL)
	if err != nil {
		log.Warn("cron cache disabled", logger.Err(err))
		dedup = nil
	}
	defer func() { _ = dedup.Close() }()

	reg := prometheus.NewRegistry()
	metricsReg := metrics.NewRegistry(reg)
	metricsServer := &http.Server{Addr: cfg.Cron.MetricsAddress, Handler: metrics.Handler(reg)}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server failed", logger.Err(err))
		}
	}()
	defer func() { _ = metricsServer.Close() }()

	client := newClient(cfg)
	downloader := pipeline.NewRetryingDownloader(pipeline.NewHTTPDownloader(pipeline.NewDownloadClient()), pipeline.DefaultRetryConfig())
	interval := time.Duration(cfg.Cron.PollIntervalMinutes) * time.Minute
	detector := cron.NewDetector(db, client, downloader, dedup, metricsReg, log, interval)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info("cron starting", logger.Duration("interval", interval))
	cron.Run(ctx, detector, interval)
	log.Info("cron stopped")
	return nil
}

// newClient picks §12.4's internal-token path when a session secret is
// configured but no cron password is, otherwise the normal password
// login path.
func newClient(cfg *config.Config) *cron.Client {
	if cfg.Auth.Password == "" && cfg.Auth.SessionSecret != "" {
		return cron.NewInternalTokenClient(cfg.Cron.APIBaseURL, func() (string, error) {
			return auth.MintInternalServiceToken(cfg.Auth.SessionSecret, "cron")
		})
	}
	return cron.NewClient(cfg.Cron.APIBaseURL, cfg.Auth.Password)
}
