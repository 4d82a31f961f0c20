// Command worker runs the worker tier: it claims queued jobs from the
// shared Store and drives each one through the artifact pipeline to a
// terminal state.
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

	"github.com/jonesrussell/llmstxt-pipeline/internal/config"
	"github.com/jonesrussell/llmstxt-pipeline/internal/llm"
	"github.com/jonesrussell/llmstxt-pipeline/internal/logger"
	"github.com/jonesrussell/llmstxt-pipeline/internal/metrics"
	"github.com/jonesrussell/llmstxt-pipeline/internal/pipeline"
	"github.com/jonesrussell/llmstxt-pipeline/internal/store"
	"github.com/jonesrussell/llmstxt-pipeline/internal/worker"
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

	provider := llm.NewCircuitBreakerProvider(newProvider(cfg.LLM), llm.DefaultBreakerConfig())
	downloader := pipeline.NewRetryingDownloader(pipeline.NewHTTPDownloader(pipeline.NewDownloadClient()), pipeline.DefaultRetryConfig())

	reg := prometheus.NewRegistry()
	metricsReg := metrics.NewRegistry(reg)
	metricsServer := &http.Server{Addr: cfg.Worker.MetricsAddress, Handler: metrics.Handler(reg)}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server failed", logger.Err(err))
		}
	}()
	defer func() { _ = metricsServer.Close() }()

	runnerCfg := worker.Config{
		MaxConcurrency: cfg.Worker.MaxConcurrency,
		PollInterval:   time.Duration(cfg.Worker.PollIntervalMS) * time.Millisecond,
		LeaseDuration:  time.Duration(cfg.Worker.LeaseSeconds) * time.Second,
	}
	runner := worker.NewRunner(db, downloader, provider, runnerCfg, log, metricsReg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info("worker starting",
		logger.Int("max_concurrency", runnerCfg.MaxConcurrency),
		logger.Duration("poll_interval", runnerCfg.PollInterval),
	)
	runner.Run(ctx)
	log.Info("worker stopped")
	return nil
}

func newProvider(cfg config.LLMConfig) llm.Provider {
	switch cfg.Provider {
	case "anthropic":
		return llm.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.Model)
	case "openai":
		return llm.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.Model)
	default:
		return llm.NewMockProvider()
	}
}
