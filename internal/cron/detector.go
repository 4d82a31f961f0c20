package cron

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/llmstxt-pipeline/internal/cache"
	"github.com/jonesrussell/llmstxt-pipeline/internal/domain"
	"github.com/jonesrussell/llmstxt-pipeline/internal/logger"
	"github.com/jonesrussell/llmstxt-pipeline/internal/metrics"
	"github.com/jonesrussell/llmstxt-pipeline/internal/pipeline"
)

// Store is the subset of *store.Store the drift detector needs.
type Store interface {
	ListMostRecentArtifacts(ctx context.Context) (map[string]*domain.Artifact, error)
	FetchJob(ctx context.Context, jobID uuid.UUID) (*domain.Job, error)
	RecoverExpiredLeases(ctx context.Context) ([]uuid.UUID, error)
}

// Detector implements one drift-detection tick (§4.4).
type Detector struct {
	store      Store
	client     *Client
	downloader pipeline.Downloader
	cache      *cache.Cache
	metrics    *metrics.Registry
	log        logger.Logger
	seenTTL    time.Duration
}

// NewDetector wires a Detector around its dependencies. cache and metrics
// may be nil; neither is required for correctness. seenTTL bounds how long
// the de-dup cache remembers a URL was already checked this cycle; it
// should be about half pollInterval, per §12.2, so a cache hit never
// survives past the next tick.
func NewDetector(store Store, client *Client, downloader pipeline.Downloader, c *cache.Cache, m *metrics.Registry, log logger.Logger, pollInterval time.Duration) *Detector {
	return &Detector{store: store, client: client, downloader: downloader, cache: c, metrics: m, log: log, seenTTL: pollInterval / 2}
}

// Tick runs one full drift-detection pass: first a lease-recovery sweep
// (§12.5), then one independent task per URL. A single URL's failure is
// logged and never halts the rest of the tick.
func (d *Detector) Tick(ctx context.Context) {
	if d.metrics != nil {
		d.metrics.DriftTicksRun.Inc()
	}

	if recovered, err := d.store.RecoverExpiredLeases(ctx); err != nil {
		d.log.Error("recover expired leases failed", logger.Err(err))
	} else if len(recovered) > 0 {
		d.log.Info("recovered expired leases", logger.Int("count", len(recovered)))
	}

	artifacts, err := d.store.ListMostRecentArtifacts(ctx)
	if err != nil {
		d.log.Error("list most recent artifacts failed", logger.Err(err))
		return
	}

	var wg sync.WaitGroup
	for url, artifact := range artifacts {
		wg.Add(1)
		go func(url string, artifact *domain.Artifact) {
			defer wg.Done()
			d.checkURL(ctx, url, artifact)
		}(url, artifact)
	}
	wg.Wait()
}

func (d *Detector) checkURL(ctx context.Context, url string, artifact *domain.Artifact) {
	if d.cache.SeenRecently(ctx, url, d.seenTTL) {
		if d.metrics != nil {
			d.metrics.DriftCacheHits.Inc()
		}
		return
	}

	if artifact.IsOk() {
		d.checkDrift(ctx, url, artifact)
		return
	}
	d.retryFailed(ctx, url, artifact)
}

// checkDrift re-fetches an Ok artifact's URL and submits an update iff
// the fresh checksum differs from the stored one.
func (d *Detector) checkDrift(ctx context.Context, url string, artifact *domain.Artifact) {
	raw, err := d.downloader.Download(ctx, url)
	if err != nil {
		d.log.Warn("drift re-fetch failed", logger.String("url", url), logger.Err(err))
		return
	}
	normalized, err := pipeline.NormalizeHTML(string(raw))
	if err != nil {
		d.log.Warn("drift normalize failed", logger.String("url", url), logger.Err(err))
		return
	}
	checksum, err := pipeline.ComputeChecksum(normalized)
	if err != nil {
		d.log.Warn("drift checksum failed", logger.String("url", url), logger.Err(err))
		return
	}
	if checksum == artifact.HTMLChecksum {
		return
	}

	if err := d.client.SubmitUpdate(ctx, url); err != nil {
		d.log.Error("submit update failed", logger.String("url", url), logger.Err(err))
		return
	}
	if d.metrics != nil {
		d.metrics.DriftUpdatesSubmitted.Inc()
	}
}

// retryFailed re-submits the same kind of job that produced an Error
// artifact, so a transient failure eventually clears without operator
// intervention.
func (d *Detector) retryFailed(ctx context.Context, url string, artifact *domain.Artifact) {
	job, err := d.store.FetchJob(ctx, artifact.JobID)
	if err != nil {
		d.log.Error("fetch originating job failed", logger.String("url", url), logger.Err(err))
		return
	}

	var submitErr error
	switch job.Kind {
	case domain.JobNew:
		submitErr = d.client.SubmitNew(ctx, url)
	case domain.JobUpdate:
		submitErr = d.client.SubmitUpdate(ctx, url)
	}
	if submitErr != nil {
		d.log.Error("resubmit failed job failed", logger.String("url", url), logger.Err(submitErr))
		return
	}
	if d.metrics != nil {
		d.metrics.DriftUpdatesSubmitted.Inc()
	}
}
