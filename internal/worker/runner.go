package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonesrussell/llmstxt-pipeline/internal/apierr"
	"github.com/jonesrussell/llmstxt-pipeline/internal/domain"
	"github.com/jonesrussell/llmstxt-pipeline/internal/llm"
	"github.com/jonesrussell/llmstxt-pipeline/internal/logger"
	"github.com/jonesrussell/llmstxt-pipeline/internal/metrics"
	"github.com/jonesrussell/llmstxt-pipeline/internal/pipeline"
)

// ClaimStore is the subset of *store.Store the claim loop needs.
type ClaimStore interface {
	ClaimNextJob(ctx context.Context, leaseDuration time.Duration) (*domain.Job, error)
	ResultStore
}

// ErrEmpty mirrors store.ErrEmpty so this package does not import store
// directly (store already imports apierr; worker stays one level removed).
var ErrEmpty = apierr.ErrEmpty

// Runner drives the worker loop: acquire a permit from a bounded local
// semaphore, claim_next_job, and on success spawn a task holding both the
// Job and the permit while the main loop returns to acquiring immediately.
// Modeled on the teacher's semaphore-plus-WaitGroup worker pool, generalized
// to a poll-claim-dispatch loop instead of a push-submit one.
type Runner struct {
	store      ClaimStore
	downloader pipeline.Downloader
	provider   llm.Provider
	cfg        Config
	log        logger.Logger
	metrics    *metrics.Registry

	sem chan struct{}
	wg  sync.WaitGroup
}

// NewRunner constructs a Runner ready to Run. metrics may be nil, in which
// case the counters it would have incremented simply stay at zero.
func NewRunner(store ClaimStore, downloader pipeline.Downloader, provider llm.Provider, cfg Config, log logger.Logger, m *metrics.Registry) *Runner {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 1000
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 600 * time.Millisecond
	}
	return &Runner{
		store:      store,
		downloader: downloader,
		provider:   provider,
		cfg:        cfg,
		log:        log,
		metrics:    m,
		sem:        make(chan struct{}, cfg.MaxConcurrency),
	}
}

// Run blocks, driving the claim loop until ctx is canceled. It waits for
// in-flight tasks to finish before returning.
func (r *Runner) Run(ctx context.Context) {
	defer r.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case r.sem <- struct{}{}:
		}

		job, err := r.store.ClaimNextJob(ctx, r.cfg.LeaseDuration)
		if err != nil {
			<-r.sem
			if errors.Is(err, ErrEmpty) || errors.Is(err, apierr.ErrStoreUnavailable) {
				if !sleepOrDone(ctx, r.cfg.PollInterval) {
					return
				}
				continue
			}
			r.log.Error("claim_next_job failed", logger.Err(err))
			if !sleepOrDone(ctx, r.cfg.PollInterval) {
				return
			}
			continue
		}

		if r.metrics != nil {
			r.metrics.JobsClaimed.Inc()
		}
		r.wg.Add(1)
		go r.process(ctx, job)
	}
}

func (r *Runner) process(ctx context.Context, job *domain.Job) {
	defer r.wg.Done()
	defer func() { <-r.sem }()

	result := handleJob(ctx, job, r.downloader, r.provider, r.metrics)
	r.recordOutcome(result.Kind)
	if err := handleResult(ctx, r.store, job.JobID, job.URL, result); err != nil {
		r.log.Error("handle_result failed",
			logger.String("job_id", job.JobID.String()),
			logger.String("url", job.URL),
			logger.Err(err),
		)
	}
}

func (r *Runner) recordOutcome(kind ResultKind) {
	if r.metrics == nil {
		return
	}
	switch kind {
	case ResultSuccess:
		r.metrics.JobsSucceeded.Inc()
	case ResultGenerationFailed:
		r.metrics.JobsGenFailed.Inc()
	case ResultHTMLProcessingFailed:
		r.metrics.JobsHTMLFailed.Inc()
	case ResultDownloadFailed:
		r.metrics.JobsDownloadFailed.Inc()
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
