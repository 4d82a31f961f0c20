package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrMaxAttemptsExceeded is returned when a RetryingDownloader exhausts its
// attempts without a successful download.
var ErrMaxAttemptsExceeded = errors.New("download: max retry attempts exceeded")

// RetryConfig controls RetryingDownloader's backoff.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryConfig matches the defaults used for transient download
// failures: three attempts, doubling backoff starting at 100ms, capped
// at 30s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// RetryingDownloader wraps a Downloader, retrying transient failures with
// exponential backoff before surfacing a DownloadError. A job's download
// step, not generation, is where flaky origin servers show up, so retry
// logic lives here rather than in the LLM provider path.
type RetryingDownloader struct {
	Downloader
	cfg RetryConfig
}

// NewRetryingDownloader wraps d with cfg's backoff policy.
func NewRetryingDownloader(d Downloader, cfg RetryConfig) *RetryingDownloader {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 100 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 2.0
	}
	return &RetryingDownloader{Downloader: d, cfg: cfg}
}

func (r *RetryingDownloader) Download(ctx context.Context, rawURL string) ([]byte, error) {
	delay := r.cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, err := r.Downloader.Download(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !isRetryableDownloadError(err) {
			return nil, err
		}

		if attempt < r.cfg.MaxAttempts {
			backoff := time.Duration(float64(delay) * math.Pow(r.cfg.Multiplier, float64(attempt-1)))
			if backoff > r.cfg.MaxDelay {
				backoff = r.cfg.MaxDelay
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrMaxAttemptsExceeded, r.cfg.MaxAttempts, lastErr)
}

// isRetryableDownloadError matches the transient network failure patterns
// worth a retry. Non-2xx status and malformed URLs are not included: they
// will not resolve themselves on a second attempt.
func isRetryableDownloadError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"timeout",
		"deadline exceeded",
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"eof",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
