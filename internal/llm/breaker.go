package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrCircuitOpen is returned instead of calling the wrapped Provider while
// the breaker is open.
var ErrCircuitOpen = errors.New("llm: provider circuit is open")

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// BreakerConfig tunes CircuitBreakerProvider.
type BreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
}

// DefaultBreakerConfig opens after 5 consecutive failures; once Timeout has
// passed it goes half-open and lets calls through again, where two
// successes close it and any failure reopens it.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{FailureThreshold: 5, SuccessThreshold: 2, Timeout: 60 * time.Second}
}

// CircuitBreakerProvider wraps a Provider so a run of consecutive failures
// (an outage, a revoked API key) stops every worker process from hammering
// it job after job, rather than burning a request per claimed job until
// someone notices.
type CircuitBreakerProvider struct {
	Provider
	cfg BreakerConfig

	mu              sync.Mutex
	state           breakerState
	failureCount    int
	successCount    int
	lastFailureTime time.Time
}

// NewCircuitBreakerProvider wraps p with cfg's thresholds.
func NewCircuitBreakerProvider(p Provider, cfg BreakerConfig) *CircuitBreakerProvider {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &CircuitBreakerProvider{Provider: p, cfg: cfg}
}

func (b *CircuitBreakerProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if err := b.before(); err != nil {
		return "", err
	}

	resp, err := b.Provider.Complete(ctx, prompt)
	b.after(err)
	return resp, err
}

func (b *CircuitBreakerProvider) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateOpen {
		if time.Since(b.lastFailureTime) >= b.cfg.Timeout {
			b.transitionTo(stateHalfOpen)
			return nil
		}
		return fmt.Errorf("%w: retry after %v", ErrCircuitOpen, b.cfg.Timeout-time.Since(b.lastFailureTime))
	}
	return nil
}

func (b *CircuitBreakerProvider) after(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failureCount++
		b.lastFailureTime = time.Now()
		if b.state == stateHalfOpen || b.failureCount >= b.cfg.FailureThreshold {
			b.transitionTo(stateOpen)
		}
		return
	}

	switch b.state {
	case stateClosed:
		b.failureCount = 0
	case stateHalfOpen:
		b.successCount++
		if b.successCount >= b.cfg.SuccessThreshold {
			b.transitionTo(stateClosed)
		}
	}
}

func (b *CircuitBreakerProvider) transitionTo(s breakerState) {
	b.state = s
	b.failureCount = 0
	b.successCount = 0
}
