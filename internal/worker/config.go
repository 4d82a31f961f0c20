package worker

import "time"

// Config bounds one worker process's loop.
type Config struct {
	// MaxConcurrency is the size of the local semaphore; claim_next_job is
	// only called once a permit is held.
	MaxConcurrency int
	// PollInterval is the idle delay after Empty or StoreUnavailable.
	PollInterval time.Duration
	// LeaseDuration is handed to claim_next_job so it can stamp
	// lease_expires_at (§12.5).
	LeaseDuration time.Duration
}
