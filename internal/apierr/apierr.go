// Package apierr defines the application-level error taxonomy shared by
// the Store, the artifact pipeline, and the API tier's HTTP mapping.
package apierr

import "errors"

// Application-level sentinels: deterministic, named outcomes distinct from
// the pipeline's classified failures (see internal/pipeline/errors.go).
var (
	ErrAlreadyGenerated = errors.New("already generated")
	ErrJobsInProgress   = errors.New("jobs in progress")
	ErrNotGenerated     = errors.New("not generated")
	ErrUnknownID        = errors.New("unknown job id")
	ErrInvalidID        = errors.New("invalid job id")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrEmpty            = errors.New("no claimable job")
	ErrGenerationFailure = errors.New("generation failure")
)

// JobsInProgressError carries the in-progress job ids alongside the
// sentinel so API handlers can echo them in the 409 body.
type JobsInProgressError struct {
	JobIDs []string
}

func (e *JobsInProgressError) Error() string {
	return ErrJobsInProgress.Error()
}

func (e *JobsInProgressError) Unwrap() error {
	return ErrJobsInProgress
}

// GenerationFailureError carries the stored failure reason for the §12.6
// GET /api/llm_txt resolution (Error artifact -> GenerationFailure, not
// NotGenerated).
type GenerationFailureError struct {
	Reason string
}

func (e *GenerationFailureError) Error() string {
	return ErrGenerationFailure.Error() + ": " + e.Reason
}

func (e *GenerationFailureError) Unwrap() error {
	return ErrGenerationFailure
}
