// Package domain holds the Job and Artifact entities shared by every tier.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a Job. Terminal = Success ∪ Failure.
type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobStarted JobStatus = "started"
	JobRunning JobStatus = "running"
	JobSuccess JobStatus = "success"
	JobFailure JobStatus = "failure"
)

var validJobStatuses = map[JobStatus]bool{
	JobQueued:  true,
	JobStarted: true,
	JobRunning: true,
	JobSuccess: true,
	JobFailure: true,
}

// Valid reports whether s is one of the five recognized statuses.
func (s JobStatus) Valid() bool {
	return validJobStatuses[s]
}

// IsTerminal reports whether s is Success or Failure.
func (s JobStatus) IsTerminal() bool {
	return s == JobSuccess || s == JobFailure
}

// IsClaimable reports whether claim_next_job may select a job in status s.
func (s JobStatus) IsClaimable() bool {
	return s == JobQueued || s == JobStarted
}

// JobKind distinguishes a fresh generation from an update of an existing
// artifact.
type JobKind string

const (
	JobNew    JobKind = "new"
	JobUpdate JobKind = "update"
)

// Job is one row of job_state.
type Job struct {
	JobID          uuid.UUID
	URL            string
	Status         JobStatus
	Kind           JobKind
	PriorLlmsTxt   *string // present iff Kind == JobUpdate
	LeaseExpiresAt *time.Time
	CreatedAt      time.Time
}

// ResultStatus is the outcome recorded in the llms_txt table.
type ResultStatus string

const (
	ResultOk    ResultStatus = "ok"
	ResultError ResultStatus = "error"
)

// Artifact is one row of llms_txt: the terminal result of a Job.
type Artifact struct {
	JobID          uuid.UUID
	URL            string
	ResultStatus   ResultStatus
	ResultData     string // body for Ok, failure reason for Error
	HTMLCompressed []byte // nil iff HTML was never successfully fetched+normalized
	HTMLChecksum   string // hex32; empty iff HTMLCompressed is nil
	CreatedAt      time.Time
}

// IsOk reports whether this artifact represents a successful generation.
func (a *Artifact) IsOk() bool {
	return a.ResultStatus == ResultOk
}
