// Package api implements the API tier: the HTTP surface named in the
// specification's endpoint table, backed by a Service that wraps
// internal/store's Tx for the check-then-insert operations (submit_new,
// submit_update, submit_upsert) and its standalone reads for everything
// else.
package api

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jonesrussell/llmstxt-pipeline/internal/apierr"
	"github.com/jonesrussell/llmstxt-pipeline/internal/domain"
	"github.com/jonesrussell/llmstxt-pipeline/internal/store"
)

// Store is the subset of *store.Store the service layer depends on, so
// tests can substitute a fake.
type Store interface {
	BeginTx(ctx context.Context) (*store.Tx, error)
	FetchCurrentArtifact(ctx context.Context, url string) (*domain.Artifact, error)
	FetchJob(ctx context.Context, jobID uuid.UUID) (*domain.Job, error)
	ListInProgressJobsGlobal(ctx context.Context) ([]*domain.Job, error)
	ListCurrent(ctx context.Context) ([]store.CurrentItem, error)
	ListMostRecentArtifacts(ctx context.Context) (map[string]*domain.Artifact, error)
}

// Service implements the operations the HTTP handlers need, each mapping
// to one endpoint.
type Service struct {
	store Store
}

// NewService wraps store for use by the HTTP handlers.
func NewService(s Store) *Service {
	return &Service{store: s}
}

// SubmitNew implements submit_new: fails with ErrAlreadyGenerated if a
// current Ok artifact exists, then with a *JobsInProgressError if any
// in-progress job exists for this URL, otherwise inserts a New job.
func (s *Service) SubmitNew(ctx context.Context, url string) (uuid.UUID, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.FetchCurrentArtifact(ctx, url); err == nil {
		return uuid.Nil, apierr.ErrAlreadyGenerated
	} else if !errors.Is(err, store.ErrNotFound) {
		return uuid.Nil, err
	}

	ids, err := tx.ListInProgressJobs(ctx, url)
	if err != nil {
		return uuid.Nil, err
	}
	if len(ids) > 0 {
		return uuid.Nil, &apierr.JobsInProgressError{JobIDs: uuidsToStrings(ids)}
	}

	jobID, err := tx.InsertNewJob(ctx, url)
	if err != nil {
		return uuid.Nil, err
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}
	return jobID, nil
}

// SubmitUpdate implements submit_update: fails with ErrNotGenerated if no
// current Ok artifact exists, otherwise inserts an Update job seeded with
// the artifact's body.
func (s *Service) SubmitUpdate(ctx context.Context, url string) (uuid.UUID, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer func() { _ = tx.Rollback() }()

	current, err := tx.FetchCurrentArtifact(ctx, url)
	if errors.Is(err, store.ErrNotFound) {
		return uuid.Nil, apierr.ErrNotGenerated
	}
	if err != nil {
		return uuid.Nil, err
	}

	jobID, err := tx.InsertUpdateJob(ctx, url, current.ResultData)
	if err != nil {
		return uuid.Nil, err
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}
	return jobID, nil
}

// SubmitUpsert implements submit_upsert: unlike SubmitNew, never fails
// with ErrAlreadyGenerated — it inserts an Update job seeded with the
// current artifact if one exists, otherwise a New job.
func (s *Service) SubmitUpsert(ctx context.Context, url string) (uuid.UUID, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer func() { _ = tx.Rollback() }()

	current, err := tx.FetchCurrentArtifact(ctx, url)
	var jobID uuid.UUID
	switch {
	case err == nil:
		jobID, err = tx.InsertUpdateJob(ctx, url, current.ResultData)
	case errors.Is(err, store.ErrNotFound):
		jobID, err = tx.InsertNewJob(ctx, url)
	}
	if err != nil {
		return uuid.Nil, err
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}
	return jobID, nil
}

// GetCurrent implements get_current_llms_txt: returns the body of the
// latest Ok artifact, ErrNotGenerated if none exists, or a
// *GenerationFailureError per §12.6 if the latest artifact for this URL is
// an Error row (the URL was attempted but is not "never generated").
func (s *Service) GetCurrent(ctx context.Context, url string) (string, error) {
	artifact, err := s.store.FetchCurrentArtifact(ctx, url)
	if errors.Is(err, store.ErrNotFound) {
		latest, latestErr := s.latestAnyStatus(ctx, url)
		if latestErr != nil || latest == nil {
			return "", apierr.ErrNotGenerated
		}
		return "", &apierr.GenerationFailureError{Reason: latest.ResultData}
	}
	if err != nil {
		return "", err
	}
	return artifact.ResultData, nil
}

// latestAnyStatus is a narrow ListMostRecentArtifacts lookup used only to
// distinguish "never attempted" from "attempted, last result was Error"
// for GetCurrent's §12.6 resolution.
func (s *Service) latestAnyStatus(ctx context.Context, url string) (*domain.Artifact, error) {
	all, err := s.store.ListMostRecentArtifacts(ctx)
	if err != nil {
		return nil, err
	}
	return all[url], nil
}

// GetStatus implements get_job_status: returns the job's status and kind.
func (s *Service) GetStatus(ctx context.Context, jobID uuid.UUID) (domain.JobStatus, domain.JobKind, error) {
	job, err := s.store.FetchJob(ctx, jobID)
	if errors.Is(err, store.ErrNotFound) {
		return "", "", apierr.ErrUnknownID
	}
	if err != nil {
		return "", "", err
	}
	return job.Status, job.Kind, nil
}

// GetJob implements fetch_job for the full-detail endpoint.
func (s *Service) GetJob(ctx context.Context, jobID uuid.UUID) (*domain.Job, error) {
	job, err := s.store.FetchJob(ctx, jobID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apierr.ErrUnknownID
	}
	return job, err
}

// ListInProgress implements list_in_progress_jobs_global.
func (s *Service) ListInProgress(ctx context.Context) ([]*domain.Job, error) {
	return s.store.ListInProgressJobsGlobal(ctx)
}

// ListCurrent implements list_current: every URL with a current Ok
// artifact, paired with its body.
func (s *Service) ListCurrent(ctx context.Context) ([]store.CurrentItem, error) {
	return s.store.ListCurrent(ctx)
}

func uuidsToStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
