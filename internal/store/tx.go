package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/jonesrussell/llmstxt-pipeline/internal/domain"
)

// Tx binds the read/insert operations the API tier needs to one
// database/sql transaction, so that (for example) submit_new's
// "does a current artifact exist, does an in-progress job exist, if
// neither then insert" sequence is not observable as separate statements
// to a concurrent submitter.
type Tx struct {
	tx *sql.Tx
}

// BeginTx starts a new transaction for a multi-step API operation.
func (s *Store) BeginTx(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapStoreErr("begin api tx", err)
	}
	return &Tx{tx: tx}, nil
}

// Commit commits the underlying transaction.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return wrapStoreErr("commit api tx", err)
	}
	return nil
}

// Rollback aborts the underlying transaction. Safe to call after Commit:
// the sql.ErrTxDone that database/sql reports then is returned as nil.
func (t *Tx) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

// FetchCurrentArtifact is the transaction-bound form of fetch_current_artifact.
func (t *Tx) FetchCurrentArtifact(ctx context.Context, url string) (*domain.Artifact, error) {
	return fetchCurrentArtifact(ctx, t.tx, url)
}

// ListInProgressJobs is the transaction-bound form of list_in_progress_jobs.
func (t *Tx) ListInProgressJobs(ctx context.Context, url string) ([]uuid.UUID, error) {
	return listInProgressJobs(ctx, t.tx, url)
}

// InsertNewJob is the transaction-bound form of insert_new_job.
func (t *Tx) InsertNewJob(ctx context.Context, url string) (uuid.UUID, error) {
	return insertNewJob(ctx, t.tx, url)
}

// InsertUpdateJob is the transaction-bound form of insert_update_job.
func (t *Tx) InsertUpdateJob(ctx context.Context, url, priorLlmsTxt string) (uuid.UUID, error) {
	return insertUpdateJob(ctx, t.tx, url, priorLlmsTxt)
}
