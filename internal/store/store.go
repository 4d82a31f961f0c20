// Package store is the single source of truth for Jobs and Artifacts. It
// exposes the operations named in the specification's Store component:
// insert_new_job, insert_update_job, fetch_current_artifact,
// list_in_progress_jobs, claim_next_job, the three complete_job_* calls,
// list_most_recent_artifacts, fetch_job, and list_in_progress_jobs_global,
// plus RecoverExpiredLeases (§12.5) and a few helpers such as Ping.
//
// Multi-step API transactions (submit_new's "check then insert") are
// expressed via BeginTx, which returns a Tx exposing the same read/insert
// operations bound to one database/sql transaction.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/jonesrussell/llmstxt-pipeline/internal/apierr"
	"github.com/jonesrussell/llmstxt-pipeline/internal/domain"
)

// Store wraps a *sql.DB configured for Postgres.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres using dsn (the DATABASE_URL config value) and
// applies the given pool limits.
func Open(dsn string, maxOpen, maxIdle int) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{db: db}, nil
}

// NewWithDB wraps an already-open *sql.DB, used by tests with sqlmock.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks connectivity, surfacing apierr.ErrStoreUnavailable on failure.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", apierr.ErrStoreUnavailable, err)
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx, letting every query
// method below run either standalone or inside a caller's transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// wrapStoreErr classifies a database/sql error as StoreUnavailable unless
// it is sql.ErrNoRows, which callers interpret as NotFound themselves.
func wrapStoreErr(context string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return fmt.Errorf("%s: %w: %v", context, apierr.ErrStoreUnavailable, err)
}

// --- insert_new_job / insert_update_job -----------------------------------

func insertNewJob(ctx context.Context, e execer, url string) (uuid.UUID, error) {
	jobID := uuid.New()
	const query = `
		INSERT INTO job_state (job_id, url, status, kind)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := e.ExecContext(ctx, query, jobID, url, domain.JobQueued, domain.JobNew); err != nil {
		return uuid.Nil, wrapStoreErr("insert new job", err)
	}
	return jobID, nil
}

func insertUpdateJob(ctx context.Context, e execer, url, priorLlmsTxt string) (uuid.UUID, error) {
	jobID := uuid.New()
	const query = `
		INSERT INTO job_state (job_id, url, status, kind, prior_llms_txt)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := e.ExecContext(ctx, query, jobID, url, domain.JobQueued, domain.JobUpdate, priorLlmsTxt); err != nil {
		return uuid.Nil, wrapStoreErr("insert update job", err)
	}
	return jobID, nil
}

// InsertNewJob is the standalone form of insert_new_job, used outside a
// caller-managed transaction (e.g. cron calling through the API, not the
// Store, normally — this exists for direct-Store callers and tests).
func (s *Store) InsertNewJob(ctx context.Context, url string) (uuid.UUID, error) {
	return insertNewJob(ctx, s.db, url)
}

// InsertUpdateJob is the standalone form of insert_update_job.
func (s *Store) InsertUpdateJob(ctx context.Context, url, priorLlmsTxt string) (uuid.UUID, error) {
	return insertUpdateJob(ctx, s.db, url, priorLlmsTxt)
}

// --- fetch_current_artifact ------------------------------------------------

// ErrNotFound is returned by fetch_current_artifact and fetch_job when no
// matching row exists.
var ErrNotFound = errors.New("not found")

func fetchCurrentArtifact(ctx context.Context, e execer, url string) (*domain.Artifact, error) {
	const query = `
		SELECT job_id, url, result_status, result_data, html_compressed, html_checksum, created_at
		FROM llms_txt
		WHERE url = $1 AND result_status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := e.QueryRowContext(ctx, query, url, domain.ResultOk)
	a, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapStoreErr("fetch current artifact", err)
	}
	return a, nil
}

// FetchCurrentArtifact is the standalone form.
func (s *Store) FetchCurrentArtifact(ctx context.Context, url string) (*domain.Artifact, error) {
	return fetchCurrentArtifact(ctx, s.db, url)
}

func scanArtifact(row *sql.Row) (*domain.Artifact, error) {
	var a domain.Artifact
	var compressed []byte
	if err := row.Scan(&a.JobID, &a.URL, &a.ResultStatus, &a.ResultData, &compressed, &a.HTMLChecksum, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.HTMLCompressed = compressed
	return &a, nil
}

// --- list_in_progress_jobs -------------------------------------------------

func listInProgressJobs(ctx context.Context, e execer, url string) ([]uuid.UUID, error) {
	const query = `
		SELECT job_id FROM job_state
		WHERE url = $1 AND status IN ($2, $3, $4)
	`
	rows, err := e.QueryContext(ctx, query, url, domain.JobQueued, domain.JobStarted, domain.JobRunning)
	if err != nil {
		return nil, wrapStoreErr("list in progress jobs", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, wrapStoreErr("scan in progress job", scanErr)
		}
		ids = append(ids, id)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, wrapStoreErr("in progress jobs rows", rowsErr)
	}
	return ids, nil
}

// ListInProgressJobs is the standalone form.
func (s *Store) ListInProgressJobs(ctx context.Context, url string) ([]uuid.UUID, error) {
	return listInProgressJobs(ctx, s.db, url)
}

// --- claim_next_job ----------------------------------------------------------

// ErrEmpty is returned by ClaimNextJob when no claimable job exists.
var ErrEmpty = apierr.ErrEmpty

// ClaimNextJob is the single most important operation in the system: it
// selects the lowest-ordered claimable job, skipping rows already locked by
// a concurrent claimant, marks it Running, and returns the pre-update
// snapshot with Status overwritten to Running. Two concurrent callers
// always receive disjoint jobs or ErrEmpty — never the same job, and
// neither blocks on the other.
func (s *Store) ClaimNextJob(ctx context.Context, leaseDuration time.Duration) (*domain.Job, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapStoreErr("begin claim tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	const selectQuery = `
		SELECT job_id, url, status, kind, prior_llms_txt, created_at
		FROM job_state
		WHERE status IN ($1, $2)
		ORDER BY job_id ASC
		FOR UPDATE SKIP LOCKED
		LIMIT 1
	`
	row := tx.QueryRowContext(ctx, selectQuery, domain.JobQueued, domain.JobStarted)

	var job domain.Job
	var priorLlmsTxt sql.NullString
	scanErr := row.Scan(&job.JobID, &job.URL, &job.Status, &job.Kind, &priorLlmsTxt, &job.CreatedAt)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return nil, ErrEmpty
	}
	if scanErr != nil {
		return nil, wrapStoreErr("claim select", scanErr)
	}
	if priorLlmsTxt.Valid {
		job.PriorLlmsTxt = &priorLlmsTxt.String
	}

	leaseExpiresAt := time.Now().Add(leaseDuration)
	const updateQuery = `
		UPDATE job_state SET status = $1, lease_expires_at = $2 WHERE job_id = $3
	`
	if _, execErr := tx.ExecContext(ctx, updateQuery, domain.JobRunning, leaseExpiresAt, job.JobID); execErr != nil {
		return nil, wrapStoreErr("claim update", execErr)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return nil, wrapStoreErr("claim commit", commitErr)
	}

	job.Status = domain.JobRunning
	job.LeaseExpiresAt = &leaseExpiresAt
	return &job, nil
}

// --- complete_job_* ----------------------------------------------------------

// CompleteJobSuccess inserts an Ok artifact and transitions the job to
// Success in one transaction.
func (s *Store) CompleteJobSuccess(ctx context.Context, jobID uuid.UUID, url, llmsTxtBody string, htmlCompressed []byte, htmlChecksum string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertArtifact(ctx, tx, jobID, url, domain.ResultOk, llmsTxtBody, htmlCompressed, htmlChecksum); err != nil {
			return err
		}
		return updateJobStatus(ctx, tx, jobID, domain.JobSuccess)
	})
}

// CompleteJobGenerationFailure inserts an Error artifact (preserving the
// HTML so cron can still compare checksums on retry) and transitions the
// job to Failure.
func (s *Store) CompleteJobGenerationFailure(ctx context.Context, jobID uuid.UUID, url, reason string, htmlCompressed []byte, htmlChecksum string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertArtifact(ctx, tx, jobID, url, domain.ResultError, reason, htmlCompressed, htmlChecksum); err != nil {
			return err
		}
		return updateJobStatus(ctx, tx, jobID, domain.JobFailure)
	})
}

// CompleteJobDownloadFailure transitions the job to Failure with no
// Artifact row — there is no HTML to store.
func (s *Store) CompleteJobDownloadFailure(ctx context.Context, jobID uuid.UUID, reason string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return updateJobStatus(ctx, tx, jobID, domain.JobFailure)
	})
}

func insertArtifact(ctx context.Context, tx *sql.Tx, jobID uuid.UUID, url string, status domain.ResultStatus, data string, htmlCompressed []byte, htmlChecksum string) error {
	const query = `
		INSERT INTO llms_txt (job_id, url, result_status, result_data, html_compressed, html_checksum)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, query, jobID, url, status, data, htmlCompressed, htmlChecksum); err != nil {
		return wrapStoreErr("insert artifact", err)
	}
	return nil
}

func updateJobStatus(ctx context.Context, tx *sql.Tx, jobID uuid.UUID, status domain.JobStatus) error {
	const query = `UPDATE job_state SET status = $1, lease_expires_at = NULL WHERE job_id = $2`
	if _, err := tx.ExecContext(ctx, query, status, jobID); err != nil {
		return wrapStoreErr("update job status", err)
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapStoreErr("begin tx", err)
	}
	if fnErr := fn(tx); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	if commitErr := tx.Commit(); commitErr != nil {
		return wrapStoreErr("commit tx", commitErr)
	}
	return nil
}

// --- list_most_recent_artifacts ---------------------------------------------

// ListMostRecentArtifacts returns the latest row per URL regardless of
// status, used by cron's drift detector.
func (s *Store) ListMostRecentArtifacts(ctx context.Context) (map[string]*domain.Artifact, error) {
	const query = `
		SELECT DISTINCT ON (url) job_id, url, result_status, result_data, html_compressed, html_checksum, created_at
		FROM llms_txt
		ORDER BY url, created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapStoreErr("list most recent artifacts", err)
	}
	defer rows.Close()

	result := make(map[string]*domain.Artifact)
	for rows.Next() {
		var a domain.Artifact
		var compressed []byte
		if scanErr := rows.Scan(&a.JobID, &a.URL, &a.ResultStatus, &a.ResultData, &compressed, &a.HTMLChecksum, &a.CreatedAt); scanErr != nil {
			return nil, wrapStoreErr("scan recent artifact", scanErr)
		}
		a.HTMLCompressed = compressed
		result[a.URL] = &a
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, wrapStoreErr("recent artifacts rows", rowsErr)
	}
	return result, nil
}

// --- fetch_job / list_in_progress_jobs_global --------------------------------

// FetchJob is a read-only inspection operation.
func (s *Store) FetchJob(ctx context.Context, jobID uuid.UUID) (*domain.Job, error) {
	const query = `
		SELECT job_id, url, status, kind, prior_llms_txt, lease_expires_at, created_at
		FROM job_state
		WHERE job_id = $1
	`
	row := s.db.QueryRowContext(ctx, query, jobID)

	var job domain.Job
	var priorLlmsTxt sql.NullString
	var leaseExpiresAt sql.NullTime
	err := row.Scan(&job.JobID, &job.URL, &job.Status, &job.Kind, &priorLlmsTxt, &leaseExpiresAt, &job.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapStoreErr("fetch job", err)
	}
	if priorLlmsTxt.Valid {
		job.PriorLlmsTxt = &priorLlmsTxt.String
	}
	if leaseExpiresAt.Valid {
		job.LeaseExpiresAt = &leaseExpiresAt.Time
	}
	return &job, nil
}

// ListInProgressJobsGlobal returns every non-terminal job system-wide.
func (s *Store) ListInProgressJobsGlobal(ctx context.Context) ([]*domain.Job, error) {
	const query = `
		SELECT job_id, url, status, kind, prior_llms_txt, lease_expires_at, created_at
		FROM job_state
		WHERE status IN ($1, $2, $3)
		ORDER BY job_id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, domain.JobQueued, domain.JobStarted, domain.JobRunning)
	if err != nil {
		return nil, wrapStoreErr("list in progress jobs global", err)
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		var job domain.Job
		var priorLlmsTxt sql.NullString
		var leaseExpiresAt sql.NullTime
		if scanErr := rows.Scan(&job.JobID, &job.URL, &job.Status, &job.Kind, &priorLlmsTxt, &leaseExpiresAt, &job.CreatedAt); scanErr != nil {
			return nil, wrapStoreErr("scan in progress job global", scanErr)
		}
		if priorLlmsTxt.Valid {
			job.PriorLlmsTxt = &priorLlmsTxt.String
		}
		if leaseExpiresAt.Valid {
			job.LeaseExpiresAt = &leaseExpiresAt.Time
		}
		jobs = append(jobs, &job)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, wrapStoreErr("in progress jobs global rows", rowsErr)
	}
	return jobs, nil
}

// --- ListCurrent -------------------------------------------------------------

// CurrentItem is one (url, body) pair returned by ListCurrent.
type CurrentItem struct {
	URL     string
	LlmsTxt string
}

// ListCurrent returns the current Ok artifact body for every URL that has
// one, deduplicated to the most recent Ok row per URL.
func (s *Store) ListCurrent(ctx context.Context) ([]CurrentItem, error) {
	const query = `
		SELECT DISTINCT ON (url) url, result_data
		FROM llms_txt
		WHERE result_status = $1
		ORDER BY url, created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, domain.ResultOk)
	if err != nil {
		return nil, wrapStoreErr("list current", err)
	}
	defer rows.Close()

	var items []CurrentItem
	for rows.Next() {
		var item CurrentItem
		if scanErr := rows.Scan(&item.URL, &item.LlmsTxt); scanErr != nil {
			return nil, wrapStoreErr("scan current item", scanErr)
		}
		items = append(items, item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, wrapStoreErr("current items rows", rowsErr)
	}
	return items, nil
}

// --- RecoverExpiredLeases (§12.5 additive crash recovery) --------------------

// RecoverExpiredLeases resets any Running job whose lease has expired back
// to Queued, returning the recovered job ids. This does not change
// claim_next_job's external contract; it only adds a column it also
// writes.
func (s *Store) RecoverExpiredLeases(ctx context.Context) ([]uuid.UUID, error) {
	const query = `
		UPDATE job_state
		SET status = $1, lease_expires_at = NULL
		WHERE status = $2 AND lease_expires_at IS NOT NULL AND lease_expires_at < now()
		RETURNING job_id
	`
	rows, err := s.db.QueryContext(ctx, query, domain.JobQueued, domain.JobRunning)
	if err != nil {
		return nil, wrapStoreErr("recover expired leases", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, wrapStoreErr("scan recovered lease", scanErr)
		}
		ids = append(ids, id)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, wrapStoreErr("recovered leases rows", rowsErr)
	}
	return ids, nil
}
