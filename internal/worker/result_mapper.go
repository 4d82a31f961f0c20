package worker

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ResultStore is the subset of *store.Store handleResult needs, kept as an
// interface so tests can substitute a fake without sqlmock.
type ResultStore interface {
	CompleteJobSuccess(ctx context.Context, jobID uuid.UUID, url, llmsTxtBody string, htmlCompressed []byte, htmlChecksum string) error
	CompleteJobGenerationFailure(ctx context.Context, jobID uuid.UUID, url, reason string, htmlCompressed []byte, htmlChecksum string) error
	CompleteJobDownloadFailure(ctx context.Context, jobID uuid.UUID, reason string) error
}

// handleResult maps one JobResult to exactly one Store completion call —
// the only place a Job reaches a terminal status in normal operation.
func handleResult(ctx context.Context, s ResultStore, jobID uuid.UUID, url string, result JobResult) error {
	switch result.Kind {
	case ResultSuccess:
		return s.CompleteJobSuccess(ctx, jobID, url, result.LlmsTxt, result.HTMLCompressed, result.HTMLChecksum)
	case ResultGenerationFailed:
		return s.CompleteJobGenerationFailure(ctx, jobID, url, result.Err.Error(), result.HTMLCompressed, result.HTMLChecksum)
	case ResultHTMLProcessingFailed:
		return s.CompleteJobDownloadFailure(ctx, jobID, result.Err.Error())
	case ResultDownloadFailed:
		return s.CompleteJobDownloadFailure(ctx, jobID, result.Err.Error())
	default:
		return fmt.Errorf("worker: unhandled result kind %d", result.Kind)
	}
}
