package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/jonesrussell/llmstxt-pipeline/internal/domain"
	"github.com/jonesrussell/llmstxt-pipeline/internal/llm"
)

type fakeDownloader struct {
	body []byte
	err  error
}

func (f *fakeDownloader) Download(ctx context.Context, rawURL string) ([]byte, error) {
	return f.body, f.err
}

const validBody = "# Example\n\n> A short summary.\n"

func TestHandleJob_Success_New(t *testing.T) {
	t.Parallel()

	job := &domain.Job{JobID: uuid.New(), URL: "https://example.com", Kind: domain.JobNew}
	dl := &fakeDownloader{body: []byte("<p>hello</p>")}
	provider := llm.NewMockProvider(validBody)

	result := handleJob(context.Background(), job, dl, provider, nil)
	if result.Kind != ResultSuccess {
		t.Fatalf("Kind = %v, want ResultSuccess (err=%v)", result.Kind, result.Err)
	}
	if result.LlmsTxt != validBody {
		t.Errorf("LlmsTxt = %q", result.LlmsTxt)
	}
	if len(result.HTMLCompressed) == 0 {
		t.Error("HTMLCompressed is empty")
	}
	if result.HTMLChecksum == "" {
		t.Error("HTMLChecksum is empty")
	}
}

func TestHandleJob_Success_Update(t *testing.T) {
	t.Parallel()

	prior := validBody
	job := &domain.Job{JobID: uuid.New(), URL: "https://example.com", Kind: domain.JobUpdate, PriorLlmsTxt: &prior}
	dl := &fakeDownloader{body: []byte("<p>changed</p>")}
	provider := llm.NewMockProvider("# Example\n\n> An updated summary.\n")

	result := handleJob(context.Background(), job, dl, provider, nil)
	if result.Kind != ResultSuccess {
		t.Fatalf("Kind = %v, want ResultSuccess (err=%v)", result.Kind, result.Err)
	}
}

func TestHandleJob_DownloadFailed_InvalidURL(t *testing.T) {
	t.Parallel()

	job := &domain.Job{JobID: uuid.New(), URL: "not-a-url", Kind: domain.JobNew}
	dl := &fakeDownloader{body: []byte("<p>x</p>")}
	provider := llm.NewMockProvider(validBody)

	result := handleJob(context.Background(), job, dl, provider, nil)
	if result.Kind != ResultDownloadFailed {
		t.Fatalf("Kind = %v, want ResultDownloadFailed", result.Kind)
	}
}

func TestHandleJob_DownloadFailed_FetchError(t *testing.T) {
	t.Parallel()

	job := &domain.Job{JobID: uuid.New(), URL: "https://example.com", Kind: domain.JobNew}
	dl := &fakeDownloader{err: errors.New("connection refused")}
	provider := llm.NewMockProvider(validBody)

	result := handleJob(context.Background(), job, dl, provider, nil)
	if result.Kind != ResultDownloadFailed {
		t.Fatalf("Kind = %v, want ResultDownloadFailed", result.Kind)
	}
}

func TestHandleJob_GenerationFailed_RetainsHTML(t *testing.T) {
	t.Parallel()

	job := &domain.Job{JobID: uuid.New(), URL: "https://example.com", Kind: domain.JobNew}
	dl := &fakeDownloader{body: []byte("<p>hello</p>")}
	provider := &llm.FailingProvider{Err: errors.New("provider down")}

	result := handleJob(context.Background(), job, dl, provider, nil)
	if result.Kind != ResultGenerationFailed {
		t.Fatalf("Kind = %v, want ResultGenerationFailed", result.Kind)
	}
	if len(result.HTMLCompressed) == 0 {
		t.Error("GenerationFailed must retain compressed HTML")
	}
	if result.HTMLChecksum == "" {
		t.Error("GenerationFailed must retain the checksum")
	}
}
