package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jonesrussell/llmstxt-pipeline/internal/llm"
	"github.com/jonesrussell/llmstxt-pipeline/internal/pipeline"
)

const validLlmsTxt = "# Example\n\n> A short summary.\n\n## Docs\n\n- [Start](https://example.com/start)\n"

func TestGenerateLlmsTxt_SucceedsFirstTry(t *testing.T) {
	t.Parallel()

	provider := llm.NewMockProvider(validLlmsTxt)
	doc, err := pipeline.GenerateLlmsTxt(context.Background(), provider, "<html>site</html>")
	if err != nil {
		t.Fatalf("GenerateLlmsTxt() error = %v", err)
	}
	if doc.Title != "Example" {
		t.Errorf("Title = %q", doc.Title)
	}
	if provider.CallCount() != 1 {
		t.Errorf("CallCount() = %d, want 1 (no retry needed)", provider.CallCount())
	}
}

func TestGenerateLlmsTxt_RetriesOnceThenSucceeds(t *testing.T) {
	t.Parallel()

	provider := llm.NewMockProvider("not valid markdown at all", validLlmsTxt)
	doc, err := pipeline.GenerateLlmsTxt(context.Background(), provider, "<html>site</html>")
	if err != nil {
		t.Fatalf("GenerateLlmsTxt() error = %v", err)
	}
	if doc.Title != "Example" {
		t.Errorf("Title = %q", doc.Title)
	}
	if provider.CallCount() != 2 {
		t.Errorf("CallCount() = %d, want 2 (one retry)", provider.CallCount())
	}
}

func TestGenerateLlmsTxt_FailsAfterSingleRetry(t *testing.T) {
	t.Parallel()

	provider := llm.NewMockProvider("still not valid", "still not valid either")
	_, err := pipeline.GenerateLlmsTxt(context.Background(), provider, "<html>site</html>")
	if err == nil {
		t.Fatal("GenerateLlmsTxt() expected error after exhausting retry, got nil")
	}
	if provider.CallCount() != 2 {
		t.Errorf("CallCount() = %d, want exactly 2 (no third attempt)", provider.CallCount())
	}
}

func TestGenerateLlmsTxt_ProviderFailure(t *testing.T) {
	t.Parallel()

	provider := &llm.FailingProvider{Err: errors.New("provider unavailable")}
	_, err := pipeline.GenerateLlmsTxt(context.Background(), provider, "<html>site</html>")
	if err == nil {
		t.Fatal("GenerateLlmsTxt() expected error, got nil")
	}
	var perr *pipeline.ProviderError
	if !errors.As(err, &perr) {
		t.Errorf("error type = %T, want *pipeline.ProviderError", err)
	}
}

func TestUpdateLlmsTxt_RejectsInvalidPrior(t *testing.T) {
	t.Parallel()

	provider := llm.NewMockProvider(validLlmsTxt)
	_, err := pipeline.UpdateLlmsTxt(context.Background(), provider, "not a valid llms.txt", "<html/>")
	if err == nil {
		t.Fatal("UpdateLlmsTxt() expected error for malformed prior document, got nil")
	}
	if provider.CallCount() != 0 {
		t.Errorf("CallCount() = %d, want 0 (should fail before calling the provider)", provider.CallCount())
	}
}

func TestUpdateLlmsTxt_SucceedsFirstTry(t *testing.T) {
	t.Parallel()

	updated := "# Example\n\n> Updated summary.\n"
	provider := llm.NewMockProvider(updated)
	doc, err := pipeline.UpdateLlmsTxt(context.Background(), provider, validLlmsTxt, "<html>new content</html>")
	if err != nil {
		t.Fatalf("UpdateLlmsTxt() error = %v", err)
	}
	if doc.Summary != "Updated summary." {
		t.Errorf("Summary = %q", doc.Summary)
	}
}

func TestUpdateLlmsTxt_RetriesOnceThenSucceeds(t *testing.T) {
	t.Parallel()

	provider := llm.NewMockProvider("garbage response", "# Example\n\n> Fixed summary.\n")
	doc, err := pipeline.UpdateLlmsTxt(context.Background(), provider, validLlmsTxt, "<html/>")
	if err != nil {
		t.Fatalf("UpdateLlmsTxt() error = %v", err)
	}
	if doc.Summary != "Fixed summary." {
		t.Errorf("Summary = %q", doc.Summary)
	}
	if provider.CallCount() != 2 {
		t.Errorf("CallCount() = %d, want 2", provider.CallCount())
	}
}
