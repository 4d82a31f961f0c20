package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jonesrussell/llmstxt-pipeline/internal/llm"
)

func TestMockProvider_ReturnsResponsesInOrder(t *testing.T) {
	t.Parallel()

	p := llm.NewMockProvider("first", "second")

	got, err := p.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "first" {
		t.Errorf("Complete() = %q, want %q", got, "first")
	}

	got, err = p.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "second" {
		t.Errorf("Complete() = %q, want %q", got, "second")
	}

	if p.CallCount() != 2 {
		t.Errorf("CallCount() = %d, want 2", p.CallCount())
	}
}

func TestMockProvider_ErrorsOnceExhausted(t *testing.T) {
	t.Parallel()

	p := llm.NewMockProvider("only")
	if _, err := p.Complete(context.Background(), "prompt"); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if _, err := p.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("Complete() expected error once fixtures exhausted, got nil")
	}
}

func TestMockProvider_AlwaysErr(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("forced failure")
	p := &llm.MockProvider{AlwaysErr: wantErr}
	if _, err := p.Complete(context.Background(), "prompt"); !errors.Is(err, wantErr) {
		t.Errorf("Complete() error = %v, want %v", err, wantErr)
	}
}

func TestFailingProvider_AlwaysReturnsErr(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("provider down")
	p := &llm.FailingProvider{Err: wantErr}
	if _, err := p.Complete(context.Background(), "prompt"); !errors.Is(err, wantErr) {
		t.Errorf("Complete() error = %v, want %v", err, wantErr)
	}
}
