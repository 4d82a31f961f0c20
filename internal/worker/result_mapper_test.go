package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type fakeResultStore struct {
	successCalls  int
	genFailCalls  int
	downFailCalls int
	lastReason    string
}

func (f *fakeResultStore) CompleteJobSuccess(ctx context.Context, jobID uuid.UUID, url, llmsTxtBody string, htmlCompressed []byte, htmlChecksum string) error {
	f.successCalls++
	return nil
}

func (f *fakeResultStore) CompleteJobGenerationFailure(ctx context.Context, jobID uuid.UUID, url, reason string, htmlCompressed []byte, htmlChecksum string) error {
	f.genFailCalls++
	f.lastReason = reason
	return nil
}

func (f *fakeResultStore) CompleteJobDownloadFailure(ctx context.Context, jobID uuid.UUID, reason string) error {
	f.downFailCalls++
	f.lastReason = reason
	return nil
}

func TestHandleResult_Success(t *testing.T) {
	t.Parallel()

	s := &fakeResultStore{}
	result := successResult([]byte("x"), "checksum", "body")
	if err := handleResult(context.Background(), s, uuid.New(), "https://example.com", result); err != nil {
		t.Fatalf("handleResult() error = %v", err)
	}
	if s.successCalls != 1 {
		t.Errorf("successCalls = %d, want 1", s.successCalls)
	}
}

func TestHandleResult_GenerationFailed(t *testing.T) {
	t.Parallel()

	s := &fakeResultStore{}
	result := generationFailed([]byte("x"), "checksum", errors.New("bad output"))
	if err := handleResult(context.Background(), s, uuid.New(), "https://example.com", result); err != nil {
		t.Fatalf("handleResult() error = %v", err)
	}
	if s.genFailCalls != 1 {
		t.Errorf("genFailCalls = %d, want 1", s.genFailCalls)
	}
	if s.lastReason != "bad output" {
		t.Errorf("lastReason = %q", s.lastReason)
	}
}

func TestHandleResult_HTMLProcessingFailed_MapsToDownloadFailure(t *testing.T) {
	t.Parallel()

	s := &fakeResultStore{}
	result := htmlProcessingFailed(errors.New("malformed"))
	if err := handleResult(context.Background(), s, uuid.New(), "https://example.com", result); err != nil {
		t.Fatalf("handleResult() error = %v", err)
	}
	if s.downFailCalls != 1 {
		t.Errorf("downFailCalls = %d, want 1 (no artifact row for html processing failures either)", s.downFailCalls)
	}
}

func TestHandleResult_DownloadFailed(t *testing.T) {
	t.Parallel()

	s := &fakeResultStore{}
	result := downloadFailed(errors.New("timeout"))
	if err := handleResult(context.Background(), s, uuid.New(), "https://example.com", result); err != nil {
		t.Fatalf("handleResult() error = %v", err)
	}
	if s.downFailCalls != 1 {
		t.Errorf("downFailCalls = %d, want 1", s.downFailCalls)
	}
}
