package pipeline_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonesrussell/llmstxt-pipeline/internal/pipeline"
)

func TestHTTPDownloader_Download_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body>hi</body></html>"))
	}))
	defer server.Close()

	d := pipeline.NewHTTPDownloader(nil)
	body, err := d.Download(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if string(body) != "<html><body>hi</body></html>" {
		t.Errorf("Download() body = %q", body)
	}
}

func TestHTTPDownloader_Download_NonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	d := pipeline.NewHTTPDownloader(nil)
	if _, err := d.Download(context.Background(), server.URL); err == nil {
		t.Fatal("Download() expected error for 404, got nil")
	}
}

func TestHTTPDownloader_Download_BadURL(t *testing.T) {
	t.Parallel()

	d := pipeline.NewHTTPDownloader(nil)
	if _, err := d.Download(context.Background(), "://bad"); err == nil {
		t.Fatal("Download() expected error for malformed url, got nil")
	}
}
