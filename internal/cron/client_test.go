package cron_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jonesrussell/llmstxt-pipeline/internal/auth"
	"github.com/jonesrussell/llmstxt-pipeline/internal/cron"
)

func TestClient_LogsInOnUnauthorizedThenRetries(t *testing.T) {
	t.Parallel()

	var loginCount, callCount int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			atomic.AddInt32(&loginCount, 1)
			http.SetCookie(w, &http.Cookie{Name: auth.CookieName, Value: "session-token"})
			w.WriteHeader(http.StatusOK)
		case "/api/llm_txt":
			n := atomic.AddInt32(&callCount, 1)
			if n == 1 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"job_id":"00000000-0000-0000-0000-000000000001"}`))
		}
	}))
	defer server.Close()

	client := cron.NewClient(server.URL, "test_password")
	if err := client.SubmitNew(t.Context(), "https://a.test"); err != nil {
		t.Fatalf("SubmitNew() error = %v", err)
	}

	if atomic.LoadInt32(&loginCount) != 1 {
		t.Errorf("loginCount = %d, want 1", loginCount)
	}
	if atomic.LoadInt32(&callCount) != 2 {
		t.Errorf("callCount = %d, want 2 (initial 401 + retry)", callCount)
	}
}

func TestClient_ReusesCookieAcrossCalls(t *testing.T) {
	t.Parallel()

	var loginCount int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			atomic.AddInt32(&loginCount, 1)
			http.SetCookie(w, &http.Cookie{Name: auth.CookieName, Value: "session-token"})
			w.WriteHeader(http.StatusOK)
		case "/api/llm_txt":
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil || cookie.Value != "session-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"job_id":"00000000-0000-0000-0000-000000000001"}`))
		}
	}))
	defer server.Close()

	client := cron.NewClient(server.URL, "test_password")
	ctx := t.Context()
	if err := client.SubmitNew(ctx, "https://a.test"); err != nil {
		t.Fatalf("first SubmitNew() error = %v", err)
	}
	if err := client.SubmitNew(ctx, "https://b.test"); err != nil {
		t.Fatalf("second SubmitNew() error = %v", err)
	}

	if atomic.LoadInt32(&loginCount) != 1 {
		t.Errorf("loginCount = %d, want 1 (cookie reused)", loginCount)
	}
}

func TestClient_InternalToken_AttachesHeader(t *testing.T) {
	t.Parallel()

	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Internal-Token")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"job_id":"00000000-0000-0000-0000-000000000001"}`))
	}))
	defer server.Close()

	client := cron.NewInternalTokenClient(server.URL, func() (string, error) {
		return "minted-token", nil
	})
	if err := client.SubmitUpdate(t.Context(), "https://a.test"); err != nil {
		t.Fatalf("SubmitUpdate() error = %v", err)
	}
	if gotToken != "minted-token" {
		t.Errorf("X-Internal-Token = %q, want minted-token", gotToken)
	}
}
