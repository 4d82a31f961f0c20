package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/llmstxt-pipeline/internal/api"
	"github.com/jonesrussell/llmstxt-pipeline/internal/auth"
	"github.com/jonesrussell/llmstxt-pipeline/internal/config"
	"github.com/jonesrussell/llmstxt-pipeline/internal/logger"
)

// testPasswordHash is the bcrypt digest of "test_password".
const testPasswordHash = "$2b$12$LQv3c1yqBWVHxkd0LHAkCOYz6TtxMQJqhN8/LewY5GyYWNGZqKzRu"

func newAuthTestRouter(cfg *config.AuthConfig) *gin.Engine {
	h := api.NewAuthHandler(cfg, logger.NewNop())
	router := gin.New()
	router.POST("/api/auth/login", h.Login)
	router.POST("/api/auth/logout", h.Logout)
	router.GET("/api/auth/check", h.Check)
	return router
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()
	cfg := &config.AuthConfig{EnabledRaw: "true", PasswordHash: testPasswordHash, SessionSecret: "secret", SessionDurationSeconds: 3600}
	router := newAuthTestRouter(cfg)

	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(map[string]string{"password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestLogin_CorrectPassword_SetsCookie(t *testing.T) {
	t.Parallel()
	cfg := &config.AuthConfig{EnabledRaw: "true", PasswordHash: testPasswordHash, SessionSecret: "secret", SessionDurationSeconds: 3600}
	router := newAuthTestRouter(cfg)

	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(map[string]string{"password": "test_password"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != auth.CookieName {
		t.Fatalf("cookies = %v, want one %s cookie", cookies, auth.CookieName)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	t.Parallel()
	cfg := &config.AuthConfig{EnabledRaw: "true", SessionSecret: "secret"}
	router := newAuthTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("cookies = %v, want one expired cookie", cookies)
	}
}

func TestCheck_AuthDisabled(t *testing.T) {
	t.Parallel()
	cfg := &config.AuthConfig{EnabledRaw: "false"}
	router := newAuthTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp struct {
		AuthEnabled   bool `json:"auth_enabled"`
		Authenticated bool `json:"authenticated"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.AuthEnabled || resp.Authenticated {
		t.Errorf("resp = %+v, want both false", resp)
	}
}

func TestCheck_AuthEnabledWithValidSession(t *testing.T) {
	t.Parallel()
	cfg := &config.AuthConfig{EnabledRaw: "true", SessionSecret: "secret", SessionDurationSeconds: 3600}
	router := newAuthTestRouter(cfg)

	token, err := auth.GenerateSessionToken(cfg.SessionSecret)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", http.NoBody)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp struct {
		AuthEnabled   bool `json:"auth_enabled"`
		Authenticated bool `json:"authenticated"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.AuthEnabled || !resp.Authenticated {
		t.Errorf("resp = %+v, want both true", resp)
	}
}
