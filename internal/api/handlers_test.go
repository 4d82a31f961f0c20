package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jonesrussell/llmstxt-pipeline/internal/api"
	"github.com/jonesrussell/llmstxt-pipeline/internal/domain"
	"github.com/jonesrussell/llmstxt-pipeline/internal/logger"
	"github.com/jonesrussell/llmstxt-pipeline/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHandler(t *testing.T) (*api.Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	svc := api.NewService(store.NewWithDB(db))
	return api.NewHandler(svc, logger.NewNop()), mock
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPostLlmTxt_Created(t *testing.T) {
	t.Parallel()
	h, mock := newTestHandler(t)
	router := gin.New()
	router.POST("/api/llm_txt", h.PostLlmTxt)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT job_id, url, result_status").
		WillReturnRows(sqlmock.NewRows(artifactCols))
	mock.ExpectQuery("SELECT job_id FROM job_state").
		WillReturnRows(sqlmock.NewRows([]string{"job_id"}))
	mock.ExpectExec("INSERT INTO job_state").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := doJSON(router, http.MethodPost, "/api/llm_txt", map[string]string{"url": "https://a.test"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestPostLlmTxt_AlreadyGenerated(t *testing.T) {
	t.Parallel()
	h, mock := newTestHandler(t)
	router := gin.New()
	router.POST("/api/llm_txt", h.PostLlmTxt)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT job_id, url, result_status").
		WillReturnRows(sqlmock.NewRows(artifactCols).
			AddRow(uuid.New(), "https://a.test", domain.ResultOk, "body", []byte{}, "checksum", nowUTC()))
	mock.ExpectRollback()

	w := doJSON(router, http.MethodPost, "/api/llm_txt", map[string]string{"url": "https://a.test"})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestPostLlmTxt_InvalidBody(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)
	router := gin.New()
	router.POST("/api/llm_txt", h.PostLlmTxt)

	req := httptest.NewRequest(http.MethodPost, "/api/llm_txt", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetLlmTxt_NotGenerated(t *testing.T) {
	t.Parallel()
	h, mock := newTestHandler(t)
	router := gin.New()
	router.GET("/api/llm_txt", h.GetLlmTxt)

	mock.ExpectQuery("SELECT job_id, url, result_status").
		WillReturnRows(sqlmock.NewRows(artifactCols))
	mock.ExpectQuery("SELECT DISTINCT ON \\(url\\) job_id").
		WillReturnRows(sqlmock.NewRows(artifactCols))

	req := httptest.NewRequest(http.MethodGet, "/api/llm_txt?url=https://a.test", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestGetLlmTxt_MissingQueryParam(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)
	router := gin.New()
	router.GET("/api/llm_txt", h.GetLlmTxt)

	req := httptest.NewRequest(http.MethodGet, "/api/llm_txt", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetStatus_InvalidID(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)
	router := gin.New()
	router.GET("/api/status", h.GetStatus)

	req := httptest.NewRequest(http.MethodGet, "/api/status?job_id=not-a-uuid", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

