package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/llmstxt-pipeline/internal/domain"
)

// urlRequest is the body of POST /api/llm_txt, PUT /api/llm_txt, and
// POST /api/update.
type urlRequest struct {
	URL string `json:"url" binding:"required"`
}

// jobResponse is the 201 body returned by all three submission endpoints.
type jobResponse struct {
	JobID string `json:"job_id"`
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error  string   `json:"error"`
	JobIDs []string `json:"job_ids,omitempty"`
}

// llmTxtResponse is the 200 body of GET /api/llm_txt.
type llmTxtResponse struct {
	Content string `json:"content"`
}

// statusResponse is the 200 body of GET /api/status.
type statusResponse struct {
	Status string `json:"status"`
	Kind   string `json:"kind"`
}

// jobDetailResponse is the 200 body of GET /api/job.
type jobDetailResponse struct {
	JobID          string     `json:"job_id"`
	URL            string     `json:"url"`
	Status         string     `json:"status"`
	Kind           string     `json:"kind"`
	PriorLlmsTxt   *string    `json:"prior_llms_txt,omitempty"`
	LeaseExpiresAt *time.Time `json:"lease_expires_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func newJobDetailResponse(j *domain.Job) jobDetailResponse {
	return jobDetailResponse{
		JobID:          j.JobID.String(),
		URL:            j.URL,
		Status:         string(j.Status),
		Kind:           string(j.Kind),
		PriorLlmsTxt:   j.PriorLlmsTxt,
		LeaseExpiresAt: j.LeaseExpiresAt,
		CreatedAt:      j.CreatedAt,
	}
}

// listItem is one entry of GET /api/list's items array.
type listItem struct {
	URL     string `json:"url"`
	LlmsTxt string `json:"llm_txt"`
}

// listResponse is the 200 body of GET /api/list.
type listResponse struct {
	Items []listItem `json:"items"`
}

// loginRequest is the body of POST /api/auth/login.
type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// authCheckResponse is the body of GET /api/auth/check.
type authCheckResponse struct {
	AuthEnabled   bool `json:"auth_enabled"`
	Authenticated bool `json:"authenticated"`
}

func parseJobID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
