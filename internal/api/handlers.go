package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/llmstxt-pipeline/internal/apierr"
	"github.com/jonesrussell/llmstxt-pipeline/internal/logger"
)

// Handler wires the Service to gin's routing, translating domain errors
// to the spec's HTTP status table.
type Handler struct {
	svc *Service
	log logger.Logger
}

// NewHandler builds a Handler around svc, logging with log.
func NewHandler(svc *Service, log logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// PostLlmTxt handles POST /api/llm_txt.
func (h *Handler) PostLlmTxt(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
		return
	}

	jobID, err := h.svc.SubmitNew(c.Request.Context(), req.URL)
	if err != nil {
		h.writeSubmitError(c, err)
		return
	}
	c.JSON(http.StatusCreated, jobResponse{JobID: jobID.String()})
}

// PutLlmTxt handles PUT /api/llm_txt.
func (h *Handler) PutLlmTxt(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
		return
	}

	jobID, err := h.svc.SubmitUpsert(c.Request.Context(), req.URL)
	if err != nil {
		h.writeSubmitError(c, err)
		return
	}
	c.JSON(http.StatusCreated, jobResponse{JobID: jobID.String()})
}

// PostUpdate handles POST /api/update.
func (h *Handler) PostUpdate(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
		return
	}

	jobID, err := h.svc.SubmitUpdate(c.Request.Context(), req.URL)
	if err != nil {
		if errors.Is(err, apierr.ErrNotGenerated) {
			c.JSON(http.StatusNotFound, errorResponse{Error: "not generated"})
			return
		}
		h.writeSubmitError(c, err)
		return
	}
	c.JSON(http.StatusCreated, jobResponse{JobID: jobID.String()})
}

func (h *Handler) writeSubmitError(c *gin.Context, err error) {
	var jip *apierr.JobsInProgressError
	switch {
	case errors.Is(err, apierr.ErrAlreadyGenerated):
		c.JSON(http.StatusConflict, errorResponse{Error: "already generated"})
	case errors.As(err, &jip):
		c.JSON(http.StatusConflict, errorResponse{Error: "jobs in progress", JobIDs: jip.JobIDs})
	default:
		h.log.Error("submit failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "unknown error"})
	}
}

// GetLlmTxt handles GET /api/llm_txt?url=...
func (h *Handler) GetLlmTxt(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "url is required"})
		return
	}

	content, err := h.svc.GetCurrent(c.Request.Context(), url)
	if err != nil {
		var genErr *apierr.GenerationFailureError
		switch {
		case errors.Is(err, apierr.ErrNotGenerated):
			c.JSON(http.StatusNotFound, errorResponse{Error: "not generated"})
		case errors.As(err, &genErr):
			c.JSON(http.StatusInternalServerError, errorResponse{Error: "generation failure: " + genErr.Reason})
		default:
			h.log.Error("get current failed", logger.Err(err))
			c.JSON(http.StatusInternalServerError, errorResponse{Error: "unknown error"})
		}
		return
	}
	c.JSON(http.StatusOK, llmTxtResponse{Content: content})
}

// GetStatus handles GET /api/status?job_id=...
func (h *Handler) GetStatus(c *gin.Context) {
	jobID, ok := parseJobID(c.Query("job_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid job id"})
		return
	}

	status, kind, err := h.svc.GetStatus(c.Request.Context(), jobID)
	if err != nil {
		h.writeLookupError(c, err, "get status failed")
		return
	}
	c.JSON(http.StatusOK, statusResponse{Status: string(status), Kind: string(kind)})
}

// GetJob handles GET /api/job?job_id=...
func (h *Handler) GetJob(c *gin.Context) {
	jobID, ok := parseJobID(c.Query("job_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid job id"})
		return
	}

	job, err := h.svc.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.writeLookupError(c, err, "get job failed")
		return
	}
	c.JSON(http.StatusOK, newJobDetailResponse(job))
}

func (h *Handler) writeLookupError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, apierr.ErrUnknownID):
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown job id"})
	default:
		h.log.Error(logMsg, logger.Err(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "unknown error"})
	}
}

// GetJobsInProgress handles GET /api/jobs/in_progress.
func (h *Handler) GetJobsInProgress(c *gin.Context) {
	jobs, err := h.svc.ListInProgress(c.Request.Context())
	if err != nil {
		h.log.Error("list in progress failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "unknown error"})
		return
	}

	out := make([]jobDetailResponse, len(jobs))
	for i, j := range jobs {
		out[i] = newJobDetailResponse(j)
	}
	c.JSON(http.StatusOK, out)
}

// GetList handles GET /api/list.
func (h *Handler) GetList(c *gin.Context) {
	items, err := h.svc.ListCurrent(c.Request.Context())
	if err != nil {
		h.log.Error("list current failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "unknown error"})
		return
	}

	resp := listResponse{Items: make([]listItem, len(items))}
	for i, item := range items {
		resp.Items[i] = listItem{URL: item.URL, LlmsTxt: item.LlmsTxt}
	}
	c.JSON(http.StatusOK, resp)
}
