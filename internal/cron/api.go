package cron

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/jonesrussell/llmstxt-pipeline/internal/apierr"
)

// urlRequest mirrors the API tier's POST /api/llm_txt and POST
// /api/update request bodies.
type urlRequest struct {
	URL string `json:"url"`
}

// SubmitNew calls POST /api/llm_txt, the drift detector's response to an
// Error artifact whose originating Job was a New job.
func (c *Client) SubmitNew(ctx context.Context, url string) error {
	return c.postURL(ctx, "/api/llm_txt", url)
}

// SubmitUpdate calls POST /api/update, used both for confirmed drift on
// an Ok artifact and for retrying an Error artifact whose originating Job
// was an Update job.
func (c *Client) SubmitUpdate(ctx context.Context, url string) error {
	return c.postURL(ctx, "/api/update", url)
}

func (c *Client) postURL(ctx context.Context, path, url string) error {
	body, err := json.Marshal(urlRequest{URL: url})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return apierr.ParseHTTPError(resp)
}
