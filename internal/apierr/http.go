package apierr

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MinErrorStatusCode is the minimum HTTP status code considered an error.
const MinErrorStatusCode = 400

// HTTPError represents an HTTP API error response received by the cron
// tier's authenticated client when talking to the API tier.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error (%d %s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.Status)
}

// ParseHTTPError reads resp's body (if its status indicates an error) and
// extracts a message from the API tier's `{"error": "..."}` convention.
func ParseHTTPError(resp *http.Response) error {
	if resp.StatusCode < MinErrorStatusCode {
		return nil
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    fmt.Sprintf("failed to read error response body: %v", err),
		}
	}
	bodyStr := string(bodyBytes)

	var jsonErr struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(bodyBytes, &jsonErr) == nil && jsonErr.Error != "" {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       bodyStr,
			Message:    jsonErr.Error,
		}
	}

	return &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       bodyStr,
		Message:    strings.TrimSpace(bodyStr),
	}
}

// IsUnauthorized reports whether err represents a 401 response.
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	if e, ok := err.(*HTTPError); ok {
		httpErr = e
	} else {
		return false
	}
	return httpErr.StatusCode == http.StatusUnauthorized
}
