// Package cron implements the drift-detector tier (§4.4): a periodic
// tick that walks each URL's most recent artifact: for an Ok artifact it
// re-fetches HTML to detect checksum drift and posts an update job, and
// for an Error artifact it resubmits a job of the original kind, both
// through the API tier's authenticated HTTP client.
package cron

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonesrussell/llmstxt-pipeline/internal/apierr"
	"github.com/jonesrussell/llmstxt-pipeline/internal/auth"
)

// Client is the authenticated HTTP client cron uses to call the API
// tier. It logs in on demand: any Unauthorized response triggers one
// login, after which the original call is retried once. Its session
// cookie is shared mutable state, guarded by a mutex held only across
// the read/write, never across a network await.
type Client struct {
	http     *http.Client
	baseURL  string
	password string

	// internalToken, when set, is sent as X-Internal-Token instead of
	// logging in with a password (§12.4's service-to-service path).
	internalToken func() (string, error)

	mu     sync.Mutex
	cookie *http.Cookie
}

// NewClient builds a Client pointed at baseURL, authenticating with
// password via the normal login endpoint.
func NewClient(baseURL, password string) *Client {
	return &Client{http: &http.Client{}, baseURL: baseURL, password: password}
}

// NewInternalTokenClient builds a Client that authenticates every request
// with a freshly minted internal service token rather than a session
// cookie login, per §12.4.
func NewInternalTokenClient(baseURL string, mint func() (string, error)) *Client {
	return &Client{http: &http.Client{}, baseURL: baseURL, internalToken: mint}
}

// Do performs req against the API, authenticating as needed: attaching
// the current session cookie or internal token, or logging in once on a
// 401 and retrying. Any other response, 2xx or not, is returned as is;
// callers turn non-2xx responses into errors with apierr.ParseHTTPError.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.internalToken != nil {
		token, err := c.internalToken()
		if err != nil {
			return nil, fmt.Errorf("mint internal token: %w", err)
		}
		req.Header.Set("X-Internal-Token", token)
		return c.http.Do(req)
	}

	c.attachCookie(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	_ = resp.Body.Close()

	if loginErr := c.login(ctx); loginErr != nil {
		return nil, loginErr
	}
	retry := req.Clone(ctx)
	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, fmt.Errorf("rewind request body for retry: %w", bodyErr)
		}
		retry.Body = body
	}
	c.attachCookie(retry)
	return c.http.Do(retry)
}

func (c *Client) attachCookie(req *http.Request) {
	c.mu.Lock()
	cookie := c.cookie
	c.mu.Unlock()
	if cookie != nil {
		req.AddCookie(cookie)
	}
}

func (c *Client) login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{"password": c.password})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := apierr.ParseHTTPError(resp); err != nil {
		return err
	}

	for _, ck := range resp.Cookies() {
		if ck.Name == auth.CookieName {
			c.mu.Lock()
			c.cookie = ck
			c.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("login response missing %s cookie", auth.CookieName)
}
