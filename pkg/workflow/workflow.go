// Package workflow triggers webhooks on a workflow automation server.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Config holds the webhook base URL and optional bearer token.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client posts JSON payloads to webhook paths below BaseURL.
type Client struct {
	http  *resty.Client
	token string
}

// NewClient creates a new workflow Client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:  resty.New().SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).SetTimeout(timeout),
		token: cfg.Token,
	}
}

// StatusError is returned when the webhook answers with a non-2xx status.
type StatusError struct {
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook %s returned status %d", e.Path, e.Status)
}

// Trigger POSTs payload to the webhook named by path.
func (c *Client) Trigger(ctx context.Context, path string, payload any) error {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	if c.token != "" {
		req.SetAuthToken(c.token)
	}

	resp, err := req.Post("/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return fmt.Errorf("failed to call webhook %s: %w", path, err)
	}
	if resp.IsError() || resp.StatusCode() >= 300 {
		return &StatusError{Path: path, Status: resp.StatusCode()}
	}
	return nil
}
