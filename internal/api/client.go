// Package api implements the HTTP client for the Edupi backend REST API.
// Responses are plain JSON objects; error bodies carry {"message": "..."}
// and are surfaced as *model.APIError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/edupi-school/edupi-client/pkg/model"
)

// Client is an HTTP client for the Edupi API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an Edupi API client with connection pooling.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		logger: logger.With("component", "api"),
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do executes a request and decodes the JSON response into dest (when
// dest is non-nil). Non-2xx responses are returned as *model.APIError.
func (c *Client) do(ctx context.Context, method, path, token string, body, dest any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("http request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("http response", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &model.APIError{StatusCode: resp.StatusCode}
		// Error bodies are {"message": "..."}; anything else degrades to
		// a bare status error.
		_ = json.Unmarshal(respBody, apiErr)
		return apiErr
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, dest); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path, token string, dest any) error {
	return c.do(ctx, http.MethodGet, path, token, nil, dest)
}

func (c *Client) post(ctx context.Context, path, token string, body, dest any) error {
	return c.do(ctx, http.MethodPost, path, token, body, dest)
}

func (c *Client) put(ctx context.Context, path, token string, body, dest any) error {
	return c.do(ctx, http.MethodPut, path, token, body, dest)
}
