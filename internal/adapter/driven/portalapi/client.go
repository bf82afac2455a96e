package portalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/classportal-dev/classportal/internal/domain/port/driven"
)

// Client talks to the education backend. One Client serves both backend
// surfaces (auth and assignments/submissions); the two use structurally
// different response shapes, each decoded and mapped by its own method family.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a backend client. transport is the shared request
// pipeline; timeout bounds every call on top of context cancellation.
func NewClient(baseURL string, transport http.RoundTripper, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// doJSON performs one JSON request. body and out may each be nil. Non-2xx
// responses become a *driven.BackendError carrying the backend's envelope message
// when the body held one.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body for %s: %w", path, err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &driven.BackendError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response from %s: %w", path, err)
		}
	}
	return nil
}

// extractMessage pulls the human-readable message out of an error response
// body. Both backend families wrap errors differently ("message" in the auth
// envelope, "error" elsewhere); an unreadable or shapeless body yields "".
func extractMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil {
		return ""
	}

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}
