package ichclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// APIError is a non-success response from the inference service. Detail is
// the backend's own description when the body carried one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("prediction request failed with status %d", e.StatusCode)
}

// Client talks to the inference backend over HTTP.
type Client struct {
	cfg Config
	hc  *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg, hc: &http.Client{}}
}

// Origin returns the backend base address the client was built with.
func (c *Client) Origin() string { return c.cfg.BackendOrigin }

// ResolveImage turns a relative locator from the payload into an absolute
// URL on the backend origin.
func (c *Client) ResolveImage(locator string) string {
	if locator == "" {
		return ""
	}
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		return locator
	}
	if !strings.HasPrefix(locator, "/") {
		locator = "/" + locator
	}
	return c.cfg.BackendOrigin + locator
}

// Predict uploads the scan as a multipart request and returns the parsed
// payload together with the raw response bytes, so callers can persist the
// body exactly as received. A non-2xx status yields an *APIError; anything
// below that (unreachable host, undecodable success body) is a transport
// failure.
func (c *Client) Predict(ctx context.Context, filename string, r io.Reader) (*PredictionPayload, []byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, nil, fmt.Errorf("copy file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BackendOrigin+"/predict", body)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var detail errorBody
		if err := json.Unmarshal(raw, &detail); err == nil {
			apiErr.Detail = detail.Detail
		}
		return nil, nil, apiErr
	}

	var payload PredictionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, nil, fmt.Errorf("decode response: %w", err)
	}
	return &payload, raw, nil
}

// Health queries the liveness endpoint. Best effort; the caller decides what
// a failure means.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BackendOrigin+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode}
	}
	var h HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &h, nil
}

// FetchImage downloads one of the payload's image locators. Failures degrade
// to a placeholder on the result screen, mirroring a browser's broken-image
// behavior.
func (c *Client) FetchImage(ctx context.Context, locator string) ([]byte, error) {
	url := c.ResolveImage(locator)
	if url == "" {
		return nil, fmt.Errorf("empty image locator")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}
