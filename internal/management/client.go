// Package management is a client for the broker's REST management API.
package management

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/leg100/hutch/internal/logging"
	"github.com/leg100/hutch/internal/resource"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultRetries = 3

	apiPrefix = "/api/latest/"
)

// Options for constructing a client.
type Options struct {
	// URL is the base URL of the broker's management interface, e.g.
	// http://localhost:8080
	URL      string
	Username string
	Password string
	// Timeout for each HTTP request attempt.
	Timeout time.Duration
	// Retries is the maximum number of retries of a failed request.
	Retries int
	Logger  logging.Interface
}

// Client performs requests against the management API.
type Client struct {
	baseURL  string
	username string
	password string
	http     *retryablehttp.Client
}

// APIError is returned when the management API responds with an error status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps a 404 to resource.ErrNotFound.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return resource.ErrNotFound
	}
	return nil
}

// NewClient constructs a client.
func NewClient(opts Options) (*Client, error) {
	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing management url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("management url must use http or https: %s", opts.URL)
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard
	}

	client := retryablehttp.NewClient()
	client.RetryMax = opts.Retries
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = opts.Timeout
	client.Logger = opts.Logger
	// Return the last response once retries are exhausted rather than an
	// opaque error, so that the broker's error message can be reported.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL:  strings.TrimSuffix(u.String(), "/"),
		username: opts.Username,
		password: opts.Password,
		http:     client,
	}, nil
}

// URL returns the base URL of the management interface.
func (c *Client) URL() string {
	return c.baseURL
}

// do performs a request and returns the response body.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	var reqBody []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = data
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(respBody),
		}
	}
	return respBody, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

// extractErrorMessage extracts a message from an error response. The broker
// responds with either {"errorMessage": "..."} or plain text.
func extractErrorMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		ErrorMessage string `json:"errorMessage"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		return strings.TrimSpace(payload.ErrorMessage)
	}
	return string(body)
}

// decodeOne decodes a response that is either a single object or a list
// containing a single object.
func decodeOne(data []byte) (map[string]any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	switch v := raw.(type) {
	case map[string]any:
		return v, nil
	case []any:
		if len(v) == 0 {
			return nil, resource.ErrNotFound
		}
		if obj, ok := v[0].(map[string]any); ok {
			return obj, nil
		}
	}
	return nil, errors.New("decode response: unexpected response format")
}

// escapePath escapes each segment of a path.
func escapePath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}
