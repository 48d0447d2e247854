// Package httpclient provides the HTTP plumbing for talking to the ViajeIA
// planning service. It handles request building, JSON error bodies, and
// streaming downloads. The package requires a Configurator implementation
// for the service base URL.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Configurator defines the interface for providing the planning service
// base URL. The URL is expected to be normalized (no trailing slash).
type Configurator interface {
	GetServerURL() string
}

// HTTPError represents an error response from the service with HTTP status
// code and message.
type HTTPError struct {
	StatusCode int    // HTTP status code of the error
	Message    string // Error message or response body
}

// Error implements the error interface for HTTPError.
func (e *HTTPError) Error() string {
	return e.Message
}

// HTTPClient represents a client for making HTTP requests to the planning
// service. It handles request building and response processing.
type HTTPClient struct {
	config     Configurator
	httpClient *http.Client
}

// ClientOptions contains options for configuring the HTTP client.
type ClientOptions struct {
	Timeout time.Duration // Per-request timeout; zero means no timeout
}

// NewClient creates a new HTTP client using the provided configuration.
// The config parameter must implement the Configurator interface.
func NewClient(config Configurator, opts ...ClientOptions) *HTTPClient {
	clientOpts := ClientOptions{}
	if len(opts) > 0 {
		clientOpts = opts[0]
	}
	return &HTTPClient{
		config: config,
		httpClient: &http.Client{
			Timeout: clientOpts.Timeout,
		},
	}
}

// RequestOptions contains options for making HTTP requests.
// All fields are required except QueryParams and Body.
type RequestOptions struct {
	Method      string            // HTTP method (GET, POST)
	Path        string            // API endpoint path
	QueryParams map[string]string // Optional query parameters
	Body        []byte            // Optional request body
}

// buildRequest assembles an *http.Request from the configured base URL and
// the request options.
func (c *HTTPClient) buildRequest(ctx context.Context, opts RequestOptions) (*http.Request, error) {
	u, err := url.Parse(c.config.GetServerURL())
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %v", err)
	}
	u.Path = path.Join(u.Path, opts.Path)

	q := u.Query()
	for k, v := range opts.QueryParams {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, opts.Method, u.String(), bytes.NewBuffer(opts.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// serviceError converts a non-2xx response body into an HTTPError. The
// planning service reports failures as {"detail": "..."}; when that field
// is present it becomes the error message, otherwise the raw body is used.
func serviceError(statusCode int, body []byte) *HTTPError {
	if detail := gjson.GetBytes(body, "detail"); detail.Exists() {
		return &HTTPError{
			StatusCode: statusCode,
			Message:    detail.String(),
		}
	}
	return &HTTPError{
		StatusCode: statusCode,
		Message:    strings.TrimSpace(string(body)),
	}
}

// DoRequest makes an HTTP request with the given options.
// Returns the response body and any error that occurred. Responses with a
// status code of 400 or above are returned as *HTTPError.
func (c *HTTPClient) DoRequest(ctx context.Context, opts RequestOptions) ([]byte, error) {
	req, err := c.buildRequest(ctx, opts)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	if resp.StatusCode >= 400 {
		return nil, serviceError(resp.StatusCode, body)
	}

	return body, nil
}

// StreamRequest makes an HTTP request with the given options and returns a
// reader for streaming the response. Similar to DoRequest but returns an
// io.ReadCloser for large bodies such as the itinerary document.
// The caller is responsible for closing the returned reader.
func (c *HTTPClient) StreamRequest(ctx context.Context, opts RequestOptions) (io.ReadCloser, error) {
	req, err := c.buildRequest(ctx, opts)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, serviceError(resp.StatusCode, body)
	}

	return resp.Body, nil
}
