// Package client is an HTTP client for the content API consumed by the admin
// screens.
//
// [Client] mirrors the server's endpoint structure:
//   - Products: addressed by their author-chosen id
//   - Projects: created and updated through one POST endpoint, addressed by slug
//   - Blog posts: created with POST and updated with PUT; there is no delete endpoint
//   - Media uploads: one file per multipart request, answered with the stored path
//   - Change events: a websocket feed announcing changes made by other sessions
//
// Every non-2xx response is returned as an [*APIError] carrying the status code
// and the message the server sent. Well-known statuses match the sentinel errors
// of the constants package with [errors.Is].
//
// [Client.Products], [Client.Projects] and [Client.BlogPosts] return per-kind
// gateways with a uniform List, Get, Create, Update, Remove surface, which is
// what the editor drives.
//
// Client instances are safe for concurrent use by multiple goroutines.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lumenworks/contentkit/pkg/constants"
)

// Client provides typed access to the content REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
}

// NewClient creates a new content API client.
//
// The baseURL should include the protocol and host (e.g., "http://localhost:8080")
// but not the /api prefix.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: constants.DefaultHTTPTimeout,
		},
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// SetAuthToken sets the bearer token sent with every request.
func (c *Client) SetAuthToken(token string) {
	c.authToken = token
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a non-success response from the content API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: status=%d, message=%s", e.StatusCode, e.Message)
}

// Is maps well-known statuses onto the sentinel errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case constants.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case constants.ErrConflict:
		return e.StatusCode == http.StatusConflict
	case constants.ErrMethodNotAvailable:
		return e.StatusCode == http.StatusMethodNotAllowed
	case constants.ErrUnsupportedMedia:
		return e.StatusCode == http.StatusUnsupportedMediaType
	case constants.ErrReadOnly:
		return e.StatusCode == http.StatusServiceUnavailable && strings.Contains(e.Message, "read-only")
	}
	return false
}

// doRequest performs an HTTP request with a JSON body.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := c.newRequest(ctx, method, path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if c.baseURL == "" {
		return nil, constants.ErrNoBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	return req, nil
}

// errorBody is the shape of error responses.
type errorBody struct {
	Error string `json:"error"`
}

// decodeResponse decodes the JSON response into target.
func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		msg := strings.TrimSpace(string(body))
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if target != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) call(ctx context.Context, method, path string, body, target any) error {
	resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	return decodeResponse(resp, target)
}

// Health checks the health status of the server.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var result map[string]any
	if err := c.call(ctx, http.MethodGet, "/health", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
