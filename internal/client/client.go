package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pxp/n8nctl/internal/workflow"
)

// APIKeyHeader carries the n8n public API key.
const APIKeyHeader = "X-N8N-API-KEY"

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client is the HTTP client for the n8n public API.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a new n8n client.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do executes an HTTP request with auth header injection.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	ev := c.log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Dur("took", time.Since(start))
	if err != nil {
		ev.Err(err).Msg("request failed")
		return nil, err
	}
	ev.Int("status", resp.StatusCode).Msg("request completed")
	return resp, nil
}

// get performs a GET request.
func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// put performs a PUT request with JSON body.
func (c *Client) put(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// roundTrip sends a request and decodes a 2xx body into a workflow document.
func (c *Client) roundTrip(send func() (*http.Response, error)) (workflow.Workflow, error) {
	resp, err := send()
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Detail: "cannot connect to server", Err: err}
	}
	defer resp.Body.Close()

	// Bodies are read whole: workflows with pinned data run to megabytes and
	// error bodies are reported verbatim. Only Error() shortens them.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Detail: "reading response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, body)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return workflow.Workflow{}, nil
	}

	wf, err := workflow.Parse(body)
	if err != nil {
		return nil, &Error{Kind: KindDecode, Detail: "invalid response from server", Err: err}
	}
	return wf, nil
}

// Health checks if the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	if c.baseURL == "" {
		return &Error{Kind: KindInvalidInput, Detail: "base URL is required"}
	}

	resp, err := c.get(ctx, "/healthz")
	if err != nil {
		return &Error{Kind: KindNetwork, Detail: "cannot connect to server", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return statusError(resp.StatusCode, body)
	}
	return nil
}

// statusError builds an HTTP status failure. The message of an n8n error
// body is lifted into Detail when present.
func statusError(code int, body []byte) *Error {
	e := &Error{Kind: KindHTTPStatus, StatusCode: code, Body: string(body)}

	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		e.Detail = errResp.Message
		if e.Detail == "" {
			e.Detail = errResp.Error
		}
	}
	return e
}

// encode serialises a document for a request body.
func encode(wf workflow.Workflow) ([]byte, error) {
	if wf == nil {
		return nil, errors.New("workflow document is nil")
	}
	data, err := json.Marshal(wf)
	if err != nil {
		return nil, fmt.Errorf("encoding workflow: %w", err)
	}
	return data, nil
}
