package client

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
)

const maxResponseBodySize = 1 << 20 // 1MB

// DefaultTimeout bounds each request when [WithTimeout] is not used.
const DefaultTimeout = 15 * time.Second

// connection pooling limits; the CLI talks to one host
const (
	defaultMaxIdleConns        = 10
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second
)

var (
	// ErrNotFound is returned when the server has no entry for an id.
	ErrNotFound = errors.New("entry not found")

	// ErrBadRequest is returned when the server rejects the request,
	// for example a malformed id or body.
	ErrBadRequest = errors.New("bad request")

	// ErrTimeout is returned when the server answers 408 Request Timeout.
	ErrTimeout = errors.New("server request timeout")
)

// Entry is a clipboard entry as returned by the server.
type Entry struct {
	ID   string `json:"id,omitempty"`
	Data string `json:"data"`
}

// StatusError is returned for non-2xx responses that have no sentinel.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to a Pasteboard server over HTTP.
//
// Timeouts are applied per request via context rather than on the
// underlying http.Client. Response bodies are limited to 1MB.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
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

// New creates a [Client] for the server at baseURL, e.g. "http://localhost:8080".
//
// Returns an error if baseURL is not an absolute http or https URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: must be http(s)://host[:port]", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Paste adds data to the bounded clipboard.
func (c *Client) Paste(ctx context.Context, data string) error {
	_, err := c.do(ctx, http.MethodPost, "/paste", pasteBody(data))
	return err
}

// Copy returns the bounded clipboard contents, oldest first.
func (c *Client) Copy(ctx context.Context) ([]Entry, error) {
	body, err := c.do(ctx, http.MethodGet, "/copy", nil)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode clipboard: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Submit adds data to the keyed store and returns the assigned id.
func (c *Client) Submit(ctx context.Context, data string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/pastes", pasteBody(data))
	if err != nil {
		return "", err
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode submit response: %w", err)
	}
	if resp.ID == "" {
		return "", errors.New("server returned empty id")
	}
	return resp.ID, nil
}

// Fetch returns the keyed entry with the given id.
//
// Returns [ErrNotFound] for unknown ids and [ErrBadRequest] for malformed ones.
func (c *Client) Fetch(ctx context.Context, id string) (Entry, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/pastes/"+url.PathEscape(id), nil)
	if err != nil {
		return Entry{}, err
	}

	var entry Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to decode entry: %w", err)
	}
	return entry, nil
}

// Close closes idle connections in the client's pool. Safe to call on a
// nil client and more than once.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	c.httpClient.CloseIdleConnections()
}

func pasteBody(data string) io.Reader {
	// encoding a string cannot fail
	b, _ := json.Marshal(struct {
		Data string `json:"data"`
	}{Data: data})
	return bytes.NewReader(b)
}

// do performs a request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, nil
	}
	return nil, statusErr(resp.StatusCode, respBody)
}

// statusErr maps a non-2xx response to an error, keeping the server's
// message when the body is a JSON error reply.
func statusErr(code int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		msg = payload.Error
	}

	var sentinel error
	switch code {
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusBadRequest:
		sentinel = ErrBadRequest
	case http.StatusRequestTimeout:
		sentinel = ErrTimeout
	default:
		return &StatusError{StatusCode: code, Message: msg}
	}

	if msg == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}
