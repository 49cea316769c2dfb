package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/glyphorbit/pkg/buildinfo"
	"github.com/matzehuels/glyphorbit/pkg/observability"
)

// Client defaults.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 64 << 20 // larger than any real font file
)

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures and unexpected statuses.
	ErrNetwork = errors.New("network error")

	// ErrTooLarge is returned when a body exceeds the client's byte limit.
	ErrTooLarge = errors.New("response too large")
)

// Response is a fully read response body and its validators.
type Response struct {
	Status       int
	Body         []byte
	ETag         string
	LastModified string
}

// NotModified reports whether the server answered 304.
func (r *Response) NotModified() bool { return r.Status == http.StatusNotModified }

// Client performs GET requests and reads whole bodies.
type Client struct {
	http     *http.Client
	headers  map[string]string
	maxBytes int64
}

// NewClient creates a client with the default timeout. headers are sent
// with every request; pass nil for none.
func NewClient(headers map[string]string) *Client {
	return &Client{
		http:     &http.Client{Timeout: DefaultTimeout},
		headers:  headers,
		maxBytes: DefaultMaxBytes,
	}
}

// WithHTTPClient returns a copy of c using hc for transport.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	cp := *c
	cp.http = hc
	return &cp
}

// WithMaxBytes returns a copy of c that rejects bodies larger than n bytes.
func (c *Client) WithMaxBytes(n int64) *Client {
	cp := *c
	if n > 0 {
		cp.maxBytes = n
	}
	return &cp
}

// Get fetches url. extra headers override the client defaults; set
// If-None-Match or If-Modified-Since there for a conditional request.
// Transport errors and 5xx statuses are wrapped in [RetryableError].
func (c *Client) Get(ctx context.Context, url string, extra map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "glyphorbit/"+buildinfo.Short())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, resp.Header.Get("Retry-After")); err != nil {
		return nil, err
	}

	out := &Response{
		Status:       resp.StatusCode,
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
	}
	if out.NotModified() {
		return out, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("%w: read body: %v", ErrNetwork, err)}
	}
	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, c.maxBytes)
	}
	out.Body = body
	return out, nil
}

func checkStatus(code int, retryAfter string) error {
	switch {
	case code == http.StatusOK, code == http.StatusNotModified:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests, code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code), After: parseRetryAfter(retryAfter)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
