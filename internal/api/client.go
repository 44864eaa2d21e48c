package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// defaultTimeout bounds a single request/response exchange. Uploads of
// large report files can take a while on slow links.
const defaultTimeout = 60 * time.Second

// Options configures a Client.
type Options struct {
	// BaseURL is the service root, e.g. "https://api.vitalis.example".
	// Endpoint hosts are injected configuration; nothing is hardcoded.
	BaseURL string

	// Tokens supplies the current access token. May be nil for a client
	// that only performs unauthenticated calls.
	Tokens TokenSource

	// OnUnauthorized runs when an authenticated call returns 401.
	OnUnauthorized func()

	// Timeout bounds each request. Zero means defaultTimeout.
	Timeout time.Duration

	// RequestsPerSecond throttles dispatch. Zero disables throttling.
	RequestsPerSecond float64

	// Logger receives request-level debug logging. Nil means slog.Default.
	Logger *slog.Logger

	// Transport overrides the base round tripper (tests).
	Transport http.RoundTripper
}

// Client is an HTTP client for the analysis service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client with the full pipeline assembled.
func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL != "" && !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	// InterceptUnauthorized is innermost so it observes the Authorization
	// header the authenticator actually attached.
	transport := Chain(base,
		Throttle(limiter),
		RequestID(),
		Authenticate(opts.Tokens),
		InterceptUnauthorized(opts.OnUnauthorized),
	)

	return &Client{
		baseURL: baseURL,
		logger:  logger,
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get performs a GET and decodes the JSON response into target.
func (c *Client) get(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, target)
}

// postJSON performs a POST with a JSON body and decodes the response into
// target. A nil body posts no payload.
func (c *Client) postJSON(ctx context.Context, path string, body, target any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, target)
}

// postMultipart performs a multipart POST with a single file field.
func (c *Client) postMultipart(ctx context.Context, path, field, filename string, r io.Reader, target any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, target)
}

// do executes the request and decodes the response. Non-2xx statuses are
// returned as *Error with whatever message the body carried.
func (c *Client) do(req *http.Request, target any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			"method", req.Method, "path", req.URL.Path, "err", err)
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp.StatusCode, body)
	}

	if target != nil && len(body) > 0 {
		if err := json.Unmarshal(body, target); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
