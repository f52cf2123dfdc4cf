// the client package is used by the vvgo command line tools to call the vvgo portal API.
//
// Every response is decoded into an api.Envelope. Fetch returns the envelope for Status "ok",
// the *api.Error for Status "error" and an error wrapping api.ErrInvalidResponse for anything else.
// Transport errors are returned exactly as the http.Client produced them; there are no retries.
//
// UserMessage (see client/errors.go) turns any of these into text fit to show a person.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	portal "github.com/virtual-vgo/portal"
	"github.com/virtual-vgo/portal/internal/api"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// Client handles communication with the vvgo API.
// The token and target are fixed at construction; log in again with a new Client.
type Client struct {
	token      string
	target     string
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter
}

type options struct {
	target     string
	origin     string
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter
}

type Option func(*options)

// WithTarget overrides the api root (default /api/v1).
// A relative target is resolved against the origin.
func WithTarget(target string) Option {
	return func(o *options) { o.target = target }
}

// WithOrigin sets the scheme and host a relative target is resolved against.
func WithOrigin(origin string) Option {
	return func(o *options) { o.origin = origin }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) { o.httpClient = httpClient }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRateLimit makes Fetch wait for a token before each request.
// requestsPerSecond <= 0 disables the limit.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(o *options) {
		if requestsPerSecond <= 0 {
			o.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// New creates a client that sends token as a bearer credential on every request.
// An empty token makes anonymous requests.
func New(token string, opts ...Option) (*Client, error) {
	o := options{
		target: portal.DefaultAPITarget,
		origin: portal.DefaultAPIOrigin,
	}
	for _, opt := range opts {
		opt(&o)
	}

	target, err := resolveTarget(o.origin, o.target)
	if err != nil {
		return nil, err
	}

	httpClient := o.httpClient
	if httpClient == nil {
		// no Timeout: callers bound requests with their context
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		token:      token,
		target:     target,
		httpClient: httpClient,
		logger:     logger,
		limiter:    o.limiter,
	}, nil
}

// Target is the resolved api root every request path is appended to.
func (c *Client) Target() string {
	return c.target
}

func resolveTarget(origin, target string) (string, error) {
	t, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid api target %q: %w", target, err)
	}
	if t.RawQuery != "" || t.Fragment != "" {
		return "", fmt.Errorf("api target %q must not contain a query or fragment", target)
	}

	if !t.IsAbs() {
		o, err := url.Parse(origin)
		if err != nil {
			return "", fmt.Errorf("invalid api origin %q: %w", origin, err)
		}
		if o.Scheme == "" || o.Host == "" {
			return "", fmt.Errorf("api origin %q must include a scheme and host", origin)
		}
		t = o.ResolveReference(t)
	}

	if t.Scheme != "http" && t.Scheme != "https" {
		return "", fmt.Errorf("api target %q must use http or https", t.String())
	}
	if t.Host == "" {
		return "", fmt.Errorf("api target %q has no host", t.String())
	}

	return strings.TrimSuffix(t.String(), "/"), nil
}

// RequestOptions describes the request sent by Fetch.
// An empty Method means GET.
type RequestOptions struct {
	Method string
	Header http.Header
	Body   io.Reader
}

// NewJSONRequest returns options carrying v as a JSON body.
func NewJSONRequest(method string, v any) (*RequestOptions, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request body: %w", method, err)
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	return &RequestOptions{
		Method: method,
		Header: header,
		Body:   bytes.NewReader(data),
	}, nil
}

// Fetch sends a request to <target><path> and decodes the response envelope.
//
// The caller's headers are sent as given except Authorization, which is always
// set to the client's bearer token.
func (c *Client) Fetch(ctx context.Context, path string, opts *RequestOptions) (*api.Envelope, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.target+path, opts.Body)
	if err != nil {
		return nil, fmt.Errorf("creating %s %s request: %w", method, path, err)
	}

	if opts.Header != nil {
		req.Header = opts.Header.Clone()
	}
	for name := range req.Header {
		if strings.EqualFold(name, "Authorization") {
			delete(req.Header, name)
		}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	requestID := req.Header.Get(portal.RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		req.Header.Set(portal.RequestIDHeader, requestID)
	}

	start := time.Now()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	env, err := api.DecodeEnvelope(body)

	logAttrs := []slog.Attr{
		slog.String("type", "api"),
		slog.String("request_id", requestID),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", res.StatusCode),
		slog.Duration("duration", time.Since(start)),
		slog.Int("bytes", len(body)),
	}
	if env != nil {
		logAttrs = append(logAttrs, slog.String("envelope_status", string(env.Status)))
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "api request completed", logAttrs...)

	if err != nil {
		return nil, fmt.Errorf("%s %s (http status %d): %w", method, path, res.StatusCode, err)
	}
	if err := env.Err(); err != nil {
		return nil, err
	}
	return env, nil
}

// get is Fetch for GET requests with optional query parameters
func (c *Client) get(ctx context.Context, path string, query url.Values) (*api.Envelope, error) {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.Fetch(ctx, path, nil)
}

// sendJSON is Fetch with a JSON body
func (c *Client) sendJSON(ctx context.Context, method, path string, body any) (*api.Envelope, error) {
	opts, err := NewJSONRequest(method, body)
	if err != nil {
		return nil, err
	}
	return c.Fetch(ctx, path, opts)
}
