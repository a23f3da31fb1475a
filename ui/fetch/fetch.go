// Package fetch is the HTTP transport used by components: it sends a
// GET to one configured endpoint and reports the outcome through a
// callback. Every request is represented by a Task that the caller
// retains for as long as it wants the result; cancelling the task
// aborts the request and suppresses the callback.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/elizafairlady/userpanel/ui/fetch"

// DefaultMaxBody bounds how much of a response body is read.
const DefaultMaxBody = 4 << 20

// Response is the outcome of one request. Err is set for transport
// failures and for non-2xx statuses; Body may still hold the error
// payload in the latter case.
type Response struct {
	Status int
	Body   []byte
	Err    error
}

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "fetch: unexpected status " + e.Status
}

// Task is the handle of one in-flight request.
type Task struct {
	id     uint64
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex // held while the callback runs
	cancelled bool
}

// ID identifies the task within its client.
func (t *Task) ID() uint64 { return t.id }

// Cancel aborts the request. Once Cancel returns the callback will
// not be called; if it is running, Cancel waits for it to finish, so
// the callback must not cancel its own task. Cancel is idempotent.
func (t *Task) Cancel() {
	t.cancel()
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
}

// Done is closed once the request goroutine has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Client issues GET requests to a fixed endpoint.
type Client struct {
	endpoint *url.URL
	hc       *http.Client
	timeout  time.Duration
	maxBody  int64
	log      *slog.Logger
	tracer   trace.Tracer
	nextID   atomic.Uint64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithTimeout bounds every request. Zero, the default, means a
// request may stay in flight forever.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithMaxBody limits how many body bytes are read.
func WithMaxBody(n int64) Option {
	return func(c *Client) { c.maxBody = n }
}

// WithLogger sets the logger; slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTracerProvider sets where request spans go; the global provider
// is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tp.Tracer(instrumentationName) }
}

// ParseEndpoint validates raw as an absolute http or https URL.
func ParseEndpoint(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("fetch: endpoint %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("fetch: endpoint %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("fetch: endpoint %q: missing host", raw)
	}
	return u, nil
}

// New creates a client for endpoint. The endpoint is validated here,
// once, so that building a request later cannot fail on it.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := ParseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	c := &Client{
		endpoint: u,
		hc:       http.DefaultClient,
		maxBody:  DefaultMaxBody,
		log:      slog.Default(),
		tracer:   otel.Tracer(instrumentationName),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Get starts a GET request and returns immediately. done is called
// exactly once from another goroutine when the request finishes,
// unless the task is cancelled before that.
func (c *Client) Get(ctx context.Context, done func(Response)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		id:     c.nextID.Add(1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		defer cancel()

		res := c.do(ctx, t.id)
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.cancelled {
			c.log.Debug("fetch cancelled", "task", t.id)
			return
		}
		done(res)
	}()
	return t
}

func (c *Client) do(ctx context.Context, id uint64) Response {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	ctx, span := c.tracer.Start(ctx, "fetch.Get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodGet),
			attribute.String("url.full", c.endpoint.String()),
			attribute.Int64("fetch.task", int64(id)),
		))
	defer span.End()

	fail := func(res Response) Response {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
		c.log.Warn("fetch failed", "task", id, "url", c.endpoint.String(), "error", res.Err)
		return res
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint.String(), http.NoBody)
	if err != nil {
		return fail(Response{Err: fmt.Errorf("fetch: build request: %w", err)})
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fail(Response{Err: fmt.Errorf("fetch: get %s: %w", c.endpoint, err)})
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return fail(Response{Status: resp.StatusCode, Err: fmt.Errorf("fetch: read body: %w", err)})
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(Response{
			Status: resp.StatusCode,
			Body:   body,
			Err:    &StatusError{Code: resp.StatusCode, Status: resp.Status},
		})
	}

	c.log.Debug("fetch complete", "task", id, "status", resp.StatusCode,
		"bytes", len(body), "elapsed", time.Since(start))
	return Response{Status: resp.StatusCode, Body: body}
}
