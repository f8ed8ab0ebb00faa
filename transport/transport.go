// Package transport issues single HTTP requests against the Messaging API
// and normalizes every reply into a Response or Stream. Both client
// facades dispatch through it; it owns connection lifecycle and maps
// transport failures into a small, classifiable error set.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/linekit-go/linekit/transport/throttle"
)

// Client wraps the std-lib *http.Client with the dispatch, tracing, and
// throttling behavior shared by every API call.
type Client struct {
	c      *http.Client
	logger *slog.Logger
	tracer trace.Tracer
}

// Request is the normalized form of one outgoing call. Requests are
// built per call and never reused, so concurrent calls share no state.
type Request struct {
	Method      string
	URL         *url.URL
	Header      http.Header
	Body        []byte
	ContentType string
}

// Build assembles a Client from the given options. Defaults: a fresh
// http.Client over http.DefaultTransport, slog.Default, and a no-op
// tracer. A caller-supplied client is copied, never mutated.
func Build(optFns ...Option) (*Client, error) {
	client := &Client{
		c:      &http.Client{},
		logger: slog.Default(),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying transport option: %w", err)
		}
	}

	if opts.client != nil {
		// Copy so the caller's client is never mutated.
		cpy := *opts.client
		client.c = &cpy
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	} else {
		client.tracer = noop.NewTracerProvider().Tracer("")
	}

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	var rt http.RoundTripper
	switch {
	case opts.rt != nil:
		rt = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		rt = opts.client.Transport
	default:
		rt = http.DefaultTransport
	}
	if opts.userAgent != "" {
		rt = userAgent{value: opts.userAgent, base: rt}
	}
	if opts.throttle != nil {
		tr, err := throttle.New(opts.throttle.RPS, opts.throttle.Burst, client.logger, rt)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		rt = tr
	}
	client.c.Transport = rt

	return client, nil
}

// Do fires the request and returns the fully-read, normalized response.
// The body is decoded-JSON only when the server declares exactly
// application/json; any other content type yields raw bytes. The
// underlying connection is released before Do returns, on every path.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := c.span(ctx, req)
	defer span.End()

	resp, err := c.roundTrip(ctx, req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			c.logger.Error("discarding response body", "error", err)
		}
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("closing response body", "error", err)
		}
	}()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(req.Method+" "+req.URL.Path, err)
	}

	return newResponse(resp.StatusCode, resp.Header, body), nil
}

// Stream fires the request and returns once status and headers are
// available, handing ownership of the open connection to the returned
// Stream. A non-2xx status is classified here: the body is drained into
// an APIError and the connection released before returning.
func (c *Client) Stream(ctx context.Context, req *Request) (*Stream, error) {
	ctx, span := c.span(ctx, req)
	defer span.End()

	resp, err := c.roundTrip(ctx, req)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		if readErr != nil {
			body = nil
		}
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("closing error response body", "error", err)
		}

		return nil, Classify(newResponse(resp.StatusCode, resp.Header, body))
	}

	return newStream(resp, c.logger), nil
}

func (c *Client) roundTrip(ctx context.Context, req *Request) (*http.Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	hr, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	for k, vals := range req.Header {
		for _, v := range vals {
			hr.Header.Add(k, v)
		}
	}
	if req.ContentType != "" {
		hr.Header.Set("Content-Type", req.ContentType)
	}

	resp, err := c.c.Do(hr)
	if err != nil {
		return nil, networkError(req.Method+" "+req.URL.Path, err)
	}

	return resp, nil
}

func (c *Client) span(ctx context.Context, req *Request) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "transport.dispatch", trace.WithAttributes(
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.URL.Path),
	))
}

// userAgent is an http.RoundTripper adding a persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}
