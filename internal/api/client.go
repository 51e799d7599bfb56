// Package api contains the backend adapter clients of the planning workflow:
// crop catalog, weather, and simulation submission. Each adapter issues
// exactly one request per call, performs no retries, and surfaces every
// failure as a typed error carrying the operation that produced it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/Krish00711/TerraSim/internal/errors"
	"github.com/Krish00711/TerraSim/internal/logging"
	"github.com/Krish00711/TerraSim/internal/metrics"
)

// DefaultTimeout bounds a single backend round-trip. The workflow has no
// retry policy, so a hung request would otherwise stall the session.
const DefaultTimeout = 30 * time.Second

const tracerName = "github.com/Krish00711/TerraSim/internal/api"

// Client is the shared HTTP base for all backend adapters. The endpoint is
// treated as an opaque user-supplied string; the only validation applied is
// non-emptiness. A Client is immutable after construction: reconfiguring the
// endpoint means building a new Client.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        logging.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

// Option configures a Client during construction.
type Option func(*Client)

// WithHTTPClient sets a custom *http.Client (useful for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the structured logger used for request logging.
func WithLogger(log logging.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithMetrics attaches Prometheus instrumentation to every request.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a Client for the given backend endpoint.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, apperrors.NewConfigError("backend endpoint cannot be empty")
	}

	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        logging.NopLogger{},
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the configured backend endpoint.
func (c *Client) Endpoint() string { return c.endpoint }

// do issues one request and decodes the JSON response into out. All failure
// paths return an apperrors.RequestError tagged with op so the controller can
// map the failure to the workflow step that issued it.
func (c *Client) do(ctx context.Context, op apperrors.Operation, method, path string, query url.Values, body, out any) error {
	ctx, span := c.tracer.Start(ctx, "api."+string(op), trace.WithAttributes(
		attribute.String("terrasim.operation", string(op)),
		attribute.String("terrasim.endpoint", c.endpoint),
	))
	defer span.End()

	start := time.Now()
	if c.metrics != nil {
		c.metrics.IncrementActiveRequests()
		defer c.metrics.DecrementActiveRequests()
	}

	err := c.roundTrip(ctx, method, path, query, body, out)

	duration := time.Since(start)
	if c.metrics != nil {
		c.metrics.ObserveRequest(string(op), duration, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Error("backend request failed", err,
			logging.String("operation", string(op)),
			logging.String("path", path))
		return apperrors.RequestError{Op: op, Cause: err}
	}

	span.SetStatus(codes.Ok, "")
	c.log.Debug("backend request completed",
		logging.String("operation", string(op)),
		logging.String("path", path),
		logging.Float64("duration_ms", float64(duration.Milliseconds())))
	return nil
}

// roundTrip performs the raw HTTP exchange: build, send, check status,
// decode.
func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqURL := c.endpoint + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Read a bounded slice of the body so error messages stay short.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
