// Package transport sends authenticated JSON requests to carrier APIs and
// normalizes their failures into shipper errors.
package transport

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

	"github.com/google/uuid"
	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/tournevent/carrierlink/pkg/shipper/auth"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "carrierlink/1.0"
	tracerName       = "github.com/tournevent/carrierlink/pkg/shipper/transport"
)

// Observer receives one call per completed HTTP attempt. status is 0 when no response arrived.
type Observer func(carrier, method, path string, status int, elapsed time.Duration)

// Config holds the settings of a carrier HTTP client.
type Config struct {
	Carrier string
	BaseURL string
	Auth    auth.Authenticator

	Timeout    time.Duration // used when HTTPClient is nil
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	UserAgent  string

	Logger   *otelzap.Logger
	Tracer   trace.Tracer
	Observer Observer
}

// Client dispatches requests against one carrier base URL.
type Client struct {
	carrier    string
	baseURL    string
	auth       auth.Authenticator
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	logger     *otelzap.Logger
	tracer     trace.Tracer
	observe    Observer
}

// New creates a transport client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		carrier:    cfg.Carrier,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		auth:       cfg.Auth,
		httpClient: httpClient,
		limiter:    cfg.Limiter,
		userAgent:  userAgent,
		logger:     logger,
		tracer:     tracer,
		observe:    cfg.Observer,
	}
}

// Request describes one carrier call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any // marshalled to JSON when non-nil
	Header http.Header
}

// Response is the raw result of a successful call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Do sends req and decodes a 2xx JSON body into out, if out is non-nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	resp, err := c.Send(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return shipper.NewShipperError(c.carrier, shipper.CodeDeserialization, "failed to decode response").
			WithCause(err).
			WithStatusCode(resp.StatusCode).
			WithBody(string(resp.Body))
	}
	return nil
}

// Send sends req and returns the raw 2xx response.
//
// A 401 or 403 answer is retried exactly once after the authenticator's
// credentials are invalidated, if the authenticator supports that. Any other
// non-2xx answer becomes a carrier API error.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, c.carrier+" "+req.Method+" "+req.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("carrier", c.carrier),
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
		),
	)
	defer span.End()

	var payload []byte
	if req.Body != nil {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, c.fail(span, shipper.NewShipperError(c.carrier, shipper.CodeTransport, "failed to encode request").WithCause(err))
		}
	}

	refresher, canRefresh := auth.AsRefresher(c.auth)

	for attempt := 1; ; attempt++ {
		httpReq, err := c.build(ctx, req, payload)
		if err != nil {
			return nil, c.fail(span, err)
		}

		resp, err := c.roundTrip(ctx, httpReq)
		if err != nil {
			return nil, c.fail(span, err)
		}
		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil

		case isAuthRejection(resp.StatusCode) && canRefresh && attempt == 1:
			c.logger.Ctx(ctx).Info("Credentials rejected, refreshing and retrying",
				zap.String("carrier", c.carrier),
				zap.String("path", req.Path),
				zap.Int("status", resp.StatusCode),
			)
			refresher.Invalidate(httpReq)
			continue

		case isAuthRejection(resp.StatusCode):
			return nil, c.fail(span, shipper.NewAuthError(c.carrier, shipper.ExtractDetail(resp.Body)).
				WithStatusCode(resp.StatusCode).
				WithBody(string(resp.Body)))

		default:
			return nil, c.fail(span, c.apiError(resp))
		}
	}
}

func (c *Client) build(ctx context.Context, req Request, payload []byte) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, shipper.NewShipperError(c.carrier, shipper.CodeTransport, "failed to build request").WithCause(err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	if c.auth != nil {
		if err := c.auth.Authenticate(ctx, httpReq); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, cancelled(httpReq, ctxErr)
			}
			var se *shipper.ShipperError
			if errors.As(err, &se) {
				return nil, err
			}
			return nil, shipper.NewAuthError(c.carrier, "failed to authenticate request").WithCause(err)
		}
	}
	return httpReq, nil
}

// cancelled wraps the context error of an aborted exchange.
func cancelled(req *http.Request, err error) error {
	return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
}

func (c *Client) roundTrip(ctx context.Context, httpReq *http.Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, cancelled(httpReq, ctxErr)
			}
			return nil, shipper.NewShipperError(c.carrier, shipper.CodeTransport, "rate limiter").WithCause(err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.record(httpReq, 0, time.Since(start))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, cancelled(httpReq, ctxErr)
		}
		return nil, shipper.NewShipperError(c.carrier, shipper.CodeTransport, "request failed").
			WithCause(err).
			WithRetryable(true)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.record(httpReq, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, shipper.NewShipperError(c.carrier, shipper.CodeTransport, "failed to read response").
			WithCause(err).
			WithStatusCode(resp.StatusCode)
	}

	c.logger.Ctx(ctx).Debug("Carrier response",
		zap.String("carrier", c.carrier),
		zap.String("method", httpReq.Method),
		zap.String("path", httpReq.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func (c *Client) apiError(resp *Response) *shipper.ShipperError {
	code := shipper.ExtractCode(resp.Body)
	if code == "" {
		code = fmt.Sprintf("HTTP_%d", resp.StatusCode)
	}
	err := shipper.NewShipperError(c.carrier, code, shipper.ExtractDetail(resp.Body)).
		WithStatusCode(resp.StatusCode).
		WithBody(string(resp.Body))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		err.WithCause(shipper.ErrShipmentNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		err.WithCause(shipper.ErrRateLimitExceeded)
	case resp.StatusCode == http.StatusServiceUnavailable:
		err.WithCause(shipper.ErrServiceUnavailable)
	}
	return err
}

func (c *Client) record(req *http.Request, status int, elapsed time.Duration) {
	if c.observe != nil {
		c.observe(c.carrier, req.Method, req.URL.Path, status, elapsed)
	}
}

func (c *Client) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func isAuthRejection(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}
