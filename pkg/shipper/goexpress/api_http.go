package goexpress

import (
	"context"
	"net/http"

	"github.com/tournevent/carrierlink/pkg/shipper/auth"
	"github.com/tournevent/carrierlink/pkg/shipper/transport"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP.
// Every endpoint is a JSON POST authenticated with HTTP Basic.
type HTTPAPIClient struct {
	transport *transport.Client
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *HTTPAPIClient {
	return &HTTPAPIClient{
		transport: transport.New(transport.Config{
			Carrier:    carrierName,
			BaseURL:    cfg.baseURL(),
			Auth:       auth.NewBasic(cfg.Credentials.Username, cfg.Credentials.Password),
			Timeout:    cfg.Timeout,
			HTTPClient: cfg.HTTPClient,
			Limiter:    cfg.Limiter,
			Logger:     logger,
			Tracer:     tracer,
			Observer:   cfg.Observer,
		}),
	}
}

var _ APIClient = (*HTTPAPIClient)(nil)

// CreateOrder creates a shipment order.
// POST /createOrder
func (c *HTTPAPIClient) CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	var result OrderResponse
	if err := c.post(ctx, "/createOrder", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateOrderStatus releases or cancels an order.
// POST /updateOrderStatus
func (c *HTTPAPIClient) UpdateOrderStatus(ctx context.Context, req *StatusUpdateRequest) (*StatusUpdateResponse, error) {
	var result StatusUpdateResponse
	if err := c.post(ctx, "/updateOrderStatus", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetLabel fetches the label of an order.
// POST /getLabel
func (c *HTTPAPIClient) GetLabel(ctx context.Context, req *LabelRequest) (*LabelResponse, error) {
	var result LabelResponse
	if err := c.post(ctx, "/getLabel", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetStatus fetches the tracking status of an order.
// POST /getStatus
func (c *HTTPAPIClient) GetStatus(ctx context.Context, req *StatusRequest) (*StatusResponse, error) {
	var result StatusResponse
	if err := c.post(ctx, "/getStatus", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPAPIClient) post(ctx context.Context, path string, body, out any) error {
	return c.transport.Do(ctx, transport.Request{Method: http.MethodPost, Path: path, Body: body}, out)
}
