package dhl

import (
	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// client is embedded by every capability client. It delegates API calls to
// the underlying APIClient (mock or HTTP).
type client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
}

func newClient(cfg Config, validate func(shipper.Credentials) error, logger *otelzap.Logger, tracer trace.Tracer) (client, error) {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	if !cfg.UseMock {
		if err := validate(cfg.Credentials); err != nil {
			return client{}, err
		}
	}

	var apiClient APIClient
	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(cfg, logger, tracer)
	}
	return client{config: cfg, apiClient: apiClient, logger: logger}, nil
}

func newClientWithAPI(cfg Config, apiClient APIClient, logger *otelzap.Logger) client {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	return client{config: cfg, apiClient: apiClient, logger: logger}
}

// Name returns the carrier name.
func (c *client) Name() string {
	return carrierName
}
