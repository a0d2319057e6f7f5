package dhl

import (
	"context"

	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TrackingClient queries the DHL unified tracking API.
type TrackingClient struct {
	client
}

// NewTrackingClient creates a tracking client. Only the API key is required.
func NewTrackingClient(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) (*TrackingClient, error) {
	c, err := newClient(cfg, validateAPIKey, logger, tracer)
	if err != nil {
		return nil, err
	}
	return &TrackingClient{client: c}, nil
}

// NewTrackingClientWithAPIClient creates a tracking client with a custom API client.
func NewTrackingClientWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger) *TrackingClient {
	return &TrackingClient{client: newClientWithAPI(cfg, apiClient, logger)}
}

var _ shipper.Tracker = (*TrackingClient)(nil)

// Track returns the status and events of a shipment.
func (c *TrackingClient) Track(ctx context.Context, trackingNumber string, opts *shipper.TrackOptions) (*shipper.TrackingResult, error) {
	c.logger.Ctx(ctx).Info("Tracking DHL shipment", zap.String("tracking_number", trackingNumber))

	query := TrackingQuery{TrackingNumber: trackingNumber}
	if opts != nil {
		query.Service = opts.Service
		query.Language = opts.Language
		query.RecipientPostalCode = opts.RecipientPostalCode
		query.OriginCountryCode = opts.OriginCountryCode
	}

	apiResp, err := c.apiClient.Track(ctx, query)
	if err != nil {
		c.logger.Ctx(ctx).Error("DHL API error", zap.Error(err))
		return nil, err
	}
	if len(apiResp.Shipments) == 0 {
		return nil, notFound("shipment", trackingNumber)
	}

	result, err := trackedShipmentToShipper(apiResp.Shipments[0])
	if err != nil {
		c.logger.Ctx(ctx).Error("Failed to map DHL tracking response",
			zap.String("tracking_number", trackingNumber), zap.Error(err))
		return nil, err
	}
	return result, nil
}

func trackedShipmentToShipper(s TrackedShipment) (*shipper.TrackingResult, error) {
	events := make([]shipper.TrackingEvent, 0, len(s.Events))
	for _, e := range s.Events {
		event, err := eventToShipper(e)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	estimated, err := parseTimestamp(s.EstimatedTimeOfDelivery)
	if err != nil {
		return nil, err
	}

	return &shipper.TrackingResult{
		ShipmentNumber:    s.ID,
		Carrier:           carrierName,
		Status:            TrackingStatus(s.Status.StatusCode),
		Events:            events,
		EstimatedDelivery: estimated,
	}, nil
}
