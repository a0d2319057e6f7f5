package dhl

import (
	"context"

	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Return label types.
const (
	ReturnLabelShipment = "SHIPMENT_LABEL"
	ReturnLabelQR       = "QR_LABEL"
	ReturnLabelBoth     = "BOTH"
)

// ReturnsClient creates return labels.
type ReturnsClient struct {
	client
}

// NewReturnsClient creates a returns client.
func NewReturnsClient(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) (*ReturnsClient, error) {
	c, err := newClient(cfg, validateParcel, logger, tracer)
	if err != nil {
		return nil, err
	}
	return &ReturnsClient{client: c}, nil
}

// NewReturnsClientWithAPIClient creates a returns client with a custom API client.
func NewReturnsClientWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger) *ReturnsClient {
	return &ReturnsClient{client: newClientWithAPI(cfg, apiClient, logger)}
}

var _ shipper.ReturnsProvider = (*ReturnsClient)(nil)

// CreateReturn creates a return shipment to the receiver id and returns its labels.
func (c *ReturnsClient) CreateReturn(ctx context.Context, req *shipper.ReturnRequest) (*shipper.ReturnResponse, error) {
	if req.ReceiverID == "" {
		return nil, shipper.NewConfigError(carrierName, "receiver id is required")
	}

	c.logger.Ctx(ctx).Info("Creating DHL return",
		zap.String("receiver_id", req.ReceiverID),
		zap.String("sender_city", req.Sender.City),
	)

	apiReq := &ReturnOrderRequest{
		ReceiverID:        req.ReceiverID,
		CustomerReference: req.Reference,
		Shipper:           addressToAPI(req.Sender),
		ItemValue:         moneyToAPI(req.Value),
	}
	if req.WeightKG > 0 {
		w := weightToAPI(req.WeightKG)
		apiReq.ItemWeight = &w
	}

	apiResp, err := c.apiClient.CreateReturn(ctx, apiReq, ReturnLabelBoth)
	if err != nil {
		c.logger.Ctx(ctx).Error("DHL API error", zap.Error(err))
		return nil, err
	}

	out := &shipper.ReturnResponse{
		ShipmentNumber:              apiResp.ShipmentNo,
		InternationalShipmentNumber: apiResp.InternationalShipmentNo,
		RoutingCode:                 apiResp.RoutingCode,
	}

	label, err := documentToLabel(apiResp.Label, shipper.LabelPDF)
	if err != nil {
		return nil, err
	}
	if label != nil {
		out.Label = *label
	}
	if out.QRLabel, err = documentToLabel(apiResp.QRLabel, ""); err != nil {
		return nil, err
	}
	return out, nil
}
