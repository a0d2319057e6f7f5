package dhl

import (
	"context"
	"time"

	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// PickupOptions are the DHL specific fields of a pickup request.
type PickupOptions struct {
	BillingNumber      string
	TransportationType string // PAKET by default
}

// Carrier implements shipper.CarrierOptions.
func (PickupOptions) Carrier() string { return carrierName }

// PickupClient books and cancels courier pickups.
type PickupClient struct {
	client
}

// NewPickupClient creates a pickup client.
func NewPickupClient(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) (*PickupClient, error) {
	c, err := newClient(cfg, validateParcel, logger, tracer)
	if err != nil {
		return nil, err
	}
	return &PickupClient{client: c}, nil
}

// NewPickupClientWithAPIClient creates a pickup client with a custom API client.
func NewPickupClientWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger) *PickupClient {
	return &PickupClient{client: newClientWithAPI(cfg, apiClient, logger)}
}

var _ shipper.PickupScheduler = (*PickupClient)(nil)

// SchedulePickup books a pickup at the given address and date.
func (c *PickupClient) SchedulePickup(ctx context.Context, req *shipper.PickupRequest) (*shipper.PickupConfirmation, error) {
	var opts PickupOptions
	switch v := req.Options.(type) {
	case PickupOptions:
		opts = v
	case *PickupOptions:
		if v != nil {
			opts = *v
		}
	}
	if opts.BillingNumber == "" {
		return nil, shipper.NewConfigError(carrierName, "billing number is required")
	}

	c.logger.Ctx(ctx).Info("Scheduling DHL pickup",
		zap.String("city", req.Address.City),
		zap.Time("date", req.Date),
		zap.Int("shipment_count", len(req.ShipmentNumbers)),
	)

	apiResp, err := c.apiClient.CreatePickup(ctx, pickupRequestToAPI(req, opts))
	if err != nil {
		c.logger.Ctx(ctx).Error("DHL API error", zap.Error(err))
		return nil, err
	}
	return pickupDetailsToShipper(apiResp.Confirmation.Value), nil
}

// GetPickup fetches a booked pickup.
func (c *PickupClient) GetPickup(ctx context.Context, orderID string) (*shipper.PickupConfirmation, error) {
	c.logger.Ctx(ctx).Info("Getting DHL pickup", zap.String("order_id", orderID))

	orders, err := c.apiClient.GetPickup(ctx, orderID)
	if err != nil {
		c.logger.Ctx(ctx).Error("DHL API error", zap.Error(err))
		return nil, err
	}
	for _, o := range orders {
		if o.OrderID == orderID {
			return pickupDetailsToShipper(o), nil
		}
	}
	return nil, notFound("pickup order", orderID)
}

// CancelPickup cancels a booked pickup.
func (c *PickupClient) CancelPickup(ctx context.Context, orderID string) (*shipper.PickupCancellation, error) {
	c.logger.Ctx(ctx).Info("Cancelling DHL pickup", zap.String("order_id", orderID))

	apiResp, err := c.apiClient.CancelPickup(ctx, orderID)
	if err != nil {
		c.logger.Ctx(ctx).Error("DHL API error", zap.Error(err))
		return nil, err
	}

	for _, s := range apiResp.ConfirmedCancellations {
		if s.OrderID == orderID {
			return &shipper.PickupCancellation{OrderID: orderID, Cancelled: true, State: s.OrderState}, nil
		}
	}
	for _, s := range apiResp.FailedCancellations {
		if s.OrderID == orderID {
			return &shipper.PickupCancellation{OrderID: orderID, State: s.Message}, nil
		}
	}
	return &shipper.PickupCancellation{OrderID: orderID}, nil
}

func pickupRequestToAPI(req *shipper.PickupRequest, opts PickupOptions) *PickupOrderRequest {
	address := addressToAPI(req.Address)

	transportation := opts.TransportationType
	if transportation == "" {
		transportation = "PAKET"
	}

	apiReq := &PickupOrderRequest{
		CustomerDetails: CustomerDetails{BillingNumber: opts.BillingNumber},
		PickupLocation:  PickupLocation{Type: "Address", PickupAddress: &address},
		PickupDetails: PickupDetails{
			PickupDate: PickupDate{Type: "Date", Value: req.Date.Format("2006-01-02")},
			Comment:    req.Comment,
		},
	}
	if req.Date.IsZero() {
		apiReq.PickupDetails.PickupDate = PickupDate{Type: "ASAP"}
	}
	if req.TotalWeightKG > 0 {
		w := weightToAPI(req.TotalWeightKG)
		apiReq.PickupDetails.TotalWeight = &w
	}
	if len(req.ShipmentNumbers) > 0 {
		list := &ShipmentList{}
		for _, n := range req.ShipmentNumbers {
			list.Shipments = append(list.Shipments, PickupShipment{TransportationType: transportation, ShipmentNo: n})
		}
		apiReq.ShipmentDetails = list
	}
	if req.Contact.Name != "" {
		apiReq.ContactPerson = []PickupContact{{Name: req.Contact.Name, Phone: req.Contact.Phone, Email: req.Contact.Email}}
	}
	return apiReq
}

func pickupDetailsToShipper(d PickupOrderDetails) *shipper.PickupConfirmation {
	out := &shipper.PickupConfirmation{
		OrderID:      d.OrderID,
		FreeOfCharge: d.FreeOfCharge,
	}
	if t, err := time.Parse("2006-01-02", d.PickupDate); err == nil {
		out.PickupDate = &t
	}
	for _, s := range d.ConfirmedShipments {
		out.ConfirmedShipments = append(out.ConfirmedShipments, s.ShipmentNo)
	}
	return out
}
