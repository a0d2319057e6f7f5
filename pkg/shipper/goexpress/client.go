package goexpress

import (
	"context"
	"fmt"
	"time"

	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Default pickup window used when the request carries none.
const (
	DefaultPickupFrom = "09:00"
	DefaultPickupTill = "17:00"
)

// TimeWindow is a date with a local "HH:MM" time range.
type TimeWindow struct {
	Date time.Time
	From string
	Till string
}

// ShipmentOptions are the GO! Express specific fields of a shipment request.
type ShipmentOptions struct {
	Service        ServiceType
	Pickup         *TimeWindow
	Delivery       *TimeWindow
	Content        string
	CostCenter     string
	IdentCheck     bool
	ReceiptNotice  bool
	SelfPickup     bool
	SelfDelivery   bool
	FreightCollect bool
	CashOnDelivery *shipper.Money
	Insurance      *shipper.Money
}

// Carrier implements shipper.CarrierOptions.
func (ShipmentOptions) Carrier() string { return carrierName }

// Client implements shipper.Shipper and shipper.Tracker for GO! Express.
// It delegates API calls to the underlying APIClient (mock or HTTP).
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	now       func() time.Time
}

// New creates a new GO! Express client.
// The configuration is validated before any request is made.
// If cfg.UseMock is true, it uses a mock API client for testing.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) (*Client, error) {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	if !cfg.UseMock {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	var apiClient APIClient
	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(cfg, logger, tracer)
	}
	return NewWithAPIClient(cfg, apiClient, logger), nil
}

// NewWithAPIClient creates a new GO! Express client with a custom API client.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger) *Client {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	return &Client{config: cfg, apiClient: apiClient, logger: logger, now: time.Now}
}

var (
	_ shipper.Shipper = (*Client)(nil)
	_ shipper.Tracker = (*Client)(nil)
)

// Name returns the carrier name.
func (c *Client) Name() string {
	return carrierName
}

// CreateShipment books and releases an order. All packages travel under one HWB number.
func (c *Client) CreateShipment(ctx context.Context, req *shipper.ShipmentRequest) (*shipper.ShipmentResponse, error) {
	opts, err := shipmentOptions(req.Options)
	if err != nil {
		return nil, err
	}

	c.logger.Ctx(ctx).Info("Creating GO! Express order",
		zap.String("service", string(opts.Service)),
		zap.String("consignee_city", req.Consignee.City),
		zap.Int("packages", len(req.Packages)),
		zap.String("reference", req.Reference),
	)

	apiReq, err := c.orderRequestToAPI(req, opts)
	if err != nil {
		return nil, err
	}

	apiResp, err := c.apiClient.CreateOrder(ctx, apiReq)
	if err != nil {
		c.logger.Ctx(ctx).Error("GO! Express API error", zap.Error(err))
		return nil, err
	}

	resp := &shipper.ShipmentResponse{
		ShipmentNumber: apiResp.HWBNumber,
		Reference:      req.Reference,
		Label:          shipper.Label{Format: formatOrPDF(req.LabelFormat)},
	}
	if apiResp.Label != "" {
		label, err := decodeLabel(apiResp.Label, req.LabelFormat)
		if err != nil {
			return nil, err
		}
		resp.Label = *label
	}
	return resp, nil
}

// CancelShipment sets the order status to cancelled.
func (c *Client) CancelShipment(ctx context.Context, shipmentNumber string) (*shipper.CancellationResult, error) {
	c.logger.Ctx(ctx).Info("Cancelling GO! Express order", zap.String("shipment_number", shipmentNumber))

	apiResp, err := c.apiClient.UpdateOrderStatus(ctx, &StatusUpdateRequest{
		HWBNumber:   shipmentNumber,
		OrderStatus: OrderStatusCancelled,
	})
	if err != nil {
		c.logger.Ctx(ctx).Error("GO! Express API error", zap.Error(err))
		return nil, err
	}

	return &shipper.CancellationResult{
		ShipmentNumber: shipmentNumber,
		Cancelled:      apiResp.OrderStatus == OrderStatusCancelled,
		Message:        fmt.Sprintf("order status %s", apiResp.OrderStatus),
	}, nil
}

// GetLabel fetches the label of an existing order.
func (c *Client) GetLabel(ctx context.Context, req *shipper.GetLabelRequest) (*shipper.GetLabelResponse, error) {
	c.logger.Ctx(ctx).Info("Getting GO! Express label",
		zap.String("shipment_number", req.ShipmentNumber),
		zap.String("format", string(req.Format)),
	)

	code, ok := LabelCode(req.Format)
	if !ok {
		return nil, unsupported("label format %q", req.Format)
	}

	apiResp, err := c.apiClient.GetLabel(ctx, &LabelRequest{HWBNumber: req.ShipmentNumber, Label: code})
	if err != nil {
		c.logger.Ctx(ctx).Error("GO! Express API error", zap.Error(err))
		return nil, err
	}
	if apiResp.Label == "" {
		return nil, notFound("label for order", req.ShipmentNumber)
	}

	label, err := decodeLabel(apiResp.Label, req.Format)
	if err != nil {
		return nil, err
	}
	return &shipper.GetLabelResponse{ShipmentNumber: req.ShipmentNumber, Label: *label}, nil
}

// Track returns the status history of an order. Options are ignored.
func (c *Client) Track(ctx context.Context, trackingNumber string, _ *shipper.TrackOptions) (*shipper.TrackingResult, error) {
	c.logger.Ctx(ctx).Info("Tracking GO! Express order", zap.String("tracking_number", trackingNumber))

	apiResp, err := c.apiClient.GetStatus(ctx, &StatusRequest{HWBNumber: trackingNumber})
	if err != nil {
		c.logger.Ctx(ctx).Error("GO! Express API error", zap.Error(err))
		return nil, err
	}
	if apiResp.HWBNumber == "" && len(apiResp.History) == 0 {
		return nil, notFound("order", trackingNumber)
	}

	events := make([]shipper.TrackingEvent, 0, len(apiResp.History))
	for _, e := range apiResp.History {
		events = append(events, statusEntryToEvent(e))
	}

	number := apiResp.HWBNumber
	if number == "" {
		number = trackingNumber
	}
	return &shipper.TrackingResult{
		ShipmentNumber:    number,
		Carrier:           carrierName,
		Status:            TrackingStatus(apiResp.Status.StatusCode),
		Events:            events,
		EstimatedDelivery: parseDate(apiResp.EstimatedDelivery),
	}, nil
}

func shipmentOptions(o shipper.CarrierOptions) (ShipmentOptions, error) {
	switch v := o.(type) {
	case nil:
		return ShipmentOptions{}, nil
	case ShipmentOptions:
		return v, nil
	case *ShipmentOptions:
		if v != nil {
			return *v, nil
		}
		return ShipmentOptions{}, nil
	}
	return ShipmentOptions{}, unsupported("shipment options must be goexpress.ShipmentOptions")
}

func (c *Client) orderRequestToAPI(req *shipper.ShipmentRequest, opts ShipmentOptions) (*OrderRequest, error) {
	if len(req.Packages) == 0 {
		return nil, unsupported("a GO! Express order needs at least one package")
	}

	service := opts.Service
	if service == "" {
		service = ServiceOvernight
	}
	serviceCode, ok := service.Code()
	if !ok {
		return nil, unsupported("service %q", service)
	}

	labelCode, ok := LabelCode(req.LabelFormat)
	if !ok {
		return nil, unsupported("label format %q", req.LabelFormat)
	}

	pickup := opts.Pickup
	if pickup == nil {
		date := c.now()
		if req.ShipDate != nil {
			date = *req.ShipDate
		}
		pickup = &TimeWindow{Date: date, From: DefaultPickupFrom, Till: DefaultPickupTill}
	}

	packages, weight := packagesToAPI(req.Packages)

	return &OrderRequest{
		ResponsibleStation: c.config.ResponsibleStation,
		CustomerID:         c.config.CustomerID,
		Shipment: Shipment{
			OrderStatus:       OrderStatusReleased,
			Service:           serviceCode,
			Weight:            decimal(weight),
			PackageCount:      fmt.Sprint(len(packages)),
			Content:           opts.Content,
			CustomerReference: req.Reference,
			CostCenter:        opts.CostCenter,
			SelfPickup:        flag(opts.SelfPickup),
			SelfDelivery:      flag(opts.SelfDelivery),
			FreightCollect:    flag(opts.FreightCollect),
			IdentCheck:        flag(opts.IdentCheck),
			ReceiptNotice:     flag(opts.ReceiptNotice),
			Pickup:            *timeFrameToAPI(pickup),
			Delivery:          timeFrameToAPI(opts.Delivery),
			Insurance:         amountToAPI(opts.Insurance),
			CashOnDelivery:    amountToAPI(opts.CashOnDelivery),
		},
		ConsignorAddress: addressToAPI(req.Shipper),
		ConsigneeAddress: addressToAPI(req.Consignee),
		Label:            labelCode,
		Packages:         packages,
	}, nil
}

func formatOrPDF(f shipper.LabelFormat) shipper.LabelFormat {
	if f == "" {
		return shipper.LabelPDF
	}
	return f
}

func notFound(what, id string) error {
	return shipper.NewShipperError(carrierName, "NOT_FOUND", what+" "+id+" not found").WithCause(shipper.ErrShipmentNotFound)
}
