package dhl

import (
	"context"

	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultProfile is the business customer profile used when none is set.
const DefaultProfile = "STANDARD_GRUPPENPROFIL"

// ShipmentOptions are the DHL specific fields of a shipment request.
type ShipmentOptions struct {
	BillingNumber string // 14 digit EKP + procedure + participation
	Product       Product
	Profile       string
	CostCenter    string
	PrintFormat   string
	Services      *Services
}

// Carrier implements shipper.CarrierOptions.
func (ShipmentOptions) Carrier() string { return carrierName }

// Services are the value added services of a shipment.
type Services struct {
	PreferredNeighbour  string
	PreferredLocation   string
	PreferredDay        string
	VisualCheckOfAge    string // A16 or A18
	NamedPersonOnly     bool
	NoNeighbourDelivery bool
	GoGreenPlus         bool
	BulkyGoods          bool
	Endorsement         string
	AdditionalInsurance *shipper.Money
	CashOnDelivery      *shipper.Money
	IdentCheck          *IdentCheck
}

// ShippingClient creates, cancels and relabels Parcel DE shipments.
type ShippingClient struct {
	client
}

// NewShippingClient creates a shipping client.
// If cfg.UseMock is true, it uses a mock API client for testing.
func NewShippingClient(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) (*ShippingClient, error) {
	c, err := newClient(cfg, validateParcel, logger, tracer)
	if err != nil {
		return nil, err
	}
	return &ShippingClient{client: c}, nil
}

// NewShippingClientWithAPIClient creates a shipping client with a custom API client.
func NewShippingClientWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger) *ShippingClient {
	return &ShippingClient{client: newClientWithAPI(cfg, apiClient, logger)}
}

var _ shipper.Shipper = (*ShippingClient)(nil)

// CreateShipment creates a shipment with one package and returns its label.
func (c *ShippingClient) CreateShipment(ctx context.Context, req *shipper.ShipmentRequest) (*shipper.ShipmentResponse, error) {
	opts, err := shipmentOptions(req.Options)
	if err != nil {
		return nil, err
	}

	c.logger.Ctx(ctx).Info("Creating DHL shipment",
		zap.String("product", string(opts.Product)),
		zap.String("consignee_city", req.Consignee.City),
		zap.String("reference", req.Reference),
	)

	apiReq, query, err := shipmentRequestToAPI(req, opts)
	if err != nil {
		return nil, err
	}

	apiResp, err := c.apiClient.CreateOrders(ctx, apiReq, query)
	if err != nil {
		c.logger.Ctx(ctx).Error("DHL API error", zap.Error(err))
		return nil, err
	}

	return orderResponseToShipper(apiResp, req.LabelFormat)
}

// CancelShipment deletes a shipment that was not yet manifested.
func (c *ShippingClient) CancelShipment(ctx context.Context, shipmentNumber string) (*shipper.CancellationResult, error) {
	c.logger.Ctx(ctx).Info("Cancelling DHL shipment", zap.String("shipment_number", shipmentNumber))

	apiResp, err := c.apiClient.DeleteOrder(ctx, shipmentNumber, DefaultProfile)
	if err != nil {
		c.logger.Ctx(ctx).Error("DHL API error", zap.Error(err))
		return nil, err
	}

	for _, item := range apiResp.Items {
		if item.ShipmentNo != shipmentNumber {
			continue
		}
		return &shipper.CancellationResult{
			ShipmentNumber: shipmentNumber,
			Cancelled:      item.SStatus.StatusCode >= 200 && item.SStatus.StatusCode < 300,
			Message:        statusMessage(item.SStatus),
		}, nil
	}

	c.logger.Ctx(ctx).Warn("DHL cancel response has no item for shipment", zap.String("shipment_number", shipmentNumber))
	return nil, notFound("shipment", shipmentNumber)
}

// GetLabel fetches the label of an existing shipment.
func (c *ShippingClient) GetLabel(ctx context.Context, req *shipper.GetLabelRequest) (*shipper.GetLabelResponse, error) {
	c.logger.Ctx(ctx).Info("Getting DHL label",
		zap.String("shipment_number", req.ShipmentNumber),
		zap.String("format", string(req.Format)),
	)

	doc, ok := DocFormat(req.Format)
	if !ok {
		return nil, unsupported("label format %q", req.Format)
	}

	apiResp, err := c.apiClient.GetOrder(ctx, req.ShipmentNumber, OrderQuery{DocFormat: doc})
	if err != nil {
		c.logger.Ctx(ctx).Error("DHL API error", zap.Error(err))
		return nil, err
	}

	for _, item := range apiResp.Items {
		if item.ShipmentNo != req.ShipmentNumber || item.Label == nil {
			continue
		}
		label, err := documentToLabel(item.Label, formatOrPDF(req.Format))
		if err != nil {
			return nil, err
		}
		return &shipper.GetLabelResponse{ShipmentNumber: item.ShipmentNo, Label: *label}, nil
	}
	return nil, notFound("label for shipment", req.ShipmentNumber)
}

func shipmentOptions(o shipper.CarrierOptions) (ShipmentOptions, error) {
	switch v := o.(type) {
	case ShipmentOptions:
		return v, nil
	case *ShipmentOptions:
		if v != nil {
			return *v, nil
		}
	}
	return ShipmentOptions{}, unsupported("shipment options must be dhl.ShipmentOptions")
}

func shipmentRequestToAPI(req *shipper.ShipmentRequest, opts ShipmentOptions) (*OrderRequest, OrderQuery, error) {
	if len(req.Packages) != 1 {
		return nil, OrderQuery{}, unsupported("a DHL shipment carries exactly one package, got %d", len(req.Packages))
	}
	if opts.BillingNumber == "" {
		return nil, OrderQuery{}, shipper.NewConfigError(carrierName, "billing number is required")
	}

	product := opts.Product
	if product == "" {
		product = ProductPaket
	}
	code, ok := product.Code()
	if !ok {
		return nil, OrderQuery{}, unsupported("product %q", product)
	}

	doc, ok := DocFormat(req.LabelFormat)
	if !ok {
		return nil, OrderQuery{}, unsupported("label format %q", req.LabelFormat)
	}

	profile := opts.Profile
	if profile == "" {
		profile = DefaultProfile
	}

	pkg := req.Packages[0]
	shipment := OrderShipment{
		Product:       code,
		BillingNumber: opts.BillingNumber,
		RefNo:         req.Reference,
		ShipDate:      formatDate(req.ShipDate),
		CostCenter:    opts.CostCenter,
		Shipper:       addressToAPI(req.Shipper),
		Consignee:     addressToAPI(req.Consignee),
		Details: ShipmentDetails{
			Weight: weightToAPI(pkg.WeightKG),
			Dim:    dimensionsToAPI(pkg.Dimensions),
		},
		Services: servicesToAPI(opts.Services),
	}

	return &OrderRequest{Profile: profile, Shipments: []OrderShipment{shipment}},
		OrderQuery{DocFormat: doc, PrintFormat: opts.PrintFormat},
		nil
}

func servicesToAPI(s *Services) *VAS {
	if s == nil {
		return nil
	}
	vas := &VAS{
		PreferredNeighbour:  s.PreferredNeighbour,
		PreferredLocation:   s.PreferredLocation,
		PreferredDay:        s.PreferredDay,
		VisualCheckOfAge:    s.VisualCheckOfAge,
		NamedPersonOnly:     s.NamedPersonOnly,
		NoNeighbourDelivery: s.NoNeighbourDelivery,
		GoGreenPlus:         s.GoGreenPlus,
		BulkyGoods:          s.BulkyGoods,
		Endorsement:         s.Endorsement,
		AdditionalInsurance: moneyToAPI(s.AdditionalInsurance),
		IdentCheck:          s.IdentCheck,
	}
	if s.CashOnDelivery != nil {
		vas.CashOnDelivery = &CashOnDelivery{Amount: *moneyToAPI(s.CashOnDelivery)}
	}
	return vas
}

func orderResponseToShipper(resp *OrderResponse, requested shipper.LabelFormat) (*shipper.ShipmentResponse, error) {
	if len(resp.Items) == 0 {
		return nil, shipper.NewShipperError(carrierName, shipper.CodeDeserialization, "response contains no shipment")
	}
	item := resp.Items[0]

	out := &shipper.ShipmentResponse{
		ShipmentNumber:     item.ShipmentNo,
		RoutingCode:        item.RoutingCode,
		Reference:          item.ShipmentRefNo,
		ValidationMessages: validationMessagesToShipper(item.ValidationMessages),
	}

	label, err := documentToLabel(item.Label, formatOrPDF(requested))
	if err != nil {
		return nil, err
	}
	if label != nil {
		out.Label = *label
	}
	return out, nil
}

func formatOrPDF(f shipper.LabelFormat) shipper.LabelFormat {
	if f == "" {
		return shipper.LabelPDF
	}
	return f
}

func statusMessage(s Status) string {
	if s.Detail != "" {
		return s.Detail
	}
	return s.Title
}
