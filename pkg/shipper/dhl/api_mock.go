package dhl

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tournevent/carrierlink/pkg/shipper"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnCreateOrders     func(ctx context.Context, req *OrderRequest, query OrderQuery) (*OrderResponse, error)
	OnGetOrder         func(ctx context.Context, shipmentNo string, query OrderQuery) (*OrderResponse, error)
	OnDeleteOrder      func(ctx context.Context, shipmentNo, profile string) (*OrderResponse, error)
	OnTrack            func(ctx context.Context, query TrackingQuery) (*TrackingResponse, error)
	OnCreatePickup     func(ctx context.Context, req *PickupOrderRequest) (*PickupOrderResponse, error)
	OnGetPickup        func(ctx context.Context, orderID string) ([]PickupOrderDetails, error)
	OnCancelPickup     func(ctx context.Context, orderID string) (*PickupCancelResponse, error)
	OnCreateReturn     func(ctx context.Context, req *ReturnOrderRequest, labelType string) (*ReturnOrderResponse, error)
	OnFindLocations    func(ctx context.Context, query LocationSearch) (*LocationList, error)
	OnGetLocation      func(ctx context.Context, id string) (*APILocation, error)
	OnInitShoppingCart func(ctx context.Context) (*CartInitResponse, error)
	OnCheckoutPDF      func(ctx context.Context, req *CartPDFRequest) (*CartPDFResponse, error)
	OnRetoure          func(ctx context.Context, req *RetoureRequest) (*RetoureResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

var _ APIClient = (*MockAPIClient)(nil)

func (m *MockAPIClient) simulate(ctx context.Context) error {
	if m.SimulateLatency > 0 {
		timer := time.NewTimer(m.SimulateLatency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	if m.SimulateErrors {
		return shipper.NewShipperError(carrierName, "MOCK_ERROR", "Simulated API error").WithStatusCode(500)
	}
	return nil
}

var mockPDF = base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 mock label"))

func mockShipmentNo() string {
	return fmt.Sprintf("00340434%012d", time.Now().UnixNano()%1_000_000_000_000)
}

// CreateOrders returns one successful item per requested shipment.
func (m *MockAPIClient) CreateOrders(ctx context.Context, req *OrderRequest, query OrderQuery) (*OrderResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	if m.OnCreateOrders != nil {
		return m.OnCreateOrders(ctx, req, query)
	}

	resp := &OrderResponse{Status: Status{Title: "OK", StatusCode: 200}}
	for _, s := range req.Shipments {
		resp.Items = append(resp.Items, OrderItem{
			ShipmentNo:    mockShipmentNo(),
			ShipmentRefNo: s.RefNo,
			RoutingCode:   "40327653113+99000933090010",
			SStatus:       Status{Title: "OK", StatusCode: 200},
			Label:         &Document{B64: mockPDF, FileFormat: query.DocFormat},
		})
	}
	return resp, nil
}

// GetOrder returns a label for any shipment.
func (m *MockAPIClient) GetOrder(ctx context.Context, shipmentNo string, query OrderQuery) (*OrderResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	if m.OnGetOrder != nil {
		return m.OnGetOrder(ctx, shipmentNo, query)
	}
	return &OrderResponse{
		Status: Status{Title: "OK", StatusCode: 200},
		Items: []OrderItem{{
			ShipmentNo: shipmentNo,
			SStatus:    Status{Title: "OK", StatusCode: 200},
			Label:      &Document{B64: mockPDF, FileFormat: query.DocFormat},
		}},
	}, nil
}

// DeleteOrder confirms the cancellation.
func (m *MockAPIClient) DeleteOrder(ctx context.Context, shipmentNo, profile string) (*OrderResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	if m.OnDeleteOrder != nil {
		return m.OnDeleteOrder(ctx, shipmentNo, profile)
	}
	return &OrderResponse{
		Status: Status{Title: "OK", StatusCode: 200},
		Items:  []OrderItem{{ShipmentNo: shipmentNo, SStatus: Status{Title: "OK", StatusCode: 200}}},
	}, nil
}

// Track returns an in-transit shipment with two events, newest first.
func (m *MockAPIClient) Track(ctx context.Context, query TrackingQuery) (*TrackingResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	if m.OnTrack != nil {
		return m.OnTrack(ctx, query)
	}

	now := time.Now().UTC()
	latest := TrackingEvent{
		Timestamp:   now.Add(-2 * time.Hour).Format(time.RFC3339),
		StatusCode:  "transit",
		Status:      "In transit",
		Description: "The shipment has been processed in the parcel center",
	}
	return &TrackingResponse{Shipments: []TrackedShipment{{
		ID:                      query.TrackingNumber,
		Service:                 "parcel-de",
		Status:                  latest,
		EstimatedTimeOfDelivery: now.AddDate(0, 0, 1).Format(time.RFC3339),
		Events: []TrackingEvent{
			latest,
			{
				Timestamp:   now.Add(-20 * time.Hour).Format(time.RFC3339),
				StatusCode:  "pre-transit",
				Description: "The shipment data has been transmitted to DHL",
			},
		},
	}}}, nil
}

// CreatePickup confirms a free pickup on the requested date.
func (m *MockAPIClient) CreatePickup(ctx context.Context, req *PickupOrderRequest) (*PickupOrderResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	if m.OnCreatePickup != nil {
		return m.OnCreatePickup(ctx, req)
	}

	resp := &PickupOrderResponse{}
	resp.Confirmation.Type = "ORDER"
	resp.Confirmation.Value = PickupOrderDetails{
		OrderID:      "P" + uuid.New().String()[:8],
		PickupDate:   req.PickupDetails.PickupDate.Value,
		FreeOfCharge: true,
	}
	if req.ShipmentDetails != nil {
		resp.Confirmation.Value.ConfirmedShipments = req.ShipmentDetails.Shipments
	}
	return resp, nil
}

// GetPickup returns an accepted order.
func (m *MockAPIClient) GetPickup(ctx context.Context, orderID string) ([]PickupOrderDetails, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	if m.OnGetPickup != nil {
		return m.OnGetPickup(ctx, orderID)
	}
	return []PickupOrderDetails{{
		OrderID:      orderID,
		OrderState:   "ACCEPTED",
		PickupDate:   time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		FreeOfCharge: true,
	}}, nil
}

// CancelPickup confirms the cancellation.
func (m *MockAPIClient) CancelPickup(ctx context.Context, orderID string) (*PickupCancelResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	if m.OnCancelPickup != nil {
		return m.OnCancelPickup(ctx, orderID)
	}
	return &PickupCancelResponse{
		ConfirmedCancellations: []PickupCancelState{{OrderID: orderID, OrderState: "CANCELLED"}},
	}, nil
}

// CreateReturn returns a shipment label and a QR label.
func (m *MockAPIClient) CreateReturn(ctx context.Context, req *ReturnOrderRequest, labelType string) (*ReturnOrderResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	if m.OnCreateReturn != nil {
		return m.OnCreateReturn(ctx, req, labelType)
	}
	return &ReturnOrderResponse{
		SStatus:    Status{Title: "Created", StatusCode: 201},
		ShipmentNo: mockShipmentNo(),
		Label:      &Document{B64: mockPDF, FileFormat: "PDF"},
		QRLabel:    &Document{B64: base64.StdEncoding.EncodeToString([]byte("png")), FileFormat: "PNG"},
	}, nil
}

// FindLocations returns one locker.
func (m *MockAPIClient) FindLocations(ctx context.Context, query LocationSearch) (*LocationList, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	if m.OnFindLocations != nil {
		return m.OnFindLocations(ctx, query)
	}
	loc := mockLocation("8003-4103183")
	return &LocationList{Locations: []APILocation{*loc}}, nil
}

// GetLocation returns a locker with the given id.
func (m *MockAPIClient) GetLocation(ctx context.Context, id string) (*APILocation, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	if m.OnGetLocation != nil {
		return m.OnGetLocation(ctx, id)
	}
	return mockLocation(id), nil
}

func mockLocation(id string) *APILocation {
	loc := &APILocation{URL: "/locations/" + id, Name: "Packstation 183", Distance: 250}
	loc.Location.IDs = []LocationID{{LocationID: id, Provider: "parcel"}}
	loc.Location.Type = "locker"
	loc.Place.Address.CountryCode = "DE"
	loc.Place.Address.PostalCode = "53113"
	loc.Place.Address.AddressLocality = "Bonn"
	loc.Place.Address.StreetAddress = "Charles-de-Gaulle-Str. 20"
	loc.Place.Geo.Latitude = 50.7128
	loc.Place.Geo.Longitude = 7.1281
	loc.OpeningHours = []OpeningHoursSpec{{Opens: "00:00:00", Closes: "23:59:00", DayOfWeek: "http://schema.org/Monday"}}
	return loc
}

// InitShoppingCart returns a fresh shop order id.
func (m *MockAPIClient) InitShoppingCart(ctx context.Context) (*CartInitResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	if m.OnInitShoppingCart != nil {
		return m.OnInitShoppingCart(ctx)
	}
	return &CartInitResponse{ShopOrderID: fmt.Sprintf("%d", time.Now().Unix())}, nil
}

// CheckoutPDF issues one voucher per position.
func (m *MockAPIClient) CheckoutPDF(ctx context.Context, req *CartPDFRequest) (*CartPDFResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	if m.OnCheckoutPDF != nil {
		return m.OnCheckoutPDF(ctx, req)
	}

	resp := &CartPDFResponse{Link: "https://internetmarke.example/pdf/" + req.ShopOrderID, WalletBalance: 10000 - req.Total}
	resp.ShoppingCart.ShopOrderID = req.ShopOrderID
	for range req.Positions {
		resp.ShoppingCart.VoucherList = append(resp.ShoppingCart.VoucherList, CartVoucher{VoucherID: "A0" + uuid.New().String()[:10]})
	}
	return resp, nil
}

// Retoure confirms a refund.
func (m *MockAPIClient) Retoure(ctx context.Context, req *RetoureRequest) (*RetoureResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	if m.OnRetoure != nil {
		return m.OnRetoure(ctx, req)
	}
	return &RetoureResponse{ShopRetoureID: "R" + req.ShopOrderID, RetoureTransactionID: 1}, nil
}
