package goexpress

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/tournevent/carrierlink/pkg/shipper"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnCreateOrder       func(ctx context.Context, req *OrderRequest) (*OrderResponse, error)
	OnUpdateOrderStatus func(ctx context.Context, req *StatusUpdateRequest) (*StatusUpdateResponse, error)
	OnGetLabel          func(ctx context.Context, req *LabelRequest) (*LabelResponse, error)
	OnGetStatus         func(ctx context.Context, req *StatusRequest) (*StatusResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

var _ APIClient = (*MockAPIClient)(nil)

var mockLabel = base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 GO! mock label"))

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

// CreateOrder returns a released order with a PDF label.
func (m *MockAPIClient) CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	if m.OnCreateOrder != nil {
		return m.OnCreateOrder(ctx, req)
	}

	resp := &OrderResponse{
		HWBNumber:   fmt.Sprintf("4%011d", time.Now().UnixNano()%100_000_000_000),
		OrderStatus: req.Shipment.OrderStatus,
		PickupDate:  req.Shipment.Pickup.Date,
		Label:       mockLabel,
	}
	for i := range req.Packages {
		resp.Packages = append(resp.Packages, PackageResult{Barcode: fmt.Sprintf("%s%02d", resp.HWBNumber, i+1)})
	}
	return resp, nil
}

// UpdateOrderStatus accepts any transition.
func (m *MockAPIClient) UpdateOrderStatus(ctx context.Context, req *StatusUpdateRequest) (*StatusUpdateResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	if m.OnUpdateOrderStatus != nil {
		return m.OnUpdateOrderStatus(ctx, req)
	}
	return &StatusUpdateResponse{HWBNumber: req.HWBNumber, OrderStatus: req.OrderStatus}, nil
}

// GetLabel returns a PDF label.
func (m *MockAPIClient) GetLabel(ctx context.Context, req *LabelRequest) (*LabelResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	if m.OnGetLabel != nil {
		return m.OnGetLabel(ctx, req)
	}
	return &LabelResponse{HWBNumber: req.HWBNumber, Label: mockLabel}, nil
}

// GetStatus returns an order that is on its way.
func (m *MockAPIClient) GetStatus(ctx context.Context, req *StatusRequest) (*StatusResponse, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}
	if m.OnGetStatus != nil {
		return m.OnGetStatus(ctx, req)
	}

	today := time.Now().Format("2006-01-02")
	return &StatusResponse{
		HWBNumber: req.HWBNumber,
		Status:    StatusEntry{StatusCode: "GO40", StatusName: "In transit"},
		History: []StatusEntry{
			{StatusCode: "GO10", StatusName: "Order received", Date: today, Time: "08:00", Location: "FRA"},
			{StatusCode: "GO20", StatusName: "Picked up", Date: today, Time: "10:30", Location: "FRA"},
			{StatusCode: "GO40", StatusName: "In transit", Date: today, Time: "18:45", Location: "HUB"},
		},
		EstimatedDelivery: time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
	}, nil
}
