// Package shipper provides an abstraction layer for shipping carriers.
package shipper

import (
	"context"
)

// Carrier is anything registered under a carrier name.
type Carrier interface {
	// Name returns the carrier identifier (e.g., "dhl", "goexpress").
	Name() string
}

// Shipper defines the shipping capability of a carrier.
type Shipper interface {
	Carrier

	// CreateShipment books a shipment and returns its number and label.
	CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentResponse, error)

	// CancelShipment cancels a booked shipment.
	CancelShipment(ctx context.Context, shipmentNumber string) (*CancellationResult, error)

	// GetLabel (re)generates the label of an existing shipment.
	GetLabel(ctx context.Context, req *GetLabelRequest) (*GetLabelResponse, error)
}

// Tracker defines the tracking capability of a carrier.
type Tracker interface {
	Carrier

	// Track returns the current status and event history of a shipment.
	Track(ctx context.Context, trackingNumber string, opts *TrackOptions) (*TrackingResult, error)
}

// PickupScheduler orders, reads and cancels courier pickups.
type PickupScheduler interface {
	Carrier

	SchedulePickup(ctx context.Context, req *PickupRequest) (*PickupConfirmation, error)
	GetPickup(ctx context.Context, orderID string) (*PickupConfirmation, error)
	CancelPickup(ctx context.Context, orderID string) (*PickupCancellation, error)
}

// ReturnsProvider creates return labels.
type ReturnsProvider interface {
	Carrier

	CreateReturn(ctx context.Context, req *ReturnRequest) (*ReturnResponse, error)
}

// LocationFinder searches drop-off and pickup locations.
type LocationFinder interface {
	Carrier

	FindLocations(ctx context.Context, q *LocationQuery) ([]Location, error)
	GetLocation(ctx context.Context, id string) (*Location, error)
}

// PostageProvider buys and refunds online postage stamps.
type PostageProvider interface {
	Carrier

	BuyStamps(ctx context.Context, req *StampOrderRequest) (*StampOrder, error)
	RefundStamps(ctx context.Context, shopOrderID string, voucherIDs []string) (*StampRefund, error)
}
