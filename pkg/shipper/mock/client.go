// Package mock provides an in-memory shipper implementation for testing.
package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tournevent/carrierlink/pkg/shipper"
)

// Client is an in-memory carrier. Shipments it books can be tracked,
// relabelled and cancelled until the process exits.
type Client struct {
	name string

	mu        sync.Mutex
	shipments map[string]*shipment

	// Err, when set, is returned by every operation.
	Err error
}

type shipment struct {
	reference string
	cancelled bool
	created   time.Time
}

// New creates a new mock carrier.
func New(name string) *Client {
	return &Client{name: name, shipments: make(map[string]*shipment)}
}

var (
	_ shipper.Shipper = (*Client)(nil)
	_ shipper.Tracker = (*Client)(nil)
)

// Name returns the carrier name.
func (c *Client) Name() string {
	return c.name
}

// CreateShipment books a shipment and returns a fake PDF label.
func (c *Client) CreateShipment(_ context.Context, req *shipper.ShipmentRequest) (*shipper.ShipmentResponse, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	if len(req.Packages) == 0 {
		return nil, shipper.NewConfigError(c.name, "at least one package is required")
	}

	number := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])

	c.mu.Lock()
	c.shipments[number] = &shipment{reference: req.Reference, created: time.Now()}
	c.mu.Unlock()

	return &shipper.ShipmentResponse{
		ShipmentNumber: number,
		Reference:      req.Reference,
		RoutingCode:    req.Consignee.PostalCode,
		Label:          c.label(number, req.LabelFormat),
	}, nil
}

// CancelShipment marks a booked shipment as cancelled.
func (c *Client) CancelShipment(_ context.Context, shipmentNumber string) (*shipper.CancellationResult, error) {
	if c.Err != nil {
		return nil, c.Err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.shipments[shipmentNumber]
	if !ok {
		return nil, c.notFound(shipmentNumber)
	}
	if s.cancelled {
		return &shipper.CancellationResult{ShipmentNumber: shipmentNumber, Message: "already cancelled"}, nil
	}
	s.cancelled = true
	return &shipper.CancellationResult{ShipmentNumber: shipmentNumber, Cancelled: true, Message: "cancelled"}, nil
}

// GetLabel returns a fresh label for a booked shipment.
func (c *Client) GetLabel(_ context.Context, req *shipper.GetLabelRequest) (*shipper.GetLabelResponse, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	if !c.exists(req.ShipmentNumber) {
		return nil, c.notFound(req.ShipmentNumber)
	}
	return &shipper.GetLabelResponse{ShipmentNumber: req.ShipmentNumber, Label: c.label(req.ShipmentNumber, req.Format)}, nil
}

// Track reports booked shipments as pre-transit and cancelled ones as returned.
func (c *Client) Track(_ context.Context, trackingNumber string, _ *shipper.TrackOptions) (*shipper.TrackingResult, error) {
	if c.Err != nil {
		return nil, c.Err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.shipments[trackingNumber]
	if !ok {
		return nil, c.notFound(trackingNumber)
	}

	result := &shipper.TrackingResult{
		ShipmentNumber: trackingNumber,
		Carrier:        c.name,
		Status:         shipper.StatusPreTransit,
		Events: []shipper.TrackingEvent{
			{Timestamp: s.created, Description: "Shipment data received", StatusCode: "created"},
		},
	}
	if s.cancelled {
		result.Status = shipper.StatusReturned
		result.Events = append(result.Events, shipper.TrackingEvent{Timestamp: time.Now(), Description: "Shipment cancelled", StatusCode: "cancelled"})
	}
	return result, nil
}

func (c *Client) exists(number string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.shipments[number]
	return ok
}

func (c *Client) label(number string, format shipper.LabelFormat) shipper.Label {
	if format == "" {
		format = shipper.LabelPDF
	}
	data := fmt.Sprintf("%%PDF-1.4 %s %s", c.name, number)
	if format == shipper.LabelZPL {
		data = fmt.Sprintf("^XA^FO50,50^FD%s^FS^XZ", number)
	}
	return shipper.Label{Format: format, Data: []byte(data)}
}

func (c *Client) notFound(number string) error {
	return shipper.NewShipperError(c.name, "NOT_FOUND", "shipment "+number+" not found").
		WithStatusCode(404).
		WithCause(shipper.ErrShipmentNotFound)
}
