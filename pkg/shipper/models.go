package shipper

import (
	"time"
)

// TrackingStatus represents the normalized status of a tracked shipment.
type TrackingStatus string

const (
	StatusUnknown        TrackingStatus = "unknown"
	StatusPreTransit     TrackingStatus = "pre_transit"
	StatusInTransit      TrackingStatus = "in_transit"
	StatusOutForDelivery TrackingStatus = "out_for_delivery"
	StatusDelivered      TrackingStatus = "delivered"
	StatusReturned       TrackingStatus = "returned"
)

// TrackingStatuses lists every TrackingStatus value.
func TrackingStatuses() []TrackingStatus {
	return []TrackingStatus{
		StatusUnknown,
		StatusPreTransit,
		StatusInTransit,
		StatusOutForDelivery,
		StatusDelivered,
		StatusReturned,
	}
}

// LabelFormat represents the format of shipping labels.
type LabelFormat string

const (
	LabelPDF LabelFormat = "pdf"
	LabelZPL LabelFormat = "zpl"
)

// LabelFormats lists every LabelFormat value.
func LabelFormats() []LabelFormat {
	return []LabelFormat{LabelPDF, LabelZPL}
}

// Severity of a carrier validation message.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// LocationType classifies a carrier location.
type LocationType string

const (
	LocationServicePoint LocationType = "service_point"
	LocationLocker       LocationType = "locker"
	LocationPostOffice   LocationType = "post_office"
	LocationPostBank     LocationType = "post_bank"
)

// LocationTypes lists every LocationType value.
func LocationTypes() []LocationType {
	return []LocationType{
		LocationServicePoint,
		LocationLocker,
		LocationPostOffice,
		LocationPostBank,
	}
}

// Address represents a shipping address.
// CountryCode is passed to the carrier untouched; the carrier validates it.
type Address struct {
	Name        string
	Name2       string
	Street      string
	HouseNumber string
	PostalCode  string
	City        string
	CountryCode string // ISO 3166-1
	State       string
	Phone       string
	Email       string
}

// Dimensions of a package in centimetres.
type Dimensions struct {
	LengthCM float64
	WidthCM  float64
	HeightCM float64
}

// Package represents a package to be shipped.
type Package struct {
	WeightKG   float64
	Dimensions *Dimensions
}

// Money represents a monetary amount.
type Money struct {
	Amount   float64
	Currency string
}

// Contact is a person the carrier can reach.
type Contact struct {
	Name  string
	Phone string
	Email string
}

// CarrierOptions carries carrier-only request fields.
// Each carrier package defines its own implementation.
type CarrierOptions interface {
	// Carrier returns the name of the carrier the options belong to.
	Carrier() string
}

// Label represents a shipping label document.
type Label struct {
	Format LabelFormat
	Data   []byte
	URL    string
}

// ValidationMessage is a non-fatal or fatal remark returned by the carrier.
type ValidationMessage struct {
	Property string
	Message  string
	Severity Severity
}

// TrackingEvent represents a tracking event.
type TrackingEvent struct {
	Timestamp   time.Time
	Location    string
	Description string
	StatusCode  string
}

// ============================================================================
// Request/Response Types
// ============================================================================

// ShipmentRequest is the request for booking a shipment.
// Packages are sent exactly as supplied.
type ShipmentRequest struct {
	Shipper     Address
	Consignee   Address
	Packages    []Package
	Reference   string
	ShipDate    *time.Time
	LabelFormat LabelFormat
	Options     CarrierOptions
}

// ShipmentResponse is the response from booking a shipment.
type ShipmentResponse struct {
	ShipmentNumber     string
	Label              Label
	RoutingCode        string
	Reference          string
	ValidationMessages []ValidationMessage
}

// CancellationResult is the response from cancelling a shipment.
type CancellationResult struct {
	ShipmentNumber string
	Cancelled      bool
	Message        string
}

// GetLabelRequest is the request for the label of an existing shipment.
type GetLabelRequest struct {
	ShipmentNumber string
	Format         LabelFormat
}

// GetLabelResponse is the response from getting a shipping label.
type GetLabelResponse struct {
	ShipmentNumber string
	Label          Label
}

// TrackOptions narrows a tracking lookup.
type TrackOptions struct {
	Language            string
	Service             string
	RecipientPostalCode string
	OriginCountryCode   string
}

// TrackingResult is the response from tracking a shipment.
// Events keep the order in which the carrier returned them.
type TrackingResult struct {
	ShipmentNumber    string
	Carrier           string
	Status            TrackingStatus
	Events            []TrackingEvent
	EstimatedDelivery *time.Time
}

// PickupRequest orders a courier pickup.
type PickupRequest struct {
	Address         Address
	Contact         Contact
	Date            time.Time
	ShipmentNumbers []string
	TotalWeightKG   float64
	Comment         string
	Options         CarrierOptions
}

// PickupConfirmation describes a booked pickup.
type PickupConfirmation struct {
	OrderID            string
	PickupDate         *time.Time
	FreeOfCharge       bool
	ConfirmedShipments []string
}

// PickupCancellation is the response from cancelling a pickup.
type PickupCancellation struct {
	OrderID   string
	Cancelled bool
	State     string
}

// ReturnRequest asks for a return label.
type ReturnRequest struct {
	Sender      Address
	ReceiverID  string
	Reference   string
	WeightKG    float64
	Value       *Money
	LabelFormat LabelFormat
}

// ReturnResponse carries the return label.
type ReturnResponse struct {
	ShipmentNumber              string
	InternationalShipmentNumber string
	Label                       Label
	QRLabel                     *Label
	RoutingCode                 string
}

// LocationQuery searches locations around an address.
type LocationQuery struct {
	CountryCode  string
	PostalCode   string
	City         string
	Street       string
	RadiusMeters int
	Limit        int
	Types        []LocationType
}

// OpeningHours of a location for one weekday.
type OpeningHours struct {
	Day    string
	Opens  string
	Closes string
}

// Location is a carrier drop-off or pickup point.
type Location struct {
	ID             string
	Name           string
	Type           LocationType
	Address        Address
	DistanceMeters int
	Latitude       float64
	Longitude      float64
	OpeningHours   []OpeningHours
}

// StampItem is one stamp in a postage order.
type StampItem struct {
	ProductCode int
	Price       Money
	Sender      *Address
	Receiver    *Address
}

// StampOrderRequest buys one or more stamps.
type StampOrderRequest struct {
	Items        []StampItem
	PageFormatID int
}

// Voucher is a bought stamp.
type Voucher struct {
	ID      string
	TrackID string
}

// StampOrder is the result of a stamp purchase.
type StampOrder struct {
	ShopOrderID   string
	LabelURL      string
	Vouchers      []Voucher
	WalletBalance Money
}

// StampRefund is the result of refunding stamps.
type StampRefund struct {
	RetoureID     string
	ShopRetoureID string
}
