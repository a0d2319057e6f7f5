package goexpress

import "context"

// APIClient defines the interface for GO! Express API operations.
// This allows swapping between real HTTP calls and mock implementations.
type APIClient interface {
	CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error)
	UpdateOrderStatus(ctx context.Context, req *StatusUpdateRequest) (*StatusUpdateResponse, error)
	GetLabel(ctx context.Context, req *LabelRequest) (*LabelResponse, error)
	GetStatus(ctx context.Context, req *StatusRequest) (*StatusResponse, error)
}

// Order states accepted by updateOrderStatus.
const (
	OrderStatusNew       = "New"
	OrderStatusReleased  = "Released"
	OrderStatusCancelled = "Cancelled"
)

// OrderRequest is the request body for /createOrder.
// GO! encodes every number as a decimal string.
type OrderRequest struct {
	ResponsibleStation string        `json:"responsibleStation"`
	CustomerID         string        `json:"customerId"`
	Shipment           Shipment      `json:"shipment"`
	ConsignorAddress   Address       `json:"consignorAddress"`
	ConsigneeAddress   Address       `json:"consigneeAddress"`
	Label              string        `json:"label"`
	Packages           []PackageSpec `json:"packages"`
}

// Shipment holds the service and handling details of an order.
type Shipment struct {
	HWBNumber         string     `json:"hwbNumber,omitempty"`
	OrderStatus       string     `json:"orderStatus"`
	Service           string     `json:"service"`
	Weight            string     `json:"weight"` // kg
	PackageCount      string     `json:"packageCount"`
	Content           string     `json:"content,omitempty"`
	CustomerReference string     `json:"customerReference,omitempty"`
	CostCenter        string     `json:"costCenter,omitempty"`
	SelfPickup        string     `json:"selfPickup,omitempty"`
	SelfDelivery      string     `json:"selfDelivery,omitempty"`
	FreightCollect    string     `json:"freightCollect,omitempty"`
	IdentCheck        string     `json:"identCheck,omitempty"`
	ReceiptNotice     string     `json:"receiptNotice,omitempty"`
	Pickup            TimeFrame  `json:"pickup"`
	Delivery          *TimeFrame `json:"delivery,omitempty"`
	Insurance         *Amount    `json:"insurance,omitempty"`
	CashOnDelivery    *Amount    `json:"cashOnDelivery,omitempty"`
}

// TimeFrame is a date with a time window, "HH:MM".
type TimeFrame struct {
	Date     string `json:"date"`
	TimeFrom string `json:"timeFrom,omitempty"`
	TimeTill string `json:"timeTill,omitempty"`
}

// Amount is a monetary value.
type Amount struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// Address is a GO! address.
type Address struct {
	Name1       string `json:"name1"`
	Name2       string `json:"name2,omitempty"`
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber,omitempty"`
	ZipCode     string `json:"zipCode"`
	City        string `json:"city"`
	Country     string `json:"country"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Email       string `json:"email,omitempty"`
}

// PackageSpec holds the dimensions of one package in cm.
type PackageSpec struct {
	Length string `json:"length,omitempty"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
}

// OrderResponse is the response of /createOrder.
type OrderResponse struct {
	HWBNumber    string          `json:"hwbNumber"`
	OrderStatus  string          `json:"orderStatus"`
	PickupDate   string          `json:"pickupDate,omitempty"`
	DeliveryDate string          `json:"deliveryDate,omitempty"`
	Label        string          `json:"hwbOrPackageLabel,omitempty"` // base64
	Packages     []PackageResult `json:"package,omitempty"`
}

// PackageResult carries the barcode assigned to a package.
type PackageResult struct {
	Barcode string `json:"barcode"`
}

// StatusUpdateRequest is the request body for /updateOrderStatus.
type StatusUpdateRequest struct {
	HWBNumber   string `json:"hwbNumber"`
	OrderStatus string `json:"orderStatus"`
}

// StatusUpdateResponse is the response of /updateOrderStatus.
type StatusUpdateResponse struct {
	HWBNumber   string `json:"hwbNumber"`
	OrderStatus string `json:"orderStatus"`
}

// LabelRequest is the request body for /getLabel.
type LabelRequest struct {
	HWBNumber string `json:"hwbNumber"`
	Label     string `json:"label"`
}

// LabelResponse is the response of /getLabel.
type LabelResponse struct {
	HWBNumber string `json:"hwbNumber"`
	Label     string `json:"hwbOrPackageLabel"`
}

// StatusRequest is the request body for /getStatus.
type StatusRequest struct {
	HWBNumber string `json:"hwbNumber"`
}

// StatusResponse is the response of /getStatus. History is in carrier order.
type StatusResponse struct {
	HWBNumber         string        `json:"hwbNumber"`
	Status            StatusEntry   `json:"status"`
	History           []StatusEntry `json:"history"`
	EstimatedDelivery string        `json:"estimatedDelivery,omitempty"`
}

// StatusEntry is one status checkpoint.
type StatusEntry struct {
	StatusCode string `json:"statusCode"`
	StatusName string `json:"statusName,omitempty"`
	Date       string `json:"date,omitempty"` // 2006-01-02
	Time       string `json:"time,omitempty"` // 15:04
	Location   string `json:"location,omitempty"`
}
