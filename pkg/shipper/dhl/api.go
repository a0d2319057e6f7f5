package dhl

import "context"

// APIClient defines the interface for DHL API operations.
// This allows swapping between real HTTP calls and mock implementations.
type APIClient interface {
	// Parcel DE shipping
	CreateOrders(ctx context.Context, req *OrderRequest, query OrderQuery) (*OrderResponse, error)
	GetOrder(ctx context.Context, shipmentNo string, query OrderQuery) (*OrderResponse, error)
	DeleteOrder(ctx context.Context, shipmentNo, profile string) (*OrderResponse, error)

	// Unified tracking
	Track(ctx context.Context, query TrackingQuery) (*TrackingResponse, error)

	// Parcel DE pickup
	CreatePickup(ctx context.Context, req *PickupOrderRequest) (*PickupOrderResponse, error)
	GetPickup(ctx context.Context, orderID string) ([]PickupOrderDetails, error)
	CancelPickup(ctx context.Context, orderID string) (*PickupCancelResponse, error)

	// Parcel DE returns
	CreateReturn(ctx context.Context, req *ReturnOrderRequest, labelType string) (*ReturnOrderResponse, error)

	// Location finder
	FindLocations(ctx context.Context, query LocationSearch) (*LocationList, error)
	GetLocation(ctx context.Context, id string) (*APILocation, error)

	// Internetmarke
	InitShoppingCart(ctx context.Context) (*CartInitResponse, error)
	CheckoutPDF(ctx context.Context, req *CartPDFRequest) (*CartPDFResponse, error)
	Retoure(ctx context.Context, req *RetoureRequest) (*RetoureResponse, error)
}

// ============================================================================
// Shared wire types
// ============================================================================

// Status is the status envelope of Parcel DE responses.
type Status struct {
	Title      string `json:"title,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	Instance   string `json:"instance,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// Weight carries a value with its unit, always "kg".
type Weight struct {
	UOM   string  `json:"uom"`
	Value float64 `json:"value"`
}

// Dimensions carries package dimensions with their unit, always "cm".
type Dimensions struct {
	UOM    string  `json:"uom"`
	Height float64 `json:"height"`
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
}

// Value is a monetary amount.
type Value struct {
	Currency string  `json:"currency"`
	Value    float64 `json:"value"`
}

// ContactAddress is a Parcel DE address.
type ContactAddress struct {
	Name1         string `json:"name1"`
	Name2         string `json:"name2,omitempty"`
	AddressStreet string `json:"addressStreet"`
	AddressHouse  string `json:"addressHouse,omitempty"`
	PostalCode    string `json:"postalCode"`
	City          string `json:"city"`
	Country       string `json:"country"`
	State         string `json:"state,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

// Document is a base64 encoded label or a link to it.
type Document struct {
	B64         string `json:"b64,omitempty"`
	URL         string `json:"url,omitempty"`
	FileFormat  string `json:"fileFormat,omitempty"`
	PrintFormat string `json:"printFormat,omitempty"`
}

// ============================================================================
// Shipping
// ============================================================================

// OrderQuery holds the query parameters of the orders endpoint.
type OrderQuery struct {
	DocFormat   string // PDF or ZPL2
	PrintFormat string
	Validate    bool
	Profile     string
}

// OrderRequest is the request body for POST /orders.
type OrderRequest struct {
	Profile   string          `json:"profile"`
	Shipments []OrderShipment `json:"shipments"`
}

// OrderShipment is one shipment of an order request.
type OrderShipment struct {
	Product       string          `json:"product"`
	BillingNumber string          `json:"billingNumber"`
	RefNo         string          `json:"refNo,omitempty"`
	ShipDate      string          `json:"shipDate,omitempty"`
	CostCenter    string          `json:"costCenter,omitempty"`
	Shipper       ContactAddress  `json:"shipper"`
	Consignee     ContactAddress  `json:"consignee"`
	Details       ShipmentDetails `json:"details"`
	Services      *VAS            `json:"services,omitempty"`
}

// ShipmentDetails holds weight and dimensions of the single package.
type ShipmentDetails struct {
	Weight Weight      `json:"weight"`
	Dim    *Dimensions `json:"dim,omitempty"`
}

// VAS are the value added services of a shipment.
type VAS struct {
	PreferredNeighbour  string          `json:"preferredNeighbour,omitempty"`
	PreferredLocation   string          `json:"preferredLocation,omitempty"`
	PreferredDay        string          `json:"preferredDay,omitempty"`
	VisualCheckOfAge    string          `json:"visualCheckOfAge,omitempty"`
	NamedPersonOnly     bool            `json:"namedPersonOnly,omitempty"`
	NoNeighbourDelivery bool            `json:"noNeighbourDelivery,omitempty"`
	GoGreenPlus         bool            `json:"goGreenPlus,omitempty"`
	BulkyGoods          bool            `json:"bulkyGoods,omitempty"`
	Endorsement         string          `json:"endorsement,omitempty"`
	AdditionalInsurance *Value          `json:"additionalInsurance,omitempty"`
	CashOnDelivery      *CashOnDelivery `json:"cashOnDelivery,omitempty"`
	IdentCheck          *IdentCheck     `json:"identCheck,omitempty"`
}

// CashOnDelivery is the COD service.
type CashOnDelivery struct {
	Amount Value  `json:"amount"`
	IBAN   string `json:"iban,omitempty"`
	Usage  string `json:"transferNote1,omitempty"`
}

// IdentCheck is the ident check service.
type IdentCheck struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	MinimumAge  string `json:"minimumAge,omitempty"`
}

// OrderResponse is the response of the orders endpoint.
type OrderResponse struct {
	Status Status      `json:"status"`
	Items  []OrderItem `json:"items"`
}

// OrderItem is the result for one shipment.
type OrderItem struct {
	ShipmentNo         string              `json:"shipmentNo"`
	ShipmentRefNo      string              `json:"shipmentRefNo,omitempty"`
	RoutingCode        string              `json:"routingCode,omitempty"`
	SStatus            Status              `json:"sstatus"`
	Label              *Document           `json:"label,omitempty"`
	ReturnLabel        *Document           `json:"returnLabel,omitempty"`
	ValidationMessages []ValidationMessage `json:"validationMessages,omitempty"`
}

// ValidationMessage is a warning or error attached to a shipment.
type ValidationMessage struct {
	Property          string `json:"property"`
	ValidationMessage string `json:"validationMessage"`
	ValidationState   string `json:"validationState"`
}

// ============================================================================
// Tracking
// ============================================================================

// TrackingQuery holds the query parameters of the unified tracking endpoint.
type TrackingQuery struct {
	TrackingNumber      string
	Service             string
	Language            string
	RecipientPostalCode string
	OriginCountryCode   string
}

// TrackingResponse is the unified tracking response.
type TrackingResponse struct {
	Shipments []TrackedShipment `json:"shipments"`
}

// TrackedShipment is one tracked shipment.
type TrackedShipment struct {
	ID                      string          `json:"id"`
	Service                 string          `json:"service"`
	Status                  TrackingEvent   `json:"status"`
	EstimatedTimeOfDelivery string          `json:"estimatedTimeOfDelivery,omitempty"`
	Events                  []TrackingEvent `json:"events"`
}

// TrackingEvent is one checkpoint.
type TrackingEvent struct {
	Timestamp   string         `json:"timestamp"`
	Location    *EventLocation `json:"location,omitempty"`
	StatusCode  string         `json:"statusCode"`
	Status      string         `json:"status,omitempty"`
	Description string         `json:"description,omitempty"`
}

// EventLocation is the location of a checkpoint.
type EventLocation struct {
	Address struct {
		AddressLocality string `json:"addressLocality,omitempty"`
		CountryCode     string `json:"countryCode,omitempty"`
	} `json:"address"`
}

// ============================================================================
// Pickup
// ============================================================================

// PickupOrderRequest is the request body for POST pickup orders.
type PickupOrderRequest struct {
	CustomerDetails CustomerDetails `json:"customerDetails"`
	PickupLocation  PickupLocation  `json:"pickupLocation"`
	PickupDetails   PickupDetails   `json:"pickupDetails"`
	ShipmentDetails *ShipmentList   `json:"shipmentDetails,omitempty"`
	ContactPerson   []PickupContact `json:"contactPerson,omitempty"`
}

// CustomerDetails identifies the billing account.
type CustomerDetails struct {
	BillingNumber string `json:"billingNumber"`
}

// PickupLocation is where the courier collects.
type PickupLocation struct {
	Type          string          `json:"type"`
	PickupAddress *ContactAddress `json:"pickupAddress,omitempty"`
	AsID          string          `json:"asId,omitempty"`
}

// PickupDetails holds date and volume of a pickup.
type PickupDetails struct {
	PickupDate  PickupDate `json:"pickupDate"`
	TotalWeight *Weight    `json:"totalWeight,omitempty"`
	Comment     string     `json:"comment,omitempty"`
}

// PickupDate is either a date or the next possible date.
type PickupDate struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// ShipmentList lists the shipments handed over at pickup.
type ShipmentList struct {
	Shipments []PickupShipment `json:"shipments"`
}

// PickupShipment is one shipment handed over at pickup.
type PickupShipment struct {
	TransportationType string `json:"transportationType"`
	Replacement        bool   `json:"replacement"`
	ShipmentNo         string `json:"shipmentNo,omitempty"`
	OrderDate          string `json:"orderDate,omitempty"`
}

// PickupContact is the contact person on site.
type PickupContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// PickupOrderResponse confirms a pickup order.
type PickupOrderResponse struct {
	Confirmation struct {
		Type  string             `json:"type"`
		Value PickupOrderDetails `json:"value"`
	} `json:"confirmation"`
}

// PickupOrderDetails describes a pickup order.
type PickupOrderDetails struct {
	OrderID            string           `json:"orderID"`
	OrderState         string           `json:"orderState,omitempty"`
	PickupDate         string           `json:"pickupDate,omitempty"`
	FreeOfCharge       bool             `json:"freeOfCharge"`
	PickupType         string           `json:"pickupType,omitempty"`
	ConfirmedShipments []PickupShipment `json:"confirmedShipments,omitempty"`
}

// PickupCancelResponse is the result of cancelling pickup orders.
type PickupCancelResponse struct {
	ConfirmedCancellations []PickupCancelState `json:"confirmedCancellations"`
	FailedCancellations    []PickupCancelState `json:"failedCancellations"`
}

// PickupCancelState is the cancellation outcome for one order.
type PickupCancelState struct {
	OrderID    string `json:"orderID"`
	OrderState string `json:"orderState,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ============================================================================
// Returns
// ============================================================================

// ReturnOrderRequest is the request body for POST return orders.
type ReturnOrderRequest struct {
	ReceiverID        string         `json:"receiverId"`
	CustomerReference string         `json:"customerReference,omitempty"`
	ShipmentReference string         `json:"shipmentReference,omitempty"`
	Shipper           ContactAddress `json:"shipper"`
	ItemWeight        *Weight        `json:"itemWeight,omitempty"`
	ItemValue         *Value         `json:"itemValue,omitempty"`
}

// ReturnOrderResponse is the created return label.
type ReturnOrderResponse struct {
	SStatus                 Status    `json:"sstatus"`
	ShipmentNo              string    `json:"shipmentNo"`
	InternationalShipmentNo string    `json:"internationalShipmentNo,omitempty"`
	Label                   *Document `json:"label,omitempty"`
	QRLabel                 *Document `json:"qrLabel,omitempty"`
	RoutingCode             string    `json:"routingCode,omitempty"`
}

// ============================================================================
// Location finder
// ============================================================================

// LocationSearch holds the query parameters of find-by-address.
type LocationSearch struct {
	CountryCode     string
	PostalCode      string
	AddressLocality string
	StreetAddress   string
	Radius          int
	Limit           int
	LocationTypes   []string
}

// LocationList is the find-by-address response.
type LocationList struct {
	Locations []APILocation `json:"locations"`
}

// APILocation is a DHL service location.
type APILocation struct {
	URL      string `json:"url"`
	Location struct {
		IDs       []LocationID `json:"ids"`
		Keyword   string       `json:"keyword,omitempty"`
		KeywordID string       `json:"keywordId,omitempty"`
		Type      string       `json:"type"`
	} `json:"location"`
	Name     string `json:"name"`
	Distance int    `json:"distance,omitempty"`
	Place    struct {
		Address struct {
			CountryCode     string `json:"countryCode"`
			PostalCode      string `json:"postalCode"`
			AddressLocality string `json:"addressLocality"`
			StreetAddress   string `json:"streetAddress"`
		} `json:"address"`
		Geo struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"geo"`
	} `json:"place"`
	OpeningHours []OpeningHoursSpec `json:"openingHours,omitempty"`
}

// LocationID is a provider specific location id.
type LocationID struct {
	LocationID string `json:"locationId"`
	Provider   string `json:"provider"`
}

// OpeningHoursSpec is one opening interval.
type OpeningHoursSpec struct {
	Opens     string `json:"opens"`
	Closes    string `json:"closes"`
	DayOfWeek string `json:"dayOfWeek"` // schema.org day URL
}

// ============================================================================
// Internetmarke
// ============================================================================

// CartInitResponse carries the id of a fresh shopping cart.
type CartInitResponse struct {
	ShopOrderID string `json:"shopOrderId"`
}

// CartPDFRequest checks out a shopping cart as a PDF.
type CartPDFRequest struct {
	Type               string         `json:"type"`
	ShopOrderID        string         `json:"shopOrderId"`
	Total              int            `json:"total"` // eurocents
	CreateManifest     bool           `json:"createManifest"`
	CreateShippingList string         `json:"createShippingList"`
	DPI                string         `json:"dpi,omitempty"`
	PageFormatID       int            `json:"pageFormatId"`
	Positions          []CartPosition `json:"positions"`
}

// CartPosition is one stamp in the cart.
type CartPosition struct {
	ProductCode   int              `json:"productCode"`
	VoucherLayout string           `json:"voucherLayout"`
	PositionType  string           `json:"positionType"`
	Address       *CartAddressPair `json:"address,omitempty"`
	Position      LabelPosition    `json:"position"`
}

// CartAddressPair are the addresses printed on a stamp.
type CartAddressPair struct {
	Sender   CartAddress `json:"sender"`
	Receiver CartAddress `json:"receiver"`
}

// CartAddress is an Internetmarke address.
type CartAddress struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	PostalCode   string `json:"postalCode"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

// LabelPosition places a stamp on the page.
type LabelPosition struct {
	LabelX int `json:"labelX"`
	LabelY int `json:"labelY"`
	Page   int `json:"page"`
}

// CartPDFResponse is the checkout result.
type CartPDFResponse struct {
	Link         string `json:"link"`
	ManifestLink string `json:"manifestLink,omitempty"`
	ShoppingCart struct {
		ShopOrderID string        `json:"shopOrderId"`
		VoucherList []CartVoucher `json:"voucherList"`
	} `json:"shoppingCart"`
	// The field name is misspelled in the API.
	WalletBalance int `json:"walletBallance"`
}

// CartVoucher is one bought stamp.
type CartVoucher struct {
	VoucherID string `json:"voucherId"`
	TrackID   string `json:"trackId,omitempty"`
}

// RetoureRequest refunds unused vouchers.
type RetoureRequest struct {
	ShopOrderID string   `json:"shopOrderId"`
	VoucherIDs  []string `json:"voucherIds,omitempty"`
}

// RetoureResponse confirms a refund.
type RetoureResponse struct {
	ShopRetoureID        string `json:"shopRetoureId"`
	RetoureTransactionID int    `json:"retoureTransactionId"`
}
