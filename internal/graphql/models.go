package graphql

// Input types. Field names follow the GraphQL argument names.

type AddressInput struct {
	Name        string `json:"name"`
	Name2       string `json:"name2"`
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	PostalCode  string `json:"postalCode"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
	State       string `json:"state"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

type PackageInput struct {
	WeightKg float64  `json:"weightKg"`
	LengthCm *float64 `json:"lengthCm"`
	WidthCm  *float64 `json:"widthCm"`
	HeightCm *float64 `json:"heightCm"`
}

type MoneyInput struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type ContactInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type DHLServicesInput struct {
	PreferredNeighbour  string      `json:"preferredNeighbour"`
	PreferredLocation   string      `json:"preferredLocation"`
	PreferredDay        string      `json:"preferredDay"`
	VisualCheckOfAge    string      `json:"visualCheckOfAge"`
	NamedPersonOnly     bool        `json:"namedPersonOnly"`
	NoNeighbourDelivery bool        `json:"noNeighbourDelivery"`
	GoGreenPlus         bool        `json:"goGreenPlus"`
	BulkyGoods          bool        `json:"bulkyGoods"`
	Endorsement         string      `json:"endorsement"`
	AdditionalInsurance *MoneyInput `json:"additionalInsurance"`
	CashOnDelivery      *MoneyInput `json:"cashOnDelivery"`
}

type DHLShipmentInput struct {
	BillingNumber string            `json:"billingNumber"`
	Product       string            `json:"product"`
	Profile       string            `json:"profile"`
	CostCenter    string            `json:"costCenter"`
	Services      *DHLServicesInput `json:"services"`
}

type TimeWindowInput struct {
	Date string `json:"date"` // 2006-01-02
	From string `json:"from"`
	Till string `json:"till"`
}

type GOExpressShipmentInput struct {
	Service        string           `json:"service"`
	Pickup         *TimeWindowInput `json:"pickup"`
	Delivery       *TimeWindowInput `json:"delivery"`
	Content        string           `json:"content"`
	CostCenter     string           `json:"costCenter"`
	IdentCheck     bool             `json:"identCheck"`
	ReceiptNotice  bool             `json:"receiptNotice"`
	SelfPickup     bool             `json:"selfPickup"`
	SelfDelivery   bool             `json:"selfDelivery"`
	FreightCollect bool             `json:"freightCollect"`
	CashOnDelivery *MoneyInput      `json:"cashOnDelivery"`
	Insurance      *MoneyInput      `json:"insurance"`
}

type CreateShipmentInput struct {
	Carrier     string                  `json:"carrier"`
	Shipper     AddressInput            `json:"shipper"`
	Consignee   AddressInput            `json:"consignee"`
	Packages    []PackageInput          `json:"packages"`
	Reference   string                  `json:"reference"`
	ShipDate    *string                 `json:"shipDate"`
	LabelFormat string                  `json:"labelFormat"`
	DHL         *DHLShipmentInput       `json:"dhl"`
	GOExpress   *GOExpressShipmentInput `json:"goExpress"`
}

type GetLabelInput struct {
	Carrier        string `json:"carrier"`
	ShipmentNumber string `json:"shipmentNumber"`
	Format         string `json:"format"`
}

type LocationsInput struct {
	Carrier      string   `json:"carrier"`
	CountryCode  string   `json:"countryCode"`
	PostalCode   string   `json:"postalCode"`
	City         string   `json:"city"`
	Street       string   `json:"street"`
	RadiusMeters int      `json:"radiusMeters"`
	Limit        int      `json:"limit"`
	Types        []string `json:"types"`
}

type SchedulePickupInput struct {
	Carrier            string       `json:"carrier"`
	Address            AddressInput `json:"address"`
	Contact            ContactInput `json:"contact"`
	Date               *string      `json:"date"`
	ShipmentNumbers    []string     `json:"shipmentNumbers"`
	TotalWeightKg      float64      `json:"totalWeightKg"`
	Comment            string       `json:"comment"`
	BillingNumber      string       `json:"billingNumber"`
	TransportationType string       `json:"transportationType"`
}

type CreateReturnInput struct {
	Carrier     string       `json:"carrier"`
	Sender      AddressInput `json:"sender"`
	ReceiverID  string       `json:"receiverId"`
	Reference   string       `json:"reference"`
	WeightKg    float64      `json:"weightKg"`
	Value       *MoneyInput  `json:"value"`
	LabelFormat string       `json:"labelFormat"`
}

type StampItemInput struct {
	ProductCode int           `json:"productCode"`
	Price       MoneyInput    `json:"price"`
	Sender      *AddressInput `json:"sender"`
	Receiver    *AddressInput `json:"receiver"`
}

type BuyStampsInput struct {
	Carrier      string           `json:"carrier"`
	Items        []StampItemInput `json:"items"`
	PageFormatID int              `json:"pageFormatId"`
}

type RefundStampsInput struct {
	Carrier     string   `json:"carrier"`
	ShopOrderID string   `json:"shopOrderId"`
	VoucherIDs  []string `json:"voucherIds"`
}

// Output types.

type Carrier struct {
	Name         string   `json:"name"`
	Capabilities []string `json:"capabilities"`
}

type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type Address struct {
	Name        string `json:"name"`
	Street      string `json:"street"`
	HouseNumber string `json:"houseNumber"`
	PostalCode  string `json:"postalCode"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
}

type Label struct {
	Format string `json:"format"`
	Data   string `json:"data"` // base64
	URL    string `json:"url,omitempty"`
}

type ValidationMessage struct {
	Property string `json:"property"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

type Shipment struct {
	ShipmentNumber     string              `json:"shipmentNumber"`
	Reference          string              `json:"reference"`
	RoutingCode        string              `json:"routingCode"`
	Label              *Label              `json:"label"`
	ValidationMessages []ValidationMessage `json:"validationMessages"`
}

type Cancellation struct {
	ShipmentNumber string `json:"shipmentNumber"`
	Cancelled      bool   `json:"cancelled"`
	Message        string `json:"message"`
}

type TrackingEvent struct {
	Timestamp   *string `json:"timestamp"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	StatusCode  string  `json:"statusCode"`
}

type Tracking struct {
	ShipmentNumber    string          `json:"shipmentNumber"`
	Carrier           string          `json:"carrier"`
	Status            string          `json:"status"`
	EstimatedDelivery *string         `json:"estimatedDelivery"`
	Events            []TrackingEvent `json:"events"`
}

type TrackAllResult struct {
	Results []Tracking `json:"results"`
	Errors  []string   `json:"errors"`
}

type OpeningHours struct {
	Day    string `json:"day"`
	Opens  string `json:"opens"`
	Closes string `json:"closes"`
}

type Location struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	Address        Address        `json:"address"`
	DistanceMeters int            `json:"distanceMeters"`
	Latitude       float64        `json:"latitude"`
	Longitude      float64        `json:"longitude"`
	OpeningHours   []OpeningHours `json:"openingHours"`
}

type Pickup struct {
	OrderID            string   `json:"orderId"`
	PickupDate         *string  `json:"pickupDate"`
	FreeOfCharge       bool     `json:"freeOfCharge"`
	ConfirmedShipments []string `json:"confirmedShipments"`
}

type PickupCancellation struct {
	OrderID   string `json:"orderId"`
	Cancelled bool   `json:"cancelled"`
	State     string `json:"state"`
}

type Return struct {
	ShipmentNumber              string `json:"shipmentNumber"`
	InternationalShipmentNumber string `json:"internationalShipmentNumber"`
	Label                       *Label `json:"label"`
	QRLabel                     *Label `json:"qrLabel"`
	RoutingCode                 string `json:"routingCode"`
}

type Voucher struct {
	ID      string `json:"id"`
	TrackID string `json:"trackId"`
}

type StampOrder struct {
	ShopOrderID   string    `json:"shopOrderId"`
	LabelURL      string    `json:"labelUrl"`
	Vouchers      []Voucher `json:"vouchers"`
	WalletBalance Money     `json:"walletBalance"`
}

type StampRefund struct {
	RetoureID     string `json:"retoureId"`
	ShopRetoureID string `json:"shopRetoureId"`
}
