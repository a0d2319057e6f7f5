package graphql

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/tournevent/carrierlink/pkg/shipper/dhl"
	"github.com/tournevent/carrierlink/pkg/shipper/goexpress"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

const dateLayout = "2006-01-02"

// inputError is returned for arguments that cannot be converted.
type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

func badInput(format string, args ...any) error {
	return &inputError{msg: fmt.Sprintf(format, args...)}
}

// ============================================================================
// Input -> shipper models
// ============================================================================

func addressInputToModel(input AddressInput) shipper.Address {
	return shipper.Address{
		Name:        input.Name,
		Name2:       input.Name2,
		Street:      input.Street,
		HouseNumber: input.HouseNumber,
		PostalCode:  input.PostalCode,
		City:        input.City,
		CountryCode: input.CountryCode,
		State:       input.State,
		Phone:       input.Phone,
		Email:       input.Email,
	}
}

func packagesInputToModel(inputs []PackageInput) []shipper.Package {
	packages := make([]shipper.Package, len(inputs))
	for i, input := range inputs {
		pkg := shipper.Package{WeightKG: input.WeightKg}
		if input.LengthCm != nil || input.WidthCm != nil || input.HeightCm != nil {
			pkg.Dimensions = &shipper.Dimensions{
				LengthCM: deref(input.LengthCm),
				WidthCM:  deref(input.WidthCm),
				HeightCM: deref(input.HeightCm),
			}
		}
		packages[i] = pkg
	}
	return packages
}

func moneyInputToModel(input *MoneyInput) *shipper.Money {
	if input == nil {
		return nil
	}
	return &shipper.Money{Amount: input.Amount, Currency: input.Currency}
}

func parseDate(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, badInput("%s must be a date like 2006-01-02, got %q", field, *s)
	}
	return &t, nil
}

func createShipmentInputToModel(input CreateShipmentInput) (*shipper.ShipmentRequest, error) {
	shipDate, err := parseDate("shipDate", input.ShipDate)
	if err != nil {
		return nil, err
	}

	req := &shipper.ShipmentRequest{
		Shipper:     addressInputToModel(input.Shipper),
		Consignee:   addressInputToModel(input.Consignee),
		Packages:    packagesInputToModel(input.Packages),
		Reference:   input.Reference,
		ShipDate:    shipDate,
		LabelFormat: shipper.LabelFormat(input.LabelFormat),
	}

	switch {
	case input.DHL != nil && input.GOExpress != nil:
		return nil, badInput("only one of dhl and goExpress options may be set")
	case input.DHL != nil:
		req.Options = dhlOptionsToModel(input.DHL)
	case input.GOExpress != nil:
		opts, err := goExpressOptionsToModel(input.GOExpress)
		if err != nil {
			return nil, err
		}
		req.Options = opts
	}
	return req, nil
}

func dhlOptionsToModel(input *DHLShipmentInput) dhl.ShipmentOptions {
	opts := dhl.ShipmentOptions{
		BillingNumber: input.BillingNumber,
		Product:       dhl.Product(input.Product),
		Profile:       input.Profile,
		CostCenter:    input.CostCenter,
	}
	if s := input.Services; s != nil {
		opts.Services = &dhl.Services{
			PreferredNeighbour:  s.PreferredNeighbour,
			PreferredLocation:   s.PreferredLocation,
			PreferredDay:        s.PreferredDay,
			VisualCheckOfAge:    s.VisualCheckOfAge,
			NamedPersonOnly:     s.NamedPersonOnly,
			NoNeighbourDelivery: s.NoNeighbourDelivery,
			GoGreenPlus:         s.GoGreenPlus,
			BulkyGoods:          s.BulkyGoods,
			Endorsement:         s.Endorsement,
			AdditionalInsurance: moneyInputToModel(s.AdditionalInsurance),
			CashOnDelivery:      moneyInputToModel(s.CashOnDelivery),
		}
	}
	return opts
}

func goExpressOptionsToModel(input *GOExpressShipmentInput) (goexpress.ShipmentOptions, error) {
	pickup, err := timeWindowInputToModel("pickup", input.Pickup)
	if err != nil {
		return goexpress.ShipmentOptions{}, err
	}
	delivery, err := timeWindowInputToModel("delivery", input.Delivery)
	if err != nil {
		return goexpress.ShipmentOptions{}, err
	}
	return goexpress.ShipmentOptions{
		Service:        goexpress.ServiceType(input.Service),
		Pickup:         pickup,
		Delivery:       delivery,
		Content:        input.Content,
		CostCenter:     input.CostCenter,
		IdentCheck:     input.IdentCheck,
		ReceiptNotice:  input.ReceiptNotice,
		SelfPickup:     input.SelfPickup,
		SelfDelivery:   input.SelfDelivery,
		FreightCollect: input.FreightCollect,
		CashOnDelivery: moneyInputToModel(input.CashOnDelivery),
		Insurance:      moneyInputToModel(input.Insurance),
	}, nil
}

func timeWindowInputToModel(field string, input *TimeWindowInput) (*goexpress.TimeWindow, error) {
	if input == nil {
		return nil, nil
	}
	date, err := parseDate(field+".date", &input.Date)
	if err != nil {
		return nil, err
	}
	if date == nil {
		return nil, badInput("%s.date is required", field)
	}
	return &goexpress.TimeWindow{Date: *date, From: input.From, Till: input.Till}, nil
}

func schedulePickupInputToModel(input SchedulePickupInput) (*shipper.PickupRequest, error) {
	date, err := parseDate("date", input.Date)
	if err != nil {
		return nil, err
	}
	req := &shipper.PickupRequest{
		Address:         addressInputToModel(input.Address),
		Contact:         shipper.Contact(input.Contact),
		ShipmentNumbers: input.ShipmentNumbers,
		TotalWeightKG:   input.TotalWeightKg,
		Comment:         input.Comment,
	}
	if date != nil {
		req.Date = *date
	}
	if input.BillingNumber != "" || input.TransportationType != "" {
		req.Options = dhl.PickupOptions{
			BillingNumber:      input.BillingNumber,
			TransportationType: input.TransportationType,
		}
	}
	return req, nil
}

func createReturnInputToModel(input CreateReturnInput) *shipper.ReturnRequest {
	return &shipper.ReturnRequest{
		Sender:      addressInputToModel(input.Sender),
		ReceiverID:  input.ReceiverID,
		Reference:   input.Reference,
		WeightKG:    input.WeightKg,
		Value:       moneyInputToModel(input.Value),
		LabelFormat: shipper.LabelFormat(input.LabelFormat),
	}
}

func locationsInputToModel(input LocationsInput) *shipper.LocationQuery {
	q := &shipper.LocationQuery{
		CountryCode:  input.CountryCode,
		PostalCode:   input.PostalCode,
		City:         input.City,
		Street:       input.Street,
		RadiusMeters: input.RadiusMeters,
		Limit:        input.Limit,
	}
	for _, t := range input.Types {
		q.Types = append(q.Types, shipper.LocationType(t))
	}
	return q
}

func buyStampsInputToModel(input BuyStampsInput) *shipper.StampOrderRequest {
	req := &shipper.StampOrderRequest{PageFormatID: input.PageFormatID}
	for _, item := range input.Items {
		s := shipper.StampItem{
			ProductCode: item.ProductCode,
			Price:       shipper.Money{Amount: item.Price.Amount, Currency: item.Price.Currency},
		}
		if item.Sender != nil {
			addr := addressInputToModel(*item.Sender)
			s.Sender = &addr
		}
		if item.Receiver != nil {
			addr := addressInputToModel(*item.Receiver)
			s.Receiver = &addr
		}
		req.Items = append(req.Items, s)
	}
	return req
}

// ============================================================================
// Shipper models -> output
// ============================================================================

func labelToModel(l *shipper.Label) *Label {
	if l == nil {
		return nil
	}
	return &Label{
		Format: string(l.Format),
		Data:   base64.StdEncoding.EncodeToString(l.Data),
		URL:    l.URL,
	}
}

func shipmentToModel(resp *shipper.ShipmentResponse) *Shipment {
	out := &Shipment{
		ShipmentNumber:     resp.ShipmentNumber,
		Reference:          resp.Reference,
		RoutingCode:        resp.RoutingCode,
		Label:              labelToModel(&resp.Label),
		ValidationMessages: make([]ValidationMessage, 0, len(resp.ValidationMessages)),
	}
	for _, m := range resp.ValidationMessages {
		out.ValidationMessages = append(out.ValidationMessages, ValidationMessage{
			Property: m.Property,
			Message:  m.Message,
			Severity: string(m.Severity),
		})
	}
	return out
}

func trackingToModel(r *shipper.TrackingResult) Tracking {
	out := Tracking{
		ShipmentNumber:    r.ShipmentNumber,
		Carrier:           r.Carrier,
		Status:            string(r.Status),
		EstimatedDelivery: formatTime(r.EstimatedDelivery),
		Events:            make([]TrackingEvent, 0, len(r.Events)),
	}
	for _, e := range r.Events {
		ts := e.Timestamp
		out.Events = append(out.Events, TrackingEvent{
			Timestamp:   formatTime(&ts),
			Location:    e.Location,
			Description: e.Description,
			StatusCode:  e.StatusCode,
		})
	}
	return out
}

func locationToModel(l shipper.Location) Location {
	out := Location{
		ID:   l.ID,
		Name: l.Name,
		Type: string(l.Type),
		Address: Address{
			Name:        l.Address.Name,
			Street:      l.Address.Street,
			HouseNumber: l.Address.HouseNumber,
			PostalCode:  l.Address.PostalCode,
			City:        l.Address.City,
			CountryCode: l.Address.CountryCode,
		},
		DistanceMeters: l.DistanceMeters,
		Latitude:       l.Latitude,
		Longitude:      l.Longitude,
		OpeningHours:   make([]OpeningHours, 0, len(l.OpeningHours)),
	}
	for _, h := range l.OpeningHours {
		out.OpeningHours = append(out.OpeningHours, OpeningHours(h))
	}
	return out
}

func pickupToModel(p *shipper.PickupConfirmation) *Pickup {
	return &Pickup{
		OrderID:            p.OrderID,
		PickupDate:         formatDate(p.PickupDate),
		FreeOfCharge:       p.FreeOfCharge,
		ConfirmedShipments: p.ConfirmedShipments,
	}
}

func returnToModel(r *shipper.ReturnResponse) *Return {
	return &Return{
		ShipmentNumber:              r.ShipmentNumber,
		InternationalShipmentNumber: r.InternationalShipmentNumber,
		Label:                       labelToModel(&r.Label),
		QRLabel:                     labelToModel(r.QRLabel),
		RoutingCode:                 r.RoutingCode,
	}
}

func stampOrderToModel(o *shipper.StampOrder) *StampOrder {
	out := &StampOrder{
		ShopOrderID:   o.ShopOrderID,
		LabelURL:      o.LabelURL,
		Vouchers:      make([]Voucher, 0, len(o.Vouchers)),
		WalletBalance: Money(o.WalletBalance),
	}
	for _, v := range o.Vouchers {
		out.Vouchers = append(out.Vouchers, Voucher(v))
	}
	return out
}

func formatTime(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func formatDate(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// ============================================================================
// Errors
// ============================================================================

// toGQLError converts a resolver error into a GraphQL error. Carrier errors
// carry their code, kind and retryability as extensions.
func toGQLError(err error) *gqlerror.Error {
	gqlErr := &gqlerror.Error{Message: err.Error(), Extensions: map[string]any{}}

	var in *inputError
	var shipperErr *shipper.ShipperError
	switch {
	case errors.As(err, &in):
		gqlErr.Extensions["code"] = "BAD_USER_INPUT"
	case errors.As(err, &shipperErr):
		gqlErr.Message = shipperErr.Message
		gqlErr.Extensions["code"] = shipperErr.Code
		gqlErr.Extensions["kind"] = string(shipperErr.Kind)
		gqlErr.Extensions["carrier"] = shipperErr.Carrier
		gqlErr.Extensions["retryable"] = shipperErr.Retryable
		if shipperErr.StatusCode != 0 {
			gqlErr.Extensions["statusCode"] = shipperErr.StatusCode
		}
	case errors.Is(err, shipper.ErrCarrierNotFound):
		gqlErr.Extensions["code"] = "CARRIER_NOT_FOUND"
	case errors.Is(err, shipper.ErrCapabilityNotSupported):
		gqlErr.Extensions["code"] = "CAPABILITY_NOT_SUPPORTED"
	default:
		gqlErr.Extensions["code"] = "INTERNAL"
	}
	return gqlErr
}
