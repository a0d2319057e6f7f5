package dhl

import (
	"encoding/base64"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/tournevent/carrierlink/pkg/shipper"
)

// Product is a DHL Parcel DE shipping product.
type Product string

const (
	ProductPaket              Product = "paket"
	ProductWarenpost          Product = "warenpost"
	ProductEuropaket          Product = "europaket"
	ProductKleinpaket         Product = "kleinpaket"
	ProductWarenpostInt       Product = "warenpost_international"
	ProductPaketInternational Product = "paket_international"
)

var productCodes = map[Product]string{
	ProductPaket:              "V01PAK",
	ProductWarenpost:          "V53WPAK",
	ProductEuropaket:          "V54EPAK",
	ProductKleinpaket:         "V62KP",
	ProductWarenpostInt:       "V66WPI",
	ProductPaketInternational: "V07PAK",
}

var productsByCode = invert(productCodes)

// Products returns every supported product.
func Products() []Product {
	return []Product{
		ProductPaket,
		ProductWarenpost,
		ProductEuropaket,
		ProductKleinpaket,
		ProductWarenpostInt,
		ProductPaketInternational,
	}
}

// Code returns the DHL product code, e.g. "V01PAK".
func (p Product) Code() (string, bool) {
	code, ok := productCodes[p]
	return code, ok
}

// ProductFromCode returns the product for a DHL product code.
func ProductFromCode(code string) (Product, bool) {
	p, ok := productsByCode[code]
	return p, ok
}

var docFormats = map[shipper.LabelFormat]string{
	shipper.LabelPDF: "PDF",
	shipper.LabelZPL: "ZPL2",
}

var labelFormatsByDoc = invert(docFormats)

// DocFormat returns the DHL docFormat for a label format. An empty format means PDF.
func DocFormat(f shipper.LabelFormat) (string, bool) {
	if f == "" {
		f = shipper.LabelPDF
	}
	doc, ok := docFormats[f]
	return doc, ok
}

// LabelFormatFromDoc returns the label format for a DHL docFormat.
func LabelFormatFromDoc(doc string) (shipper.LabelFormat, bool) {
	f, ok := labelFormatsByDoc[doc]
	return f, ok
}

var locationTypes = map[shipper.LocationType]string{
	shipper.LocationServicePoint: "servicepoint",
	shipper.LocationLocker:       "locker",
	shipper.LocationPostOffice:   "postoffice",
	shipper.LocationPostBank:     "postbank",
}

var locationTypesByWire = invert(locationTypes)

// LocationTypeCode returns the location finder wire value.
func LocationTypeCode(t shipper.LocationType) (string, bool) {
	code, ok := locationTypes[t]
	return code, ok
}

// LocationTypeFromCode returns the location type for a wire value.
func LocationTypeFromCode(code string) (shipper.LocationType, bool) {
	t, ok := locationTypesByWire[code]
	return t, ok
}

var trackingStatuses = map[string]shipper.TrackingStatus{
	"pre-transit":      shipper.StatusPreTransit,
	"transit":          shipper.StatusInTransit,
	"out-for-delivery": shipper.StatusOutForDelivery,
	"delivered":        shipper.StatusDelivered,
	"returned":         shipper.StatusReturned,
}

// TrackingStatus maps a unified tracking status code. Unrecognized codes map to StatusUnknown.
func TrackingStatus(code string) shipper.TrackingStatus {
	if s, ok := trackingStatuses[code]; ok {
		return s
	}
	return shipper.StatusUnknown
}

func invert[K comparable, V comparable](m map[K]V) map[V]K {
	out := make(map[V]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// ============================================================================
// Conversion helpers: Shipper models -> API models
// ============================================================================

func addressToAPI(a shipper.Address) ContactAddress {
	return ContactAddress{
		Name1:         a.Name,
		Name2:         a.Name2,
		AddressStreet: a.Street,
		AddressHouse:  a.HouseNumber,
		PostalCode:    a.PostalCode,
		City:          a.City,
		Country:       a.CountryCode,
		State:         a.State,
		Email:         a.Email,
		Phone:         a.Phone,
	}
}

func weightToAPI(kg float64) Weight {
	return Weight{UOM: "kg", Value: kg}
}

func dimensionsToAPI(d *shipper.Dimensions) *Dimensions {
	if d == nil {
		return nil
	}
	return &Dimensions{UOM: "cm", Length: d.LengthCM, Width: d.WidthCM, Height: d.HeightCM}
}

func moneyToAPI(m *shipper.Money) *Value {
	if m == nil {
		return nil
	}
	return &Value{Currency: m.Currency, Value: m.Amount}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// ============================================================================
// Conversion helpers: API models -> Shipper models
// ============================================================================

func documentToLabel(d *Document, fallback shipper.LabelFormat) (*shipper.Label, error) {
	if d == nil {
		return nil, nil
	}

	format := fallback
	if f, ok := LabelFormatFromDoc(d.FileFormat); ok {
		format = f
	}

	label := &shipper.Label{Format: format, URL: d.URL}
	if d.B64 != "" {
		data, err := base64.StdEncoding.DecodeString(d.B64)
		if err != nil {
			return nil, shipper.NewShipperError(carrierName, shipper.CodeDeserialization, "label is not valid base64").WithCause(err)
		}
		label.Data = data
	}
	return label, nil
}

func validationMessagesToShipper(msgs []ValidationMessage) []shipper.ValidationMessage {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]shipper.ValidationMessage, len(msgs))
	for i, m := range msgs {
		severity := shipper.SeverityWarning
		if m.ValidationState == "Error" {
			severity = shipper.SeverityError
		}
		out[i] = shipper.ValidationMessage{
			Property: m.Property,
			Message:  m.ValidationMessage,
			Severity: severity,
		}
	}
	return out
}

func eventToShipper(e TrackingEvent) (shipper.TrackingEvent, error) {
	var location string
	if e.Location != nil {
		location = e.Location.Address.AddressLocality
	}

	description := e.Description
	if description == "" {
		description = e.Status
	}

	event := shipper.TrackingEvent{
		Location:    location,
		Description: description,
		StatusCode:  e.StatusCode,
	}
	ts, err := parseTimestamp(e.Timestamp)
	if err != nil {
		return event, err
	}
	if ts != nil {
		event.Timestamp = *ts
	}
	return event, nil
}

// parseTimestamp accepts RFC 3339 and the offset-less form some DHL feeds
// emit, which is local time in Germany. An empty string yields nil.
func parseTimestamp(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(localTimestampLayout, s, berlin)
	if err != nil {
		return nil, shipper.NewShipperError(carrierName, shipper.CodeDeserialization,
			fmt.Sprintf("invalid timestamp %q", s)).WithCause(err)
	}
	return &t, nil
}

const localTimestampLayout = "2006-01-02T15:04:05"

var berlin = loadBerlin()

func loadBerlin() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		return time.UTC
	}
	return loc
}

func unsupported(format string, args ...any) *shipper.ShipperError {
	return shipper.NewShipperError(carrierName, shipper.CodeUnsupported, fmt.Sprintf(format, args...)).
		WithKind(shipper.KindConfiguration)
}
