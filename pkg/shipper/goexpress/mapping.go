package goexpress

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/tournevent/carrierlink/pkg/shipper"
)

// ServiceType is a GO! Express service level.
type ServiceType string

const (
	ServiceOvernight     ServiceType = "overnight"
	ServiceLetter        ServiceType = "letter"
	ServiceDirect        ServiceType = "direct"
	ServiceInternational ServiceType = "international"
)

var serviceCodes = map[ServiceType]string{
	ServiceOvernight:     "ON",
	ServiceLetter:        "LET",
	ServiceDirect:        "DI",
	ServiceInternational: "INT",
}

var servicesByCode = invert(serviceCodes)

// ServiceTypes returns every supported service type.
func ServiceTypes() []ServiceType {
	return []ServiceType{ServiceOvernight, ServiceLetter, ServiceDirect, ServiceInternational}
}

// Code returns the GO! service code, e.g. "ON".
func (s ServiceType) Code() (string, bool) {
	code, ok := serviceCodes[s]
	return code, ok
}

// ServiceTypeFromCode returns the service type for a GO! service code.
func ServiceTypeFromCode(code string) (ServiceType, bool) {
	s, ok := servicesByCode[code]
	return s, ok
}

var labelCodes = map[shipper.LabelFormat]string{
	shipper.LabelPDF: "1",
	shipper.LabelZPL: "4",
}

var labelFormatsByCode = invert(labelCodes)

// LabelCode returns the GO! label code for a label format. An empty format means PDF.
func LabelCode(f shipper.LabelFormat) (string, bool) {
	if f == "" {
		f = shipper.LabelPDF
	}
	code, ok := labelCodes[f]
	return code, ok
}

// LabelFormatFromCode returns the label format for a GO! label code.
func LabelFormatFromCode(code string) (shipper.LabelFormat, bool) {
	f, ok := labelFormatsByCode[code]
	return f, ok
}

var trackingStatuses = map[string]shipper.TrackingStatus{
	"GO10": shipper.StatusPreTransit,
	"GO20": shipper.StatusInTransit,
	"GO40": shipper.StatusInTransit,
	"GO42": shipper.StatusOutForDelivery,
	"GO50": shipper.StatusDelivered,
	"GO90": shipper.StatusReturned,
}

// TrackingStatus maps a GO! status code. Unrecognized codes map to StatusUnknown.
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

func addressToAPI(a shipper.Address) Address {
	return Address{
		Name1:       a.Name,
		Name2:       a.Name2,
		Street:      a.Street,
		HouseNumber: a.HouseNumber,
		ZipCode:     a.PostalCode,
		City:        a.City,
		Country:     a.CountryCode,
		PhoneNumber: a.Phone,
		Email:       a.Email,
	}
}

func decimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func amountToAPI(m *shipper.Money) *Amount {
	if m == nil {
		return nil
	}
	return &Amount{Amount: strconv.FormatFloat(m.Amount, 'f', 2, 64), Currency: m.Currency}
}

func flag(b bool) string {
	if b {
		return "Yes"
	}
	return ""
}

func timeFrameToAPI(w *TimeWindow) *TimeFrame {
	if w == nil {
		return nil
	}
	return &TimeFrame{Date: w.Date.Format("2006-01-02"), TimeFrom: w.From, TimeTill: w.Till}
}

func packagesToAPI(pkgs []shipper.Package) ([]PackageSpec, float64) {
	specs := make([]PackageSpec, 0, len(pkgs))
	var total float64
	for _, p := range pkgs {
		total += p.WeightKG
		var spec PackageSpec
		if p.Dimensions != nil {
			spec = PackageSpec{
				Length: decimal(p.Dimensions.LengthCM),
				Width:  decimal(p.Dimensions.WidthCM),
				Height: decimal(p.Dimensions.HeightCM),
			}
		}
		specs = append(specs, spec)
	}
	return specs, total
}

// ============================================================================
// Conversion helpers: API models -> Shipper models
// ============================================================================

func decodeLabel(b64 string, format shipper.LabelFormat) (*shipper.Label, error) {
	if format == "" {
		format = shipper.LabelPDF
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, shipper.NewShipperError(carrierName, shipper.CodeDeserialization, "label is not valid base64").WithCause(err)
	}
	return &shipper.Label{Format: format, Data: data}, nil
}

func statusEntryToEvent(e StatusEntry) shipper.TrackingEvent {
	event := shipper.TrackingEvent{
		Location:    e.Location,
		Description: e.StatusName,
		StatusCode:  e.StatusCode,
	}
	if e.Date != "" {
		layout, value := "2006-01-02", e.Date
		if e.Time != "" {
			layout, value = "2006-01-02 15:04", e.Date+" "+e.Time
		}
		if ts, err := time.ParseInLocation(layout, value, berlin); err == nil {
			event.Timestamp = ts
		}
	}
	return event
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, berlin)
	if err != nil {
		return nil
	}
	return &t
}

// GO! reports local station time without a zone.
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
