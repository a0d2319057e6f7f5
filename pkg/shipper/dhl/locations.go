package dhl

import (
	"context"
	"strings"

	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// LocationClient searches DHL service points, lockers and post offices.
type LocationClient struct {
	client
}

// NewLocationClient creates a location finder client. Only the API key is required.
func NewLocationClient(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) (*LocationClient, error) {
	c, err := newClient(cfg, validateAPIKey, logger, tracer)
	if err != nil {
		return nil, err
	}
	return &LocationClient{client: c}, nil
}

// NewLocationClientWithAPIClient creates a location finder client with a custom API client.
func NewLocationClientWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger) *LocationClient {
	return &LocationClient{client: newClientWithAPI(cfg, apiClient, logger)}
}

var _ shipper.LocationFinder = (*LocationClient)(nil)

// FindLocations returns locations near an address, nearest first.
func (c *LocationClient) FindLocations(ctx context.Context, q *shipper.LocationQuery) ([]shipper.Location, error) {
	search := LocationSearch{
		CountryCode:     q.CountryCode,
		PostalCode:      q.PostalCode,
		AddressLocality: q.City,
		StreetAddress:   q.Street,
		Radius:          q.RadiusMeters,
		Limit:           q.Limit,
	}
	for _, t := range q.Types {
		code, ok := LocationTypeCode(t)
		if !ok {
			return nil, unsupported("location type %q", t)
		}
		search.LocationTypes = append(search.LocationTypes, code)
	}

	c.logger.Ctx(ctx).Info("Finding DHL locations",
		zap.String("country", q.CountryCode),
		zap.String("postal_code", q.PostalCode),
		zap.Strings("types", search.LocationTypes),
	)

	apiResp, err := c.apiClient.FindLocations(ctx, search)
	if err != nil {
		c.logger.Ctx(ctx).Error("DHL API error", zap.Error(err))
		return nil, err
	}

	out := make([]shipper.Location, 0, len(apiResp.Locations))
	for i := range apiResp.Locations {
		out = append(out, locationToShipper(&apiResp.Locations[i]))
	}
	return out, nil
}

// GetLocation fetches one location by id.
func (c *LocationClient) GetLocation(ctx context.Context, id string) (*shipper.Location, error) {
	c.logger.Ctx(ctx).Info("Getting DHL location", zap.String("location_id", id))

	apiResp, err := c.apiClient.GetLocation(ctx, id)
	if err != nil {
		c.logger.Ctx(ctx).Error("DHL API error", zap.Error(err))
		return nil, err
	}
	loc := locationToShipper(apiResp)
	return &loc, nil
}

func locationToShipper(l *APILocation) shipper.Location {
	id := strings.TrimPrefix(l.URL, "/locations/")
	if len(l.Location.IDs) > 0 {
		id = l.Location.IDs[0].LocationID
	}

	// Types outside the table stay empty rather than failing the search.
	locType, _ := LocationTypeFromCode(l.Location.Type)

	out := shipper.Location{
		ID:   id,
		Name: l.Name,
		Type: locType,
		Address: shipper.Address{
			Name:        l.Name,
			Street:      l.Place.Address.StreetAddress,
			PostalCode:  l.Place.Address.PostalCode,
			City:        l.Place.Address.AddressLocality,
			CountryCode: l.Place.Address.CountryCode,
		},
		DistanceMeters: l.Distance,
		Latitude:       l.Place.Geo.Latitude,
		Longitude:      l.Place.Geo.Longitude,
	}
	for _, h := range l.OpeningHours {
		out.OpeningHours = append(out.OpeningHours, shipper.OpeningHours{
			Day:    h.DayOfWeek[strings.LastIndex(h.DayOfWeek, "/")+1:],
			Opens:  h.Opens,
			Closes: h.Closes,
		})
	}
	return out
}
