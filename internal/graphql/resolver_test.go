package graphql_test

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/carrierlink/internal/graphql"
	"github.com/tournevent/carrierlink/internal/telemetry"
	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/tournevent/carrierlink/pkg/shipper/dhl"
	"github.com/tournevent/carrierlink/pkg/shipper/mock"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestResolver(t *testing.T) (*graphql.Resolver, *telemetry.Metrics) {
	t.Helper()

	registry := shipper.NewRegistry()
	registry.Register(mock.New("goexpress"))

	logger := otelzap.New(zap.NewNop())
	cfg := dhl.Config{UseMock: true}

	shipping, err := dhl.NewShippingClient(cfg, logger, nil)
	require.NoError(t, err)
	pickup, err := dhl.NewPickupClient(cfg, logger, nil)
	require.NoError(t, err)
	locations, err := dhl.NewLocationClient(cfg, logger, nil)
	require.NoError(t, err)
	returns, err := dhl.NewReturnsClient(cfg, logger, nil)
	require.NoError(t, err)
	postage, err := dhl.NewInternetmarkeClient(cfg, logger, nil)
	require.NoError(t, err)
	tracking, err := dhl.NewTrackingClient(cfg, logger, nil)
	require.NoError(t, err)

	registry.Register(shipping)
	registry.Register(tracking)
	registry.Register(pickup)
	registry.Register(locations)
	registry.Register(returns)
	registry.Register(postage)

	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	return graphql.NewResolver(registry, logger, metrics), metrics
}

func sampleShipmentInput(carrier string) graphql.CreateShipmentInput {
	return graphql.CreateShipmentInput{
		Carrier: carrier,
		Shipper: graphql.AddressInput{
			Name: "Tournevent GmbH", Street: "Sträßchensweg", HouseNumber: "10",
			PostalCode: "53113", City: "Bonn", CountryCode: "DEU",
		},
		Consignee: graphql.AddressInput{
			Name: "Erika Mustermann", Street: "Heinrich-Brüning-Str.", HouseNumber: "7",
			PostalCode: "53113", City: "Bonn", CountryCode: "DEU",
		},
		Packages:  []graphql.PackageInput{{WeightKg: 2.5}},
		Reference: "ORDER-3003",
	}
}

func TestQuery_Health(t *testing.T) {
	resolver, _ := newTestResolver(t)

	health, err := resolver.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", health)
}

func TestQuery_Carriers(t *testing.T) {
	resolver, _ := newTestResolver(t)

	carriers, err := resolver.Carriers(context.Background())
	require.NoError(t, err)
	require.Len(t, carriers, 2)

	assert.Equal(t, "dhl", carriers[0].Name)
	assert.Equal(t, []string{"shipping", "tracking", "pickup", "returns", "locations", "postage"}, carriers[0].Capabilities)
	assert.Equal(t, "goexpress", carriers[1].Name)
	assert.Equal(t, []string{"shipping", "tracking"}, carriers[1].Capabilities)
}

func TestMutation_CreateShipment_DHL(t *testing.T) {
	resolver, metrics := newTestResolver(t)

	input := sampleShipmentInput("dhl")
	input.DHL = &graphql.DHLShipmentInput{BillingNumber: "33333333330101", Product: "warenpost"}

	shipment, err := resolver.CreateShipment(context.Background(), input)
	require.NoError(t, err)
	assert.NotEmpty(t, shipment.ShipmentNumber)
	require.NotNil(t, shipment.Label)
	assert.Equal(t, "pdf", shipment.Label.Format)
	_, err = base64.StdEncoding.DecodeString(shipment.Label.Data)
	assert.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("createShipment", "dhl", "success")))
}

func TestMutation_CreateShipment_MissingBillingNumber(t *testing.T) {
	resolver, metrics := newTestResolver(t)

	input := sampleShipmentInput("dhl")
	input.DHL = &graphql.DHLShipmentInput{}

	_, err := resolver.CreateShipment(context.Background(), input)
	require.Error(t, err)
	assert.ErrorIs(t, err, shipper.ErrInvalidConfig)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("createShipment", "dhl", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CarrierErrors.WithLabelValues("dhl", "configuration")))
}

func TestMutation_CreateShipment_CarrierNotFound(t *testing.T) {
	resolver, _ := newTestResolver(t)

	_, err := resolver.CreateShipment(context.Background(), sampleShipmentInput("nonexistent"))
	assert.ErrorIs(t, err, shipper.ErrCarrierNotFound)
}

func TestMutation_ShipmentLifecycle_Mock(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	shipment, err := resolver.CreateShipment(ctx, sampleShipmentInput("goexpress"))
	require.NoError(t, err)
	assert.Equal(t, "ORDER-3003", shipment.Reference)

	label, err := resolver.GetLabel(ctx, graphql.GetLabelInput{Carrier: "goexpress", ShipmentNumber: shipment.ShipmentNumber, Format: "zpl"})
	require.NoError(t, err)
	assert.Equal(t, "zpl", label.Label.Format)

	tracking, err := resolver.Track(ctx, "goexpress", shipment.ShipmentNumber)
	require.NoError(t, err)
	assert.Equal(t, "pre_transit", tracking.Status)
	require.Len(t, tracking.Events, 1)
	assert.NotNil(t, tracking.Events[0].Timestamp)

	cancellation, err := resolver.CancelShipment(ctx, "goexpress", shipment.ShipmentNumber)
	require.NoError(t, err)
	assert.True(t, cancellation.Cancelled)
}

func TestQuery_TrackAll(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	shipment, err := resolver.CreateShipment(ctx, sampleShipmentInput("goexpress"))
	require.NoError(t, err)

	result, err := resolver.TrackAll(ctx, shipment.ShipmentNumber, []string{"goexpress", "unknown"})
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "goexpress", result.Results[0].Carrier)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "carrier not found")
}

func TestQuery_Locations(t *testing.T) {
	resolver, _ := newTestResolver(t)

	locations, err := resolver.Locations(context.Background(), graphql.LocationsInput{
		Carrier: "dhl", CountryCode: "DE", PostalCode: "53113", Types: []string{"locker"},
	})
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "locker", locations[0].Type)
	assert.Equal(t, "Bonn", locations[0].Address.City)
	assert.NotEmpty(t, locations[0].OpeningHours)

	_, err = resolver.Locations(context.Background(), graphql.LocationsInput{Carrier: "goexpress"})
	assert.ErrorIs(t, err, shipper.ErrCapabilityNotSupported)
}

func TestMutation_PickupLifecycle(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	date := "2026-05-06"
	pickup, err := resolver.SchedulePickup(ctx, graphql.SchedulePickupInput{
		Carrier:         "dhl",
		Address:         graphql.AddressInput{Name: "Tournevent GmbH", Street: "Sträßchensweg", HouseNumber: "10", PostalCode: "53113", City: "Bonn", CountryCode: "DE"},
		Contact:         graphql.ContactInput{Name: "Max Mustermann", Phone: "+49 228 123456"},
		Date:            &date,
		ShipmentNumbers: []string{"00340434161094042557"},
		BillingNumber:   "33333333330101",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pickup.OrderID)

	cancellation, err := resolver.CancelPickup(ctx, "dhl", pickup.OrderID)
	require.NoError(t, err)
	assert.True(t, cancellation.Cancelled)
}

func TestMutation_SchedulePickup_BadDate(t *testing.T) {
	resolver, _ := newTestResolver(t)

	date := "06.05.2026"
	_, err := resolver.SchedulePickup(context.Background(), graphql.SchedulePickupInput{Carrier: "dhl", Date: &date, BillingNumber: "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date must be a date like 2006-01-02")
}

func TestMutation_Stamps(t *testing.T) {
	resolver, _ := newTestResolver(t)
	ctx := context.Background()

	order, err := resolver.BuyStamps(ctx, graphql.BuyStampsInput{
		Carrier: "dhl",
		Items: []graphql.StampItemInput{
			{ProductCode: 1, Price: graphql.MoneyInput{Amount: 0.95, Currency: "EUR"}},
		},
		PageFormatID: 1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, order.ShopOrderID)
	require.Len(t, order.Vouchers, 1)
	assert.Equal(t, "EUR", order.WalletBalance.Currency)

	refund, err := resolver.RefundStamps(ctx, graphql.RefundStampsInput{
		Carrier: "dhl", ShopOrderID: order.ShopOrderID, VoucherIDs: []string{order.Vouchers[0].ID},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refund.ShopRetoureID)
}

func TestResolver_NewResolver(t *testing.T) {
	resolver := graphql.NewResolver(shipper.NewRegistry(), nil, nil)
	require.NotNil(t, resolver.Logger)

	carriers, err := resolver.Carriers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, carriers)

	_, err = resolver.Track(context.Background(), "dhl", "123")
	assert.ErrorIs(t, err, shipper.ErrCarrierNotFound)
}
