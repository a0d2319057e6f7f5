package dhl_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/tournevent/carrierlink/pkg/shipper/dhl"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func testLogger() *otelzap.Logger {
	return otelzap.New(zap.NewNop())
}

func newTestShippingClient(mockClient *dhl.MockAPIClient) *dhl.ShippingClient {
	return dhl.NewShippingClientWithAPIClient(dhl.Config{}, mockClient, testLogger())
}

func sampleShipment() *shipper.ShipmentRequest {
	shipDate := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	return &shipper.ShipmentRequest{
		Shipper: shipper.Address{
			Name:        "Tournevent GmbH",
			Street:      "Sträßchensweg",
			HouseNumber: "10",
			PostalCode:  "53113",
			City:        "Bonn",
			CountryCode: "DEU",
		},
		Consignee: shipper.Address{
			Name:        "Erika Mustermann",
			Street:      "Heinrich-Brüning-Str.",
			HouseNumber: "7",
			PostalCode:  "53113",
			City:        "Bonn",
			CountryCode: "DEU",
		},
		Packages: []shipper.Package{{
			WeightKG:   2.5,
			Dimensions: &shipper.Dimensions{LengthCM: 30, WidthCM: 20, HeightCM: 10},
		}},
		Reference:   "ORDER-1001",
		ShipDate:    &shipDate,
		LabelFormat: shipper.LabelZPL,
		Options: dhl.ShipmentOptions{
			BillingNumber: "33333333330101",
			Product:       dhl.ProductWarenpost,
		},
	}
}

func TestShippingClient_CreateShipment_MapsRequest(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	var captured *dhl.OrderRequest
	var capturedQuery dhl.OrderQuery
	mockAPI.OnCreateOrders = func(ctx context.Context, req *dhl.OrderRequest, query dhl.OrderQuery) (*dhl.OrderResponse, error) {
		captured = req
		capturedQuery = query
		return &dhl.OrderResponse{Items: []dhl.OrderItem{{
			ShipmentNo:    "00340434161094042557",
			ShipmentRefNo: req.Shipments[0].RefNo,
			RoutingCode:   "40327653113+99000933090010",
			Label:         &dhl.Document{B64: base64.StdEncoding.EncodeToString([]byte("^XA^XZ")), FileFormat: "ZPL2"},
			ValidationMessages: []dhl.ValidationMessage{
				{Property: "consignee.addressHouse", ValidationMessage: "House number corrected", ValidationState: "Warning"},
			},
		}}}, nil
	}
	client := newTestShippingClient(mockAPI)

	resp, err := client.CreateShipment(context.Background(), sampleShipment())
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, dhl.DefaultProfile, captured.Profile)
	require.Len(t, captured.Shipments, 1)
	s := captured.Shipments[0]
	assert.Equal(t, "V53WPAK", s.Product)
	assert.Equal(t, "33333333330101", s.BillingNumber)
	assert.Equal(t, "ORDER-1001", s.RefNo)
	assert.Equal(t, "2024-05-02", s.ShipDate)
	assert.Equal(t, "Erika Mustermann", s.Consignee.Name1)
	assert.Equal(t, "Heinrich-Brüning-Str.", s.Consignee.AddressStreet)
	assert.Equal(t, "7", s.Consignee.AddressHouse)
	assert.Equal(t, "DEU", s.Consignee.Country)
	assert.Equal(t, dhl.Weight{UOM: "kg", Value: 2.5}, s.Details.Weight)
	require.NotNil(t, s.Details.Dim)
	assert.Equal(t, "cm", s.Details.Dim.UOM)
	assert.Nil(t, s.Services)
	assert.Equal(t, "ZPL2", capturedQuery.DocFormat)

	assert.Equal(t, "00340434161094042557", resp.ShipmentNumber)
	assert.Equal(t, "ORDER-1001", resp.Reference)
	assert.Equal(t, "40327653113+99000933090010", resp.RoutingCode)
	assert.Equal(t, shipper.LabelZPL, resp.Label.Format)
	assert.Equal(t, []byte("^XA^XZ"), resp.Label.Data)
	require.Len(t, resp.ValidationMessages, 1)
	assert.Equal(t, shipper.SeverityWarning, resp.ValidationMessages[0].Severity)
}

func TestShippingClient_CreateShipment_OmitsAbsentFields(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	var body []byte
	mockAPI.OnCreateOrders = func(ctx context.Context, req *dhl.OrderRequest, query dhl.OrderQuery) (*dhl.OrderResponse, error) {
		var err error
		body, err = json.Marshal(req)
		require.NoError(t, err)
		return &dhl.OrderResponse{Items: []dhl.OrderItem{{ShipmentNo: "1"}}}, nil
	}
	client := newTestShippingClient(mockAPI)

	req := sampleShipment()
	req.Packages[0].Dimensions = nil
	req.ShipDate = nil
	req.Reference = ""

	_, err := client.CreateShipment(context.Background(), req)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	shipment := doc["shipments"].([]any)[0].(map[string]any)
	assert.NotContains(t, shipment, "services")
	assert.NotContains(t, shipment, "shipDate")
	assert.NotContains(t, shipment, "refNo")
	details := shipment["details"].(map[string]any)
	assert.NotContains(t, details, "dim")
	assert.Equal(t, "kg", details["weight"].(map[string]any)["uom"])
}

func TestShippingClient_CreateShipment_Services(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	var vas *dhl.VAS
	mockAPI.OnCreateOrders = func(ctx context.Context, req *dhl.OrderRequest, query dhl.OrderQuery) (*dhl.OrderResponse, error) {
		vas = req.Shipments[0].Services
		return &dhl.OrderResponse{Items: []dhl.OrderItem{{ShipmentNo: "1"}}}, nil
	}
	client := newTestShippingClient(mockAPI)

	req := sampleShipment()
	req.Options = dhl.ShipmentOptions{
		BillingNumber: "33333333330101",
		Services: &dhl.Services{
			PreferredNeighbour:  "Neighbour left",
			GoGreenPlus:         true,
			AdditionalInsurance: &shipper.Money{Amount: 500, Currency: "EUR"},
			CashOnDelivery:      &shipper.Money{Amount: 19.99, Currency: "EUR"},
		},
	}

	_, err := client.CreateShipment(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, vas)
	assert.Equal(t, "Neighbour left", vas.PreferredNeighbour)
	assert.True(t, vas.GoGreenPlus)
	assert.Equal(t, &dhl.Value{Currency: "EUR", Value: 500}, vas.AdditionalInsurance)
	require.NotNil(t, vas.CashOnDelivery)
	assert.Equal(t, dhl.Value{Currency: "EUR", Value: 19.99}, vas.CashOnDelivery.Amount)
}

func TestShippingClient_CreateShipment_RejectsLocally(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*shipper.ShipmentRequest)
	}{
		{"two packages", func(r *shipper.ShipmentRequest) { r.Packages = append(r.Packages, shipper.Package{WeightKG: 1}) }},
		{"no packages", func(r *shipper.ShipmentRequest) { r.Packages = nil }},
		{"missing billing number", func(r *shipper.ShipmentRequest) { r.Options = dhl.ShipmentOptions{} }},
		{"foreign options", func(r *shipper.ShipmentRequest) { r.Options = nil }},
		{"unknown product", func(r *shipper.ShipmentRequest) {
			r.Options = dhl.ShipmentOptions{BillingNumber: "1", Product: "freight"}
		}},
		{"unknown label format", func(r *shipper.ShipmentRequest) { r.LabelFormat = "png" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAPI := dhl.NewMockAPIClient()
			called := false
			mockAPI.OnCreateOrders = func(ctx context.Context, req *dhl.OrderRequest, query dhl.OrderQuery) (*dhl.OrderResponse, error) {
				called = true
				return nil, nil
			}
			client := newTestShippingClient(mockAPI)

			req := sampleShipment()
			tt.mutate(req)
			_, err := client.CreateShipment(context.Background(), req)

			require.Error(t, err)
			assert.ErrorIs(t, err, shipper.ErrInvalidConfig)
			assert.False(t, called)
		})
	}
}

func TestShippingClient_CreateShipment_APIError(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	mockAPI.SimulateErrors = true
	client := newTestShippingClient(mockAPI)

	_, err := client.CreateShipment(context.Background(), sampleShipment())
	require.Error(t, err)

	var shipperErr *shipper.ShipperError
	require.True(t, errors.As(err, &shipperErr))
	assert.Equal(t, "dhl", shipperErr.Carrier)
	assert.True(t, shipperErr.Retryable)
}

func TestShippingClient_SimulatedLatency(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	mockAPI.SimulateLatency = 20 * time.Millisecond
	client := newTestShippingClient(mockAPI)

	start := time.Now()
	_, err := client.CreateShipment(context.Background(), sampleShipment())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	mockAPI.SimulateLatency = time.Minute
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = client.CreateShipment(ctx, sampleShipment())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestShippingClient_CancelShipment(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	mockAPI.OnDeleteOrder = func(ctx context.Context, shipmentNo, profile string) (*dhl.OrderResponse, error) {
		assert.Equal(t, dhl.DefaultProfile, profile)
		return &dhl.OrderResponse{Items: []dhl.OrderItem{{
			ShipmentNo: shipmentNo,
			SStatus:    dhl.Status{Title: "OK", StatusCode: 200},
		}}}, nil
	}
	client := newTestShippingClient(mockAPI)

	result, err := client.CancelShipment(context.Background(), "00340434161094042557")
	require.NoError(t, err)
	assert.True(t, result.Cancelled)
	assert.Equal(t, "00340434161094042557", result.ShipmentNumber)
	assert.Equal(t, "OK", result.Message)
}

func TestShippingClient_CancelShipment_NoMatchingItem(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	mockAPI.OnDeleteOrder = func(ctx context.Context, shipmentNo, profile string) (*dhl.OrderResponse, error) {
		return &dhl.OrderResponse{Items: []dhl.OrderItem{{
			ShipmentNo: "00340434161094000000",
			SStatus:    dhl.Status{Title: "OK", StatusCode: 200},
		}}}, nil
	}
	client := newTestShippingClient(mockAPI)

	result, err := client.CancelShipment(context.Background(), "00340434161094042557")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, shipper.ErrShipmentNotFound))
	assert.Contains(t, err.Error(), "00340434161094042557")
}

func TestShippingClient_CancelShipment_AlreadyManifested(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	mockAPI.OnDeleteOrder = func(ctx context.Context, shipmentNo, profile string) (*dhl.OrderResponse, error) {
		return &dhl.OrderResponse{Items: []dhl.OrderItem{{
			ShipmentNo: shipmentNo,
			SStatus:    dhl.Status{Title: "Bad Request", StatusCode: 400, Detail: "Shipment already manifested"},
		}}}, nil
	}
	client := newTestShippingClient(mockAPI)

	result, err := client.CancelShipment(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, result.Cancelled)
	assert.Equal(t, "Shipment already manifested", result.Message)
}

func TestShippingClient_GetLabel(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	client := newTestShippingClient(mockAPI)

	resp, err := client.GetLabel(context.Background(), &shipper.GetLabelRequest{ShipmentNumber: "123"})
	require.NoError(t, err)
	assert.Equal(t, "123", resp.ShipmentNumber)
	assert.Equal(t, shipper.LabelPDF, resp.Label.Format)
	assert.NotEmpty(t, resp.Label.Data)
}

func TestShippingClient_GetLabel_Missing(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	mockAPI.OnGetOrder = func(ctx context.Context, shipmentNo string, query dhl.OrderQuery) (*dhl.OrderResponse, error) {
		return &dhl.OrderResponse{}, nil
	}
	client := newTestShippingClient(mockAPI)

	_, err := client.GetLabel(context.Background(), &shipper.GetLabelRequest{ShipmentNumber: "123"})
	assert.ErrorIs(t, err, shipper.ErrShipmentNotFound)
}

func TestShippingClient_Name(t *testing.T) {
	assert.Equal(t, "dhl", newTestShippingClient(dhl.NewMockAPIClient()).Name())
}
