package dhl_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/tournevent/carrierlink/pkg/shipper/dhl"
)

func TestTrackingClient_KeepsCarrierEventOrder(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	var captured dhl.TrackingQuery
	mockAPI.OnTrack = func(ctx context.Context, query dhl.TrackingQuery) (*dhl.TrackingResponse, error) {
		captured = query
		return &dhl.TrackingResponse{Shipments: []dhl.TrackedShipment{{
			ID:     query.TrackingNumber,
			Status: dhl.TrackingEvent{StatusCode: "out-for-delivery"},
			Events: []dhl.TrackingEvent{
				{Timestamp: "2024-05-01T08:00:00Z", StatusCode: "pre-transit", Description: "first"},
				{Timestamp: "2024-05-03T08:00:00Z", StatusCode: "out-for-delivery", Description: "third"},
				{Timestamp: "2024-05-02T08:00:00Z", StatusCode: "transit", Description: "second"},
			},
			EstimatedTimeOfDelivery: "2024-05-03T18:00:00Z",
		}}}, nil
	}
	client := dhl.NewTrackingClientWithAPIClient(dhl.Config{}, mockAPI, testLogger())

	result, err := client.Track(context.Background(), "123", &shipper.TrackOptions{Language: "en", RecipientPostalCode: "53113"})
	require.NoError(t, err)

	assert.Equal(t, "en", captured.Language)
	assert.Equal(t, "53113", captured.RecipientPostalCode)
	assert.Equal(t, shipper.StatusOutForDelivery, result.Status)
	require.Len(t, result.Events, 3)
	assert.Equal(t, "first", result.Events[0].Description)
	assert.Equal(t, "third", result.Events[1].Description)
	assert.Equal(t, "second", result.Events[2].Description)
	require.NotNil(t, result.EstimatedDelivery)
	assert.Equal(t, 18, result.EstimatedDelivery.Hour())
}

func TestTrackingClient_LocalTimestamps(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	mockAPI.OnTrack = func(ctx context.Context, query dhl.TrackingQuery) (*dhl.TrackingResponse, error) {
		return &dhl.TrackingResponse{Shipments: []dhl.TrackedShipment{{
			ID:     query.TrackingNumber,
			Status: dhl.TrackingEvent{StatusCode: "transit"},
			Events: []dhl.TrackingEvent{
				{Timestamp: "2023-04-17T10:38:00", Description: "x"},
				{Timestamp: "2023-04-17T10:38:00.000+02:00", Description: "y"},
				{Description: "no time"},
			},
			EstimatedTimeOfDelivery: "2023-04-18T16:00:00",
		}}}, nil
	}
	client := dhl.NewTrackingClientWithAPIClient(dhl.Config{}, mockAPI, testLogger())

	result, err := client.Track(context.Background(), "123", nil)
	require.NoError(t, err)

	require.Len(t, result.Events, 3)
	want := time.Date(2023, 4, 17, 8, 38, 0, 0, time.UTC)
	assert.True(t, want.Equal(result.Events[0].Timestamp), "got %s", result.Events[0].Timestamp)
	assert.True(t, want.Equal(result.Events[1].Timestamp), "got %s", result.Events[1].Timestamp)
	assert.True(t, result.Events[2].Timestamp.IsZero())
	require.NotNil(t, result.EstimatedDelivery)
	assert.Equal(t, 16, result.EstimatedDelivery.Hour())
}

func TestTrackingClient_InvalidTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		shipment dhl.TrackedShipment
	}{
		{"event", dhl.TrackedShipment{ID: "123", Events: []dhl.TrackingEvent{{Timestamp: "17.04.2023 10:38"}}}},
		{"estimated delivery", dhl.TrackedShipment{ID: "123", EstimatedTimeOfDelivery: "tomorrow"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAPI := dhl.NewMockAPIClient()
			mockAPI.OnTrack = func(ctx context.Context, query dhl.TrackingQuery) (*dhl.TrackingResponse, error) {
				return &dhl.TrackingResponse{Shipments: []dhl.TrackedShipment{tt.shipment}}, nil
			}
			client := dhl.NewTrackingClientWithAPIClient(dhl.Config{}, mockAPI, testLogger())

			result, err := client.Track(context.Background(), "123", nil)
			require.Error(t, err)
			assert.Nil(t, result)

			var shipperErr *shipper.ShipperError
			require.ErrorAs(t, err, &shipperErr)
			assert.Equal(t, shipper.CodeDeserialization, shipperErr.Code)
			assert.Equal(t, "dhl", shipperErr.Carrier)
		})
	}
}

func TestTrackingClient_EmptyResult(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	mockAPI.OnTrack = func(ctx context.Context, query dhl.TrackingQuery) (*dhl.TrackingResponse, error) {
		return &dhl.TrackingResponse{}, nil
	}
	client := dhl.NewTrackingClientWithAPIClient(dhl.Config{}, mockAPI, testLogger())

	_, err := client.Track(context.Background(), "123", nil)
	assert.ErrorIs(t, err, shipper.ErrShipmentNotFound)
}

func TestPickupClient_SchedulePickup(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	var captured *dhl.PickupOrderRequest
	mockAPI.OnCreatePickup = func(ctx context.Context, req *dhl.PickupOrderRequest) (*dhl.PickupOrderResponse, error) {
		captured = req
		resp := &dhl.PickupOrderResponse{}
		resp.Confirmation.Value = dhl.PickupOrderDetails{
			OrderID:            "P123",
			PickupDate:         "2024-05-06",
			FreeOfCharge:       true,
			ConfirmedShipments: req.ShipmentDetails.Shipments,
		}
		return resp, nil
	}
	client := dhl.NewPickupClientWithAPIClient(dhl.Config{}, mockAPI, testLogger())

	conf, err := client.SchedulePickup(context.Background(), &shipper.PickupRequest{
		Address:         sampleShipment().Shipper,
		Contact:         shipper.Contact{Name: "Max", Phone: "+49 228 1234"},
		Date:            time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC),
		ShipmentNumbers: []string{"A", "B"},
		TotalWeightKG:   12,
		Options:         dhl.PickupOptions{BillingNumber: "33333333330101"},
	})
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, "33333333330101", captured.CustomerDetails.BillingNumber)
	assert.Equal(t, dhl.PickupDate{Type: "Date", Value: "2024-05-06"}, captured.PickupDetails.PickupDate)
	assert.Equal(t, &dhl.Weight{UOM: "kg", Value: 12}, captured.PickupDetails.TotalWeight)
	require.Len(t, captured.ShipmentDetails.Shipments, 2)
	assert.Equal(t, "PAKET", captured.ShipmentDetails.Shipments[0].TransportationType)
	require.Len(t, captured.ContactPerson, 1)

	assert.Equal(t, "P123", conf.OrderID)
	assert.True(t, conf.FreeOfCharge)
	assert.Equal(t, []string{"A", "B"}, conf.ConfirmedShipments)
	require.NotNil(t, conf.PickupDate)
	assert.Equal(t, time.May, conf.PickupDate.Month())
}

func TestPickupClient_RequiresBillingNumber(t *testing.T) {
	client := dhl.NewPickupClientWithAPIClient(dhl.Config{}, dhl.NewMockAPIClient(), testLogger())
	_, err := client.SchedulePickup(context.Background(), &shipper.PickupRequest{Date: time.Now()})
	assert.ErrorIs(t, err, shipper.ErrInvalidConfig)
}

func TestPickupClient_GetAndCancel(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	client := dhl.NewPickupClientWithAPIClient(dhl.Config{}, mockAPI, testLogger())

	conf, err := client.GetPickup(context.Background(), "P123")
	require.NoError(t, err)
	assert.Equal(t, "P123", conf.OrderID)

	cancel, err := client.CancelPickup(context.Background(), "P123")
	require.NoError(t, err)
	assert.True(t, cancel.Cancelled)
	assert.Equal(t, "CANCELLED", cancel.State)

	mockAPI.OnCancelPickup = func(ctx context.Context, orderID string) (*dhl.PickupCancelResponse, error) {
		return &dhl.PickupCancelResponse{FailedCancellations: []dhl.PickupCancelState{{OrderID: orderID, Message: "too late"}}}, nil
	}
	cancel, err = client.CancelPickup(context.Background(), "P123")
	require.NoError(t, err)
	assert.False(t, cancel.Cancelled)
	assert.Equal(t, "too late", cancel.State)

	mockAPI.OnGetPickup = func(ctx context.Context, orderID string) ([]dhl.PickupOrderDetails, error) {
		return nil, nil
	}
	_, err = client.GetPickup(context.Background(), "P999")
	assert.ErrorIs(t, err, shipper.ErrShipmentNotFound)
}

func TestReturnsClient_CreateReturn(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	var captured *dhl.ReturnOrderRequest
	var labelType string
	mockAPI.OnCreateReturn = func(ctx context.Context, req *dhl.ReturnOrderRequest, lt string) (*dhl.ReturnOrderResponse, error) {
		captured, labelType = req, lt
		return &dhl.ReturnOrderResponse{
			ShipmentNo:  "999990000000",
			RoutingCode: "RC",
			Label:       &dhl.Document{B64: "JVBERg==", FileFormat: "PDF"},
		}, nil
	}
	client := dhl.NewReturnsClientWithAPIClient(dhl.Config{}, mockAPI, testLogger())

	resp, err := client.CreateReturn(context.Background(), &shipper.ReturnRequest{
		Sender:     sampleShipment().Consignee,
		ReceiverID: "deu",
		Reference:  "RMA-1",
		WeightKG:   1.2,
		Value:      &shipper.Money{Amount: 49.9, Currency: "EUR"},
	})
	require.NoError(t, err)

	assert.Equal(t, dhl.ReturnLabelBoth, labelType)
	assert.Equal(t, "deu", captured.ReceiverID)
	assert.Equal(t, "RMA-1", captured.CustomerReference)
	assert.Equal(t, &dhl.Weight{UOM: "kg", Value: 1.2}, captured.ItemWeight)
	assert.Equal(t, &dhl.Value{Currency: "EUR", Value: 49.9}, captured.ItemValue)

	assert.Equal(t, "999990000000", resp.ShipmentNumber)
	assert.Equal(t, []byte("%PDF"), resp.Label.Data)
	assert.Nil(t, resp.QRLabel)
}

func TestReturnsClient_RequiresReceiverID(t *testing.T) {
	client := dhl.NewReturnsClientWithAPIClient(dhl.Config{}, dhl.NewMockAPIClient(), testLogger())
	_, err := client.CreateReturn(context.Background(), &shipper.ReturnRequest{})
	assert.ErrorIs(t, err, shipper.ErrInvalidConfig)
}

func TestLocationClient_FindLocations(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	var captured dhl.LocationSearch
	mockAPI.OnFindLocations = func(ctx context.Context, q dhl.LocationSearch) (*dhl.LocationList, error) {
		captured = q
		return dhl.NewMockAPIClient().FindLocations(ctx, q)
	}
	client := dhl.NewLocationClientWithAPIClient(dhl.Config{}, mockAPI, testLogger())

	locs, err := client.FindLocations(context.Background(), &shipper.LocationQuery{
		CountryCode: "DE",
		PostalCode:  "53113",
		Types:       []shipper.LocationType{shipper.LocationLocker, shipper.LocationPostOffice},
		Limit:       5,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"locker", "postoffice"}, captured.LocationTypes)
	assert.Equal(t, 5, captured.Limit)
	require.Len(t, locs, 1)
	assert.Equal(t, "8003-4103183", locs[0].ID)
	assert.Equal(t, shipper.LocationLocker, locs[0].Type)
	assert.Equal(t, "Bonn", locs[0].Address.City)
	require.Len(t, locs[0].OpeningHours, 1)
	assert.Equal(t, "Monday", locs[0].OpeningHours[0].Day)
}

func TestLocationClient_RejectsUnknownType(t *testing.T) {
	client := dhl.NewLocationClientWithAPIClient(dhl.Config{}, dhl.NewMockAPIClient(), testLogger())
	_, err := client.FindLocations(context.Background(), &shipper.LocationQuery{
		CountryCode: "DE",
		Types:       []shipper.LocationType{"parcel_shop"},
	})
	assert.ErrorIs(t, err, shipper.ErrInvalidConfig)
}

func TestLocationClient_GetLocation(t *testing.T) {
	client := dhl.NewLocationClientWithAPIClient(dhl.Config{}, dhl.NewMockAPIClient(), testLogger())
	loc, err := client.GetLocation(context.Background(), "8003-1")
	require.NoError(t, err)
	assert.Equal(t, "8003-1", loc.ID)
	assert.InDelta(t, 50.71, loc.Latitude, 0.01)
}

func TestInternetmarkeClient_BuyStamps(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	mockAPI.OnInitShoppingCart = func(ctx context.Context) (*dhl.CartInitResponse, error) {
		return &dhl.CartInitResponse{ShopOrderID: "SO-1"}, nil
	}
	var captured *dhl.CartPDFRequest
	mockAPI.OnCheckoutPDF = func(ctx context.Context, req *dhl.CartPDFRequest) (*dhl.CartPDFResponse, error) {
		captured = req
		resp := &dhl.CartPDFResponse{Link: "https://im.example/SO-1.pdf", WalletBalance: 4321}
		resp.ShoppingCart.ShopOrderID = req.ShopOrderID
		resp.ShoppingCart.VoucherList = []dhl.CartVoucher{{VoucherID: "V1"}, {VoucherID: "V2", TrackID: "T2"}}
		return resp, nil
	}
	client := dhl.NewInternetmarkeClientWithAPIClient(dhl.Config{}, mockAPI, testLogger())

	sender, receiver := sampleShipment().Shipper, sampleShipment().Consignee
	order, err := client.BuyStamps(context.Background(), &shipper.StampOrderRequest{Items: []shipper.StampItem{
		{ProductCode: 1, Price: shipper.Money{Amount: 0.85, Currency: "EUR"}},
		{ProductCode: 11, Price: shipper.Money{Amount: 1.60, Currency: "EUR"}, Sender: &sender, Receiver: &receiver},
	}})
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, "SO-1", captured.ShopOrderID)
	assert.Equal(t, 245, captured.Total)
	assert.Equal(t, dhl.DefaultPageFormatID, captured.PageFormatID)
	require.Len(t, captured.Positions, 2)
	assert.Equal(t, "FRANKING_ZONE", captured.Positions[0].VoucherLayout)
	assert.Nil(t, captured.Positions[0].Address)
	assert.Equal(t, "ADDRESS_ZONE", captured.Positions[1].VoucherLayout)
	assert.Equal(t, "Sträßchensweg 10", captured.Positions[1].Address.Sender.AddressLine1)

	assert.Equal(t, "SO-1", order.ShopOrderID)
	assert.Equal(t, "https://im.example/SO-1.pdf", order.LabelURL)
	assert.Equal(t, shipper.Money{Amount: 43.21, Currency: "EUR"}, order.WalletBalance)
	assert.Equal(t, []shipper.Voucher{{ID: "V1"}, {ID: "V2", TrackID: "T2"}}, order.Vouchers)
}

func TestInternetmarkeClient_BuyStamps_Empty(t *testing.T) {
	client := dhl.NewInternetmarkeClientWithAPIClient(dhl.Config{}, dhl.NewMockAPIClient(), testLogger())
	_, err := client.BuyStamps(context.Background(), &shipper.StampOrderRequest{})
	assert.ErrorIs(t, err, shipper.ErrInvalidConfig)
}

func TestInternetmarkeClient_RefundStamps(t *testing.T) {
	mockAPI := dhl.NewMockAPIClient()
	var captured *dhl.RetoureRequest
	mockAPI.OnRetoure = func(ctx context.Context, req *dhl.RetoureRequest) (*dhl.RetoureResponse, error) {
		captured = req
		return &dhl.RetoureResponse{ShopRetoureID: "SR-1", RetoureTransactionID: 42}, nil
	}
	client := dhl.NewInternetmarkeClientWithAPIClient(dhl.Config{}, mockAPI, testLogger())

	refund, err := client.RefundStamps(context.Background(), "SO-1", []string{"V1"})
	require.NoError(t, err)
	assert.Equal(t, &dhl.RetoureRequest{ShopOrderID: "SO-1", VoucherIDs: []string{"V1"}}, captured)
	assert.Equal(t, "42", refund.RetoureID)
	assert.Equal(t, "SR-1", refund.ShopRetoureID)
}
