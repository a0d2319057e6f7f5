package goexpress_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/tournevent/carrierlink/pkg/shipper/goexpress"
)

func newFakeGO(t *testing.T, hits *atomic.Int32) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/createOrder", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "user" || pass != "pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var req goexpress.OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.ConsigneeAddress.ZipCode == "00000" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"E-ZIP","message":"Invalid zip code"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(goexpress.OrderResponse{
			HWBNumber:   "401234567890",
			OrderStatus: req.Shipment.OrderStatus,
			Label:       base64.StdEncoding.EncodeToString([]byte("%PDF")),
		})
	})

	mux.HandleFunc("/getStatus", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var req goexpress.StatusRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(goexpress.StatusResponse{
			HWBNumber: req.HWBNumber,
			Status:    goexpress.StatusEntry{StatusCode: "GO50"},
			History:   []goexpress.StatusEntry{{StatusCode: "GO50", StatusName: "Delivered", Date: "2026-05-05", Time: "11:02"}},
		})
	})

	return httptest.NewServer(mux)
}

func TestHTTPClient_CreateAndTrack(t *testing.T) {
	var hits atomic.Int32
	srv := newFakeGO(t, &hits)
	defer srv.Close()

	cfg := testConfig()
	cfg.Credentials.CustomBaseURL = srv.URL
	cfg.HTTPClient = srv.Client()

	client, err := goexpress.New(cfg, testLogger(), nil)
	require.NoError(t, err)

	req := sampleShipment()
	req.LabelFormat = shipper.LabelPDF
	resp, err := client.CreateShipment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "401234567890", resp.ShipmentNumber)
	assert.Equal(t, []byte("%PDF"), resp.Label.Data)

	result, err := client.Track(context.Background(), "401234567890", nil)
	require.NoError(t, err)
	assert.Equal(t, shipper.StatusDelivered, result.Status)
	assert.Equal(t, int32(2), hits.Load())
}

func TestHTTPClient_CarrierError(t *testing.T) {
	var hits atomic.Int32
	srv := newFakeGO(t, &hits)
	defer srv.Close()

	cfg := testConfig()
	cfg.Credentials.CustomBaseURL = srv.URL
	cfg.HTTPClient = srv.Client()

	client, err := goexpress.New(cfg, testLogger(), nil)
	require.NoError(t, err)

	req := sampleShipment()
	req.Consignee.PostalCode = "00000"
	_, err = client.CreateShipment(context.Background(), req)
	require.Error(t, err)

	var shipperErr *shipper.ShipperError
	require.ErrorAs(t, err, &shipperErr)
	assert.Equal(t, "E-ZIP", shipperErr.Code)
	assert.Equal(t, "Invalid zip code", shipperErr.Message)
	assert.Equal(t, http.StatusBadRequest, shipperErr.StatusCode)
	assert.False(t, shipperErr.Retryable)
}

func TestHTTPClient_WrongPasswordIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := newFakeGO(t, &hits)
	defer srv.Close()

	cfg := testConfig()
	cfg.Credentials.Password = "wrong"
	cfg.Credentials.CustomBaseURL = srv.URL
	cfg.HTTPClient = srv.Client()

	client, err := goexpress.New(cfg, testLogger(), nil)
	require.NoError(t, err)

	_, err = client.CreateShipment(context.Background(), sampleShipment())
	assert.ErrorIs(t, err, shipper.ErrAuthenticationFailed)
	assert.Equal(t, int32(1), hits.Load())
}

func TestNew_RejectsInvalidConfigBeforeAnyRequest(t *testing.T) {
	var hits atomic.Int32
	srv := newFakeGO(t, &hits)
	defer srv.Close()

	tests := []struct {
		name   string
		mutate func(*goexpress.Config)
		msg    string
	}{
		{"customer id too long", func(c *goexpress.Config) { c.CustomerID = "12345678" }, "customerid must be at most 7 characters"},
		{"missing customer id", func(c *goexpress.Config) { c.CustomerID = "" }, "customerid is required"},
		{"missing station", func(c *goexpress.Config) { c.ResponsibleStation = "" }, "responsiblestation is required"},
		{"missing password", func(c *goexpress.Config) { c.Credentials.Password = "" }, "password is required"},
		{"plain http", func(c *goexpress.Config) { c.Credentials.CustomBaseURL = "http://go.example" }, "custombaseurl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Credentials.CustomBaseURL = srv.URL
			tt.mutate(&cfg)

			_, err := goexpress.New(cfg, testLogger(), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, shipper.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
	assert.Equal(t, int32(0), hits.Load())

	cfg := testConfig()
	cfg.CustomerID = "1234567"
	assert.NoError(t, cfg.Validate())
}
