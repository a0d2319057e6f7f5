package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/carrierlink/internal/config"
	"github.com/tournevent/carrierlink/internal/telemetry"
	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func mockConfig() *config.Config {
	return &config.Config{
		TokenMargin: 5 * time.Second,
		DHL: config.DHLConfig{
			Enabled:              true,
			UseMock:              true,
			TrackingRate:         1,
			InternetmarkeEnabled: true,
		},
		GOExpress: config.GOExpressConfig{Enabled: true, UseMock: true},
	}
}

func TestInitShipperRegistry_Mock(t *testing.T) {
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	registry, err := initShipperRegistry(mockConfig(), otelzap.New(zap.NewNop()), nil, metrics)
	require.NoError(t, err)

	assert.Equal(t, []string{"dhl", "goexpress"}, registry.Names())
	assert.Equal(t, []string{"shipping", "tracking", "pickup", "returns", "locations", "postage"}, registry.Capabilities("dhl"))
	assert.Equal(t, []string{"shipping", "tracking"}, registry.Capabilities("goexpress"))
}

func TestInitShipperRegistry_Disabled(t *testing.T) {
	cfg := mockConfig()
	cfg.DHL.InternetmarkeEnabled = false
	cfg.GOExpress.Enabled = false

	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	registry, err := initShipperRegistry(cfg, nil, nil, metrics)
	require.NoError(t, err)

	assert.Equal(t, []string{"dhl"}, registry.Names())
	_, err = registry.PostageProvider("dhl")
	assert.ErrorIs(t, err, shipper.ErrCapabilityNotSupported)
}

func TestInitShipperRegistry_InvalidCredentials(t *testing.T) {
	cfg := mockConfig()
	cfg.GOExpress.UseMock = false
	cfg.GOExpress.Username = "user"

	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	_, err := initShipperRegistry(cfg, nil, nil, metrics)
	require.Error(t, err)
	assert.ErrorIs(t, err, shipper.ErrInvalidConfig)
}

func TestTrackCommand(t *testing.T) {
	t.Setenv("DHL_USE_MOCK", "true")
	t.Setenv("GOEXPRESS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"track", "dhl", "00340434161094042557"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	var result shipper.TrackingResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, "00340434161094042557", result.ShipmentNumber)
	assert.Equal(t, shipper.StatusInTransit, result.Status)
}
