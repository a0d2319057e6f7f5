package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/carrierlink/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.CarrierTimeout)
	assert.Equal(t, 5*time.Second, cfg.TokenMargin)
	assert.True(t, cfg.DHL.Enabled)
	assert.Equal(t, 1.0, cfg.DHL.TrackingRate)
	assert.False(t, cfg.DHL.InternetmarkeEnabled)
	assert.True(t, cfg.GOExpress.Enabled)
	assert.Equal(t, "carrierlink", cfg.ServiceName)
}

func TestLoad_CarrierVariables(t *testing.T) {
	t.Setenv("DHL_API_KEY", "key")
	t.Setenv("DHL_API_SECRET", "secret")
	t.Setenv("DHL_USERNAME", "user")
	t.Setenv("DHL_PASSWORD", "pass")
	t.Setenv("DHL_USE_SANDBOX", "true")
	t.Setenv("DHL_INTERNETMARKE_USERNAME", "portal@example.org")
	t.Setenv("DHL_INTERNETMARKE_PASSWORD", "portal-pass")
	t.Setenv("GOEXPRESS_USERNAME", "go-user")
	t.Setenv("GOEXPRESS_PASSWORD", "go-pass")
	t.Setenv("GOEXPRESS_CUSTOMER_ID", "1234567")
	t.Setenv("GOEXPRESS_RESPONSIBLE_STATION", "FRA")
	t.Setenv("GOEXPRESS_BASE_URL", "http://localhost:9090")
	t.Setenv("CARRIER_TIMEOUT", "10s")

	cfg, err := config.Load()
	require.NoError(t, err)

	creds := cfg.DHL.Credentials()
	assert.Equal(t, "key", creds.APIKey)
	assert.Equal(t, "secret", creds.APISecret)
	assert.Equal(t, "user", creds.Username)
	assert.True(t, creds.UseSandbox)

	im := cfg.DHL.InternetmarkeCredentials()
	assert.Equal(t, "portal@example.org", im.Username)
	assert.Equal(t, "portal-pass", im.Password)
	assert.Equal(t, "key", im.APIKey)

	goCreds := cfg.GOExpress.Credentials()
	assert.Equal(t, "go-user", goCreds.Username)
	assert.Equal(t, "http://localhost:9090", goCreds.CustomBaseURL)
	assert.Equal(t, "1234567", cfg.GOExpress.CustomerID)
	assert.Equal(t, "FRA", cfg.GOExpress.ResponsibleStation)
	assert.Equal(t, 10*time.Second, cfg.CarrierTimeout)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestConfig_Attributes(t *testing.T) {
	t.Setenv("DHL_USE_SANDBOX", "true")
	t.Setenv("GOEXPRESS_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	attrs := make(map[string]any)
	for _, kv := range cfg.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, "carrierlink", attrs["service.name"])
	assert.Equal(t, true, attrs["dhl.enabled"])
	assert.Equal(t, true, attrs["dhl.sandbox"])
	assert.Equal(t, false, attrs["goexpress.enabled"])
}
