package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/tournevent/carrierlink/pkg/shipper"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port      int    `envconfig:"PORT" default:"80"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// Carrier HTTP
	CarrierTimeout time.Duration `envconfig:"CARRIER_TIMEOUT" default:"30s"`
	TokenMargin    time.Duration `envconfig:"TOKEN_EXPIRY_MARGIN" default:"5s"`

	DHL       DHLConfig       `envconfig:"DHL"`
	GOExpress GOExpressConfig `envconfig:"GOEXPRESS"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"true"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"carrierlink"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// DHLConfig is read from DHL_* variables.
type DHLConfig struct {
	Enabled    bool   `envconfig:"ENABLED" default:"true"`
	UseMock    bool   `envconfig:"USE_MOCK" default:"false"`
	UseSandbox bool   `envconfig:"USE_SANDBOX" default:"false"`
	BaseURL    string `envconfig:"BASE_URL"`

	APIKey    string `envconfig:"API_KEY"`
	APISecret string `envconfig:"API_SECRET"`
	Username  string `envconfig:"USERNAME"`
	Password  string `envconfig:"PASSWORD"`

	// TrackingRate throttles the unified tracking API, in requests per second. Zero disables it.
	TrackingRate float64 `envconfig:"TRACKING_RATE" default:"1"`

	// Internetmarke is a separate portal account.
	InternetmarkeEnabled  bool   `envconfig:"INTERNETMARKE_ENABLED" default:"false"`
	InternetmarkeUsername string `envconfig:"INTERNETMARKE_USERNAME"`
	InternetmarkePassword string `envconfig:"INTERNETMARKE_PASSWORD"`
}

// GOExpressConfig is read from GOEXPRESS_* variables.
type GOExpressConfig struct {
	Enabled            bool   `envconfig:"ENABLED" default:"true"`
	UseMock            bool   `envconfig:"USE_MOCK" default:"false"`
	UseSandbox         bool   `envconfig:"USE_SANDBOX" default:"false"`
	BaseURL            string `envconfig:"BASE_URL"`
	Username           string `envconfig:"USERNAME"`
	Password           string `envconfig:"PASSWORD"`
	CustomerID         string `envconfig:"CUSTOMER_ID"`
	ResponsibleStation string `envconfig:"RESPONSIBLE_STATION"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Credentials returns the DHL business account credentials.
func (c DHLConfig) Credentials() shipper.Credentials {
	return shipper.Credentials{
		Username:      c.Username,
		Password:      c.Password,
		APIKey:        c.APIKey,
		APISecret:     c.APISecret,
		UseSandbox:    c.UseSandbox,
		CustomBaseURL: c.BaseURL,
	}
}

// InternetmarkeCredentials returns the portal account credentials, sharing the API key.
func (c DHLConfig) InternetmarkeCredentials() shipper.Credentials {
	creds := c.Credentials()
	creds.Username = c.InternetmarkeUsername
	creds.Password = c.InternetmarkePassword
	return creds
}

// Credentials returns the GO! Express credentials.
func (c GOExpressConfig) Credentials() shipper.Credentials {
	return shipper.Credentials{
		Username:      c.Username,
		Password:      c.Password,
		UseSandbox:    c.UseSandbox,
		CustomBaseURL: c.BaseURL,
	}
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("dhl.enabled", c.DHL.Enabled),
		attribute.Bool("dhl.sandbox", c.DHL.UseSandbox),
		attribute.Bool("goexpress.enabled", c.GOExpress.Enabled),
		attribute.Bool("goexpress.sandbox", c.GOExpress.UseSandbox),
	}
}
