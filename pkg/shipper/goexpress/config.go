// Package goexpress provides integration with the GO! Express order API.
package goexpress

import (
	"net/http"
	"time"

	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/tournevent/carrierlink/pkg/shipper/transport"
	"golang.org/x/time/rate"
)

const carrierName = "goexpress"

// Base URLs.
const (
	ProductionURL = "https://ws.api.general-overnight.com/external/ci/order/api/v1"
	SandboxURL    = "https://ws-tst.api.general-overnight.com/external/ci/order/api/v1"
)

// Config holds GO! Express configuration.
type Config struct {
	Credentials shipper.Credentials

	// CustomerID is the GO! customer number, at most 7 characters.
	CustomerID string
	// ResponsibleStation is the three letter code of the GO! station serving the customer.
	ResponsibleStation string

	Limiter    *rate.Limiter
	HTTPClient *http.Client
	Timeout    time.Duration
	Observer   transport.Observer

	UseMock bool // When true, uses the mock API client
}

type validatedConfig struct {
	Username           string `validate:"required"`
	Password           string `validate:"required"`
	CustomerID         string `validate:"required,max=7"`
	ResponsibleStation string `validate:"required"`
	CustomBaseURL      string `validate:"omitempty,https_or_loopback"`
}

// Validate checks the configuration without any network access.
func (c Config) Validate() error {
	return shipper.ValidateConfig(carrierName, validatedConfig{
		Username:           c.Credentials.Username,
		Password:           c.Credentials.Password,
		CustomerID:         c.CustomerID,
		ResponsibleStation: c.ResponsibleStation,
		CustomBaseURL:      c.Credentials.CustomBaseURL,
	})
}

func (c Config) baseURL() string {
	return c.Credentials.BaseURL(ProductionURL, SandboxURL)
}
