// Package dhl provides integration with the DHL Parcel DE, unified tracking,
// location finder and Internetmarke APIs.
package dhl

import (
	"net/http"
	"time"

	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/tournevent/carrierlink/pkg/shipper/auth"
	"github.com/tournevent/carrierlink/pkg/shipper/transport"
	"golang.org/x/time/rate"
)

const carrierName = "dhl"

// Base URLs.
const (
	ProductionURL = "https://api-eu.dhl.com"
	SandboxURL    = "https://api-sandbox.dhl.com"
)

// API paths relative to the base URL.
const (
	pathParcelToken    = "/parcel/de/account/auth/ropc/v1/token"
	pathOrders         = "/parcel/de/shipping/v2/orders"
	pathTracking       = "/track/shipments"
	pathPickupOrders   = "/parcel/de/transportation/pickup/v3/orders"
	pathReturnOrders   = "/parcel/de/shipping/returns/v1/orders"
	pathFindByAddress  = "/location-finder/v1/find-by-address"
	pathLocations      = "/location-finder/v1/locations/"
	pathIMToken        = "/post/de/shipping/im/v1/user"
	pathIMCart         = "/post/de/shipping/im/v1/app/shoppingcart"
	pathIMCartCheckout = "/post/de/shipping/im/v1/app/shoppingcart/pdf"
	pathIMRetoure      = "/post/de/shipping/im/v1/app/retoure"

	apiKeyHeader = "dhl-api-key"
)

// Config holds DHL configuration. One Config serves every capability client;
// each client checks only the credentials it needs.
type Config struct {
	Credentials shipper.Credentials

	// TokenCache is shared between capability clients so that one credential
	// set is refreshed once. A private cache is created when nil.
	TokenCache *auth.TokenCache

	// Limiter throttles every exchange made by a capability client.
	Limiter *rate.Limiter

	HTTPClient *http.Client
	Timeout    time.Duration
	Observer   transport.Observer

	UseMock bool // When true, uses the mock API client
}

func (c Config) baseURL() string {
	return c.Credentials.BaseURL(ProductionURL, SandboxURL)
}

// Parcel DE endpoints (shipping, pickup, returns) use the ROPC bearer token
// together with the API key.
type parcelCredentials struct {
	Username      string `validate:"required"`
	Password      string `validate:"required"`
	APIKey        string `validate:"required"`
	APISecret     string `validate:"required"`
	CustomBaseURL string `validate:"omitempty,https_or_loopback"`
}

// Unified tracking and the location finder only need the API key.
type apiKeyCredentials struct {
	APIKey        string `validate:"required"`
	CustomBaseURL string `validate:"omitempty,https_or_loopback"`
}

// Internetmarke uses a client_credentials token issued for a portokasse user.
type internetmarkeCredentials struct {
	Username      string `validate:"required"`
	Password      string `validate:"required"`
	APIKey        string `validate:"required"`
	APISecret     string `validate:"required"`
	CustomBaseURL string `validate:"omitempty,https_or_loopback"`
}

func validateParcel(c shipper.Credentials) error {
	return shipper.ValidateConfig(carrierName, parcelCredentials{
		Username:      c.Username,
		Password:      c.Password,
		APIKey:        c.APIKey,
		APISecret:     c.APISecret,
		CustomBaseURL: c.CustomBaseURL,
	})
}

func validateAPIKey(c shipper.Credentials) error {
	return shipper.ValidateConfig(carrierName, apiKeyCredentials{
		APIKey:        c.APIKey,
		CustomBaseURL: c.CustomBaseURL,
	})
}

func validateInternetmarke(c shipper.Credentials) error {
	return shipper.ValidateConfig(carrierName, internetmarkeCredentials{
		Username:      c.Username,
		Password:      c.Password,
		APIKey:        c.APIKey,
		APISecret:     c.APISecret,
		CustomBaseURL: c.CustomBaseURL,
	})
}
