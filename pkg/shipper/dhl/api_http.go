package dhl

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/tournevent/carrierlink/pkg/shipper/auth"
	"github.com/tournevent/carrierlink/pkg/shipper/transport"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP.
//
// DHL authenticates its API families differently, so the client keeps one
// transport per family: Parcel DE (API key plus ROPC bearer token), the
// API-key-only services, and Internetmarke (its own bearer token).
type HTTPAPIClient struct {
	parcel        *transport.Client
	keyed         *transport.Client
	internetmarke *transport.Client
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *HTTPAPIClient {
	baseURL := cfg.baseURL()

	cache := cfg.TokenCache
	if cache == nil {
		cache = auth.NewTokenCache(auth.NewOAuth2Fetcher(cfg.HTTPClient), auth.WithLogger(logger))
	}

	creds := cfg.Credentials
	apiKey := auth.NewAPIKey(apiKeyHeader, creds.APIKey)

	parcelToken := auth.NewBearer(cache, auth.ClientCredentials{
		Carrier:      carrierName,
		TokenURL:     baseURL + pathParcelToken,
		GrantType:    auth.GrantPassword,
		ClientID:     creds.APIKey,
		ClientSecret: creds.APISecret,
		Username:     creds.Username,
		Password:     creds.Password,
	})

	imToken := auth.NewBearer(cache, auth.ClientCredentials{
		Carrier:      carrierName,
		TokenURL:     baseURL + pathIMToken,
		GrantType:    auth.GrantClientCredentials,
		ClientID:     creds.APIKey,
		ClientSecret: creds.APISecret,
		Username:     creds.Username,
		Password:     creds.Password,
	})

	newTransport := func(a auth.Authenticator) *transport.Client {
		return transport.New(transport.Config{
			Carrier:    carrierName,
			BaseURL:    baseURL,
			Auth:       a,
			Timeout:    cfg.Timeout,
			HTTPClient: cfg.HTTPClient,
			Limiter:    cfg.Limiter,
			Logger:     logger,
			Tracer:     tracer,
			Observer:   cfg.Observer,
		})
	}

	return &HTTPAPIClient{
		parcel:        newTransport(auth.Chain{apiKey, parcelToken}),
		keyed:         newTransport(apiKey),
		internetmarke: newTransport(imToken),
	}
}

// CreateOrders creates shipments.
// POST /parcel/de/shipping/v2/orders
func (c *HTTPAPIClient) CreateOrders(ctx context.Context, req *OrderRequest, query OrderQuery) (*OrderResponse, error) {
	var result OrderResponse
	err := c.parcel.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   pathOrders,
		Query:  query.values(),
		Body:   req,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetOrder fetches the documents of an existing shipment.
// GET /parcel/de/shipping/v2/orders?shipment={shipmentNo}
func (c *HTTPAPIClient) GetOrder(ctx context.Context, shipmentNo string, query OrderQuery) (*OrderResponse, error) {
	q := query.values()
	q.Set("shipment", shipmentNo)

	var result OrderResponse
	if err := c.parcel.Do(ctx, transport.Request{Method: http.MethodGet, Path: pathOrders, Query: q}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteOrder cancels a shipment that was not yet manifested.
// DELETE /parcel/de/shipping/v2/orders?shipment={shipmentNo}
func (c *HTTPAPIClient) DeleteOrder(ctx context.Context, shipmentNo, profile string) (*OrderResponse, error) {
	q := url.Values{}
	q.Set("profile", profile)
	q.Set("shipment", shipmentNo)

	var result OrderResponse
	if err := c.parcel.Do(ctx, transport.Request{Method: http.MethodDelete, Path: pathOrders, Query: q}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Track fetches unified tracking data.
// GET /track/shipments
func (c *HTTPAPIClient) Track(ctx context.Context, query TrackingQuery) (*TrackingResponse, error) {
	q := url.Values{}
	q.Set("trackingNumber", query.TrackingNumber)
	setIf(q, "service", query.Service)
	setIf(q, "language", query.Language)
	setIf(q, "recipientPostalCode", query.RecipientPostalCode)
	setIf(q, "originCountryCode", query.OriginCountryCode)

	var result TrackingResponse
	if err := c.keyed.Do(ctx, transport.Request{Method: http.MethodGet, Path: pathTracking, Query: q}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreatePickup books a pickup.
// POST /parcel/de/transportation/pickup/v3/orders
func (c *HTTPAPIClient) CreatePickup(ctx context.Context, req *PickupOrderRequest) (*PickupOrderResponse, error) {
	q := url.Values{}
	q.Set("validate", "false")

	var result PickupOrderResponse
	if err := c.parcel.Do(ctx, transport.Request{Method: http.MethodPost, Path: pathPickupOrders, Query: q, Body: req}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPickup fetches a pickup order.
// GET /parcel/de/transportation/pickup/v3/orders?orderID={orderID}
func (c *HTTPAPIClient) GetPickup(ctx context.Context, orderID string) ([]PickupOrderDetails, error) {
	q := url.Values{}
	q.Set("orderID", orderID)

	var result []PickupOrderDetails
	if err := c.parcel.Do(ctx, transport.Request{Method: http.MethodGet, Path: pathPickupOrders, Query: q}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CancelPickup cancels a pickup order.
// DELETE /parcel/de/transportation/pickup/v3/orders?orderID={orderID}
func (c *HTTPAPIClient) CancelPickup(ctx context.Context, orderID string) (*PickupCancelResponse, error) {
	q := url.Values{}
	q.Set("orderID", orderID)

	var result PickupCancelResponse
	if err := c.parcel.Do(ctx, transport.Request{Method: http.MethodDelete, Path: pathPickupOrders, Query: q}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateReturn creates a return label.
// POST /parcel/de/shipping/returns/v1/orders?labelType={labelType}
func (c *HTTPAPIClient) CreateReturn(ctx context.Context, req *ReturnOrderRequest, labelType string) (*ReturnOrderResponse, error) {
	q := url.Values{}
	q.Set("labelType", labelType)

	var result ReturnOrderResponse
	if err := c.parcel.Do(ctx, transport.Request{Method: http.MethodPost, Path: pathReturnOrders, Query: q, Body: req}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FindLocations searches service locations near an address.
// GET /location-finder/v1/find-by-address
func (c *HTTPAPIClient) FindLocations(ctx context.Context, search LocationSearch) (*LocationList, error) {
	q := url.Values{}
	q.Set("countryCode", search.CountryCode)
	setIf(q, "postalCode", search.PostalCode)
	setIf(q, "addressLocality", search.AddressLocality)
	setIf(q, "streetAddress", search.StreetAddress)
	if search.Radius > 0 {
		q.Set("radius", strconv.Itoa(search.Radius))
	}
	if search.Limit > 0 {
		q.Set("limit", strconv.Itoa(search.Limit))
	}
	for _, t := range search.LocationTypes {
		q.Add("locationType", t)
	}

	var result LocationList
	if err := c.keyed.Do(ctx, transport.Request{Method: http.MethodGet, Path: pathFindByAddress, Query: q}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetLocation fetches one location by id.
// GET /location-finder/v1/locations/{id}
func (c *HTTPAPIClient) GetLocation(ctx context.Context, id string) (*APILocation, error) {
	var result APILocation
	if err := c.keyed.Do(ctx, transport.Request{Method: http.MethodGet, Path: pathLocations + url.PathEscape(id)}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InitShoppingCart reserves a shop order id.
// POST /post/de/shipping/im/v1/app/shoppingcart
func (c *HTTPAPIClient) InitShoppingCart(ctx context.Context) (*CartInitResponse, error) {
	var result CartInitResponse
	if err := c.internetmarke.Do(ctx, transport.Request{Method: http.MethodPost, Path: pathIMCart}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CheckoutPDF buys the stamps of a cart and renders them as PDF.
// POST /post/de/shipping/im/v1/app/shoppingcart/pdf
func (c *HTTPAPIClient) CheckoutPDF(ctx context.Context, req *CartPDFRequest) (*CartPDFResponse, error) {
	q := url.Values{}
	q.Set("validate", "false")

	var result CartPDFResponse
	if err := c.internetmarke.Do(ctx, transport.Request{Method: http.MethodPost, Path: pathIMCartCheckout, Query: q, Body: req}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Retoure refunds vouchers of a shop order.
// POST /post/de/shipping/im/v1/app/retoure
func (c *HTTPAPIClient) Retoure(ctx context.Context, req *RetoureRequest) (*RetoureResponse, error) {
	var result RetoureResponse
	if err := c.internetmarke.Do(ctx, transport.Request{Method: http.MethodPost, Path: pathIMRetoure, Body: req}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (q OrderQuery) values() url.Values {
	v := url.Values{}
	setIf(v, "docFormat", q.DocFormat)
	setIf(v, "printFormat", q.PrintFormat)
	setIf(v, "profile", q.Profile)
	if q.Validate {
		v.Set("validate", "true")
	}
	return v
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

var _ APIClient = (*HTTPAPIClient)(nil)

// notFound is returned when a 2xx response does not contain the requested object.
func notFound(what, id string) error {
	return shipper.NewShipperError(carrierName, "NOT_FOUND", what+" "+id+" not found").WithCause(shipper.ErrShipmentNotFound)
}
