package dhl

import (
	"context"
	"math"
	"strconv"

	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultPageFormatID is the Internetmarke page format used when none is set.
const DefaultPageFormatID = 1

// InternetmarkeClient buys and refunds Deutsche Post stamps.
type InternetmarkeClient struct {
	client
}

// NewInternetmarkeClient creates an Internetmarke client.
func NewInternetmarkeClient(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) (*InternetmarkeClient, error) {
	c, err := newClient(cfg, validateInternetmarke, logger, tracer)
	if err != nil {
		return nil, err
	}
	return &InternetmarkeClient{client: c}, nil
}

// NewInternetmarkeClientWithAPIClient creates an Internetmarke client with a custom API client.
func NewInternetmarkeClientWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger) *InternetmarkeClient {
	return &InternetmarkeClient{client: newClientWithAPI(cfg, apiClient, logger)}
}

var _ shipper.PostageProvider = (*InternetmarkeClient)(nil)

// BuyStamps opens a shopping cart and checks it out as a PDF.
func (c *InternetmarkeClient) BuyStamps(ctx context.Context, req *shipper.StampOrderRequest) (*shipper.StampOrder, error) {
	if len(req.Items) == 0 {
		return nil, shipper.NewConfigError(carrierName, "at least one stamp is required")
	}

	c.logger.Ctx(ctx).Info("Buying Internetmarke stamps", zap.Int("item_count", len(req.Items)))

	cart, err := c.apiClient.InitShoppingCart(ctx)
	if err != nil {
		c.logger.Ctx(ctx).Error("DHL API error", zap.Error(err))
		return nil, err
	}

	pageFormat := req.PageFormatID
	if pageFormat == 0 {
		pageFormat = DefaultPageFormatID
	}

	checkout := &CartPDFRequest{
		Type:               "AppShoppingCartPDFRequest",
		ShopOrderID:        cart.ShopOrderID,
		CreateManifest:     true,
		CreateShippingList: "0",
		DPI:                "DPI203",
		PageFormatID:       pageFormat,
	}
	currency := "EUR"
	for i, item := range req.Items {
		checkout.Total += toCents(item.Price.Amount)
		if item.Price.Currency != "" {
			currency = item.Price.Currency
		}

		pos := CartPosition{
			ProductCode:   item.ProductCode,
			VoucherLayout: "FRANKING_ZONE",
			PositionType:  "AppShoppingCartPosition",
			Position:      LabelPosition{LabelX: 1, LabelY: i + 1, Page: 1},
		}
		if item.Sender != nil && item.Receiver != nil {
			pos.VoucherLayout = "ADDRESS_ZONE"
			pos.Address = &CartAddressPair{
				Sender:   cartAddress(*item.Sender),
				Receiver: cartAddress(*item.Receiver),
			}
		}
		checkout.Positions = append(checkout.Positions, pos)
	}

	apiResp, err := c.apiClient.CheckoutPDF(ctx, checkout)
	if err != nil {
		c.logger.Ctx(ctx).Error("DHL API error", zap.Error(err))
		return nil, err
	}

	out := &shipper.StampOrder{
		ShopOrderID:   apiResp.ShoppingCart.ShopOrderID,
		LabelURL:      apiResp.Link,
		WalletBalance: shipper.Money{Amount: float64(apiResp.WalletBalance) / 100, Currency: currency},
	}
	if out.ShopOrderID == "" {
		out.ShopOrderID = cart.ShopOrderID
	}
	for _, v := range apiResp.ShoppingCart.VoucherList {
		out.Vouchers = append(out.Vouchers, shipper.Voucher{ID: v.VoucherID, TrackID: v.TrackID})
	}
	return out, nil
}

// RefundStamps refunds vouchers of a shop order. No voucher ids refunds the whole order.
func (c *InternetmarkeClient) RefundStamps(ctx context.Context, shopOrderID string, voucherIDs []string) (*shipper.StampRefund, error) {
	c.logger.Ctx(ctx).Info("Refunding Internetmarke stamps",
		zap.String("shop_order_id", shopOrderID),
		zap.Int("voucher_count", len(voucherIDs)),
	)

	apiResp, err := c.apiClient.Retoure(ctx, &RetoureRequest{ShopOrderID: shopOrderID, VoucherIDs: voucherIDs})
	if err != nil {
		c.logger.Ctx(ctx).Error("DHL API error", zap.Error(err))
		return nil, err
	}

	return &shipper.StampRefund{
		RetoureID:     strconv.Itoa(apiResp.RetoureTransactionID),
		ShopRetoureID: apiResp.ShopRetoureID,
	}, nil
}

func cartAddress(a shipper.Address) CartAddress {
	line1 := a.Street
	if a.HouseNumber != "" {
		line1 += " " + a.HouseNumber
	}
	return CartAddress{
		Name:         a.Name,
		AddressLine1: line1,
		AddressLine2: a.Name2,
		PostalCode:   a.PostalCode,
		City:         a.City,
		Country:      a.CountryCode,
	}
}

func toCents(amount float64) int {
	return int(math.Round(amount * 100))
}
