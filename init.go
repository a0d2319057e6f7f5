package main

import (
	"context"
	"net/http"

	"github.com/tournevent/carrierlink/internal/config"
	"github.com/tournevent/carrierlink/internal/telemetry"
	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/tournevent/carrierlink/pkg/shipper/auth"
	"github.com/tournevent/carrierlink/pkg/shipper/dhl"
	"github.com/tournevent/carrierlink/pkg/shipper/goexpress"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level, encoding string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level, encoding)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return otel.Tracer(cfg.ServiceName), func(context.Context) error { return nil }, nil
	}
	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Attributes()...)
}

func initShipperRegistry(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer, metrics *telemetry.Metrics) (*shipper.Registry, error) {
	registry := shipper.NewRegistry()
	httpClient := &http.Client{Timeout: cfg.CarrierTimeout}

	// One cache for every OAuth2 credential set, so each token is refreshed once.
	tokens := auth.NewTokenCache(auth.NewOAuth2Fetcher(httpClient),
		auth.WithExpiryMargin(cfg.TokenMargin),
		auth.WithLogger(logger),
		auth.WithRefreshHook(metrics.ObserveTokenRefresh),
	)

	if cfg.DHL.Enabled {
		if err := registerDHL(registry, cfg, tokens, httpClient, logger, tracer, metrics); err != nil {
			return nil, err
		}
	}

	if cfg.GOExpress.Enabled {
		gx, err := goexpress.New(goexpress.Config{
			Credentials:        cfg.GOExpress.Credentials(),
			CustomerID:         cfg.GOExpress.CustomerID,
			ResponsibleStation: cfg.GOExpress.ResponsibleStation,
			HTTPClient:         httpClient,
			Timeout:            cfg.CarrierTimeout,
			Observer:           metrics.ObserveExchange,
			UseMock:            cfg.GOExpress.UseMock,
		}, logger, tracer)
		if err != nil {
			return nil, err
		}
		registry.Register(gx)
	}

	return registry, nil
}

func registerDHL(registry *shipper.Registry, cfg *config.Config, tokens *auth.TokenCache, httpClient *http.Client, logger *otelzap.Logger, tracer trace.Tracer, metrics *telemetry.Metrics) error {
	base := dhl.Config{
		Credentials: cfg.DHL.Credentials(),
		TokenCache:  tokens,
		HTTPClient:  httpClient,
		Timeout:     cfg.CarrierTimeout,
		Observer:    metrics.ObserveExchange,
		UseMock:     cfg.DHL.UseMock,
	}

	shipping, err := dhl.NewShippingClient(base, logger, tracer)
	if err != nil {
		return err
	}
	pickup, err := dhl.NewPickupClient(base, logger, tracer)
	if err != nil {
		return err
	}
	returns, err := dhl.NewReturnsClient(base, logger, tracer)
	if err != nil {
		return err
	}
	locations, err := dhl.NewLocationClient(base, logger, tracer)
	if err != nil {
		return err
	}

	// Unified tracking is rate limited per API key.
	trackingCfg := base
	if cfg.DHL.TrackingRate > 0 {
		trackingCfg.Limiter = rate.NewLimiter(rate.Limit(cfg.DHL.TrackingRate), 1)
	}
	tracking, err := dhl.NewTrackingClient(trackingCfg, logger, tracer)
	if err != nil {
		return err
	}

	registry.Register(shipping)
	registry.Register(tracking)
	registry.Register(pickup)
	registry.Register(returns)
	registry.Register(locations)

	if cfg.DHL.InternetmarkeEnabled {
		imCfg := base
		imCfg.Credentials = cfg.DHL.InternetmarkeCredentials()
		postage, err := dhl.NewInternetmarkeClient(imCfg, logger, tracer)
		if err != nil {
			return err
		}
		registry.Register(postage)
	}
	return nil
}
