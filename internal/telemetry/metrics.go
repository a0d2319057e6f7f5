package telemetry

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tournevent/carrierlink/pkg/shipper"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CarrierErrors   *prometheus.CounterVec
	Exchanges       *prometheus.HistogramVec
	TokenRefreshes  *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer to use the global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carrierlink_requests_total",
				Help: "Total number of requests by operation, carrier, and status",
			},
			[]string{"operation", "carrier", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "carrierlink_request_duration_seconds",
				Help:    "Request duration in seconds by operation and carrier",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "carrier"},
		),
		CarrierErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carrierlink_carrier_errors_total",
				Help: "Total carrier API errors by carrier and error kind",
			},
			[]string{"carrier", "kind"},
		),
		Exchanges: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "carrierlink_carrier_exchange_duration_seconds",
				Help:    "Duration of single HTTP exchanges with a carrier by method and status code",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"carrier", "method", "code"},
		),
		TokenRefreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carrierlink_token_refreshes_total",
				Help: "Total OAuth2 token refreshes by carrier and outcome",
			},
			[]string{"carrier", "outcome"},
		),
	}
}

// RecordRequest records a request metric.
func (m *Metrics) RecordRequest(operation, carrier, status string, duration float64) {
	m.RequestsTotal.WithLabelValues(operation, carrier, status).Inc()
	m.RequestDuration.WithLabelValues(operation, carrier).Observe(duration)
}

// RecordError records a carrier error metric, labelled with the error kind.
func (m *Metrics) RecordError(carrier string, err error) {
	kind := "unknown"
	var shipperErr *shipper.ShipperError
	if errors.As(err, &shipperErr) {
		kind = string(shipperErr.Kind)
	}
	m.CarrierErrors.WithLabelValues(carrier, kind).Inc()
}

// ObserveExchange matches transport.Observer. A zero status means the exchange failed before a response.
func (m *Metrics) ObserveExchange(carrier, method, _ string, status int, elapsed time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.Exchanges.WithLabelValues(carrier, method, code).Observe(elapsed.Seconds())
}

// ObserveTokenRefresh matches auth.RefreshHook.
func (m *Metrics) ObserveTokenRefresh(carrier string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.TokenRefreshes.WithLabelValues(carrier, outcome).Inc()
}
