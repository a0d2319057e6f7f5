package graphql

import (
	"context"
	"time"

	"github.com/99designs/gqlgen/graphql/executor"
	"github.com/tournevent/carrierlink/internal/telemetry"
	"github.com/tournevent/carrierlink/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Resolver is the root resolver for the GraphQL schema.
// It holds dependencies needed by all resolvers.
type Resolver struct {
	Registry *shipper.Registry
	Logger   *otelzap.Logger
	Metrics  *telemetry.Metrics

	exec *executor.Executor
}

// NewResolver creates a new resolver with the given dependencies.
func NewResolver(registry *shipper.Registry, logger *otelzap.Logger, metrics *telemetry.Metrics) *Resolver {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	r := &Resolver{
		Registry: registry,
		Logger:   logger,
		Metrics:  metrics,
	}
	r.exec = newExecutor(r)
	return r
}

// observe records metrics for one resolver call and logs its failure.
func (r *Resolver) observe(ctx context.Context, operation, carrier string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		r.Logger.Ctx(ctx).Error("Resolver failed",
			zap.String("operation", operation),
			zap.String("carrier", carrier),
			zap.Error(err),
		)
	}
	if r.Metrics == nil {
		return
	}
	r.Metrics.RecordRequest(operation, carrier, status, time.Since(start).Seconds())
	if err != nil {
		r.Metrics.RecordError(carrier, err)
	}
}

// Health returns "ok".
func (r *Resolver) Health(_ context.Context) (string, error) {
	return "ok", nil
}

// Carriers lists the registered carriers and their capabilities.
func (r *Resolver) Carriers(_ context.Context) ([]Carrier, error) {
	names := r.Registry.Names()
	carriers := make([]Carrier, 0, len(names))
	for _, name := range names {
		carriers = append(carriers, Carrier{Name: name, Capabilities: r.Registry.Capabilities(name)})
	}
	return carriers, nil
}

// Track tracks a shipment with one carrier.
func (r *Resolver) Track(ctx context.Context, carrier, trackingNumber string) (_ *Tracking, err error) {
	defer func(start time.Time) { r.observe(ctx, "track", carrier, start, err) }(time.Now())

	tracker, err := r.Registry.Tracker(carrier)
	if err != nil {
		return nil, err
	}
	result, err := tracker.Track(ctx, trackingNumber, nil)
	if err != nil {
		return nil, err
	}
	out := trackingToModel(result)
	return &out, nil
}

// TrackAll asks several carriers for the same tracking number.
// Carriers that fail are reported in Errors; the call itself does not fail.
func (r *Resolver) TrackAll(ctx context.Context, trackingNumber string, carriers []string) (*TrackAllResult, error) {
	start := time.Now()
	results, errs := r.Registry.TrackAcross(ctx, trackingNumber, carriers)

	out := &TrackAllResult{
		Results: make([]Tracking, 0, len(results)),
		Errors:  make([]string, 0, len(errs)),
	}
	for _, result := range results {
		out.Results = append(out.Results, trackingToModel(result))
	}
	for _, err := range errs {
		out.Errors = append(out.Errors, err.Error())
	}
	r.observe(ctx, "trackAll", "all", start, nil)
	return out, nil
}

// CreateShipment books a shipment.
func (r *Resolver) CreateShipment(ctx context.Context, input CreateShipmentInput) (_ *Shipment, err error) {
	defer func(start time.Time) { r.observe(ctx, "createShipment", input.Carrier, start, err) }(time.Now())

	s, err := r.Registry.Shipper(input.Carrier)
	if err != nil {
		return nil, err
	}
	req, err := createShipmentInputToModel(input)
	if err != nil {
		return nil, err
	}
	resp, err := s.CreateShipment(ctx, req)
	if err != nil {
		return nil, err
	}
	return shipmentToModel(resp), nil
}

// CancelShipment cancels a booked shipment.
func (r *Resolver) CancelShipment(ctx context.Context, carrier, shipmentNumber string) (_ *Cancellation, err error) {
	defer func(start time.Time) { r.observe(ctx, "cancelShipment", carrier, start, err) }(time.Now())

	s, err := r.Registry.Shipper(carrier)
	if err != nil {
		return nil, err
	}
	result, err := s.CancelShipment(ctx, shipmentNumber)
	if err != nil {
		return nil, err
	}
	return &Cancellation{
		ShipmentNumber: result.ShipmentNumber,
		Cancelled:      result.Cancelled,
		Message:        result.Message,
	}, nil
}

// GetLabel fetches the label of a booked shipment.
func (r *Resolver) GetLabel(ctx context.Context, input GetLabelInput) (_ *Shipment, err error) {
	defer func(start time.Time) { r.observe(ctx, "getLabel", input.Carrier, start, err) }(time.Now())

	s, err := r.Registry.Shipper(input.Carrier)
	if err != nil {
		return nil, err
	}
	resp, err := s.GetLabel(ctx, &shipper.GetLabelRequest{
		ShipmentNumber: input.ShipmentNumber,
		Format:         shipper.LabelFormat(input.Format),
	})
	if err != nil {
		return nil, err
	}
	return &Shipment{ShipmentNumber: resp.ShipmentNumber, Label: labelToModel(&resp.Label)}, nil
}

// Locations searches drop-off and pickup locations.
func (r *Resolver) Locations(ctx context.Context, input LocationsInput) (_ []Location, err error) {
	defer func(start time.Time) { r.observe(ctx, "locations", input.Carrier, start, err) }(time.Now())

	finder, err := r.Registry.LocationFinder(input.Carrier)
	if err != nil {
		return nil, err
	}
	locations, err := finder.FindLocations(ctx, locationsInputToModel(input))
	if err != nil {
		return nil, err
	}
	out := make([]Location, 0, len(locations))
	for _, l := range locations {
		out = append(out, locationToModel(l))
	}
	return out, nil
}

// Location fetches one location by id.
func (r *Resolver) Location(ctx context.Context, carrier, id string) (_ *Location, err error) {
	defer func(start time.Time) { r.observe(ctx, "location", carrier, start, err) }(time.Now())

	finder, err := r.Registry.LocationFinder(carrier)
	if err != nil {
		return nil, err
	}
	l, err := finder.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	out := locationToModel(*l)
	return &out, nil
}

// SchedulePickup books a courier pickup.
func (r *Resolver) SchedulePickup(ctx context.Context, input SchedulePickupInput) (_ *Pickup, err error) {
	defer func(start time.Time) { r.observe(ctx, "schedulePickup", input.Carrier, start, err) }(time.Now())

	p, err := r.Registry.PickupScheduler(input.Carrier)
	if err != nil {
		return nil, err
	}
	req, err := schedulePickupInputToModel(input)
	if err != nil {
		return nil, err
	}
	confirmation, err := p.SchedulePickup(ctx, req)
	if err != nil {
		return nil, err
	}
	return pickupToModel(confirmation), nil
}

// Pickup fetches a booked pickup.
func (r *Resolver) Pickup(ctx context.Context, carrier, orderID string) (_ *Pickup, err error) {
	defer func(start time.Time) { r.observe(ctx, "pickup", carrier, start, err) }(time.Now())

	p, err := r.Registry.PickupScheduler(carrier)
	if err != nil {
		return nil, err
	}
	confirmation, err := p.GetPickup(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return pickupToModel(confirmation), nil
}

// CancelPickup cancels a booked pickup.
func (r *Resolver) CancelPickup(ctx context.Context, carrier, orderID string) (_ *PickupCancellation, err error) {
	defer func(start time.Time) { r.observe(ctx, "cancelPickup", carrier, start, err) }(time.Now())

	p, err := r.Registry.PickupScheduler(carrier)
	if err != nil {
		return nil, err
	}
	result, err := p.CancelPickup(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &PickupCancellation{OrderID: result.OrderID, Cancelled: result.Cancelled, State: result.State}, nil
}

// CreateReturn creates a return label.
func (r *Resolver) CreateReturn(ctx context.Context, input CreateReturnInput) (_ *Return, err error) {
	defer func(start time.Time) { r.observe(ctx, "createReturn", input.Carrier, start, err) }(time.Now())

	rp, err := r.Registry.ReturnsProvider(input.Carrier)
	if err != nil {
		return nil, err
	}
	resp, err := rp.CreateReturn(ctx, createReturnInputToModel(input))
	if err != nil {
		return nil, err
	}
	return returnToModel(resp), nil
}

// BuyStamps buys online postage.
func (r *Resolver) BuyStamps(ctx context.Context, input BuyStampsInput) (_ *StampOrder, err error) {
	defer func(start time.Time) { r.observe(ctx, "buyStamps", input.Carrier, start, err) }(time.Now())

	pp, err := r.Registry.PostageProvider(input.Carrier)
	if err != nil {
		return nil, err
	}
	order, err := pp.BuyStamps(ctx, buyStampsInputToModel(input))
	if err != nil {
		return nil, err
	}
	return stampOrderToModel(order), nil
}

// RefundStamps refunds unused stamps.
func (r *Resolver) RefundStamps(ctx context.Context, input RefundStampsInput) (_ *StampRefund, err error) {
	defer func(start time.Time) { r.observe(ctx, "refundStamps", input.Carrier, start, err) }(time.Now())

	pp, err := r.Registry.PostageProvider(input.Carrier)
	if err != nil {
		return nil, err
	}
	refund, err := pp.RefundStamps(ctx, input.ShopOrderID, input.VoucherIDs)
	if err != nil {
		return nil, err
	}
	return &StampRefund{RetoureID: refund.RetoureID, ShopRetoureID: refund.ShopRetoureID}, nil
}
