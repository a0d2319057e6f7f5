package shipper

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Registry manages registered carriers by capability.
// One carrier name may be backed by several capability clients.
type Registry struct {
	mu        sync.RWMutex
	shippers  map[string]Shipper
	trackers  map[string]Tracker
	pickups   map[string]PickupScheduler
	returns   map[string]ReturnsProvider
	locations map[string]LocationFinder
	postage   map[string]PostageProvider
}

// NewRegistry creates a new carrier registry.
func NewRegistry() *Registry {
	return &Registry{
		shippers:  make(map[string]Shipper),
		trackers:  make(map[string]Tracker),
		pickups:   make(map[string]PickupScheduler),
		returns:   make(map[string]ReturnsProvider),
		locations: make(map[string]LocationFinder),
		postage:   make(map[string]PostageProvider),
	}
}

// Register files c under every capability it implements.
// Registering the same name and capability again overrides the previous entry.
func (r *Registry) Register(c Carrier) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if s, ok := c.(Shipper); ok {
		r.shippers[name] = s
	}
	if t, ok := c.(Tracker); ok {
		r.trackers[name] = t
	}
	if p, ok := c.(PickupScheduler); ok {
		r.pickups[name] = p
	}
	if rp, ok := c.(ReturnsProvider); ok {
		r.returns[name] = rp
	}
	if l, ok := c.(LocationFinder); ok {
		r.locations[name] = l
	}
	if p, ok := c.(PostageProvider); ok {
		r.postage[name] = p
	}
}

// Shipper returns the shipping client of a carrier.
func (r *Registry) Shipper(name string) (Shipper, error) {
	return lookup(r, r.shippers, name, "shipping")
}

// Tracker returns the tracking client of a carrier.
func (r *Registry) Tracker(name string) (Tracker, error) {
	return lookup(r, r.trackers, name, "tracking")
}

// PickupScheduler returns the pickup client of a carrier.
func (r *Registry) PickupScheduler(name string) (PickupScheduler, error) {
	return lookup(r, r.pickups, name, "pickup")
}

// ReturnsProvider returns the returns client of a carrier.
func (r *Registry) ReturnsProvider(name string) (ReturnsProvider, error) {
	return lookup(r, r.returns, name, "returns")
}

// LocationFinder returns the location finder of a carrier.
func (r *Registry) LocationFinder(name string) (LocationFinder, error) {
	return lookup(r, r.locations, name, "location finder")
}

// PostageProvider returns the postage client of a carrier.
func (r *Registry) PostageProvider(name string) (PostageProvider, error) {
	return lookup(r, r.postage, name, "postage")
}

func lookup[T any](r *Registry, m map[string]T, name, capability string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := m[name]; ok {
		return c, nil
	}
	var zero T
	if r.hasName(name) {
		return zero, fmt.Errorf("%w: %s has no %s client", ErrCapabilityNotSupported, name, capability)
	}
	return zero, fmt.Errorf("%w: %s", ErrCarrierNotFound, name)
}

// hasName reports whether any capability is registered under name. Callers hold r.mu.
func (r *Registry) hasName(name string) bool {
	for _, present := range []bool{
		has(r.shippers, name),
		has(r.trackers, name),
		has(r.pickups, name),
		has(r.returns, name),
		has(r.locations, name),
		has(r.postage, name),
	} {
		if present {
			return true
		}
	}
	return false
}

func has[T any](m map[string]T, name string) bool {
	_, ok := m[name]
	return ok
}

// Names returns the sorted names of all registered carriers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	add := func(name string) { seen[name] = struct{}{} }
	for name := range r.shippers {
		add(name)
	}
	for name := range r.trackers {
		add(name)
	}
	for name := range r.pickups {
		add(name)
	}
	for name := range r.returns {
		add(name)
	}
	for name := range r.locations {
		add(name)
	}
	for name := range r.postage {
		add(name)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered carriers.
func (r *Registry) Count() int {
	return len(r.Names())
}

// Capabilities returns the capabilities registered for a carrier.
func (r *Registry) Capabilities(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var caps []string
	if has(r.shippers, name) {
		caps = append(caps, "shipping")
	}
	if has(r.trackers, name) {
		caps = append(caps, "tracking")
	}
	if has(r.pickups, name) {
		caps = append(caps, "pickup")
	}
	if has(r.returns, name) {
		caps = append(caps, "returns")
	}
	if has(r.locations, name) {
		caps = append(caps, "locations")
	}
	if has(r.postage, name) {
		caps = append(caps, "postage")
	}
	return caps
}

// TrackAcross looks a tracking number up with several carriers in parallel.
// Each carrier gets its own independent call; an empty carrier list means every tracker.
// Errors from individual carriers are collected but don't fail the entire request.
func (r *Registry) TrackAcross(ctx context.Context, trackingNumber string, carriers []string) ([]*TrackingResult, []error) {
	if len(carriers) == 0 {
		r.mu.RLock()
		for name := range r.trackers {
			carriers = append(carriers, name)
		}
		r.mu.RUnlock()
		sort.Strings(carriers)
	}
	if len(carriers) == 0 {
		return nil, []error{ErrCarrierNotFound}
	}

	results := make([]*TrackingResult, 0, len(carriers))
	errs := make([]error, 0)
	mu := &sync.Mutex{}

	g, ctx := errgroup.WithContext(ctx)

	for _, name := range carriers {
		g.Go(func() error {
			t, err := r.Tracker(name)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}

			result, err := t.Track(ctx, trackingNumber, nil)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return nil // Don't fail the group, continue with other carriers
			}
			results = append(results, result)
			return nil
		})
	}

	_ = g.Wait()
	return results, errs
}
