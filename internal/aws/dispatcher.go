package aws

import (
	"context"

	"cloudpwn/internal/logging"
)

// Dispatcher runs every routine registered for a service within one scope
type Dispatcher struct {
	registry *Registry
	connect  Connector
	limiters *RateLimiters
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithRateLimiters paces routines with per-region limiters
func WithRateLimiters(l *RateLimiters) DispatcherOption {
	return func(d *Dispatcher) {
		d.limiters = l
	}
}

// NewDispatcher creates a dispatcher over registry. A nil connect uses SessionConnector.
func NewDispatcher(registry *Registry, connect Connector, opts ...DispatcherOption) *Dispatcher {
	if connect == nil {
		connect = SessionConnector
	}
	d := &Dispatcher{
		registry: registry,
		connect:  connect,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the registry the dispatcher resolves services against
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// DispatchName resolves name and dispatches it. Unknown names return an
// *UnsupportedServiceError before any connection is made.
func (d *Dispatcher) DispatchName(ctx context.Context, name string, scope Scope) ([]Report, error) {
	service, ok := d.registry.Lookup(name)
	if !ok {
		return nil, &UnsupportedServiceError{
			Name:      name,
			Supported: ServiceNames(d.registry.Services()),
		}
	}
	return d.Dispatch(ctx, service, scope)
}

// Dispatch runs the routines of service in registration order. Routine
// failures are reported as failed results; the only error returned is the
// context's, together with the reports gathered before cancellation.
func (d *Dispatcher) Dispatch(ctx context.Context, service Service, scope Scope) ([]Report, error) {
	ctors := d.registry.Routines(service)
	if len(ctors) == 0 {
		return nil, &UnsupportedServiceError{
			Name:      service.String(),
			Supported: ServiceNames(d.registry.Services()),
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	region := scope.Region
	if service.Global() {
		region = GlobalRegion
	}

	clients, err := d.connect(scope)
	if err != nil {
		result := Failed("connect", err)
		placeholder := &Clients{Scope: scope}
		reports := make([]Report, 0, len(ctors))
		for _, ctor := range ctors {
			reports = append(reports, d.report(service, region, ctor(placeholder), result))
		}
		return reports, nil
	}

	limiter := d.limiters.For(scope.Region)
	reports := make([]Report, 0, len(ctors))
	for _, ctor := range ctors {
		if err := limiter.Wait(ctx); err != nil {
			return reports, err
		}

		e := ctor(clients)
		result := e.List(ctx)
		limiter.Observe(result)

		reports = append(reports, d.report(service, region, e, result))
	}
	return reports, nil
}

func (d *Dispatcher) report(service Service, region string, e Enumerator, result Result) Report {
	if result.Kind == ResultFailed && result.Failure != nil {
		logging.EnumerationFailed(e.Name(), region, result.Failure.Kind.String(), result.Failure.Error())
	} else {
		logging.RoutineComplete(e.Name(), region, result.Kind.String(), len(result.Rows))
	}
	return Report{
		Service: service,
		Region:  region,
		Name:    e.Name(),
		Label:   e.Label(),
		Headers: e.Headers(),
		Result:  result,
	}
}
