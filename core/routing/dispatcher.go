package routing

import (
	"context"
	"time"

	"github.com/anoideaopen/litbridge/core/descriptor"
	"github.com/anoideaopen/litbridge/core/logger"
	"github.com/anoideaopen/litbridge/core/metrics"
	"github.com/anoideaopen/litbridge/core/owner"
	"github.com/anoideaopen/litbridge/core/telemetry"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Dispatcher routes contract calls to the handler owning the method's descriptor.
// It is safe for concurrent use.
type Dispatcher struct {
	handlers *Handlers
	owners   owner.Registry
	tracer   trace.Tracer
	metrics  *metrics.Collector
	log      logrus.FieldLogger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithOwners sets the owner registry. The default is owner.BackRefs.
func WithOwners(owners owner.Registry) Option {
	return func(d *Dispatcher) {
		d.owners = owners
	}
}

// WithTracer sets the tracer of dispatch spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(d *Dispatcher) {
		d.tracer = tracer
	}
}

// WithMetrics enables dispatch metrics.
func WithMetrics(c *metrics.Collector) Option {
	return func(d *Dispatcher) {
		d.metrics = c
	}
}

// WithLogger sets the logger of configuration errors.
func WithLogger(log logrus.FieldLogger) Option {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// NewDispatcher returns a Dispatcher over the given handlers.
func NewDispatcher(handlers *Handlers, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers: handlers,
		owners:   owner.BackRefs{},
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.tracer == nil {
		d.tracer = otel.Tracer(telemetry.TracerName)
	}
	if d.log == nil {
		d.log = logger.Logger()
	}

	return d
}

// Owners returns the owner registry used to resolve contract instances.
func (d *Dispatcher) Owners() owner.Registry { return d.owners }

// Handlers returns the handler registry.
func (d *Dispatcher) Handlers() *Handlers { return d.handlers }

// Resolve returns the single handler owning one of m's descriptors.
func (d *Dispatcher) Resolve(m *Method) (Handler, error) {
	if m == nil {
		return nil, NewMethodError(ErrMethodInvalid, nil, "", "")
	}

	var (
		found Handler
		kinds []descriptor.Kind
	)
	for _, kind := range m.Kinds().Sorted() {
		h, ok := d.handlers.Lookup(kind)
		if !ok {
			continue
		}

		kinds = append(kinds, kind)
		found = h
	}

	switch len(kinds) {
	case 0:
		return nil, NewMethodError(ErrMethodInvalid, m, "", "no handler for %s", m.Kinds())
	case 1:
		return found, nil
	default:
		return nil, NewMethodError(ErrAmbiguousMethod, m, "", "handled kinds %s", descriptor.NewSet(kinds...))
	}
}

// Dispatch performs a call of m on the contract instance inst.
//
// Equals and HashCode are answered locally with false and 0.
// Any other method is handled by the handler owning its descriptor;
// the handler's result and error are returned as they are.
func (d *Dispatcher) Dispatch(ctx context.Context, inst *owner.Instance, m *Method, args ...any) (any, error) {
	if m != nil {
		switch m.Name {
		case MethodEquals:
			return false, nil
		case MethodHashCode:
			return 0, nil
		}
	}

	h, err := d.Resolve(m)
	if err != nil {
		d.log.WithError(err).Warn("contract method cannot be dispatched")
		d.metrics.ObserveDispatch("", metrics.OutcomeConfigError, 0)
		return nil, err
	}

	kind := h.Kind()
	ctx, span := d.tracer.Start(ctx, telemetry.SpanDispatch,
		trace.WithAttributes(telemetry.Method(m.Name), telemetry.Descriptor(string(kind))))
	defer span.End()

	start := time.Now()
	result, err := h.Handle(ctx, &Call{
		Instance: inst,
		Method:   m,
		Args:     args,
		Owners:   d.owners,
	})

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
		if IsConfigError(err) {
			outcome = metrics.OutcomeConfigError
			d.log.WithFields(logrus.Fields{
				"method":     m.Name,
				"descriptor": kind,
			}).WithError(err).Warn("contract method is misconfigured")
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	d.metrics.ObserveDispatch(string(kind), outcome, time.Since(start))

	return result, err
}
