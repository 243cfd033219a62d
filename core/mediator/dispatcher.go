package mediator

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/dmitrymomot/mediator/core/logger"
	"github.com/dmitrymomot/mediator/pkg/syncmap"
)

// Dispatcher routes each request to its single handler through the behaviors
// registered for the request's shape.
//
// Whether a shape has any behaviors is resolved once and cached. Shapes
// without behaviors invoke the handler directly.
type Dispatcher struct {
	registry HandlerRegistry
	presence *syncmap.Map[Shape, bool]
	logger   *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger for dispatcher diagnostics.
func WithDispatcherLogger(log *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if log != nil {
			d.logger = log
		}
	}
}

// NewDispatcher creates a dispatcher over registry.
// The registry must be fully populated before the first Send.
func NewDispatcher(registry HandlerRegistry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		presence: syncmap.New[Shape, bool](),
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Sender is anything requests can be sent through: a *Dispatcher or a *Mediator.
type Sender interface {
	dispatcher() *Dispatcher
}

func (d *Dispatcher) dispatcher() *Dispatcher {
	return d
}

// hasBehaviors reports whether any of the given shapes has behaviors.
// The answer is computed once per key shape.
func (d *Dispatcher) hasBehaviors(key Shape, shapes ...Shape) bool {
	return d.presence.LoadOrCompute(key, func() bool {
		var n int
		for _, s := range shapes {
			n += len(d.registry.ResolveBehaviors(s))
		}
		d.logger.Debug("behavior presence resolved",
			logger.Request(key.String()),
			logger.Count("behaviors", n))
		return n > 0
	})
}

// Send dispatches req to the handler registered for TReq and returns its response.
// The context is passed unchanged to every behavior and the handler, and
// their errors are returned as is.
//
// Example:
//
//	resp, err := mediator.Send[string](ctx, m, Ping{Text: "hi"})
func Send[TResp, TReq any](ctx context.Context, s Sender, req TReq) (TResp, error) {
	var zero TResp
	d := s.dispatcher()

	reqType := reflect.TypeFor[TReq]()
	h, ok := d.registry.ResolveHandler(reqType)
	if !ok {
		return zero, &HandlerNotFoundError{RequestType: reqType}
	}
	handler, ok := h.(RequestHandler[TReq, TResp])
	if !ok {
		return zero, fmt.Errorf("%w: %s is handled by %T, not a handler returning %s",
			ErrHandlerTypeMismatch, typeName(reqType), h, typeName(reflect.TypeFor[TResp]()))
	}

	shape := ShapeOf[TReq, TResp]()
	if !d.hasBehaviors(shape, shape, AnyShape) {
		return handler.Handle(ctx, req)
	}

	entries := mergeEntries(
		d.registry.ResolveBehaviors(shape),
		d.registry.ResolveBehaviors(AnyShape),
	)
	behaviors, err := adaptBehaviors[TReq, TResp](entries)
	if err != nil {
		return zero, err
	}

	return Compose(behaviors, handler.Handle)(ctx, req)
}

// SendVoid dispatches a void request to the handler registered for TReq.
// Void behaviors, Unit-returning behaviors for TReq and open behaviors share
// one chain ordered by (Order, Name).
//
// Example:
//
//	err := mediator.SendVoid(ctx, m, DeleteUser{ID: id})
func SendVoid[TReq any](ctx context.Context, s Sender, req TReq) error {
	d := s.dispatcher()

	reqType := reflect.TypeFor[TReq]()
	h, ok := d.registry.ResolveHandler(reqType)
	if !ok {
		return &HandlerNotFoundError{RequestType: reqType}
	}
	handler, ok := h.(VoidHandler[TReq])
	if !ok {
		return fmt.Errorf("%w: %s is handled by %T, not a void handler",
			ErrHandlerTypeMismatch, typeName(reqType), h)
	}

	shape, unified := VoidShapeOf[TReq](), UnifiedShapeOf[TReq]()
	if !d.hasBehaviors(shape, shape, unified, AnyShape) {
		return handler.Handle(ctx, req)
	}

	entries := mergeEntries(
		d.registry.ResolveBehaviors(shape),
		d.registry.ResolveBehaviors(unified),
		d.registry.ResolveBehaviors(AnyShape),
	)
	behaviors, err := adaptVoidBehaviors[TReq](entries)
	if err != nil {
		return err
	}

	return discardUnit(Compose(behaviors, unitTerminal[TReq](handler.Handle)))(ctx, req)
}
