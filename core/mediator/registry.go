package mediator

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/dmitrymomot/mediator/core/notification"
)

// Shape identifies the pipeline of a request: its request type and its
// response type. Response is nil for void requests.
type Shape struct {
	Request  reflect.Type
	Response reflect.Type
}

// AnyShape keys open behaviors, which apply to every request.
var AnyShape = Shape{}

// ShapeOf returns the shape of value-returning TReq requests.
func ShapeOf[TReq, TResp any]() Shape {
	return Shape{Request: reflect.TypeFor[TReq](), Response: reflect.TypeFor[TResp]()}
}

// VoidShapeOf returns the shape of void TReq requests.
func VoidShapeOf[TReq any]() Shape {
	return Shape{Request: reflect.TypeFor[TReq]()}
}

// UnifiedShapeOf returns the shape of Unit-returning behaviors applied to void TReq requests.
func UnifiedShapeOf[TReq any]() Shape {
	return Shape{Request: reflect.TypeFor[TReq](), Response: unitType}
}

func (s Shape) String() string {
	if s == AnyShape {
		return "*"
	}
	if s.Response == nil {
		return typeName(s.Request)
	}
	return typeName(s.Request) + " -> " + typeName(s.Response)
}

// HandlerRegistry resolves handlers and behaviors. Implementations must be
// safe for concurrent reads and must not change after the first dispatch:
// the dispatcher caches whether a shape has behaviors.
type HandlerRegistry interface {
	// ResolveHandler returns the handler registered for a request type:
	// a RequestHandler or a VoidHandler.
	ResolveHandler(requestType reflect.Type) (any, bool)

	// ResolveBehaviors returns the behaviors registered for exactly this shape,
	// ordered by (Order, Name). It may return nil.
	ResolveBehaviors(shape Shape) []BehaviorEntry

	// ResolveNotificationHandlers returns the handlers of a notification type
	// in registration order. It may return nil.
	ResolveNotificationHandlers(notificationType reflect.Type) []notification.Executor
}

// Registry is an in-memory HandlerRegistry populated with the Register functions.
//
// Example:
//
//	reg := mediator.NewRegistry()
//	mediator.RegisterHandler(reg, mediator.HandlerFunc[Ping, string](handlePing))
//	mediator.RegisterBehavior(reg, auditBehavior, mediator.WithOrder(-10))
//	reg.RegisterOpenBehavior(mediator.LoggingBehavior(log))
//	mediator.RegisterNotificationHandler(reg, notification.HandlerFunc[OrderPlaced](sendReceipt))
type Registry struct {
	mu            sync.RWMutex
	handlers      map[reflect.Type]any
	behaviors     map[Shape][]BehaviorEntry
	notifications map[reflect.Type][]notification.Executor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers:      make(map[reflect.Type]any),
		behaviors:     make(map[Shape][]BehaviorEntry),
		notifications: make(map[reflect.Type][]notification.Executor),
	}
}

// ResolveHandler implements HandlerRegistry.
func (r *Registry) ResolveHandler(requestType reflect.Type) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[requestType]
	return h, ok
}

// ResolveBehaviors implements HandlerRegistry.
func (r *Registry) ResolveBehaviors(shape Shape) []BehaviorEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.behaviors[shape])
}

// ResolveNotificationHandlers implements HandlerRegistry.
func (r *Registry) ResolveNotificationHandlers(notificationType reflect.Type) []notification.Executor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.notifications[notificationType])
}

// RegisterOpenBehavior registers a behavior that wraps every request.
func (r *Registry) RegisterOpenBehavior(b OpenBehavior, opts ...BehaviorOption) error {
	if isNil(b) {
		return ErrNilHandler
	}
	r.addBehavior(AnyShape, newBehaviorEntry(b, opts))
	return nil
}

func (r *Registry) addHandler(requestType reflect.Type, h any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[requestType]; exists {
		return fmt.Errorf("%w: %s", ErrHandlerAlreadyRegistered, typeName(requestType))
	}
	r.handlers[requestType] = h
	return nil
}

func (r *Registry) addBehavior(shape Shape, entry BehaviorEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := append(r.behaviors[shape], entry)
	sortEntries(entries)
	r.behaviors[shape] = entries
}

// RegisterHandler registers the handler of value-returning TReq requests.
// Each request type has exactly one handler.
func RegisterHandler[TReq, TResp any](r *Registry, h RequestHandler[TReq, TResp]) error {
	if isNil(h) {
		return ErrNilHandler
	}
	return r.addHandler(reflect.TypeFor[TReq](), h)
}

// RegisterVoidHandler registers the handler of void TReq requests.
func RegisterVoidHandler[TReq any](r *Registry, h VoidHandler[TReq]) error {
	if isNil(h) {
		return ErrNilHandler
	}
	return r.addHandler(reflect.TypeFor[TReq](), h)
}

// RegisterBehavior registers a behavior for TReq requests answered with TResp.
func RegisterBehavior[TReq, TResp any](r *Registry, b Behavior[TReq, TResp], opts ...BehaviorOption) error {
	if isNil(b) {
		return ErrNilHandler
	}
	r.addBehavior(ShapeOf[TReq, TResp](), newBehaviorEntry(b, opts))
	return nil
}

// RegisterVoidBehavior registers a behavior for void TReq requests.
func RegisterVoidBehavior[TReq any](r *Registry, b VoidBehavior[TReq], opts ...BehaviorOption) error {
	if isNil(b) {
		return ErrNilHandler
	}
	r.addBehavior(VoidShapeOf[TReq](), newBehaviorEntry(b, opts))
	return nil
}

// RegisterUnifiedBehavior registers a Unit-returning behavior for void TReq
// requests. It runs in the same chain as void behaviors.
func RegisterUnifiedBehavior[TReq any](r *Registry, b Behavior[TReq, Unit], opts ...BehaviorOption) error {
	if isNil(b) {
		return ErrNilHandler
	}
	r.addBehavior(UnifiedShapeOf[TReq](), newBehaviorEntry(b, opts))
	return nil
}

// RegisterNotificationHandler appends a handler for notifications of type T.
// Handlers run in registration order under the sequential publisher.
func RegisterNotificationHandler[T any](r *Registry, h notification.Handler[T]) error {
	if isNil(h) {
		return ErrNilHandler
	}

	exec := notification.NewExecutor(h)

	r.mu.Lock()
	defer r.mu.Unlock()

	key := reflect.TypeFor[T]()
	r.notifications[key] = append(r.notifications[key], exec)
	return nil
}

// isNil reports whether v is nil or holds a nil reference,
// such as HandlerFunc[Ping, string](nil).
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Chan, reflect.Interface, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
