package mediator

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"runtime"
	"slices"
	"strings"

	"github.com/dmitrymomot/mediator/core/notification"
)

// Behavior wraps the handling of TReq requests. It may run code before and
// after calling next, or return without calling it.
type Behavior[TReq, TResp any] interface {
	Handle(ctx context.Context, req TReq, next Next[TReq, TResp]) (TResp, error)
}

// BehaviorFunc adapts a function to the Behavior interface.
type BehaviorFunc[TReq, TResp any] func(ctx context.Context, req TReq, next Next[TReq, TResp]) (TResp, error)

// Handle implements Behavior.
func (f BehaviorFunc[TReq, TResp]) Handle(ctx context.Context, req TReq, next Next[TReq, TResp]) (TResp, error) {
	return f(ctx, req, next)
}

// VoidBehavior wraps the handling of void TReq requests.
type VoidBehavior[TReq any] interface {
	Handle(ctx context.Context, req TReq, next VoidNext[TReq]) error
}

// VoidBehaviorFunc adapts a function to the VoidBehavior interface.
type VoidBehaviorFunc[TReq any] func(ctx context.Context, req TReq, next VoidNext[TReq]) error

// Handle implements VoidBehavior.
func (f VoidBehaviorFunc[TReq]) Handle(ctx context.Context, req TReq, next VoidNext[TReq]) error {
	return f(ctx, req, next)
}

// OpenBehavior wraps every request regardless of its type.
// For void requests next returns Unit{}.
type OpenBehavior interface {
	Handle(ctx context.Context, req any, next OpenNext) (any, error)
}

// OpenBehaviorFunc adapts a function to the OpenBehavior interface.
type OpenBehaviorFunc func(ctx context.Context, req any, next OpenNext) (any, error)

// Handle implements OpenBehavior.
func (f OpenBehaviorFunc) Handle(ctx context.Context, req any, next OpenNext) (any, error) {
	return f(ctx, req, next)
}

// Orderer is implemented by behaviors that declare their own position.
// Lower values run first (outermost).
type Orderer interface {
	Order() int
}

// BehaviorEntry is a registered behavior with its ordering key.
// Behavior holds a Behavior, VoidBehavior or OpenBehavior value.
type BehaviorEntry struct {
	Order    int
	Name     string
	Behavior any
}

type behaviorConfig struct {
	order    int
	hasOrder bool
	name     string
}

// BehaviorOption configures a behavior registration.
type BehaviorOption func(*behaviorConfig)

// WithOrder sets the ordering key. Lower values run first. Defaults to the
// behavior's Order() when it implements Orderer, otherwise 0.
func WithOrder(order int) BehaviorOption {
	return func(c *behaviorConfig) {
		c.order = order
		c.hasOrder = true
	}
}

// WithName sets the tie-break name. Defaults to the behavior's type or function name.
func WithName(name string) BehaviorOption {
	return func(c *behaviorConfig) {
		c.name = name
	}
}

func newBehaviorEntry(b any, opts []BehaviorOption) BehaviorEntry {
	cfg := &behaviorConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	entry := BehaviorEntry{Order: cfg.order, Name: cfg.name, Behavior: b}
	if !cfg.hasOrder {
		if o, ok := b.(Orderer); ok {
			entry.Order = o.Order()
		}
	}
	if entry.Name == "" {
		entry.Name = nameOf(b)
	}
	return entry
}

func compareEntries(a, b BehaviorEntry) int {
	if c := cmp.Compare(a.Order, b.Order); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}

// sortEntries orders entries by (Order, Name). Equal keys keep their
// registration order.
func sortEntries(entries []BehaviorEntry) {
	slices.SortStableFunc(entries, compareEntries)
}

// mergeEntries combines several resolved lists into one ordered list.
func mergeEntries(lists ...[]BehaviorEntry) []BehaviorEntry {
	var total int
	for _, l := range lists {
		total += len(l)
	}
	merged := make([]BehaviorEntry, 0, total)
	for _, l := range lists {
		merged = append(merged, l...)
	}
	sortEntries(merged)
	return merged
}

// adaptBehaviors converts entries resolved for a value-returning request into
// typed behaviors, wrapping open behaviors.
func adaptBehaviors[TReq, TResp any](entries []BehaviorEntry) ([]Behavior[TReq, TResp], error) {
	out := make([]Behavior[TReq, TResp], 0, len(entries))
	for _, e := range entries {
		switch b := e.Behavior.(type) {
		case Behavior[TReq, TResp]:
			out = append(out, b)
		case OpenBehavior:
			out = append(out, openAdapter[TReq, TResp]{b: b})
		default:
			return nil, fmt.Errorf("%w: %s is %T", ErrBehaviorTypeMismatch, e.Name, e.Behavior)
		}
	}
	return out, nil
}

// adaptVoidBehaviors converts entries resolved for a void request into
// unified behaviors over Unit.
func adaptVoidBehaviors[TReq any](entries []BehaviorEntry) ([]Behavior[TReq, Unit], error) {
	out := make([]Behavior[TReq, Unit], 0, len(entries))
	for _, e := range entries {
		switch b := e.Behavior.(type) {
		case VoidBehavior[TReq]:
			out = append(out, AsUnified(b))
		case Behavior[TReq, Unit]:
			out = append(out, b)
		case OpenBehavior:
			out = append(out, openAdapter[TReq, Unit]{b: b})
		default:
			return nil, fmt.Errorf("%w: %s is %T", ErrBehaviorTypeMismatch, e.Name, e.Behavior)
		}
	}
	return out, nil
}

// AsUnified adapts a void behavior to the Unit-returning pipeline.
func AsUnified[TReq any](b VoidBehavior[TReq]) Behavior[TReq, Unit] {
	return unifiedAdapter[TReq]{b: b}
}

type unifiedAdapter[TReq any] struct {
	b VoidBehavior[TReq]
}

func (a unifiedAdapter[TReq]) Handle(ctx context.Context, req TReq, next Next[TReq, Unit]) (Unit, error) {
	err := a.b.Handle(ctx, req, func(ctx context.Context, req TReq) error {
		_, err := next(ctx, req)
		return err
	})
	return Unit{}, err
}

type openAdapter[TReq, TResp any] struct {
	b OpenBehavior
}

func (a openAdapter[TReq, TResp]) Handle(ctx context.Context, req TReq, next Next[TReq, TResp]) (TResp, error) {
	out, err := a.b.Handle(ctx, req, func(ctx context.Context, r any) (any, error) {
		typed, ok := r.(TReq)
		if !ok {
			return nil, fmt.Errorf("%w: expected %s, got %T", ErrRequestTypeMismatch, typeName(reflect.TypeFor[TReq]()), r)
		}
		return next(ctx, typed)
	})

	var zero TResp
	if out == nil {
		return zero, err
	}
	resp, ok := out.(TResp)
	if !ok {
		if err != nil {
			return zero, err
		}
		return zero, fmt.Errorf("%w: expected %s, got %T", ErrResponseTypeMismatch, typeName(reflect.TypeFor[TResp]()), out)
	}
	return resp, err
}

func nameOf(v any) string {
	if n, ok := v.(interface{ Name() string }); ok {
		return n.Name()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Func && !rv.IsNil() {
		if fn := runtime.FuncForPC(rv.Pointer()); fn != nil {
			name := fn.Name()
			if i := strings.LastIndex(name, "/"); i >= 0 {
				name = name[i+1:]
			}
			return name
		}
	}

	return typeName(reflect.TypeOf(v))
}

func typeName(t reflect.Type) string {
	return notification.TypeName(t)
}
