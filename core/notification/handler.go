package notification

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Handler processes notifications of type T.
type Handler[T any] interface {
	Handle(ctx context.Context, notification T) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc[T any] func(ctx context.Context, notification T) error

// Handle implements Handler.
func (f HandlerFunc[T]) Handle(ctx context.Context, notification T) error {
	return f(ctx, notification)
}

// HandleFunc is the type-erased continuation publishers invoke for one handler.
type HandleFunc func(ctx context.Context, notification any) error

// Executor pairs a handler's identity with its type-erased invocation.
// Publishers operate on executors so one publisher serves every notification type.
type Executor struct {
	Name   string
	Handle HandleFunc
}

// Namer is implemented by handlers that report their own name for logs and errors.
type Namer interface {
	Name() string
}

// NewExecutor wraps a typed handler. The executor name comes from Namer when
// implemented, the function name for HandlerFunc, or the handler's type name.
func NewExecutor[T any](h Handler[T]) Executor {
	return NamedExecutor(handlerName(h), h)
}

// NamedExecutor wraps a typed handler under an explicit name.
func NamedExecutor[T any](name string, h Handler[T]) Executor {
	return Executor{
		Name: name,
		Handle: func(ctx context.Context, notification any) error {
			typed, ok := notification.(T)
			if !ok {
				return fmt.Errorf("%w: %s got %T", ErrNotificationTypeMismatch, name, notification)
			}
			return h.Handle(ctx, typed)
		},
	}
}

// Executors wraps several handlers of the same notification type, keeping their order.
func Executors[T any](handlers ...Handler[T]) []Executor {
	out := make([]Executor, 0, len(handlers))
	for _, h := range handlers {
		out = append(out, NewExecutor(h))
	}
	return out
}

func handlerName(h any) string {
	if n, ok := h.(Namer); ok {
		return n.Name()
	}

	v := reflect.ValueOf(h)
	if v.Kind() == reflect.Func && !v.IsNil() {
		if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
			name := fn.Name()
			if i := strings.LastIndex(name, "/"); i >= 0 {
				name = name[i+1:]
			}
			return name
		}
	}

	return TypeName(reflect.TypeOf(h))
}

// TypeName returns the bare name of t, dereferencing pointers.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

func notificationName(n any) string {
	return TypeName(reflect.TypeOf(n))
}
