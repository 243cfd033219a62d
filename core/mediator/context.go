package mediator

import (
	"context"
	"reflect"
)

type requestIDCtx struct{}

// WithRequestID attaches a request ID to the context for tracing and correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDCtx{}, id)
}

// RequestID extracts the request ID from the context.
// Returns empty string if not present.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDCtx{}).(string); ok {
		return id
	}
	return ""
}

type requestNameCtx struct{}

// WithRequestName attaches the request type name to the context for logging and metrics.
func WithRequestName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, requestNameCtx{}, name)
}

// RequestName extracts the request name from the context.
// Returns empty string if not present.
func RequestName(ctx context.Context) string {
	if name, ok := ctx.Value(requestNameCtx{}).(string); ok {
		return name
	}
	return ""
}

// requestName returns the name stored in ctx, or the type name of req.
func requestName(ctx context.Context, req any) string {
	if name := RequestName(ctx); name != "" {
		return name
	}
	return typeName(reflect.TypeOf(req))
}
