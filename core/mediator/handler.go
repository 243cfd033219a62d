package mediator

import "context"

// RequestHandler handles requests of type TReq and produces a TResp.
type RequestHandler[TReq, TResp any] interface {
	Handle(ctx context.Context, req TReq) (TResp, error)
}

// HandlerFunc adapts a function to the RequestHandler interface.
//
// Example:
//
//	h := mediator.HandlerFunc[Ping, string](func(ctx context.Context, p Ping) (string, error) {
//	    return p.Text, nil
//	})
type HandlerFunc[TReq, TResp any] func(ctx context.Context, req TReq) (TResp, error)

// Handle implements RequestHandler.
func (f HandlerFunc[TReq, TResp]) Handle(ctx context.Context, req TReq) (TResp, error) {
	return f(ctx, req)
}

// VoidHandler handles requests of type TReq that produce no value.
type VoidHandler[TReq any] interface {
	Handle(ctx context.Context, req TReq) error
}

// VoidHandlerFunc adapts a function to the VoidHandler interface.
type VoidHandlerFunc[TReq any] func(ctx context.Context, req TReq) error

// Handle implements VoidHandler.
func (f VoidHandlerFunc[TReq]) Handle(ctx context.Context, req TReq) error {
	return f(ctx, req)
}
