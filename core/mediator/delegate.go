package mediator

import "context"

// Next invokes the remainder of a value-returning pipeline.
type Next[TReq, TResp any] func(ctx context.Context, req TReq) (TResp, error)

// VoidNext invokes the remainder of a void pipeline.
type VoidNext[TReq any] func(ctx context.Context, req TReq) error

// OpenNext invokes the remainder of a pipeline whose types are erased.
type OpenNext func(ctx context.Context, req any) (any, error)
