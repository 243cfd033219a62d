package mediator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mediator/core/logger"
)

// LoggingBehavior logs the start, completion and failure of every request.
//
// Example:
//
//	reg.RegisterOpenBehavior(mediator.LoggingBehavior(log), mediator.WithOrder(-100))
func LoggingBehavior(log *slog.Logger) OpenBehavior {
	return OpenBehaviorFunc(func(ctx context.Context, req any, next OpenNext) (any, error) {
		start := time.Now()
		name := requestName(ctx, req)

		log.DebugContext(ctx, "request started", logger.Request(name))

		resp, err := next(ctx, req)
		if err != nil {
			log.ErrorContext(ctx, "request failed",
				logger.Request(name),
				logger.Elapsed(start),
				logger.Error(err))
			return resp, err
		}

		log.InfoContext(ctx, "request completed",
			logger.Request(name),
			logger.Elapsed(start))

		return resp, nil
	})
}

// RecoverBehavior converts a panic in the rest of the pipeline into an error
// wrapping ErrHandlerPanicked.
func RecoverBehavior() OpenBehavior {
	return OpenBehaviorFunc(func(ctx context.Context, req any, next OpenNext) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				resp = nil
				err = fmt.Errorf("%w: %s: %v", ErrHandlerPanicked, requestName(ctx, req), r)
			}
		}()
		return next(ctx, req)
	})
}

// TimeoutBehavior bounds the rest of the pipeline with a deadline.
// Handlers must respect context cancellation for the timeout to take effect.
func TimeoutBehavior(timeout time.Duration) OpenBehavior {
	return OpenBehaviorFunc(func(ctx context.Context, req any, next OpenNext) (any, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return next(ctx, req)
	})
}

// RequestIDBehavior attaches a request ID and the request name to the context.
// An ID already present in the context is kept.
//
// Example:
//
//	reg.RegisterOpenBehavior(mediator.RequestIDBehavior(), mediator.WithOrder(-1000))
//	// inside a handler:
//	id := mediator.RequestID(ctx)
func RequestIDBehavior() OpenBehavior {
	return OpenBehaviorFunc(func(ctx context.Context, req any, next OpenNext) (any, error) {
		if RequestID(ctx) == "" {
			ctx = WithRequestID(ctx, uuid.NewString())
		}
		if RequestName(ctx) == "" {
			ctx = WithRequestName(ctx, requestName(ctx, req))
		}
		return next(ctx, req)
	})
}

// RetryBehavior re-runs the rest of the pipeline on failure with exponential
// backoff, up to maxRetries additional attempts. A negative maxRetries runs the
// pipeline once. Cancellation is never retried.
//
// Example:
//
//	reg.RegisterOpenBehavior(mediator.RetryBehavior(3, 100*time.Millisecond, 2*time.Second))
func RetryBehavior(maxRetries int, initialDelay, maxDelay time.Duration) OpenBehavior {
	maxRetries = max(maxRetries, 0)

	return OpenBehaviorFunc(func(ctx context.Context, req any, next OpenNext) (any, error) {
		var lastErr error
		delay := initialDelay

		for attempt := 0; attempt <= maxRetries; attempt++ {
			if attempt > 0 {
				timer := time.NewTimer(delay)
				select {
				case <-ctx.Done():
					timer.Stop()
					return nil, ctx.Err()
				case <-timer.C:
				}

				delay *= 2
				if delay > maxDelay {
					delay = maxDelay
				}
			}

			resp, err := next(ctx, req)
			if err == nil {
				return resp, nil
			}
			if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				return resp, err
			}

			lastErr = err
		}

		return nil, fmt.Errorf("failed after %d retries with backoff: %w", maxRetries, lastErr)
	})
}
