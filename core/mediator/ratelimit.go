package mediator

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitBehavior waits for a token from limiter before continuing.
// Waiting honours ctx; a request that cannot obtain a token in time fails
// with the limiter's error.
//
// Example:
//
//	limiter := rate.NewLimiter(rate.Limit(50), 10)
//	reg.RegisterOpenBehavior(mediator.RateLimitBehavior(limiter))
func RateLimitBehavior(limiter *rate.Limiter) OpenBehavior {
	return OpenBehaviorFunc(func(ctx context.Context, req any, next OpenNext) (any, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return next(ctx, req)
	})
}
