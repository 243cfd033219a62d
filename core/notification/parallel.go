package notification

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/semaphore"

	"github.com/dmitrymomot/mediator/core/logger"
	"github.com/dmitrymomot/mediator/pkg/async"
)

// ParallelPublisher runs handlers concurrently, with at most the configured
// degree of parallelism in flight.
//
// StopOnFirstError, or a degree of parallelism of 1 or less, is delegated to
// the sequential publisher: concurrent execution cannot promise that later
// handlers never start once one has failed.
type ParallelPublisher struct {
	sequential *SequentialPublisher
	logger     *slog.Logger
	defaultDOP int
}

// NewParallelPublisher creates a bounded-parallel publisher.
//
// Example:
//
//	p := notification.NewParallelPublisher(notification.WithDefaultParallelism(8))
//	err := p.Publish(ctx, evt, handlers, notification.NewPublishContext(
//	    notification.ContinueAndAggregate,
//	    notification.WithMaxDegreeOfParallelism(4),
//	))
func NewParallelPublisher(opts ...Option) *ParallelPublisher {
	o := &options{
		logger:     logger.Discard(),
		defaultDOP: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return &ParallelPublisher{
		sequential: &SequentialPublisher{logger: o.logger},
		logger:     o.logger,
		defaultDOP: o.defaultDOP,
	}
}

// Publish implements Publisher.
func (p *ParallelPublisher) Publish(ctx context.Context, notification any, handlers []Executor, pc PublishContext) error {
	dop, ok := pc.MaxDegreeOfParallelism()
	if !ok {
		dop = p.defaultDOP
	}

	if pc.FailureBehavior() == StopOnFirstError || dop <= 1 || len(handlers) < 2 {
		return p.sequential.Publish(ctx, notification, handlers, pc)
	}

	name := notificationName(notification)
	fs := newFailures(pc.FailureBehavior(), p.logger)
	gate := semaphore.NewWeighted(int64(dop))

	latch := async.NewLatch(len(handlers))

	for _, h := range handlers {
		go func(h Executor) {
			defer latch.CountDown()

			if err := gate.Acquire(ctx, 1); err != nil {
				return
			}
			defer gate.Release(1)

			// Acquire may succeed on an already cancelled context.
			if ctx.Err() != nil {
				return
			}

			if err := invoke(ctx, h, notification); err != nil && !canceled(ctx, err) {
				fs.record(ctx, &HandlerError{Handler: h.Name, Notification: name, Err: err})
			}
		}(h)
	}

	latch.Await()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fs.err()
}
