package notification

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/mediator/core/logger"
)

// SequentialPublisher invokes handlers one after another in list order.
//
// Example:
//
//	p := notification.NewSequentialPublisher(notification.WithLogger(log))
//	err := p.Publish(ctx, OrderPlaced{ID: "o-1"}, handlers,
//	    notification.NewPublishContext(notification.ContinueAndAggregate))
type SequentialPublisher struct {
	logger *slog.Logger
}

// NewSequentialPublisher creates a sequential publisher.
func NewSequentialPublisher(opts ...Option) *SequentialPublisher {
	o := &options{logger: logger.Discard()}
	for _, opt := range opts {
		opt(o)
	}
	return &SequentialPublisher{logger: o.logger}
}

// Publish implements Publisher.
func (p *SequentialPublisher) Publish(ctx context.Context, notification any, handlers []Executor, pc PublishContext) error {
	name := notificationName(notification)
	fs := newFailures(pc.FailureBehavior(), p.logger)

	for _, h := range handlers {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := invoke(ctx, h, notification)
		if err == nil {
			continue
		}
		if canceled(ctx, err) {
			return ctx.Err()
		}

		if fs.record(ctx, &HandlerError{Handler: h.Name, Notification: name, Err: err}) {
			break
		}
	}

	return fs.err()
}
