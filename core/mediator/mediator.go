package mediator

import (
	"context"
	"io"
	"log/slog"
	"reflect"

	"github.com/dmitrymomot/mediator/core/logger"
	"github.com/dmitrymomot/mediator/core/notification"
)

// Mediator combines a Dispatcher for requests with a Publisher for
// notifications over one registry.
//
// Example:
//
//	m := mediator.New(reg,
//	    mediator.WithPublisher(notification.NewParallelPublisher()),
//	    mediator.WithPublishContext(notification.NewPublishContext(notification.ContinueAndAggregate)),
//	)
//	defer m.Close()
//
//	resp, err := mediator.Send[string](ctx, m, Ping{Text: "hi"})
//	err = m.Publish(ctx, OrderPlaced{ID: "o-1"})
type Mediator struct {
	registry       HandlerRegistry
	dispatch       *Dispatcher
	publisher      notification.Publisher
	publishContext notification.PublishContext
	logger         *slog.Logger
}

type mediatorOptions struct {
	publisher      notification.Publisher
	publishContext notification.PublishContext
	logger         *slog.Logger
}

// Option configures a Mediator.
type Option func(*mediatorOptions)

// WithPublisher sets the notification publisher.
// Defaults to a sequential publisher.
func WithPublisher(p notification.Publisher) Option {
	return func(o *mediatorOptions) {
		if p != nil {
			o.publisher = p
		}
	}
}

// WithPublishContext sets the publish context used by Publish.
// Defaults to StopOnFirstError with no parallelism limit.
func WithPublishContext(pc notification.PublishContext) Option {
	return func(o *mediatorOptions) {
		o.publishContext = pc
	}
}

// WithLogger sets the logger shared by the dispatcher and the default publisher.
func WithLogger(log *slog.Logger) Option {
	return func(o *mediatorOptions) {
		if log != nil {
			o.logger = log
		}
	}
}

// New creates a mediator over registry.
func New(registry HandlerRegistry, opts ...Option) *Mediator {
	o := &mediatorOptions{
		publishContext: notification.NewPublishContext(notification.StopOnFirstError),
		logger:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.publisher == nil {
		o.publisher = notification.NewSequentialPublisher(notification.WithLogger(o.logger))
	}

	return &Mediator{
		registry:       registry,
		dispatch:       NewDispatcher(registry, WithDispatcherLogger(o.logger)),
		publisher:      o.publisher,
		publishContext: o.publishContext,
		logger:         o.logger,
	}
}

func (m *Mediator) dispatcher() *Dispatcher {
	return m.dispatch
}

// Dispatcher returns the mediator's request dispatcher.
func (m *Mediator) Dispatcher() *Dispatcher {
	return m.dispatch
}

// Publish delivers n to every handler registered for its dynamic type
// using the mediator's default publish context.
func (m *Mediator) Publish(ctx context.Context, n any) error {
	return m.PublishWith(ctx, n, m.publishContext)
}

// PublishWith delivers n under an explicit publish context.
func (m *Mediator) PublishWith(ctx context.Context, n any, pc notification.PublishContext) error {
	return m.publish(ctx, reflect.TypeOf(n), n, pc)
}

func (m *Mediator) publish(ctx context.Context, t reflect.Type, n any, pc notification.PublishContext) error {
	handlers := m.registry.ResolveNotificationHandlers(t)
	if len(handlers) == 0 {
		m.logger.DebugContext(ctx, "no notification handlers", logger.Notification(typeName(t)))
		return nil
	}
	return m.publisher.Publish(ctx, n, handlers, pc)
}

// Publish delivers a notification to the handlers registered for T.
// Interface-typed T resolves by the dynamic type of n.
//
// Example:
//
//	err := mediator.Publish(ctx, m, OrderPlaced{ID: "o-1"})
func Publish[T any](ctx context.Context, m *Mediator, n T) error {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Interface {
		t = reflect.TypeOf(n)
	}
	return m.publish(ctx, t, n, m.publishContext)
}

// Close releases the publisher's resources when it holds any.
func (m *Mediator) Close() error {
	if c, ok := m.publisher.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
