package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/mediator/core/logger"
)

// Publisher fans a notification out to its resolved handlers.
//
// handlers is the ordered, possibly empty list resolved for the notification's
// type. pc selects the failure policy and parallelism limit. A cancelled ctx is
// reported as ctx.Err() and never folded into handler failures.
type Publisher interface {
	Publish(ctx context.Context, notification any, handlers []Executor, pc PublishContext) error
}

// invoke runs one executor, converting a panic into an error.
func invoke(ctx context.Context, h Executor, notification any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanicked, r)
		}
	}()
	return h.Handle(ctx, notification)
}

// canceled reports whether err is the cancellation of ctx itself rather than a
// failure of the handler's own logic.
func canceled(ctx context.Context, err error) bool {
	if ctx.Err() == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// failures applies a FailureBehavior to the handler errors of one publish call.
// It is safe for concurrent use.
type failures struct {
	behavior FailureBehavior
	logger   *slog.Logger

	mu      sync.Mutex
	errs    []error
	first   error
	stopped atomic.Bool
}

func newFailures(behavior FailureBehavior, log *slog.Logger) *failures {
	return &failures{behavior: behavior, logger: log}
}

// record applies the policy to herr and reports whether the call should stop.
func (f *failures) record(ctx context.Context, herr *HandlerError) bool {
	switch f.behavior {
	case ContinueAndAggregate:
		f.mu.Lock()
		f.errs = append(f.errs, herr)
		f.mu.Unlock()
		return false
	case ContinueAndLog:
		f.logger.ErrorContext(ctx, "notification handler failed",
			logger.Handler(herr.Handler),
			logger.Notification(herr.Notification),
			logger.Error(herr.Err))
		return false
	default:
		f.mu.Lock()
		if f.first == nil {
			f.first = herr
		}
		f.mu.Unlock()
		f.stopped.Store(true)
		return true
	}
}

// halted reports whether a StopOnFirstError failure has been recorded.
func (f *failures) halted() bool {
	return f.stopped.Load()
}

// err returns the outcome of the call under the configured policy.
func (f *failures) err() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.first != nil {
		return f.first
	}
	if len(f.errs) > 0 {
		return &AggregateError{Errors: slices.Clone(f.errs)}
	}
	return nil
}

type options struct {
	logger     *slog.Logger
	defaultDOP int
}

// Option configures the sequential and parallel publishers.
type Option func(*options)

// WithLogger sets the logger used by ContinueAndLog.
// Defaults to a logger that discards output.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithDefaultParallelism sets the degree of parallelism used when the
// PublishContext leaves it unset. Defaults to runtime.NumCPU().
func WithDefaultParallelism(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.defaultDOP = n
		}
	}
}
