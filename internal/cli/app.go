package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"

	"github.com/dmitrymomot/mediator/core/logger"
	"github.com/dmitrymomot/mediator/core/mediator"
	"github.com/dmitrymomot/mediator/core/notification"
)

// Echo asks for its text back, upper-cased.
type Echo struct {
	Text string `validate:"required,max=64"`
}

// ResetStats clears the order counters.
type ResetStats struct{}

// OrderPlaced is published once per placed order.
type OrderPlaced struct {
	ID     string
	Amount int
}

var errPaymentGateway = errors.New("payment gateway unavailable")

// orderStats counts handler side effects across publishes.
type orderStats struct {
	receipts  atomic.Int64
	reserved  atomic.Int64
	failures  atomic.Int64
	published atomic.Int64
}

func (s *orderStats) String() string {
	return fmt.Sprintf("receipts=%d reserved=%d payment_failures=%d",
		s.receipts.Load(), s.reserved.Load(), s.failures.Load())
}

type appOptions struct {
	timeout   time.Duration
	rps       float64
	failEvery int64
}

// newRegistry wires the demo domain: two requests with the full behavior
// stack and three OrderPlaced handlers, one of which fails periodically.
func newRegistry(log *slog.Logger, opts appOptions) (*mediator.Registry, *orderStats, error) {
	reg := mediator.NewRegistry()
	stats := &orderStats{}

	if err := mediator.RegisterHandler(reg, mediator.HandlerFunc[Echo, string](
		func(ctx context.Context, req Echo) (string, error) {
			return strings.ToUpper(req.Text), nil
		},
	)); err != nil {
		return nil, nil, err
	}

	if err := mediator.RegisterVoidHandler(reg, mediator.VoidHandlerFunc[ResetStats](
		func(ctx context.Context, _ ResetStats) error {
			stats.receipts.Store(0)
			stats.reserved.Store(0)
			stats.failures.Store(0)
			return nil
		},
	)); err != nil {
		return nil, nil, err
	}

	metrics, err := mediator.MetricsBehavior(otel.GetMeterProvider())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create metrics behavior: %w", err)
	}

	behaviors := []orderedBehavior{
		{-1000, mediator.RequestIDBehavior()},
		{-900, mediator.TracingBehavior(otel.Tracer("mediator-demo"))},
		{-800, metrics},
		{-700, mediator.LoggingBehavior(log)},
		{-600, mediator.RecoverBehavior()},
		{-500, mediator.ValidationBehavior(nil)},
		{-300, mediator.TimeoutBehavior(opts.timeout)},
	}
	if opts.rps > 0 {
		behaviors = append(behaviors, orderedBehavior{-400, mediator.RateLimitBehavior(rate.NewLimiter(rate.Limit(opts.rps), 1))})
	}
	for _, b := range behaviors {
		if err := reg.RegisterOpenBehavior(b.b, mediator.WithOrder(b.order)); err != nil {
			return nil, nil, err
		}
	}

	// Void requests also get a unified audit behavior.
	if err := mediator.RegisterUnifiedBehavior(reg, mediator.BehaviorFunc[ResetStats, mediator.Unit](
		func(ctx context.Context, req ResetStats, next mediator.Next[ResetStats, mediator.Unit]) (mediator.Unit, error) {
			log.InfoContext(ctx, "resetting order stats",
				logger.Behavior("audit"),
				logger.Key("before", stats.String()))
			return next(ctx, req)
		},
	), mediator.WithName("audit")); err != nil {
		return nil, nil, err
	}

	handlers := []notification.Handler[OrderPlaced]{
		namedOrderHandler{name: "receipt", fn: func(ctx context.Context, e OrderPlaced) error {
			stats.receipts.Add(1)
			return nil
		}},
		namedOrderHandler{name: "inventory", fn: func(ctx context.Context, e OrderPlaced) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(e.Amount%5) * time.Millisecond):
			}
			stats.reserved.Add(1)
			return nil
		}},
		namedOrderHandler{name: "payment", fn: func(ctx context.Context, e OrderPlaced) error {
			n := stats.published.Add(1)
			if opts.failEvery > 0 && n%opts.failEvery == 0 {
				stats.failures.Add(1)
				return fmt.Errorf("charge %s: %w", e.ID, errPaymentGateway)
			}
			return nil
		}},
	}
	for _, h := range handlers {
		if err := mediator.RegisterNotificationHandler(reg, h); err != nil {
			return nil, nil, err
		}
	}

	return reg, stats, nil
}

type orderedBehavior struct {
	order int
	b     mediator.OpenBehavior
}

type namedOrderHandler struct {
	name string
	fn   func(ctx context.Context, e OrderPlaced) error
}

func (h namedOrderHandler) Name() string { return h.name }

func (h namedOrderHandler) Handle(ctx context.Context, e OrderPlaced) error {
	return h.fn(ctx, e)
}
