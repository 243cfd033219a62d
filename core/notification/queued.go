package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/mediator/core/logger"
	"github.com/dmitrymomot/mediator/pkg/async"
)

const (
	// DefaultQueueCapacity is the default number of buffered work items.
	DefaultQueueCapacity = 100

	// DefaultQueueWorkers is the default size of the worker pool.
	DefaultQueueWorkers = 4

	// DefaultShutdownTimeout bounds how long Close waits for workers.
	DefaultShutdownTimeout = 30 * time.Second
)

// FullQueuePolicy selects what Publish does when the queue has no free capacity.
type FullQueuePolicy int

const (
	// QueueWait blocks the publisher until space frees up or ctx is done.
	QueueWait FullQueuePolicy = iota

	// QueueDrop skips the work item and reports it as a HandlerError wrapping ErrQueueFull.
	QueueDrop
)

func (p FullQueuePolicy) String() string {
	switch p {
	case QueueWait:
		return "wait"
	case QueueDrop:
		return "drop"
	default:
		return fmt.Sprintf("FullQueuePolicy(%d)", int(p))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *FullQueuePolicy) UnmarshalText(text []byte) error {
	switch normalizeName(string(text)) {
	case "wait", "block":
		*p = QueueWait
	case "drop":
		*p = QueueDrop
	default:
		return fmt.Errorf("%w: %q", ErrUnknownQueuePolicy, string(text))
	}
	return nil
}

// workItem is one handler invocation scheduled by a publish call.
type workItem struct {
	ctx          context.Context
	handler      Executor
	notification any
	name         string
	call         *publishCall
}

// publishCall is the completion and failure state shared by the work items of
// one Publish call.
type publishCall struct {
	latch    *async.Latch
	failures *failures
}

// QueuedPublisher hands work items to a fixed pool of background workers
// through a bounded queue. Publish returns once every work item of that call
// has finished. Execution order across handlers is not guaranteed.
//
// A handler that publishes through the same QueuedPublisher with QueueWait can
// deadlock once every worker is blocked on a full queue.
type QueuedPublisher struct {
	queue           chan workItem
	workers         int
	policy          FullQueuePolicy
	shutdownTimeout time.Duration
	logger          *slog.Logger

	// mu guards admission only: it is never held while a send blocks.
	mu        sync.Mutex
	closed    atomic.Bool
	closing   chan struct{}
	inflight  sync.WaitGroup
	closeOnce sync.Once
	wg        sync.WaitGroup

	processed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
	active    atomic.Int64
}

// QueueStats is a point-in-time snapshot of a QueuedPublisher.
type QueueStats struct {
	Processed int64 // work items whose handler ran
	Failed    int64 // work items whose handler returned an error
	Dropped   int64 // work items rejected by QueueDrop
	Active    int64 // handlers running right now
	Queued    int   // work items waiting in the queue
	Workers   int
	Closed    bool
}

type queueOptions struct {
	capacity        int
	workers         int
	policy          FullQueuePolicy
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// QueueOption configures a QueuedPublisher.
type QueueOption func(*queueOptions)

// WithQueueCapacity sets the number of buffered work items.
func WithQueueCapacity(n int) QueueOption {
	return func(o *queueOptions) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithWorkers sets the number of background workers.
func WithWorkers(n int) QueueOption {
	return func(o *queueOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithFullQueuePolicy sets the behavior when the queue is full.
func WithFullQueuePolicy(p FullQueuePolicy) QueueOption {
	return func(o *queueOptions) {
		o.policy = p
	}
}

// WithShutdownTimeout bounds how long Close waits for workers to drain.
func WithShutdownTimeout(d time.Duration) QueueOption {
	return func(o *queueOptions) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// WithQueueLogger sets the logger for ContinueAndLog and teardown diagnostics.
func WithQueueLogger(log *slog.Logger) QueueOption {
	return func(o *queueOptions) {
		if log != nil {
			o.logger = log
		}
	}
}

// NewQueuedPublisher creates the publisher and starts its workers.
// Call Close to stop them.
//
// Example:
//
//	p := notification.NewQueuedPublisher(
//	    notification.WithQueueCapacity(256),
//	    notification.WithWorkers(8),
//	    notification.WithFullQueuePolicy(notification.QueueWait),
//	)
//	defer p.Close()
func NewQueuedPublisher(opts ...QueueOption) *QueuedPublisher {
	o := &queueOptions{
		capacity:        DefaultQueueCapacity,
		workers:         DefaultQueueWorkers,
		policy:          QueueWait,
		shutdownTimeout: DefaultShutdownTimeout,
		logger:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}

	p := &QueuedPublisher{
		queue:           make(chan workItem, o.capacity),
		workers:         o.workers,
		policy:          o.policy,
		shutdownTimeout: o.shutdownTimeout,
		logger:          o.logger,
		closing:         make(chan struct{}),
	}

	p.wg.Add(p.workers)
	for i := range p.workers {
		go p.work(i)
	}

	return p
}

// Publish implements Publisher.
func (p *QueuedPublisher) Publish(ctx context.Context, notification any, handlers []Executor, pc PublishContext) error {
	if !p.admit() {
		return ErrPublisherClosed
	}

	name := notificationName(notification)
	call := &publishCall{
		latch:    async.NewLatch(len(handlers)),
		failures: newFailures(pc.FailureBehavior(), p.logger),
	}

	for i, h := range handlers {
		item := workItem{
			ctx:          ctx,
			handler:      h,
			notification: notification,
			name:         name,
			call:         call,
		}

		err := p.enqueue(ctx, item)
		switch {
		case err == nil:
			continue
		case errors.Is(err, ErrQueueFull), errors.Is(err, ErrPublisherClosed):
			if errors.Is(err, ErrQueueFull) {
				p.dropped.Add(1)
			}
			call.failures.record(ctx, &HandlerError{Handler: h.Name, Notification: name, Err: err})
			call.latch.CountDown()
			continue
		}

		// ctx is done: nothing else from this call will be scheduled.
		for range handlers[i:] {
			call.latch.CountDown()
		}
		break
	}
	p.inflight.Done()

	call.latch.Await()

	if err := ctx.Err(); err != nil {
		return err
	}
	return call.failures.err()
}

// admit registers a publish call that is about to enqueue work. It reports
// false once Close has started. Every admitted call must call inflight.Done.
func (p *QueuedPublisher) admit() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed.Load() {
		return false
	}
	p.inflight.Add(1)
	return true
}

// enqueue hands item to the workers. The queue stays open until every
// admitted call has returned from enqueue.
func (p *QueuedPublisher) enqueue(ctx context.Context, item workItem) error {
	select {
	case <-p.closing:
		return ErrPublisherClosed
	default:
	}

	if p.policy == QueueDrop {
		select {
		case p.queue <- item:
			return nil
		default:
			return ErrQueueFull
		}
	}

	select {
	case p.queue <- item:
		return nil
	case <-p.closing:
		return ErrPublisherClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *QueuedPublisher) work(id int) {
	defer p.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("publish worker crashed", logger.Worker(id), logger.Panic(r))
		}
	}()

	for item := range p.queue {
		p.process(item)
	}

	p.logger.Debug("publish worker stopped", logger.Worker(id))
}

func (p *QueuedPublisher) process(item workItem) {
	defer item.call.latch.CountDown()

	if item.ctx.Err() != nil || item.call.failures.halted() {
		return
	}

	p.active.Add(1)
	err := invoke(item.ctx, item.handler, item.notification)
	p.active.Add(-1)
	p.processed.Add(1)

	if err == nil || canceled(item.ctx, err) {
		return
	}
	p.failed.Add(1)
	item.call.failures.record(item.ctx, &HandlerError{Handler: item.handler.Name, Notification: item.name, Err: err})
}

// Close stops accepting work, lets workers drain the queue and waits for them
// up to the shutdown timeout. Calls blocked on a full queue stop enqueueing and
// report their remaining handlers as failed with ErrPublisherClosed. Teardown problems are logged, never returned.
// Close is idempotent.
func (p *QueuedPublisher) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed.Store(true)
		close(p.closing)
		p.mu.Unlock()

		stopped := async.NewLatch(1)
		go func() {
			// Calls blocked on a full queue give up once closing is closed.
			p.inflight.Wait()
			close(p.queue)
			p.wg.Wait()
			stopped.CountDown()
		}()

		if err := stopped.AwaitWithTimeout(p.shutdownTimeout); err != nil {
			p.logger.Warn("queued publisher shutdown timeout exceeded, workers still running",
				logger.Timeout(p.shutdownTimeout),
				logger.Count("workers", p.workers),
				logger.Error(err))
			return
		}
		p.logger.Debug("queued publisher stopped", logger.Count("workers", p.workers))
	})
	return nil
}

// Stats returns a snapshot of the publisher's counters.
// It never blocks, so handlers may call it.
func (p *QueuedPublisher) Stats() QueueStats {
	return QueueStats{
		Processed: p.processed.Load(),
		Failed:    p.failed.Load(),
		Dropped:   p.dropped.Load(),
		Active:    p.active.Load(),
		Queued:    len(p.queue),
		Workers:   p.workers,
		Closed:    p.closed.Load(),
	}
}

// Healthcheck reports an error once the publisher has been closed.
func (p *QueuedPublisher) Healthcheck(ctx context.Context) error {
	if p.Stats().Closed {
		return errors.Join(ErrHealthcheckFailed, ErrPublisherClosed)
	}
	return nil
}
