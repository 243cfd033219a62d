package notification_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/mediator/core/notification"
)

type Note struct {
	Text string
}

var errBoom = errors.New("boom")

// recorder collects the names of executed handlers in call order.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func okExecutor(name string, rec *recorder) notification.Executor {
	return notification.NamedExecutor(name, notification.HandlerFunc[Note](func(ctx context.Context, n Note) error {
		rec.add(name)
		return nil
	}))
}

func failingExecutor(name string, rec *recorder, err error) notification.Executor {
	return notification.NamedExecutor(name, notification.HandlerFunc[Note](func(ctx context.Context, n Note) error {
		rec.add(name)
		return err
	}))
}

// concurrencyProbe tracks how many handlers run at the same time.
type concurrencyProbe struct {
	current atomic.Int64
	peak    atomic.Int64
}

func (p *concurrencyProbe) enter() {
	n := p.current.Add(1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			return
		}
	}
}

func (p *concurrencyProbe) leave() {
	p.current.Add(-1)
}

// syncBuffer is a goroutine-safe log sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
