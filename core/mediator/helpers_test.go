package mediator_test

import (
	"context"
	"sync"

	"github.com/dmitrymomot/mediator/core/mediator"
)

type Ping struct {
	Text string
}

type DeleteUser struct {
	ID string
}

// trace records pipeline events in order.
type trace struct {
	mu     sync.Mutex
	events []string
}

func (t *trace) add(e string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, e)
}

func (t *trace) list() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.events...)
}

func pingHandler(tr *trace) mediator.HandlerFunc[Ping, string] {
	return func(ctx context.Context, p Ping) (string, error) {
		if tr != nil {
			tr.add("handler")
		}
		return p.Text, nil
	}
}

func tracingBehavior(tr *trace, name string) mediator.BehaviorFunc[Ping, string] {
	return func(ctx context.Context, p Ping, next mediator.Next[Ping, string]) (string, error) {
		tr.add(name + ":before")
		resp, err := next(ctx, p)
		tr.add(name + ":after")
		return resp, err
	}
}

func openTracing(tr *trace, name string) mediator.OpenBehaviorFunc {
	return func(ctx context.Context, req any, next mediator.OpenNext) (any, error) {
		tr.add(name + ":before")
		resp, err := next(ctx, req)
		tr.add(name + ":after")
		return resp, err
	}
}
