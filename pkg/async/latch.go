package async

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrTimeout is returned by AwaitWithTimeout when the latch does not complete in time.
var ErrTimeout = errors.New("async: timeout waiting for completion")

// Latch is a countdown completion signal.
type Latch struct {
	remaining atomic.Int64
	done      chan struct{}
	once      sync.Once
}

// NewLatch creates a latch that completes after n calls to CountDown.
func NewLatch(n int) *Latch {
	l := &Latch{done: make(chan struct{})}
	l.remaining.Store(int64(n))
	if n <= 0 {
		l.release()
	}
	return l
}

// CountDown marks one unit of work as finished.
func (l *Latch) CountDown() {
	if l.remaining.Add(-1) == 0 {
		l.release()
	}
}

// Await blocks until the latch completes.
func (l *Latch) Await() {
	<-l.done
}

// AwaitWithTimeout blocks until the latch completes or the timeout elapses.
func (l *Latch) AwaitWithTimeout(timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-l.done:
		return nil
	case <-timer.C:
		return ErrTimeout
	}
}

func (l *Latch) release() {
	l.once.Do(func() {
		close(l.done)
	})
}
