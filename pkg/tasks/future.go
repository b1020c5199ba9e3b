package tasks

import (
	"sync"
	"time"

	enginerrs "github.com/kubev2v/taskflow/pkg/errors"
)

// Future is the completion handle of a task. It settles exactly once,
// to either success (nil) or an error, and its outcome is consumed by
// exactly one caller.
type Future struct {
	done       chan struct{}
	settleOnce sync.Once
	err        error

	consumeMu sync.Mutex
	consumed  bool
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func fulfilledFuture() *Future {
	f := newFuture()
	f.settle(nil)
	return f
}

// settle records the outcome. A second settle is a no-op so an engine
// race can never corrupt an already delivered result.
func (f *Future) settle(err error) {
	f.settleOnce.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Ready reports whether the future has settled, without blocking.
func (f *Future) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the future settles.
func (f *Future) Wait() {
	<-f.done
}

// WaitFor blocks until the future settles or the timeout elapses. It
// returns true if the future is settled.
func (f *Future) WaitFor(timeout time.Duration) bool {
	select {
	case <-f.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Outcome blocks until the future settles and returns its outcome: nil
// on success, the work unit's error on failure, or the canceled error
// if the task was skipped. The outcome can be consumed once; further
// calls return ErrOutcomeConsumed.
func (f *Future) Outcome() error {
	<-f.done

	f.consumeMu.Lock()
	defer f.consumeMu.Unlock()
	if f.consumed {
		return enginerrs.NewOutcomeConsumedError()
	}
	f.consumed = true
	return f.err
}
