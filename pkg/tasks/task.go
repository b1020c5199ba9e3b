package tasks

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/taskflow/pkg/cancellation"
	enginerrs "github.com/kubev2v/taskflow/pkg/errors"
	"github.com/kubev2v/taskflow/pkg/pool"
)

// Work is a nullary effectful work unit. It is invoked at most once.
type Work func() error

// CancelableWork is a work unit that polls the task's cancellation
// token to react to in-flight cancellation.
type CancelableWork func(cancellation.Token) error

type queue[T any] []T

func (wq *queue[T]) Len() int { return len(*wq) }

func (wq *queue[T]) Pop() T {
	old := *wq
	x := old[0]
	*wq = old[1:]
	return x
}

func (wq *queue[T]) Push(t T) {
	*wq = append(*wq, t)
}

// Task is a deferred unit of work with a completion future and an
// ordered set of successors that run on the same pool once this task
// settles.
//
// The pool must outlive every task in the chain.
type Task struct {
	id    uuid.UUID
	pool  *pool.Pool
	token cancellation.Token

	future *Future

	// mu guards children and the settled-or-not decision taken by
	// ContinueWith against the completing worker's child drain.
	mu       sync.Mutex
	children queue[*Task]

	// method and parent are touched only at construction and by the
	// single worker invocation, so they need no lock.
	method Work
	parent *Task
}

// Completed returns a root task whose future is already fulfilled. It
// carries no work unit and is never submitted to the pool; its purpose
// is to anchor continuations.
func Completed(p *pool.Pool, ct cancellation.Token) *Task {
	return &Task{
		id:     uuid.New(),
		pool:   p,
		token:  ct,
		future: fulfilledFuture(),
	}
}

// New wraps fn in a task and immediately schedules it on p. If ct is
// already canceled the task is not submitted; its future fails with the
// canceled error instead.
func New(p *pool.Pool, fn Work, ct cancellation.Token) *Task {
	t := &Task{
		id:     uuid.New(),
		pool:   p,
		token:  ct,
		future: newFuture(),
		method: fn,
	}
	t.dispatch()
	return t
}

// NewCancelable is New with the work unit bound to the task's token so
// it can poll cancellation cooperatively.
func NewCancelable(p *pool.Pool, fn CancelableWork, ct cancellation.Token) *Task {
	return New(p, func() error { return fn(ct) }, ct)
}

// ContinueWith appends a successor running fn once this task settles.
// The child inherits this task's token. If this task has already
// settled the child is dispatched right away.
func (t *Task) ContinueWith(fn Work) *Task {
	child := &Task{
		id:     uuid.New(),
		pool:   t.pool,
		token:  t.token,
		future: newFuture(),
		method: fn,
		parent: t,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.future.Ready() {
		child.dispatch()
	} else {
		t.children.Push(child)
	}
	return child
}

// Future returns the task's completion handle. Concurrent reads are
// safe; the outcome itself is consumed by exactly one caller.
func (t *Task) Future() *Future {
	return t.future
}

// dispatch submits the task to the pool, or fails it immediately when
// its token is already canceled. The scheduled closure keeps the task
// record alive until the invocation finishes.
func (t *Task) dispatch() {
	if t.token.IsCanceled() {
		zap.S().Debugw("task canceled before dispatch", "task", t.id)
		t.future.settle(enginerrs.NewCanceledError())
		// Descendants of a canceled chain settle with the canceled
		// error too; each drained child repeats this check.
		t.drainChildren()
		return
	}
	t.pool.Schedule(t.run)
}

func (t *Task) run() error {
	fn := t.method
	t.method = nil
	// Ancestors are not needed once this task runs; releasing the link
	// keeps a long chain from retaining its whole history.
	t.parent = nil

	if fn == nil {
		zap.S().Debugw("work unit already consumed", "task", t.id)
		return nil
	}

	var err error
	if t.token.IsCanceled() {
		t.future.settle(enginerrs.NewCanceledError())
	} else {
		err = invokeUnit(fn)
		t.future.settle(err)
	}

	t.drainChildren()

	// A user error is reported to the pool's error list as well; the
	// canceled skip is an engine signal and stays on the future only.
	return err
}

func (t *Task) drainChildren() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for t.children.Len() > 0 {
		t.children.Pop().dispatch()
	}
}

func invokeUnit(fn Work) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = enginerrs.NewPanicError(rec)
		}
	}()
	return fn()
}
