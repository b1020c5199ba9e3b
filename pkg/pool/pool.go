// Package pool implements a bounded worker pool consuming nullary work
// units from a shared FIFO queue.
package pool

import (
	"sync"

	"go.uber.org/zap"

	enginerrs "github.com/kubev2v/taskflow/pkg/errors"
)

// Unit is an opaque nullary work unit. It is consumed exactly once: the
// pool invokes it on a worker and records a non-nil result in the error
// list.
type Unit func() error

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

// Pool executes work units on a fixed set of worker goroutines fed by a
// shared FIFO queue.
//
// Units may be scheduled at any time: before Start they accumulate and
// run once the pool is started; after Stop they accumulate for the next
// run. Units still queued when Stop is called are discarded.
type Pool struct {
	workers int

	mu    sync.Mutex
	cond  *sync.Cond
	tasks queue[Unit]
	run   bool
	wg    sync.WaitGroup

	errMu sync.Mutex
	errs  []error

	log *zap.SugaredLogger
}

type Option func(*Pool)

func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Pool) {
		p.log = l
	}
}

func New(workers int, opts ...Option) *Pool {
	p := &Pool{
		workers: workers,
		log:     zap.S(),
	}
	p.cond = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start spawns the worker goroutines. Calling Start while the pool is
// already running has no effect.
func (p *Pool) Start() {
	p.mu.Lock()
	if p.run {
		p.mu.Unlock()
		return
	}
	p.run = true
	p.mu.Unlock()

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.workerLoop()
	}
	p.log.Debugw("pool started", "workers", p.workers)
}

// Schedule enqueues a work unit. Valid before Start, while running and
// after Stop.
func (p *Pool) Schedule(unit Unit) {
	p.mu.Lock()
	p.tasks.Push(unit)
	p.mu.Unlock()
	p.cond.Signal()
}

// Stop wakes all idle workers and joins them. Units currently executing
// run to completion; units still queued are discarded. Idempotent.
func (p *Pool) Stop() {
	p.mu.Lock()
	wasRunning := p.run
	p.run = false
	p.cond.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()

	if !wasRunning {
		return
	}
	p.mu.Lock()
	dropped := p.tasks.Len()
	p.tasks = nil
	p.mu.Unlock()
	if dropped > 0 {
		p.log.Debugw("discarded queued work on stop", "count", dropped)
	}
}

// PopErrors returns and empties the pool's collected error list.
func (p *Pool) PopErrors() []error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	errs := p.errs
	p.errs = nil
	return errs
}

// Close stops the pool. Errors never retrieved through PopErrors are
// logged and dropped; Close itself never fails.
func (p *Pool) Close() {
	p.Stop()
	if errs := p.PopErrors(); len(errs) > 0 {
		p.log.Warnw("pool closed with unretrieved errors", "count", len(errs))
	}
}

func (p *Pool) workerLoop() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for p.tasks.Len() == 0 && p.run {
			p.cond.Wait()
		}
		if !p.run {
			// Remaining queued units are left for Stop to discard.
			p.mu.Unlock()
			return
		}
		unit := p.tasks.Pop()
		p.mu.Unlock()

		p.invoke(unit)
	}
}

func (p *Pool) invoke(unit Unit) {
	defer func() {
		if rec := recover(); rec != nil {
			p.record(enginerrs.NewPanicError(rec))
		}
	}()

	if err := unit(); err != nil {
		p.record(err)
	}
}

func (p *Pool) record(err error) {
	p.errMu.Lock()
	p.errs = append(p.errs, err)
	p.errMu.Unlock()
}
