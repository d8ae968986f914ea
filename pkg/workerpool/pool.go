// Package workerpool is a bounded goroutine pool with backpressure.
//
// When every worker is busy and the buffer is full, Submit and Run fail
// fast with ErrPoolFull so the caller can answer 429 instead of piling up
// goroutines:
//
//	pool := workerpool.New(8)
//	defer pool.Shutdown()
//
//	err := pool.Run(ctx, func(ctx context.Context) { callModel(ctx) })
package workerpool

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrPoolFull   = errors.New("workerpool: pool is full")
	ErrPoolClosed = errors.New("workerpool: pool is closed")
)

// Pool is a bounded goroutine pool.
type Pool struct {
	mu     sync.RWMutex
	closed bool
	tasks  chan func()
	wg     sync.WaitGroup
}

// New starts size workers with a task buffer of the same size.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{tasks: make(chan func(), size)}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// Run submits task and waits for it to finish. If ctx ends first Run
// returns ctx.Err(); the task keeps running with a cancelled ctx and its
// outcome is dropped.
func (p *Pool) Run(ctx context.Context, task func(ctx context.Context)) error {
	done := make(chan struct{})
	if err := p.Submit(func() {
		defer close(done)
		task(ctx)
	}); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks and waits for in-flight ones.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		safeRun(task)
	}
}

func safeRun(task func()) {
	defer func() { _ = recover() }()
	task()
}
