// Package task provides the default executor for asynchronous upload work.
// It bounds the number of in-flight tasks with a semaphore while keeping
// submission non-blocking for the caller.
package task

import (
	"sync"
)

// DefaultSize is the concurrency used when no explicit size is configured.
const DefaultSize = 5

// Pool runs submitted tasks on goroutines gated by a semaphore.
// Submit returns as soon as the task is queued; at most size tasks
// execute concurrently.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

// NewPool creates a pool executing at most size tasks concurrently.
// Non-positive sizes fall back to DefaultSize.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	return &Pool{
		sem: make(chan struct{}, size),
	}
}

// Submit schedules task for execution. It never blocks on the task itself,
// only on the synchronous hand-off to the scheduler.
func (p *Pool) Submit(task func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.sem <- struct{}{}
		defer func() { <-p.sem }()
		task()
	}()
}

// Wait blocks until every submitted task has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}
