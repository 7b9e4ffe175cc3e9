// Package workpool runs independent jobs on a bounded set of goroutines and
// lets the caller block until every queued job has finished.
package workpool

import (
	"runtime"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// DefaultSize is two workers per logical CPU.
func DefaultSize() int {
	return runtime.NumCPU() * 2
}

// Pool is a bounded worker pool. Jobs are not cancellable once queued.
type Pool struct {
	group   errgroup.Group
	pending atomic.Int64
}

// New builds a pool that runs at most size jobs at a time. A non-positive
// size falls back to DefaultSize.
func New(size int) *Pool {
	if size <= 0 {
		size = DefaultSize()
	}
	p := &Pool{}
	p.group.SetLimit(size)
	return p
}

// Queue schedules fn. It blocks while the pool is saturated.
func (p *Pool) Queue(fn func()) {
	p.pending.Inc()
	p.group.Go(func() error {
		defer p.pending.Dec()
		fn()
		return nil
	})
}

// Pending returns the number of queued or running jobs.
func (p *Pool) Pending() int64 {
	return p.pending.Load()
}

// Wait blocks until the pending counter drops to zero.
func (p *Pool) Wait() {
	_ = p.group.Wait()
}
