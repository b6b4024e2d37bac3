package api

import (
	"context"
	"sync/atomic"
)

// Class selects the pool a request runs in.
type Class int

const (
	Fast Class = iota // Rules queries and shallow searches
	Slow              // Deep searches, predictions and reviews
	numClasses
)

// WorkerPool bounds the number of concurrent engine requests, with separate
// limits for fast and slow work.
type WorkerPool struct {
	sems   [numClasses]chan struct{}
	queued [numClasses]int64
	active [numClasses]int64
	total  [numClasses]int64
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	MaxFastWorkers int // Max concurrent fast operations (default: 100)
	MaxSlowWorkers int // Max concurrent slow operations (default: 4)
}

// DefaultPoolConfig returns a PoolConfig with sensible defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxFastWorkers: 100,
		MaxSlowWorkers: 4,
	}
}

// NewWorkerPool creates a new worker pool with the given configuration.
func NewWorkerPool(config PoolConfig) *WorkerPool {
	def := DefaultPoolConfig()
	if config.MaxFastWorkers <= 0 {
		config.MaxFastWorkers = def.MaxFastWorkers
	}
	if config.MaxSlowWorkers <= 0 {
		config.MaxSlowWorkers = def.MaxSlowWorkers
	}

	p := &WorkerPool{}
	p.sems[Fast] = make(chan struct{}, config.MaxFastWorkers)
	p.sems[Slow] = make(chan struct{}, config.MaxSlowWorkers)
	return p
}

// Acquire waits for a slot in the class's pool. The returned func releases it.
// Returns an error if the context is cancelled while waiting.
func (p *WorkerPool) Acquire(ctx context.Context, c Class) (func(), error) {
	atomic.AddInt64(&p.queued[c], 1)
	defer atomic.AddInt64(&p.queued[c], -1)

	select {
	case p.sems[c] <- struct{}{}:
		atomic.AddInt64(&p.active[c], 1)
		return func() { p.release(c) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TryAcquire takes a slot without blocking. ok is false if the pool is full.
func (p *WorkerPool) TryAcquire(c Class) (release func(), ok bool) {
	select {
	case p.sems[c] <- struct{}{}:
		atomic.AddInt64(&p.active[c], 1)
		return func() { p.release(c) }, true
	default:
		return nil, false
	}
}

func (p *WorkerPool) release(c Class) {
	atomic.AddInt64(&p.active[c], -1)
	atomic.AddInt64(&p.total[c], 1)
	<-p.sems[c]
}

// PoolStats is a snapshot of the pool counters.
type PoolStats struct {
	ActiveFast int64 `json:"active_fast"`
	ActiveSlow int64 `json:"active_slow"`
	QueuedFast int64 `json:"queued_fast"`
	QueuedSlow int64 `json:"queued_slow"`
	TotalFast  int64 `json:"total_fast"`
	TotalSlow  int64 `json:"total_slow"`
	MaxFast    int   `json:"max_fast"`
	MaxSlow    int   `json:"max_slow"`
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() PoolStats {
	return PoolStats{
		ActiveFast: atomic.LoadInt64(&p.active[Fast]),
		ActiveSlow: atomic.LoadInt64(&p.active[Slow]),
		QueuedFast: atomic.LoadInt64(&p.queued[Fast]),
		QueuedSlow: atomic.LoadInt64(&p.queued[Slow]),
		TotalFast:  atomic.LoadInt64(&p.total[Fast]),
		TotalSlow:  atomic.LoadInt64(&p.total[Slow]),
		MaxFast:    cap(p.sems[Fast]),
		MaxSlow:    cap(p.sems[Slow]),
	}
}
