// Package pool provides typed object pooling for lesserpandas. It wraps
// sync.Pool with a factory, an optional reset hook and usage statistics.
//
// Example usage:
//
//	buffers := pool.New(
//	    func() *bytes.Buffer { return new(bytes.Buffer) },
//	    func(b *bytes.Buffer) { b.Reset() },
//	)
//	buf := buffers.Get()
//	defer buffers.Put(buf)
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool represents a generic object pool with type safety.
// The pool is safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
	stats struct {
		allocated atomic.Int64
		inUse     atomic.Int64
		gets      atomic.Int64
	}
}

// New creates a typed pool. newFn builds an object when the pool is empty;
// reset, when non-nil, runs on every object handed back with Put.
func New[T any](newFn func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() interface{} {
		p.stats.allocated.Add(1)
		return newFn()
	}
	return p
}

// Get retrieves an object from the pool, creating one if it is empty.
func (p *Pool[T]) Get() T {
	p.stats.gets.Add(1)
	p.stats.inUse.Add(1)
	return p.pool.Get().(T)
}

// Put returns an object to the pool for reuse.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	p.stats.inUse.Add(-1)
	p.pool.Put(obj)
}

// Stats is a snapshot of pool usage.
type Stats struct {
	// Allocated counts objects built by the factory.
	Allocated int64
	// InUse counts objects taken with Get and not yet returned.
	InUse int64
	// Hits counts Gets served by a recycled object.
	Hits int64
	// Misses counts Gets that needed a new object.
	Misses int64
}

// Stats returns current pool statistics.
func (p *Pool[T]) Stats() Stats {
	allocated := p.stats.allocated.Load()
	gets := p.stats.gets.Load()
	hits := gets - allocated
	if hits < 0 {
		hits = 0
	}
	return Stats{
		Allocated: allocated,
		InUse:     p.stats.inUse.Load(),
		Hits:      hits,
		Misses:    allocated,
	}
}
