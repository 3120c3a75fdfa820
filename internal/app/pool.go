package app

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"tourguide/internal/adapters/observability"
	"tourguide/internal/domain"
)

// WorkerPool bounds the number of scoring tasks in flight across all callers.
type WorkerPool struct {
	sem      *semaphore.Weighted
	size     int
	mu       sync.Mutex
	closed   bool
	wg       sync.WaitGroup
	inFlight atomic.Int64
}

func NewWorkerPool(size int) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	return &WorkerPool{sem: semaphore.NewWeighted(int64(size)), size: size}
}

// Do runs fn on the caller's goroutine once a slot is free.
// It returns domain.ErrPoolClosed after Shutdown, or ctx.Err() if ctx ends while waiting.
func (p *WorkerPool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return domain.ErrPoolClosed
	}
	p.wg.Add(1)
	p.mu.Unlock()
	defer p.wg.Done()

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)

	observability.PoolInFlight.Set(float64(p.inFlight.Add(1)))
	defer func() { observability.PoolInFlight.Set(float64(p.inFlight.Add(-1))) }()

	return fn(ctx)
}

// Shutdown stops accepting work and waits for accepted tasks to finish or ctx to end.
func (p *WorkerPool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *WorkerPool) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *WorkerPool) InFlight() int { return int(p.inFlight.Load()) }

func (p *WorkerPool) Size() int { return p.size }
