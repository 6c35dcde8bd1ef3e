package service

import (
	"context"
	"sync"
)

// Pending is the result of a queued mutation. It resolves once the mutation
// worker has applied (or rejected) the change.
type Pending[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

func newPending[T any]() *Pending[T] {
	return &Pending[T]{done: make(chan struct{})}
}

func (p *Pending[T]) resolve(value T, err error) {
	p.once.Do(func() {
		p.value = value
		p.err = err
		close(p.done)
	})
}

// Done is closed when the mutation has been applied or rejected.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the mutation resolves or ctx ends. Giving up on the wait
// does not cancel the mutation: it still applies.
func (p *Pending[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
