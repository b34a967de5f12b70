// Package completion bridges callback-style completion into a single
// blocking wait. A Cell is resolved at most once and its waiter is resumed
// at most once.
package completion

import (
	"context"
	"errors"
	"sync"
)

// ErrAlreadyResolved is returned when a Cell is resolved a second time.
// A double resolve is a programming error in the producer.
var ErrAlreadyResolved = errors.New("completion: cell already resolved")

// Cell holds the eventual outcome of one asynchronous operation.
type Cell[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// New returns an unresolved Cell.
func New[T any]() *Cell[T] {
	return &Cell[T]{done: make(chan struct{})}
}

// Resolve stores the outcome and wakes the waiter. Only the first call has
// any effect; later calls return ErrAlreadyResolved and leave the stored
// outcome untouched.
func (c *Cell[T]) Resolve(value T, err error) error {
	resolved := false
	c.once.Do(func() {
		c.value = value
		c.err = err
		close(c.done)
		resolved = true
	})
	if !resolved {
		return ErrAlreadyResolved
	}
	return nil
}

// Done is closed once the cell has been resolved.
func (c *Cell[T]) Done() <-chan struct{} {
	return c.done
}

// Resolved reports whether Resolve has been called.
func (c *Cell[T]) Resolved() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the cell is resolved or ctx is done. When ctx wins the
// context error is returned; a producer that never resolves therefore cannot
// hang a caller whose context carries a deadline or is cancelled.
func (c *Cell[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-c.done:
		return c.value, c.err
	case <-ctx.Done():
		// prefer an outcome that raced in alongside cancellation
		select {
		case <-c.done:
			return c.value, c.err
		default:
		}
		var zero T
		return zero, ctx.Err()
	}
}

// Go runs fn in a new goroutine and resolves a fresh cell with its result.
func Go[T any](fn func() (T, error)) *Cell[T] {
	c := New[T]()
	go func() {
		v, err := fn()
		_ = c.Resolve(v, err)
	}()
	return c
}
