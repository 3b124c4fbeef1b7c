// Package singleton provides a lazily initialised, process-wide value holder.
package singleton

import (
	"sync"
	"sync/atomic"
)

// Cell holds at most one value of T, constructed on first Get.
// The zero value is ready to use. A Cell must not be copied after first use.
type Cell[T any] struct {
	mu   sync.Mutex
	done atomic.Bool
	v    T
}

// Get returns the cell value, calling newFn to build it if the cell is still empty.
// newFn runs at most once per cell and must not call Get on the same cell.
func (c *Cell[T]) Get(newFn func() T) T {
	if c.done.Load() {
		return c.v
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.done.Load() {
		c.v = newFn()
		c.done.Store(true)
	}
	return c.v
}

// Load returns the value and whether it has been constructed, without constructing it.
func (c *Cell[T]) Load() (T, bool) {
	if c.done.Load() {
		return c.v, true
	}
	var zero T
	return zero, false
}

// New returns a getter bound to a private cell: every call yields the same instance.
func New[T any](newFn func() T) func() T {
	var c Cell[T]
	return func() T { return c.Get(newFn) }
}
