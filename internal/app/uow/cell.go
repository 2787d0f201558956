package uow

import "sync"

// Cell is a value guarded by a sync.RWMutex: Get takes the shared lock,
// Set and Update take the exclusive lock.
type Cell[T any] struct {
	mu  sync.RWMutex
	val T
}

// NewCell returns a Cell holding val.
func NewCell[T any](val T) *Cell[T] {
	return &Cell[T]{val: val}
}

// Get returns a copy of the value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.val
}

// Read calls fn with the value under the shared lock. fn must not retain
// the pointer.
func (c *Cell[T]) Read(fn func(*T)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(&c.val)
}

// Set replaces the value.
func (c *Cell[T]) Set(val T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.val = val
}

// Update mutates the value in place under the exclusive lock.
func (c *Cell[T]) Update(fn func(*T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.val)
}
