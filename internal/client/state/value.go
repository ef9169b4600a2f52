package state

import "sync"

// Value is an observable cell. Get returns the current value; Subscribe
// registers a callback invoked on every Set.
type Value[T any] struct {
	mu   sync.Mutex
	v    T
	next int
	subs map[int]func(T)
}

// NewValue returns a cell holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{v: initial, subs: make(map[int]func(T))}
}

func (c *Value[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

// Set stores v and notifies subscribers in registration order.
func (c *Value[T]) Set(v T) {
	c.mu.Lock()
	c.v = v
	fns := c.snapshot()
	c.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Subscribe registers fn and returns a function that removes it.
func (c *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	c.mu.Lock()
	id := c.next
	c.next++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Value[T]) snapshot() []func(T) {
	fns := make([]func(T), 0, len(c.subs))
	for i := 0; i < c.next; i++ {
		if fn, ok := c.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
