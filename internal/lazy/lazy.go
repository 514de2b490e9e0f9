// Package lazy provides lazy loading utilities
package lazy

import (
	"context"
	"sync"
)

// Loader function signature for lazy loading
type Loader[T any] func(ctx context.Context) (T, error)

// Lazy represents a lazy-loaded value
type Lazy[T any] struct {
	loader Loader[T]
	value  T
	err    error
	loaded bool
	mutex  sync.Mutex
}

// New creates a new lazy value with a loader function
func New[T any](loader Loader[T]) *Lazy[T] {
	return &Lazy[T]{
		loader: loader,
	}
}

// Get returns the value, loading it if necessary. A load error is cached
// alongside the value; use Reset to force a retry.
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if !l.loaded {
		l.value, l.err = l.loader(ctx)
		l.loaded = true
	}

	return l.value, l.err
}

// IsLoaded returns true if the value has been loaded
func (l *Lazy[T]) IsLoaded() bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.loaded
}

// Reset clears the cached value, forcing reload on next Get
func (l *Lazy[T]) Reset() {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	var zero T
	l.value = zero
	l.err = nil
	l.loaded = false
}
