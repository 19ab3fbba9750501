package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrNotFound is returned by Build for an unregistered name.
var ErrNotFound = errors.New("not registered")

// Factory builds a T from its configuration.
type Factory[C, T any] func(cfg C) (T, error)

// Registry maps names to factories. Names are case-insensitive.
// Safe for concurrent use.
type Registry[C, T any] struct {
	mu        sync.RWMutex
	factories map[string]Factory[C, T]
}

// New creates an empty registry.
func New[C, T any]() *Registry[C, T] {
	return &Registry[C, T]{
		factories: make(map[string]Factory[C, T]),
	}
}

// Register adds a factory. An existing factory with the same name is replaced.
func (r *Registry[C, T]) Register(name string, fn Factory[C, T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[normalize(name)] = fn
}

// Build looks up a factory by name and runs it.
func (r *Registry[C, T]) Build(name string, cfg C) (T, error) {
	r.mu.RLock()
	fn, ok := r.factories[normalize(name)]
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q (want %s)", ErrNotFound, name, strings.Join(r.Names(), ", "))
	}
	return fn(cfg)
}

// Names lists registered names in sorted order.
func (r *Registry[C, T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
