// Package invoke builds and runs the invocation chain of a resolved command:
// the interceptors of its ancestors, root outermost, around its handler.
package invoke

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by resolvers that know nothing about a type.
var ErrNotFound = errors.New("instance not found")

// Resolver supplies the instances that handlers and interceptors declare
// through their InstanceType.
type Resolver interface {
	Resolve(typeID string) (any, error)
}

// Factory constructs an instance on demand.
type Factory func() (any, error)

// Registry is a map-backed Resolver. Factories run on every Resolve, so
// each execution gets its own instance.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register sets the factory for typeID.
func (r *Registry) Register(typeID string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[typeID] = f
}

// RegisterInstance makes every Resolve of typeID return v.
func (r *Registry) RegisterInstance(typeID string, v any) {
	r.Register(typeID, func() (any, error) { return v, nil })
}

// Resolve implements Resolver.
func (r *Registry) Resolve(typeID string) (any, error) {
	r.mu.RLock()
	f, ok := r.factories[typeID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("resolve %q: %w", typeID, ErrNotFound)
	}
	return f()
}
