// Package bind converts the raw values of a parse result into typed values.
package bind

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rileyhilliard/pipecli/pkg/command"
)

// ConvertFunc turns one raw token value into a typed value.
type ConvertFunc func(raw string) (any, error)

// Registry maps declared value types to their converters. It is safe for
// concurrent use; hosts normally register converters before the first run.
type Registry struct {
	mu         sync.RWMutex
	converters map[command.Type]ConvertFunc
}

// NewRegistry returns a registry holding the built-in converters.
func NewRegistry() *Registry {
	r := &Registry{converters: make(map[command.Type]ConvertFunc)}
	r.Register(command.TypeString, func(raw string) (any, error) { return raw, nil })
	r.Register(command.TypeInt, func(raw string) (any, error) { return strconv.Atoi(raw) })
	r.Register(command.TypeInt64, func(raw string) (any, error) { return strconv.ParseInt(raw, 10, 64) })
	r.Register(command.TypeUint, func(raw string) (any, error) {
		n, err := strconv.ParseUint(raw, 10, 0)
		return uint(n), err
	})
	r.Register(command.TypeFloat, func(raw string) (any, error) { return strconv.ParseFloat(raw, 64) })
	r.Register(command.TypeBool, func(raw string) (any, error) { return strconv.ParseBool(raw) })
	r.Register(command.TypeDuration, func(raw string) (any, error) { return time.ParseDuration(raw) })
	return r
}

// Register sets the converter for t, replacing any existing one.
func (r *Registry) Register(t command.Type, fn ConvertFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converters[t] = fn
}

// Lookup returns the converter for t.
func (r *Registry) Lookup(t command.Type) (ConvertFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.converters[t]
	return fn, ok
}

// Convert converts raw with the converter registered for t.
func (r *Registry) Convert(t command.Type, raw string) (any, error) {
	fn, ok := r.Lookup(t)
	if !ok {
		return nil, fmt.Errorf("no converter registered for type %q", t)
	}
	return fn(raw)
}
