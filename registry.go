/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package searchstore

import (
	"fmt"
	"sync"

	"github.com/suparena/searchstore/errors"
)

// Sink receives the synthesized repositories under their registration keys.
// Register must reject a key that is already taken.
type Sink interface {
	Register(key string, impl any) error
}

// Registry is a thread-safe Sink that keeps registrations in arrival order.
type Registry struct {
	mu    sync.RWMutex
	impls map[string]any
	keys  []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		impls: make(map[string]any),
	}
}

// Register stores impl under key.
func (r *Registry) Register(key string, impl any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.impls[key]; exists {
		return errors.NewDuplicateRegistrationError(key)
	}
	r.impls[key] = impl
	r.keys = append(r.keys, key)
	return nil
}

// Lookup returns the implementation registered under key.
func (r *Registry) Lookup(key string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	impl, exists := r.impls[key]
	if !exists {
		return nil, errors.NewNotFoundError("repository", key)
	}
	return impl, nil
}

// Keys returns every registered key in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}

// Get returns the repository registered under key as contract C.
func Get[C any](r *Registry, key string) (C, error) {
	var zero C
	impl, err := r.Lookup(key)
	if err != nil {
		return zero, err
	}
	typed, ok := impl.(C)
	if !ok {
		return zero, fmt.Errorf("repository %q is a %T, not a %T", key, impl, (*C)(nil))
	}
	return typed, nil
}

// MustGet is Get that panics on error. Use it after a successful bootstrap.
func MustGet[C any](r *Registry, key string) C {
	c, err := Get[C](r, key)
	if err != nil {
		panic(err)
	}
	return c
}
