/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/suparena/searchstore/contract"
	"github.com/suparena/searchstore/errors"
)

// Set is an ordered list of contract declarations keyed by Go type.
type Set struct {
	mu       sync.RWMutex
	declared []contract.Type
	byType   map[reflect.Type]int
}

// NewSet creates an empty declaration set.
func NewSet() *Set {
	return &Set{byType: make(map[reflect.Type]int)}
}

// Declare appends a declaration. Declaring the same Go type twice panics to
// prevent accidental overrides, like a duplicated generated file would cause.
func (s *Set) Declare(t contract.Type) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Go != nil {
		if _, exists := s.byType[t.Go]; exists {
			panic(fmt.Sprintf("registry: contract %s already declared", t.QualifiedName()))
		}
		s.byType[t.Go] = len(s.declared)
	}
	s.declared = append(s.declared, t)
}

// Declared returns a copy of every declaration, in declaration order.
func (s *Set) Declared() []contract.Type {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]contract.Type, len(s.declared))
	copy(out, s.declared)
	return out
}

// Lookup returns the declaration for a Go interface type, if any.
func (s *Set) Lookup(t reflect.Type) (contract.Type, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byType[t]
	if !ok {
		return contract.Type{}, false
	}
	return s.declared[i], true
}

// LookupName returns the declaration with the given qualified name, if any.
func (s *Set) LookupName(qualified string) (contract.Type, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.declared {
		if t.QualifiedName() == qualified {
			return t, true
		}
	}
	return contract.Type{}, false
}

// Reset drops every declaration.
func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.declared = nil
	s.byType = make(map[reflect.Type]int)
}

// Scanner enumerates the declarations of a Set that live under a base package.
type Scanner struct {
	set    *Set
	logger *slog.Logger
}

// NewScanner returns a Scanner over set. A nil logger means slog.Default().
func NewScanner(set *Set, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{set: set, logger: logger}
}

// Scan returns the declarations whose package is basePath or one of its
// sub-packages. Declarations that cannot be bound are logged and skipped; an
// empty base path is logged and yields nothing.
func (sc *Scanner) Scan(basePath string) []contract.Type {
	basePath = strings.TrimSuffix(strings.TrimSpace(basePath), "/")
	if basePath == "" {
		err := errors.NewDiscoveryIOError(basePath, fmt.Errorf("empty base package"))
		sc.logger.Error("repository discovery failed", "error", err)
		return nil
	}

	var found []contract.Type
	for _, t := range sc.set.Declared() {
		if t.PkgPath != basePath && !strings.HasPrefix(t.PkgPath, basePath+"/") {
			continue
		}
		if t.Go == nil || t.Bind == nil {
			err := errors.NewTypeLoadError(t.QualifiedName(), fmt.Errorf("declaration has no bound Go type"))
			sc.logger.Warn("skipping unloadable declaration", "error", err, "source", t.Source)
			continue
		}
		found = append(found, t)
	}
	return found
}

var defaultSet = NewSet()

// Default returns the process-wide declaration set that generated code fills.
func Default() *Set {
	return defaultSet
}

// Declare adds a declaration to the process-wide set.
func Declare(t contract.Type) {
	defaultSet.Declare(t)
}

// Declared returns the declarations of the process-wide set.
func Declared() []contract.Type {
	return defaultSet.Declared()
}
