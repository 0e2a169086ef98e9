/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package searchstore

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/suparena/searchstore/contract"
	"github.com/suparena/searchstore/datastore"
	"github.com/suparena/searchstore/errors"
	"github.com/suparena/searchstore/registry"
)

// Scanner enumerates the types declared under a base package. Discovery
// failures are reported through logging and yield an empty result.
type Scanner interface {
	Scan(basePath string) []contract.Type
}

// Option configures a Bootstrapper.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	scanner      Scanner
	declarations *registry.Set
	strict       bool
}

// WithLogger sets the logger used for discovery diagnostics and registrations.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithScanner replaces the scanner. The default scans the declaration set.
func WithScanner(s Scanner) Option {
	return func(o *options) {
		o.scanner = s
	}
}

// WithDeclarations sets the declaration set used for scanning and for binding
// types found by a source scanner. It defaults to registry.Default().
func WithDeclarations(set *registry.Set) Option {
	return func(o *options) {
		if set != nil {
			o.declarations = set
		}
	}
}

// WithStrictIndexNames makes a contract without an index descriptor an error
// instead of falling back to its derived name.
func WithStrictIndexNames() Option {
	return func(o *options) {
		o.strict = true
	}
}

// Registration describes one repository handed to the sink.
type Registration struct {
	Key      string
	Index    string
	Contract contract.Type
}

// Report summarizes a bootstrap run.
type Report struct {
	// BasePath is the base package that was scanned, empty when none was given.
	BasePath string
	// Scanned counts the types the scanner returned, qualifying or not.
	Scanned       int
	Registrations []Registration
}

// Bootstrapper discovers repository contracts, synthesizes their
// implementations and registers them. It runs at most once.
type Bootstrapper struct {
	client datastore.Client
	sink   Sink
	opts   options

	mu  sync.Mutex
	ran bool
}

// NewBootstrapper creates a Bootstrapper over a shared client and a sink.
func NewBootstrapper(client datastore.Client, sink Sink, opts ...Option) *Bootstrapper {
	o := options{
		logger:       slog.Default(),
		declarations: registry.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.scanner == nil {
		o.scanner = registry.NewScanner(o.declarations, o.logger)
	}
	return &Bootstrapper{client: client, sink: sink, opts: o}
}

// Run scans the first base package, keeps the repository contracts, and
// registers one implementation per contract. Discovery problems are logged and
// never fail the run; synthesis and registration errors abort it.
func (b *Bootstrapper) Run(basePackages []string) (*Report, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ran {
		return nil, errors.ErrAlreadyBootstrapped
	}
	b.ran = true

	report := &Report{}
	if len(basePackages) == 0 {
		b.opts.logger.Info("no base package configured, no repositories registered")
		return report, nil
	}
	if len(basePackages) > 1 {
		b.opts.logger.Warn("only the first base package is scanned", "base", basePackages[0], "ignored", basePackages[1:])
	}
	report.BasePath = strings.TrimSpace(basePackages[0])

	types := b.opts.scanner.Scan(report.BasePath)
	report.Scanned = len(types)

	for _, t := range types {
		if !contract.IsRepositoryContract(t) {
			continue
		}
		reg, err := b.register(t)
		if err != nil {
			return report, err
		}
		report.Registrations = append(report.Registrations, reg)
	}

	b.opts.logger.Info("repositories bootstrapped",
		"base", report.BasePath,
		"scanned", report.Scanned,
		"registered", len(report.Registrations))
	return report, nil
}

func (b *Bootstrapper) register(t contract.Type) (Registration, error) {
	index := contract.ResolveIndexName(t)
	if b.opts.strict {
		var err error
		if index, err = contract.ResolveIndexNameStrict(t); err != nil {
			return Registration{}, err
		}
	}

	if t.Bind == nil {
		if d, ok := b.opts.declarations.LookupName(t.QualifiedName()); ok {
			t.Bind = d.Bind
		}
	}
	impl, key, err := Synthesize(t, b.client, index)
	if err != nil {
		return Registration{}, err
	}
	if err := b.sink.Register(key, impl); err != nil {
		return Registration{}, err
	}

	b.opts.logger.Debug("registered repository", "key", key, "index", index, "contract", t.QualifiedName())
	return Registration{Key: key, Index: index, Contract: t}, nil
}

// Bootstrap runs a fresh Bootstrapper once.
func Bootstrap(client datastore.Client, sink Sink, basePackages []string, opts ...Option) (*Report, error) {
	return NewBootstrapper(client, sink, opts...).Run(basePackages)
}
