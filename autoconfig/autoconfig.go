/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package autoconfig

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/suparena/searchstore"
	"github.com/suparena/searchstore/config"
	"github.com/suparena/searchstore/datastore"
	"github.com/suparena/searchstore/datastore/ddb"
	"github.com/suparena/searchstore/datastore/es"
	"github.com/suparena/searchstore/datastore/mock"
	"github.com/suparena/searchstore/errors"
)

// NewClient creates the wire client of the configured backend.
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (datastore.Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case config.BackendElasticsearch, "":
		hosts := cfg.Hosts()
		logger.Info("using Elasticsearch backend", "hosts", hosts)
		return es.New(es.Config{
			Addresses: hosts,
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
			Refresh:   cfg.Elasticsearch.Refresh,
		})
	case config.BackendDynamoDB:
		return ddb.New(ctx, ddb.Config{
			Region:    cfg.DynamoDB.Region,
			AccessKey: cfg.DynamoDB.AccessKey,
			SecretKey: cfg.DynamoDB.SecretKey,
			Endpoint:  cfg.DynamoDB.Endpoint,
		}, ddb.WithLogger(logger))
	case config.BackendMemory:
		logger.Info("using in-memory backend")
		return mock.New(), nil
	default:
		return nil, errors.NewValidationError("backend", fmt.Sprintf("unknown backend %q", cfg.Backend))
	}
}

// Result is the outcome of Run.
type Result struct {
	Client datastore.Client
	Report *searchstore.Report
}

// Run validates cfg, creates its client and bootstraps the repositories under
// the configured base packages into sink. Options are passed to the
// bootstrapper after the configured logger, so a WithLogger option wins.
func Run(ctx context.Context, cfg *config.Config, sink searchstore.Sink, opts ...searchstore.Option) (*Result, error) {
	logger := config.NewLogger(cfg.Log)
	for _, w := range cfg.Validate() {
		logger.Warn("configuration warning", "warning", w)
	}

	client, err := NewClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	opts = append([]searchstore.Option{searchstore.WithLogger(logger)}, opts...)
	report, err := searchstore.Bootstrap(client, sink, cfg.Scan.BasePackages, opts...)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping repositories: %w", err)
	}
	return &Result{Client: client, Report: report}, nil
}

// Load reads the configuration at path and runs it into a new Registry.
func Load(ctx context.Context, path string, opts ...searchstore.Option) (*searchstore.Registry, *Result, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	reg := searchstore.NewRegistry()
	res, err := Run(ctx, cfg, reg, opts...)
	if err != nil {
		return nil, nil, err
	}
	return reg, res, nil
}
