/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package autoconfig

import (
	"context"
	"testing"

	"github.com/suparena/searchstore"
	"github.com/suparena/searchstore/config"
	"github.com/suparena/searchstore/datastore/ddb"
	"github.com/suparena/searchstore/datastore/es"
	"github.com/suparena/searchstore/datastore/mock"
	"github.com/suparena/searchstore/errors"
	"github.com/suparena/searchstore/registry"
)

const thisPkg = "github.com/suparena/searchstore/autoconfig"

type article struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

func (a article) DocumentID() string { return a.Slug }

type articleRepository interface {
	searchstore.Repository[article]
}

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	t.Run("Elasticsearch", func(t *testing.T) {
		client, err := NewClient(ctx, &config.Config{Backend: config.BackendElasticsearch}, nil)
		if err != nil {
			t.Fatalf("Failed to create client: %v", err)
		}
		if _, ok := client.(*es.Client); !ok {
			t.Fatalf("Expected an Elasticsearch client, got %T", client)
		}
	})

	t.Run("DynamoDB", func(t *testing.T) {
		cfg := &config.Config{
			Backend: config.BackendDynamoDB,
			DynamoDB: config.DynamoDBConfig{
				Region:    "us-east-1",
				AccessKey: "local",
				SecretKey: "local",
				Endpoint:  "http://localhost:8000",
			},
		}
		client, err := NewClient(ctx, cfg, nil)
		if err != nil {
			t.Fatalf("Failed to create client: %v", err)
		}
		if _, ok := client.(*ddb.Client); !ok {
			t.Fatalf("Expected a DynamoDB client, got %T", client)
		}
	})

	t.Run("Memory", func(t *testing.T) {
		client, err := NewClient(ctx, &config.Config{Backend: config.BackendMemory}, nil)
		if err != nil {
			t.Fatalf("Failed to create client: %v", err)
		}
		if _, ok := client.(*mock.Client); !ok {
			t.Fatalf("Expected an in-memory client, got %T", client)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := NewClient(ctx, &config.Config{Backend: "cassandra"}, nil)
		if !errors.IsValidationError(err) {
			t.Fatalf("Expected validation error, got %v", err)
		}
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("RegistersDeclaredRepositories", func(t *testing.T) {
		set := registry.NewSet()
		searchstore.DeclareIn[articleRepository, article](set, searchstore.WithIndex("articles"))

		cfg := &config.Config{
			Backend: config.BackendMemory,
			Scan:    config.ScanConfig{BasePackages: []string{thisPkg}},
			Log:     config.LogConfig{Level: "error"},
		}
		reg := searchstore.NewRegistry()
		res, err := Run(ctx, cfg, reg, searchstore.WithDeclarations(set))
		if err != nil {
			t.Fatalf("Failed to run: %v", err)
		}
		if len(res.Report.Registrations) != 1 || res.Report.Registrations[0].Index != "articles" {
			t.Fatalf("Unexpected report: %+v", res.Report)
		}

		repo, err := searchstore.Get[articleRepository](reg, "articleRepository")
		if err != nil {
			t.Fatalf("Failed to get repository: %v", err)
		}
		if _, err := repo.Save(ctx, article{Slug: "hello", Title: "Hello"}); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}
		got, err := repo.FindByID(ctx, "hello")
		if err != nil || got.Title != "Hello" {
			t.Fatalf("Expected the saved article, got %+v, %v", got, err)
		}
	})

	t.Run("NoBasePackages", func(t *testing.T) {
		cfg := &config.Config{Backend: config.BackendMemory, Log: config.LogConfig{Level: "error"}}
		res, err := Run(ctx, cfg, searchstore.NewRegistry(), searchstore.WithDeclarations(registry.NewSet()))
		if err != nil {
			t.Fatalf("Failed to run: %v", err)
		}
		if res.Report.BasePath != "" || len(res.Report.Registrations) != 0 {
			t.Fatalf("Expected an empty report, got %+v", res.Report)
		}
	})

	t.Run("DuplicateKeyFails", func(t *testing.T) {
		set := registry.NewSet()
		searchstore.DeclareIn[articleRepository, article](set)

		cfg := &config.Config{
			Backend: config.BackendMemory,
			Scan:    config.ScanConfig{BasePackages: []string{thisPkg}},
			Log:     config.LogConfig{Level: "error"},
		}
		reg := searchstore.NewRegistry()
		if err := reg.Register("articleRepository", struct{}{}); err != nil {
			t.Fatal(err)
		}
		if _, err := Run(ctx, cfg, reg, searchstore.WithDeclarations(set)); !errors.IsDuplicateRegistration(err) {
			t.Fatalf("Expected duplicate registration, got %v", err)
		}
	})
}
