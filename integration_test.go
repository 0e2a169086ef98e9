//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package searchstore_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/suparena/searchstore"
	"github.com/suparena/searchstore/autoconfig"
	"github.com/suparena/searchstore/config"
	"github.com/suparena/searchstore/datastore/testmodels"
	"github.com/suparena/searchstore/errors"
	"github.com/suparena/searchstore/registry"
)

const integrationPkg = "github.com/suparena/searchstore_test"

type productRepository interface {
	searchstore.Repository[testmodels.Product]
}

// liveRegistry bootstraps productRepository against the cluster named by
// SEARCHSTORE_ELASTICSEARCH_HOSTS on a fresh index.
func liveRegistry(t *testing.T) (productRepository, string) {
	t.Helper()
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, proceeding with environment variables")
	}
	if os.Getenv("SEARCHSTORE_ELASTICSEARCH_HOSTS") == "" {
		t.Skip("SEARCHSTORE_ELASTICSEARCH_HOSTS not set")
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	cfg.Backend = config.BackendElasticsearch
	cfg.Elasticsearch.Refresh = "true"
	cfg.Scan.BasePackages = []string{integrationPkg}

	index := "searchstore-it-" + uuid.NewString()
	set := registry.NewSet()
	searchstore.DeclareIn[productRepository, testmodels.Product](set, searchstore.WithIndex(index))

	reg := searchstore.NewRegistry()
	if _, err := autoconfig.Run(context.Background(), cfg, reg, searchstore.WithDeclarations(set)); err != nil {
		t.Fatalf("Failed to bootstrap: %v", err)
	}
	repo, err := searchstore.Get[productRepository](reg, "productRepository")
	if err != nil {
		t.Fatalf("Failed to get repository: %v", err)
	}
	return repo, index
}

func liveProduct(sku, name, brand string, price float64) testmodels.Product {
	now := strfmt.DateTime(time.Now().UTC())
	return testmodels.Product{
		SKU:       aws.String(sku),
		Name:      aws.String(name),
		Brand:     brand,
		Price:     price,
		CreatedAt: &now,
		UpdatedAt: &now,
	}
}

func TestIntegrationRepository(t *testing.T) {
	ctx := context.Background()
	repo, index := liveRegistry(t)

	if repo.IndexName() != index {
		t.Fatalf("Expected index %s, got %s", index, repo.IndexName())
	}
	if err := repo.CreateIndex(ctx, nil); err != nil {
		t.Fatalf("Failed to create index: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.DeleteIndex(context.Background()); err != nil {
			t.Logf("Failed to delete index %s: %v", index, err)
		}
	})

	err := repo.SaveAll(ctx, []testmodels.Product{
		liveProduct("sku-1", "Desk lamp", "acme", 30),
		liveProduct("sku-2", "Floor lamp", "acme", 90),
		liveProduct("sku-3", "Desk chair", "globex", 120),
	})
	if err != nil {
		t.Fatalf("Failed to save products: %v", err)
	}

	t.Run("FindByID", func(t *testing.T) {
		p, err := repo.FindByID(ctx, "sku-2")
		if err != nil {
			t.Fatalf("Failed to find product: %v", err)
		}
		if aws.ToString(p.Name) != "Floor lamp" {
			t.Fatalf("Unexpected product %+v", p)
		}
		if _, err := repo.FindByID(ctx, "missing"); !errors.IsNotFound(err) {
			t.Fatalf("Expected not found, got %v", err)
		}
	})

	t.Run("Page", func(t *testing.T) {
		q := searchstore.Query{
			Text:   "lamp",
			Fields: []string{"Name"},
			Sort:   []searchstore.Sort{{Field: "Price", Desc: true}},
		}
		page, err := repo.Page(ctx, q, 1, 1)
		if err != nil {
			t.Fatalf("Failed to page: %v", err)
		}
		if page.Total != 2 || len(page.Items) != 1 || aws.ToString(page.Items[0].SKU) != "sku-2" {
			t.Fatalf("Unexpected page %+v", page)
		}

		n, err := repo.Count(ctx, searchstore.Query{Filters: map[string]string{"Brand": "acme"}})
		if err != nil || n != 2 {
			t.Fatalf("Expected 2 acme products, got %d, %v", n, err)
		}
	})

	t.Run("DeleteByID", func(t *testing.T) {
		if err := repo.DeleteByID(ctx, "sku-3"); err != nil {
			t.Fatalf("Failed to delete: %v", err)
		}
		if err := repo.DeleteByID(ctx, "sku-3"); !errors.IsNotFound(err) {
			t.Fatalf("Expected not found on second delete, got %v", err)
		}
	})
}
