//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-openapi/strfmt"
	"github.com/joho/godotenv"

	"github.com/suparena/searchstore/datastore/testmodels"
	"github.com/suparena/searchstore/errors"
	"github.com/suparena/searchstore/storagemodels"
)

func getLiveClient(t *testing.T) (*Client, string) {
	t.Helper()
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, proceeding with environment variables")
	}

	table := os.Getenv("AWS_DDB_TABLE")
	if table == "" {
		t.Skip("AWS_DDB_TABLE not set")
	}

	client, err := New(context.Background(), Config{
		Region:    os.Getenv("AWS_REGION"),
		AccessKey: os.Getenv("AWS_ACCESS_KEY"),
		SecretKey: os.Getenv("AWS_SECRET_KEY"),
		Endpoint:  os.Getenv("AWS_DDB_ENDPOINT"),
	}, WithTableWait(2*time.Minute))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	err = client.CreateIndex(context.Background(), table, nil)
	if err != nil && !errors.IsAlreadyExists(err) {
		t.Fatalf("Failed to create table: %v", err)
	}
	return client, table
}

func TestIntegrationDocumentLifecycle(t *testing.T) {
	ctx := context.Background()
	client, table := getLiveClient(t)

	ct := strfmt.DateTime(time.Now())
	product := testmodels.Product{
		SKU:       aws.String("TTOakville"),
		Name:      aws.String("Oakville table tennis paddle (test)"),
		Brand:     "oakville",
		Price:     49.5,
		CreatedAt: &ct,
		UpdatedAt: &ct,
	}
	src, err := json.Marshal(product)
	if err != nil {
		t.Fatalf("Failed to encode product: %v", err)
	}

	id, err := client.Index(ctx, table, storagemodels.Document{ID: product.DocumentID(), Source: src})
	if err != nil {
		t.Fatalf("Failed to index: %v", err)
	}

	got, err := client.Get(ctx, table, id)
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	t.Logf("Product: %s", got.Source)

	hits, err := client.Search(ctx, table, &storagemodels.Query{Text: "paddle", Filters: map[string]string{"Brand": "oakville"}})
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if hits.Total == 0 {
		t.Fatal("Expected the product to be found")
	}

	if err := client.Delete(ctx, table, id); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
}
