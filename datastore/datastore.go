/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"encoding/json"

	"github.com/suparena/searchstore/storagemodels"
)

// Client is the search engine wire client shared by every repository.
// Every call names the index it targets; a Client holds no per-index state and
// must be safe for concurrent use.
type Client interface {
	// Get returns the document with the given ID or a not found error.
	Get(ctx context.Context, index, id string) (storagemodels.Document, error)

	// Index writes a document, replacing any previous version, and returns its ID.
	Index(ctx context.Context, index string, doc storagemodels.Document) (string, error)

	// Bulk writes many documents in one request.
	Bulk(ctx context.Context, index string, docs []storagemodels.Document) error

	// Delete removes a document or returns a not found error.
	Delete(ctx context.Context, index, id string) error

	Search(ctx context.Context, index string, q *storagemodels.Query) (*storagemodels.Hits, error)

	Count(ctx context.Context, index string, q *storagemodels.Query) (uint64, error)

	// CreateIndex creates the index with an optional mapping body.
	CreateIndex(ctx context.Context, index string, mapping json.RawMessage) error

	DeleteIndex(ctx context.Context, index string) error
}
