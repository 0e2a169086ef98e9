/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package searchstore

import (
	"context"
	"encoding/json"

	"github.com/suparena/searchstore/storagemodels"
)

// Query is the search request accepted by repositories.
type Query = storagemodels.Query

// Sort orders search hits by a document field.
type Sort = storagemodels.Sort

// Repository is the marker capability of repository contracts and the fixed
// operation set every synthesized implementation provides. A contract embeds
// it and nothing else:
//
//	//searchstore:index products
//	type ProductRepo interface {
//	    searchstore.Repository[Product]
//	}
type Repository[T any] interface {
	// IndexName returns the index the repository is bound to.
	IndexName() string

	// FindByID returns the document with the given ID or a not found error.
	FindByID(ctx context.Context, id string) (*T, error)

	// Search returns the window of documents selected by q.
	Search(ctx context.Context, q Query) ([]T, error)

	// Page returns the 1-based page of documents matching q, with the total match count.
	Page(ctx context.Context, q Query, page, size int) (*Page[T], error)

	Count(ctx context.Context, q Query) (uint64, error)

	// Save indexes doc and returns its ID.
	Save(ctx context.Context, doc T) (string, error)

	SaveAll(ctx context.Context, docs []T) error

	DeleteByID(ctx context.Context, id string) error

	// CreateIndex creates the bound index with an optional mapping body.
	CreateIndex(ctx context.Context, mapping json.RawMessage) error

	DeleteIndex(ctx context.Context) error
}

// Page is one page of a paged query.
type Page[T any] struct {
	// Total counts every match on the server.
	Total uint64 `json:"total"`
	// Items holds the page itself, never more than the requested size.
	Items []T `json:"items"`
}

// Identifiable documents choose their own IDs. Documents that do not
// implement it get an ID assigned by the search engine.
type Identifiable interface {
	DocumentID() string
}
