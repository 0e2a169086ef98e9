/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"encoding/json"
)

// DefaultSize is the number of hits returned when a query does not set Size.
const DefaultSize = 10

// Document is a single stored document: its ID and raw JSON source.
type Document struct {
	// ID is the document identifier. Empty on write lets the backend assign one.
	ID string
	// Source is the JSON body of the document.
	Source json.RawMessage
}

// Sort orders hits by a top-level document field.
type Sort struct {
	Field string
	Desc  bool
}

// Query defines the parameters of a search against one index.
type Query struct {
	// Text is a free-text query. Empty text matches every document.
	Text string
	// Fields restricts Text matching to these top-level fields. Empty means all fields.
	Fields []string
	// Filters are exact-match conditions on top-level fields, all of which must hold.
	Filters map[string]string
	// Body is a raw Elasticsearch query clause. When set it replaces Text and Filters.
	// Backends without a query DSL reject it.
	Body json.RawMessage
	// Sort is applied in order. Without it hits come back in backend order.
	Sort []Sort
	// From is the offset of the first hit.
	From int
	// Size is the maximum number of hits; zero means DefaultSize.
	Size int
}

// Limit returns the effective page size of the query.
func (q *Query) Limit() int {
	if q == nil || q.Size <= 0 {
		return DefaultSize
	}
	return q.Size
}

// Offset returns the effective offset of the query.
func (q *Query) Offset() int {
	if q == nil || q.From < 0 {
		return 0
	}
	return q.From
}

// Hits is the result of a search: the total match count and the returned window.
type Hits struct {
	// Total counts every match on the server, not just the returned documents.
	Total uint64
	// Documents holds at most Query.Limit() documents, in result order.
	Documents []Document
}
