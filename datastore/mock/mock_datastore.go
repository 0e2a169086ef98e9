/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of datastore.Client for testing
package mock

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/suparena/searchstore/errors"
	"github.com/suparena/searchstore/storagemodels"
)

// Client is an in-memory datastore.Client. Indices are created on first write,
// the way Elasticsearch auto-creates them.
type Client struct {
	mu          sync.RWMutex
	indices     map[string]map[string]json.RawMessage
	mappings    map[string]json.RawMessage
	searchFunc  func(ctx context.Context, index string, q *storagemodels.Query) (*storagemodels.Hits, error)
	getError    error
	indexError  error
	deleteError error
	searchError error
	calls       atomic.Int64
}

// New creates a new mock Client
func New() *Client {
	return &Client{
		indices:  make(map[string]map[string]json.RawMessage),
		mappings: make(map[string]json.RawMessage),
	}
}

// WithSearchFunc sets a custom search function for testing
func (m *Client) WithSearchFunc(f func(ctx context.Context, index string, q *storagemodels.Query) (*storagemodels.Hits, error)) *Client {
	m.searchFunc = f
	return m
}

// WithGetError makes Get operations return an error
func (m *Client) WithGetError(err error) *Client {
	m.getError = err
	return m
}

// WithIndexError makes Index and Bulk operations return an error
func (m *Client) WithIndexError(err error) *Client {
	m.indexError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *Client) WithDeleteError(err error) *Client {
	m.deleteError = err
	return m
}

// WithSearchError makes Search and Count operations return an error
func (m *Client) WithSearchError(err error) *Client {
	m.searchError = err
	return m
}

// Get retrieves a document by ID
func (m *Client) Get(ctx context.Context, index, id string) (storagemodels.Document, error) {
	m.calls.Add(1)
	if m.getError != nil {
		return storagemodels.Document{}, m.getError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if src, exists := m.indices[index][id]; exists {
		return storagemodels.Document{ID: id, Source: src}, nil
	}
	return storagemodels.Document{}, errors.NewNotFoundError("document", id)
}

// Index stores a document, assigning a UUID when it has no ID
func (m *Client) Index(ctx context.Context, index string, doc storagemodels.Document) (string, error) {
	m.calls.Add(1)
	if m.indexError != nil {
		return "", m.indexError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.put(index, doc)
}

// Bulk stores every document or none of them
func (m *Client) Bulk(ctx context.Context, index string, docs []storagemodels.Document) error {
	m.calls.Add(1)
	if m.indexError != nil {
		return m.indexError
	}

	for _, d := range docs {
		if !json.Valid(d.Source) {
			return errors.NewValidationError("source", "document "+d.ID+" is not valid JSON")
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range docs {
		if _, err := m.put(index, d); err != nil {
			return err
		}
	}
	return nil
}

func (m *Client) put(index string, doc storagemodels.Document) (string, error) {
	if !json.Valid(doc.Source) {
		return "", errors.NewValidationError("source", "document is not valid JSON")
	}
	id := doc.ID
	if id == "" {
		id = uuid.NewString()
	}
	if m.indices[index] == nil {
		m.indices[index] = make(map[string]json.RawMessage)
	}
	m.indices[index][id] = append(json.RawMessage(nil), doc.Source...)
	return id, nil
}

// Delete removes a document by ID
func (m *Client) Delete(ctx context.Context, index, id string) error {
	m.calls.Add(1)
	if m.deleteError != nil {
		return m.deleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.indices[index][id]; !exists {
		return errors.NewNotFoundError("document", id)
	}
	delete(m.indices[index], id)
	return nil
}

// Search evaluates the query in process. Without a sort, hits come back in ID order.
func (m *Client) Search(ctx context.Context, index string, q *storagemodels.Query) (*storagemodels.Hits, error) {
	m.calls.Add(1)
	if m.searchFunc != nil {
		return m.searchFunc(ctx, index, q)
	}
	if m.searchError != nil {
		return nil, m.searchError
	}

	matched, err := m.match(index, q)
	if err != nil {
		return nil, err
	}
	if q != nil {
		if err := storagemodels.SortDocuments(matched, q.Sort); err != nil {
			return nil, err
		}
	}
	return &storagemodels.Hits{
		Total:     uint64(len(matched)),
		Documents: q.Window(matched),
	}, nil
}

// Count returns the number of documents matching the query
func (m *Client) Count(ctx context.Context, index string, q *storagemodels.Query) (uint64, error) {
	m.calls.Add(1)
	if m.searchError != nil {
		return 0, m.searchError
	}

	matched, err := m.match(index, q)
	if err != nil {
		return 0, err
	}
	return uint64(len(matched)), nil
}

func (m *Client) match(index string, q *storagemodels.Query) ([]storagemodels.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]storagemodels.Document, 0, len(m.indices[index]))
	for id, src := range m.indices[index] {
		ok, err := q.Match(src)
		if err != nil {
			return nil, err
		}
		if ok {
			docs = append(docs, storagemodels.Document{ID: id, Source: src})
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// CreateIndex creates an empty index
func (m *Client) CreateIndex(ctx context.Context, index string, mapping json.RawMessage) error {
	m.calls.Add(1)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.indices[index]; exists {
		return errors.NewAlreadyExistsError("index", index)
	}
	m.indices[index] = make(map[string]json.RawMessage)
	if len(mapping) > 0 {
		m.mappings[index] = mapping
	}
	return nil
}

// DeleteIndex drops an index and all of its documents
func (m *Client) DeleteIndex(ctx context.Context, index string) error {
	m.calls.Add(1)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.indices[index]; !exists {
		return errors.NewNotFoundError("index", index)
	}
	delete(m.indices, index)
	delete(m.mappings, index)
	return nil
}

// Helper methods for testing

// SetData directly replaces the documents of an index (for testing)
func (m *Client) SetData(index string, data map[string]json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indices[index] = data
}

// GetData returns a copy of the documents of an index (for testing)
func (m *Client) GetData(index string) map[string]json.RawMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]json.RawMessage, len(m.indices[index]))
	for k, v := range m.indices[index] {
		result[k] = v
	}
	return result
}

// Mapping returns the mapping an index was created with
func (m *Client) Mapping(index string) json.RawMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mappings[index]
}

// Len returns the number of documents stored in an index
func (m *Client) Len(index string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.indices[index])
}

// Calls returns how many client operations have been invoked
func (m *Client) Calls() int64 {
	return m.calls.Load()
}

// Clear removes all indices
func (m *Client) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indices = make(map[string]map[string]json.RawMessage)
	m.mappings = make(map[string]json.RawMessage)
}
