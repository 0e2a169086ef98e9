/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/suparena/searchstore/errors"
	"github.com/suparena/searchstore/storagemodels"
)

// Config holds the connection settings of an Elasticsearch client.
type Config struct {
	Addresses []string
	Username  string
	Password  string
	// Refresh is passed as the refresh parameter of writes: "", "true" or "wait_for".
	Refresh string
	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// Client implements datastore.Client on top of the official Elasticsearch client.
type Client struct {
	es      *elasticsearch.Client
	refresh string
}

// New creates a Client for the given cluster. No request is sent.
func New(cfg Config) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return &Client{es: es, refresh: cfg.Refresh}, nil
}

// NewFromClient wraps an existing Elasticsearch client.
func NewFromClient(es *elasticsearch.Client) *Client {
	return &Client{es: es}
}

// Get retrieves a document by ID.
func (c *Client) Get(ctx context.Context, index, id string) (storagemodels.Document, error) {
	res, err := c.es.Get(index, id, c.es.Get.WithContext(ctx))
	if err != nil {
		return storagemodels.Document{}, fmt.Errorf("get request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return storagemodels.Document{}, errors.NewNotFoundError("document", id)
	}
	if res.IsError() {
		return storagemodels.Document{}, responseError(res, "document", id)
	}

	var body struct {
		ID     string          `json:"_id"`
		Found  bool            `json:"found"`
		Source json.RawMessage `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return storagemodels.Document{}, fmt.Errorf("failed to decode get response: %w", err)
	}
	if !body.Found {
		return storagemodels.Document{}, errors.NewNotFoundError("document", id)
	}
	return storagemodels.Document{ID: body.ID, Source: body.Source}, nil
}

// Index stores a document. Without an ID the cluster assigns one.
func (c *Client) Index(ctx context.Context, index string, doc storagemodels.Document) (string, error) {
	opts := []func(*esapi.IndexRequest){c.es.Index.WithContext(ctx)}
	if doc.ID != "" {
		opts = append(opts, c.es.Index.WithDocumentID(doc.ID))
	}
	if c.refresh != "" {
		opts = append(opts, c.es.Index.WithRefresh(c.refresh))
	}

	res, err := c.es.Index(index, bytes.NewReader(doc.Source), opts...)
	if err != nil {
		return "", fmt.Errorf("index request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", responseError(res, "document", doc.ID)
	}
	var body struct {
		ID string `json:"_id"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode index response: %w", err)
	}
	return body.ID, nil
}

// Bulk indexes docs in one request. It fails with the first item error.
func (c *Client) Bulk(ctx context.Context, index string, docs []storagemodels.Document) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, d := range docs {
		meta := map[string]any{}
		if d.ID != "" {
			meta["_id"] = d.ID
		}
		if err := enc.Encode(map[string]any{"index": meta}); err != nil {
			return fmt.Errorf("failed to encode bulk action: %w", err)
		}
		if err := json.Compact(&buf, d.Source); err != nil {
			return errors.NewValidationError("source", fmt.Sprintf("document %q is not valid JSON", d.ID))
		}
		buf.WriteByte('\n')
	}

	opts := []func(*esapi.BulkRequest){c.es.Bulk.WithContext(ctx), c.es.Bulk.WithIndex(index)}
	if c.refresh != "" {
		opts = append(opts, c.es.Bulk.WithRefresh(c.refresh))
	}
	res, err := c.es.Bulk(&buf, opts...)
	if err != nil {
		return fmt.Errorf("bulk request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(res, "index", index)
	}
	var body struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string       `json:"_id"`
			Status int          `json:"status"`
			Error  *errorDetail `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode bulk response: %w", err)
	}
	if !body.Errors {
		return nil
	}
	for _, item := range body.Items {
		for _, result := range item {
			if result.Error != nil {
				return fmt.Errorf("bulk item %q failed with status %d: %s", result.ID, result.Status, result.Error)
			}
		}
	}
	return fmt.Errorf("bulk request reported errors")
}

// Delete removes a document by ID.
func (c *Client) Delete(ctx context.Context, index, id string) error {
	opts := []func(*esapi.DeleteRequest){c.es.Delete.WithContext(ctx)}
	if c.refresh != "" {
		opts = append(opts, c.es.Delete.WithRefresh(c.refresh))
	}
	res, err := c.es.Delete(index, id, opts...)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return errors.NewNotFoundError("document", id)
	}
	if res.IsError() {
		return responseError(res, "document", id)
	}
	return nil
}

// Search runs q against index and returns the requested window of hits.
func (c *Client) Search(ctx context.Context, index string, q *storagemodels.Query) (*storagemodels.Hits, error) {
	body, err := SearchBody(q)
	if err != nil {
		return nil, err
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(body)),
		c.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError(res, "index", index)
	}

	var out struct {
		Hits struct {
			Total struct {
				Value uint64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string          `json:"_id"`
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hits := &storagemodels.Hits{
		Total:     out.Hits.Total.Value,
		Documents: make([]storagemodels.Document, 0, len(out.Hits.Hits)),
	}
	for _, h := range out.Hits.Hits {
		hits.Documents = append(hits.Documents, storagemodels.Document{ID: h.ID, Source: h.Source})
	}
	return hits, nil
}

// Count returns the number of documents matching q.
func (c *Client) Count(ctx context.Context, index string, q *storagemodels.Query) (uint64, error) {
	query, err := QueryClause(q)
	if err != nil {
		return 0, err
	}
	body, err := json.Marshal(map[string]any{"query": query})
	if err != nil {
		return 0, fmt.Errorf("failed to encode count body: %w", err)
	}

	res, err := c.es.Count(
		c.es.Count.WithContext(ctx),
		c.es.Count.WithIndex(index),
		c.es.Count.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return 0, fmt.Errorf("count request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, responseError(res, "index", index)
	}
	var out struct {
		Count uint64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode count response: %w", err)
	}
	return out.Count, nil
}

// CreateIndex creates index with an optional settings and mappings body.
func (c *Client) CreateIndex(ctx context.Context, index string, mapping json.RawMessage) error {
	opts := []func(*esapi.IndicesCreateRequest){c.es.Indices.Create.WithContext(ctx)}
	if len(mapping) > 0 {
		opts = append(opts, c.es.Indices.Create.WithBody(bytes.NewReader(mapping)))
	}
	res, err := c.es.Indices.Create(index, opts...)
	if err != nil {
		return fmt.Errorf("create index request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(res, "index", index)
	}
	return nil
}

// DeleteIndex drops index.
func (c *Client) DeleteIndex(ctx context.Context, index string) error {
	res, err := c.es.Indices.Delete([]string{index}, c.es.Indices.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete index request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return errors.NewNotFoundError("index", index)
	}
	if res.IsError() {
		return responseError(res, "index", index)
	}
	return nil
}

// QueryClause translates q into an Elasticsearch query clause.
func QueryClause(q *storagemodels.Query) (any, error) {
	if q == nil {
		return map[string]any{"match_all": map[string]any{}}, nil
	}
	if len(q.Body) > 0 {
		if !json.Valid(q.Body) {
			return nil, errors.NewValidationError("Body", "not valid JSON")
		}
		return q.Body, nil
	}

	var must, filter []any
	if q.Text != "" {
		sqs := map[string]any{
			"query":            q.Text,
			"default_operator": "and",
		}
		if len(q.Fields) > 0 {
			sqs["fields"] = q.Fields
		}
		must = append(must, map[string]any{"simple_query_string": sqs})
	}

	names := make([]string, 0, len(q.Filters))
	for name := range q.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		filter = append(filter, map[string]any{"term": map[string]any{name: q.Filters[name]}})
	}

	if len(must) == 0 && len(filter) == 0 {
		return map[string]any{"match_all": map[string]any{}}, nil
	}
	boolQuery := map[string]any{}
	if len(must) > 0 {
		boolQuery["must"] = must
	}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}
	return map[string]any{"bool": boolQuery}, nil
}

// SearchBody renders the full search request body for q.
func SearchBody(q *storagemodels.Query) ([]byte, error) {
	query, err := QueryClause(q)
	if err != nil {
		return nil, err
	}
	body := map[string]any{
		"query": query,
		"from":  q.Offset(),
		"size":  q.Limit(),
	}
	if q != nil && len(q.Sort) > 0 {
		sorts := make([]any, 0, len(q.Sort))
		for _, s := range q.Sort {
			order := "asc"
			if s.Desc {
				order = "desc"
			}
			sorts = append(sorts, map[string]any{s.Field: map[string]any{"order": order, "missing": "_last"}})
		}
		body["sort"] = sorts
	}
	out, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search body: %w", err)
	}
	return out, nil
}

type errorDetail struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func (e *errorDetail) String() string {
	return e.Type + ": " + e.Reason
}

// responseError maps an error response to the errors package.
func responseError(res *esapi.Response, kind, key string) error {
	raw, _ := io.ReadAll(res.Body)
	var body struct {
		Error  json.RawMessage `json:"error"`
		Status int             `json:"status"`
	}
	_ = json.Unmarshal(raw, &body)

	var detail errorDetail
	if len(body.Error) > 0 && body.Error[0] == '{' {
		_ = json.Unmarshal(body.Error, &detail)
	} else if len(body.Error) > 0 {
		_ = json.Unmarshal(body.Error, &detail.Reason)
	}

	switch {
	case detail.Type == "resource_already_exists_exception":
		return errors.NewAlreadyExistsError(kind, key)
	case res.StatusCode == http.StatusNotFound:
		return errors.NewNotFoundError(kind, key)
	case res.StatusCode == http.StatusBadRequest:
		return errors.NewValidationError("query", detail.String())
	}
	if detail.Type == "" && detail.Reason == "" {
		return fmt.Errorf("elasticsearch returned %s", res.Status())
	}
	return fmt.Errorf("elasticsearch returned %s: %s", res.Status(), detail.String())
}
