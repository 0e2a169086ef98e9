/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package searchstore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/suparena/searchstore/contract"
	"github.com/suparena/searchstore/datastore"
	"github.com/suparena/searchstore/errors"
	"github.com/suparena/searchstore/storagemodels"
)

// TracerName is the name of the tracer repository spans are recorded with.
const TracerName = "github.com/suparena/searchstore"

// repository implements Repository[T] on top of a shared client, scoped to one index.
// Both fields are set once at construction.
type repository[T any] struct {
	client datastore.Client
	index  string
}

// New returns a Repository for documents of type T bound to index.
// It performs no I/O: the index is neither checked nor created.
func New[T any](client datastore.Client, index string) Repository[T] {
	return newRepository[T](client, index)
}

func newRepository[T any](client datastore.Client, index string) *repository[T] {
	return &repository[T]{client: client, index: index}
}

// Bind returns the binder attached to the declaration of contract C over
// documents of type T. The binder fails with a synthesis error when C asks for
// more than Repository[T] provides.
func Bind[C any, T any]() contract.Binder {
	return func(client datastore.Client, index string) (any, error) {
		var impl any = newRepository[T](client, index)
		typed, ok := impl.(C)
		if !ok {
			name := reflect.TypeOf((*C)(nil)).Elem().String()
			return nil, errors.NewSynthesisError(name, fmt.Sprintf("Repository[%s] does not implement it", reflect.TypeOf((*T)(nil)).Elem()))
		}
		return typed, nil
	}
}

// Synthesize builds the implementation of contract t bound to (client, index)
// and returns it with the key it must be registered under.
func Synthesize(t contract.Type, client datastore.Client, index string) (any, string, error) {
	if client == nil {
		return nil, "", errors.NewSynthesisError(t.QualifiedName(), "no client")
	}
	if t.Bind == nil {
		return nil, "", errors.NewSynthesisError(t.QualifiedName(), "declaration carries no binder")
	}
	impl, err := t.Bind(client, index)
	if err != nil {
		return nil, "", err
	}
	return impl, contract.RegistrationKey(t), nil
}

func (r *repository[T]) IndexName() string {
	return r.index
}

func (r *repository[T]) FindByID(ctx context.Context, id string) (_ *T, err error) {
	ctx, span := r.start(ctx, "FindByID")
	defer func() { end(span, err) }()

	doc, err := r.client.Get(ctx, r.index, id)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := json.Unmarshal(doc.Source, out); err != nil {
		return nil, fmt.Errorf("failed to decode document %q: %w", id, err)
	}
	return out, nil
}

func (r *repository[T]) Search(ctx context.Context, q Query) (_ []T, err error) {
	ctx, span := r.start(ctx, "Search")
	defer func() { end(span, err) }()

	hits, err := r.client.Search(ctx, r.index, &q)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](hits.Documents)
}

func (r *repository[T]) Page(ctx context.Context, q Query, page, size int) (_ *Page[T], err error) {
	ctx, span := r.start(ctx, "Page")
	defer func() { end(span, err) }()

	if page < 1 {
		return nil, errors.NewValidationError("page", "must be at least 1")
	}
	if size < 1 {
		return nil, errors.NewValidationError("size", "must be at least 1")
	}
	if page-1 > math.MaxInt/size {
		return nil, errors.NewValidationError("page", fmt.Sprintf("offset of page %d with size %d overflows", page, size))
	}
	q.From = (page - 1) * size
	q.Size = size
	span.SetAttributes(attribute.Int("searchstore.page", page), attribute.Int("searchstore.size", size))

	hits, err := r.client.Search(ctx, r.index, &q)
	if err != nil {
		return nil, err
	}
	items, err := decodeAll[T](hits.Documents)
	if err != nil {
		return nil, err
	}
	if len(items) > size {
		items = items[:size]
	}
	return &Page[T]{Total: hits.Total, Items: items}, nil
}

func (r *repository[T]) Count(ctx context.Context, q Query) (_ uint64, err error) {
	ctx, span := r.start(ctx, "Count")
	defer func() { end(span, err) }()

	return r.client.Count(ctx, r.index, &q)
}

func (r *repository[T]) Save(ctx context.Context, doc T) (_ string, err error) {
	ctx, span := r.start(ctx, "Save")
	defer func() { end(span, err) }()

	d, err := encode(doc)
	if err != nil {
		return "", err
	}
	return r.client.Index(ctx, r.index, d)
}

func (r *repository[T]) SaveAll(ctx context.Context, docs []T) (err error) {
	ctx, span := r.start(ctx, "SaveAll")
	defer func() { end(span, err) }()

	if len(docs) == 0 {
		return nil
	}
	batch := make([]storagemodels.Document, 0, len(docs))
	for _, doc := range docs {
		d, err := encode(doc)
		if err != nil {
			return err
		}
		batch = append(batch, d)
	}
	span.SetAttributes(attribute.Int("searchstore.documents", len(batch)))
	return r.client.Bulk(ctx, r.index, batch)
}

func (r *repository[T]) DeleteByID(ctx context.Context, id string) (err error) {
	ctx, span := r.start(ctx, "DeleteByID")
	defer func() { end(span, err) }()

	return r.client.Delete(ctx, r.index, id)
}

func (r *repository[T]) CreateIndex(ctx context.Context, mapping json.RawMessage) (err error) {
	ctx, span := r.start(ctx, "CreateIndex")
	defer func() { end(span, err) }()

	return r.client.CreateIndex(ctx, r.index, mapping)
}

func (r *repository[T]) DeleteIndex(ctx context.Context) (err error) {
	ctx, span := r.start(ctx, "DeleteIndex")
	defer func() { end(span, err) }()

	return r.client.DeleteIndex(ctx, r.index)
}

func (r *repository[T]) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, "searchstore."+op,
		trace.WithAttributes(attribute.String("searchstore.index", r.index)))
}

func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func encode[T any](doc T) (storagemodels.Document, error) {
	src, err := json.Marshal(doc)
	if err != nil {
		return storagemodels.Document{}, fmt.Errorf("failed to encode document: %w", err)
	}
	return storagemodels.Document{ID: documentID(doc), Source: src}, nil
}

func documentID[T any](doc T) string {
	if v, ok := any(doc).(Identifiable); ok {
		return v.DocumentID()
	}
	if v, ok := any(&doc).(Identifiable); ok {
		return v.DocumentID()
	}
	return ""
}

func decodeAll[T any](docs []storagemodels.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := json.Unmarshal(d.Source, &v); err != nil {
			return nil, fmt.Errorf("failed to decode document %q: %w", d.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}
