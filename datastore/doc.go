/*
Package datastore defines the wire client every synthesized repository delegates to.

The main interface is Client, an index-scoped search engine handle:

	type Client interface {
	    Get(ctx context.Context, index, id string) (storagemodels.Document, error)
	    Index(ctx context.Context, index string, doc storagemodels.Document) (string, error)
	    Bulk(ctx context.Context, index string, docs []storagemodels.Document) error
	    Delete(ctx context.Context, index, id string) error
	    Search(ctx context.Context, index string, q *storagemodels.Query) (*storagemodels.Hits, error)
	    Count(ctx context.Context, index string, q *storagemodels.Query) (uint64, error)
	    CreateIndex(ctx context.Context, index string, mapping json.RawMessage) error
	    DeleteIndex(ctx context.Context, index string) error
	}

Implementations:
  - es: Elasticsearch implementation on go-elasticsearch v8
  - ddb: DynamoDB implementation, one table per index
  - mock: In-memory implementation for testing

A Client is created once by the host and shared read-only by every repository.
Repositories never close or reconfigure it.
*/
package datastore
