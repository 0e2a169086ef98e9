/*
Package ddb provides a DynamoDB implementation of datastore.Client.

Every index is a table with the hash key ID. A document is stored as an item
holding its ID, its JSON source as a string attribute, and the time of the last
write:

	ID        S  "sku-1"
	Source    S  "{\"name\":\"lamp\"}"
	UpdatedAt S  "2025-03-01T10:00:00.000Z"

DynamoDB has no full-text search, so Search and Count scan the whole table
page by page and evaluate the query in process. Throttled scans and
unprocessed batch writes are retried with a linear backoff:

	client, err := ddb.New(ctx, ddb.Config{Region: "us-east-1"},
	    ddb.WithScanOptions(ddb.ScanOptions{
	        PageSize:     200,
	        MaxRetries:   5,
	        RetryBackoff: 200 * time.Millisecond,
	    }),
	)

The backend suits small indices and local development; use Elasticsearch for
real search workloads.
*/
package ddb
