/*
Package storagemodels defines the data structures exchanged with a datastore.Client.

Key Types:

Query:
Parameters for searching one index:

	q := &Query{
	    Text:    "red shoes",
	    Fields:  []string{"name", "description"},
	    Filters: map[string]string{"brand": "acme"},
	    Sort:    []Sort{{Field: "price", Desc: true}},
	    From:    20,
	    Size:    10,
	}

Body carries a raw Elasticsearch query clause for callers that need the full DSL.

Hits:
The total match count plus the returned window of documents:

	type Hits struct {
	    Total     uint64
	    Documents []Document
	}

Match, Window and SortDocuments evaluate a Query in process for the stores
that have no query engine of their own.
*/
package storagemodels
