/*
Package es implements datastore.Client for Elasticsearch.

It wraps the official go-elasticsearch v8 client. Queries are translated as
follows:

  - Text becomes a simple_query_string clause over Fields (all fields when empty)
  - Filters become term clauses in a bool filter
  - Body, when set, is sent as the query clause verbatim
  - Sort, From and Size map to the request's sort, from and size

Error responses are mapped to the errors package: a 404 is a not found error
and resource_already_exists_exception is an already exists error.

Usage:

	client, err := es.New(es.Config{
	    Addresses: []string{"http://127.0.0.1:9200"},
	    Refresh:   "wait_for",
	})
*/
package es
