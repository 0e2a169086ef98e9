/*
Package searchstore materializes search-engine repositories from declared contracts.

A contract is a Go interface that embeds Repository[T] and nothing else. Its index
name comes from an index descriptor or, when none is attached, from the contract's
own name:

	//searchstore:index products
	type ProductRepo interface {
		searchstore.Repository[Product]
	}

The library follows a build-time → init-time → startup workflow:
  - Build-time: repogen scans the source tree and emits declaration files
  - Init-time: generated init functions call Declare for every contract
  - Startup: Bootstrap scans the first base package, synthesizes one
    implementation per contract and hands it to a Sink

Basic Usage:

	reg := searchstore.NewRegistry()
	client, _ := es.New(es.Config{Addresses: []string{"http://127.0.0.1:9200"}})

	if _, err := searchstore.Bootstrap(client, reg, []string{"example.com/shop"}); err != nil {
		log.Fatal(err)
	}

	products := searchstore.MustGet[ProductRepo](reg, "productRepo")
	page, err := products.Page(ctx, searchstore.Query{Text: "lamp"}, 1, 20)

Implementations are stateless apart from their client and index, so they are
safe for concurrent use whenever the client is.
*/
package searchstore
