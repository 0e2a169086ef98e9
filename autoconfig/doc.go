// Package autoconfig wires a searchstore from configuration.
//
// It picks the wire client of the configured backend (Elasticsearch, DynamoDB
// or in-memory) and bootstraps every repository contract declared under the
// configured base package:
//
//	reg, _, err := autoconfig.Load(ctx, "searchstore.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	products, err := searchstore.Get[shop.ProductRepository](reg, "productRepository")
package autoconfig
