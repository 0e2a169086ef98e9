/*
Package registry holds the contract declarations made at init time.

Go has no classpath to scan at runtime, so contracts are declared explicitly,
usually by the init function repogen generates next to them:

	func init() {
	    searchstore.Declare[ProductRepo, Product](searchstore.WithIndex("products"))
	}

Declarations are kept in declaration order and keyed by their Go interface
type. A Scanner then enumerates the declarations under a base package, which
is the startup half of discovery:

	found := registry.NewScanner(registry.Default(), logger).Scan("example.com/shop")

The registry is thread-safe and should be populated during initialization.
*/
package registry
