/*
Package contract models the types searchstore discovers and decides which of
them are repository contracts.

A repository contract is a Go interface whose single embedded element is the
marker capability searchstore.Repository[T]:

	//searchstore:index products
	type ProductRepo interface {
	    searchstore.Repository[Product]
	}

The package holds the three pure steps of discovery:
  - IsRepositoryContract: the qualification filter
  - ResolveIndexName: the index descriptor, or the lower camel type name
  - RegistrationKey: the key the implementation is registered under

Both the source scanner and the init-time declarations describe types with
the same Type struct, so the same rules apply at build time and at startup.
*/
package contract
