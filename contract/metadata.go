/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package contract

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/suparena/searchstore/errors"
)

// IndexDirective marks the index descriptor in a contract's doc comment:
//
//	//searchstore:index products
//	type ProductRepo interface {
//	    searchstore.Repository[Product]
//	}
const IndexDirective = "//searchstore:index"

// ParseIndexDirective extracts the index descriptor from raw comment lines.
// It returns nil when no directive is present.
func ParseIndexDirective(lines []string) (*Index, error) {
	var idx *Index
	for _, line := range lines {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), IndexDirective)
		if !ok {
			continue
		}
		if rest != "" && !unicode.IsSpace(rune(rest[0])) {
			// a longer directive such as //searchstore:indexer
			continue
		}
		if idx != nil {
			return nil, fmt.Errorf("duplicate %s directive", IndexDirective)
		}
		args := strings.Fields(rest)
		if len(args) != 1 {
			return nil, fmt.Errorf("%s takes exactly one index name, got %d", IndexDirective, len(args))
		}
		idx = &Index{Name: args[0]}
	}
	return idx, nil
}

// LowerCamel lowercases the first character of name and keeps the rest.
func LowerCamel(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToLower(r)) + name[size:]
}

// ResolveIndexName returns the declared index name verbatim, or the lower
// camel case simple name of the type when no descriptor is attached.
func ResolveIndexName(t Type) string {
	if t.Index != nil {
		return t.Index.Name
	}
	return LowerCamel(t.Name)
}

// ResolveIndexNameStrict is ResolveIndexName without the derived default.
func ResolveIndexNameStrict(t Type) (string, error) {
	if t.Index == nil {
		return "", errors.NewMissingIndexNameError(t.QualifiedName())
	}
	return t.Index.Name, nil
}

// RegistrationKey is the key an implementation of t is registered under.
// Contracts sharing a simple name share a key; the sink rejects the second one.
func RegistrationKey(t Type) string {
	return LowerCamel(t.Name)
}
