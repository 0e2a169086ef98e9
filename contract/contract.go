/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package contract

import (
	"reflect"

	"github.com/suparena/searchstore/datastore"
)

// Kind classifies a scanned type declaration.
type Kind int

const (
	Other Kind = iota
	Interface
	Struct
)

func (k Kind) String() string {
	switch k {
	case Interface:
		return "interface"
	case Struct:
		return "struct"
	default:
		return "other"
	}
}

// TypeName is a package-qualified type name.
type TypeName struct {
	PkgPath string
	Name    string
}

func (n TypeName) String() string {
	if n.PkgPath == "" {
		return n.Name
	}
	return n.PkgPath + "." + n.Name
}

// Marker is the marker capability every repository contract extends:
// the generic Repository interface of the root searchstore package.
var Marker = TypeName{PkgPath: "github.com/suparena/searchstore", Name: "Repository"}

// Index is the index descriptor attached to a contract.
type Index struct {
	Name string
}

// Binder builds the implementation of one contract for a (client, index) pair.
type Binder func(c datastore.Client, index string) (any, error)

// Type describes one declared type, as read from source by the scanner or
// declared at init time through the registry.
type Type struct {
	// Name is the simple type name.
	Name string
	// PkgPath is the import path of the declaring package.
	PkgPath string
	// Package is the package clause name of the declaring package.
	Package string
	Kind    Kind
	// TypeParams counts the type parameters of a generic declaration.
	TypeParams int
	// Supertypes lists the embedded types of an interface, in declaration order.
	Supertypes []TypeName
	// Methods lists the methods an interface declares itself.
	Methods []string
	// Index is nil when the type carries no index descriptor.
	Index *Index
	// Document is the document type argument of the marker embedding as written
	// in source, e.g. "Product" or "models.Product".
	Document string
	// DocumentImport is the import path behind a qualified Document.
	DocumentImport string
	// Source is where the type was found: a file path or a declaring call site.
	Source string
	// Go is the reflected interface type of a runtime declaration.
	Go reflect.Type
	// Bind is set on runtime declarations only.
	Bind Binder
}

// QualifiedName returns the package-qualified name of the type.
func (t Type) QualifiedName() string {
	return TypeName{PkgPath: t.PkgPath, Name: t.Name}.String()
}
