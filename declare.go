/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package searchstore

import (
	"fmt"
	"path"
	"reflect"
	"runtime"
	"strings"

	"github.com/suparena/searchstore/contract"
	"github.com/suparena/searchstore/registry"
)

// DeclareOption adjusts a contract declaration.
type DeclareOption func(*contract.Type)

// WithIndex attaches the index descriptor to the declaration.
func WithIndex(name string) DeclareOption {
	return func(t *contract.Type) {
		t.Index = &contract.Index{Name: name}
	}
}

// Extends replaces the supertypes recorded for the declaration. Without it a
// declaration whose method set covers Repository[T] is recorded as embedding
// the marker alone, and any other method counts as the contract's own.
// Reflection cannot tell an embedded interface from declared methods, so a
// contract embedding more than the marker must say so:
//
//	searchstore.Declare[ClosingRepo, Product](searchstore.Extends(
//	    contract.Marker, contract.TypeName{PkgPath: "io", Name: "Closer"}))
func Extends(supertypes ...contract.TypeName) DeclareOption {
	return func(t *contract.Type) {
		t.Supertypes = append([]contract.TypeName(nil), supertypes...)
	}
}

// Declare records contract C over documents T in the process-wide declaration
// set. Generated code calls it from init:
//
//	func init() {
//	    searchstore.Declare[ProductRepo, Product](searchstore.WithIndex("products"))
//	}
//
// A C that does not provide every Repository[T] method is recorded without
// supertypes and never qualifies. A C that embeds another interface next to
// the marker needs Extends, otherwise the extra methods fail synthesis.
func Declare[C any, T any](opts ...DeclareOption) {
	registry.Declare(describe[C, T](caller(), opts))
}

// DeclareIn is Declare against an explicit set.
func DeclareIn[C any, T any](set *registry.Set, opts ...DeclareOption) {
	set.Declare(describe[C, T](caller(), opts))
}

// Describe returns the declaration Declare would record, without recording it.
func Describe[C any, T any](opts ...DeclareOption) contract.Type {
	return describe[C, T](caller(), opts)
}

func describe[C any, T any](source string, opts []DeclareOption) contract.Type {
	c := reflect.TypeOf((*C)(nil)).Elem()
	doc := reflect.TypeOf((*T)(nil)).Elem()

	t := contract.Type{
		Name:       c.Name(),
		PkgPath:    c.PkgPath(),
		Package:    path.Base(c.PkgPath()),
		Kind:       kindOf(c),
		Document:   doc.String(),
		Source:     source,
		Go:         c,
		Bind:       Bind[C, T](),
	}
	if strings.Contains(t.Name, "[") {
		t.TypeParams = 1
	}
	if doc.PkgPath() != "" && doc.PkgPath() != c.PkgPath() {
		t.DocumentImport = doc.PkgPath()
	} else {
		t.Document = doc.Name()
	}
	marker := reflect.TypeOf((*Repository[T])(nil)).Elem()
	if c.Implements(marker) {
		t.Supertypes = []contract.TypeName{contract.Marker}
	}
	if t.Kind == contract.Interface {
		t.Methods = ownMethods(c, marker)
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func kindOf(t reflect.Type) contract.Kind {
	switch t.Kind() {
	case reflect.Interface:
		return contract.Interface
	case reflect.Struct:
		return contract.Struct
	default:
		return contract.Other
	}
}

// ownMethods lists the methods of c that the marker does not provide.
func ownMethods(c, marker reflect.Type) []string {
	provided := make(map[string]struct{}, marker.NumMethod())
	for i := 0; i < marker.NumMethod(); i++ {
		provided[marker.Method(i).Name] = struct{}{}
	}
	var own []string
	for i := 0; i < c.NumMethod(); i++ {
		m := c.Method(i)
		if _, ok := provided[m.Name]; ok && m.Type == methodType(marker, m.Name) {
			continue
		}
		own = append(own, m.Name)
	}
	return own
}

func methodType(t reflect.Type, name string) reflect.Type {
	m, ok := t.MethodByName(name)
	if !ok {
		return nil
	}
	return m.Type
}

// caller reports the file and line of the code calling a Declare function.
func caller() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", file, line)
}
