/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"bytes"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/suparena/searchstore/contract"
	"github.com/suparena/searchstore/datastore"
)

type productRepo interface{ io.Reader }
type orderRepo interface{ io.Writer }
type userRepo interface{ io.Closer }

func bindNothing(datastore.Client, string) (any, error) { return nil, nil }

func declaration(name, pkg string, goType reflect.Type) contract.Type {
	return contract.Type{
		Name:       name,
		PkgPath:    pkg,
		Kind:       contract.Interface,
		Supertypes: []contract.TypeName{contract.Marker},
		Go:         goType,
		Bind:       bindNothing,
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func TestSet(t *testing.T) {
	t.Run("PreservesOrder", func(t *testing.T) {
		set := NewSet()
		set.Declare(declaration("ProductRepo", "example.com/shop/repo", typeOf[productRepo]()))
		set.Declare(declaration("OrderRepo", "example.com/shop/repo", typeOf[orderRepo]()))

		got := set.Declared()
		if len(got) != 2 || got[0].Name != "ProductRepo" || got[1].Name != "OrderRepo" {
			t.Fatalf("unexpected declarations: %+v", got)
		}

		d, ok := set.Lookup(typeOf[orderRepo]())
		if !ok || d.Name != "OrderRepo" {
			t.Fatalf("Lookup failed: %+v, %v", d, ok)
		}

		d, ok = set.LookupName("example.com/shop/repo.ProductRepo")
		if !ok || d.Go != typeOf[productRepo]() {
			t.Fatalf("LookupName failed: %+v, %v", d, ok)
		}
		if _, ok := set.LookupName("example.com/shop/repo.Missing"); ok {
			t.Fatal("expected no declaration for an unknown name")
		}
	})

	t.Run("DuplicatePanics", func(t *testing.T) {
		set := NewSet()
		set.Declare(declaration("ProductRepo", "example.com/shop/repo", typeOf[productRepo]()))

		defer func() {
			if recover() == nil {
				t.Fatal("expected a panic on duplicate declaration")
			}
		}()
		set.Declare(declaration("ProductRepo", "example.com/shop/repo", typeOf[productRepo]()))
	})

	t.Run("Reset", func(t *testing.T) {
		set := NewSet()
		set.Declare(declaration("ProductRepo", "example.com/shop/repo", typeOf[productRepo]()))
		set.Reset()
		if len(set.Declared()) != 0 {
			t.Fatal("expected no declarations after Reset")
		}
	})
}

func TestScanner(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	set := NewSet()
	set.Declare(declaration("ProductRepo", "example.com/shop/repo", typeOf[productRepo]()))
	set.Declare(declaration("OrderRepo", "example.com/shop/repo/orders", typeOf[orderRepo]()))
	set.Declare(declaration("UserRepo", "example.com/shopfront", typeOf[userRepo]()))
	set.Declare(contract.Type{Name: "Broken", PkgPath: "example.com/shop/broken"})

	sc := NewScanner(set, logger)

	t.Run("SubPackages", func(t *testing.T) {
		got := sc.Scan("example.com/shop")
		if len(got) != 2 {
			t.Fatalf("expected 2 declarations under example.com/shop, got %d", len(got))
		}
		if got[0].Name != "ProductRepo" || got[1].Name != "OrderRepo" {
			t.Fatalf("unexpected order: %s, %s", got[0].Name, got[1].Name)
		}
		if !strings.Contains(logs.String(), "skipping unloadable declaration") {
			t.Fatalf("expected the unbound declaration to be logged, got %q", logs.String())
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		first := sc.Scan("example.com/shop/repo")
		second := sc.Scan("example.com/shop/repo")
		if len(first) != len(second) || len(first) != 2 {
			t.Fatalf("expected identical results, got %d and %d", len(first), len(second))
		}
	})

	t.Run("EmptyBasePath", func(t *testing.T) {
		logs.Reset()
		if got := sc.Scan(""); len(got) != 0 {
			t.Fatalf("expected nothing for an empty base path, got %d", len(got))
		}
		if !strings.Contains(logs.String(), "repository discovery failed") {
			t.Fatalf("expected discovery failure to be logged, got %q", logs.String())
		}
	})
}
