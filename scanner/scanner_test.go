/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package scanner

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/suparena/searchstore/contract"
)

const moduleDir = "/src/shop"

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(moduleDir, name)
		if err := fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", filepath.Dir(p), err)
		}
		if err := afero.WriteFile(fs, p, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", p, err)
		}
	}
}

func newTestScanner(t *testing.T, files map[string]string) (*Scanner, *bytes.Buffer) {
	t.Helper()
	fs := afero.NewMemMapFs()
	files["go.mod"] = "module example.com/shop\n\ngo 1.24\n"
	writeFiles(t, fs, files)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	return New(fs, WithModuleDir(moduleDir), WithLogger(logger)), &logs
}

func find(types []contract.Type, qualified string) (contract.Type, bool) {
	for _, t := range types {
		if t.QualifiedName() == qualified {
			return t, true
		}
	}
	return contract.Type{}, false
}

const productSource = `package repo

import "github.com/suparena/searchstore"

type Product struct {
	SKU  string
	Name string
}

// ProductRepo finds products.
//
//searchstore:index products
type ProductRepo interface {
	searchstore.Repository[Product]
}

type ReviewRepo interface {
	searchstore.Repository[Review]
}

type Review struct{ Text string }
`

func TestScan(t *testing.T) {
	t.Run("DeclaredIndex", func(t *testing.T) {
		s, _ := newTestScanner(t, map[string]string{"repo/product.go": productSource})
		types := s.Scan("example.com/shop")

		if len(types) != 4 {
			t.Fatalf("Expected 4 types, got %d", len(types))
		}
		repo, ok := find(types, "example.com/shop/repo.ProductRepo")
		if !ok {
			t.Fatal("ProductRepo not found")
		}
		if !contract.IsRepositoryContract(repo) {
			t.Fatalf("Expected ProductRepo to qualify: %+v", repo)
		}
		if repo.Index == nil || repo.Index.Name != "products" {
			t.Fatalf("Expected index products, got %+v", repo.Index)
		}
		if repo.Document != "Product" || repo.Package != "repo" {
			t.Fatalf("Unexpected document %q in package %q", repo.Document, repo.Package)
		}
		if !strings.HasSuffix(repo.Source, "product.go:13") {
			t.Fatalf("Unexpected source %s", repo.Source)
		}
	})

	t.Run("DerivedIndex", func(t *testing.T) {
		s, _ := newTestScanner(t, map[string]string{"repo/product.go": productSource})
		repo, ok := find(s.Scan("example.com/shop/repo"), "example.com/shop/repo.ReviewRepo")
		if !ok {
			t.Fatal("ReviewRepo not found")
		}
		if repo.Index != nil {
			t.Fatalf("Expected no index descriptor, got %+v", repo.Index)
		}
		if got := contract.ResolveIndexName(repo); got != "reviewRepo" {
			t.Fatalf("Expected derived index reviewRepo, got %s", got)
		}
	})

	t.Run("Qualification", func(t *testing.T) {
		s, _ := newTestScanner(t, map[string]string{"repo/mixed.go": `package repo

import (
	"io"

	ss "github.com/suparena/searchstore"
	fake "example.com/fake/searchstore"
	"example.com/shop/models"
)

type Aliased interface {
	ss.Repository[models.Product]
}

type Closable interface {
	ss.Repository[models.Product]
	io.Closer
}

type Lookalike interface {
	fake.Repository[models.Product]
}

type Generic[T any] interface {
	ss.Repository[T]
}

type WithMethods interface {
	ss.Repository[models.Product]
	FindBySKU(sku string) (*models.Product, error)
}

type Impl struct {
	ss.Repository[models.Product]
}
`})
		types := s.Scan("example.com/shop")
		want := map[string]bool{
			"Aliased":     true,
			"Closable":    false,
			"Lookalike":   false,
			"Generic":     false,
			"WithMethods": true,
			"Impl":        false,
		}
		for name, qualifies := range want {
			typ, ok := find(types, "example.com/shop/repo."+name)
			if !ok {
				t.Fatalf("%s not found", name)
			}
			if got := contract.IsRepositoryContract(typ); got != qualifies {
				t.Errorf("IsRepositoryContract(%s) = %v, want %v", name, got, qualifies)
			}
		}

		aliased, _ := find(types, "example.com/shop/repo.Aliased")
		if aliased.Document != "models.Product" || aliased.DocumentImport != "example.com/shop/models" {
			t.Fatalf("Unexpected document %q (%q)", aliased.Document, aliased.DocumentImport)
		}
		withMethods, _ := find(types, "example.com/shop/repo.WithMethods")
		if len(withMethods.Methods) != 1 || withMethods.Methods[0] != "FindBySKU" {
			t.Fatalf("Expected FindBySKU, got %v", withMethods.Methods)
		}
	})

	t.Run("DotImport", func(t *testing.T) {
		s, _ := newTestScanner(t, map[string]string{"repo/dot.go": `package repo

import . "github.com/suparena/searchstore"

type Item struct{}

type ItemRepo interface {
	Repository[Item]
}
`})
		repo, ok := find(s.Scan("example.com/shop"), "example.com/shop/repo.ItemRepo")
		if !ok || !contract.IsRepositoryContract(repo) {
			t.Fatalf("Expected ItemRepo to qualify through the dot import: %+v", repo)
		}
	})

	t.Run("EmptyOrUnknownPath", func(t *testing.T) {
		s, logs := newTestScanner(t, map[string]string{"repo/product.go": productSource})

		for _, base := range []string{"", "example.com/other", "example.com/shop/missing"} {
			if got := s.Scan(base); len(got) != 0 {
				t.Fatalf("Expected no types for %q, got %d", base, len(got))
			}
		}
		if strings.Count(logs.String(), "repository discovery failed") != 3 {
			t.Fatalf("Expected three discovery failures, got %q", logs.String())
		}
	})

	t.Run("MissingGoMod", func(t *testing.T) {
		var logs bytes.Buffer
		s := New(afero.NewMemMapFs(), WithModuleDir("/nowhere"), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
		if got := s.Scan("example.com/shop"); len(got) != 0 {
			t.Fatalf("Expected no types, got %d", len(got))
		}
		if !strings.Contains(logs.String(), "repository discovery failed") {
			t.Fatalf("Expected a discovery failure, got %q", logs.String())
		}
	})

	t.Run("UnparsableFileSkipped", func(t *testing.T) {
		s, logs := newTestScanner(t, map[string]string{
			"repo/product.go": productSource,
			"repo/broken.go":  "package repo\n\ntype Broken interface {\n",
		})
		types := s.Scan("example.com/shop")
		if _, ok := find(types, "example.com/shop/repo.ProductRepo"); !ok {
			t.Fatal("Expected the parsable file to be scanned")
		}
		if !strings.Contains(logs.String(), "skipping unloadable file") {
			t.Fatalf("Expected the broken file to be logged, got %q", logs.String())
		}
	})

	t.Run("MalformedDirectiveSkipsType", func(t *testing.T) {
		s, logs := newTestScanner(t, map[string]string{"repo/bad.go": `package repo

import "github.com/suparena/searchstore"

type Doc struct{}

//searchstore:index
type BadRepo interface {
	searchstore.Repository[Doc]
}
`})
		types := s.Scan("example.com/shop")
		if _, ok := find(types, "example.com/shop/repo.BadRepo"); ok {
			t.Fatal("Expected BadRepo to be skipped")
		}
		if _, ok := find(types, "example.com/shop/repo.Doc"); !ok {
			t.Fatal("Expected Doc to be kept")
		}
		if !strings.Contains(logs.String(), "skipping unloadable type") {
			t.Fatalf("Expected the malformed directive to be logged, got %q", logs.String())
		}
	})

	t.Run("SkippedDirectories", func(t *testing.T) {
		s, _ := newTestScanner(t, map[string]string{
			"repo/product.go":          productSource,
			"repo/product_test.go":     "package repo\n\ntype TestOnly interface{}\n",
			"repo/testdata/fixture.go": "package fixture\n\ntype Fixture interface{}\n",
			"vendor/lib/lib.go":        "package lib\n\ntype Vendored interface{}\n",
			"_old/old.go":              "package old\n\ntype Old interface{}\n",
			"tools/go.mod":             "module example.com/shop/tools\n",
			"tools/tools.go":           "package tools\n\ntype Tool interface{}\n",
		})
		types := s.Scan("example.com/shop")
		for _, name := range []string{"repo.TestOnly", "repo/testdata.Fixture", "vendor/lib.Vendored", "_old.Old", "tools.Tool"} {
			if _, ok := find(types, "example.com/shop/"+name); ok {
				t.Errorf("Expected %s to be skipped", name)
			}
		}
	})

	t.Run("SameSimpleNameInSubPackages", func(t *testing.T) {
		repo := "package %s\n\nimport \"github.com/suparena/searchstore\"\n\ntype Doc struct{}\n\ntype Repo interface {\n\tsearchstore.Repository[Doc]\n}\n"
		s, _ := newTestScanner(t, map[string]string{
			"catalog/repo.go": strings.Replace(repo, "%s", "catalog", 1),
			"orders/repo.go":  strings.Replace(repo, "%s", "orders", 1),
		})

		var keys []string
		for _, typ := range s.Scan("example.com/shop") {
			if contract.IsRepositoryContract(typ) {
				keys = append(keys, contract.RegistrationKey(typ))
			}
		}
		if len(keys) != 2 || keys[0] != "repo" || keys[1] != "repo" {
			t.Fatalf("Expected two contracts sharing key repo, got %v", keys)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		s, _ := newTestScanner(t, map[string]string{"repo/product.go": productSource})
		first := s.Scan("example.com/shop")
		second := s.Scan("example.com/shop")
		if len(first) != len(second) {
			t.Fatalf("Expected identical scans, got %d and %d", len(first), len(second))
		}
		for i := range first {
			if first[i].QualifiedName() != second[i].QualifiedName() {
				t.Fatalf("Order differs at %d: %s vs %s", i, first[i].QualifiedName(), second[i].QualifiedName())
			}
		}
	})
}

func TestImportName(t *testing.T) {
	tests := map[string]string{
		"github.com/suparena/searchstore":         "searchstore",
		"github.com/elastic/go-elasticsearch/v8":  "go-elasticsearch",
		"gopkg.in/yaml.v3":                        "yaml",
		"io":                                      "io",
		"example.com/shop/v2/models":              "models",
		"example.com/v2":                          "example.com",
	}
	for in, want := range tests {
		if got := ImportName(in); got != want {
			t.Errorf("ImportName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestModulePath(t *testing.T) {
	s, _ := newTestScanner(t, map[string]string{})
	mp, err := s.ModulePath()
	if err != nil || mp != "example.com/shop" {
		t.Fatalf("Expected example.com/shop, got %q, %v", mp, err)
	}

	dir, err := s.Dir("example.com/shop/repo/sub")
	if err != nil || dir != filepath.Join(moduleDir, "repo", "sub") {
		t.Fatalf("Unexpected dir %q, %v", dir, err)
	}
	if _, err := s.Dir("example.com/other"); err == nil {
		t.Fatal("Expected an error for a path outside the module")
	}
}
