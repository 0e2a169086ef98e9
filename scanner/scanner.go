/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package scanner

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/mod/modfile"

	"github.com/suparena/searchstore/contract"
	"github.com/suparena/searchstore/errors"
)

// Option configures a Scanner.
type Option func(*Scanner)

// WithModule sets the module root directory and its module path, skipping
// go.mod detection.
func WithModule(dir, modulePath string) Option {
	return func(s *Scanner) {
		s.moduleDir = dir
		s.modulePath = modulePath
	}
}

// WithModuleDir sets the directory holding go.mod. It defaults to ".".
func WithModuleDir(dir string) Option {
	return func(s *Scanner) {
		s.moduleDir = dir
	}
}

// WithLogger sets the logger used for discovery diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Scanner reads Go source and describes every type declared under a base package.
type Scanner struct {
	fs         afero.Fs
	moduleDir  string
	modulePath string
	logger     *slog.Logger
}

// New creates a Scanner over fs.
func New(fs afero.Fs, opts ...Option) *Scanner {
	s := &Scanner{
		fs:        fs,
		moduleDir: ".",
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ModulePath returns the module path, reading go.mod when it was not given.
func (s *Scanner) ModulePath() (string, error) {
	if s.modulePath != "" {
		return s.modulePath, nil
	}
	gomod := filepath.Join(s.moduleDir, "go.mod")
	data, err := afero.ReadFile(s.fs, gomod)
	if err != nil {
		return "", errors.NewDiscoveryIOError(gomod, err)
	}
	mp := modfile.ModulePath(data)
	if mp == "" {
		return "", errors.NewDiscoveryIOError(gomod, fmt.Errorf("no module directive"))
	}
	s.modulePath = mp
	return mp, nil
}

// Dir maps an import path inside the module to its directory.
func (s *Scanner) Dir(importPath string) (string, error) {
	mp, err := s.ModulePath()
	if err != nil {
		return "", err
	}
	switch {
	case importPath == mp:
		return s.moduleDir, nil
	case strings.HasPrefix(importPath, mp+"/"):
		rel := strings.TrimPrefix(importPath, mp+"/")
		return filepath.Join(s.moduleDir, filepath.FromSlash(rel)), nil
	default:
		return "", errors.NewDiscoveryIOError(importPath, fmt.Errorf("not inside module %s", mp))
	}
}

// Scan describes the types declared in basePath and its sub-packages, in
// directory order then declaration order. Discovery failures are logged and
// yield an empty result; files and types that cannot be read are logged and
// skipped.
func (s *Scanner) Scan(basePath string) []contract.Type {
	basePath = strings.TrimSuffix(strings.TrimSpace(basePath), "/")
	if basePath == "" {
		s.logger.Error("repository discovery failed", "error", errors.NewDiscoveryIOError(basePath, fmt.Errorf("empty base package")))
		return nil
	}

	root, err := s.Dir(basePath)
	if err != nil {
		s.logger.Error("repository discovery failed", "error", err)
		return nil
	}
	if info, err := s.fs.Stat(root); err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("not a directory")
		}
		s.logger.Error("repository discovery failed", "error", errors.NewDiscoveryIOError(root, err))
		return nil
	}

	var dirs []string
	err = afero.Walk(s.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if p != root {
			if skipDir(info.Name()) {
				return filepath.SkipDir
			}
			if ok, _ := afero.Exists(s.fs, filepath.Join(p, "go.mod")); ok {
				// nested module
				return filepath.SkipDir
			}
		}
		dirs = append(dirs, p)
		return nil
	})
	if err != nil {
		s.logger.Error("repository discovery failed", "error", errors.NewDiscoveryIOError(root, err))
		return nil
	}

	var found []contract.Type
	for _, dir := range dirs {
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			continue
		}
		pkgPath := basePath
		if rel != "." {
			pkgPath = path.Join(basePath, filepath.ToSlash(rel))
		}
		found = append(found, s.scanPackage(dir, pkgPath)...)
	}
	return found
}

func skipDir(name string) bool {
	return name == "testdata" || name == "vendor" ||
		strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

type parsedFile struct {
	name string
	file *ast.File
}

func (s *Scanner) scanPackage(dir, pkgPath string) []contract.Type {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		s.logger.Warn("skipping unreadable package", "error", errors.NewDiscoveryIOError(dir, err))
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	fset := token.NewFileSet()
	var files []parsedFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		p := filepath.Join(dir, name)
		src, err := afero.ReadFile(s.fs, p)
		if err != nil {
			s.logger.Warn("skipping unloadable file", "error", errors.NewTypeLoadError(p, err))
			continue
		}
		f, err := parser.ParseFile(fset, p, src, parser.ParseComments|parser.SkipObjectResolution)
		if err != nil {
			s.logger.Warn("skipping unloadable file", "error", errors.NewTypeLoadError(p, err))
			continue
		}
		files = append(files, parsedFile{name: p, file: f})
	}

	local := make(map[string]struct{})
	for _, pf := range files {
		for _, decl := range pf.file.Decls {
			if gd, ok := decl.(*ast.GenDecl); ok && gd.Tok == token.TYPE {
				for _, spec := range gd.Specs {
					local[spec.(*ast.TypeSpec).Name.Name] = struct{}{}
				}
			}
		}
	}

	var found []contract.Type
	for _, pf := range files {
		r := newResolver(pf.file, pkgPath, local)
		for _, decl := range pf.file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				t, err := r.describe(ts, doc)
				if err != nil {
					s.logger.Warn("skipping unloadable type", "error", errors.NewTypeLoadError(pkgPath+"."+ts.Name.Name, err))
					continue
				}
				t.Source = fmt.Sprintf("%s:%d", pf.name, fset.Position(ts.Pos()).Line)
				found = append(found, t)
			}
		}
	}
	return found
}

// resolver maps the type expressions of one file to qualified names.
type resolver struct {
	file    *ast.File
	pkgPath string
	local   map[string]struct{}
	imports map[string]string
	dots    []string
}

func newResolver(f *ast.File, pkgPath string, local map[string]struct{}) *resolver {
	r := &resolver{file: f, pkgPath: pkgPath, local: local, imports: make(map[string]string)}
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := ImportName(p)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		switch name {
		case "_":
		case ".":
			r.dots = append(r.dots, p)
		default:
			r.imports[name] = p
		}
	}
	return r
}

func (r *resolver) describe(ts *ast.TypeSpec, doc *ast.CommentGroup) (contract.Type, error) {
	t := contract.Type{
		Name:       ts.Name.Name,
		PkgPath:    r.pkgPath,
		Package:    r.file.Name.Name,
		TypeParams: ts.TypeParams.NumFields(),
	}

	if doc != nil {
		lines := make([]string, 0, len(doc.List))
		for _, c := range doc.List {
			lines = append(lines, c.Text)
		}
		idx, err := contract.ParseIndexDirective(lines)
		if err != nil {
			return contract.Type{}, err
		}
		t.Index = idx
	}

	switch x := ts.Type.(type) {
	case *ast.InterfaceType:
		t.Kind = contract.Interface
		for _, field := range x.Methods.List {
			if len(field.Names) > 0 {
				for _, n := range field.Names {
					t.Methods = append(t.Methods, n.Name)
				}
				continue
			}
			r.embed(&t, field.Type)
		}
	case *ast.StructType:
		t.Kind = contract.Struct
		for _, field := range x.Fields.List {
			if len(field.Names) == 0 {
				r.embed(&t, field.Type)
			}
		}
	default:
		t.Kind = contract.Other
	}
	return t, nil
}

// embed records an embedded element as a supertype, and the document type
// argument when the element is the marker.
func (r *resolver) embed(t *contract.Type, expr ast.Expr) {
	base, args := expr, []ast.Expr(nil)
	switch x := expr.(type) {
	case *ast.StarExpr:
		base = x.X
	case *ast.IndexExpr:
		base, args = x.X, []ast.Expr{x.Index}
	case *ast.IndexListExpr:
		base, args = x.X, x.Indices
	}

	name := r.resolve(base)
	t.Supertypes = append(t.Supertypes, name)
	if name != contract.Marker || len(args) != 1 {
		return
	}
	t.Document = types.ExprString(args[0])
	if sel, ok := args[0].(*ast.SelectorExpr); ok {
		if id, ok := sel.X.(*ast.Ident); ok {
			t.DocumentImport = r.imports[id.Name]
		}
	}
}

func (r *resolver) resolve(expr ast.Expr) contract.TypeName {
	switch x := expr.(type) {
	case *ast.Ident:
		if _, ok := r.local[x.Name]; ok {
			return contract.TypeName{PkgPath: r.pkgPath, Name: x.Name}
		}
		// an unqualified name not declared here can only come from a dot import
		if len(r.dots) == 1 && ast.IsExported(x.Name) {
			return contract.TypeName{PkgPath: r.dots[0], Name: x.Name}
		}
		if types.Universe.Lookup(x.Name) != nil {
			return contract.TypeName{Name: x.Name}
		}
		return contract.TypeName{PkgPath: r.pkgPath, Name: x.Name}
	case *ast.SelectorExpr:
		if id, ok := x.X.(*ast.Ident); ok {
			if p, ok := r.imports[id.Name]; ok {
				return contract.TypeName{PkgPath: p, Name: x.Sel.Name}
			}
			return contract.TypeName{PkgPath: id.Name, Name: x.Sel.Name}
		}
	}
	return contract.TypeName{Name: types.ExprString(expr)}
}

// ImportName guesses the package name of an import path the way the go tool
// does for unnamed imports: the last element, skipping a major version suffix
// and the .vN suffix of gopkg.in paths.
func ImportName(importPath string) string {
	elems := strings.Split(importPath, "/")
	name := elems[len(elems)-1]
	if len(elems) > 1 && isMajorVersion(name) {
		name = elems[len(elems)-2]
	}
	if strings.HasPrefix(importPath, "gopkg.in/") {
		if i := strings.LastIndex(name, ".v"); i > 0 && isMajorVersion(name[i+1:]) {
			name = name[:i]
		}
	}
	return name
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}
