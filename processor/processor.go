/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package processor

import (
	"bytes"
	"fmt"
	"go/format"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/suparena/searchstore/contract"
	"github.com/suparena/searchstore/errors"
	"github.com/suparena/searchstore/scanner"
)

// DefaultOutput is the name of the file written into every package with contracts.
const DefaultOutput = "searchstore_gen.go"

// DefaultManifest is the manifest file repogen looks for.
const DefaultManifest = "repogen.yaml"

// Manifest configures a generation run.
type Manifest struct {
	// ModuleDir is the directory holding go.mod.
	ModuleDir string `yaml:"module_dir"`
	// Packages lists base packages. Only the first one is scanned.
	Packages []string `yaml:"packages"`
	// Output is the generated file name, DefaultOutput when empty.
	Output string `yaml:"output"`
	// StrictIndexNames rejects contracts without an index directive.
	StrictIndexNames bool `yaml:"strict_index_names"`
}

// LoadManifest reads a YAML manifest from fs.
func LoadManifest(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	m.applyDefaults()
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.ModuleDir == "" {
		m.ModuleDir = "."
	}
	if m.Output == "" {
		m.Output = DefaultOutput
	}
}

// File is the generated declaration file of one package.
type File struct {
	PkgPath   string
	Package   string
	Contracts []contract.Type
	Source    []byte
}

// Generate renders one declaration file per package for the repository
// contracts among types. A contract that Repository[T] alone cannot satisfy
// fails generation.
func Generate(types []contract.Type, strict bool) ([]File, error) {
	var order []string
	byPkg := make(map[string][]contract.Type)
	for _, t := range types {
		if !contract.IsRepositoryContract(t) {
			continue
		}
		if len(t.Methods) > 0 {
			return nil, errors.NewSynthesisError(t.QualifiedName(), fmt.Sprintf("declares own methods %s", strings.Join(t.Methods, ", ")))
		}
		if t.Document == "" {
			return nil, errors.NewSynthesisError(t.QualifiedName(), "marker has no document type argument")
		}
		if strict {
			if _, err := contract.ResolveIndexNameStrict(t); err != nil {
				return nil, err
			}
		}
		if _, ok := byPkg[t.PkgPath]; !ok {
			order = append(order, t.PkgPath)
		}
		byPkg[t.PkgPath] = append(byPkg[t.PkgPath], t)
	}

	files := make([]File, 0, len(order))
	for _, pkgPath := range order {
		contracts := byPkg[pkgPath]
		src, err := render(contracts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", pkgPath, err)
		}
		files = append(files, File{
			PkgPath:   pkgPath,
			Package:   contracts[0].Package,
			Contracts: contracts,
			Source:    src,
		})
	}
	return files, nil
}

var declTemplate = template.Must(template.New("declarations").Parse(`// Code generated by repogen. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/suparena/searchstore"
{{- range .Imports}}
	{{.}}
{{- end}}
)

func init() {
{{- range .Contracts}}
	searchstore.Declare[{{.Name}}, {{.Document}}]({{if .Index}}searchstore.WithIndex({{printf "%q" .Index.Name}}){{end}})
{{- end}}
}
`))

func render(contracts []contract.Type) ([]byte, error) {
	seen := make(map[string]struct{})
	var imports []string
	for _, t := range contracts {
		if t.DocumentImport == "" {
			continue
		}
		if _, ok := seen[t.DocumentImport]; ok {
			continue
		}
		seen[t.DocumentImport] = struct{}{}

		spec := strconv.Quote(t.DocumentImport)
		if sel, _, ok := strings.Cut(t.Document, "."); ok && sel != scanner.ImportName(t.DocumentImport) {
			spec = sel + " " + spec
		}
		imports = append(imports, spec)
	}
	sort.Strings(imports)

	var buf bytes.Buffer
	err := declTemplate.Execute(&buf, struct {
		Package   string
		Imports   []string
		Contracts []contract.Type
	}{contracts[0].Package, imports, contracts})
	if err != nil {
		return nil, err
	}
	return format.Source(buf.Bytes())
}

// Result summarizes a Run.
type Result struct {
	Scanned int
	Files   []string
}

// Run scans the first manifest package on fs and writes the generated files
// next to their contracts.
func Run(fs afero.Fs, m Manifest, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m.applyDefaults()

	res := &Result{}
	if len(m.Packages) == 0 {
		logger.Info("no base package configured, nothing generated")
		return res, nil
	}
	if len(m.Packages) > 1 {
		logger.Warn("only the first base package is scanned", "base", m.Packages[0], "ignored", m.Packages[1:])
	}

	s := scanner.New(fs, scanner.WithModuleDir(m.ModuleDir), scanner.WithLogger(logger))
	types := s.Scan(m.Packages[0])
	res.Scanned = len(types)

	files, err := Generate(types, m.StrictIndexNames)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		dir, err := s.Dir(f.PkgPath)
		if err != nil {
			return nil, err
		}
		out := filepath.Join(dir, m.Output)
		if err := afero.WriteFile(fs, out, f.Source, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", out, err)
		}
		logger.Info("generated repository declarations", "file", out, "contracts", len(f.Contracts))
		res.Files = append(res.Files, out)
	}
	return res, nil
}
