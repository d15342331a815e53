package frontend

import (
	"go/ast"
	"go/token"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/mod/module"
	"golang.org/x/tools/go/packages"

	"github.com/vityafx/serde/internal/shape"
)

// LoadMode specifies what information to load from packages. Extraction
// is syntactic, so type-checked info is not requested.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedCompiledGoFiles

// Package is one loaded package with its annotated definitions.
type Package struct {
	// Path is the import path.
	Path string
	// Name is the package name, used as the generated package name.
	Name string
	// Dir is the directory holding the package sources.
	Dir string
	// Defs are the definitions that opted into generation, in
	// declaration order.
	Defs []*shape.TypeDefinition
}

// Loader loads Go packages and extracts annotated declarations.
type Loader struct {
	dir string
}

// NewLoader creates a Loader rooted at dir; an empty dir means the
// current working directory.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load resolves the package patterns and extracts every annotated type.
// Patterns are standard Go package patterns (e.g. "./...", an import
// path). Import-path patterns must be well-formed.
func (l *Loader) Load(patterns ...string) ([]Package, error) {
	for _, p := range patterns {
		if err := checkPattern(p); err != nil {
			return nil, err
		}
	}

	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  l.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "loading packages")
	}

	var loadErrs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			loadErrs = append(loadErrs, e)
		}
	}

	if len(loadErrs) > 0 {
		return nil, errors.Wrapf(errors.Join(loadErrs...), "package errors")
	}

	var out []Package

	for _, pkg := range pkgs {
		files := sortedSyntax(pkg)

		defs, err := Extract(pkg.Fset, files)
		if err != nil {
			return nil, errors.Wrapf(err, "extracting %s", pkg.PkgPath)
		}

		if len(defs) == 0 {
			continue
		}

		out = append(out, Package{
			Path: pkg.PkgPath,
			Name: pkg.Name,
			Dir:  packageDir(pkg),
			Defs: defs,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return out, nil
}

// checkPattern rejects malformed import paths early, before the build
// system produces a less helpful error. Relative and wildcard patterns
// are left to the build system.
func checkPattern(p string) error {
	if p == "" {
		return errors.New("empty package pattern")
	}

	if strings.HasPrefix(p, ".") || strings.HasPrefix(p, "/") || strings.Contains(p, "...") {
		return nil
	}

	if err := module.CheckImportPath(p); err != nil {
		return errors.Wrapf(err, "invalid package pattern %q", p)
	}

	return nil
}

// sortedSyntax returns the package's files ordered by filename so
// extraction order, and with it variant order, is stable.
func sortedSyntax(pkg *packages.Package) []*ast.File {
	files := make([]*ast.File, len(pkg.Syntax))
	copy(files, pkg.Syntax)

	sort.Slice(files, func(i, j int) bool {
		return filePos(pkg.Fset, files[i]) < filePos(pkg.Fset, files[j])
	})

	return files
}

func filePos(fset *token.FileSet, f *ast.File) string {
	return fset.Position(f.Pos()).Filename
}

func packageDir(pkg *packages.Package) string {
	if len(pkg.GoFiles) > 0 {
		return filepath.Dir(pkg.GoFiles[0])
	}

	if len(pkg.CompiledGoFiles) > 0 {
		return filepath.Dir(pkg.CompiledGoFiles[0])
	}

	return ""
}
