package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"
	"text/template"

	"github.com/vityafx/serde/internal/attr"
	"github.com/vityafx/serde/internal/bound"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// OutputDir is the directory where generated files are written.
	OutputDir string
	// CodecImport is the import path of the runtime codec package.
	CodecImport string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName: "model",
		OutputDir:   ".",
		CodecImport: "github.com/vityafx/serde/codec",
	}
}

// Generator renders serializer and deserializer artifacts.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "user_profile_serde.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// funcData is one rendered function: doc comment, signature, and a
// pre-rendered body. A zero funcData is skipped by the template.
type funcData struct {
	Comment   string
	Signature string
	Body      string
}

// fileData feeds the file template.
type fileData struct {
	PackageName string
	Imports     []importSpec
	Functions   []funcData
}

type importSpec struct {
	Path string
}

// Generate renders both artifacts for one resolved shape into a single
// file. The serializer fails the whole file together with the
// deserializer: one type is one unit of work.
func (g *Generator) Generate(ann *attr.AnnotatedShape) (*GeneratedFile, error) {
	serParams, err := bound.Infer(ann, bound.DirectionSerialize)
	if err != nil {
		return nil, err
	}

	deParams, err := bound.Infer(ann, bound.DirectionDeserialize)
	if err != nil {
		return nil, err
	}

	serFns, err := g.buildSerializer(ann, serParams)
	if err != nil {
		return nil, err
	}

	deFns, err := g.buildDeserializer(ann, deParams)
	if err != nil {
		return nil, err
	}

	data := &fileData{
		PackageName: g.config.PackageName,
	}

	for _, fn := range append(serFns, deFns...) {
		if fn.Signature == "" {
			continue
		}

		data.Functions = append(data.Functions, fn)
	}

	data.Imports = g.collectImports(data.Functions)

	var buf bytes.Buffer
	if err := artifactTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	name := filename(ann.Def)

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Best-effort: write unformatted code to a sidecar file to aid
		// debugging. This is intentionally non-fatal for the write attempt.
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(g.config.OutputDir, name, buf.Bytes())
		}
		// Return unformatted code for debugging
		return &GeneratedFile{
			Filename: name,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting %s: %w (unformatted code returned)", name, err)
	}

	return &GeneratedFile{
		Filename: name,
		Content:  formatted,
	}, nil
}

// collectImports decides which imports the rendered functions need by the
// package selectors they actually use, sorted for determinism.
func (g *Generator) collectImports(fns []funcData) []importSpec {
	needCodec := false
	needErrors := false

	for _, fn := range fns {
		text := fn.Signature + "\n" + fn.Body

		if strings.Contains(text, "codec.") {
			needCodec = true
		}

		if strings.Contains(text, "errors.") {
			needErrors = true
		}
	}

	var imports []importSpec

	if needCodec {
		imports = append(imports, importSpec{Path: g.config.CodecImport})
	}

	if needErrors {
		imports = append(imports, importSpec{Path: "github.com/cockroachdb/errors"})
	}

	sort.Slice(imports, func(i, j int) bool { return imports[i].Path < imports[j].Path })

	return imports
}

var artifactTemplate = template.Must(template.New("artifact").Parse(`// Code generated by serde-gen. DO NOT EDIT.

package {{.PackageName}}

{{if .Imports}}
import (
{{range .Imports}}	"{{.Path}}"
{{end}})
{{end}}
{{range .Functions}}
{{.Comment}}
{{.Signature}} {
{{.Body}}
}
{{end}}
`))
