package frontend

import (
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strconv"
	"strings"

	"github.com/vityafx/serde/internal/diagnostic"
	"github.com/vityafx/serde/internal/shape"
)

// Shape directives are consumed here; everything else flows through to
// the attribute resolver untouched.
const (
	dirEnum        = "enum"
	dirVariant     = "variant"
	dirTuple       = "tuple"
	dirTransparent = "transparent"
)

type enumDecl struct {
	def *shape.TypeDefinition
}

type variantDecl struct {
	enum  string
	spec  shape.VariantSpec
	pos   string
	order int
}

// Extract walks the files in order and assembles the type definitions
// that opted into generation. Variant structs fold into their enum and
// are not returned standalone.
func Extract(fset *token.FileSet, files []*ast.File) ([]*shape.TypeDefinition, error) {
	var (
		defs     []*shape.TypeDefinition
		variants []variantDecl
	)

	enums := make(map[string]*enumDecl)

	for _, file := range files {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}

				def, variant, err := extractType(fset, ts, doc)
				if err != nil {
					return nil, err
				}

				switch {
				case variant != nil:
					variant.order = len(variants)
					variants = append(variants, *variant)
				case def != nil && def.Shape.Kind == shape.KindEnum:
					enums[def.Name] = &enumDecl{def: def}
					defs = append(defs, def)
				case def != nil:
					defs = append(defs, def)
				}
			}
		}
	}

	for _, v := range variants {
		e, ok := enums[v.enum]
		if !ok {
			return nil, diagnostic.WithPos(diagnostic.New(diagnostic.CodeUnknownAnnotation,
				v.spec.Name, "", "variant references unknown enum %q", v.enum), v.pos)
		}

		e.def.Shape.Variants = append(e.def.Shape.Variants, v.spec)
	}

	return defs, nil
}

// extractType converts one type spec. It returns a definition, or a
// variant destined for an enum, or neither when the type did not opt in.
func extractType(fset *token.FileSet, ts *ast.TypeSpec, doc *ast.CommentGroup) (*shape.TypeDefinition, *variantDecl, error) {
	dirs := directives(doc)
	pos := fset.Position(ts.Pos()).String()
	name := ts.Name.Name

	if _, ok := ts.Type.(*ast.InterfaceType); ok {
		if !hasDirective(dirs, dirEnum) {
			return nil, nil, nil
		}

		return &shape.TypeDefinition{
			Name:        name,
			TypeParams:  typeParams(ts),
			Shape:       shape.Enum(),
			Annotations: passthrough(dirs),
			Pos:         pos,
		}, nil, nil
	}

	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		if len(dirs) == 0 {
			return nil, nil, nil
		}

		return nil, nil, diagnostic.WithPos(diagnostic.New(diagnostic.CodeUnsupportedShape,
			name, "", "serde annotations require a struct or enum interface"), pos)
	}

	fields, tagged := structFields(st)
	if len(dirs) == 0 && !tagged {
		return nil, nil, nil
	}

	sh := buildShape(dirs, fields)

	if va, ok := findDirective(dirs, dirVariant); ok {
		enum, anns, err := variantOptions(name, pos, va)
		if err != nil {
			return nil, nil, err
		}

		return nil, &variantDecl{
			enum: enum,
			spec: shape.VariantSpec{Name: name, Shape: sh, Annotations: anns},
			pos:  pos,
		}, nil
	}

	return &shape.TypeDefinition{
		Name:        name,
		TypeParams:  typeParams(ts),
		Shape:       sh,
		Annotations: passthrough(dirs),
		Pos:         pos,
	}, nil, nil
}

// buildShape picks the wire shape of a struct declaration: unit for an
// empty struct, tuple or newtype on explicit directives, named struct
// otherwise.
func buildShape(dirs []shape.Annotation, fields []shape.FieldSpec) *shape.Shape {
	switch {
	case hasDirective(dirs, dirTuple):
		return shape.Tuple(fields...)
	case hasDirective(dirs, dirTransparent):
		return &shape.Shape{Kind: shape.KindNewType, Fields: fields}
	case len(fields) == 0:
		return shape.Unit()
	default:
		return shape.Struct(fields...)
	}
}

// structFields collects the exported fields in declaration order and
// reports whether any carried a serde tag. Unexported fields are
// invisible to serialization.
func structFields(st *ast.StructType) ([]shape.FieldSpec, bool) {
	var (
		fields []shape.FieldSpec
		tagged bool
	)

	for _, f := range st.Fields.List {
		var tag string
		if f.Tag != nil {
			raw, err := strconv.Unquote(f.Tag.Value)
			if err == nil {
				tag = reflect.StructTag(raw).Get("serde")
			}
		}

		if tag != "" {
			tagged = true
		}

		typeExpr := types.ExprString(f.Type)

		for _, ident := range f.Names {
			if !ident.IsExported() {
				continue
			}

			fields = append(fields, shape.FieldSpec{
				Name:        ident.Name,
				TypeExpr:    typeExpr,
				Annotations: parseFieldTag(tag),
			})
		}
	}

	return fields, tagged
}

func typeParams(ts *ast.TypeSpec) []shape.TypeParam {
	if ts.TypeParams == nil {
		return nil
	}

	var params []shape.TypeParam

	for _, f := range ts.TypeParams.List {
		declared := types.ExprString(f.Type)
		for _, ident := range f.Names {
			params = append(params, shape.TypeParam{Name: ident.Name, Declared: declared})
		}
	}

	return params
}

func directives(doc *ast.CommentGroup) []shape.Annotation {
	if doc == nil {
		return nil
	}

	var dirs []shape.Annotation

	for _, c := range doc.List {
		if ann, ok := parseDirective(c.Text); ok {
			dirs = append(dirs, ann)
		}
	}

	return dirs
}

func hasDirective(dirs []shape.Annotation, name string) bool {
	_, ok := findDirective(dirs, name)
	return ok
}

func findDirective(dirs []shape.Annotation, name string) (shape.Annotation, bool) {
	for _, d := range dirs {
		if d.Name == name {
			return d, true
		}
	}

	return shape.Annotation{}, false
}

// passthrough filters out the shape directives, leaving the annotations
// the attribute resolver owns.
func passthrough(dirs []shape.Annotation) []shape.Annotation {
	var anns []shape.Annotation

	for _, d := range dirs {
		switch d.Name {
		case dirEnum, dirVariant, dirTuple, dirTransparent:
			continue
		}

		anns = append(anns, d)
	}

	return anns
}

// variantOptions decodes a variant directive: the mandatory of=<enum>
// plus optional variant-level annotations.
func variantOptions(typeName, pos string, dir shape.Annotation) (string, []shape.Annotation, error) {
	var (
		enum string
		anns []shape.Annotation
	)

	for _, arg := range dir.Args {
		key, val, hasVal := strings.Cut(arg, "=")

		if key == "of" {
			enum = val
			continue
		}

		ann := shape.Annotation{Name: key}
		if hasVal {
			ann.Args = []string{val}
		}

		anns = append(anns, ann)
	}

	if enum == "" {
		return "", nil, diagnostic.WithPos(diagnostic.New(diagnostic.CodeUnknownAnnotation,
			typeName, "", "variant directive needs of=<enum>"), pos)
	}

	return enum, anns, nil
}
