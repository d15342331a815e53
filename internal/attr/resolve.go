package attr

import (
	"strconv"
	"strings"

	"github.com/vityafx/serde/codec"
	"github.com/vityafx/serde/internal/diagnostic"
	"github.com/vityafx/serde/internal/shape"
)

// BoundOverride replaces or suppresses the inferred constraint for one
// type parameter. An empty Constraint suppresses inference for Param.
type BoundOverride struct {
	Param      string
	Constraint string
}

// TypeConfig is the resolved type-level configuration.
type TypeConfig struct {
	// Rename is the serialized container name; empty means the source name.
	Rename      string
	DenyUnknown bool

	// Enum representation. Zero value is external tagging.
	Repr         codec.Repr
	TagField     string
	ContentField string

	BoundOverrides []BoundOverride
}

// FieldConfig is the resolved configuration of one field.
type FieldConfig struct {
	// SerializedName is the resolved wire name after precedence is applied.
	// Empty for positional fields.
	SerializedName string

	SkipSer   bool
	SkipDe    bool
	SkipSerIf string

	HasDefault  bool
	DefaultExpr string

	SerializeWith   string
	DeserializeWith string
}

// VariantConfig is the resolved configuration of one enum variant.
type VariantConfig struct {
	// Tag is the resolved wire tag for the variant.
	Tag  string
	Skip bool
	// DenyUnknown overrides the type-level policy when non-nil.
	DenyUnknown *bool
	Fields      []FieldConfig
}

// AnnotatedShape pairs a classified shape with its fully resolved
// configuration. Slices are index-aligned with the shape's field and
// variant slices.
type AnnotatedShape struct {
	Def   *shape.TypeDefinition
	Shape *shape.Shape

	Type     TypeConfig
	Fields   []FieldConfig
	Variants []VariantConfig
}

// Resolve applies the attribute precedence and consistency rules to a
// classified definition. The shape itself is not mutated; all decisions
// land in the returned configuration.
func Resolve(def *shape.TypeDefinition) (*AnnotatedShape, error) {
	ann := &AnnotatedShape{Def: def, Shape: def.Shape}

	if err := resolveType(def, &ann.Type); err != nil {
		return nil, err
	}

	switch def.Shape.Kind {
	case shape.KindStruct:
		fields, err := resolveNamedFields(def.Name, "", def.Shape.Named)
		if err != nil {
			return nil, err
		}

		ann.Fields = fields
	case shape.KindNewType, shape.KindTuple:
		fields, err := resolvePositionalFields(def.Name, "", def.Shape.Fields)
		if err != nil {
			return nil, err
		}

		ann.Fields = fields
	case shape.KindEnum:
		variants, err := resolveVariants(def, ann.Type)
		if err != nil {
			return nil, err
		}

		ann.Variants = variants
	}

	return ann, nil
}

func resolveType(def *shape.TypeDefinition, cfg *TypeConfig) error {
	var untagged bool

	for _, a := range def.Annotations {
		if err := checkAnnotation(def.Name, "", LevelType, a); err != nil {
			return diagnostic.WithPos(err, def.Pos)
		}

		switch a.Name {
		case AnnRename:
			if a.Args[0] == "" {
				return diagnostic.WithPos(diagnostic.New(diagnostic.CodeInvalidRename,
					def.Name, "", "type rename must not be empty"), def.Pos)
			}

			cfg.Rename = a.Args[0]
		case AnnDenyUnknownFields:
			cfg.DenyUnknown = true
		case AnnTag:
			cfg.TagField = a.Args[0]
		case AnnContent:
			cfg.ContentField = a.Args[0]
		case AnnUntagged:
			untagged = true
		case AnnBound:
			ov, err := parseBound(def.Name, a.Args[0])
			if err != nil {
				return diagnostic.WithPos(err, def.Pos)
			}

			cfg.BoundOverrides = append(cfg.BoundOverrides, ov...)
		}
	}

	return resolveRepr(def, cfg, untagged)
}

// resolveRepr settles the enum representation from the tag, content and
// untagged annotations and validates it against the variant shapes.
func resolveRepr(def *shape.TypeDefinition, cfg *TypeConfig, untagged bool) error {
	hasRepr := untagged || cfg.TagField != "" || cfg.ContentField != ""
	if hasRepr && def.Shape.Kind != shape.KindEnum {
		return diagnostic.WithPos(diagnostic.New(diagnostic.CodeIncompatibleRepresentation,
			def.Name, "", "tagging annotations require an enum, got a %s", def.Shape.Kind), def.Pos)
	}

	switch {
	case untagged && (cfg.TagField != "" || cfg.ContentField != ""):
		return diagnostic.WithPos(diagnostic.New(diagnostic.CodeIncompatibleRepresentation,
			def.Name, "", "untagged cannot be combined with tag or content"), def.Pos)
	case untagged:
		cfg.Repr = codec.ReprUntagged
	case cfg.ContentField != "" && cfg.TagField == "":
		return diagnostic.WithPos(diagnostic.New(diagnostic.CodeIncompatibleRepresentation,
			def.Name, "", "content requires tag"), def.Pos)
	case cfg.ContentField != "":
		cfg.Repr = codec.ReprAdjacent
	case cfg.TagField != "":
		cfg.Repr = codec.ReprInternal
	default:
		cfg.Repr = codec.ReprExternal
	}

	// Internal tagging injects the tag field into the variant payload, and
	// adjacent tagging nests the payload under the content entry, so both
	// require every variant to carry a named-field or empty payload.
	if cfg.Repr == codec.ReprInternal || cfg.Repr == codec.ReprAdjacent {
		for _, v := range def.Shape.Variants {
			if v.Shape.Kind != shape.KindStruct && v.Shape.Kind != shape.KindUnit {
				return diagnostic.WithPos(diagnostic.New(diagnostic.CodeIncompatibleRepresentation,
					def.Name, v.Name, "%s tagging requires struct or unit variants, %s is a %s",
					cfg.Repr, v.Name, v.Shape.Kind), def.Pos)
			}
		}
	}

	return nil
}

// parseBound splits a bound override argument of the form
// "T" (suppress) or "T=Constraint" (replace), comma-separated.
func parseBound(typeName, arg string) ([]BoundOverride, error) {
	var out []BoundOverride

	for _, part := range strings.Split(arg, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, diagnostic.New(diagnostic.CodeBoundOverrideConflict, typeName, "",
				"empty bound override")
		}

		param, constraint, _ := strings.Cut(part, "=")

		param = strings.TrimSpace(param)
		if param == "" {
			return nil, diagnostic.New(diagnostic.CodeBoundOverrideConflict, typeName, "",
				"bound override %q names no type parameter", part)
		}

		out = append(out, BoundOverride{Param: param, Constraint: strings.TrimSpace(constraint)})
	}

	return out, nil
}

func resolveNamedFields(typeName, variant string, fields []shape.FieldSpec) ([]FieldConfig, error) {
	out := make([]FieldConfig, len(fields))
	seen := make(map[string]string, len(fields))

	for i, f := range fields {
		path := f.Name
		if variant != "" {
			path = variant + "." + f.Name
		}

		cfg, err := resolveField(typeName, path, f)
		if err != nil {
			return nil, err
		}

		if cfg.SerializedName == "" {
			cfg.SerializedName = f.Name
		}

		if prev, dup := seen[cfg.SerializedName]; dup {
			return nil, diagnostic.New(diagnostic.CodeInvalidRename, typeName, path,
				"serialized name %q collides with field %s", cfg.SerializedName, prev)
		}

		seen[cfg.SerializedName] = f.Name
		out[i] = cfg
	}

	return out, nil
}

func resolvePositionalFields(typeName, variant string, fields []shape.FieldSpec) ([]FieldConfig, error) {
	out := make([]FieldConfig, len(fields))

	for i, f := range fields {
		path := positionalPath(variant, i)

		for _, a := range f.Annotations {
			switch a.Name {
			case AnnRename:
				return nil, diagnostic.New(diagnostic.CodeInvalidRename, typeName, path,
					"positional fields cannot be renamed")
			case AnnSkip, AnnSkipSerializing, AnnSkipDeserializing:
				return nil, diagnostic.New(diagnostic.CodeInconsistentSkip, typeName, path,
					"positional fields cannot be skipped")
			}
		}

		cfg, err := resolveField(typeName, path, f)
		if err != nil {
			return nil, err
		}

		out[i] = cfg
	}

	return out, nil
}

func resolveField(typeName, path string, f shape.FieldSpec) (FieldConfig, error) {
	var cfg FieldConfig

	for _, a := range f.Annotations {
		if err := checkAnnotation(typeName, path, LevelField, a); err != nil {
			return cfg, err
		}

		switch a.Name {
		case AnnRename:
			if a.Args[0] == "" {
				return cfg, diagnostic.New(diagnostic.CodeInvalidRename, typeName, path,
					"serialized name must not be empty")
			}

			cfg.SerializedName = a.Args[0]
		case AnnSkip:
			cfg.SkipSer = true
			cfg.SkipDe = true
		case AnnSkipSerializing:
			cfg.SkipSer = true
		case AnnSkipDeserializing:
			cfg.SkipDe = true
		case AnnSkipSerializingIf:
			cfg.SkipSerIf = a.Args[0]
		case AnnDefault:
			cfg.HasDefault = true
			if len(a.Args) == 1 {
				cfg.DefaultExpr = a.Args[0]
			}
		case AnnSerializeWith:
			cfg.SerializeWith = a.Args[0]
		case AnnDeserializeWith:
			cfg.DeserializeWith = a.Args[0]
		}
	}

	// A field omitted from serialization but still decoded would be
	// required on a wire it never reaches. Once decoding is skipped too,
	// the zero value stands in when no explicit default is given.
	if cfg.SkipSer && !cfg.SkipDe && !cfg.HasDefault {
		return cfg, diagnostic.New(diagnostic.CodeInconsistentSkip, typeName, path,
			"field skipped during serialization needs a default to be reconstructible")
	}

	return cfg, nil
}

func resolveVariants(def *shape.TypeDefinition, typeCfg TypeConfig) ([]VariantConfig, error) {
	out := make([]VariantConfig, len(def.Shape.Variants))
	seen := make(map[string]string, len(def.Shape.Variants))

	for i, v := range def.Shape.Variants {
		cfg := VariantConfig{Tag: v.Name}

		for _, a := range v.Annotations {
			if err := checkAnnotation(def.Name, v.Name, LevelVariant, a); err != nil {
				return nil, diagnostic.WithPos(err, def.Pos)
			}

			switch a.Name {
			case AnnRename:
				if a.Args[0] == "" {
					return nil, diagnostic.New(diagnostic.CodeInvalidRename, def.Name, v.Name,
						"variant tag must not be empty")
				}

				cfg.Tag = a.Args[0]
			case AnnSkip, AnnSkipSerializing, AnnSkipDeserializing:
				cfg.Skip = true
			case AnnDenyUnknownFields:
				deny := true
				cfg.DenyUnknown = &deny
			}
		}

		if prev, dup := seen[cfg.Tag]; dup {
			return nil, diagnostic.New(diagnostic.CodeInvalidRename, def.Name, v.Name,
				"variant tag %q collides with variant %s", cfg.Tag, prev)
		}

		seen[cfg.Tag] = v.Name

		fields, err := resolveVariantFields(def.Name, v)
		if err != nil {
			return nil, err
		}

		cfg.Fields = fields
		out[i] = cfg
	}

	return out, nil
}

func resolveVariantFields(typeName string, v shape.VariantSpec) ([]FieldConfig, error) {
	switch v.Shape.Kind {
	case shape.KindStruct:
		return resolveNamedFields(typeName, v.Name, v.Shape.Named)
	case shape.KindNewType, shape.KindTuple:
		return resolvePositionalFields(typeName, v.Name, v.Shape.Fields)
	default:
		return nil, nil
	}
}

func positionalPath(variant string, i int) string {
	path := "#" + strconv.Itoa(i)
	if variant != "" {
		path = variant + "." + path
	}

	return path
}
