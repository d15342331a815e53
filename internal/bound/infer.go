package bound

import (
	"strings"

	"github.com/vityafx/serde/internal/attr"
	"github.com/vityafx/serde/internal/diagnostic"
	"github.com/vityafx/serde/internal/shape"
)

// Direction selects which generated artifact the constraints are for.
type Direction int

const (
	DirectionSerialize Direction = iota
	DirectionDeserialize
)

// String returns a human-readable direction name.
func (d Direction) String() string {
	if d == DirectionDeserialize {
		return "deserialize"
	}

	return "serialize"
}

// Param is one resolved type parameter of a generated artifact.
type Param struct {
	Name string
	// Constraint is the bound written in the generated signature.
	Constraint string
	// Companion is an auxiliary pointer-typed parameter emitted after
	// Name, used by decoders that need addressable values. Empty when
	// no companion is required.
	Companion string
	// CompanionConstraint is the companion's bound.
	CompanionConstraint string
}

// Infer computes the type-parameter list of the artifact generated for
// ann in the given direction. The slice preserves declaration order and
// is empty for non-generic definitions.
func Infer(ann *attr.AnnotatedShape, dir Direction) ([]Param, error) {
	def := ann.Def
	if len(def.TypeParams) == 0 {
		return nil, nil
	}

	overrides, err := collectOverrides(def, ann.Type.BoundOverrides)
	if err != nil {
		return nil, err
	}

	used := usedParams(ann, dir)

	out := make([]Param, 0, len(def.TypeParams))

	for _, tp := range def.TypeParams {
		p := Param{Name: tp.Name, Constraint: tp.Declared}
		if p.Constraint == "" {
			p.Constraint = "any"
		}

		switch ov, overridden := overrides[tp.Name]; {
		case overridden && ov != "":
			p.Constraint = ov
		case overridden:
			// Empty override suppresses inference; the declared bound stands.
		case used[tp.Name] && dir == DirectionSerialize:
			p.Constraint = "codec.Encodable"
		case used[tp.Name]:
			// Decoding needs an addressable value, so the constraint
			// lands on a companion pointer parameter.
			p.Constraint = "any"
			p.Companion = "P" + tp.Name
			p.CompanionConstraint = "interface{ *" + tp.Name + "; codec.Decodable }"
		}

		out = append(out, p)
	}

	return out, nil
}

func collectOverrides(def *shape.TypeDefinition, ovs []attr.BoundOverride) (map[string]string, error) {
	declared := make(map[string]bool, len(def.TypeParams))
	for _, tp := range def.TypeParams {
		declared[tp.Name] = true
	}

	out := make(map[string]string, len(ovs))

	for _, ov := range ovs {
		if !declared[ov.Param] {
			return nil, diagnostic.WithPos(diagnostic.New(diagnostic.CodeBoundOverrideConflict,
				def.Name, "", "bound override names unknown type parameter %q", ov.Param), def.Pos)
		}

		if prev, dup := out[ov.Param]; dup && prev != ov.Constraint {
			return nil, diagnostic.WithPos(diagnostic.New(diagnostic.CodeBoundOverrideConflict,
				def.Name, "", "conflicting bound overrides for %q: %q vs %q",
				ov.Param, prev, ov.Constraint), def.Pos)
		}

		out[ov.Param] = ov.Constraint
	}

	return out, nil
}

// usedParams reports which type parameters occur in a field that
// participates in the given direction.
func usedParams(ann *attr.AnnotatedShape, dir Direction) map[string]bool {
	used := make(map[string]bool, len(ann.Def.TypeParams))

	mark := func(fields []shape.FieldSpec, cfgs []attr.FieldConfig) {
		for i, f := range fields {
			if i < len(cfgs) && skipped(cfgs[i], dir) {
				continue
			}

			for _, tp := range ann.Def.TypeParams {
				if !used[tp.Name] && mentionsIdent(f.TypeExpr, tp.Name) {
					used[tp.Name] = true
				}
			}
		}
	}

	sh := ann.Shape

	switch sh.Kind {
	case shape.KindStruct:
		mark(sh.Named, ann.Fields)
	case shape.KindNewType, shape.KindTuple:
		mark(sh.Fields, ann.Fields)
	case shape.KindEnum:
		for i, v := range sh.Variants {
			var cfgs []attr.FieldConfig
			if i < len(ann.Variants) {
				if ann.Variants[i].Skip {
					continue
				}

				cfgs = ann.Variants[i].Fields
			}

			switch v.Shape.Kind {
			case shape.KindStruct:
				mark(v.Shape.Named, cfgs)
			case shape.KindNewType, shape.KindTuple:
				mark(v.Shape.Fields, cfgs)
			}
		}
	}

	return used
}

func skipped(cfg attr.FieldConfig, dir Direction) bool {
	if dir == DirectionSerialize {
		return cfg.SkipSer
	}

	return cfg.SkipDe
}

// mentionsIdent reports whether name occurs in expr as a standalone
// identifier rather than as a substring of a longer one.
func mentionsIdent(expr, name string) bool {
	for start := 0; start < len(expr); {
		rel := strings.Index(expr[start:], name)
		if rel < 0 {
			return false
		}

		idx := start + rel

		before := idx == 0 || !identByte(expr[idx-1])
		afterIdx := idx + len(name)
		after := afterIdx == len(expr) || !identByte(expr[afterIdx])

		if before && after {
			// A qualified selector like pkg.T is a different identifier.
			if idx >= 1 && expr[idx-1] == '.' {
				start = afterIdx
				continue
			}

			return true
		}

		start = afterIdx
	}

	return false
}

func identByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
