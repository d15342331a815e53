package shape

import (
	"github.com/vityafx/serde/internal/diagnostic"
)

// Classify validates that a type definition describes one of the supported
// shapes and returns the shape. It is deterministic and side-effect free:
// identical definitions always classify identically.
func Classify(def *TypeDefinition) (*Shape, error) {
	if def == nil || def.Shape == nil {
		return nil, diagnostic.New(diagnostic.CodeUnsupportedShape, defName(def), "",
			"type definition has no shape")
	}

	if err := validate(def.Name, def.Shape, true); err != nil {
		return nil, diagnostic.WithPos(err, def.Pos)
	}

	return def.Shape, nil
}

func defName(def *TypeDefinition) string {
	if def == nil {
		return ""
	}

	return def.Name
}

func validate(typeName string, s *Shape, allowEnum bool) error {
	switch s.Kind {
	case KindUnit:
		if len(s.Fields) != 0 || len(s.Named) != 0 || len(s.Variants) != 0 {
			return diagnostic.New(diagnostic.CodeUnsupportedShape, typeName, "",
				"unit shape carries fields")
		}
	case KindNewType:
		if len(s.Fields) != 1 {
			return diagnostic.New(diagnostic.CodeUnsupportedShape, typeName, "",
				"newtype shape must wrap exactly one field, got %d", len(s.Fields))
		}

		if len(s.Named) != 0 || len(s.Variants) != 0 {
			return diagnostic.New(diagnostic.CodeUnsupportedShape, typeName, "",
				"newtype shape carries a foreign payload")
		}
	case KindTuple:
		if len(s.Fields) == 0 {
			return diagnostic.New(diagnostic.CodeUnsupportedShape, typeName, "",
				"tuple shape has no elements")
		}

		if len(s.Named) != 0 || len(s.Variants) != 0 {
			return diagnostic.New(diagnostic.CodeUnsupportedShape, typeName, "",
				"tuple shape carries a foreign payload")
		}
	case KindStruct:
		if len(s.Fields) != 0 || len(s.Variants) != 0 {
			return diagnostic.New(diagnostic.CodeUnsupportedShape, typeName, "",
				"struct shape carries a foreign payload")
		}

		for _, f := range s.Named {
			if f.Name == "" {
				return diagnostic.New(diagnostic.CodeUnsupportedShape, typeName, "",
					"struct shape has an unnamed field")
			}
		}
	case KindEnum:
		if !allowEnum {
			return diagnostic.New(diagnostic.CodeUnsupportedShape, typeName, "",
				"enum variants cannot themselves be enums")
		}

		if len(s.Variants) == 0 {
			return diagnostic.New(diagnostic.CodeUnsupportedShape, typeName, "",
				"enum shape has no variants")
		}

		for _, v := range s.Variants {
			if v.Name == "" {
				return diagnostic.New(diagnostic.CodeUnsupportedShape, typeName, "",
					"enum shape has an unnamed variant")
			}

			if v.Shape == nil {
				return diagnostic.New(diagnostic.CodeUnsupportedShape, typeName, v.Name,
					"variant has no shape")
			}

			if err := validate(typeName, v.Shape, false); err != nil {
				return err
			}
		}
	default:
		return diagnostic.New(diagnostic.CodeUnsupportedShape, typeName, "",
			"unrecognized shape kind %d", int(s.Kind))
	}

	return nil
}
