package gen

import (
	"strings"
	"unicode"

	"github.com/vityafx/serde/internal/bound"
	"github.com/vityafx/serde/internal/shape"
)

// encodeFuncName returns the serializer artifact name for a type.
func encodeFuncName(def *shape.TypeDefinition) string {
	return "Encode" + def.Name
}

// decodeFuncName returns the deserializer artifact name for a type.
func decodeFuncName(def *shape.TypeDefinition) string {
	return "Decode" + def.Name
}

// filename returns the generated file name, e.g. "user_profile_serde.go"
// for UserProfile.
func filename(def *shape.TypeDefinition) string {
	return snakeCase(def.Name) + "_serde.go"
}

// snakeCase lowers a CamelCase name, keeping acronym runs together:
// UserID becomes user_id, not user_i_d.
func snakeCase(name string) string {
	runes := []rune(name)

	var sb strings.Builder

	for i, r := range runes {
		if !unicode.IsUpper(r) {
			sb.WriteRune(r)
			continue
		}

		boundary := i > 0 &&
			(!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1])))
		if boundary {
			sb.WriteByte('_')
		}

		sb.WriteRune(unicode.ToLower(r))
	}

	return sb.String()
}

// typeParamList renders the bracketed parameter declaration of a generated
// function, e.g. "[T any, PT interface{ *T; codec.Decodable }]". Empty for
// non-generic artifacts.
func typeParamList(params []bound.Param) string {
	if len(params) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteByte('[')

	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(p.Name)
		sb.WriteByte(' ')
		sb.WriteString(p.Constraint)

		if p.Companion != "" {
			sb.WriteString(", ")
			sb.WriteString(p.Companion)
			sb.WriteByte(' ')
			sb.WriteString(p.CompanionConstraint)
		}
	}

	sb.WriteByte(']')

	return sb.String()
}

// companionFor maps a type parameter name to its companion pointer
// parameter, or "" when the parameter has none.
func companionFor(params []bound.Param, name string) string {
	for _, p := range params {
		if p.Name == name && p.Companion != "" {
			return p.Companion
		}
	}

	return ""
}
