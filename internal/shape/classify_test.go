package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vityafx/serde/internal/diagnostic"
)

func TestClassify_ValidShapes(t *testing.T) {
	tests := []struct {
		name string
		def  *TypeDefinition
		want Kind
	}{
		{
			name: "unit",
			def:  &TypeDefinition{Name: "Marker", Shape: Unit()},
			want: KindUnit,
		},
		{
			name: "newtype",
			def: &TypeDefinition{Name: "Meters", Shape: NewType(
				FieldSpec{TypeExpr: "float64"},
			)},
			want: KindNewType,
		},
		{
			name: "tuple",
			def: &TypeDefinition{Name: "Pair", Shape: Tuple(
				FieldSpec{TypeExpr: "int"},
				FieldSpec{TypeExpr: "string"},
			)},
			want: KindTuple,
		},
		{
			name: "struct",
			def: &TypeDefinition{Name: "Point", Shape: Struct(
				FieldSpec{Name: "X", TypeExpr: "int"},
				FieldSpec{Name: "Y", TypeExpr: "int"},
			)},
			want: KindStruct,
		},
		{
			name: "enum",
			def: &TypeDefinition{Name: "Shape", Shape: Enum(
				VariantSpec{Name: "Circle", Shape: NewType(FieldSpec{TypeExpr: "float64"})},
				VariantSpec{Name: "Empty", Shape: Unit()},
			)},
			want: KindEnum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Classify(tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Kind)

			// Determinism: classifying again yields the identical shape.
			again, err := Classify(tt.def)
			require.NoError(t, err)
			assert.Equal(t, s, again)
		})
	}
}

func TestClassify_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		def  *TypeDefinition
	}{
		{"nil definition", nil},
		{"nil shape", &TypeDefinition{Name: "Opaque"}},
		{"unknown kind", &TypeDefinition{Name: "X", Shape: &Shape{Kind: KindUnknown}}},
		{"newtype arity", &TypeDefinition{Name: "X", Shape: &Shape{Kind: KindNewType}}},
		{"empty tuple", &TypeDefinition{Name: "X", Shape: &Shape{Kind: KindTuple}}},
		{"empty enum", &TypeDefinition{Name: "X", Shape: &Shape{Kind: KindEnum}}},
		{
			"nested enum variant",
			&TypeDefinition{Name: "X", Shape: Enum(
				VariantSpec{Name: "V", Shape: Enum(VariantSpec{Name: "W", Shape: Unit()})},
			)},
		},
		{
			"unnamed struct field",
			&TypeDefinition{Name: "X", Shape: Struct(FieldSpec{TypeExpr: "int"})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(tt.def)
			require.Error(t, err)
			assert.Equal(t, diagnostic.CodeUnsupportedShape, diagnostic.CodeOf(err))
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "unit", KindUnit.String())
	assert.Equal(t, "newtype", KindNewType.String())
	assert.Equal(t, "tuple", KindTuple.String())
	assert.Equal(t, "struct", KindStruct.String())
	assert.Equal(t, "enum", KindEnum.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}

func TestTypeDefinition_Instantiated(t *testing.T) {
	plain := &TypeDefinition{Name: "Point"}
	assert.Equal(t, "Point", plain.Instantiated())

	generic := &TypeDefinition{
		Name: "Pair",
		TypeParams: []TypeParam{
			{Name: "K", Declared: "comparable"},
			{Name: "V", Declared: "any"},
		},
	}
	assert.Equal(t, "Pair[K, V]", generic.Instantiated())
}
