package bound

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vityafx/serde/internal/attr"
	"github.com/vityafx/serde/internal/diagnostic"
	"github.com/vityafx/serde/internal/shape"
)

func resolve(t *testing.T, def *shape.TypeDefinition) *attr.AnnotatedShape {
	t.Helper()

	ann, err := attr.Resolve(def)
	require.NoError(t, err)

	return ann
}

func TestInfer_NonGeneric(t *testing.T) {
	def := &shape.TypeDefinition{
		Name:  "Point",
		Shape: shape.Struct(shape.FieldSpec{Name: "X", TypeExpr: "float64"}),
	}

	params, err := Infer(resolve(t, def), DirectionSerialize)
	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestInfer_UsedParamSerialize(t *testing.T) {
	def := &shape.TypeDefinition{
		Name:       "Box",
		TypeParams: []shape.TypeParam{{Name: "T", Declared: "any"}},
		Shape:      shape.Struct(shape.FieldSpec{Name: "Inner", TypeExpr: "T"}),
	}

	params, err := Infer(resolve(t, def), DirectionSerialize)
	require.NoError(t, err)

	require.Len(t, params, 1)
	assert.Equal(t, "T", params[0].Name)
	assert.Equal(t, "codec.Encodable", params[0].Constraint)
	assert.Empty(t, params[0].Companion)
}

func TestInfer_UsedParamDeserialize(t *testing.T) {
	def := &shape.TypeDefinition{
		Name:       "Box",
		TypeParams: []shape.TypeParam{{Name: "T", Declared: "any"}},
		Shape:      shape.Struct(shape.FieldSpec{Name: "Inner", TypeExpr: "T"}),
	}

	params, err := Infer(resolve(t, def), DirectionDeserialize)
	require.NoError(t, err)

	require.Len(t, params, 1)
	assert.Equal(t, "any", params[0].Constraint)
	assert.Equal(t, "PT", params[0].Companion)
	assert.Equal(t, "interface{ *T; codec.Decodable }", params[0].CompanionConstraint)
}

func TestInfer_UnusedParamKeepsDeclaredBound(t *testing.T) {
	def := &shape.TypeDefinition{
		Name: "Tagged",
		TypeParams: []shape.TypeParam{
			{Name: "T", Declared: "any"},
			{Name: "K", Declared: "comparable"},
		},
		Shape: shape.Struct(shape.FieldSpec{Name: "Value", TypeExpr: "T"}),
	}

	params, err := Infer(resolve(t, def), DirectionSerialize)
	require.NoError(t, err)

	require.Len(t, params, 2)
	assert.Equal(t, "codec.Encodable", params[0].Constraint)
	assert.Equal(t, "comparable", params[1].Constraint)
	assert.Empty(t, params[1].Companion)
}

func TestInfer_SkippedFieldDoesNotConstrain(t *testing.T) {
	def := &shape.TypeDefinition{
		Name:       "Cache",
		TypeParams: []shape.TypeParam{{Name: "T", Declared: "any"}},
		Shape: shape.Struct(
			shape.FieldSpec{Name: "Hot", TypeExpr: "T", Annotations: []shape.Annotation{
				{Name: attr.AnnSkip},
				{Name: attr.AnnDefault, Args: []string{"*new(T)"}},
			}},
			shape.FieldSpec{Name: "Name", TypeExpr: "string"},
		),
	}

	params, err := Infer(resolve(t, def), DirectionSerialize)
	require.NoError(t, err)

	require.Len(t, params, 1)
	assert.Equal(t, "any", params[0].Constraint)
}

func TestInfer_SkipSerializingStillConstrainsDecode(t *testing.T) {
	def := &shape.TypeDefinition{
		Name:       "Cache",
		TypeParams: []shape.TypeParam{{Name: "T", Declared: "any"}},
		Shape: shape.Struct(
			shape.FieldSpec{Name: "Hot", TypeExpr: "T", Annotations: []shape.Annotation{
				{Name: attr.AnnSkipSerializing},
				{Name: attr.AnnDefault, Args: []string{"*new(T)"}},
			}},
		),
	}

	ser, err := Infer(resolve(t, def), DirectionSerialize)
	require.NoError(t, err)
	assert.Equal(t, "any", ser[0].Constraint)

	de, err := Infer(resolve(t, def), DirectionDeserialize)
	require.NoError(t, err)
	assert.Equal(t, "PT", de[0].Companion)
}

func TestInfer_OverConstrainsCompositeTypes(t *testing.T) {
	def := &shape.TypeDefinition{
		Name:       "Table",
		TypeParams: []shape.TypeParam{{Name: "V", Declared: "any"}},
		Shape:      shape.Struct(shape.FieldSpec{Name: "Rows", TypeExpr: "map[string][]V"}),
	}

	params, err := Infer(resolve(t, def), DirectionSerialize)
	require.NoError(t, err)
	assert.Equal(t, "codec.Encodable", params[0].Constraint)
}

func TestInfer_QualifiedSelectorIsNotAMention(t *testing.T) {
	// pkg.T names a different type than the parameter T.
	assert.False(t, mentionsIdent("pkg.T", "T"))
	assert.True(t, mentionsIdent("map[pkg.T]T", "T"))
	assert.False(t, mentionsIdent("Tree", "T"))
	assert.False(t, mentionsIdent("myT", "T"))
	assert.True(t, mentionsIdent("*T", "T"))
	assert.True(t, mentionsIdent("[]T", "T"))
}

func TestInfer_OverrideReplaces(t *testing.T) {
	def := &shape.TypeDefinition{
		Name:       "Box",
		TypeParams: []shape.TypeParam{{Name: "T", Declared: "any"}},
		Shape:      shape.Struct(shape.FieldSpec{Name: "Inner", TypeExpr: "T"}),
		Annotations: []shape.Annotation{
			{Name: attr.AnnBound, Args: []string{"T = fmt.Stringer"}},
		},
	}

	params, err := Infer(resolve(t, def), DirectionSerialize)
	require.NoError(t, err)
	assert.Equal(t, "fmt.Stringer", params[0].Constraint)
	assert.Empty(t, params[0].Companion)
}

func TestInfer_OverrideSuppresses(t *testing.T) {
	def := &shape.TypeDefinition{
		Name:        "Box",
		TypeParams:  []shape.TypeParam{{Name: "T", Declared: "comparable"}},
		Shape:       shape.Struct(shape.FieldSpec{Name: "Inner", TypeExpr: "T"}),
		Annotations: []shape.Annotation{{Name: attr.AnnBound, Args: []string{"T"}}},
	}

	params, err := Infer(resolve(t, def), DirectionDeserialize)
	require.NoError(t, err)
	assert.Equal(t, "comparable", params[0].Constraint)
	assert.Empty(t, params[0].Companion)
}

func TestInfer_OverrideUnknownParam(t *testing.T) {
	def := &shape.TypeDefinition{
		Name:        "Box",
		TypeParams:  []shape.TypeParam{{Name: "T", Declared: "any"}},
		Shape:       shape.Struct(shape.FieldSpec{Name: "Inner", TypeExpr: "T"}),
		Annotations: []shape.Annotation{{Name: attr.AnnBound, Args: []string{"U = any"}}},
	}

	_, err := Infer(resolve(t, def), DirectionSerialize)
	require.Error(t, err)
	assert.Equal(t, diagnostic.CodeBoundOverrideConflict, diagnostic.CodeOf(err))
}

func TestInfer_ConflictingOverrides(t *testing.T) {
	def := &shape.TypeDefinition{
		Name:       "Box",
		TypeParams: []shape.TypeParam{{Name: "T", Declared: "any"}},
		Shape:      shape.Struct(shape.FieldSpec{Name: "Inner", TypeExpr: "T"}),
		Annotations: []shape.Annotation{
			{Name: attr.AnnBound, Args: []string{"T = fmt.Stringer, T = any"}},
		},
	}

	_, err := Infer(resolve(t, def), DirectionSerialize)
	require.Error(t, err)
	assert.Equal(t, diagnostic.CodeBoundOverrideConflict, diagnostic.CodeOf(err))
}

func TestInfer_EnumVariantFields(t *testing.T) {
	def := &shape.TypeDefinition{
		Name:       "Result",
		TypeParams: []shape.TypeParam{{Name: "T", Declared: "any"}, {Name: "E", Declared: "any"}},
		Shape: shape.Enum(
			shape.VariantSpec{Name: "Ok", Shape: shape.NewType(shape.FieldSpec{TypeExpr: "T"})},
			shape.VariantSpec{Name: "Err", Shape: shape.NewType(shape.FieldSpec{TypeExpr: "E"})},
		),
	}

	params, err := Infer(resolve(t, def), DirectionSerialize)
	require.NoError(t, err)

	require.Len(t, params, 2)
	assert.Equal(t, "codec.Encodable", params[0].Constraint)
	assert.Equal(t, "codec.Encodable", params[1].Constraint)
}
