package gen

import (
	"go/format"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vityafx/serde/internal/attr"
	"github.com/vityafx/serde/internal/shape"
)

func generate(t *testing.T, def *shape.TypeDefinition) string {
	t.Helper()

	ann, err := attr.Resolve(def)
	require.NoError(t, err, spew.Sdump(def))

	cfg := DefaultGeneratorConfig()
	cfg.OutputDir = "" // no sidecar writes from tests

	file, err := NewGenerator(cfg).Generate(ann)
	require.NoError(t, err, spew.Sdump(ann))

	return string(file.Content)
}

func userDef() *shape.TypeDefinition {
	return &shape.TypeDefinition{
		Name: "User",
		Shape: shape.Struct(
			shape.FieldSpec{Name: "ID", TypeExpr: "int64", Annotations: []shape.Annotation{
				{Name: attr.AnnRename, Args: []string{"user_id"}},
			}},
			shape.FieldSpec{Name: "Mail", TypeExpr: "string"},
			shape.FieldSpec{Name: "Age", TypeExpr: "int", Annotations: []shape.Annotation{
				{Name: attr.AnnDefault, Args: []string{"18"}},
			}},
		),
	}
}

func TestGenerate_StructSerializer(t *testing.T) {
	src := generate(t, userDef())

	assert.Contains(t, src, "// Code generated by serde-gen. DO NOT EDIT.")
	assert.Contains(t, src, "package model")
	assert.Contains(t, src, `"github.com/vityafx/serde/codec"`)

	assert.Contains(t, src, "func EncodeUser(e codec.Encoder, v User) error {")
	assert.Contains(t, src, "e.BeginMap(3)")
	assert.Contains(t, src, `e.EncodeEntry("user_id", v.ID)`)
	assert.Contains(t, src, `e.EncodeEntry("Mail", v.Mail)`)
	assert.Contains(t, src, "return e.EndMap()")

	// Entries follow declaration order.
	assert.Less(t,
		strings.Index(src, `e.EncodeEntry("user_id"`),
		strings.Index(src, `e.EncodeEntry("Mail"`))

	assert.Contains(t, src, "func (v User) EncodeSerde(e codec.Encoder) error {")
}

func TestGenerate_StructDeserializer(t *testing.T) {
	src := generate(t, userDef())

	assert.Contains(t, src, "func DecodeUser(d codec.Decoder) (User, error) {")
	assert.Contains(t, src, `Name:     "user_id",`)
	assert.Contains(t, src, "Required: true,")
	assert.Contains(t, src, "Default: func() { v.Age = 18 },")
	assert.Contains(t, src, "codec.Assign(fd, &v.ID)")
	assert.Contains(t, src, "codec.DecodeStruct(d, spec)")
	assert.Contains(t, src, "func (v *User) DecodeSerde(d codec.Decoder) error {")
	assert.NotContains(t, src, "DenyUnknown")
}

func TestGenerate_DenyUnknownFields(t *testing.T) {
	def := userDef()
	def.Annotations = []shape.Annotation{{Name: attr.AnnDenyUnknownFields}}

	src := generate(t, def)
	assert.Contains(t, src, "DenyUnknown: true,")
}

func TestGenerate_SkippedField(t *testing.T) {
	def := &shape.TypeDefinition{
		Name: "Session",
		Shape: shape.Struct(
			shape.FieldSpec{Name: "User", TypeExpr: "string"},
			shape.FieldSpec{Name: "Token", TypeExpr: "string", Annotations: []shape.Annotation{
				{Name: attr.AnnSkip},
				{Name: attr.AnnDefault, Args: []string{`"redacted"`}},
			}},
		),
	}

	src := generate(t, def)

	// Serializer omits the field and counts it out of the hint.
	assert.Contains(t, src, "e.BeginMap(1)")
	assert.NotContains(t, src, `e.EncodeEntry("Token"`)

	// Deserializer assigns the default up front and keeps it out of the table.
	assert.Contains(t, src, `v.Token = "redacted"`)
	assert.NotContains(t, src, `"Token",`)
}

func TestGenerate_SkipDeserializingOnly(t *testing.T) {
	def := &shape.TypeDefinition{
		Name: "Report",
		Shape: shape.Struct(
			shape.FieldSpec{Name: "ID", TypeExpr: "int"},
			shape.FieldSpec{Name: "Rendered", TypeExpr: "string", Annotations: []shape.Annotation{
				{Name: attr.AnnSkipDeserializing},
			}},
		),
	}

	src := generate(t, def)

	// A write-only field still serializes.
	assert.Contains(t, src, "e.BeginMap(2)")
	assert.Contains(t, src, `e.EncodeEntry("Rendered", v.Rendered)`)

	// Decode leaves the zero value and keeps the field out of the table.
	assert.NotContains(t, src, `Name:     "Rendered",`)
	assert.NotContains(t, src, "v.Rendered =")
}

func TestGenerate_SkipSerializingIf(t *testing.T) {
	def := &shape.TypeDefinition{
		Name: "Doc",
		Shape: shape.Struct(
			shape.FieldSpec{Name: "Title", TypeExpr: "string"},
			shape.FieldSpec{Name: "Body", TypeExpr: "string", Annotations: []shape.Annotation{
				{Name: attr.AnnSkipSerializingIf, Args: []string{"isEmpty"}},
			}},
		),
	}

	src := generate(t, def)

	assert.Contains(t, src, "entries := 2")
	assert.Contains(t, src, "if isEmpty(v.Body) {")
	assert.Contains(t, src, "entries--")
	assert.Contains(t, src, "e.BeginMap(entries)")
	assert.Contains(t, src, "if !isEmpty(v.Body) {")

	// The same field still decodes as a required one.
	assert.Contains(t, src, `Name:     "Body",`)
}

func TestGenerate_Hooks(t *testing.T) {
	def := &shape.TypeDefinition{
		Name: "Blob",
		Shape: shape.Struct(
			shape.FieldSpec{Name: "Data", TypeExpr: "[]byte", Annotations: []shape.Annotation{
				{Name: attr.AnnSerializeWith, Args: []string{"encodeBase64"}},
				{Name: attr.AnnDeserializeWith, Args: []string{"decodeBase64"}},
			}},
		),
	}

	src := generate(t, def)

	assert.Contains(t, src, "encodeBase64(v.Data)")
	assert.Contains(t, src, "decodeBase64(fd)")
	assert.Contains(t, src, "v.Data = fv")
}

func TestGenerate_Unit(t *testing.T) {
	def := &shape.TypeDefinition{Name: "Ping", Shape: shape.Unit()}

	src := generate(t, def)

	assert.Contains(t, src, "func EncodePing(e codec.Encoder, v Ping) error {")
	assert.Contains(t, src, "return e.EncodePrimitive(nil)")
	assert.Contains(t, src, `codec.DecodeUnit(d, "Ping")`)
	assert.Contains(t, src, "return Ping{}, nil")
}

func TestGenerate_NewType(t *testing.T) {
	def := &shape.TypeDefinition{
		Name:  "UserID",
		Shape: shape.NewType(shape.FieldSpec{Name: "Raw", TypeExpr: "uint64"}),
	}

	src := generate(t, def)

	assert.Contains(t, src, "return codec.Encode(e, v.Raw)")
	assert.Contains(t, src, "codec.Assign(d, &v.Raw)")
	// A newtype writes no container, only its inner value.
	assert.NotContains(t, src, "BeginMap")
	assert.NotContains(t, src, "BeginSequence")
}

func TestGenerate_Tuple(t *testing.T) {
	def := &shape.TypeDefinition{
		Name: "Point",
		Shape: shape.Tuple(
			shape.FieldSpec{Name: "X", TypeExpr: "float64"},
			shape.FieldSpec{Name: "Y", TypeExpr: "float64"},
		),
	}

	src := generate(t, def)

	assert.Contains(t, src, "e.BeginSequence(2)")
	assert.Contains(t, src, "e.EncodeElement(v.X)")
	assert.Contains(t, src, "e.EncodeElement(v.Y)")
	assert.Contains(t, src, "return e.EndSequence()")

	assert.Contains(t, src, `codec.DecodeTuple(d, "Point", elems)`)
	assert.Contains(t, src, "codec.Assign(ed, &v.X)")
}

func messageDef(anns ...shape.Annotation) *shape.TypeDefinition {
	return &shape.TypeDefinition{
		Name: "Message",
		Shape: shape.Enum(
			shape.VariantSpec{Name: "Quit", Shape: shape.Unit()},
			shape.VariantSpec{Name: "Move", Shape: shape.Struct(
				shape.FieldSpec{Name: "X", TypeExpr: "int"},
				shape.FieldSpec{Name: "Y", TypeExpr: "int"},
			)},
		),
		Annotations: anns,
	}
}

func TestGenerate_EnumExternal(t *testing.T) {
	src := generate(t, messageDef())

	assert.Contains(t, src, "func EncodeMessage(e codec.Encoder, v Message) error {")
	assert.Contains(t, src, "switch val := v.(type) {")
	assert.Contains(t, src, `e.EncodeEntry("Quit", nil)`)
	assert.Contains(t, src, `e.EncodeEntry("Move", content)`)
	assert.Contains(t, src, "ve := codec.NewValueEncoder()")

	// Variant content helpers and their protocol shims.
	assert.Contains(t, src, "func EncodeMove(e codec.Encoder, v Move) error {")
	assert.Contains(t, src, "func (v Move) EncodeSerde(e codec.Encoder) error {")
	assert.Contains(t, src, "func DecodeMove(d codec.Decoder) (Move, error) {")

	assert.Contains(t, src, "func DecodeMessage(d codec.Decoder) (Message, error) {")
	assert.Contains(t, src, "Repr: codec.ReprExternal,")
	assert.Contains(t, src, `Tag: "Quit",`)
	assert.Contains(t, src, `Tag: "Move",`)
	assert.Contains(t, src, "codec.DecodeEnum(d, spec)")

	// Unrecognized dynamic types are reported, not silently dropped.
	assert.Contains(t, src, `"github.com/cockroachdb/errors"`)
	assert.Contains(t, src, "unrecognized Message variant %T")
}

func TestGenerate_EnumInternal(t *testing.T) {
	src := generate(t, messageDef(shape.Annotation{Name: attr.AnnTag, Args: []string{"type"}}))

	assert.Contains(t, src, "Repr:     codec.ReprInternal,")
	assert.Contains(t, src, `TagField: "type",`)
	// The tag is injected ahead of the variant's own fields.
	assert.Contains(t, src, `e.EncodeEntry("type", "Move")`)
	assert.Contains(t, src, `e.EncodeEntry("X", val.X)`)
}

func TestGenerate_EnumAdjacent(t *testing.T) {
	src := generate(t, messageDef(
		shape.Annotation{Name: attr.AnnTag, Args: []string{"t"}},
		shape.Annotation{Name: attr.AnnContent, Args: []string{"c"}},
	))

	assert.Contains(t, src, "Repr:         codec.ReprAdjacent,")
	assert.Contains(t, src, `TagField:     "t",`)
	assert.Contains(t, src, `ContentField: "c",`)
	assert.Contains(t, src, `e.EncodeEntry("t", "Move")`)
	assert.Contains(t, src, `e.EncodeEntry("c", content)`)

	// A unit variant writes the tag only.
	assert.Contains(t, src, `e.EncodeEntry("t", "Quit")`)
}

func TestGenerate_EnumUntagged(t *testing.T) {
	src := generate(t, messageDef(shape.Annotation{Name: attr.AnnUntagged}))

	assert.Contains(t, src, "Repr: codec.ReprUntagged,")
	assert.Contains(t, src, "return EncodeMove(e, val)")
	assert.Contains(t, src, "return EncodeQuit(e, val)")
}

func TestGenerate_VariantRename(t *testing.T) {
	def := &shape.TypeDefinition{
		Name: "Event",
		Shape: shape.Enum(
			shape.VariantSpec{Name: "Created", Shape: shape.Unit(), Annotations: []shape.Annotation{
				{Name: attr.AnnRename, Args: []string{"created"}},
			}},
		),
	}

	src := generate(t, def)

	assert.Contains(t, src, `e.EncodeEntry("created", nil)`)
	assert.Contains(t, src, `Tag: "created",`)
}

func TestGenerate_GenericStruct(t *testing.T) {
	def := &shape.TypeDefinition{
		Name:       "Box",
		TypeParams: []shape.TypeParam{{Name: "T", Declared: "any"}},
		Shape:      shape.Struct(shape.FieldSpec{Name: "Inner", TypeExpr: "T"}),
	}

	src := generate(t, def)

	assert.Contains(t, src, "func EncodeBox[T codec.Encodable](e codec.Encoder, v Box[T]) error {")
	// gofmt expands the two-member constraint interface across lines.
	assert.Contains(t, src,
		"func DecodeBox[T any, PT interface {\n\t*T\n\tcodec.Decodable\n}](d codec.Decoder) (Box[T], error) {")
	assert.Contains(t, src, "codec.Assign(fd, PT(&v.Inner))")

	// No shims: a method cannot strengthen the declared bounds.
	assert.NotContains(t, src, "EncodeSerde")
	assert.NotContains(t, src, "DecodeSerde")
}

func TestGenerate_OutputIsFormatted(t *testing.T) {
	for _, def := range []*shape.TypeDefinition{
		userDef(),
		messageDef(),
		{Name: "Ping", Shape: shape.Unit()},
	} {
		src := generate(t, def)

		formatted, err := format.Source([]byte(src))
		require.NoError(t, err, "output of %s must parse", def.Name)
		assert.Equal(t, string(formatted), src, "output of %s must be gofmt-clean", def.Name)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	first := generate(t, userDef())

	for i := 0; i < 5; i++ {
		assert.Equal(t, first, generate(t, userDef()))
	}
}

func TestGenerate_Filename(t *testing.T) {
	ann, err := attr.Resolve(&shape.TypeDefinition{
		Name:  "UserProfile",
		Shape: shape.Struct(shape.FieldSpec{Name: "ID", TypeExpr: "int"}),
	})
	require.NoError(t, err)

	cfg := DefaultGeneratorConfig()
	cfg.OutputDir = ""

	file, err := NewGenerator(cfg).Generate(ann)
	require.NoError(t, err)
	assert.Equal(t, "user_profile_serde.go", file.Filename)
}
