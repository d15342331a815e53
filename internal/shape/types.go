package shape

// Kind classifies the structural shape of a type definition.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnit         // empty struct, no data
	KindNewType      // transparent single-field wrapper
	KindTuple        // positional fields
	KindStruct       // named fields
	KindEnum         // tagged union of variants

	// KindTotal is the number of kinds defined.
	KindTotal = int(iota)
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindNewType:
		return "newtype"
	case KindTuple:
		return "tuple"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Annotation is one raw attribute as delivered by the declaration parser:
// a recognized name plus its argument list. Interpretation happens in the
// attribute resolver, not here.
type Annotation struct {
	Name string
	Args []string
}

// TypeParam is one generic parameter with its source-declared bound.
type TypeParam struct {
	Name string
	// Declared is the bound written at the declaration site (e.g. "any",
	// "comparable"). The generated artifacts may strengthen it.
	Declared string
}

// FieldSpec describes one field. Name is the source identifier. For
// positional (tuple, newtype) fields the name still addresses the Go
// field but carries no wire meaning; position does.
type FieldSpec struct {
	Name        string
	TypeExpr    string
	Annotations []Annotation
}

// VariantSpec describes one enum variant: its source name and inner shape,
// which is always one of the four non-enum shapes.
type VariantSpec struct {
	Name        string
	Shape       *Shape
	Annotations []Annotation
}

// Shape is a closed kind-tagged node. Exactly one of the payload slices is
// populated, according to Kind; Classify enforces that.
type Shape struct {
	Kind     Kind
	Fields   []FieldSpec   // newtype (one) and tuple (ordered)
	Named    []FieldSpec   // struct, in declaration order
	Variants []VariantSpec // enum, in declaration order
}

// TypeDefinition is the read-only input to one generation pass.
type TypeDefinition struct {
	Name        string
	TypeParams  []TypeParam
	Shape       *Shape
	Annotations []Annotation
	// Pos is the source location ("file:line") for error reporting.
	Pos string
}

// Instantiated renders the type name with its parameter list applied, e.g.
// "Box[T]" for a one-parameter definition.
func (d *TypeDefinition) Instantiated() string {
	if len(d.TypeParams) == 0 {
		return d.Name
	}

	name := d.Name + "["
	for i, p := range d.TypeParams {
		if i > 0 {
			name += ", "
		}

		name += p.Name
	}

	return name + "]"
}

// Unit returns the shape of an empty struct.
func Unit() *Shape { return &Shape{Kind: KindUnit} }

// NewType returns a transparent wrapper shape around one field.
func NewType(field FieldSpec) *Shape {
	return &Shape{Kind: KindNewType, Fields: []FieldSpec{field}}
}

// Tuple returns a positional shape.
func Tuple(fields ...FieldSpec) *Shape {
	return &Shape{Kind: KindTuple, Fields: fields}
}

// Struct returns a named-field shape.
func Struct(fields ...FieldSpec) *Shape {
	return &Shape{Kind: KindStruct, Named: fields}
}

// Enum returns a tagged-union shape.
func Enum(variants ...VariantSpec) *Shape {
	return &Shape{Kind: KindEnum, Variants: variants}
}
