package gen

import (
	"fmt"
	"strconv"

	"github.com/vityafx/serde/codec"
	"github.com/vityafx/serde/internal/attr"
	"github.com/vityafx/serde/internal/bound"
	"github.com/vityafx/serde/internal/diagnostic"
	"github.com/vityafx/serde/internal/shape"
)

// buildSerializer renders the encode artifact for a resolved shape, plus
// per-variant content encoders for enums.
func (g *Generator) buildSerializer(ann *attr.AnnotatedShape, params []bound.Param) ([]funcData, error) {
	def := ann.Def
	recv := "v " + def.Instantiated()
	sig := fmt.Sprintf("func %s%s(e codec.Encoder, %s) error",
		encodeFuncName(def), typeParamList(params), recv)

	b := newBody("err")

	switch ann.Shape.Kind {
	case shape.KindUnit:
		b.line("return e.EncodePrimitive(nil)")
	case shape.KindNewType:
		b.line("return codec.Encode(e, v.%s)", ann.Shape.Fields[0].Name)
	case shape.KindTuple:
		encodeTupleBody(b, "v", ann.Shape.Fields, ann.Fields)
		b.line("return e.EndSequence()")
	case shape.KindStruct:
		encodeStructBody(b, "v", ann.Shape.Named, ann.Fields, nil)
		b.line("return e.EndMap()")
	case shape.KindEnum:
		return g.buildEnumSerializer(ann, params, sig)
	default:
		return nil, diagnostic.New(diagnostic.CodeInternal, def.Name, "",
			"cannot serialize shape kind %s", ann.Shape.Kind)
	}

	fns := []funcData{{
		Comment:   fmt.Sprintf("// %s encodes v through the visitor protocol.", encodeFuncName(def)),
		Signature: sig,
		Body:      b.String(),
	}}

	return append(fns, encodeShim(def, params)), nil
}

// encodeShim emits the EncodeSerde method delegating to the artifact, so
// values of the type satisfy codec.Encodable. Generic types get no shim:
// a method cannot strengthen the receiver's declared bounds.
func encodeShim(def *shape.TypeDefinition, params []bound.Param) funcData {
	if len(params) > 0 {
		return funcData{}
	}

	b := newBody("err")
	b.line("return %s(e, v)", encodeFuncName(def))

	return funcData{
		Comment:   "// EncodeSerde implements codec.Encodable.",
		Signature: fmt.Sprintf("func (v %s) EncodeSerde(e codec.Encoder) error", def.Name),
		Body:      b.String(),
	}
}

// encodeTupleBody writes BeginSequence and the per-position elements.
// The caller closes the sequence.
func encodeTupleBody(b *body, recv string, fields []shape.FieldSpec, cfgs []attr.FieldConfig) {
	b.checked(fmt.Sprintf("e.BeginSequence(%d)", len(fields)))

	for i, f := range fields {
		expr := recv + "." + f.Name
		if i < len(cfgs) && cfgs[i].SerializeWith != "" {
			hookVar := fmt.Sprintf("h%d", i)
			b.line("%s, err := %s(%s)", hookVar, cfgs[i].SerializeWith, expr)
			b.line("if err != nil {")
			b.in()
			b.line("return %s", b.errRet)
			b.out()
			b.line("}")
			expr = hookVar
		}

		b.checked("e.EncodeElement(" + expr + ")")
	}
}

// encodeStructBody writes BeginMap and the entries of a named-field shape
// in declaration order. leading entries, when non-nil, are emitted before
// the fields and count toward the length hint (internal enum tagging uses
// this for the tag entry). The caller closes the map.
func encodeStructBody(b *body, recv string, fields []shape.FieldSpec, cfgs []attr.FieldConfig, leading []entryData) {
	static := len(leading)

	var conditional []int

	for i := range fields {
		if i < len(cfgs) && cfgs[i].SkipSer {
			continue
		}

		if i < len(cfgs) && cfgs[i].SkipSerIf != "" {
			conditional = append(conditional, i)
			continue
		}

		static++
	}

	if len(conditional) == 0 {
		b.checked(fmt.Sprintf("e.BeginMap(%d)", static))
	} else {
		b.line("entries := %d", static+len(conditional))

		for _, i := range conditional {
			b.line("if %s(%s.%s) {", cfgs[i].SkipSerIf, recv, fields[i].Name)
			b.in()
			b.line("entries--")
			b.out()
			b.line("}")
		}

		b.checked("e.BeginMap(entries)")
	}

	for _, ent := range leading {
		b.checked(fmt.Sprintf("e.EncodeEntry(%s, %s)", strconv.Quote(ent.Key), ent.Expr))
	}

	for i, f := range fields {
		var cfg attr.FieldConfig
		if i < len(cfgs) {
			cfg = cfgs[i]
		}

		if cfg.SkipSer {
			continue
		}

		name := cfg.SerializedName
		if name == "" {
			name = f.Name
		}

		expr := recv + "." + f.Name

		if cfg.SkipSerIf != "" {
			b.line("if !%s(%s) {", cfg.SkipSerIf, expr)
			b.in()
		}

		if cfg.SerializeWith != "" {
			hookVar := fmt.Sprintf("h%d", i)
			b.line("%s, err := %s(%s)", hookVar, cfg.SerializeWith, expr)
			b.line("if err != nil {")
			b.in()
			b.line("return %s", b.errRet)
			b.out()
			b.line("}")
			expr = hookVar
		}

		b.checked(fmt.Sprintf("e.EncodeEntry(%s, %s)", strconv.Quote(name), expr))

		if cfg.SkipSerIf != "" {
			b.out()
			b.line("}")
		}
	}
}

// entryData is one literal map entry emitted ahead of a shape's fields.
type entryData struct {
	Key  string
	Expr string
}

// buildEnumSerializer renders the variant dispatch plus one content
// encoder per variant. Variant content is buffered through a ValueEncoder
// when it has to appear as a map entry; that keeps the dispatch uniform
// across representations and generic enums.
func (g *Generator) buildEnumSerializer(ann *attr.AnnotatedShape, params []bound.Param, sig string) ([]funcData, error) {
	def := ann.Def

	b := newBody("err")

	// Arms of unit variants never touch the switch variable; binding it
	// for a unit-only enum would not compile.
	if enumUsesSwitchVar(ann) {
		b.line("switch val := v.(type) {")
	} else {
		b.line("switch v.(type) {")
	}

	for i, v := range ann.Shape.Variants {
		cfg := ann.Variants[i]
		if cfg.Skip {
			continue
		}

		b.line("case %s:", variantType(v, params))
		b.in()
		encodeVariantArm(b, ann, v, cfg, params)
		b.out()
	}

	b.line("case nil:")
	b.in()
	b.line("return errors.Newf(\"cannot encode nil %s\")", def.Name)
	b.out()
	b.line("default:")
	b.in()
	b.line("return errors.Newf(\"unrecognized %s variant %%T\", v)", def.Name)
	b.out()
	b.line("}")

	fns := []funcData{{
		Comment:   fmt.Sprintf("// %s encodes the active variant of v.", encodeFuncName(def)),
		Signature: sig,
		Body:      b.String(),
	}}

	for i, v := range ann.Shape.Variants {
		cfg := ann.Variants[i]
		if cfg.Skip {
			continue
		}

		fns = append(fns, g.buildVariantEncoder(ann, v, cfg, params)...)
	}

	return fns, nil
}

func enumUsesSwitchVar(ann *attr.AnnotatedShape) bool {
	for i, v := range ann.Shape.Variants {
		if ann.Variants[i].Skip {
			continue
		}

		if ann.Type.Repr == codec.ReprUntagged || v.Shape.Kind != shape.KindUnit {
			return true
		}
	}

	return false
}

// encodeVariantArm writes one case of the dispatch switch.
func encodeVariantArm(b *body, ann *attr.AnnotatedShape, v shape.VariantSpec, cfg attr.VariantConfig, params []bound.Param) {
	tag := strconv.Quote(cfg.Tag)
	t := ann.Type

	switch t.Repr {
	case codec.ReprExternal:
		if v.Shape.Kind == shape.KindUnit {
			b.checked("e.BeginMap(1)")
			b.checked(fmt.Sprintf("e.EncodeEntry(%s, nil)", tag))
			b.line("return e.EndMap()")
			return
		}

		bufferVariantContent(b, v, params)
		b.checked("e.BeginMap(1)")
		b.checked(fmt.Sprintf("e.EncodeEntry(%s, content)", tag))
		b.line("return e.EndMap()")
	case codec.ReprInternal:
		// Classification guarantees struct or unit variants here.
		leading := []entryData{{Key: t.TagField, Expr: tag}}
		encodeStructBody(b, "val", v.Shape.Named, cfg.Fields, leading)
		b.line("return e.EndMap()")
	case codec.ReprAdjacent:
		if v.Shape.Kind == shape.KindUnit {
			b.checked("e.BeginMap(1)")
			b.checked(fmt.Sprintf("e.EncodeEntry(%s, %s)", strconv.Quote(t.TagField), tag))
			b.line("return e.EndMap()")
			return
		}

		bufferVariantContent(b, v, params)
		b.checked("e.BeginMap(2)")
		b.checked(fmt.Sprintf("e.EncodeEntry(%s, %s)", strconv.Quote(t.TagField), tag))
		b.checked(fmt.Sprintf("e.EncodeEntry(%s, content)", strconv.Quote(t.ContentField)))
		b.line("return e.EndMap()")
	case codec.ReprUntagged:
		b.line("return %s(e, val)", variantEncodeName(v, params))
	}
}

// bufferVariantContent encodes the variant into a Value named "content".
func bufferVariantContent(b *body, v shape.VariantSpec, params []bound.Param) {
	b.line("ve := codec.NewValueEncoder()")
	b.checked(fmt.Sprintf("%s(ve, val)", variantEncodeName(v, params)))
	b.line("content, err := ve.Value()")
	b.line("if err != nil {")
	b.in()
	b.line("return %s", b.errRet)
	b.out()
	b.line("}")
}

// buildVariantEncoder emits the standalone content encoder for a variant.
func (g *Generator) buildVariantEncoder(ann *attr.AnnotatedShape, v shape.VariantSpec, cfg attr.VariantConfig, params []bound.Param) []funcData {
	b := newBody("err")

	switch v.Shape.Kind {
	case shape.KindUnit:
		b.line("return e.EncodePrimitive(nil)")
	case shape.KindNewType:
		b.line("return codec.Encode(e, v.%s)", v.Shape.Fields[0].Name)
	case shape.KindTuple:
		encodeTupleBody(b, "v", v.Shape.Fields, cfg.Fields)
		b.line("return e.EndSequence()")
	case shape.KindStruct:
		encodeStructBody(b, "v", v.Shape.Named, cfg.Fields, nil)
		b.line("return e.EndMap()")
	}

	fn := funcData{
		Comment: fmt.Sprintf("// %s encodes the content of the %s variant.",
			variantEncodeName(v, params), v.Name),
		Signature: fmt.Sprintf("func %s%s(e codec.Encoder, v %s) error",
			variantEncodeName(v, params), typeParamList(params), variantType(v, params)),
		Body: b.String(),
	}

	fns := []funcData{fn}

	if len(params) == 0 {
		// The shim writes the full tagged form, so a variant value nested
		// in some other type serializes the same way the enum does.
		sb := newBody("err")
		sb.line("return %s(e, v)", encodeFuncName(ann.Def))

		fns = append(fns, funcData{
			Comment:   "// EncodeSerde implements codec.Encodable.",
			Signature: fmt.Sprintf("func (v %s) EncodeSerde(e codec.Encoder) error", v.Name),
			Body:      sb.String(),
		})
	}

	return fns
}

func variantEncodeName(v shape.VariantSpec, _ []bound.Param) string {
	return "Encode" + v.Name
}

func variantDecodeName(v shape.VariantSpec) string {
	return "Decode" + v.Name
}

// variantType renders the variant's concrete type, instantiated with the
// enum's type parameters.
func variantType(v shape.VariantSpec, params []bound.Param) string {
	if len(params) == 0 {
		return v.Name
	}

	name := v.Name + "["
	for i, p := range params {
		if i > 0 {
			name += ", "
		}

		name += p.Name
	}

	return name + "]"
}
