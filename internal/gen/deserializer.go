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

// buildDeserializer renders the decode artifact for a resolved shape, plus
// per-variant content decoders for enums.
func (g *Generator) buildDeserializer(ann *attr.AnnotatedShape, params []bound.Param) ([]funcData, error) {
	def := ann.Def
	typ := def.Instantiated()
	name := decodeFuncName(def)

	sig := fmt.Sprintf("func %s%s(d codec.Decoder) (%s, error)",
		name, typeParamList(params), typ)

	zero := typ + "{}"
	if ann.Shape.Kind == shape.KindEnum {
		zero = "nil"
	}

	b := newBody(zero + ", err")

	switch ann.Shape.Kind {
	case shape.KindUnit:
		b.line("if err := codec.DecodeUnit(d, %s); err != nil {", strconv.Quote(def.Name))
		b.in()
		b.line("return %s, err", zero)
		b.out()
		b.line("}")
		b.line("return %s{}, nil", typ)
	case shape.KindNewType:
		b.line("var v %s", typ)
		b.line("if err := codec.Assign(d, %s); err != nil {", fieldPtr(ann, params, ann.Shape.Fields[0], "v"))
		b.in()
		b.line("return %s, err", zero)
		b.out()
		b.line("}")
		b.line("return v, nil")
	case shape.KindTuple:
		b.line("var v %s", typ)
		decodeTupleBody(b, ann, params, def.Name, ann.Shape.Fields, ann.Fields, "v", zero)
		b.line("return v, nil")
	case shape.KindStruct:
		b.line("var v %s", typ)
		decodeStructBody(b, ann, params, structTableConfig{
			specName:    displayName(ann),
			denyUnknown: ann.Type.DenyUnknown,
		}, ann.Shape.Named, ann.Fields, "v", zero)
		b.line("return v, nil")
	case shape.KindEnum:
		return g.buildEnumDeserializer(ann, params, sig, zero)
	default:
		return nil, diagnostic.New(diagnostic.CodeInternal, def.Name, "",
			"cannot deserialize shape kind %s", ann.Shape.Kind)
	}

	fns := []funcData{{
		Comment:   fmt.Sprintf("// %s decodes one value through the visitor protocol.", name),
		Signature: sig,
		Body:      b.String(),
	}}

	return append(fns, decodeShim(def, params)), nil
}

// decodeShim emits the pointer-receiver DecodeSerde method so the type
// satisfies codec.Decodable. Generic types get no shim.
func decodeShim(def *shape.TypeDefinition, params []bound.Param) funcData {
	if len(params) > 0 {
		return funcData{}
	}

	b := newBody("err")
	b.line("dv, err := %s(d)", decodeFuncName(def))
	b.line("if err != nil {")
	b.in()
	b.line("return err")
	b.out()
	b.line("}")
	b.line("*v = dv")
	b.line("return nil")

	return funcData{
		Comment:   "// DecodeSerde implements codec.Decodable.",
		Signature: fmt.Sprintf("func (v *%s) DecodeSerde(d codec.Decoder) error", def.Name),
		Body:      b.String(),
	}
}

// displayName is the name used in decode error context, honoring a
// type-level rename.
func displayName(ann *attr.AnnotatedShape) string {
	if ann.Type.Rename != "" {
		return ann.Type.Rename
	}

	return ann.Def.Name
}

// fieldPtr renders the destination for Assign. A field whose type is
// exactly a decode-constrained parameter goes through its companion
// pointer type, which is what carries the Decodable bound.
func fieldPtr(ann *attr.AnnotatedShape, params []bound.Param, f shape.FieldSpec, recv string) string {
	ptr := "&" + recv + "." + f.Name

	if companion := companionFor(params, f.TypeExpr); companion != "" {
		return companion + "(" + ptr + ")"
	}

	return ptr
}

// structTableConfig parameterizes decodeStructBody so plain structs and
// struct variants share the rendering.
type structTableConfig struct {
	specName    string
	denyUnknown bool
}

// decodeStructBody emits the codec.StructSpec table and the DecodeStruct
// call. Skip-deserializing fields get their default assigned up front and
// never enter the table.
func decodeStructBody(b *body, ann *attr.AnnotatedShape, params []bound.Param, tc structTableConfig, fields []shape.FieldSpec, cfgs []attr.FieldConfig, recv, zero string) {
	for i, f := range fields {
		if i < len(cfgs) && cfgs[i].SkipDe && cfgs[i].DefaultExpr != "" {
			b.line("%s.%s = %s", recv, f.Name, cfgs[i].DefaultExpr)
		}
	}

	b.line("spec := codec.StructSpec{")
	b.in()
	b.line("Name: %s,", strconv.Quote(tc.specName))

	if tc.denyUnknown {
		b.line("DenyUnknown: true,")
	}

	b.line("Fields: []codec.Field{")
	b.in()

	for i, f := range fields {
		var cfg attr.FieldConfig
		if i < len(cfgs) {
			cfg = cfgs[i]
		}

		if cfg.SkipDe {
			continue
		}

		name := cfg.SerializedName
		if name == "" {
			name = f.Name
		}

		b.line("{")
		b.in()
		b.line("Name: %s,", strconv.Quote(name))

		switch {
		case cfg.HasDefault && cfg.DefaultExpr != "":
			b.line("Default: func() { %s.%s = %s },", recv, f.Name, cfg.DefaultExpr)
		case cfg.HasDefault:
			// Zero-value default: the destination already holds it.
		default:
			b.line("Required: true,")
		}

		if cfg.DeserializeWith != "" {
			b.line("Decode: func(fd codec.Decoder) error {")
			b.in()
			b.line("fv, err := %s(fd)", cfg.DeserializeWith)
			b.line("if err != nil {")
			b.in()
			b.line("return err")
			b.out()
			b.line("}")
			b.line("%s.%s = fv", recv, f.Name)
			b.line("return nil")
			b.out()
			b.line("},")
		} else {
			b.line("Decode: func(fd codec.Decoder) error { return codec.Assign(fd, %s) },",
				fieldPtr(ann, params, f, recv))
		}

		b.out()
		b.line("},")
	}

	b.out()
	b.line("},")
	b.out()
	b.line("}")

	b.line("if err := codec.DecodeStruct(d, spec); err != nil {")
	b.in()
	b.line("return %s, err", zero)
	b.out()
	b.line("}")
}

// decodeTupleBody emits the positional decode table and DecodeTuple call.
func decodeTupleBody(b *body, ann *attr.AnnotatedShape, params []bound.Param, name string, fields []shape.FieldSpec, cfgs []attr.FieldConfig, recv, zero string) {
	b.line("elems := []func(codec.Decoder) error{")
	b.in()

	for i, f := range fields {
		if i < len(cfgs) && cfgs[i].DeserializeWith != "" {
			b.line("func(ed codec.Decoder) error {")
			b.in()
			b.line("fv, err := %s(ed)", cfgs[i].DeserializeWith)
			b.line("if err != nil {")
			b.in()
			b.line("return err")
			b.out()
			b.line("}")
			b.line("%s.%s = fv", recv, f.Name)
			b.line("return nil")
			b.out()
			b.line("},")
			continue
		}

		b.line("func(ed codec.Decoder) error { return codec.Assign(ed, %s) },",
			fieldPtr(ann, params, f, recv))
	}

	b.out()
	b.line("}")

	b.line("if err := codec.DecodeTuple(d, %s, elems); err != nil {", strconv.Quote(name))
	b.in()
	b.line("return %s, err", zero)
	b.out()
	b.line("}")
}

// buildEnumDeserializer renders the enum dispatch table plus one content
// decoder per variant.
func (g *Generator) buildEnumDeserializer(ann *attr.AnnotatedShape, params []bound.Param, sig, zero string) ([]funcData, error) {
	def := ann.Def

	b := newBody(zero + ", err")
	b.line("var out %s", def.Instantiated())
	b.line("spec := codec.EnumSpec{")
	b.in()
	b.line("Name: %s,", strconv.Quote(displayName(ann)))
	b.line("Repr: codec.%s,", reprConst(ann.Type.Repr))

	if ann.Type.TagField != "" {
		b.line("TagField: %s,", strconv.Quote(ann.Type.TagField))
	}

	if ann.Type.ContentField != "" {
		b.line("ContentField: %s,", strconv.Quote(ann.Type.ContentField))
	}

	b.line("Variants: []codec.Variant{")
	b.in()

	for i, v := range ann.Shape.Variants {
		cfg := ann.Variants[i]
		if cfg.Skip {
			continue
		}

		b.line("{")
		b.in()
		b.line("Tag: %s,", strconv.Quote(cfg.Tag))
		b.line("Decode: func(cd codec.Decoder) error {")
		b.in()
		b.line("dv, err := %s%s(cd)", variantDecodeName(v), typeArgList(params))
		b.line("if err != nil {")
		b.in()
		b.line("return err")
		b.out()
		b.line("}")
		b.line("out = dv")
		b.line("return nil")
		b.out()
		b.line("},")
		b.out()
		b.line("},")
	}

	b.out()
	b.line("},")
	b.out()
	b.line("}")
	b.line("if err := codec.DecodeEnum(d, spec); err != nil {")
	b.in()
	b.line("return nil, err")
	b.out()
	b.line("}")
	b.line("return out, nil")

	fns := []funcData{{
		Comment:   fmt.Sprintf("// %s decodes one variant of %s.", decodeFuncName(def), def.Name),
		Signature: sig,
		Body:      b.String(),
	}}

	for i, v := range ann.Shape.Variants {
		cfg := ann.Variants[i]
		if cfg.Skip {
			continue
		}

		fns = append(fns, g.buildVariantDecoder(ann, v, cfg, params)...)
	}

	return fns, nil
}

// buildVariantDecoder emits the standalone content decoder for a variant.
func (g *Generator) buildVariantDecoder(ann *attr.AnnotatedShape, v shape.VariantSpec, cfg attr.VariantConfig, params []bound.Param) []funcData {
	typ := variantType(v, params)
	zero := typ + "{}"

	b := newBody(zero + ", err")

	switch v.Shape.Kind {
	case shape.KindUnit:
		b.line("if err := codec.DecodeUnit(d, %s); err != nil {", strconv.Quote(cfg.Tag))
		b.in()
		b.line("return %s, err", zero)
		b.out()
		b.line("}")
		b.line("return %s{}, nil", typ)
	case shape.KindNewType:
		b.line("var v %s", typ)
		b.line("if err := codec.Assign(d, %s); err != nil {", fieldPtr(ann, params, v.Shape.Fields[0], "v"))
		b.in()
		b.line("return %s, err", zero)
		b.out()
		b.line("}")
		b.line("return v, nil")
	case shape.KindTuple:
		b.line("var v %s", typ)
		decodeTupleBody(b, ann, params, cfg.Tag, v.Shape.Fields, cfg.Fields, "v", zero)
		b.line("return v, nil")
	case shape.KindStruct:
		deny := ann.Type.DenyUnknown
		if cfg.DenyUnknown != nil {
			deny = *cfg.DenyUnknown
		}

		b.line("var v %s", typ)
		decodeStructBody(b, ann, params, structTableConfig{
			specName:    cfg.Tag,
			denyUnknown: deny,
		}, v.Shape.Named, cfg.Fields, "v", zero)
		b.line("return v, nil")
	}

	fn := funcData{
		Comment: fmt.Sprintf("// %s decodes the content of the %s variant.",
			variantDecodeName(v), v.Name),
		Signature: fmt.Sprintf("func %s%s(d codec.Decoder) (%s, error)",
			variantDecodeName(v), typeParamList(params), typ),
		Body: b.String(),
	}

	fns := []funcData{fn}

	if len(params) == 0 {
		// Mirror of the encode shim: a nested variant value carries the
		// full tagged form, so decode through the enum and assert the arm.
		sb := newBody("err")
		sb.line("dv, err := %s(d)", decodeFuncName(ann.Def))
		sb.line("if err != nil {")
		sb.in()
		sb.line("return err")
		sb.out()
		sb.line("}")
		sb.line("mv, ok := dv.(%s)", v.Name)
		sb.line("if !ok {")
		sb.in()
		sb.line("return errors.Newf(\"decoded %s variant %%T, want %s\", dv)", ann.Def.Name, v.Name)
		sb.out()
		sb.line("}")
		sb.line("*v = mv")
		sb.line("return nil")

		fns = append(fns, funcData{
			Comment:   "// DecodeSerde implements codec.Decodable.",
			Signature: fmt.Sprintf("func (v *%s) DecodeSerde(d codec.Decoder) error", v.Name),
			Body:      sb.String(),
		})
	}

	return fns
}

func reprConst(r codec.Repr) string {
	switch r {
	case codec.ReprInternal:
		return "ReprInternal"
	case codec.ReprAdjacent:
		return "ReprAdjacent"
	case codec.ReprUntagged:
		return "ReprUntagged"
	default:
		return "ReprExternal"
	}
}

// typeArgList renders the explicit instantiation of a generic helper call,
// including companion pointer arguments.
func typeArgList(params []bound.Param) string {
	if len(params) == 0 {
		return ""
	}

	args := "["
	for i, p := range params {
		if i > 0 {
			args += ", "
		}

		args += p.Name

		if p.Companion != "" {
			args += ", " + p.Companion
		}
	}

	return args + "]"
}
