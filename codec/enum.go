package codec

import (
	"github.com/cockroachdb/errors"
)

// Repr selects how an enum's active-variant discriminant is encoded
// relative to the variant's own content.
type Repr int

const (
	// ReprExternal wraps the content in a single-entry map keyed by the tag.
	ReprExternal Repr = iota
	// ReprInternal injects the tag as an extra field inside the content map.
	ReprInternal
	// ReprAdjacent places tag and content under two sibling keys.
	ReprAdjacent
	// ReprUntagged writes the content bare; decoding disambiguates
	// structurally, trying variants in declaration order.
	ReprUntagged
)

// String returns the annotation-level name of the representation.
func (r Repr) String() string {
	switch r {
	case ReprExternal:
		return "external"
	case ReprInternal:
		return "internal"
	case ReprAdjacent:
		return "adjacent"
	case ReprUntagged:
		return "untagged"
	default:
		return "unknown"
	}
}

// Variant is one arm of an enum decode table.
type Variant struct {
	// Tag is the resolved serialized tag.
	Tag string

	// Decode consumes the variant's content. For unit variants the decoder
	// holds the unit marker.
	Decode func(d Decoder) error
}

// EnumSpec drives enum deserialization: resolve the tag per the
// representation style, then dispatch to the matching variant.
type EnumSpec struct {
	// Name of the enum type, used for error context.
	Name string

	Repr Repr

	// TagField and ContentField configure internal and adjacent tagging.
	TagField     string
	ContentField string

	// Variants in declaration order.
	Variants []Variant
}

func (s *EnumSpec) tags() []string {
	tags := make([]string, len(s.Variants))
	for i, v := range s.Variants {
		tags[i] = v.Tag
	}

	return tags
}

func (s *EnumSpec) variant(tag string) (*Variant, bool) {
	for i := range s.Variants {
		if s.Variants[i].Tag == tag {
			return &s.Variants[i], true
		}
	}

	return nil, false
}

// DecodeEnum decodes one enum value according to the spec's representation
// style. An unrecognized tag fails with UnknownVariantError listing the
// valid tags.
func DecodeEnum(d Decoder, spec EnumSpec) error {
	switch spec.Repr {
	case ReprExternal:
		return decodeExternal(d, spec)
	case ReprInternal:
		return decodeInternal(d, spec)
	case ReprAdjacent:
		return decodeAdjacent(d, spec)
	case ReprUntagged:
		return decodeUntagged(d, spec)
	default:
		return errors.Newf("unknown enum representation %d", spec.Repr)
	}
}

// decodeExternal expects {tag: content}, a single-entry map.
func decodeExternal(d Decoder, spec EnumSpec) error {
	it, err := d.VisitMap()
	if err != nil {
		return errors.Wrapf(err, "decoding %s", spec.Name)
	}

	tag, cd, ok := it.Next()
	if !ok {
		return newTypeMismatch("externally tagged variant map", "empty map", spec.Name)
	}

	v, found := spec.variant(tag)
	if !found {
		return newUnknownVariant(tag, spec.tags(), spec.Name)
	}

	if err := v.Decode(cd); err != nil {
		return errors.Wrapf(err, "variant `%s` of %s", tag, spec.Name)
	}

	// A well-formed externally tagged value has exactly one entry.
	if extra, _, more := it.Next(); more {
		return newUnknownField(extra, spec.Name)
	}

	return nil
}

// decodeInternal buffers the map, extracts the tag field, and hands the
// remaining entries to the variant as its own content map.
func decodeInternal(d Decoder, spec EnumSpec) error {
	whole, err := ReadValue(d)
	if err != nil {
		return errors.Wrapf(err, "decoding %s", spec.Name)
	}

	entries, err := whole.Entries()
	if err != nil {
		return errors.Wrapf(err, "decoding %s", spec.Name)
	}

	tagVal, found := whole.Lookup(spec.TagField)
	if !found {
		return newMissingField(spec.TagField, spec.Name)
	}

	tag, err := tagString(tagVal, spec)
	if err != nil {
		return err
	}

	v, ok := spec.variant(tag)
	if !ok {
		return newUnknownVariant(tag, spec.tags(), spec.Name)
	}

	content := make([]Entry, 0, len(entries))

	for _, ent := range entries {
		if ent.Key == spec.TagField {
			continue
		}

		content = append(content, ent)
	}

	if err := v.Decode(NewValueDecoder(MapOf(content...))); err != nil {
		return errors.Wrapf(err, "variant `%s` of %s", tag, spec.Name)
	}

	return nil
}

// decodeAdjacent expects {tagField: tag, contentField: content}. Content
// arriving before the tag is buffered; that is a cost of the style.
func decodeAdjacent(d Decoder, spec EnumSpec) error {
	whole, err := ReadValue(d)
	if err != nil {
		return errors.Wrapf(err, "decoding %s", spec.Name)
	}

	tagVal, found := whole.Lookup(spec.TagField)
	if !found {
		return newMissingField(spec.TagField, spec.Name)
	}

	tag, err := tagString(tagVal, spec)
	if err != nil {
		return err
	}

	v, ok := spec.variant(tag)
	if !ok {
		return newUnknownVariant(tag, spec.tags(), spec.Name)
	}

	content, found := whole.Lookup(spec.ContentField)
	if !found {
		// Unit variants may omit the content key entirely.
		content = Null()
	}

	if err := v.Decode(NewValueDecoder(content)); err != nil {
		return errors.Wrapf(err, "variant `%s` of %s", tag, spec.Name)
	}

	return nil
}

// decodeUntagged tries each variant against the buffered input in
// declaration order; the first that accepts wins. Ambiguity between
// variants is the enum author's responsibility.
func decodeUntagged(d Decoder, spec EnumSpec) error {
	whole, err := ReadValue(d)
	if err != nil {
		return errors.Wrapf(err, "decoding %s", spec.Name)
	}

	for i := range spec.Variants {
		if spec.Variants[i].Decode(NewValueDecoder(whole)) == nil {
			return nil
		}
	}

	return newUnknownVariant("", spec.tags(), spec.Name)
}

func tagString(v Value, spec EnumSpec) (string, error) {
	prim, err := v.Primitive()
	if err != nil {
		return "", errors.Wrapf(err, "tag field `%s` of %s", spec.TagField, spec.Name)
	}

	s, ok := prim.(string)
	if !ok {
		return "", newTypeMismatch("string tag", primName(prim), fieldPath(spec.Name, spec.TagField))
	}

	return s, nil
}
