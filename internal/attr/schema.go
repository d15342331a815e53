package attr

import (
	"sync"

	"github.com/vityafx/serde/internal/diagnostic"
	"github.com/vityafx/serde/internal/shape"
)

// Level says where an annotation may appear.
type Level int

const (
	LevelType Level = 1 << iota
	LevelField
	LevelVariant
)

// annSchema describes one recognized annotation.
type annSchema struct {
	levels  Level
	minArgs int
	maxArgs int
}

// Annotation names recognized by the resolver.
const (
	AnnRename            = "rename"
	AnnSkip              = "skip"
	AnnSkipSerializing   = "skip_serializing"
	AnnSkipDeserializing = "skip_deserializing"
	AnnSkipSerializingIf = "skip_serializing_if"
	AnnDefault           = "default"
	AnnSerializeWith     = "serialize_with"
	AnnDeserializeWith   = "deserialize_with"
	AnnDenyUnknownFields = "deny_unknown_fields"
	AnnTag               = "tag"
	AnnContent           = "content"
	AnnUntagged          = "untagged"
	AnnBound             = "bound"
)

// schema returns the recognized-annotation table. It is built once and
// never mutated afterwards; concurrent resolution passes share it safely.
var schema = sync.OnceValue(func() map[string]annSchema {
	return map[string]annSchema{
		AnnRename:            {levels: LevelType | LevelField | LevelVariant, minArgs: 1, maxArgs: 1},
		AnnSkip:              {levels: LevelField | LevelVariant},
		AnnSkipSerializing:   {levels: LevelField | LevelVariant},
		AnnSkipDeserializing: {levels: LevelField | LevelVariant},
		AnnSkipSerializingIf: {levels: LevelField, minArgs: 1, maxArgs: 1},
		AnnDefault:           {levels: LevelField, maxArgs: 1},
		AnnSerializeWith:     {levels: LevelField, minArgs: 1, maxArgs: 1},
		AnnDeserializeWith:   {levels: LevelField, minArgs: 1, maxArgs: 1},
		AnnDenyUnknownFields: {levels: LevelType | LevelVariant},
		AnnTag:               {levels: LevelType, minArgs: 1, maxArgs: 1},
		AnnContent:           {levels: LevelType, minArgs: 1, maxArgs: 1},
		AnnUntagged:          {levels: LevelType},
		AnnBound:             {levels: LevelType, minArgs: 1, maxArgs: 1},
	}
})

func checkAnnotation(typeName, fieldPath string, level Level, a shape.Annotation) error {
	s, ok := schema()[a.Name]
	if !ok {
		return diagnostic.New(diagnostic.CodeUnknownAnnotation, typeName, fieldPath,
			"unrecognized annotation %q", a.Name)
	}

	if s.levels&level == 0 {
		return diagnostic.New(diagnostic.CodeUnknownAnnotation, typeName, fieldPath,
			"annotation %q is not valid at this level", a.Name)
	}

	if len(a.Args) < s.minArgs || len(a.Args) > s.maxArgs {
		return diagnostic.New(diagnostic.CodeUnknownAnnotation, typeName, fieldPath,
			"annotation %q takes between %d and %d arguments, got %d",
			a.Name, s.minArgs, s.maxArgs, len(a.Args))
	}

	return nil
}
