package frontend

import (
	"strings"

	"github.com/vityafx/serde/internal/shape"
)

// skipMarker in the name position of a serde tag skips the field both
// ways, like `serde:"-"`.
const skipMarker = "-"

// parseFieldTag converts one serde struct tag value into raw annotations.
// The first comma-separated element is the wire name; the rest are flags
// or key=value options mapped one-to-one onto annotations.
func parseFieldTag(tag string) []shape.Annotation {
	if tag == "" {
		return nil
	}

	parts := strings.Split(tag, ",")

	var anns []shape.Annotation

	switch name := strings.TrimSpace(parts[0]); name {
	case "":
	case skipMarker:
		anns = append(anns, shape.Annotation{Name: "skip"})
	default:
		anns = append(anns, shape.Annotation{Name: "rename", Args: []string{name}})
	}

	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, val, hasVal := strings.Cut(part, "=")

		ann := shape.Annotation{Name: strings.TrimSpace(key)}
		if hasVal {
			ann.Args = []string{strings.TrimSpace(val)}
		}

		anns = append(anns, ann)
	}

	return anns
}

// parseDirective parses one //serde: comment line into an annotation.
// Returns false for ordinary comments.
func parseDirective(comment string) (shape.Annotation, bool) {
	text, ok := strings.CutPrefix(strings.TrimSpace(comment), "//serde:")
	if !ok {
		return shape.Annotation{}, false
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return shape.Annotation{}, false
	}

	name, arg, hasArg := strings.Cut(fields[0], "=")

	ann := shape.Annotation{Name: name}
	if hasArg {
		ann.Args = []string{arg}
	}

	// Trailing key=value words become extra options of the directive,
	// e.g. `//serde:variant of=Message rename=move`.
	for _, extra := range fields[1:] {
		ann.Args = append(ann.Args, extra)
	}

	return ann, true
}
