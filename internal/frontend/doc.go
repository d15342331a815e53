// Package frontend turns annotated Go declarations into type definitions
// the pipeline understands.
//
// Two annotation carriers exist. Struct tags hold per-field options:
//
//	type User struct {
//		ID   int64  `serde:"user_id"`
//		Age  int    `serde:",default=18"`
//		Note string `serde:"-,default"`
//	}
//
// and //serde: comment directives hold type-level options and shape
// overrides:
//
//	//serde:deny_unknown_fields
//	//serde:rename=account
//
// Enums are declared as an interface marked //serde:enum, with each
// variant struct marked //serde:variant of=<EnumName>. Variant order
// follows declaration order within the package.
//
// Extraction is purely syntactic; the loader feeds it from
// golang.org/x/tools/go/packages so the usual package patterns work.
package frontend
