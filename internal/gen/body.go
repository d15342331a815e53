package gen

import (
	"fmt"
	"strings"
)

// body accumulates the statements of one generated function. Formatting
// is left to go/format; the builder only keeps nesting readable in the
// debug sidecar when formatting fails.
type body struct {
	sb    strings.Builder
	depth int
	// errRet is the return statement used on error, without the keyword.
	// Encoders return "err"; decoders return a zero value alongside.
	errRet string
}

func newBody(errRet string) *body {
	return &body{errRet: errRet}
}

func (b *body) line(format string, args ...any) {
	b.sb.WriteString(strings.Repeat("\t", b.depth+1))

	if len(args) == 0 {
		b.sb.WriteString(format)
	} else {
		fmt.Fprintf(&b.sb, format, args...)
	}

	b.sb.WriteByte('\n')
}

func (b *body) in()  { b.depth++ }
func (b *body) out() { b.depth-- }

// checked emits the canonical if-error wrapper around a call expression.
func (b *body) checked(call string) {
	b.line("if err := %s; err != nil {", call)
	b.in()
	b.line("return %s", b.errRet)
	b.out()
	b.line("}")
}

func (b *body) String() string {
	return strings.TrimSuffix(b.sb.String(), "\n")
}
