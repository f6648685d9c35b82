package notation

import (
	"fmt"
	"strings"
	"unicode"
)

// String returns the canonical textual form of the value.
// Parsing the result yields an equal value.
func (v *Value) String() string {
	var b strings.Builder
	v.format(&b)
	return b.String()
}

func (v *Value) format(b *strings.Builder) {
	switch v.Kind {
	case KindString:
		b.WriteString(Quote(v.Text))
	case KindNumber:
		b.WriteString(v.Text)
	case KindBool:
		if v.Bool {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindUnit:
		b.WriteString("()")
	case KindIdent:
		b.WriteString(v.Name)
	case KindOption:
		if v.IsNone() {
			b.WriteString("None")
			return
		}
		b.WriteString("Some(")
		v.Elems[0].format(b)
		b.WriteString(")")
	case KindSeq:
		b.WriteString("[")
		formatList(b, v.Elems)
		b.WriteString("]")
	case KindTuple:
		b.WriteString(v.Name)
		b.WriteString("(")
		formatList(b, v.Elems)
		b.WriteString(")")
	case KindStruct:
		b.WriteString(v.Name)
		b.WriteString("(")
		for i, f := range v.Fields {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(f.Name)
			b.WriteString(":")
			f.Value.format(b)
		}
		b.WriteString(")")
	case KindMap:
		b.WriteString("{")
		for i, e := range v.Entries {
			if i > 0 {
				b.WriteString(",")
			}
			e.Key.format(b)
			b.WriteString(":")
			e.Value.format(b)
		}
		b.WriteString("}")
	default:
		panic(fmt.Sprintf("unknown notation kind %d", v.Kind))
	}
}

func formatList(b *strings.Builder, elems []*Value) {
	for i, e := range elems {
		if i > 0 {
			b.WriteString(",")
		}
		e.format(b)
	}
}

// Quote returns the quoted string literal for s.
func Quote(s string) string {
	var b strings.Builder

	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if unicode.IsControl(r) {
				fmt.Fprintf(&b, `\u{%x}`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
