package notation

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/mandelsoft/scenecomponents/pkg/scanner"
)

type parser struct {
	scanner.Scanner
}

// Parse parses a complete notation text into a single value.
func Parse(in string) (*Value, error) {
	p := &parser{scanner.NewScanner(in)}

	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.Errorf("unexpected character %q after value", string(p.Current()))
	}
	return v, nil
}

func (p *parser) atEnd() bool {
	p.SkipBlanks()
	return p.EOF()
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (p *parser) parseValue() (*Value, error) {
	n := p.SkipBlanks()
	switch {
	case p.EOF():
		return nil, p.Errorf("value expected, but found end of input")
	case n == '"':
		return p.parseString()
	case n == '\'':
		return p.parseChar()
	case n == '[':
		return p.parseSeq()
	case n == '{':
		return p.parseMap()
	case n == '(':
		return p.parseGroup("")
	case unicode.IsDigit(n) || n == '-' || n == '+' || n == '.':
		return p.parseNumber()
	case isIdentStart(n):
		return p.parseIdentValue(p.parseIdent())
	default:
		return nil, p.Errorf("unexpected character %q for value", string(n))
	}
}

func (p *parser) parseIdent() string {
	start := p.Offset()
	for isIdentPart(p.Current()) {
		p.Next()
	}
	return p.Text(start, p.Offset())
}

// parseIdentValue continues a value started by an identifier.
func (p *parser) parseIdentValue(id string) (*Value, error) {
	switch id {
	case "true":
		return NewBool(true), nil
	case "false":
		return NewBool(false), nil
	case "None":
		return NewNone(), nil
	}
	if p.SkipBlanks() != '(' {
		if id == "Some" {
			return nil, p.Errorf("'(' expected after Some")
		}
		return NewIdent(id), nil
	}
	if id == "Some" {
		p.Next()
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		p.SkipBlanks()
		if err := p.ConsumeRune(')'); err != nil {
			return nil, err
		}
		return NewSome(v), nil
	}
	return p.parseGroup(id)
}

// parseGroup parses a parenthesized struct or tuple body.
func (p *parser) parseGroup(name string) (*Value, error) {
	if err := p.ConsumeRune('('); err != nil {
		return nil, err
	}
	if p.SkipBlanks() == ')' {
		p.Next()
		if name == "" {
			return NewUnit(), nil
		}
		return NewTuple(name), nil
	}

	if isIdentStart(p.Current()) {
		id := p.parseIdent()
		if p.SkipBlanks() == ':' {
			return p.parseStructFields(name, id)
		}
		first, err := p.parseIdentValue(id)
		if err != nil {
			return nil, err
		}
		return p.parseTupleElems(name, first)
	}
	first, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return p.parseTupleElems(name, first)
}

func (p *parser) parseStructFields(name, field string) (*Value, error) {
	v := NewStruct(name)
	for {
		if err := p.ConsumeRune(':'); err != nil {
			return nil, err
		}
		f, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		for _, e := range v.Fields {
			if e.Name == field {
				return nil, p.Errorf("duplicate field %q", field)
			}
		}
		v.Fields = append(v.Fields, Field{Name: field, Value: f})

		more, err := p.separator(')')
		if err != nil || !more {
			return v, err
		}
		if !isIdentStart(p.Current()) {
			return nil, p.Errorf("field name expected, but found %q", string(p.Current()))
		}
		field = p.parseIdent()
		p.SkipBlanks()
	}
}

func (p *parser) parseTupleElems(name string, first *Value) (*Value, error) {
	v := NewTuple(name, first)
	for {
		more, err := p.separator(')')
		if err != nil || !more {
			return v, err
		}
		e, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		v.Elems = append(v.Elems, e)
	}
}

// separator handles the element separator of a list ending with
// the given rune. It returns false if the end has been reached
// (trailing separators are accepted).
func (p *parser) separator(end rune) (bool, error) {
	switch p.SkipBlanks() {
	case end:
		p.Next()
		return false, nil
	case ',':
		p.Next()
		if p.SkipBlanks() == end {
			p.Next()
			return false, nil
		}
		return true, nil
	}
	if p.EOF() {
		return false, p.Errorf("%q or ',' expected, but found end of input", string(end))
	}
	return false, p.Errorf("%q or ',' expected, but found %q", string(end), string(p.Current()))
}

func (p *parser) parseSeq() (*Value, error) {
	p.Next()
	v := NewSeq()
	if p.SkipBlanks() == ']' {
		p.Next()
		return v, nil
	}
	for {
		e, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		v.Elems = append(v.Elems, e)
		more, err := p.separator(']')
		if err != nil || !more {
			return v, err
		}
	}
}

func (p *parser) parseMap() (*Value, error) {
	p.Next()
	v := NewMap()
	if p.SkipBlanks() == '}' {
		p.Next()
		return v, nil
	}
	for {
		k, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		p.SkipBlanks()
		if err := p.ConsumeRune(':'); err != nil {
			return nil, err
		}
		e, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		v.Entries = append(v.Entries, Entry{Key: k, Value: e})
		more, err := p.separator('}')
		if err != nil || !more {
			return v, err
		}
	}
}

func (p *parser) parseNumber() (*Value, error) {
	start := p.Offset()
	n := p.Current()
	if n == '-' || n == '+' {
		n = p.Next()
	}
	for isIdentPart(n) || n == '.' || ((n == '-' || n == '+') && strings.ContainsAny(p.Text(p.Offset()-1, p.Offset()), "eE")) {
		n = p.Next()
	}
	lit := p.Text(start, p.Offset())
	clean := strings.ReplaceAll(lit, "_", "")
	if _, err := strconv.ParseInt(clean, 0, 64); err == nil {
		return NewNumber(clean), nil
	}
	if _, err := strconv.ParseUint(clean, 0, 64); err == nil {
		return NewNumber(clean), nil
	}
	if _, err := strconv.ParseFloat(clean, 64); err != nil || strings.HasPrefix(strings.TrimLeft(clean, "+-"), "0x") {
		return nil, p.Errorf("invalid number %q", lit)
	}
	return NewNumber(clean), nil
}

func (p *parser) parseString() (*Value, error) {
	s, err := p.parseQuoted('"')
	if err != nil {
		return nil, err
	}
	return NewString(s), nil
}

func (p *parser) parseChar() (*Value, error) {
	s, err := p.parseQuoted('\'')
	if err != nil {
		return nil, err
	}
	if len([]rune(s)) != 1 {
		return nil, p.Errorf("character literal must contain exactly one character")
	}
	return NewString(s), nil
}

func (p *parser) parseQuoted(q rune) (string, error) {
	var b strings.Builder

	n := p.Next()
	for n != q {
		if p.EOF() {
			return "", p.Errorf("unterminated string")
		}
		if n == '\\' {
			r, err := p.parseEscape()
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			n = p.Current()
			continue
		}
		b.WriteRune(n)
		n = p.Next()
	}
	p.Next()
	return b.String(), nil
}

func (p *parser) parseEscape() (rune, error) {
	n := p.Next()
	switch n {
	case '"', '\'', '\\', '/':
		p.Next()
		return n, nil
	case 'n':
		p.Next()
		return '\n', nil
	case 't':
		p.Next()
		return '\t', nil
	case 'r':
		p.Next()
		return '\r', nil
	case '0':
		p.Next()
		return 0, nil
	case 'x':
		return p.parseHex(2, false)
	case 'u':
		if p.Next() == '{' {
			return p.parseHex(6, true)
		}
		return p.parseHexDigits(4, 4)
	}
	return 0, p.Errorf("invalid escape sequence %q", "\\"+string(n))
}

func (p *parser) parseHex(max int, braced bool) (rune, error) {
	if !braced {
		p.Next()
		return p.parseHexDigits(max, max)
	}
	p.Next()
	r, err := p.parseHexDigits(1, max)
	if err != nil {
		return 0, err
	}
	return r, p.ConsumeRune('}')
}

func (p *parser) parseHexDigits(min, max int) (rune, error) {
	start := p.Offset()
	for i := 0; i < max && strings.ContainsRune("0123456789abcdefABCDEF", p.Current()) && !p.EOF(); i++ {
		p.Next()
	}
	digits := p.Text(start, p.Offset())
	if len(digits) < min {
		return 0, p.Errorf("invalid hex escape %q", digits)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, p.Errorf("invalid hex escape %q", digits)
	}
	return rune(v), nil
}
