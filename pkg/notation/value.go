package notation

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindUnit
	KindOption
	KindSeq
	KindMap
	KindStruct
	KindTuple
	KindIdent
)

var kindNames = map[Kind]string{
	KindString: "string",
	KindNumber: "number",
	KindBool:   "bool",
	KindUnit:   "unit",
	KindOption: "option",
	KindSeq:    "sequence",
	KindMap:    "map",
	KindStruct: "struct",
	KindTuple:  "tuple",
	KindIdent:  "identifier",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is a parsed element of the textual object notation.
//
// Depending on the kind different fields are used:
//   - String, Number: Text (strings unescaped, numbers verbatim)
//   - Bool: Bool
//   - Option: Elems (empty for None)
//   - Seq, Tuple: Elems
//   - Struct: Fields
//   - Map: Entries
//   - Struct, Tuple, Ident: Name (optional for Struct and Tuple)
type Value struct {
	Kind    Kind
	Name    string
	Text    string
	Bool    bool
	Elems   []*Value
	Fields  []Field
	Entries []Entry
}

type Field struct {
	Name  string
	Value *Value
}

type Entry struct {
	Key   *Value
	Value *Value
}

// Unmarshaler is implemented by types decoding themselves
// from a notation value.
type Unmarshaler interface {
	UnmarshalNotation(v *Value) error
}

// Marshaler is implemented by types providing their
// own notation value.
type Marshaler interface {
	MarshalNotation() (*Value, error)
}

func NewString(s string) *Value {
	return &Value{Kind: KindString, Text: s}
}

func NewNumber(lit string) *Value {
	return &Value{Kind: KindNumber, Text: lit}
}

func NewInt(i int64) *Value {
	return NewNumber(strconv.FormatInt(i, 10))
}

func NewFloat(f float64) *Value {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return NewNumber(s)
}

func NewBool(b bool) *Value {
	return &Value{Kind: KindBool, Bool: b}
}

func NewUnit() *Value {
	return &Value{Kind: KindUnit}
}

func NewNone() *Value {
	return &Value{Kind: KindOption}
}

func NewSome(v *Value) *Value {
	return &Value{Kind: KindOption, Elems: []*Value{v}}
}

func NewSeq(elems ...*Value) *Value {
	return &Value{Kind: KindSeq, Elems: elems}
}

func NewMap(entries ...Entry) *Value {
	return &Value{Kind: KindMap, Entries: entries}
}

func NewStruct(name string, fields ...Field) *Value {
	return &Value{Kind: KindStruct, Name: name, Fields: fields}
}

func NewTuple(name string, elems ...*Value) *Value {
	return &Value{Kind: KindTuple, Name: name, Elems: elems}
}

func NewIdent(name string) *Value {
	return &Value{Kind: KindIdent, Name: name}
}

// Get returns the value of a map entry with the given string key
// or of the struct field with this name.
func (v *Value) Get(key string) *Value {
	switch v.Kind {
	case KindMap:
		for _, e := range v.Entries {
			if e.Key.Kind == KindString && e.Key.Text == key {
				return e.Value
			}
		}
	case KindStruct:
		for _, f := range v.Fields {
			if f.Name == key {
				return f.Value
			}
		}
	}
	return nil
}

// IsNone reports an empty option.
func (v *Value) IsNone() bool {
	return v.Kind == KindOption && len(v.Elems) == 0
}

// IsParenthesized reports values written as an anonymous
// parenthesized group: (), (a, b) or (f: v).
func (v *Value) IsParenthesized() bool {
	switch v.Kind {
	case KindUnit:
		return true
	case KindStruct, KindTuple:
		return v.Name == ""
	}
	return false
}

// AsString returns the plain string for string values and the
// canonical textual form for all other values.
func (v *Value) AsString() string {
	if v.Kind == KindString {
		return v.Text
	}
	return v.String()
}

// Native converts the value into plain Go data:
// string, int64, float64, bool, nil, []interface{} and
// map[string]interface{}.
func (v *Value) Native() (interface{}, error) {
	switch v.Kind {
	case KindString:
		return v.Text, nil
	case KindNumber:
		if i, err := strconv.ParseInt(v.Text, 0, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(v.Text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", v.Text)
		}
		return f, nil
	case KindBool:
		return v.Bool, nil
	case KindUnit:
		return nil, nil
	case KindIdent:
		return v.Name, nil
	case KindOption:
		if v.IsNone() {
			return nil, nil
		}
		return v.Elems[0].Native()
	case KindSeq, KindTuple:
		r := []interface{}{}
		for _, e := range v.Elems {
			n, err := e.Native()
			if err != nil {
				return nil, err
			}
			r = append(r, n)
		}
		return r, nil
	case KindStruct:
		r := map[string]interface{}{}
		for _, f := range v.Fields {
			n, err := f.Value.Native()
			if err != nil {
				return nil, err
			}
			r[f.Name] = n
		}
		return r, nil
	case KindMap:
		r := map[string]interface{}{}
		for _, e := range v.Entries {
			n, err := e.Value.Native()
			if err != nil {
				return nil, err
			}
			r[e.Key.AsString()] = n
		}
		return r, nil
	}
	return nil, fmt.Errorf("unsupported value kind %s", v.Kind)
}
