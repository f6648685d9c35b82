package metadata

import (
	"fmt"
	"slices"

	"github.com/mandelsoft/scenecomponents/pkg/notation"
)

var ErrMalformedBlob = fmt.Errorf("malformed metadata")

// RawValue is the undecoded value of a metadata entry.
type RawValue struct {
	value *notation.Value
}

func NewRawValue(v *notation.Value) RawValue {
	return RawValue{v}
}

func (r RawValue) Value() *notation.Value {
	return r.value
}

// AsString returns string values verbatim and the
// canonical text for all other values.
func (r RawValue) AsString() string {
	return r.value.AsString()
}

// AsText returns the canonical text of the value.
func (r RawValue) AsText() string {
	return r.value.String()
}

func (r RawValue) IsString() bool {
	return r.value.Kind == notation.KindString
}

type Entry struct {
	Name  string
	Value RawValue
}

// Entries is the ordered content of a metadata blob.
type Entries []Entry

func (e Entries) Get(name string) (RawValue, bool) {
	for _, entry := range e {
		if entry.Name == name {
			return entry.Value, true
		}
	}
	return RawValue{}, false
}

func (e Entries) Names() []string {
	names := make([]string, len(e))
	for i, entry := range e {
		names[i] = entry.Name
	}
	return names
}

// Decode decodes a metadata blob, a notation map with string
// keys, into its entries preserving their order.
func Decode(blob string) (Entries, error) {
	v, err := notation.Parse(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBlob, err)
	}
	return FromValue(v)
}

func FromValue(v *notation.Value) (Entries, error) {
	if v.Kind != notation.KindMap {
		return nil, fmt.Errorf("%w: map expected, but found %s", ErrMalformedBlob, v.Kind)
	}
	result := make(Entries, 0, len(v.Entries))
	for _, e := range v.Entries {
		if e.Key.Kind != notation.KindString {
			return nil, fmt.Errorf("%w: entry name must be a string, but found %s", ErrMalformedBlob, e.Key)
		}
		// the last value of a duplicate entry wins, keeping the first position
		if i := slices.IndexFunc(result, func(x Entry) bool { return x.Name == e.Key.Text }); i >= 0 {
			result[i].Value = RawValue{e.Value}
			continue
		}
		result = append(result, Entry{Name: e.Key.Text, Value: RawValue{e.Value}})
	}
	return result, nil
}
