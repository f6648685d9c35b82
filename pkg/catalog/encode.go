package catalog

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/mandelsoft/scenecomponents/pkg/notation"
	"github.com/mandelsoft/scenecomponents/pkg/utils"
)

var marshalerType = utils.TypeOf[notation.Marshaler]()

// Encode provides the canonical notation text for an instance
// of the described type. Decoding the text yields an equal instance.
func (c *Catalog) Encode(d *Descriptor, instance any) (string, error) {
	if t := reflect.TypeOf(instance); t != d.typ {
		return "", fmt.Errorf("instance of type %s does not match %s", t, d.path)
	}
	v, err := EncodeValue(instance)
	if err != nil {
		return "", fmt.Errorf("cannot encode %s: %w", d.path, err)
	}
	return v.String(), nil
}

// EncodeValue converts plain Go data into a notation value.
func EncodeValue(o any) (*notation.Value, error) {
	if o == nil {
		return notation.NewUnit(), nil
	}
	return encodeFrom(reflect.ValueOf(o), nil)
}

func encodeFrom(rv reflect.Value, path []string) (*notation.Value, error) {
	if rv.Type().Implements(marshalerType) && (rv.Kind() != reflect.Pointer || !rv.IsNil()) {
		v, err := rv.Interface().(notation.Marshaler).MarshalNotation()
		if err != nil {
			return nil, errorf(path, "%s", err)
		}
		return v, nil
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return notation.NewNone(), nil
		}
		v, err := encodeFrom(rv.Elem(), path)
		if err != nil {
			return nil, err
		}
		return notation.NewSome(v), nil
	case reflect.Interface:
		if rv.IsNil() {
			return notation.NewUnit(), nil
		}
		return encodeFrom(rv.Elem(), path)
	case reflect.Bool:
		return notation.NewBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return notation.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return notation.NewNumber(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32, reflect.Float64:
		s := strconv.FormatFloat(rv.Float(), 'g', -1, rv.Type().Bits())
		if !strings.ContainsAny(s, ".eEn") {
			s += ".0"
		}
		return notation.NewNumber(s), nil
	case reflect.String:
		return notation.NewString(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return notation.NewUnit(), nil
		}
		seq := notation.NewSeq()
		for i := 0; i < rv.Len(); i++ {
			e, err := encodeFrom(rv.Index(i), append(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			seq.Elems = append(seq.Elems, e)
		}
		return seq, nil
	case reflect.Map:
		if rv.IsNil() {
			return notation.NewUnit(), nil
		}
		m := notation.NewMap()
		for _, k := range rv.MapKeys() {
			kv, err := encodeFrom(k, append(path, "<key>"))
			if err != nil {
				return nil, err
			}
			ev, err := encodeFrom(rv.MapIndex(k), append(path, kv.AsString()))
			if err != nil {
				return nil, err
			}
			m.Entries = append(m.Entries, notation.Entry{Key: kv, Value: ev})
		}
		slices.SortFunc(m.Entries, compareKeys)
		return m, nil
	case reflect.Struct:
		fields := structFields(rv.Type())
		if len(fields) == 0 {
			return notation.NewUnit(), nil
		}
		s := notation.NewStruct("")
		for _, f := range fields {
			fv, err := encodeFrom(rv.Field(f.index), append(path, f.name))
			if err != nil {
				return nil, err
			}
			s.Fields = append(s.Fields, notation.Field{Name: f.name, Value: fv})
		}
		return s, nil
	}
	return nil, errorf(path, "unsupported type %s", rv.Type())
}

// compareKeys orders numeric keys by value and all
// others by their canonical text.
func compareKeys(a, b notation.Entry) int {
	if a.Key.Kind == notation.KindNumber && b.Key.Kind == notation.KindNumber {
		fa, erra := strconv.ParseFloat(a.Key.Text, 64)
		fb, errb := strconv.ParseFloat(b.Key.Text, 64)
		if erra == nil && errb == nil && fa != fb {
			if fa < fb {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(a.Key.String(), b.Key.String())
}
