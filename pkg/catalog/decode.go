package catalog

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mandelsoft/scenecomponents/pkg/notation"
	"github.com/mandelsoft/scenecomponents/pkg/utils"
)

var unmarshalerType = utils.TypeOf[notation.Unmarshaler]()

// Decode deserializes a notation text into an instance of the
// described type. A constructor name used by the text must match
// the short name or the type path of the descriptor.
func (c *Catalog) Decode(d *Descriptor, text string) (any, error) {
	v, err := notation.Parse(text)
	if err != nil {
		return nil, err
	}
	return c.DecodeValue(d, v)
}

func (c *Catalog) DecodeValue(d *Descriptor, v *notation.Value) (any, error) {
	switch v.Kind {
	case notation.KindStruct, notation.KindTuple:
		if v.Name != "" {
			if v.Name != d.short && v.Name != d.path {
				return nil, fmt.Errorf("constructor %q does not match type %s", v.Name, d.path)
			}
			anon := *v
			anon.Name = ""
			v = &anon
		}
	case notation.KindIdent:
		if (v.Name == d.short || v.Name == d.path) && d.typ.Kind() == reflect.Struct {
			v = notation.NewUnit()
		}
	}
	rv := reflect.New(d.typ).Elem()
	if err := decodeInto(rv, v, nil); err != nil {
		return nil, fmt.Errorf("cannot decode %s: %w", d.path, err)
	}
	return rv.Interface(), nil
}

// DecodeUntyped deserializes a text of the form { "<type path>": <value> },
// the type is taken from the embedded type path.
func (c *Catalog) DecodeUntyped(text string) (any, *Descriptor, error) {
	v, err := notation.Parse(text)
	if err != nil {
		return nil, nil, err
	}
	if v.Kind != notation.KindMap || len(v.Entries) != 1 {
		return nil, nil, fmt.Errorf("single entry map with type path expected, but found %s", v.Kind)
	}
	e := v.Entries[0]
	if e.Key.Kind != notation.KindString {
		return nil, nil, fmt.Errorf("type path must be a string, but found %s", e.Key.Kind)
	}
	d, ok := c.LookupTypePath(e.Key.Text)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownType, e.Key.Text)
	}
	o, err := c.DecodeValue(d, e.Value)
	if err != nil {
		return nil, nil, err
	}
	return o, d, nil
}

////////////////////////////////////////////////////////////////////////////////

type fieldError struct {
	path []string
	msg  string
}

func (e *fieldError) Error() string {
	if len(e.path) == 0 {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", strings.Join(e.path, "."), e.msg)
}

func errorf(path []string, msg string, args ...interface{}) error {
	return &fieldError{path: path, msg: fmt.Sprintf(msg, args...)}
}

func mismatch(path []string, rv reflect.Value, v *notation.Value) error {
	return errorf(path, "cannot use %s as %s", v.Kind, rv.Type())
}

func decodeInto(rv reflect.Value, v *notation.Value, path []string) error {
	if rv.CanAddr() && rv.Addr().Type().Implements(unmarshalerType) {
		if err := rv.Addr().Interface().(notation.Unmarshaler).UnmarshalNotation(v); err != nil {
			return errorf(path, "%s", err)
		}
		return nil
	}

	if v.Kind == notation.KindOption {
		if v.IsNone() {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		v = v.Elems[0]
	}

	if v.Kind == notation.KindTuple && len(v.Elems) == 1 && unwrapNewType(rv.Type(), v.Elems[0]) {
		v = v.Elems[0]
	}

	switch rv.Kind() {
	case reflect.Pointer:
		p := reflect.New(rv.Type().Elem())
		if err := decodeInto(p.Elem(), v, path); err != nil {
			return err
		}
		rv.Set(p)
	case reflect.Interface:
		if rv.Type().NumMethod() != 0 {
			return errorf(path, "unsupported interface type %s", rv.Type())
		}
		n, err := v.Native()
		if err != nil {
			return errorf(path, "%s", err)
		}
		if n != nil {
			rv.Set(reflect.ValueOf(n))
		}
	case reflect.Bool:
		if v.Kind != notation.KindBool {
			return mismatch(path, rv, v)
		}
		rv.SetBool(v.Bool)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Kind != notation.KindNumber {
			return mismatch(path, rv, v)
		}
		i, err := strconv.ParseInt(v.Text, 0, rv.Type().Bits())
		if err != nil {
			return errorf(path, "invalid %s value %q", rv.Type(), v.Text)
		}
		rv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v.Kind != notation.KindNumber {
			return mismatch(path, rv, v)
		}
		i, err := strconv.ParseUint(v.Text, 0, rv.Type().Bits())
		if err != nil {
			return errorf(path, "invalid %s value %q", rv.Type(), v.Text)
		}
		rv.SetUint(i)
	case reflect.Float32, reflect.Float64:
		if v.Kind != notation.KindNumber {
			return mismatch(path, rv, v)
		}
		f, err := strconv.ParseFloat(v.Text, rv.Type().Bits())
		if err != nil {
			return errorf(path, "invalid %s value %q", rv.Type(), v.Text)
		}
		rv.SetFloat(f)
	case reflect.String:
		switch v.Kind {
		case notation.KindString:
			rv.SetString(v.Text)
		case notation.KindIdent:
			rv.SetString(v.Name)
		default:
			return mismatch(path, rv, v)
		}
	case reflect.Slice:
		if v.Kind == notation.KindUnit {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		elems, err := sequence(rv, v, path)
		if err != nil {
			return err
		}
		s := reflect.MakeSlice(rv.Type(), len(elems), len(elems))
		for i, e := range elems {
			if err := decodeInto(s.Index(i), e, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		rv.Set(s)
	case reflect.Array:
		elems, err := sequence(rv, v, path)
		if err != nil {
			return err
		}
		if len(elems) != rv.Len() {
			return errorf(path, "%d elements required, but found %d", rv.Len(), len(elems))
		}
		for i, e := range elems {
			if err := decodeInto(rv.Index(i), e, append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
	case reflect.Map:
		return decodeMap(rv, v, path)
	case reflect.Struct:
		return decodeStruct(rv, v, path)
	default:
		return errorf(path, "unsupported type %s", rv.Type())
	}
	return nil
}

// unwrapNewType decides whether a single element tuple
// wraps the value for the given type.
func unwrapNewType(t reflect.Type, elem *notation.Value) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		if elem.Kind != notation.KindMap && !(elem.Kind == notation.KindStruct && elem.Name == "") {
			return false
		}
		fields := structFields(t)
		if len(fields) != 1 {
			return true
		}
		ft := fields[0].typ
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		return ft.Kind() != reflect.Struct && ft.Kind() != reflect.Map && ft.Kind() != reflect.Interface
	case reflect.Slice, reflect.Array:
		return elem.Kind == notation.KindSeq || elem.Kind == notation.KindTuple
	case reflect.Interface:
		return false
	}
	return true
}

func sequence(rv reflect.Value, v *notation.Value, path []string) ([]*notation.Value, error) {
	switch v.Kind {
	case notation.KindSeq, notation.KindTuple:
		return v.Elems, nil
	case notation.KindUnit:
		return nil, nil
	}
	return nil, mismatch(path, rv, v)
}

func decodeMap(rv reflect.Value, v *notation.Value, path []string) error {
	m := reflect.MakeMap(rv.Type())
	switch v.Kind {
	case notation.KindMap:
		for _, e := range v.Entries {
			k := reflect.New(rv.Type().Key()).Elem()
			if err := decodeInto(k, e.Key, append(path, "<key>")); err != nil {
				return err
			}
			if m.MapIndex(k).IsValid() {
				return errorf(path, "duplicate key %s", e.Key)
			}
			val := reflect.New(rv.Type().Elem()).Elem()
			if err := decodeInto(val, e.Value, append(path, e.Key.AsString())); err != nil {
				return err
			}
			m.SetMapIndex(k, val)
		}
	case notation.KindStruct:
		if rv.Type().Key().Kind() != reflect.String {
			return mismatch(path, rv, v)
		}
		for _, f := range v.Fields {
			val := reflect.New(rv.Type().Elem()).Elem()
			if err := decodeInto(val, f.Value, append(path, f.Name)); err != nil {
				return err
			}
			m.SetMapIndex(reflect.ValueOf(f.Name).Convert(rv.Type().Key()), val)
		}
	case notation.KindUnit:
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	default:
		return mismatch(path, rv, v)
	}
	rv.Set(m)
	return nil
}

type structField struct {
	name  string
	index int
	typ   reflect.Type
}

func structFields(t reflect.Type) []structField {
	var fields []structField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := utils.SnakeCase(f.Name)
		if tag, ok := f.Tag.Lookup("scene"); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		fields = append(fields, structField{name: name, index: i, typ: f.Type})
	}
	return fields
}

func findField(t reflect.Type, fields []structField, name string) (structField, bool) {
	for _, f := range fields {
		if f.name == name {
			return f, true
		}
	}
	for _, f := range fields {
		if strings.EqualFold(t.Field(f.index).Name, name) {
			return f, true
		}
	}
	return structField{}, false
}

func decodeStruct(rv reflect.Value, v *notation.Value, path []string) error {
	t := rv.Type()
	fields := structFields(t)

	set := func(name string, fv *notation.Value) error {
		f, ok := findField(t, fields, name)
		if !ok {
			return errorf(path, "unknown field %q for %s", name, t)
		}
		return decodeInto(rv.Field(f.index), fv, append(path, name))
	}

	switch v.Kind {
	case notation.KindStruct:
		for _, f := range v.Fields {
			if err := set(f.Name, f.Value); err != nil {
				return err
			}
		}
	case notation.KindMap:
		for _, e := range v.Entries {
			if e.Key.Kind != notation.KindString && e.Key.Kind != notation.KindIdent {
				return errorf(path, "field name expected, but found %s", e.Key.Kind)
			}
			if err := set(e.Key.AsString(), e.Value); err != nil {
				return err
			}
		}
	case notation.KindTuple:
		if len(v.Elems) != len(fields) {
			return errorf(path, "%d fields required for %s, but found %d", len(fields), t, len(v.Elems))
		}
		for i, e := range v.Elems {
			if err := decodeInto(rv.Field(fields[i].index), e, append(path, fields[i].name)); err != nil {
				return err
			}
		}
	case notation.KindUnit:
		rv.Set(reflect.Zero(t))
	default:
		return mismatch(path, rv, v)
	}
	return nil
}
