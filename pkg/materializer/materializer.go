package materializer

import (
	"fmt"
	"strings"

	"github.com/mandelsoft/scenecomponents/pkg/catalog"
	"github.com/mandelsoft/scenecomponents/pkg/metadata"
	"github.com/mandelsoft/scenecomponents/pkg/notation"
	"github.com/mandelsoft/scenecomponents/pkg/utils"
)

const (
	// NestedKey marks an entry holding a map of
	// type path -> value.
	NestedKey = "bevy_components"
	// TypePrefix is the optional prefix of entry names
	// denoting a component type.
	TypePrefix = "component: "
)

var ErrMalformedEntry = fmt.Errorf("malformed entry value")

// Entry is a materialized metadata entry: an instance of the
// type described by the descriptor.
type Entry struct {
	Instance   any
	Descriptor *catalog.Descriptor
}

// Result is the outcome for one metadata blob. Entries which could
// not be materialized are reported in Skipped.
type Result struct {
	Entries []Entry
	Skipped []error
}

func (r *Result) skip(err error) {
	r.Skipped = append(r.Skipped, err)
}

type Materializer struct {
	catalog *catalog.Catalog
}

func New(c *catalog.Catalog) *Materializer {
	return &Materializer{catalog: c}
}

// Materialize decodes a metadata blob and materializes all its
// entries. Only a malformed blob is reported as error, failures of
// single entries are skipped and recorded in the result.
func (m *Materializer) Materialize(blob string) (*Result, error) {
	entries, err := metadata.Decode(blob)
	if err != nil {
		return nil, err
	}
	return m.MaterializeEntries(entries), nil
}

func (m *Materializer) MaterializeEntries(entries metadata.Entries) *Result {
	r := &Result{}
	for _, e := range entries {
		if e.Name == NestedKey {
			m.materializeNested(e.Value, r)
		} else {
			m.materializeTyped(e.Name, e.Value, r)
		}
	}
	return r
}

func (m *Materializer) materializeTyped(name string, raw metadata.RawValue, r *Result) {
	typ := TypeNameFor(name)
	d, ok := m.catalog.LookupShortName(typ)
	if !ok {
		log.Warn("no type registration for {{type}}", "type", typ, "entry", name)
		r.skip(fmt.Errorf("entry %q: %w: %s", name, catalog.ErrUnknownType, typ))
		return
	}

	text := ConstructorText(typ, raw)
	log.Debug("component data {{text}}", "text", text, "type", d.TypePath())
	o, err := m.catalog.Decode(d, text)
	if err != nil {
		log.LogError(err, "failed to deserialize component {{entry}}", "entry", name)
		r.skip(fmt.Errorf("entry %q: %w: %w", name, ErrMalformedEntry, err))
		return
	}
	r.Entries = append(r.Entries, Entry{Instance: o, Descriptor: d})
}

func (m *Materializer) materializeNested(raw metadata.RawValue, r *Result) {
	var nested metadata.Entries
	var err error

	if raw.IsString() {
		nested, err = metadata.Decode(raw.AsString())
	} else {
		nested, err = metadata.FromValue(raw.Value())
	}
	if err != nil {
		log.LogError(err, "invalid nested component map")
		r.skip(fmt.Errorf("entry %q: %w: %w", NestedKey, ErrMalformedEntry, err))
		return
	}

	for _, e := range nested {
		d, ok := m.catalog.LookupTypePath(e.Name)
		if !ok {
			log.Warn("no type registration for {{type}}", "type", e.Name)
			r.skip(fmt.Errorf("entry %q: %w: %s", NestedKey, catalog.ErrUnknownType, e.Name))
			continue
		}
		value := strings.TrimSpace(e.Value.AsString())
		if value == "" {
			value = "()"
		}
		text := fmt.Sprintf("{ %s: %s }", notation.Quote(d.TypePath()), value)
		log.Debug("component data {{text}}", "text", text)
		o, _, err := m.catalog.DecodeUntyped(text)
		if err != nil {
			log.LogError(err, "failed to deserialize component {{type}}", "type", e.Name)
			r.skip(fmt.Errorf("entry %q: %s: %w: %w", NestedKey, e.Name, ErrMalformedEntry, err))
			continue
		}
		r.Entries = append(r.Entries, Entry{Instance: o, Descriptor: d})
	}
}

// TypeNameFor derives the short type name denoted by an
// entry name: "component: velocity" -> "Velocity".
func TypeNameFor(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, TypePrefix, ""))
	return utils.CapitalizeFirst(name)
}

// ConstructorText rewrites a raw entry value into the
// constructor syntax <type>(<inner>). A blank value denotes
// an empty interior.
func ConstructorText(typ string, raw metadata.RawValue) string {
	s := strings.TrimSpace(raw.AsString())
	if s == "" {
		return typ + "()"
	}
	v, err := notation.Parse(s)
	if err == nil && v.IsParenthesized() && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		return fmt.Sprintf("%s(%s)", typ, strings.TrimSpace(s[1:len(s)-1]))
	}
	if raw.IsString() && (err != nil || v.Kind == notation.KindIdent) {
		return fmt.Sprintf("%s(%s)", typ, raw.AsText())
	}
	return fmt.Sprintf("%s(%s)", typ, s)
}
