package snapshot

import (
	"fmt"
	"reflect"

	"github.com/mandelsoft/scenecomponents/pkg/catalog"
	"github.com/mandelsoft/scenecomponents/pkg/ecs"
	"github.com/mandelsoft/scenecomponents/pkg/utils"
)

// Record is the persisted state of an entity.
type Record struct {
	Entity     ecs.Entity  `json:"entity"`
	Name       string      `json:"name,omitempty"`
	Parent     *ecs.Entity `json:"parent,omitempty"`
	Extras     string      `json:"extras,omitempty"`
	Processed  bool        `json:"processed,omitempty"`
	Components []Component `json:"components,omitempty"`
}

// Component is a catalog typed component in notation text.
type Component struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Decode provides the component instance.
func (c *Component) Decode(cat *catalog.Catalog) (any, error) {
	d, ok := cat.LookupTypePath(c.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownType, c.Type)
	}
	return cat.Decode(d, c.Value)
}

// Take captures the state of all entities of a world. Components
// without catalog registration are omitted.
func Take(w *ecs.World, cat *catalog.Catalog) ([]*Record, error) {
	var result []*Record

	for _, e := range w.Entities() {
		r := &Record{Entity: e}
		for _, o := range w.Components(e) {
			switch c := o.(type) {
			case ecs.Name:
				r.Name = string(c)
			case ecs.Parent:
				r.Parent = utils.Pointer(c.Entity)
			case ecs.Extras:
				r.Extras = c.Value
			case ecs.Processed:
				r.Processed = true
			default:
				d, ok := cat.LookupType(reflect.TypeOf(o))
				if !ok {
					log.Debug("omitting unregistered component {{type}} of {{entity}}", "type", fmt.Sprintf("%T", o), "entity", e)
					continue
				}
				text, err := cat.Encode(d, o)
				if err != nil {
					return nil, fmt.Errorf("entity %s: %w", e, err)
				}
				r.Components = append(r.Components, Component{Type: d.TypePath(), Value: text})
			}
		}
		result = append(result, r)
	}
	return result, nil
}

// Digest provides a stable hash of a list of records.
func Digest(records []*Record) (string, error) {
	return utils.HashData(records)
}
