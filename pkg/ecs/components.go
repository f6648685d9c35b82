package ecs

// Name is the display name of a scene node.
type Name string

// Parent links a node to its structural parent.
type Parent struct {
	Entity Entity
}

// Extras is the free-form metadata blob attached to
// a scene node by the importer.
type Extras struct {
	Value string
}

// Processed marks a node whose extras have been materialized.
type Processed struct{}

// NameOf returns the name of an entity, or the empty string.
func NameOf(w *World, e Entity) string {
	n, _ := Get[Name](w, e)
	return string(n)
}

// ParentOf returns the structural parent of an entity.
func ParentOf(w *World, e Entity) (Entity, bool) {
	p, ok := Get[Parent](w, e)
	return p.Entity, ok
}

// Children returns the direct children of an entity
// in ascending order.
func Children(w *World, e Entity) []Entity {
	var result []Entity
	for _, c := range w.Query(With[Parent]()) {
		if p, _ := ParentOf(w, c); p == e {
			result = append(result, c)
		}
	}
	return result
}
