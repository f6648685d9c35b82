package ecs

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/mandelsoft/scenecomponents/pkg/utils"
)

var ErrNoEntity = fmt.Errorf("entity not found")

// Entity identifies an element of the world.
// The zero value is never used for a spawned entity.
type Entity uint64

func (e Entity) String() string {
	return fmt.Sprintf("%d", uint64(e))
}

// World is an in-memory entity-component store.
// An entity holds at most one component per Go type,
// inserting a component of an already present type
// replaces the old one.
type World struct {
	lock     sync.RWMutex
	last     Entity
	entities map[Entity]*record
}

type record struct {
	order      []reflect.Type
	components map[reflect.Type]any
}

func NewWorld() *World {
	return &World{entities: map[Entity]*record{}}
}

// Spawn creates a new entity with the given components.
func (w *World) Spawn(components ...any) Entity {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.last++
	e := w.last
	r := &record{components: map[reflect.Type]any{}}
	w.entities[e] = r
	for _, c := range components {
		r.set(c)
	}
	log.Trace("spawned entity {{entity}}", "entity", e)
	return e
}

func (w *World) Despawn(e Entity) bool {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.entities[e] == nil {
		return false
	}
	delete(w.entities, e)
	return true
}

func (w *World) Exists(e Entity) bool {
	w.lock.RLock()
	defer w.lock.RUnlock()
	return w.entities[e] != nil
}

// Insert adds components to an existing entity.
func (w *World) Insert(e Entity, components ...any) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	r := w.entities[e]
	if r == nil {
		return fmt.Errorf("%w: %s", ErrNoEntity, e)
	}
	for _, c := range components {
		if c == nil {
			return fmt.Errorf("nil component for entity %s", e)
		}
		r.set(c)
	}
	return nil
}

func (w *World) Remove(e Entity, typ reflect.Type) bool {
	w.lock.Lock()
	defer w.lock.Unlock()

	r := w.entities[e]
	if r == nil || r.components[typ] == nil {
		return false
	}
	delete(r.components, typ)
	r.order = slices.DeleteFunc(r.order, func(t reflect.Type) bool { return t == typ })
	return true
}

func (w *World) Component(e Entity, typ reflect.Type) (any, bool) {
	w.lock.RLock()
	defer w.lock.RUnlock()

	r := w.entities[e]
	if r == nil {
		return nil, false
	}
	c, ok := r.components[typ]
	return c, ok
}

// Components returns the components of an entity in
// insertion order.
func (w *World) Components(e Entity) []any {
	w.lock.RLock()
	defer w.lock.RUnlock()

	r := w.entities[e]
	if r == nil {
		return nil
	}
	return utils.TransformSlice(r.order, func(t reflect.Type) any { return r.components[t] })
}

// Entities returns all entities in ascending order.
func (w *World) Entities() []Entity {
	return w.Query()
}

// Query returns the entities matching all filters
// in ascending order.
func (w *World) Query(filters ...Filter) []Entity {
	w.lock.RLock()
	defer w.lock.RUnlock()

	var result []Entity
outer:
	for e, r := range w.entities {
		for _, f := range filters {
			if !f(r.components) {
				continue outer
			}
		}
		result = append(result, e)
	}
	slices.Sort(result)
	return result
}

func (r *record) set(c any) {
	t := reflect.TypeOf(c)
	if _, ok := r.components[t]; !ok {
		r.order = append(r.order, t)
	}
	r.components[t] = c
}

////////////////////////////////////////////////////////////////////////////////

// Filter selects entities by their component set.
type Filter func(components map[reflect.Type]any) bool

func With[T any]() Filter {
	t := utils.TypeOf[T]()
	return func(c map[reflect.Type]any) bool {
		_, ok := c[t]
		return ok
	}
}

func Without[T any]() Filter {
	t := utils.TypeOf[T]()
	return func(c map[reflect.Type]any) bool {
		_, ok := c[t]
		return !ok
	}
}

func Get[T any](w *World, e Entity) (T, bool) {
	var _nil T

	c, ok := w.Component(e, utils.TypeOf[T]())
	if !ok {
		return _nil, false
	}
	return c.(T), true
}

func Has[T any](w *World, e Entity) bool {
	_, ok := w.Component(e, utils.TypeOf[T]())
	return ok
}
