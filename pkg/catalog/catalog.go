package catalog

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/modern-go/reflect2"

	"github.com/mandelsoft/scenecomponents/pkg/ecs"
	"github.com/mandelsoft/scenecomponents/pkg/utils"
)

var (
	ErrUnknownType          = fmt.Errorf("unknown type")
	ErrInsertionUnsupported = fmt.Errorf("type cannot be inserted as component")
)

// Type paths of the well-known container types authored
// by the content tools.
const (
	TypePathStringList    = "alloc::vec::Vec<alloc::string::String>"
	TypePathStringListMap = "std::collections::HashMap<alloc::string::String, alloc::vec::Vec<alloc::string::String>>"
)

var wellKnown = []struct {
	path string
	typ  reflect.Type
}{
	{TypePathStringList, utils.TypeOf[[]string]()},
	{TypePathStringListMap, utils.TypeOf[map[string][]string]()},
}

// Descriptor describes a registered type. It is owned by
// the catalog, consumers only keep references.
type Descriptor struct {
	path      string
	short     string
	typ       reflect.Type
	component bool
}

func (d *Descriptor) TypePath() string {
	return d.path
}

func (d *Descriptor) ShortName() string {
	return d.short
}

func (d *Descriptor) Type() reflect.Type {
	return d.typ
}

// IsComponent reports whether instances can be inserted
// into an entity-component store.
func (d *Descriptor) IsComponent() bool {
	return d.component
}

func (d *Descriptor) String() string {
	return d.path
}

// Insert inserts an instance of the described type as
// component into the given entity.
func (d *Descriptor) Insert(w *ecs.World, e ecs.Entity, instance any) error {
	if !d.component {
		return fmt.Errorf("%w: %s", ErrInsertionUnsupported, d.path)
	}
	if reflect2.IsNil(instance) {
		return fmt.Errorf("nil instance for type %s", d.path)
	}
	if t := reflect.TypeOf(instance); t != d.typ {
		return fmt.Errorf("instance of type %s does not match %s", t, d.path)
	}
	return w.Insert(e, instance)
}

////////////////////////////////////////////////////////////////////////////////

// Catalog maps type paths and short type names to Go types.
type Catalog struct {
	lock    sync.RWMutex
	byPath  map[string]*Descriptor
	byShort map[string][]*Descriptor
	byType  map[reflect.Type]*Descriptor
}

func New() *Catalog {
	return &Catalog{
		byPath:  map[string]*Descriptor{},
		byShort: map[string][]*Descriptor{},
		byType:  map[reflect.Type]*Descriptor{},
	}
}

// Register registers the type of the given prototype under the
// given type path. A pointer prototype (even a nil one) registers
// its element type.
func (c *Catalog) Register(path string, proto any, component bool) (*Descriptor, error) {
	if proto == nil {
		return nil, fmt.Errorf("prototype for %s required", path)
	}
	t := reflect.TypeOf(proto)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return c.RegisterType(path, t, component)
}

func (c *Catalog) RegisterType(path string, t reflect.Type, component bool) (*Descriptor, error) {
	if path == "" {
		return nil, fmt.Errorf("type path required for %s", t)
	}
	c.lock.Lock()
	defer c.lock.Unlock()

	if old := c.byPath[path]; old != nil {
		if old.typ != t || old.component != component {
			return nil, fmt.Errorf("type path %q already registered for %s", path, old.typ)
		}
		return old, nil
	}
	if old := c.byType[t]; old != nil {
		return nil, fmt.Errorf("type %s already registered as %q", t, old.path)
	}

	d := &Descriptor{
		path:      path,
		short:     ShortTypePath(path),
		typ:       t,
		component: component,
	}
	c.byPath[path] = d
	c.byShort[d.short] = append(c.byShort[d.short], d)
	c.byType[t] = d
	log.Debug("registered type {{path}} ({{short}}) for {{type}}", "path", path, "short", d.short, "type", t.String())
	return d, nil
}

// EnsureRegistered registers the well-known container types.
// It may be called any number of times.
func (c *Catalog) EnsureRegistered() error {
	for _, w := range wellKnown {
		if _, err := c.RegisterType(w.path, w.typ, false); err != nil {
			return err
		}
	}
	return nil
}

// LookupShortName finds a type by its short name. Short names
// shared by multiple types are not resolved.
func (c *Catalog) LookupShortName(name string) (*Descriptor, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	list := c.byShort[name]
	if len(list) != 1 {
		if len(list) > 1 {
			log.Warn("ambiguous short type name {{name}}", "name", name, "candidates", utils.JoinFunc(list, ", ", (*Descriptor).TypePath))
		}
		return nil, false
	}
	return list[0], true
}

func (c *Catalog) LookupTypePath(path string) (*Descriptor, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	d := c.byPath[path]
	return d, d != nil
}

func (c *Catalog) LookupType(t reflect.Type) (*Descriptor, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	d := c.byType[t]
	return d, d != nil
}

// TypeNames returns the sorted type paths of all registered types.
func (c *Catalog) TypeNames() []string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return utils.OrderedMapKeys(c.byPath)
}

// Descriptors returns all descriptors ordered by type path.
func (c *Catalog) Descriptors() []*Descriptor {
	c.lock.RLock()
	defer c.lock.RUnlock()

	list := utils.MapKeys(c.byPath)
	slices.Sort(list)
	return utils.TransformSlice(list, func(p string) *Descriptor { return c.byPath[p] })
}

////////////////////////////////////////////////////////////////////////////////

// Register registers a plain data type, which can be decoded but
// not inserted as a component.
func Register[T any](c *Catalog, path string) (*Descriptor, error) {
	return c.RegisterType(path, utils.TypeOf[T](), false)
}

// RegisterComponent registers a component type.
func RegisterComponent[T any](c *Catalog, path string) (*Descriptor, error) {
	return c.RegisterType(path, utils.TypeOf[T](), true)
}

func MustRegister[T any](c *Catalog, path string) *Descriptor {
	d, err := Register[T](c, path)
	if err != nil {
		panic(err)
	}
	return d
}

func MustRegisterComponent[T any](c *Catalog, path string) *Descriptor {
	d, err := RegisterComponent[T](c, path)
	if err != nil {
		panic(err)
	}
	return d
}
