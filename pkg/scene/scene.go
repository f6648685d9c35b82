package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/drone/envsubst"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"sigs.k8s.io/yaml"

	"github.com/mandelsoft/scenecomponents/pkg/ecs"
)

// Scene is the description of an imported scene. Every node
// may carry a metadata blob (extras) authored by the content
// tools.
type Scene struct {
	Name  string  `json:"name"`
	Nodes []*Node `json:"nodes,omitempty"`
}

type Node struct {
	Name     string  `json:"name"`
	Extras   string  `json:"extras,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

func (s *Scene) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scene name required")
	}
	for i, n := range s.Nodes {
		if err := n.validate(fmt.Sprintf("nodes[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) validate(path string) error {
	if n == nil {
		return fmt.Errorf("%s: node required", path)
	}
	if n.Name == "" {
		return fmt.Errorf("%s: node name required", path)
	}
	for i, c := range n.Children {
		if err := c.validate(fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of nodes of the scene.
func (s *Scene) Count() int {
	return count(s.Nodes)
}

func count(nodes []*Node) int {
	n := len(nodes)
	for _, c := range nodes {
		n += count(c.Children)
	}
	return n
}

// Spawn imports the scene into a world. The scene itself is
// represented by a root entity, which is the parent of all
// top-level nodes.
func (s *Scene) Spawn(w *ecs.World) ecs.Entity {
	root := w.Spawn(ecs.Name(s.Name))
	spawn(w, root, s.Nodes)
	log.Info("imported scene {{scene}} with {{count}} nodes", "scene", s.Name, "count", s.Count(), "root", root)
	return root
}

func spawn(w *ecs.World, parent ecs.Entity, nodes []*Node) {
	for _, n := range nodes {
		components := []any{ecs.Name(n.Name), ecs.Parent{Entity: parent}}
		if n.Extras != "" {
			components = append(components, ecs.Extras{Value: n.Extras})
		}
		e := w.Spawn(components...)
		spawn(w, e, n.Children)
	}
}

////////////////////////////////////////////////////////////////////////////////

type options struct {
	enabled bool
	vars       map[string]string
}

type Option func(o *options)

// WithEnvironment enables the substitution of ${VAR}
// expressions by process environment variables.
func WithEnvironment() Option {
	return func(o *options) {
		o.enabled = true
	}
}

// WithVariables enables variable substitution using the
// given values, falling back to the process environment.
func WithVariables(vars map[string]string) Option {
	return func(o *options) {
		o.enabled = true
		if o.vars == nil {
			o.vars = map[string]string{}
		}
		for k, v := range vars {
			o.vars[k] = v
		}
	}
}

func (o *options) lookup(name string) string {
	if v, ok := o.vars[name]; ok {
		return v
	}
	return os.Getenv(name)
}

// Parse parses a YAML scene description.
func Parse(data []byte, opts ...Option) (*Scene, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var s Scene
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return nil, err
	}
	if o.enabled {
		if err := o.substitute(&s); err != nil {
			return nil, err
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// substitute expands variables in the scene name and in the
// names and extras of all nodes.
func (o *options) substitute(s *Scene) error {
	var err error
	if s.Name, err = o.eval(s.Name); err != nil {
		return fmt.Errorf("scene name: %w", err)
	}
	return o.substituteNodes("nodes", s.Nodes)
}

func (o *options) substituteNodes(path string, nodes []*Node) error {
	var err error
	for i, n := range nodes {
		if n == nil {
			continue
		}
		p := fmt.Sprintf("%s[%d]", path, i)
		if n.Name, err = o.eval(n.Name); err != nil {
			return fmt.Errorf("%s: name: %w", p, err)
		}
		if n.Extras, err = o.eval(n.Extras); err != nil {
			return fmt.Errorf("%s: extras: %w", p, err)
		}
		if err := o.substituteNodes(p+".children", n.Children); err != nil {
			return err
		}
	}
	return nil
}

// eval expands ${VAR} expressions. Backslashes are doubled
// because the expansion consumes them as escape characters.
func (o *options) eval(s string) (string, error) {
	if !strings.Contains(s, "$") {
		return s, nil
	}
	r, err := envsubst.Eval(strings.ReplaceAll(s, `\`, `\\`), o.lookup)
	if err != nil {
		return "", fmt.Errorf("variable substitution failed: %w", err)
	}
	return r, nil
}

// Load reads a scene description from a file.
func Load(fs vfs.FileSystem, path string, opts ...Option) (*Scene, error) {
	data, err := vfs.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", path, err)
	}
	log.Debug("loaded scene {{scene}} from {{path}}", "scene", s.Name, "path", path)
	return s, nil
}

// Save writes a scene description to a file.
func (s *Scene) Save(fs vfs.FileSystem, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return vfs.WriteFile(fs, path, data, 0o600)
}
