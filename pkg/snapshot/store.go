package snapshot

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"sigs.k8s.io/yaml"

	"github.com/mandelsoft/scenecomponents/pkg/ecs"
	"github.com/mandelsoft/scenecomponents/pkg/utils"
)

// Store keeps records as yaml files in a folder of a file system,
// one file per entity.
type Store struct {
	lock sync.Mutex
	path string
	fs   vfs.FileSystem
}

func New(path string, fss ...vfs.FileSystem) (*Store, error) {
	fs := utils.OptionalDefaulted(vfs.FileSystem(osfs.OsFs), fss...)

	err := fs.MkdirAll(path, 0o0700)
	if err != nil && !errors.Is(err, vfs.ErrExist) {
		return nil, err
	}
	return &Store{path: path, fs: fs}, nil
}

func (s *Store) Path(e ecs.Entity) string {
	return filepath.Join(s.path, e.String()+".yaml")
}

// Write replaces the content of the store by the given records.
func (s *Store) Write(records []*Record) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	old, err := s.entities()
	if err != nil {
		return err
	}
	keep := map[ecs.Entity]bool{}
	for _, r := range records {
		if err := s.set(r); err != nil {
			return err
		}
		keep[r.Entity] = true
	}
	for _, e := range old {
		if !keep[e] {
			if err := s.fs.Remove(s.Path(e)); err != nil {
				return err
			}
		}
	}
	log.Info("written {{count}} records to {{path}}", "count", len(records), "path", s.path)
	return nil
}

func (s *Store) Set(r *Record) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.set(r)
}

func (s *Store) set(r *Record) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return vfs.WriteFile(s.fs, s.Path(r.Entity), data, 0o600)
}

func (s *Store) Get(e ecs.Entity) (*Record, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.get(e)
}

func (s *Store) get(e ecs.Entity) (*Record, error) {
	path := s.Path(e)
	data, err := vfs.ReadFile(s.fs, path)
	if err != nil {
		return nil, err
	}
	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if r.Entity != e {
		return nil, fmt.Errorf("corrupted snapshot: %s does not contain entity %s", path, e)
	}
	return &r, nil
}

// List returns all records ordered by entity.
func (s *Store) List() ([]*Record, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	list, err := s.entities()
	if err != nil {
		return nil, err
	}
	var result []*Record
	for _, e := range list {
		r, err := s.get(e)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, nil
}

func (s *Store) entities() ([]ecs.Entity, error) {
	list, err := vfs.ReadDir(s.fs, s.path)
	if err != nil {
		if errors.Is(err, vfs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var result []ecs.Entity
	for _, f := range list {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSuffix(f.Name(), ".yaml"), 10, 64)
		if err != nil {
			continue
		}
		result = append(result, ecs.Entity(id))
	}
	slices.Sort(result)
	return result, nil
}
