package testutils

import (
	"path/filepath"

	"github.com/mandelsoft/vfs/pkg/layerfs"
	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/projectionfs"
	"github.com/mandelsoft/vfs/pkg/readonlyfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
)

// MemoryFileSystem provides an in-memory file system
// prefilled with the given files (path -> content).
func MemoryFileSystem(files map[string]string) (vfs.FileSystem, error) {
	fs := memoryfs.New()
	for p, content := range files {
		err := fs.MkdirAll(filepath.Dir(p), 0o700)
		if err != nil {
			return nil, err
		}
		err = vfs.WriteFile(fs, p, []byte(content), 0o600)
		if err != nil {
			return nil, err
		}
	}
	return fs, nil
}

// TestFileSystem provides the content of the given OS folder as
// file system root. Unless readonly, modifications are kept in
// a memory layer and never reach the OS folder.
func TestFileSystem(path string, readonly bool) (vfs.FileSystem, error) {
	base, err := projectionfs.New(osfs.OsFs, path)
	if err != nil {
		return nil, err
	}
	base = readonlyfs.New(base)
	if readonly {
		return base, nil
	}
	return layerfs.New(memoryfs.New(), base), nil
}
