package fs

import (
	"fmt"
	iofs "io/fs"
	"maps"
	"path/filepath"
	"slices"
	"sync"
)

// MemFileSystem keeps files in memory. Directories are implicit.
type MemFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemFileSystem() *MemFileSystem {
	return &MemFileSystem{files: make(map[string][]byte)}
}

func (fs *MemFileSystem) ReadFile(path string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, ok := fs.files[filepath.Clean(path)]
	if !ok {
		return nil, &iofs.PathError{Op: "open", Path: path, Err: iofs.ErrNotExist}
	}
	return slices.Clone(data), nil
}

func (fs *MemFileSystem) FileExists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, ok := fs.files[filepath.Clean(path)]
	return ok
}

func (fs *MemFileSystem) WriteFile(path string, data []byte, perm iofs.FileMode) error {
	if path == "" {
		return fmt.Errorf("write: empty path")
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.files[filepath.Clean(path)] = slices.Clone(data)
	return nil
}

func (fs *MemFileSystem) MkdirAll(path string, perm iofs.FileMode) error {
	return nil
}

// Paths returns every stored file path, sorted.
func (fs *MemFileSystem) Paths() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return slices.Sorted(maps.Keys(fs.files))
}
