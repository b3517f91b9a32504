// Package memory implements an in-memory source archive for tests.
package memory

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Constellab/gws-biota-sub001/internal/infra/blob/core"
)

type dumpEntry struct {
	info core.Info
	data []byte
}

// Store implements core.Archive backed by process memory.
type Store struct {
	mu   sync.RWMutex
	objs map[string]dumpEntry
}

// New returns an empty in-memory archive.
func New() *Store { return &Store{objs: make(map[string]dumpEntry)} }

// Driver returns the archive driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Put stores a new dump; errors if key exists.
func (s *Store) Put(_ context.Context, key string, r io.Reader) (core.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objs[key]; exists {
		return core.Info{}, fmt.Errorf("dump %s already exists", key)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return core.Info{}, err
	}
	info := core.Info{Key: key, Size: int64(len(b)), LastModified: time.Now().UTC()}
	s.objs[key] = dumpEntry{info: info, data: b}
	return info, nil
}

// Fetch writes the dump contents into destDir and returns the local path.
func (s *Store) Fetch(_ context.Context, key string, destDir string) (string, error) {
	s.mu.RLock()
	obj, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}
	destPath := filepath.Join(destDir, path.Base(key))
	if err := os.WriteFile(destPath, obj.data, 0o644); err != nil {
		return "", err
	}
	return destPath, nil
}

// List returns all dumps matching prefix.
func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Info, 0, len(s.objs))
	for k, v := range s.objs {
		if prefix == "" || strings.HasPrefix(k, prefix) {
			out = append(out, v.info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
