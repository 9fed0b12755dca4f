package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/axekit/axe/internal/fsutil"
)

// LibraryState records the last successful build of a library.
type LibraryState struct {
	SourceHash string   `json:"source_hash"`
	BuiltAt    string   `json:"built_at"`
	BuildTypes []string `json:"build_types,omitempty"`
}

type State struct {
	Libraries map[string]LibraryState `json:"libraries"`
}

// Manager persists build state as state.json in the config directory.
type Manager struct {
	path  string
	state State
	mu    sync.RWMutex
}

func NewManager(configDir string) (*Manager, error) {
	path := filepath.Join(configDir, "state.json")
	m := &Manager{
		path:  path,
		state: State{Libraries: make(map[string]LibraryState)},
	}
	if err := m.load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if m.state.Libraries == nil {
		m.state.Libraries = make(map[string]LibraryState)
	}
	return m, nil
}

func (m *Manager) Path() string { return m.path }

func (m *Manager) load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &m.state)
}

func (m *Manager) save() error {
	m.mu.RLock()
	data, err := json.MarshalIndent(m.state, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return err
	}
	if err := fsutil.EnsureFileDir(m.path); err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

func (m *Manager) Get(name string) (LibraryState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ls, ok := m.state.Libraries[name]
	return ls, ok
}

func (m *Manager) Set(name string, ls LibraryState) error {
	m.mu.Lock()
	m.state.Libraries[name] = ls
	m.mu.Unlock()
	return m.save()
}

func (m *Manager) Remove(name string) error {
	m.mu.Lock()
	delete(m.state.Libraries, name)
	m.mu.Unlock()
	return m.save()
}

// UpToDate reports whether name was last built from sources with the given
// hash, covering every requested build type.
func (m *Manager) UpToDate(name, sourceHash string, buildTypes []string) bool {
	m.mu.RLock()
	ls, ok := m.state.Libraries[name]
	m.mu.RUnlock()
	if !ok || ls.SourceHash == "" || ls.SourceHash != sourceHash {
		return false
	}
	for _, bt := range buildTypes {
		if !slices.Contains(ls.BuildTypes, bt) {
			return false
		}
	}
	return true
}

// Names lists libraries with recorded state, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.state.Libraries))
	for n := range m.state.Libraries {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
