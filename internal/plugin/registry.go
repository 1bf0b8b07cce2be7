package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	plua "github.com/dshills/symflow/internal/plugin/lua"
	"github.com/dshills/symflow/internal/traverse"
	"github.com/dshills/symflow/internal/walker"
)

// Registry discovers and loads plugins and indexes the traversals they
// define. Traversal keys are qualified as "<plugin>.<name>".
type Registry struct {
	mu         sync.RWMutex
	paths      []string
	plugins    map[string]*Instance
	order      []string
	traversals map[string]traverse.Traversal
}

// Instance is one loaded plugin.
type Instance struct {
	// ID uniquely identifies this load of the plugin.
	ID string

	// Manifest is the plugin's validated manifest.
	Manifest *Manifest

	state  *plua.State
	bridge *plua.Bridge
}

// NewRegistry creates a registry searching the given paths.
func NewRegistry(paths ...string) *Registry {
	return &Registry{
		paths:      append([]string(nil), paths...),
		plugins:    make(map[string]*Instance),
		traversals: make(map[string]traverse.Traversal),
	}
}

// DefaultPluginPaths returns the conventional plugin directories.
func DefaultPluginPaths() []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "symflow", "plugins"))
	}
	return paths
}

// AddPath appends a search path.
func (r *Registry) AddPath(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

// Paths returns the search paths.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.paths...)
}

// Discover scans the search paths for plugin manifests. A directory
// with a plugin.json is a plugin; a bare .lua file becomes a
// single-file plugin named after the file. Manifests that fail to load
// are reported in the joined error; the rest are still returned.
func (r *Registry) Discover() ([]*Manifest, error) {
	r.mu.RLock()
	paths := append([]string(nil), r.paths...)
	r.mu.RUnlock()

	var manifests []*Manifest
	var errs []error
	for _, base := range paths {
		entries, err := os.ReadDir(base)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			errs = append(errs, fmt.Errorf("reading plugin path %s: %w", base, err))
			continue
		}
		for _, entry := range entries {
			switch {
			case entry.IsDir():
				m, err := LoadManifestFromDir(filepath.Join(base, entry.Name()))
				if err != nil {
					if errors.Is(err, os.ErrNotExist) {
						continue // directory without a manifest
					}
					errs = append(errs, fmt.Errorf("plugin %s: %w", entry.Name(), err))
					continue
				}
				manifests = append(manifests, m)
			case strings.EqualFold(filepath.Ext(entry.Name()), ".lua"):
				name := pluginNameFromFile(entry.Name())
				m := NewManifestMinimal(name, base, entry.Name())
				if err := m.Validate(); err != nil {
					errs = append(errs, fmt.Errorf("plugin file %s: %w", entry.Name(), err))
					continue
				}
				manifests = append(manifests, m)
			}
		}
	}

	sort.Slice(manifests, func(i, j int) bool { return manifests[i].Name < manifests[j].Name })
	return manifests, errors.Join(errs...)
}

// LoadAll discovers and loads every plugin, ordering loads so that a
// plugin's dependencies are loaded before it. Plugins whose
// dependencies cannot be satisfied are reported in the joined error;
// the rest still load.
func (r *Registry) LoadAll() error {
	manifests, err := r.Discover()
	var errs []error
	if err != nil {
		errs = append(errs, err)
	}

	pending := manifests
	for len(pending) > 0 {
		var next []*Manifest
		progress := false
		for _, m := range pending {
			if !r.dependenciesLoaded(m) {
				next = append(next, m)
				continue
			}
			if _, err := r.load(m); err != nil {
				errs = append(errs, fmt.Errorf("plugin %s: %w", m.Name, err))
			}
			progress = true
		}
		if !progress {
			for _, m := range next {
				errs = append(errs, fmt.Errorf("%w: plugin %s requires %s",
					ErrMissingDependency, m.Name, strings.Join(r.unmetDependencies(m), ", ")))
			}
			break
		}
		pending = next
	}

	return errors.Join(errs...)
}

func (r *Registry) dependenciesLoaded(m *Manifest) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, dep := range m.Dependencies {
		if _, ok := r.plugins[dep]; !ok {
			return false
		}
	}
	return true
}

func (r *Registry) unmetDependencies(m *Manifest) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var unmet []string
	for _, dep := range m.Dependencies {
		if _, ok := r.plugins[dep]; !ok {
			unmet = append(unmet, dep)
		}
	}
	return unmet
}

// Load loads the plugin in dir.
func (r *Registry) Load(dir string) (*Instance, error) {
	m, err := LoadManifestFromDir(dir)
	if err != nil {
		return nil, err
	}
	return r.load(m)
}

// load runs a plugin's script and records what it defines. The
// script's define calls land in the registry under the plugin's
// namespace; afterward every declared traversal must exist.
func (r *Registry) load(m *Manifest) (*Instance, error) {
	r.mu.RLock()
	_, dup := r.plugins[m.Name]
	r.mu.RUnlock()
	if dup {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyLoaded, m.Name)
	}

	state := plua.NewState()
	defined := make(map[string]traverse.Traversal)
	bridge := plua.NewBridge(state, func(name string, t traverse.Traversal) error {
		if !namePattern.MatchString(name) {
			return fmt.Errorf("%w: %q", ErrInvalidTraversal, name)
		}
		if _, ok := defined[name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateTraversal, name)
		}
		defined[name] = t
		return nil
	})
	bridge.Install()

	if err := state.DoFile(m.MainPath()); err != nil {
		state.Close()
		return nil, fmt.Errorf("running %s: %w", m.Main, err)
	}

	for _, tc := range m.Traversals {
		if _, ok := defined[tc.Name]; !ok {
			state.Close()
			return nil, fmt.Errorf("%w: %s", ErrTraversalNotDefined, tc.Name)
		}
	}

	inst := &Instance{
		ID:       uuid.New().String(),
		Manifest: m,
		state:    state,
		bridge:   bridge,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plugins[m.Name]; ok {
		state.Close()
		return nil, fmt.Errorf("%w: %s", ErrAlreadyLoaded, m.Name)
	}
	r.plugins[m.Name] = inst
	r.order = append(r.order, m.Name)
	for name, t := range defined {
		r.traversals[m.Qualified(name)] = t
	}
	return inst, nil
}

// Get returns a loaded plugin by name.
func (r *Registry) Get(name string) (*Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.plugins[name]
	return inst, ok
}

// Instances returns the loaded plugins in load order.
func (r *Registry) Instances() []*Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Instance, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.plugins[name])
	}
	return out
}

// Traversal returns a defined traversal by its qualified name.
func (r *Registry) Traversal(name string) (traverse.Traversal, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.traversals[name]
	return t, ok
}

// Names returns the qualified names of all defined traversals, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.traversals))
	for name := range r.traversals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BindWalker points every loaded plugin's script environment at w.
// Traversals with script conditions consult the walker bound when they
// run, so this must precede running plugin traversals that use
// predicates.
func (r *Registry) BindWalker(w *walker.Walker) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, inst := range r.plugins {
		inst.bridge.BindWalker(w)
	}
}

// Close shuts down every plugin's Lua state and clears the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for _, name := range r.order {
		if err := r.plugins[name].state.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing plugin %s: %w", name, err))
		}
	}
	r.plugins = make(map[string]*Instance)
	r.order = nil
	r.traversals = make(map[string]traverse.Traversal)
	return errors.Join(errs...)
}
