package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ManifestFile is the manifest filename inside a plugin directory.
const ManifestFile = "plugin.json"

// Manifest describes a plugin's metadata and what it contributes.
type Manifest struct {
	// Identity
	Name        string `json:"name"`        // Unique identifier (e.g., "tree-sweep")
	Version     string `json:"version"`     // Semver (e.g., "1.2.0")
	DisplayName string `json:"displayName"` // Human-readable name
	Description string `json:"description"` // Short description
	Author      string `json:"author"`      // Author name or org
	License     string `json:"license"`     // SPDX license identifier
	Homepage    string `json:"homepage"`    // URL to plugin homepage

	// Entry point
	Main string `json:"main"` // Relative path to main Lua file (default: "init.lua")

	// Requirements
	Dependencies []string `json:"dependencies"` // Required plugins, loaded first

	// Contributions
	Traversals []TraversalContribution `json:"traversals"`

	// Internal: path to the plugin directory
	path string
}

// TraversalContribution declares a named traversal the plugin defines.
type TraversalContribution struct {
	Name        string `json:"name"`        // Name within the plugin namespace
	Description string `json:"description"` // What the traversal does
	Key         string `json:"key"`         // Optional single-key binding for interactive use
}

// Validation errors.
var (
	ErrMissingName       = errors.New("manifest: name is required")
	ErrInvalidName       = errors.New("manifest: name must be lowercase alphanumeric with hyphens")
	ErrInvalidVersion    = errors.New("manifest: version must be valid semver")
	ErrInvalidMain       = errors.New("manifest: main must be a .lua file")
	ErrMissingTraversal  = errors.New("manifest: traversal name is required")
	ErrInvalidTraversal  = errors.New("manifest: traversal name must be lowercase alphanumeric with hyphens")
	ErrRepeatedTraversal = errors.New("manifest: traversal declared twice")
	ErrInvalidKey        = errors.New("manifest: key must be a single character")
	ErrInvalidDependency = errors.New("manifest: dependency name is invalid")
	ErrSelfDependency    = errors.New("manifest: plugin cannot depend on itself")
)

// namePattern validates plugin and traversal names.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$|^[a-z]$`)

// semverPattern validates version strings (simplified semver).
var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)

// LoadManifest loads and validates a plugin manifest from a file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	m.path = filepath.Dir(path)
	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifestFromDir loads plugin.json from a plugin directory.
func LoadManifestFromDir(dir string) (*Manifest, error) {
	return LoadManifest(filepath.Join(dir, ManifestFile))
}

// NewManifestMinimal creates a manifest for a single-file plugin. The
// main file is the bare Lua script itself.
func NewManifestMinimal(name, dir, main string) *Manifest {
	m := &Manifest{
		Name:    name,
		Version: "0.0.0",
		Main:    main,
		path:    dir,
	}
	return m
}

// applyDefaults sets default values for optional fields.
func (m *Manifest) applyDefaults() {
	if m.Main == "" {
		m.Main = "init.lua"
	}
	if m.Version == "" {
		m.Version = "0.0.0"
	}
}

// Validate checks that the manifest is valid.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return ErrMissingName
	}
	if !namePattern.MatchString(m.Name) {
		return fmt.Errorf("%w: %s", ErrInvalidName, m.Name)
	}

	if !semverPattern.MatchString(m.Version) {
		return fmt.Errorf("%w: %s", ErrInvalidVersion, m.Version)
	}

	if filepath.Ext(m.Main) != ".lua" {
		return fmt.Errorf("%w: %s", ErrInvalidMain, m.Main)
	}

	for _, dep := range m.Dependencies {
		if !namePattern.MatchString(dep) {
			return fmt.Errorf("%w: %q", ErrInvalidDependency, dep)
		}
		if dep == m.Name {
			return fmt.Errorf("%w: %s", ErrSelfDependency, m.Name)
		}
	}

	seen := make(map[string]bool, len(m.Traversals))
	for i, tc := range m.Traversals {
		if tc.Name == "" {
			return fmt.Errorf("%w at index %d", ErrMissingTraversal, i)
		}
		if !namePattern.MatchString(tc.Name) {
			return fmt.Errorf("%w: %q", ErrInvalidTraversal, tc.Name)
		}
		if seen[tc.Name] {
			return fmt.Errorf("%w: %s", ErrRepeatedTraversal, tc.Name)
		}
		seen[tc.Name] = true
		if tc.Key != "" && utf8.RuneCountInString(tc.Key) != 1 {
			return fmt.Errorf("%w: %q", ErrInvalidKey, tc.Key)
		}
	}

	return nil
}

// Path returns the path to the plugin directory.
func (m *Manifest) Path() string {
	return m.path
}

// MainPath returns the full path to the main Lua file.
func (m *Manifest) MainPath() string {
	return filepath.Join(m.path, m.Main)
}

// Qualified returns the registry key for one of the plugin's
// traversals, "<plugin>.<name>".
func (m *Manifest) Qualified(traversal string) string {
	return m.Name + "." + traversal
}

// String returns a short description of the manifest.
func (m *Manifest) String() string {
	display := m.DisplayName
	if display == "" {
		display = m.Name
	}
	return fmt.Sprintf("%s v%s", display, m.Version)
}

// Clone creates a deep copy of the manifest.
func (m *Manifest) Clone() *Manifest {
	clone := *m
	if m.Dependencies != nil {
		clone.Dependencies = make([]string, len(m.Dependencies))
		copy(clone.Dependencies, m.Dependencies)
	}
	if m.Traversals != nil {
		clone.Traversals = make([]TraversalContribution, len(m.Traversals))
		copy(clone.Traversals, m.Traversals)
	}
	return &clone
}

// pluginNameFromFile derives a plugin name from a bare .lua filename.
func pluginNameFromFile(filename string) string {
	return strings.ToLower(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
}
