// pkg/registry/registry.go
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/arc-language/lwsrecipe/pkg/resolver"
)

var (
	// ErrNotSynced indicates the deps/ folder has not been fetched yet
	ErrNotSynced = errors.New("registry: deps not found, run sync first")

	// ErrNotFound indicates there is no entry for a dependency
	ErrNotFound = errors.New("registry: dependency not found")
)

// Entry represents a single deps/<name>/index.toml file
type Entry struct {
	Name       string              `toml:"name"`
	Versions   []string            `toml:"versions"`
	Libs       []string            `toml:"libs"`
	SystemLibs map[string][]string `toml:"system_libs"` // keyed by recipe platform
	Backends   map[string]string   `toml:"backends"`    // system package names, e.g. apt = "libssl-dev"
}

// Offers reports whether the entry lists version. An entry without versions accepts any.
func (e *Entry) Offers(version string) bool {
	if len(e.Versions) == 0 {
		return true
	}
	for _, v := range e.Versions {
		if v == version {
			return true
		}
	}
	return false
}

// Registry provides lookup into the cached deps/ folder
type Registry struct {
	depsDir string
}

// New creates a Registry pointed at the cached deps directory
func New(cacheDir string) *Registry {
	return &Registry{
		depsDir: filepath.Join(cacheDir, "deps"),
	}
}

// Dir returns the deps directory the registry reads from
func (r *Registry) Dir() string {
	return r.depsDir
}

// Synced reports whether the deps directory exists
func (r *Registry) Synced() bool {
	info, err := os.Stat(r.depsDir)
	return err == nil && info.IsDir()
}

// Resolve takes a dependency name and a backend,
// returns the backend-specific package name.
// e.g. Resolve("openssl", "apt") -> "libssl-dev"
func (r *Registry) Resolve(name string, backend string) (string, error) {
	entry, err := r.Load(name)
	if err != nil {
		return "", err
	}

	pkgName, ok := entry.Backends[backend]
	if !ok {
		return "", fmt.Errorf("registry: dependency '%s' has no entry for backend '%s'", name, backend)
	}

	return pkgName, nil
}

// Load reads and parses deps/<name>/index.toml.
func (r *Registry) Load(name string) (*Entry, error) {
	if !r.Synced() {
		return nil, ErrNotSynced
	}

	path := filepath.Join(r.depsDir, name, "index.toml")

	data, err := os.ReadFile(path)
	if err != nil {
		// Check if the directory exists, to give a better error message.
		dirPath := filepath.Dir(path)
		if _, statErr := os.Stat(dirPath); statErr == nil {
			return nil, fmt.Errorf("registry: found dependency '%s' directory, but missing index.toml", name)
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	var entry Entry
	if _, err := toml.Decode(string(data), &entry); err != nil {
		return nil, fmt.Errorf("registry: failed to parse '%s': %w", name, err)
	}
	if entry.Name == "" {
		entry.Name = name
	}

	return &entry, nil
}

// Libs returns the link libraries of the given requirements, in requirement order.
// A requirement without registry entry links a library named after itself.
func (r *Registry) Libs(deps resolver.DependencySet, platform string) ([]string, error) {
	var libs []string
	seen := make(map[string]bool)
	add := func(names ...string) {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				libs = append(libs, n)
			}
		}
	}

	for _, dep := range deps {
		entry, err := r.Load(dep.Name)
		if errors.Is(err, ErrNotFound) {
			add(dep.Name)
			continue
		}
		if err != nil {
			return nil, err
		}
		if !entry.Offers(dep.Version) {
			return nil, fmt.Errorf("registry: %s does not offer version %s (have %v)", dep.Name, dep.Version, entry.Versions)
		}
		if len(entry.Libs) == 0 {
			add(dep.Name)
		} else {
			add(entry.Libs...)
		}
		add(entry.SystemLibs[platform]...)
	}

	return libs, nil
}

// List returns the names of all entries in the registry, sorted
func (r *Registry) List() ([]string, error) {
	if !r.Synced() {
		return nil, ErrNotSynced
	}
	entries, err := os.ReadDir(r.depsDir)
	if err != nil {
		return nil, fmt.Errorf("registry: reading deps: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(r.depsDir, e.Name(), "index.toml")); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
