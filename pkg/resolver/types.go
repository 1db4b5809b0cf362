// types.go
package resolver

import (
	"encoding/json"
	"sort"

	"github.com/arc-language/lwsrecipe/pkg/options"
)

// Dependency is an external library required at build and link time
type Dependency struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
}

// String renders the dependency as a package reference, e.g. "zlib/1.2.11"
func (d Dependency) String() string {
	return d.Name + "/" + d.Version
}

// DependencySet is a set of requirements, kept sorted by name
type DependencySet []Dependency

func newDependencySet(deps []Dependency) DependencySet {
	seen := make(map[string]bool)
	out := make(DependencySet, 0, len(deps))
	for _, d := range deps {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Contains reports whether a dependency with the given name is required
func (s DependencySet) Contains(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Get returns the dependency with the given name
func (s DependencySet) Get(name string) (Dependency, bool) {
	for _, d := range s {
		if d.Name == name {
			return d, true
		}
	}
	return Dependency{}, false
}

// References returns "name/version" strings in order
func (s DependencySet) References() []string {
	refs := make([]string, len(s))
	for i, d := range s {
		refs[i] = d.String()
	}
	return refs
}

type valueKind uint8

const (
	kindBool valueKind = iota
	kindString
)

// Value is a build definition value, either a boolean or a string
type Value struct {
	kind valueKind
	b    bool
	s    string
}

// Bool returns a boolean definition value
func Bool(b bool) Value {
	return Value{kind: kindBool, b: b}
}

// String returns a string definition value
func String(s string) Value {
	return Value{kind: kindString, s: s}
}

// IsBool reports whether the value is boolean
func (v Value) IsBool() bool {
	return v.kind == kindBool
}

// AsBool returns the boolean and whether the value actually is one
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == kindBool
}

// String renders the value the way CMake expects it on the command line
func (v Value) String() string {
	if v.kind == kindBool {
		if v.b {
			return "ON"
		}
		return "OFF"
	}
	return v.s
}

// MarshalYAML renders booleans as YAML booleans
func (v Value) MarshalYAML() (interface{}, error) {
	if v.kind == kindBool {
		return v.b, nil
	}
	return v.s, nil
}

// MarshalJSON renders booleans as JSON booleans
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == kindBool {
		return json.Marshal(v.b)
	}
	return json.Marshal(v.s)
}

// Definitions is an immutable set of build definitions
type Definitions struct {
	values map[string]Value
}

// Get returns a definition by name
func (d Definitions) Get(name string) (Value, bool) {
	v, ok := d.values[name]
	return v, ok
}

// Bool returns a boolean definition; ok is false when absent or not boolean
func (d Definitions) Bool(name string) (value bool, ok bool) {
	v, present := d.values[name]
	if !present {
		return false, false
	}
	return v.AsBool()
}

// Has reports whether a definition is present
func (d Definitions) Has(name string) bool {
	_, ok := d.values[name]
	return ok
}

// Len returns the number of definitions
func (d Definitions) Len() int {
	return len(d.values)
}

// Names returns the definition names sorted
func (d Definitions) Names() []string {
	names := make([]string, 0, len(d.values))
	for name := range d.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the definitions keyed by name
func (d Definitions) Map() map[string]Value {
	out := make(map[string]Value, len(d.values))
	for k, v := range d.values {
		out[k] = v
	}
	return out
}

// Resolution is the result of resolving one option set
type Resolution struct {
	Options      options.OptionSet
	Dependencies DependencySet
	Definitions  Definitions
}

// MarshalYAML renders the definitions as a sorted mapping
func (d Definitions) MarshalYAML() (interface{}, error) {
	return d.values, nil
}

// MarshalJSON renders the definitions as an object
func (d Definitions) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.values)
}
