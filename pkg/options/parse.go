// parse.go
package options

import (
	"fmt"
	"sort"
	"strings"
)

// Parse builds an option set for the platform from "name=value" assignments merged over the defaults.
// Later assignments win. Any invalid assignment fails the whole parse.
func Parse(p Platform, assignments []string) (OptionSet, error) {
	return Merge(p, nil, assignments)
}

// Merge layers a profile (typically from the config file) and then command line assignments
// over the defaults for the platform.
func Merge(p Platform, profile map[string]string, assignments []string) (OptionSet, error) {
	if !p.IsValid() {
		return OptionSet{}, fmt.Errorf("%w: unknown platform %q", ErrInvalidConfiguration, p)
	}

	o := Defaults(p)

	// Sorted so that the first reported error does not depend on map order.
	keys := make([]string, 0, len(profile))
	for k := range profile {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := o.Set(k, profile[k]); err != nil {
			return OptionSet{}, &AssignmentError{Name: k, Err: err}
		}
	}

	for _, a := range assignments {
		name, value, err := SplitAssignment(a)
		if err != nil {
			return OptionSet{}, err
		}
		if err := o.Set(name, value); err != nil {
			return OptionSet{}, &AssignmentError{Name: name, Err: err}
		}
	}

	if err := o.Validate(); err != nil {
		return OptionSet{}, err
	}
	return o, nil
}

// Scope is the package prefix profiles use to address this recipe's options
const Scope = "libwebsockets"

// SplitAssignment splits "name=value". A "libwebsockets:" package prefix on the name is accepted
// the way package manager profiles scope options. Assignments scoped to any other package are rejected.
func SplitAssignment(a string) (string, string, error) {
	name, value, ok := strings.Cut(a, "=")
	if !ok {
		return "", "", fmt.Errorf("%w: option assignment %q must be name=value", ErrInvalidConfiguration, a)
	}
	name = strings.TrimSpace(name)
	if pkg, after, scoped := strings.Cut(name, ":"); scoped {
		if strings.TrimSpace(pkg) != Scope {
			return "", "", fmt.Errorf("%w: option assignment %q is scoped to package %q", ErrInvalidConfiguration, a, pkg)
		}
		name = strings.TrimSpace(after)
	}
	if name == "" {
		return "", "", fmt.Errorf("%w: option assignment %q has no name", ErrInvalidConfiguration, a)
	}
	return name, strings.TrimSpace(value), nil
}
