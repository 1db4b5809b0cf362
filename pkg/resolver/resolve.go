// resolve.go
package resolver

import (
	"fmt"

	"github.com/arc-language/lwsrecipe/pkg/options"
)

// dependencyRule adds dep whenever when holds. Rules are independent of each other.
type dependencyRule struct {
	when func(o options.OptionSet) bool
	dep  Dependency
}

var dependencyRules = []dependencyRule{
	{
		// plugins are built on top of the libuv event loop
		when: func(o options.OptionSet) bool { return o.WithLibuv || o.WithPlugins },
		dep:  Dependency{Name: DepLibuv, Version: LibuvVersion},
	},
	{
		when: func(o options.OptionSet) bool { return o.WithLibevent },
		dep:  Dependency{Name: DepLibevent, Version: LibeventVersion},
	},
	{
		when: func(o options.OptionSet) bool { return o.WithZlib },
		dep:  Dependency{Name: DepZlib, Version: ZlibVersion},
	},
	{
		when: func(o options.OptionSet) bool { return o.TLSBackend == options.TLSOpenSSL },
		dep:  Dependency{Name: DepOpenSSL, Version: OpenSSLVersion},
	},
	{
		when: func(o options.OptionSet) bool { return o.TLSBackend == options.TLSMbedTLS },
		dep:  Dependency{Name: DepMbedTLS, Version: MbedTLSVersion},
	},
}

// definitionRule derives one definition. A rule returning present == false leaves the key out entirely.
type definitionRule struct {
	name   string
	derive func(o options.OptionSet) (v Value, present bool)
}

func always(v Value) func(options.OptionSet) (Value, bool) {
	return func(options.OptionSet) (Value, bool) { return v, true }
}

func flag(f func(o options.OptionSet) bool) func(options.OptionSet) (Value, bool) {
	return func(o options.OptionSet) (Value, bool) { return Bool(f(o)), true }
}

var definitionRules = []definitionRule{
	{DefWithoutTestApps, always(Bool(true))},
	{DefLinkTestAppsDynamic, always(Bool(true))},

	{DefWithShared, flag(func(o options.OptionSet) bool { return o.Shared })},
	{DefWithStatic, flag(func(o options.OptionSet) bool { return !o.Shared })},
	{DefStaticPIC, func(o options.OptionSet) (Value, bool) {
		if o.Shared || o.Platform == options.PlatformWindows {
			return Value{}, false
		}
		return Bool(o.PositionIndependentCode), true
	}},

	{DefWithLibuv, flag(func(o options.OptionSet) bool { return o.WithLibuv })},
	{DefWithLibevent, flag(func(o options.OptionSet) bool { return o.WithLibevent })},

	// The external zlib is always linked, never the copy vendored in the source tree.
	{DefWithZlib, flag(func(o options.OptionSet) bool { return o.WithZlib })},
	{DefWithBundledZlib, always(Bool(false))},
	{DefWithoutExtensions, flag(func(o options.OptionSet) bool { return !o.WithZlib })},
	{DefWithZipFops, flag(func(o options.OptionSet) bool { return o.WithZlib })},

	{DefWithSSL, flag(func(o options.OptionSet) bool { return o.TLSBackend.Enabled() })},
	{DefWithMbedTLS, flag(func(o options.OptionSet) bool { return o.TLSBackend == options.TLSMbedTLS })},
	// OpenSSL supplies SHA1 itself.
	{DefWithoutBuiltinSHA1, flag(func(o options.OptionSet) bool { return o.TLSBackend == options.TLSOpenSSL })},

	{DefIPv6, flag(func(o options.OptionSet) bool { return o.WithIPv6 })},
	{DefWithRanges, flag(func(o options.OptionSet) bool { return o.WithRanges })},
	{DefRoleMQTT, flag(func(o options.OptionSet) bool { return o.WithMQTT })},
	{DefWithHTTP2, flag(func(o options.OptionSet) bool { return o.WithHTTP2 })},
	{DefWithLwsServer, flag(func(o options.OptionSet) bool { return o.WithLwsServer })},
	{DefWithPlugins, flag(func(o options.OptionSet) bool { return o.WithPlugins })},
}

// Resolve derives the dependency requirements and build definitions for an option set.
// It fails only on option values outside their enum domain, and then returns nothing.
func Resolve(o options.OptionSet) (*Resolution, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	return &Resolution{
		Options:      o,
		Dependencies: Dependencies(o),
		Definitions:  definitions(o),
	}, nil
}

// Dependencies evaluates only the dependency rules. The option set is assumed valid.
func Dependencies(o options.OptionSet) DependencySet {
	var deps []Dependency
	for _, rule := range dependencyRules {
		if rule.when(o) {
			deps = append(deps, rule.dep)
		}
	}
	return newDependencySet(deps)
}

func definitions(o options.OptionSet) Definitions {
	values := make(map[string]Value, len(definitionRules))
	for _, rule := range definitionRules {
		v, present := rule.derive(o)
		if !present {
			continue
		}
		if _, dup := values[rule.name]; dup {
			// A duplicated rule is a programming error in the tables above.
			panic(fmt.Sprintf("resolver: definition %s derived twice", rule.name))
		}
		values[rule.name] = v
	}
	return Definitions{values: values}
}
