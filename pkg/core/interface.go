package core

import (
	"context"

	"github.com/arc-language/lwsrecipe/pkg/resolver"
)

// BuildTool is the external build system driving configure, build and install
type BuildTool interface {
	// Name returns the tool name (e.g. "cmake")
	Name() string

	// Configure generates the build tree in buildDir from sourceDir
	Configure(ctx context.Context, sourceDir, buildDir string, defs resolver.Definitions) error

	// Build compiles the configured build tree
	Build(ctx context.Context, buildDir string) error

	// Install installs the build results into prefix
	Install(ctx context.Context, buildDir, prefix string) error

	// IsAvailable checks if the tool can be run on this system
	IsAvailable() bool
}

// DependencyProvider makes a required library available before the build.
// Fetching dependencies belongs to the invoking package manager; this hook lets it plug in.
type DependencyProvider interface {
	Provide(ctx context.Context, dep resolver.Dependency) error
}

// DependencyProviderFunc adapts a function to DependencyProvider
type DependencyProviderFunc func(ctx context.Context, dep resolver.Dependency) error

// Provide calls f
func (f DependencyProviderFunc) Provide(ctx context.Context, dep resolver.Dependency) error {
	return f(ctx, dep)
}
