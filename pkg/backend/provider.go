// pkg/backend/provider.go
package backend

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/hashicorp/go-hclog"

	"github.com/arc-language/lwsrecipe/pkg/registry"
	"github.com/arc-language/lwsrecipe/pkg/resolver"
)

// Config configures a system package provider
type Config struct {
	Backend  BackendType        // Defaults to auto-detection
	Registry *registry.Registry // Optional: maps requirement names to system package names
	Runner   Runner             // Optional: replaces os/exec
	Logger   hclog.Logger       // Optional
}

// Provider checks that every requirement is installed through the system package manager.
// It never installs anything itself; a missing package fails with the command to run.
type Provider struct {
	backend  BackendType
	query    query
	registry *registry.Registry
	runner   Runner
	logger   hclog.Logger
}

// NewProvider creates a provider for the configured or detected backend
func NewProvider(cfg *Config) (*Provider, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("backend")

	t := cfg.Backend
	if t == "" || t == BackendAuto {
		detected, err := Detect(runtime.GOOS)
		if err != nil {
			return nil, err
		}
		t = detected
	}

	q, ok := queries[t]
	if !ok {
		return nil, fmt.Errorf("unsupported backend: %s", t)
	}

	runner := cfg.Runner
	if runner == nil {
		if !commandExists(q.tool) {
			return nil, fmt.Errorf("%w: %s needs %s", ErrNoBackend, t, q.tool)
		}
		runner = ExecRunner{}
	}

	logger.Debug("using system package manager", "backend", t, "tool", q.tool)
	return &Provider{
		backend:  t,
		query:    q,
		registry: cfg.Registry,
		runner:   runner,
		logger:   logger,
	}, nil
}

// Name returns the backend in use
func (p *Provider) Name() string {
	return string(p.backend)
}

// PackageName maps a requirement to the backend's package name.
// Without a registry entry the requirement name is used as is.
func (p *Provider) PackageName(dep resolver.Dependency) string {
	if p.registry == nil || !p.registry.Synced() {
		return dep.Name
	}
	name, err := p.registry.Resolve(dep.Name, p.Name())
	if err != nil {
		if !errors.Is(err, registry.ErrNotFound) {
			p.logger.Debug("registry lookup failed", "dependency", dep.Name, "error", err)
		}
		return dep.Name
	}
	return name
}

// IsInstalled asks the package manager about a package
func (p *Provider) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	out, err := p.runner.Output(ctx, p.query.tool, p.query.args(pkg)...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}

	var exitErr interface{ ExitCode() int }
	if err != nil && !errors.As(err, &exitErr) {
		// the query tool itself could not run
		return false, fmt.Errorf("running %s: %w", p.query.tool, err)
	}
	if p.query.installed != nil {
		return err == nil && p.query.installed(pkg, out), nil
	}
	return err == nil, nil
}

// InstallHint returns the command that installs pkg
func (p *Provider) InstallHint(pkg string) string {
	return fmt.Sprintf(p.query.install, pkg)
}

// Provide implements core.DependencyProvider
func (p *Provider) Provide(ctx context.Context, dep resolver.Dependency) error {
	pkg := p.PackageName(dep)

	installed, err := p.IsInstalled(ctx, pkg)
	if err != nil {
		return err
	}
	if !installed {
		return fmt.Errorf("%w: %s (%s package %s), install it with: %s", ErrNotInstalled, dep, p.backend, pkg, p.InstallHint(pkg))
	}

	p.logger.Info("dependency available", "dependency", dep.String(), "package", pkg)
	return nil
}
