// recipe.go
package lwsrecipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"

	"github.com/arc-language/lwsrecipe/pkg/cmake"
	"github.com/arc-language/lwsrecipe/pkg/core"
	"github.com/arc-language/lwsrecipe/pkg/env"
	"github.com/arc-language/lwsrecipe/pkg/logging"
	"github.com/arc-language/lwsrecipe/pkg/options"
	"github.com/arc-language/lwsrecipe/pkg/registry"
	"github.com/arc-language/lwsrecipe/pkg/resolver"
	"github.com/arc-language/lwsrecipe/pkg/source"
)

// Recipe metadata
const (
	Name        = "libwebsockets"
	Version     = "4.0"
	Description = "Canonical libwebsockets.org websocket library"
	License     = "LGPL-2.1"
	Homepage    = "https://github.com/warmcat/libwebsockets"
	URL         = "https://github.com/bincrafters/conan-libwebsockets"
)

// ManifestFile is the report written into the package folder
const ManifestFile = "package.yaml"

// Metadata returns the recipe metadata
func Metadata() core.Metadata {
	return core.Metadata{
		Name:        Name,
		Version:     Version,
		Description: Description,
		URL:         URL,
		Homepage:    Homepage,
		License:     License,
		Topics:      []string{"libwebsockets", "websocket", "http2", "mqtt", "tls"},
	}
}

// Config configures a Recipe
type Config struct {
	Settings  *core.Config            // Paths, build settings and source pin; defaults when nil
	Options   options.OptionSet       // Required
	Logger    hclog.Logger            // Optional
	BuildTool core.BuildTool          // Optional: defaults to CMake
	Provider  core.DependencyProvider // Optional: requirements are only reported when nil
}

// Recipe runs the libwebsockets pipeline for one option set
type Recipe struct {
	settings *core.Config
	options  options.OptionSet
	logger   hclog.Logger
	tool     core.BuildTool
	provider core.DependencyProvider
	fetcher  *source.Fetcher
	registry *registry.Registry
	stage    core.Stage
	sourced  bool
}

// Manifest is the package report. It is written once and never read back as input.
type Manifest struct {
	Recipe      core.Metadata        `yaml:"recipe"`
	Options     map[string]string    `yaml:"options"`
	Requires    []string             `yaml:"requires"`
	Definitions resolver.Definitions `yaml:"definitions"`
	Package     *core.PackageInfo    `yaml:"package"`
}

// New creates a recipe. The option set is validated before anything else happens.
func New(cfg *Config) (*Recipe, error) {
	if cfg == nil {
		return nil, wrap("new", errors.New("config is required"))
	}
	if err := cfg.Options.Validate(); err != nil {
		return nil, wrap("new", err)
	}

	settings := cfg.Settings
	if settings == nil {
		settings = core.DefaultConfig()
	}
	logger := logging.OrNull(cfg.Logger)

	tool := cfg.BuildTool
	if tool == nil {
		tool = cmake.New(&cmake.Config{
			Path:      settings.CMakePath,
			Generator: settings.Generator,
			BuildType: settings.BuildType,
			Jobs:      settings.Jobs,
			Prefix:    settings.PackageFolder(),
			Logger:    logger,
		})
	}

	r := &Recipe{
		settings: settings,
		options:  cfg.Options,
		logger:   logger.Named("recipe"),
		tool:     tool,
		provider: cfg.Provider,
		fetcher: source.NewFetcher(&source.Config{
			DownloadDir: settings.DownloadDir(),
			Logger:      logger,
		}),
		registry: registry.New(settings.CachePath),
		stage:    core.StageOptionsDeclared,
	}

	r.logger.Debug("recipe created", "platform", cfg.Options.Platform, "work_dir", settings.WorkDir, "tool", tool.Name())
	return r, nil
}

// ParseOptions merges a profile and name=value assignments over the defaults of a platform
func ParseOptions(p options.Platform, profile map[string]string, assignments []string) (options.OptionSet, error) {
	o, err := options.Merge(p, profile, assignments)
	if err != nil {
		return options.OptionSet{}, wrap("parse options", err)
	}
	return o, nil
}

// Options returns the option set the recipe was created with
func (r *Recipe) Options() options.OptionSet {
	return r.options
}

// Stage returns the furthest pipeline stage reached
func (r *Recipe) Stage() core.Stage {
	return r.stage
}

func (r *Recipe) advance(s core.Stage) {
	if s > r.stage {
		r.logger.Debug("stage reached", "stage", s)
		r.stage = s
	}
}

// Resolve derives requirements and build definitions. It is recomputed on every call.
func (r *Recipe) Resolve() (*resolver.Resolution, error) {
	res, err := resolver.Resolve(r.options)
	if err != nil {
		return nil, wrap("resolve", err)
	}
	r.advance(core.StageResolved)
	return res, nil
}

// FetchDependencies hands every requirement to the dependency provider
func (r *Recipe) FetchDependencies(ctx context.Context) error {
	res, err := r.Resolve()
	if err != nil {
		return err
	}

	r.logger.Info("fetching dependencies", "requires", res.Dependencies.References())

	// A synced registry also checks that every pinned version is one it knows about.
	if r.registry.Synced() {
		if _, err := r.registry.Libs(res.Dependencies, r.options.Platform.String()); err != nil {
			return wrap("fetch dependencies", err)
		}
	}

	for _, dep := range res.Dependencies {
		if err := ctx.Err(); err != nil {
			return wrap("fetch dependencies", err)
		}
		if r.provider == nil {
			r.logger.Info("requirement", "ref", dep.String())
			continue
		}
		if err := r.provider.Provide(ctx, dep); err != nil {
			return wrap("fetch dependencies", fmt.Errorf("%s: %w", dep, err))
		}
	}

	r.advance(core.StageDependenciesFetched)
	return nil
}

// Source fetches and extracts the upstream archive into the source folder
func (r *Recipe) Source(ctx context.Context) error {
	archive := r.archive()
	err := r.fetcher.Fetch(ctx, archive, source.FetchOptions{
		Dest:        r.settings.SourceDir(),
		KeepArchive: true,
	})
	if err != nil {
		return wrap("source", err)
	}

	r.sourced = true
	if r.stage.Reached(core.StageDependenciesFetched) {
		r.advance(core.StageSourced)
	}
	return nil
}

func (r *Recipe) archive() source.Archive {
	meta := Metadata()
	if r.settings.Source.URL != "" {
		return source.Archive{URL: r.settings.Source.URL, SHA256: r.settings.Source.SHA256}
	}
	return source.Archive{
		URL:    meta.ArchiveURL(),
		SHA256: r.settings.Source.SHA256,
		Root:   meta.ArchiveRoot(),
	}
}

// Build runs every missing earlier step, then configures and compiles
func (r *Recipe) Build(ctx context.Context) error {
	// 1. Requirements
	if !r.stage.Reached(core.StageDependenciesFetched) {
		r.logger.Debug("step 1: fetching dependencies")
		if err := r.FetchDependencies(ctx); err != nil {
			return err
		}
	}

	// 2. Sources
	if !r.sourced {
		r.logger.Debug("step 2: fetching sources")
		if err := r.Source(ctx); err != nil {
			return err
		}
	}
	r.advance(core.StageSourced)

	// 3. Definitions are derived right before they are used
	res, err := r.Resolve()
	if err != nil {
		return err
	}

	r.logger.Debug("step 3: configuring", "tool", r.tool.Name())
	if err := r.tool.Configure(ctx, r.settings.SourceDir(), r.settings.BuildDir(), res.Definitions); err != nil {
		return wrap("build", err)
	}

	// 4. Compile
	r.logger.Debug("step 4: compiling")
	if err := r.tool.Build(ctx, r.settings.BuildDir()); err != nil {
		return wrap("build", err)
	}

	r.advance(core.StageBuilt)
	r.logger.Info("build complete", "build_dir", r.settings.BuildDir())
	return nil
}

// Package installs the build into the package folder and writes the manifest
func (r *Recipe) Package(ctx context.Context) (*core.PackageInfo, error) {
	if !r.stage.Reached(core.StageBuilt) {
		return nil, wrap("package", fmt.Errorf("%w: need %s, at %s", ErrStage, core.StageBuilt, r.stage))
	}

	res, err := r.Resolve()
	if err != nil {
		return nil, err
	}
	pkgDir := r.settings.PackageFolder()

	// 1. License
	r.logger.Debug("step 1: copying license")
	if err := r.copyLicense(pkgDir); err != nil {
		return nil, wrap("package", err)
	}

	// 2. Install
	r.logger.Debug("step 2: installing", "prefix", pkgDir)
	if err := r.tool.Install(ctx, r.settings.BuildDir(), pkgDir); err != nil {
		return nil, wrap("package", err)
	}

	// 3. CMake config files and docs are not part of the package
	if err := os.RemoveAll(filepath.Join(pkgDir, "share")); err != nil {
		return nil, wrap("package", fmt.Errorf("removing share: %w", err))
	}

	// 4. Package info and manifest
	info, err := r.info(res)
	if err != nil {
		return nil, wrap("package", err)
	}
	if err := r.writeManifest(pkgDir, res, info); err != nil {
		return nil, wrap("package", err)
	}

	r.advance(core.StagePackaged)
	r.logger.Info("package complete", "dir", pkgDir, "libs", info.Libs)
	return info, nil
}

// Create runs the whole pipeline
func (r *Recipe) Create(ctx context.Context) (*core.PackageInfo, error) {
	if err := r.Build(ctx); err != nil {
		return nil, err
	}
	return r.Package(ctx)
}

// Info describes the package folder for consumers
func (r *Recipe) Info() (*core.PackageInfo, error) {
	res, err := r.Resolve()
	if err != nil {
		return nil, err
	}
	info, err := r.info(res)
	if err != nil {
		return nil, wrap("info", err)
	}
	return info, nil
}

func (r *Recipe) info(res *resolver.Resolution) (*core.PackageInfo, error) {
	pkgDir := r.settings.PackageFolder()
	if _, err := os.Stat(pkgDir); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, pkgDir)
	}

	e := env.New(pkgDir, r.options.Platform)
	libs, err := e.CollectLibs()
	if err != nil {
		return nil, err
	}

	info := &core.PackageInfo{
		Name:        Name,
		Version:     Version,
		Platform:    r.options.Platform.String(),
		Libs:        libs,
		SystemLibs:  env.SystemLibs(r.options.Platform),
		IncludeDirs: relativeTo(pkgDir, e.GetIncludePaths()),
		LibDirs:     relativeTo(pkgDir, e.GetLibraryPaths()),
		Requires:    res.Dependencies.References(),
	}

	if r.registry.Synced() {
		required, err := r.registry.Libs(res.Dependencies, r.options.Platform.String())
		if err != nil {
			return nil, err
		}
		info.RequiredLibs = required
	}

	return info, nil
}

func (r *Recipe) copyLicense(pkgDir string) error {
	src := filepath.Join(r.settings.SourceDir(), "LICENSE")
	if _, err := os.Stat(src); os.IsNotExist(err) {
		r.logger.Warn("source has no LICENSE file", "path", src)
		return nil
	}

	dst := filepath.Join(pkgDir, "licenses", "LICENSE")
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating licenses directory: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening license: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating license: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying license: %w", err)
	}
	return nil
}

func (r *Recipe) writeManifest(pkgDir string, res *resolver.Resolution, info *core.PackageInfo) error {
	m := Manifest{
		Recipe:      Metadata(),
		Options:     r.options.Values(),
		Requires:    res.Dependencies.References(),
		Definitions: res.Definitions,
		Package:     info,
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, ManifestFile), data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

func relativeTo(base string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(base, p)
		if err != nil {
			rel = p
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}
