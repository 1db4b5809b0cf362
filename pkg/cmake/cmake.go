// Package cmake drives the CMake build of the packaged library.
package cmake

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/arc-language/lwsrecipe/pkg/platform"
	"github.com/arc-language/lwsrecipe/pkg/resolver"
)

// DefaultBuildType is used when the config leaves it empty
const DefaultBuildType = "Release"

// Config configures the CMake driver
type Config struct {
	Path      string // cmake executable; looked up in PATH when empty
	Generator string // -G value; CMake's default when empty
	BuildType string // CMAKE_BUILD_TYPE
	Jobs      int    // --parallel value; 0 lets the native tool decide
	Prefix    string // CMAKE_INSTALL_PREFIX; omitted when empty
	Logger    hclog.Logger
	Runner    Runner // Optional: replaces os/exec
}

// Tool drives cmake configure, build and install
type Tool struct {
	config *Config
	logger hclog.Logger
	runner Runner
	path   string
}

// New creates a CMake driver
func New(cfg *Config) *Tool {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.BuildType == "" {
		cfg.BuildType = DefaultBuildType
	}

	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("cmake")

	runner := cfg.Runner
	if runner == nil {
		runner = &ExecRunner{Logger: logger}
	}

	return &Tool{
		config: cfg,
		logger: logger,
		runner: runner,
	}
}

// Name returns the tool name
func (t *Tool) Name() string {
	return "cmake"
}

// IsAvailable checks if cmake can be found
func (t *Tool) IsAvailable() bool {
	_, err := t.executable()
	return err == nil
}

func (t *Tool) executable() (string, error) {
	if t.path != "" {
		return t.path, nil
	}
	// An injected runner does not need a real binary on disk.
	if t.config.Runner != nil && t.config.Path == "" {
		t.path = "cmake"
		return t.path, nil
	}
	path, err := platform.ResolveTool("cmake", t.config.Path)
	if err != nil {
		return "", err
	}
	t.path = path
	return path, nil
}

// DefinitionArgs renders definitions as -D arguments, sorted by name
func DefinitionArgs(defs resolver.Definitions) []string {
	names := defs.Names()
	args := make([]string, 0, len(names))
	for _, name := range names {
		v, _ := defs.Get(name)
		typ := "STRING"
		if v.IsBool() {
			typ = "BOOL"
		}
		args = append(args, fmt.Sprintf("-D%s:%s=%s", name, typ, v.String()))
	}
	return args
}

// ConfigureArgs returns the full argument list of the configure step
func (t *Tool) ConfigureArgs(sourceDir, buildDir string, defs resolver.Definitions) []string {
	args := []string{"-S", sourceDir, "-B", buildDir}
	if t.config.Generator != "" {
		args = append(args, "-G", t.config.Generator)
	}
	args = append(args, "-DCMAKE_BUILD_TYPE:STRING="+t.config.BuildType)
	if t.config.Prefix != "" {
		args = append(args, "-DCMAKE_INSTALL_PREFIX:PATH="+t.config.Prefix)
	}
	return append(args, DefinitionArgs(defs)...)
}

// Configure generates the build tree
func (t *Tool) Configure(ctx context.Context, sourceDir, buildDir string, defs resolver.Definitions) error {
	exe, err := t.executable()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return fmt.Errorf("creating build directory: %w", err)
	}

	t.logger.Info("configuring", "source", sourceDir, "build", buildDir, "definitions", defs.Len())
	if err := t.runner.Run(ctx, buildDir, exe, t.ConfigureArgs(sourceDir, buildDir, defs)...); err != nil {
		return fmt.Errorf("cmake configure: %w", err)
	}
	return nil
}

// Build compiles the configured tree
func (t *Tool) Build(ctx context.Context, buildDir string) error {
	exe, err := t.executable()
	if err != nil {
		return err
	}

	args := []string{"--build", buildDir, "--config", t.config.BuildType}
	if t.config.Jobs > 0 {
		args = append(args, "--parallel", strconv.Itoa(t.config.Jobs))
	}

	t.logger.Info("building", "build", buildDir, "jobs", t.config.Jobs)
	if err := t.runner.Run(ctx, buildDir, exe, args...); err != nil {
		return fmt.Errorf("cmake build: %w", err)
	}
	return nil
}

// Install installs the build results under prefix
func (t *Tool) Install(ctx context.Context, buildDir, prefix string) error {
	exe, err := t.executable()
	if err != nil {
		return err
	}

	args := []string{"--install", buildDir, "--config", t.config.BuildType, "--prefix", prefix}

	t.logger.Info("installing", "build", buildDir, "prefix", prefix)
	if err := t.runner.Run(ctx, buildDir, exe, args...); err != nil {
		return fmt.Errorf("cmake install: %w", err)
	}
	return nil
}
