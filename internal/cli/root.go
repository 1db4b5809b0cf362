// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/arc-language/lwsrecipe"
	"github.com/arc-language/lwsrecipe/pkg/backend"
	"github.com/arc-language/lwsrecipe/pkg/core"
	"github.com/arc-language/lwsrecipe/pkg/logging"
	"github.com/arc-language/lwsrecipe/pkg/options"
	"github.com/arc-language/lwsrecipe/pkg/platform"
	"github.com/arc-language/lwsrecipe/pkg/registry"
)

// Version is the CLI version, set at link time
var Version = "0.1.0"

// app holds the state shared by all commands of one invocation
type app struct {
	cfgFile      string
	debug        bool
	logLevel     string
	platformName string
	optionArgs   []string
	depsBackend  string

	config *core.Config
	logger hclog.Logger
	host   *platform.Platform
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "lwsrecipe",
		Short: "Build and package libwebsockets",
		Long: `lwsrecipe - libwebsockets package recipe

Resolves the recipe options into CMake definitions and dependency
requirements, then fetches, builds and packages libwebsockets.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/lwsrecipe/config.yaml)")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&a.platformName, "platform", "", "target platform (windows, linux, other); defaults to the host")
	flags.StringArrayVarP(&a.optionArgs, "option", "o", nil, "option assignment name=value (repeatable)")
	flags.StringVar(&a.depsBackend, "deps", "", "check requirements with a system package manager (none, auto, apt, dnf, ...)")

	// Add commands
	rootCmd.AddCommand(a.optionsCmd())
	rootCmd.AddCommand(a.resolveCmd())
	rootCmd.AddCommand(a.sourceCmd())
	rootCmd.AddCommand(a.buildCmd())
	rootCmd.AddCommand(a.createCmd())
	rootCmd.AddCommand(a.infoCmd())
	rootCmd.AddCommand(a.syncCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// Execute executes the root command
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

func (a *app) init(cmd *cobra.Command, args []string) error {
	var err error
	a.config, err = core.LoadConfig(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Override config with flags
	if a.debug {
		a.config.Debug = true
	}
	if a.logLevel != "" {
		a.config.LogLevel = a.logLevel
	}
	if a.platformName != "" {
		a.config.Platform = a.platformName
	}
	if a.depsBackend != "" {
		a.config.DepsBackend = a.depsBackend
	}

	level, err := logging.ResolveLevel(a.config.LogLevel, a.config.Debug)
	if err != nil {
		return err
	}
	a.logger = logging.NewLogger("lwsrecipe", level, cmd.ErrOrStderr())

	a.host, err = platform.Detect()
	if err != nil {
		return fmt.Errorf("detecting platform: %w", err)
	}
	a.logger.Debug("host platform", "platform", a.host.String())
	return nil
}

// target returns the recipe platform selected by flag, config or host
func (a *app) target() (options.Platform, error) {
	return platform.ResolveTarget(a.config.Platform, a.host)
}

// optionSet merges the config profile and -o assignments for the target platform
func (a *app) optionSet() (options.OptionSet, error) {
	p, err := a.target()
	if err != nil {
		return options.OptionSet{}, err
	}
	return lwsrecipe.ParseOptions(p, a.config.Options, a.optionArgs)
}

func (a *app) recipe() (*lwsrecipe.Recipe, error) {
	o, err := a.optionSet()
	if err != nil {
		return nil, err
	}
	provider, err := a.provider()
	if err != nil {
		return nil, err
	}

	cfg := &lwsrecipe.Config{
		Settings: a.config,
		Options:  o,
		Logger:   a.logger,
	}
	// A nil *backend.Provider must not end up in the interface.
	if provider != nil {
		cfg.Provider = provider
	}
	return lwsrecipe.New(cfg)
}

// provider returns the system package checker, or nil when requirements are only reported
func (a *app) provider() (*backend.Provider, error) {
	if a.config.DepsBackend == "" || a.config.DepsBackend == "none" {
		return nil, nil
	}
	t, err := backend.ParseBackendType(a.config.DepsBackend)
	if err != nil {
		return nil, err
	}
	return backend.NewProvider(&backend.Config{
		Backend:  t,
		Registry: registry.New(a.config.CachePath),
		Logger:   a.logger,
	})
}

func printf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}
