// internal/cli/info.go
package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/arc-language/lwsrecipe"
	"github.com/arc-language/lwsrecipe/pkg/env"
)

func (a *app) infoCmd() *cobra.Command {
	var packageDir string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show package information for consumers",
		Long:  `Display recipe metadata and what consumers need to link against a packaged libwebsockets.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if packageDir != "" {
				a.config.PackageDir = packageDir
			}
			r, err := a.recipe()
			if err != nil {
				return err
			}
			info, err := r.Info()
			if err != nil {
				return err
			}

			meta := lwsrecipe.Metadata()
			w := cmd.OutOrStdout()
			printf(w, "Package: %s\n", info.Name)
			printf(w, "Version: %s\n", info.Version)
			printf(w, "License: %s\n", meta.License)
			printf(w, "Homepage: %s\n", meta.Homepage)
			printf(w, "Platform: %s\n", info.Platform)
			printf(w, "Folder: %s\n", a.config.PackageFolder())
			printf(w, "Libs: %s\n", strings.Join(info.Libs, " "))
			printf(w, "System libs: %s\n", strings.Join(info.SystemLibs, " "))
			if len(info.Requires) > 0 {
				printf(w, "Requires: %s\n", strings.Join(info.Requires, " "))
			}
			if len(info.RequiredLibs) > 0 {
				printf(w, "Required libs: %s\n", strings.Join(info.RequiredLibs, " "))
			}

			flags, err := env.New(a.config.PackageFolder(), r.Options().Platform).GetCompilerFlags()
			if err != nil {
				return err
			}
			printf(w, "Flags: %s\n", flags.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&packageDir, "package-dir", "", "package folder to inspect (default: <work_dir>/package)")
	return cmd
}
