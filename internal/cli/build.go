// internal/cli/build.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/lwsrecipe/pkg/export"
)

func (a *app) sourceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "source",
		Short: "Fetch and extract the libwebsockets sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.recipe()
			if err != nil {
				return err
			}
			if err := r.Source(cmd.Context()); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "✓ Sources ready in %s\n", a.config.SourceDir())
			return nil
		},
	}
}

func (a *app) buildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Resolve, fetch sources and build libwebsockets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.recipe()
			if err != nil {
				return err
			}
			if err := r.Build(cmd.Context()); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "✓ Built in %s\n", a.config.BuildDir())
			return nil
		},
	}
}

func (a *app) createCmd() *cobra.Command {
	var narPath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Run the whole pipeline and package libwebsockets",
		Long: `Resolve the options, fetch the sources, build, install into the package folder
and write the package manifest. With --nar the package folder is also exported
as a Nix archive (compressed when the file name ends in .xz).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.recipe()
			if err != nil {
				return err
			}
			info, err := r.Create(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printf(w, "✓ Packaged %s/%s in %s\n", info.Name, info.Version, a.config.PackageFolder())
			printf(w, "  libs: %v\n", info.Libs)

			if narPath != "" {
				if err := export.WriteNAR(narPath, a.config.PackageFolder()); err != nil {
					return fmt.Errorf("exporting NAR: %w", err)
				}
				printf(w, "✓ Exported %s\n", narPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&narPath, "nar", "", "also export the package folder as a NAR file")
	return cmd
}
