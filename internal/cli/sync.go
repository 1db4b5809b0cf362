// internal/cli/sync.go
package cli

import (
	"github.com/spf13/cobra"

	"github.com/arc-language/lwsrecipe/pkg/index"
	"github.com/arc-language/lwsrecipe/pkg/registry"
)

func (a *app) syncCmd() *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Refresh the dependency registry",
		Long:  `Clone the dependency registry repository and replace the cached deps/ folder.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := index.Sync(cmd.Context(), a.config.CachePath, index.Options{
				URL:      a.config.RegistryURL,
				Branch:   branch,
				Progress: cmd.ErrOrStderr(),
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}

			names, err := registry.New(a.config.CachePath).List()
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "✓ Dependency registry updated (%d entries)\n", len(names))
			return nil
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "registry branch (default: "+index.RepoBranch+")")
	return cmd
}
