// internal/cli/version.go
package cli

import (
	"github.com/spf13/cobra"

	"github.com/arc-language/lwsrecipe"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			printf(w, "lwsrecipe version %s\n", Version)
			printf(w, "Recipe for %s %s (%s)\n", lwsrecipe.Name, lwsrecipe.Version, lwsrecipe.License)
			printf(w, "%s\n", lwsrecipe.URL)
		},
	}
}
