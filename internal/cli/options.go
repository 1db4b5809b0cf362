// internal/cli/options.go
package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/arc-language/lwsrecipe/pkg/options"
)

func (a *app) optionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Show the options offered on the target platform",
		Long:  `List every option of the recipe schema for the target platform with its accepted values and default.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.target()
			if err != nil {
				return err
			}

			rows := make([][]string, 0)
			for _, opt := range options.Schema(p) {
				rows = append(rows, []string{opt.Name, opt.Default, strings.Join(opt.Values, ", "), opt.Description})
			}

			printf(cmd.OutOrStdout(), "Platform: %s\n", p)
			printf(cmd.OutOrStdout(), "%s\n", renderTable([]string{"OPTION", "DEFAULT", "VALUES", "DESCRIPTION"}, rows))
			return nil
		},
	}
}
