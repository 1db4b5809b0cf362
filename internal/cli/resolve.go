// internal/cli/resolve.go
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arc-language/lwsrecipe/pkg/resolver"
)

// resolveOutput is the machine readable form of a resolution
type resolveOutput struct {
	Platform    string               `json:"platform" yaml:"platform"`
	Options     map[string]string    `json:"options" yaml:"options"`
	Requires    []string             `json:"requires" yaml:"requires"`
	Definitions resolver.Definitions `json:"definitions" yaml:"definitions"`
}

func (a *app) resolveCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the requirements and CMake definitions for the options",
		Long: `Resolve the selected options into dependency requirements and build definitions.

Examples:
  lwsrecipe resolve -o ssl=openssl -o lws_with_zlib=True --platform linux
  lwsrecipe resolve -o shared=True --platform windows --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.recipe()
			if err != nil {
				return err
			}
			res, err := r.Resolve()
			if err != nil {
				return err
			}

			out := resolveOutput{
				Platform:    res.Options.Platform.String(),
				Options:     res.Options.Values(),
				Requires:    res.Dependencies.References(),
				Definitions: res.Definitions,
			}
			w := cmd.OutOrStdout()

			switch format {
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			case "yaml":
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(out); err != nil {
					return err
				}
				return enc.Close()
			case "table", "":
				reqs := make([][]string, 0, len(res.Dependencies))
				for _, dep := range res.Dependencies {
					reqs = append(reqs, []string{dep.Name, dep.Version})
				}
				defs := make([][]string, 0, res.Definitions.Len())
				for _, name := range res.Definitions.Names() {
					v, _ := res.Definitions.Get(name)
					defs = append(defs, []string{name, v.String()})
				}

				printf(w, "Platform: %s\n\n", out.Platform)
				if len(reqs) == 0 {
					printf(w, "Requirements: none\n\n")
				} else {
					printf(w, "Requirements:\n%s\n\n", renderTable([]string{"NAME", "VERSION"}, reqs))
				}
				printf(w, "Definitions:\n%s\n", renderTable([]string{"DEFINITION", "VALUE"}, defs))
				return nil
			default:
				return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json or yaml")
	return cmd
}
