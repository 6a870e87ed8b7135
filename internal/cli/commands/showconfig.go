package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	cliconfig "github.com/backcast-labs/backcast/internal/cli/config"
	"github.com/backcast-labs/backcast/internal/config"
)

// NewShowConfigCommand creates the show-config command: compose the run
// configuration and print the merged tree.
func NewShowConfigCommand() *cobra.Command {
	var sel config.Selectors

	cmd := &cobra.Command{
		Use:   "show-config",
		Short: "Print the composed run configuration",
		Long: `Compose the run configuration from its four layered sources and print
the merged tree as YAML, including the attached _meta block. No
validation is performed; use 'validate' for that.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := cliconfig.GetSettings(cmd.Context())

			tree, err := config.Compose(settings.ConfigsDir, sel)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(tree.Raw())
			if err != nil {
				return fmt.Errorf("marshal composed configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	addSelectorFlags(cmd, &sel)
	return cmd
}
