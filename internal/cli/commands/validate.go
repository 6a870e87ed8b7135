package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	cliconfig "github.com/backcast-labs/backcast/internal/cli/config"
	"github.com/backcast-labs/backcast/internal/config"
)

// NewValidateCommand creates the validate command: compose the run
// configuration and check it without running anything.
func NewValidateCommand() *cobra.Command {
	var sel config.Selectors

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Compose and validate a run configuration without running",
		Example: `  backcast validate --universe US_Smoke --content fundamentals --execution dev`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := cliconfig.GetSettings(cmd.Context())

			tree, err := config.Compose(settings.ConfigsDir, sel)
			if err != nil {
				return err
			}
			if err := config.Validate(tree); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration OK (universe=%s content=%s execution=%s)\n",
				sel.Universe, sel.Content, sel.Execution)
			for _, source := range tree.Sources() {
				fmt.Fprintf(cmd.OutOrStdout(), "  composed: %s\n", source)
			}
			return nil
		},
	}

	addSelectorFlags(cmd, &sel)
	return cmd
}
