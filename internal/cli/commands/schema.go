package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	cliconfig "github.com/backcast-labs/backcast/internal/cli/config"
	"github.com/backcast-labs/backcast/internal/schema"
)

// NewSchemaCommand creates the schema command: load the statement
// schema and list what it declares.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "List the statements and requirement profiles in the schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := cliconfig.GetSettings(cmd.Context())
			out := cmd.OutOrStdout()

			registry, err := schema.Load(filepath.Join(settings.ConfigsDir, schema.FileName))
			if err != nil {
				return err
			}

			statements := registry.Statements()
			fmt.Fprintf(out, "Statements (%d):\n", len(statements))
			for _, name := range statements {
				fields, err := registry.FieldsForStatement(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %-24s %d fields\n", name, len(fields))
			}

			profiles := registry.Profiles()
			fmt.Fprintf(out, "Profiles (%d):\n", len(profiles))
			for _, name := range profiles {
				if len(statements) == 0 {
					fmt.Fprintf(out, "  %s\n", name)
					continue
				}
				required, err := registry.RequiredFields(name, statements[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %-24s e.g. %s requires: %s\n",
					name, statements[0], strings.Join(required, ", "))
			}
			return nil
		},
	}
}
