// Package commands implements the backcast subcommands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/backcast-labs/backcast/internal/config"
)

// addSelectorFlags registers the three required run-selector flags
// shared by every command that composes a configuration.
func addSelectorFlags(cmd *cobra.Command, sel *config.Selectors) {
	cmd.Flags().StringVar(&sel.Universe, "universe", "", "Universe configuration to use (e.g. US_Smoke)")
	cmd.Flags().StringVar(&sel.Content, "content", "", "Content configuration to use (e.g. fundamentals)")
	cmd.Flags().StringVar(&sel.Execution, "execution", "", "Execution configuration to use (e.g. prod)")
	_ = cmd.MarkFlagRequired("universe")
	_ = cmd.MarkFlagRequired("content")
	_ = cmd.MarkFlagRequired("execution")
}
