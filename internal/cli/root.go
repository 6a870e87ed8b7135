// Package cli provides the command-line interface for backcast.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/backcast-labs/backcast/internal/cli/commands"
	"github.com/backcast-labs/backcast/internal/cli/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

var cfgFile string

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "backcast",
		Short: "Backcast - Backtest Run Configurator",
		Long: `Backcast composes reproducible run configurations for a quantitative
backtesting pipeline, validates them, validates fetched financial-statement
records against a declarative schema, and writes per-run artifacts.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			settings, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := new(slog.LevelVar)
			level.Set(slog.LevelInfo)
			if settings.Verbose {
				level.Set(slog.LevelDebug)
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))

			ctx := config.WithSettings(cmd.Context(), settings)
			ctx = config.WithLogger(ctx, logger)
			ctx = config.WithLogLevel(ctx, level)
			cmd.SetContext(ctx)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default: ./backcast.yaml)")
	rootCmd.PersistentFlags().String("configs-dir", "", "Path to the run configuration sources")
	rootCmd.PersistentFlags().String("outputs-dir", "", "Path to the run outputs root")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewShowConfigCommand())
	rootCmd.AddCommand(commands.NewSchemaCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))

	return rootCmd
}

// Execute runs the root command. Error reporting and exit codes are the
// process boundary's job in cmd/backcast.
func Execute() error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(os.Args[1:])
	return rootCmd.Execute()
}
