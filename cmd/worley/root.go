package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

const worleyLongDesc string = `Worley is a cellular noise toolkit.

Commands:
  worley sample    Sample the configured grid and report field statistics
  worley eval      Print the ranked feature distances at one point
  worley table     Print a permutation table`

const worleyShortDesc string = "Worley - cellular noise sampler"

func newWorleyCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:          "worley",
		Short:        worleyShortDesc,
		Long:         worleyLongDesc,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// JSON logs on stderr keep stdout for command output
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(newSampleCmd())
	cmd.AddCommand(newEvalCmd())
	cmd.AddCommand(newTableCmd())

	return cmd
}
