// Package commands implements the tally command line.
package commands

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Track expenses and summarize them by budget category",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCommand(),
		newWorkerCommand(),
		newImportCommand(),
		newSummaryCommand(),
		newExportCommand(),
	)

	return rootCmd
}
