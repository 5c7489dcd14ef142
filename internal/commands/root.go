package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "books",
		Short:   "Double-entry books for a small trading business",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newInitCommand(),
		newRunCommand(),
		newReportCommand(),
		newAccountsCommand(),
		newCloseCommand(),
	)

	return rootCmd
}
