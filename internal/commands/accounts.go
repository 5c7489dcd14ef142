package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/ledger"
	"github.com/cleared-dev/books/internal/render"
)

func newAccountsCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List accounts with their current balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, repo, _, err := openRepo(cmd, repoDir, nil)
			if err != nil {
				return err
			}
			defer services.Close()

			return services.Invoke(func(l *ledger.Ledger) error {
				return render.NewPrinter(cmd.OutOrStdout(), repo.Config.Business.Currency).Accounts(l.Accounts())
			})
		},
	}

	addRepoFlag(cmd, &repoDir)
	return cmd
}
