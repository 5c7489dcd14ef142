package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/ledger"
	"github.com/cleared-dev/books/internal/render"
)

const (
	reportBalanceSheet    = "balance-sheet"
	reportIncomeStatement = "income-statement"
)

func newReportCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:       "report [balance-sheet|income-statement]",
		Short:     "Print financial statements",
		Long:      "Print the balance sheet and income statement from current balances. Name one to print only that statement.",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{reportBalanceSheet, reportIncomeStatement},
		RunE: func(cmd *cobra.Command, args []string) error {
			which := ""
			if len(args) > 0 {
				which = args[0]
			}

			services, repo, _, err := openRepo(cmd, repoDir, nil)
			if err != nil {
				return err
			}
			defer services.Close()

			return services.Invoke(func(l *ledger.Ledger) error {
				p := render.NewPrinter(cmd.OutOrStdout(), repo.Config.Business.Currency)
				if which != reportIncomeStatement {
					if err := p.BalanceSheet(l.BalanceSheet()); err != nil {
						return err
					}
				}
				if which == "" {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				if which != reportBalanceSheet {
					return p.IncomeStatement(l.IncomeStatement())
				}
				return nil
			})
		},
	}

	addRepoFlag(cmd, &repoDir)
	return cmd
}
