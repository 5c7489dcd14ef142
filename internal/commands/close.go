package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/ledger"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/orders"
	"github.com/cleared-dev/books/internal/render"
)

func newCloseCommand() *cobra.Command {
	var repoDir string
	var date string

	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close income and expense accounts into retained earnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			closeDate := time.Now().UTC().Truncate(24 * time.Hour)
			if date != "" {
				var err error
				closeDate, err = time.Parse(orders.DateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
				}
			}
			return runClose(cmd, repoDir, closeDate)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "closing date, YYYY-MM-DD (default today)")
	addRepoFlag(cmd, &repoDir)
	return cmd
}

func runClose(cmd *cobra.Command, repoDir string, date time.Time) error {
	services, repo, log, err := openRepo(cmd, repoDir, nil)
	if err != nil {
		return err
	}
	defer services.Close()

	out := cmd.OutOrStdout()
	return services.Invoke(func(l *ledger.Ledger, chart *accounts.Service, store orders.Store) error {
		netIncome := l.IncomeStatement().NetIncome()
		entry, err := l.Close(date, repo.Config.Accounts.RetainedEarnings)
		if err != nil {
			return fmt.Errorf("closing books: %w", err)
		}
		if entry == nil {
			fmt.Fprintln(out, "Nothing to close")
			return nil
		}

		ctx := cmd.Context()
		if err := store.SaveEntries(ctx, []model.EntryRecord{entry.Record()}); err != nil {
			return fmt.Errorf("saving closing entry: %w", err)
		}
		if err := store.SaveAccounts(ctx, l.AccountRecords()); err != nil {
			return fmt.Errorf("saving accounts: %w", err)
		}
		if err := chart.CarryForward(l); err != nil {
			return err
		}
		if err := chart.Save(repo.Root); err != nil {
			return err
		}

		log.WithField("entry_id", entry.ID()).Info("books closed")
		fmt.Fprintf(out, "Closed %s net income into %s (entry %s)\n",
			render.Amount(netIncome, repo.Config.Business.Currency),
			repo.Config.Accounts.RetainedEarnings, entry.ID())
		return nil
	})
}
