package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/config"
	"github.com/cleared-dev/books/internal/intake"
	"github.com/cleared-dev/books/internal/inventory"
	"github.com/cleared-dev/books/internal/ledger"
	"github.com/cleared-dev/books/internal/orders"
	"github.com/cleared-dev/books/internal/render"
	"github.com/cleared-dev/books/internal/runlog"
)

func newRunCommand() *cobra.Command {
	var dryRun bool
	var repoDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process the purchase orders waiting in import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrders(cmd, repoDir, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "process orders without saving anything")
	addRepoFlag(cmd, &repoDir)

	return cmd
}

type runSummary struct {
	accepted int
	rejected int
}

func runOrders(cmd *cobra.Command, repoDir string, dryRun bool) error {
	var tweak func(*config.Config)
	if dryRun {
		tweak = func(cfg *config.Config) {
			cfg.Storage = config.StorageConfig{Driver: config.DriverMemory}
			cfg.Notify = config.NotifyConfig{}
		}
	}

	services, repo, log, err := openRepo(cmd, repoDir, tweak)
	if err != nil {
		return err
	}
	defer func() {
		if err := services.Close(); err != nil {
			log.WithError(err).Warn("closing services")
		}
	}()

	files, err := intake.Scan(repo.Root)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintln(out, "No order files in import/")
		return nil
	}

	return services.Invoke(func(
		p *orders.Processor,
		chart *accounts.Service,
		l *ledger.Ledger,
		inv *inventory.Inventory,
	) error {
		printer := render.NewPrinter(out, repo.Config.Business.Currency)
		registry := intake.DefaultRegistry()

		var (
			summary   runSummary
			entries   []runlog.Entry
			processed []string
			errs      []error
		)
		for _, fi := range files {
			flog := log.WithField("file", fi.Name)
			reqs, err := registry.ReadFile(fi)
			if err != nil {
				flog.WithError(err).Error("skipping unreadable order file")
				continue
			}

			for _, req := range reqs {
				res := p.Accept(cmd.Context(), req)
				if err := printer.Result(fi.Name, res); err != nil {
					errs = append(errs, err)
				}
				entries = append(entries, runlog.FromResult(time.Now().UTC(), fi.Name, res))
				if res.OK() {
					summary.accepted++
				} else {
					summary.rejected++
				}
				if errors.Is(res.Err, orders.ErrPersistence) {
					flog.WithField("order_id", res.OrderID).Error("order posted to the ledger but not saved")
				}
			}
			processed = append(processed, fi.Name)
		}

		fmt.Fprintf(out, "%d accepted, %d rejected\n", summary.accepted, summary.rejected)
		if dryRun {
			return errors.Join(errs...)
		}

		// A file leaves import/ only after its orders are saved.
		if err := saveRun(repo.Root, log, chart, l, inv, entries); err != nil {
			return errors.Join(append(errs, err)...)
		}
		for _, name := range processed {
			if err := intake.MarkProcessed(repo.Root, name); err != nil {
				log.WithError(err).WithField("file", name).Error("order file posted but left in import/")
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// saveRun writes the balances and stock levels the run left behind so the
// next command starts from them.
func saveRun(root string, log logrus.FieldLogger, chart *accounts.Service, l *ledger.Ledger, inv *inventory.Inventory, entries []runlog.Entry) error {
	if err := chart.CarryForward(l); err != nil {
		return err
	}
	if err := chart.Save(root); err != nil {
		return err
	}
	if err := inv.Save(root); err != nil {
		return err
	}
	if err := runlog.Append(root, entries); err != nil {
		log.WithError(err).Warn("failed to write run log")
	}
	return nil
}
