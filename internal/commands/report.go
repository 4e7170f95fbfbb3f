package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diwan-dev/diwan/internal/config"
	"github.com/diwan-dev/diwan/internal/model"
	"github.com/diwan-dev/diwan/internal/report"
	"github.com/diwan-dev/diwan/internal/store/sqlite"
)

func newReportCommand() *cobra.Command {
	var (
		configPath    string
		period        string
		groupBy       string
		class         string
		account       string
		year          int
		month         int
		quarter       int
		officeID      int64
		directorateID int64
		csvPath       string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute a balance report",
		Long: `Report computes opening, movement, total and closing balances over a
monthly, quarterly or annual window, grouped by office or by the
chapter/section/item/type hierarchy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			sub := month
			if period == "quarterly" {
				sub = quarter
			}
			window, err := report.ParsePeriod(period, year, sub)
			if err != nil {
				return err
			}

			opts := report.Options{
				OfficeID:      officeID,
				DirectorateID: directorateID,
				Account:       account,
			}
			switch groupBy {
			case "office":
				opts.GroupBy = report.GroupByOffice
			case "hierarchy":
				opts.GroupBy = report.GroupByHierarchy
			default:
				return fmt.Errorf("group-by must be office or hierarchy")
			}
			switch class {
			case "":
			case "revenue":
				opts.Class = model.ClassRevenue
			case "use":
				opts.Class = model.ClassUse
			default:
				return fmt.Errorf("class must be revenue or use")
			}

			return runReport(cmd, cfg, window, opts, csvPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "diwan.yaml", "config file")
	cmd.Flags().StringVar(&period, "period", "monthly", "report window: monthly, quarterly or annual")
	cmd.Flags().StringVar(&groupBy, "group-by", "office", "grouping: office or hierarchy")
	cmd.Flags().StringVar(&class, "class", "", "restrict hierarchy rows to revenue or use")
	cmd.Flags().StringVar(&account, "account", "", "restrict office rows to one account")
	cmd.Flags().IntVar(&year, "year", 0, "report year (required)")
	cmd.Flags().IntVar(&month, "month", 1, "month for monthly reports (1-12)")
	cmd.Flags().IntVar(&quarter, "quarter", 1, "quarter for quarterly reports (1-4)")
	cmd.Flags().Int64Var(&officeID, "office-id", 0, "restrict to one office")
	cmd.Flags().Int64Var(&directorateID, "directorate-id", 0, "restrict to one directorate")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write CSV to this path instead of printing a table")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}

func runReport(cmd *cobra.Command, cfg *config.Config, window report.PeriodWindow, opts report.Options, csvPath string) error {
	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	if opts.GroupBy == report.GroupByHierarchy {
		opts.Labels, err = db.NodeLabels(ctx)
	} else {
		opts.Labels, err = db.OfficeLabels(ctx)
	}
	if err != nil {
		return fmt.Errorf("loading labels: %w", err)
	}

	entries, err := db.ListEntries(ctx, sqlite.EntryFilter{
		Year:          window.Year,
		OfficeID:      opts.OfficeID,
		DirectorateID: opts.DirectorateID,
	})
	if err != nil {
		return fmt.Errorf("reading entries: %w", err)
	}

	res, err := report.ComputeBalances(entries, window, opts)
	if err != nil {
		return err
	}

	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", csvPath, err)
		}
		defer f.Close()
		if err := report.WriteRows(f, res.Rows); err != nil {
			return err
		}
		cmd.Printf("Wrote %d rows to %s (%d skipped)\n", len(res.Rows), csvPath, res.Skipped)
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tLABEL\tOPEN DR\tOPEN CR\tPERIOD DR\tPERIOD CR\tTOTAL DR\tTOTAL CR\tCLOSE DR\tCLOSE CR")
	for _, row := range res.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Key, row.Label,
			row.Opening.Debit.StringFixed(2), row.Opening.Credit.StringFixed(2),
			row.Movement.Debit.StringFixed(2), row.Movement.Credit.StringFixed(2),
			row.Total.Debit.StringFixed(2), row.Total.Credit.StringFixed(2),
			row.Closing.Debit.StringFixed(2), row.Closing.Credit.StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if res.Skipped > 0 {
		cmd.Printf("%d entries skipped for data-quality reasons\n", res.Skipped)
	}
	return nil
}
