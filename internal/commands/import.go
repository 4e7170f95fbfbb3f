package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/diwan-dev/diwan/internal/auditlog"
	"github.com/diwan-dev/diwan/internal/config"
	"github.com/diwan-dev/diwan/internal/importer"
	"github.com/diwan-dev/diwan/internal/ingest"
	"github.com/diwan-dev/diwan/internal/store/sqlite"
)

func newImportCommand() *cobra.Command {
	var (
		configPath  string
		format      string
		office      string
		directorate string
		month       int
		year        int
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import spreadsheets from the import/ directory",
		Long: `Import scans <root>/import/ for Excel workbooks, parses each one with
the selected format, records the rows as one ledger batch per file, and
moves processed files to import/processed/.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if directorate == "" {
				directorate = cfg.Import.Directorate
			}
			return runImport(cmd, cfg, format, directorate, office, month, year)
		},
	}

	now := time.Now()
	cmd.Flags().StringVar(&configPath, "config", "diwan.yaml", "config file")
	cmd.Flags().StringVar(&format, "format", "hierarchy", "sheet format: hierarchy or accounts")
	cmd.Flags().StringVar(&office, "office", "", "office the sheets belong to")
	cmd.Flags().StringVar(&directorate, "directorate", "", "source directorate (default from config)")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "reporting month (1-12)")
	cmd.Flags().IntVar(&year, "year", now.Year(), "reporting year")

	return cmd
}

func runImport(cmd *cobra.Command, cfg *config.Config, format, directorate, office string, month, year int) error {
	parser := importer.DefaultRegistry().Get(format)
	if parser == nil {
		return fmt.Errorf("unknown format %q", format)
	}

	files, err := importer.Scan(cfg.Import.Root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		cmd.Println("No files to import.")
		return nil
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := ingest.NewService(db, newLogger(cfg.Logging))
	ctx := cmd.Context()

	for _, file := range files {
		f, err := os.Open(file.Path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", file.Name, err)
		}
		rows, err := parser.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", file.Name, err)
		}

		batch, err := svc.Ingest(ctx, ingest.Params{
			FileName:    file.Name,
			Directorate: directorate,
			Office:      office,
			Month:       month,
			Year:        year,
			Rows:        rows,
		})
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", file.Name, err)
		}

		if err := importer.MarkProcessed(cfg.Import.Root, file.Name); err != nil {
			return err
		}
		if err := auditlog.Append(cfg.Import.Root, []auditlog.Entry{{
			Timestamp: time.Now().UTC(),
			Actor:     actor(),
			Action:    "import",
			Details:   fmt.Sprintf("%s (%s)", file.Name, directorate),
			BatchID:   batch.Number,
		}}); err != nil {
			return err
		}

		cmd.Printf("%s: batch %s, %d entries, %d skipped\n",
			file.Name, batch.Number, batch.Imported, batch.Skipped)
	}
	return nil
}

func actor() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "unknown"
}
