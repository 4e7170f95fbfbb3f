package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/diwan-dev/diwan/internal/config"
	"github.com/diwan-dev/diwan/internal/store/sqlite"
)

func newInitCommand() *cobra.Command {
	var directorate string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new diwan office workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, directorate)
		},
	}

	cmd.Flags().StringVar(&directorate, "directorate", "", "directorate this office reports under (required)")
	_ = cmd.MarkFlagRequired("directorate")

	return cmd
}

func runInit(cmd *cobra.Command, dir, directorate string) error {
	// Create directory structure.
	dirs := []string{
		"import",
		filepath.Join("import", "processed"),
		"logs",
		"exports",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write diwan.yaml.
	cfg := config.Default(directorate)
	cfg.Import.Root = dir
	cfg.Database.Path = filepath.Join(dir, "diwan.db")
	if err := config.Save(filepath.Join(dir, "diwan.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Create the database and apply the schema.
	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	db.Close()

	cmd.Printf("Initialized diwan workspace at %s\n", dir)
	return nil
}
