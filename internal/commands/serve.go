package commands

import (
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diwan-dev/diwan/internal/api"
	"github.com/diwan-dev/diwan/internal/config"
	"github.com/diwan-dev/diwan/internal/store/sqlite"
)

func newServeCommand() *cobra.Command {
	var configPath string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "diwan.yaml", "config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func runServe(cfg *config.Config) error {
	log := newLogger(cfg.Logging)

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := api.NewServer(db, log)
	if cfg.Server.MetricsEnabled {
		srv.EnableMetrics()
	}

	log.Info().Str("addr", cfg.Server.Addr).Msg("serving report API")
	return http.ListenAndServe(cfg.Server.Addr, srv.Handler())
}

// newLogger builds a zerolog logger from the logging config.
func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if cfg.Format == "json" {
		log = zerolog.New(os.Stderr)
	} else {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return log.Level(level).With().Timestamp().Logger()
}
