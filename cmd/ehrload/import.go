package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/ehrload/internal/db"
	"github.com/gyeh/ehrload/internal/exitcode"
	"github.com/gyeh/ehrload/internal/ingest"
	"github.com/gyeh/ehrload/internal/logging"
	"github.com/gyeh/ehrload/internal/sheet"
	"github.com/gyeh/ehrload/internal/warehouse"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an input folder into the i2b2 warehouse",
	RunE:  runImport,
}

func init() {
	addInputFlags(importCmd)
	rootCmd.AddCommand(importCmd)
}

// addInputFlags registers the flags shared by import and plan.
func addInputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&cfg.InputDir, "input", "", "Root folder scanned recursively for data files (required)")
	f.StringVar(&cfg.Dataset, "dataset", "", "Dataset tag used as source system, provider and concept namespace (or set EHRLOAD_DATASET)")
	f.StringVar(&cfg.ConfigFile, "config", "", "Optional YAML file with categories and sex_codes")
}

// loadConfig merges the YAML overlay and validates the result.
func loadConfig(log zerolog.Logger, withDSN bool) {
	if cfg.ConfigFile != "" {
		if err := cfg.LoadFromFile(cfg.ConfigFile); err != nil {
			log.Error().Err(err).Str("config", cfg.ConfigFile).Msg("config file invalid")
			os.Exit(exitcode.UsageError)
		}
	}
	validate := cfg.Validate
	if withDSN {
		validate = cfg.ValidateWithDSN
	}
	if err := validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loadConfig(log, true)

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	summary, err := ingest.Run(ctx, warehouse.NewStore(pool), log, &cfg)
	if err != nil {
		pool.Close()
		os.Exit(failureCode(log, err))
	}

	read, discarded, observations := summary.Totals()
	fmt.Printf("Import complete: %d rows read, %d discarded, %d observations (%.1fs)\n",
		read, discarded, observations, summary.DurationTotal.Seconds())
	return nil
}

// failureCode logs a failed run and picks the process exit code.
func failureCode(log zerolog.Logger, err error) int {
	var pe *ingest.PipelineError
	if errors.As(err, &pe) {
		log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("import failed")
	} else {
		log.Error().Err(err).Msg("import failed")
	}

	var me *sheet.MalformedError
	switch {
	case errors.As(err, &me), errors.Is(err, warehouse.ErrColumnLimit):
		return exitcode.ValidationError
	case pe != nil && pe.Phase == "discover":
		return exitcode.ValidationError
	default:
		return exitcode.LoadError
	}
}
