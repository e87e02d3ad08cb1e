package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gyeh/ehrload/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "ehrload",
	Short: "Clinical research spreadsheets → i2b2 warehouse loader",
	Long: "Reads per-subject scores, events, demographics, diagnoses and lab results " +
		"from CSV, XLSX or Parquet exports and loads them into the i2b2 CRC schema.",
	SilenceUsage:      true,
	PersistentPreRunE: bindEnv,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", "", "Postgres connection string (or set EHRLOAD_DSN)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json (or set EHRLOAD_LOG_FORMAT)")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn or error (or set EHRLOAD_LOG_LEVEL)")
}

// bindEnv fills flags left unset on the command line from EHRLOAD_*
// environment variables.
func bindEnv(cmd *cobra.Command, args []string) error {
	v := viper.New()
	v.SetEnvPrefix("EHRLOAD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg.DSN = v.GetString("dsn")
	cfg.LogFormat = v.GetString("log-format")
	cfg.LogLevel = v.GetString("log-level")
	if cmd.Flags().Lookup("dataset") != nil {
		cfg.Dataset = v.GetString("dataset")
	}
	if cmd.Flags().Lookup("input") != nil {
		cfg.InputDir = v.GetString("input")
	}
	return nil
}
