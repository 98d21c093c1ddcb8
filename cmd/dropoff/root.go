package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/dropoff/internal/config"
	"github.com/gyeh/dropoff/internal/db"
	"github.com/gyeh/dropoff/internal/exitcode"
	"github.com/gyeh/dropoff/internal/pipeline"
)

const dsnEnv = "DROPOFF_DB_URL"

var (
	cfg        config.Config
	configPath string
	envFile    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "dropoff",
	Short: "Patient drop-off risk pipeline",
	Long: "Cleans and integrates patient demographics, visits and event logs, " +
		"segments patients, and trains drop-off classifiers. Results are written " +
		"as CSV and optionally recorded in Postgres.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		if cfg.DSN == "" {
			cfg.DSN = os.Getenv(dsnEnv)
		}
		if configPath != "" {
			return cfg.LoadFromFile(configPath)
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", "", "Postgres connection string (or set "+dsnEnv+")")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	pf.StringVar(&configPath, "config", "", "YAML file with pipeline parameters")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file to load when present")
	pf.StringVar(&cfg.OutDir, "out", "out", "Output directory")
}

// addInputFlags registers the three raw input paths on cmd.
func addInputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&cfg.DemographicsPath, "demographics", "", "Path to demographics CSV (required)")
	f.StringVar(&cfg.VisitsPath, "visits", "", "Path to visits CSV (required)")
	f.StringVar(&cfg.LogsPath, "logs", "", "Path to event log XML (required)")
	_ = cmd.MarkFlagRequired("demographics")
	_ = cmd.MarkFlagRequired("visits")
	_ = cmd.MarkFlagRequired("logs")
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openRecorder connects to Postgres when a DSN is configured. A nil
// Recorder means results are not persisted.
func openRecorder(ctx context.Context, log zerolog.Logger) (pipeline.Recorder, func()) {
	if cfg.DSN == "" {
		log.Info().Msg("no DSN configured, skipping persistence")
		return nil, func() {}
	}
	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	return db.NewStore(pool), pool.Close
}

// phaseExitCode maps a failed pipeline phase to the process exit code.
func phaseExitCode(phase string) int {
	switch phase {
	case pipeline.PhaseLoad, pipeline.PhaseClean:
		return exitcode.InputError
	case pipeline.PhaseTrain:
		return exitcode.TrainError
	case pipeline.PhaseExport:
		return exitcode.ExportError
	case pipeline.PhasePersist:
		return exitcode.DBConnError
	default:
		return exitcode.TransformError
	}
}

// exitOnError logs err and exits with the code for its phase.
func exitOnError(log zerolog.Logger, command string, err error) {
	var pe *pipeline.PipelineError
	if errors.As(err, &pe) {
		log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg(command + " failed")
		os.Exit(phaseExitCode(pe.Phase))
	}
	log.Error().Err(err).Msg(command + " failed")
	os.Exit(exitcode.TransformError)
}
