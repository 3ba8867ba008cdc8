package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fireledger/fireledger/internal/cli"
	"github.com/fireledger/fireledger/internal/config"
	"github.com/fireledger/fireledger/internal/logging"
	"github.com/fireledger/fireledger/internal/model"
	"github.com/fireledger/fireledger/internal/pipeline"
	"github.com/fireledger/fireledger/internal/store"
	"github.com/fireledger/fireledger/internal/tui/theme"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagConfigFile string
	flagEnvFile    string
	flagDataDir    string
	flagStorage    string
	flagLogLevel   string
	flagJSON       bool
)

// Populated by PersistentPreRunE before any command runs.
var (
	appConfig config.Config
	logger    *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:               "fireledger",
	Short:             "Savings portfolio and FIRE projection tracker",
	Long:              "Track fixed deposits, funds, provident accounts and other savings, and project your path to financial independence.",
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.WithError(err).Debug("command failed")
		}
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfigFile, "config", "", "Config file (default "+config.Path()+")")
	pf.StringVar(&flagEnvFile, "env-file", "", "Load environment variables from this file (default ./.env if present)")
	pf.StringVarP(&flagDataDir, "data-dir", "d", "", "Directory holding savings, goals and FIRE profile data")
	pf.StringVar(&flagStorage, "storage", "", "Storage backend: json or sqlite")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&flagJSON, "json", false, "Print machine-readable JSON instead of tables")
}

// prepare loads .env, config and the logger. Flags win over env, env over file.
func prepare(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(flagEnvFile); err != nil {
		return err
	}

	cfg, err := config.LoadFrom(configPath())
	if err != nil {
		return err
	}

	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	if flagStorage != "" {
		cfg.Storage.Backend = flagStorage
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	appConfig = cfg
	logger = logging.New(cfg.Log.Level, cfg.Log.Format)
	cli.Currency = cfg.General.Currency
	if !theme.SetActive(cfg.Appearance.Theme) {
		logger.WithField("theme", cfg.Appearance.Theme).Warn("unknown theme, using default")
	}

	logger.WithFields(logrus.Fields{
		"command": cmd.CommandPath(),
		"backend": cfg.Storage.Backend,
		"dataDir": cfg.ResolvedDataDir(),
	}).Debug("configured")
	return nil
}

// configPath is the config file in effect: --config or the XDG default.
func configPath() string {
	if flagConfigFile != "" {
		return flagConfigFile
	}
	return config.Path()
}

// openStore opens the configured backend. Callers must Close it.
func openStore() (store.Store, error) {
	st, err := store.Open(appConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", appConfig.Storage.Backend, err)
	}
	return st, nil
}

// loadData is the shared data loading path used by the read-only commands.
func loadData(ctx context.Context) (*pipeline.LoadResult, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()

	result, err := pipeline.Load(ctx, st)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"records": len(result.Records),
		"goals":   len(result.Goals),
		"took":    result.Took,
	}).Debug("loaded")
	return result, nil
}

// withStore runs fn against an open store and closes it afterwards.
func withStore(fn func(store.Store) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return fn(st)
}

func today() model.Date { return model.Today() }

// printJSON writes v to stdout as indented JSON for --json output.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
