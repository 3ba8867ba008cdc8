// Package config loads and saves fireledger settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds all fireledger configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Storage    StorageConfig    `toml:"storage"`
	Appearance AppearanceConfig `toml:"appearance"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir       string `toml:"data_dir,omitempty"`
	HorizonMonths int    `toml:"horizon_months"`
	Currency      string `toml:"currency"`
}

// StorageConfig selects where records and the FIRE profile live.
type StorageConfig struct {
	Backend    string `toml:"backend"`
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DaemonConfig controls the background HTTP service.
type DaemonConfig struct {
	Addr            string `toml:"addr"`
	RefreshSchedule string `toml:"refresh_schedule"`
	EventsBuffer    int    `toml:"events_buffer"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			HorizonMonths: 3,
			Currency:      "₹",
		},
		Storage: StorageConfig{
			Backend: BackendJSON,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Daemon: DaemonConfig{
			Addr:            "127.0.0.1:8797",
			RefreshSchedule: "@every 1m",
			EventsBuffer:    200,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fireledger")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fireledger")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultDataDir is where records live when nothing else is configured.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "fireledger")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "fireledger")
}

// LoadFrom reads the config file at path, returning defaults if it doesn't
// exist. Environment overrides are applied on top. The result is not
// validated; callers apply their own overrides first and then call Validate.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user config path
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// LoadEnv loads a .env file into the process environment. A missing default
// .env is not an error; a missing explicit file is.
func LoadEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FIRELEDGER_DATA_DIR"); v != "" {
		cfg.General.DataDir = v
	}
	if v := os.Getenv("FIRELEDGER_STORAGE"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("FIRELEDGER_HORIZON_MONTHS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.General.HorizonMonths = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q (want %q or %q)", c.Storage.Backend, BackendJSON, BackendSQLite)
	}
	if c.General.HorizonMonths < 0 {
		return fmt.Errorf("horizon_months must not be negative, got %d", c.General.HorizonMonths)
	}
	return nil
}

// ResolvedDataDir returns the configured data directory or the default one.
func (c Config) ResolvedDataDir() string {
	if c.General.DataDir != "" {
		return c.General.DataDir
	}
	return DefaultDataDir()
}

// ResolvedSQLitePath returns the database path for the sqlite backend.
func (c Config) ResolvedSQLitePath() string {
	if c.Storage.SQLitePath != "" {
		return c.Storage.SQLitePath
	}
	return filepath.Join(c.ResolvedDataDir(), "fireledger.db")
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// ExistsAt reports whether a config file exists at path.
func ExistsAt(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
