package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("FIRELEDGER_DATA_DIR", "")
	t.Setenv("FIRELEDGER_STORAGE", "")
	t.Setenv("FIRELEDGER_HORIZON_MONTHS", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("FIRELEDGER_DATA_DIR", "")
	t.Setenv("FIRELEDGER_STORAGE", "")
	t.Setenv("FIRELEDGER_HORIZON_MONTHS", "")
	t.Setenv("LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := DefaultConfig()
	cfg.General.DataDir = "/tmp/ledger"
	cfg.General.HorizonMonths = 6
	cfg.Storage.Backend = BackendSQLite
	cfg.Appearance.Theme = "tokyo-night"

	require.NoError(t, SaveTo(path, cfg))

	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("FIRELEDGER_DATA_DIR", "/data/from/env")
	t.Setenv("FIRELEDGER_STORAGE", "sqlite")
	t.Setenv("FIRELEDGER_HORIZON_MONTHS", "12")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "/data/from/env", cfg.ResolvedDataDir())
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, 12, cfg.General.HorizonMonths)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, filepath.Join("/data/from/env", "fireledger.db"), cfg.ResolvedSQLitePath())
}

func TestLoadFrom_InvalidBackendOverriddenBeforeValidate(t *testing.T) {
	t.Setenv("FIRELEDGER_STORAGE", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\nbackend = \"postgres\"\n"), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), `unknown storage backend "postgres"`)

	cfg.Storage.Backend = BackendJSON
	assert.NoError(t, cfg.Validate())
}

func TestExistsAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	assert.False(t, ExistsAt(path))

	require.NoError(t, SaveTo(path, DefaultConfig()))
	assert.True(t, ExistsAt(path))
}

func TestLoadFrom_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[general\n"), 0o600))

	_, err := LoadFrom(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("FIRELEDGER_TEST_VALUE=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("FIRELEDGER_TEST_VALUE") })

	require.NoError(t, LoadEnv(envFile))
	assert.Equal(t, "from-dotenv", os.Getenv("FIRELEDGER_TEST_VALUE"))

	assert.Error(t, LoadEnv(filepath.Join(dir, "absent.env")))
}
