package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) Config {
	return Config{
		Server:  ServerConfig{GRPCAddress: ":8080", APIToken: "token"},
		Storage: StorageConfig{Backend: BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "ledger.db")},
		Log:     LogConfig{Level: "info", Format: "text"},
		Ledger:  LedgerConfig{SeedOnStart: true, TrendMonths: 6},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid sqlite config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "memory backend needs no path",
			mutate:  func(c *Config) { c.Storage = StorageConfig{Backend: BackendMemory} },
			wantErr: false,
		},
		{
			name:        "unknown backend",
			mutate:      func(c *Config) { c.Storage.Backend = "redis" },
			wantErr:     true,
			errorString: "invalid storage backend 'redis'",
		},
		{
			name:        "postgres without dsn",
			mutate:      func(c *Config) { c.Storage = StorageConfig{Backend: BackendPostgres} },
			wantErr:     true,
			errorString: "storage.postgres_dsn is required",
		},
		{
			name:        "jsonfile without path",
			mutate:      func(c *Config) { c.Storage = StorageConfig{Backend: BackendJSONFile} },
			wantErr:     true,
			errorString: "storage.json_path cannot be empty",
		},
		{
			name:        "bad log format",
			mutate:      func(c *Config) { c.Log.Format = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "trend months out of range",
			mutate:      func(c *Config) { c.Ledger.TrendMonths = 0 },
			wantErr:     true,
			errorString: "invalid ledger.trend_months 0",
		},
		{
			name:        "empty token",
			mutate:      func(c *Config) { c.Server.APIToken = "" },
			wantErr:     true,
			errorString: "server.api_token cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorString)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateReportsAllProblems(t *testing.T) {
	cfg := validConfig(t)
	cfg.Server.GRPCAddress = ""
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.grpc_address cannot be empty")
	assert.Contains(t, err.Error(), "invalid log format 'xml'")
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.GRPCAddress)
	assert.Equal(t, BackendJSONFile, cfg.Storage.Backend)
	assert.Equal(t, 6, cfg.Ledger.TrendMonths)
	assert.True(t, cfg.Ledger.SeedOnStart)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "config.yaml")
	content := "storage:\n  backend: memory\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("MONEYMASTER_LOG_FORMAT", "json")
	t.Setenv("MONEYMASTER_LEDGER_TREND_MONTHS", "12")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 12, cfg.Ledger.TrendMonths)
	assert.Equal(t, "dev-token", cfg.Server.APIToken)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MONEYMASTER_SERVER_API_TOKEN=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("MONEYMASTER_SERVER_API_TOKEN") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Server.APIToken)
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (unavailable before Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
