package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultConfigYAML holds the built-in defaults every deployment starts from
//
//go:embed default.yaml
var DefaultConfigYAML []byte

// EnvPrefix is prepended to every environment override, e.g. MONEYMASTER_STORAGE_BACKEND
const EnvPrefix = "MONEYMASTER"

// Storage backends
const (
	BackendMemory   = "memory"
	BackendJSONFile = "jsonfile"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var validBackends = []string{BackendMemory, BackendJSONFile, BackendSQLite, BackendPostgres}

// Config is the application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	Ledger  LedgerConfig  `mapstructure:"ledger"`
}

// ServerConfig configures the gRPC listener
type ServerConfig struct {
	GRPCAddress string `mapstructure:"grpc_address"`
	APIToken    string `mapstructure:"api_token"`
}

// StorageConfig selects and configures the record store backend
type StorageConfig struct {
	Backend     string `mapstructure:"backend"`
	JSONPath    string `mapstructure:"json_path"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// LogConfig configures the logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LedgerConfig configures ledger behaviour at startup and for derived metrics
type LedgerConfig struct {
	SeedOnStart bool `mapstructure:"seed_on_start"`
	TrendMonths int  `mapstructure:"trend_months"`
}

// Load builds the configuration.
// Precedence: environment > external file > embedded defaults.
// A .env file in the working directory is loaded first when present.
// configPath is optional; an unreadable file is an error.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("failed to read built-in config: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration and reports every problem at once
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Server.GRPCAddress) == "" {
		problems = append(problems, "server.grpc_address cannot be empty")
	}
	if c.Server.APIToken == "" {
		problems = append(problems, "server.api_token cannot be empty")
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendJSONFile:
		problems = append(problems, checkFilePath("storage.json_path", c.Storage.JSONPath)...)
	case BackendSQLite:
		problems = append(problems, checkFilePath("storage.sqlite_path", c.Storage.SQLitePath)...)
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			problems = append(problems, "storage.postgres_dsn is required when using postgres backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid storage backend '%s': must be one of %v", c.Storage.Backend, validBackends))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be text or json", c.Log.Format))
	}

	if c.Ledger.TrendMonths < 1 || c.Ledger.TrendMonths > 36 {
		problems = append(problems, fmt.Sprintf("invalid ledger.trend_months %d: must be between 1 and 36", c.Ledger.TrendMonths))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func checkFilePath(key, path string) []string {
	if path == "" {
		return []string{key + " cannot be empty"}
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return []string{fmt.Sprintf("cannot create directory '%s' for %s: %v", dir, key, err)}
		}
	}
	return nil
}
