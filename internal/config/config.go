// Package config loads the server configuration in layers: built-in
// defaults, an optional YAML file, then HABITIFY_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/julianstephens/habitify/internal/constants"
	"github.com/julianstephens/habitify/internal/validation"
)

const (
	// EnvPrefix prefixes every environment override
	EnvPrefix = "HABITIFY_"
	// ConfigPathEnvVar names the YAML file when --config is not given
	ConfigPathEnvVar = EnvPrefix + "CONFIG"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Rollover RolloverConfig `koanf:"rollover"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required,hostname_port"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	// OperatorToken guards the reset endpoints when set
	OperatorToken string   `koanf:"operator_token"`
	CORSOrigins   []string `koanf:"cors_origins"`
	// RateLimit is requests per minute per client IP; 0 disables it
	RateLimit int `koanf:"rate_limit" validate:"gte=0"`
}

type DatabaseConfig struct {
	// DSN is a SQLite path, a PostgreSQL connection string or "keyring"
	DSN          string        `koanf:"dsn" validate:"required"`
	MaxOpenConns int           `koanf:"max_open_conns" validate:"gte=1"`
	TxTimeout    time.Duration `koanf:"tx_timeout" validate:"gt=0"`
}

type RolloverConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Timezone string `koanf:"timezone" validate:"timezone"`
	At       string `koanf:"at" validate:"required,datetime=15:04"`
	LockFile string `koanf:"lock_file"`
}

type LogConfig struct {
	Debug bool   `koanf:"debug"`
	Dir   string `koanf:"dir"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            constants.DefaultServerAddr,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimit:       constants.DefaultRateLimitRequests,
		},
		Database: DatabaseConfig{
			DSN:          constants.DefaultDSN,
			MaxOpenConns: constants.DefaultMaxOpenConns,
			TxTimeout:    constants.DefaultTxTimeout,
		},
		Rollover: RolloverConfig{
			Enabled:  true,
			Timezone: constants.DefaultTimezone,
			At:       constants.DefaultRolloverAt,
		},
		Log: LogConfig{
			Dir: constants.DefaultConfigDir,
		},
	}
}

// Load builds the configuration. path may be empty, in which case
// HABITIFY_CONFIG is consulted; a missing file is only an error when it was
// named explicitly.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = os.Getenv(ConfigPathEnvVar)
		explicit = path != ""
	}
	if path != "" {
		path = ExpandHome(path)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		} else if explicit {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.Database.DSN = ExpandHome(cfg.Database.DSN)
	cfg.Log.Dir = ExpandHome(cfg.Log.Dir)
	cfg.Rollover.LockFile = ExpandHome(cfg.Rollover.LockFile)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if msgs := validation.Messages(c); len(msgs) > 0 {
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// Location returns the rollover timezone
func (c *Config) Location() (*time.Location, error) {
	if c.Rollover.Timezone == "" || c.Rollover.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Rollover.Timezone)
}

// IsPostgres reports whether dsn selects the PostgreSQL backend
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=") || strings.Contains(dsn, "dbname=")
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma separated env values into lists
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		var trimmed []string
		for _, p := range strings.Split(strVal, ",") {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var sections = []string{"server", "database", "rollover", "log"}

// envTransformFunc maps HABITIFY_DATABASE_TX_TIMEOUT to database.tx_timeout.
// Variables outside a known section are dropped.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok && rest != "" {
			return section + "." + rest
		}
	}
	return ""
}
