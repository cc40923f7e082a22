package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habitify.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.RateLimit != 120 {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Database.TxTimeout != 5*time.Second || cfg.Database.MaxOpenConns != 25 {
		t.Errorf("database defaults = %+v", cfg.Database)
	}
	if strings.HasPrefix(cfg.Database.DSN, "~") {
		t.Errorf("DSN not expanded: %s", cfg.Database.DSN)
	}
	if !cfg.Rollover.Enabled || cfg.Rollover.At != "00:00" {
		t.Errorf("rollover defaults = %+v", cfg.Rollover)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9090"
  operator_token: from-file
  cors_origins:
    - https://app.example.com
database:
  dsn: /srv/habitify/habitify.db
  tx_timeout: 2s
rollover:
  timezone: UTC
  at: "03:30"
`)
	t.Setenv("HABITIFY_DATABASE_TX_TIMEOUT", "750ms")
	t.Setenv("HABITIFY_SERVER_OPERATOR_TOKEN", "from-env")
	t.Setenv("HABITIFY_LOG_DEBUG", "true")
	t.Setenv("HABITIFY_UNRELATED", "ignored")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.OperatorToken != "from-env" {
		t.Errorf("env should override file, token = %q", cfg.Server.OperatorToken)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "https://app.example.com" {
		t.Errorf("cors = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Database.DSN != "/srv/habitify/habitify.db" || cfg.Database.TxTimeout != 750*time.Millisecond {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Rollover.At != "03:30" || !cfg.Log.Debug {
		t.Errorf("rollover/log = %+v %+v", cfg.Rollover, cfg.Log)
	}

	loc, err := cfg.Location()
	if err != nil || loc.String() != "UTC" {
		t.Errorf("Location() = %v, %v", loc, err)
	}
}

func TestLoadSliceFromEnv(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("HABITIFY_SERVER_CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("cors = %v", cfg.Server.CORSOrigins)
	}
}

func TestLoadConfigPathFromEnv(t *testing.T) {
	path := writeConfig(t, "server:\n  rate_limit: 0\n")
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.RateLimit != 0 {
		t.Errorf("rate limit = %d, want 0", cfg.Server.RateLimit)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"bad rollover time", "rollover:\n  at: \"25:00\"\n", "Invalid at format. Use HH:MM"},
		{"bad timezone", "rollover:\n  timezone: Mars/Olympus\n", "timezone must be a valid IANA timezone"},
		{"bad addr", "server:\n  addr: nowhere\n", "addr must be host:port"},
		{"zero tx timeout", "database:\n  tx_timeout: 0s\n", "tx_timeout must be greater than"},
		{"empty dsn", "database:\n  dsn: \"\"\n", "Missing required field: dsn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("explicit missing config file should fail")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"HABITIFY_DATABASE_DSN":        "database.dsn",
		"HABITIFY_SERVER_READ_TIMEOUT": "server.read_timeout",
		"HABITIFY_ROLLOVER_LOCK_FILE":  "rollover.lock_file",
		"HABITIFY_LOG_DIR":             "log.dir",
		"HABITIFY_CONFIG":              "",
		"HABITIFY_SERVER_":             "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsPostgres(t *testing.T) {
	tests := map[string]bool{
		"postgres://habitify@db/habitify":   true,
		"postgresql://habitify@db/habitify": true,
		"host=db dbname=habitify":           true,
		"/var/lib/habitify/habitify.db":     false,
		"habitify.db":                       false,
	}
	for dsn, want := range tests {
		if got := IsPostgres(dsn); got != want {
			t.Errorf("IsPostgres(%q) = %v, want %v", dsn, got, want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/.config/habitify"); got != filepath.Join(home, ".config/habitify") {
		t.Errorf("ExpandHome() = %q", got)
	}
	if got := ExpandHome("/etc/habitify"); got != "/etc/habitify" {
		t.Errorf("ExpandHome(abs) = %q", got)
	}
}
