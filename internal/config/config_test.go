package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	return writeFile(t, dir, "config.yaml", content)
}

// unsetEnv removes key for the duration of the test and restores it afterwards,
// so values applied by a dotenv file do not leak into other tests.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "15s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

storage:
  driver: "postgres"
  archive_name: "journal"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2
  skip_migrations: true

bootstrap:
  mode: "empty"

log:
  level: "debug"
  format: "text"

cors:
  allowed_origins: "http://localhost:3000"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	// Storage
	if cfg.Storage.Driver != DriverPostgres {
		t.Errorf("storage.driver = %q, want %q", cfg.Storage.Driver, DriverPostgres)
	}
	if cfg.Storage.ArchiveName != "journal" {
		t.Errorf("storage.archive_name = %q, want %q", cfg.Storage.ArchiveName, "journal")
	}
	if cfg.Storage.Dir != "./data" {
		t.Errorf("storage.dir = %q, want default %q", cfg.Storage.Dir, "./data")
	}

	// Database
	if cfg.Database.DSN != "postgres://u:p@localhost:5432/testdb" {
		t.Errorf("database.dsn = %q", cfg.Database.DSN)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}
	if !cfg.Database.SkipMigrations {
		t.Error("database.skip_migrations should be true")
	}

	// Bootstrap
	if cfg.Bootstrap.Mode != BootstrapEmpty {
		t.Errorf("bootstrap.mode = %q, want %q", cfg.Bootstrap.Mode, BootstrapEmpty)
	}

	// Log
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}

	// CORS
	if cfg.CORS.AllowedOrigins != "http://localhost:3000" {
		t.Errorf("cors.allowed_origins = %q", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("STORAGE_ARCHIVE_NAME", "other")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
	if cfg.Storage.ArchiveName != "other" {
		t.Errorf("storage.archive_name = %q, want %q (ENV override)", cfg.Storage.ArchiveName, "other")
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	// Unset CONFIG_PATH so the fallback kicks in and the file is just absent.
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ENV_FILE", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Storage.Driver != DriverFile {
		t.Errorf("storage.driver = %q, want %q (default)", cfg.Storage.Driver, DriverFile)
	}
	if cfg.Storage.Dir != "./data" || cfg.Storage.ArchiveName != "meals" {
		t.Errorf("storage = %+v, want ./data/meals (default)", cfg.Storage)
	}
	if cfg.Bootstrap.Mode != BootstrapSamples {
		t.Errorf("bootstrap.mode = %q, want %q (default)", cfg.Bootstrap.Mode, BootstrapSamples)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_PostgresWithoutDSN(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, "storage:\n  driver: postgres\n")
	t.Setenv("CONFIG_PATH", path)
	unsetEnv(t, "DATABASE_DSN")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for postgres driver without dsn")
	}
}

func TestLoad_DotenvFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", writeYAML(t, dir, "log:\n  format: text\n"))
	t.Setenv("ENV_FILE", writeFile(t, dir, "test.env", "STORAGE_ARCHIVE_NAME=from-dotenv\n"))
	unsetEnv(t, "STORAGE_ARCHIVE_NAME")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage.ArchiveName != "from-dotenv" {
		t.Errorf("storage.archive_name = %q, want %q", cfg.Storage.ArchiveName, "from-dotenv")
	}
}

func TestLoad_DotenvDoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", writeYAML(t, dir, "log:\n  format: text\n"))
	t.Setenv("ENV_FILE", writeFile(t, dir, "test.env", "STORAGE_ARCHIVE_NAME=from-dotenv\n"))
	t.Setenv("STORAGE_ARCHIVE_NAME", "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage.ArchiveName != "from-env" {
		t.Errorf("storage.archive_name = %q, want %q", cfg.Storage.ArchiveName, "from-env")
	}
}

func TestLoad_ExplicitDotenvNotFound(t *testing.T) {
	t.Setenv("ENV_FILE", "/nonexistent/.env")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit env file")
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Storage.Driver = DriverPostgres
	cfg.Database.DSN = "postgres://localhost/db"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error for postgres driver: %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "s3" }},
		{"file driver without dir", func(c *Config) { c.Storage.Dir = " " }},
		{"empty archive name", func(c *Config) { c.Storage.ArchiveName = "" }},
		{"archive name with slash", func(c *Config) { c.Storage.ArchiveName = "a/b" }},
		{"archive name dot-dot", func(c *Config) { c.Storage.ArchiveName = ".." }},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = DriverPostgres }},
		{"postgres zero max conns", func(c *Config) {
			c.Storage.Driver = DriverPostgres
			c.Database.DSN = "postgres://localhost/db"
			c.Database.MaxConns = 0
		}},
		{"postgres min above max", func(c *Config) {
			c.Storage.Driver = DriverPostgres
			c.Database.DSN = "postgres://localhost/db"
			c.Database.MinConns = 10
		}},
		{"unknown bootstrap mode", func(c *Config) { c.Bootstrap.Mode = "random" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_FileDriverIgnoresDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// validConfig returns a Config that passes all validation checks.
func validConfig() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Storage: StorageConfig{
			Driver:      DriverFile,
			Dir:         "./data",
			ArchiveName: "meals",
		},
		Database: DatabaseConfig{
			MaxConns: 5,
			MinConns: 1,
		},
		Bootstrap: BootstrapConfig{Mode: BootstrapSamples},
		Log:       LogConfig{Level: "info", Format: "json"},
	}
}
