package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	if c.Storage.Driver == DriverPostgres {
		if err := c.Database.validate(); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	switch c.Bootstrap.Mode {
	case BootstrapSamples, BootstrapEmpty:
	default:
		return fmt.Errorf("bootstrap.mode must be %q or %q (got %q)", BootstrapSamples, BootstrapEmpty, c.Bootstrap.Mode)
	}

	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	return nil
}

func (s *StorageConfig) validate() error {
	switch s.Driver {
	case DriverFile:
		if strings.TrimSpace(s.Dir) == "" {
			return fmt.Errorf("dir is required for the %q driver", DriverFile)
		}
	case DriverPostgres:
	default:
		return fmt.Errorf("driver must be %q or %q (got %q)", DriverFile, DriverPostgres, s.Driver)
	}

	if s.ArchiveName == "" {
		return fmt.Errorf("archive_name is required")
	}
	if strings.ContainsAny(s.ArchiveName, `/\`) || s.ArchiveName == "." || s.ArchiveName == ".." {
		return fmt.Errorf("archive_name must be a plain name (got %q)", s.ArchiveName)
	}
	return nil
}

func (d *DatabaseConfig) validate() error {
	if d.DSN == "" {
		return fmt.Errorf("dsn is required for the %q storage driver", DriverPostgres)
	}
	if d.MaxConns < 1 {
		return fmt.Errorf("max_conns must be >= 1 (got %d)", d.MaxConns)
	}
	if d.MinConns < 0 || d.MinConns > d.MaxConns {
		return fmt.Errorf("min_conns must be in 0..max_conns (got %d)", d.MinConns)
	}
	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("format must be json or text (got %q)", l.Format)
	}
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be one of debug, info, warn, error (got %q)", l.Level)
	}
	return nil
}
