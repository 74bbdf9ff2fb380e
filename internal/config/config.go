// Package config loads service settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"

	NATSModeLocal    = "local"
	NATSModeEmbedded = "embedded"
	NATSModeRemote   = "remote"
)

// Config holds every setting main needs to wire the service
type Config struct {
	Port         string `env:"PORT" envDefault:"3000"`
	GRPCPort     string `env:"GRPC_PORT" envDefault:"50051"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	Environment  string `env:"ENVIRONMENT" envDefault:"development"`
	DBDriver     string `env:"DB_DRIVER" envDefault:"memory"`
	SQLiteFile   string `env:"SQLITE_FILE" envDefault:"team-builder.sqlite"`
	NATSURL      string `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	NATSSubject  string `env:"NATS_SUBJECT" envDefault:"team.events"`
	NATSMode     string `env:"NATS_MODE"`
	NATSStoreDir string `env:"NATS_STORE_DIR"`
	ShareBaseURL string `env:"SHARE_BASE_URL" envDefault:"http://localhost:3000/team-builder"`
}

// Load parses the environment and validates the result
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.NATSMode == "" {
		cfg.NATSMode = cfg.defaultNATSMode()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsDevelopment reports whether the service runs outside production
func (c Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}

// Development runs an embedded NATS, production dials a real one
func (c Config) defaultNATSMode() string {
	if c.IsDevelopment() {
		return NATSModeEmbedded
	}
	return NATSModeRemote
}

// Validate rejects unknown drivers and modes
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverMemory, DriverSQLite:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q (valid: memory, sqlite)", c.DBDriver)
	}
	switch c.NATSMode {
	case NATSModeLocal, NATSModeEmbedded, NATSModeRemote:
	default:
		return fmt.Errorf("unknown NATS_MODE %q (valid: local, embedded, remote)", c.NATSMode)
	}
	if c.DBDriver == DriverSQLite && c.SQLiteFile == "" {
		return fmt.Errorf("SQLITE_FILE is required for the sqlite driver")
	}
	return nil
}
