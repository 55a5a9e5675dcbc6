package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// DefaultDatabaseFile is looked up one directory above the executable when
// no location is configured.
const DefaultDatabaseFile = "final_instacart.db"

// Config holds the application configuration. It is built once at startup
// and passed to whatever needs it.
type Config struct {
	// FinalDatabase and Database both name the data store; the first
	// non-empty one wins.
	FinalDatabase string `env:"FINAL_INSTACART_DB"`
	Database      string `env:"INSTACART_DB"`

	Addr        string `env:"ADDR" envDefault:":5001"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// DatabaseLocation resolves where the data store lives: the configured
// variable with ~ expanded, or the default file next to the deployment.
func (c Config) DatabaseLocation() string {
	location := c.FinalDatabase
	if location == "" {
		location = c.Database
	}
	if location != "" {
		return expandHome(location)
	}
	return DefaultDatabasePath()
}

// DefaultDatabasePath returns ../final_instacart.db relative to the running
// executable, or relative to the working directory when that is unknown.
func DefaultDatabasePath() string {
	exe, err := os.Executable()
	if err != nil {
		return filepath.Join("..", DefaultDatabaseFile)
	}
	return filepath.Join(filepath.Dir(exe), "..", DefaultDatabaseFile)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
