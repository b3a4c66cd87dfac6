package rowbind

import (
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/rowbind/rowbind/internal/logger"
)

// Config holds all settings needed to open a database.
type Config struct {
	// Path is the database file. The file is created if it does not exist.
	Path string `yaml:"path"`

	// BusyTimeout bounds how long the engine retries when the file is
	// locked by another connection. Zero disables retrying.
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// Logging. The library is silent unless a level is set.
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // json, console
}

// DefaultConfig returns settings suitable for a single-writer embedded
// database: a short busy timeout and no logging.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:        path,
		BusyTimeout: 5 * time.Second,
	}
}

// LoadConfig reads a YAML config file.
//
// Example:
//
//	path: ./app.db
//	busy_timeout: 5s
//	log_level: info
//	log_format: json
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapError(ErrCantOpen, "cannot read config file", err)
	}
	cfg := DefaultConfig("")
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, wrapError(ErrFormat, "cannot parse config file", err)
	}
	return cfg, nil
}

func (cfg *Config) newLogger() *logger.Logger {
	if cfg.LogLevel == "" {
		return logger.Nop()
	}
	return logger.New(&logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})
}
