package kuzu

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SystemConfig holds the engine settings applied when a database is opened.
// Zero numeric fields keep the engine's default.
type SystemConfig struct {
	BufferPoolSize      uint64 `yaml:"buffer_pool_size"`
	MaxNumThreads       uint64 `yaml:"max_num_threads"`
	EnableCompression   bool   `yaml:"enable_compression"`
	ReadOnly            bool   `yaml:"read_only"`
	MaxDBSize           uint64 `yaml:"max_db_size"`
	AutoCheckpoint      bool   `yaml:"auto_checkpoint"`
	CheckpointThreshold uint64 `yaml:"checkpoint_threshold"`
}

// DefaultSystemConfig returns the engine defaults.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		EnableCompression:   true,
		AutoCheckpoint:      true,
		CheckpointThreshold: 16 * 1024 * 1024,
	}
}

// Config describes how to open a database.
type Config struct {
	// Path of the database directory or file. Empty or ":memory:" opens
	// an in-memory database.
	Path string `yaml:"path"`
	// Library overrides the shared library location.
	Library string `yaml:"library"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	// QueryTimeout is applied to every new connection when non-zero.
	QueryTimeout time.Duration `yaml:"query_timeout"`
	// Naming is the default naming strategy of the database/sql driver.
	Naming string       `yaml:"naming"`
	System SystemConfig `yaml:"system"`
}

// DefaultConfig returns an in-memory configuration with engine defaults.
func DefaultConfig() Config {
	return Config{
		Path:     ":memory:",
		LogLevel: "info",
		Naming:   NamingExact.String(),
		System:   DefaultSystemConfig(),
	}
}

// LoadConfig reads a YAML configuration file. Keys missing from the file
// keep their DefaultConfig value.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML configuration document.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.QueryTimeout < 0 {
		return errorf(ErrGeneric, "query_timeout must not be negative, got %s", c.QueryTimeout)
	}
	if _, err := ParseNamingStrategy(c.Naming); err != nil {
		return err
	}
	if c.System.ReadOnly && c.InMemory() {
		return errorf(ErrGeneric, "an in-memory database cannot be opened read-only")
	}
	return nil
}

// InMemory reports whether the configuration opens an in-memory database.
func (c Config) InMemory() bool {
	return c.Path == "" || c.Path == ":memory:"
}

// Level returns LogLevel as a slog level.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errorf(ErrGeneric, "unknown log level %q", c.LogLevel)
}

// NamingStrategy returns the parsed Naming field.
func (c Config) NamingStrategy() NamingStrategy {
	s, _ := ParseNamingStrategy(c.Naming)
	return s
}
