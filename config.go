package microfsm

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultQueueCapacity is the runner queue size used when a Config omits it
const DefaultQueueCapacity = 16

// Config describes how to build and drive one machine
type Config struct {
	Name           string `yaml:"name"`
	Initial        string `yaml:"initial"`
	MaxTransitions int    `yaml:"max_transitions"`
	QueueCapacity  int    `yaml:"queue_capacity,omitempty"`
	LogLevel       string `yaml:"log_level,omitempty"`
}

// LoadConfig reads a YAML config file. Environment variables in the file are
// expanded before parsing.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration
	if err != nil {
		return Config{}, fmt.Errorf("microfsm: load config: %w", err)
	}
	return ParseConfig([]byte(os.ExpandEnv(string(data))))
}

// ParseConfig parses and validates a YAML config document
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("microfsm: parse config: %w", err)
	}
	if cfg.QueueCapacity == 0 {
		cfg.QueueCapacity = DefaultQueueCapacity
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can build a machine
func (c Config) Validate() error {
	if c.Initial == "" {
		return fmt.Errorf("microfsm: config: initial state is required")
	}
	if c.MaxTransitions <= 0 {
		return fmt.Errorf("microfsm: config: max_transitions must be greater than zero")
	}
	if c.QueueCapacity < 0 {
		return fmt.Errorf("microfsm: config: queue_capacity must not be negative")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("microfsm: config: %w", err)
	}
	return nil
}

// SlogLevel returns the configured log level, defaulting to info
func (c Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
