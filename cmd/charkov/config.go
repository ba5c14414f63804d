package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/CTAG07/charkov/pkg/corpus"
	"github.com/natefinch/atomic"
)

// ServerConfig holds the configuration for the HTTP server.
type ServerConfig struct {
	Addr           string `json:"addr"`
	MaxLength      int    `json:"max_length"`
	EnableDripFeed bool   `json:"enable_drip_feed"`
	DripChunksMin  int    `json:"min_drip_feed_chunks"`
	DripChunksMax  int    `json:"max_drip_feed_chunks"`
	DripDelayMin   int    `json:"min_drip_feed_delay_ms"`
	DripDelayMax   int    `json:"max_drip_feed_delay_ms"`
}

// Config is the top-level configuration.
type Config struct {
	LogLevel        string        `json:"log_level"`
	TextDir         string        `json:"text_dir"`
	DatabasePath    string        `json:"database_path"`
	DefaultEncoding string        `json:"default_encoding"`
	MaxOrder        int           `json:"max_order"`
	DefaultOrder    int           `json:"default_order"`
	DefaultLength   int           `json:"default_length"`
	RecordRuns      bool          `json:"record_runs"`
	Server          *ServerConfig `json:"server_config"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "warn",
		TextDir:         ".",
		DatabasePath:    "./charkov.db?_journal_mode=WAL&_busy_timeout=5000",
		DefaultEncoding: corpus.DefaultEncoding,
		MaxOrder:        8,
		DefaultOrder:    3,
		DefaultLength:   500,
		RecordRuns:      true,
		Server: &ServerConfig{
			Addr:           ":7277",
			MaxLength:      100000,
			EnableDripFeed: false,
			DripChunksMin:  1,
			DripChunksMax:  20,
			DripDelayMin:   500,
			DripDelayMax:   1000,
		},
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The defaults are still usable.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Server == nil {
		config.Server = DefaultConfig().Server
	}
	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxOrder < 0 {
		return fmt.Errorf("max_order must not be negative, got %d", c.MaxOrder)
	}
	if c.DefaultOrder < 0 || c.DefaultOrder > c.MaxOrder {
		return fmt.Errorf("default_order must be between 0 and %d, got %d", c.MaxOrder, c.DefaultOrder)
	}
	if c.DefaultLength < 1 {
		return fmt.Errorf("default_length must be at least 1, got %d", c.DefaultLength)
	}
	if _, err := corpus.NormalizeEncoding(c.DefaultEncoding); err != nil {
		return err
	}
	if c.Server != nil {
		s := c.Server
		if s.MaxLength < 1 {
			return errors.New("server max_length must be at least 1")
		}
		if s.DripChunksMin < 1 || s.DripChunksMax < s.DripChunksMin {
			return fmt.Errorf("invalid drip feed chunk range [%d, %d]", s.DripChunksMin, s.DripChunksMax)
		}
		if s.DripDelayMin < 0 || s.DripDelayMax < s.DripDelayMin {
			return fmt.Errorf("invalid drip feed delay range [%d, %d]", s.DripDelayMin, s.DripDelayMax)
		}
	}
	return nil
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log_level '%s'", level)
	}
}

// newLogger builds the process logger at the configured level. Logs go to
// stderr so they never mix with generated text.
func newLogger(config *Config) *slog.Logger {
	level, _ := parseLogLevel(config.LogLevel)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
