// Package config reads the client configuration from a YAML file, the
// environment (optionally seeded from .env) and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"kokushi/internal/platform/validate"
)

const (
	StoreHTTP  = "http"
	StoreRedis = "redis"
)

// Config is the top-level structure of kokushi.yaml.
type Config struct {
	BaseURL        string        `yaml:"base_url" validate:"required,url"`
	Store          string        `yaml:"store" validate:"oneof=http redis"`
	RedisURL       string        `yaml:"redis_url" validate:"required_if=Store redis"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`
	DataDir        string        `yaml:"data_dir" validate:"required"`
	LogLevel       string        `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat      string        `yaml:"log_format" validate:"oneof=json pretty"`
	OpenReport     bool          `yaml:"open_report"`
}

// Overrides are values supplied on the command line; empty fields are ignored.
type Overrides struct {
	BaseURL  string
	LogLevel string
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:5002",
		Store:          StoreHTTP,
		RedisURL:       "",
		RequestTimeout: 10 * time.Second,
		DataDir:        ".kokushi",
		LogLevel:       "info",
		LogFormat:      "pretty",
	}
}

// Load builds the effective configuration. path may be empty, in which case
// only defaults, the environment and overrides apply. A missing file at an
// explicit path is an error; a missing .env is not.
func Load(path string, ov Overrides) (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	if ov.BaseURL != "" {
		cfg.BaseURL = ov.BaseURL
	}
	if ov.LogLevel != "" {
		cfg.LogLevel = ov.LogLevel
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Write stores cfg as YAML at path, creating parent directories.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// JournalPath is the SQLite file holding the local submission journal.
func (c Config) JournalPath() string {
	return filepath.Join(c.DataDir, "journal.db")
}

// LogPath is where the TUI writes its log, away from the terminal.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "kokushi.log")
}

// ReportDir holds generated results notes.
func (c Config) ReportDir() string {
	return filepath.Join(c.DataDir, "reports")
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.BaseURL = getEnv("KOKUSHI_BASE_URL", cfg.BaseURL)
	cfg.Store = getEnv("KOKUSHI_STORE", cfg.Store)
	cfg.RedisURL = getEnv("KOKUSHI_REDIS_URL", cfg.RedisURL)
	cfg.DataDir = getEnv("KOKUSHI_DATA_DIR", cfg.DataDir)
	cfg.LogLevel = getEnv("KOKUSHI_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("KOKUSHI_LOG_FORMAT", cfg.LogFormat)
	if v := os.Getenv("KOKUSHI_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("KOKUSHI_OPEN_REPORT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.OpenReport = b
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
