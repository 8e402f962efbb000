package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the project file looked up in the working directory.
const FileName = "chummerview.yaml"

const defaultWorkers = 4

type ProjectConfig struct {
	Project   string         `yaml:"project"`
	Version   int            `yaml:"version"`
	Owner     string         `yaml:"owner" env:"CHUMMERVIEW_OWNER"`
	Database  DatabaseConfig `yaml:"database"`
	Sources   []Source       `yaml:"sources"`
	Exclude   []string       `yaml:"exclude"`
	Workers   int            `yaml:"workers" env:"CHUMMERVIEW_WORKERS"`
	LogLevel  string         `yaml:"log_level" env:"CHUMMERVIEW_LOG_LEVEL"`
	LogFormat string         `yaml:"log_format" env:"CHUMMERVIEW_LOG_FORMAT"`
	Critters  string         `yaml:"critters"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"CHUMMERVIEW_DATABASE_DSN"`
}

// Source is a named set of paths holding character sheets.
type Source struct {
	Name  string   `yaml:"name"`
	Paths []string `yaml:"paths"`
}

// LoadProjectConfig reads the project file at path. A .env file next to it
// is loaded first; CHUMMERVIEW_* variables then override the file.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	dotenv := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", dotenv, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: parse env: %w", err)
	}

	applyDefaults(&cfg)
	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *ProjectConfig) {
	if cfg.Workers == 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.Owner == "" {
		cfg.Owner = "local"
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" && Driver(dsn) == "" {
		return fmt.Errorf("unsupported database dsn: expected postgres:// or sqlite://")
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", cfg.LogLevel)
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %s", cfg.LogFormat)
	}

	seen := make(map[string]struct{})
	for i, source := range cfg.Sources {
		if strings.TrimSpace(source.Name) == "" {
			return fmt.Errorf("source %d name is required", i)
		}
		if len(source.Paths) == 0 {
			return fmt.Errorf("source %d paths are required", i)
		}
		key := strings.ToLower(source.Name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("duplicate source name: %s", source.Name)
		}
		seen[key] = struct{}{}
	}

	return nil
}

// Driver names the store backend a DSN selects: "postgres", "sqlite", or ""
// when the scheme is not supported.
func Driver(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite"
	}
	return ""
}
