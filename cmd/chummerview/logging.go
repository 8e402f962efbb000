package main

import (
	"log/slog"
	"os"
	"strings"

	"chummerview/internal/config"
)

// newLogger writes to stderr so command output on stdout stays clean.
func newLogger(cfg *config.ProjectConfig) *slog.Logger {
	level := slog.LevelInfo
	format := "text"
	if cfg != nil {
		switch strings.ToLower(cfg.LogLevel) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
		format = strings.ToLower(cfg.LogFormat)
	}

	options := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, options))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, options))
}

// loadOptionalConfig reads the project config when the file exists. Commands
// that work on a single sheet run without one.
func loadOptionalConfig() (*config.ProjectConfig, error) {
	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return config.LoadProjectConfig(configPath)
}
