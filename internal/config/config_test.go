package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectConfig(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		cfg, err := LoadProjectConfig(filepath.Join("testdata", "valid_config.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Project != "test-table" {
			t.Fatalf("expected project name, got %q", cfg.Project)
		}
		if len(cfg.Sources) != 2 || cfg.Sources[1].Paths[0] != "./retired/" {
			t.Fatalf("expected two sources, got %+v", cfg.Sources)
		}
		if cfg.Workers != 8 {
			t.Fatalf("expected 8 workers, got %d", cfg.Workers)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		path := writeTempConfig(t, "project: test\nversion: 1\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Workers != defaultWorkers || cfg.LogLevel != "info" || cfg.LogFormat != "text" || cfg.Owner != "local" {
			t.Fatalf("expected defaults, got %+v", cfg)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("CHUMMERVIEW_DATABASE_DSN", "sqlite://:memory:")
		t.Setenv("CHUMMERVIEW_OWNER", "gm")
		path := writeTempConfig(t, "project: test\nversion: 1\nowner: player\ndatabase:\n  dsn: postgres://localhost/chummer\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Database.DSN != "sqlite://:memory:" {
			t.Fatalf("expected dsn from environment, got %q", cfg.Database.DSN)
		}
		if cfg.Owner != "gm" {
			t.Fatalf("expected owner from environment, got %q", cfg.Owner)
		}
	})

	t.Run("dotenv next to config", func(t *testing.T) {
		t.Setenv("CHUMMERVIEW_LOG_LEVEL", "")
		os.Unsetenv("CHUMMERVIEW_LOG_LEVEL")
		path := writeTempConfig(t, "project: test\nversion: 1\n")
		if err := os.WriteFile(filepath.Join(filepath.Dir(path), ".env"), []byte("CHUMMERVIEW_LOG_LEVEL=debug\n"), 0o600); err != nil {
			t.Fatalf("writing .env: %v", err)
		}
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.LogLevel != "debug" {
			t.Fatalf("expected log level from .env, got %q", cfg.LogLevel)
		}
	})

	invalid := map[string]string{
		"missing project name":  "version: 1\n",
		"unsupported version":   "project: test\nversion: 2\n",
		"unsupported dsn":       "project: test\nversion: 1\ndatabase:\n  dsn: mysql://localhost\n",
		"negative workers":      "project: test\nversion: 1\nworkers: -1\n",
		"unknown log level":     "project: test\nversion: 1\nlog_level: loud\n",
		"unknown log format":    "project: test\nversion: 1\nlog_format: xml\n",
		"source missing name":   "project: test\nversion: 1\nsources:\n  - paths: [./sheets]\n",
		"source missing paths":  "project: test\nversion: 1\nsources:\n  - name: table\n",
		"duplicate source name": "project: test\nversion: 1\nsources:\n  - name: table\n    paths: [./a]\n  - name: Table\n    paths: [./b]\n",
		"invalid yaml":          "project: [\n",
	}
	for name, contents := range invalid {
		t.Run(name, func(t *testing.T) {
			path := writeTempConfig(t, contents)
			if _, err := LoadProjectConfig(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	t.Run("file not found", func(t *testing.T) {
		if _, err := LoadProjectConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestDriver(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost/db": "postgres",
		"postgresql://localhost/db":   "postgres",
		"sqlite://./chummerview.db":   "sqlite",
		"sqlite://:memory:":           "sqlite",
		"mysql://localhost/db":        "",
		"":                            "",
	}
	for dsn, want := range tests {
		if got := Driver(dsn); got != want {
			t.Fatalf("Driver(%q): expected %q, got %q", dsn, want, got)
		}
	}
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
