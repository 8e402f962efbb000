package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var projectName string
	var dsn string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new chummerview project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName, dsn)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&dsn, "dsn", "sqlite://./chummerview.db", "Database DSN (postgres:// or sqlite://)")
	return cmd
}

func runInit(projectName, dsn string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	contents := fmt.Sprintf(`project: %s
version: 1
owner: local

database:
  dsn: %s

sources:
  - name: table
    paths:
      - ./sheets/

exclude:
  - ./sheets/backup/

workers: 4
log_level: info
log_format: text
`, projectName, dsn)
	if err := os.WriteFile(configPath, []byte(contents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	if err := os.MkdirAll("sheets", 0o755); err != nil {
		return fmt.Errorf("creating sheets directory: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Created %s. Put .chum5 files in ./sheets and run `chummerview ingest`.\n", configPath)
	return nil
}
