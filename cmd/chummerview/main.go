package main

import (
	"os"

	"github.com/spf13/cobra"

	"chummerview/internal/config"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "chummerview",
		Short: "Shadowrun character sheet toolkit for Chummer exports",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", config.FileName, "Project config file")
	root.AddCommand(normalizeCmd())
	root.AddCommand(ledgerCmd())
	root.AddCommand(critterCmd())
	root.AddCommand(ingestCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(charactersCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
