package main

import (
	"context"

	"github.com/spf13/cobra"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"chummerview/internal/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadOptionalConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	catalog, err := loadCatalog("")
	if err != nil {
		return err
	}

	options := mcp.Options{Critters: catalog, Logger: logger, Version: version}
	if cfg != nil {
		options.Owner = cfg.Owner
		if cfg.Database.DSN != "" {
			db, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close(ctx)
			options.DB = db
		} else {
			logger.Warn("no database configured; storage tools are disabled")
		}
	}

	server := mcp.NewServer(options)
	return server.Run(ctx, &sdk.StdioTransport{})
}
