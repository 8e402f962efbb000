package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chummerview/internal/config"
	"chummerview/internal/store"
)

func charactersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "characters",
		Short: "Query ingested characters",
	}
	cmd.AddCommand(charactersListCmd())
	cmd.AddCommand(charactersShowCmd())
	cmd.AddCommand(charactersSearchCmd())
	cmd.AddCommand(charactersSQLCmd())
	return cmd
}

// withStore loads the project config and opens its store for fn.
func withStore(fn func(ctx context.Context, cfg *config.ProjectConfig, db store.Store) error) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	return fn(ctx, cfg, db)
}

func charactersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ingested characters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, cfg *config.ProjectConfig, db store.Store) error {
				characters, err := db.ListCharacters(ctx, cfg.Owner)
				if err != nil {
					return err
				}
				if len(characters) == 0 {
					fmt.Fprintln(os.Stdout, "No characters found.")
					return nil
				}
				for _, c := range characters {
					fmt.Fprintf(os.Stdout, "%s (%s) [%s]\n", c.Name, c.Metatype, c.SourceFile)
				}
				return nil
			})
		},
	}
}

func charactersSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Search characters by name, skills, spells, powers and gear",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, cfg *config.ProjectConfig, db store.Store) error {
				results, err := db.SearchCharacters(ctx, cfg.Owner, args[0])
				if err != nil {
					return err
				}
				if len(results) == 0 {
					fmt.Fprintln(os.Stdout, "No matches found.")
					return nil
				}
				for _, r := range results {
					fmt.Fprintf(os.Stdout, "%s (%s) score=%.2f %s\n", r.Name, r.Metatype, r.Score, r.Snippet)
				}
				return nil
			})
		},
	}
}
