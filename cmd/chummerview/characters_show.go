package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"chummerview/internal/config"
	"chummerview/internal/store"
)

func charactersShowCmd() *cobra.Command {
	var selectPath string
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Display an ingested character",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return withStore(func(ctx context.Context, cfg *config.ProjectConfig, db store.Store) error {
				return runCharactersShow(ctx, cfg, db, name, selectPath)
			})
		},
	}
	cmd.Flags().StringVar(&selectPath, "select", "", "gjson path into the stored summary")
	return cmd
}

func runCharactersShow(ctx context.Context, cfg *config.ProjectConfig, db store.Store, name, selectPath string) error {
	character, err := db.GetCharacter(ctx, cfg.Owner, name)
	if err != nil {
		return err
	}
	if character == nil {
		fmt.Fprintf(os.Stdout, "No character found for %q.\n", name)
		return nil
	}

	if selectPath != "" {
		result := gjson.GetBytes(character.Summary, selectPath)
		if !result.Exists() {
			return fmt.Errorf("nothing at %q", selectPath)
		}
		fmt.Fprintln(os.Stdout, result.String())
		return nil
	}

	fmt.Fprintf(os.Stdout, "Name: %s\n", character.Name)
	if character.Metatype != "" {
		fmt.Fprintf(os.Stdout, "Metatype: %s\n", character.Metatype)
	}
	if character.SourceFile != "" {
		fmt.Fprintf(os.Stdout, "Source: %s\n", character.SourceFile)
	}
	fmt.Fprintf(os.Stdout, "Updated: %s\n", character.UpdatedAt.Format(time.RFC3339))

	var summary bytes.Buffer
	if err := json.Indent(&summary, character.Summary, "", "  "); err != nil {
		return fmt.Errorf("decoding summary: %w", err)
	}
	fmt.Fprintln(os.Stdout, "Summary:")
	fmt.Fprintln(os.Stdout, summary.String())
	return nil
}
