package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"chummerview/internal/normalize"
	"chummerview/internal/parser"
)

func normalizeCmd() *cobra.Command {
	var selectPath string
	var compact bool
	cmd := &cobra.Command{
		Use:   "normalize <file.chum5>",
		Short: "Print the normalized summary of a character sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(args[0], selectPath, compact)
		},
	}
	cmd.Flags().StringVar(&selectPath, "select", "", "gjson path to print instead of the whole summary")
	cmd.Flags().BoolVar(&compact, "compact", false, "Print JSON on one line")
	return cmd
}

func runNormalize(path, selectPath string, compact bool) error {
	doc, err := parser.ParseFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	summary, err := normalize.Normalize(doc)
	if err != nil {
		return fmt.Errorf("normalizing %s: %w", path, err)
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	if selectPath != "" {
		result := gjson.GetBytes(payload, selectPath)
		if !result.Exists() {
			return fmt.Errorf("nothing at %q", selectPath)
		}
		if result.Type == gjson.String {
			fmt.Fprintln(os.Stdout, result.String())
			return nil
		}
		payload = []byte(result.Raw)
	}

	if !compact {
		var out bytes.Buffer
		if err := json.Indent(&out, payload, "", "  "); err != nil {
			return fmt.Errorf("encoding summary: %w", err)
		}
		payload = out.Bytes()
	}
	fmt.Fprintln(os.Stdout, string(payload))
	return nil
}
