package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"chummerview/internal/ledger"
	"chummerview/internal/parser"
)

func ledgerCmd() *cobra.Command {
	var karma, nuyen, comment, jobs, outDir string
	cmd := &cobra.Command{
		Use:   "ledger <file.chum5>",
		Short: "Append karma and nuyen awards to a character sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := ledgerEntries(jobs, karma, nuyen, comment)
			if err != nil {
				return err
			}
			return runLedger(args[0], entries, outDir)
		},
	}
	cmd.Flags().StringVar(&karma, "karma", "", "Karma awarded")
	cmd.Flags().StringVar(&nuyen, "nuyen", "", "Nuyen awarded")
	cmd.Flags().StringVar(&comment, "comment", "", "Reason recorded with the expense")
	cmd.Flags().StringVar(&jobs, "jobs", "", "JSON file with a list of {karma, nuyen, comment} entries")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory to write the updated sheet to")
	cmd.MarkFlagsMutuallyExclusive("jobs", "karma")
	cmd.MarkFlagsMutuallyExclusive("jobs", "nuyen")
	cmd.MarkFlagsMutuallyExclusive("jobs", "comment")
	return cmd
}

func ledgerEntries(jobs, karma, nuyen, comment string) ([]ledger.Entry, error) {
	if jobs != "" {
		data, err := os.ReadFile(jobs)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", jobs, err)
		}
		return ledger.ParseEntries(data)
	}
	if karma == "" && nuyen == "" {
		return nil, fmt.Errorf("one of --karma, --nuyen or --jobs is required")
	}
	return []ledger.Entry{{
		Karma:   ledger.Amount(karma),
		Nuyen:   ledger.Amount(nuyen),
		Comment: comment,
	}}, nil
}

func runLedger(path string, entries []ledger.Entry, outDir string) error {
	doc, err := parser.ParseFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := ledger.NewAppender().Append(doc, entries)
	if err != nil {
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	for _, skipped := range result.Skipped {
		fmt.Fprintf(os.Stderr, "skipped %v\n", skipped)
	}

	outPath := filepath.Join(outDir, ledger.Filename(result.Document))
	if err := os.WriteFile(outPath, result.Document.Encode(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Fprintf(os.Stdout, "Wrote %s.\n", outPath)
	for _, rec := range result.Added {
		fmt.Fprintf(os.Stdout, "  + %s %s %q\n", rec.Amount, rec.Type, rec.Reason)
	}
	return nil
}
