package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chummerview/internal/validate"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file.chum5>...",
		Short: "Check character sheets for problems the normalizer tolerated",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runValidate,
	}
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	var errorIssues []validate.Issue
	var warnIssues []validate.Issue
	for _, path := range args {
		report, err := validate.RunFile(path)
		if err != nil {
			return fmt.Errorf("validating %s: %w", path, err)
		}
		for _, issue := range report.Issues {
			switch issue.Severity {
			case validate.SeverityError:
				errorIssues = append(errorIssues, issue)
			case validate.SeverityWarn:
				warnIssues = append(warnIssues, issue)
			}
		}
	}

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintln(os.Stdout, "No issues found.")
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(os.Stdout, "Errors (%d):\n", len(errorIssues))
		printIssues(os.Stdout, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(os.Stdout, "")
		}
		fmt.Fprintf(os.Stdout, "Warnings (%d):\n", len(warnIssues))
		printIssues(os.Stdout, warnIssues)
	}

	if len(errorIssues) > 0 {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out *os.File, issues []validate.Issue) {
	for _, issue := range issues {
		location := issue.Subject
		if issue.FilePath != "" {
			if location == "" {
				location = issue.FilePath
			} else {
				location = fmt.Sprintf("%s (%s)", location, issue.FilePath)
			}
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
