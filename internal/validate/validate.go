package validate

import (
	"fmt"
	"strings"

	"chummerview/internal/normalize"
	"chummerview/internal/parser"
	"chummerview/internal/rules"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeMissingExpenses   = "missing_expenses"
	codeSkillGroupOverlap = "skill_group_overlap"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Subject  string
	FilePath string
}

type Report struct {
	Issues []Issue
}

// HasErrors reports whether any issue is an error.
func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Run checks one character sheet. Everything the normalizer tolerated is a
// warning; a sheet the ledger cannot write to is an error, as is an
// ambiguous skill table.
func Run(doc *parser.Document) (*Report, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is required")
	}
	_, diagnostics, err := normalize.Inspect(doc)
	if err != nil {
		return nil, err
	}

	issues := make([]Issue, 0, len(diagnostics))
	for _, d := range diagnostics {
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     string(d.Kind),
			Message:  d.Message,
			Subject:  d.Subject,
			FilePath: doc.SourceFile,
		})
	}

	if !doc.Character().Has("expenses") {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeMissingExpenses,
			Message:  "character has no expenses section; ledger entries cannot be appended",
			FilePath: doc.SourceFile,
		})
	}

	for _, overlap := range rules.GroupOverlaps() {
		issues = append(issues, overlapIssue(overlap))
	}

	return &Report{Issues: issues}, nil
}

// RunFile parses and checks the sheet at path.
func RunFile(path string) (*Report, error) {
	doc, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Run(doc)
}

func overlapIssue(overlap rules.GroupOverlap) Issue {
	return Issue{
		Severity: SeverityError,
		Code:     codeSkillGroupOverlap,
		Message:  fmt.Sprintf("skill is listed by groups %s; %s wins", strings.Join(overlap.Groups, ", "), overlap.Groups[0]),
		Subject:  overlap.Skill,
	}
}
