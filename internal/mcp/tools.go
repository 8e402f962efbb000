package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tidwall/gjson"

	"chummerview/internal/critter"
	"chummerview/internal/ledger"
	"chummerview/internal/normalize"
	"chummerview/internal/parser"
	"chummerview/internal/store"
)

var errNoStore = errors.New("no character store configured")

type NormalizeCharacterInput struct {
	XML    string `json:"xml" jsonschema:"contents of a .chum5 character sheet"`
	Select string `json:"select,omitempty" jsonschema:"optional gjson path into the summary"`
}

type DiagnosticOutput struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type NormalizeCharacterOutput struct {
	Summary     map[string]any     `json:"summary,omitempty"`
	Selected    any                `json:"selected,omitempty"`
	Diagnostics []DiagnosticOutput `json:"diagnostics"`
}

type LedgerEntryInput struct {
	Karma   float64 `json:"karma,omitempty" jsonschema:"karma awarded"`
	Nuyen   float64 `json:"nuyen,omitempty" jsonschema:"nuyen awarded"`
	Comment string  `json:"comment,omitempty" jsonschema:"reason recorded with the expense"`
}

type AppendLedgerInput struct {
	XML     string             `json:"xml" jsonschema:"contents of a .chum5 character sheet"`
	Entries []LedgerEntryInput `json:"entries" jsonschema:"awards to append in order"`
}

type AppendLedgerOutput struct {
	Filename string          `json:"filename"`
	XML      string          `json:"xml"`
	Added    []ledger.Record `json:"added"`
	Skipped  []string        `json:"skipped,omitempty"`
}

type GenerateCritterInput struct {
	Name  string `json:"name" jsonschema:"template name, e.g. Spirit of Fire"`
	Force int    `json:"force" jsonschema:"force or level, at least 1"`
}

type CritterOutput struct {
	Name           string           `json:"name"`
	Type           string           `json:"type"`
	Force          int              `json:"force"`
	Attributes     []critter.Rating `json:"attributes"`
	InitiativeType string           `json:"initiative_type"`
	Initiative     string           `json:"initiative"`
	Skills         []critter.Rating `json:"skills"`
	Powers         []string         `json:"powers"`
	OptionalPowers []string         `json:"optional_powers"`
	Special        string           `json:"special,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}

type ListCrittersInput struct{}

type CritterTemplateOutput struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type ListCrittersOutput struct {
	Templates []CritterTemplateOutput `json:"templates"`
}

type ListCharactersInput struct{}

type CharacterSummaryOutput struct {
	Name       string `json:"name"`
	Metatype   string `json:"metatype"`
	SourceFile string `json:"source_file"`
	UpdatedAt  string `json:"updated_at"`
}

type ListCharactersOutput struct {
	Characters []CharacterSummaryOutput `json:"characters"`
}

type GetCharacterInput struct {
	Name string `json:"name" jsonschema:"character name, case-insensitive"`
}

type CharacterOutput struct {
	Name       string         `json:"name"`
	Metatype   string         `json:"metatype"`
	SourceFile string         `json:"source_file"`
	SourceHash string         `json:"source_hash"`
	UpdatedAt  string         `json:"updated_at"`
	Summary    map[string]any `json:"summary"`
}

type SearchCharactersInput struct {
	Query string `json:"query" jsonschema:"search terms over names, skills, spells, powers and gear"`
}

type SearchResultOutput struct {
	Name     string  `json:"name"`
	Metatype string  `json:"metatype"`
	Score    float64 `json:"score"`
	Snippet  string  `json:"snippet"`
}

type SearchCharactersOutput struct {
	Results []SearchResultOutput `json:"results"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "normalize_character",
		Description: "Normalize a Chummer character sheet into a JSON summary",
	}, s.handleNormalizeCharacter)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "append_ledger",
		Description: "Append karma and nuyen awards to a character sheet's expenses",
	}, s.handleAppendLedger)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "generate_critter",
		Description: "Generate a spirit or sprite at a given force",
	}, s.handleGenerateCritter)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_critters",
		Description: "List the available spirit and sprite templates",
	}, s.handleListCritters)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_characters",
		Description: "List ingested characters",
	}, s.handleListCharacters)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_character",
		Description: "Retrieve an ingested character and its summary",
	}, s.handleGetCharacter)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_characters",
		Description: "Search ingested characters",
	}, s.handleSearchCharacters)
}

func (s *Server) handleNormalizeCharacter(ctx context.Context, req *sdk.CallToolRequest, input NormalizeCharacterInput) (*sdk.CallToolResult, NormalizeCharacterOutput, error) {
	if strings.TrimSpace(input.XML) == "" {
		return nil, NormalizeCharacterOutput{}, fmt.Errorf("xml is required")
	}
	doc, err := parser.Parse([]byte(input.XML))
	if err != nil {
		return nil, NormalizeCharacterOutput{}, err
	}
	summary, diagnostics, err := normalize.Inspect(doc)
	if err != nil {
		return nil, NormalizeCharacterOutput{}, err
	}

	encoded, err := json.Marshal(summary)
	if err != nil {
		return nil, NormalizeCharacterOutput{}, err
	}
	output := NormalizeCharacterOutput{Diagnostics: make([]DiagnosticOutput, 0, len(diagnostics))}
	for _, d := range diagnostics {
		output.Diagnostics = append(output.Diagnostics, DiagnosticOutput{
			Kind:    string(d.Kind),
			Subject: d.Subject,
			Message: d.Message,
		})
	}

	if input.Select != "" {
		result := gjson.GetBytes(encoded, input.Select)
		if !result.Exists() {
			return nil, NormalizeCharacterOutput{}, fmt.Errorf("nothing at %q", input.Select)
		}
		output.Selected = result.Value()
		return nil, output, nil
	}

	output.Summary, err = decodeObject(encoded)
	if err != nil {
		return nil, NormalizeCharacterOutput{}, err
	}
	return nil, output, nil
}

func (s *Server) handleAppendLedger(ctx context.Context, req *sdk.CallToolRequest, input AppendLedgerInput) (*sdk.CallToolResult, AppendLedgerOutput, error) {
	if strings.TrimSpace(input.XML) == "" {
		return nil, AppendLedgerOutput{}, fmt.Errorf("xml is required")
	}
	doc, err := parser.Parse([]byte(input.XML))
	if err != nil {
		return nil, AppendLedgerOutput{}, err
	}

	entries := make([]ledger.Entry, 0, len(input.Entries))
	for _, e := range input.Entries {
		entries = append(entries, ledger.Entry{
			Karma:   ledger.Amount(strconv.FormatFloat(e.Karma, 'f', -1, 64)),
			Nuyen:   ledger.Amount(strconv.FormatFloat(e.Nuyen, 'f', -1, 64)),
			Comment: e.Comment,
		})
	}
	res, err := s.appender.Append(doc, entries)
	if err != nil {
		return nil, AppendLedgerOutput{}, err
	}

	output := AppendLedgerOutput{
		Filename: ledger.Filename(res.Document),
		XML:      string(res.Document.Encode()),
		Added:    append([]ledger.Record{}, res.Added...),
	}
	for _, skipped := range res.Skipped {
		output.Skipped = append(output.Skipped, skipped.Error())
	}
	s.logger.Debug("ledger appended", "file", output.Filename, "added", len(output.Added))
	return nil, output, nil
}

func (s *Server) handleGenerateCritter(ctx context.Context, req *sdk.CallToolRequest, input GenerateCritterInput) (*sdk.CallToolResult, CritterOutput, error) {
	if input.Name == "" {
		return nil, CritterOutput{}, fmt.Errorf("name is required")
	}
	catalog, err := s.catalog()
	if err != nil {
		return nil, CritterOutput{}, err
	}
	c, err := catalog.Generate(input.Name, input.Force)
	if err != nil {
		return nil, CritterOutput{}, err
	}
	return nil, critterOutput(c), nil
}

func (s *Server) handleListCritters(ctx context.Context, req *sdk.CallToolRequest, input ListCrittersInput) (*sdk.CallToolResult, ListCrittersOutput, error) {
	catalog, err := s.catalog()
	if err != nil {
		return nil, ListCrittersOutput{}, err
	}
	templates := catalog.Templates()
	output := make([]CritterTemplateOutput, 0, len(templates))
	for _, t := range templates {
		output = append(output, CritterTemplateOutput{Name: t.Name, Type: t.Type})
	}
	return nil, ListCrittersOutput{Templates: output}, nil
}

func (s *Server) handleListCharacters(ctx context.Context, req *sdk.CallToolRequest, input ListCharactersInput) (*sdk.CallToolResult, ListCharactersOutput, error) {
	if s.db == nil {
		return nil, ListCharactersOutput{}, errNoStore
	}
	items, err := s.db.ListCharacters(ctx, s.owner)
	if err != nil {
		return nil, ListCharactersOutput{}, err
	}

	output := make([]CharacterSummaryOutput, 0, len(items))
	for _, item := range items {
		output = append(output, CharacterSummaryOutput{
			Name:       item.Name,
			Metatype:   item.Metatype,
			SourceFile: item.SourceFile,
			UpdatedAt:  formatTime(item.UpdatedAt),
		})
	}
	return nil, ListCharactersOutput{Characters: output}, nil
}

func (s *Server) handleGetCharacter(ctx context.Context, req *sdk.CallToolRequest, input GetCharacterInput) (*sdk.CallToolResult, CharacterOutput, error) {
	if s.db == nil {
		return nil, CharacterOutput{}, errNoStore
	}
	if input.Name == "" {
		return nil, CharacterOutput{}, fmt.Errorf("name is required")
	}
	character, err := s.db.GetCharacter(ctx, s.owner, input.Name)
	if err != nil {
		return nil, CharacterOutput{}, err
	}
	if character == nil {
		return nil, CharacterOutput{}, fmt.Errorf("character not found")
	}
	return characterOutput(character)
}

func (s *Server) handleSearchCharacters(ctx context.Context, req *sdk.CallToolRequest, input SearchCharactersInput) (*sdk.CallToolResult, SearchCharactersOutput, error) {
	if s.db == nil {
		return nil, SearchCharactersOutput{}, errNoStore
	}
	if input.Query == "" {
		return nil, SearchCharactersOutput{}, fmt.Errorf("query is required")
	}
	results, err := s.db.SearchCharacters(ctx, s.owner, input.Query)
	if err != nil {
		return nil, SearchCharactersOutput{}, err
	}

	output := make([]SearchResultOutput, 0, len(results))
	for _, r := range results {
		output = append(output, SearchResultOutput{Name: r.Name, Metatype: r.Metatype, Score: r.Score, Snippet: r.Snippet})
	}
	return nil, SearchCharactersOutput{Results: output}, nil
}

func (s *Server) catalog() (*critter.Catalog, error) {
	if s.critters != nil {
		return s.critters, nil
	}
	return critter.LoadCatalog()
}

func critterOutput(c *critter.Critter) CritterOutput {
	return CritterOutput{
		Name:           c.Name,
		Type:           c.Type,
		Force:          c.Force,
		Attributes:     c.Attributes,
		InitiativeType: string(c.InitiativeType),
		Initiative:     c.Initiative.String(),
		Skills:         c.Skills,
		Powers:         c.Powers,
		OptionalPowers: c.OptionalPowers,
		Special:        c.Special,
		Notes:          c.Notes,
	}
}

func characterOutput(c *store.Character) (*sdk.CallToolResult, CharacterOutput, error) {
	summary, err := decodeObject(c.Summary)
	if err != nil {
		return nil, CharacterOutput{}, fmt.Errorf("decoding summary of %s: %w", c.Name, err)
	}
	return nil, CharacterOutput{
		Name:       c.Name,
		Metatype:   c.Metatype,
		SourceFile: c.SourceFile,
		SourceHash: c.SourceHash,
		UpdatedAt:  formatTime(c.UpdatedAt),
		Summary:    summary,
	}, nil
}

func decodeObject(data []byte) (map[string]any, error) {
	out := map[string]any{}
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
