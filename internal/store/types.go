package store

import (
	"encoding/json"
	"time"
)

// CharacterInput is one ingested sheet. Document and Summary are JSON.
type CharacterInput struct {
	Owner      string
	Name       string
	Metatype   string
	SourceFile string
	SourceHash string
	Document   json.RawMessage
	Summary    json.RawMessage
	// Keywords is free text indexed for search: skills, spells, powers and
	// gear names.
	Keywords string
}

type Character struct {
	Owner      string
	Name       string
	Metatype   string
	SourceFile string
	SourceHash string
	Document   json.RawMessage
	Summary    json.RawMessage
	UpdatedAt  time.Time
}

type CharacterSummary struct {
	Name       string
	Metatype   string
	SourceFile string
	UpdatedAt  time.Time
}

type SearchResult struct {
	Name     string
	Metatype string
	Score    float64
	Snippet  string
}
