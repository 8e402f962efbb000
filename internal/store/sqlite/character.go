package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chummerview/internal/store"
)

const timestampLayout = "2006-01-02 15:04:05"

func (c *Client) UpsertCharacter(ctx context.Context, ch store.CharacterInput) error {
	query := `
	INSERT INTO characters (owner, name, name_normalized, metatype, source_file, source_hash, document, summary, keywords, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
	ON CONFLICT (owner, name_normalized) DO UPDATE SET
		name = excluded.name,
		metatype = excluded.metatype,
		source_file = excluded.source_file,
		source_hash = excluded.source_hash,
		document = excluded.document,
		summary = excluded.summary,
		keywords = excluded.keywords,
		updated_at = datetime('now')
	`

	_, err := c.db.ExecContext(ctx, query,
		ch.Owner,
		ch.Name,
		strings.ToLower(ch.Name),
		ch.Metatype,
		ch.SourceFile,
		ch.SourceHash,
		string(ch.Document),
		string(ch.Summary),
		ch.Keywords,
	)
	if err != nil {
		return fmt.Errorf("upserting character: %w", err)
	}
	return nil
}

func (c *Client) GetCharacter(ctx context.Context, owner, name string) (*store.Character, error) {
	query := `
	SELECT owner, name, metatype, source_file, source_hash, document, summary, updated_at
	FROM characters
	WHERE owner = ? AND name_normalized = ?
	`

	rows, err := c.db.QueryContext(ctx, query, owner, strings.ToLower(name))
	if err != nil {
		return nil, fmt.Errorf("getting character: %w", err)
	}
	defer rows.Close()

	var characters []store.Character
	for rows.Next() {
		var ch store.Character
		var document, summary, updated string
		err := rows.Scan(
			&ch.Owner,
			&ch.Name,
			&ch.Metatype,
			&ch.SourceFile,
			&ch.SourceHash,
			&document,
			&summary,
			&updated,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning character: %w", err)
		}
		ch.Document = []byte(document)
		ch.Summary = []byte(summary)
		if ch.UpdatedAt, err = parseTimestamp(updated); err != nil {
			return nil, err
		}
		characters = append(characters, ch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating character rows: %w", err)
	}

	if len(characters) == 0 {
		return nil, nil
	}
	if len(characters) > 1 {
		return nil, fmt.Errorf("internal error: character uniqueness constraint violated (found %d rows for %q)", len(characters), name)
	}

	return &characters[0], nil
}

func (c *Client) ListCharacters(ctx context.Context, owner string) ([]store.CharacterSummary, error) {
	query := `
	SELECT name, metatype, source_file, updated_at
	FROM characters
	WHERE owner = ?
	ORDER BY name
	`

	rows, err := c.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	summaries := []store.CharacterSummary{}
	for rows.Next() {
		var s store.CharacterSummary
		var updated string
		if err := rows.Scan(&s.Name, &s.Metatype, &s.SourceFile, &updated); err != nil {
			return nil, fmt.Errorf("scanning character summary: %w", err)
		}
		if s.UpdatedAt, err = parseTimestamp(updated); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating character summaries: %w", err)
	}

	return summaries, nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing updated_at %q: %w", s, err)
	}
	return t, nil
}
