package postgres

import (
	"context"
	"fmt"
	"strings"

	"chummerview/internal/store"
)

func (c *Client) UpsertCharacter(ctx context.Context, ch store.CharacterInput) error {
	query := `
INSERT INTO characters (owner, name, name_normalized, metatype, source_file, source_hash, document, summary, keywords, updated_at, search_vector)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(),
    setweight(to_tsvector('simple', coalesce($2, '')), 'A') ||
    setweight(to_tsvector('simple', coalesce($4, '')), 'B') ||
    setweight(to_tsvector('english', coalesce($9, '')), 'C')
)
ON CONFLICT (owner, name_normalized) DO UPDATE SET
    name = EXCLUDED.name,
    metatype = EXCLUDED.metatype,
    source_file = EXCLUDED.source_file,
    source_hash = EXCLUDED.source_hash,
    document = EXCLUDED.document,
    summary = EXCLUDED.summary,
    keywords = EXCLUDED.keywords,
    updated_at = now(),
    search_vector = EXCLUDED.search_vector
`

	_, err := c.pool.Exec(ctx, query,
		ch.Owner,
		ch.Name,
		strings.ToLower(ch.Name),
		ch.Metatype,
		ch.SourceFile,
		ch.SourceHash,
		[]byte(ch.Document),
		[]byte(ch.Summary),
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
WHERE owner = $1 AND name_normalized = $2
`

	rows, err := c.pool.Query(ctx, query, owner, strings.ToLower(name))
	if err != nil {
		return nil, fmt.Errorf("getting character: %w", err)
	}
	defer rows.Close()

	var characters []store.Character
	for rows.Next() {
		var ch store.Character
		var document, summary []byte
		err := rows.Scan(
			&ch.Owner,
			&ch.Name,
			&ch.Metatype,
			&ch.SourceFile,
			&ch.SourceHash,
			&document,
			&summary,
			&ch.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning character: %w", err)
		}
		ch.Document = document
		ch.Summary = summary
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
WHERE owner = $1
ORDER BY name
`

	rows, err := c.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	summaries := []store.CharacterSummary{}
	for rows.Next() {
		var s store.CharacterSummary
		if err := rows.Scan(&s.Name, &s.Metatype, &s.SourceFile, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning character summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating character summaries: %w", err)
	}

	return summaries, nil
}
