package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) RemoveStaleCharacters(ctx context.Context, owner string, currentSourceFiles []string) (int64, error) {
	args := make([]any, 0, len(currentSourceFiles)+1)
	args = append(args, owner)

	query := `
	DELETE FROM characters
	WHERE owner = ?
	  AND source_file IS NOT NULL
	  AND source_file <> ''
	`
	if len(currentSourceFiles) > 0 {
		placeholders := make([]string, len(currentSourceFiles))
		for i, f := range currentSourceFiles {
			placeholders[i] = "?"
			args = append(args, f)
		}
		query += fmt.Sprintf("  AND source_file NOT IN (%s)\n", strings.Join(placeholders, ", "))
	}

	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("removing stale characters: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}

	return affected, nil
}

func (c *Client) GetSourceHashes(ctx context.Context, owner string) (map[string]string, error) {
	query := `
	SELECT source_file, source_hash FROM characters
	WHERE owner = ?
	  AND source_file IS NOT NULL
	  AND source_file <> ''
	`

	rows, err := c.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("query source hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var sourceFile, sourceHash string
		if err := rows.Scan(&sourceFile, &sourceHash); err != nil {
			return nil, fmt.Errorf("scanning source hash: %w", err)
		}
		hashes[sourceFile] = sourceHash
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating source hashes: %w", err)
	}

	return hashes, nil
}
