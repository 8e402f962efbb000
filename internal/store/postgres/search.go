package postgres

import (
	"context"
	"fmt"
	"strings"

	"chummerview/internal/store"
)

func (c *Client) SearchCharacters(ctx context.Context, owner, query string) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	sql := `
SELECT name, metatype,
    ts_rank(search_vector, websearch_to_tsquery('english', $2)) AS score,
    CASE WHEN keywords <> '' THEN
        ts_headline('english', keywords, websearch_to_tsquery('english', $2),
            'MaxFragments=2, MaxWords=20, MinWords=5, StartSel=**, StopSel=**')
    ELSE '' END AS snippet
FROM characters
WHERE owner = $1
  AND search_vector @@ websearch_to_tsquery('english', $2)
ORDER BY score DESC, name ASC
LIMIT 50
`

	rows, err := c.pool.Query(ctx, sql, owner, query)
	if err != nil {
		return nil, fmt.Errorf("searching characters: %w", err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		if err := rows.Scan(&r.Name, &r.Metatype, &r.Score, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}

	return results, nil
}
