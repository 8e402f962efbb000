package sqlite

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

	ftsQuery := convertWebsearchToFTS5(query)

	sqlQuery := `
	SELECT ch.name, ch.metatype,
		   -bm25(characters_fts, 10.0, 4.0, 1.0) AS score,
		   snippet(characters_fts, 2, '**', '**', '...', 20) AS snippet
	FROM characters_fts
	JOIN characters ch ON characters_fts.rowid = ch.id
	WHERE characters_fts MATCH ?
	  AND ch.owner = ?
	ORDER BY score DESC, ch.name ASC
	LIMIT 50
	`

	rows, err := c.db.QueryContext(ctx, sqlQuery, ftsQuery, owner)
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

func convertWebsearchToFTS5(query string) string {
	var result strings.Builder
	var inQuote bool
	var current strings.Builder

	flushToken := func() {
		token := current.String()
		current.Reset()
		if token == "" {
			return
		}

		upper := strings.ToUpper(token)
		switch upper {
		case "AND", "OR", "NOT":
			if result.Len() > 0 {
				result.WriteString(" ")
			}
			result.WriteString(upper)
			return
		}

		if result.Len() > 0 {
			lastWord := lastWord(result.String())
			if lastWord != "AND" && lastWord != "OR" && lastWord != "NOT" && lastWord != "" {
				result.WriteString(" AND ")
			} else {
				result.WriteString(" ")
			}
		}

		if strings.HasPrefix(token, "-") && len(token) > 1 {
			result.WriteString("NOT ")
			result.WriteString(token[1:])
		} else if strings.HasSuffix(token, "*") {
			result.WriteString(token)
		} else {
			result.WriteString(token)
		}
	}

	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '"':
			if inQuote {
				inQuote = false
				token := current.String()
				current.Reset()
				if token != "" {
					if result.Len() > 0 {
						result.WriteString(" AND ")
					}
					result.WriteString(`"`)
					result.WriteString(token)
					result.WriteString(`"`)
				}
			} else {
				flushToken()
				inQuote = true
			}
		case inQuote:
			current.WriteByte(ch)
		case ch == ' ' || ch == '\t':
			flushToken()
		default:
			current.WriteByte(ch)
		}
	}

	flushToken()

	return result.String()
}

func lastWord(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}
