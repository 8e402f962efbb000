package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS characters (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		owner           TEXT NOT NULL,
		name            TEXT NOT NULL,
		name_normalized TEXT NOT NULL,
		metatype        TEXT DEFAULT '',
		source_file     TEXT,
		source_hash     TEXT,
		document        TEXT NOT NULL DEFAULT '{}',
		summary         TEXT NOT NULL DEFAULT '{}',
		keywords        TEXT DEFAULT '',
		updated_at      TEXT DEFAULT (datetime('now')),
		CONSTRAINT uq_character_owner_name UNIQUE (owner, name_normalized)
	);

	CREATE INDEX IF NOT EXISTS idx_characters_owner ON characters (owner);
	CREATE INDEX IF NOT EXISTS idx_characters_source_file ON characters (owner, source_file);

	CREATE VIRTUAL TABLE IF NOT EXISTS characters_fts USING fts5(
		name,
		metatype,
		keywords,
		content=characters,
		content_rowid=id
	);

	CREATE TRIGGER IF NOT EXISTS characters_ai AFTER INSERT ON characters BEGIN
		INSERT INTO characters_fts(rowid, name, metatype, keywords)
		VALUES (new.id, new.name, new.metatype, new.keywords);
	END;

	CREATE TRIGGER IF NOT EXISTS characters_ad AFTER DELETE ON characters BEGIN
		INSERT INTO characters_fts(characters_fts, rowid, name, metatype, keywords)
		VALUES ('delete', old.id, old.name, old.metatype, old.keywords);
	END;

	CREATE TRIGGER IF NOT EXISTS characters_au AFTER UPDATE ON characters BEGIN
		INSERT INTO characters_fts(characters_fts, rowid, name, metatype, keywords)
		VALUES ('delete', old.id, old.name, old.metatype, old.keywords);
		INSERT INTO characters_fts(rowid, name, metatype, keywords)
		VALUES (new.id, new.name, new.metatype, new.keywords);
	END;
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	statements := splitStatements(ddl)
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

// splitStatements splits DDL on trailing semicolons, keeping trigger bodies
// (BEGIN ... END;) in one statement.
func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder
	depth := 0

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		upper := strings.ToUpper(stripped)
		switch {
		case strings.HasSuffix(upper, "BEGIN"):
			depth++
		case upper == "END;" && depth > 0:
			depth--
		}

		if depth == 0 && strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}

	return statements
}
