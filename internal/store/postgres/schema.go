package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	// All statements run in one implicit transaction; IF NOT EXISTS keeps
	// repeated runs idempotent.
	ddl := `
CREATE TABLE IF NOT EXISTS characters (
    id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    owner           TEXT NOT NULL,
    name            TEXT NOT NULL,
    name_normalized TEXT NOT NULL,
    metatype        TEXT DEFAULT '',
    source_file     TEXT,
    source_hash     TEXT,
    document        JSONB NOT NULL DEFAULT '{}',
    summary         JSONB NOT NULL DEFAULT '{}',
    keywords        TEXT DEFAULT '',
    search_vector   TSVECTOR,
    updated_at      TIMESTAMPTZ DEFAULT now(),
    CONSTRAINT uq_character_owner_name UNIQUE (owner, name_normalized)
);

CREATE INDEX IF NOT EXISTS idx_characters_owner ON characters (owner);
CREATE INDEX IF NOT EXISTS idx_characters_source_file ON characters (owner, source_file);
CREATE INDEX IF NOT EXISTS idx_characters_search ON characters USING GIN (search_vector);
`
	_, err := c.pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
