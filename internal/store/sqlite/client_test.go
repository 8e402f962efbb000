package sqlite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chummerview/internal/store"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	client, err := New(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	t.Cleanup(func() { client.Close(ctx) })

	// Twice, to check the DDL is idempotent.
	for i := 0; i < 2; i++ {
		if err := client.EnsureSchema(ctx); err != nil {
			t.Fatalf("ensuring schema: %v", err)
		}
	}
	return client
}

func upsert(t *testing.T, c *Client, owner, name, file, keywords string) {
	t.Helper()
	err := c.UpsertCharacter(context.Background(), store.CharacterInput{
		Owner:      owner,
		Name:       name,
		Metatype:   "Elf",
		SourceFile: file,
		SourceHash: "hash-" + file,
		Document:   []byte(`{"character":{"alias":"` + name + `"}}`),
		Summary:    []byte(`{"name":"` + name + `"}`),
		Keywords:   keywords,
	})
	if err != nil {
		t.Fatalf("upserting %s: %v", name, err)
	}
}

func TestClient_Characters(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	upsert(t, c, "gm", "Ghost", "ghost.chum5", "Pistols Sneaking Fireball")
	upsert(t, c, "gm", "Axe", "axe.chum5", "Blades Unarmed Combat")
	upsert(t, c, "player", "Ghost", "other/ghost.chum5", "Hacking")
	upsert(t, c, "gm", "GHOST", "ghost.chum5", "Pistols Sneaking Fireball Spellcasting")

	t.Run("get is case-insensitive and owner-scoped", func(t *testing.T) {
		ch, err := c.GetCharacter(ctx, "gm", "ghost")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ch == nil || ch.Name != "GHOST" || ch.SourceFile != "ghost.chum5" {
			t.Fatalf("expected updated Ghost, got %+v", ch)
		}
		if !strings.Contains(string(ch.Summary), `"GHOST"`) {
			t.Fatalf("expected summary to be replaced, got %s", ch.Summary)
		}
		if ch.UpdatedAt.IsZero() {
			t.Fatalf("expected updated_at to be set")
		}
	})

	t.Run("missing character", func(t *testing.T) {
		ch, err := c.GetCharacter(ctx, "gm", "Nobody")
		if err != nil || ch != nil {
			t.Fatalf("expected nil, nil; got %+v, %v", ch, err)
		}
	})

	t.Run("list", func(t *testing.T) {
		list, err := c.ListCharacters(ctx, "gm")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(list) != 2 || list[0].Name != "Axe" || list[1].Name != "GHOST" {
			t.Fatalf("expected Axe and GHOST, got %+v", list)
		}
	})

	t.Run("search", func(t *testing.T) {
		results, err := c.SearchCharacters(ctx, "gm", "spellcasting")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(results) != 1 || results[0].Name != "GHOST" {
			t.Fatalf("expected one hit, got %+v", results)
		}
		if _, err := c.SearchCharacters(ctx, "gm", "  "); err == nil {
			t.Fatalf("expected error for empty query")
		}
	})

	t.Run("hashes", func(t *testing.T) {
		hashes, err := c.GetSourceHashes(ctx, "gm")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(hashes) != 2 || hashes["axe.chum5"] != "hash-axe.chum5" {
			t.Fatalf("unexpected hashes %v", hashes)
		}
	})

	t.Run("sql", func(t *testing.T) {
		rows, err := c.RunSQL(ctx, "SELECT name FROM characters WHERE owner = ? ORDER BY name", map[string]any{"1": "player"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(rows) != 1 || rows[0]["name"] != "Ghost" {
			t.Fatalf("unexpected rows %v", rows)
		}
		if _, err := c.RunSQL(ctx, "DELETE FROM characters", nil); !errors.Is(err, store.ErrNotReadOnly) {
			t.Fatalf("expected ErrNotReadOnly, got %v", err)
		}
	})

	t.Run("remove stale", func(t *testing.T) {
		removed, err := c.RemoveStaleCharacters(ctx, "gm", []string{"ghost.chum5"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if removed != 1 {
			t.Fatalf("expected 1 removed, got %d", removed)
		}

		removed, err = c.RemoveStaleCharacters(ctx, "player", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if removed != 1 {
			t.Fatalf("expected 1 removed, got %d", removed)
		}

		list, _ := c.ListCharacters(ctx, "gm")
		if len(list) != 1 {
			t.Fatalf("expected one character left, got %+v", list)
		}
	})
}

func TestSplitStatements(t *testing.T) {
	ddl := `
	CREATE TABLE a (id INTEGER);
	-- comment;
	CREATE TRIGGER t AFTER INSERT ON a BEGIN
		INSERT INTO b VALUES (new.id);
		INSERT INTO c VALUES (new.id);
	END;
	CREATE INDEX i ON a (id);
	`
	statements := splitStatements(ddl)
	if len(statements) != 3 {
		t.Fatalf("expected 3 statements, got %d: %q", len(statements), statements)
	}
	if !strings.Contains(statements[1], "INSERT INTO c") || !strings.HasSuffix(strings.TrimSpace(statements[1]), "END;") {
		t.Fatalf("expected trigger kept whole, got %q", statements[1])
	}
}
