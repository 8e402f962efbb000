package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"chummerview/internal/config"
	"chummerview/internal/store"
	"chummerview/internal/store/sqlite"
)

type mockStore struct {
	characters  []store.CharacterInput
	removeCalls []struct {
		owner string
		files []string
	}
	ensureCalled bool
	failUpsert   bool
	hashes       map[string]string
	listed       []store.CharacterSummary
}

func (m *mockStore) EnsureSchema(ctx context.Context) error {
	m.ensureCalled = true
	return nil
}

func (m *mockStore) UpsertCharacter(ctx context.Context, c store.CharacterInput) error {
	if m.failUpsert && c.Name == "Axe" {
		return errors.New("forced error")
	}
	m.characters = append(m.characters, c)
	return nil
}

func (m *mockStore) RemoveStaleCharacters(ctx context.Context, owner string, currentSourceFiles []string) (int64, error) {
	m.removeCalls = append(m.removeCalls, struct {
		owner string
		files []string
	}{owner: owner, files: currentSourceFiles})
	return 2, nil
}

func (m *mockStore) GetSourceHashes(ctx context.Context, owner string) (map[string]string, error) {
	if m.hashes == nil {
		return map[string]string{}, nil
	}
	return m.hashes, nil
}

func (m *mockStore) ListCharacters(ctx context.Context, owner string) ([]store.CharacterSummary, error) {
	return m.listed, nil
}

func (m *mockStore) find(name string) *store.CharacterInput {
	for i := range m.characters {
		if m.characters[i].Name == name {
			return &m.characters[i]
		}
	}
	return nil
}

func TestRun_BasicIngestion(t *testing.T) {
	db := &mockStore{}
	result, err := Run(context.Background(), testProjectConfig(t), db, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !db.ensureCalled {
		t.Fatalf("expected ensure schema")
	}
	if result.Upserted != 2 || len(db.characters) != 2 {
		t.Fatalf("expected 2 characters upserted, got %d (%d stored)", result.Upserted, len(db.characters))
	}
	if db.characters[0].Name != "Axe" || db.characters[1].Name != "nameless" {
		t.Fatalf("expected characters in file order, got %q and %q", db.characters[0].Name, db.characters[1].Name)
	}
	if result.Removed != 2 {
		t.Fatalf("expected removed count from store, got %d", result.Removed)
	}
}

func TestRun_CharacterInput(t *testing.T) {
	db := &mockStore{}
	if _, err := Run(context.Background(), testProjectConfig(t), db, Options{}); err != nil {
		t.Fatalf("run: %v", err)
	}

	axe := db.find("Axe")
	if axe == nil {
		t.Fatalf("expected Axe to be ingested")
	}
	if axe.Owner != "gm" || axe.Metatype != "Troll" {
		t.Fatalf("unexpected owner or metatype: %+v", axe)
	}
	if axe.SourceFile != filepath.Join("testdata", "sheets", "axe.chum5") || len(axe.SourceHash) != 64 {
		t.Fatalf("unexpected source: %s %s", axe.SourceFile, axe.SourceHash)
	}
	if !strings.Contains(axe.Keywords, "Blades") || !strings.Contains(axe.Keywords, "Medkit") {
		t.Fatalf("expected skills and gear in keywords, got %q", axe.Keywords)
	}

	var summary map[string]any
	if err := json.Unmarshal(axe.Summary, &summary); err != nil {
		t.Fatalf("summary is not JSON: %v", err)
	}
	if summary["initiative"] != "7 + 1D6" {
		t.Fatalf("expected initiative in summary, got %v", summary["initiative"])
	}

	var document map[string]any
	if err := json.Unmarshal(axe.Document, &document); err != nil {
		t.Fatalf("document is not JSON: %v", err)
	}
	if _, ok := document["character"]; !ok {
		t.Fatalf("expected character root in document, got %v", document)
	}

	nameless := db.find("nameless")
	if nameless == nil || !strings.Contains(nameless.Keywords, "Manabolt") {
		t.Fatalf("expected file name fallback with spell keywords, got %+v", nameless)
	}
}

func TestRun_SkipsNonCharacters(t *testing.T) {
	result, err := Run(context.Background(), testProjectConfig(t), &mockStore{}, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.FilesSkipped != 1 {
		t.Fatalf("expected notes.xml skipped, got %d skipped", result.FilesSkipped)
	}
}

func TestRun_CollectsParseErrors(t *testing.T) {
	result, err := Run(context.Background(), testProjectConfig(t), &mockStore{}, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0].Error(), "broken.chum5") {
		t.Fatalf("expected one error for broken.chum5, got %v", result.Errors)
	}
}

func TestRun_ContinuesOnUpsertError(t *testing.T) {
	db := &mockStore{failUpsert: true}
	result, err := Run(context.Background(), testProjectConfig(t), db, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected parse and upsert errors, got %v", result.Errors)
	}
	if db.find("nameless") == nil {
		t.Fatalf("expected later files to be ingested")
	}
}

func TestRun_RemoveStaleCharacters(t *testing.T) {
	db := &mockStore{}
	if _, err := Run(context.Background(), testProjectConfig(t), db, Options{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(db.removeCalls) != 1 {
		t.Fatalf("expected one remove stale call, got %d", len(db.removeCalls))
	}
	call := db.removeCalls[0]
	if call.owner != "gm" || len(call.files) != 4 {
		t.Fatalf("expected four walked files for gm, got %s %v", call.owner, call.files)
	}
	for _, f := range call.files {
		if strings.Contains(f, "backup") || strings.HasSuffix(f, ".md") {
			t.Fatalf("expected excluded file to be left out: %s", f)
		}
	}
}

func TestRun_IncrementalSkip(t *testing.T) {
	path := filepath.Join("testdata", "sheets", "axe.chum5")
	hash, err := computeHash(path)
	if err != nil {
		t.Fatalf("compute hash: %v", err)
	}
	db := &mockStore{hashes: map[string]string{path: hash}}

	result, err := Run(context.Background(), testProjectConfig(t), db, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if db.find("Axe") != nil {
		t.Fatalf("expected Axe to be skipped")
	}
	if result.FilesSkipped != 2 {
		t.Fatalf("expected unchanged file and notes skipped, got %d", result.FilesSkipped)
	}
	if len(db.removeCalls[0].files) != 4 {
		t.Fatalf("expected unchanged files to stay current")
	}
}

func TestRun_FullIngestionOverridesHashes(t *testing.T) {
	path := filepath.Join("testdata", "sheets", "axe.chum5")
	hash, err := computeHash(path)
	if err != nil {
		t.Fatalf("compute hash: %v", err)
	}
	db := &mockStore{hashes: map[string]string{path: hash}}

	if _, err := Run(context.Background(), testProjectConfig(t), db, Options{Full: true}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if db.find("Axe") == nil {
		t.Fatalf("expected Axe to be ingested in full mode")
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, testProjectConfig(t), &mockStore{}, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun_DuplicateNames(t *testing.T) {
	first := filepath.Join("testdata", "duplicates", "a", "x.chum5")
	second := filepath.Join("testdata", "duplicates", "b", "x.chum5")
	firstHash, err := computeHash(first)
	if err != nil {
		t.Fatalf("compute hash: %v", err)
	}
	secondHash, err := computeHash(second)
	if err != nil {
		t.Fatalf("compute hash: %v", err)
	}

	cases := []struct {
		name         string
		db           *mockStore
		wantUpserted int
		wantSkipped  int
	}{
		{name: "fresh store", db: &mockStore{}, wantUpserted: 1},
		{
			name: "first sheet unchanged",
			db: &mockStore{
				hashes: map[string]string{first: firstHash},
				listed: []store.CharacterSummary{{Name: "Axe", SourceFile: first}},
			},
			wantSkipped: 1,
		},
		{
			name: "row held by later sheet",
			db: &mockStore{
				hashes: map[string]string{second: secondHash},
				listed: []store.CharacterSummary{{Name: "Axe", SourceFile: second}},
			},
			wantUpserted: 1,
			wantSkipped:  1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Run(context.Background(), duplicatesConfig(), tc.db, Options{})
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if result.Upserted != tc.wantUpserted || result.FilesSkipped != tc.wantSkipped {
				t.Fatalf("expected %d upserted and %d skipped, got %d and %d",
					tc.wantUpserted, tc.wantSkipped, result.Upserted, result.FilesSkipped)
			}
			for _, c := range tc.db.characters {
				if c.SourceFile != first {
					t.Fatalf("expected only %s to be written, got %s", first, c.SourceFile)
				}
			}
			want := "duplicate character Axe in " + second + " (already from " + first + ")"
			if len(result.Errors) != 1 || result.Errors[0].Error() != want {
				t.Fatalf("expected %q, got %v", want, result.Errors)
			}
		})
	}
}

func TestRun_DuplicateNamesStable(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.New(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close(ctx) })

	for run := 0; run < 4; run++ {
		result, err := Run(ctx, duplicatesConfig(), db, Options{})
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if run > 0 && result.Upserted != 0 {
			t.Fatalf("run %d: expected nothing to change, got %d upserted", run, result.Upserted)
		}
		character, err := db.GetCharacter(ctx, "gm", "Axe")
		if err != nil {
			t.Fatalf("run %d: get character: %v", run, err)
		}
		if character == nil || character.Metatype != "Troll" {
			t.Fatalf("run %d: expected the first sheet to keep Axe, got %+v", run, character)
		}
	}
}

func TestIsSheet(t *testing.T) {
	cases := map[string]bool{
		"ghost.chum5": true,
		"GHOST.CHUM5": true,
		"export.xml":  true,
		"notes.md":    false,
		"chum5":       false,
	}
	for name, want := range cases {
		if got := isSheet(name); got != want {
			t.Fatalf("isSheet(%q): expected %v, got %v", name, want, got)
		}
	}
}

func testProjectConfig(t *testing.T) *config.ProjectConfig {
	t.Helper()
	return &config.ProjectConfig{
		Project: "test",
		Version: 1,
		Owner:   "gm",
		Workers: 2,
		Sources: []config.Source{{
			Name:  "table",
			Paths: []string{filepath.Join("testdata", "sheets")},
		}},
		Exclude: []string{filepath.Join("testdata", "sheets", "backup")},
	}
}

func duplicatesConfig() *config.ProjectConfig {
	return &config.ProjectConfig{
		Project: "test",
		Version: 1,
		Owner:   "gm",
		Workers: 2,
		Sources: []config.Source{{
			Name:  "table",
			Paths: []string{filepath.Join("testdata", "duplicates")},
		}},
	}
}
