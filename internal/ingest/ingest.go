package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"chummerview/internal/config"
	"chummerview/internal/normalize"
	"chummerview/internal/parser"
	"chummerview/internal/store"
)

// Store is the part of store.Store the ingester writes through.
type Store interface {
	EnsureSchema(ctx context.Context) error
	UpsertCharacter(ctx context.Context, c store.CharacterInput) error
	RemoveStaleCharacters(ctx context.Context, owner string, currentSourceFiles []string) (int64, error)
	GetSourceHashes(ctx context.Context, owner string) (map[string]string, error)
	ListCharacters(ctx context.Context, owner string) ([]store.CharacterSummary, error)
}

type Result struct {
	Upserted     int
	Removed      int
	FilesSkipped int
	Errors       []error
}

type Options struct {
	Full   bool
	Logger *slog.Logger
}

// sheetExtensions are the file suffixes read as character sheets.
var sheetExtensions = []string{".chum5", ".xml"}

// prepared is the outcome of reading one sheet. A nil input with no error
// means the file held no character. Unchanged sheets are not read; name is
// the character already stored from them.
type prepared struct {
	path      string
	unchanged bool
	name      string
	input     *store.CharacterInput
	err       error
}

// Run ingests every sheet under the configured sources into db for the
// configured owner. Parsing and normalizing run on cfg.Workers goroutines;
// writes happen in file order on the calling goroutine.
func Run(ctx context.Context, cfg *config.ProjectConfig, db Store, options Options) (*Result, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	var existingHashes map[string]string
	storedNames := map[string]string{}
	if !options.Full {
		var err error
		existingHashes, err = db.GetSourceHashes(ctx, cfg.Owner)
		if err != nil {
			return nil, fmt.Errorf("get source hashes for %s: %w", cfg.Owner, err)
		}
		stored, err := db.ListCharacters(ctx, cfg.Owner)
		if err != nil {
			return nil, fmt.Errorf("list characters for %s: %w", cfg.Owner, err)
		}
		for _, c := range stored {
			storedNames[c.SourceFile] = c.Name
		}
	}

	result := &Result{}
	var files []string
	for _, source := range cfg.Sources {
		found, err := walkSheetFiles(source.Paths, cfg.Exclude)
		if err != nil {
			return nil, fmt.Errorf("walking files for source %s: %w", source.Name, err)
		}
		logger.Debug("walked source", "source", source.Name, "files", len(found))
		files = append(files, found...)
	}

	var pending []prepared
	for _, path := range files {
		hash, err := computeHash(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("hashing %s: %w", path, err))
			continue
		}
		if existing, ok := existingHashes[path]; ok && existing == hash {
			pending = append(pending, prepared{path: path, unchanged: true, name: storedNames[path]})
			continue
		}
		pending = append(pending, prepared{path: path, input: &store.CharacterInput{
			Owner:      cfg.Owner,
			SourceFile: path,
			SourceHash: hash,
		}})
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range pending {
		if pending[i].unchanged {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ok, err := prepare(pending[i].path, pending[i].input)
			if !ok && err == nil {
				pending[i].input = nil
			}
			pending[i].err = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Rows are unique per owner and name, so the first sheet in walk order
	// keeps a name and later sheets carrying it are reported.
	claimed := map[string]string{}
	claim := func(name, path string) error {
		key := strings.ToLower(name)
		if first, ok := claimed[key]; ok {
			return fmt.Errorf("duplicate character %s in %s (already from %s)", name, path, first)
		}
		claimed[key] = path
		return nil
	}

	for _, p := range pending {
		switch {
		case p.unchanged:
			result.FilesSkipped++
			if p.name == "" {
				continue
			}
			if err := claim(p.name, p.path); err != nil {
				result.Errors = append(result.Errors, err)
			}
		case p.err != nil:
			logger.Warn("skipping sheet", "file", p.path, "error", p.err)
			result.Errors = append(result.Errors, fmt.Errorf("reading %s: %w", p.path, p.err))
		case p.input == nil:
			result.FilesSkipped++
		default:
			if err := claim(p.input.Name, p.path); err != nil {
				logger.Warn("skipping sheet", "file", p.path, "error", err)
				result.Errors = append(result.Errors, err)
				continue
			}
			if err := db.UpsertCharacter(ctx, *p.input); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("upserting %s: %w", p.path, err))
				continue
			}
			logger.Debug("upserted character", "name", p.input.Name, "file", p.path)
			result.Upserted++
		}
	}

	deleted, err := db.RemoveStaleCharacters(ctx, cfg.Owner, files)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("removing stale characters for %s: %w", cfg.Owner, err))
	} else {
		result.Removed = int(deleted)
	}

	logger.Info("ingest finished",
		"owner", cfg.Owner,
		"upserted", result.Upserted,
		"removed", result.Removed,
		"skipped", result.FilesSkipped,
		"errors", len(result.Errors))
	return result, nil
}

// prepare parses and normalizes the sheet at path into input. It reports
// false without an error for well-formed XML that is not a character.
func prepare(path string, input *store.CharacterInput) (bool, error) {
	doc, err := parser.ParseFile(path)
	if err != nil {
		return false, err
	}
	if doc.Character() == nil {
		return false, nil
	}
	summary, err := normalize.Normalize(doc)
	if err != nil {
		return false, err
	}

	document, err := json.Marshal(doc.ToMap())
	if err != nil {
		return false, fmt.Errorf("encoding document: %w", err)
	}
	encoded, err := json.Marshal(summary)
	if err != nil {
		return false, fmt.Errorf("encoding summary: %w", err)
	}

	input.Name = summary.Name
	if input.Name == "" {
		input.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	input.Metatype = summary.Metatype
	input.Document = document
	input.Summary = encoded
	input.Keywords = keywords(summary)
	return true, nil
}

// keywords lists the names a search should find a character by.
func keywords(s *normalize.Summary) string {
	var words []string
	for _, skill := range s.Skills {
		words = append(words, skill.Name)
	}
	for _, spell := range s.Spells {
		words = append(words, spell.Name)
	}
	for _, form := range s.ComplexForms {
		words = append(words, form.Name)
	}
	for _, power := range s.AdeptPowers {
		words = append(words, power.Name)
	}
	var addGear func([]normalize.Gear)
	addGear = func(gear []normalize.Gear) {
		for _, g := range gear {
			words = append(words, g.Name)
			addGear(g.Children)
		}
	}
	addGear(s.Gear)
	for _, a := range append(append([]normalize.Augmentation{}, s.Cyberware...), s.Bioware...) {
		words = append(words, a.Name)
	}
	for _, v := range s.Vehicles {
		words = append(words, v.Name)
	}
	return strings.Join(words, " ")
}

func walkSheetFiles(roots []string, excludes []string) ([]string, error) {
	excluded := make([]string, 0, len(excludes))
	for _, path := range excludes {
		if path == "" {
			continue
		}
		excluded = append(excluded, filepath.Clean(path))
	}

	var files []string
	for _, root := range roots {
		if root == "" {
			continue
		}
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && isExcluded(path, excluded) {
				return filepath.SkipDir
			}
			if d.IsDir() || !isSheet(d.Name()) || isExcluded(path, excluded) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func isSheet(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range sheetExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func isExcluded(path string, excludes []string) bool {
	clean := filepath.Clean(path)
	for _, exclude := range excludes {
		if exclude == clean || strings.HasPrefix(clean, exclude+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

func computeHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
