package store

import "context"

// Store persists normalized characters per owner. Implementations return a
// nil *Character and no error when a lookup finds nothing.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	UpsertCharacter(ctx context.Context, c CharacterInput) error
	RemoveStaleCharacters(ctx context.Context, owner string, currentSourceFiles []string) (int64, error)
	GetSourceHashes(ctx context.Context, owner string) (map[string]string, error)

	GetCharacter(ctx context.Context, owner, name string) (*Character, error)
	ListCharacters(ctx context.Context, owner string) ([]CharacterSummary, error)
	SearchCharacters(ctx context.Context, owner, query string) ([]SearchResult, error)

	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}
