package mcp

import (
	"context"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"chummerview/internal/critter"
	"chummerview/internal/ledger"
	"chummerview/internal/store"
)

// CharacterReader is the part of store.Store the tools read from.
type CharacterReader interface {
	GetCharacter(ctx context.Context, owner, name string) (*store.Character, error)
	ListCharacters(ctx context.Context, owner string) ([]store.CharacterSummary, error)
	SearchCharacters(ctx context.Context, owner, query string) ([]store.SearchResult, error)
}

type Options struct {
	// DB may be nil; the storage tools then report an error.
	DB       CharacterReader
	Owner    string
	Critters *critter.Catalog
	Logger   *slog.Logger
	Version  string
}

const instructions = "Tools for Shadowrun 5 character sheets exported by Chummer: normalize a sheet, " +
	"append karma and nuyen awards, generate spirits and sprites, and look up ingested characters."

type Server struct {
	db       CharacterReader
	owner    string
	critters *critter.Catalog
	appender *ledger.Appender
	logger   *slog.Logger
	mcp      *sdk.Server
}

func NewServer(options Options) *Server {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		db:       options.DB,
		owner:    options.Owner,
		critters: options.Critters,
		appender: ledger.NewAppender(),
		logger:   logger,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "chummerview",
			Version: options.Version,
		}, &sdk.ServerOptions{Instructions: instructions}),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	s.logger.Info("mcp server starting", "owner", s.owner)
	return s.mcp.Run(ctx, transport)
}
