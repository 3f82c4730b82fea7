package main

import (
	"context"
	"fmt"
	"time"

	"github.com/reelid/reelid/internal/config"
	"github.com/reelid/reelid/internal/database"
	"github.com/reelid/reelid/internal/logger"
	"github.com/reelid/reelid/internal/metacache"
	"github.com/reelid/reelid/internal/metadata"
	"github.com/reelid/reelid/internal/metadata/douban"
	"github.com/reelid/reelid/internal/metadata/mock"
	"github.com/reelid/reelid/internal/metadata/tmdb"
	"github.com/reelid/reelid/internal/parser"
)

// app holds the wired resolver and what must be closed with it.
type app struct {
	resolver *metadata.Resolver
	db       *database.DB
}

func (a *app) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// newApp wires the resolver from configuration. With a database path both
// caches persist in SQLite; otherwise they live in memory.
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	a := &app{}
	deps := metadata.Deps{Parser: parser.New()}
	keywordTTL := time.Duration(cfg.Resolver.KeywordCacheTTL) * time.Hour

	if cfg.Database.Path != "" {
		db, err := database.New(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		a.db = db
		deps.Store = metacache.NewSQLiteStore(db.Conn())
		deps.Keywords = metacache.NewSQLiteKeywordStore(db.Conn(), keywordTTL)
		log.Info().Str("path", db.Path()).Msg("Using SQLite caches")
	} else {
		deps.Store = metacache.NewMemoryStore()
		deps.Keywords = metacache.NewMemoryKeywordStore(keywordTTL, 0)
		log.Info().Msg("Using in-memory caches")
	}

	if cfg.Catalog.DevMode {
		log.Warn().Msg("Developer mode: serving the built-in sample catalog")
		deps.Catalog = mock.NewSample()
	} else {
		deps.Catalog = tmdb.NewClient(cfg.Catalog, log.Logger)
		if !deps.Catalog.IsConfigured() {
			log.Warn().Msg("TMDB API key not set, resolution is disabled")
		}
	}
	deps.Secondary = douban.NewClient(cfg.Secondary, log.Logger)

	probeTimeout := time.Duration(cfg.Resolver.WebProbeTimeout) * time.Second
	deps.Prober = metadata.NewWebProber(cfg.Catalog.WebBaseURL, probeTimeout, &log.Logger)

	rules, err := metadata.LoadKeywordRules(cfg.Keyword.RulesFile)
	if err != nil {
		a.Close()
		return nil, err
	}
	deps.Extractor = metadata.NewKeywordExtractor(cfg.Keyword, rules, &log.Logger)

	a.resolver = metadata.NewResolver(deps, metadata.OptionsFromConfig(cfg.Resolver), &log.Logger)
	return a, nil
}
