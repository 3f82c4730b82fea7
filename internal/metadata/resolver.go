package metadata

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelid/reelid/internal/config"
	"github.com/reelid/reelid/internal/media"
	"github.com/reelid/reelid/internal/metacache"
	"github.com/reelid/reelid/internal/metadata/douban"
	"github.com/reelid/reelid/internal/metadata/tmdb"
)

// Options tunes a Resolver.
type Options struct {
	// Strict disables the relaxed fallbacks: searching again without the
	// year and the multi search for queries of unknown type.
	Strict bool
	// SearchKeyword enables the search engine keyword fallback.
	SearchKeyword bool
	// WantChinese replaces display titles with simplified Chinese ones when
	// the catalog language is zh-CN.
	WantChinese bool

	WebProbeCache  metacache.TTLConfig
	AltTitleCache  metacache.TTLConfig
	SecondaryCache metacache.TTLConfig
	BatchWorkers   int
}

// OptionsFromConfig maps resolver configuration onto Options.
func OptionsFromConfig(cfg config.ResolverConfig) Options {
	return Options{
		Strict:        cfg.Strict(),
		SearchKeyword: cfg.SearchKeyword,
		WantChinese:   cfg.WantChinese,
		WebProbeCache: metacache.TTLConfig{
			TTL:      time.Duration(cfg.WebProbeCacheTTL) * time.Minute,
			MaxItems: cfg.WebProbeCacheSize,
		},
		AltTitleCache: metacache.TTLConfig{
			TTL:      time.Duration(cfg.WebProbeCacheTTL) * time.Minute,
			MaxItems: cfg.WebProbeCacheSize,
		},
		SecondaryCache: metacache.TTLConfig{
			TTL: time.Duration(cfg.SecondaryCacheTTL) * time.Minute,
		},
		BatchWorkers: cfg.BatchWorkers,
	}
}

// Deps are the collaborators of a Resolver. Catalog and Parser are required.
// A nil Store or Keywords falls back to an in-memory one; a nil Prober,
// Extractor or Secondary disables that lookup.
type Deps struct {
	Catalog   Catalog
	Secondary SecondaryCatalog
	Parser    Parser
	Store     Store
	Keywords  KeywordStore
	Prober    *WebProber
	Extractor *KeywordExtractor
}

// Resolver turns noisy titles into catalog records.
type Resolver struct {
	catalog   Catalog
	secondary SecondaryCatalog
	parser    Parser
	store     Store
	keywords  KeywordStore
	prober    *WebProber
	extractor *KeywordExtractor

	probeCache     *metacache.TTLCache[string, *media.Record]
	altTitleCache  *metacache.TTLCache[string, []media.AlternateTitle]
	secondaryCache *metacache.TTLCache[string, *douban.Subject]

	opts   Options
	logger zerolog.Logger
}

// NewResolver creates a resolver.
func NewResolver(deps Deps, opts Options, logger *zerolog.Logger) *Resolver {
	r := &Resolver{
		catalog:        deps.Catalog,
		secondary:      deps.Secondary,
		parser:         deps.Parser,
		store:          deps.Store,
		keywords:       deps.Keywords,
		prober:         deps.Prober,
		extractor:      deps.Extractor,
		probeCache:     metacache.NewTTLCache[string, *media.Record](opts.WebProbeCache),
		altTitleCache:  metacache.NewTTLCache[string, []media.AlternateTitle](opts.AltTitleCache),
		secondaryCache: metacache.NewTTLCache[string, *douban.Subject](opts.SecondaryCache),
		opts:           opts,
		logger:         logger.With().Str("component", "resolver").Logger(),
	}
	if r.store == nil {
		r.store = metacache.NewMemoryStore()
	}
	if r.keywords == nil {
		r.keywords = metacache.NewMemoryKeywordStore(7*24*time.Hour, 0)
	}
	if r.opts.BatchWorkers <= 0 {
		r.opts.BatchWorkers = 1
	}
	return r
}

func (r *Resolver) ready() error {
	if r.catalog == nil || !r.catalog.IsConfigured() {
		return ErrCatalogNotConfigured
	}
	return nil
}

// ResolveRequest is a title to resolve and how.
type ResolveRequest struct {
	Title    string
	Subtitle string
	// Type overrides the type inferred from Title.
	Type media.Type
	// Strict disables relaxed fallbacks for this call.
	Strict bool
	// Refresh ignores and overwrites any cached outcome, including a cached miss.
	Refresh bool
	// KeepTitle skips the Chinese display title.
	KeepTitle bool
}

type resolveOptions struct {
	strict  bool
	refresh bool
	chinese bool
}

// ResolveByQuery parses req.Title and resolves it. A title that cannot be
// matched yields (nil, nil).
func (r *Resolver) ResolveByQuery(ctx context.Context, req ResolveRequest) (*media.Record, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	q := r.parser.Parse(req.Title, req.Subtitle)
	if req.Type != "" {
		q.Type = req.Type
	}
	if q.Type == media.Movie {
		q.Season = 0
	}
	if q.Name == "" {
		r.logger.Debug().Str("title", req.Title).Msg("No usable name in title")
		return nil, nil
	}

	return r.resolve(ctx, q, resolveOptions{
		strict:  req.Strict,
		refresh: req.Refresh,
		chinese: r.opts.WantChinese && !req.KeepTitle,
	}), nil
}

// Resolve resolves an already parsed query.
func (r *Resolver) Resolve(ctx context.Context, q media.Query) (*media.Record, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if q.Name == "" {
		return nil, nil
	}
	return r.resolve(ctx, q, resolveOptions{chinese: r.opts.WantChinese}), nil
}

func (r *Resolver) resolve(ctx context.Context, q media.Query, o resolveOptions) *media.Record {
	key := q.CacheKey()

	var rec *media.Record
	if !o.refresh {
		cached, ok, err := r.store.Get(ctx, key)
		switch {
		case err != nil:
			r.logger.Warn().Err(err).Str("key", key).Msg("Failed to read resolution cache")
		case ok:
			rec = cached
		}
	}

	if rec == nil {
		rec = r.lookup(ctx, q, o)
		if err := r.store.Set(ctx, key, rec); err != nil {
			r.logger.Warn().Err(err).Str("key", key).Msg("Failed to write resolution cache")
		}
		if rec == nil {
			r.logger.Info().Str("key", key).Msg("No match found")
			return nil
		}
		r.logger.Info().Str("key", key).Int("id", rec.ID).Str("type", string(rec.Type)).Str("title", rec.Title).
			Msg("Resolved title")
	}

	if rec.IsNotFound() {
		return nil
	}

	if o.chinese && wantsChinese(r.catalog.Language()) && r.localizeTitle(ctx, rec) {
		if err := r.store.SetTitle(ctx, key, rec.Title); err != nil {
			r.logger.Warn().Err(err).Str("key", key).Msg("Failed to update cached title")
		}
	}
	return rec
}

// lookup runs every tier for q until one matches. On refresh the web search
// and keyword memos are bypassed as well as the resolution cache.
func (r *Resolver) lookup(ctx context.Context, q media.Query, o resolveOptions) *media.Record {
	relaxed := !o.strict && !r.opts.Strict

	rec := r.searchCatalog(ctx, q, relaxed)
	if rec == nil {
		rec = r.probeWeb(ctx, q, o.refresh)
	}
	if rec == nil {
		rec = r.searchKeyword(ctx, q, o.refresh)
	}
	if rec != nil && q.Type != "" && rec.Type != q.Type {
		r.logger.Debug().Str("name", q.Name).Str("want", string(q.Type)).Str("got", string(rec.Type)).
			Msg("Discarding match of the wrong type")
		return nil
	}
	return rec
}

// searchCatalog runs the catalog search chain for the shape of q.
func (r *Resolver) searchCatalog(ctx context.Context, q media.Query, relaxed bool) *media.Record {
	var rec *media.Record

	switch q.Type {
	case media.TV:
		if q.Year > 0 && q.Season > 0 {
			rec = r.searchTVSeason(ctx, q.Name, q.Year, q.Season)
		}
		if rec == nil {
			rec = r.searchTV(ctx, q.Name, q.Year)
		}
		if rec == nil && relaxed && q.Year > 0 {
			rec = r.searchTV(ctx, q.Name, 0)
		}

	case media.Movie:
		rec = r.searchMovie(ctx, q.Name, q.Year)
		if rec == nil && relaxed && q.Year > 0 {
			rec = r.searchMovie(ctx, q.Name, 0)
		}

	default:
		if q.Year == 0 {
			return r.searchMulti(ctx, q.Name)
		}
		rec = r.searchMovie(ctx, q.Name, q.Year)
		if rec == nil {
			rec = r.searchTV(ctx, q.Name, q.Year)
		}
		if rec == nil && relaxed {
			rec = r.searchMovie(ctx, q.Name, 0)
		}
		if rec == nil && relaxed {
			rec = r.searchMulti(ctx, q.Name)
		}
	}
	return rec
}

// ResolveByID looks up a record directly. An empty language uses the
// catalog default.
func (r *Resolver) ResolveByID(ctx context.Context, t media.Type, id int, language string) (*media.Record, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if !t.Valid() || id <= 0 {
		return nil, ErrInvalidArgument
	}

	rec, err := r.details(ctx, t, id, language)
	if err != nil {
		r.drop(err, strconv.Itoa(id))
		return nil, nil
	}
	if rec == nil {
		return nil, nil
	}

	if language == "" {
		language = r.catalog.Language()
	}
	if wantsChinese(language) {
		r.localizeTitle(ctx, rec)
	}
	return rec, nil
}

// ResolveByTitle runs one strict catalog search without parsing or caching:
// a movie or tv search when t is set, a multi search otherwise.
func (r *Resolver) ResolveByTitle(ctx context.Context, title string, year int, t media.Type) (*media.Record, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidArgument
	}

	var rec *media.Record
	switch t {
	case media.Movie:
		rec = r.searchMovie(ctx, title, year)
	case media.TV:
		rec = r.searchTV(ctx, title, year)
	default:
		rec = r.searchMulti(ctx, title)
	}
	if rec != nil && wantsChinese(r.catalog.Language()) {
		r.localizeTitle(ctx, rec)
	}
	return rec, nil
}

// details fetches a full record. A record the catalog does not know yields
// (nil, nil).
func (r *Resolver) details(ctx context.Context, t media.Type, id int, language string) (*media.Record, error) {
	switch t {
	case media.Movie:
		d, err := r.catalog.GetMovie(ctx, id, language)
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, upstream("movie details", err)
		}
		return movieDetailsRecord(d), nil
	case media.TV:
		d, err := r.catalog.GetTV(ctx, id, language)
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, upstream("tv details", err)
		}
		return tvDetailsRecord(d), nil
	}
	return nil, ErrInvalidArgument
}

func altTitleKey(t media.Type, id int) string {
	return fmt.Sprintf("%s:%d", t, id)
}

// CacheKeys lists the resolution cache keys.
func (r *Resolver) CacheKeys(ctx context.Context) ([]string, error) {
	return r.store.Keys(ctx)
}

// CacheEntry returns the cached outcome for key; a cached miss comes back
// as the NotFound marker.
func (r *Resolver) CacheEntry(ctx context.Context, key string) (*media.Record, bool, error) {
	return r.store.Get(ctx, key)
}

// DeleteCacheEntry forgets the outcome for key.
func (r *Resolver) DeleteCacheEntry(ctx context.Context, key string) error {
	return r.store.Delete(ctx, key)
}

// RetitleCacheEntry replaces the display title cached under key.
func (r *Resolver) RetitleCacheEntry(ctx context.Context, key, title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrInvalidArgument
	}
	return r.store.SetTitle(ctx, key, title)
}

// ClearCache drops every cached outcome, including the in-memory caches.
func (r *Resolver) ClearCache(ctx context.Context) error {
	r.probeCache.Clear()
	r.altTitleCache.Clear()
	r.secondaryCache.Clear()
	return r.store.Clear(ctx)
}

// PurgeExpired drops expired keywords and in-memory entries and returns how
// many were removed.
func (r *Resolver) PurgeExpired(ctx context.Context) (int64, error) {
	n := int64(r.probeCache.Purge() + r.altTitleCache.Purge() + r.secondaryCache.Purge())
	purged, err := r.keywords.PurgeExpired(ctx)
	if err != nil {
		return n, fmt.Errorf("failed to purge keywords: %w", err)
	}
	return n + purged, nil
}
