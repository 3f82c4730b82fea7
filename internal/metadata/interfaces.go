package metadata

import (
	"context"

	"github.com/reelid/reelid/internal/media"
	"github.com/reelid/reelid/internal/metadata/douban"
	"github.com/reelid/reelid/internal/metadata/tmdb"
)

// Catalog defines the primary catalog operations the resolver needs.
type Catalog interface {
	Name() string
	IsConfigured() bool
	Language() string
	SearchMovies(ctx context.Context, query string, year int) ([]tmdb.MovieResult, error)
	SearchTV(ctx context.Context, query string, year int) ([]tmdb.TVResult, error)
	SearchMulti(ctx context.Context, query string) ([]tmdb.MultiResult, error)
	GetMovie(ctx context.Context, id int, language string) (*tmdb.MovieDetails, error)
	GetTV(ctx context.Context, id int, language string) (*tmdb.TVDetails, error)
	GetAlternativeTitles(ctx context.Context, mediaType string, id int) ([]tmdb.AlternativeTitle, error)
	GetSeason(ctx context.Context, seriesID, seasonNumber int) (*tmdb.SeasonDetails, error)
	GetPerson(ctx context.Context, id int) (*tmdb.PersonDetails, error)
	FindByIMDbID(ctx context.Context, imdbID string) (*tmdb.FindResponse, error)
}

// SecondaryCatalog defines the regional catalog used for parallel lookups.
type SecondaryCatalog interface {
	Name() string
	IsConfigured() bool
	SearchMovies(ctx context.Context, query string) ([]douban.SearchItem, error)
	SearchTV(ctx context.Context, query string) ([]douban.SearchItem, error)
	MovieDetail(ctx context.Context, id string) (*douban.Subject, error)
	TVDetail(ctx context.Context, id string) (*douban.Subject, error)
	MovieCelebrities(ctx context.Context, id string) (*douban.CelebritiesResponse, error)
	TVCelebrities(ctx context.Context, id string) (*douban.CelebritiesResponse, error)
}

// Parser turns a raw title into a query. An empty Name marks the input as
// unusable.
type Parser interface {
	Parse(raw, subtitle string) media.Query
	ParsePath(path string) media.Query
}

// Store is the resolution cache. Get reports ok=false for a key that was
// never written; a written miss comes back as the NotFound marker.
type Store interface {
	Get(ctx context.Context, key string) (*media.Record, bool, error)
	Set(ctx context.Context, key string, rec *media.Record) error
	SetTitle(ctx context.Context, key, title string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	UpdateMany(ctx context.Context, entries map[string]*media.Record) error
	Keys(ctx context.Context) ([]string, error)
}

// KeywordStore caches supplemental keywords by query name.
type KeywordStore interface {
	GetKeyword(ctx context.Context, name string) (media.Keyword, bool, error)
	SetKeyword(ctx context.Context, name string, kw media.Keyword) error
	PurgeExpired(ctx context.Context) (int64, error)
}
