// Package mock provides an in-memory catalog for tests and developer mode.
package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/reelid/reelid/internal/metadata/tmdb"
)

// Catalog answers searches from per-query tables and details from id
// tables. Search tables are keyed by the lowercased query and returned in
// table order. Every method call is counted.
type Catalog struct {
	Lang       string
	Configured bool
	// Err, when set, is returned by every remote method.
	Err error

	MovieSearch map[string][]tmdb.MovieResult
	TVSearch    map[string][]tmdb.TVResult
	MultiSearch map[string][]tmdb.MultiResult
	Movies      map[int]*tmdb.MovieDetails
	Series      map[int]*tmdb.TVDetails
	// AltTitles is keyed "movie:<id>" or "tv:<id>".
	AltTitles map[string][]tmdb.AlternativeTitle
	// Seasons is keyed "<series id>:<season>".
	Seasons map[string]*tmdb.SeasonDetails
	People  map[int]*tmdb.PersonDetails
	IMDb    map[string]*tmdb.FindResponse

	mu    sync.Mutex
	calls map[string]int
}

// New creates an empty, configured catalog.
func New() *Catalog {
	return &Catalog{
		Lang:        "en-US",
		Configured:  true,
		MovieSearch: make(map[string][]tmdb.MovieResult),
		TVSearch:    make(map[string][]tmdb.TVResult),
		MultiSearch: make(map[string][]tmdb.MultiResult),
		Movies:      make(map[int]*tmdb.MovieDetails),
		Series:      make(map[int]*tmdb.TVDetails),
		AltTitles:   make(map[string][]tmdb.AlternativeTitle),
		Seasons:     make(map[string]*tmdb.SeasonDetails),
		People:      make(map[int]*tmdb.PersonDetails),
		IMDb:        make(map[string]*tmdb.FindResponse),
		calls:       make(map[string]int),
	}
}

// Calls returns how often method was called.
func (c *Catalog) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

// TotalCalls returns how many remote methods were called.
func (c *Catalog) TotalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

// ResetCalls zeroes the counters.
func (c *Catalog) ResetCalls() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.calls)
}

func (c *Catalog) record(method string) error {
	c.mu.Lock()
	c.calls[method]++
	c.mu.Unlock()
	return c.Err
}

func (c *Catalog) Name() string {
	return "tmdb-mock"
}

func (c *Catalog) IsConfigured() bool {
	return c.Configured
}

func (c *Catalog) Language() string {
	return c.Lang
}

func (c *Catalog) SearchMovies(ctx context.Context, query string, year int) ([]tmdb.MovieResult, error) {
	if err := c.record("SearchMovies"); err != nil {
		return nil, err
	}
	var results []tmdb.MovieResult
	for _, m := range c.MovieSearch[strings.ToLower(query)] {
		if year == 0 || strings.HasPrefix(m.ReleaseDate, fmt.Sprint(year)) {
			results = append(results, m)
		}
	}
	return results, nil
}

func (c *Catalog) SearchTV(ctx context.Context, query string, year int) ([]tmdb.TVResult, error) {
	if err := c.record("SearchTV"); err != nil {
		return nil, err
	}
	var results []tmdb.TVResult
	for _, t := range c.TVSearch[strings.ToLower(query)] {
		if year == 0 || strings.HasPrefix(t.FirstAirDate, fmt.Sprint(year)) {
			results = append(results, t)
		}
	}
	return results, nil
}

func (c *Catalog) SearchMulti(ctx context.Context, query string) ([]tmdb.MultiResult, error) {
	if err := c.record("SearchMulti"); err != nil {
		return nil, err
	}
	return c.MultiSearch[strings.ToLower(query)], nil
}

func (c *Catalog) GetMovie(ctx context.Context, id int, language string) (*tmdb.MovieDetails, error) {
	if err := c.record("GetMovie"); err != nil {
		return nil, err
	}
	if d, ok := c.Movies[id]; ok {
		return d, nil
	}
	return nil, tmdb.ErrNotFound
}

func (c *Catalog) GetTV(ctx context.Context, id int, language string) (*tmdb.TVDetails, error) {
	if err := c.record("GetTV"); err != nil {
		return nil, err
	}
	if d, ok := c.Series[id]; ok {
		return d, nil
	}
	return nil, tmdb.ErrNotFound
}

func (c *Catalog) GetAlternativeTitles(ctx context.Context, mediaType string, id int) ([]tmdb.AlternativeTitle, error) {
	if err := c.record("GetAlternativeTitles"); err != nil {
		return nil, err
	}
	return c.AltTitles[fmt.Sprintf("%s:%d", mediaType, id)], nil
}

func (c *Catalog) GetSeason(ctx context.Context, seriesID, seasonNumber int) (*tmdb.SeasonDetails, error) {
	if err := c.record("GetSeason"); err != nil {
		return nil, err
	}
	if d, ok := c.Seasons[fmt.Sprintf("%d:%d", seriesID, seasonNumber)]; ok {
		return d, nil
	}
	return nil, tmdb.ErrNotFound
}

func (c *Catalog) GetPerson(ctx context.Context, id int) (*tmdb.PersonDetails, error) {
	if err := c.record("GetPerson"); err != nil {
		return nil, err
	}
	if p, ok := c.People[id]; ok {
		return p, nil
	}
	return nil, tmdb.ErrNotFound
}

func (c *Catalog) FindByIMDbID(ctx context.Context, imdbID string) (*tmdb.FindResponse, error) {
	if err := c.record("FindByIMDbID"); err != nil {
		return nil, err
	}
	if f, ok := c.IMDb[imdbID]; ok {
		return f, nil
	}
	return &tmdb.FindResponse{}, nil
}
