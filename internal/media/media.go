// Package media holds the value types shared by the resolver, its caches and
// its front-ends.
package media

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/reelid/reelid/internal/textutil"
)

// Type is the kind of a catalog entry.
type Type string

const (
	Movie Type = "movie"
	TV    Type = "tv"
)

// autoKey stands in for an unknown type inside cache keys.
const autoKey = "auto"

// ParseType accepts "movie", "tv" and a few aliases. An unknown or empty
// value yields the empty Type, meaning "either".
func ParseType(s string) Type {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies", "film":
		return Movie
	case "tv", "series", "show", "anime":
		return TV
	default:
		return ""
	}
}

// Valid reports whether t is Movie or TV.
func (t Type) Valid() bool {
	return t == Movie || t == TV
}

// Query is a parsed title ready for resolution. Zero Year and Season mean
// "not known"; an empty Type means the parser could not tell.
type Query struct {
	Name   string `json:"name"`
	Year   int    `json:"year,omitempty"`
	Season int    `json:"season,omitempty"`
	Type   Type   `json:"type,omitempty"`
}

// CacheKey returns the stable resolution slot for q.
func (q Query) CacheKey() string {
	t := string(q.Type)
	if t == "" {
		t = autoKey
	}
	return fmt.Sprintf("[%s]%s-%d-%d", t, textutil.Normalize(q.Name), q.Year, q.Season)
}

// AlternateTitle is a regional title of a record.
type AlternateTitle struct {
	Region string `json:"region"`
	Title  string `json:"title"`
}

// Season summarizes one season of a series.
type Season struct {
	Number       int    `json:"number"`
	EpisodeCount int    `json:"episodeCount"`
	AirDate      string `json:"airDate,omitempty"`
	Name         string `json:"name,omitempty"`
}

// Episode is one episode of a season.
type Episode struct {
	Number  int    `json:"number"`
	Name    string `json:"name,omitempty"`
	AirDate string `json:"airDate,omitempty"`
}

// SeasonDetail is a season with its episodes.
type SeasonDetail struct {
	Season
	Overview string    `json:"overview,omitempty"`
	Episodes []Episode `json:"episodes"`
}

// Record is a resolved catalog entry. A Record with ID 0 is the cached
// "definitively not found" marker.
type Record struct {
	ID               int              `json:"id"`
	Type             Type             `json:"type,omitempty"`
	Title            string           `json:"title,omitempty"`
	OriginalTitle    string           `json:"originalTitle,omitempty"`
	OriginalLanguage string           `json:"originalLanguage,omitempty"`
	Date             string           `json:"date,omitempty"`
	Overview         string           `json:"overview,omitempty"`
	PosterPath       string           `json:"posterPath,omitempty"`
	ImdbID           string           `json:"imdbId,omitempty"`
	GenreIDs         []int            `json:"genreIds,omitempty"`
	AlternateTitles  []AlternateTitle `json:"alternateTitles,omitempty"`
	Seasons          []Season         `json:"seasons,omitempty"`
}

// NotFound returns the negative cache marker.
func NotFound() *Record {
	return &Record{ID: 0}
}

// IsNotFound reports whether r is the negative cache marker.
func (r *Record) IsNotFound() bool {
	return r == nil || r.ID == 0
}

// Year returns the year of Date, or 0.
func (r *Record) Year() int {
	return YearOf(r.Date)
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.GenreIDs = slices.Clone(r.GenreIDs)
	c.AlternateTitles = slices.Clone(r.AlternateTitles)
	c.Seasons = slices.Clone(r.Seasons)
	return &c
}

// YearOf extracts the leading four-digit year of a catalog date.
func YearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return y
}

// Keyword is the search term recovered by scraping search engines for a
// title the catalog could not match.
type Keyword struct {
	Text        string `json:"text"`
	LikelyMovie bool   `json:"likelyMovie"`
}
