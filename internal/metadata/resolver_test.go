package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelid/reelid/internal/media"
	"github.com/reelid/reelid/internal/metadata/mock"
	"github.com/reelid/reelid/internal/metadata/tmdb"
	"github.com/reelid/reelid/internal/parser"
)

func newTestResolver(t *testing.T, cat Catalog, opts Options) *Resolver {
	t.Helper()
	logger := zerolog.Nop()
	return NewResolver(Deps{Catalog: cat, Parser: parser.New()}, opts, &logger)
}

func inceptionHit() tmdb.MovieResult {
	return tmdb.MovieResult{
		ID:            27205,
		Title:         "Inception",
		OriginalTitle: "Inception",
		ReleaseDate:   "2010-07-16",
	}
}

func TestResolve_MovieTitleMatch(t *testing.T) {
	cat := mock.New()
	cat.MovieSearch["inception"] = []tmdb.MovieResult{inceptionHit()}
	r := newTestResolver(t, cat, Options{})

	rec, err := r.Resolve(context.Background(), media.Query{Name: "Inception", Year: 2010, Type: media.Movie})
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, 27205, rec.ID)
	assert.Equal(t, media.Movie, rec.Type)
	assert.Equal(t, 1, cat.Calls("SearchMovies"))
	assert.Zero(t, cat.Calls("GetMovie"), "title match must not fetch alternate names")
}

func TestResolve_CacheIdempotent(t *testing.T) {
	cat := mock.New()
	cat.Lang = "zh-CN"
	cat.MovieSearch["inception"] = []tmdb.MovieResult{inceptionHit()}
	cat.AltTitles["movie:27205"] = []tmdb.AlternativeTitle{{ISO3166_1: "CN", Title: "盗梦空间"}}
	r := newTestResolver(t, cat, Options{WantChinese: true})
	ctx := context.Background()
	q := media.Query{Name: "Inception", Year: 2010, Type: media.Movie}

	first, err := r.Resolve(ctx, q)
	require.NoError(t, err)
	require.NotNil(t, first)
	calls := cat.TotalCalls()

	second, err := r.Resolve(ctx, q)
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.JSONEq(t, string(a), string(b))
	assert.Equal(t, calls, cat.TotalCalls(), "second resolution must stay local")
}

func TestResolve_NegativeCacheStable(t *testing.T) {
	cat := mock.New()
	r := newTestResolver(t, cat, Options{})
	ctx := context.Background()
	q := media.Query{Name: "Nothing Here", Year: 2001, Type: media.Movie}

	rec, err := r.Resolve(ctx, q)
	require.NoError(t, err)
	assert.Nil(t, rec)

	cached, ok, err := r.CacheEntry(ctx, q.CacheKey())
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, cached.IsNotFound())

	// The catalog learns the title; the cached miss still stands.
	cat.MovieSearch["nothing here"] = []tmdb.MovieResult{{ID: 5, Title: "Nothing Here", ReleaseDate: "2001-05-01"}}
	calls := cat.TotalCalls()

	rec, err = r.Resolve(ctx, q)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, calls, cat.TotalCalls())

	// A forced refresh replaces it.
	rec, err = r.ResolveByQuery(ctx, ResolveRequest{Title: "Nothing Here (2001)", Type: media.Movie, Refresh: true})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 5, rec.ID)

	rec, err = r.Resolve(ctx, q)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 5, rec.ID)
}

func TestResolve_NotConfigured(t *testing.T) {
	cat := mock.New()
	cat.Configured = false
	r := newTestResolver(t, cat, Options{})

	_, err := r.Resolve(context.Background(), media.Query{Name: "Inception"})
	assert.ErrorIs(t, err, ErrCatalogNotConfigured)

	_, err = r.ResolveByQuery(context.Background(), ResolveRequest{Title: "Inception"})
	assert.ErrorIs(t, err, ErrCatalogNotConfigured)
	assert.Zero(t, cat.TotalCalls())
}

func TestResolve_UpstreamFailureIsMiss(t *testing.T) {
	cat := mock.New()
	cat.Err = errors.New("connection reset")
	r := newTestResolver(t, cat, Options{})

	rec, err := r.Resolve(context.Background(), media.Query{Name: "Inception", Year: 2010})
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestResolveByQuery_UnusableTitle(t *testing.T) {
	cat := mock.New()
	r := newTestResolver(t, cat, Options{})

	rec, err := r.ResolveByQuery(context.Background(), ResolveRequest{Title: "Season 2"})
	assert.NoError(t, err)
	assert.Nil(t, rec)
	assert.Zero(t, cat.TotalCalls())
}

func TestResolve_StrictSkipsYearlessSearch(t *testing.T) {
	q := media.Query{Name: "Inception", Year: 2005, Type: media.Movie}

	cat := mock.New()
	cat.MovieSearch["inception"] = []tmdb.MovieResult{inceptionHit()}

	rec, err := newTestResolver(t, cat, Options{}).Resolve(context.Background(), q)
	require.NoError(t, err)
	require.NotNil(t, rec, "relaxed mode searches again without the year")
	assert.Equal(t, 27205, rec.ID)

	rec, err = newTestResolver(t, cat, Options{Strict: true}).Resolve(context.Background(), q)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSearchMovie_YearWindow(t *testing.T) {
	cat := mock.New()
	cat.MovieSearch["inception"] = []tmdb.MovieResult{inceptionHit()}
	r := newTestResolver(t, cat, Options{})

	rec := r.searchMovie(context.Background(), "Inception", 2009)
	require.NotNil(t, rec)
	assert.Equal(t, 27205, rec.ID)
	assert.Equal(t, 2, cat.Calls("SearchMovies"), "2009 then 2010")
}

func TestSearchMovie_AlternateNameFallback(t *testing.T) {
	cat := mock.New()
	cat.MovieSearch["盗梦空间"] = []tmdb.MovieResult{inceptionHit()}
	cat.Movies[27205] = &tmdb.MovieDetails{
		ID:            27205,
		Title:         "Inception",
		OriginalTitle: "Inception",
		ReleaseDate:   "2010-07-16",
		Genres:        []tmdb.Genre{{ID: 28, Name: "Action"}},
		Translations: &tmdb.TranslationsResponse{Translations: []tmdb.Translation{
			{ISO3166_1: "CN", ISO639_1: "zh", Data: tmdb.TranslationData{Title: "盗梦空间"}},
		}},
	}
	r := newTestResolver(t, cat, Options{})

	rec := r.searchMovie(context.Background(), "盗梦空间", 2010)
	require.NotNil(t, rec)
	assert.Equal(t, 27205, rec.ID)
	assert.Equal(t, []int{28}, rec.GenreIDs)
	assert.Equal(t, 1, cat.Calls("GetMovie"))
}

func TestSearchMovie_AlternateNameScanIsCapped(t *testing.T) {
	cat := mock.New()
	var hits []tmdb.MovieResult
	for id := 1; id <= 7; id++ {
		hits = append(hits, tmdb.MovieResult{ID: id, Title: "Something Else", ReleaseDate: "2000-01-01"})
	}
	cat.MovieSearch["unknown"] = hits
	r := newTestResolver(t, cat, Options{})

	assert.Nil(t, r.searchMovie(context.Background(), "Unknown", 0))
	assert.Equal(t, altNameScanLimit, cat.Calls("GetMovie"))
}

func showDetails(id int, firstAir string, season media.Season) *tmdb.TVDetails {
	return &tmdb.TVDetails{
		ID:                id,
		Name:              "Show",
		FirstAirDate:      firstAir,
		AlternativeTitles: &tmdb.TVAlternativeTitles{Results: []tmdb.AlternativeTitle{{ISO3166_1: "US", Title: "Show"}}},
		Seasons: []tmdb.Season{
			{SeasonNumber: 1, AirDate: firstAir, EpisodeCount: 8},
			{SeasonNumber: season.Number, AirDate: season.AirDate, EpisodeCount: 8},
		},
	}
}

func TestSearchTVSeason(t *testing.T) {
	ctx := context.Background()

	t.Run("season aired in target year is accepted", func(t *testing.T) {
		cat := mock.New()
		cat.TVSearch["show"] = []tmdb.TVResult{{ID: 10, Name: "Show", FirstAirDate: "2018-01-01"}}
		cat.Series[10] = showDetails(10, "2018-01-01", media.Season{Number: 2, AirDate: "2019-03-01"})
		r := newTestResolver(t, cat, Options{})

		rec := r.searchTVSeason(ctx, "Show", 2019, 2)
		require.NotNil(t, rec)
		assert.Equal(t, 10, rec.ID)
		assert.Equal(t, media.TV, rec.Type)
	})

	t.Run("mismatched season keeps scanning", func(t *testing.T) {
		cat := mock.New()
		cat.TVSearch["show"] = []tmdb.TVResult{
			{ID: 10, Name: "Show", FirstAirDate: "2018-01-01"},
			{ID: 11, Name: "Show", FirstAirDate: "2017-01-01"},
		}
		cat.Series[10] = showDetails(10, "2018-01-01", media.Season{Number: 2, AirDate: "2020-02-01"})
		cat.Series[11] = showDetails(11, "2017-01-01", media.Season{Number: 2, AirDate: "2019-06-01"})
		r := newTestResolver(t, cat, Options{})

		rec := r.searchTVSeason(ctx, "Show", 2019, 2)
		require.NotNil(t, rec)
		assert.Equal(t, 11, rec.ID)
	})

	t.Run("no season match is a miss", func(t *testing.T) {
		cat := mock.New()
		cat.TVSearch["show"] = []tmdb.TVResult{{ID: 10, Name: "Show", FirstAirDate: "2018-01-01"}}
		cat.Series[10] = showDetails(10, "2018-01-01", media.Season{Number: 3, AirDate: "2019-03-01"})
		r := newTestResolver(t, cat, Options{})

		assert.Nil(t, r.searchTVSeason(ctx, "Show", 2019, 2))
	})
}

func TestResolve_UnknownTypeUsesMultiSearch(t *testing.T) {
	cat := mock.New()
	cat.MultiSearch["breaking bad"] = []tmdb.MultiResult{
		{ID: 1, MediaType: tmdb.MediaTypePerson, Name: "Breaking Bad"},
		{ID: 1396, MediaType: tmdb.MediaTypeTV, Name: "Breaking Bad", FirstAirDate: "2008-01-20"},
	}
	r := newTestResolver(t, cat, Options{})

	rec, err := r.Resolve(context.Background(), media.Query{Name: "Breaking Bad"})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1396, rec.ID)
	assert.Equal(t, media.TV, rec.Type)
}

func TestResolve_TypedQueryNeverCrossesType(t *testing.T) {
	cat := mock.New()
	cat.MultiSearch["breaking bad"] = []tmdb.MultiResult{
		{ID: 1396, MediaType: tmdb.MediaTypeTV, Name: "Breaking Bad", FirstAirDate: "2008-01-20"},
	}
	r := newTestResolver(t, cat, Options{})

	rec, err := r.Resolve(context.Background(), media.Query{Name: "Breaking Bad", Type: media.Movie})
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Zero(t, cat.Calls("SearchMulti"))
}

func TestChineseTitle(t *testing.T) {
	tests := []struct {
		name   string
		titles []media.AlternateTitle
		want   string
	}{
		{"simplified mainland title", []media.AlternateTitle{{Region: "CN", Title: "盗梦空间"}}, "盗梦空间"},
		{"traditional is skipped", []media.AlternateTitle{{Region: "CN", Title: "盜夢空間"}}, ""},
		{"other regions are ignored", []media.AlternateTitle{{Region: "TW", Title: "全面启动"}}, ""},
		{"first simplified wins", []media.AlternateTitle{
			{Region: "CN", Title: "全面啟動"},
			{Region: "CN", Title: "盗梦空间"},
			{Region: "CN", Title: "奠基"},
		}, "盗梦空间"},
		{"latin titles are ignored", []media.AlternateTitle{{Region: "CN", Title: "Inception"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chineseTitle(tt.titles))
		})
	}
}

func TestResolve_ChineseTitlePatchesCache(t *testing.T) {
	cat := mock.New()
	cat.Lang = "zh-CN"
	cat.MovieSearch["inception"] = []tmdb.MovieResult{inceptionHit()}
	cat.AltTitles["movie:27205"] = []tmdb.AlternativeTitle{{ISO3166_1: "CN", Title: "盗梦空间"}}
	r := newTestResolver(t, cat, Options{WantChinese: true})
	ctx := context.Background()
	q := media.Query{Name: "Inception", Year: 2010, Type: media.Movie}

	rec, err := r.Resolve(ctx, q)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "盗梦空间", rec.Title)

	cached, ok, err := r.CacheEntry(ctx, q.CacheKey())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "盗梦空间", cached.Title)
	assert.Equal(t, 27205, cached.ID)
	assert.Equal(t, media.Movie, cached.Type)
}

func TestResolve_ChineseTitleSkipsTraditional(t *testing.T) {
	cat := mock.New()
	cat.Lang = "zh-CN"
	cat.MovieSearch["inception"] = []tmdb.MovieResult{inceptionHit()}
	cat.AltTitles["movie:27205"] = []tmdb.AlternativeTitle{{ISO3166_1: "CN", Title: "盜夢空間"}}
	r := newTestResolver(t, cat, Options{WantChinese: true})
	ctx := context.Background()
	q := media.Query{Name: "Inception", Year: 2010, Type: media.Movie}

	rec, err := r.Resolve(ctx, q)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Inception", rec.Title)

	_, err = r.Resolve(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Calls("GetAlternativeTitles"), "alternate titles are remembered")
}

func TestResolveByQuery_KeepTitle(t *testing.T) {
	cat := mock.New()
	cat.Lang = "zh-CN"
	cat.MovieSearch["inception"] = []tmdb.MovieResult{inceptionHit()}
	cat.AltTitles["movie:27205"] = []tmdb.AlternativeTitle{{ISO3166_1: "CN", Title: "盗梦空间"}}
	r := newTestResolver(t, cat, Options{WantChinese: true})

	rec, err := r.ResolveByQuery(context.Background(), ResolveRequest{Title: "Inception.2010.1080p.BluRay.mkv", KeepTitle: true})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Inception", rec.Title)
	assert.Zero(t, cat.Calls("GetAlternativeTitles"))
}

func TestCacheAdministration(t *testing.T) {
	cat := mock.New()
	cat.MovieSearch["inception"] = []tmdb.MovieResult{inceptionHit()}
	r := newTestResolver(t, cat, Options{})
	ctx := context.Background()
	q := media.Query{Name: "Inception", Year: 2010, Type: media.Movie}

	_, err := r.Resolve(ctx, q)
	require.NoError(t, err)

	keys, err := r.CacheKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{q.CacheKey()}, keys)

	assert.ErrorIs(t, r.RetitleCacheEntry(ctx, q.CacheKey(), " "), ErrInvalidArgument)
	require.NoError(t, r.RetitleCacheEntry(ctx, q.CacheKey(), "全面启动"))
	rec, err := r.Resolve(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, "全面启动", rec.Title)

	require.NoError(t, r.DeleteCacheEntry(ctx, q.CacheKey()))
	_, ok, err := r.CacheEntry(ctx, q.CacheKey())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.Resolve(ctx, q)
	require.NoError(t, err)
	require.NoError(t, r.ClearCache(ctx))
	keys, err = r.CacheKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
