package metadata

import (
	"context"
	"errors"

	"github.com/reelid/reelid/internal/media"
	"github.com/reelid/reelid/internal/textutil"
)

// altNameScanLimit bounds how many hits get the extra detail lookup.
const altNameScanLimit = 5

// yearWindow lists the years a movie search tries, in order.
func yearWindow(year int) []int {
	if year <= 0 {
		return []int{0}
	}
	return []int{year, year + 1, year - 1}
}

// drop logs a failed remote call. The caller carries on as if the call had
// returned no results.
func (r *Resolver) drop(err error, name string) {
	ev := r.logger.Warn().Str("name", name)
	var ue *UpstreamError
	if errors.As(err, &ue) {
		ev = ev.Str("op", ue.Op).Err(ue.Err)
	} else {
		ev = ev.Err(err)
	}
	ev.Msg("Catalog call failed, treating as no results")
}

// searchMovie tries each year of the window and returns the first accepted
// movie.
func (r *Resolver) searchMovie(ctx context.Context, name string, year int) *media.Record {
	for _, y := range yearWindow(year) {
		rec, err := r.searchMovieYear(ctx, name, y)
		if err != nil {
			r.drop(err, name)
			continue
		}
		if rec != nil {
			r.logger.Debug().Str("name", name).Int("year", y).Int("id", rec.ID).Msg("Movie matched")
			return rec
		}
	}
	return nil
}

func (r *Resolver) searchMovieYear(ctx context.Context, name string, year int) (*media.Record, error) {
	results, err := r.catalog.SearchMovies(ctx, name, year)
	if err != nil {
		return nil, upstream("search movie", err)
	}
	hits := make([]*media.Record, len(results))
	for i, m := range results {
		hits[i] = movieRecord(m)
	}
	return r.pick(ctx, name, year, hits), nil
}

// searchTV matches series by name, restricted to a first-air year when one
// is given.
func (r *Resolver) searchTV(ctx context.Context, name string, year int) *media.Record {
	results, err := r.catalog.SearchTV(ctx, name, year)
	if err != nil {
		r.drop(upstream("search tv", err), name)
		return nil
	}
	hits := make([]*media.Record, len(results))
	for i, t := range results {
		hits[i] = tvRecord(t)
	}
	rec := r.pick(ctx, name, year, hits)
	if rec != nil {
		r.logger.Debug().Str("name", name).Int("year", year).Int("id", rec.ID).Msg("Series matched")
	}
	return rec
}

// searchTVSeason matches a series whose given season aired in year. The
// search itself is not year filtered because later seasons air long after
// the first.
func (r *Resolver) searchTVSeason(ctx context.Context, name string, year, season int) *media.Record {
	results, err := r.catalog.SearchTV(ctx, name, 0)
	if err != nil {
		r.drop(upstream("search tv", err), name)
		return nil
	}
	hits := make([]*media.Record, len(results))
	for i, t := range results {
		hits[i] = tvRecord(t)
		if hits[i].Year() == year && textutil.MatchAny(name, t.Name, t.OriginalName) {
			return hits[i]
		}
	}

	rec := r.pickByAltNames(ctx, name, 0, hits, func(rec *media.Record) bool {
		return seasonAired(rec.Seasons, season, year)
	})
	if rec != nil {
		r.logger.Debug().Str("name", name).Int("season", season).Int("id", rec.ID).Msg("Series matched by season")
	}
	return rec
}

func seasonAired(seasons []media.Season, number, year int) bool {
	for _, s := range seasons {
		if s.Number == number && media.YearOf(s.AirDate) == year {
			return true
		}
	}
	return false
}

// searchMulti matches across movies and series with a single search call.
func (r *Resolver) searchMulti(ctx context.Context, name string) *media.Record {
	results, err := r.catalog.SearchMulti(ctx, name)
	if err != nil {
		r.drop(upstream("search multi", err), name)
		return nil
	}
	hits := make([]*media.Record, 0, len(results))
	for _, m := range results {
		if rec := multiRecord(m); rec != nil {
			hits = append(hits, rec)
		}
	}
	rec := r.pick(ctx, name, 0, hits)
	if rec != nil {
		r.logger.Debug().Str("name", name).Str("type", string(rec.Type)).Int("id", rec.ID).Msg("Multi search matched")
	}
	return rec
}

// pick accepts the first hit whose title or original title matches name,
// then falls back to alternate names. A non-zero year restricts both tiers
// to hits dated that year.
func (r *Resolver) pick(ctx context.Context, name string, year int, hits []*media.Record) *media.Record {
	for _, h := range hits {
		if year > 0 && h.Year() != year {
			continue
		}
		if textutil.MatchAny(name, h.Title, h.OriginalTitle) {
			return h
		}
	}
	return r.pickByAltNames(ctx, name, year, hits, nil)
}

// pickByAltNames fetches alternate names for up to altNameScanLimit hits and
// returns the detailed record of the first one that matches and passes
// accept.
func (r *Resolver) pickByAltNames(ctx context.Context, name string, year int, hits []*media.Record, accept func(*media.Record) bool) *media.Record {
	scanned := 0
	for _, h := range hits {
		if year > 0 && h.Year() != year {
			continue
		}
		if scanned == altNameScanLimit {
			break
		}
		scanned++

		rec, names, err := r.altNames(ctx, h.Type, h.ID)
		if err != nil {
			r.drop(err, name)
			continue
		}
		if !textutil.MatchAny(name, names...) {
			continue
		}
		if accept != nil && !accept(rec) {
			continue
		}
		return rec
	}
	return nil
}
