package metadata

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/reelid/reelid/internal/media"
	"github.com/reelid/reelid/internal/metadata/tmdb"
)

const defaultCandidateLimit = 6

// SearchCandidates lists catalog entries whose title contains title, for
// interactive pickers. Without type and year it uses the multi search; with
// a year but no type it merges movie and tv results, newest first.
func (r *Resolver) SearchCandidates(ctx context.Context, title string, year int, t media.Type, limit int) ([]*media.Record, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidArgument
	}
	if limit <= 0 {
		limit = defaultCandidateLimit
	}

	var out []*media.Record
	switch {
	case t == "" && year == 0:
		out = r.multiCandidates(ctx, title)
	case t == "":
		out = append(r.movieCandidates(ctx, title, year), r.tvCandidates(ctx, title, year)...)
		sort.SliceStable(out, func(i, j int) bool {
			return candidateDate(out[i]) > candidateDate(out[j])
		})
	case t == media.Movie:
		out = r.movieCandidates(ctx, title, year)
	default:
		out = r.tvCandidates(ctx, title, year)
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func candidateDate(rec *media.Record) string {
	if rec.Date == "" {
		return "0000-00-00"
	}
	return rec.Date
}

func (r *Resolver) multiCandidates(ctx context.Context, title string) []*media.Record {
	results, err := r.catalog.SearchMulti(ctx, title)
	if err != nil {
		r.drop(upstream("search multi", err), title)
		return nil
	}
	var out []*media.Record
	for _, m := range results {
		if rec := multiRecord(m); rec != nil {
			out = append(out, rec)
		}
	}
	return out
}

func (r *Resolver) movieCandidates(ctx context.Context, title string, year int) []*media.Record {
	results, err := r.catalog.SearchMovies(ctx, title, year)
	if err != nil {
		r.drop(upstream("search movie", err), title)
		return nil
	}
	var out []*media.Record
	for _, m := range results {
		if strings.Contains(m.Title, title) {
			out = append(out, movieRecord(m))
		}
	}
	return out
}

func (r *Resolver) tvCandidates(ctx context.Context, title string, year int) []*media.Record {
	results, err := r.catalog.SearchTV(ctx, title, year)
	if err != nil {
		r.drop(upstream("search tv", err), title)
		return nil
	}
	var out []*media.Record
	for _, t := range results {
		if strings.Contains(t.Name, title) {
			out = append(out, tvRecord(t))
		}
	}
	return out
}

// SeasonsList returns the numbered seasons of a series that have episodes.
func (r *Resolver) SeasonsList(ctx context.Context, tvID int) ([]media.Season, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if tvID <= 0 {
		return nil, ErrInvalidArgument
	}

	rec, err := r.details(ctx, media.TV, tvID, "")
	if err != nil {
		r.drop(err, "")
		return nil, nil
	}
	if rec == nil {
		return nil, nil
	}

	var out []media.Season
	for _, s := range rec.Seasons {
		if s.EpisodeCount > 0 {
			out = append(out, s)
		}
	}
	return out, nil
}

// SeasonEpisodeCount returns how many episodes a season has, or 0.
func (r *Resolver) SeasonEpisodeCount(ctx context.Context, tvID, season int) (int, error) {
	seasons, err := r.SeasonsList(ctx, tvID)
	if err != nil {
		return 0, err
	}
	for _, s := range seasons {
		if s.Number == season {
			return s.EpisodeCount, nil
		}
	}
	return 0, nil
}

// SeasonDetail returns a season with its episodes.
func (r *Resolver) SeasonDetail(ctx context.Context, tvID, season int) (*media.SeasonDetail, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if tvID <= 0 || season < 0 {
		return nil, ErrInvalidArgument
	}

	d, err := r.catalog.GetSeason(ctx, tvID, season)
	if errors.Is(err, tmdb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.drop(upstream("season", err), "")
		return nil, nil
	}

	out := &media.SeasonDetail{
		Season: media.Season{
			Number:       d.SeasonNumber,
			EpisodeCount: len(d.Episodes),
			AirDate:      d.AirDate,
			Name:         d.Name,
		},
		Overview: d.Overview,
		Episodes: make([]media.Episode, 0, len(d.Episodes)),
	}
	for _, e := range d.Episodes {
		out.Episodes = append(out.Episodes, media.Episode{
			Number:  e.EpisodeNumber,
			Name:    e.Name,
			AirDate: e.AirDate,
		})
	}
	return out, nil
}

// IDByIMDbID maps an IMDb id to a catalog id, preferring movies.
// It returns 0 when the catalog has no entry.
func (r *Resolver) IDByIMDbID(ctx context.Context, imdbID string) (int, media.Type, error) {
	if err := r.ready(); err != nil {
		return 0, "", err
	}
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return 0, "", ErrInvalidArgument
	}

	found, err := r.catalog.FindByIMDbID(ctx, imdbID)
	if err != nil {
		r.drop(upstream("find", err), imdbID)
		return 0, "", nil
	}
	if len(found.MovieResults) > 0 {
		return found.MovieResults[0].ID, media.Movie, nil
	}
	if len(found.TVResults) > 0 {
		return found.TVResults[0].ID, media.TV, nil
	}
	return 0, "", nil
}
