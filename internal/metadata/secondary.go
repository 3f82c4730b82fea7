package metadata

import (
	"context"
	"errors"
	"strconv"

	"github.com/reelid/reelid/internal/media"
	"github.com/reelid/reelid/internal/metadata/douban"
	"github.com/reelid/reelid/internal/textutil"
)

// LookupSecondary finds title in the secondary catalog and returns its
// detail with directors and actors attached. Titles of unknown type are
// looked up as movies. Outcomes are cached apart from the resolution cache.
func (r *Resolver) LookupSecondary(ctx context.Context, title string, t media.Type) (*douban.Subject, error) {
	if r.secondary == nil || !r.secondary.IsConfigured() {
		return nil, ErrSecondaryNotConfigured
	}

	q := r.parser.Parse(title, "")
	if t != "" {
		q.Type = t
	}
	if q.Type == "" {
		q.Type = media.Movie
	}
	if q.Name == "" {
		return nil, nil
	}

	key := q.CacheKey()
	if subject, ok := r.secondaryCache.Get(key); ok {
		return subject, nil
	}

	id, err := r.secondaryID(ctx, q)
	if err != nil {
		r.drop(err, q.Name)
		return nil, nil
	}
	if id == "" {
		r.secondaryCache.Set(key, nil)
		return nil, nil
	}

	subject, err := r.secondaryDetail(ctx, q.Type, id)
	if err != nil {
		r.drop(err, q.Name)
		return nil, nil
	}
	r.secondaryCache.Set(key, subject)
	return subject, nil
}

// secondaryID picks the subject id for q. Movies need an exact name within
// a year of q.Year. Series take an exact name with the same year, then an
// exact name with the same season, then the first hit.
func (r *Resolver) secondaryID(ctx context.Context, q media.Query) (string, error) {
	if q.Type == media.Movie {
		items, err := r.secondary.SearchMovies(ctx, q.Name)
		if err != nil {
			return "", upstream("secondary search movie", err)
		}
		for _, item := range items {
			hit := r.parser.Parse(item.Target.Title, "")
			if !textutil.NamesEqual(q.Name, hit.Name) {
				continue
			}
			if q.Year == 0 || inYearWindow(item.Target.Year, q.Year) {
				return item.TargetID, nil
			}
		}
		return "", nil
	}

	items, err := r.secondary.SearchTV(ctx, q.Name)
	if err != nil {
		return "", upstream("secondary search tv", err)
	}
	if len(items) == 0 {
		return "", nil
	}
	for _, item := range items {
		hit := r.parser.Parse(item.Target.Title, "")
		if !textutil.NamesEqual(q.Name, hit.Name) {
			continue
		}
		if q.Year == 0 || item.Target.Year == strconv.Itoa(q.Year) {
			return item.TargetID, nil
		}
		if hit.Season == q.Season {
			return item.TargetID, nil
		}
	}
	return items[0].TargetID, nil
}

func inYearWindow(year string, target int) bool {
	y, err := strconv.Atoi(year)
	if err != nil {
		return false
	}
	for _, w := range yearWindow(target) {
		if y == w {
			return true
		}
	}
	return false
}

func (r *Resolver) secondaryDetail(ctx context.Context, t media.Type, id string) (*douban.Subject, error) {
	detail, celebrities := r.secondary.MovieDetail, r.secondary.MovieCelebrities
	if t == media.TV {
		detail, celebrities = r.secondary.TVDetail, r.secondary.TVCelebrities
	}

	subject, err := detail(ctx, id)
	if errors.Is(err, douban.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, upstream("secondary detail", err)
	}

	credits, err := celebrities(ctx, id)
	if err != nil {
		r.drop(upstream("secondary celebrities", err), subject.Title)
		return subject, nil
	}
	subject.Directors = credits.Directors
	subject.Actors = credits.Actors
	return subject, nil
}
