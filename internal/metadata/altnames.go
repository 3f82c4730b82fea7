package metadata

import (
	"context"

	"github.com/reelid/reelid/internal/media"
)

// altNames fetches a candidate's details and returns them as a record along
// with its alternate titles followed by its translated titles. Duplicates
// keep their first position.
func (r *Resolver) altNames(ctx context.Context, t media.Type, id int) (*media.Record, []string, error) {
	var names []string

	switch t {
	case media.Movie:
		d, err := r.catalog.GetMovie(ctx, id, "")
		if err != nil {
			return nil, nil, upstream("movie details", err)
		}
		if d.AlternativeTitles != nil {
			for _, a := range d.AlternativeTitles.Titles {
				names = append(names, a.Title)
			}
		}
		if d.Translations != nil {
			for _, tr := range d.Translations.Translations {
				names = append(names, tr.Data.Title)
			}
		}
		return movieDetailsRecord(d), uniqueNames(names), nil

	case media.TV:
		d, err := r.catalog.GetTV(ctx, id, "")
		if err != nil {
			return nil, nil, upstream("tv details", err)
		}
		if d.AlternativeTitles != nil {
			for _, a := range d.AlternativeTitles.Results {
				names = append(names, a.Title)
			}
		}
		if d.Translations != nil {
			for _, tr := range d.Translations.Translations {
				names = append(names, tr.Data.Name)
			}
		}
		return tvDetailsRecord(d), uniqueNames(names), nil
	}

	return nil, nil, ErrInvalidArgument
}

func uniqueNames(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, n := range in {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
