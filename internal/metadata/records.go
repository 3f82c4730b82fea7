package metadata

import (
	"github.com/reelid/reelid/internal/media"
	"github.com/reelid/reelid/internal/metadata/tmdb"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func movieRecord(m tmdb.MovieResult) *media.Record {
	return &media.Record{
		ID:               m.ID,
		Type:             media.Movie,
		Title:            m.Title,
		OriginalTitle:    m.OriginalTitle,
		OriginalLanguage: m.OriginalLanguage,
		Date:             m.ReleaseDate,
		Overview:         m.Overview,
		PosterPath:       deref(m.PosterPath),
		GenreIDs:         m.GenreIDs,
	}
}

func tvRecord(t tmdb.TVResult) *media.Record {
	return &media.Record{
		ID:               t.ID,
		Type:             media.TV,
		Title:            t.Name,
		OriginalTitle:    t.OriginalName,
		OriginalLanguage: t.OriginalLanguage,
		Date:             t.FirstAirDate,
		Overview:         t.Overview,
		PosterPath:       deref(t.PosterPath),
		GenreIDs:         t.GenreIDs,
	}
}

// multiRecord converts a movie or tv multi-search hit. Person hits yield nil.
func multiRecord(m tmdb.MultiResult) *media.Record {
	t := multiType(m)
	if t == "" {
		return nil
	}
	return &media.Record{
		ID:               m.ID,
		Type:             t,
		Title:            m.DisplayTitle(),
		OriginalTitle:    m.DisplayOriginalTitle(),
		OriginalLanguage: m.OriginalLanguage,
		Date:             m.Date(),
		Overview:         m.Overview,
		PosterPath:       deref(m.PosterPath),
		GenreIDs:         m.GenreIDs,
	}
}

func multiType(m tmdb.MultiResult) media.Type {
	switch m.MediaType {
	case tmdb.MediaTypeMovie:
		return media.Movie
	case tmdb.MediaTypeTV:
		return media.TV
	default:
		return ""
	}
}

func genreIDs(genres []tmdb.Genre) []int {
	if len(genres) == 0 {
		return nil
	}
	ids := make([]int, len(genres))
	for i, g := range genres {
		ids[i] = g.ID
	}
	return ids
}

func alternateTitles(titles []tmdb.AlternativeTitle) []media.AlternateTitle {
	if len(titles) == 0 {
		return nil
	}
	out := make([]media.AlternateTitle, len(titles))
	for i, t := range titles {
		out[i] = media.AlternateTitle{Region: t.ISO3166_1, Title: t.Title}
	}
	return out
}

func movieDetailsRecord(d *tmdb.MovieDetails) *media.Record {
	rec := &media.Record{
		ID:               d.ID,
		Type:             media.Movie,
		Title:            d.Title,
		OriginalTitle:    d.OriginalTitle,
		OriginalLanguage: d.OriginalLanguage,
		Date:             d.ReleaseDate,
		Overview:         d.Overview,
		PosterPath:       deref(d.PosterPath),
		ImdbID:           d.ImdbID,
		GenreIDs:         genreIDs(d.Genres),
	}
	if d.AlternativeTitles != nil {
		rec.AlternateTitles = alternateTitles(d.AlternativeTitles.Titles)
	}
	if rec.ImdbID == "" && d.ExternalIDs != nil {
		rec.ImdbID = d.ExternalIDs.ImdbID
	}
	return rec
}

func tvDetailsRecord(d *tmdb.TVDetails) *media.Record {
	rec := &media.Record{
		ID:               d.ID,
		Type:             media.TV,
		Title:            d.Name,
		OriginalTitle:    d.OriginalName,
		OriginalLanguage: d.OriginalLanguage,
		Date:             d.FirstAirDate,
		Overview:         d.Overview,
		PosterPath:       deref(d.PosterPath),
		GenreIDs:         genreIDs(d.Genres),
		Seasons:          seasons(d.Seasons),
	}
	if d.AlternativeTitles != nil {
		rec.AlternateTitles = alternateTitles(d.AlternativeTitles.Results)
	}
	if d.ExternalIDs != nil {
		rec.ImdbID = d.ExternalIDs.ImdbID
	}
	return rec
}

// seasons drops the specials pseudo-season 0.
func seasons(in []tmdb.Season) []media.Season {
	var out []media.Season
	for _, s := range in {
		if s.SeasonNumber <= 0 {
			continue
		}
		out = append(out, media.Season{
			Number:       s.SeasonNumber,
			EpisodeCount: s.EpisodeCount,
			AirDate:      s.AirDate,
			Name:         s.Name,
		})
	}
	return out
}
