package mock

import "github.com/reelid/reelid/internal/metadata/tmdb"

// NewSample returns a catalog preloaded with a few well-known titles, used
// when the server runs in developer mode.
func NewSample() *Catalog {
	c := New()
	c.Lang = "zh-CN"

	inception := tmdb.MovieResult{
		ID:               27205,
		Title:            "Inception",
		OriginalTitle:    "Inception",
		OriginalLanguage: "en",
		ReleaseDate:      "2010-07-15",
		GenreIDs:         []int{28, 878, 12},
	}
	wandering := tmdb.MovieResult{
		ID:               535167,
		Title:            "The Wandering Earth",
		OriginalTitle:    "流浪地球",
		OriginalLanguage: "zh",
		ReleaseDate:      "2019-02-05",
		GenreIDs:         []int{878, 28, 18},
	}
	breakingBad := tmdb.TVResult{
		ID:               1396,
		Name:             "Breaking Bad",
		OriginalName:     "Breaking Bad",
		OriginalLanguage: "en",
		FirstAirDate:     "2008-01-20",
		GenreIDs:         []int{18, 80},
	}

	c.MovieSearch["inception"] = []tmdb.MovieResult{inception}
	c.MovieSearch["盗梦空间"] = []tmdb.MovieResult{inception}
	c.MovieSearch["the wandering earth"] = []tmdb.MovieResult{wandering}
	c.MovieSearch["流浪地球"] = []tmdb.MovieResult{wandering}
	c.TVSearch["breaking bad"] = []tmdb.TVResult{breakingBad}
	c.TVSearch["绝命毒师"] = []tmdb.TVResult{breakingBad}

	c.MultiSearch["inception"] = []tmdb.MultiResult{{
		ID: inception.ID, MediaType: tmdb.MediaTypeMovie,
		Title: inception.Title, OriginalTitle: inception.OriginalTitle, ReleaseDate: inception.ReleaseDate,
	}}
	c.MultiSearch["breaking bad"] = []tmdb.MultiResult{{
		ID: breakingBad.ID, MediaType: tmdb.MediaTypeTV,
		Name: breakingBad.Name, OriginalName: breakingBad.OriginalName, FirstAirDate: breakingBad.FirstAirDate,
	}}

	inceptionTitles := []tmdb.AlternativeTitle{
		{ISO3166_1: "TW", Title: "全面啟動"},
		{ISO3166_1: "CN", Title: "盗梦空间"},
	}
	c.AltTitles["movie:27205"] = inceptionTitles
	c.Movies[inception.ID] = &tmdb.MovieDetails{
		ID:                inception.ID,
		Title:             inception.Title,
		OriginalTitle:     inception.OriginalTitle,
		OriginalLanguage:  inception.OriginalLanguage,
		ReleaseDate:       inception.ReleaseDate,
		ImdbID:            "tt1375666",
		Genres:            []tmdb.Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
		AlternativeTitles: &tmdb.MovieAlternativeTitles{ID: inception.ID, Titles: inceptionTitles},
	}
	c.Movies[wandering.ID] = &tmdb.MovieDetails{
		ID:               wandering.ID,
		Title:            wandering.Title,
		OriginalTitle:    wandering.OriginalTitle,
		OriginalLanguage: wandering.OriginalLanguage,
		ReleaseDate:      wandering.ReleaseDate,
		ImdbID:           "tt7605074",
		Genres:           []tmdb.Genre{{ID: 878, Name: "Science Fiction"}},
	}

	bbTitles := []tmdb.AlternativeTitle{{ISO3166_1: "CN", Title: "绝命毒师"}}
	c.AltTitles["tv:1396"] = bbTitles
	c.Series[breakingBad.ID] = &tmdb.TVDetails{
		ID:               breakingBad.ID,
		Name:             breakingBad.Name,
		OriginalName:     breakingBad.OriginalName,
		OriginalLanguage: breakingBad.OriginalLanguage,
		FirstAirDate:     breakingBad.FirstAirDate,
		LastAirDate:      "2013-09-29",
		Genres:           []tmdb.Genre{{ID: 18, Name: "Drama"}, {ID: 80, Name: "Crime"}},
		NumberOfSeasons:  5,
		NumberOfEpisodes: 62,
		Seasons: []tmdb.Season{
			{SeasonNumber: 0, Name: "Specials", EpisodeCount: 9, AirDate: "2009-02-17"},
			{SeasonNumber: 1, Name: "Season 1", EpisodeCount: 7, AirDate: "2008-01-20"},
			{SeasonNumber: 2, Name: "Season 2", EpisodeCount: 13, AirDate: "2009-03-08"},
			{SeasonNumber: 3, Name: "Season 3", EpisodeCount: 13, AirDate: "2010-03-21"},
			{SeasonNumber: 4, Name: "Season 4", EpisodeCount: 13, AirDate: "2011-07-17"},
			{SeasonNumber: 5, Name: "Season 5", EpisodeCount: 16, AirDate: "2012-07-15"},
		},
		AlternativeTitles: &tmdb.TVAlternativeTitles{ID: breakingBad.ID, Results: bbTitles},
		ExternalIDs:       &tmdb.ExternalIDs{ImdbID: "tt0903747"},
	}
	c.Seasons["1396:1"] = &tmdb.SeasonDetails{
		Name:         "Season 1",
		AirDate:      "2008-01-20",
		SeasonNumber: 1,
		Episodes: []tmdb.EpisodeDetails{
			{EpisodeNumber: 1, SeasonNumber: 1, Name: "Pilot", AirDate: "2008-01-20"},
			{EpisodeNumber: 2, SeasonNumber: 1, Name: "Cat's in the Bag...", AirDate: "2008-01-27"},
			{EpisodeNumber: 3, SeasonNumber: 1, Name: "...And the Bag's in the River", AirDate: "2008-02-10"},
		},
	}

	c.People[6193] = &tmdb.PersonDetails{
		ID:          6193,
		Name:        "Leonardo DiCaprio",
		AlsoKnownAs: []string{"Leo DiCaprio", "李奥纳多·迪卡普里奥", "李奧納多·狄卡皮歐"},
	}

	c.IMDb["tt1375666"] = &tmdb.FindResponse{MovieResults: []tmdb.MovieResult{inception}}
	c.IMDb["tt0903747"] = &tmdb.FindResponse{TVResults: []tmdb.TVResult{breakingBad}}

	return c
}
