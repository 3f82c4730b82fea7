package tmdb

// Media types as reported by /search/multi.
const (
	MediaTypeMovie  = "movie"
	MediaTypeTV     = "tv"
	MediaTypePerson = "person"
)

// SearchMoviesResponse is the response from TMDB movie search.
type SearchMoviesResponse struct {
	Page         int           `json:"page"`
	Results      []MovieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// MovieResult is a movie from TMDB search results.
type MovieResult struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	Adult            bool    `json:"adult"`
	GenreIDs         []int   `json:"genre_ids"`
}

// SearchTVResponse is the response from TMDB TV search.
type SearchTVResponse struct {
	Page         int        `json:"page"`
	Results      []TVResult `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

// TVResult is a TV series from TMDB search results.
type TVResult struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	OriginalName     string   `json:"original_name"`
	Overview         string   `json:"overview"`
	FirstAirDate     string   `json:"first_air_date"`
	PosterPath       *string  `json:"poster_path"`
	BackdropPath     *string  `json:"backdrop_path"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	Popularity       float64  `json:"popularity"`
	GenreIDs         []int    `json:"genre_ids"`
	OriginCountry    []string `json:"origin_country"`
	OriginalLanguage string   `json:"original_language"`
}

// SearchMultiResponse is the response from TMDB multi search.
type SearchMultiResponse struct {
	Page         int           `json:"page"`
	Results      []MultiResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// MultiResult carries the union of movie, tv and person fields.
// MediaType tells which half is populated.
type MultiResult struct {
	ID               int     `json:"id"`
	MediaType        string  `json:"media_type"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	ReleaseDate      string  `json:"release_date"`
	Name             string  `json:"name"`
	OriginalName     string  `json:"original_name"`
	FirstAirDate     string  `json:"first_air_date"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	PosterPath       *string `json:"poster_path"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
}

// DisplayTitle returns the localized title for movies and the name for everything else.
func (m MultiResult) DisplayTitle() string {
	if m.MediaType == MediaTypeMovie {
		return m.Title
	}
	return m.Name
}

// DisplayOriginalTitle mirrors DisplayTitle for the original-language title.
func (m MultiResult) DisplayOriginalTitle() string {
	if m.MediaType == MediaTypeMovie {
		return m.OriginalTitle
	}
	return m.OriginalName
}

// Date returns the release or first air date.
func (m MultiResult) Date() string {
	if m.MediaType == MediaTypeMovie {
		return m.ReleaseDate
	}
	return m.FirstAirDate
}

// MovieDetails is the detailed movie info from TMDB.
type MovieDetails struct {
	ID                int                       `json:"id"`
	Title             string                    `json:"title"`
	OriginalTitle     string                    `json:"original_title"`
	Overview          string                    `json:"overview"`
	ReleaseDate       string                    `json:"release_date"`
	PosterPath        *string                   `json:"poster_path"`
	BackdropPath      *string                   `json:"backdrop_path"`
	VoteAverage       float64                   `json:"vote_average"`
	Popularity        float64                   `json:"popularity"`
	Runtime           int                       `json:"runtime"`
	Status            string                    `json:"status"`
	ImdbID            string                    `json:"imdb_id"`
	OriginalLanguage  string                    `json:"original_language"`
	Genres            []Genre                   `json:"genres"`
	AlternativeTitles *MovieAlternativeTitles   `json:"alternative_titles,omitempty"`
	Translations      *TranslationsResponse     `json:"translations,omitempty"`
	ExternalIDs       *ExternalIDs              `json:"external_ids,omitempty"`
	BelongsTo         *CollectionSummary        `json:"belongs_to_collection,omitempty"`
	ProductionCompany []ProductionCompanyDetail `json:"production_companies,omitempty"`
}

// TVDetails is the detailed TV series info from TMDB.
type TVDetails struct {
	ID                int                   `json:"id"`
	Name              string                `json:"name"`
	OriginalName      string                `json:"original_name"`
	Overview          string                `json:"overview"`
	FirstAirDate      string                `json:"first_air_date"`
	LastAirDate       string                `json:"last_air_date"`
	PosterPath        *string               `json:"poster_path"`
	BackdropPath      *string               `json:"backdrop_path"`
	VoteAverage       float64               `json:"vote_average"`
	Popularity        float64               `json:"popularity"`
	Status            string                `json:"status"`
	OriginalLanguage  string                `json:"original_language"`
	Genres            []Genre               `json:"genres"`
	Networks          []Network             `json:"networks"`
	NumberOfSeasons   int                   `json:"number_of_seasons"`
	NumberOfEpisodes  int                   `json:"number_of_episodes"`
	Seasons           []Season              `json:"seasons"`
	AlternativeTitles *TVAlternativeTitles  `json:"alternative_titles,omitempty"`
	Translations      *TranslationsResponse `json:"translations,omitempty"`
	ExternalIDs       *ExternalIDs          `json:"external_ids,omitempty"`
}

// Genre represents a genre from TMDB.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Network represents a TV network from TMDB.
type Network struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	OriginCountry string `json:"origin_country"`
}

// CollectionSummary is the collection a movie belongs to.
type CollectionSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProductionCompanyDetail is a production company attached to movie details.
type ProductionCompanyDetail struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	OriginCountry string `json:"origin_country"`
}

// Season represents a TV season from TMDB.
type Season struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	AirDate      string  `json:"air_date"`
	EpisodeCount int     `json:"episode_count"`
	PosterPath   *string `json:"poster_path"`
	SeasonNumber int     `json:"season_number"`
}

// AlternativeTitle is one regional title of a movie or series.
type AlternativeTitle struct {
	ISO3166_1 string `json:"iso_3166_1"`
	Title     string `json:"title"`
	Type      string `json:"type"`
}

// MovieAlternativeTitles is keyed "titles" for movies.
type MovieAlternativeTitles struct {
	ID     int                `json:"id"`
	Titles []AlternativeTitle `json:"titles"`
}

// TVAlternativeTitles is keyed "results" for series.
type TVAlternativeTitles struct {
	ID      int                `json:"id"`
	Results []AlternativeTitle `json:"results"`
}

// TranslationsResponse lists the localized metadata of a title.
type TranslationsResponse struct {
	ID           int           `json:"id"`
	Translations []Translation `json:"translations"`
}

// Translation is one localized variant of a title.
type Translation struct {
	ISO3166_1   string          `json:"iso_3166_1"`
	ISO639_1    string          `json:"iso_639_1"`
	Name        string          `json:"name"`
	EnglishName string          `json:"english_name"`
	Data        TranslationData `json:"data"`
}

// TranslationData holds the translated fields. Movies fill Title, series fill Name.
type TranslationData struct {
	Title    string `json:"title"`
	Name     string `json:"name"`
	Overview string `json:"overview"`
}

// ExternalIDs contains external IDs from TMDB.
type ExternalIDs struct {
	ImdbID     string `json:"imdb_id"`
	TvdbID     int    `json:"tvdb_id"`
	WikidataID string `json:"wikidata_id"`
}

// SeasonDetails is the detailed season info from TMDB /tv/{id}/season/{number} endpoint.
type SeasonDetails struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	Overview     string           `json:"overview"`
	AirDate      string           `json:"air_date"`
	PosterPath   *string          `json:"poster_path"`
	SeasonNumber int              `json:"season_number"`
	Episodes     []EpisodeDetails `json:"episodes"`
}

// EpisodeDetails is the episode info from TMDB season details.
type EpisodeDetails struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	AirDate       string  `json:"air_date"`
	EpisodeNumber int     `json:"episode_number"`
	SeasonNumber  int     `json:"season_number"`
	StillPath     *string `json:"still_path"`
	Runtime       int     `json:"runtime"`
}

// PersonDetails is the response from /person/{id}.
type PersonDetails struct {
	ID                 int      `json:"id"`
	Name               string   `json:"name"`
	AlsoKnownAs        []string `json:"also_known_as"`
	KnownForDepartment string   `json:"known_for_department"`
	ProfilePath        *string  `json:"profile_path"`
}

// FindResponse is the response from /find/{external_id}.
type FindResponse struct {
	MovieResults []MovieResult `json:"movie_results"`
	TVResults    []TVResult    `json:"tv_results"`
}

// ErrorResponse is an error from the TMDB API.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
