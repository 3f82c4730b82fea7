package douban

// SearchResponse is the response from /search/movie and /search/tv.
type SearchResponse struct {
	Count int          `json:"count"`
	Start int          `json:"start"`
	Total int          `json:"total"`
	Items []SearchItem `json:"items"`
}

// SearchItem is one hit of a subject search.
type SearchItem struct {
	TargetID   string       `json:"target_id"`
	TargetType string       `json:"target_type"`
	TypeName   string       `json:"type_name"`
	Target     SearchTarget `json:"target"`
}

// SearchTarget holds the subject summary embedded in a search hit.
type SearchTarget struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Year         string `json:"year"`
	CardSubtitle string `json:"card_subtitle"`
	CoverURL     string `json:"cover_url"`
}

// Subject is the detail of a movie or series.
type Subject struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	OriginalTitle string      `json:"original_title"`
	Year          string      `json:"year"`
	Type          string      `json:"type"`
	Intro         string      `json:"intro"`
	Genres        []string    `json:"genres"`
	Countries     []string    `json:"countries"`
	Languages     []string    `json:"languages"`
	Pubdate       []string    `json:"pubdate"`
	EpisodesCount int         `json:"episodes_count"`
	Rating        *Rating     `json:"rating"`
	Pic           *Picture    `json:"pic"`
	URL           string      `json:"url"`
	Directors     []Celebrity `json:"directors,omitempty"`
	Actors        []Celebrity `json:"actors,omitempty"`
}

// Rating is the subject score.
type Rating struct {
	Count int     `json:"count"`
	Max   int     `json:"max"`
	Value float64 `json:"value"`
}

// Picture holds cover image URLs.
type Picture struct {
	Large  string `json:"large"`
	Normal string `json:"normal"`
}

// Celebrity is a director or actor credit.
type Celebrity struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	LatinName string   `json:"latin_name"`
	Roles     []string `json:"roles,omitempty"`
	Character string   `json:"character,omitempty"`
}

// CelebritiesResponse is the response from the celebrities endpoints.
type CelebritiesResponse struct {
	Directors []Celebrity `json:"directors"`
	Actors    []Celebrity `json:"actors"`
}

// ErrorResponse is an error body returned by the API.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Msg     string `json:"msg"`
	Request string `json:"request"`
}
