package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/reelid/reelid/internal/config"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrNotFound      = errors.New("TMDB resource not found")
	ErrAPIError      = errors.New("TMDB API error")
	ErrRateLimited   = errors.New("TMDB API rate limited")
)

// appendDetails is requested with every detail lookup so that a single
// round trip carries everything the matcher needs.
const appendDetails = "alternative_titles,translations,external_ids"

// Client is a TMDB API client. Results are returned in the order the API
// ranks them.
type Client struct {
	httpClient *http.Client
	config     config.CatalogConfig
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.CatalogConfig, logger zerolog.Logger) *Client {
	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = max(1, int(cfg.RequestsPerSecond))
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config:  cfg,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// Language returns the default display language.
func (c *Client) Language() string {
	return c.config.Language
}

// Test verifies connectivity to the TMDB API by making a configuration request.
func (c *Client) Test(ctx context.Context) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}

	var result struct {
		Images struct {
			BaseURL string `json:"base_url"`
		} `json:"images"`
	}

	return c.doRequest(ctx, "/configuration", c.params(""), &result)
}

// SearchMovies searches for movies by query with optional year filter.
func (c *Client) SearchMovies(ctx context.Context, query string, year int) ([]MovieResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params := c.params("")
	params.Set("query", query)
	params.Set("include_adult", "false")
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	var response SearchMoviesResponse
	if err := c.doRequest(ctx, "/search/movie", params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("query", query).
		Int("year", year).
		Int("results", len(response.Results)).
		Msg("Movie search completed")

	return response.Results, nil
}

// SearchTV searches for TV series by query with optional first-air-date year filter.
func (c *Client) SearchTV(ctx context.Context, query string, year int) ([]TVResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params := c.params("")
	params.Set("query", query)
	params.Set("include_adult", "false")
	if year > 0 {
		params.Set("first_air_date_year", strconv.Itoa(year))
	}

	var response SearchTVResponse
	if err := c.doRequest(ctx, "/search/tv", params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("query", query).
		Int("year", year).
		Int("results", len(response.Results)).
		Msg("TV search completed")

	return response.Results, nil
}

// SearchMulti searches movies, series and people in a single call.
func (c *Client) SearchMulti(ctx context.Context, query string) ([]MultiResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params := c.params("")
	params.Set("query", query)
	params.Set("include_adult", "false")

	var response SearchMultiResponse
	if err := c.doRequest(ctx, "/search/multi", params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(response.Results)).
		Msg("Multi search completed")

	return response.Results, nil
}

// GetMovie gets detailed movie info by TMDB ID, including alternative
// titles, translations and external ids. An empty language uses the
// configured default.
func (c *Client) GetMovie(ctx context.Context, id int, language string) (*MovieDetails, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params := c.params(language)
	params.Set("append_to_response", appendDetails)

	var details MovieDetails
	if err := c.doRequest(ctx, fmt.Sprintf("/movie/%d", id), params, &details); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("id", id).
		Str("title", details.Title).
		Msg("Got movie details")

	return &details, nil
}

// GetTV gets detailed TV series info by TMDB ID, with the same appended
// sub-resources as GetMovie.
func (c *Client) GetTV(ctx context.Context, id int, language string) (*TVDetails, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params := c.params(language)
	params.Set("append_to_response", appendDetails)

	var details TVDetails
	if err := c.doRequest(ctx, fmt.Sprintf("/tv/%d", id), params, &details); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("id", id).
		Str("title", details.Name).
		Msg("Got TV series details")

	return &details, nil
}

// GetAlternativeTitles returns the regional titles of a movie or series.
// mediaType is MediaTypeMovie or MediaTypeTV.
func (c *Client) GetAlternativeTitles(ctx context.Context, mediaType string, id int) ([]AlternativeTitle, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	endpoint := fmt.Sprintf("/%s/%d/alternative_titles", mediaType, id)

	switch mediaType {
	case MediaTypeMovie:
		var resp MovieAlternativeTitles
		if err := c.doRequest(ctx, endpoint, c.params(""), &resp); err != nil {
			return nil, err
		}
		return resp.Titles, nil
	case MediaTypeTV:
		var resp TVAlternativeTitles
		if err := c.doRequest(ctx, endpoint, c.params(""), &resp); err != nil {
			return nil, err
		}
		return resp.Results, nil
	default:
		return nil, fmt.Errorf("%w: unsupported media type %q", ErrAPIError, mediaType)
	}
}

// GetSeason gets detailed info for a specific season including all episodes.
func (c *Client) GetSeason(ctx context.Context, seriesID, seasonNumber int) (*SeasonDetails, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	var details SeasonDetails
	endpoint := fmt.Sprintf("/tv/%d/season/%d", seriesID, seasonNumber)
	if err := c.doRequest(ctx, endpoint, c.params(""), &details); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("seriesID", seriesID).
		Int("seasonNumber", seasonNumber).
		Int("episodes", len(details.Episodes)).
		Msg("Got season details")

	return &details, nil
}

// GetPerson gets a person with their also-known-as names.
func (c *Client) GetPerson(ctx context.Context, id int) (*PersonDetails, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	var person PersonDetails
	if err := c.doRequest(ctx, fmt.Sprintf("/person/%d", id), c.params(""), &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// FindByIMDbID looks up movies and series by their IMDb id.
func (c *Client) FindByIMDbID(ctx context.Context, imdbID string) (*FindResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params := c.params("")
	params.Set("external_source", "imdb_id")

	var resp FindResponse
	if err := c.doRequest(ctx, "/find/"+url.PathEscape(imdbID), params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) params(language string) url.Values {
	if language == "" {
		language = c.config.Language
	}
	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	if language != "" {
		params.Set("language", language)
	}
	return params
}

// doRequest performs an HTTP GET request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := c.config.BaseURL + path
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("path", path).
				Str("message", errResp.StatusMessage).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: invalid API key", ErrAPIError)
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
