package douban

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelid/reelid/internal/config"
)

var (
	ErrAPIKeyMissing = errors.New("Douban API key is not configured")
	ErrNotFound      = errors.New("not found on Douban")
	ErrAPIError      = errors.New("Douban API error")
)

// The frodo API rejects requests without a mobile client user agent.
const userAgent = "api-client/1 com.douban.frodo/7.22.0.beta9(231) Android/23 product/Mate40 vendor/HUAWEI model/Mate40 brand/HUAWEI rom/android network/wifi platform/AndroidPad"

// Client is a Douban frodo API client.
type Client struct {
	httpClient *http.Client
	config     config.SecondaryConfig
	logger     zerolog.Logger
}

// NewClient creates a new Douban client.
func NewClient(cfg config.SecondaryConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "douban").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "douban"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// SearchMovies searches movie subjects by title.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]SearchItem, error) {
	return c.search(ctx, "movie", query)
}

// SearchTV searches series subjects by title.
func (c *Client) SearchTV(ctx context.Context, query string) ([]SearchItem, error) {
	return c.search(ctx, "tv", query)
}

// MovieDetail returns a movie subject.
func (c *Client) MovieDetail(ctx context.Context, id string) (*Subject, error) {
	return c.subject(ctx, "movie", id)
}

// TVDetail returns a series subject.
func (c *Client) TVDetail(ctx context.Context, id string) (*Subject, error) {
	return c.subject(ctx, "tv", id)
}

// MovieCelebrities returns the directors and actors of a movie.
func (c *Client) MovieCelebrities(ctx context.Context, id string) (*CelebritiesResponse, error) {
	return c.celebrities(ctx, "movie", id)
}

// TVCelebrities returns the directors and actors of a series.
func (c *Client) TVCelebrities(ctx context.Context, id string) (*CelebritiesResponse, error) {
	return c.celebrities(ctx, "tv", id)
}

func (c *Client) search(ctx context.Context, kind, query string) ([]SearchItem, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("start", "0")
	params.Set("count", "20")

	var resp SearchResponse
	if err := c.doRequest(ctx, "/search/"+kind, params, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("kind", kind).
		Str("query", query).
		Int("results", len(resp.Items)).
		Msg("Douban search completed")

	return resp.Items, nil
}

func (c *Client) subject(ctx context.Context, kind, id string) (*Subject, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}
	if id == "" {
		return nil, ErrNotFound
	}

	var subject Subject
	if err := c.doRequest(ctx, fmt.Sprintf("/%s/%s", kind, url.PathEscape(id)), nil, &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

func (c *Client) celebrities(ctx context.Context, kind, id string) (*CelebritiesResponse, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}
	if id == "" {
		return nil, ErrNotFound
	}

	var resp CelebritiesResponse
	endpoint := fmt.Sprintf("/%s/%s/celebrities", kind, url.PathEscape(id))
	if err := c.doRequest(ctx, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.config.APIKey)

	endpoint := c.config.BaseURL + path
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Msg != "" {
			c.logger.Warn().
				Int("status", resp.StatusCode).
				Int("code", errResp.Code).
				Str("message", errResp.Msg).
				Msg("Douban API returned error")
		}
		if resp.StatusCode == http.StatusNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
