package metadata

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/reelid/reelid/internal/media"
)

// Handlers provides HTTP handlers for resolution operations.
type Handlers struct {
	resolver *Resolver
}

// NewHandlers creates new resolution handlers.
func NewHandlers(resolver *Resolver) *Handlers {
	return &Handlers{resolver: resolver}
}

// RegisterRoutes registers the resolution routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	// Resolution
	g.GET("/resolve", h.Resolve)
	g.GET("/resolve/:type/:id", h.ResolveByID)
	g.POST("/resolve/batch", h.ResolveBatch)
	g.GET("/search", h.Search)
	g.GET("/candidates", h.Candidates)

	// Catalog helpers
	g.GET("/tv/:id/seasons", h.GetSeasons)
	g.GET("/tv/:id/seasons/:season", h.GetSeason)
	g.GET("/person/:id/names", h.GetPersonNames)
	g.GET("/imdb/:imdbId", h.GetByIMDbID)
	g.GET("/secondary", h.LookupSecondary)

	// Cache management
	g.GET("/cache", h.ListCache)
	g.GET("/cache/entry", h.GetCacheEntry)
	g.PUT("/cache/title", h.RetitleCacheEntry)
	g.POST("/cache/seed", h.SeedCache)
	g.DELETE("/cache", h.DeleteCache)

	g.GET("/status", h.GetStatus)
}

// errorResponse maps resolver errors onto HTTP errors.
func errorResponse(err error) error {
	switch {
	case errors.Is(err, ErrCatalogNotConfigured):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "catalog not configured")
	case errors.Is(err, ErrSecondaryNotConfigured):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "secondary catalog not configured")
	case errors.Is(err, ErrInvalidArgument):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid argument")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func queryInt(c echo.Context, name string) (int, error) {
	s := c.QueryParam(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return n, nil
}

func paramInt(c echo.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return n, nil
}

func recordResponse(c echo.Context, rec *media.Record, err error) error {
	if err != nil {
		return errorResponse(err)
	}
	if rec == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no match")
	}
	return c.JSON(http.StatusOK, rec)
}

// Resolve parses and resolves a noisy title.
// GET /api/v1/resolve?title=...&subtitle=...&type=...&strict=...&refresh=...&keepTitle=...
func (h *Handlers) Resolve(c echo.Context) error {
	title := c.QueryParam("title")
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title parameter is required")
	}

	req := ResolveRequest{
		Title:     title,
		Subtitle:  c.QueryParam("subtitle"),
		Type:      media.ParseType(c.QueryParam("type")),
		Strict:    c.QueryParam("strict") == "true",
		Refresh:   c.QueryParam("refresh") == "true",
		KeepTitle: c.QueryParam("keepTitle") == "true",
	}

	rec, err := h.resolver.ResolveByQuery(c.Request().Context(), req)
	return recordResponse(c, rec, err)
}

// ResolveByID looks up a record by catalog id.
// GET /api/v1/resolve/:type/:id?language=...
func (h *Handlers) ResolveByID(c echo.Context) error {
	t := media.ParseType(c.Param("type"))
	if t == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid media type, must be 'movie' or 'tv'")
	}
	id, err := paramInt(c, "id")
	if err != nil {
		return err
	}

	rec, err := h.resolver.ResolveByID(c.Request().Context(), t, id, c.QueryParam("language"))
	return recordResponse(c, rec, err)
}

// BatchRequest is the body of a batch resolution.
type BatchRequest struct {
	Paths     []string      `json:"paths"`
	Known     *media.Record `json:"known,omitempty"`
	Type      string        `json:"type,omitempty"`
	Season    int           `json:"season,omitempty"`
	KeepTitle bool          `json:"keepTitle,omitempty"`
}

// ResolveBatch resolves a list of files on the server.
// POST /api/v1/resolve/batch
func (h *Handlers) ResolveBatch(c echo.Context) error {
	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Paths) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "paths are required")
	}

	matches, err := h.resolver.ResolveBatch(c.Request().Context(), req.Paths, BatchOptions{
		Known:     req.Known,
		Type:      media.ParseType(req.Type),
		Season:    req.Season,
		KeepTitle: req.KeepTitle,
	})
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, matches)
}

// Search runs a single strict catalog search.
// GET /api/v1/search?title=...&year=...&type=...
func (h *Handlers) Search(c echo.Context) error {
	year, err := queryInt(c, "year")
	if err != nil {
		return err
	}
	rec, err := h.resolver.ResolveByTitle(c.Request().Context(), c.QueryParam("title"), year, media.ParseType(c.QueryParam("type")))
	return recordResponse(c, rec, err)
}

// Candidates lists possible matches for a title.
// GET /api/v1/candidates?title=...&year=...&type=...&limit=...
func (h *Handlers) Candidates(c echo.Context) error {
	year, err := queryInt(c, "year")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	recs, err := h.resolver.SearchCandidates(c.Request().Context(), c.QueryParam("title"), year,
		media.ParseType(c.QueryParam("type")), limit)
	if err != nil {
		return errorResponse(err)
	}
	if recs == nil {
		recs = []*media.Record{}
	}
	return c.JSON(http.StatusOK, recs)
}

// GetSeasons lists the seasons of a series.
// GET /api/v1/tv/:id/seasons
func (h *Handlers) GetSeasons(c echo.Context) error {
	id, err := paramInt(c, "id")
	if err != nil {
		return err
	}
	seasons, err := h.resolver.SeasonsList(c.Request().Context(), id)
	if err != nil {
		return errorResponse(err)
	}
	if seasons == nil {
		seasons = []media.Season{}
	}
	return c.JSON(http.StatusOK, seasons)
}

// GetSeason returns one season with its episodes.
// GET /api/v1/tv/:id/seasons/:season
func (h *Handlers) GetSeason(c echo.Context) error {
	id, err := paramInt(c, "id")
	if err != nil {
		return err
	}
	season, err := paramInt(c, "season")
	if err != nil {
		return err
	}

	detail, err := h.resolver.SeasonDetail(c.Request().Context(), id, season)
	if err != nil {
		return errorResponse(err)
	}
	if detail == nil {
		return echo.NewHTTPError(http.StatusNotFound, "season not found")
	}
	return c.JSON(http.StatusOK, detail)
}

// PersonNamesResponse carries the names of a person.
type PersonNamesResponse struct {
	ChineseName string   `json:"chineseName,omitempty"`
	AlsoKnownAs []string `json:"alsoKnownAs"`
}

// GetPersonNames returns the aliases and Chinese name of a person.
// GET /api/v1/person/:id/names
func (h *Handlers) GetPersonNames(c echo.Context) error {
	id, err := paramInt(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	aka, err := h.resolver.PersonAKANames(ctx, id)
	if err != nil {
		return errorResponse(err)
	}
	cn, err := h.resolver.PersonChineseName(ctx, id)
	if err != nil {
		return errorResponse(err)
	}
	if aka == nil {
		aka = []string{}
	}
	return c.JSON(http.StatusOK, PersonNamesResponse{ChineseName: cn, AlsoKnownAs: aka})
}

// GetByIMDbID maps an IMDb id to a catalog id.
// GET /api/v1/imdb/:imdbId
func (h *Handlers) GetByIMDbID(c echo.Context) error {
	id, t, err := h.resolver.IDByIMDbID(c.Request().Context(), c.Param("imdbId"))
	if err != nil {
		return errorResponse(err)
	}
	if id == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no match")
	}
	return c.JSON(http.StatusOK, map[string]any{"id": id, "type": t})
}

// LookupSecondary looks a title up in the secondary catalog.
// GET /api/v1/secondary?title=...&type=...
func (h *Handlers) LookupSecondary(c echo.Context) error {
	title := c.QueryParam("title")
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title parameter is required")
	}

	subject, err := h.resolver.LookupSecondary(c.Request().Context(), title, media.ParseType(c.QueryParam("type")))
	if err != nil {
		return errorResponse(err)
	}
	if subject == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no match")
	}
	return c.JSON(http.StatusOK, subject)
}

// ListCache lists the resolution cache keys.
// GET /api/v1/cache
func (h *Handlers) ListCache(c echo.Context) error {
	keys, err := h.resolver.CacheKeys(c.Request().Context())
	if err != nil {
		return errorResponse(err)
	}
	if keys == nil {
		keys = []string{}
	}
	return c.JSON(http.StatusOK, keys)
}

// GetCacheEntry returns one cached outcome. A cached miss is returned with
// id 0.
// GET /api/v1/cache/entry?key=...
func (h *Handlers) GetCacheEntry(c echo.Context) error {
	key := c.QueryParam("key")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "key parameter is required")
	}
	rec, ok, err := h.resolver.CacheEntry(c.Request().Context(), key)
	if err != nil {
		return errorResponse(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "key not cached")
	}
	return c.JSON(http.StatusOK, rec)
}

// RetitleRequest is the body of a cache retitle.
type RetitleRequest struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// RetitleCacheEntry replaces the display title of a cached record.
// PUT /api/v1/cache/title
func (h *Handlers) RetitleCacheEntry(c echo.Context) error {
	var req RetitleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "key is required")
	}
	if err := h.resolver.RetitleCacheEntry(c.Request().Context(), req.Key, req.Title); err != nil {
		return errorResponse(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SeedRequest is the body of a cache seed.
type SeedRequest struct {
	Path   string        `json:"path"`
	Record *media.Record `json:"record"`
}

// SeedCache primes the cache for files already known to be one title.
// POST /api/v1/cache/seed
func (h *Handlers) SeedCache(c echo.Context) error {
	var req SeedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Path == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path is required")
	}

	n, err := h.resolver.SeedCache(c.Request().Context(), req.Path, req.Record)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"seeded": n})
}

// DeleteCache forgets one key, or the whole cache when no key is given.
// DELETE /api/v1/cache?key=...
func (h *Handlers) DeleteCache(c echo.Context) error {
	ctx := c.Request().Context()
	var err error
	if key := c.QueryParam("key"); key != "" {
		err = h.resolver.DeleteCacheEntry(ctx, key)
	} else {
		err = h.resolver.ClearCache(ctx)
	}
	if err != nil {
		return errorResponse(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ProviderStatus represents the status of a catalog. Reachable is only set
// when a connectivity check was requested.
type ProviderStatus struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
	Reachable  *bool  `json:"reachable,omitempty"`
	Error      string `json:"error,omitempty"`
}

// StatusResponse represents the resolver status.
type StatusResponse struct {
	Catalog   ProviderStatus  `json:"catalog"`
	Secondary *ProviderStatus `json:"secondary,omitempty"`
	Language  string          `json:"language,omitempty"`
}

// connectivityTester is implemented by catalogs that can check their
// upstream connection.
type connectivityTester interface {
	Test(ctx context.Context) error
}

// GetStatus returns which catalogs are configured.
// GET /api/v1/status?check=true
func (h *Handlers) GetStatus(c echo.Context) error {
	r := h.resolver
	var resp StatusResponse
	if r.catalog != nil {
		resp.Catalog = ProviderStatus{Name: r.catalog.Name(), Configured: r.catalog.IsConfigured()}
		resp.Language = r.catalog.Language()

		if tester, ok := r.catalog.(connectivityTester); ok && c.QueryParam("check") == "true" {
			err := tester.Test(c.Request().Context())
			reachable := err == nil
			resp.Catalog.Reachable = &reachable
			if err != nil {
				resp.Catalog.Error = err.Error()
			}
		}
	}
	if r.secondary != nil {
		resp.Secondary = &ProviderStatus{Name: r.secondary.Name(), Configured: r.secondary.IsConfigured()}
	}
	return c.JSON(http.StatusOK, resp)
}
