package metadata

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/reelid/reelid/internal/media"
	"github.com/reelid/reelid/internal/metadata/mock"
	"github.com/reelid/reelid/internal/metadata/tmdb"
)

func setupTestHandlers(t *testing.T) (*Handlers, *mock.Catalog) {
	t.Helper()
	cat := mock.New()
	cat.MovieSearch["the matrix"] = []tmdb.MovieResult{
		{ID: 603, Title: "The Matrix", OriginalTitle: "The Matrix", ReleaseDate: "1999-03-30"},
	}
	cat.Movies[603] = &tmdb.MovieDetails{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-30"}
	return NewHandlers(newTestResolver(t, cat, Options{})), cat
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestHandlers_Resolve(t *testing.T) {
	handlers, _ := setupTestHandlers(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/resolve?title=The.Matrix.1999.1080p", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handlers.Resolve(c); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Resolve() status = %d, want %d", rec.Code, http.StatusOK)
	}

	var got media.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if got.ID != 603 || got.Type != media.Movie {
		t.Errorf("Resolve() = %d/%s, want 603/movie", got.ID, got.Type)
	}
}

func TestHandlers_ResolveErrors(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		configured bool
		want       int
	}{
		{"missing title", "/api/v1/resolve", true, http.StatusBadRequest},
		{"no match", "/api/v1/resolve?title=Nothing.Here.2001", true, http.StatusNotFound},
		{"not configured", "/api/v1/resolve?title=The.Matrix.1999", false, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlers, cat := setupTestHandlers(t)
			cat.Configured = tt.configured

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			c := e.NewContext(req, httptest.NewRecorder())

			err := handlers.Resolve(c)
			if err == nil {
				t.Fatal("Resolve() expected error")
			}
			if code := httpStatus(t, err); code != tt.want {
				t.Errorf("Resolve() status = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestHandlers_ResolveByID(t *testing.T) {
	handlers, _ := setupTestHandlers(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/resolve/:type/:id")
	c.SetParamNames("type", "id")
	c.SetParamValues("movie", "603")

	if err := handlers.ResolveByID(c); err != nil {
		t.Fatalf("ResolveByID() error = %v", err)
	}

	var got media.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if got.Title != "The Matrix" {
		t.Errorf("ResolveByID() title = %q, want %q", got.Title, "The Matrix")
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("type", "id")
	c.SetParamValues("book", "603")
	if code := httpStatus(t, handlers.ResolveByID(c)); code != http.StatusBadRequest {
		t.Errorf("ResolveByID() with bad type status = %d, want %d", code, http.StatusBadRequest)
	}
}

func TestHandlers_Cache(t *testing.T) {
	handlers, _ := setupTestHandlers(t)
	e := echo.New()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/resolve?title=The.Matrix.1999", nil), httptest.NewRecorder())
	if err := handlers.Resolve(c); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	rec := httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/cache", nil), rec)
	if err := handlers.ListCache(c); err != nil {
		t.Fatalf("ListCache() error = %v", err)
	}
	var keys []string
	if err := json.Unmarshal(rec.Body.Bytes(), &keys); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("ListCache() = %v, want one key", keys)
	}

	body := `{"key":"` + keys[0] + `","title":"黑客帝国"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cache/title", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if err := handlers.RetitleCacheEntry(c); err != nil {
		t.Fatalf("RetitleCacheEntry() error = %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("RetitleCacheEntry() status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/cache/entry?key="+keys[0], nil), rec)
	if err := handlers.GetCacheEntry(c); err != nil {
		t.Fatalf("GetCacheEntry() error = %v", err)
	}
	var entry media.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if entry.Title != "黑客帝国" {
		t.Errorf("GetCacheEntry() title = %q, want %q", entry.Title, "黑客帝国")
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodDelete, "/api/v1/cache", nil), rec)
	if err := handlers.DeleteCache(c); err != nil {
		t.Fatalf("DeleteCache() error = %v", err)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/cache/entry?key="+keys[0], nil), httptest.NewRecorder())
	if code := httpStatus(t, handlers.GetCacheEntry(c)); code != http.StatusNotFound {
		t.Errorf("GetCacheEntry() after clear status = %d, want %d", code, http.StatusNotFound)
	}
}

func TestHandlers_GetStatus(t *testing.T) {
	handlers, _ := setupTestHandlers(t)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/status", nil), rec)

	if err := handlers.GetStatus(c); err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}

	var status StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !status.Catalog.Configured {
		t.Error("Expected catalog to be configured")
	}
	if status.Secondary != nil {
		t.Error("Expected no secondary catalog")
	}
}
