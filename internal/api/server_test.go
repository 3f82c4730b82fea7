package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reelid/reelid/internal/api/handlers"
	"github.com/reelid/reelid/internal/config"
	"github.com/reelid/reelid/internal/logger"
	"github.com/reelid/reelid/internal/media"
	"github.com/reelid/reelid/internal/metadata"
	"github.com/reelid/reelid/internal/metadata/mock"
	"github.com/reelid/reelid/internal/parser"
	"github.com/reelid/reelid/internal/scheduler"
	"github.com/reelid/reelid/internal/scheduler/tasks"
)

func setupTestServer(t *testing.T, rateLimit int) (*Server, *logger.Logger) {
	t.Helper()

	cfg := config.Default()
	cfg.Catalog.DevMode = true
	cfg.Server.RateLimit = rateLimit

	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "debug", Format: "json", Output: &buf})

	resolver := metadata.NewResolver(metadata.Deps{
		Catalog: mock.NewSample(),
		Parser:  parser.New(),
	}, metadata.Options{}, &log.Logger)

	sched, err := scheduler.New(zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create scheduler: %v", err)
	}
	t.Cleanup(func() { _ = sched.Stop() })
	if err := tasks.RegisterCacheMaintenanceTask(sched, resolver, "0 3 * * *", zerolog.Nop()); err != nil {
		t.Fatalf("Failed to register task: %v", err)
	}

	return NewServer(cfg, resolver, sched, log, log.Logger), log
}

func serve(s *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	s, _ := setupTestServer(t, 0)

	rec := serve(s, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Errorf("HealthCheck status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("Expected security headers on every response")
	}
}

func TestResolveRoute(t *testing.T) {
	s, _ := setupTestServer(t, 0)

	rec := serve(s, http.MethodGet, "/api/v1/resolve?title=Inception.2010.1080p.BluRay.x264")
	if rec.Code != http.StatusOK {
		t.Fatalf("Resolve status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var got media.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if got.ID != 27205 {
		t.Errorf("Resolve id = %d, want 27205", got.ID)
	}

	rec = serve(s, http.MethodGet, "/api/v1/cache")
	var keys []string
	if err := json.Unmarshal(rec.Body.Bytes(), &keys); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("cache keys = %v, want one", keys)
	}
}

func TestRateLimit(t *testing.T) {
	s, _ := setupTestServer(t, 2)

	for i := 0; i < 2; i++ {
		if rec := serve(s, http.MethodGet, "/api/v1/system/status"); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	if rec := serve(s, http.MethodGet, "/api/v1/system/status"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec := serve(s, http.MethodGet, "/health"); rec.Code != http.StatusOK {
		t.Errorf("health must not be rate limited, got %d", rec.Code)
	}
}

func TestSchedulerRoutes(t *testing.T) {
	s, _ := setupTestServer(t, 0)

	rec := serve(s, http.MethodGet, "/api/v1/scheduler/tasks")
	if rec.Code != http.StatusOK {
		t.Fatalf("ListTasks status = %d", rec.Code)
	}
	var list []scheduler.TaskInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(list) != 1 || list[0].ID != tasks.CacheMaintenanceTaskID {
		t.Errorf("ListTasks = %+v", list)
	}

	if rec := serve(s, http.MethodGet, "/api/v1/scheduler/tasks/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("GetTask unknown status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if rec := serve(s, http.MethodPost, "/api/v1/scheduler/tasks/nope/run"); rec.Code != http.StatusNotFound {
		t.Errorf("RunTask unknown status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestPurgeRoute(t *testing.T) {
	s, _ := setupTestServer(t, 0)

	if rec := serve(s, http.MethodGet, "/api/v1/resolve?title=Inception.2010.1080p.BluRay.x264"); rec.Code != http.StatusOK {
		t.Fatalf("Resolve status = %d", rec.Code)
	}

	rec := serve(s, http.MethodPost, "/api/v1/scheduler/purge")
	if rec.Code != http.StatusOK {
		t.Fatalf("Purge status = %d: %s", rec.Code, rec.Body.String())
	}
	var got handlers.PurgeResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if got.Purged != 0 || got.CachedEntries != 1 {
		t.Errorf("Purge = %+v, want nothing purged and one cached entry", got)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}
}

func TestLogsRoute(t *testing.T) {
	s, log := setupTestServer(t, 0)
	log.Warn().Msg("something odd")

	rec := serve(s, http.MethodGet, "/api/v1/logs?level=warn")
	if rec.Code != http.StatusOK {
		t.Fatalf("GetRecentLogs status = %d", rec.Code)
	}
	var entries []logger.LogEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(entries) != 1 || entries[0].Message != "something odd" {
		t.Errorf("GetRecentLogs = %+v", entries)
	}

	if rec := serve(s, http.MethodGet, "/api/v1/logs/download"); rec.Code != http.StatusNotFound {
		t.Errorf("DownloadLogFile status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
