package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestIPLimiter_Allow(t *testing.T) {
	l := NewIPLimiter(2)

	if !l.Allow("10.0.0.1") || !l.Allow("10.0.0.1") {
		t.Fatal("first two requests should be allowed")
	}
	if l.Allow("10.0.0.1") {
		t.Error("third request should be limited")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("other addresses have their own bucket")
	}
}

func TestIPLimiter_WindowResets(t *testing.T) {
	l := NewIPLimiter(1)
	l.window = 10 * time.Millisecond

	l.Allow("10.0.0.1")
	if l.Allow("10.0.0.1") {
		t.Fatal("second request should be limited")
	}

	time.Sleep(20 * time.Millisecond)
	l.Cleanup()
	if len(l.ipBuckets) != 0 {
		t.Errorf("Cleanup() left %d buckets", len(l.ipBuckets))
	}
	if !l.Allow("10.0.0.1") {
		t.Error("request after the window should be allowed")
	}
}

func TestIPLimiter_Middleware(t *testing.T) {
	l := NewIPLimiter(1)
	e := echo.New()
	h := l.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resolve", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if err := h(e.NewContext(req, httptest.NewRecorder())); err != nil {
		t.Fatalf("first request error = %v", err)
	}

	err := h(e.NewContext(req, httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusTooManyRequests {
		t.Errorf("second request error = %v, want 429", err)
	}
}
