package metacache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestTTLCache(ttl time.Duration, maxItems int) (*TTLCache[string, int], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewTTLCache[string, int](TTLConfig{TTL: ttl, MaxItems: maxItems})
	c.now = clock.now
	return c, clock
}

func TestTTLCache_SetGet(t *testing.T) {
	cache, _ := newTestTTLCache(time.Minute, 10)

	cache.Set("key1", 1)

	val, ok := cache.Get("key1")
	if !ok {
		t.Fatal("expected key1 to exist")
	}
	if val != 1 {
		t.Errorf("expected 1, got %d", val)
	}

	if _, ok := cache.Get("missing"); ok {
		t.Error("expected missing key to be absent")
	}
}

func TestTTLCache_Expiration(t *testing.T) {
	cache, clock := newTestTTLCache(time.Minute, 10)

	cache.Set("key1", 1)
	clock.advance(59 * time.Second)
	if _, ok := cache.Get("key1"); !ok {
		t.Error("expected key1 to exist before ttl")
	}

	clock.advance(2 * time.Second)
	if _, ok := cache.Get("key1"); ok {
		t.Error("expected key1 to be expired")
	}
}

func TestTTLCache_SetWithTTL(t *testing.T) {
	cache, clock := newTestTTLCache(time.Hour, 10)

	cache.SetWithTTL("short", 1, time.Second)
	cache.Set("long", 2)
	clock.advance(2 * time.Second)

	if _, ok := cache.Get("short"); ok {
		t.Error("expected short to be expired")
	}
	if _, ok := cache.Get("long"); !ok {
		t.Error("expected long to survive")
	}
}

func TestTTLCache_EvictsClosestToExpiry(t *testing.T) {
	cache, clock := newTestTTLCache(time.Hour, 2)

	cache.Set("a", 1)
	clock.advance(time.Second)
	cache.Set("b", 2)
	clock.advance(time.Second)
	cache.Set("c", 3)

	if cache.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", cache.Len())
	}
	if _, ok := cache.Get("a"); ok {
		t.Error("expected a to be evicted")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Error("expected c to be present")
	}
}

func TestTTLCache_OverwriteDoesNotEvict(t *testing.T) {
	cache, _ := newTestTTLCache(time.Hour, 2)

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("a", 3)

	if v, _ := cache.Get("a"); v != 3 {
		t.Errorf("a = %d, want 3", v)
	}
	if _, ok := cache.Get("b"); !ok {
		t.Error("expected b to survive overwrite of a")
	}
}

func TestTTLCache_PurgeDeleteClear(t *testing.T) {
	cache, clock := newTestTTLCache(time.Minute, 10)

	cache.Set("a", 1)
	cache.SetWithTTL("b", 2, time.Hour)
	clock.advance(2 * time.Minute)

	if n := cache.Purge(); n != 1 {
		t.Errorf("Purge() = %d, want 1", n)
	}

	cache.Delete("b")
	if cache.Len() != 0 {
		t.Errorf("Len() = %d after delete, want 0", cache.Len())
	}

	cache.Set("c", 3)
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len() = %d after clear, want 0", cache.Len())
	}
}
