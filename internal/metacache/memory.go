// Package metacache stores resolution outcomes and supplemental search
// keywords, in memory or in SQLite.
package metacache

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/reelid/reelid/internal/media"
)

// ErrNotCached is returned by SetTitle for a key with no entry.
var ErrNotCached = errors.New("cache entry not found")

// MemoryStore is a process-local resolution cache.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*media.Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*media.Record)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*media.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	return rec.Clone(), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, rec *media.Record) error {
	if rec == nil {
		rec = media.NotFound()
	}
	s.mu.Lock()
	s.entries[key] = rec.Clone()
	s.mu.Unlock()
	return nil
}

// SetTitle replaces the display title of an existing entry.
func (s *MemoryStore) SetTitle(_ context.Context, key, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.entries[key]
	if !ok || rec.IsNotFound() {
		return ErrNotCached
	}
	rec.Title = title
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.entries = make(map[string]*media.Record)
	s.mu.Unlock()
	return nil
}

// UpdateMany writes every entry in one critical section.
func (s *MemoryStore) UpdateMany(_ context.Context, entries map[string]*media.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, rec := range entries {
		if rec == nil {
			rec = media.NotFound()
		}
		s.entries[key] = rec.Clone()
	}
	return nil
}

// Keys returns all cache keys in sorted order.
func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	slices.Sort(keys)
	return keys, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// MemoryKeywordStore keeps supplemental keywords in a TTL cache.
type MemoryKeywordStore struct {
	cache *TTLCache[string, media.Keyword]
}

// NewMemoryKeywordStore creates a keyword store whose entries live for ttl.
func NewMemoryKeywordStore(ttl time.Duration, maxItems int) *MemoryKeywordStore {
	return &MemoryKeywordStore{
		cache: NewTTLCache[string, media.Keyword](TTLConfig{TTL: ttl, MaxItems: maxItems}),
	}
}

func (s *MemoryKeywordStore) GetKeyword(_ context.Context, name string) (media.Keyword, bool, error) {
	kw, ok := s.cache.Get(name)
	return kw, ok, nil
}

func (s *MemoryKeywordStore) SetKeyword(_ context.Context, name string, kw media.Keyword) error {
	s.cache.Set(name, kw)
	return nil
}

// PurgeExpired drops expired keywords.
func (s *MemoryKeywordStore) PurgeExpired(_ context.Context) (int64, error) {
	return int64(s.cache.Purge()), nil
}
