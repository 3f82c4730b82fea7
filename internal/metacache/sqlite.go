package metacache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/reelid/reelid/internal/media"
)

// SQLiteStore persists resolution outcomes so that cache keys survive restarts.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps a migrated database connection.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const upsertRecord = `
INSERT INTO resolution_cache (cache_key, media_id, media_type, title, record, updated_at)
VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(cache_key) DO UPDATE SET
    media_id = excluded.media_id,
    media_type = excluded.media_type,
    title = excluded.title,
    record = excluded.record,
    updated_at = CURRENT_TIMESTAMP`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (*media.Record, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM resolution_cache WHERE cache_key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var rec media.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, false, fmt.Errorf("failed to decode cache entry %q: %w", key, err)
	}
	return &rec, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, rec *media.Record) error {
	return writeRecord(ctx, s.db, key, rec)
}

func writeRecord(ctx context.Context, ex execer, key string, rec *media.Record) error {
	if rec == nil {
		rec = media.NotFound()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if _, err := ex.ExecContext(ctx, upsertRecord, key, rec.ID, string(rec.Type), rec.Title, string(data)); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// SetTitle replaces the display title of an existing entry.
func (s *SQLiteStore) SetTitle(ctx context.Context, key, title string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT record FROM resolution_cache WHERE cache_key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotCached
	}
	if err != nil {
		return fmt.Errorf("failed to read cache entry: %w", err)
	}

	var rec media.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return fmt.Errorf("failed to decode cache entry %q: %w", key, err)
	}
	if rec.IsNotFound() {
		return ErrNotCached
	}
	rec.Title = title

	if err := writeRecord(ctx, tx, key, &rec); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM resolution_cache WHERE cache_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM resolution_cache`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// UpdateMany writes all entries in a single transaction.
func (s *SQLiteStore) UpdateMany(ctx context.Context, entries map[string]*media.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for key, rec := range entries {
		if err := writeRecord(ctx, tx, key, rec); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Keys returns all cache keys in sorted order.
func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT cache_key FROM resolution_cache ORDER BY cache_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// SQLiteKeywordStore persists supplemental keywords with an expiry.
type SQLiteKeywordStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLiteKeywordStore creates a keyword store whose entries live for ttl.
func NewSQLiteKeywordStore(db *sql.DB, ttl time.Duration) *SQLiteKeywordStore {
	return &SQLiteKeywordStore{db: db, ttl: ttl, now: time.Now}
}

func (s *SQLiteKeywordStore) GetKeyword(ctx context.Context, name string) (media.Keyword, bool, error) {
	var kw media.Keyword
	err := s.db.QueryRowContext(ctx,
		`SELECT keyword, is_movie FROM keyword_cache WHERE name = ? AND expires_at > ?`,
		name, s.now().Unix()).Scan(&kw.Text, &kw.LikelyMovie)
	if errors.Is(err, sql.ErrNoRows) {
		return media.Keyword{}, false, nil
	}
	if err != nil {
		return media.Keyword{}, false, fmt.Errorf("failed to read keyword: %w", err)
	}
	return kw, true, nil
}

func (s *SQLiteKeywordStore) SetKeyword(ctx context.Context, name string, kw media.Keyword) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO keyword_cache (name, keyword, is_movie, expires_at) VALUES (?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    keyword = excluded.keyword,
    is_movie = excluded.is_movie,
    expires_at = excluded.expires_at`,
		name, kw.Text, kw.LikelyMovie, s.now().Add(s.ttl).Unix())
	if err != nil {
		return fmt.Errorf("failed to write keyword: %w", err)
	}
	return nil
}

// PurgeExpired deletes expired keywords and returns how many were removed.
func (s *SQLiteKeywordStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM keyword_cache WHERE expires_at <= ?`, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge keywords: %w", err)
	}
	return res.RowsAffected()
}
