package metadata

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/reelid/reelid/internal/media"
	"github.com/reelid/reelid/internal/parser"
)

// FileMatch is the outcome for one file of a batch. Record is nil when the
// file could not be matched.
type FileMatch struct {
	Path   string        `json:"path"`
	Query  media.Query   `json:"query"`
	Record *media.Record `json:"record,omitempty"`
}

// BatchOptions tunes ResolveBatch.
type BatchOptions struct {
	// Known skips resolution and attaches this record to every file.
	Known *media.Record
	// Type overrides the parsed type of every file.
	Type media.Type
	// Season overrides the parsed season of every non-movie file.
	Season    int
	KeepTitle bool
}

// ResolveBatch resolves files in parallel. A file whose name lacks a title
// or year borrows them from its parent directory, and the parent from the
// grandparent. Files that do not exist are skipped.
func (r *Resolver) ResolveBatch(ctx context.Context, paths []string, opts BatchOptions) (map[string]*FileMatch, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}

	logger := r.logger.With().Str("run_id", uuid.NewString()).Logger()
	logger.Info().Int("files", len(paths)).Msg("Starting batch resolution")

	var mu sync.Mutex
	out := make(map[string]*FileMatch, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.BatchWorkers)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("Skipping missing file")
				return nil
			}

			m := r.matchFile(ctx, path, opts)
			if m == nil {
				logger.Warn().Str("path", path).Msg("No usable name in file path")
				return nil
			}
			mu.Lock()
			out[path] = m
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	logger.Info().Int("matched", len(out)).Msg("Batch resolution finished")
	return out, nil
}

func (r *Resolver) matchFile(ctx context.Context, path string, opts BatchOptions) *FileMatch {
	q := r.fileQuery(path)
	if opts.Known != nil {
		q.Type = opts.Known.Type
	}
	if opts.Type != "" {
		q.Type = opts.Type
	}
	if opts.Season > 0 && q.Type != media.Movie {
		q.Season = opts.Season
	}
	if q.Type == media.Movie {
		q.Season = 0
	}

	m := &FileMatch{Path: path, Query: q}
	if opts.Known != nil {
		m.Record = opts.Known.Clone()
		return m
	}
	if q.Name == "" {
		return nil
	}
	m.Record = r.resolve(ctx, q, resolveOptions{chinese: r.opts.WantChinese && !opts.KeepTitle})
	return m
}

// fileQuery parses path, filling a missing name or year from the
// directories above it.
func (r *Resolver) fileQuery(path string) media.Query {
	q := r.parser.ParsePath(path)
	if q.Name != "" && q.Year > 0 {
		return q
	}

	dir := filepath.Dir(path)
	parent := r.parser.ParsePath(dir)
	if parent.Name == "" || parent.Year == 0 {
		parent = inheritQuery(parent, r.parser.ParsePath(filepath.Dir(dir)))
	}

	if q.Name == "" {
		q.Name = parent.Name
	}
	if q.Year == 0 {
		q.Year = parent.Year
	}
	if parent.Type == media.TV {
		q.Type = media.TV
	}
	if q.Type == media.TV {
		q.Season = max(q.Season, parent.Season)
	}
	return q
}

// inheritQuery overlays what the grandparent directory knows onto the
// parent. A parent already known to be a series keeps its type.
func inheritQuery(parent, grand media.Query) media.Query {
	if grand.Type != "" && parent.Type != media.TV {
		parent.Type = grand.Type
	}
	if grand.Name != "" {
		parent.Name = grand.Name
	}
	if grand.Year > 0 {
		parent.Year = grand.Year
	}
	parent.Season = max(parent.Season, grand.Season)
	return parent
}

// SeedCache records known as the resolution of path, or of every media file
// below path when it is a directory, and returns how many keys were
// written. Files of unknown parsed type are seeded under both the typed and
// the untyped key.
func (r *Resolver) SeedCache(ctx context.Context, path string, known *media.Record) (int, error) {
	if known.IsNotFound() || !known.Type.Valid() {
		return 0, ErrInvalidArgument
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	files := []string{path}
	if info.IsDir() {
		if files, err = mediaFiles(path); err != nil {
			return 0, err
		}
	}

	entries := make(map[string]*media.Record)
	for _, file := range files {
		q := r.parser.ParsePath(file)
		if q.Name == "" {
			continue
		}
		if q.Type == "" {
			entries[q.CacheKey()] = known
		}
		q.Type = known.Type
		if q.Type == media.Movie {
			q.Season = 0
		}
		entries[q.CacheKey()] = known
	}
	if len(entries) == 0 {
		return 0, nil
	}

	if err := r.store.UpdateMany(ctx, entries); err != nil {
		return 0, fmt.Errorf("failed to seed cache: %w", err)
	}
	r.logger.Info().Str("path", path).Int("id", known.ID).Int("keys", len(entries)).Msg("Seeded resolution cache")
	return len(entries), nil
}

func mediaFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && parser.IsMediaFile(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}
