package db

import (
	"context"
	"fmt"
	"os"
	"time"
)

// TableCache stores parsed tables keyed by file path and modification time.
type TableCache interface {
	Get(ctx context.Context, key string, modTime time.Time) (*Table, bool)
	Set(ctx context.Context, key string, modTime time.Time, t *Table)
	Invalidate(ctx context.Context, key string)
	Close() error
}

// CachedSource serves tables from cache while the backing file is
// unchanged, and falls through to the CSV source otherwise.
type CachedSource struct {
	source *CSVSource
	cache  TableCache
}

func NewCachedSource(source *CSVSource, cache TableCache) *CachedSource {
	return &CachedSource{source: source, cache: cache}
}

func (s *CachedSource) Load(ctx context.Context, name string) (*Table, error) {
	path, err := s.source.Path(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		s.cache.Invalidate(ctx, path)
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if t, ok := s.cache.Get(ctx, path, info.ModTime()); ok {
		return t, nil
	}

	t, err := s.source.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, path, info.ModTime(), t)
	return t, nil
}

func (s *CachedSource) Close() error {
	cacheErr := s.cache.Close()
	if err := s.source.Close(); err != nil {
		return err
	}
	return cacheErr
}
