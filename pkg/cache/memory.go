package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/JayJamieson/sports-api/pkg/db"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

type entry struct {
	modTime time.Time
	table   *db.Table
}

// Memory is an in-process table cache. Entries are dropped when the watched
// file changes on disk.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	watcher *fsnotify.Watcher
	log     *logrus.Logger
}

var _ db.TableCache = (*Memory)(nil)

func NewMemory(log *logrus.Logger) *Memory {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Memory{
		entries: make(map[string]entry),
		log:     log,
	}
}

func (m *Memory) Get(_ context.Context, key string, modTime time.Time) (*db.Table, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || !e.modTime.Equal(modTime) {
		return nil, false
	}
	return e.table, true
}

func (m *Memory) Set(_ context.Context, key string, modTime time.Time, t *db.Table) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry{modTime: modTime, table: t}
}

func (m *Memory) Invalidate(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
}

// Len reports the number of cached tables.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Watch invalidates the entry for each path whenever the file is written,
// removed or renamed. Parent directories are watched so that editors which
// replace files atomically are still seen. Watch returns once the watcher
// is running; it stops when ctx is done or Close is called.
func (m *Memory) Watch(ctx context.Context, paths ...string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	watched := make(map[string]string, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		watched[abs] = p
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	m.mu.Lock()
	if m.watcher != nil {
		m.watcher.Close()
	}
	m.watcher = watcher
	m.mu.Unlock()

	go m.run(ctx, watcher, watched)
	return nil
}

func (m *Memory) run(ctx context.Context, watcher *fsnotify.Watcher, watched map[string]string) {
	for {
		select {
		case <-ctx.Done():
			watcher.Close()
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			key, ok := watched[abs]
			if !ok {
				continue
			}
			m.Invalidate(ctx, key)
			m.log.WithFields(logrus.Fields{"path": key, "op": event.Op.String()}).Info("table cache invalidated")
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			m.log.WithError(err).Warn("table cache watcher error")
		}
	}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]entry)
	if m.watcher != nil {
		err := m.watcher.Close()
		m.watcher = nil
		return err
	}
	return nil
}
