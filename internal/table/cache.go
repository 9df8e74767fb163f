package table

import (
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// LoaderFunc loads the table stored at path.
type LoaderFunc func(path string) (*Table, error)

// Cache keeps loaded tables keyed by source path. A table is read once and
// reused until it is explicitly reloaded or invalidated; concurrent misses
// for the same path share a single load.
type Cache struct {
	logger *zap.Logger
	load   LoaderFunc
	group  singleflight.Group

	mu          sync.RWMutex
	tables      map[string]*Table
	generations map[string]uint64
}

// NewCache creates a cache that reads tables with load. A nil load reads
// files with default Options.
func NewCache(logger *zap.Logger, load LoaderFunc) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if load == nil {
		load = func(path string) (*Table, error) {
			return Load(path, Options{})
		}
	}
	return &Cache{
		logger: logger,
		load:   load,
		tables:      make(map[string]*Table),
		generations: make(map[string]uint64),
	}
}

// Get returns the cached table for path, loading it on first use. Failed
// loads are not cached.
func (c *Cache) Get(path string) (*Table, error) {
	key := filepath.Clean(path)

	c.mu.RLock()
	tbl, ok := c.tables[key]
	c.mu.RUnlock()
	if ok {
		return tbl, nil
	}

	return c.fill(key)
}

// Reload discards any cached table for path and reads it again. It never joins
// a load that started before the call. On failure the previous entry stays
// discarded.
func (c *Cache) Reload(path string) (*Table, error) {
	key := filepath.Clean(path)
	c.Invalidate(key)
	c.group.Forget(key)
	return c.fill(key)
}

// Invalidate drops the cached table for path. Loads already in flight for
// path still return their table to their callers but no longer cache it.
func (c *Cache) Invalidate(path string) {
	key := filepath.Clean(path)

	c.mu.Lock()
	delete(c.tables, key)
	c.generations[key]++
	c.mu.Unlock()
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tables)
}

func (c *Cache) fill(key string) (*Table, error) {
	value, err, shared := c.group.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		generation := c.generations[key]
		c.mu.RUnlock()

		tbl, err := c.load(key)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.generations[key] == generation {
			c.tables[key] = tbl
		}
		c.mu.Unlock()

		c.logger.Debug("revenue table loaded",
			zap.String("op", "table.Cache.fill"),
			zap.String("source", key),
			zap.Int("rows", tbl.Len()),
		)
		return tbl, nil
	})
	if err != nil {
		c.logger.Warn("failed to load revenue table",
			zap.String("op", "table.Cache.fill"),
			zap.String("source", key),
			zap.Bool("shared", shared),
			zap.Error(err),
		)
		return nil, err
	}
	return value.(*Table), nil
}
