package sapling

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type cacheEntry struct {
	sheet *SpriteSheet
	refs  int
}

// SpriteCache keeps at most one resident SpriteSheet per name. Sheets are
// reference counted through SpriteHandle and unloaded when the last
// handle is released.
//
// All methods except ReleaseLater must be called from the game goroutine.
type SpriteCache struct {
	loader  *SpriteLoader
	entries map[string]*cacheEntry
	log     *logrus.Entry

	mu    sync.Mutex
	queue []*SpriteHandle
}

// NewSpriteCache returns an empty cache that loads misses with loader.
func NewSpriteCache(loader *SpriteLoader, log *logrus.Entry) *SpriteCache {
	return &SpriteCache{
		loader:  loader,
		entries: make(map[string]*cacheEntry),
		log:     log,
	}
}

// SpriteHandle is one reference to a cached SpriteSheet.
type SpriteHandle struct {
	cache    *SpriteCache
	name     string
	entry    *cacheEntry
	released bool
}

// Sheet returns the referenced sheet, or nil after Release.
func (h *SpriteHandle) Sheet() *SpriteSheet {
	if h.released {
		return nil
	}
	return h.entry.sheet
}

// Name is the sprite name the handle was obtained for.
func (h *SpriteHandle) Name() string { return h.name }

// Release drops the reference. Releasing twice is a no-op.
func (h *SpriteHandle) Release() {
	if h.released {
		return
	}
	h.released = true
	h.cache.unref(h.name, h.entry)
}

// Get returns a new handle to the sheet called name, loading it on a miss.
func (c *SpriteCache) Get(name string) (*SpriteHandle, error) {
	e, ok := c.entries[name]
	if !ok {
		sheet, err := c.loader.Load(name)
		if err != nil {
			return nil, err
		}
		e = &cacheEntry{sheet: sheet}
		c.entries[name] = e
	}
	e.refs++
	return &SpriteHandle{cache: c, name: name, entry: e}, nil
}

// Resident reports whether name is currently loaded, and its reference count.
func (c *SpriteCache) Resident(name string) (int, bool) {
	e, ok := c.entries[name]
	if !ok {
		return 0, false
	}
	return e.refs, true
}

// Len returns the number of resident sheets.
func (c *SpriteCache) Len() int { return len(c.entries) }

func (c *SpriteCache) unref(name string, e *cacheEntry) {
	e.refs--
	if e.refs > 0 {
		return
	}
	if c.entries[name] == e {
		delete(c.entries, name)
	}
	e.sheet.dispose()
	if c.log != nil {
		c.log.WithField("sprite", name).Debug("sprite evicted")
	}
}

// ReleaseLater queues h for release on the next Sweep. Safe to call from
// any goroutine, including GC finalizers.
func (c *SpriteCache) ReleaseLater(h *SpriteHandle) {
	c.mu.Lock()
	c.queue = append(c.queue, h)
	c.mu.Unlock()
}

// Sweep applies queued releases.
func (c *SpriteCache) Sweep() {
	c.mu.Lock()
	q := c.queue
	c.queue = nil
	c.mu.Unlock()
	for _, h := range q {
		h.Release()
	}
}

// Close unloads every resident sheet regardless of outstanding handles.
func (c *SpriteCache) Close() {
	c.mu.Lock()
	c.queue = nil
	c.mu.Unlock()
	for name, e := range c.entries {
		e.sheet.dispose()
		delete(c.entries, name)
	}
}
