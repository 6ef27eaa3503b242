// Package tilecache memoizes rendered display tiles.
package tilecache

import (
	"context"
	"encoding/hex"
	"strconv"
	"sync"

	"github.com/couchcryptid/flowline-styler/internal/observability"
	"github.com/couchcryptid/flowline-styler/internal/raster"
	"github.com/zeebo/blake3"
)

// TileRenderer turns a data tile into a display PNG.
type TileRenderer interface {
	RenderTile(ctx context.Context, req raster.TileRequest) ([]byte, error)
}

// CachedRenderer wraps a TileRenderer with an in-memory LRU cache. Keys
// include the style revision, so entries from older styles are never hit
// again and age out.
type CachedRenderer struct {
	inner   TileRenderer
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedRenderer creates a cache decorator around a renderer.
func NewCachedRenderer(inner TileRenderer, maxEntries int, metrics *observability.Metrics) *CachedRenderer {
	return &CachedRenderer{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedRenderer) RenderTile(ctx context.Context, req raster.TileRequest) ([]byte, error) {
	key := Key(req)
	layer := string(req.Layer)
	if out, ok := c.cache.get(key); ok {
		c.metrics.TileCache.WithLabelValues(layer, "hit").Inc()
		return out, nil
	}
	c.metrics.TileCache.WithLabelValues(layer, "miss").Inc()

	out, err := c.inner.RenderTile(ctx, req)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, out)
	return out, nil
}

// Len reports the number of cached tiles.
func (c *CachedRenderer) Len() int {
	return c.cache.len()
}

// Key identifies a rendered tile: layer|zoom|revision|blake3(body).
func Key(req raster.TileRequest) string {
	sum := blake3.Sum256(req.Body)
	return string(req.Layer) + "|" +
		strconv.Itoa(req.Zoom) + "|" +
		strconv.FormatUint(req.Snapshot.Revision, 10) + "|" +
		hex.EncodeToString(sum[:])
}

// lruCache is a thread-safe LRU cache of encoded tiles.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value []byte
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.unlink(c.tail)
}
