package scanner

import (
	"sync"

	"github.com/Lacarte/video-player/internal/logging"
	"github.com/Lacarte/video-player/internal/metrics"
	"github.com/Lacarte/video-player/internal/playlist"
)

// Cache serves course trees, rebuilding only when the fingerprint of the
// root changes. Built trees are shared between callers and must not be
// modified.
type Cache struct {
	scanner *Scanner
	enabled bool

	mu     sync.Mutex
	hash   string
	course playlist.Course
	valid  bool
}

// NewCache wraps s. With enabled false every call rebuilds the tree,
// which still costs only a metadata walk plus the folder scan.
func NewCache(s *Scanner, enabled bool) *Cache {
	return &Cache{scanner: s, enabled: enabled}
}

// Course returns the current tree for the root.
func (c *Cache) Course() (playlist.Course, error) {
	hash, err := Fingerprint(c.scanner.Root())
	if err != nil {
		return playlist.Course{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.enabled && c.valid && c.hash == hash {
		metrics.PlaylistCacheRequests.WithLabelValues("hit").Inc()
		return c.course, nil
	}

	metrics.PlaylistCacheRequests.WithLabelValues("miss").Inc()
	if c.valid && c.hash != hash {
		logging.Info("Course structure changed (%s -> %s), rescanning", c.hash, hash)
	}

	c.course = c.scanner.build(hash)
	c.hash = hash
	c.valid = true
	return c.course, nil
}

// Invalidate forces the next Course call to rebuild.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}
