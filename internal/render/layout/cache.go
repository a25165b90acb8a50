package layout

import "github.com/vellum-editor/vellum/internal/engine/buffer"

// Cache memoizes line layouts keyed by (revision, line). An edit commit
// keeps entries above the dirty region, since their content and line
// numbers are unchanged, and drops the rest. Wrap-affecting setting
// changes drop everything.
type Cache struct {
	rev     buffer.Revision
	entries map[int]*Line
	maxSize int
}

// DefaultCacheSize bounds retained layouts; enough for several screens
// of overscan without holding a whole large document.
const DefaultCacheSize = 2000

// NewCache returns a cache holding at most maxSize layouts; maxSize <=
// 0 uses DefaultCacheSize.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &Cache{entries: make(map[int]*Line), maxSize: maxSize}
}

// Get returns the cached layout for line at rev.
func (c *Cache) Get(rev buffer.Revision, line int) (*Line, bool) {
	if rev != c.rev {
		return nil, false
	}
	l, ok := c.entries[line]
	return l, ok
}

// Put stores a layout computed against rev. A put at a different
// revision than the cache's current one resets it first; the owner is
// expected to have called Commit on every edit, so this is a safety
// net, not the invalidation path.
func (c *Cache) Put(rev buffer.Revision, line int, l *Line) {
	if rev != c.rev {
		c.entries = make(map[int]*Line)
		c.rev = rev
	}
	if len(c.entries) >= c.maxSize {
		c.evict()
	}
	c.entries[line] = l
}

// Commit revalidates the cache for a committed edit: entries strictly
// above the first dirty line carry over to the new revision, everything
// from the dirty line down is dropped because content or line numbers
// may have shifted.
func (c *Cache) Commit(newRev buffer.Revision, firstDirtyLine int) {
	for line := range c.entries {
		if line >= firstDirtyLine {
			delete(c.entries, line)
		}
	}
	c.rev = newRev
}

// DropAll empties the cache, for tab or wrap setting changes.
func (c *Cache) DropAll() {
	c.entries = make(map[int]*Line)
}

// Len returns the number of cached layouts.
func (c *Cache) Len() int { return len(c.entries) }

// evict removes about a quarter of the entries.
func (c *Cache) evict() {
	drop := max(c.maxSize/4, 1)
	for line := range c.entries {
		delete(c.entries, line)
		drop--
		if drop == 0 {
			break
		}
	}
}
