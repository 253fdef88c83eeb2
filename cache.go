package gtext

import "sync"

// CacheEntry is a rasterized glyph uploaded to a Backend.
//
// OffsetX and OffsetY translate the pen origin to the top-left corner of the
// bitmap, in the bitmap's own pixels. Entries are immutable.
type CacheEntry struct {
	Texture Texture
	Width   int
	Height  int
	OffsetX float64
	OffsetY float64
}

// LookupStatus is the outcome of a cache lookup.
type LookupStatus uint8

const (
	// StatusHit means the entry is ready to draw.
	StatusHit LookupStatus = iota
	// StatusBlank means the glyph has no visible pixels. Nothing is drawn
	// but the glyph still advances the pen.
	StatusBlank
	// StatusClaimed means the key was missing and the caller now owns it:
	// it must rasterize the glyph and Commit (or Release) the key.
	StatusClaimed
	// StatusPending means another claim on the key is in flight. The caller
	// must not rasterize it and must Wait before drawing it.
	StatusPending
)

// String returns the string representation of the status.
func (s LookupStatus) String() string {
	switch s {
	case StatusHit:
		return "Hit"
	case StatusBlank:
		return "Blank"
	case StatusClaimed:
		return "Claimed"
	case StatusPending:
		return "Pending"
	default:
		return unknownStr
	}
}

// Lookup is the result of a cache query. Entry is set only for StatusHit.
type Lookup struct {
	Status LookupStatus
	Entry  *CacheEntry
}

type slotState uint8

const (
	slotPending slotState = iota
	slotReady
	slotBlank
)

type slot struct {
	state slotState
	entry *CacheEntry
}

// CacheStats holds cumulative cache counters.
type CacheStats struct {
	Hits          uint64 // lookups answered with StatusHit or StatusBlank
	Claims        uint64 // lookups answered with StatusClaimed
	Waits         uint64 // lookups answered with StatusPending
	Commits       uint64
	Releases      uint64
	Discards      uint64 // commits for released or invalidated claims
	Invalidations uint64 // Clear and SwitchFont calls
}

// Cache maps glyph keys to uploaded bitmaps for one font.
//
// Every key is in at most one state: pending (claimed, not yet committed),
// ready or blank. Entries are only removed by Clear and SwitchFont; there is
// no per-entry eviction.
//
// Cache is safe for concurrent use. Render calls that share a cache should
// still be serialized by the caller; a concurrent caller that meets a
// pending key waits for it instead of drawing nothing.
type Cache struct {
	mu      sync.Mutex
	changed *sync.Cond

	font    Font
	slots   map[GlyphKey]*slot
	entries int
	pending int
	stats   CacheStats
}

// NewCache creates an empty cache for font.
func NewCache(font Font) *Cache {
	c := &Cache{
		font:  font,
		slots: make(map[GlyphKey]*slot),
	}
	c.changed = sync.NewCond(&c.mu)
	return c
}

// Font returns the font glyphs are rasterized from.
func (c *Cache) Font() Font {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.font
}

// LookupOrClaim reports the state of key. If the key is unknown it is
// claimed for the caller and StatusClaimed is returned; every later lookup
// of the key returns StatusPending until it is committed or released.
func (c *Cache) LookupOrClaim(key GlyphKey) Lookup {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.slots[key]
	if !ok {
		c.slots[key] = &slot{state: slotPending}
		c.pending++
		c.stats.Claims++
		return Lookup{Status: StatusClaimed}
	}
	switch s.state {
	case slotReady:
		c.stats.Hits++
		return Lookup{Status: StatusHit, Entry: s.entry}
	case slotBlank:
		c.stats.Hits++
		return Lookup{Status: StatusBlank}
	default:
		c.stats.Waits++
		return Lookup{Status: StatusPending}
	}
}

// Commit stores the result for a claimed key. A nil entry records the glyph
// as blank. Committing a key again replaces the previous result and
// destroys its texture. Commit wakes goroutines blocked in Wait.
//
// A key without a slot, because its claim was released or invalidated by
// Clear or SwitchFont, is not stored: the entry's texture is destroyed and
// Commit reports false.
func (c *Cache) Commit(key GlyphKey, entry *CacheEntry) bool {
	c.mu.Lock()
	s, ok := c.slots[key]
	if !ok {
		c.stats.Discards++
		c.mu.Unlock()
		if entry != nil {
			destroyTexture(entry.Texture)
		}
		return false
	}

	var old Texture
	switch s.state {
	case slotPending:
		c.pending--
	case slotReady:
		c.entries--
		if entry == nil || s.entry.Texture != entry.Texture {
			old = s.entry.Texture
		}
	}
	if entry == nil {
		s.state, s.entry = slotBlank, nil
	} else {
		s.state, s.entry = slotReady, entry
		c.entries++
	}
	c.stats.Commits++
	c.changed.Broadcast()
	c.mu.Unlock()

	if old != nil {
		destroyTexture(old)
	}
	return true
}

// Release drops an uncommitted claim so a later lookup can claim the key
// again. It has no effect on committed keys.
func (c *Cache) Release(key GlyphKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.slots[key]; ok && s.state == slotPending {
		delete(c.slots, key)
		c.pending--
		c.stats.Releases++
		c.changed.Broadcast()
	}
}

// Wait blocks while key is pending and returns its final state, which is
// StatusHit or StatusBlank. ok is false if the key is not in the cache,
// either because it was never claimed or because the claim was released
// or invalidated.
func (c *Cache) Wait(key GlyphKey) (l Lookup, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		s, found := c.slots[key]
		if !found {
			return Lookup{}, false
		}
		switch s.state {
		case slotReady:
			return Lookup{Status: StatusHit, Entry: s.entry}, true
		case slotBlank:
			return Lookup{Status: StatusBlank}, true
		}
		c.changed.Wait()
	}
}

// SwitchFont replaces the font and discards every entry, destroying their
// textures.
func (c *Cache) SwitchFont(font Font) {
	c.mu.Lock()
	c.font = font
	textures := c.resetLocked()
	c.mu.Unlock()

	for _, tex := range textures {
		destroyTexture(tex)
	}
	Logger().Info("gtext: font switched", "destroyed", len(textures))
}

// Clear discards every entry, destroying their textures, and keeps the font.
func (c *Cache) Clear() {
	c.mu.Lock()
	textures := c.resetLocked()
	c.mu.Unlock()

	for _, tex := range textures {
		destroyTexture(tex)
	}
	Logger().Info("gtext: cache cleared", "destroyed", len(textures))
}

// resetLocked empties the slot map and returns the textures to destroy.
// Outstanding claims are dropped too; their waiters are woken.
func (c *Cache) resetLocked() []Texture {
	textures := make([]Texture, 0, c.entries)
	for _, s := range c.slots {
		if s.state == slotReady && s.entry.Texture != nil {
			textures = append(textures, s.entry.Texture)
		}
	}
	c.slots = make(map[GlyphKey]*slot)
	c.entries = 0
	c.pending = 0
	c.stats.Invalidations++
	c.changed.Broadcast()
	return textures
}

// Len returns the number of entries that hold a bitmap. Blank glyphs and
// pending claims are not counted.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries
}

// PendingLen returns the number of outstanding claims.
func (c *Cache) PendingLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Stats returns a snapshot of the cumulative counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
