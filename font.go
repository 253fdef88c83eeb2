package gtext

import "github.com/gogpu/gtext/glyph"

// Font answers the glyph queries the layout engine and the rasterizers need.
// All sizes are in pixels per em.
//
// Implementations must be safe for concurrent use: Outline is called from
// the rasterization workers while the caller goroutine keeps querying
// advances. See package sfntfont for an implementation over TrueType and
// OpenType data.
type Font interface {
	// Glyph maps a rune to a glyph. Unmapped runes map to the font's
	// .notdef glyph.
	Glyph(r rune) glyph.Glyph

	// Outline returns the glyph outline scaled to size, or nil if the glyph
	// has no contours (space, control characters).
	Outline(g glyph.Glyph, size float64) *glyph.Outline

	// Advance returns the horizontal advance in pixels.
	Advance(g glyph.Glyph, size float64) float64

	// Kern returns the kerning adjustment between a and b, usually <= 0.
	Kern(a, b glyph.Glyph, size float64) float64

	// Height returns ascent plus descent in pixels.
	Height(size float64) float64
}
