// Package glyph holds the font-independent glyph geometry used by gtext:
// glyph identities, vector outlines in pixel space and coverage sampling.
//
// Outlines use the same coordinate convention as golang.org/x/image/font/sfnt:
// the origin is the pen position on the baseline, X increases to the right
// and Y increases downwards, so ascenders have negative Y.
package glyph

// ID is the index of a glyph within a font.
type ID uint16

// Glyph identifies the shape a font uses to render a rune.
// Two runes may share an ID (for example when both map to .notdef).
type Glyph struct {
	// Rune is the character the glyph was looked up for.
	Rune rune

	// ID is the glyph index inside the font.
	ID ID
}
