package gtext

import "image/color"

// Variant discriminates the two kinds of cached glyph bitmaps.
type Variant uint8

const (
	// VariantRegular bitmaps are rasterized at the reference scale.
	VariantRegular Variant = iota
	// VariantSubpixel bitmaps are rasterized at an exact pixel size over a
	// known background.
	VariantSubpixel
)

// String returns the string representation of the variant.
func (v Variant) String() string {
	switch v {
	case VariantRegular:
		return "Regular"
	case VariantSubpixel:
		return "Subpixel"
	default:
		return unknownStr
	}
}

// GlyphKey identifies a cached glyph bitmap. Keys are comparable; two keys
// are equal iff every field is equal, with no colour tolerance.
//
// Regular keys leave Size and Background zero: regular bitmaps are
// independent of the draw size.
type GlyphKey struct {
	Variant    Variant
	Rune       rune
	Size       int
	Foreground color.NRGBA
	Background color.NRGBA
}

// RegularKey returns the key of a regular-mode glyph.
func RegularKey(r rune, fg color.NRGBA) GlyphKey {
	return GlyphKey{Variant: VariantRegular, Rune: r, Foreground: fg}
}

// SubpixelKey returns the key of a subpixel-mode glyph.
func SubpixelKey(r rune, size int, fg, bg color.NRGBA) GlyphKey {
	return GlyphKey{Variant: VariantSubpixel, Rune: r, Size: size, Foreground: fg, Background: bg}
}
