// Package raster turns glyph outlines into RGBA bitmaps ready for texture
// upload. Two variants exist: Regular produces a recolored coverage mask at a
// reference scale, Subpixel produces an LCD-filtered bitmap blended against a
// known background at the exact draw size.
//
// All functions are pure and safe to call from several goroutines at once.
package raster

import "image/color"

// BytesPerPixel is the size of one RGBA pixel in Bitmap.Pix.
const BytesPerPixel = 4

// Bitmap is a rasterized glyph.
// Pix holds non-premultiplied RGBA, 8 bits per channel, rows packed tightly.
type Bitmap struct {
	Pix    []byte
	Width  int
	Height int

	// OffsetX and OffsetY are the distance from the pen origin to the
	// top-left corner of the bitmap, in pixels at the bitmap's resolution.
	// A glyph is drawn at (penX - OffsetX, penY - OffsetY).
	OffsetX float64
	OffsetY float64
}

// Stride returns the number of bytes per row.
func (b *Bitmap) Stride() int {
	return b.Width * BytesPerPixel
}

// At returns the pixel at (x, y). It exists mostly for tests and debugging.
func (b *Bitmap) At(x, y int) color.NRGBA {
	i := y*b.Stride() + x*BytesPerPixel
	return color.NRGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
