package gtext

import (
	"image"
	"unicode"

	"github.com/gogpu/gtext/glyph"
)

// positionedGlyph is one glyph of a laid out run.
type positionedGlyph struct {
	Rune  rune
	Glyph glyph.Glyph
	X     float64 // pen x relative to the start of the run
}

// layoutRun is the result of the measurement pass.
type layoutRun struct {
	Glyphs []positionedGlyph
	Width  float64
}

// layoutText measures text at size.
//
// Every glyph advances the pen by its advance plus size*CharSpacing, and
// whitespace by a further size*WhitespaceSpacing. Kerning against the
// previous glyph is applied before the glyph is placed. The run width drops
// the character spacing after the last glyph but keeps the whitespace
// spacing, so a trailing space still widens the run.
func layoutText(f Font, text []rune, size float64, cfg *Config) layoutRun {
	run := layoutRun{Glyphs: make([]positionedGlyph, len(text))}
	if len(text) == 0 {
		return run
	}

	charSpace := size * cfg.CharSpacing
	wsSpace := size * cfg.WhitespaceSpacing

	var pen float64
	var prev glyph.Glyph
	for i, r := range text {
		g := f.Glyph(r)
		if i > 0 {
			pen += f.Kern(prev, g, size)
		}
		run.Glyphs[i] = positionedGlyph{Rune: r, Glyph: g, X: pen}

		pen += f.Advance(g, size) + charSpace
		if unicode.IsSpace(r) {
			pen += wsSpace
		}
		prev = g
	}
	run.Width = pen - charSpace
	return run
}

// origin returns the pen start for a run anchored at (x, y).
func origin(run layoutRun, x, y float64, h HAlign, v VAlign, fontHeight, ratio float64) (float64, float64) {
	return x + h.offset(run.Width), y + v.offset(fontHeight, ratio)
}

// placement returns the destination rectangle of an entry drawn with its
// origin at the pen position. scale converts bitmap pixels to target pixels.
func placement(e *CacheEntry, penX, penY, scale float64) image.Rectangle {
	x0 := int(penX - e.OffsetX*scale)
	y0 := int(penY - e.OffsetY*scale)
	return image.Rect(x0, y0, x0+int(float64(e.Width)*scale), y0+int(float64(e.Height)*scale))
}
