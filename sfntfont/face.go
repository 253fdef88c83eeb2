// Package sfntfont adapts TrueType and OpenType font data to the gtext.Font
// interface using golang.org/x/image/font/sfnt.
//
//	f, err := sfntfont.Parse(goregular.TTF)
//	if err != nil {
//	    return err
//	}
//	cache := gtext.NewCache(f)
//
// By default pair kerning comes from the legacy 'kern' table. With
// WithShapedKerning the pairs are shaped with go-text/typesetting instead,
// which also honours GPOS pair adjustments.
package sfntfont

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/gtext"
	"github.com/gogpu/gtext/glyph"
)

// ErrEmptyFontData is returned when font data is empty.
var ErrEmptyFontData = errors.New("sfntfont: empty font data")

var _ gtext.Font = (*Face)(nil)

// Option configures Face creation.
type Option func(*options)

type options struct {
	shapedKerning bool
	kernCacheSize int
}

// WithShapedKerning computes pair kerning by shaping each pair with
// go-text/typesetting. Results are memoized per pair and size.
func WithShapedKerning() Option {
	return func(o *options) {
		o.shapedKerning = true
	}
}

// WithKernCacheSize sets the per-shard capacity of the shaped kerning memo.
// 0 uses the default.
func WithKernCacheSize(n int) Option {
	return func(o *options) {
		o.kernCacheSize = n
	}
}

// Face is a parsed font. It is safe for concurrent use: every query takes
// its own sfnt.Buffer from a pool.
type Face struct {
	font   *opentype.Font
	bufs   sync.Pool
	shaper *pairShaper
}

// Parse parses TrueType or OpenType font data.
func Parse(data []byte, opts ...Option) (*Face, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("sfntfont: failed to parse font: %w", err)
	}
	face := &Face{font: f}
	face.bufs.New = func() any { return new(sfnt.Buffer) }

	if o.shapedKerning {
		face.shaper, err = newPairShaper(data, o.kernCacheSize)
		if err != nil {
			return nil, fmt.Errorf("sfntfont: failed to load font for shaping: %w", err)
		}
	}
	return face, nil
}

// Open reads and parses the font file at path.
func Open(path string, opts ...Option) (*Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sfntfont: %w", err)
	}
	return Parse(data, opts...)
}

func (f *Face) buffer() *sfnt.Buffer {
	return f.bufs.Get().(*sfnt.Buffer)
}

// Name returns the font family name, or "" if the font has none.
func (f *Face) Name() string {
	buf := f.buffer()
	defer f.bufs.Put(buf)
	name, err := f.font.Name(buf, sfnt.NameIDFamily)
	if err != nil {
		return ""
	}
	return name
}

// Glyph maps r to its glyph. Runes the font does not cover map to glyph 0,
// the .notdef glyph.
func (f *Face) Glyph(r rune) glyph.Glyph {
	buf := f.buffer()
	defer f.bufs.Put(buf)
	idx, err := f.font.GlyphIndex(buf, r)
	if err != nil {
		idx = 0
	}
	return glyph.Glyph{Rune: r, ID: glyph.ID(idx)}
}

// Outline returns the glyph outline at size pixels per em, or nil if the
// glyph has no contours or cannot be loaded (colour bitmap glyphs).
func (f *Face) Outline(g glyph.Glyph, size float64) *glyph.Outline {
	if !(size > 0) {
		return nil
	}
	buf := f.buffer()
	defer f.bufs.Put(buf)

	segments, err := f.font.LoadGlyph(buf, sfnt.GlyphIndex(g.ID), toFixed(size), nil)
	if err != nil {
		gtext.Logger().Debug("sfntfont: glyph has no outline", "rune", string(g.Rune), "err", err)
		return nil
	}
	if len(segments) == 0 {
		return nil
	}

	out := make([]glyph.Segment, len(segments))
	for i, seg := range segments {
		out[i] = convertSegment(seg)
	}
	return glyph.NewOutline(out)
}

// Advance returns the unhinted advance width of g in pixels.
func (f *Face) Advance(g glyph.Glyph, size float64) float64 {
	buf := f.buffer()
	defer f.bufs.Put(buf)
	adv, err := f.font.GlyphAdvance(buf, sfnt.GlyphIndex(g.ID), toFixed(size), font.HintingNone)
	if err != nil {
		return 0
	}
	return fromFixed(adv)
}

// Kern returns the kerning adjustment between a and b in pixels.
func (f *Face) Kern(a, b glyph.Glyph, size float64) float64 {
	if f.shaper != nil {
		return f.shaper.kern(a.Rune, b.Rune, size)
	}
	buf := f.buffer()
	defer f.bufs.Put(buf)
	k, err := f.font.Kern(buf, sfnt.GlyphIndex(a.ID), sfnt.GlyphIndex(b.ID), toFixed(size), font.HintingNone)
	if err != nil {
		// ErrNotFound just means the pair is not kerned.
		return 0
	}
	return fromFixed(k)
}

// Height returns ascent plus descent in pixels.
func (f *Face) Height(size float64) float64 {
	buf := f.buffer()
	defer f.bufs.Put(buf)
	m, err := f.font.Metrics(buf, toFixed(size), font.HintingNone)
	if err != nil {
		return 0
	}
	return fromFixed(m.Ascent + m.Descent)
}

func convertSegment(seg sfnt.Segment) glyph.Segment {
	var op glyph.Op
	switch seg.Op {
	case sfnt.SegmentOpMoveTo:
		op = glyph.OpMoveTo
	case sfnt.SegmentOpLineTo:
		op = glyph.OpLineTo
	case sfnt.SegmentOpQuadTo:
		op = glyph.OpQuadTo
	case sfnt.SegmentOpCubeTo:
		op = glyph.OpCubeTo
	}
	out := glyph.Segment{Op: op}
	for i, p := range seg.Args {
		out.Args[i] = glyph.Point{X: float32(p.X) / 64, Y: float32(p.Y) / 64}
	}
	return out
}

// toFixed converts a size in pixels to 26.6 fixed point.
func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
