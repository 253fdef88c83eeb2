package gtext

import (
	"image"
	"sync"
	"sync/atomic"
	"unicode"

	"github.com/gogpu/gtext/glyph"
)

// boxFont is a synthetic font whose glyphs are solid boxes.
//
// Every glyph advances size/2 (wide advances 'W' by size) and is a box from
// size/20 to 9*size/20 horizontally, so the side bearings are equal, and
// 7*size/10 tall sitting on the baseline. Whitespace has no outline. The
// pair ('A', 'V') kerns by -size/10.
type boxFont struct {
	outlines atomic.Int64
}

func (f *boxFont) Glyph(r rune) glyph.Glyph {
	var id glyph.ID
	if r < 0x10000 {
		id = glyph.ID(r)
	}
	return glyph.Glyph{Rune: r, ID: id}
}

func (f *boxFont) Outline(g glyph.Glyph, size float64) *glyph.Outline {
	f.outlines.Add(1)
	if unicode.IsSpace(g.Rune) {
		return nil
	}
	x0, x1 := float32(size/20), float32(size*9/20)
	y0 := float32(-size * 7 / 10)
	p := func(x, y float32) [3]glyph.Point { return [3]glyph.Point{{X: x, Y: y}} }
	return glyph.NewOutline([]glyph.Segment{
		{Op: glyph.OpMoveTo, Args: p(x0, y0)},
		{Op: glyph.OpLineTo, Args: p(x1, y0)},
		{Op: glyph.OpLineTo, Args: p(x1, 0)},
		{Op: glyph.OpLineTo, Args: p(x0, 0)},
	})
}

func (f *boxFont) Advance(g glyph.Glyph, size float64) float64 {
	if g.Rune == 'W' {
		return size
	}
	return size / 2
}

func (f *boxFont) Kern(a, b glyph.Glyph, size float64) float64 {
	if a.Rune == 'A' && b.Rune == 'V' {
		return -size / 10
	}
	return 0
}

func (f *boxFont) Height(size float64) float64 {
	return size * 1.2
}

// fakeTexture is a texture of recordingBackend.
type fakeTexture struct {
	id        int
	width     int
	height    int
	pix       []byte
	destroyed atomic.Bool
}

func (t *fakeTexture) Destroy() {
	t.destroyed.Store(true)
}

type drawCall struct {
	Texture int // fakeTexture.id
	Dst     image.Rectangle
}

// recordingBackend records every call. Setting one of the fail fields makes
// the corresponding call return that error.
type recordingBackend struct {
	mu       sync.Mutex
	textures []*fakeTexture
	uploads  int
	draws    []drawCall

	failCreate error
	failUpload error
	failDraw   error
}

func (b *recordingBackend) CreateTexture(format PixelFormat, width, height int) (Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failCreate != nil {
		return nil, b.failCreate
	}
	tex := &fakeTexture{id: len(b.textures), width: width, height: height}
	b.textures = append(b.textures, tex)
	return tex, nil
}

func (b *recordingBackend) Upload(tex Texture, pix []byte, stride int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failUpload != nil {
		return b.failUpload
	}
	ft := tex.(*fakeTexture)
	ft.pix = append([]byte(nil), pix...)
	b.uploads++
	return nil
}

func (b *recordingBackend) Draw(tex Texture, src *image.Rectangle, dst image.Rectangle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failDraw != nil {
		return b.failDraw
	}
	b.draws = append(b.draws, drawCall{Texture: tex.(*fakeTexture).id, Dst: dst})
	return nil
}

func (b *recordingBackend) created() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.textures)
}

// takeDraws returns and resets the recorded draws.
func (b *recordingBackend) takeDraws() []drawCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.draws
	b.draws = nil
	return d
}

// drawnRects returns the destination rectangles of draws.
func drawnRects(draws []drawCall) []image.Rectangle {
	rects := make([]image.Rectangle, len(draws))
	for i, d := range draws {
		rects[i] = d.Dst
	}
	return rects
}
