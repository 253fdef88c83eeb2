package gtext

import (
	"image/color"
	"sync"
	"sync/atomic"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/gtext/glyph"
	"github.com/gogpu/gtext/internal/parallel"
	"github.com/gogpu/gtext/internal/raster"
)

// Renderer lays out, rasterizes and draws text with a fixed configuration.
//
// A Renderer owns the worker pool used for rasterization and is safe for
// concurrent use. Render calls sharing a Cache should be serialized.
type Renderer struct {
	cfg  Config
	pool *parallel.WorkerPool

	rasterized atomic.Uint64
	uploads    atomic.Uint64
	draws      atomic.Uint64
}

// RenderStats holds cumulative Renderer counters.
type RenderStats struct {
	// Forks is the number of rasterization tasks handed to the worker pool.
	Forks      uint64
	Rasterized uint64
	Uploads    uint64
	Draws      uint64
}

// NewRenderer creates a Renderer. Invalid option values fall back to the
// defaults of DefaultConfig.
func NewRenderer(opts ...Option) *Renderer {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.sanitize()

	return &Renderer{
		cfg:  cfg,
		pool: parallel.NewWorkerPool(cfg.Workers),
	}
}

// Config returns the effective configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Stats returns a snapshot of the renderer counters.
func (r *Renderer) Stats() RenderStats {
	return RenderStats{
		Forks:      r.pool.Forks(),
		Rasterized: r.rasterized.Load(),
		Uploads:    r.uploads.Load(),
		Draws:      r.draws.Load(),
	}
}

// Close stops the worker pool. A closed Renderer keeps working and
// rasterizes on the calling goroutine.
func (r *Renderer) Close() {
	r.pool.Close()
}

// Measure returns the width of text laid out at size with f.
func (r *Renderer) Measure(f Font, text string, size float64) float64 {
	return layoutText(f, r.runes(text), size, &r.cfg).Width
}

// RenderRegular draws text with its anchor at (x, y) at the given pixel
// size. Glyphs are rasterized once at the reference scale in fg and scaled
// on draw, so the cache holds one bitmap per rune and colour.
func (r *Renderer) RenderRegular(text string, x, y, size float64, h HAlign, v VAlign, fg color.NRGBA, c *Cache, b Backend) error {
	if c == nil {
		return ErrNilCache
	}
	if b == nil {
		return ErrNilBackend
	}
	runes := r.runes(text)
	if len(runes) == 0 || !(size > 0) {
		return nil
	}
	f := c.Font()
	if f == nil {
		return ErrNoFont
	}

	ref, gamma := r.cfg.ReferenceScale, r.cfg.RegularGamma
	run := layoutText(f, runes, size, &r.cfg)
	keys := make([]GlyphKey, len(runes))
	for i, ch := range runes {
		keys[i] = RegularKey(ch, fg)
	}

	err := r.prepare(c, b, run, keys, func(g glyph.Glyph) *raster.Bitmap {
		return raster.Regular(f.Outline(g, ref), fg, gamma)
	})
	if err != nil {
		return err
	}

	px, py := origin(run, x, y, h, v, f.Height(size), r.cfg.TextHeightRatio)
	return r.drawRun(c, b, run, keys, px, py, size/ref)
}

// RenderSubpixel draws text with its anchor at (x, y) at an integer pixel
// size using RGB subpixel rendering. The glyphs are blended over bg, which
// must match the opaque colour behind the text.
func (r *Renderer) RenderSubpixel(text string, x, y float64, size int, h HAlign, v VAlign, fg, bg color.NRGBA, c *Cache, b Backend) error {
	if c == nil {
		return ErrNilCache
	}
	if b == nil {
		return ErrNilBackend
	}
	runes := r.runes(text)
	if len(runes) == 0 || size <= 0 {
		return nil
	}
	f := c.Font()
	if f == nil {
		return ErrNoFont
	}

	fsize, gamma := float64(size), r.cfg.SubpixelGamma
	run := layoutText(f, runes, fsize, &r.cfg)
	keys := make([]GlyphKey, len(runes))
	for i, ch := range runes {
		keys[i] = SubpixelKey(ch, size, fg, bg)
	}

	err := r.prepare(c, b, run, keys, func(g glyph.Glyph) *raster.Bitmap {
		return raster.Subpixel(f.Outline(g, fsize), fg, bg, gamma)
	})
	if err != nil {
		return err
	}

	px, py := origin(run, x, y, h, v, f.Height(fsize), r.cfg.TextHeightRatio)
	return r.drawRun(c, b, run, keys, px, py, 1)
}

// drawRun draws every glyph of the run with the pen starting at (x, y).
// Blank glyphs and keys dropped from the cache meanwhile are skipped.
func (r *Renderer) drawRun(c *Cache, b Backend, run layoutRun, keys []GlyphKey, x, y, scale float64) error {
	for i, pg := range run.Glyphs {
		l, ok := c.Wait(keys[i])
		if !ok || l.Status != StatusHit {
			continue
		}
		dst := placement(l.Entry, x+pg.X, y, scale)
		if dst.Empty() {
			continue
		}
		if err := b.Draw(l.Entry.Texture, nil, dst); err != nil {
			return &BackendError{Op: OpDraw, Rune: pg.Rune, Err: err}
		}
		r.draws.Add(1)
	}
	return nil
}

// runes decodes text, composing it to NFC first when enabled.
func (r *Renderer) runes(text string) []rune {
	if text == "" {
		return nil
	}
	if r.cfg.NormalizeNFC {
		text = norm.NFC.String(text)
	}
	return []rune(text)
}

var (
	defaultRendererOnce sync.Once
	defaultRenderer     *Renderer
)

// Default returns the shared Renderer with the default configuration used
// by the package-level render functions.
func Default() *Renderer {
	defaultRendererOnce.Do(func() {
		defaultRenderer = NewRenderer()
	})
	return defaultRenderer
}

// RenderRegular draws text with the default Renderer.
// See [Renderer.RenderRegular].
func RenderRegular(text string, x, y, size float64, h HAlign, v VAlign, fg color.NRGBA, c *Cache, b Backend) error {
	return Default().RenderRegular(text, x, y, size, h, v, fg, c, b)
}

// RenderSubpixel draws text with the default Renderer.
// See [Renderer.RenderSubpixel].
func RenderSubpixel(text string, x, y float64, size int, h HAlign, v VAlign, fg, bg color.NRGBA, c *Cache, b Backend) error {
	return Default().RenderSubpixel(text, x, y, size, h, v, fg, bg, c, b)
}

// Measure returns the width of text with the default Renderer.
func Measure(f Font, text string, size float64) float64 {
	return Default().Measure(f, text, size)
}
