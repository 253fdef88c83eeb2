package gtext

import (
	"github.com/gogpu/gtext/glyph"
	"github.com/gogpu/gtext/internal/raster"
)

// rasterJob is a claimed key waiting to be rasterized.
type rasterJob struct {
	key   GlyphKey
	glyph glyph.Glyph
}

// rasterizeFunc turns a glyph into a bitmap, or nil for a blank glyph.
// It runs on the worker pool and must not touch the backend.
type rasterizeFunc func(g glyph.Glyph) *raster.Bitmap

// prepare makes sure every key of the run is committed or pending.
//
// Keys are claimed sequentially on the calling goroutine. The claimed glyphs
// are rasterized concurrently, each worker writing only its own slot of the
// result slice, and then uploaded and committed in claim order. If the
// backend fails, the claims that were not committed yet are released so a
// later call can retry them. Claims dropped by a concurrent Clear or
// SwitchFont are not committed; the cache discards those bitmaps.
func (r *Renderer) prepare(c *Cache, b Backend, run layoutRun, keys []GlyphKey, rasterize rasterizeFunc) error {
	var jobs []rasterJob
	for i, key := range keys {
		if c.LookupOrClaim(key).Status == StatusClaimed {
			jobs = append(jobs, rasterJob{key: key, glyph: run.Glyphs[i].Glyph})
		}
	}
	if len(jobs) == 0 {
		return nil
	}

	log := Logger()
	log.Debug("gtext: rasterizing glyphs", "count", len(jobs), "variant", jobs[0].key.Variant)

	bitmaps := make([]*raster.Bitmap, len(jobs))
	r.pool.Run(len(jobs), func(i int) {
		bitmaps[i] = rasterize(jobs[i].glyph)
	})
	r.rasterized.Add(uint64(len(jobs)))

	for i, job := range jobs {
		entry, err := r.upload(b, bitmaps[i], job.key.Rune)
		if err != nil {
			for _, rest := range jobs[i:] {
				c.Release(rest.key)
			}
			log.Warn("gtext: released glyph claims after backend error",
				"released", len(jobs)-i, "err", err)
			return err
		}
		if !c.Commit(job.key, entry) {
			log.Debug("gtext: discarded glyph, claim was invalidated", "rune", string(job.key.Rune))
		}
	}
	return nil
}

// upload creates a texture for bmp and fills it. A nil bitmap needs no
// texture and yields a nil entry.
func (r *Renderer) upload(b Backend, bmp *raster.Bitmap, ch rune) (*CacheEntry, error) {
	if bmp == nil {
		return nil, nil
	}
	tex, err := b.CreateTexture(PixelFormatRGBA8, bmp.Width, bmp.Height)
	if err != nil {
		return nil, &BackendError{Op: OpCreateTexture, Rune: ch, Err: err}
	}
	if err := b.Upload(tex, bmp.Pix, bmp.Stride()); err != nil {
		destroyTexture(tex)
		return nil, &BackendError{Op: OpUpload, Rune: ch, Err: err}
	}
	r.uploads.Add(1)
	Logger().Debug("gtext: uploaded glyph", "rune", string(ch), "width", bmp.Width, "height", bmp.Height)

	return &CacheEntry{
		Texture: tex,
		Width:   bmp.Width,
		Height:  bmp.Height,
		OffsetX: bmp.OffsetX,
		OffsetY: bmp.OffsetY,
	}, nil
}
