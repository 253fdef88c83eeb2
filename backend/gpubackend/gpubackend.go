// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpubackend draws glyph textures through a gpucontext.TextureDrawer,
// the host-provided drawing surface of gogpu applications.
//
// Textures are created lazily: CreateTexture returns a pending handle and the
// GPU texture is allocated on the first Upload, the same way a gogpu canvas
// defers texture creation until it has pixels. Importing the package
// registers it as [backend.GPU]:
//
//	b, err := backend.New(backend.GPU, dc.AsTextureDrawer())
//
// # Scaling
//
// gpucontext.TextureDrawer draws a texture at its own size. Regular-mode
// glyphs are rasterized once at the reference scale and need a scaled draw
// at any other size, so they are stretched only if the draw context also
// implements [ScaledDrawer]. Otherwise the texture is drawn unscaled at the
// glyph's top-left corner and appears at the reference size. Subpixel text
// is always drawn at texture size and is unaffected.
package gpubackend

import (
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gtext"
	"github.com/gogpu/gtext/backend"
)

var (
	// ErrNoTextureCreator is returned when the draw context has no texture creator.
	ErrNoTextureCreator = errors.New("gpubackend: draw context has no texture creator")

	// ErrSubRect is returned when Draw is asked for part of a texture.
	ErrSubRect = errors.New("gpubackend: source rectangles are not supported")

	ErrInvalidSize       = errors.New("gpubackend: invalid texture size")
	ErrUnsupportedFormat = errors.New("gpubackend: unsupported pixel format")
	ErrForeignTexture    = errors.New("gpubackend: texture was not created by this backend")
	ErrNotUploaded       = errors.New("gpubackend: texture has no pixels yet")
	ErrDestroyed         = errors.New("gpubackend: texture destroyed")
	ErrShortData         = errors.New("gpubackend: pixel data too short")
)

func init() {
	backend.Register(backend.GPU, func(target any) (gtext.Backend, error) {
		dc, ok := target.(gpucontext.TextureDrawer)
		if !ok {
			return nil, fmt.Errorf("%w: %s needs a gpucontext.TextureDrawer, got %T",
				backend.ErrUnsupportedTarget, backend.GPU, target)
		}
		return New(dc), nil
	})
}

// ScaledDrawer is implemented by draw contexts that can stretch a texture
// into a destination rectangle. Regular text is drawn scaled unless its
// size equals the reference scale.
type ScaledDrawer interface {
	DrawTextureScaled(tex gpucontext.Texture, x, y, width, height float32) error
}

// surface is the part of the draw context the backend uses.
type surface interface {
	newTexture(width, height int, data []byte) (any, error)
	draw(tex any, x, y float32) error
	canScale() bool
	drawScaled(tex any, x, y, width, height float32) error
}

// drawerSurface adapts a gpucontext.TextureDrawer.
type drawerSurface struct {
	dc gpucontext.TextureDrawer
}

func (s drawerSurface) newTexture(width, height int, data []byte) (any, error) {
	creator := s.dc.TextureCreator()
	if creator == nil {
		return nil, ErrNoTextureCreator
	}
	tex, err := creator.NewTextureFromRGBA(width, height, data)
	if err != nil {
		return nil, err
	}
	return tex, nil
}

func (s drawerSurface) draw(tex any, x, y float32) error {
	gt, ok := tex.(gpucontext.Texture)
	if !ok {
		return fmt.Errorf("%w: %T is not a gpucontext.Texture", ErrForeignTexture, tex)
	}
	return s.dc.DrawTexture(gt, x, y)
}

func (s drawerSurface) canScale() bool {
	_, ok := s.dc.(ScaledDrawer)
	return ok
}

func (s drawerSurface) drawScaled(tex any, x, y, width, height float32) error {
	sd := s.dc.(ScaledDrawer)
	gt, ok := tex.(gpucontext.Texture)
	if !ok {
		return fmt.Errorf("%w: %T is not a gpucontext.Texture", ErrForeignTexture, tex)
	}
	return sd.DrawTextureScaled(gt, x, y, width, height)
}

// textureUpdater matches gpucontext.TextureUpdater.
type textureUpdater interface {
	UpdateData(data []byte) error
}

type textureDestroyer interface {
	Destroy()
}

// Texture is a glyph texture of the GPU backend. The underlying GPU texture
// exists once pixels have been uploaded.
type Texture struct {
	format    gputypes.TextureFormat
	width     int
	height    int
	gpu       any
	destroyed bool
}

// Size returns the texture size in pixels.
func (t *Texture) Size() (width, height int) {
	return t.width, t.height
}

// Format returns the GPU texture format.
func (t *Texture) Format() gputypes.TextureFormat {
	return t.format
}

// GPUTexture returns the host texture, or nil before the first upload.
func (t *Texture) GPUTexture() any {
	return t.gpu
}

// Destroy releases the GPU texture.
func (t *Texture) Destroy() {
	if d, ok := t.gpu.(textureDestroyer); ok {
		d.Destroy()
	}
	t.gpu = nil
	t.destroyed = true
}

// Stats holds cumulative Backend counters.
type Stats struct {
	Textures uint64
	Uploads  uint64
	Draws    uint64
}

// Backend is a gtext.Backend drawing through a gpucontext.TextureDrawer.
//
// Calls must come from the goroutine that owns the draw context, which is
// how the gtext renderer issues backend calls.
type Backend struct {
	surface surface

	textures atomic.Uint64
	uploads  atomic.Uint64
	draws    atomic.Uint64
}

// New creates a backend drawing into dc.
func New(dc gpucontext.TextureDrawer) *Backend {
	return &Backend{surface: drawerSurface{dc: dc}}
}

func textureFormat(f gtext.PixelFormat) (gputypes.TextureFormat, bool) {
	switch f {
	case gtext.PixelFormatRGBA8:
		return gputypes.TextureFormatRGBA8Unorm, true
	default:
		return 0, false
	}
}

// CreateTexture returns a pending texture. No GPU memory is allocated
// until Upload.
func (b *Backend) CreateTexture(format gtext.PixelFormat, width, height int) (gtext.Texture, error) {
	tf, ok := textureFormat(format)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	b.textures.Add(1)
	return &Texture{format: tf, width: width, height: height}, nil
}

// Upload writes straight-alpha RGBA rows into the texture, creating the GPU
// texture on first use.
func (b *Backend) Upload(tex gtext.Texture, pix []byte, stride int) error {
	t, err := texture(tex)
	if err != nil {
		return err
	}
	row := t.width * 4
	if stride < row || len(pix) < (t.height-1)*stride+row {
		return fmt.Errorf("%w: %d bytes with stride %d for %dx%d", ErrShortData, len(pix), stride, t.width, t.height)
	}
	data := tightRows(pix, stride, row, t.height)

	if t.gpu == nil {
		gpu, err := b.surface.newTexture(t.width, t.height, data)
		if err != nil {
			return fmt.Errorf("gpubackend: create %dx%d texture: %w", t.width, t.height, err)
		}
		// Glyph bitmaps carry straight alpha.
		if pt, ok := gpu.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(false)
		}
		t.gpu = gpu
	} else {
		u, ok := t.gpu.(textureUpdater)
		if !ok {
			return fmt.Errorf("gpubackend: %T cannot be updated", t.gpu)
		}
		if err := u.UpdateData(data); err != nil {
			return fmt.Errorf("gpubackend: texture update failed: %w", err)
		}
	}
	b.uploads.Add(1)
	return nil
}

// tightRows returns the rows of pix without stride padding.
func tightRows(pix []byte, stride, row, height int) []byte {
	if stride == row {
		return pix[:row*height]
	}
	out := make([]byte, row*height)
	for y := range height {
		copy(out[y*row:(y+1)*row], pix[y*stride:y*stride+row])
	}
	return out
}

// Draw draws the whole texture into dst. A dst of a different size than the
// texture is stretched by a [ScaledDrawer] draw context; any other context
// draws the texture at its own size at dst.Min.
func (b *Backend) Draw(tex gtext.Texture, src *image.Rectangle, dst image.Rectangle) error {
	t, err := texture(tex)
	if err != nil {
		return err
	}
	if t.gpu == nil {
		return ErrNotUploaded
	}
	if src != nil && *src != image.Rect(0, 0, t.width, t.height) {
		return ErrSubRect
	}
	if dst.Empty() {
		return nil
	}

	x, y := float32(dst.Min.X), float32(dst.Min.Y)
	scaled := dst.Dx() != t.width || dst.Dy() != t.height
	if scaled && b.surface.canScale() {
		err = b.surface.drawScaled(t.gpu, x, y, float32(dst.Dx()), float32(dst.Dy()))
	} else {
		err = b.surface.draw(t.gpu, x, y)
	}
	if err != nil {
		return err
	}
	b.draws.Add(1)
	return nil
}

// Stats returns a snapshot of the counters.
func (b *Backend) Stats() Stats {
	return Stats{
		Textures: b.textures.Load(),
		Uploads:  b.uploads.Load(),
		Draws:    b.draws.Load(),
	}
}

func texture(tex gtext.Texture) (*Texture, error) {
	t, ok := tex.(*Texture)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignTexture, tex)
	}
	if t.destroyed {
		return nil, ErrDestroyed
	}
	return t, nil
}
