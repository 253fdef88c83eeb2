// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software implements gtext.Backend on the CPU: glyph textures are
// NRGBA images composited into any draw.Image.
package software

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"sync/atomic"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/gtext"
	"github.com/gogpu/gtext/backend"
)

// Errors returned by Backend.
var (
	ErrInvalidSize       = errors.New("software: invalid texture size")
	ErrUnsupportedFormat = errors.New("software: unsupported pixel format")
	ErrForeignTexture    = errors.New("software: texture was not created by this backend")
	ErrDestroyed         = errors.New("software: texture destroyed")
	ErrShortData         = errors.New("software: pixel data too short for texture")
)

func init() {
	backend.Register(backend.Software, func(target any) (gtext.Backend, error) {
		dst, ok := target.(draw.Image)
		if !ok {
			return nil, fmt.Errorf("%w: software needs a draw.Image, got %T", backend.ErrUnsupportedTarget, target)
		}
		return New(dst), nil
	})
}

// Texture is a glyph bitmap owned by a Backend.
type Texture struct {
	img *image.NRGBA
}

// Destroy releases the pixels. Drawing a destroyed texture fails.
func (t *Texture) Destroy() {
	t.img = nil
}

// Image returns the texture pixels, or nil once destroyed.
func (t *Texture) Image() *image.NRGBA {
	return t.img
}

// Stats holds cumulative Backend counters.
type Stats struct {
	Textures uint64
	Uploads  uint64
	Draws    uint64
}

// Backend composites glyph textures into a draw.Image.
//
// Draws that keep the texture size are plain copies with the Over operator;
// scaled draws use the configured interpolator. Backend is not safe for
// concurrent draws to the same target.
type Backend struct {
	dst    draw.Image
	interp xdraw.Interpolator

	textures atomic.Uint64
	uploads  atomic.Uint64
	draws    atomic.Uint64
}

// Option configures a Backend.
type Option func(*Backend)

// WithInterpolator sets the scaler used for scaled draws.
// The default is xdraw.BiLinear.
func WithInterpolator(i xdraw.Interpolator) Option {
	return func(b *Backend) {
		if i != nil {
			b.interp = i
		}
	}
}

// New creates a Backend drawing into dst.
func New(dst draw.Image, opts ...Option) *Backend {
	b := &Backend{dst: dst, interp: xdraw.BiLinear}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Target returns the image the backend draws into.
func (b *Backend) Target() draw.Image {
	return b.dst
}

// CreateTexture allocates a transparent texture.
func (b *Backend) CreateTexture(format gtext.PixelFormat, width, height int) (gtext.Texture, error) {
	if format != gtext.PixelFormatRGBA8 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	b.textures.Add(1)
	return &Texture{img: image.NewNRGBA(image.Rect(0, 0, width, height))}, nil
}

// Upload copies straight-alpha RGBA rows into the texture.
func (b *Backend) Upload(tex gtext.Texture, pix []byte, stride int) error {
	img, err := textureImage(tex)
	if err != nil {
		return err
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	row := w * 4
	if stride < row || len(pix) < (h-1)*stride+row {
		return fmt.Errorf("%w: %d bytes with stride %d for %dx%d", ErrShortData, len(pix), stride, w, h)
	}
	for y := range h {
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pix[y*stride:y*stride+row])
	}
	b.uploads.Add(1)
	return nil
}

// Draw composites the src part of the texture (all of it when src is nil)
// into dst.
func (b *Backend) Draw(tex gtext.Texture, src *image.Rectangle, dst image.Rectangle) error {
	img, err := textureImage(tex)
	if err != nil {
		return err
	}
	sr := img.Bounds()
	if src != nil {
		sr = src.Intersect(sr)
	}
	if sr.Empty() || dst.Empty() {
		return nil
	}

	if dst.Size() == sr.Size() {
		xdraw.Draw(b.dst, dst, img, sr.Min, xdraw.Over)
	} else {
		b.interp.Scale(b.dst, dst, img, sr, xdraw.Over, nil)
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

func textureImage(tex gtext.Texture) (*image.NRGBA, error) {
	t, ok := tex.(*Texture)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignTexture, tex)
	}
	if t.img == nil {
		return nil, ErrDestroyed
	}
	return t.img, nil
}
