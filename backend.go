package gtext

import "image"

// PixelFormat describes the layout of uploaded pixel data.
type PixelFormat uint8

const (
	// PixelFormatRGBA8 is 8-bit R, G, B, A per pixel with straight
	// (non-premultiplied) alpha.
	PixelFormatRGBA8 PixelFormat = iota
)

// String returns the string representation of the format.
func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRGBA8:
		return "RGBA8"
	default:
		return unknownStr
	}
}

// BytesPerPixel returns the size of one pixel in bytes.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatRGBA8:
		return 4
	default:
		return 0
	}
}

// Texture is an opaque handle owned by a Backend. Once committed to a Cache
// the cache owns it; if the handle has a Destroy() method the cache calls
// it when the entry is invalidated. Handles must be comparable; pointers
// are the usual choice.
type Texture any

// Backend is the render-target contract. gtext only calls a Backend from the
// goroutine that issued the render call.
type Backend interface {
	// CreateTexture allocates a texture of the given size.
	CreateTexture(format PixelFormat, width, height int) (Texture, error)

	// Upload replaces the texture contents. pix holds height rows of
	// stride bytes each.
	Upload(tex Texture, pix []byte, stride int) error

	// Draw composites the src rectangle of the texture (the whole texture
	// when src is nil) into dst, scaling when the sizes differ.
	Draw(tex Texture, src *image.Rectangle, dst image.Rectangle) error
}

// textureDestroyer is implemented by textures that hold releasable resources.
type textureDestroyer interface {
	Destroy()
}

func destroyTexture(tex Texture) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}
