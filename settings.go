package gtext

import "image/color"

// placeholderBackground is the background of regular settings. Regular
// rendering never composites against it.
var placeholderBackground = color.NRGBA{R: 127, G: 127, B: 127, A: 255}

// Settings bundles the render parameters that usually stay the same across
// many calls.
type Settings struct {
	Size       float64
	HAlign     HAlign
	VAlign     VAlign
	Foreground color.NRGBA
	Background color.NRGBA
	Cache      *Cache
	Backend    Backend

	// Renderer renders the text; nil means Default().
	Renderer *Renderer
}

// NewRegularSettings returns settings for regular rendering.
func NewRegularSettings(size float64, h HAlign, v VAlign, fg color.NRGBA, c *Cache, b Backend) Settings {
	return Settings{
		Size:       size,
		HAlign:     h,
		VAlign:     v,
		Foreground: fg,
		Background: placeholderBackground,
		Cache:      c,
		Backend:    b,
	}
}

// NewSubpixelSettings returns settings for subpixel rendering over bg.
func NewSubpixelSettings(size float64, h HAlign, v VAlign, fg, bg color.NRGBA, c *Cache, b Backend) Settings {
	return Settings{
		Size:       size,
		HAlign:     h,
		VAlign:     v,
		Foreground: fg,
		Background: bg,
		Cache:      c,
		Backend:    b,
	}
}

// SubpixelSize converts a fractional size to the integer pixel size used by
// subpixel rendering. It truncates toward zero: 11.4 and 11.6 both give 11.
func SubpixelSize(size float64) int {
	return int(size)
}

func (s Settings) renderer() *Renderer {
	if s.Renderer != nil {
		return s.Renderer
	}
	return Default()
}

// RenderRegular draws text anchored at (x, y).
func (s Settings) RenderRegular(text string, x, y float64) error {
	return s.renderer().RenderRegular(text, x, y, s.Size, s.HAlign, s.VAlign, s.Foreground, s.Cache, s.Backend)
}

// RenderSubpixel draws text anchored at (x, y) at SubpixelSize(s.Size).
func (s Settings) RenderSubpixel(text string, x, y float64) error {
	return s.renderer().RenderSubpixel(text, x, y, SubpixelSize(s.Size), s.HAlign, s.VAlign, s.Foreground, s.Background, s.Cache, s.Backend)
}
