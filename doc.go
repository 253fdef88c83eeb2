// Package gtext renders strings of Unicode text onto a 2D render target by
// rasterizing glyph outlines into bitmaps, caching the bitmaps per rendering
// parameters and compositing them with advance, kerning and alignment.
//
// # Overview
//
// gtext has two rendering modes:
//
//   - Regular: glyphs are rasterized once at a fixed reference scale
//     (100 px/em by default) in the foreground colour and scaled when drawn.
//     The cache key ignores the draw size, so one bitmap serves every size.
//   - Subpixel: glyphs are rasterized at their exact integer pixel size with
//     horizontal RGB subpixel filtering and pre-blended over a known opaque
//     background. The key includes size, foreground and background.
//
// # Quick Start
//
//	f, err := sfntfont.Parse(goregular.TTF)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache := gtext.NewCache(f)
//	dst := image.NewRGBA(image.Rect(0, 0, 640, 120))
//	b := software.New(dst)
//
//	err = gtext.RenderRegular("Hello, world", 320, 60, 32,
//	    gtext.AlignCenter, gtext.AlignMiddle,
//	    color.NRGBA{A: 255}, cache, b)
//
// # Architecture
//
// A render call lays out the text, claims the cache keys that are missing,
// rasterizes the claimed glyphs concurrently on a worker pool, uploads the
// bitmaps through the [Backend] and commits them to the [Cache], then draws
// every glyph. Backend calls always happen on the calling goroutine.
//
// The package is organized into:
//   - Public API: Renderer, Cache, Settings, Font and Backend contracts
//   - glyph: outline geometry and coverage sampling
//   - sfntfont: Font adapter for TrueType/OpenType data
//   - internal/raster: regular and subpixel rasterizers
//   - backend/software, backend/gpubackend: Backend implementations
//
// # Logging
//
// gtext is silent by default. See [SetLogger].
package gtext
