package raster

import (
	"image/color"
	"math"

	"github.com/gogpu/gtext/glyph"
)

// Regular rasterizes an outline into a bitmap whose colour channels are the
// foreground colour and whose alpha is fg.A * coverage^gamma. A gamma below
// one thickens anti-aliased edges.
//
// The bitmap is exactly the outline's pixel bounding box; nothing is
// composited against a background. Regular returns nil for outlines that
// cover no pixels.
func Regular(o *glyph.Outline, fg color.NRGBA, gamma float64) *Bitmap {
	if o.IsEmpty() {
		return nil
	}
	pb := o.PxBounds()
	w, h := pb.Dx(), pb.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}

	bmp := &Bitmap{
		Pix:     make([]byte, w*h*BytesPerPixel),
		Width:   w,
		Height:  h,
		OffsetX: -float64(pb.Min.X),
		OffsetY: -float64(pb.Min.Y),
	}
	for i := 0; i < len(bmp.Pix); i += BytesPerPixel {
		bmp.Pix[i] = fg.R
		bmp.Pix[i+1] = fg.G
		bmp.Pix[i+2] = fg.B
	}

	alpha := float64(fg.A)
	stride := bmp.Stride()
	o.Draw(func(x, y int, coverage float32) {
		a := alpha * math.Pow(float64(clamp01(coverage)), gamma)
		bmp.Pix[y*stride+x*BytesPerPixel+3] = uint8(a)
	})
	return bmp
}
