package raster

import (
	"image/color"
	"math"

	"github.com/gogpu/gtext/glyph"
)

// Subpixel rasterizes an outline with horizontal RGB subpixel rendering.
//
// The outline must already be at the final pixel size. It is sampled at
// three times the horizontal resolution, one column per colour subpixel,
// into a buffer with a one-sample margin on every side. The samples are
// low-pass filtered horizontally with LCDKernel, smoothed vertically with
// VerticalKernel and gamma corrected. Each group of three samples then gives
// the R, G and B blend factors between bg and fg; alpha blends with the
// mean of the three.
//
// Because every channel is blended separately the result is only correct
// when drawn over bg. Subpixel returns nil for outlines that cover no pixels.
func Subpixel(o *glyph.Outline, fg, bg color.NRGBA, gamma float64) *Bitmap {
	if o.IsEmpty() {
		return nil
	}
	wide := o.Scale(3, 1)
	pb := wide.PxBounds()
	rawW, rawH := pb.Dx(), pb.Dy()
	if rawW <= 0 || rawH <= 0 {
		return nil
	}

	w := (rawW+2)/3 + 3
	h := rawH + 2
	cols := w * 3

	cov := make([]float32, cols*h)
	wide.Draw(func(x, y int, c float32) {
		cov[(y+1)*cols+x+1] = clamp01(c)
	})

	tmp := make([]float32, len(cov))
	LCDKernel.filterRows(tmp, cov, cols, h)
	VerticalKernel.filterColumns(cov, tmp, cols, h)
	for i, v := range cov {
		cov[i] = float32(math.Pow(float64(v), gamma))
	}

	bmp := &Bitmap{
		Pix:     make([]byte, w*h*BytesPerPixel),
		Width:   w,
		Height:  h,
		OffsetX: -float64(pb.Min.X) / 3,
		OffsetY: -float64(pb.Min.Y),
	}
	stride := bmp.Stride()
	for y := range h {
		for x := range w {
			s := y*cols + x*3
			r := uint16(cov[s] * 255)
			g := uint16(cov[s+1] * 255)
			b := uint16(cov[s+2] * 255)
			a := (r + g + b) / 3

			i := y*stride + x*BytesPerPixel
			bmp.Pix[i] = lerp8(bg.R, fg.R, r)
			bmp.Pix[i+1] = lerp8(bg.G, fg.G, g)
			bmp.Pix[i+2] = lerp8(bg.B, fg.B, b)
			bmp.Pix[i+3] = lerp8(bg.A, fg.A, a)
		}
	}
	return bmp
}

// lerp8 blends from a to b by t/255 using integer arithmetic.
func lerp8(a, b uint8, t uint16) uint8 {
	return uint8(uint16(a)*(255-t)/255 + uint16(b)*t/255)
}
