package raster

// Kernel is a symmetric 1D convolution kernel with an odd number of taps.
// The middle element is the centre tap.
//
// Kernels are not normalized up front: each output sample is divided by the
// sum of the weights that actually fell inside the buffer, so samples near
// the edges are not darkened by missing neighbours.
type Kernel []float32

// LCDKernel is the horizontal low-pass filter applied to the 3x supersampled
// coverage before it is split into R, G and B. It spreads each sample over
// its two neighbours on both sides, which removes most of the colour fringing
// of naive subpixel rendering.
var LCDKernel = Kernel{0.09526326, 0.55556049, 1.0, 0.55556049, 0.09526326}

// VerticalKernel is a very light vertical smoothing filter.
var VerticalKernel = Kernel{0.00504176, 1.0, 0.00504176}

// radius returns the number of taps on each side of the centre.
func (k Kernel) radius() int {
	return len(k) / 2
}

// filterRows convolves every row of a w x h buffer.
func (k Kernel) filterRows(dst, src []float32, w, h int) {
	for y := range h {
		k.filterLine(dst, src, y*w, w, 1)
	}
}

// filterColumns convolves every column of a w x h buffer.
func (k Kernel) filterColumns(dst, src []float32, w, h int) {
	for x := range w {
		k.filterLine(dst, src, x, h, w)
	}
}

// filterLine convolves n samples starting at start and spaced step apart.
func (k Kernel) filterLine(dst, src []float32, start, n, step int) {
	r := k.radius()
	for i := range n {
		lo := max(-r, -i)
		hi := min(r, n-1-i)

		var total, weight float32
		for t := lo; t <= hi; t++ {
			w := k[r+t]
			total += src[start+(i+t)*step] * w
			weight += w
		}
		dst[start+i*step] = total / weight
	}
}
