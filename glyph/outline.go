package glyph

import (
	"image"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/vector"
)

// Op is the type of a path operation.
type Op uint8

const (
	// OpMoveTo starts a new contour at Args[0].
	OpMoveTo Op = iota

	// OpLineTo draws a line to Args[0].
	OpLineTo

	// OpQuadTo draws a quadratic Bézier curve through control Args[0] to Args[1].
	OpQuadTo

	// OpCubeTo draws a cubic Bézier curve through controls Args[0], Args[1]
	// to Args[2].
	OpCubeTo
)

// String returns a string representation of the operation.
func (op Op) String() string {
	switch op {
	case OpMoveTo:
		return "MoveTo"
	case OpLineTo:
		return "LineTo"
	case OpQuadTo:
		return "QuadTo"
	case OpCubeTo:
		return "CubeTo"
	default:
		return "Unknown"
	}
}

// points returns how many of Args the operation uses.
func (op Op) points() int {
	switch op {
	case OpQuadTo:
		return 2
	case OpCubeTo:
		return 3
	default:
		return 1
	}
}

// Point is a point in pixel space.
type Point struct {
	X, Y float32
}

// Segment is one path operation of an outline.
type Segment struct {
	Op   Op
	Args [3]Point
}

// Bounds is an axis-aligned box in pixel space.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float32
}

// Width returns the horizontal extent of the box.
func (b Bounds) Width() float32 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the box.
func (b Bounds) Height() float32 { return b.MaxY - b.MinY }

// Outline is the vector shape of a glyph at a given scale, positioned
// relative to the pen origin. Outlines are immutable once built and can be
// shared between goroutines.
type Outline struct {
	Segments []Segment
	Bounds   Bounds
}

// NewOutline builds an outline from segments and computes its bounds from
// every point the segments reference, control points included.
func NewOutline(segments []Segment) *Outline {
	o := &Outline{Segments: segments}
	if len(segments) == 0 {
		return o
	}

	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := float32(-math.MaxFloat32), float32(-math.MaxFloat32)
	for _, seg := range segments {
		for _, p := range seg.Args[:seg.Op.points()] {
			minX = min(minX, p.X)
			minY = min(minY, p.Y)
			maxX = max(maxX, p.X)
			maxY = max(maxY, p.Y)
		}
	}
	o.Bounds = Bounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	return o
}

// IsEmpty reports whether the outline has nothing to draw.
func (o *Outline) IsEmpty() bool {
	return o == nil || len(o.Segments) == 0
}

// Scale returns a copy of the outline with X coordinates multiplied by sx
// and Y coordinates by sy.
func (o *Outline) Scale(sx, sy float32) *Outline {
	if o == nil {
		return nil
	}
	scaled := make([]Segment, len(o.Segments))
	for i, seg := range o.Segments {
		scaled[i].Op = seg.Op
		for j := range seg.Op.points() {
			scaled[i].Args[j] = Point{X: seg.Args[j].X * sx, Y: seg.Args[j].Y * sy}
		}
	}
	return NewOutline(scaled)
}

// PxBounds returns the tight integer pixel box that contains the outline:
// minimum corner rounded down, maximum corner rounded up.
func (o *Outline) PxBounds() image.Rectangle {
	if o.IsEmpty() {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(float64(o.Bounds.MinX))),
		int(math.Floor(float64(o.Bounds.MinY))),
		int(math.Ceil(float64(o.Bounds.MaxX))),
		int(math.Ceil(float64(o.Bounds.MaxY))),
	)
}

// rasterizerPool recycles vector rasterizers; their accumulation buffers are
// the dominant allocation when many glyphs are rasterized in a row.
var rasterizerPool = sync.Pool{
	New: func() any { return vector.NewRasterizer(0, 0) },
}

// Draw rasterizes the outline and calls fn once for every pixel of
// PxBounds, with (x, y) relative to the top-left corner of that box and
// coverage in [0, 1]. Draw is safe to call from several goroutines at once.
func (o *Outline) Draw(fn func(x, y int, coverage float32)) {
	pb := o.PxBounds()
	w, h := pb.Dx(), pb.Dy()
	if w <= 0 || h <= 0 {
		return
	}

	r := rasterizerPool.Get().(*vector.Rasterizer)
	defer rasterizerPool.Put(r)
	r.Reset(w, h)
	r.DrawOp = draw.Src

	dx, dy := -float32(pb.Min.X), -float32(pb.Min.Y)
	started := false
	for _, seg := range o.Segments {
		a := seg.Args
		switch seg.Op {
		case OpMoveTo:
			if started {
				r.ClosePath()
			}
			r.MoveTo(a[0].X+dx, a[0].Y+dy)
			started = true
		case OpLineTo:
			r.LineTo(a[0].X+dx, a[0].Y+dy)
		case OpQuadTo:
			r.QuadTo(a[0].X+dx, a[0].Y+dy, a[1].X+dx, a[1].Y+dy)
		case OpCubeTo:
			r.CubeTo(a[0].X+dx, a[0].Y+dy, a[1].X+dx, a[1].Y+dy, a[2].X+dx, a[2].Y+dy)
		}
	}
	if started {
		r.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	for y := range h {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x, v := range row {
			fn(x, y, float32(v)/255)
		}
	}
}
