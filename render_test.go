package gtext

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	white   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	errBoom = errors.New("boom")
)

func newTestRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r := NewRenderer(append([]Option{WithWorkers(4)}, opts...)...)
	t.Cleanup(r.Close)
	return r
}

// =============================================================================
// Caching Tests
// =============================================================================

func TestRenderRegular_IdempotentCaching(t *testing.T) {
	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	b := &recordingBackend{}

	if err := r.RenderRegular("Hello", 10, 50, 20, AlignLeft, AlignBottom, black, c, b); err != nil {
		t.Fatalf("first render: %v", err)
	}
	first := b.takeDraws()
	created, entries := b.created(), c.Len()

	if err := r.RenderRegular("Hello", 10, 50, 20, AlignLeft, AlignBottom, black, c, b); err != nil {
		t.Fatalf("second render: %v", err)
	}
	second := b.takeDraws()

	if entries != 4 {
		t.Errorf("Len = %d, want 4 (H, e, l, o)", entries)
	}
	if b.created() != created || c.Len() != entries {
		t.Errorf("second render created textures: %d -> %d, Len %d -> %d", created, b.created(), entries, c.Len())
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("draws differ between identical calls (-first +second):\n%s", diff)
	}
	if len(first) != 5 {
		t.Errorf("draws = %d, want 5", len(first))
	}
}

func TestRenderRegular_DeterministicAfterClear(t *testing.T) {
	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	b := &recordingBackend{}
	fg := color.NRGBA{R: 10, G: 20, B: 30, A: 200}

	render := func() ([]image.Rectangle, [][]byte) {
		t.Helper()
		start := b.created()
		if err := r.RenderRegular("Tab", 5, 40, 16, AlignLeft, AlignBottom, fg, c, b); err != nil {
			t.Fatalf("render: %v", err)
		}
		var pix [][]byte
		for _, tex := range b.textures[start:] {
			pix = append(pix, tex.pix)
		}
		return drawnRects(b.takeDraws()), pix
	}

	rects1, pix1 := render()
	old := append([]*fakeTexture(nil), b.textures...)
	c.Clear()
	rects2, pix2 := render()

	for _, tex := range old {
		if !tex.destroyed.Load() {
			t.Errorf("texture %d survived Clear", tex.id)
		}
	}
	if diff := cmp.Diff(rects1, rects2); diff != "" {
		t.Errorf("placements differ after Clear (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(pix1, pix2); diff != "" {
		t.Errorf("bitmaps differ after Clear (-before +after):\n%s", diff)
	}
}

func TestRenderRegular_UploadsForegroundBitmap(t *testing.T) {
	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	b := &recordingBackend{}
	fg := color.NRGBA{R: 10, G: 20, B: 30, A: 255}

	if err := r.RenderRegular("H", 0, 0, 10, AlignLeft, AlignBottom, fg, c, b); err != nil {
		t.Fatal(err)
	}
	tex := b.textures[0]
	// Box from 5 to 45 and 70 tall at the reference scale.
	if tex.width != 40 || tex.height != 70 {
		t.Fatalf("texture = %dx%d, want 40x70", tex.width, tex.height)
	}
	for i := 0; i < len(tex.pix); i += 4 {
		if got := (color.NRGBA{R: tex.pix[i], G: tex.pix[i+1], B: tex.pix[i+2], A: tex.pix[i+3]}); got != fg {
			t.Fatalf("pixel %d = %v, want %v", i/4, got, fg)
		}
	}
}

func TestRenderRegular_SizeInvariantKeys(t *testing.T) {
	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	b := &recordingBackend{}

	var rects []image.Rectangle
	for _, size := range []float64{12, 24, 48} {
		if err := r.RenderRegular("A", 0, 100, size, AlignLeft, AlignBottom, black, c, b); err != nil {
			t.Fatal(err)
		}
		rects = append(rects, drawnRects(b.takeDraws())...)
	}

	if c.Len() != 1 || b.created() != 1 {
		t.Errorf("Len = %d, created = %d, want 1, 1", c.Len(), b.created())
	}
	// 40x70 bitmap scaled by size/100.
	want := []image.Rectangle{
		image.Rect(0, 91, 4, 99),
		image.Rect(1, 83, 10, 99),
		image.Rect(2, 66, 21, 99),
	}
	if diff := cmp.Diff(want, rects); diff != "" {
		t.Errorf("scaled placements mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderSubpixel_SizeBinding(t *testing.T) {
	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	b := &recordingBackend{}
	s := NewSubpixelSettings(11.4, AlignLeft, AlignBottom, black, white, c, b)
	s.Renderer = r

	if err := s.RenderSubpixel("A", 0, 20); err != nil {
		t.Fatal(err)
	}
	s.Size = 11.6
	if err := s.RenderSubpixel("A", 0, 20); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 || b.created() != 1 {
		t.Fatalf("11.4 and 11.6 should share one entry: Len = %d, created = %d", c.Len(), b.created())
	}

	s.Size = 12
	if err := s.RenderSubpixel("A", 0, 20); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 || b.created() != 2 {
		t.Errorf("size 12 should add an entry: Len = %d, created = %d", c.Len(), b.created())
	}
}

func TestRenderSubpixel_DrawsUnscaled(t *testing.T) {
	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	b := &recordingBackend{}

	if err := r.RenderSubpixel("H", 10, 30, 20, AlignLeft, AlignBottom, black, white, c, b); err != nil {
		t.Fatal(err)
	}
	tex := b.textures[0]
	// Box 1..9 x -14..0 at 20 px: 24 samples wide -> 11 px, 14+2 rows.
	if tex.width != 11 || tex.height != 16 {
		t.Fatalf("texture = %dx%d, want 11x16", tex.width, tex.height)
	}
	draws := b.takeDraws()
	if len(draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(draws))
	}
	if want := image.Rect(11, 16, 22, 32); draws[0].Dst != want {
		t.Errorf("dst = %v, want %v", draws[0].Dst, want)
	}
}

// =============================================================================
// Layout Behaviour Tests
// =============================================================================

func TestRenderRegular_CenterAlignment(t *testing.T) {
	r := newTestRenderer(t, WithCharSpacing(0), WithWhitespaceSpacing(0))
	c := NewCache(&boxFont{})
	b := &recordingBackend{}

	for _, tt := range []struct {
		text string
		size float64
		x    float64
	}{
		{"HHH", 20, 100},
		{"HHHH", 40, 200},
		{"Hello", 40, 300},
	} {
		if err := r.RenderRegular(tt.text, tt.x, 50, tt.size, AlignCenter, AlignMiddle, black, c, b); err != nil {
			t.Fatal(err)
		}
		draws := b.takeDraws()
		left, right := math.MaxInt, math.MinInt
		for _, d := range draws {
			left = min(left, d.Dst.Min.X)
			right = max(right, d.Dst.Max.X-1)
		}
		if mid := float64(left+right) / 2; math.Abs(mid-tt.x) > 1 {
			t.Errorf("%q: drawn span [%d, %d] centred at %v, want %v within 1px", tt.text, left, right, mid, tt.x)
		}
	}
}

func TestRenderRegular_VerticalAlignment(t *testing.T) {
	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	b := &recordingBackend{}

	bottoms := map[VAlign]int{}
	for _, v := range []VAlign{AlignBottom, AlignMiddle, AlignTop} {
		if err := r.RenderRegular("H", 0, 100, 50, AlignLeft, v, black, c, b); err != nil {
			t.Fatal(err)
		}
		bottoms[v] = b.takeDraws()[0].Dst.Max.Y
	}
	// Height 60 * 0.63 = 37.8 above the baseline for Top, half of it for Middle.
	want := map[VAlign]int{AlignBottom: 100, AlignMiddle: 118, AlignTop: 137}
	if diff := cmp.Diff(want, bottoms); diff != "" {
		t.Errorf("baseline positions mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_EmptyString(t *testing.T) {
	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	b := &recordingBackend{}

	if err := r.RenderRegular("", 0, 0, 20, AlignCenter, AlignMiddle, black, c, b); err != nil {
		t.Errorf("RenderRegular(\"\") = %v", err)
	}
	if err := r.RenderSubpixel("", 0, 0, 20, AlignCenter, AlignMiddle, black, white, c, b); err != nil {
		t.Errorf("RenderSubpixel(\"\") = %v", err)
	}
	if b.created() != 0 || len(b.takeDraws()) != 0 || c.Len() != 0 {
		t.Error("empty text should not touch the backend or the cache")
	}
	if got := c.Stats(); got != (CacheStats{}) {
		t.Errorf("cache stats = %+v, want zero", got)
	}
}

func TestRender_SingleSpace(t *testing.T) {
	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	b := &recordingBackend{}

	for range 2 {
		if err := r.RenderRegular(" ", 0, 0, 20, AlignLeft, AlignBottom, black, c, b); err != nil {
			t.Fatal(err)
		}
	}
	if b.created() != 0 || len(b.takeDraws()) != 0 {
		t.Error("a space should not create or draw textures")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
	if got := c.Stats(); got.Commits != 1 || got.Hits != 1 {
		t.Errorf("stats = %+v, want one blank commit then one hit", got)
	}
}

func TestRender_SpaceAdvancesPen(t *testing.T) {
	r := newTestRenderer(t)
	const size = 20.0

	// Space advance plus char spacing plus whitespace spacing.
	want := size/2 + size*DefaultCharSpacing + size*DefaultWhitespaceSpacing
	run := layoutText(&boxFont{}, []rune(" X"), size, &r.cfg)
	if got := run.Glyphs[1].X; math.Abs(got-want) > 1e-9 {
		t.Fatalf("pen at X = %v, want %v", got, want)
	}

	c := NewCache(&boxFont{})
	b := &recordingBackend{}
	if err := r.RenderRegular(" X", 0, 100.5, size, AlignLeft, AlignBottom, black, c, b); err != nil {
		t.Fatal(err)
	}
	draws := b.takeDraws()
	if len(draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(draws))
	}
	// Pen 11.2 plus the scaled left bearing of 1: without the whitespace
	// spacing the glyph would start at 11.
	if got := draws[0].Dst.Min.X; got != 12 {
		t.Errorf("X drawn at x = %d, want 12", got)
	}
}

func TestRender_NonPositiveSize(t *testing.T) {
	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	b := &recordingBackend{}

	if err := r.RenderRegular("abc", 0, 0, 0, AlignLeft, AlignBottom, black, c, b); err != nil {
		t.Error(err)
	}
	if err := r.RenderSubpixel("abc", 0, 0, -3, AlignLeft, AlignBottom, black, white, c, b); err != nil {
		t.Error(err)
	}
	if c.Stats() != (CacheStats{}) {
		t.Error("non-positive sizes should be a no-op")
	}
}

func TestRender_Normalization(t *testing.T) {
	const decomposed = "e\u0301"

	for _, tt := range []struct {
		name string
		opts []Option
		want int
	}{
		{"default keeps runes", nil, 2},
		{"nfc", []Option{WithNormalization(true)}, 1},
		{"disabled", []Option{WithNormalization(false)}, 2},
	} {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRenderer(t, tt.opts...)
			c := NewCache(&boxFont{})
			b := &recordingBackend{}
			if err := r.RenderRegular(decomposed, 0, 50, 20, AlignLeft, AlignBottom, black, c, b); err != nil {
				t.Fatal(err)
			}
			if got := len(b.takeDraws()); got != tt.want {
				t.Errorf("draws = %d, want %d", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Font Switch and Scheduling Tests
// =============================================================================

func TestRender_SwitchFontResetsCache(t *testing.T) {
	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	b := &recordingBackend{}

	if err := r.RenderRegular("abc", 0, 50, 20, AlignLeft, AlignBottom, black, c, b); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}

	next := &boxFont{}
	c.SwitchFont(next)
	if c.Len() != 0 {
		t.Errorf("Len = %d after SwitchFont, want 0", c.Len())
	}
	for _, tex := range b.textures {
		if !tex.destroyed.Load() {
			t.Errorf("texture %d not destroyed by SwitchFont", tex.id)
		}
	}

	if err := r.RenderRegular("abc", 0, 50, 20, AlignLeft, AlignBottom, black, c, b); err != nil {
		t.Fatal(err)
	}
	if b.created() != 6 {
		t.Errorf("created = %d, want 6 (rasterized again with the new font)", b.created())
	}
	if got := next.outlines.Load(); got != 3 {
		t.Errorf("new font outlines = %d, want 3", got)
	}
}

func TestRender_SecondCallForksNothing(t *testing.T) {
	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	b := &recordingBackend{}

	if err := r.RenderRegular("Hi", 0, 50, 20, AlignLeft, AlignBottom, black, c, b); err != nil {
		t.Fatal(err)
	}
	afterFirst := r.Stats()
	if afterFirst.Forks != 2 || afterFirst.Rasterized != 2 {
		t.Fatalf("first call stats = %+v, want 2 forks", afterFirst)
	}

	if err := r.RenderRegular("Hi", 0, 50, 20, AlignLeft, AlignBottom, black, c, b); err != nil {
		t.Fatal(err)
	}
	afterSecond := r.Stats()
	if afterSecond.Forks != afterFirst.Forks {
		t.Errorf("second call forked %d tasks, want 0", afterSecond.Forks-afterFirst.Forks)
	}
	if afterSecond.Draws != 4 || afterSecond.Uploads != 2 {
		t.Errorf("stats = %+v, want 4 draws and 2 uploads", afterSecond)
	}
}

func TestRender_RepeatedRuneRasterizedOnce(t *testing.T) {
	r := newTestRenderer(t)
	f := &boxFont{}
	c := NewCache(f)
	b := &recordingBackend{}

	if err := r.RenderRegular("aaaa", 0, 50, 20, AlignLeft, AlignBottom, black, c, b); err != nil {
		t.Fatal(err)
	}
	if f.outlines.Load() != 1 || b.created() != 1 {
		t.Errorf("outlines = %d, created = %d, want 1, 1", f.outlines.Load(), b.created())
	}
	if got := len(b.takeDraws()); got != 4 {
		t.Errorf("draws = %d, want 4", got)
	}
}

func TestRender_ConcurrentCallsShareCache(t *testing.T) {
	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	b := &recordingBackend{}

	const goroutines, rounds = 4, 10
	var wg sync.WaitGroup
	errs := make(chan error, goroutines*rounds)
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				errs <- r.RenderSubpixel("abcdef", 0, 20, 14, AlignLeft, AlignBottom, black, white, c, b)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatal(err)
		}
	}

	if b.created() != 6 {
		t.Errorf("created = %d, want 6 (each glyph rasterized once)", b.created())
	}
	if got := len(b.takeDraws()); got != goroutines*rounds*6 {
		t.Errorf("draws = %d, want %d", got, goroutines*rounds*6)
	}
}

// =============================================================================
// Error Tests
// =============================================================================

func TestRender_CreateTextureError(t *testing.T) {
	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	b := &recordingBackend{failCreate: errBoom}

	err := r.RenderRegular("ab", 0, 50, 20, AlignLeft, AlignBottom, black, c, b)
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("err = %v, want *BackendError", err)
	}
	if be.Op != OpCreateTexture || be.Rune != 'a' {
		t.Errorf("BackendError = {%v %q}, want {create texture 'a'}", be.Op, be.Rune)
	}
	if !errors.Is(err, errBoom) {
		t.Error("BackendError should unwrap to the backend error")
	}
	if c.PendingLen() != 0 || c.Len() != 0 {
		t.Errorf("PendingLen = %d, Len = %d, claims should be released", c.PendingLen(), c.Len())
	}

	b.failCreate = nil
	if err := r.RenderRegular("ab", 0, 50, 20, AlignLeft, AlignBottom, black, c, b); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d after retry, want 2", c.Len())
	}
}

func TestRender_UploadErrorDestroysTexture(t *testing.T) {
	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	b := &recordingBackend{failUpload: errBoom}

	err := r.RenderSubpixel("x", 0, 20, 12, AlignLeft, AlignBottom, black, white, c, b)
	var be *BackendError
	if !errors.As(err, &be) || be.Op != OpUpload {
		t.Fatalf("err = %v, want upload BackendError", err)
	}
	if len(b.textures) != 1 || !b.textures[0].destroyed.Load() {
		t.Error("texture of a failed upload should be destroyed")
	}
	if c.PendingLen() != 0 {
		t.Errorf("PendingLen = %d, want 0", c.PendingLen())
	}
}

func TestRender_DrawError(t *testing.T) {
	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	b := &recordingBackend{failDraw: errBoom}

	err := r.RenderRegular("ok", 0, 50, 20, AlignLeft, AlignBottom, black, c, b)
	var be *BackendError
	if !errors.As(err, &be) || be.Op != OpDraw || be.Rune != 'o' {
		t.Fatalf("err = %v, want draw BackendError for 'o'", err)
	}
	if !strings.Contains(err.Error(), "draw") {
		t.Errorf("Error() = %q, should name the operation", err.Error())
	}
	// Glyphs are committed before drawing starts.
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestRender_InvalidArguments(t *testing.T) {
	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	b := &recordingBackend{}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil cache", r.RenderRegular("a", 0, 0, 10, AlignLeft, AlignBottom, black, nil, b), ErrNilCache},
		{"nil backend", r.RenderSubpixel("a", 0, 0, 10, AlignLeft, AlignBottom, black, white, c, nil), ErrNilBackend},
		{"no font", r.RenderRegular("a", 0, 0, 10, AlignLeft, AlignBottom, black, NewCache(nil), b), ErrNoFont},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, tt.err, tt.want)
		}
	}
}

// =============================================================================
// Package-level API Tests
// =============================================================================

func TestPackageLevelRender(t *testing.T) {
	c := NewCache(&boxFont{})
	b := &recordingBackend{}

	if err := RenderRegular("ab", 0, 50, 20, AlignLeft, AlignBottom, black, c, b); err != nil {
		t.Fatal(err)
	}
	if err := RenderSubpixel("ab", 0, 50, 20, AlignLeft, AlignBottom, black, white, c, b); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 4 {
		t.Errorf("Len = %d, want 4", c.Len())
	}
	if w := Measure(&boxFont{}, "ab", 20); math.Abs(w-20.3) > 1e-9 {
		t.Errorf("Measure = %v, want 20.3", w)
	}
	if Default() != Default() {
		t.Error("Default() should return the same renderer")
	}
}

func TestRender_LogsBatches(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	r := newTestRenderer(t)
	c := NewCache(&boxFont{})
	if err := r.RenderRegular("ab", 0, 50, 20, AlignLeft, AlignBottom, black, c, &recordingBackend{}); err != nil {
		t.Fatal(err)
	}
	c.Clear()

	out := buf.String()
	for _, want := range []string{"rasterizing glyphs", "count=2", "uploaded glyph", "cache cleared"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
