// Command gtextdemo renders a sample sheet of regular and subpixel text.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"log/slog"
	"os"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/gtext"
	"github.com/gogpu/gtext/backend"
	_ "github.com/gogpu/gtext/backend/software"
	"github.com/gogpu/gtext/sfntfont"
)

func main() {
	var (
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		output  = flag.String("output", "gtext.png", "output file")
		fontArg = flag.String("font", "", "TrueType/OpenType font file (default: Go Regular)")
		text    = flag.String("text", "Sphinx of black quartz, judge my vow", "sample text")
		shaped  = flag.Bool("shaped", false, "kern with GPOS shaping")
		verbose = flag.Bool("v", false, "log cache and rasterizer activity")
	)
	flag.Parse()

	if *verbose {
		gtext.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	f, err := loadFont(*fontArg, *shaped)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}

	bg := color.NRGBA{R: 250, G: 248, B: 240, A: 255}
	img := image.NewRGBA(image.Rect(0, 0, *width, *height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	b, err := backend.New(backend.Software, draw.Image(img))
	if err != nil {
		log.Fatalf("Failed to create backend: %v", err)
	}
	cache := gtext.NewCache(f)
	r := gtext.NewRenderer()

	if err := drawAlignment(r, img, cache, b, *text); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	if err := drawCascade(r, img, cache, b, *text, bg); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	r.Close()

	if err := savePNG(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	st := r.Stats()
	log.Printf("Demo saved to %s (%dx%d): %d glyphs cached, %d rasterized, %d draws\n",
		*output, *width, *height, cache.Len(), st.Rasterized, st.Draws)
}

func loadFont(path string, shaped bool) (*sfntfont.Face, error) {
	var opts []sfntfont.Option
	if shaped {
		opts = append(opts, sfntfont.WithShapedKerning())
	}
	if path == "" {
		return sfntfont.Parse(goregular.TTF, opts...)
	}
	return sfntfont.Open(path, opts...)
}

// drawAlignment draws the text anchored at one point with every alignment
// and marks the anchor with a crosshair.
func drawAlignment(r *gtext.Renderer, img *image.RGBA, c *gtext.Cache, b gtext.Backend, text string) error {
	cx, cy := img.Bounds().Dx()/2, 110
	crosshair(img, cx, cy, color.RGBA{R: 220, A: 255})

	fg := color.NRGBA{R: 30, G: 40, B: 90, A: 255}
	rows := []struct {
		h gtext.HAlign
		v gtext.VAlign
	}{
		{gtext.AlignLeft, gtext.AlignBottom},
		{gtext.AlignCenter, gtext.AlignMiddle},
		{gtext.AlignRight, gtext.AlignTop},
	}
	for _, row := range rows {
		label := row.h.String() + "/" + row.v.String()
		if err := r.RenderRegular(label, float64(cx), float64(cy), 24, row.h, row.v, fg, c, b); err != nil {
			return err
		}
	}
	return r.RenderRegular(text, float64(cx), 200, 36, gtext.AlignCenter, gtext.AlignMiddle, color.NRGBA{A: 230}, c, b)
}

// drawCascade draws the text in subpixel mode at increasing sizes.
func drawCascade(r *gtext.Renderer, img *image.RGBA, c *gtext.Cache, b gtext.Backend, text string, bg color.NRGBA) error {
	fg := color.NRGBA{R: 20, G: 20, B: 20, A: 255}
	y := 260
	for size := 9; size <= 24 && y < img.Bounds().Dy(); size += 3 {
		if err := r.RenderSubpixel(text, 20, float64(y), size, gtext.AlignLeft, gtext.AlignTop, fg, bg, c, b); err != nil {
			return err
		}
		y += size + 12
	}
	return nil
}

func crosshair(img *image.RGBA, x, y int, c color.RGBA) {
	for i := -12; i <= 12; i++ {
		img.SetRGBA(x+i, y, c)
		img.SetRGBA(x, y+i, c)
	}
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
