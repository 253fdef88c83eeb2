package sfntfont

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/gtext/internal/cache"
)

// pairKey identifies a memoized kerning value.
type pairKey struct {
	a, b rune
	size fixed.Int26_6
}

func hashPair(k pairKey) uint64 {
	h := uint64(k.a)*0x9E3779B97F4A7C15 ^ uint64(k.b)*0xC2B2AE3D27D4EB4F ^ uint64(k.size)
	return h ^ h>>29
}

// pairShaper derives pair kerning from HarfBuzz shaping: the kerning of
// (a, b) is the advance of a when shaped before b minus its advance when
// shaped alone.
//
// font.Font is safe for concurrent use; font.Face and HarfbuzzShaper are
// not, so a Face is created per call and shapers are pooled.
type pairShaper struct {
	font    *font.Font
	shapers sync.Pool
	memo    *cache.Sharded[pairKey, float64]
}

func newPairShaper(data []byte, cacheSize int) (*pairShaper, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	p := &pairShaper{
		font: face.Font,
		memo: cache.NewSharded[pairKey, float64](cacheSize, hashPair),
	}
	p.shapers.New = func() any { return &shaping.HarfbuzzShaper{} }
	return p, nil
}

func (p *pairShaper) kern(a, b rune, size float64) float64 {
	key := pairKey{a: a, b: b, size: toFixed(size)}
	return p.memo.GetOrCreate(key, func() float64 {
		pair := p.shape([]rune{a, b}, key.size)
		if len(pair) != 2 {
			// Ligature or decomposition: no meaningful pair kerning.
			return 0
		}
		single := p.shape([]rune{a}, key.size)
		if len(single) != 1 {
			return 0
		}
		return fromFixed(pair[0].Advance - single[0].Advance)
	})
}

func (p *pairShaper) shape(text []rune, size fixed.Int26_6) []shaping.Glyph {
	input := shaping.Input{
		Text:      text,
		RunStart:  0,
		RunEnd:    len(text),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(p.font),
		Size:      size,
		Script:    scriptOf(text),
		Language:  language.NewLanguage("en"),
	}
	hb := p.shapers.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	p.shapers.Put(hb)
	return out.Glyphs
}

// scriptOf returns the script of the first non-space rune.
func scriptOf(text []rune) language.Script {
	for _, r := range text {
		if r != ' ' && r != '\t' {
			return language.LookupScript(r)
		}
	}
	return language.Latin
}
