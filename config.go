package gtext

import "runtime"

// Default tuning constants.
const (
	// DefaultReferenceScale is the pixel size regular-mode glyphs are
	// rasterized at before being scaled to the draw size.
	DefaultReferenceScale = 100.0

	// DefaultCharSpacing is the extra advance after every glyph, as a
	// fraction of the font size.
	DefaultCharSpacing = 0.015

	// DefaultWhitespaceSpacing is the additional advance after whitespace,
	// as a fraction of the font size.
	DefaultWhitespaceSpacing = 0.045

	// DefaultTextHeightRatio is the fraction of the font height used as the
	// visual text height for vertical alignment.
	DefaultTextHeightRatio = 0.63

	DefaultRegularGamma  = 0.7
	DefaultSubpixelGamma = 0.9
)

// Config holds the tuning parameters of a Renderer.
type Config struct {
	// ReferenceScale is the regular-mode rasterization size in pixels per em.
	ReferenceScale float64

	// CharSpacing and WhitespaceSpacing are fractions of the font size.
	// Zero is valid and disables the extra spacing.
	CharSpacing       float64
	WhitespaceSpacing float64

	// TextHeightRatio scales the font height for Top and Middle alignment.
	TextHeightRatio float64

	// RegularGamma and SubpixelGamma are applied to coverage before it
	// becomes alpha or a blend factor.
	RegularGamma  float64
	SubpixelGamma float64

	// Workers is the size of the rasterization pool. 0 means GOMAXPROCS.
	Workers int

	// NormalizeNFC composes the input text to Unicode NFC before layout,
	// so "e" + U+0301 renders as the single glyph "é". Off by default: the
	// runes are laid out as given.
	NormalizeNFC bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ReferenceScale:    DefaultReferenceScale,
		CharSpacing:       DefaultCharSpacing,
		WhitespaceSpacing: DefaultWhitespaceSpacing,
		TextHeightRatio:   DefaultTextHeightRatio,
		RegularGamma:      DefaultRegularGamma,
		SubpixelGamma:     DefaultSubpixelGamma,
		Workers:           runtime.GOMAXPROCS(0),
	}
}

// sanitize replaces values that would break rendering with their defaults.
func (c Config) sanitize() Config {
	d := DefaultConfig()
	if !(c.ReferenceScale > 0) {
		c.ReferenceScale = d.ReferenceScale
	}
	if !(c.TextHeightRatio > 0) {
		c.TextHeightRatio = d.TextHeightRatio
	}
	if !(c.RegularGamma > 0) {
		c.RegularGamma = d.RegularGamma
	}
	if !(c.SubpixelGamma > 0) {
		c.SubpixelGamma = d.SubpixelGamma
	}
	if c.CharSpacing < 0 {
		c.CharSpacing = 0
	}
	if c.WhitespaceSpacing < 0 {
		c.WhitespaceSpacing = 0
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	return c
}

// Option configures a Renderer.
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithReferenceScale sets the regular-mode rasterization size.
func WithReferenceScale(pixels float64) Option {
	return func(c *Config) {
		c.ReferenceScale = pixels
	}
}

// WithCharSpacing sets the per-glyph extra advance as a fraction of size.
func WithCharSpacing(fraction float64) Option {
	return func(c *Config) {
		c.CharSpacing = fraction
	}
}

// WithWhitespaceSpacing sets the extra advance after whitespace as a
// fraction of size.
func WithWhitespaceSpacing(fraction float64) Option {
	return func(c *Config) {
		c.WhitespaceSpacing = fraction
	}
}

// WithTextHeightRatio sets the fraction of the font height used for
// vertical alignment.
func WithTextHeightRatio(ratio float64) Option {
	return func(c *Config) {
		c.TextHeightRatio = ratio
	}
}

// WithRegularGamma sets the coverage exponent of regular rendering.
func WithRegularGamma(gamma float64) Option {
	return func(c *Config) {
		c.RegularGamma = gamma
	}
}

// WithSubpixelGamma sets the coverage exponent of subpixel rendering.
func WithSubpixelGamma(gamma float64) Option {
	return func(c *Config) {
		c.SubpixelGamma = gamma
	}
}

// WithWorkers sets the number of rasterization workers.
// 0 or a negative value uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithNormalization enables or disables NFC normalization of input text.
func WithNormalization(enabled bool) Option {
	return func(c *Config) {
		c.NormalizeNFC = enabled
	}
}
