package gtext

const unknownStr = "Unknown"

// HAlign specifies where the anchor point sits horizontally in the text.
type HAlign int

const (
	// AlignLeft places the anchor at the start of the text (default).
	AlignLeft HAlign = iota
	// AlignCenter places the anchor at the horizontal centre.
	AlignCenter
	// AlignRight places the anchor at the end of the text.
	AlignRight
)

// String returns the string representation of the alignment.
func (a HAlign) String() string {
	switch a {
	case AlignLeft:
		return "Left"
	case AlignCenter:
		return "Center"
	case AlignRight:
		return "Right"
	default:
		return unknownStr
	}
}

// offset returns the pen shift for a run of the given width.
func (a HAlign) offset(width float64) float64 {
	switch a {
	case AlignCenter:
		return -width / 2
	case AlignRight:
		return -width
	default:
		return 0
	}
}

// VAlign specifies where the anchor point sits vertically in the text.
type VAlign int

const (
	// AlignBottom places the anchor on the baseline (default).
	AlignBottom VAlign = iota
	// AlignMiddle places the anchor halfway up the visual text height.
	AlignMiddle
	// AlignTop places the anchor at the top of the visual text height.
	AlignTop
)

// String returns the string representation of the alignment.
func (a VAlign) String() string {
	switch a {
	case AlignBottom:
		return "Bottom"
	case AlignMiddle:
		return "Middle"
	case AlignTop:
		return "Top"
	default:
		return unknownStr
	}
}

// offset returns the baseline shift for a font of the given height.
// The visual text height is height * ratio.
func (a VAlign) offset(height, ratio float64) float64 {
	switch a {
	case AlignTop:
		return height * ratio
	case AlignMiddle:
		return height * ratio / 2
	default:
		return 0
	}
}
