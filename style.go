package bitmaptext

import (
	"fmt"
	"strings"

	"github.com/gogpu/bitmaptext/layout"
)

// Align specifies horizontal alignment of lines.
type Align = layout.Align

// Alignments.
const (
	AlignLeft   = layout.AlignLeft
	AlignCenter = layout.AlignCenter
	AlignRight  = layout.AlignRight
)

// ParseAlign parses "left", "center" or "right".
func ParseAlign(s string) (Align, error) { return layout.ParseAlign(s) }

// FontDescriptor names a registered font and the size to draw it at.
// A Size of zero or less means the font's authored size.
type FontDescriptor struct {
	Name string
	Size float64
}

// String formats the descriptor as "<size>px <name>".
func (d FontDescriptor) String() string {
	if d.Size <= 0 {
		return d.Name
	}
	return fmt.Sprintf("%gpx %s", d.Size, d.Name)
}

// ParseFont parses "<size>px <name>" or a bare "<name>".
//
// The size is read like parseInt: leading digits up to the first
// non-digit, so "32px" and "32" both give 32. A size without leading
// digits yields zero, which falls back to the authored size. Names may
// contain spaces.
func ParseFont(s string) (FontDescriptor, error) {
	fields := strings.Split(strings.TrimSpace(s), " ")
	if len(fields) == 1 {
		if fields[0] == "" {
			return FontDescriptor{}, fmt.Errorf("%w: %q", ErrInvalidFontDescriptor, s)
		}
		return FontDescriptor{Name: fields[0]}, nil
	}
	name := strings.TrimSpace(strings.Join(fields[1:], " "))
	if name == "" {
		return FontDescriptor{}, fmt.Errorf("%w: %q", ErrInvalidFontDescriptor, s)
	}
	return FontDescriptor{Name: name, Size: float64(leadingInt(fields[0]))}, nil
}

// leadingInt returns the integer formed by the leading digits of s,
// with an optional sign. It returns 0 when s starts with no digit.
func leadingInt(s string) int {
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > 1<<20 {
			break
		}
	}
	if neg {
		return -n
	}
	return n
}

// Style is the initial style of a Text.
type Style struct {
	Font  FontDescriptor
	Align Align

	// Tint is the 0xRRGGBB color multiplied into glyphs.
	// Zero means DefaultTint; call SetTint(0) for black.
	Tint uint32

	MaxWidth      float64
	LetterSpacing float64
}

// Anchor is the normalized origin of a Text. (0, 0) is the top-left of
// the text block and (1, 1) the bottom-right; values outside [0, 1] are
// allowed. Every mutator that changes a value marks the owning Text dirty.
type Anchor struct {
	x, y  float64
	owner *Text
}

// X returns the horizontal anchor.
func (a *Anchor) X() float64 { return a.x }

// Y returns the vertical anchor.
func (a *Anchor) Y() float64 { return a.y }

// Set sets both axes.
func (a *Anchor) Set(x, y float64) {
	if a.x == x && a.y == y {
		return
	}
	a.x, a.y = x, y
	a.owner.markDirty()
}

// SetX sets the horizontal anchor.
func (a *Anchor) SetX(x float64) { a.Set(x, a.y) }

// SetY sets the vertical anchor.
func (a *Anchor) SetY(y float64) { a.Set(a.x, y) }

// SetScalar sets both axes to v.
func (a *Anchor) SetScalar(v float64) { a.Set(v, v) }
