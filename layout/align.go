package layout

import (
	"fmt"
	"strings"
)

// Align specifies horizontal alignment of lines within the widest line.
type Align int

const (
	// AlignLeft aligns lines to the left edge (default).
	AlignLeft Align = iota
	// AlignCenter centers lines.
	AlignCenter
	// AlignRight aligns lines to the right edge.
	AlignRight
)

// String returns the lowercase alignment name.
func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return fmt.Sprintf("Align(%d)", int(a))
	}
}

// ParseAlign parses "left", "center" or "right", ignoring case.
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	}
	return AlignLeft, fmt.Errorf("%w: %q", ErrUnknownAlign, s)
}

// Offset returns the x offset of a line of width lineWidth when the widest
// line is maxWidth wide.
func (a Align) Offset(maxWidth, lineWidth float64) float64 {
	switch a {
	case AlignRight:
		return maxWidth - lineWidth
	case AlignCenter:
		return (maxWidth - lineWidth) / 2
	default:
		return 0
	}
}
