package layout

import "errors"

// Sentinel errors for the layout package.
var (
	// ErrNilSource is returned when a pass has no metrics source.
	ErrNilSource = errors.New("layout: nil metrics source")

	// ErrInvalidAuthoredSize is returned when the source reports a non-positive authored size.
	ErrInvalidAuthoredSize = errors.New("layout: authored size must be positive")

	// ErrNilPage is returned when a glyph region has no atlas page.
	ErrNilPage = errors.New("layout: glyph region has no page")

	// ErrPageOverflow is returned when one page needs more glyphs than
	// uint16 indices can address.
	ErrPageOverflow = errors.New("layout: too many glyphs on one page")

	// ErrCapacityShortfall is returned when a batch has no free slot for a glyph.
	// It indicates a broken sizing invariant and is never recovered.
	ErrCapacityShortfall = errors.New("layout: page batch capacity shortfall")

	// ErrUnknownAlign is returned by ParseAlign for unrecognized names.
	ErrUnknownAlign = errors.New("layout: unknown alignment")
)
