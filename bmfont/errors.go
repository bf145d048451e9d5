package bmfont

import (
	"errors"
	"strconv"
)

// Sentinel errors for the bmfont package.
var (
	// ErrFontNotRegistered is returned when a font name has no registered font.
	ErrFontNotRegistered = errors.New("bmfont: font not registered")

	// ErrNilFont is returned when a nil font is registered.
	ErrNilFont = errors.New("bmfont: nil font")

	// ErrGlyphTooLarge is returned by Build when a glyph does not fit on an empty page.
	ErrGlyphTooLarge = errors.New("bmfont: glyph larger than page")

	// ErrNilFace is returned by Build when no face is given.
	ErrNilFace = errors.New("bmfont: nil face")

	// ErrEmptyFontData is returned when TrueType data is empty.
	ErrEmptyFontData = errors.New("bmfont: empty font data")
)

// ParseError reports a malformed BMFont descriptor.
// Line is 1-based; it is 0 when the position is unknown.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return "bmfont: parse error at line " + strconv.Itoa(e.Line) + ": " + e.Reason
	}
	return "bmfont: parse error: " + e.Reason
}

// BuildConfigError represents a BuildConfig validation error.
type BuildConfigError struct {
	Field  string
	Reason string
}

func (e *BuildConfigError) Error() string {
	return "bmfont: invalid build config." + e.Field + ": " + e.Reason
}
