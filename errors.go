package bitmaptext

import "errors"

// Sentinel errors for the bitmaptext package.
var (
	// ErrInvalidFontDescriptor is returned when a font descriptor has no name.
	ErrInvalidFontDescriptor = errors.New("bitmaptext: invalid font descriptor")

	// ErrDestroyed is returned by operations on a destroyed Text.
	ErrDestroyed = errors.New("bitmaptext: text destroyed")

	// ErrInvalidColor is returned when a hex color cannot be parsed.
	ErrInvalidColor = errors.New("bitmaptext: invalid color")
)
