package bitmaptext

import (
	"github.com/gogpu/bitmaptext/bmfont"
	"github.com/gogpu/bitmaptext/layout"
)

// TextOption configures a Text during creation.
//
// Example:
//
//	// Default: DefaultRegistry, private arena, meshes kept as children
//	t, err := bitmaptext.New("Score: 0", style)
//
//	// Shared arena and GPU geometry
//	t, err := bitmaptext.New("Score: 0", style,
//	    bitmaptext.WithArena(arena),
//	    bitmaptext.WithGeometryFactory(factory))
type TextOption func(*textOptions)

// textOptions holds optional configuration for Text creation.
type textOptions struct {
	registry  *bmfont.Registry
	arena     *layout.Arena
	container Container
	geometry  GeometryFactory
	normalize bool
}

func defaultOptions() textOptions {
	return textOptions{
		registry: bmfont.DefaultRegistry,
	}
}

// WithRegistry resolves font names in r instead of bmfont.DefaultRegistry.
func WithRegistry(r *bmfont.Registry) TextOption {
	return func(o *textOptions) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithArena borrows layout records from a shared arena.
// Texts sharing an arena must be used from one goroutine.
func WithArena(a *layout.Arena) TextOption {
	return func(o *textOptions) {
		o.arena = a
	}
}

// WithContainer attaches page meshes to c instead of the Text itself.
func WithContainer(c Container) TextOption {
	return func(o *textOptions) {
		o.container = c
	}
}

// WithGeometryFactory creates an upload target for every new page mesh.
// Without a factory, meshes carry their arrays but upload nothing.
func WithGeometryFactory(f GeometryFactory) TextOption {
	return func(o *textOptions) {
		o.geometry = f
	}
}

// WithNormalization applies Unicode NFC normalization to the text before
// layout, so composed and decomposed input map to the same glyphs.
func WithNormalization(enabled bool) TextOption {
	return func(o *textOptions) {
		o.normalize = enabled
	}
}
