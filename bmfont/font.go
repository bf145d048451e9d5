package bmfont

import (
	"image"
	"slices"
	"sync/atomic"
)

// nextPageID hands out process-unique page identities.
var nextPageID atomic.Uint64

// Page is one texture page of a font atlas.
//
// ID is the persistent identity of the page. The layout pipeline keys
// its per-page batches by ID, never by the page's position in Font.Pages.
type Page struct {
	ID     uint64
	File   string
	Width  int
	Height int

	// Image holds the page pixels when the atlas was built in process.
	// It is nil for pages loaded from a descriptor.
	Image image.Image
}

// NewPage creates a page with a fresh identity.
func NewPage(file string, width, height int) *Page {
	return &Page{
		ID:     nextPageID.Add(1),
		File:   file,
		Width:  width,
		Height: height,
	}
}

// Region is the sub-rectangle of a page that holds one glyph.
type Region struct {
	X, Y          int
	Width, Height int

	// UVs holds normalized texture coordinates for the four corners in
	// top-left, top-right, bottom-right, bottom-left order, two floats each.
	UVs [8]float32

	Page *Page
}

// SetUVs computes the normalized corner coordinates from the pixel
// rectangle and the page dimensions.
func (r *Region) SetUVs(pageWidth, pageHeight int) {
	if pageWidth <= 0 || pageHeight <= 0 {
		r.UVs = [8]float32{}
		return
	}
	w := float32(pageWidth)
	h := float32(pageHeight)
	u0 := float32(r.X) / w
	v0 := float32(r.Y) / h
	u1 := float32(r.X+r.Width) / w
	v1 := float32(r.Y+r.Height) / h
	r.UVs = [8]float32{
		u0, v0,
		u1, v0,
		u1, v1,
		u0, v1,
	}
}

// Glyph holds the metrics of one character in atlas-native units.
type Glyph struct {
	Code    rune
	Advance float64
	XOffset float64
	YOffset float64

	// Kerning maps a previous character to the pen adjustment applied
	// before this glyph is placed.
	Kerning map[rune]float64

	Region Region
}

// KerningAfter returns the adjustment for this glyph when it follows prev.
func (g *Glyph) KerningAfter(prev rune) (float64, bool) {
	if g.Kerning == nil {
		return 0, false
	}
	k, ok := g.Kerning[prev]
	return k, ok
}

// Font is a bitmap font: glyph metrics plus the pages they reference.
// A Font is read-only once registered.
type Font struct {
	Name  string
	Size  float64
	Base  float64
	Pages []*Page

	lineHeight float64
	glyphs     map[rune]*Glyph
}

// NewFont creates an empty font authored at size with the given line height.
func NewFont(name string, size, lineHeight float64) *Font {
	return &Font{
		Name:       name,
		Size:       size,
		lineHeight: lineHeight,
		glyphs:     make(map[rune]*Glyph),
	}
}

// AddGlyph adds or replaces the glyph for g.Code.
func (f *Font) AddGlyph(g *Glyph) {
	f.glyphs[g.Code] = g
}

// SetKerning records amount as the adjustment applied to second when it
// follows first. It reports false if second has no glyph.
func (f *Font) SetKerning(first, second rune, amount float64) bool {
	g, ok := f.glyphs[second]
	if !ok {
		return false
	}
	if g.Kerning == nil {
		g.Kerning = make(map[rune]float64)
	}
	g.Kerning[first] = amount
	return true
}

// Glyph returns the glyph metrics for r.
func (f *Font) Glyph(r rune) (*Glyph, bool) {
	g, ok := f.glyphs[r]
	return g, ok
}

// LineHeight returns the vertical pen advance between lines.
func (f *Font) LineHeight() float64 { return f.lineHeight }

// AuthoredSize returns the size the atlas was rasterized at.
func (f *Font) AuthoredSize() float64 { return f.Size }

// Len returns the number of glyphs.
func (f *Font) Len() int { return len(f.glyphs) }

// Runes returns the characters with glyphs in ascending order.
func (f *Font) Runes() []rune {
	rs := make([]rune, 0, len(f.glyphs))
	for r := range f.glyphs {
		rs = append(rs, r)
	}
	slices.Sort(rs)
	return rs
}

// PageByIndex returns the page at descriptor index i.
func (f *Font) PageByIndex(i int) (*Page, bool) {
	if i < 0 || i >= len(f.Pages) {
		return nil, false
	}
	return f.Pages[i], true
}
