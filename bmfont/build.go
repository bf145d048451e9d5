package bmfont

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"slices"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ErrAtlasFull is returned by Build when the glyphs need more than MaxPages pages.
var ErrAtlasFull = errors.New("bmfont: atlas exceeds MaxPages")

// BuildConfig configures atlas generation from a font.Face.
type BuildConfig struct {
	// Name is the font name used for registration.
	Name string

	// Size is the authored size recorded on the font.
	// Zero uses the face's line height.
	Size float64

	// PageWidth and PageHeight are the dimensions of each atlas page.
	PageWidth  int
	PageHeight int

	// Padding is the gap between glyphs on a page.
	Padding int

	// MaxPages bounds the number of pages created.
	MaxPages int

	// Runes lists the characters to rasterize. Empty means printable ASCII.
	Runes []rune

	// Kerning enables pair kerning from face.Kern.
	Kerning bool
}

// DefaultBuildConfig returns a config for a 256×256 ASCII atlas.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		Name:       "font",
		PageWidth:  256,
		PageHeight: 256,
		Padding:    1,
		MaxPages:   16,
		Kerning:    true,
	}
}

// Validate checks the configuration.
func (c *BuildConfig) Validate() error {
	if c.Name == "" {
		return &BuildConfigError{Field: "Name", Reason: "must not be empty"}
	}
	if c.Size < 0 {
		return &BuildConfigError{Field: "Size", Reason: "must be non-negative"}
	}
	if c.PageWidth < 16 || c.PageWidth > 8192 {
		return &BuildConfigError{Field: "PageWidth", Reason: "must be in [16, 8192]"}
	}
	if c.PageHeight < 16 || c.PageHeight > 8192 {
		return &BuildConfigError{Field: "PageHeight", Reason: "must be in [16, 8192]"}
	}
	if c.Padding < 0 {
		return &BuildConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if c.MaxPages < 1 {
		return &BuildConfigError{Field: "MaxPages", Reason: "must be at least 1"}
	}
	return nil
}

// ASCII returns the printable ASCII characters, space through tilde.
func ASCII() []rune {
	rs := make([]rune, 0, 95)
	for r := rune(32); r < 127; r++ {
		rs = append(rs, r)
	}
	return rs
}

// Build rasterizes face into alpha atlas pages and returns the font.
//
// Glyph offsets are measured from the top of the line box, so a glyph's
// YOffset is its distance below the line top. Characters the face cannot
// render are skipped.
func Build(face font.Face, cfg BuildConfig) (*Font, error) {
	if face == nil {
		return nil, ErrNilFace
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runes := cfg.Runes
	if len(runes) == 0 {
		runes = ASCII()
	} else {
		runes = slices.Clone(runes)
		slices.Sort(runes)
		runes = slices.Compact(runes)
	}

	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	lineHeight := float64(m.Height.Ceil())
	size := cfg.Size
	if size == 0 {
		size = lineHeight
	}

	f := NewFont(cfg.Name, size, lineHeight)
	f.Base = float64(ascent)

	b := &atlasBuilder{cfg: cfg, font: f}
	b.addPage()

	dot := fixed.P(0, ascent)
	missing := 0
	for _, r := range runes {
		dr, mask, maskp, advance, ok := face.Glyph(dot, r)
		if !ok {
			missing++
			continue
		}
		g := &Glyph{
			Code:    r,
			Advance: fixedToFloat(advance),
			XOffset: float64(dr.Min.X),
			YOffset: float64(dr.Min.Y),
		}
		w, h := dr.Dx(), dr.Dy()
		if w <= 0 || h <= 0 {
			g.Region.Page = b.page()
			f.AddGlyph(g)
			continue
		}

		x, y, err := b.place(w, h)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is %dx%d", err, r, w, h)
		}
		draw.Draw(b.pageImage(), image.Rect(x, y, x+w, y+h), mask, maskp, draw.Src)
		g.Region = Region{X: x, Y: y, Width: w, Height: h, Page: b.page()}
		f.AddGlyph(g)
	}

	for _, r := range f.Runes() {
		g, _ := f.Glyph(r)
		g.Region.SetUVs(g.Region.Page.Width, g.Region.Page.Height)
	}

	pairs := 0
	if cfg.Kerning {
		pairs = kernFace(f, face, runes)
	}

	slogger().Info("bmfont: atlas built",
		"name", f.Name,
		"glyphs", f.Len(),
		"pages", len(f.Pages),
		"kerning_pairs", pairs,
		"missing", missing,
	)
	return f, nil
}

// kernFace copies the non-zero face.Kern pairs for runes onto f.
func kernFace(f *Font, face font.Face, runes []rune) int {
	n := 0
	for _, first := range runes {
		if _, ok := f.Glyph(first); !ok {
			continue
		}
		for _, second := range runes {
			k := face.Kern(first, second)
			if k == 0 {
				continue
			}
			if f.SetKerning(first, second, fixedToFloat(k)) {
				n++
			}
		}
	}
	return n
}

// atlasBuilder owns the pages and packer of a Build in progress.
type atlasBuilder struct {
	cfg    BuildConfig
	font   *Font
	images []*image.Alpha
	packer *shelfPacker
}

func (b *atlasBuilder) addPage() {
	i := len(b.font.Pages)
	p := NewPage(fmt.Sprintf("%s_%d.png", b.cfg.Name, i), b.cfg.PageWidth, b.cfg.PageHeight)
	img := image.NewAlpha(image.Rect(0, 0, b.cfg.PageWidth, b.cfg.PageHeight))
	p.Image = img
	b.font.Pages = append(b.font.Pages, p)
	b.images = append(b.images, img)
	b.packer = newShelfPacker(b.cfg.PageWidth, b.cfg.PageHeight, b.cfg.Padding)
}

func (b *atlasBuilder) page() *Page { return b.font.Pages[len(b.font.Pages)-1] }

func (b *atlasBuilder) pageImage() *image.Alpha { return b.images[len(b.images)-1] }

// place allocates w×h on the current page, opening a new page when full.
func (b *atlasBuilder) place(w, h int) (x, y int, err error) {
	if !b.packer.fits(w, h) {
		return 0, 0, ErrGlyphTooLarge
	}
	if x, y, ok := b.packer.allocate(w, h); ok {
		return x, y, nil
	}
	if len(b.font.Pages) >= b.cfg.MaxPages {
		return 0, 0, ErrAtlasFull
	}
	b.addPage()
	x, y, _ = b.packer.allocate(w, h)
	return x, y, nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
