package bitmaptext

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/bitmaptext/bmfont"
	"github.com/gogpu/bitmaptext/layout"
)

// Measurements are the size of the laid-out text at target size, before
// the anchor is applied.
type Measurements struct {
	Width         float64
	Height        float64
	MaxLineHeight float64
	Lines         int
	Glyphs        int
}

// Text is a string drawn with a registered bitmap font.
//
// Style mutators only mark the text dirty. The layout pass runs on the
// next Update, Measurements or Meshes call, once per batch of changes.
// A Text is not safe for concurrent use.
type Text struct {
	text          string
	font          FontDescriptor
	align         Align
	tint          uint32
	maxWidth      float64
	letterSpacing float64
	anchor        Anchor
	roundPixels   bool

	dirty     bool
	destroyed bool
	passes    int

	opts      textOptions
	container Container
	layout    *layout.Layout
	meshes    []*PageMesh
	children  []*PageMesh
	measure   Measurements
}

// New creates a Text. The font must already be registered.
func New(text string, style Style, opts ...TextOption) (*Text, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t := &Text{
		text:          text,
		align:         style.Align,
		tint:          style.Tint,
		maxWidth:      style.MaxWidth,
		letterSpacing: style.LetterSpacing,
		dirty:         true,
		opts:          o,
		layout:        layout.New(o.arena),
	}
	if t.tint == 0 {
		t.tint = DefaultTint
	}
	t.anchor.owner = t
	t.container = o.container
	if t.container == nil {
		t.container = t
	}

	d, err := t.resolveFont(style.Font)
	if err != nil {
		return nil, err
	}
	t.font = d
	return t, nil
}

// resolveFont looks the font up and replaces a non-positive size with the
// authored size.
func (t *Text) resolveFont(d FontDescriptor) (FontDescriptor, error) {
	if d.Name == "" {
		return FontDescriptor{}, fmt.Errorf("%w: empty name", ErrInvalidFontDescriptor)
	}
	f, err := t.opts.registry.Lookup(d.Name)
	if err != nil {
		return FontDescriptor{}, err
	}
	if d.Size <= 0 {
		if d.Size < 0 {
			Logger().Warn("bitmaptext: invalid font size, using authored size",
				"font", d.Name, "size", d.Size, "authored", f.AuthoredSize())
		}
		d.Size = f.AuthoredSize()
	}
	return d, nil
}

func (t *Text) markDirty() { t.dirty = true }

// Text returns the string being drawn.
func (t *Text) Text() string { return t.text }

// SetText sets the string to draw.
func (t *Text) SetText(s string) {
	if t.text == s {
		return
	}
	t.text = s
	t.dirty = true
}

// Font returns the resolved font descriptor.
func (t *Text) Font() FontDescriptor { return t.font }

// SetFont switches to another registered font. On error nothing changes.
func (t *Text) SetFont(d FontDescriptor) error {
	resolved, err := t.resolveFont(d)
	if err != nil {
		return err
	}
	if t.font == resolved {
		return nil
	}
	t.font = resolved
	t.dirty = true
	return nil
}

// SetFontString parses a "<size>px <name>" descriptor and calls SetFont.
func (t *Text) SetFontString(s string) error {
	d, err := ParseFont(s)
	if err != nil {
		return err
	}
	return t.SetFont(d)
}

// Align returns the line alignment.
func (t *Text) Align() Align { return t.align }

// SetAlign sets the line alignment.
func (t *Text) SetAlign(a Align) {
	if t.align == a {
		return
	}
	t.align = a
	t.dirty = true
}

// Tint returns the 0xRRGGBB tint.
func (t *Text) Tint() uint32 { return t.tint }

// SetTint sets the tint and restamps every attached mesh at once.
// It does not trigger a layout pass.
func (t *Text) SetTint(tint uint32) {
	t.tint = tint
	for _, m := range t.meshes {
		m.Tint = tint
	}
}

// MaxWidth returns the wrap width; zero means no wrapping.
func (t *Text) MaxWidth() float64 { return t.maxWidth }

// SetMaxWidth sets the wrap width at target size. Zero disables wrapping.
func (t *Text) SetMaxWidth(w float64) {
	if t.maxWidth == w {
		return
	}
	t.maxWidth = w
	t.dirty = true
}

// LetterSpacing returns the extra advance between glyphs.
func (t *Text) LetterSpacing() float64 { return t.letterSpacing }

// SetLetterSpacing sets the extra advance between glyphs in atlas units.
func (t *Text) SetLetterSpacing(s float64) {
	if t.letterSpacing == s {
		return
	}
	t.letterSpacing = s
	t.dirty = true
}

// Anchor returns the anchor; its mutators mark t dirty.
func (t *Text) Anchor() *Anchor { return &t.anchor }

// RoundPixels reports whether Transform snaps to whole pixels.
func (t *Text) RoundPixels() bool { return t.roundPixels }

// SetRoundPixels makes Transform snap translation to whole pixels.
// Layout is not affected.
func (t *Text) SetRoundPixels(round bool) { t.roundPixels = round }

// Dirty reports whether the next read runs a layout pass.
func (t *Text) Dirty() bool { return t.dirty }

// Passes returns the number of layout passes run so far.
func (t *Text) Passes() int { return t.passes }

// Update runs the layout pass if any input changed since the last one.
// A failed pass keeps the previous meshes and leaves t dirty.
func (t *Text) Update() error {
	if t.destroyed {
		return ErrDestroyed
	}
	if !t.dirty {
		return nil
	}
	return t.relayout()
}

func (t *Text) relayout() error {
	f, err := t.opts.registry.Lookup(t.font.Name)
	if err != nil {
		return err
	}

	text := t.text
	if t.opts.normalize {
		text = norm.NFC.String(text)
	}

	t.passes++
	res, err := t.layout.Run(layout.Params{
		Text:          text,
		Source:        f,
		Size:          t.font.Size,
		Align:         t.align,
		MaxWidth:      t.maxWidth,
		LetterSpacing: t.letterSpacing,
		AnchorX:       t.anchor.x,
		AnchorY:       t.anchor.y,
	})
	if err != nil {
		return fmt.Errorf("bitmaptext: layout %q: %w", t.font.Name, err)
	}

	t.measure = Measurements{
		Width:         res.Width,
		Height:        res.Height,
		MaxLineHeight: res.MaxLineHeight,
		Lines:         res.Lines,
		Glyphs:        res.Glyphs,
	}
	if err := t.publish(res); err != nil {
		return err
	}
	t.dirty = false

	Logger().Debug("bitmaptext: layout pass",
		"font", t.font.Name,
		"glyphs", res.Glyphs,
		"dropped", res.Dropped,
		"lines", res.Lines,
		"pages", len(res.Batches),
		"reused", res.Reused,
		"stale", len(res.Stale),
	)
	return nil
}

// Measurements returns the text size, running the layout pass if needed.
func (t *Text) Measurements() (Measurements, error) {
	if err := t.Update(); err != nil {
		return Measurements{}, err
	}
	return t.measure, nil
}

func (t *Text) mustMeasure() Measurements {
	m, err := t.Measurements()
	if err != nil {
		panic(err)
	}
	return m
}

// TextWidth returns the width of the widest line at target size.
// It panics if the layout pass fails; use Measurements to handle errors.
func (t *Text) TextWidth() float64 { return t.mustMeasure().Width }

// TextHeight returns the height of all lines at target size.
// It panics if the layout pass fails.
func (t *Text) TextHeight() float64 { return t.mustMeasure().Height }

// MaxLineHeight returns the tallest glyph extent at target size.
// It panics if the layout pass fails.
func (t *Text) MaxLineHeight() float64 { return t.mustMeasure().MaxLineHeight }

// Meshes returns the page meshes, running the layout pass if needed.
// The slice is owned by t and valid until the next pass.
func (t *Text) Meshes() ([]*PageMesh, error) {
	if err := t.Update(); err != nil {
		return nil, err
	}
	return t.meshes, nil
}

// Transform returns the pixel-space transform of t placed at (x, y)
// under parent, snapped to whole pixels when RoundPixels is set. parent
// must map to pixels; apply a clip-space projection with Project.
func (t *Text) Transform(parent Matrix, x, y float64) Matrix {
	m := parent.Multiply(Translate(x, y))
	if t.roundPixels {
		m = m.RoundTranslation()
	}
	return m
}

// Project returns projection * Transform(parent, x, y). Rounding happens
// in pixel space, before the projection.
func (t *Text) Project(projection, parent Matrix, x, y float64) Matrix {
	return projection.Multiply(t.Transform(parent, x, y))
}

// Destroy detaches every mesh, releases their geometry and returns the
// page batches to the arena. Later updates return ErrDestroyed.
func (t *Text) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	for _, m := range t.layout.Release() {
		t.detach(m)
		t.releaseGeometry(m)
	}
	// Idle meshes of a private arena belong to no other Text.
	if t.opts.arena == nil {
		for _, m := range t.layout.Arena().IdleMeshes() {
			t.releaseGeometry(m)
		}
	}
	t.meshes = nil
}

// FontSource returns the registered font t draws with.
func (t *Text) FontSource() (*bmfont.Font, error) {
	return t.opts.registry.Lookup(t.font.Name)
}
