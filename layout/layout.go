package layout

import (
	"fmt"

	"github.com/gogpu/bitmaptext/bmfont"
)

// Params are the inputs of one layout pass.
type Params struct {
	Text   string
	Source MetricsSource

	// Size is the target font size. Zero or negative uses the authored size.
	Size float64

	Align Align

	// MaxWidth is the wrap width at target size. Zero disables wrapping.
	MaxWidth float64

	LetterSpacing float64

	// AnchorX and AnchorY are fractions of the text size subtracted from
	// every vertex. They are not clamped.
	AnchorX, AnchorY float64
}

// Result describes the output of a pass. It is owned by the Layout and
// overwritten by the next Run.
type Result struct {
	// Lines is the number of lines, including a trailing empty one.
	Lines int
	// LineWidths has one entry per flushed line. A trailing empty line
	// after a final line break has none.
	LineWidths   []float64
	AlignOffsets []float64
	MaxLineWidth float64

	// Scale is target size over authored size.
	Scale float64

	// Width, Height and MaxLineHeight are measured at target size,
	// before the anchor is applied.
	Width         float64
	Height        float64
	MaxLineHeight float64

	Glyphs  int
	Dropped int

	// Batches are the bound page batches in first-seen page order.
	Batches []*PageBatch

	// Stale lists meshes that were bound last pass and are not anymore.
	Stale []*Mesh

	// Reused counts batches whose buffers were kept from an earlier pass.
	Reused int
}

// Meshes appends the mesh of every bound batch to dst.
func (r *Result) Meshes(dst []*Mesh) []*Mesh {
	for _, b := range r.Batches {
		dst = append(dst, b.Mesh)
	}
	return dst
}

// Layout runs passes for one text object and keeps its page batches
// between passes.
type Layout struct {
	arena *Arena

	runes   []rune
	breaker lineBreaker
	result  Result

	active []*PageBatch
	spare  []*PageBatch
	byPage map[uint64]*PageBatch
	counts map[uint64]int
	order  []*bmfont.Page
}

// New creates a Layout borrowing from arena. A nil arena gets a private one.
func New(arena *Arena) *Layout {
	if arena == nil {
		arena = NewArena()
	}
	return &Layout{
		arena:  arena,
		byPage: make(map[uint64]*PageBatch),
		counts: make(map[uint64]int),
	}
}

// Arena returns the arena the layout borrows from.
func (l *Layout) Arena() *Arena { return l.arena }

// Active returns the batches bound by the last successful pass.
func (l *Layout) Active() []*PageBatch { return l.active }

// Run lays out p.Text. On error the batches of the previous pass are left
// untouched.
func (l *Layout) Run(p Params) (*Result, error) {
	if p.Source == nil {
		return nil, ErrNilSource
	}
	authored := p.Source.AuthoredSize()
	if authored <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAuthoredSize, authored)
	}
	size := p.Size
	if size <= 0 {
		size = authored
	}
	scale := size / authored

	l.runes = normalizeText(l.runes, p.Text)
	l.arena.releaseChars()
	defer l.arena.releaseChars()

	lb := &l.breaker
	*lb = lineBreaker{
		arena:    l.arena,
		src:      p.Source,
		spacing:  p.LetterSpacing,
		maxWidth: p.MaxWidth * authored / size,
		widths:   lb.widths[:0],
	}
	lb.run(l.runes)

	if err := l.countPages(); err != nil {
		return nil, err
	}

	r := &l.result
	r.Lines = lb.line + 1
	r.LineWidths = lb.widths
	r.MaxLineWidth = lb.maxLineW
	r.AlignOffsets = r.AlignOffsets[:0]
	for _, w := range lb.widths {
		r.AlignOffsets = append(r.AlignOffsets, p.Align.Offset(lb.maxLineW, w))
	}
	r.Scale = scale
	r.Glyphs = l.arena.CharsInUse()
	r.Dropped = lb.dropped

	if err := l.batch(scale); err != nil {
		return nil, err
	}

	r.Width = lb.maxLineW * scale
	r.Height = (lb.y + p.Source.LineHeight()) * scale
	r.MaxLineHeight = lb.maxGlyphH * scale
	applyAnchor(r.Batches, r.Width*p.AnchorX, r.Height*p.AnchorY)

	return r, nil
}

// countPages tallies glyphs per page in first-seen order.
func (l *Layout) countPages() error {
	l.order = l.order[:0]
	clear(l.counts)
	for i := range l.arena.CharsInUse() {
		c := l.arena.Char(i)
		page := c.Region.Page
		if page == nil {
			return fmt.Errorf("%w: %q", ErrNilPage, c.Code)
		}
		n, seen := l.counts[page.ID]
		if !seen {
			l.order = append(l.order, page)
		}
		l.counts[page.ID] = n + 1
	}
	for _, page := range l.order {
		if n := l.counts[page.ID]; n > MaxGlyphsPerPage {
			return fmt.Errorf("%w: page %d has %d glyphs, limit %d", ErrPageOverflow, page.ID, n, MaxGlyphsPerPage)
		}
	}
	return nil
}

// batch binds a batch per page, preferring the one that held the same
// page last pass, and fills the quads.
func (l *Layout) batch(scale float64) error {
	r := &l.result
	prev := l.active
	next := l.spare[:0]
	r.Reused = 0
	for _, page := range l.order {
		b, ok := l.byPage[page.ID]
		if !ok {
			b = l.arena.borrowBatch()
			b.Page = page
		}
		if b.ensure(l.counts[page.ID]) {
			r.Reused++
		}
		if b.Mesh == nil {
			b.Mesh = &Mesh{batch: b, Tint: 0xFFFFFF}
		}
		b.Mesh.Page = page
		b.Mesh.Size = 6 * b.Total
		next = append(next, b)
	}

	r.Stale = r.Stale[:0]
	clear(l.byPage)
	for _, b := range next {
		l.byPage[b.Page.ID] = b
	}
	for _, b := range prev {
		if l.byPage[b.Page.ID] != b {
			r.Stale = append(r.Stale, b.Mesh)
			l.arena.releaseBatch(b)
		}
	}
	r.Batches = next
	l.active = next
	l.spare = prev

	for i := range l.arena.CharsInUse() {
		c := l.arena.Char(i)
		b := l.byPage[c.Region.Page.ID]
		x := (c.X + r.AlignOffsets[c.Line]) * scale
		y := c.Y * scale
		if err := b.put(c.Region, x, y, scale); err != nil {
			return fmt.Errorf("page %d: %w", b.Page.ID, err)
		}
	}
	return nil
}

// Release returns every bound batch to the arena and returns their meshes.
func (l *Layout) Release() []*Mesh {
	var meshes []*Mesh
	for _, b := range l.active {
		meshes = append(meshes, b.Mesh)
		l.arena.releaseBatch(b)
	}
	l.active = nil
	l.result.Batches = nil
	clear(l.byPage)
	return meshes
}

// applyAnchor subtracts (dx, dy) from every drawn vertex.
func applyAnchor(batches []*PageBatch, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	fx, fy := float32(dx), float32(dy)
	for _, b := range batches {
		v := b.Vertices[:b.Total*8]
		for i := 0; i < len(v); i += 2 {
			v[i] -= fx
			v[i+1] -= fy
		}
	}
}
