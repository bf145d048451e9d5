package layout

import "github.com/gogpu/bitmaptext/bmfont"

// MaxGlyphsPerPage is the most glyphs one page batch can index with uint16.
const MaxGlyphsPerPage = 1 << 14

// PageBatch accumulates the quads of one texture page.
//
// Vertices and UVs hold 8 floats per glyph, Indices 6 per glyph. The
// slices may be longer than 6*Total when a larger previous pass left
// capacity behind; only the leading Total glyphs are meaningful.
type PageBatch struct {
	Page     *bmfont.Page
	Total    int
	Vertices []float32
	UVs      []float32
	Indices  []uint16

	// Mesh is created on first use and stays with the batch.
	Mesh *Mesh

	index int
	slot  int
	inUse bool
}

// Capacity returns the number of glyphs the buffers can hold.
func (b *PageBatch) Capacity() int { return len(b.Indices) / 6 }

// ensure sizes the batch for total glyphs and reports whether the
// existing buffers were reused.
func (b *PageBatch) ensure(total int) bool {
	b.Total = total
	b.index = 0
	if b.Capacity() >= total {
		return true
	}
	b.Vertices = make([]float32, total*8)
	b.UVs = make([]float32, total*8)
	b.Indices = make([]uint16, total*6)
	return false
}

// put writes the quad of r at the scaled position (x, y).
func (b *PageBatch) put(r *bmfont.Region, x, y, scale float64) error {
	if b.index >= b.Total {
		return ErrCapacityShortfall
	}
	slot := b.index
	b.index++

	w := float64(r.Width) * scale
	h := float64(r.Height) * scale
	x0, y0 := float32(x), float32(y)
	x1, y1 := float32(x+w), float32(y+h)

	v := b.Vertices[slot*8 : slot*8+8]
	v[0], v[1] = x0, y0
	v[2], v[3] = x1, y0
	v[4], v[5] = x1, y1
	v[6], v[7] = x0, y1

	copy(b.UVs[slot*8:slot*8+8], r.UVs[:])

	base := uint16(slot * 4) //nolint:gosec // slot < MaxGlyphsPerPage
	idx := b.Indices[slot*6 : slot*6+6]
	idx[0] = base
	idx[1] = base + 1
	idx[2] = base + 2
	idx[3] = base
	idx[4] = base + 2
	idx[5] = base + 3
	return nil
}

func (b *PageBatch) reset() {
	b.Page = nil
	b.Total = 0
	b.index = 0
	if b.Mesh != nil {
		b.Mesh.Page = nil
		b.Mesh.Size = 0
	}
}

// Geometry receives the finished arrays of a page mesh, typically a GPU
// vertex/index buffer set.
type Geometry interface {
	SetSize(n int)
	UpdatePositions(v []float32) error
	UpdateTexCoords(uv []float32) error
	UpdateIndices(idx []uint16) error
}

// Mesh is the renderable of one page batch. Its identity is stable for as
// long as its batch is bound to the same page.
type Mesh struct {
	Page *bmfont.Page

	// Size is the number of indices to draw, always 6 per glyph.
	Size int

	// Tint is the 0xRRGGBB color multiplied into the page texture.
	Tint uint32

	// Geometry is the upload target, nil until the owner creates one.
	Geometry Geometry

	// GeometryOwner identifies who created Geometry. A mesh borrowed from
	// a shared arena may carry geometry of another owner.
	GeometryOwner any

	batch *PageBatch
}

// Glyphs returns the number of quads in the mesh.
func (m *Mesh) Glyphs() int { return m.Size / 6 }

// Vertices returns the positions of the drawn quads.
func (m *Mesh) Vertices() []float32 { return m.batch.Vertices[:m.Glyphs()*8] }

// UVs returns the texture coordinates of the drawn quads.
func (m *Mesh) UVs() []float32 { return m.batch.UVs[:m.Glyphs()*8] }

// Indices returns the triangle indices of the drawn quads.
func (m *Mesh) Indices() []uint16 { return m.batch.Indices[:m.Size] }
