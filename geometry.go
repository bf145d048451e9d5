package bitmaptext

import (
	"slices"

	"github.com/gogpu/bitmaptext/layout"
)

// PageMesh is the renderable quad mesh of one texture page.
type PageMesh = layout.Mesh

// Geometry receives the finished arrays of a page mesh.
//
// Positions and texcoords hold 8 floats per glyph, indices 6 per glyph.
// The arrays may be longer than the drawn range; SetSize gives the number
// of indices to draw.
type Geometry = layout.Geometry

// GeometryFactory creates the upload target of a new page mesh.
type GeometryFactory interface {
	NewGeometry(m *PageMesh) (Geometry, error)
}

// GeometryFactoryFunc adapts a function to GeometryFactory.
type GeometryFactoryFunc func(m *PageMesh) (Geometry, error)

// NewGeometry calls f(m).
func (f GeometryFactoryFunc) NewGeometry(m *PageMesh) (Geometry, error) { return f(m) }

// releaser is implemented by geometries holding resources.
type releaser interface {
	Release() error
}

// MemoryGeometry keeps copies of the uploaded arrays in memory.
// It is useful for tests and for inspecting layout output.
type MemoryGeometry struct {
	Size      int
	Positions []float32
	TexCoords []float32
	Indices   []uint16

	// Updates counts the calls of each Update method.
	Updates int
}

// NewMemoryGeometryFactory returns a factory of MemoryGeometry.
func NewMemoryGeometryFactory() GeometryFactory {
	return GeometryFactoryFunc(func(*PageMesh) (Geometry, error) {
		return &MemoryGeometry{}, nil
	})
}

// SetSize records the number of indices to draw.
func (g *MemoryGeometry) SetSize(n int) { g.Size = n }

// UpdatePositions copies v into Positions.
func (g *MemoryGeometry) UpdatePositions(v []float32) error {
	g.Positions = append(g.Positions[:0], v...)
	g.Updates++
	return nil
}

// UpdateTexCoords copies uv into TexCoords.
func (g *MemoryGeometry) UpdateTexCoords(uv []float32) error {
	g.TexCoords = append(g.TexCoords[:0], uv...)
	g.Updates++
	return nil
}

// UpdateIndices copies idx into Indices.
func (g *MemoryGeometry) UpdateIndices(idx []uint16) error {
	g.Indices = append(g.Indices[:0], idx...)
	g.Updates++
	return nil
}

// DrawnPositions returns the positions within the drawn range.
func (g *MemoryGeometry) DrawnPositions() []float32 {
	return slices.Clip(g.Positions[:g.Size/6*8])
}
