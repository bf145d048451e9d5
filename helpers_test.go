package bitmaptext

import (
	"testing"

	"github.com/gogpu/bitmaptext/bmfont"
)

// testFont returns a font named "test" authored at size 10 with line
// height 10. Every glyph advances 10 and is 8x10; 'x' and 'y' live on a
// second page.
func testFont(t testing.TB) *bmfont.Font {
	t.Helper()
	f := bmfont.NewFont("test", 10, 10)
	p0 := bmfont.NewPage("test_0.png", 64, 64)
	p1 := bmfont.NewPage("test_1.png", 64, 64)
	f.Pages = []*bmfont.Page{p0, p1}
	for i, r := range "abcdefghijklmnopqrstuvwxyz " {
		page := p0
		if r == 'x' || r == 'y' {
			page = p1
		}
		g := &bmfont.Glyph{
			Code:    r,
			Advance: 10,
			Region:  bmfont.Region{X: (i % 8) * 8, Y: (i / 8) * 10, Width: 8, Height: 10, Page: page},
		}
		g.Region.SetUVs(page.Width, page.Height)
		f.AddGlyph(g)
	}
	return f
}

func testRegistry(t testing.TB) *bmfont.Registry {
	t.Helper()
	r := bmfont.NewRegistry()
	if err := r.Register(testFont(t)); err != nil {
		t.Fatal(err)
	}
	return r
}

func newTestText(t testing.TB, text string, style Style, opts ...TextOption) *Text {
	t.Helper()
	if style.Font.Name == "" {
		style.Font.Name = "test"
	}
	opts = append([]TextOption{WithRegistry(testRegistry(t))}, opts...)
	txt, err := New(text, style, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return txt
}

// recordingContainer is a Container that logs attach and detach calls.
type recordingContainer struct {
	children []*PageMesh
	added    int
	removed  int
}

func (c *recordingContainer) AddChild(m *PageMesh) {
	c.children = append(c.children, m)
	c.added++
}

func (c *recordingContainer) RemoveChild(m *PageMesh) {
	for i, child := range c.children {
		if child == m {
			c.children = append(c.children[:i], c.children[i+1:]...)
			c.removed++
			return
		}
	}
}

func (c *recordingContainer) HasChild(m *PageMesh) bool {
	for _, child := range c.children {
		if child == m {
			return true
		}
	}
	return false
}

// releasingGeometry counts Release calls.
type releasingGeometry struct {
	MemoryGeometry
	released *int
}

func (g *releasingGeometry) Release() error {
	*g.released++
	return nil
}
