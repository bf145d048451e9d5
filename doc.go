// Package bitmaptext draws strings with bitmap font atlases.
//
// A [Text] lays its string out with a registered [bmfont.Font] and
// produces one quad mesh per texture page: positions, texture coordinates
// and uint16 triangle indices ready for a GPU vertex/index buffer pair.
//
// # Example usage
//
//	f, err := bmfont.LoadFile("desyrel.xml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bmfont.DefaultRegistry.Register(f)
//
//	txt, err := bitmaptext.New("Hello, GoGPU!", bitmaptext.Style{
//	    Font:     bitmaptext.FontDescriptor{Name: "Desyrel", Size: 48},
//	    Align:    bitmaptext.AlignCenter,
//	    MaxWidth: 400,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	txt.Anchor().SetScalar(0.5)
//
//	meshes, err := txt.Meshes()
//
// # Layout passes
//
// Setters for text, font, alignment, max width, letter spacing and anchor
// mark the Text dirty. The next read of measurements or meshes runs one
// full pass; further reads reuse the result. Tint changes restamp the
// existing meshes without a pass.
//
// Page meshes and their buffers are reused across passes while their page
// stays in use. Transient per-glyph records come from a [layout.Arena];
// texts can share one with [WithArena].
//
// # GPU upload
//
// Meshes push their arrays into a [Geometry] made by the configured
// [GeometryFactory]. Package gpu provides a wgpu-backed factory and a
// renderer for the bitmap text pipeline.
package bitmaptext
