// Package bmfont describes bitmap font atlases: glyph metrics, texture
// regions and the pages they live on.
//
// A [Font] is the glyph metrics source consumed by the layout pipeline.
// Fonts come from three places:
//
//   - AngelCode BMFont descriptors in text or XML form ([Load], [LoadFile])
//   - rasterizing a golang.org/x/image font.Face into atlas pages ([Build])
//   - hand-assembled glyph tables ([NewFont], [Font.AddGlyph])
//
// Fonts are looked up by name through a [Registry]. Most programs register
// into [DefaultRegistry]:
//
//	f, err := bmfont.LoadFile("assets/desyrel.xml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bmfont.DefaultRegistry.Register(f)
//
// Kerning is pairwise and keyed by the previous character. [ShapedKerning]
// extracts pair adjustments from TrueType data with go-text/typesetting.
package bmfont
