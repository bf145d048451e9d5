// Package layout turns a string and a bitmap font into per-page quad meshes.
//
// A pass runs four stages over buffers owned by the [Layout]:
//
//  1. The line breaker walks the text, applies kerning and letter spacing,
//     and greedily wraps at the last whitespace before MaxWidth.
//  2. The batcher groups glyphs by texture page and writes scaled quad
//     positions, UVs and uint16 triangle indices into each page's buffers,
//     reusing them when their capacity suffices.
//  3. The normalizer records the measurements and subtracts the anchor
//     offset from every vertex in place.
//  4. The result lists the bound page batches and the meshes that went stale.
//
// Transient records come from an [Arena], borrowed by index and released
// at the end of the same pass. Neither Layout nor Arena is safe for
// concurrent use.
package layout
