package layout

import (
	"unicode"

	"github.com/gogpu/bitmaptext/bmfont"
)

// MetricsSource supplies glyph metrics for a pass. *bmfont.Font implements it.
type MetricsSource interface {
	Glyph(r rune) (*bmfont.Glyph, bool)
	LineHeight() float64
	AuthoredSize() float64
}

// normalizeText folds "\r\n" and lone "\r" into "\n" and appends the
// runes of s to dst[:0]. Empty text becomes a single space.
func normalizeText(dst []rune, s string) []rune {
	dst = dst[:0]
	if s == "" {
		return append(dst, ' ')
	}
	prevCR := false
	for _, r := range s {
		switch {
		case r == '\r':
			dst = append(dst, '\n')
			prevCR = true
			continue
		case r == '\n' && prevCR:
			// Second half of "\r\n".
		default:
			dst = append(dst, r)
		}
		prevCR = false
	}
	return dst
}

// isBreakable reports whether a soft wrap may happen at r.
func isBreakable(r rune) bool {
	return r != '\n' && unicode.IsSpace(r)
}

// lineBreaker holds the per-pass state of the greedy wrap.
type lineBreaker struct {
	arena   *Arena
	src     MetricsSource
	spacing float64
	// maxWidth is in atlas units; zero disables wrapping.
	maxWidth float64

	x, y     float64
	line     int
	prev     rune
	hasPrev  bool
	breakPos int
	breakW   float64

	widths    []float64
	maxLineW  float64
	maxGlyphH float64
	dropped   int
}

// run places every rune of text, emitting char records into the arena.
func (lb *lineBreaker) run(text []rune) {
	lh := lb.src.LineHeight()
	lb.breakPos = -1

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\n' {
			lb.newLine(lb.x, lh)
			// Never rewind across a hard break.
			lb.breakPos = -1
			continue
		}

		if isBreakable(c) {
			lb.breakPos = i
			lb.breakW = lb.x
		}

		g, ok := lb.src.Glyph(c)
		if !ok {
			lb.dropped++
			continue
		}
		if lb.hasPrev {
			if k, ok := g.KerningAfter(lb.prev); ok {
				lb.x += k
			}
		}

		rec := lb.arena.Char(lb.arena.borrowChar())
		rec.Region = &g.Region
		rec.Line = lb.line
		rec.Code = c
		rec.X = lb.x + g.XOffset + lb.spacing/2
		rec.Y = lb.y + g.YOffset
		rec.TextIndex = i

		lb.x += g.Advance + lb.spacing
		lb.maxGlyphH = max(lb.maxGlyphH, g.YOffset+float64(g.Region.Height))
		lb.prev = c
		lb.hasPrev = true

		if lb.breakPos != -1 && lb.maxWidth > 0 && lb.x > lb.maxWidth {
			lb.retract(lb.breakPos)
			i = lb.breakPos
			lb.breakPos = -1
			lb.newLine(lb.breakW, lh)
		}
	}

	last := text[len(text)-1]
	if last == '\n' {
		// The trailing empty line adds height but no width entry.
		return
	}
	w := lb.x
	if isBreakable(last) && lb.breakPos != -1 {
		w = lb.breakW
	}
	lb.flush(w)
}

// retract returns every record produced at or after text index from.
func (lb *lineBreaker) retract(from int) {
	n := lb.arena.CharsInUse()
	for n > 0 && lb.arena.Char(n-1).TextIndex >= from {
		n--
	}
	lb.arena.truncateChars(n)
}

func (lb *lineBreaker) flush(width float64) {
	lb.widths = append(lb.widths, width)
	lb.maxLineW = max(lb.maxLineW, width)
}

func (lb *lineBreaker) newLine(width, lineHeight float64) {
	lb.flush(width)
	lb.line++
	lb.x = 0
	lb.y += lineHeight
	lb.hasPrev = false
}
