package bmfont

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// KerningPair is the pen adjustment applied to Second when it follows First.
type KerningPair struct {
	First  rune
	Second rune
	Amount float64
}

// ShapedKerning extracts pair kerning for runes from TrueType or OpenType
// data by shaping every pair with HarfBuzz and comparing the first glyph's
// advance with its advance when shaped alone. This picks up GPOS pair
// adjustments that face.Kern does not report. Pairs that shape into a
// ligature are skipped.
func ShapedKerning(data []byte, size float64, runes []rune) ([]KerningPair, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("bmfont: parse font: %w", err)
	}

	s := &pairShaper{face: face, size: fixed.Int26_6(size * 64)}
	single := make(map[rune]fixed.Int26_6, len(runes))
	for _, r := range runes {
		out := s.shape([]rune{r})
		if len(out.Glyphs) != 1 {
			continue
		}
		single[r] = out.Glyphs[0].Advance
	}

	var pairs []KerningPair
	for _, first := range runes {
		alone, ok := single[first]
		if !ok {
			continue
		}
		for _, second := range runes {
			if _, ok := single[second]; !ok {
				continue
			}
			out := s.shape([]rune{first, second})
			if len(out.Glyphs) != 2 {
				continue
			}
			if d := out.Glyphs[0].Advance - alone; d != 0 {
				pairs = append(pairs, KerningPair{First: first, Second: second, Amount: fixedToFloat(d)})
			}
		}
	}
	return pairs, nil
}

// ApplyShapedKerning computes ShapedKerning for every glyph of f at its
// authored size and records the pairs on f. It returns the number of pairs set.
func ApplyShapedKerning(f *Font, data []byte) (int, error) {
	pairs, err := ShapedKerning(data, f.AuthoredSize(), f.Runes())
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range pairs {
		if f.SetKerning(p.First, p.Second, p.Amount) {
			n++
		}
	}
	slogger().Debug("bmfont: shaped kerning applied", "name", f.Name, "pairs", n)
	return n, nil
}

type pairShaper struct {
	shaper shaping.HarfbuzzShaper
	face   *font.Face
	size   fixed.Int26_6
}

func (s *pairShaper) shape(text []rune) shaping.Output {
	return s.shaper.Shape(shaping.Input{
		Text:      text,
		RunStart:  0,
		RunEnd:    len(text),
		Direction: di.DirectionLTR,
		Face:      s.face,
		Size:      s.size,
		Script:    language.LookupScript(text[0]),
		Language:  language.NewLanguage("en"),
	})
}
