package bmfont

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

func TestShapedKerning(t *testing.T) {
	runes := []rune("AVTo.")
	pairs, err := ShapedKerning(goregular.TTF, 32, runes)
	if err != nil {
		t.Fatalf("ShapedKerning: %v", err)
	}
	for _, p := range pairs {
		if p.Amount == 0 {
			t.Errorf("pair %q%q has zero amount", p.First, p.Second)
		}
		if !strings.ContainsRune(string(runes), p.First) || !strings.ContainsRune(string(runes), p.Second) {
			t.Errorf("pair %q%q outside the requested runes", p.First, p.Second)
		}
	}
}

func TestShapedKerningErrors(t *testing.T) {
	if _, err := ShapedKerning(nil, 32, []rune("AV")); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("ShapedKerning(nil) = %v, want ErrEmptyFontData", err)
	}
	if _, err := ShapedKerning([]byte("not a font"), 32, []rune("AV")); err == nil {
		t.Error("ShapedKerning on garbage data should fail")
	}
}

func TestApplyShapedKerning(t *testing.T) {
	otf, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		t.Fatal(err)
	}
	defer face.Close()

	cfg := DefaultBuildConfig()
	cfg.Name = "goregular"
	cfg.Size = 24
	cfg.Runes = []rune("AVTo")
	cfg.Kerning = false
	f, err := Build(face, cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	pairs, err := ShapedKerning(goregular.TTF, 24, f.Runes())
	if err != nil {
		t.Fatal(err)
	}
	n, err := ApplyShapedKerning(f, goregular.TTF)
	if err != nil {
		t.Fatalf("ApplyShapedKerning: %v", err)
	}
	if n != len(pairs) {
		t.Errorf("applied %d pairs, want %d", n, len(pairs))
	}
	for _, p := range pairs {
		g, _ := f.Glyph(p.Second)
		if k, ok := g.KerningAfter(p.First); !ok || k != p.Amount {
			t.Errorf("kerning %q%q = %v, want %v", p.First, p.Second, k, p.Amount)
		}
	}
}
