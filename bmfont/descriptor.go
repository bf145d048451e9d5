package bmfont

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
)

// Load reads a BMFont descriptor in either the text or the XML format.
// The format is detected from the first non-blank byte.
func Load(r io.Reader) (*Font, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("bmfont: read descriptor: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return parseXML(trimmed)
	}
	return parseText(bytes.NewReader(data))
}

// LoadFile reads a BMFont descriptor from path.
func LoadFile(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bmfont: %w", err)
	}
	f, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// charEntry is one char line of a descriptor.
type charEntry struct {
	line          int
	id            rune
	x, y          int
	width, height int
	xOffset       float64
	yOffset       float64
	xAdvance      float64
	page          int
}

type kerningEntry struct {
	first, second rune
	amount        float64
}

// descriptor accumulates the records of either descriptor format and
// assembles the Font once every record has been read.
type descriptor struct {
	name       string
	size       float64
	lineHeight float64
	base       float64
	scaleW     int
	scaleH     int
	sawCommon  bool

	pages    map[int]string
	chars    []charEntry
	kernings []kerningEntry
}

func newDescriptor() *descriptor {
	return &descriptor{pages: make(map[int]string)}
}

func (d *descriptor) setInfo(face string, size float64) {
	d.name = face
	// BMFont writes a negative size when the atlas matches character height.
	d.size = math.Abs(size)
}

func (d *descriptor) setCommon(lineHeight, base float64, scaleW, scaleH int) {
	d.lineHeight = lineHeight
	d.base = base
	d.scaleW = scaleW
	d.scaleH = scaleH
	d.sawCommon = true
}

func (d *descriptor) addPage(line, id int, file string) error {
	if _, dup := d.pages[id]; dup {
		return &ParseError{Line: line, Reason: fmt.Sprintf("duplicate page id %d", id)}
	}
	d.pages[id] = file
	return nil
}

func (d *descriptor) finish() (*Font, error) {
	if !d.sawCommon {
		return nil, &ParseError{Reason: "missing common record"}
	}
	if d.lineHeight <= 0 {
		return nil, &ParseError{Reason: "common lineHeight must be positive"}
	}

	size := d.size
	if size == 0 {
		size = d.lineHeight
	}
	f := NewFont(d.name, size, d.lineHeight)
	f.Base = d.base

	ids := make([]int, 0, len(d.pages))
	for id := range d.pages {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	byID := make(map[int]*Page, len(ids))
	for _, id := range ids {
		p := NewPage(d.pages[id], d.scaleW, d.scaleH)
		byID[id] = p
		f.Pages = append(f.Pages, p)
	}

	for _, c := range d.chars {
		page, ok := byID[c.page]
		if !ok {
			return nil, &ParseError{Line: c.line, Reason: fmt.Sprintf("char %d references unknown page %d", c.id, c.page)}
		}
		g := &Glyph{
			Code:    c.id,
			Advance: c.xAdvance,
			XOffset: c.xOffset,
			YOffset: c.yOffset,
			Region: Region{
				X:      c.x,
				Y:      c.y,
				Width:  c.width,
				Height: c.height,
				Page:   page,
			},
		}
		g.Region.SetUVs(page.Width, page.Height)
		f.AddGlyph(g)
	}

	skipped := 0
	for _, k := range d.kernings {
		if !f.SetKerning(k.first, k.second, k.amount) {
			skipped++
		}
	}

	slogger().Debug("bmfont: descriptor loaded",
		"name", f.Name,
		"glyphs", f.Len(),
		"pages", len(f.Pages),
		"kernings", len(d.kernings)-skipped,
	)
	if skipped > 0 {
		slogger().Warn("bmfont: kerning pairs reference missing glyphs",
			"name", f.Name, "skipped", skipped)
	}
	return f, nil
}
