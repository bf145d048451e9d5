package bmfont

import (
	"encoding/xml"
	"fmt"
)

type xmlFont struct {
	XMLName  xml.Name     `xml:"font"`
	Info     xmlInfo      `xml:"info"`
	Common   *xmlCommon   `xml:"common"`
	Pages    []xmlPage    `xml:"pages>page"`
	Chars    []xmlChar    `xml:"chars>char"`
	Kernings []xmlKerning `xml:"kernings>kerning"`
}

type xmlInfo struct {
	Face string  `xml:"face,attr"`
	Size float64 `xml:"size,attr"`
}

type xmlCommon struct {
	LineHeight float64 `xml:"lineHeight,attr"`
	Base       float64 `xml:"base,attr"`
	ScaleW     int     `xml:"scaleW,attr"`
	ScaleH     int     `xml:"scaleH,attr"`
	Pages      int     `xml:"pages,attr"`
}

type xmlPage struct {
	ID   int    `xml:"id,attr"`
	File string `xml:"file,attr"`
}

type xmlChar struct {
	ID       int     `xml:"id,attr"`
	X        int     `xml:"x,attr"`
	Y        int     `xml:"y,attr"`
	Width    int     `xml:"width,attr"`
	Height   int     `xml:"height,attr"`
	XOffset  float64 `xml:"xoffset,attr"`
	YOffset  float64 `xml:"yoffset,attr"`
	XAdvance float64 `xml:"xadvance,attr"`
	Page     int     `xml:"page,attr"`
}

type xmlKerning struct {
	First  int     `xml:"first,attr"`
	Second int     `xml:"second,attr"`
	Amount float64 `xml:"amount,attr"`
}

// parseXML reads the AngelCode XML descriptor format.
func parseXML(data []byte) (*Font, error) {
	var doc xmlFont
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("xml: %v", err)}
	}

	d := newDescriptor()
	d.setInfo(doc.Info.Face, doc.Info.Size)
	if c := doc.Common; c != nil {
		d.setCommon(c.LineHeight, c.Base, c.ScaleW, c.ScaleH)
	}
	for _, p := range doc.Pages {
		if err := d.addPage(0, p.ID, p.File); err != nil {
			return nil, err
		}
	}
	for _, c := range doc.Chars {
		d.chars = append(d.chars, charEntry{
			id:       rune(c.ID),
			x:        c.X,
			y:        c.Y,
			width:    c.Width,
			height:   c.Height,
			xOffset:  c.XOffset,
			yOffset:  c.YOffset,
			xAdvance: c.XAdvance,
			page:     c.Page,
		})
	}
	for _, k := range doc.Kernings {
		d.kernings = append(d.kernings, kerningEntry{
			first:  rune(k.First),
			second: rune(k.Second),
			amount: k.Amount,
		})
	}
	return d.finish()
}
