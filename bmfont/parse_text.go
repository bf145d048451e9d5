package bmfont

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// attrs holds the key=value pairs of one descriptor line.
type attrs map[string]string

func (a attrs) int(key string) (int, error) {
	v, ok := a[key]
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("attribute %s: invalid integer %q", key, v)
	}
	return n, nil
}

func (a attrs) float(key string) (float64, error) {
	v, ok := a[key]
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("attribute %s: invalid number %q", key, v)
	}
	return n, nil
}

// parseText reads the AngelCode text descriptor format, one record per line:
//
//	info face="Arial" size=32
//	common lineHeight=32 base=26 scaleW=256 scaleH=256 pages=1
//	page id=0 file="arial_0.png"
//	char id=65 x=0 y=0 width=20 height=22 xoffset=0 yoffset=4 xadvance=19 page=0
//	kerning first=65 second=86 amount=-2
func parseText(r io.Reader) (*Font, error) {
	d := newDescriptor()
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		tag, a, err := splitLine(sc.Text())
		if err != nil {
			return nil, &ParseError{Line: line, Reason: err.Error()}
		}
		if err := d.applyText(line, tag, a); err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				return nil, err
			}
			return nil, &ParseError{Line: line, Reason: err.Error()}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("bmfont: read descriptor: %w", err)
	}
	return d.finish()
}

func (d *descriptor) applyText(line int, tag string, a attrs) error {
	switch tag {
	case "info":
		size, err := a.float("size")
		if err != nil {
			return err
		}
		d.setInfo(a["face"], size)
	case "common":
		lh, err := a.float("lineHeight")
		if err != nil {
			return err
		}
		base, err := a.float("base")
		if err != nil {
			return err
		}
		w, err := a.int("scaleW")
		if err != nil {
			return err
		}
		h, err := a.int("scaleH")
		if err != nil {
			return err
		}
		d.setCommon(lh, base, w, h)
	case "page":
		id, err := a.int("id")
		if err != nil {
			return err
		}
		return d.addPage(line, id, a["file"])
	case "char":
		c, err := textChar(a)
		if err != nil {
			return err
		}
		c.line = line
		d.chars = append(d.chars, c)
	case "kerning":
		first, err := a.int("first")
		if err != nil {
			return err
		}
		second, err := a.int("second")
		if err != nil {
			return err
		}
		amount, err := a.float("amount")
		if err != nil {
			return err
		}
		d.kernings = append(d.kernings, kerningEntry{first: rune(first), second: rune(second), amount: amount})
	}
	// Other records (chars count, kernings count) are ignored.
	return nil
}

func textChar(a attrs) (charEntry, error) {
	var c charEntry
	ints := []struct {
		key string
		dst *int
	}{
		{"x", &c.x}, {"y", &c.y}, {"width", &c.width}, {"height", &c.height}, {"page", &c.page},
	}
	for _, f := range ints {
		v, err := a.int(f.key)
		if err != nil {
			return c, err
		}
		*f.dst = v
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{"xoffset", &c.xOffset}, {"yoffset", &c.yOffset}, {"xadvance", &c.xAdvance},
	}
	for _, f := range floats {
		v, err := a.float(f.key)
		if err != nil {
			return c, err
		}
		*f.dst = v
	}
	if _, ok := a["id"]; !ok {
		return c, errors.New("char without id")
	}
	id, err := a.int("id")
	if err != nil {
		return c, err
	}
	c.id = rune(id)
	return c, nil
}

// splitLine splits a descriptor line into its tag and attributes.
// Quoted values may contain spaces.
func splitLine(s string) (string, attrs, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil, nil
	}
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, attrs{}, nil
	}
	tag := s[:i]
	a := make(attrs)
	rest := s[i:]
	for {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		if rest == "" {
			return tag, a, nil
		}
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 {
			return "", nil, fmt.Errorf("malformed attribute %q", rest)
		}
		key := rest[:eq]
		if strings.ContainsFunc(key, unicode.IsSpace) {
			return "", nil, fmt.Errorf("malformed attribute %q", key)
		}
		rest = rest[eq+1:]

		var val string
		if strings.HasPrefix(rest, `"`) {
			end := strings.IndexByte(rest[1:], '"')
			if end < 0 {
				return "", nil, fmt.Errorf("unterminated quote in attribute %s", key)
			}
			val = rest[1 : 1+end]
			rest = rest[end+2:]
		} else {
			end := strings.IndexFunc(rest, unicode.IsSpace)
			if end < 0 {
				end = len(rest)
			}
			val = rest[:end]
			rest = rest[end:]
		}
		a[key] = val
	}
}
