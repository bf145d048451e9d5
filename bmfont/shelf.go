package bmfont

// shelfPacker places rectangles left to right on horizontal shelves.
// A shelf is as tall as the tallest item placed on it; a new shelf starts
// below the last one when no existing shelf has room.
type shelfPacker struct {
	width   int
	height  int
	padding int
	shelves []shelf
}

type shelf struct {
	y      int
	height int
	x      int
}

func newShelfPacker(width, height, padding int) *shelfPacker {
	return &shelfPacker{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// allocate returns the top-left corner for a w×h rectangle.
func (p *shelfPacker) allocate(w, h int) (x, y int, ok bool) {
	paddedW := w + p.padding
	paddedH := h + p.padding

	for i := range p.shelves {
		s := &p.shelves[i]
		if s.x+paddedW > p.width {
			continue
		}
		if h > s.height {
			// Only the last shelf can grow taller.
			if i != len(p.shelves)-1 || s.y+paddedH > p.height {
				continue
			}
			s.height = h
		}
		x, y = s.x, s.y
		s.x += paddedW
		return x, y, true
	}

	newY := 0
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		newY = last.y + last.height + p.padding
	}
	if paddedW > p.width || newY+paddedH > p.height {
		return -1, -1, false
	}
	p.shelves = append(p.shelves, shelf{y: newY, height: h, x: paddedW})
	return 0, newY, true
}

// fits reports whether a w×h rectangle fits on an empty packer.
func (p *shelfPacker) fits(w, h int) bool {
	return w+p.padding <= p.width && h+p.padding <= p.height
}
