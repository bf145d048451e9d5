package layout

import "github.com/gogpu/bitmaptext/bmfont"

// CharRecord is one positioned glyph of a pass, in unscaled atlas units.
type CharRecord struct {
	Region *bmfont.Region
	Line   int
	Code   rune
	X, Y   float64

	// TextIndex is the rune index in the normalized text that produced
	// the record.
	TextIndex int
}

// Arena owns the transient records of layout passes.
//
// Char records live in a slab and are borrowed by index; the whole slab
// is released at the end of each pass. Page batches live in a slab of
// pointers with a free list of slot indices, so a batch and its buffers
// survive across passes for as long as a page stays in use.
//
// An Arena may be shared by several Layouts confined to one goroutine.
type Arena struct {
	chars  []CharRecord
	nchars int

	batches []*PageBatch
	free    []int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Warmup preallocates room for chars records and pages free batches.
func (a *Arena) Warmup(chars, pages int) {
	if chars > len(a.chars) {
		grown := make([]CharRecord, chars)
		copy(grown, a.chars)
		a.chars = grown
	}
	for len(a.free) < pages {
		b := &PageBatch{slot: len(a.batches)}
		a.batches = append(a.batches, b)
		a.free = append(a.free, b.slot)
	}
}

// CharCapacity returns the number of char records in the slab.
func (a *Arena) CharCapacity() int { return len(a.chars) }

// CharsInUse returns the number of borrowed char records.
func (a *Arena) CharsInUse() int { return a.nchars }

// BatchesInUse returns the number of borrowed page batches.
func (a *Arena) BatchesInUse() int { return len(a.batches) - len(a.free) }

// FreeBatches returns the number of page batches ready to borrow.
func (a *Arena) FreeBatches() int { return len(a.free) }

// IdleMeshes returns the meshes of batches waiting in the free list.
func (a *Arena) IdleMeshes() []*Mesh {
	var meshes []*Mesh
	for _, slot := range a.free {
		if m := a.batches[slot].Mesh; m != nil {
			meshes = append(meshes, m)
		}
	}
	return meshes
}

// Char returns the record at slab index i.
// The pointer is valid until the next borrowChar.
func (a *Arena) Char(i int) *CharRecord { return &a.chars[i] }

// borrowChar returns the index of a zeroed record.
func (a *Arena) borrowChar() int {
	if a.nchars == len(a.chars) {
		a.chars = append(a.chars, CharRecord{})
	}
	i := a.nchars
	a.nchars++
	a.chars[i] = CharRecord{}
	return i
}

// truncateChars returns every record at index n or later.
func (a *Arena) truncateChars(n int) {
	if n < a.nchars {
		a.nchars = n
	}
}

// releaseChars returns all char records.
func (a *Arena) releaseChars() {
	for i := range a.nchars {
		a.chars[i].Region = nil
	}
	a.nchars = 0
}

func (a *Arena) borrowBatch() *PageBatch {
	if n := len(a.free); n > 0 {
		b := a.batches[a.free[n-1]]
		a.free = a.free[:n-1]
		b.inUse = true
		return b
	}
	b := &PageBatch{slot: len(a.batches), inUse: true}
	a.batches = append(a.batches, b)
	return b
}

// releaseBatch resets b and returns its slot. Buffers and mesh are kept
// for the next borrower.
func (a *Arena) releaseBatch(b *PageBatch) {
	if !b.inUse {
		return
	}
	b.reset()
	b.inUse = false
	a.free = append(a.free, b.slot)
}
