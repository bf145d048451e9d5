package layout

import (
	"errors"
	"testing"

	"github.com/gogpu/bitmaptext/bmfont"
)

func TestArenaChars(t *testing.T) {
	a := NewArena()
	a.Warmup(4, 0)
	if a.CharCapacity() != 4 {
		t.Fatalf("CharCapacity = %d, want 4", a.CharCapacity())
	}

	for i := range 6 {
		idx := a.borrowChar()
		if idx != i {
			t.Fatalf("borrowChar = %d, want %d", idx, i)
		}
		a.Char(idx).TextIndex = i
	}
	if a.CharCapacity() != 6 || a.CharsInUse() != 6 {
		t.Errorf("capacity/in use = %d/%d, want 6/6", a.CharCapacity(), a.CharsInUse())
	}

	a.truncateChars(3)
	if a.CharsInUse() != 3 {
		t.Errorf("CharsInUse after truncate = %d, want 3", a.CharsInUse())
	}
	if idx := a.borrowChar(); idx != 3 || a.Char(idx).TextIndex != 0 {
		t.Error("a reborrowed record must be zeroed")
	}

	a.releaseChars()
	if a.CharsInUse() != 0 || a.CharCapacity() != 6 {
		t.Error("releaseChars must keep the slab and return every record")
	}
}

func TestArenaBatches(t *testing.T) {
	a := NewArena()
	a.Warmup(0, 2)
	if a.FreeBatches() != 2 || a.BatchesInUse() != 0 {
		t.Fatalf("after Warmup: free %d, in use %d", a.FreeBatches(), a.BatchesInUse())
	}

	b1 := a.borrowBatch()
	b2 := a.borrowBatch()
	b3 := a.borrowBatch()
	if b1 == b2 || b2 == b3 {
		t.Fatal("borrowBatch returned a batch twice")
	}
	if a.BatchesInUse() != 3 || a.FreeBatches() != 0 {
		t.Errorf("in use %d, free %d; want 3, 0", a.BatchesInUse(), a.FreeBatches())
	}

	b2.Page = bmfont.NewPage("p.png", 8, 8)
	b2.ensure(3)
	a.releaseBatch(b2)
	a.releaseBatch(b2)
	if a.FreeBatches() != 1 {
		t.Errorf("double release: free %d, want 1", a.FreeBatches())
	}
	if b2.Page != nil || b2.Total != 0 {
		t.Error("released batch must be reset")
	}

	again := a.borrowBatch()
	if again != b2 {
		t.Error("borrowBatch should reuse the released slot")
	}
	if again.Capacity() != 3 {
		t.Errorf("released batch lost its buffers: capacity %d", again.Capacity())
	}
}

func TestBatchCapacityShortfall(t *testing.T) {
	var b PageBatch
	b.ensure(1)
	r := &bmfont.Region{Width: 4, Height: 4}
	if err := b.put(r, 0, 0, 1); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := b.put(r, 0, 0, 1); !errors.Is(err, ErrCapacityShortfall) {
		t.Errorf("put past Total = %v, want ErrCapacityShortfall", err)
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", " "},
		{"a\r\nb", "a\nb"},
		{"a\rb", "a\nb"},
		{"a\r\r\nb", "a\n\nb"},
		{"a\n\rb", "a\n\nb"},
	}
	for _, tt := range tests {
		if got := string(normalizeText(nil, tt.in)); got != tt.want {
			t.Errorf("normalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
