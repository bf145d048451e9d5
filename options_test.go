package bitmaptext

import (
	"testing"

	"github.com/gogpu/bitmaptext/bmfont"
	"github.com/gogpu/bitmaptext/layout"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.registry != bmfont.DefaultRegistry {
		t.Error("default registry is not bmfont.DefaultRegistry")
	}
	if o.arena != nil || o.container != nil || o.geometry != nil || o.normalize {
		t.Errorf("unexpected defaults: %+v", o)
	}
}

func TestTextOptions(t *testing.T) {
	reg := bmfont.NewRegistry()
	arena := layout.NewArena()
	c := &recordingContainer{}
	factory := NewMemoryGeometryFactory()

	tests := []struct {
		name  string
		opts  []TextOption
		check func(t *testing.T, o textOptions)
	}{
		{
			name: "registry",
			opts: []TextOption{WithRegistry(reg)},
			check: func(t *testing.T, o textOptions) {
				if o.registry != reg {
					t.Error("registry not applied")
				}
			},
		},
		{
			name: "nil registry keeps default",
			opts: []TextOption{WithRegistry(nil)},
			check: func(t *testing.T, o textOptions) {
				if o.registry != bmfont.DefaultRegistry {
					t.Error("nil registry replaced the default")
				}
			},
		},
		{
			name: "arena container geometry",
			opts: []TextOption{WithArena(arena), WithContainer(c), WithGeometryFactory(factory)},
			check: func(t *testing.T, o textOptions) {
				if o.arena != arena || o.container != c || o.geometry == nil {
					t.Errorf("options not applied: %+v", o)
				}
			},
		},
		{
			name: "last wins",
			opts: []TextOption{WithNormalization(true), WithNormalization(false)},
			check: func(t *testing.T, o textOptions) {
				if o.normalize {
					t.Error("later WithNormalization(false) did not win")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions()
			for _, opt := range tt.opts {
				opt(&o)
			}
			tt.check(t, o)
		})
	}
}

func TestDefaultRegistryLookup(t *testing.T) {
	f := testFont(t)
	f.Name = "options-default-registry"
	if err := bmfont.DefaultRegistry.Register(f); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { bmfont.DefaultRegistry.Unregister(f.Name) })

	txt, err := New("abc", Style{Font: FontDescriptor{Name: f.Name}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer txt.Destroy()
	if w := txt.TextWidth(); w != 30 {
		t.Errorf("TextWidth() = %v, want 30", w)
	}
}
