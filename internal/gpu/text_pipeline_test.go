//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"golang.org/x/image/font/basicfont"

	"github.com/gogpu/bitmaptext"
	"github.com/gogpu/bitmaptext/bmfont"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func TestShaderSource(t *testing.T) {
	source := ShaderSource()
	if source == "" {
		t.Fatal("bitmap text shader source is empty")
	}
	for _, want := range []string{
		"TextUniforms",
		"VertexInput",
		"VertexOutput",
		"page_texture",
		"page_sampler",
		"vs_main",
		"fs_main",
		"@group(0) @binding(0)",
		"@group(1) @binding(0)",
		"@group(1) @binding(1)",
	} {
		if !strings.Contains(source, want) {
			t.Errorf("shader source missing %q", want)
		}
	}
}

func TestCompileShader(t *testing.T) {
	code, err := CompileShader(ShaderSource())
	if err != nil {
		t.Fatalf("CompileShader: %v", err)
	}
	if len(code) == 0 {
		t.Fatal("empty SPIR-V")
	}
	if code[0] != 0x07230203 {
		t.Errorf("SPIR-V magic = %#x, want 0x07230203", code[0])
	}

	if _, err := CompileShader("fn broken("); err == nil {
		t.Error("expected error for invalid WGSL")
	}
}

func TestMeshGeometry(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	if _, err := NewMeshGeometry(nil, queue); !errors.Is(err, ErrNilDevice) {
		t.Fatalf("nil device: err = %v, want ErrNilDevice", err)
	}

	g, err := NewMeshGeometry(device, queue)
	if err != nil {
		t.Fatal(err)
	}
	if g.drawable() {
		t.Error("empty geometry should not be drawable")
	}

	// Two glyphs.
	g.SetSize(12)
	if err := g.UpdatePositions(make([]float32, 16)); err != nil {
		t.Fatal(err)
	}
	if err := g.UpdateTexCoords(make([]float32, 16)); err != nil {
		t.Fatal(err)
	}
	if err := g.UpdateIndices(make([]uint16, 12)); err != nil {
		t.Fatal(err)
	}
	pos, uv, idx := g.Capacity()
	if pos != 64 || uv != 64 || idx != 24 {
		t.Errorf("Capacity() = %d, %d, %d; want 64, 64, 24", pos, uv, idx)
	}
	if !g.drawable() || g.IndexCount() != 12 {
		t.Errorf("drawable = %v, IndexCount = %d", g.drawable(), g.IndexCount())
	}

	// Smaller uploads keep the buffers.
	first := g.positions.buf
	if err := g.UpdatePositions(make([]float32, 8)); err != nil {
		t.Fatal(err)
	}
	if g.positions.buf != first || g.positions.cap != 64 {
		t.Error("smaller upload reallocated the position buffer")
	}

	// Uploads stage through one scratch slice.
	staged := &g.scratch[:1][0]
	if err := g.UpdateTexCoords(make([]float32, 8)); err != nil {
		t.Fatal(err)
	}
	if err := g.UpdateIndices(make([]uint16, 6)); err != nil {
		t.Fatal(err)
	}
	if &g.scratch[:1][0] != staged {
		t.Error("uploads that fit the scratch buffer reallocated it")
	}

	// Larger uploads grow them.
	if err := g.UpdatePositions(make([]float32, 32)); err != nil {
		t.Fatal(err)
	}
	if g.positions.cap != 128 {
		t.Errorf("grown capacity = %d, want 128", g.positions.cap)
	}

	if err := g.Release(); err != nil {
		t.Fatal(err)
	}
	if err := g.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}
	if !g.Released() || g.drawable() {
		t.Error("released geometry should not be drawable")
	}
	if err := g.UpdateIndices([]uint16{0}); !errors.Is(err, ErrGeometryReleased) {
		t.Errorf("update after release: err = %v, want ErrGeometryReleased", err)
	}
}

func TestUint16BytesPadding(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 4},
		{2, 4},
		{3, 8},
		{6, 12},
	}
	for _, tt := range tests {
		idx := make([]uint16, tt.n)
		for i := range idx {
			idx[i] = uint16(i + 1) //nolint:gosec // test data
		}
		// Stale scratch bytes must not leak into the padding.
		scratch := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
		data := uint16Bytes(scratch, idx)
		if len(data) != tt.want {
			t.Errorf("uint16Bytes(%d) = %d bytes, want %d", tt.n, len(data), tt.want)
			continue
		}
		for i := range idx {
			if got := binary.LittleEndian.Uint16(data[i*2:]); got != idx[i] {
				t.Errorf("index %d = %d, want %d", i, got, idx[i])
			}
		}
		for i, b := range data[tt.n*2:] {
			if b != 0 {
				t.Errorf("uint16Bytes(%d) padding byte %d = %#x, want 0", tt.n, i, b)
			}
		}
	}
}

func TestMakeUniform(t *testing.T) {
	m := bitmaptext.Translate(3, 4).Multiply(bitmaptext.Scale(2, 5))
	data := makeUniform(m, bitmaptext.RGBA{R: 1, G: 0.5, B: 0, A: 0.5})
	if len(data) != uniformSize {
		t.Fatalf("uniform size = %d, want %d", len(data), uniformSize)
	}
	word := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}

	checks := []struct {
		name string
		idx  int
		want float32
	}{
		{"scale x", 0, 2},
		{"scale y", 5, 5},
		{"z", 10, 1},
		{"translate x", 12, 3},
		{"translate y", 13, 4},
		{"w", 15, 1},
		{"red", 16, 0.5},
		{"green", 17, 0.25},
		{"blue", 18, 0},
		{"alpha", 19, 0.5},
	}
	for _, c := range checks {
		if got := word(c.idx); got != c.want {
			t.Errorf("%s = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestTextPipelineInit(t *testing.T) {
	tests := []struct {
		name   string
		config PipelineConfig
	}{
		{"default", DefaultPipelineConfig()},
		{"zero config", PipelineConfig{}},
		{"stencil msaa", PipelineConfig{DepthStencil: true, SampleCount: 4}},
		{"nearest spirv", PipelineConfig{NearestFilter: true, UseSPIRV: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device, queue, cleanup := createNoopDevice(t)
			defer cleanup()

			p, err := NewTextPipeline(device, queue, tt.config)
			if err != nil {
				t.Fatal(err)
			}
			defer p.Destroy()

			if p.Config().Format != gputypes.TextureFormatBGRA8Unorm && tt.config.Format == 0 {
				t.Error("zero format should default to BGRA8Unorm")
			}
			if p.Initialized() {
				t.Error("pipeline initialized before Init")
			}
			if err := p.Init(); err != nil {
				t.Fatalf("Init: %v", err)
			}
			if !p.Initialized() || p.TextureLayout() == nil || p.Sampler() == nil {
				t.Error("Init left resources unset")
			}
			if err := p.Init(); err != nil {
				t.Fatalf("second Init: %v", err)
			}

			p.Destroy()
			if p.Initialized() || p.Sampler() != nil {
				t.Error("Destroy left resources set")
			}
		})
	}
}

func TestTextPipelineNotInitialized(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	if _, err := NewTextPipeline(nil, nil, DefaultPipelineConfig()); !errors.Is(err, ErrNilDevice) {
		t.Errorf("nil device: err = %v", err)
	}

	p, err := NewTextPipeline(device, queue, DefaultPipelineConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Prepare(nil); !errors.Is(err, ErrPipelineNotInitialized) {
		t.Errorf("Prepare: err = %v, want ErrPipelineNotInitialized", err)
	}
	if err := p.RecordDraws(nil, &Frame{}); !errors.Is(err, ErrPipelineNotInitialized) {
		t.Errorf("RecordDraws: err = %v, want ErrPipelineNotInitialized", err)
	}
}

// textFixture builds a Text over the 7x13 basic font with GPU geometry.
type textFixture struct {
	device   hal.Device
	queue    hal.Queue
	pipeline *TextPipeline
	registry *bmfont.Registry
	factory  *GeometryFactory
	binds    int
}

func newTextFixture(t *testing.T) *textFixture {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	t.Cleanup(cleanup)

	cfg := bmfont.DefaultBuildConfig()
	cfg.Name = "basic"
	cfg.PageWidth, cfg.PageHeight = 64, 64
	f, err := bmfont.Build(basicfont.Face7x13, cfg)
	if err != nil {
		t.Fatal(err)
	}
	reg := bmfont.NewRegistry()
	if err := reg.Register(f); err != nil {
		t.Fatal(err)
	}

	p, err := NewTextPipeline(device, queue, DefaultPipelineConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(p.Destroy)

	factory, err := NewGeometryFactory(device, queue)
	if err != nil {
		t.Fatal(err)
	}
	return &textFixture{device: device, queue: queue, pipeline: p, registry: reg, factory: factory}
}

func (fx *textFixture) binder() TextureBinder {
	return func(page *bmfont.Page) (hal.BindGroup, error) {
		fx.binds++
		return fx.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  page.File,
			Layout: fx.pipeline.TextureLayout(),
		})
	}
}

func (fx *textFixture) text(t *testing.T, s string, opts ...bitmaptext.TextOption) *bitmaptext.Text {
	t.Helper()
	opts = append([]bitmaptext.TextOption{bitmaptext.WithRegistry(fx.registry)}, opts...)
	txt, err := bitmaptext.New(s, bitmaptext.Style{Font: bitmaptext.FontDescriptor{Name: "basic"}}, opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(txt.Destroy)
	return txt
}

func TestTextRendererDraws(t *testing.T) {
	fx := newTextFixture(t)
	txt := fx.text(t, "Hello, GPU!", bitmaptext.WithGeometryFactory(fx.factory))

	r := NewTextRenderer(fx.pipeline, fx.binder())
	draws, err := r.Draws(nil, txt, bitmaptext.Ortho(640, 480), 10, 20)
	if err != nil {
		t.Fatal(err)
	}
	meshes, _ := txt.Meshes()
	if len(draws) != len(meshes) || len(draws) == 0 {
		t.Fatalf("draws = %d, meshes = %d", len(draws), len(meshes))
	}
	if fx.binds != len(draws) {
		t.Errorf("binder called %d times, want %d", fx.binds, len(draws))
	}
	for i, d := range draws {
		if d.Geometry.IndexCount() != uint32(meshes[i].Size) { //nolint:gosec // test data
			t.Errorf("draw %d index count = %d, want %d", i, d.Geometry.IndexCount(), meshes[i].Size)
		}
		if d.Color != bitmaptext.TintRGBA(bitmaptext.DefaultTint) {
			t.Errorf("draw %d color = %+v", i, d.Color)
		}
	}
	x, y := draws[0].Transform.TransformPoint(0, 0)
	wantX, wantY := bitmaptext.Ortho(640, 480).TransformPoint(10, 20)
	if x != wantX || y != wantY {
		t.Errorf("origin maps to (%v, %v), want (%v, %v)", x, y, wantX, wantY)
	}

	txt.SetRoundPixels(true)
	rounded, err := r.Draws(nil, txt, bitmaptext.Ortho(640, 480), 10.3, 100.6)
	if err != nil {
		t.Fatal(err)
	}
	x, y = rounded[0].Transform.TransformPoint(0, 0)
	wantX, wantY = bitmaptext.Ortho(640, 480).TransformPoint(10, 101)
	if math.Abs(x-wantX) > 1e-9 || math.Abs(y-wantY) > 1e-9 {
		t.Errorf("rounded origin maps to (%v, %v), want (%v, %v)", x, y, wantX, wantY)
	}

	frame, err := fx.pipeline.Prepare(draws)
	if err != nil {
		t.Fatal(err)
	}
	defer frame.Destroy()
	if frame.Draws() != len(draws) {
		t.Errorf("frame draws = %d, want %d", frame.Draws(), len(draws))
	}
}

func TestTextRendererRender(t *testing.T) {
	fx := newTextFixture(t)
	a := fx.text(t, "first", bitmaptext.WithGeometryFactory(fx.factory))
	b := fx.text(t, "second line", bitmaptext.WithGeometryFactory(fx.factory))
	empty := fx.text(t, "", bitmaptext.WithGeometryFactory(fx.factory))

	tex, err := fx.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "target",
		Size:          hal.Extent3D{Width: 64, Height: 64, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer fx.device.DestroyTexture(tex)
	view, err := fx.device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: "target_view"})
	if err != nil {
		t.Fatal(err)
	}
	defer fx.device.DestroyTextureView(view)

	encoder, err := fx.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "test"})
	if err != nil {
		t.Fatal(err)
	}
	if err := encoder.BeginEncoding("test"); err != nil {
		t.Fatal(err)
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "text_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
		}},
	})

	r := NewTextRenderer(fx.pipeline, fx.binder())
	frame, err := r.Render(rp, bitmaptext.Ortho(64, 64),
		Placed{Text: a}, Placed{Text: b, Y: 20}, Placed{Text: empty})
	if err != nil {
		t.Fatal(err)
	}
	rp.End()
	defer frame.Destroy()

	// Empty text still lays out a single space glyph.
	want := 0
	for _, txt := range []*bitmaptext.Text{a, b, empty} {
		meshes, _ := txt.Meshes()
		want += len(meshes)
	}
	if frame.Draws() != want {
		t.Errorf("frame draws = %d, want %d", frame.Draws(), want)
	}
}

func TestTextRendererForeignGeometry(t *testing.T) {
	fx := newTextFixture(t)
	txt := fx.text(t, "memory", bitmaptext.WithGeometryFactory(bitmaptext.NewMemoryGeometryFactory()))

	r := NewTextRenderer(fx.pipeline, fx.binder())
	if _, err := r.Draws(nil, txt, bitmaptext.Identity(), 0, 0); !errors.Is(err, ErrForeignGeometry) {
		t.Errorf("err = %v, want ErrForeignGeometry", err)
	}
}

func TestGeometryReleasedOnDestroy(t *testing.T) {
	fx := newTextFixture(t)
	txt := fx.text(t, "bye", bitmaptext.WithGeometryFactory(fx.factory))

	meshes, err := txt.Meshes()
	if err != nil {
		t.Fatal(err)
	}
	var geoms []*MeshGeometry
	for _, m := range meshes {
		geoms = append(geoms, m.Geometry.(*MeshGeometry))
	}
	txt.Destroy()
	for i, g := range geoms {
		if !g.Released() {
			t.Errorf("geometry %d not released", i)
		}
	}
}

func TestBindGroupCache(t *testing.T) {
	fx := newTextFixture(t)
	c := NewBindGroupCache(fx.device, fx.binder())
	defer c.Destroy()

	p0 := bmfont.NewPage("p0.png", 16, 16)
	p1 := bmfont.NewPage("p1.png", 16, 16)

	for range 2 {
		if _, err := c.Bind(p0); err != nil {
			t.Fatal(err)
		}
	}
	if fx.binds != 1 {
		t.Errorf("second Bind created a new group (binds = %d)", fx.binds)
	}
	if _, err := c.Bind(p1); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	c.Evict(p0)
	if c.Len() != 1 {
		t.Errorf("Len() after Evict = %d, want 1", c.Len())
	}
	if _, err := c.Bind(p0); err != nil {
		t.Fatal(err)
	}
	if fx.binds != 3 {
		t.Errorf("binds = %d, want 3", fx.binds)
	}

	c.Destroy()
	if c.Len() != 0 {
		t.Errorf("Len() after Destroy = %d", c.Len())
	}
}

func TestBindGroupCacheError(t *testing.T) {
	fx := newTextFixture(t)
	boom := errors.New("no texture")
	c := NewBindGroupCache(fx.device, func(*bmfont.Page) (hal.BindGroup, error) { return nil, boom })
	if _, err := c.Bind(bmfont.NewPage("p.png", 16, 16)); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
	if c.Len() != 0 {
		t.Error("failed bind was cached")
	}
}
