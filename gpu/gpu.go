//go:build !nogpu

// Package gpu draws bitmaptext page meshes with wgpu.
//
// A GeometryFactory uploads each page mesh into vertex and index buffers.
// A Renderer turns Text objects into draws recorded into a render pass
// owned by the caller. Page textures are bound by the caller through a
// bind group laid out with Renderer.TextureLayout.
//
// Usage:
//
//	factory, err := gpu.NewGeometryFactoryFromProvider(provider)
//	txt, err := bitmaptext.New("Hello", style, bitmaptext.WithGeometryFactory(factory))
//
//	r, err := gpu.NewRenderer(provider, gpu.DefaultPipelineConfig(), bindPage)
//	frame, err := r.Render(pass, bitmaptext.Ortho(w, h), gpu.Placed{Text: txt, X: 10, Y: 10})
//	// submit, then
//	frame.Destroy()
package gpu

import (
	"errors"
	"fmt"

	gpuimpl "github.com/gogpu/bitmaptext/internal/gpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// ErrNoHAL is returned when a provider does not expose HAL types.
var ErrNoHAL = errors.New("gpu: provider does not expose HAL device and queue")

// Errors re-exported from the implementation.
var (
	ErrNilDevice              = gpuimpl.ErrNilDevice
	ErrGeometryReleased       = gpuimpl.ErrGeometryReleased
	ErrPipelineNotInitialized = gpuimpl.ErrPipelineNotInitialized
	ErrForeignGeometry        = gpuimpl.ErrForeignGeometry
	ErrNilTexture             = gpuimpl.ErrNilTexture
)

type (
	// GeometryFactory uploads page meshes into GPU buffers.
	GeometryFactory = gpuimpl.GeometryFactory

	// MeshGeometry holds the buffers of one page mesh.
	MeshGeometry = gpuimpl.MeshGeometry

	// PipelineConfig configures the text pipeline.
	PipelineConfig = gpuimpl.PipelineConfig

	// TextureBinder resolves the bind group of a page texture.
	TextureBinder = gpuimpl.TextureBinder

	// Frame holds per-draw resources until submission.
	Frame = gpuimpl.Frame

	// Placed is a Text positioned in pixels.
	Placed = gpuimpl.Placed

	// PageDraw is one page mesh ready to draw.
	PageDraw = gpuimpl.PageDraw

	// BindGroupCache memoizes page texture bind groups.
	BindGroupCache = gpuimpl.BindGroupCache
)

// NewBindGroupCache wraps bind with a per-page cache. Pass its Bind
// method to NewRenderer.
func NewBindGroupCache(device hal.Device, bind TextureBinder) *BindGroupCache {
	return gpuimpl.NewBindGroupCache(device, bind)
}

// DefaultPipelineConfig returns the default pipeline configuration.
func DefaultPipelineConfig() PipelineConfig { return gpuimpl.DefaultPipelineConfig() }

// NewGeometryFactory returns a factory bound to device and queue.
func NewGeometryFactory(device hal.Device, queue hal.Queue) (*GeometryFactory, error) {
	return gpuimpl.NewGeometryFactory(device, queue)
}

// NewGeometryFactoryFromProvider returns a factory using the device of
// provider. The provider must implement HalDevice() any and HalQueue() any.
func NewGeometryFactoryFromProvider(provider gpucontext.DeviceProvider) (*GeometryFactory, error) {
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return nil, err
	}
	return gpuimpl.NewGeometryFactory(device, queue)
}

// Renderer draws Text objects with an initialized text pipeline.
type Renderer struct {
	*gpuimpl.TextRenderer
	pipeline *gpuimpl.TextPipeline
}

// NewRenderer creates and initializes a text pipeline on the device of
// provider.
func NewRenderer(provider gpucontext.DeviceProvider, config PipelineConfig, bind TextureBinder) (*Renderer, error) {
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return nil, err
	}
	return NewRendererWithDevice(device, queue, config, bind)
}

// NewRendererWithDevice creates and initializes a text pipeline on device.
func NewRendererWithDevice(device hal.Device, queue hal.Queue, config PipelineConfig, bind TextureBinder) (*Renderer, error) {
	if bind == nil {
		return nil, fmt.Errorf("gpu: nil texture binder")
	}
	p, err := gpuimpl.NewTextPipeline(device, queue, config)
	if err != nil {
		return nil, err
	}
	if err := p.Init(); err != nil {
		p.Destroy()
		return nil, err
	}
	return &Renderer{TextRenderer: gpuimpl.NewTextRenderer(p, bind), pipeline: p}, nil
}

// TextureLayout returns the bind group layout for page textures.
func (r *Renderer) TextureLayout() hal.BindGroupLayout { return r.pipeline.TextureLayout() }

// Sampler returns the page texture sampler.
func (r *Renderer) Sampler() hal.Sampler { return r.pipeline.Sampler() }

// Destroy releases the pipeline.
func (r *Renderer) Destroy() { r.pipeline.Destroy() }

func halFromProvider(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return device, queue, nil
}
