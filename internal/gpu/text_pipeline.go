//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/bitmaptext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Pipeline errors.
var (
	// ErrPipelineNotInitialized is returned when drawing before Init.
	ErrPipelineNotInitialized = errors.New("gpu: text pipeline not initialized")

	// ErrNilTexture is returned when a draw has no page texture bind group.
	ErrNilTexture = errors.New("gpu: nil page texture bind group")
)

// vertexStride is the byte stride of both vertex buffers:
//
//	position  (vec2<f32>) = 8 bytes  (buffer 0, location 0)
//	tex_coord (vec2<f32>) = 8 bytes  (buffer 1, location 1)
const vertexStride = 8

// uniformSize is the byte size of TextUniforms in bitmap_text.wgsl:
// transform (mat4x4<f32>) = 64 bytes + color (vec4<f32>) = 16 bytes.
const uniformSize = 80

// PipelineConfig configures a TextPipeline.
type PipelineConfig struct {
	// Format is the color target format.
	// Default: BGRA8Unorm
	Format gputypes.TextureFormat

	// SampleCount is the MSAA sample count of the render pass.
	// Default: 1
	SampleCount uint32

	// DepthStencil adds an Always/Keep Depth24PlusStencil8 state so the
	// pipeline can run inside passes that carry a stencil attachment.
	DepthStencil bool

	// NearestFilter samples page textures without interpolation.
	NearestFilter bool

	// UseSPIRV compiles the shader with naga instead of handing WGSL to
	// the backend.
	UseSPIRV bool
}

// DefaultPipelineConfig returns the default configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Format:      gputypes.TextureFormatBGRA8Unorm,
		SampleCount: 1,
	}
}

// TextPipeline owns the shader, layouts, sampler and render pipeline for
// drawing page meshes. Page textures are bound by the caller through a
// bind group created with TextureLayout and Sampler.
//
// Architecture:
//
//	MeshGeometry owns the vertex and index buffers of one page mesh
//	TextPipeline owns shader, layouts, pipeline, sampler
//	Frame owns the per-draw uniform buffers and bind groups
type TextPipeline struct {
	device hal.Device
	queue  hal.Queue
	config PipelineConfig

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	textureLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline
	sampler       hal.Sampler
}

// NewTextPipeline creates a pipeline for device and queue. GPU objects
// are not created until Init is called.
func NewTextPipeline(device hal.Device, queue hal.Queue, config PipelineConfig) (*TextPipeline, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	def := DefaultPipelineConfig()
	if config.Format == 0 {
		config.Format = def.Format
	}
	if config.SampleCount == 0 {
		config.SampleCount = def.SampleCount
	}
	return &TextPipeline{device: device, queue: queue, config: config}, nil
}

// Config returns the pipeline configuration.
func (p *TextPipeline) Config() PipelineConfig { return p.config }

// Initialized reports whether Init has succeeded.
func (p *TextPipeline) Initialized() bool { return p.pipeline != nil }

// TextureLayout returns the layout of bind group 1: the page texture at
// binding 0 and the sampler at binding 1.
func (p *TextPipeline) TextureLayout() hal.BindGroupLayout { return p.textureLayout }

// Sampler returns the page texture sampler.
func (p *TextPipeline) Sampler() hal.Sampler { return p.sampler }

// Init compiles the shader and creates the render pipeline. Calling it
// again after success is a no-op.
func (p *TextPipeline) Init() error {
	if p.pipeline != nil {
		return nil
	}
	if err := p.createPipeline(); err != nil {
		p.destroyPipeline()
		return err
	}
	slogger().Info("gpu: text pipeline created",
		"format", p.config.Format, "samples", p.config.SampleCount, "spirv", p.config.UseSPIRV)
	return nil
}

// Destroy releases all GPU resources held by the pipeline. Safe to call
// multiple times.
func (p *TextPipeline) Destroy() {
	p.destroyPipeline()
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
}

func (p *TextPipeline) createPipeline() error {
	source, err := shaderSource(p.config.UseSPIRV)
	if err != nil {
		return err
	}
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "bitmap_text_shader",
		Source: source,
	})
	if err != nil {
		return fmt.Errorf("create bitmap_text shader: %w", err)
	}
	p.shader = shader

	uniformLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "bitmap_text_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bitmap_text uniform layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	textureLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "bitmap_text_texture_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bitmap_text texture layout: %w", err)
	}
	p.textureLayout = textureLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "bitmap_text_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout, p.textureLayout},
	})
	if err != nil {
		return fmt.Errorf("create bitmap_text pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	if p.sampler == nil {
		filter := gputypes.FilterModeLinear
		if p.config.NearestFilter {
			filter = gputypes.FilterModeNearest
		}
		sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
			Label:        "bitmap_text_sampler",
			AddressModeU: gputypes.AddressModeClampToEdge,
			AddressModeV: gputypes.AddressModeClampToEdge,
			AddressModeW: gputypes.AddressModeClampToEdge,
			MagFilter:    filter,
			MinFilter:    filter,
			MipmapFilter: filter,
		})
		if err != nil {
			return fmt.Errorf("create bitmap_text sampler: %w", err)
		}
		p.sampler = sampler
	}

	premulBlend := gputypes.BlendStatePremultiplied()
	desc := &hal.RenderPipelineDescriptor{
		Label:  "bitmap_text_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    vertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.config.Format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: p.config.SampleCount,
			Mask:  0xFFFFFFFF,
		},
	}
	if p.config.DepthStencil {
		desc.Label = "bitmap_text_pipeline_with_stencil"
		desc.DepthStencil = passThroughStencil()
	}
	pipeline, err := p.device.CreateRenderPipeline(desc)
	if err != nil {
		return fmt.Errorf("create bitmap_text pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

// passThroughStencil returns a depth/stencil state that neither tests
// nor writes the attachment.
func passThroughStencil() *hal.DepthStencilState {
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	return &hal.DepthStencilState{
		Format:            gputypes.TextureFormatDepth24PlusStencil8,
		DepthWriteEnabled: false,
		DepthCompare:      gputypes.CompareFunctionAlways,
		StencilFront:      keep,
		StencilBack:       keep,
		StencilReadMask:   0x00,
		StencilWriteMask:  0x00,
	}
}

// destroyPipeline releases pipeline resources in reverse creation order.
func (p *TextPipeline) destroyPipeline() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.textureLayout != nil {
		p.device.DestroyBindGroupLayout(p.textureLayout)
		p.textureLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// vertexLayout returns the two vertex buffer layouts. Matches VertexInput
// in bitmap_text.wgsl.
func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
			},
		},
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1}, // tex_coord
			},
		},
	}
}

// PageDraw is one page mesh ready to draw.
type PageDraw struct {
	Geometry  *MeshGeometry
	Texture   hal.BindGroup
	Transform bitmaptext.Matrix
	Color     bitmaptext.RGBA
}

// Frame holds the per-draw uniform buffers and bind groups built by
// Prepare. Destroy it once the recorded commands have been submitted.
type Frame struct {
	device hal.Device
	draws  []frameDraw
}

type frameDraw struct {
	geometry   *MeshGeometry
	texture    hal.BindGroup
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup
}

// Draws returns the number of draws in the frame.
func (f *Frame) Draws() int { return len(f.draws) }

// Destroy releases the frame's uniform buffers and bind groups.
func (f *Frame) Destroy() {
	for i := range f.draws {
		d := &f.draws[i]
		if d.bindGroup != nil {
			f.device.DestroyBindGroup(d.bindGroup)
			d.bindGroup = nil
		}
		if d.uniformBuf != nil {
			f.device.DestroyBuffer(d.uniformBuf)
			d.uniformBuf = nil
		}
	}
	f.draws = nil
}

// Prepare uploads the uniforms of each draw. Draws whose geometry has
// nothing to draw are skipped.
func (p *TextPipeline) Prepare(draws []PageDraw) (*Frame, error) {
	if p.pipeline == nil {
		return nil, ErrPipelineNotInitialized
	}
	frame := &Frame{device: p.device}
	for _, d := range draws {
		if d.Geometry == nil || !d.Geometry.drawable() {
			continue
		}
		if d.Texture == nil {
			frame.Destroy()
			return nil, ErrNilTexture
		}
		fd, err := p.buildDraw(d)
		if err != nil {
			frame.Destroy()
			return nil, err
		}
		frame.draws = append(frame.draws, fd)
	}
	return frame, nil
}

func (p *TextPipeline) buildDraw(d PageDraw) (frameDraw, error) {
	data := makeUniform(d.Transform, d.Color)
	uniformBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "bitmap_text_uniform",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return frameDraw{}, fmt.Errorf("create bitmap_text uniform: %w", err)
	}
	p.queue.WriteBuffer(uniformBuf, 0, data)

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "bitmap_text_uniform_bind",
		Layout: p.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
		},
	})
	if err != nil {
		p.device.DestroyBuffer(uniformBuf)
		return frameDraw{}, fmt.Errorf("create bitmap_text bind group: %w", err)
	}
	return frameDraw{
		geometry:   d.Geometry,
		texture:    d.Texture,
		uniformBuf: uniformBuf,
		bindGroup:  bindGroup,
	}, nil
}

// RecordDraws records the frame's draws into an existing render pass.
func (p *TextPipeline) RecordDraws(rp hal.RenderPassEncoder, frame *Frame) error {
	if p.pipeline == nil {
		return ErrPipelineNotInitialized
	}
	if frame == nil || len(frame.draws) == 0 {
		return nil
	}
	rp.SetPipeline(p.pipeline)
	for _, d := range frame.draws {
		g := d.geometry
		rp.SetBindGroup(0, d.bindGroup, nil)
		rp.SetBindGroup(1, d.texture, nil)
		rp.SetVertexBuffer(0, g.positions.buf, 0)
		rp.SetVertexBuffer(1, g.texCoords.buf, 0)
		rp.SetIndexBuffer(g.indices.buf, gputypes.IndexFormatUint16, 0)
		rp.DrawIndexed(g.IndexCount(), 1, 0, 0, 0)
	}
	return nil
}

// makeUniform creates the 80-byte uniform of one draw.
func makeUniform(m bitmaptext.Matrix, color bitmaptext.RGBA) []byte {
	buf := make([]byte, uniformSize)

	// WGSL stores mat4x4 column by column.
	// Input affine: a b c / d e f
	t := [16]float32{
		float32(m.A), float32(m.D), 0, 0,
		float32(m.B), float32(m.E), 0, 0,
		0, 0, 1, 0,
		float32(m.C), float32(m.F), 0, 1,
	}
	off := 0
	for _, v := range t {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}

	premul := color.Premultiply()
	for _, v := range [4]float64{premul.R, premul.G, premul.B, premul.A} {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(v)))
		off += 4
	}
	return buf
}
