//go:build !nogpu

// Package gpu draws bitmap text page meshes with wgpu/hal.
//
// This is an internal package used through the public gpu package.
//
// # Architecture Overview
//
//	bitmaptext.Text -> PageMesh -> MeshGeometry (vertex + index buffers)
//	TextRenderer -> PageDraw -> TextPipeline.Prepare -> Frame -> RecordDraws
//
// Key components:
//
//   - MeshGeometry: per-mesh position, tex coord and index buffers that
//     grow on demand and are reused while the arrays fit
//   - GeometryFactory: creates a MeshGeometry for every new page mesh
//   - TextPipeline: shader, bind group layouts, sampler and render pipeline
//   - TextRenderer: turns Text objects into page draws
//   - BindGroupCache: memoizes page texture bind groups by page identity
//
// # Bind Groups
//
// Group 0 holds the per-draw uniform (transform and premultiplied tint).
// Group 1 holds the page texture and sampler and is supplied by the
// caller through a TextureBinder.
//
// # Shader
//
// The WGSL source is embedded. With PipelineConfig.UseSPIRV the shader is
// compiled to SPIR-V with naga before module creation.
package gpu
