//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/bitmaptext"
	"github.com/gogpu/bitmaptext/bmfont"
	"github.com/gogpu/wgpu/hal"
)

// ErrForeignGeometry is returned when a mesh was not uploaded through a
// GeometryFactory of this package.
var ErrForeignGeometry = errors.New("gpu: mesh geometry is not a MeshGeometry")

// TextureBinder returns the bind group of a page texture, laid out with
// TextPipeline.TextureLayout.
type TextureBinder func(page *bmfont.Page) (hal.BindGroup, error)

// TextRenderer turns Text objects into page draws.
type TextRenderer struct {
	pipeline *TextPipeline
	bind     TextureBinder
}

// NewTextRenderer returns a renderer drawing with pipeline. bind
// resolves page textures.
func NewTextRenderer(pipeline *TextPipeline, bind TextureBinder) *TextRenderer {
	return &TextRenderer{pipeline: pipeline, bind: bind}
}

// Pipeline returns the underlying pipeline.
func (r *TextRenderer) Pipeline() *TextPipeline { return r.pipeline }

// Draws runs the layout pass of t if needed and appends one draw per
// page mesh to dst. projection maps pixels to clip space and (x, y)
// places t in pixels.
func (r *TextRenderer) Draws(dst []PageDraw, t *bitmaptext.Text, projection bitmaptext.Matrix, x, y float64) ([]PageDraw, error) {
	meshes, err := t.Meshes()
	if err != nil {
		return dst, err
	}
	transform := t.Project(projection, bitmaptext.Identity(), x, y)
	for _, m := range meshes {
		g, ok := m.Geometry.(*MeshGeometry)
		if !ok {
			return dst, fmt.Errorf("%w: page %d", ErrForeignGeometry, m.Page.ID)
		}
		tex, err := r.bind(m.Page)
		if err != nil {
			return dst, fmt.Errorf("gpu: bind page %d: %w", m.Page.ID, err)
		}
		dst = append(dst, PageDraw{
			Geometry:  g,
			Texture:   tex,
			Transform: transform,
			Color:     bitmaptext.TintRGBA(m.Tint),
		})
	}
	return dst, nil
}

// Render prepares the draws of texts and records them into rp. The
// returned frame must be destroyed after submission.
func (r *TextRenderer) Render(rp hal.RenderPassEncoder, projection bitmaptext.Matrix, texts ...Placed) (*Frame, error) {
	var draws []PageDraw
	for _, p := range texts {
		var err error
		draws, err = r.Draws(draws, p.Text, projection, p.X, p.Y)
		if err != nil {
			return nil, err
		}
	}
	frame, err := r.pipeline.Prepare(draws)
	if err != nil {
		return nil, err
	}
	if err := r.pipeline.RecordDraws(rp, frame); err != nil {
		frame.Destroy()
		return nil, err
	}
	return frame, nil
}

// Placed is a Text positioned in pixels.
type Placed struct {
	Text *bitmaptext.Text
	X, Y float64
}

// BindGroupCache memoizes a TextureBinder by page identity. The cache
// owns the bind groups it returns and destroys them on Evict and Destroy.
type BindGroupCache struct {
	device hal.Device
	bind   TextureBinder
	groups map[uint64]hal.BindGroup
}

// NewBindGroupCache wraps bind. device destroys evicted bind groups.
func NewBindGroupCache(device hal.Device, bind TextureBinder) *BindGroupCache {
	return &BindGroupCache{device: device, bind: bind, groups: make(map[uint64]hal.BindGroup)}
}

// Bind returns the cached bind group of page, creating it on first use.
// It has the TextureBinder signature.
func (c *BindGroupCache) Bind(page *bmfont.Page) (hal.BindGroup, error) {
	if g, ok := c.groups[page.ID]; ok {
		return g, nil
	}
	g, err := c.bind(page)
	if err != nil {
		return nil, err
	}
	c.groups[page.ID] = g
	slogger().Debug("gpu: page bind group created", "page", page.ID, "file", page.File)
	return g, nil
}

// Len returns the number of cached bind groups.
func (c *BindGroupCache) Len() int { return len(c.groups) }

// Evict destroys the bind group of page, if cached. Call it when the
// page texture is replaced.
func (c *BindGroupCache) Evict(page *bmfont.Page) {
	if g, ok := c.groups[page.ID]; ok {
		c.device.DestroyBindGroup(g)
		delete(c.groups, page.ID)
	}
}

// Destroy destroys every cached bind group.
func (c *BindGroupCache) Destroy() {
	for id, g := range c.groups {
		c.device.DestroyBindGroup(g)
		delete(c.groups, id)
	}
}
