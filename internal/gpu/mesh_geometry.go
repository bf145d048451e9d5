//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

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

// Geometry errors.
var (
	// ErrNilDevice is returned when a nil device or queue is supplied.
	ErrNilDevice = errors.New("gpu: nil device or queue")

	// ErrGeometryReleased is returned when updating a released geometry.
	ErrGeometryReleased = errors.New("gpu: geometry released")
)

// meshBuffer is one growable GPU buffer of a MeshGeometry.
type meshBuffer struct {
	label string
	usage gputypes.BufferUsage
	buf   hal.Buffer
	cap   uint64
}

// MeshGeometry holds the vertex and index buffers of one page mesh.
// Buffers grow on demand and are reused while the arrays fit.
type MeshGeometry struct {
	device hal.Device
	queue  hal.Queue

	positions meshBuffer
	texCoords meshBuffer
	indices   meshBuffer

	// scratch stages bytes for WriteBuffer, which copies them.
	scratch []byte

	size     int
	released bool
}

// NewMeshGeometry creates an empty geometry. GPU buffers are created on
// the first update.
func NewMeshGeometry(device hal.Device, queue hal.Queue) (*MeshGeometry, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	vertexUsage := gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst
	return &MeshGeometry{
		device:    device,
		queue:     queue,
		positions: meshBuffer{label: "bitmap_text_positions", usage: vertexUsage},
		texCoords: meshBuffer{label: "bitmap_text_tex_coords", usage: vertexUsage},
		indices: meshBuffer{
			label: "bitmap_text_indices",
			usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
		},
	}, nil
}

// SetSize sets the number of indices to draw.
func (g *MeshGeometry) SetSize(n int) { g.size = n }

// IndexCount returns the number of indices to draw.
func (g *MeshGeometry) IndexCount() uint32 {
	return uint32(g.size) //nolint:gosec // bounded by the per-page glyph limit
}

// UpdatePositions uploads the vertex positions.
func (g *MeshGeometry) UpdatePositions(v []float32) error {
	return g.write(&g.positions, g.stage(float32Bytes(g.scratch, v)))
}

// UpdateTexCoords uploads the texture coordinates.
func (g *MeshGeometry) UpdateTexCoords(uv []float32) error {
	return g.write(&g.texCoords, g.stage(float32Bytes(g.scratch, uv)))
}

// UpdateIndices uploads the triangle indices.
func (g *MeshGeometry) UpdateIndices(idx []uint16) error {
	return g.write(&g.indices, g.stage(uint16Bytes(g.scratch, idx)))
}

// Capacity returns the byte capacity of the position, texture coordinate
// and index buffers.
func (g *MeshGeometry) Capacity() (positions, texCoords, indices uint64) {
	return g.positions.cap, g.texCoords.cap, g.indices.cap
}

// Release destroys the GPU buffers. Later updates return
// ErrGeometryReleased. Safe to call more than once.
func (g *MeshGeometry) Release() error {
	if g.released {
		return nil
	}
	g.released = true
	for _, b := range []*meshBuffer{&g.positions, &g.texCoords, &g.indices} {
		if b.buf != nil {
			g.device.DestroyBuffer(b.buf)
			b.buf = nil
			b.cap = 0
		}
	}
	g.size = 0
	return nil
}

// Released reports whether Release has been called.
func (g *MeshGeometry) Released() bool { return g.released }

// drawable reports whether every buffer exists and there is something to draw.
func (g *MeshGeometry) drawable() bool {
	return !g.released && g.size > 0 &&
		g.positions.buf != nil && g.texCoords.buf != nil && g.indices.buf != nil
}

func (g *MeshGeometry) write(b *meshBuffer, data []byte) error {
	if g.released {
		return ErrGeometryReleased
	}
	if len(data) == 0 {
		return nil
	}
	need := uint64(len(data))
	if b.buf == nil || b.cap < need {
		buf, err := g.device.CreateBuffer(&hal.BufferDescriptor{
			Label: b.label,
			Size:  need,
			Usage: b.usage,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", b.label, err)
		}
		if b.buf != nil {
			g.device.DestroyBuffer(b.buf)
		}
		slogger().Debug("gpu: mesh buffer grown", "label", b.label, "from", b.cap, "to", need)
		b.buf = buf
		b.cap = need
	}
	g.queue.WriteBuffer(b.buf, 0, data)
	return nil
}

// stage keeps data as the scratch buffer for the next upload.
func (g *MeshGeometry) stage(data []byte) []byte {
	g.scratch = data
	return data
}

// resize returns buf with length n, reusing its storage when it fits.
func resize(buf []byte, n int) []byte {
	if cap(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}

// float32Bytes serializes v as little-endian words into buf.
func float32Bytes(buf []byte, v []float32) []byte {
	data := resize(buf, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(f))
	}
	return data
}

// uint16Bytes serializes idx as little-endian halves into buf, padded
// with zeros to a multiple of four bytes for buffer writes.
func uint16Bytes(buf []byte, idx []uint16) []byte {
	n := len(idx) * 2
	data := resize(buf, (n+3)&^3)
	for i, v := range idx {
		binary.LittleEndian.PutUint16(data[i*2:], v)
	}
	clear(data[n:])
	return data
}

// GeometryFactory creates a MeshGeometry for each page mesh.
type GeometryFactory struct {
	device hal.Device
	queue  hal.Queue
}

// NewGeometryFactory returns a factory bound to device and queue.
func NewGeometryFactory(device hal.Device, queue hal.Queue) (*GeometryFactory, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	return &GeometryFactory{device: device, queue: queue}, nil
}

// NewGeometry implements bitmaptext.GeometryFactory.
func (f *GeometryFactory) NewGeometry(*bitmaptext.PageMesh) (bitmaptext.Geometry, error) {
	return NewMeshGeometry(f.device, f.queue)
}
