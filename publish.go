package bitmaptext

import (
	"fmt"
	"reflect"

	"github.com/gogpu/bitmaptext/layout"
)

// publish reconciles the attached mesh set with the pass result and
// uploads the arrays of every bound mesh.
func (t *Text) publish(res *layout.Result) error {
	for _, m := range res.Stale {
		t.detach(m)
	}

	t.meshes = res.Meshes(t.meshes[:0])
	for _, m := range t.meshes {
		m.Tint = t.tint
		if !t.container.HasChild(m) {
			t.container.AddChild(m)
		}
	}
	for _, m := range t.meshes {
		if err := t.upload(m); err != nil {
			return fmt.Errorf("bitmaptext: upload page %d: %w", m.Page.ID, err)
		}
	}
	return nil
}

func (t *Text) detach(m *PageMesh) {
	if t.container.HasChild(m) {
		t.container.RemoveChild(m)
	}
}

// geometryOwner returns the key recorded on meshes whose geometry t
// creates. Texts sharing a comparable factory share the key. Function
// factories cannot be compared, so t itself is the key.
func (t *Text) geometryOwner() any {
	if f := t.opts.geometry; f != nil && reflect.TypeOf(f).Comparable() {
		return f
	}
	return t
}

// upload pushes the arrays of m into its geometry, creating it first
// when a factory is configured. Geometry left by another owner is
// released and replaced.
func (t *Text) upload(m *PageMesh) error {
	owner := t.geometryOwner()
	if m.Geometry != nil && m.GeometryOwner != owner {
		t.releaseGeometry(m)
	}
	if m.Geometry == nil {
		if t.opts.geometry == nil {
			return nil
		}
		g, err := t.opts.geometry.NewGeometry(m)
		if err != nil {
			return err
		}
		m.Geometry = g
		m.GeometryOwner = owner
	}

	m.Geometry.SetSize(m.Size)
	if err := m.Geometry.UpdatePositions(m.Vertices()); err != nil {
		return err
	}
	if err := m.Geometry.UpdateTexCoords(m.UVs()); err != nil {
		return err
	}
	return m.Geometry.UpdateIndices(m.Indices())
}

func (t *Text) releaseGeometry(m *PageMesh) {
	r, ok := m.Geometry.(releaser)
	m.Geometry = nil
	m.GeometryOwner = nil
	if !ok {
		return
	}
	if err := r.Release(); err != nil {
		Logger().Warn("bitmaptext: geometry release failed", "err", err)
	}
}
