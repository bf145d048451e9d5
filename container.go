package bitmaptext

import "slices"

// Container is the scene node page meshes are attached to.
type Container interface {
	AddChild(m *PageMesh)
	RemoveChild(m *PageMesh)
	HasChild(m *PageMesh) bool
}

// AddChild attaches m to t. It implements Container for the default case
// where a Text holds its own meshes.
func (t *Text) AddChild(m *PageMesh) {
	if !t.HasChild(m) {
		t.children = append(t.children, m)
	}
}

// RemoveChild detaches m from t.
func (t *Text) RemoveChild(m *PageMesh) {
	if i := slices.Index(t.children, m); i >= 0 {
		t.children = slices.Delete(t.children, i, i+1)
	}
}

// HasChild reports whether m is attached to t.
func (t *Text) HasChild(m *PageMesh) bool {
	return slices.Contains(t.children, m)
}

// Children returns the meshes attached to t itself.
func (t *Text) Children() []*PageMesh { return t.children }
