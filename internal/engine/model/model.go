package model

import "github.com/Faultbox/modelkit/internal/engine/texture"

// Model is an assembled scene: its meshes in scene traversal order and the
// texture cache their textures were resolved through.
type Model struct {
	Path      string
	Directory string
	Meshes    []*Mesh
	Textures  *texture.Cache

	ownsTextures bool
}

// Stats summarizes a model.
type Stats struct {
	Meshes    int
	Vertices  int
	Indices   int
	Triangles int
	Textures  int // texture references over all meshes
}

// Draw draws every mesh in order with the same uniforms. The caller activates
// the shader program first.
func (m *Model) Draw(u UniformSetter) {
	for _, mesh := range m.Meshes {
		mesh.Draw(u)
	}
}

// Stats returns mesh, vertex, index and texture reference counts.
func (m *Model) Stats() Stats {
	var s Stats
	s.Meshes = len(m.Meshes)
	for _, mesh := range m.Meshes {
		s.Vertices += len(mesh.Vertices)
		s.Indices += len(mesh.Indices)
		s.Textures += len(mesh.Textures)
	}
	s.Triangles = s.Indices / 3
	return s
}

// Bounds returns the bounding box of all mesh vertices.
func (m *Model) Bounds() Bounds {
	b := EmptyBounds()
	for _, mesh := range m.Meshes {
		b.Union(mesh.Bounds())
	}
	return b
}

// Delete releases every mesh's GPU buffers. Textures are released too when the
// model was loaded with its own cache; a shared cache is left to its owner.
func (m *Model) Delete() {
	for _, mesh := range m.Meshes {
		mesh.Delete()
	}
	m.Meshes = nil
	if m.ownsTextures && m.Textures != nil {
		m.Textures.Release()
	}
}
