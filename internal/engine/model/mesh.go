package model

import (
	"fmt"
	"strconv"

	"github.com/Faultbox/modelkit/internal/engine/gpu"
	"github.com/Faultbox/modelkit/internal/engine/texture"
)

// UniformSetter assigns integer uniforms by name on the active shader program.
// Names the program does not declare are ignored.
type UniformSetter interface {
	SetInt(name string, value int32)
}

// Mesh is one drawable unit: vertices, triangle indices and the textures bound
// while drawing it. It owns its vertex array; textures belong to the cache.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Textures []texture.Texture

	device gpu.Device
	va     gpu.VertexArray
}

// BuildMesh uploads vertices and indices into new GPU buffers with the Vertex
// attribute layout and returns the mesh. The slices are kept, not copied.
func BuildMesh(device gpu.Device, vertices []Vertex, indices []uint32, textures []texture.Texture) (*Mesh, error) {
	va, err := device.NewVertexArray(gpu.VertexData{
		Vertices: vertexBytes(vertices),
		Stride:   VertexStride,
		Attribs:  vertexLayout,
		Indices:  indices,
	})
	if err != nil {
		return nil, fmt.Errorf("mesh buffers: %w", err)
	}

	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Textures: textures,
		device:   device,
		va:       va,
	}, nil
}

// SamplerName returns the shader sampler name for the n-th texture (1-based)
// of a role, e.g. "material.texture_diffuse1".
func SamplerName(role texture.Role, n int) string {
	return "material." + role.String() + strconv.Itoa(n)
}

// Draw binds the mesh textures to consecutive texture units and issues one
// indexed triangle draw. The shader program must already be active.
//
// Texture i goes to unit i, and the sampler "material.<role><n>" is pointed
// at that unit, where n counts textures of the same role from 1.
func (m *Mesh) Draw(u UniformSetter) {
	var counts [texture.NumRoles]int

	for i, tex := range m.Textures {
		unit := uint32(i)
		m.device.ActiveTexture(unit)
		if tex.Role.Valid() {
			counts[tex.Role]++
			u.SetInt(SamplerName(tex.Role, counts[tex.Role]), int32(unit))
		}
		m.device.BindTexture2D(tex.ID)
	}
	m.device.ActiveTexture(0)

	m.device.BindVertexArray(m.va.VAO)
	m.device.DrawTriangles(int32(len(m.Indices)))
	m.device.BindVertexArray(0)
}

// VertexArray returns the GPU objects backing the mesh.
func (m *Mesh) VertexArray() gpu.VertexArray {
	return m.va
}

// Bounds returns the bounding box of the mesh vertices.
func (m *Mesh) Bounds() Bounds {
	b := EmptyBounds()
	for i := range m.Vertices {
		b.Extend(m.Vertices[i].Position)
	}
	return b
}

// Delete releases the mesh's GPU buffers. Deleting twice is a no-op.
func (m *Mesh) Delete() {
	if m.va.VAO == 0 && m.va.VBO == 0 && m.va.EBO == 0 {
		return
	}
	m.device.DeleteVertexArray(m.va)
	m.va = gpu.VertexArray{}
}
