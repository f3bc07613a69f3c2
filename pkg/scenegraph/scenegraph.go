// Package scenegraph is the parser-neutral scene representation produced by
// model importers: a node hierarchy referencing a flat mesh table and a flat
// material table.
package scenegraph

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Flags carry importer status for a scene.
type Flags uint32

// Scene flags.
const (
	// FlagIncomplete marks a scene the importer could not fully read.
	FlagIncomplete Flags = 1 << iota
)

// TextureType is the importer's classification of a material texture slot.
type TextureType int

// Texture types.
const (
	TextureDiffuse TextureType = iota
	TextureSpecular
	TextureNormals
	TextureHeight
	TextureAmbient
	TextureEmissive
)

var textureTypeNames = [...]string{
	TextureDiffuse:  "diffuse",
	TextureSpecular: "specular",
	TextureNormals:  "normals",
	TextureHeight:   "height",
	TextureAmbient:  "ambient",
	TextureEmissive: "emissive",
}

func (t TextureType) String() string {
	if t < 0 || int(t) >= len(textureTypeNames) {
		return fmt.Sprintf("TextureType(%d)", int(t))
	}
	return textureTypeNames[t]
}

// NoMaterial is the material index of a mesh without a material.
const NoMaterial = -1

// Scene is an imported scene graph.
type Scene struct {
	Root      *Node
	Meshes    []*Mesh
	Materials []*Material
	Flags     Flags
}

// Incomplete reports whether the importer flagged the scene as incomplete.
func (s *Scene) Incomplete() bool {
	return s.Flags&FlagIncomplete != 0
}

// Node is one scene graph node. Meshes index Scene.Meshes; a mesh may be
// referenced by any number of nodes. Children are owned by their parent.
type Node struct {
	Name     string
	Meshes   []int
	Children []*Node
}

// Walk visits n and its descendants depth-first, parent before children,
// children in order. Returning false from fn skips that node's subtree.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	type frame struct {
		node  *Node
		depth int
	}
	stack := []frame{{n, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node == nil || !fn(f.node, f.depth) {
			continue
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], f.depth + 1})
		}
	}
}

// Mesh is one importer mesh record. Positions define the vertex count; every
// other per-vertex channel is either nil (absent) or has the same length.
// Faces index into the vertex channels and are triangles after import.
type Mesh struct {
	Name       string
	Positions  []mgl32.Vec3
	Normals    []mgl32.Vec3
	TexCoords  []mgl32.Vec2 // channel 0
	Tangents   []mgl32.Vec3
	Bitangents []mgl32.Vec3
	Joints     [][4]int32
	Weights    []mgl32.Vec4
	Faces      []Face
	Material   int // index into Scene.Materials or NoMaterial
}

// Face is one polygon of a mesh.
type Face struct {
	Indices []uint32
}

// HasNormals reports whether the mesh carries normals.
func (m *Mesh) HasNormals() bool {
	return len(m.Normals) == len(m.Positions) && m.Normals != nil
}

// HasTexCoords reports whether the mesh carries texture coordinate channel 0.
func (m *Mesh) HasTexCoords() bool {
	return len(m.TexCoords) == len(m.Positions) && m.TexCoords != nil
}

// HasTangents reports whether the mesh carries tangents and bitangents.
func (m *Mesh) HasTangents() bool {
	return m.Tangents != nil && len(m.Tangents) == len(m.Positions) &&
		len(m.Bitangents) == len(m.Positions)
}

// HasBones reports whether the mesh carries bone influences.
func (m *Mesh) HasBones() bool {
	return m.Joints != nil && len(m.Joints) == len(m.Positions) &&
		len(m.Weights) == len(m.Positions)
}

// Material is a named set of texture file references per texture type.
// Paths are relative to the scene file's directory.
type Material struct {
	Name     string
	Textures map[TextureType][]string
}

// TextureCount returns the number of textures of type t.
func (m *Material) TextureCount(t TextureType) int {
	return len(m.Textures[t])
}

// Texture returns the i-th texture path of type t.
func (m *Material) Texture(t TextureType, i int) string {
	return m.Textures[t][i]
}

// AddTexture appends a texture reference of type t.
func (m *Material) AddTexture(t TextureType, path string) {
	if m.Textures == nil {
		m.Textures = make(map[TextureType][]string)
	}
	m.Textures[t] = append(m.Textures[t], path)
}
