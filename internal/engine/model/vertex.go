// Package model assembles imported scene graphs into renderer-ready meshes
// and draws them.
package model

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/modelkit/internal/engine/gpu"
)

// MaxBoneInfluence is the number of bones that can influence one vertex.
const MaxBoneInfluence = 4

// Vertex is the GPU vertex record. Field order and sizes are the buffer
// layout; VertexLayout must be kept in step with them.
type Vertex struct {
	Position    mgl32.Vec3
	Normal      mgl32.Vec3
	TexCoord    mgl32.Vec2
	Tangent     mgl32.Vec3
	Bitangent   mgl32.Vec3
	BoneIDs     [MaxBoneInfluence]int32
	BoneWeights [MaxBoneInfluence]float32
}

// Attribute slots reserved for each vertex field.
const (
	SlotPosition uint32 = iota
	SlotNormal
	SlotTexCoord
	SlotTangent
	SlotBitangent
	SlotBoneIDs
	SlotBoneWeights
)

// VertexStride is the size of one Vertex in bytes.
const VertexStride = int32(unsafe.Sizeof(Vertex{}))

var vertexLayout = []gpu.VertexAttrib{
	{Slot: SlotPosition, Size: 3, Type: gpu.AttribFloat, Offset: unsafe.Offsetof(Vertex{}.Position)},
	{Slot: SlotNormal, Size: 3, Type: gpu.AttribFloat, Offset: unsafe.Offsetof(Vertex{}.Normal)},
	{Slot: SlotTexCoord, Size: 2, Type: gpu.AttribFloat, Offset: unsafe.Offsetof(Vertex{}.TexCoord)},
	{Slot: SlotTangent, Size: 3, Type: gpu.AttribFloat, Offset: unsafe.Offsetof(Vertex{}.Tangent)},
	{Slot: SlotBitangent, Size: 3, Type: gpu.AttribFloat, Offset: unsafe.Offsetof(Vertex{}.Bitangent)},
	{Slot: SlotBoneIDs, Size: MaxBoneInfluence, Type: gpu.AttribInt, Integer: true, Offset: unsafe.Offsetof(Vertex{}.BoneIDs)},
	{Slot: SlotBoneWeights, Size: MaxBoneInfluence, Type: gpu.AttribFloat, Offset: unsafe.Offsetof(Vertex{}.BoneWeights)},
}

// VertexLayout returns the attribute layout of Vertex, one entry per slot.
func VertexLayout() []gpu.VertexAttrib {
	out := make([]gpu.VertexAttrib, len(vertexLayout))
	copy(out, vertexLayout)
	return out
}

// vertexBytes views a vertex slice as raw bytes without copying.
func vertexBytes(v []Vertex) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*int(VertexStride))
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBounds returns bounds that any point extends.
func EmptyBounds() Bounds {
	return Bounds{
		Min: mgl32.Vec3{1e30, 1e30, 1e30},
		Max: mgl32.Vec3{-1e30, -1e30, -1e30},
	}
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0]
}

// Extend grows b to contain p.
func (b *Bounds) Extend(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Union grows b to contain o.
func (b *Bounds) Union(o Bounds) {
	if o.Empty() {
		return
	}
	b.Extend(o.Min)
	b.Extend(o.Max)
}

// Center returns the box center.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extent per axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}
