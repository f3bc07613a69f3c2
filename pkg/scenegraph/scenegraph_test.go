package scenegraph

import (
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestWalkPreOrder(t *testing.T) {
	root := &Node{Name: "root", Children: []*Node{
		{Name: "a", Children: []*Node{
			{Name: "a1"},
			{Name: "a2"},
		}},
		{Name: "b", Children: []*Node{
			{Name: "b1"},
		}},
	}}

	var order []string
	var depths []int
	root.Walk(func(n *Node, depth int) bool {
		order = append(order, n.Name)
		depths = append(depths, depth)
		return true
	})

	wantOrder := []string{"root", "a", "a1", "a2", "b", "b1"}
	wantDepths := []int{0, 1, 2, 2, 1, 2}
	if !reflect.DeepEqual(order, wantOrder) {
		t.Errorf("order = %v, want %v", order, wantOrder)
	}
	if !reflect.DeepEqual(depths, wantDepths) {
		t.Errorf("depths = %v, want %v", depths, wantDepths)
	}
}

func TestWalkSkipSubtree(t *testing.T) {
	root := &Node{Name: "root", Children: []*Node{
		{Name: "skip", Children: []*Node{{Name: "hidden"}}},
		{Name: "keep"},
	}}

	var order []string
	root.Walk(func(n *Node, _ int) bool {
		order = append(order, n.Name)
		return n.Name != "skip"
	})

	want := []string{"root", "skip", "keep"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestMeshChannels(t *testing.T) {
	m := &Mesh{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}},
		Normals:   []mgl32.Vec3{{0, 1, 0}},
		TexCoords: []mgl32.Vec2{{0, 0}, {1, 0}},
	}

	if m.HasNormals() {
		t.Error("normals with the wrong length must count as absent")
	}
	if !m.HasTexCoords() {
		t.Error("expected texcoords")
	}
	if m.HasTangents() {
		t.Error("expected no tangents")
	}
	if m.HasBones() {
		t.Error("expected no bones")
	}
}

func TestMaterialTextures(t *testing.T) {
	var m Material
	m.AddTexture(TextureDiffuse, "a.png")
	m.AddTexture(TextureDiffuse, "b.png")

	if m.TextureCount(TextureDiffuse) != 2 {
		t.Errorf("diffuse count = %d, want 2", m.TextureCount(TextureDiffuse))
	}
	if m.TextureCount(TextureHeight) != 0 {
		t.Errorf("height count = %d, want 0", m.TextureCount(TextureHeight))
	}
	if m.Texture(TextureDiffuse, 1) != "b.png" {
		t.Errorf("second diffuse = %q, want b.png", m.Texture(TextureDiffuse, 1))
	}
}

func TestSceneIncomplete(t *testing.T) {
	s := &Scene{}
	if s.Incomplete() {
		t.Error("empty flags should not be incomplete")
	}
	s.Flags |= FlagIncomplete
	if !s.Incomplete() {
		t.Error("expected incomplete")
	}
}
