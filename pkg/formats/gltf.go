// Package formats imports 3D scene files into the scenegraph representation.
package formats

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/modelkit/pkg/scenegraph"
)

// glTF import errors.
var (
	ErrNoPositions     = errors.New("primitive has no POSITION attribute")
	ErrAccessorIndex   = errors.New("accessor index out of range")
	ErrAttributeLength = errors.New("vertex attribute length mismatch")
)

// LoadGLTF reads a .gltf or .glb file and converts its default scene.
// External buffers are resolved relative to the file.
func LoadGLTF(name string) (*scenegraph.Scene, error) {
	doc, err := gltf.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return ConvertGLTF(doc)
}

// ConvertGLTF converts a decoded glTF document.
//
// Every primitive becomes one scenegraph mesh, and a node references all
// primitives of its glTF mesh. The scene's root nodes become children of a
// synthetic root. Triangle strips and fans are triangulated; point and line
// primitives are dropped. Primitives without NORMAL get flat normals, and
// tangents are generated when a primitive has
// texture coordinates but no TANGENT attribute.
//
// A document without any triangle mesh converts to a scene flagged
// incomplete.
func ConvertGLTF(doc *gltf.Document) (*scenegraph.Scene, error) {
	scene := &scenegraph.Scene{
		Root: &scenegraph.Node{Name: "root"},
	}

	for i, m := range doc.Materials {
		scene.Materials = append(scene.Materials, convertMaterial(doc, i, m))
	}

	// glTF mesh index -> scenegraph mesh indices, one per kept primitive.
	primitives := make([][]int, len(doc.Meshes))
	for mi, m := range doc.Meshes {
		for pi, p := range m.Primitives {
			mesh, err := convertPrimitive(doc, p)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			if mesh == nil {
				continue
			}
			mesh.Name = primitiveName(m.Name, mi, pi, len(m.Primitives))
			if mat, ok := optIndex(p.Material); ok && mat < len(scene.Materials) {
				mesh.Material = mat
			}
			primitives[mi] = append(primitives[mi], len(scene.Meshes))
			scene.Meshes = append(scene.Meshes, mesh)
		}
	}
	if len(scene.Meshes) == 0 {
		scene.Flags |= scenegraph.FlagIncomplete
	}

	for _, ni := range rootNodes(doc) {
		if child := convertNode(doc, ni, primitives, make(map[int]bool)); child != nil {
			scene.Root.Children = append(scene.Root.Children, child)
		}
	}
	return scene, nil
}

// rootNodes returns the node indices of the default scene. Documents without
// scenes use every node that is nobody's child.
func rootNodes(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		si := 0
		if i, ok := optIndex(doc.Scene); ok && i < len(doc.Scenes) {
			si = i
		}
		return indices(doc.Scenes[si].Nodes)
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range indices(n.Children) {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// convertNode converts node ni and its subtree. Invalid or repeated node
// references along a path are dropped.
func convertNode(doc *gltf.Document, ni int, primitives [][]int, onPath map[int]bool) *scenegraph.Node {
	if ni < 0 || ni >= len(doc.Nodes) || onPath[ni] {
		return nil
	}
	onPath[ni] = true
	defer delete(onPath, ni)

	n := doc.Nodes[ni]
	node := &scenegraph.Node{Name: n.Name}
	if mi, ok := optIndex(n.Mesh); ok && mi < len(primitives) {
		node.Meshes = append(node.Meshes, primitives[mi]...)
	}
	for _, ci := range indices(n.Children) {
		if child := convertNode(doc, ci, primitives, onPath); child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node
}

func primitiveName(meshName string, mi, pi, count int) string {
	if meshName == "" {
		meshName = fmt.Sprintf("mesh%d", mi)
	}
	if count == 1 {
		return meshName
	}
	return fmt.Sprintf("%s.%d", meshName, pi)
}

// convertPrimitive reads the vertex channels and faces of p. It returns nil
// for primitives that do not describe triangles.
func convertPrimitive(doc *gltf.Document, p *gltf.Primitive) (*scenegraph.Mesh, error) {
	switch p.Mode {
	case gltf.PrimitiveTriangles, gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
	default:
		return nil, nil
	}

	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil, ErrNoPositions
	}
	acr, err := accessor(doc, index(posIdx))
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	mesh := &scenegraph.Mesh{
		Positions: make([]mgl32.Vec3, len(positions)),
		Material:  scenegraph.NoMaterial,
	}
	for i, v := range positions {
		mesh.Positions[i] = v
	}
	count := len(positions)

	if idx, ok := p.Attributes[gltf.NORMAL]; ok {
		data, err := readAttribute(doc, index(idx), count, modeler.ReadNormal)
		if err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
		mesh.Normals = make([]mgl32.Vec3, count)
		for i, v := range data {
			mesh.Normals[i] = v
		}
	}

	if idx, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		data, err := readAttribute(doc, index(idx), count, modeler.ReadTextureCoord)
		if err != nil {
			return nil, fmt.Errorf("read texcoords: %w", err)
		}
		mesh.TexCoords = make([]mgl32.Vec2, count)
		for i, v := range data {
			mesh.TexCoords[i] = v
		}
	}

	if idx, ok := p.Attributes[gltf.JOINTS_0]; ok {
		joints, err := readAttribute(doc, index(idx), count, modeler.ReadJoints)
		if err != nil {
			return nil, fmt.Errorf("read joints: %w", err)
		}
		weights, err := readWeights(doc, p, count)
		if err != nil {
			return nil, err
		}
		if weights != nil {
			mesh.Joints = make([][4]int32, count)
			mesh.Weights = make([]mgl32.Vec4, count)
			for i := range joints {
				for j := 0; j < 4; j++ {
					mesh.Joints[i][j] = int32(joints[i][j])
				}
				mesh.Weights[i] = weights[i]
			}
		}
	}

	idx, err := readIndices(doc, p, count)
	if err != nil {
		return nil, err
	}
	mesh.Faces = triangulate(p.Mode, idx)

	// Supplied tangents do not apply to generated normals.
	flat := !mesh.HasNormals()
	if flat {
		FlatNormals(mesh)
	}

	if mesh.HasTexCoords() {
		if idx, ok := p.Attributes[gltf.TANGENT]; ok && !flat {
			data, err := readAttribute(doc, index(idx), count, modeler.ReadTangent)
			if err != nil {
				return nil, fmt.Errorf("read tangents: %w", err)
			}
			mesh.Tangents, mesh.Bitangents = splitTangents(mesh.Normals, data)
		} else {
			mesh.Tangents, mesh.Bitangents = GenerateTangents(mesh)
		}
	}
	return mesh, nil
}

func readWeights(doc *gltf.Document, p *gltf.Primitive, count int) ([][4]float32, error) {
	idx, ok := p.Attributes[gltf.WEIGHTS_0]
	if !ok {
		return nil, nil
	}
	data, err := readAttribute(doc, index(idx), count, modeler.ReadWeights)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	return data, nil
}

// readAttribute reads accessor idx with read and checks it has one element
// per vertex.
func readAttribute[T any](doc *gltf.Document, idx, count int,
	read func(*gltf.Document, *gltf.Accessor, []T) ([]T, error)) ([]T, error) {
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, err
	}
	data, err := read(doc, acr, nil)
	if err != nil {
		return nil, err
	}
	if len(data) != count {
		return nil, fmt.Errorf("%w: %d elements for %d vertices", ErrAttributeLength, len(data), count)
	}
	return data, nil
}

// readIndices returns the primitive's index list, or 0..count-1 for
// non-indexed geometry.
func readIndices(doc *gltf.Document, p *gltf.Primitive, count int) ([]uint32, error) {
	ai, ok := optIndex(p.Indices)
	if !ok {
		seq := make([]uint32, count)
		for i := range seq {
			seq[i] = uint32(i)
		}
		return seq, nil
	}
	acr, err := accessor(doc, ai)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadIndices(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("read indices: %w", err)
	}
	return data, nil
}

// glTF documents index their arrays with unsigned integers.
type docIndex interface {
	~int | ~uint32
}

func index[I docIndex](i I) int {
	return int(i)
}

func optIndex[I docIndex](i *I) (int, bool) {
	if i == nil {
		return 0, false
	}
	return int(*i), true
}

func indices[I docIndex](list []I) []int {
	out := make([]int, len(list))
	for i, v := range list {
		out[i] = int(v)
	}
	return out
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: %d of %d", ErrAccessorIndex, idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}

// triangulate groups indices into triangle faces for mode. Degenerate strip
// and fan triangles are kept; trailing indices that do not complete a
// triangle are ignored.
func triangulate(mode gltf.PrimitiveMode, idx []uint32) []scenegraph.Face {
	var faces []scenegraph.Face
	switch mode {
	case gltf.PrimitiveTriangleStrip:
		for i := 2; i < len(idx); i++ {
			a, b, c := idx[i-2], idx[i-1], idx[i]
			if i%2 == 1 {
				a, b = b, a
			}
			faces = append(faces, scenegraph.Face{Indices: []uint32{a, b, c}})
		}
	case gltf.PrimitiveTriangleFan:
		for i := 2; i < len(idx); i++ {
			faces = append(faces, scenegraph.Face{Indices: []uint32{idx[0], idx[i-1], idx[i]}})
		}
	default:
		for i := 0; i+2 < len(idx); i += 3 {
			faces = append(faces, scenegraph.Face{Indices: []uint32{idx[i], idx[i+1], idx[i+2]}})
		}
	}
	return faces
}

// convertMaterial maps the glTF PBR slots onto texture types: base color as
// diffuse, metallic-roughness as specular, then normal, occlusion as ambient
// and emissive.
func convertMaterial(doc *gltf.Document, i int, m *gltf.Material) *scenegraph.Material {
	mat := &scenegraph.Material{Name: m.Name}
	if mat.Name == "" {
		mat.Name = fmt.Sprintf("material%d", i)
	}

	add := func(t scenegraph.TextureType, ti int, ok bool) {
		if !ok {
			return
		}
		if uri, ok := textureURI(doc, ti); ok {
			mat.AddTexture(t, uri)
		}
	}

	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorTexture != nil {
			add(scenegraph.TextureDiffuse, index(pbr.BaseColorTexture.Index), true)
		}
		if pbr.MetallicRoughnessTexture != nil {
			add(scenegraph.TextureSpecular, index(pbr.MetallicRoughnessTexture.Index), true)
		}
	}
	if m.NormalTexture != nil {
		ti, ok := optIndex(m.NormalTexture.Index)
		add(scenegraph.TextureNormals, ti, ok)
	}
	if m.OcclusionTexture != nil {
		ti, ok := optIndex(m.OcclusionTexture.Index)
		add(scenegraph.TextureAmbient, ti, ok)
	}
	if m.EmissiveTexture != nil {
		add(scenegraph.TextureEmissive, index(m.EmissiveTexture.Index), true)
	}
	return mat
}

// textureURI returns the relative file reference of texture ti. Images held in
// buffers or data URIs have no file and are skipped.
func textureURI(doc *gltf.Document, ti int) (string, bool) {
	if ti < 0 || ti >= len(doc.Textures) {
		return "", false
	}
	src, ok := optIndex(doc.Textures[ti].Source)
	if !ok || src < 0 || src >= len(doc.Images) {
		return "", false
	}
	uri := doc.Images[src].URI
	if uri == "" || strings.HasPrefix(uri, "data:") {
		return "", false
	}
	if unescaped, err := url.PathUnescape(uri); err == nil {
		uri = unescaped
	}
	return path.Clean(uri), true
}
