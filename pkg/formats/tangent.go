package formats

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/modelkit/pkg/scenegraph"
)

// splitTangents turns glTF tangents (xyz plus handedness in w) into tangent
// and bitangent vectors.
func splitTangents(normals []mgl32.Vec3, tangents [][4]float32) (t, b []mgl32.Vec3) {
	t = make([]mgl32.Vec3, len(tangents))
	b = make([]mgl32.Vec3, len(tangents))
	for i, v := range tangents {
		t[i] = mgl32.Vec3{v[0], v[1], v[2]}
		w := v[3]
		if w == 0 {
			w = 1
		}
		b[i] = normals[i].Cross(t[i]).Mul(w)
	}
	return t, b
}

// GenerateTangents computes per-vertex tangents and bitangents from positions,
// texture coordinates and triangle faces. Contributions of adjacent faces are
// summed and normalized; when the mesh has normals the tangent is made
// orthogonal to them. Vertices with no usable UV gradient get zero vectors.
func GenerateTangents(m *scenegraph.Mesh) (tangents, bitangents []mgl32.Vec3) {
	n := len(m.Positions)
	tangents = make([]mgl32.Vec3, n)
	bitangents = make([]mgl32.Vec3, n)
	if !m.HasTexCoords() {
		return tangents, bitangents
	}

	for _, f := range m.Faces {
		if len(f.Indices) != 3 {
			continue
		}
		i0, i1, i2 := f.Indices[0], f.Indices[1], f.Indices[2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			continue
		}

		e1 := m.Positions[i1].Sub(m.Positions[i0])
		e2 := m.Positions[i2].Sub(m.Positions[i0])
		d1 := m.TexCoords[i1].Sub(m.TexCoords[i0])
		d2 := m.TexCoords[i2].Sub(m.TexCoords[i0])

		det := d1[0]*d2[1] - d2[0]*d1[1]
		if det == 0 {
			continue
		}
		r := 1 / det
		t := e1.Mul(d2[1]).Sub(e2.Mul(d1[1])).Mul(r)
		b := e2.Mul(d1[0]).Sub(e1.Mul(d2[0])).Mul(r)

		for _, i := range [3]uint32{i0, i1, i2} {
			tangents[i] = tangents[i].Add(t)
			bitangents[i] = bitangents[i].Add(b)
		}
	}

	hasNormals := m.HasNormals()
	for i := range tangents {
		t := tangents[i]
		if hasNormals {
			nrm := m.Normals[i]
			t = t.Sub(nrm.Mul(nrm.Dot(t)))
		}
		if t.Len() > 0 {
			t = t.Normalize()
		}
		tangents[i] = t

		if b := bitangents[i]; b.Len() > 0 {
			bitangents[i] = b.Normalize()
		}
	}
	return tangents, bitangents
}

// FlatNormals gives every triangle of m its own three vertices carrying the
// face normal. The other vertex channels are copied per corner and the faces
// are rewritten to index the new vertices. Faces that are not triangles or
// reference missing vertices are dropped.
func FlatNormals(m *scenegraph.Mesh) {
	n := len(m.Positions)
	uv := m.HasTexCoords()
	bones := m.HasBones()

	var (
		positions []mgl32.Vec3
		normals   []mgl32.Vec3
		texCoords []mgl32.Vec2
		joints    [][4]int32
		weights   []mgl32.Vec4
		faces     []scenegraph.Face
	)
	for _, f := range m.Faces {
		if len(f.Indices) != 3 {
			continue
		}
		i0, i1, i2 := f.Indices[0], f.Indices[1], f.Indices[2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			continue
		}

		e1 := m.Positions[i1].Sub(m.Positions[i0])
		e2 := m.Positions[i2].Sub(m.Positions[i0])
		nrm := e1.Cross(e2)
		if nrm.Len() > 0 {
			nrm = nrm.Normalize()
		}

		base := uint32(len(positions))
		for _, i := range [3]uint32{i0, i1, i2} {
			positions = append(positions, m.Positions[i])
			normals = append(normals, nrm)
			if uv {
				texCoords = append(texCoords, m.TexCoords[i])
			}
			if bones {
				joints = append(joints, m.Joints[i])
				weights = append(weights, m.Weights[i])
			}
		}
		faces = append(faces, scenegraph.Face{Indices: []uint32{base, base + 1, base + 2}})
	}

	m.Positions = positions
	m.Normals = normals
	m.TexCoords = texCoords
	m.Joints = joints
	m.Weights = weights
	m.Tangents, m.Bitangents = nil, nil
	m.Faces = faces
}
