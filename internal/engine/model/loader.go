package model

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/modelkit/internal/engine/gpu"
	"github.com/Faultbox/modelkit/internal/engine/texture"
	"github.com/Faultbox/modelkit/internal/logger"
	"github.com/Faultbox/modelkit/pkg/scenegraph"
)

// Parser imports a scene file. Faces of the returned meshes must already be
// triangulated.
type Parser interface {
	Parse(path string) (*scenegraph.Scene, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(path string) (*scenegraph.Scene, error)

// Parse calls f(path).
func (f ParserFunc) Parse(path string) (*scenegraph.Scene, error) {
	return f(path)
}

// Loader builds models from scene files.
type Loader struct {
	device  gpu.Device
	parser  Parser
	shared  *texture.Cache
	decoder texture.Decoder
	missing MissingPolicy
	sources RoleSources
	log     *zap.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithTextureCache makes every model resolve textures through c. Without it
// each model gets a cache of its own, released with the model.
func WithTextureCache(c *texture.Cache) LoaderOption {
	return func(l *Loader) {
		l.shared = c
	}
}

// WithDecoder sets the image decoder for per-model caches.
func WithDecoder(d texture.Decoder) LoaderOption {
	return func(l *Loader) {
		l.decoder = d
	}
}

// WithMissingPolicy sets how textures that fail to load are handled.
func WithMissingPolicy(p MissingPolicy) LoaderOption {
	return func(l *Loader) {
		l.missing = p
	}
}

// WithRoleSources sets the material texture types read for each role.
func WithRoleSources(s RoleSources) LoaderOption {
	return func(l *Loader) {
		l.sources = s
	}
}

// WithLogger sets the logger. Defaults to the "model" child of the global logger.
func WithLogger(log *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.log = log
	}
}

// NewLoader creates a loader uploading to device and importing with parser.
func NewLoader(device gpu.Device, parser Parser, opts ...LoaderOption) *Loader {
	l := &Loader{
		device:  device,
		parser:  parser,
		missing: MissingSkip,
		sources: StandardRoleSources,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logger.Named("model")
	}
	return l
}

// Load parses path and assembles the scene into a model. Any failure returns
// a *SceneLoadError and no model.
func (l *Loader) Load(path string) (*Model, error) {
	scene, err := l.parser.Parse(path)
	if err != nil {
		return nil, &SceneLoadError{Path: path, Err: err}
	}
	return l.Assemble(scene, path)
}

// Assemble turns an imported scene into a model. path names the scene file;
// texture references are resolved against its directory.
//
// Nodes are visited depth-first, parent before children, and every mesh
// reference produces its own Mesh, so a mesh referenced by two nodes is
// built twice. On error every mesh built so far is deleted.
func (l *Loader) Assemble(scene *scenegraph.Scene, path string) (*Model, error) {
	switch {
	case scene == nil:
		return nil, &SceneLoadError{Path: path, Err: ErrNilScene}
	case scene.Incomplete():
		return nil, &SceneLoadError{Path: path, Err: ErrIncompleteScene}
	case scene.Root == nil:
		return nil, &SceneLoadError{Path: path, Err: ErrNoRootNode}
	}

	m := &Model{
		Path:      path,
		Directory: filepath.Dir(path),
		Textures:  l.shared,
	}
	if m.Textures == nil {
		m.Textures = texture.NewCache(l.device, l.decoder, texture.WithLogger(l.log.Named("texture")))
		m.ownsTextures = true
	}
	resolver := NewMaterialResolver(m.Textures, l.sources, l.missing, l.log)

	var loadErr error
	scene.Root.Walk(func(node *scenegraph.Node, depth int) bool {
		// Walk only prunes subtrees; stop at the first error.
		if loadErr != nil {
			return false
		}
		for _, idx := range node.Meshes {
			if idx < 0 || idx >= len(scene.Meshes) || scene.Meshes[idx] == nil {
				loadErr = fmt.Errorf("node %q references mesh %d of %d: %w",
					node.Name, idx, len(scene.Meshes), ErrMeshIndex)
				return false
			}
			mesh, err := l.processMesh(scene, scene.Meshes[idx], resolver, m.Directory)
			if err != nil {
				loadErr = err
				return false
			}
			m.Meshes = append(m.Meshes, mesh)
		}
		return true
	})
	if loadErr != nil {
		m.Delete()
		return nil, &SceneLoadError{Path: path, Err: loadErr}
	}

	s := m.Stats()
	l.log.Info("model loaded",
		zap.String("path", path),
		zap.Int("meshes", s.Meshes),
		zap.Int("vertices", s.Vertices),
		zap.Int("triangles", s.Triangles),
		zap.Int("textures", m.Textures.Len()),
	)
	return m, nil
}

func (l *Loader) processMesh(scene *scenegraph.Scene, src *scenegraph.Mesh, resolver *MaterialResolver, dir string) (*Mesh, error) {
	vertices := ExtractVertices(src)
	indices, skipped := ExtractIndices(src)
	if skipped > 0 {
		l.log.Debug("skipped malformed faces",
			zap.String("mesh", src.Name),
			zap.Int("skipped", skipped),
		)
	}

	var textures []texture.Texture
	if src.Material >= 0 && src.Material < len(scene.Materials) {
		var err error
		textures, err = resolver.ResolveTextures(scene.Materials[src.Material], dir)
		if err != nil {
			return nil, fmt.Errorf("mesh %q: %w", src.Name, err)
		}
	}

	mesh, err := BuildMesh(l.device, vertices, indices, textures)
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", src.Name, err)
	}
	mesh.Name = src.Name
	return mesh, nil
}

// ExtractVertices copies the per-vertex channels of an imported mesh into
// Vertex records. Missing normals stay zero. Without texture coordinates the
// texture coordinate is (0,0) and tangents stay zero, since importers only
// guarantee tangents alongside UVs.
func ExtractVertices(src *scenegraph.Mesh) []Vertex {
	vertices := make([]Vertex, len(src.Positions))
	hasNormals := src.HasNormals()
	hasUV := src.HasTexCoords()
	hasTangents := hasUV && src.HasTangents()
	hasBones := src.HasBones()

	for i, p := range src.Positions {
		v := &vertices[i]
		v.Position = p
		if hasNormals {
			v.Normal = src.Normals[i]
		}
		if hasUV {
			v.TexCoord = src.TexCoords[i]
		}
		if hasTangents {
			v.Tangent = src.Tangents[i]
			v.Bitangent = src.Bitangents[i]
		}
		if hasBones {
			v.BoneIDs = src.Joints[i]
			v.BoneWeights = src.Weights[i]
		}
	}
	return vertices
}

// ExtractIndices flattens triangle faces in face order. Faces that are not
// triangles or reference a missing vertex are dropped and counted.
func ExtractIndices(src *scenegraph.Mesh) (indices []uint32, skipped int) {
	n := uint32(len(src.Positions))
	indices = make([]uint32, 0, len(src.Faces)*3)
	for _, f := range src.Faces {
		if len(f.Indices) != 3 || f.Indices[0] >= n || f.Indices[1] >= n || f.Indices[2] >= n {
			skipped++
			continue
		}
		indices = append(indices, f.Indices...)
	}
	return indices, skipped
}
