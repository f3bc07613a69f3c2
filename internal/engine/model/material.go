package model

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/modelkit/internal/engine/texture"
	"github.com/Faultbox/modelkit/pkg/scenegraph"
)

// RoleSources lists, per texture role, the material texture types read for it.
type RoleSources map[texture.Role][]scenegraph.TextureType

// StandardRoleSources reads each role from the texture type of the same name.
var StandardRoleSources = RoleSources{
	texture.RoleDiffuse:  {scenegraph.TextureDiffuse},
	texture.RoleSpecular: {scenegraph.TextureSpecular},
	texture.RoleNormal:   {scenegraph.TextureNormals},
	texture.RoleHeight:   {scenegraph.TextureHeight},
}

// LegacyRoleSources follows the OBJ/MTL convention where bump maps (map_bump)
// import as height textures and hold normal maps, and ambient maps (map_Ka)
// carry height data.
var LegacyRoleSources = RoleSources{
	texture.RoleDiffuse:  {scenegraph.TextureDiffuse},
	texture.RoleSpecular: {scenegraph.TextureSpecular},
	texture.RoleNormal:   {scenegraph.TextureHeight},
	texture.RoleHeight:   {scenegraph.TextureAmbient},
}

// MissingPolicy decides what happens to a texture that fails to load.
type MissingPolicy int

// Missing texture policies.
const (
	// MissingSkip logs the failure and leaves the texture out.
	MissingSkip MissingPolicy = iota
	// MissingPlaceholder substitutes the cache's 1x1 white texture.
	MissingPlaceholder
	// MissingFail aborts the model load.
	MissingFail
)

// ParseMissingPolicy parses "skip", "placeholder" or "fail".
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch s {
	case "skip", "":
		return MissingSkip, nil
	case "placeholder":
		return MissingPlaceholder, nil
	case "fail":
		return MissingFail, nil
	}
	return 0, fmt.Errorf("unknown missing texture policy %q", s)
}

func (p MissingPolicy) String() string {
	switch p {
	case MissingSkip:
		return "skip"
	case MissingPlaceholder:
		return "placeholder"
	case MissingFail:
		return "fail"
	}
	return fmt.Sprintf("MissingPolicy(%d)", int(p))
}

// MaterialResolver turns a material into the ordered texture list of a mesh.
type MaterialResolver struct {
	cache   *texture.Cache
	sources RoleSources
	missing MissingPolicy
	log     *zap.Logger
}

// NewMaterialResolver creates a resolver loading through cache.
func NewMaterialResolver(cache *texture.Cache, sources RoleSources, missing MissingPolicy, log *zap.Logger) *MaterialResolver {
	if sources == nil {
		sources = StandardRoleSources
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MaterialResolver{
		cache:   cache,
		sources: sources,
		missing: missing,
		log:     log,
	}
}

// ResolveTextures resolves every texture of mat, joining each relative path
// with baseDir. The result holds diffuse textures first, then specular, normal
// and height, each in material order. Draw-time sampler numbering relies on
// this order.
//
// A texture that fails to load is handled by the missing policy; only
// MissingFail returns an error, which wraps the *texture.LoadError.
func (r *MaterialResolver) ResolveTextures(mat *scenegraph.Material, baseDir string) ([]texture.Texture, error) {
	if mat == nil {
		return nil, nil
	}

	var textures []texture.Texture
	for _, role := range texture.Roles {
		for _, typ := range r.sources[role] {
			for i := 0; i < mat.TextureCount(typ); i++ {
				path := joinTexturePath(baseDir, mat.Texture(typ, i))

				tex, err := r.cache.Resolve(path, role)
				if err != nil {
					sub, herr := r.handleMissing(mat, role, err)
					if herr != nil {
						return nil, herr
					}
					if sub == nil {
						continue
					}
					textures = append(textures, *sub)
					continue
				}
				textures = append(textures, tex)
			}
		}
	}
	return textures, nil
}

func (r *MaterialResolver) handleMissing(mat *scenegraph.Material, role texture.Role, loadErr error) (*texture.Texture, error) {
	var le *texture.LoadError
	path := ""
	if errors.As(loadErr, &le) {
		path = le.Path
	}

	switch r.missing {
	case MissingFail:
		return nil, fmt.Errorf("material %q: %w", mat.Name, loadErr)
	case MissingPlaceholder:
		r.log.Warn("texture failed to load, using placeholder",
			zap.String("material", mat.Name),
			zap.String("role", role.String()),
			zap.String("path", path),
			zap.Error(loadErr),
		)
		tex, err := r.cache.Placeholder(role)
		if err != nil {
			return nil, err
		}
		return &tex, nil
	default:
		r.log.Warn("texture failed to load, skipping",
			zap.String("material", mat.Name),
			zap.String("role", role.String()),
			zap.String("path", path),
			zap.Error(loadErr),
		)
		return nil, nil
	}
}

// joinTexturePath resolves a material texture reference against the model
// directory. References use forward slashes; absolute references are kept.
func joinTexturePath(baseDir, ref string) string {
	p := filepath.FromSlash(ref)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
