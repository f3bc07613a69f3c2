package texture

import (
	"fmt"

	"github.com/Faultbox/modelkit/internal/engine/gpu"
)

// Role is the semantic purpose of a texture map. It selects the material slot
// a texture is read from and the sampler name it is bound to at draw time.
type Role int

// Texture roles, in draw binding order.
const (
	RoleDiffuse Role = iota
	RoleSpecular
	RoleNormal
	RoleHeight

	// NumRoles is the number of defined roles.
	NumRoles = iota
)

// Roles lists every role in binding order.
var Roles = []Role{RoleDiffuse, RoleSpecular, RoleNormal, RoleHeight}

var roleNames = [...]string{
	RoleDiffuse:  "texture_diffuse",
	RoleSpecular: "texture_specular",
	RoleNormal:   "texture_normal",
	RoleHeight:   "texture_height",
}

// String returns the sampler name prefix for the role, e.g. "texture_diffuse".
func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("texture_role(%d)", int(r))
	}
	return roleNames[r]
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r >= RoleDiffuse && r <= RoleHeight
}

// Texture is a non-owning reference to a cached GPU texture, tagged with the
// role it was requested for.
type Texture struct {
	ID   gpu.TextureID
	Role Role
	Path string // normalized cache key
}
