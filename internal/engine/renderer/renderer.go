// Package renderer draws loaded models with the built-in model shader.
package renderer

import (
	_ "embed"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/modelkit/internal/engine/camera"
	"github.com/Faultbox/modelkit/internal/engine/model"
	"github.com/Faultbox/modelkit/internal/engine/shader"
	"github.com/Faultbox/modelkit/internal/engine/texture"
	"github.com/Faultbox/modelkit/internal/logger"
)

//go:embed shaders/model.vert
var modelVertexShader string

//go:embed shaders/model.frag
var modelFragmentShader string

// Renderer owns the GL state and shader program used to draw models.
type Renderer struct {
	program  *shader.Program
	lightDir mgl32.Vec3
	width    int
	height   int
	log      *zap.Logger
}

// New compiles the model shader and sets up default GL state.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(width, height int) (*Renderer, error) {
	r := &Renderer{
		lightDir: mgl32.Vec3{-0.4, -1, -0.6}.Normalize(),
		log:      logger.Named("renderer"),
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0) // Dark blue-gray background

	var err error
	r.program, err = shader.NewProgram(modelVertexShader, modelFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("model shader: %w", err)
	}
	r.Resize(width, height)
	return r, nil
}

// Close releases the shader program.
func (r *Renderer) Close() {
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.height == 0 {
		return 1
	}
	return float32(r.width) / float32(r.height)
}

// ReadPixels reads back the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	pixels = make([]byte, r.width*r.height*4)
	if len(pixels) == 0 {
		return pixels, r.width, r.height
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(r.width), int32(r.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))
	return pixels, r.width, r.height
}

// Begin clears the frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawModel draws m as seen from cam. Per-mesh texture presence flags are set
// before each mesh draws its own sampler bindings.
func (r *Renderer) DrawModel(m *model.Model, cam *camera.OrbitCamera) {
	r.program.Use()
	r.program.SetMat4("projection", cam.ProjectionMatrix(r.Aspect()))
	r.program.SetMat4("view", cam.ViewMatrix())
	r.program.SetMat4("model", mgl32.Ident4())
	r.program.SetVec3("viewPos", cam.Position())
	r.program.SetVec3("lightDir", r.lightDir)

	for _, mesh := range m.Meshes {
		var has [texture.NumRoles]bool
		for _, tex := range mesh.Textures {
			if tex.Role.Valid() {
				has[tex.Role] = true
			}
		}
		r.program.SetInt("hasDiffuse", boolInt(has[texture.RoleDiffuse]))
		r.program.SetInt("hasSpecular", boolInt(has[texture.RoleSpecular]))
		r.program.SetInt("hasNormal", boolInt(has[texture.RoleNormal]))
		mesh.Draw(r.program)
	}
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
