// Package viewer implements the interactive model viewer loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/modelkit/internal/assets"
	"github.com/Faultbox/modelkit/internal/config"
	"github.com/Faultbox/modelkit/internal/engine/camera"
	"github.com/Faultbox/modelkit/internal/engine/debug"
	"github.com/Faultbox/modelkit/internal/engine/gpu/opengl"
	"github.com/Faultbox/modelkit/internal/engine/input"
	"github.com/Faultbox/modelkit/internal/engine/model"
	"github.com/Faultbox/modelkit/internal/engine/renderer"
	"github.com/Faultbox/modelkit/internal/engine/window"
	"github.com/Faultbox/modelkit/internal/logger"
)

// Viewer shows one model at a time in an SDL window.
type Viewer struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	device   *opengl.Device
	assets   *assets.Manager
	model    *model.Model
	path     string
	shots    *debug.Screenshots
	capture  bool // save the next rendered frame
	log      *zap.Logger
}

// New opens the window and prepares the loader from cfg.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg: cfg,
		log: logger.Named("viewer"),
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Device and renderer need the context the window just created
	v.device, err = opengl.NewDevice()
	if err != nil {
		v.window.Close()
		return nil, err
	}
	version, name := v.device.Version()
	v.log.Info("OpenGL initialized", zap.String("version", version), zap.String("renderer", name))

	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(width, height)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.assets, err = assets.NewManager(cfg, v.device)
	if err != nil {
		v.Close()
		return nil, err
	}

	v.shots = debug.NewScreenshots("screenshots", "modelkit")
	v.input = input.New()
	v.camera = camera.NewOrbitCamera()
	v.camera.FOV = cfg.Camera.FOV
	v.camera.Near = cfg.Camera.Near
	v.camera.Far = cfg.Camera.Far
	return v, nil
}

// Load replaces the current model with the one at path and frames it.
// The current model stays when loading fails.
func (v *Viewer) Load(path string) error {
	m, err := v.assets.Load(path)
	if err != nil {
		return err
	}
	if v.model != nil && v.model != m {
		v.assets.Unload(v.path)
	}
	v.model, v.path = m, path

	s := m.Stats()
	v.log.Info("showing model",
		zap.String("path", path),
		zap.Int("meshes", s.Meshes),
		zap.Int("triangles", s.Triangles),
	)

	b := m.Bounds()
	v.camera.FitToBounds(b.Min, b.Max)
	v.window.SetTitle(fmt.Sprintf("%s - %s", v.cfg.Window.Title, path))
	return nil
}

// Run starts the main loop and returns when the window closes.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		v.handleMovement(float32(dt))

		v.renderer.Begin()
		if v.model != nil {
			v.renderer.DrawModel(v.model, v.camera)
		}
		if v.capture {
			v.capture = false
			v.saveScreenshot()
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(v.window.DrawableSize())
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_F12:
				v.capture = true
			case sdl.SCANCODE_F:
				if v.model != nil {
					b := v.model.Bounds()
					v.camera.FitToBounds(b.Min, b.Max)
				}
			}
		case input.EventMouseDrag:
			if event.Button == uint8(sdl.BUTTON_RIGHT) {
				v.camera.HandleMovement(event.DY*0.1, -event.DX*0.1, 0)
			} else {
				v.camera.HandleDrag(event.DX, event.DY)
			}
		case input.EventMouseWheel:
			v.camera.HandleZoom(event.DY)
		case input.EventDropFile:
			if err := v.Load(event.Path); err != nil {
				v.log.Error("failed to load dropped model", zap.String("path", event.Path), zap.Error(err))
			}
		}
	}
}

func (v *Viewer) saveScreenshot() {
	pixels, width, height := v.renderer.ReadPixels()
	name, err := v.shots.SaveFrame(pixels, width, height)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("file", name))
}

func (v *Viewer) handleMovement(dt float32) {
	var forward, right, up float32
	if input.KeyState(sdl.SCANCODE_W) {
		forward++
	}
	if input.KeyState(sdl.SCANCODE_S) {
		forward--
	}
	if input.KeyState(sdl.SCANCODE_D) {
		right++
	}
	if input.KeyState(sdl.SCANCODE_A) {
		right--
	}
	if input.KeyState(sdl.SCANCODE_E) {
		up++
	}
	if input.KeyState(sdl.SCANCODE_Q) {
		up--
	}
	if forward != 0 || right != 0 || up != 0 {
		// Movement is tuned for 60 frames per second
		scale := dt * 60
		v.camera.HandleMovement(forward*scale, right*scale, up*scale)
	}
}

// Close releases every loaded model and the window.
func (v *Viewer) Close() {
	if v.assets != nil {
		v.assets.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
