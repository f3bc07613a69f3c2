package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestOrbitCameraPosition(t *testing.T) {
	c := NewOrbitCamera()
	c.Target = mgl32.Vec3{1, 2, 3}
	c.Distance = 10
	c.Pitch = 0
	c.Yaw = 0

	if got := c.Position(); !got.ApproxEqualThreshold(mgl32.Vec3{1, 2, 13}, 1e-4) {
		t.Errorf("Position = %v, want (1,2,13)", got)
	}

	// The target sits on the view axis in front of the camera.
	p := c.ViewMatrix().Mul4x1(c.Target.Vec4(1))
	if !p.Vec3().ApproxEqualThreshold(mgl32.Vec3{0, 0, -10}, 1e-4) {
		t.Errorf("target in view space = %v, want (0,0,-10)", p)
	}
}

func TestOrbitCameraClamps(t *testing.T) {
	c := NewOrbitCamera()

	c.HandleDrag(0, 1e6)
	if c.Pitch != c.MaxPitch {
		t.Errorf("Pitch = %v, want %v", c.Pitch, c.MaxPitch)
	}
	c.HandleDrag(0, -1e6)
	if c.Pitch != c.MinPitch {
		t.Errorf("Pitch = %v, want %v", c.Pitch, c.MinPitch)
	}

	for i := 0; i < 200; i++ {
		c.HandleZoom(1)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("Distance = %v, want %v", c.Distance, c.MinDistance)
	}
}

func TestOrbitCameraFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{3, 1, 1})

	if !c.Target.ApproxEqual(mgl32.Vec3{1, 0, 0}) {
		t.Errorf("Target = %v, want (1,0,0)", c.Target)
	}
	radius := mgl32.Vec3{4, 2, 2}.Len() / 2
	if c.Distance <= radius {
		t.Errorf("Distance = %v, want more than radius %v", c.Distance, radius)
	}
	if c.Far < c.Distance+radius {
		t.Errorf("Far = %v clips the model", c.Far)
	}
}

func TestOrbitCameraFitToEmptyBounds(t *testing.T) {
	c := NewOrbitCamera()
	before := *c
	c.FitToBounds(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{-1, -1, -1})
	if *c != before {
		t.Error("empty bounds changed the camera")
	}
}

func TestOrbitCameraMovement(t *testing.T) {
	c := NewOrbitCamera()
	c.Distance = 100
	c.HandleMovement(0, 0, 1)
	if !c.Target.ApproxEqual(mgl32.Vec3{0, 1, 0}) {
		t.Errorf("Target = %v, want (0,1,0)", c.Target)
	}
}
