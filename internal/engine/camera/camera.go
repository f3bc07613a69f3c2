// Package camera provides the viewer's orbit camera.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera orbits around a target point.
type OrbitCamera struct {
	Target mgl32.Vec3

	// Spherical coordinates around Target
	Distance float32
	Pitch    float32 // radians, positive looks down
	Yaw      float32 // radians around +Y

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Projection
	FOV  float32 // vertical, degrees
	Near float32
	Far  float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        5,
		Pitch:           0.4,
		MinDistance:     0.01,
		MaxDistance:     10000,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		FOV:             45,
		Near:            0.1,
		Far:             1000,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	cp, sp := cos(c.Pitch), sin(c.Pitch)
	offset := mgl32.Vec3{
		c.Distance * cp * sin(c.Yaw),
		c.Distance * sp,
		c.Distance * cp * cos(c.Yaw),
	}
	return c.Target.Add(offset)
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns a perspective projection for the given aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// HandleDrag updates rotation from a mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = clamp(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance from a scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// HandleMovement pans the target relative to the current yaw.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	dir := mgl32.Vec3{sin(c.Yaw), 0, cos(c.Yaw)}
	side := mgl32.Vec3{cos(c.Yaw), 0, -sin(c.Yaw)}

	move := dir.Mul(-forward).Add(side.Mul(right)).Add(mgl32.Vec3{0, up, 0})
	c.Target = c.Target.Add(move.Mul(speed))
}

// FitToBounds centers the camera on the box and backs off until the box fits
// the vertical field of view. Empty boxes (min > max) leave the camera as is.
func (c *OrbitCamera) FitToBounds(min, max mgl32.Vec3) {
	if min[0] > max[0] || min[1] > max[1] || min[2] > max[2] {
		return
	}
	c.Target = min.Add(max).Mul(0.5)

	radius := max.Sub(min).Len() / 2
	if radius == 0 {
		radius = 1
	}
	halfFOV := mgl32.DegToRad(c.FOV) / 2
	c.Distance = radius / sin(halfFOV)
	if c.Distance > c.MaxDistance {
		c.MaxDistance = c.Distance * 4
	}
	if c.Far < c.Distance+radius {
		c.Far = (c.Distance + radius) * 2
	}
	c.Near = c.Distance / 1000

	c.Pitch = 0.4
	c.Yaw = 0
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sin(v float32) float32 { return float32(math.Sin(float64(v))) }
func cos(v float32) float32 { return float32(math.Cos(float64(v))) }
