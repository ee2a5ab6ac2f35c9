// Package camera provides the orbit camera of the mesh viewer.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshops/pkg/math"
)

// OrbitCamera orbits around a focus point. Z is up.
type OrbitCamera struct {
	// Focus is the point the camera orbits and looks at.
	Focus math.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // Elevation above the XY plane (radians)
	Yaw      float32 // Rotation around Z (radians), 0 looks along +Y

	// Projection
	FOV  float32 // Vertical field of view (radians)
	Near float32
	Far  float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera with default settings.
// fovDegrees is the vertical field of view.
func NewOrbitCamera(fovDegrees float32) *OrbitCamera {
	return &OrbitCamera{
		Distance:        10,
		Pitch:           0.5,
		Yaw:             -0.6,
		FOV:             fovDegrees * math32.Pi / 180,
		Near:            0.01,
		Far:             1000,
		MinDistance:     0.1,
		MaxDistance:     500,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cp := math32.Cos(c.Pitch)
	offset := math.Vec3{
		X: c.Distance * cp * math32.Sin(c.Yaw),
		Y: -c.Distance * cp * math32.Cos(c.Yaw),
		Z: c.Distance * math32.Sin(c.Pitch),
	}
	return c.Focus.Add(offset)
}

// Direction returns the normalized viewing direction.
func (c *OrbitCamera) Direction() math.Vec3 {
	return c.Focus.Sub(c.Position()).Normalize()
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Focus, math.Vec3{Z: 1})
}

// Projection returns the perspective matrix for the viewport aspect ratio.
func (c *OrbitCamera) Projection(aspect float32) math.Mat4 {
	return math.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// ViewProjection returns projection times view.
func (c *OrbitCamera) ViewProjection(aspect float32) math.Mat4 {
	return c.Projection(aspect).Mul(c.ViewMatrix())
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity
	c.Pitch = clamp(c.Pitch, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// HandlePan moves the focus in the view plane. Deltas are in pixels.
func (c *OrbitCamera) HandlePan(deltaX, deltaY float32) {
	speed := c.Distance * 0.002
	right := math.Vec3{X: math32.Cos(c.Yaw), Y: math32.Sin(c.Yaw)}
	up := right.Cross(c.Direction()).Normalize()
	c.Focus = c.Focus.
		Add(right.Scale(-deltaX * speed)).
		Add(up.Scale(deltaY * speed))
}

// FitToBounds centers the camera on a bounding box.
func (c *OrbitCamera) FitToBounds(lo, hi math.Vec3) {
	c.Focus = lo.Add(hi).Scale(0.5)
	size := hi.Sub(lo).Length()
	if size < 1 {
		size = 1
	}
	c.Distance = clamp(size/(2*math32.Tan(c.FOV/2))*1.2, c.MinDistance, c.MaxDistance)
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
