package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/meshops/pkg/math"
)

func TestPositionZUp(t *testing.T) {
	c := NewOrbitCamera(45)
	c.Pitch, c.Yaw, c.Distance = 0, 0, 5

	assert.True(t, c.Position().ApproxEqual(math.Vec3{Y: -5}, 1e-5), "got %v", c.Position())
	assert.True(t, c.Direction().ApproxEqual(math.Vec3{Y: 1}, 1e-5))

	c.Pitch = math32.Pi / 2 * 0.999
	assert.Greater(t, c.Position().Z, float32(4.9))
	assert.Less(t, c.Direction().Z, float32(-0.99))
}

func TestViewProjectionCentersFocus(t *testing.T) {
	c := NewOrbitCamera(60)
	c.Focus = math.Vec3{X: 1, Y: 2, Z: 3}
	vp := c.ViewProjection(16.0 / 9.0)

	clip := vp.MulVec4(math.Vec4{1, 2, 3, 1})
	assert.InDelta(t, 0, clip[0]/clip[3], 1e-4)
	assert.InDelta(t, 0, clip[1]/clip[3], 1e-4)
}

func TestDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera(45)
	c.HandleDrag(0, 10000)
	assert.Equal(t, c.MaxPitch, c.Pitch)
	c.HandleDrag(0, -100000)
	assert.Equal(t, c.MinPitch, c.Pitch)
}

func TestZoomClampsDistance(t *testing.T) {
	c := NewOrbitCamera(45)
	c.Distance = 10
	c.HandleZoom(1)
	assert.InDelta(t, 9, c.Distance, 1e-5)
	for i := 0; i < 200; i++ {
		c.HandleZoom(1)
	}
	assert.Equal(t, c.MinDistance, c.Distance)
}

func TestPanKeepsDirection(t *testing.T) {
	c := NewOrbitCamera(45)
	c.Pitch, c.Yaw = 0, 0
	dir := c.Direction()
	c.HandlePan(100, 0)

	assert.Less(t, c.Focus.X, float32(0))
	assert.InDelta(t, 0, c.Focus.Y, 1e-5)
	assert.True(t, dir.ApproxEqual(c.Direction(), 1e-5))
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera(45)
	c.FitToBounds(math.Vec3{X: -1, Y: -1, Z: 0}, math.Vec3{X: 3, Y: 1, Z: 2})
	assert.Equal(t, math.Vec3{X: 1, Y: 0, Z: 1}, c.Focus)
	assert.Greater(t, c.Distance, float32(2))
}
