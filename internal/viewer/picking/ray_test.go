package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshops/internal/viewer/camera"
	"github.com/Faultbox/meshops/pkg/math"
)

func TestScreenToRay(t *testing.T) {
	cam := camera.NewOrbitCamera(45)
	cam.Pitch, cam.Yaw, cam.Distance = 0, 0, 5
	inv := cam.ViewProjection(800.0 / 600.0).Inverse()

	t.Run("center looks at focus", func(t *testing.T) {
		ray := ScreenToRay(400, 300, 800, 600, inv)
		assert.True(t, ray.Direction.ApproxEqual(math.Vec3{Y: 1}, 1e-3), "got %v", ray.Direction)
		assert.InDelta(t, 0, ray.Origin.X, 1e-3)
		assert.InDelta(t, 0, ray.Origin.Z, 1e-3)
	})

	t.Run("corners", func(t *testing.T) {
		topLeft := ScreenToRay(0, 0, 800, 600, inv)
		assert.Less(t, topLeft.Direction.X, float32(0))
		assert.Greater(t, topLeft.Direction.Z, float32(0))

		bottomRight := ScreenToRay(800, 600, 800, 600, inv)
		assert.Greater(t, bottomRight.Direction.X, float32(0))
		assert.Less(t, bottomRight.Direction.Z, float32(0))
	})

	t.Run("hits ground plane", func(t *testing.T) {
		cam.Pitch = 0.8
		inv := cam.ViewProjection(800.0 / 600.0).Inverse()
		ray := ScreenToRay(400, 300, 800, 600, inv)
		hit, ok := ray.IntersectPlane(math.Vec3{}, math.Vec3{Z: 1})
		require.True(t, ok)
		assert.True(t, hit.ApproxEqual(math.Vec3{}, 1e-2), "got %v", hit)
	})
}
