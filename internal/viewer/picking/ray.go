// Package picking turns viewport coordinates into world-space rays.
package picking

import (
	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/scene"
)

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) scene.Ray {
	// Normalized device coords (-1 to 1), Y flipped
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH

	near := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1, 1})

	return scene.NewRay(near, far.Sub(near))
}

func unproject(invViewProj math.Mat4, ndc math.Vec4) math.Vec3 {
	p := invViewProj.MulVec4(ndc)
	if p[3] != 0 {
		p[0] /= p[3]
		p[1] /= p[3]
		p[2] /= p[3]
	}
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}
