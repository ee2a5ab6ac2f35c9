package mesh

import (
	"fmt"

	"github.com/Faultbox/meshops/pkg/math"
)

// Grid returns a flat grid of nx by ny quads on the XY plane, centred on the
// origin, with faces pointing up +Z. Vertex (i, j) has index j*(nx+1)+i.
// It panics when nx or ny is less than one.
func Grid(nx, ny int, size float32) *Mesh {
	if nx < 1 || ny < 1 {
		panic(fmt.Sprintf("mesh: grid needs at least one segment per axis, got %dx%d", nx, ny))
	}
	m := New()
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			m.AddVert(math.Vec3{
				X: (float32(i)/float32(nx) - 0.5) * size,
				Y: (float32(j)/float32(ny) - 0.5) * size,
			})
		}
	}
	row := nx + 1
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v := j*row + i
			m.mustAddFace(v, v+1, v+row+1, v+row)
		}
	}
	return m
}

// Plane returns a single quad of the given size.
func Plane(size float32) *Mesh {
	return Grid(1, 1, size)
}

// Cube returns an axis-aligned cube centred on the origin with outward faces.
func Cube(size float32) *Mesh {
	m := New()
	h := size / 2
	for _, z := range []float32{-h, h} {
		m.AddVert(math.Vec3{X: -h, Y: -h, Z: z})
		m.AddVert(math.Vec3{X: h, Y: -h, Z: z})
		m.AddVert(math.Vec3{X: h, Y: h, Z: z})
		m.AddVert(math.Vec3{X: -h, Y: h, Z: z})
	}
	for _, f := range [][]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // front
		{1, 2, 6, 5}, // right
		{2, 3, 7, 6}, // back
		{3, 0, 4, 7}, // left
	} {
		m.mustAddFace(f...)
	}
	return m
}

// mustAddFace adds a face whose loop is known to be valid. An error here is a
// bug in the primitive, not bad input.
func (m *Mesh) mustAddFace(verts ...int) {
	if _, err := m.AddFace(verts, 0); err != nil {
		panic(fmt.Sprintf("mesh: primitive face %v: %v", verts, err))
	}
}
