package scene

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshops/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// NewRay returns a ray with a normalized direction.
func NewRay(origin, direction math.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// Extend grows the box to contain p.
func (b AABB) Extend(p math.Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Center returns the middle of the box.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// IntersectPlane intersects the ray with the plane through point with the
// given normal. Hits behind the origin are rejected.
func (r Ray) IntersectPlane(point, normal math.Vec3) (math.Vec3, bool) {
	denom := normal.Dot(r.Direction)
	if math32.Abs(denom) < 0.001 {
		return math.Vec3{}, false // Ray parallel to plane
	}
	t := point.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return math.Vec3{}, false
	}
	return r.At(t), true
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	for _, axis := range []math.Axis{math.AxisX, math.AxisY, math.AxisZ} {
		o := r.Origin.Component(axis)
		d := r.Direction.Component(axis)
		lo, hi := box.Min.Component(axis), box.Max.Component(axis)
		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle runs the Möller-Trumbore test and returns the distance
// along the ray. Back faces are hit as well.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (float32, bool) {
	const eps = 1e-7
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < eps {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t < eps {
		return 0, false
	}
	return t, true
}
