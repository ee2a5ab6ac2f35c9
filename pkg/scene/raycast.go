package scene

import (
	"github.com/Faultbox/meshops/pkg/math"
)

// Hit is the result of a successful ray cast.
type Hit struct {
	Location  math.Vec3
	Normal    math.Vec3
	FaceIndex int
	Object    *Object
	Distance  float32
}

// Raycaster casts world-space rays against geometry.
type Raycaster interface {
	Raycast(ray Ray) (Hit, bool)
}

// RaycastFilter reports whether an object takes part in a ray cast.
type RaycastFilter func(*Object) bool

// Raycast returns the nearest face hit by the ray across all mesh objects.
func (s *Scene) Raycast(ray Ray) (Hit, bool) {
	return s.RaycastFiltered(ray, nil)
}

// RaycastFiltered is Raycast restricted to objects accepted by filter.
func (s *Scene) RaycastFiltered(ray Ray, filter RaycastFilter) (Hit, bool) {
	var best Hit
	found := false
	for _, obj := range s.Objects {
		if !obj.IsMesh() || len(obj.Mesh.Faces) == 0 {
			continue
		}
		if filter != nil && !filter(obj) {
			continue
		}
		h, ok := RaycastObject(obj, ray)
		if ok && (!found || h.Distance < best.Distance) {
			best, found = h, true
		}
	}
	return best, found
}

// RaycastObject intersects the ray with one object's faces in world space.
// Faces are fan triangulated.
func RaycastObject(obj *Object, ray Ray) (Hit, bool) {
	world := obj.World()
	m := obj.Mesh

	pts := make([]math.Vec3, len(m.Verts))
	for i, v := range m.Verts {
		pts[i] = world.TransformVec3(v.Co)
	}
	if len(pts) == 0 {
		return Hit{}, false
	}
	box := AABB{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		box = box.Extend(p)
	}
	if _, ok := ray.IntersectAABB(box); !ok {
		return Hit{}, false
	}

	best := Hit{FaceIndex: -1}
	for f, face := range m.Faces {
		a := pts[face.Verts[0]]
		for i := 1; i+1 < len(face.Verts); i++ {
			t, ok := ray.IntersectTriangle(a, pts[face.Verts[i]], pts[face.Verts[i+1]])
			if !ok || (best.FaceIndex >= 0 && t >= best.Distance) {
				continue
			}
			best = Hit{
				Location:  ray.At(t),
				FaceIndex: f,
				Object:    obj,
				Distance:  t,
			}
		}
	}
	if best.FaceIndex < 0 {
		return Hit{}, false
	}
	best.Normal = world.Inverse().Transpose().TransformDirection(m.FaceNormal(best.FaceIndex)).Normalize()
	return best, true
}
