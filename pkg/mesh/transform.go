package mesh

import (
	"fmt"

	"github.com/Faultbox/meshops/pkg/math"
)

// AverageLocation returns the world-space mean of the vertices used by the
// elements. Each vertex counts once even when shared by several elements.
func (m *Mesh) AverageLocation(elems []ElementRef, world math.Mat4) (math.Vec3, error) {
	verts, err := m.ElementVerts(elems)
	if err != nil {
		return math.Vec3{}, err
	}
	if len(verts) == 0 {
		return math.Vec3{}, ErrEmptySelection
	}
	return world.TransformVec3(m.centroid(verts)), nil
}

// AverageNormal returns the world-space mean normal of the elements: vertex
// normals for vertices, the mean of both endpoint normals for edges and the
// face normal for faces. ok is false when the normals cancel out.
func (m *Mesh) AverageNormal(elems []ElementRef, world math.Mat4) (n math.Vec3, ok bool, err error) {
	if len(elems) == 0 {
		return math.Vec3{}, false, ErrEmptySelection
	}
	var sum math.Vec3
	for _, ref := range elems {
		if err := checkRange([]int{ref.Index}, m.Count(ref.Kind), ref.Kind.String()); err != nil {
			return math.Vec3{}, false, err
		}
		switch ref.Kind {
		case KindVertex:
			sum = sum.Add(m.VertNormal(ref.Index))
		case KindEdge:
			k := m.Edges[ref.Index].Key
			sum = sum.Add(m.VertNormal(k[0]).Add(m.VertNormal(k[1])).Scale(0.5))
		case KindFace:
			sum = sum.Add(m.FaceNormal(ref.Index))
		}
	}
	mean := world.TransformDirection(sum.Scale(1 / float32(len(elems))))
	if mean.Length() < degenerateLength {
		return math.Vec3{}, false, nil
	}
	return mean.Normalize(), true, nil
}

// RotateVerts rotates vertices about a world-space pivot; a nil pivot is the
// world origin. Positions are taken to world space, rotated and brought back
// through the inverse of world.
func (m *Mesh) RotateVerts(verts []int, rot math.Rotation, pivot *math.Vec3, world math.Mat4) error {
	q := rot.Quat().Normalize()
	p := pivotOrOrigin(pivot)
	return m.MapVerts(verts, world, func(co math.Vec3) math.Vec3 {
		return q.Rotate(co.Sub(p)).Add(p)
	})
}

// TranslateVerts moves vertices by a world-space offset.
func (m *Mesh) TranslateVerts(verts []int, offset math.Vec3, world math.Mat4) error {
	return m.MapVerts(verts, world, func(co math.Vec3) math.Vec3 {
		return co.Add(offset)
	})
}

// ScaleVerts scales vertices per axis about a world-space pivot.
func (m *Mesh) ScaleVerts(verts []int, factor math.Vec3, pivot *math.Vec3, world math.Mat4) error {
	p := pivotOrOrigin(pivot)
	return m.MapVerts(verts, world, func(co math.Vec3) math.Vec3 {
		return co.Sub(p).Mul(factor).Add(p)
	})
}

// MapVerts replaces each vertex position with fn applied in world space.
// Duplicate indices are transformed once. A singular world matrix is an
// error and leaves the mesh untouched.
func (m *Mesh) MapVerts(verts []int, world math.Mat4, fn func(math.Vec3) math.Vec3) error {
	if err := m.checkVerts(verts); err != nil {
		return err
	}
	if world.Det() == 0 {
		return fmt.Errorf("map verts: %w", ErrSingularTransform)
	}
	inv := world.Inverse()
	done := make(map[int]bool, len(verts))
	for _, v := range verts {
		if done[v] {
			continue
		}
		done[v] = true
		co := &m.Verts[v].Co
		*co = inv.TransformVec3(fn(world.TransformVec3(*co)))
	}
	return nil
}

// Bounds returns the local-space bounding box of the vertices.
func (m *Mesh) Bounds(verts []int) (lo, hi math.Vec3, err error) {
	if err := m.checkVerts(verts); err != nil {
		return lo, hi, err
	}
	if len(verts) == 0 {
		return lo, hi, fmt.Errorf("bounds: %w", ErrEmptySelection)
	}
	lo, hi = m.Verts[verts[0]].Co, m.Verts[verts[0]].Co
	for _, v := range verts[1:] {
		lo = lo.Min(m.Verts[v].Co)
		hi = hi.Max(m.Verts[v].Co)
	}
	return lo, hi, nil
}

func (m *Mesh) centroid(verts []int) math.Vec3 {
	var sum math.Vec3
	for _, v := range verts {
		sum = sum.Add(m.Verts[v].Co)
	}
	return sum.Scale(1 / float32(len(verts)))
}

func pivotOrOrigin(pivot *math.Vec3) math.Vec3 {
	if pivot == nil {
		return math.Vec3{}
	}
	return *pivot
}
