package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshops/pkg/math"
)

// degenerateLength is the length below which a summed normal has no direction.
const degenerateLength = 1e-6

// FaceNormal returns the unit normal of face f using Newell's method, which
// stays stable for non-planar and concave polygons.
func (m *Mesh) FaceNormal(f int) math.Vec3 {
	verts := m.Faces[f].Verts
	var n math.Vec3
	for i, v := range verts {
		cur := m.Verts[v].Co
		next := m.Verts[verts[(i+1)%len(verts)]].Co
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n.Normalize()
}

// FaceCenter returns the mean position of the face's vertices.
func (m *Mesh) FaceCenter(f int) math.Vec3 {
	verts := m.Faces[f].Verts
	var c math.Vec3
	for _, v := range verts {
		c = c.Add(m.Verts[v].Co)
	}
	return c.Scale(1 / float32(len(verts)))
}

// FaceArea returns the area of face f.
func (m *Mesh) FaceArea(f int) float32 {
	verts := m.Faces[f].Verts
	var n math.Vec3
	for i, v := range verts {
		n = n.Add(m.Verts[v].Co.Cross(m.Verts[verts[(i+1)%len(verts)]].Co))
	}
	return n.Length() / 2
}

// VertNormal returns the angle-weighted mean of the normals of the faces
// around v. Vertices without faces fall back to their normalised position.
func (m *Mesh) VertNormal(v int) math.Vec3 {
	var sum math.Vec3
	for _, f := range m.VertFaces(v) {
		verts := m.Faces[f].Verts
		i := indexOf(verts, v)
		n := len(verts)
		prev := m.Verts[verts[(i+n-1)%n]].Co.Sub(m.Verts[v].Co).Normalize()
		next := m.Verts[verts[(i+1)%n]].Co.Sub(m.Verts[v].Co).Normalize()
		angle := math32.Acos(clamp(prev.Dot(next), -1, 1))
		sum = sum.Add(m.FaceNormal(f).Scale(angle))
	}
	if sum.Length() < degenerateLength {
		return m.Verts[v].Co.Normalize()
	}
	return sum.Normalize()
}

func clamp(x, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, x))
}
