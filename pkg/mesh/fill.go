package mesh

import (
	"errors"
	"sort"

	"github.com/chewxy/math32"

	"github.com/Faultbox/meshops/pkg/math"
)

// ErrFaceExists is returned when a fill would duplicate an existing face.
var ErrFaceExists = errors.New("face already exists")

// FillSelected creates a face from the selection. Selected edges are walked
// into a path or cycle and selected vertices off those edges are appended.
// With only vertices selected they are ordered by angle around their centre.
// Two vertices produce an edge instead, in which case face is -1. The new face
// is wound against the neighbouring faces it borders, and ends up selected.
func (m *Mesh) FillSelected() (face int, err error) {
	verts := m.SelectedVerts(false)
	edges := m.SelectedEdges(false)

	var loop []int
	if len(edges) > 0 {
		chain, _, ok := m.BoundaryChain(edges)
		if !ok {
			return -1, errors.New("fill: selected edges do not form a single path")
		}
		loop = chain
		onChain := make(map[int]bool, len(chain))
		for _, v := range chain {
			onChain[v] = true
		}
		for _, v := range verts {
			if !onChain[v] {
				loop = append(loop, v)
			}
		}
	} else {
		loop = m.angularOrder(verts)
	}

	switch {
	case len(loop) < 2:
		return -1, ErrEmptySelection
	case len(loop) == 2:
		e, err := m.AddEdge(loop[0], loop[1])
		if err != nil {
			return -1, err
		}
		m.SetSelect(ElementRef{Kind: KindEdge, Index: e}, true)
		return -1, nil
	}

	want := sortedCopy(loop)
	for _, f := range m.VertFaces(loop[0]) {
		if equalInts(sortedCopy(m.Faces[f].Verts), want) {
			return -1, ErrFaceExists
		}
	}
	if m.windsWithNeighbours(loop) {
		reverseLoop(loop)
	}
	material := 0
	if faces := m.VertFaces(loop[0]); len(faces) > 0 {
		material = m.Faces[faces[0]].Material
	}
	face, err = m.AddFace(loop, material)
	if err != nil {
		return -1, err
	}
	m.SetSelect(ElementRef{Kind: KindFace, Index: face}, true)
	return face, nil
}

// windsWithNeighbours reports whether the loop walks some existing face edge
// in the same direction as the face using it, which means it must be flipped.
func (m *Mesh) windsWithNeighbours(loop []int) bool {
	for i, a := range loop {
		b := loop[(i+1)%len(loop)]
		e, ok := m.FindEdge(a, b)
		if !ok {
			continue
		}
		if faces := m.EdgeFaces(e); len(faces) > 0 {
			return m.faceTraverses(faces[0], a, b)
		}
	}
	return false
}

// angularOrder sorts vertices by angle around their centroid in the plane of
// the first non-degenerate triple.
func (m *Mesh) angularOrder(verts []int) []int {
	out := append([]int(nil), verts...)
	if len(out) < 3 {
		return out
	}
	c := m.centroid(out)
	var normal math.Vec3
	p0 := m.Verts[out[0]].Co
	for i := 1; i+1 < len(out) && normal.Length() < degenerateLength; i++ {
		normal = m.Verts[out[i]].Co.Sub(p0).Cross(m.Verts[out[i+1]].Co.Sub(p0))
	}
	if normal.Length() < degenerateLength {
		return out
	}
	normal = normal.Normalize()
	u := p0.Sub(c).Normalize()
	w := normal.Cross(u)
	angle := func(v int) float32 {
		d := m.Verts[v].Co.Sub(c)
		return math32.Atan2(d.Dot(w), d.Dot(u))
	}
	sort.SliceStable(out, func(i, j int) bool { return angle(out[i]) < angle(out[j]) })
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
