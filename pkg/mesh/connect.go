package mesh

import (
	"errors"
	"fmt"
)

// ErrNoSharedFace is returned when two vertices to connect have no face in
// common that they could split.
var ErrNoSharedFace = errors.New("vertices share no face to split")

// ConnectVerts joins a and b with a new edge, splitting every face that uses
// both of them without already having them as neighbours. The first half of
// each split face keeps its index; the second half is appended with the same
// material and selection. It returns the index of the connecting edge.
func (m *Mesh) ConnectVerts(a, b int) (int, error) {
	if err := m.checkVerts([]int{a, b}); err != nil {
		return -1, err
	}
	if a == b {
		return -1, fmt.Errorf("connect: %w: %d-%d", ErrInvalidEdge, a, b)
	}

	var split []int
	for _, f := range m.VertFaces(a) {
		loop := m.Faces[f].Verts
		j := indexOf(loop, b)
		if j < 0 {
			continue
		}
		i := indexOf(loop, a)
		n := len(loop)
		if (i+1)%n == j || (j+1)%n == i {
			continue
		}
		split = append(split, f)
	}
	if len(split) == 0 {
		if e, ok := m.FindEdge(a, b); ok {
			return e, nil
		}
		return -1, fmt.Errorf("connect %d-%d: %w", a, b, ErrNoSharedFace)
	}

	for _, f := range split {
		face := m.Faces[f]
		first := arc(face.Verts, a, b)
		second := arc(face.Verts, b, a)
		m.Faces[f].Verts = first
		m.InvalidateLookup()
		nf, err := m.AddFace(second, face.Material)
		if err != nil {
			return -1, fmt.Errorf("connect %d-%d: %w", a, b, err)
		}
		m.Faces[nf].Select = face.Select
	}
	e, ok := m.FindEdge(a, b)
	if !ok {
		return -1, fmt.Errorf("connect %d-%d: %w", a, b, ErrInvalidEdge)
	}
	if m.Faces[split[0]].Select {
		m.Edges[e].Select = true
	}
	return e, nil
}

// arc returns the part of loop running from a to b, both included.
func arc(loop []int, a, b int) []int {
	i := indexOf(loop, a)
	out := []int{a}
	for k := (i + 1) % len(loop); loop[k] != b; k = (k + 1) % len(loop) {
		out = append(out, loop[k])
	}
	return append(out, b)
}
