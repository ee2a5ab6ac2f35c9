package mesh

import (
	"errors"
	"sort"
)

var (
	// ErrTooFewFaces is returned when fewer than two faces are selected.
	ErrTooFewFaces = errors.New("less than two faces selected")
	// ErrNoSharedEdges is returned when the selected faces share no edge.
	ErrNoSharedEdges = errors.New("no shared edges found in faces")
	// ErrSharedEdgesUnselected is returned when none of the shared edges is selected.
	ErrSharedEdgesUnselected = errors.New("shared edges are not selected")
)

// SharedEdgesFromFaces returns the selected edges used by more than one
// selected face.
func (m *Mesh) SharedEdgesFromFaces() ([]int, error) {
	faces := m.SelectedFaces(false)
	if len(faces) < 2 {
		return nil, ErrTooFewFaces
	}
	count := make(map[EdgeKey]int)
	for _, f := range faces {
		for _, k := range m.Faces[f].EdgeKeys() {
			count[k]++
		}
	}
	shared := 0
	for _, c := range count {
		if c > 1 {
			shared++
		}
	}
	if shared == 0 {
		return nil, ErrNoSharedEdges
	}
	var edges []int
	for _, e := range m.SelectedEdges(false) {
		if count[m.Edges[e].Key] > 1 {
			edges = append(edges, e)
		}
	}
	if len(edges) == 0 {
		return nil, ErrSharedEdgesUnselected
	}
	return edges, nil
}

// SelectSharedEdgesFromFaces replaces the selection with the edges shared
// between selected faces.
func (m *Mesh) SelectSharedEdgesFromFaces() ([]int, error) {
	edges, err := m.SharedEdgesFromFaces()
	if err != nil {
		return nil, err
	}
	return edges, m.SelectByID(KindEdge, edges, SelectOptions{Clear: true})
}

// EdgeRing returns the edges reached from the seeds by stepping across quads
// to the opposite edge, including the seeds, sorted.
func (m *Mesh) EdgeRing(seeds []int) ([]int, error) {
	if err := checkRange(seeds, len(m.Edges), "edge"); err != nil {
		return nil, err
	}
	ring := make(map[int]bool)
	for _, seed := range seeds {
		ring[seed] = true
		for _, f := range m.EdgeFaces(seed) {
			e, face := seed, f
			for {
				opp, ok := m.oppositeEdge(face, e)
				if !ok || ring[opp] {
					break
				}
				ring[opp] = true
				next := -1
				for _, g := range m.EdgeFaces(opp) {
					if g != face {
						next = g
						break
					}
				}
				if next < 0 {
					break
				}
				e, face = opp, next
			}
		}
	}
	return sortedKeys(ring), nil
}

// EdgeLoop returns the edges continuing straight through the seeds' endpoints,
// including the seeds, sorted. A loop stops at poles and, on open borders,
// follows the boundary.
func (m *Mesh) EdgeLoop(seeds []int) ([]int, error) {
	if err := checkRange(seeds, len(m.Edges), "edge"); err != nil {
		return nil, err
	}
	loop := make(map[int]bool)
	for _, seed := range seeds {
		loop[seed] = true
		for _, start := range m.Edges[seed].Key {
			e, v := seed, start
			for {
				next, ok := m.loopContinuation(e, v)
				if !ok || loop[next] {
					break
				}
				loop[next] = true
				e, v = next, m.Edges[next].Key.Other(v)
			}
		}
	}
	return sortedKeys(loop), nil
}

// SelectLoops adds the loop, or with ring the ring, of every selected edge to
// the selection and returns the added edges.
func (m *Mesh) SelectLoops(ring bool) ([]int, error) {
	seeds := m.SelectedEdges(false)
	var (
		edges []int
		err   error
	)
	if ring {
		edges, err = m.EdgeRing(seeds)
	} else {
		edges, err = m.EdgeLoop(seeds)
	}
	if err != nil {
		return nil, err
	}
	return edges, m.SelectByID(KindEdge, edges, SelectOptions{})
}

// OpenBorderLoop extends the boundary edges among the given edges along every
// connected boundary edge. Non-boundary edges in the input are ignored.
func (m *Mesh) OpenBorderLoop(edges []int) ([]int, error) {
	if err := checkRange(edges, len(m.Edges), "edge"); err != nil {
		return nil, err
	}
	border := make(map[int]bool)
	var stack []int
	for _, e := range edges {
		if m.IsBoundaryEdge(e) && !border[e] {
			border[e] = true
			stack = append(stack, e)
		}
	}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, v := range m.Edges[e].Key {
			for _, n := range m.VertEdges(v) {
				if !border[n] && m.IsBoundaryEdge(n) {
					border[n] = true
					stack = append(stack, n)
				}
			}
		}
	}
	return sortedKeys(border), nil
}

// IsBoundaryEdge reports whether exactly one face uses the edge.
func (m *Mesh) IsBoundaryEdge(e int) bool {
	return len(m.EdgeFaces(e)) == 1
}

// BoundaryChain orders a connected set of edges into a vertex path. For a
// closed chain the first vertex is not repeated. ok is false when the edges
// branch or are disconnected.
func (m *Mesh) BoundaryChain(edges []int) (verts []int, closed, ok bool) {
	if len(edges) == 0 {
		return nil, false, false
	}
	adj := make(map[int][]int)
	for _, e := range edges {
		k := m.Edges[e].Key
		adj[k[0]] = append(adj[k[0]], k[1])
		adj[k[1]] = append(adj[k[1]], k[0])
	}
	start := -1
	keys := make([]int, 0, len(adj))
	for v := range adj {
		keys = append(keys, v)
	}
	sort.Ints(keys)
	for _, v := range keys {
		switch len(adj[v]) {
		case 1:
			if start < 0 {
				start = v
			}
		case 2:
		default:
			return nil, false, false
		}
	}
	closed = start < 0
	if closed {
		start = keys[0]
	}
	verts = []int{start}
	prev, cur := -1, start
	for {
		next := -1
		for _, n := range adj[cur] {
			if n != prev {
				next = n
				break
			}
		}
		if next < 0 || next == start {
			break
		}
		verts = append(verts, next)
		prev, cur = cur, next
	}
	if len(verts) != len(adj) {
		return nil, false, false
	}
	return verts, closed, true
}

// oppositeEdge returns the edge across a quad from e.
func (m *Mesh) oppositeEdge(f, e int) (int, bool) {
	verts := m.Faces[f].Verts
	if len(verts) != 4 {
		return -1, false
	}
	key := m.Edges[e].Key
	for i := range verts {
		a, b := verts[i], verts[(i+1)%4]
		if NewEdgeKey(a, b) != key {
			continue
		}
		c, d := verts[(i+2)%4], verts[(i+3)%4]
		return m.FindEdge(c, d)
	}
	return -1, false
}

// loopContinuation picks the edge that continues e straight through v.
func (m *Mesh) loopContinuation(e, v int) (int, bool) {
	around := m.VertEdges(v)
	eFaces := m.EdgeFaces(e)
	switch {
	case len(around) == 4 && len(eFaces) == 2:
		for _, n := range around {
			if n != e && !m.shareFace(n, e) {
				return n, true
			}
		}
	case len(around) == 3 && len(eFaces) == 1:
		for _, n := range around {
			if n != e && m.IsBoundaryEdge(n) {
				return n, true
			}
		}
	}
	return -1, false
}

func (m *Mesh) shareFace(a, b int) bool {
	for _, f := range m.EdgeFaces(a) {
		for _, g := range m.EdgeFaces(b) {
			if f == g {
				return true
			}
		}
	}
	return false
}
