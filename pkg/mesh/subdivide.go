package mesh

import "fmt"

// RingCut is the geometry created by SubdivideEdgeRing.
type RingCut struct {
	// Verts are the new vertices on the ring edges.
	Verts []int
	// LoopEdges are the new edges running across the faces between cut vertices.
	LoopEdges []int
}

// SubdivideEdgeRing cuts every ring edge into cuts+1 segments. Quads crossed by
// two opposite ring edges are split into parallel strips so each cut forms a
// new edge loop; other faces touching the ring just gain the cut vertices.
func (m *Mesh) SubdivideEdgeRing(ring []int, cuts int) (*RingCut, error) {
	if err := checkRange(ring, len(m.Edges), "edge"); err != nil {
		return nil, err
	}
	if cuts < 1 {
		return nil, fmt.Errorf("subdivide: cuts must be positive, got %d", cuts)
	}
	res := &RingCut{}
	if len(ring) == 0 {
		return res, nil
	}

	inRing := make(map[EdgeKey]bool, len(ring))
	touched := make(map[int]bool)
	for _, e := range ring {
		inRing[m.Edges[e].Key] = true
		for _, f := range m.EdgeFaces(e) {
			touched[f] = true
		}
	}

	// Cut vertices run from Key[0] to Key[1].
	cutVerts := make(map[EdgeKey][]int, len(inRing))
	var keys []EdgeKey
	for _, e := range ring {
		key := m.Edges[e].Key
		if _, ok := cutVerts[key]; ok {
			continue
		}
		a, b := m.Verts[key[0]].Co, m.Verts[key[1]].Co
		chain := make([]int, cuts)
		for i := range chain {
			t := float32(i+1) / float32(cuts+1)
			chain[i] = m.AddVert(a.Lerp(b, t))
			res.Verts = append(res.Verts, chain[i])
		}
		cutVerts[key] = chain
		keys = append(keys, key)
	}
	along := func(a, b int) []int {
		chain := cutVerts[NewEdgeKey(a, b)]
		if a < b {
			return chain
		}
		return reversed(chain)
	}

	type strip struct {
		rails      [2][]int
		material   int
		selected   bool
		replaceIdx int
	}
	var strips []strip
	for _, f := range sortedKeys(touched) {
		face := &m.Faces[f]
		loop := face.Verts
		if len(loop) == 4 {
			if i, ok := oppositeRingEdges(loop, inRing); ok {
				p0, p1, p2, p3 := loop[i], loop[(i+1)%4], loop[(i+2)%4], loop[(i+3)%4]
				railA := append(append([]int{p0}, along(p0, p1)...), p1)
				railB := append(append([]int{p3}, along(p3, p2)...), p2)
				strips = append(strips, strip{
					rails:      [2][]int{railA, railB},
					material:   face.Material,
					selected:   face.Select,
					replaceIdx: f,
				})
				continue
			}
		}
		var out []int
		for j, v := range loop {
			out = append(out, v)
			next := loop[(j+1)%len(loop)]
			if inRing[NewEdgeKey(v, next)] {
				out = append(out, along(v, next)...)
			}
		}
		face.Verts = out
	}
	m.InvalidateLookup()

	for _, s := range strips {
		a, b := s.rails[0], s.rails[1]
		m.Faces[s.replaceIdx].Verts = []int{a[0], a[1], b[1], b[0]}
		m.InvalidateLookup()
		for i := 1; i < len(a)-1; i++ {
			e, err := m.AddEdge(a[i], b[i])
			if err != nil {
				return nil, err
			}
			res.LoopEdges = append(res.LoopEdges, e)
			nf, err := m.AddFace([]int{a[i], a[i+1], b[i+1], b[i]}, s.material)
			if err != nil {
				return nil, err
			}
			m.Faces[nf].Select = s.selected
		}
	}

	// Replace each ring edge with its chain of segments.
	for _, key := range keys {
		path := append(append([]int{key[0]}, cutVerts[key]...), key[1])
		for i := 0; i+1 < len(path); i++ {
			if _, err := m.AddEdge(path[i], path[i+1]); err != nil {
				return nil, err
			}
		}
	}
	dropE := make([]bool, len(m.Edges))
	for _, key := range keys {
		if e, ok := m.FindEdge(key[0], key[1]); ok {
			dropE[e] = true
		}
	}
	r := m.compact(nil, dropE, nil)
	for i, e := range res.LoopEdges {
		res.LoopEdges[i] = r.Edges[e]
	}
	return res, nil
}

// oppositeRingEdges finds i such that edges (i, i+1) and (i+2, i+3) of a quad
// are both ring edges.
func oppositeRingEdges(loop []int, inRing map[EdgeKey]bool) (int, bool) {
	for i := 0; i < 2; i++ {
		if inRing[NewEdgeKey(loop[i], loop[i+1])] && inRing[NewEdgeKey(loop[i+2], loop[(i+3)%4])] {
			return i, true
		}
	}
	return -1, false
}
