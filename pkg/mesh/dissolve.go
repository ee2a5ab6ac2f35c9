package mesh

import "fmt"

// DissolveVerts removes vertices while keeping the surface closed: the faces
// around each vertex are merged into one polygon, and a vertex between exactly
// two edges is replaced by a single edge joining its neighbours.
func (m *Mesh) DissolveVerts(verts []int) error {
	if err := m.checkVerts(verts); err != nil {
		return err
	}
	drop := make([]bool, len(m.Verts))
	for _, v := range verts {
		if drop[v] {
			continue
		}
		drop[v] = true
		if err := m.dissolveVert(v); err != nil {
			return fmt.Errorf("dissolve vertex %d: %w", v, err)
		}
	}
	m.compact(drop, nil, nil)
	return nil
}

// DissolveEdges merges the two faces on each edge into one and removes the
// edge. Wire edges are deleted. With dissolveVerts, endpoints left between
// exactly two edges are dissolved as well.
func (m *Mesh) DissolveEdges(edges []int, dissolveVerts bool) error {
	if err := checkRange(edges, len(m.Edges), "edge"); err != nil {
		return err
	}
	keys := make([]EdgeKey, len(edges))
	for i, e := range edges {
		keys[i] = m.Edges[e].Key
	}
	return m.dissolveEdgeKeys(keys, dissolveVerts)
}

// DissolveFaces merges each connected region of faces into a single face by
// dissolving the edges between them.
func (m *Mesh) DissolveFaces(faces []int) error {
	if err := checkRange(faces, len(m.Faces), "face"); err != nil {
		return err
	}
	inSet := make(map[int]bool, len(faces))
	for _, f := range faces {
		inSet[f] = true
	}
	var keys []EdgeKey
	for e := range m.Edges {
		adj := m.EdgeFaces(e)
		if len(adj) == 2 && inSet[adj[0]] && inSet[adj[1]] {
			keys = append(keys, m.Edges[e].Key)
		}
	}
	return m.dissolveEdgeKeys(keys, false)
}

func (m *Mesh) dissolveEdgeKeys(keys []EdgeKey, dissolveVerts bool) error {
	endpoints := make(map[int]bool)
	for _, k := range keys {
		m.mergeFacesAcross(k)
		endpoints[k[0]] = true
		endpoints[k[1]] = true
	}

	var stale []int
	for _, k := range keys {
		if e, ok := m.FindEdge(k[0], k[1]); ok && len(m.EdgeFaces(e)) == 0 {
			stale = append(stale, e)
		}
	}
	r, err := m.DeleteEdges(stale)
	if err != nil {
		return err
	}
	if !dissolveVerts {
		return nil
	}

	drop := make([]bool, len(m.Verts))
	dissolved := false
	for _, v := range sortedKeys(endpoints) {
		nv := r.Vert(v)
		if nv < 0 || len(m.VertEdges(nv)) != 2 || len(m.VertFaces(nv)) == 0 {
			continue
		}
		if err := m.dissolveVert(nv); err != nil {
			return fmt.Errorf("dissolve vertex %d: %w", nv, err)
		}
		drop[nv] = true
		dissolved = true
	}
	if dissolved {
		m.compact(drop, nil, nil)
	}
	return nil
}

// mergeFacesAcross joins the two faces bordering the edge into one face. It
// reports false when the edge does not have exactly two faces or the merged
// loop would be invalid.
func (m *Mesh) mergeFacesAcross(key EdgeKey) bool {
	e, ok := m.FindEdge(key[0], key[1])
	if !ok {
		return false
	}
	adj := m.EdgeFaces(e)
	if len(adj) != 2 {
		return false
	}
	f1, f2 := adj[0], adj[1]
	a, b := key[0], key[1]
	if !m.faceTraverses(f1, a, b) {
		a, b = b, a
	}
	first := rotateTo(m.Faces[f1].Verts, b)
	second := append([]int(nil), m.Faces[f2].Verts...)
	if !loopTraverses(second, b, a) {
		reverseLoop(second)
	}
	second = rotateTo(second, a)

	merged := append(first, second[1:len(second)-1]...)
	merged = removeSpikes(merged)
	if len(merged) < 3 || hasRepeat(merged) {
		return false
	}
	m.Faces[f1].Verts = merged
	m.Faces[f1].Select = m.Faces[f1].Select || m.Faces[f2].Select
	drop := make([]bool, len(m.Faces))
	drop[f2] = true
	m.compact(nil, nil, drop)
	return true
}

// dissolveVert rewires the faces around v so that none of them uses it. The
// vertex itself is left for the caller to remove. Faces that do not form a
// simple fan around v are left alone.
func (m *Mesh) dissolveVert(v int) error {
	faces := append([]int(nil), m.VertFaces(v)...)
	edges := m.VertEdges(v)

	if len(edges) == 2 {
		a := m.Edges[edges[0]].Key.Other(v)
		b := m.Edges[edges[1]].Key.Other(v)
		drop := make([]bool, len(m.Faces))
		for _, f := range faces {
			loop := m.Faces[f].Verts
			i := indexOf(loop, v)
			loop = append(loop[:i:i], loop[i+1:]...)
			if len(loop) < 3 {
				drop[f] = true
				continue
			}
			m.Faces[f].Verts = loop
		}
		m.compact(nil, nil, drop)
		_, err := m.AddEdge(a, b)
		return err
	}
	if len(faces) == 0 {
		return nil
	}

	loop := m.fanLoop(v, faces)
	if loop == nil {
		return nil
	}
	material := m.Faces[faces[0]].Material
	sel := false
	drop := make([]bool, len(m.Faces))
	for _, f := range faces {
		drop[f] = true
		sel = sel || m.Faces[f].Select
	}
	m.compact(nil, nil, drop)
	nf, err := m.AddFace(loop, material)
	if err != nil {
		return err
	}
	m.Faces[nf].Select = sel
	return nil
}

// fanLoop chains the faces around v into the boundary loop of their union, or
// returns nil when they do not form a simple fan.
func (m *Mesh) fanLoop(v int, faces []int) []int {
	paths := make([][]int, len(faces))
	for i, f := range faces {
		paths[i] = rotateTo(m.Faces[f].Verts, v)[1:]
	}
	chain := append([]int(nil), paths[0]...)
	used := make([]bool, len(paths))
	used[0] = true
	for remaining := len(paths) - 1; remaining > 0; {
		progress := false
		for i, p := range paths {
			if used[i] {
				continue
			}
			last, head := chain[len(chain)-1], chain[0]
			switch {
			case p[0] == last:
				chain = append(chain, p[1:]...)
			case p[len(p)-1] == last:
				chain = append(chain, reversed(p)[1:]...)
			case p[len(p)-1] == head:
				chain = append(append([]int(nil), p[:len(p)-1]...), chain...)
			case p[0] == head:
				chain = append(reversed(p)[:len(p)-1], chain...)
			default:
				continue
			}
			used[i] = true
			remaining--
			progress = true
		}
		if !progress {
			return nil
		}
	}
	if len(chain) > 1 && chain[0] == chain[len(chain)-1] {
		chain = chain[:len(chain)-1]
	}
	if len(chain) < 3 || hasRepeat(chain) {
		return nil
	}
	return chain
}

// removeSpikes drops back-and-forth steps (p, q, p) from a loop.
func removeSpikes(loop []int) []int {
	for changed := true; changed && len(loop) >= 3; {
		changed = false
		n := len(loop)
		for i := 0; i < n; i++ {
			if loop[(i+n-1)%n] != loop[(i+1)%n] {
				continue
			}
			next := (i + 1) % n
			out := make([]int, 0, n-2)
			for j, v := range loop {
				if j != i && j != next {
					out = append(out, v)
				}
			}
			loop = out
			changed = true
			break
		}
	}
	return loop
}

func rotateTo(loop []int, v int) []int {
	i := indexOf(loop, v)
	out := make([]int, 0, len(loop))
	out = append(out, loop[i:]...)
	return append(out, loop[:i]...)
}

func loopTraverses(loop []int, a, b int) bool {
	i := indexOf(loop, a)
	return i >= 0 && loop[(i+1)%len(loop)] == b
}

func reversed(s []int) []int {
	out := make([]int, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
