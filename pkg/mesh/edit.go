package mesh

// Remap maps old element indices to new ones after a compaction. Removed
// elements map to -1.
type Remap struct {
	Verts []int
	Edges []int
	Faces []int
}

// Vert returns the new index of vertex v, or -1.
func (r Remap) Vert(v int) int {
	if v < 0 || v >= len(r.Verts) {
		return -1
	}
	return r.Verts[v]
}

// DeleteVerts removes vertices along with every edge and face using them.
func (m *Mesh) DeleteVerts(verts []int) (Remap, error) {
	if err := m.checkVerts(verts); err != nil {
		return Remap{}, err
	}
	drop := make([]bool, len(m.Verts))
	for _, v := range verts {
		drop[v] = true
	}
	return m.compact(drop, nil, nil), nil
}

// DeleteEdges removes edges and the faces using them. Endpoints left without
// any edge are removed too.
func (m *Mesh) DeleteEdges(edges []int) (Remap, error) {
	if err := checkRange(edges, len(m.Edges), "edge"); err != nil {
		return Remap{}, err
	}
	dropE := make([]bool, len(m.Edges))
	dropF := make([]bool, len(m.Faces))
	candidates := make(map[int]bool)
	for _, e := range edges {
		dropE[e] = true
		for _, f := range m.EdgeFaces(e) {
			dropF[f] = true
		}
		candidates[m.Edges[e].Key[0]] = true
		candidates[m.Edges[e].Key[1]] = true
	}
	dropV := make([]bool, len(m.Verts))
	for v := range candidates {
		dropV[v] = true
		for _, e := range m.VertEdges(v) {
			if !dropE[e] {
				dropV[v] = false
				break
			}
		}
	}
	return m.compact(dropV, dropE, dropF), nil
}

// RemoveEdges removes edges and the faces using them but keeps every vertex.
func (m *Mesh) RemoveEdges(edges []int) (Remap, error) {
	if err := checkRange(edges, len(m.Edges), "edge"); err != nil {
		return Remap{}, err
	}
	dropE := make([]bool, len(m.Edges))
	dropF := make([]bool, len(m.Faces))
	for _, e := range edges {
		dropE[e] = true
		for _, f := range m.EdgeFaces(e) {
			dropF[f] = true
		}
	}
	return m.compact(nil, dropE, dropF), nil
}

// DeleteFaces removes faces. Edges and vertices used only by the removed faces
// are removed with them.
func (m *Mesh) DeleteFaces(faces []int) (Remap, error) {
	if err := checkRange(faces, len(m.Faces), "face"); err != nil {
		return Remap{}, err
	}
	dropF := make([]bool, len(m.Faces))
	for _, f := range faces {
		dropF[f] = true
	}
	dropE := make([]bool, len(m.Edges))
	edgeCand := make(map[int]bool)
	for _, f := range faces {
		for _, e := range m.FaceEdges(f) {
			edgeCand[e] = true
		}
	}
	for e := range edgeCand {
		dropE[e] = true
		for _, f := range m.EdgeFaces(e) {
			if !dropF[f] {
				dropE[e] = false
				break
			}
		}
	}
	dropV := make([]bool, len(m.Verts))
	for _, f := range faces {
		for _, v := range m.Faces[f].Verts {
			dropV[v] = true
		}
	}
	for v, d := range dropV {
		if !d {
			continue
		}
		for _, e := range m.VertEdges(v) {
			if !dropE[e] {
				dropV[v] = false
				break
			}
		}
	}
	return m.compact(dropV, dropE, dropF), nil
}

// RemoveLooseVerts deletes vertices that have no edges.
func (m *Mesh) RemoveLooseVerts() Remap {
	drop := make([]bool, len(m.Verts))
	for v := range m.Verts {
		drop[v] = len(m.VertEdges(v)) == 0
	}
	return m.compact(drop, nil, nil)
}

// compact removes the flagged elements plus everything referencing a removed
// vertex or edge, renumbering the rest in order. nil slices drop nothing.
func (m *Mesh) compact(dropV, dropE, dropF []bool) Remap {
	m.EnsureLookup()
	r := Remap{
		Verts: make([]int, len(m.Verts)),
		Edges: make([]int, len(m.Edges)),
		Faces: make([]int, len(m.Faces)),
	}

	verts := m.Verts[:0]
	for i, v := range m.Verts {
		if flagged(dropV, i) {
			r.Verts[i] = -1
			continue
		}
		r.Verts[i] = len(verts)
		verts = append(verts, v)
	}

	// Faces are filtered against the original edges before those are rewritten.
	faces := make([]Face, 0, len(m.Faces))
	for i, f := range m.Faces {
		keep := !flagged(dropF, i)
		for j := 0; keep && j < len(f.Verts); j++ {
			if r.Verts[f.Verts[j]] < 0 {
				keep = false
			}
		}
		if keep && dropE != nil {
			for _, e := range m.FaceEdges(i) {
				if dropE[e] {
					keep = false
					break
				}
			}
		}
		if !keep {
			r.Faces[i] = -1
			continue
		}
		for j, v := range f.Verts {
			f.Verts[j] = r.Verts[v]
		}
		r.Faces[i] = len(faces)
		faces = append(faces, f)
	}

	edges := m.Edges[:0]
	for i, e := range m.Edges {
		if flagged(dropE, i) || r.Verts[e.Key[0]] < 0 || r.Verts[e.Key[1]] < 0 {
			r.Edges[i] = -1
			continue
		}
		r.Edges[i] = len(edges)
		e.Key = NewEdgeKey(r.Verts[e.Key[0]], r.Verts[e.Key[1]])
		edges = append(edges, e)
	}

	history := m.SelectHistory[:0]
	for _, h := range m.SelectHistory {
		var idx int
		switch h.Kind {
		case KindVertex:
			idx = r.Verts[h.Index]
		case KindEdge:
			idx = r.Edges[h.Index]
		default:
			idx = r.Faces[h.Index]
		}
		if idx >= 0 {
			history = append(history, ElementRef{Kind: h.Kind, Index: idx})
		}
	}

	m.Verts = verts
	m.Edges = edges
	m.Faces = faces
	m.SelectHistory = history
	m.InvalidateLookup()
	return r
}

func flagged(flags []bool, i int) bool {
	return flags != nil && flags[i]
}
