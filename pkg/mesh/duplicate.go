package mesh

// DuplicationResult describes the geometry created by Duplicate.
type DuplicationResult struct {
	// VertMap maps each original vertex to its copy.
	VertMap map[int]int
	// Verts lists the new vertices in the order of the input set.
	Verts []int
	Edges []int
	Faces []int
}

// Duplicate copies the vertex set together with every edge and face lying
// entirely inside it. With flip the new faces get reversed winding, as needed
// after mirroring. An empty set returns an empty result.
func (m *Mesh) Duplicate(verts []int, flip bool) (*DuplicationResult, error) {
	if err := m.checkVerts(verts); err != nil {
		return nil, err
	}
	res := &DuplicationResult{VertMap: make(map[int]int, len(verts))}
	if len(verts) == 0 {
		return res, nil
	}
	m.EnsureLookup()

	// Gather the closure against the pre-duplication element counts.
	var edges, faces []int
	inSet := make(map[int]bool, len(verts))
	for _, v := range verts {
		inSet[v] = true
	}
	for i, e := range m.Edges {
		if inSet[e.Key[0]] && inSet[e.Key[1]] {
			edges = append(edges, i)
		}
	}
	for i, f := range m.Faces {
		if allIn(f.Verts, inSet) {
			faces = append(faces, i)
		}
	}

	for _, v := range verts {
		if _, ok := res.VertMap[v]; ok {
			continue
		}
		nv := m.AddVert(m.Verts[v].Co)
		m.Verts[nv].Select = m.Verts[v].Select
		res.VertMap[v] = nv
		res.Verts = append(res.Verts, nv)
	}
	for _, e := range edges {
		src := m.Edges[e]
		ne, err := m.AddEdge(res.VertMap[src.Key[0]], res.VertMap[src.Key[1]])
		if err != nil {
			return nil, err
		}
		m.Edges[ne].Select = src.Select
		res.Edges = append(res.Edges, ne)
	}
	for _, f := range faces {
		src := m.Faces[f]
		loop := make([]int, len(src.Verts))
		for i, v := range src.Verts {
			loop[i] = res.VertMap[v]
		}
		if flip {
			reverseLoop(loop)
		}
		nf, err := m.AddFace(loop, src.Material)
		if err != nil {
			return nil, err
		}
		m.Faces[nf].Select = src.Select
		res.Faces = append(res.Faces, nf)
	}
	return res, nil
}

// ReverseFaces flips the winding of the given faces, keeping the first vertex.
func (m *Mesh) ReverseFaces(faces []int) error {
	if err := checkRange(faces, len(m.Faces), "face"); err != nil {
		return err
	}
	for _, f := range faces {
		reverseLoop(m.Faces[f].Verts)
	}
	return nil
}

// reverseLoop reverses a face loop in place while keeping its first vertex.
func reverseLoop(loop []int) {
	for i, j := 1, len(loop)-1; i < j; i, j = i+1, j-1 {
		loop[i], loop[j] = loop[j], loop[i]
	}
}

func allIn(verts []int, set map[int]bool) bool {
	for _, v := range verts {
		if !set[v] {
			return false
		}
	}
	return true
}
