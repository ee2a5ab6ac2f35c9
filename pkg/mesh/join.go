package mesh

import "github.com/Faultbox/meshops/pkg/math"

// Join appends a copy of other, with positions mapped through transform.
// materials remaps other's material indices; nil keeps them. The result maps
// other's vertices to their new indices.
func (m *Mesh) Join(other *Mesh, transform math.Mat4, materials []int) (*DuplicationResult, error) {
	res := &DuplicationResult{VertMap: make(map[int]int, len(other.Verts))}
	for i, v := range other.Verts {
		nv := m.AddVert(transform.TransformVec3(v.Co))
		m.Verts[nv].Select = v.Select
		res.VertMap[i] = nv
		res.Verts = append(res.Verts, nv)
	}
	for _, e := range other.Edges {
		ne, err := m.AddEdge(res.VertMap[e.Key[0]], res.VertMap[e.Key[1]])
		if err != nil {
			return nil, err
		}
		m.Edges[ne].Select = e.Select
		res.Edges = append(res.Edges, ne)
	}
	flip := transform.Det() < 0
	for _, f := range other.Faces {
		loop := make([]int, len(f.Verts))
		for i, v := range f.Verts {
			loop[i] = res.VertMap[v]
		}
		if flip {
			reverseLoop(loop)
		}
		mat := f.Material
		if materials != nil && mat >= 0 && mat < len(materials) {
			mat = materials[mat]
		}
		nf, err := m.AddFace(loop, mat)
		if err != nil {
			return nil, err
		}
		m.Faces[nf].Select = f.Select
		res.Faces = append(res.Faces, nf)
	}
	return res, nil
}

// Subset returns a new mesh holding the vertex set and every edge and face
// lying entirely inside it. Vertices keep their relative order.
func (m *Mesh) Subset(verts []int) (*Mesh, error) {
	if err := m.checkVerts(verts); err != nil {
		return nil, err
	}
	inSet := make(map[int]bool, len(verts))
	for _, v := range verts {
		inSet[v] = true
	}
	out := New()
	index := make(map[int]int, len(inSet))
	for _, v := range sortedKeys(inSet) {
		index[v] = out.AddVert(m.Verts[v].Co)
		out.Verts[index[v]].Select = m.Verts[v].Select
	}
	for _, e := range m.Edges {
		if inSet[e.Key[0]] && inSet[e.Key[1]] {
			ne, _ := out.AddEdge(index[e.Key[0]], index[e.Key[1]])
			out.Edges[ne].Select = e.Select
		}
	}
	for _, f := range m.Faces {
		if !allIn(f.Verts, inSet) {
			continue
		}
		loop := make([]int, len(f.Verts))
		for i, v := range f.Verts {
			loop[i] = index[v]
		}
		nf, _ := out.AddFace(loop, f.Material)
		out.Faces[nf].Select = f.Select
	}
	return out, nil
}

// ExtractFaces returns a new mesh holding only the given faces with the
// vertices and edges they use.
func (m *Mesh) ExtractFaces(faces []int) (*Mesh, error) {
	if err := checkRange(faces, len(m.Faces), "face"); err != nil {
		return nil, err
	}
	m.EnsureLookup()
	out := New()
	index := make(map[int]int)
	seen := make(map[int]bool, len(faces))
	for _, f := range faces {
		if seen[f] {
			continue
		}
		seen[f] = true
		src := m.Faces[f]
		loop := make([]int, len(src.Verts))
		for i, v := range src.Verts {
			nv, ok := index[v]
			if !ok {
				nv = out.AddVert(m.Verts[v].Co)
				out.Verts[nv].Select = m.Verts[v].Select
				index[v] = nv
			}
			loop[i] = nv
		}
		nf, err := out.AddFace(loop, src.Material)
		if err != nil {
			return nil, err
		}
		out.Faces[nf].Select = src.Select
		for i, v := range src.Verts {
			e, _ := m.FindEdge(v, src.Verts[(i+1)%len(src.Verts)])
			ne, _ := out.FindEdge(loop[i], loop[(i+1)%len(loop)])
			out.Edges[ne].Select = m.Edges[e].Select
		}
	}
	return out, nil
}
