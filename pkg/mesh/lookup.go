package mesh

// lookupTables hold the adjacency derived from the element arrays.
type lookupTables struct {
	valid     bool
	vertFaces [][]int
	vertEdges [][]int
	edgeIndex map[EdgeKey]int
}

// InvalidateLookup marks the adjacency tables stale. Call it after editing the
// element slices directly.
func (m *Mesh) InvalidateLookup() {
	m.lookup = lookupTables{}
}

// EnsureLookup rebuilds the adjacency tables when they are stale.
func (m *Mesh) EnsureLookup() {
	if m.lookup.valid {
		return
	}
	t := lookupTables{
		valid:     true,
		vertFaces: make([][]int, len(m.Verts)),
		vertEdges: make([][]int, len(m.Verts)),
		edgeIndex: make(map[EdgeKey]int, len(m.Edges)),
	}
	for i, e := range m.Edges {
		t.edgeIndex[e.Key] = i
		t.vertEdges[e.Key[0]] = append(t.vertEdges[e.Key[0]], i)
		t.vertEdges[e.Key[1]] = append(t.vertEdges[e.Key[1]], i)
	}
	for i, f := range m.Faces {
		for _, v := range f.Verts {
			t.vertFaces[v] = append(t.vertFaces[v], i)
		}
	}
	m.lookup = t
}

// VertFaces returns the faces using vertex v.
func (m *Mesh) VertFaces(v int) []int {
	m.EnsureLookup()
	return m.lookup.vertFaces[v]
}

// VertEdges returns the edges using vertex v.
func (m *Mesh) VertEdges(v int) []int {
	m.EnsureLookup()
	return m.lookup.vertEdges[v]
}

// FindEdge returns the edge between a and b.
func (m *Mesh) FindEdge(a, b int) (int, bool) {
	m.EnsureLookup()
	e, ok := m.lookup.edgeIndex[NewEdgeKey(a, b)]
	return e, ok
}

// EdgeFaces returns the faces bordering edge e.
func (m *Mesh) EdgeFaces(e int) []int {
	key := m.Edges[e].Key
	var faces []int
	for _, f := range m.VertFaces(key[0]) {
		if m.faceHasEdge(f, key) {
			faces = append(faces, f)
		}
	}
	return faces
}

// FaceEdges returns the edge indices of face f in loop order.
func (m *Mesh) FaceEdges(f int) []int {
	keys := m.Faces[f].EdgeKeys()
	edges := make([]int, 0, len(keys))
	for _, k := range keys {
		if e, ok := m.FindEdge(k[0], k[1]); ok {
			edges = append(edges, e)
		}
	}
	return edges
}

// faceHasEdge reports whether a and b are consecutive in the face loop.
func (m *Mesh) faceHasEdge(f int, key EdgeKey) bool {
	verts := m.Faces[f].Verts
	i := indexOf(verts, key[0])
	if i < 0 {
		return false
	}
	n := len(verts)
	return verts[(i+1)%n] == key[1] || verts[(i+n-1)%n] == key[1]
}

// faceTraverses reports whether face f walks the directed edge a->b.
func (m *Mesh) faceTraverses(f, a, b int) bool {
	verts := m.Faces[f].Verts
	i := indexOf(verts, a)
	return i >= 0 && verts[(i+1)%len(verts)] == b
}
