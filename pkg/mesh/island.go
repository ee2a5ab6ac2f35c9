package mesh

// Island returns every vertex reachable from the seeds through shared faces,
// sorted by index. A seed without faces contributes only itself.
func (m *Mesh) Island(seeds []int) ([]int, error) {
	if err := m.checkVerts(seeds); err != nil {
		return nil, err
	}
	linked := make(map[int]bool, len(seeds))
	frontier := make([]int, 0, len(seeds))
	for _, v := range seeds {
		if !linked[v] {
			linked[v] = true
			frontier = append(frontier, v)
		}
	}
	visited := make(map[int]bool)
	for len(frontier) > 0 {
		v := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for _, f := range m.VertFaces(v) {
			if visited[f] {
				continue
			}
			visited[f] = true
			for _, u := range m.Faces[f].Verts {
				if !linked[u] {
					linked[u] = true
					frontier = append(frontier, u)
				}
			}
		}
	}
	return sortedKeys(linked), nil
}

// LinkedByEdges returns every vertex reachable from the seeds along edges,
// so wire edges without faces are followed too.
func (m *Mesh) LinkedByEdges(seeds []int) ([]int, error) {
	if err := m.checkVerts(seeds); err != nil {
		return nil, err
	}
	linked := make(map[int]bool, len(seeds))
	queue := make([]int, 0, len(seeds))
	for _, v := range seeds {
		if !linked[v] {
			linked[v] = true
			queue = append(queue, v)
		}
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, e := range m.VertEdges(v) {
			u := m.Edges[e].Key.Other(v)
			if !linked[u] {
				linked[u] = true
				queue = append(queue, u)
			}
		}
	}
	return sortedKeys(linked), nil
}

// Islands partitions all vertices into face-connected islands, ordered by
// their lowest vertex index.
func (m *Mesh) Islands() [][]int {
	seen := make([]bool, len(m.Verts))
	var out [][]int
	for v := range m.Verts {
		if seen[v] {
			continue
		}
		island, _ := m.Island([]int{v})
		for _, u := range island {
			seen[u] = true
		}
		out = append(out, island)
	}
	return out
}
