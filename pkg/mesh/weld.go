package mesh

import (
	"fmt"
	"sort"

	"github.com/Faultbox/meshops/pkg/math"
)

// MergeByDistance welds vertices of the set that lie within threshold of each
// other. With useUnselected a vertex of the set is first welded onto the
// nearest vertex outside the set, which keeps its position. It returns the
// number of removed vertices.
func (m *Mesh) MergeByDistance(verts []int, threshold float32, useUnselected bool) (int, Remap, error) {
	if err := m.checkVerts(verts); err != nil {
		return 0, Remap{}, err
	}
	inSet := make(map[int]bool, len(verts))
	order := make([]int, 0, len(verts))
	for _, v := range verts {
		if !inSet[v] {
			inSet[v] = true
			order = append(order, v)
		}
	}
	sort.Ints(order)

	target := make(map[int]int)
	if useUnselected {
		for _, v := range order {
			best, bestDist := -1, threshold
			for u := range m.Verts {
				if inSet[u] {
					continue
				}
				if d := m.Verts[v].Co.Distance(m.Verts[u].Co); d <= bestDist {
					best, bestDist = u, d
				}
			}
			if best >= 0 {
				target[v] = best
			}
		}
	}
	for i, v := range order {
		if _, ok := target[v]; ok {
			continue
		}
		for _, u := range order[i+1:] {
			if _, ok := target[u]; ok {
				continue
			}
			if m.Verts[v].Co.Distance(m.Verts[u].Co) <= threshold {
				target[u] = v
			}
		}
	}
	if len(target) == 0 {
		return 0, identityRemap(m), nil
	}
	return len(target), m.weld(target), nil
}

// MergeAt moves every vertex of the set to co (local space) and welds them into
// one vertex, whose new index is returned.
func (m *Mesh) MergeAt(verts []int, co math.Vec3) (int, Remap, error) {
	if err := m.checkVerts(verts); err != nil {
		return -1, Remap{}, err
	}
	if len(verts) == 0 {
		return -1, Remap{}, fmt.Errorf("merge: %w", ErrEmptySelection)
	}
	keep := verts[0]
	target := make(map[int]int)
	for _, v := range verts {
		m.Verts[v].Co = co
		if v != keep {
			target[v] = keep
		}
	}
	r := m.weld(target)
	return r.Verts[keep], r, nil
}

// MergeCollapse merges each edge-connected group of the set at its centre.
func (m *Mesh) MergeCollapse(verts []int) (Remap, error) {
	if err := m.checkVerts(verts); err != nil {
		return Remap{}, err
	}
	inSet := make(map[int]bool, len(verts))
	for _, v := range verts {
		inSet[v] = true
	}
	target := make(map[int]int)
	seen := make(map[int]bool)
	for _, v := range sortedKeys(inSet) {
		if seen[v] {
			continue
		}
		group := []int{v}
		seen[v] = true
		for i := 0; i < len(group); i++ {
			for _, e := range m.VertEdges(group[i]) {
				u := m.Edges[e].Key.Other(group[i])
				if inSet[u] && !seen[u] {
					seen[u] = true
					group = append(group, u)
				}
			}
		}
		center := m.centroid(group)
		for _, u := range group {
			m.Verts[u].Co = center
			if u != v {
				target[u] = v
			}
		}
	}
	if len(target) == 0 {
		return identityRemap(m), nil
	}
	return m.weld(target), nil
}

// weld redirects every vertex in target onto its mapped vertex, then removes
// collapsed faces and edges and duplicate faces and edges.
func (m *Mesh) weld(target map[int]int) Remap {
	m.EnsureLookup()
	resolve := func(v int) int {
		for i := 0; i <= len(target); i++ {
			t, ok := target[v]
			if !ok {
				return v
			}
			v = t
		}
		return v
	}
	for v := range target {
		if m.Verts[v].Select {
			m.Verts[resolve(v)].Select = true
		}
	}

	faceMap := make([]int, len(m.Faces))
	faceSeen := make(map[string]int)
	faces := make([]Face, 0, len(m.Faces))
	for i, f := range m.Faces {
		loop := collapseLoop(f.Verts, resolve)
		if len(loop) < 3 || hasRepeat(loop) {
			faceMap[i] = -1
			continue
		}
		key := fmt.Sprint(sortedCopy(loop))
		if j, ok := faceSeen[key]; ok {
			faceMap[i] = j
			continue
		}
		f.Verts = loop
		faceSeen[key] = len(faces)
		faceMap[i] = len(faces)
		faces = append(faces, f)
	}

	edgeMap := make([]int, len(m.Edges))
	edgeSeen := make(map[EdgeKey]int)
	edges := make([]Edge, 0, len(m.Edges))
	for i, e := range m.Edges {
		a, b := resolve(e.Key[0]), resolve(e.Key[1])
		if a == b {
			edgeMap[i] = -1
			continue
		}
		key := NewEdgeKey(a, b)
		if j, ok := edgeSeen[key]; ok {
			edges[j].Select = edges[j].Select || e.Select
			edgeMap[i] = j
			continue
		}
		edgeSeen[key] = len(edges)
		edgeMap[i] = len(edges)
		edges = append(edges, Edge{Key: key, Select: e.Select})
	}

	history := make([]ElementRef, 0, len(m.SelectHistory))
	for _, h := range m.SelectHistory {
		switch h.Kind {
		case KindVertex:
			h.Index = resolve(h.Index)
		case KindEdge:
			h.Index = edgeMap[h.Index]
		case KindFace:
			h.Index = faceMap[h.Index]
		}
		if h.Index >= 0 {
			history = append(history, h)
		}
	}

	m.Edges = edges
	m.Faces = faces
	m.SelectHistory = history
	m.InvalidateLookup()

	drop := make([]bool, len(m.Verts))
	for v := range target {
		drop[v] = true
	}
	r := m.compact(drop, nil, nil)
	for v := range target {
		r.Verts[v] = r.Verts[resolve(v)]
	}
	for i, e := range edgeMap {
		if e >= 0 {
			edgeMap[i] = r.Edges[e]
		}
	}
	for i, f := range faceMap {
		if f >= 0 {
			faceMap[i] = r.Faces[f]
		}
	}
	r.Edges = edgeMap
	r.Faces = faceMap
	return r
}

// collapseLoop maps a face loop through resolve and drops consecutive repeats.
func collapseLoop(verts []int, resolve func(int) int) []int {
	out := make([]int, 0, len(verts))
	for _, v := range verts {
		v = resolve(v)
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

func hasRepeat(loop []int) bool {
	seen := make(map[int]bool, len(loop))
	for _, v := range loop {
		if seen[v] {
			return true
		}
		seen[v] = true
	}
	return false
}

func sortedCopy(s []int) []int {
	c := append([]int(nil), s...)
	sort.Ints(c)
	return c
}

func identityRemap(m *Mesh) Remap {
	r := Remap{
		Verts: make([]int, len(m.Verts)),
		Edges: make([]int, len(m.Edges)),
		Faces: make([]int, len(m.Faces)),
	}
	for i := range r.Verts {
		r.Verts[i] = i
	}
	for i := range r.Edges {
		r.Edges[i] = i
	}
	for i := range r.Faces {
		r.Faces[i] = i
	}
	return r
}
