package mesh

import (
	"fmt"
	"sort"
	"strings"
)

// ElementKind distinguishes vertices, edges and faces.
type ElementKind int

const (
	KindVertex ElementKind = iota
	KindEdge
	KindFace
)

func (k ElementKind) String() string {
	switch k {
	case KindEdge:
		return "EDGE"
	case KindFace:
		return "FACE"
	default:
		return "VERT"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ElementKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ElementKind) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "VERT", "VERTEX":
		*k = KindVertex
	case "EDGE":
		*k = KindEdge
	case "FACE":
		*k = KindFace
	default:
		return fmt.Errorf("unknown element kind %q", text)
	}
	return nil
}

// ElementRef addresses one vertex, edge or face.
type ElementRef struct {
	Kind  ElementKind `yaml:"kind" toml:"kind"`
	Index int         `yaml:"index" toml:"index"`
}

// Verts returns refs for the given vertex indices.
func Verts(indices ...int) []ElementRef {
	return refs(KindVertex, indices)
}

// Edges returns refs for the given edge indices.
func Edges(indices ...int) []ElementRef {
	return refs(KindEdge, indices)
}

// Faces returns refs for the given face indices.
func Faces(indices ...int) []ElementRef {
	return refs(KindFace, indices)
}

func refs(kind ElementKind, indices []int) []ElementRef {
	out := make([]ElementRef, len(indices))
	for i, idx := range indices {
		out[i] = ElementRef{Kind: kind, Index: idx}
	}
	return out
}

// SelectMode is the element granularity an editor selects at.
type SelectMode int

const (
	ModeObject SelectMode = iota
	ModeVertex
	ModeEdge
	ModeFace
	// ModeMixed means more than one element flag is enabled.
	ModeMixed
)

func (m SelectMode) String() string {
	switch m {
	case ModeVertex:
		return "VERT"
	case ModeEdge:
		return "EDGE"
	case ModeFace:
		return "FACE"
	case ModeMixed:
		return "MIXED"
	default:
		return "OBJECT"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m SelectMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *SelectMode) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "OBJECT":
		*m = ModeObject
	case "VERT", "VERTEX":
		*m = ModeVertex
	case "EDGE":
		*m = ModeEdge
	case "FACE":
		*m = ModeFace
	case "MIXED":
		*m = ModeMixed
	default:
		return fmt.Errorf("unknown selection mode %q", text)
	}
	return nil
}

// Kind returns the element kind of a single-element mode.
func (m SelectMode) Kind() (ElementKind, bool) {
	switch m {
	case ModeVertex:
		return KindVertex, true
	case ModeEdge:
		return KindEdge, true
	case ModeFace:
		return KindFace, true
	}
	return KindVertex, false
}

// SelectMask enables vertex, edge and face selection independently.
type SelectMask struct {
	Vertex bool `yaml:"vertex" toml:"vertex"`
	Edge   bool `yaml:"edge" toml:"edge"`
	Face   bool `yaml:"face" toml:"face"`
}

// MaskOf returns the mask for a single-element mode.
func MaskOf(mode SelectMode) SelectMask {
	switch mode {
	case ModeEdge:
		return SelectMask{Edge: true}
	case ModeFace:
		return SelectMask{Face: true}
	default:
		return SelectMask{Vertex: true}
	}
}

// Mode classifies the mask. Masks with several flags are ModeMixed.
func (s SelectMask) Mode() SelectMode {
	switch s {
	case SelectMask{Vertex: true}:
		return ModeVertex
	case SelectMask{Edge: true}:
		return ModeEdge
	case SelectMask{Face: true}:
		return ModeFace
	}
	return ModeMixed
}

// Primary resolves a mixed mask to one mode, preferring vertex, then face, then edge.
func (s SelectMask) Primary() (SelectMode, bool) {
	switch {
	case s.Vertex:
		return ModeVertex, true
	case s.Face:
		return ModeFace, true
	case s.Edge:
		return ModeEdge, true
	}
	return ModeObject, false
}

// Count returns the number of elements of the kind.
func (m *Mesh) Count(kind ElementKind) int {
	switch kind {
	case KindEdge:
		return len(m.Edges)
	case KindFace:
		return len(m.Faces)
	default:
		return len(m.Verts)
	}
}

// IsSelected reports the selection flag of an element.
func (m *Mesh) IsSelected(ref ElementRef) bool {
	switch ref.Kind {
	case KindEdge:
		return m.Edges[ref.Index].Select
	case KindFace:
		return m.Faces[ref.Index].Select
	default:
		return m.Verts[ref.Index].Select
	}
}

// Selected returns the selected indices of the kind in index order. With
// noneIsAll an empty selection is treated as every element being selected.
func (m *Mesh) Selected(kind ElementKind, noneIsAll bool) []int {
	n := m.Count(kind)
	var out []int
	for i := 0; i < n; i++ {
		if m.IsSelected(ElementRef{Kind: kind, Index: i}) {
			out = append(out, i)
		}
	}
	if len(out) == 0 && noneIsAll {
		out = make([]int, n)
		for i := range out {
			out[i] = i
		}
	}
	return out
}

// SelectedVerts returns the selected vertex indices.
func (m *Mesh) SelectedVerts(noneIsAll bool) []int {
	return m.Selected(KindVertex, noneIsAll)
}

// SelectedEdges returns the selected edge indices.
func (m *Mesh) SelectedEdges(noneIsAll bool) []int {
	return m.Selected(KindEdge, noneIsAll)
}

// SelectedFaces returns the selected face indices.
func (m *Mesh) SelectedFaces(noneIsAll bool) []int {
	return m.Selected(KindFace, noneIsAll)
}

// SelectOptions control SelectByID.
type SelectOptions struct {
	// Clear deselects everything first. Ignored when deselecting.
	Clear bool
	// Deselect clears the given elements instead of selecting them.
	Deselect bool
}

// SelectByID selects or deselects elements by index. Every index is checked
// against the current element count before anything is changed.
func (m *Mesh) SelectByID(kind ElementKind, indices []int, opts SelectOptions) error {
	if err := checkRange(indices, m.Count(kind), kind.String()); err != nil {
		return err
	}
	if opts.Clear && !opts.Deselect {
		m.DeselectAll()
	}
	for _, i := range indices {
		m.SetSelect(ElementRef{Kind: kind, Index: i}, !opts.Deselect)
	}
	switch kind {
	case KindVertex:
		m.flushFromVerts()
	case KindEdge:
		m.flushFacesFromEdges()
	}
	return nil
}

// SetSelect sets the selection flag of one element and propagates it:
// selecting an edge or face selects its vertices (and a face its edges),
// deselecting a vertex deselects everything using it.
func (m *Mesh) SetSelect(ref ElementRef, sel bool) {
	switch ref.Kind {
	case KindVertex:
		m.Verts[ref.Index].Select = sel
		if !sel {
			for _, e := range m.VertEdges(ref.Index) {
				m.Edges[e].Select = false
			}
			for _, f := range m.VertFaces(ref.Index) {
				m.Faces[f].Select = false
			}
		}
	case KindEdge:
		e := &m.Edges[ref.Index]
		e.Select = sel
		if sel {
			m.Verts[e.Key[0]].Select = true
			m.Verts[e.Key[1]].Select = true
			return
		}
		for _, f := range m.EdgeFaces(ref.Index) {
			m.Faces[f].Select = false
		}
		for _, v := range e.Key {
			if !m.vertHasSelectedEdge(v) {
				m.Verts[v].Select = false
			}
		}
	case KindFace:
		f := &m.Faces[ref.Index]
		f.Select = sel
		if sel {
			for _, v := range f.Verts {
				m.Verts[v].Select = true
			}
			for _, e := range m.FaceEdges(ref.Index) {
				m.Edges[e].Select = true
			}
			return
		}
		for _, e := range m.FaceEdges(ref.Index) {
			if !m.edgeHasSelectedFace(e) {
				m.Edges[e].Select = false
			}
		}
		for _, v := range f.Verts {
			if !m.vertHasSelectedFace(v) {
				m.Verts[v].Select = false
			}
		}
	}
}

// DeselectAll clears every selection flag.
func (m *Mesh) DeselectAll() {
	for i := range m.Verts {
		m.Verts[i].Select = false
	}
	for i := range m.Edges {
		m.Edges[i].Select = false
	}
	for i := range m.Faces {
		m.Faces[i].Select = false
	}
}

// SelectAll sets every selection flag.
func (m *Mesh) SelectAll() {
	for i := range m.Verts {
		m.Verts[i].Select = true
	}
	for i := range m.Edges {
		m.Edges[i].Select = true
	}
	for i := range m.Faces {
		m.Faces[i].Select = true
	}
}

// SelectFlush recomputes the derived selection state for the mask, the way an
// editor does when the selection mode changes.
func (m *Mesh) SelectFlush(mask SelectMask) {
	switch {
	case mask.Vertex:
		m.flushFromVerts()
	case mask.Edge:
		for i := range m.Verts {
			m.Verts[i].Select = false
		}
		for _, e := range m.Edges {
			if e.Select {
				m.Verts[e.Key[0]].Select = true
				m.Verts[e.Key[1]].Select = true
			}
		}
		m.flushFacesFromEdges()
	case mask.Face:
		for i := range m.Verts {
			m.Verts[i].Select = false
		}
		for i := range m.Edges {
			m.Edges[i].Select = false
		}
		for i, f := range m.Faces {
			if f.Select {
				m.SetSelect(ElementRef{Kind: KindFace, Index: i}, true)
			}
		}
	}
}

// SelectEdgesBetweenSelectedVerts selects exactly the edges whose endpoints are
// both selected.
func (m *Mesh) SelectEdgesBetweenSelectedVerts() ([]int, error) {
	var edges []int
	for i, e := range m.Edges {
		if m.Verts[e.Key[0]].Select && m.Verts[e.Key[1]].Select {
			edges = append(edges, i)
		}
	}
	if err := m.SelectByID(KindEdge, edges, SelectOptions{Clear: true}); err != nil {
		return nil, err
	}
	return edges, nil
}

// AddHistory appends an element to the selection history, making it active.
func (m *Mesh) AddHistory(ref ElementRef) error {
	if err := checkRange([]int{ref.Index}, m.Count(ref.Kind), ref.Kind.String()); err != nil {
		return err
	}
	m.DiscardHistory(ref)
	m.SelectHistory = append(m.SelectHistory, ref)
	return nil
}

// DiscardHistory removes an element from the selection history.
func (m *Mesh) DiscardHistory(ref ElementRef) {
	out := m.SelectHistory[:0]
	for _, h := range m.SelectHistory {
		if h != ref {
			out = append(out, h)
		}
	}
	m.SelectHistory = out
}

// Active returns the last element of the selection history.
func (m *Mesh) Active() (ElementRef, bool) {
	if len(m.SelectHistory) == 0 {
		return ElementRef{}, false
	}
	return m.SelectHistory[len(m.SelectHistory)-1], true
}

// ElementVerts resolves elements to the distinct vertices they use, sorted.
func (m *Mesh) ElementVerts(elems []ElementRef) ([]int, error) {
	set := make(map[int]bool)
	for _, ref := range elems {
		if err := checkRange([]int{ref.Index}, m.Count(ref.Kind), ref.Kind.String()); err != nil {
			return nil, err
		}
		switch ref.Kind {
		case KindVertex:
			set[ref.Index] = true
		case KindEdge:
			set[m.Edges[ref.Index].Key[0]] = true
			set[m.Edges[ref.Index].Key[1]] = true
		case KindFace:
			for _, v := range m.Faces[ref.Index].Verts {
				set[v] = true
			}
		}
	}
	return sortedKeys(set), nil
}

func (m *Mesh) flushFromVerts() {
	for i, e := range m.Edges {
		m.Edges[i].Select = m.Verts[e.Key[0]].Select && m.Verts[e.Key[1]].Select
	}
	for i, f := range m.Faces {
		all := true
		for _, v := range f.Verts {
			if !m.Verts[v].Select {
				all = false
				break
			}
		}
		m.Faces[i].Select = all
	}
}

func (m *Mesh) flushFacesFromEdges() {
	for i := range m.Faces {
		all := true
		for _, e := range m.FaceEdges(i) {
			if !m.Edges[e].Select {
				all = false
				break
			}
		}
		m.Faces[i].Select = all
	}
}

func (m *Mesh) vertHasSelectedEdge(v int) bool {
	for _, e := range m.VertEdges(v) {
		if m.Edges[e].Select {
			return true
		}
	}
	return false
}

func (m *Mesh) vertHasSelectedFace(v int) bool {
	for _, f := range m.VertFaces(v) {
		if m.Faces[f].Select {
			return true
		}
	}
	return false
}

func (m *Mesh) edgeHasSelectedFace(e int) bool {
	for _, f := range m.EdgeFaces(e) {
		if m.Faces[f].Select {
			return true
		}
	}
	return false
}

func sortedKeys(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
