// Package mesh implements an editable polygon mesh with selection state and the
// geometry operations the modeling tools are built from.
//
// Vertex, edge and face records are addressed by index. Adding elements keeps
// the adjacency lookup tables current; any operation that removes or reorders
// elements invalidates them and the next query rebuilds them through
// EnsureLookup. Indices held by callers are only valid until the next
// topology-changing call.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/meshops/pkg/math"
)

var (
	// ErrIndexOutOfRange is returned when an element index does not exist in the mesh.
	ErrIndexOutOfRange = errors.New("element index out of range")
	// ErrInvalidFace is returned for faces with fewer than three or repeated vertices.
	ErrInvalidFace = errors.New("invalid face")
	// ErrInvalidEdge is returned for edges whose endpoints coincide.
	ErrInvalidEdge = errors.New("invalid edge")
	// ErrEmptySelection is returned when an operation needs at least one element.
	ErrEmptySelection = errors.New("empty selection")
	// ErrSingularTransform is returned when a world matrix has no inverse,
	// for example an object scaled to zero on an axis.
	ErrSingularTransform = errors.New("world matrix is not invertible")
)

// Vertex is a mesh vertex in object-local space.
type Vertex struct {
	Co     math.Vec3 `yaml:"co" toml:"co"`
	Select bool      `yaml:"select,omitempty" toml:"select,omitempty"`
}

// EdgeKey is an unordered vertex pair, stored with the smaller index first.
type EdgeKey [2]int

// NewEdgeKey returns the canonical key for the pair.
func NewEdgeKey(a, b int) EdgeKey {
	if a > b {
		a, b = b, a
	}
	return EdgeKey{a, b}
}

// Other returns the endpoint that is not v.
func (k EdgeKey) Other(v int) int {
	if k[0] == v {
		return k[1]
	}
	return k[0]
}

// Has reports whether v is an endpoint.
func (k EdgeKey) Has(v int) bool {
	return k[0] == v || k[1] == v
}

// Edge connects two vertices.
type Edge struct {
	Key    EdgeKey `yaml:"key,flow" toml:"key"`
	Select bool    `yaml:"select,omitempty" toml:"select,omitempty"`
}

// Face is a closed loop of at least three distinct vertices.
type Face struct {
	Verts    []int `yaml:"verts,flow" toml:"verts"`
	Select   bool  `yaml:"select,omitempty" toml:"select,omitempty"`
	Material int   `yaml:"material,omitempty" toml:"material,omitempty"`
}

// EdgeKeys returns the keys of the face's boundary edges in loop order.
func (f *Face) EdgeKeys() []EdgeKey {
	keys := make([]EdgeKey, len(f.Verts))
	for i, v := range f.Verts {
		keys[i] = NewEdgeKey(v, f.Verts[(i+1)%len(f.Verts)])
	}
	return keys
}

// HasVert reports whether v is part of the face loop.
func (f *Face) HasVert(v int) bool {
	return indexOf(f.Verts, v) >= 0
}

// Mesh is an editable indexed mesh.
type Mesh struct {
	Verts []Vertex `yaml:"verts" toml:"verts"`
	Edges []Edge   `yaml:"edges,omitempty" toml:"edges,omitempty"`
	Faces []Face   `yaml:"faces,omitempty" toml:"faces,omitempty"`

	// SelectHistory records explicitly activated elements; the last entry is active.
	SelectHistory []ElementRef `yaml:"select_history,omitempty" toml:"select_history,omitempty"`

	lookup lookupTables
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// Copy returns a deep copy of the mesh.
func (m *Mesh) Copy() *Mesh {
	c := &Mesh{
		Verts:         append([]Vertex(nil), m.Verts...),
		Edges:         append([]Edge(nil), m.Edges...),
		Faces:         make([]Face, len(m.Faces)),
		SelectHistory: append([]ElementRef(nil), m.SelectHistory...),
	}
	for i, f := range m.Faces {
		f.Verts = append([]int(nil), f.Verts...)
		c.Faces[i] = f
	}
	return c
}

// AddVert appends a vertex and returns its index.
func (m *Mesh) AddVert(co math.Vec3) int {
	m.Verts = append(m.Verts, Vertex{Co: co})
	if m.lookup.valid {
		m.lookup.vertFaces = append(m.lookup.vertFaces, nil)
		m.lookup.vertEdges = append(m.lookup.vertEdges, nil)
	}
	return len(m.Verts) - 1
}

// AddEdge returns the edge between a and b, creating it when missing.
func (m *Mesh) AddEdge(a, b int) (int, error) {
	if err := m.checkVerts([]int{a, b}); err != nil {
		return -1, err
	}
	if a == b {
		return -1, fmt.Errorf("%w: %d-%d", ErrInvalidEdge, a, b)
	}
	m.EnsureLookup()
	key := NewEdgeKey(a, b)
	if e, ok := m.lookup.edgeIndex[key]; ok {
		return e, nil
	}
	m.Edges = append(m.Edges, Edge{Key: key})
	e := len(m.Edges) - 1
	m.lookup.edgeIndex[key] = e
	m.lookup.vertEdges[key[0]] = append(m.lookup.vertEdges[key[0]], e)
	m.lookup.vertEdges[key[1]] = append(m.lookup.vertEdges[key[1]], e)
	return e, nil
}

// AddFace appends a face over the given vertex loop, creating missing edges.
func (m *Mesh) AddFace(verts []int, material int) (int, error) {
	if err := m.checkFaceLoop(verts); err != nil {
		return -1, err
	}
	for i, v := range verts {
		if _, err := m.AddEdge(v, verts[(i+1)%len(verts)]); err != nil {
			return -1, err
		}
	}
	m.Faces = append(m.Faces, Face{Verts: append([]int(nil), verts...), Material: material})
	f := len(m.Faces) - 1
	for _, v := range verts {
		m.lookup.vertFaces[v] = append(m.lookup.vertFaces[v], f)
	}
	return f, nil
}

// Validate checks the structural invariants of the mesh.
func (m *Mesh) Validate() error {
	seen := make(map[EdgeKey]bool, len(m.Edges))
	for i, e := range m.Edges {
		if e.Key[0] == e.Key[1] {
			return fmt.Errorf("edge %d: %w", i, ErrInvalidEdge)
		}
		if e.Key != NewEdgeKey(e.Key[0], e.Key[1]) {
			return fmt.Errorf("edge %d: key %v not canonical", i, e.Key)
		}
		if err := m.checkVerts(e.Key[:]); err != nil {
			return fmt.Errorf("edge %d: %w", i, err)
		}
		if seen[e.Key] {
			return fmt.Errorf("edge %d: duplicate key %v", i, e.Key)
		}
		seen[e.Key] = true
	}
	for i := range m.Faces {
		f := &m.Faces[i]
		if err := m.checkFaceLoop(f.Verts); err != nil {
			return fmt.Errorf("face %d: %w", i, err)
		}
		for _, k := range f.EdgeKeys() {
			if !seen[k] {
				return fmt.Errorf("face %d: missing edge %v", i, k)
			}
		}
	}
	return nil
}

// Clear removes all geometry.
func (m *Mesh) Clear() {
	m.Verts = nil
	m.Edges = nil
	m.Faces = nil
	m.SelectHistory = nil
	m.InvalidateLookup()
}

func (m *Mesh) checkVerts(indices []int) error {
	return checkRange(indices, len(m.Verts), "vertex")
}

func (m *Mesh) checkFaceLoop(verts []int) error {
	if len(verts) < 3 {
		return fmt.Errorf("%w: %d vertices", ErrInvalidFace, len(verts))
	}
	if err := m.checkVerts(verts); err != nil {
		return err
	}
	seen := make(map[int]bool, len(verts))
	for _, v := range verts {
		if seen[v] {
			return fmt.Errorf("%w: repeated vertex %d", ErrInvalidFace, v)
		}
		seen[v] = true
	}
	return nil
}

func checkRange(indices []int, n int, kind string) error {
	for _, i := range indices {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: %s %d (count %d)", ErrIndexOutOfRange, kind, i, n)
		}
	}
	return nil
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
