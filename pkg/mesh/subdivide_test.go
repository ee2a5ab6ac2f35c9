package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubdivideEdgeRingSingleCut(t *testing.T) {
	m := Plane(2)
	ring := []int{edgeIndex(t, m, 0, 1), edgeIndex(t, m, 2, 3)}
	cut, err := m.SubdivideEdgeRing(ring, 1)
	require.NoError(t, err)

	assert.Len(t, cut.Verts, 2)
	require.Len(t, cut.LoopEdges, 1)
	assert.Len(t, m.Verts, 6)
	assert.Len(t, m.Faces, 2)
	assert.Len(t, m.Edges, 7)
	require.NoError(t, m.Validate())

	assertVec(t, vec(0, -1, 0), m.Verts[cut.Verts[0]].Co)
	assertVec(t, vec(0, 1, 0), m.Verts[cut.Verts[1]].Co)
	assert.Equal(t, NewEdgeKey(cut.Verts[0], cut.Verts[1]), m.Edges[cut.LoopEdges[0]].Key)
	for f := range m.Faces {
		assertVec(t, vec(0, 0, 1), m.FaceNormal(f))
	}
	_, ok := m.FindEdge(0, 1)
	assert.False(t, ok, "split ring edge should be gone")
}

func TestSubdivideEdgeRingMultipleCuts(t *testing.T) {
	m := Grid(3, 1, 3)
	ring, err := m.EdgeRing([]int{edgeIndex(t, m, 0, 4)})
	require.NoError(t, err)
	cut, err := m.SubdivideEdgeRing(ring, 2)
	require.NoError(t, err)

	assert.Len(t, cut.Verts, 8)
	assert.Len(t, cut.LoopEdges, 6)
	assert.Len(t, m.Faces, 9)
	assert.Len(t, m.Verts, 16)
	require.NoError(t, m.Validate())
}

func TestSubdivideEdgeRingInsertsIntoOtherFaces(t *testing.T) {
	m := Grid(2, 1, 2)
	// Only one edge of each face is in the ring, so faces gain a vertex.
	cut, err := m.SubdivideEdgeRing([]int{edgeIndex(t, m, 1, 4)}, 1)
	require.NoError(t, err)
	assert.Len(t, cut.Verts, 1)
	assert.Empty(t, cut.LoopEdges)
	assert.Len(t, m.Faces[0].Verts, 5)
	assert.Len(t, m.Faces[1].Verts, 5)
	require.NoError(t, m.Validate())
}

func TestSubdivideEdgeRingRejectsBadInput(t *testing.T) {
	m := Plane(2)
	_, err := m.SubdivideEdgeRing([]int{0}, 0)
	assert.Error(t, err)
	_, err = m.SubdivideEdgeRing([]int{9}, 1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
