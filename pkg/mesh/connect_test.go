package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectVertsSplitsQuad(t *testing.T) {
	m := Plane(2)
	m.Faces[0].Material = 2
	m.Faces[0].Select = true

	e, err := m.ConnectVerts(0, 3)
	require.NoError(t, err)
	assert.Equal(t, NewEdgeKey(0, 3), m.Edges[e].Key)
	assert.True(t, m.Edges[e].Select)
	require.Len(t, m.Faces, 2)
	assert.Len(t, m.Edges, 5)
	require.NoError(t, m.Validate())
	for f := range m.Faces {
		assert.Len(t, m.Faces[f].Verts, 3)
		assert.Equal(t, 2, m.Faces[f].Material)
		assert.True(t, m.Faces[f].Select)
		assertVec(t, vec(0, 0, 1), m.FaceNormal(f))
	}
	assert.ElementsMatch(t, []int{0, 1}, m.EdgeFaces(e))
}

func TestConnectVertsSplitsNgon(t *testing.T) {
	m := New()
	for i := 0; i < 6; i++ {
		m.AddVert(vec(float32(i), float32(i%2), 0))
	}
	_, err := m.AddFace([]int{0, 1, 2, 3, 4, 5}, 0)
	require.NoError(t, err)

	_, err = m.ConnectVerts(4, 1)
	require.NoError(t, err)
	require.Len(t, m.Faces, 2)
	assert.Equal(t, []int{4, 5, 0, 1}, m.Faces[0].Verts)
	assert.Equal(t, []int{1, 2, 3, 4}, m.Faces[1].Verts)
	require.NoError(t, m.Validate())
}

func TestConnectVertsNeighbours(t *testing.T) {
	m := Plane(2)
	e, err := m.ConnectVerts(0, 1)
	require.NoError(t, err)
	assert.Equal(t, edgeIndex(t, m, 0, 1), e)
	assert.Len(t, m.Faces, 1)
}

func TestConnectVertsErrors(t *testing.T) {
	m := Grid(2, 1, 2)
	far := m.AddVert(vec(9, 9, 9))

	_, err := m.ConnectVerts(0, far)
	assert.ErrorIs(t, err, ErrNoSharedFace)
	_, err = m.ConnectVerts(0, 0)
	assert.ErrorIs(t, err, ErrInvalidEdge)
	_, err = m.ConnectVerts(0, 99)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Len(t, m.Faces, 2)
}
