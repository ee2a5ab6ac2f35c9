package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillLooseVerts(t *testing.T) {
	m := New()
	m.AddVert(vec(0, 0, 0))
	m.AddVert(vec(1, 1, 0))
	m.AddVert(vec(1, 0, 0))
	m.SelectAll()

	f, err := m.FillSelected()
	require.NoError(t, err)
	require.Equal(t, 0, f)
	assert.Len(t, m.Edges, 3)
	assert.True(t, m.Faces[f].Select)
	require.NoError(t, m.Validate())
}

func TestFillTwoVertsMakesEdge(t *testing.T) {
	m := New()
	m.AddVert(vec(0, 0, 0))
	m.AddVert(vec(1, 0, 0))
	m.SelectAll()
	f, err := m.FillSelected()
	require.NoError(t, err)
	assert.Equal(t, -1, f)
	assert.Len(t, m.Edges, 1)
}

func TestFillHoleMatchesNeighbours(t *testing.T) {
	m := Cube(2)
	_, err := m.DeleteFaces([]int{1})
	require.NoError(t, err)
	require.Len(t, m.Faces, 5)

	top := []int{edgeIndex(t, m, 4, 5), edgeIndex(t, m, 5, 6), edgeIndex(t, m, 6, 7), edgeIndex(t, m, 4, 7)}
	require.NoError(t, m.SelectByID(KindEdge, top, SelectOptions{Clear: true}))

	f, err := m.FillSelected()
	require.NoError(t, err)
	assertVec(t, vec(0, 0, 1), m.FaceNormal(f))
	require.NoError(t, m.Validate())
}

func TestFillTriangleFromEdgeAndVertex(t *testing.T) {
	m := Grid(2, 1, 2)
	_, err := m.DeleteFaces([]int{1})
	require.NoError(t, err)
	// Remaining face 0 uses verts 0..3; add a point to its right.
	tip := m.AddVert(vec(1, 0, 0))
	require.NoError(t, m.SelectByID(KindEdge, []int{edgeIndex(t, m, 1, 3)}, SelectOptions{Clear: true}))
	require.NoError(t, m.SelectByID(KindVertex, []int{tip}, SelectOptions{}))

	f, err := m.FillSelected()
	require.NoError(t, err)
	assert.Len(t, m.Faces[f].Verts, 3)
	assertVec(t, vec(0, 0, 1), m.FaceNormal(f))
}

func TestFillExistingFace(t *testing.T) {
	m := Plane(2)
	m.SelectAll()
	_, err := m.FillSelected()
	assert.ErrorIs(t, err, ErrFaceExists)
}
