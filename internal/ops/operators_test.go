package ops

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
	"github.com/Faultbox/meshops/pkg/scene"
)

func selectAll(t *testing.T, m *mesh.Mesh, kind mesh.ElementKind) {
	t.Helper()
	ids := make([]int, m.Count(kind))
	for i := range ids {
		ids[i] = i
	}
	require.NoError(t, m.SelectByID(kind, ids, mesh.SelectOptions{Clear: true}))
}

func run(t *testing.T, ctx *Context, id string, params Params) Result {
	t.Helper()
	res, err := Default().Run(ctx, id, params)
	require.NoError(t, err)
	return res
}

func TestQuickMirrorSelectedVertex(t *testing.T) {
	m := mesh.New()
	m.AddVert(v3(2, 0, 0))
	ctx, _ := editScene(t, m, mesh.ModeVertex)
	selectAll(t, m, mesh.KindVertex)

	res := run(t, ctx, "quick_mirror", Params{
		"axis":          "X",
		"pivot":         PivotOrigin,
		"scope":         ScopeSelected,
		"delete_target": ScopeNone,
		"auto_merge":    false,
	})
	assert.Equal(t, StatusFinished, res.Status)
	require.Len(t, m.Verts, 2)
	assertVec(t, v3(2, 0, 0), m.Verts[0].Co)
	assertVec(t, v3(-2, 0, 0), m.Verts[1].Co)
}

func TestQuickMirrorAroundCursor(t *testing.T) {
	m := mesh.New()
	m.AddVert(v3(2, 0, 0))
	ctx, _ := editScene(t, m, mesh.ModeVertex)
	selectAll(t, m, mesh.KindVertex)
	ctx.Scene.Cursor.Location = v3(0, 0, 1)

	run(t, ctx, "quick_mirror", Params{
		"axis": "Z", "pivot": PivotCursor, "scope": ScopeSelected,
		"delete_target": ScopeNone, "auto_merge": false,
	})
	require.Len(t, m.Verts, 2)
	assertVec(t, v3(2, 0, 2), m.Verts[1].Co)
}

func TestQuickMirrorDeletesFarSideAndWelds(t *testing.T) {
	m := mesh.Grid(2, 1, 2)
	ctx, _ := editScene(t, m, mesh.ModeVertex)
	// Select the left half, which sits on the negative side.
	require.NoError(t, m.SelectByID(mesh.KindVertex, []int{0, 1, 3, 4}, mesh.SelectOptions{Clear: true}))

	run(t, ctx, "quick_mirror", Params{
		"axis": "X", "scope": ScopeIsland, "delete_target": ScopeIsland,
		"auto_merge": true, "auto_merge_distance": 0.001,
	})
	assert.Len(t, m.Faces, 2)
	assert.Len(t, m.Verts, 6, "the seam vertices are welded")
	require.NoError(t, m.Validate())
	lo, hi, err := m.Bounds(allVerts(m))
	require.NoError(t, err)
	assertVec(t, v3(-1, -1, 0), lo)
	assertVec(t, v3(1, 1, 0), hi)
}

func TestQuickMirrorTwiceRestoresPositions(t *testing.T) {
	for _, pivot := range []string{PivotOrigin, PivotObject, PivotCursor} {
		t.Run(pivot, func(t *testing.T) {
			m := mesh.New()
			a := m.AddVert(v3(1, 0.5, 0.25))
			b := m.AddVert(v3(2, -1, 0))
			c := m.AddVert(v3(1.5, 1, -0.5))
			_, err := m.AddFace([]int{a, b, c}, 0)
			require.NoError(t, err)
			ctx, obj := editScene(t, m, mesh.ModeVertex)
			obj.Location = v3(1, 2, 3)
			obj.Rotation = math.Euler{X: 0.3, Z: 0.7}
			obj.Scale = v3(2, 0.5, 1.5)
			ctx.Scene.Cursor.Location = v3(0.5, -1, 2)
			original := []math.Vec3{m.Verts[a].Co, m.Verts[b].Co, m.Verts[c].Co}

			params := Params{
				"axis": "X", "pivot": pivot, "scope": ScopeSelected,
				"delete_target": ScopeNone, "auto_merge": false,
			}
			selectAll(t, m, mesh.KindVertex)
			run(t, ctx, "quick_mirror", params)
			require.Len(t, m.Verts, 6)
			require.NoError(t, m.SelectByID(mesh.KindVertex, []int{3, 4, 5}, mesh.SelectOptions{Clear: true}))
			run(t, ctx, "quick_mirror", params)

			require.Len(t, m.Verts, 9)
			for i, want := range original {
				assertVec(t, want, m.Verts[6+i].Co)
			}
			require.NoError(t, m.Validate())
		})
	}
}

func TestQuickMirrorNothingSelected(t *testing.T) {
	ctx, _ := editScene(t, mesh.Plane(2), mesh.ModeVertex)
	res := run(t, ctx, "quick_mirror", nil)
	assert.Equal(t, StatusCancelled, res.Status)
	assert.Equal(t, "No vertices selected", res.Message)
}

func TestRadialArray(t *testing.T) {
	m := mesh.Plane(1)
	ctx, _ := editScene(t, m, mesh.ModeFace)
	selectAll(t, m, mesh.KindFace)

	run(t, ctx, "radial_array", Params{"count": 1})
	assert.Len(t, m.Faces, 1)

	run(t, ctx, "radial_array", Params{"count": 4, "pivot": PivotCursor})
	assert.Len(t, m.Faces, 4)
	assert.Len(t, m.Verts, 16)
}

func TestRadialArrayRotatesAroundPivot(t *testing.T) {
	m := mesh.New()
	a := m.AddVert(v3(1, 0, 0))
	b := m.AddVert(v3(2, 0, 0))
	c := m.AddVert(v3(2, 1, 0))
	_, err := m.AddFace([]int{a, b, c}, 0)
	require.NoError(t, err)
	ctx, _ := editScene(t, m, mesh.ModeFace)
	selectAll(t, m, mesh.KindFace)

	run(t, ctx, "radial_array", Params{"count": 2, "axis": "Z"})
	require.Len(t, m.Verts, 6)
	assertVec(t, v3(-1, 0, 0), m.Verts[3].Co)
	assertVec(t, v3(-2, 0, 0), m.Verts[4].Co)
	assertVec(t, v3(-2, -1, 0), m.Verts[5].Co)
}

func TestLinearArrayObjects(t *testing.T) {
	ctx, obj := objectScene(mesh.Cube(1))
	run(t, ctx, "linear_array", Params{"count": []int{3, 1, 1}, "offset": []float32{1, 0, 0}})

	s := ctx.Scene
	require.Len(t, s.Objects, 3)
	for i, o := range s.Objects {
		assertVec(t, v3(float32(i), 0, 0), o.Location)
		assert.True(t, s.IsSelected(o))
	}
	assert.NotSame(t, obj.Mesh, s.Objects[1].Mesh)
}

func TestLinearArrayGridLinked(t *testing.T) {
	ctx, obj := objectScene(mesh.Cube(1))
	run(t, ctx, "linear_array", Params{
		"count":   []int{2, 3, 1},
		"offset":  []float32{4, 4, 0},
		"between": true,
		"linked":  true,
	})
	s := ctx.Scene
	require.Len(t, s.Objects, 6)
	last := s.Objects[len(s.Objects)-1]
	assertVec(t, v3(4, 4, 0), last.Location)
	assert.Same(t, obj.Mesh, last.Mesh)
}

func TestLinearArrayEditMode(t *testing.T) {
	m := mesh.Plane(2)
	ctx, _ := editScene(t, m, mesh.ModeVertex)
	selectAll(t, m, mesh.KindVertex)

	run(t, ctx, "linear_array", Params{"count": []int{3, 1, 1}, "offset": []float32{3, 0, 0}})
	assert.Len(t, m.Faces, 3)
	assert.Len(t, m.Verts, 12)
	assert.Len(t, m.SelectedVerts(false), 12)
	lo, hi, err := m.Bounds(allVerts(m))
	require.NoError(t, err)
	assertVec(t, v3(-1, -1, 0), lo)
	assertVec(t, v3(7, 1, 0), hi)

	_, err = Default().Run(ctx, "linear_array", Params{"count": []int{0, 1, 1}})
	assert.Error(t, err)
}

func TestScatterDuplicateIsDeterministic(t *testing.T) {
	locations := func() []math.Vec3 {
		ctx, _ := objectScene(mesh.Cube(1))
		run(t, ctx, "scatter_duplicate", Params{
			"count":               4,
			"offset":              []float32{1, 2, 3},
			"add_negative_offset": true,
			"rotation":            []float32{0, 0, 90},
			"seed":                7,
		})
		var out []math.Vec3
		for _, o := range ctx.Scene.Objects {
			out = append(out, o.Location)
		}
		return out
	}
	first := locations()
	require.Len(t, first, 4)
	assert.Equal(t, first, locations())
	for _, loc := range first[1:] {
		assert.LessOrEqual(t, abs32(loc.X), float32(1))
		assert.LessOrEqual(t, abs32(loc.Y), float32(2))
		assert.LessOrEqual(t, abs32(loc.Z), float32(3))
	}
}

func TestScatterDuplicateEditMode(t *testing.T) {
	m := mesh.Plane(1)
	ctx, _ := editScene(t, m, mesh.ModeVertex)
	require.NoError(t, m.SelectByID(mesh.KindVertex, []int{0}, mesh.SelectOptions{Clear: true}))

	run(t, ctx, "scatter_duplicate", Params{"count": 3, "offset": []float32{5, 5, 5}})
	assert.Len(t, m.Faces, 3, "the whole island is copied")
	assert.Len(t, m.SelectedVerts(false), 12)
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestConnectOrKnife(t *testing.T) {
	m := mesh.Plane(2)
	ctx, _ := editScene(t, m, mesh.ModeVertex)
	require.NoError(t, m.SelectByID(mesh.KindVertex, []int{0, 3}, mesh.SelectOptions{Clear: true}))

	res := run(t, ctx, "connect_or_knife", nil)
	assert.Equal(t, StatusFinished, res.Status)
	assert.Len(t, m.Faces, 2)
	_, ok := m.FindEdge(0, 3)
	assert.True(t, ok)
	require.NoError(t, m.Validate())
}

func TestConnectOrKnifeCancels(t *testing.T) {
	m := mesh.Grid(2, 1, 2)
	ctx, _ := editScene(t, m, mesh.ModeVertex)
	require.NoError(t, m.SelectByID(mesh.KindVertex, []int{0}, mesh.SelectOptions{Clear: true}))
	res := run(t, ctx, "connect_or_knife", nil)
	assert.Equal(t, "Select two vertices to connect", res.Message)

	// Vertices 0 and 5 sit on different faces.
	require.NoError(t, m.SelectByID(mesh.KindVertex, []int{0, 5}, mesh.SelectOptions{Clear: true}))
	res = run(t, ctx, "connect_or_knife", nil)
	assert.Equal(t, StatusCancelled, res.Status)
	assert.Equal(t, "Could not connect vertices", res.Message)
	assert.Len(t, m.Faces, 2)
}

func TestMoveToZeroObject(t *testing.T) {
	ctx, obj := objectScene(mesh.Cube(1))
	obj.Location = v3(1, 2, 3)
	run(t, ctx, "move_to_zero", Params{"y": false})
	assertVec(t, v3(0, 2, 0), obj.Location)
}

func TestMoveToZeroEditMode(t *testing.T) {
	m := mesh.Plane(2)
	ctx, obj := editScene(t, m, mesh.ModeVertex)
	obj.Location = v3(5, 0, 0)
	require.NoError(t, m.SelectByID(mesh.KindVertex, []int{0}, mesh.SelectOptions{Clear: true}))

	run(t, ctx, "move_to_zero", nil)
	assertVec(t, v3(-5, 0, 0), m.Verts[0].Co)
	assertVec(t, v3(1, -1, 0), m.Verts[1].Co)
}

func TestMoveToZeroLinkedEditMode(t *testing.T) {
	m := mesh.Plane(2)
	ctx, obj := objectScene(m)
	dup := ctx.Scene.Duplicate(obj, true)
	dup.Location = v3(5, 0, 0)
	ctx.Scene.Select(dup, true)
	require.NoError(t, ctx.Scene.SetSelectionMode(mesh.ModeVertex, mesh.MaskOf(mesh.ModeVertex)))
	require.Len(t, ctx.Scene.EditObjects(), 2)
	require.NoError(t, m.SelectByID(mesh.KindVertex, []int{0}, mesh.SelectOptions{Clear: true}))

	run(t, ctx, "move_to_zero", nil)
	assertVec(t, v3(0, 0, 0), m.Verts[0].Co)
	assertVec(t, v3(1, -1, 0), m.Verts[1].Co)
}

func TestScaleToZero(t *testing.T) {
	m := mesh.Plane(2)
	ctx, _ := editScene(t, m, mesh.ModeVertex)
	require.NoError(t, m.SelectByID(mesh.KindVertex, []int{0, 2}, mesh.SelectOptions{Clear: true}))
	for i := range m.Verts {
		m.Verts[i].Co.X += float32(i)
	}

	run(t, ctx, "scale_to_zero", Params{"axis": "X"})
	assert.InDelta(t, m.Verts[0].Co.X, m.Verts[2].Co.X, eps)
	assert.InDelta(t, 0, m.Verts[0].Co.X, eps)

	ctx.Scene.Tools.PivotPoint = scene.PivotCursor
	ctx.Scene.Cursor.Location = v3(0, 0, 3)
	run(t, ctx, "scale_to_zero", Params{"axis": "Z"})
	assert.InDelta(t, 3, m.Verts[0].Co.Z, eps)
}

func TestRotateToZero(t *testing.T) {
	m := mesh.Plane(2)
	ctx, _ := editScene(t, m, mesh.ModeFace)
	selectAll(t, m, mesh.KindFace)

	run(t, ctx, "rotate_to_zero", Params{"axis": "X"})
	assertVec(t, v3(1, 0, 0), m.FaceNormal(0))

	run(t, ctx, "rotate_to_zero", Params{"axis": "Y", "flip": true})
	assertVec(t, v3(0, -1, 0), m.FaceNormal(0))
}

func TestMergeToActive(t *testing.T) {
	m := mesh.Plane(2)
	ctx, _ := editScene(t, m, mesh.ModeVertex)
	require.NoError(t, m.SelectByID(mesh.KindVertex, []int{0, 1}, mesh.SelectOptions{Clear: true}))

	res := run(t, ctx, "merge_to_active", nil)
	assert.Equal(t, StatusCancelled, res.Status)
	assert.Equal(t, "No active vertex found to merge to", res.Message)

	require.NoError(t, m.AddHistory(mesh.ElementRef{Kind: mesh.KindVertex, Index: 1}))
	res = run(t, ctx, "merge_to_active", nil)
	assert.Equal(t, StatusFinished, res.Status)
	require.Len(t, m.Verts, 3)
	require.Len(t, m.Faces, 1)
	assert.Len(t, m.Faces[0].Verts, 3)
}

func TestMergeByType(t *testing.T) {
	m := mesh.Plane(2)
	ctx, _ := editScene(t, m, mesh.ModeVertex)

	res := run(t, ctx, "merge_by_type", nil)
	assert.Equal(t, "Nothing selected", res.Message)

	require.NoError(t, m.SelectByID(mesh.KindVertex, []int{0, 1}, mesh.SelectOptions{Clear: true}))
	res = run(t, ctx, "merge_by_type", Params{"override_mode": MergeFirst})
	assert.Equal(t, "Requires a vertex in the selection history", res.Message)

	ctx.Scene.Cursor.Location = v3(0, -3, 0)
	run(t, ctx, "merge_by_type", Params{"override_mode": MergeCursor})
	require.Len(t, m.Verts, 3)

	_, err := Default().Run(ctx, "merge_by_type", Params{"override_mode": "SIDEWAYS"})
	assert.Error(t, err)
}

func TestSelectLoopNeedsTwoFaces(t *testing.T) {
	m := mesh.Plane(2)
	ctx, _ := editScene(t, m, mesh.ModeFace)
	selectAll(t, m, mesh.KindFace)

	res := run(t, ctx, "select_loop", nil)
	assert.Equal(t, StatusCancelled, res.Status)
	assert.Equal(t, "less than two faces selected", res.Message)
}

func TestSelectLoopFaceLoop(t *testing.T) {
	m := mesh.Grid(3, 1, 3)
	ctx, _ := editScene(t, m, mesh.ModeFace)
	require.NoError(t, m.SelectByID(mesh.KindFace, []int{0, 1}, mesh.SelectOptions{Clear: true}))

	res := run(t, ctx, "select_loop", nil)
	assert.Equal(t, StatusFinished, res.Status)
	assert.Equal(t, []int{0, 1, 2}, m.SelectedFaces(false))
}

func TestLoopSlice(t *testing.T) {
	m := mesh.Plane(2)
	ctx, _ := editScene(t, m, mesh.ModeEdge)
	e, ok := m.FindEdge(0, 1)
	require.True(t, ok)
	require.NoError(t, m.SelectByID(mesh.KindEdge, []int{e}, mesh.SelectOptions{Clear: true}))

	run(t, ctx, "loop_slice", nil)
	assert.Len(t, m.Faces, 2)
	assert.Len(t, m.Verts, 6)
	assert.Len(t, m.SelectedEdges(false), 1, "only the new loop is selected")
	assert.Empty(t, m.SelectedFaces(false))

	_, err := Default().Run(ctx, "loop_slice", Params{"multi": true, "count": 0})
	assert.Error(t, err)
}

func TestLoopSliceMulti(t *testing.T) {
	m := mesh.Plane(2)
	ctx, _ := editScene(t, m, mesh.ModeEdge)
	e, ok := m.FindEdge(0, 1)
	require.True(t, ok)
	require.NoError(t, m.SelectByID(mesh.KindEdge, []int{e}, mesh.SelectOptions{Clear: true}))

	run(t, ctx, "loop_slice", Params{"multi": true, "count": 3})
	assert.Len(t, m.Faces, 4)
	assert.Len(t, m.SelectedEdges(false), 3)
}

func TestSelectEdgeOrIsland(t *testing.T) {
	m := mesh.Plane(2)
	m.AddVert(v3(5, 5, 5))
	ctx, _ := editScene(t, m, mesh.ModeVertex)
	require.NoError(t, m.SelectByID(mesh.KindVertex, []int{0}, mesh.SelectOptions{Clear: true}))

	run(t, ctx, "select_edge_or_island", nil)
	assert.Equal(t, []int{0, 1, 2, 3}, m.SelectedVerts(false))
}

func TestMakeFaceFromTwoEdges(t *testing.T) {
	m := mesh.New()
	a := m.AddVert(v3(0, 0, 0))
	b := m.AddVert(v3(1, 0, 0))
	c := m.AddVert(v3(0, 1, 0))
	e1, err := m.AddEdge(a, b)
	require.NoError(t, err)
	e2, err := m.AddEdge(b, c)
	require.NoError(t, err)
	ctx, _ := editScene(t, m, mesh.ModeEdge)
	require.NoError(t, m.SelectByID(mesh.KindEdge, []int{e1, e2}, mesh.SelectOptions{Clear: true}))

	res := run(t, ctx, "make_face", nil)
	assert.Equal(t, StatusFinished, res.Status)
	require.Len(t, m.Faces, 1)
	assert.Equal(t, mesh.ModeFace, ctx.Scene.SelectionMode())

	res = run(t, ctx, "make_face", nil)
	assert.Equal(t, StatusCancelled, res.Status)
	assert.Len(t, m.Faces, 1)
}

func TestDeleteByMode(t *testing.T) {
	m := mesh.Grid(2, 1, 2)
	ctx, _ := editScene(t, m, mesh.ModeFace)
	require.NoError(t, m.SelectByID(mesh.KindFace, []int{0}, mesh.SelectOptions{Clear: true}))
	run(t, ctx, "delete", nil)
	assert.Len(t, m.Faces, 1)

	m2 := mesh.Grid(2, 1, 2)
	ctx2, _ := editScene(t, m2, mesh.ModeEdge)
	e, ok := m2.FindEdge(1, 4)
	require.True(t, ok)
	require.NoError(t, m2.SelectByID(mesh.KindEdge, []int{e}, mesh.SelectOptions{Clear: true}))
	run(t, ctx2, "delete", Params{"dissolve": true})
	require.Len(t, m2.Faces, 1)
	assert.Len(t, m2.Faces[0].Verts, 4)
}

func TestSetCursor(t *testing.T) {
	ctx, a := objectScene(mesh.Cube(1))
	b := ctx.Scene.AddObject("B", mesh.Cube(1))
	b.Location = v3(2, 0, 0)
	ctx.Scene.Select(b, true)

	run(t, ctx, "set_cursor", Params{"target": TargetSelection})
	assertVec(t, v3(1, 0, 0), ctx.Scene.Cursor.Location)

	a.Location = v3(0, 0, 4)
	run(t, ctx, "set_cursor", Params{"target": TargetActive})
	assertVec(t, v3(0, 0, 4), ctx.Scene.Cursor.Location)

	run(t, ctx, "set_cursor", nil)
	assert.Equal(t, scene.Cursor{}, ctx.Scene.Cursor)
}

func TestSetCursorActiveElement(t *testing.T) {
	m := mesh.Plane(2)
	ctx, _ := editScene(t, m, mesh.ModeFace)
	res := run(t, ctx, "set_cursor", Params{"target": TargetActive})
	assert.Equal(t, "No active element", res.Message)

	require.NoError(t, m.SelectByID(mesh.KindVertex, []int{3}, mesh.SelectOptions{}))
	require.NoError(t, m.AddHistory(mesh.ElementRef{Kind: mesh.KindVertex, Index: 3}))
	run(t, ctx, "set_cursor", Params{"target": TargetActive})
	assertVec(t, v3(1, 1, 0), ctx.Scene.Cursor.Location)
}

func TestSetPivotKeepsGeometry(t *testing.T) {
	ctx, obj := objectScene(mesh.Cube(2))
	obj.Location = v3(1, 0, 0)
	world := func() []math.Vec3 {
		var out []math.Vec3
		for _, v := range obj.Mesh.Verts {
			out = append(out, obj.World().TransformVec3(v.Co))
		}
		return out
	}
	before := world()

	run(t, ctx, "set_pivot", Params{"target": TargetBBBottom})
	assertVec(t, v3(1, 0, -1), obj.Location)
	for i, w := range world() {
		assertVec(t, before[i], w)
	}

	ctx.Scene.Cursor = scene.Cursor{Location: v3(0, 3, 0), Rotation: math.Euler{Z: 1}}
	run(t, ctx, "set_pivot", Params{"target": TargetCursor, "orient": true})
	assertVec(t, v3(0, 3, 0), obj.Location)
	assert.Equal(t, math.Euler{Z: 1}, obj.Rotation)
	for i, w := range world() {
		assertVec(t, before[i], w)
	}
}

func worldVerts(objs ...*scene.Object) [][]math.Vec3 {
	out := make([][]math.Vec3, len(objs))
	for i, o := range objs {
		world := o.World()
		for _, v := range o.Mesh.Verts {
			out[i] = append(out[i], world.TransformVec3(v.Co))
		}
	}
	return out
}

func TestSetPivotLinkedDuplicates(t *testing.T) {
	ctx, obj := objectScene(mesh.Cube(2))
	obj.Rotation = math.Euler{Z: 0.5}
	run(t, ctx, "linear_array", Params{
		"count":  []int{2, 1, 1},
		"offset": []float32{3, 0, 0},
		"linked": true,
	})
	s := ctx.Scene
	require.Len(t, s.Objects, 2)
	require.Same(t, s.Objects[0].Mesh, s.Objects[1].Mesh)
	before := worldVerts(s.Objects...)

	s.Cursor.Location = v3(10, 0, 0)
	res := run(t, ctx, "set_pivot", Params{"target": TargetCursor})
	assert.Equal(t, StatusFinished, res.Status)
	assertVec(t, v3(10, 0, 0), selectedMeshes(s)[0].Location)
	for i, verts := range worldVerts(s.Objects...) {
		for j, w := range verts {
			assertVec(t, before[i][j], w)
		}
	}

	run(t, ctx, "set_pivot", Params{"target": TargetBBBottom})
	for i, verts := range worldVerts(s.Objects...) {
		for j, w := range verts {
			assertVec(t, before[i][j], w)
		}
	}
}

func TestSetPivotOrientSharedMeshCancels(t *testing.T) {
	ctx, obj := objectScene(mesh.Cube(2))
	dup := ctx.Scene.Duplicate(obj, true)
	dup.Location = v3(4, 0, 0)
	ctx.Scene.Cursor = scene.Cursor{Location: v3(0, 3, 0), Rotation: math.Euler{Z: 1}}
	before := worldVerts(obj, dup)

	res := run(t, ctx, "set_pivot", Params{"target": TargetCursor, "orient": true})
	assert.Equal(t, StatusCancelled, res.Status)
	assert.Contains(t, res.Message, "shared")
	assertVec(t, v3(0, 0, 0), obj.Location)
	assert.Equal(t, before, worldVerts(obj, dup))
}

func TestSetPivotEditSelection(t *testing.T) {
	m := mesh.Plane(2)
	ctx, obj := editScene(t, m, mesh.ModeVertex)
	res := run(t, ctx, "set_pivot", Params{"target": TargetSelection})
	assert.Equal(t, "Nothing to set the pivot to", res.Message)

	require.NoError(t, m.SelectByID(mesh.KindVertex, []int{1, 3}, mesh.SelectOptions{Clear: true}))
	run(t, ctx, "set_pivot", Params{"target": TargetSelection})
	assertVec(t, v3(1, 0, 0), obj.Location)
	assertVec(t, v3(-2, -1, 0), m.Verts[0].Co)
}

func TestSetActionCenter(t *testing.T) {
	ctx := NewContext(scene.New())
	run(t, ctx, "set_action_center", Params{"action_center": "cursor"})
	tools := ctx.Scene.Tools
	assert.Equal(t, scene.PivotCursor, tools.PivotPoint)
	assert.Equal(t, scene.OrientationCursor, tools.Orientation)
	assert.Equal(t, scene.SnapTargetCenter, tools.SnapTarget)

	run(t, ctx, "set_action_center", Params{"action_center": "NORMAL_ACTIVE"})
	assert.Equal(t, scene.PivotActiveElement, ctx.Scene.Tools.PivotPoint)

	_, err := Default().Run(ctx, "set_action_center", Params{"action_center": "NOPE"})
	assert.Error(t, err)
}

func TestSetSelectionMode(t *testing.T) {
	ctx, obj := objectScene(mesh.Plane(2))
	run(t, ctx, "set_selection_mode", Params{"selection_mode": "EDGE"})
	assert.Equal(t, scene.EditMode, obj.Mode)
	assert.Equal(t, mesh.ModeEdge, ctx.Scene.SelectionMode())

	_, err := Default().Run(ctx, "set_selection_mode", Params{"selection_mode": "MIXED"})
	assert.Error(t, err)

	run(t, ctx, "set_selection_mode", nil)
	assert.Equal(t, scene.ObjectMode, obj.Mode)
}

func TestMoveToFace(t *testing.T) {
	ctx, obj := objectScene(mesh.Cube(1))
	floor := ctx.Scene.AddObject("Floor", mesh.Plane(10))
	floor.Location = v3(0, 0, -5)

	_, err := Default().Run(ctx, "move_to_face", nil)
	assert.ErrorIs(t, err, ErrNoPointer)

	ray := scene.NewRay(v3(2, 3, 10), v3(0, 0, -1))
	ctx.Pointer = &ray
	run(t, ctx, "move_to_face", nil)
	assertVec(t, v3(2, 3, -5), obj.Location)

	miss := scene.NewRay(v3(100, 0, 10), v3(0, 0, -1))
	ctx.Pointer = &miss
	res := run(t, ctx, "move_to_face", nil)
	assert.Equal(t, StatusCancelled, res.Status)
}

func TestApplyMaterial(t *testing.T) {
	ctx, obj := objectScene(mesh.Plane(2))
	ray := scene.NewRay(v3(50, 0, 10), v3(0, 0, -1))
	ctx.Pointer = &ray

	run(t, ctx, "apply_material", nil)
	require.Len(t, ctx.Scene.Materials, 1)
	assert.Equal(t, ctx.Scene.Materials[0].Name, obj.FaceMaterial(0))

	other := ctx.Scene.AddObject("Other", mesh.Plane(2))
	other.Location = v3(50, 0, 0)
	red := &scene.Material{Name: "Red", Color: [4]float32{1, 0, 0, 1}}
	ctx.Scene.Materials = append(ctx.Scene.Materials, red)
	require.NoError(t, other.AssignMaterial([]int{0}, "Red"))

	run(t, ctx, "apply_material", nil)
	assert.Equal(t, "Red", obj.FaceMaterial(0))
}

func TestCopyToMeshUnderPointer(t *testing.T) {
	s := scene.New()
	src := s.AddObject("Source", mesh.Grid(2, 1, 2))
	dst := s.AddObject("Target", mesh.Plane(2))
	dst.Location = v3(0, 0, -5)
	s.SetActive(src)
	require.NoError(t, s.SetSelectionMode(mesh.ModeFace, mesh.MaskOf(mesh.ModeFace)))
	require.NoError(t, src.Mesh.SelectByID(mesh.KindFace, []int{0}, mesh.SelectOptions{Clear: true}))
	ctx := NewContext(s)
	ray := scene.NewRay(v3(0, 0, -1), v3(0, 0, -1))
	ctx.Pointer = &ray

	run(t, ctx, "copy_to_mesh", Params{"cut": true})
	assert.Len(t, src.Mesh.Faces, 1)
	assert.Len(t, dst.Mesh.Faces, 2)
	assert.Same(t, dst, s.Active())
	assert.Equal(t, scene.EditMode, dst.Mode)
	assert.Equal(t, scene.ObjectMode, src.Mode)
	assert.Equal(t, []int{1}, dst.Mesh.SelectedFaces(false))
}

func TestClipboardObjects(t *testing.T) {
	ctx, obj := objectScene(mesh.Cube(1))
	ctx.Clipboard = scene.NewClipboard(filepath.Join(t.TempDir(), "clip.yaml"))

	res := run(t, ctx, "paste_from_clipboard", nil)
	assert.Equal(t, "Clipboard is empty", res.Message)

	res = run(t, ctx, "copy_to_clipboard", nil)
	assert.Equal(t, "Copied 1 objects", res.Message)

	res = run(t, ctx, "paste_from_clipboard", nil)
	assert.Equal(t, "Pasted 1 objects", res.Message)
	s := ctx.Scene
	require.Len(t, s.Objects, 2)
	pasted := s.Active()
	assert.NotSame(t, obj, pasted)
	assert.NotEqual(t, obj.ID, pasted.ID)
	assert.Equal(t, "Mesh.001", pasted.Name)
	assert.Equal(t, []*scene.Object{pasted}, s.Selected())
}

func TestClipboardFacesIntoEditMesh(t *testing.T) {
	m := mesh.Grid(2, 1, 2)
	ctx, _ := editScene(t, m, mesh.ModeFace)
	ctx.Clipboard = scene.NewClipboard(filepath.Join(t.TempDir(), "clip.yaml"))
	require.NoError(t, m.SelectByID(mesh.KindFace, []int{1}, mesh.SelectOptions{Clear: true}))

	run(t, ctx, "copy_to_clipboard", Params{"cut": true})
	assert.Len(t, m.Faces, 1)

	run(t, ctx, "paste_from_clipboard", nil)
	assert.Len(t, m.Faces, 2)
	assert.Len(t, ctx.Scene.Objects, 1)
	assert.Equal(t, []int{1}, m.SelectedFaces(false))
}

func TestMakePolygonOperator(t *testing.T) {
	ctx := NewContext(scene.New())
	res := run(t, ctx, "make_polygon", nil)
	assert.Equal(t, StatusCancelled, res.Status)

	run(t, ctx, "make_polygon", Params{
		"points": [][]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		"pivot":  "ORIGIN",
		"align":  "SET",
	})
	s := ctx.Scene
	require.Len(t, s.Objects, 1)
	obj := s.Objects[0]
	assert.Equal(t, "make_polygon", obj.Name)
	require.Len(t, obj.Mesh.Faces, 1)
	assert.Len(t, obj.Mesh.Faces[0].Verts, 4)
	assert.Equal(t, mesh.ModeFace, s.SelectionMode())

	_, err := Default().Run(NewContext(scene.New()), "make_polygon", Params{
		"points": [][]float32{{0, 0, 0}},
		"align":  "SIDEWAYS",
	})
	assert.Error(t, err)
}
