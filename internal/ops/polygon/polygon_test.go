package polygon

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
	"github.com/Faultbox/meshops/pkg/scene"
)

func vec(x, y, z float32) math.Vec3 {
	return math.Vec3{X: x, Y: y, Z: z}
}

func groundOptions() Options {
	return Options{Pivot: PivotOrigin, Align: AlignSet, Axis: "XY"}
}

// down returns a ray hitting the XY plane at (x, y).
func down(x, y float32) scene.Ray {
	return scene.NewRay(vec(x, y, 5), vec(0, 0, -1))
}

func TestDrawTriangleInObjectMode(t *testing.T) {
	s := scene.New()
	ss, err := Start(s, groundOptions(), View{})
	require.NoError(t, err)
	obj := ss.Object()
	assert.Equal(t, TempObjectName, obj.Name)
	assert.Same(t, obj, s.Active())
	assert.Equal(t, mesh.ModeVertex, s.SelectionMode())

	for _, p := range []math.Vec3{vec(0, 0, 0), vec(1, 0, 0), vec(0, 1, 0)} {
		require.NoError(t, ss.AddPoint(p))
	}
	require.NoError(t, ss.Finish())
	assert.Equal(t, Finished, ss.State())

	m := obj.Mesh
	require.Len(t, m.Faces, 1)
	assert.Len(t, m.Edges, 3)
	assert.InDelta(t, -1, m.FaceNormal(0).Z, 1e-5, "the face is flipped towards the viewer")
	assert.Equal(t, mesh.ModeFace, s.SelectionMode())
	assert.Equal(t, []int{0}, m.SelectedFaces(false))
}

func TestOutlineKeepsOneClosingEdge(t *testing.T) {
	s := scene.New()
	ss, err := Start(s, groundOptions(), View{})
	require.NoError(t, err)
	m := ss.Object().Mesh

	require.NoError(t, ss.AddPoint(vec(0, 0, 0)))
	require.NoError(t, ss.AddPoint(vec(1, 0, 0)))
	assert.Len(t, m.Edges, 1)
	require.NoError(t, ss.AddPoint(vec(1, 1, 0)))
	assert.Len(t, m.Edges, 3)
	require.NoError(t, ss.AddPoint(vec(0, 1, 0)))
	assert.Len(t, m.Edges, 4)

	_, ok := m.FindEdge(2, 0)
	assert.False(t, ok, "the previous closing edge is replaced")
	_, ok = m.FindEdge(3, 0)
	assert.True(t, ok)

	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, mesh.ElementRef{Kind: mesh.KindVertex, Index: 3}, active)
	assert.Equal(t, []int{3}, m.SelectedVerts(false))
}

func TestRemoveLastRecloses(t *testing.T) {
	s := scene.New()
	ss, err := Start(s, groundOptions(), View{})
	require.NoError(t, err)
	m := ss.Object().Mesh
	for _, p := range []math.Vec3{vec(0, 0, 0), vec(1, 0, 0), vec(1, 1, 0), vec(0, 1, 0)} {
		require.NoError(t, ss.AddPoint(p))
	}

	require.NoError(t, ss.RemoveLast())
	assert.Len(t, m.Verts, 3)
	assert.Len(t, m.Edges, 3)
	_, ok := m.FindEdge(2, 0)
	assert.True(t, ok)
	assert.Equal(t, []int{0, 1, 2}, ss.Verts())

	require.NoError(t, ss.RemoveLast())
	assert.Len(t, m.Verts, 2)
	assert.Len(t, m.Edges, 1)

	require.NoError(t, ss.RemoveLast())
	require.NoError(t, ss.RemoveLast())
	assert.Empty(t, m.Verts)
	require.NoError(t, ss.RemoveLast())
}

func TestTwoPointsFinishAsVertices(t *testing.T) {
	s := scene.New()
	ss, err := Start(s, groundOptions(), View{})
	require.NoError(t, err)
	require.NoError(t, ss.AddPoint(vec(0, 0, 0)))
	require.NoError(t, ss.AddPoint(vec(1, 0, 0)))
	require.NoError(t, ss.Finish())

	m := ss.Object().Mesh
	assert.Empty(t, m.Faces)
	assert.Equal(t, []int{0, 1}, m.SelectedVerts(false))
	assert.Equal(t, mesh.ModeVertex, s.SelectionMode())
	assert.ErrorIs(t, ss.AddPoint(vec(2, 0, 0)), ErrNotRunning)
}

func TestNewSectionStartsSecondOutline(t *testing.T) {
	s := scene.New()
	ss, err := Start(s, groundOptions(), View{})
	require.NoError(t, err)
	for _, p := range []math.Vec3{vec(0, 0, 0), vec(1, 0, 0), vec(0, 1, 0)} {
		require.NoError(t, ss.AddPoint(p))
	}
	require.NoError(t, ss.NewSection())
	for _, p := range []math.Vec3{vec(3, 0, 0), vec(4, 0, 0), vec(3, 1, 0)} {
		require.NoError(t, ss.AddPoint(p))
	}
	require.NoError(t, ss.Finish())

	m := ss.Object().Mesh
	assert.Len(t, m.Faces, 2)
	assert.Len(t, m.Edges, 6)
	assert.Equal(t, []int{1}, m.SelectedFaces(false))
}

func TestCancelInObjectModeRemovesObject(t *testing.T) {
	s := scene.New()
	cube := s.AddObject("Cube", mesh.Cube(2))
	s.Select(cube, true)
	s.SetActive(cube)

	ss, err := Start(s, groundOptions(), View{})
	require.NoError(t, err)
	require.Len(t, s.Objects, 2)
	require.NoError(t, ss.AddPoint(vec(0, 0, 0)))
	require.NoError(t, ss.Cancel())

	assert.Equal(t, Cancelled, ss.State())
	assert.Equal(t, []*scene.Object{cube}, s.Objects)
	assert.Same(t, cube, s.Active())
	assert.True(t, s.IsSelected(cube))
	assert.Equal(t, mesh.ModeObject, s.SelectionMode())
}

func TestCancelInEditModeRestoresSelection(t *testing.T) {
	s := scene.New()
	cube := s.AddObject("Cube", mesh.Cube(2))
	s.SetActive(cube)
	require.NoError(t, s.SetSelectionMode(mesh.ModeVertex, mesh.MaskOf(mesh.ModeVertex)))
	require.NoError(t, cube.Mesh.SelectByID(mesh.KindVertex, []int{0}, mesh.SelectOptions{Clear: true}))
	verts := len(cube.Mesh.Verts)

	ss, err := Start(s, groundOptions(), View{})
	require.NoError(t, err)
	assert.Same(t, cube, ss.Object())
	assert.Empty(t, cube.Mesh.SelectedVerts(false))

	require.NoError(t, ss.AddPoint(vec(5, 0, 0)))
	require.NoError(t, ss.AddPoint(vec(6, 0, 0)))
	assert.Len(t, cube.Mesh.Verts, verts+2)
	require.NoError(t, ss.Cancel())

	assert.Len(t, cube.Mesh.Verts, verts)
	assert.Equal(t, []int{0}, cube.Mesh.SelectedVerts(false))
	assert.Equal(t, scene.EditMode, cube.Mode)
	assert.Equal(t, mesh.ModeVertex, s.SelectionMode())
}

func TestPointsAreStoredInObjectSpace(t *testing.T) {
	s := scene.New()
	obj := s.AddObject("Plane", mesh.Plane(2))
	obj.Location = vec(10, 0, 0)
	s.SetActive(obj)
	require.NoError(t, s.SetSelectionMode(mesh.ModeVertex, mesh.MaskOf(mesh.ModeVertex)))

	ss, err := Start(s, groundOptions(), View{})
	require.NoError(t, err)
	require.NoError(t, ss.AddPoint(vec(11, 2, 0)))
	v := ss.Verts()[0]
	assert.True(t, obj.Mesh.Verts[v].Co.ApproxEqual(vec(1, 2, 0), 1e-5))
}

func TestPlaneSelection(t *testing.T) {
	tests := []struct {
		name   string
		opts   Options
		view   View
		cursor scene.Cursor
		normal math.Vec3
		point  math.Vec3
	}{
		{
			name:   "auto picks the axis facing the view",
			opts:   Options{Pivot: PivotFocal, Align: AlignAuto, Axis: "XY"},
			view:   View{Focus: vec(1, 2, 3), Direction: vec(-1, 0.2, 0.3)},
			normal: vec(1, 0, 0),
			point:  vec(1, 2, 3),
		},
		{
			name:   "auto from above",
			opts:   Options{Pivot: PivotOrigin, Align: AlignAuto, Axis: "XY"},
			view:   View{Direction: vec(0.1, 0.1, -1)},
			normal: vec(0, 0, 1),
		},
		{
			name:   "set axis",
			opts:   Options{Pivot: PivotCursor, Align: AlignSet, Axis: "XZ"},
			cursor: scene.Cursor{Location: vec(0, 4, 0)},
			normal: vec(0, 1, 0),
			point:  vec(0, 4, 0),
		},
		{
			name:   "screen",
			opts:   Options{Pivot: PivotOrigin, Align: AlignScreen, Axis: "XY"},
			view:   View{Direction: vec(0, 0, -2)},
			normal: vec(0, 0, -1),
		},
		{
			name:   "cursor rotation",
			opts:   Options{Pivot: PivotOrigin, Align: AlignCursor, Axis: "XY"},
			cursor: scene.Cursor{Rotation: math.Euler{X: math32.Pi / 2}},
			normal: vec(0, -1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.New()
			s.Cursor = tt.cursor
			ss, err := Start(s, tt.opts, tt.view)
			require.NoError(t, err)
			assert.Truef(t, tt.normal.ApproxEqual(ss.planeNormal, 1e-5), "normal %v", ss.planeNormal)
			assert.Truef(t, tt.point.ApproxEqual(ss.planePoint, 1e-5), "point %v", ss.planePoint)
		})
	}
}

func TestInvalidOptions(t *testing.T) {
	_, err := Start(scene.New(), Options{Pivot: "NOPE", Align: AlignAuto, Axis: "XY"}, View{})
	assert.Error(t, err)
	_, err = Start(scene.New(), Options{Pivot: PivotOrigin, Align: AlignAuto, Axis: "XW"}, View{})
	assert.Error(t, err)
}

func TestHandleEvents(t *testing.T) {
	s := scene.New()
	ss, err := Start(s, groundOptions(), View{})
	require.NoError(t, err)
	m := ss.Object().Mesh

	_, err = ss.Handle(Event{Type: EventPress, Button: ButtonLeft, Ray: down(0, 0)})
	require.NoError(t, err)
	_, err = ss.Handle(Event{Type: EventMove, Ray: down(0.5, 0.5)})
	require.NoError(t, err)
	assert.True(t, m.Verts[0].Co.ApproxEqual(vec(0.5, 0.5, 0), 1e-5), "dragging moves the vertex")

	_, err = ss.Handle(Event{Type: EventRelease, Button: ButtonLeft})
	require.NoError(t, err)
	_, err = ss.Handle(Event{Type: EventMove, Ray: down(3, 3)})
	require.NoError(t, err)
	assert.True(t, m.Verts[0].Co.ApproxEqual(vec(0.5, 0.5, 0), 1e-5))

	for _, p := range [][2]float32{{2, 0}, {2, 2}} {
		_, err = ss.Handle(Event{Type: EventPress, Button: ButtonLeft, Ray: down(p[0], p[1])})
		require.NoError(t, err)
		_, err = ss.Handle(Event{Type: EventRelease, Button: ButtonLeft})
		require.NoError(t, err)
	}
	assert.Len(t, m.Verts, 3)

	_, err = ss.Handle(Event{Type: EventPress, Button: ButtonRight})
	require.NoError(t, err)
	assert.Len(t, m.Verts, 2)

	// A ray parallel to the plane is ignored.
	_, err = ss.Handle(Event{Type: EventPress, Button: ButtonLeft, Ray: scene.NewRay(vec(0, 0, 1), vec(1, 0, 0))})
	require.NoError(t, err)
	assert.Len(t, m.Verts, 2)

	state, err := ss.Handle(Event{Type: EventPress, Key: KeyEscape})
	require.NoError(t, err)
	assert.Equal(t, Cancelled, state)
	assert.Empty(t, s.Objects)

	_, err = ss.Handle(Event{Type: EventPress, Key: KeyEnter})
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestShiftClickStartsNewSection(t *testing.T) {
	s := scene.New()
	ss, err := Start(s, groundOptions(), View{})
	require.NoError(t, err)
	for _, p := range [][2]float32{{0, 0}, {1, 0}, {0, 1}} {
		_, err = ss.Handle(Event{Type: EventPress, Button: ButtonLeft, Ray: down(p[0], p[1])})
		require.NoError(t, err)
	}
	_, err = ss.Handle(Event{Type: EventPress, Button: ButtonLeft, Shift: true, Ray: down(5, 5)})
	require.NoError(t, err)

	m := ss.Object().Mesh
	assert.Len(t, m.Faces, 1)
	assert.Len(t, ss.Verts(), 1)

	state, err := ss.Handle(Event{Type: EventPress, Key: KeySpace})
	require.NoError(t, err)
	assert.Equal(t, Finished, state)
}
