package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshops/internal/ops"
	"github.com/Faultbox/meshops/internal/viewer/camera"
	"github.com/Faultbox/meshops/internal/viewer/event"
	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
	"github.com/Faultbox/meshops/pkg/scene"
)

const (
	viewW = 800
	viewH = 600
)

// newEditor returns an editor looking almost straight down at the scene.
func newEditor(t *testing.T, s *scene.Scene, path string) *Editor {
	t.Helper()
	cam := camera.NewOrbitCamera(45)
	cam.Pitch, cam.Yaw = 1.5, 0
	e := New(ops.NewContext(s), ops.Default(), event.DefaultKeymap(), cam, path)
	e.SetViewport(viewW, viewH)
	return e
}

func planeScene() (*scene.Scene, *scene.Object) {
	s := scene.New()
	obj := s.AddObject("Plane", mesh.Plane(2))
	s.Select(obj, true)
	s.SetActive(obj)
	return s, obj
}

func key(name string, mod event.Mod) event.Event {
	return event.Event{Type: event.KeyDown, Key: name, Mod: mod}
}

func click(x, y int, mod event.Mod) event.Event {
	return event.Event{Type: event.MouseDown, Button: event.ButtonLeft, MouseX: x, MouseY: y, Mod: mod}
}

func release(x, y int) event.Event {
	return event.Event{Type: event.MouseUp, Button: event.ButtonLeft, MouseX: x, MouseY: y}
}

// screenOf projects a world point to viewport pixels.
func screenOf(e *Editor, p math.Vec3) (int, int) {
	clip := e.ViewProjection().MulVec4(math.Vec4{p.X, p.Y, p.Z, 1})
	ndcX, ndcY := clip[0]/clip[3], clip[1]/clip[3]
	return int((ndcX + 1) / 2 * viewW), int((1 - ndcY) / 2 * viewH)
}

func TestToggleEditMode(t *testing.T) {
	s, _ := planeScene()
	e := newEditor(t, s, "")

	require.NoError(t, e.Handle(key("Tab", 0)))
	assert.Equal(t, mesh.ModeVertex, s.SelectionMode())

	require.NoError(t, e.Handle(key("3", 0)))
	assert.Equal(t, mesh.ModeFace, s.SelectionMode())

	require.NoError(t, e.Handle(key("Tab", 0)))
	assert.Equal(t, mesh.ModeObject, s.SelectionMode())
}

func TestMenus(t *testing.T) {
	s, _ := planeScene()
	e := newEditor(t, s, "")

	require.NoError(t, e.Handle(key("M", 0)))
	require.NotNil(t, e.Menu())
	assert.Contains(t, e.Title(), "Quick Mirror: 1 X 2 Y 3 Z")

	// Keys that are not items close the menu.
	require.NoError(t, e.Handle(key("9", 0)))
	assert.Nil(t, e.Menu())

	// Quick mirror cannot run in object mode.
	require.NoError(t, e.Handle(key("M", 0)))
	err := e.Handle(key("1", 0))
	assert.ErrorIs(t, err, ops.ErrPollFailed)
	assert.Nil(t, e.Menu())
	assert.NotEmpty(t, e.Status())

	// Submenus open from their parent.
	require.NoError(t, e.Handle(key("D", event.ModShift)))
	require.NoError(t, e.Handle(key("2", 0)))
	require.NotNil(t, e.Menu())
	assert.Equal(t, "quick_mirror", e.Menu().ID)
}

func TestMenuRunsOperator(t *testing.T) {
	s, obj := planeScene()
	obj.Location = math.Vec3{X: 1, Y: 2, Z: 3}
	e := newEditor(t, s, "")

	require.NoError(t, e.Handle(key("G", event.ModAlt)))
	require.NoError(t, e.Handle(key("1", 0)))
	assert.Equal(t, math.Vec3{}, obj.Location)
	assert.Nil(t, e.Menu())
}

func TestClickSelectObject(t *testing.T) {
	s, obj := planeScene()
	e := newEditor(t, s, "")

	require.NoError(t, e.Handle(click(0, 0, 0)))
	assert.Empty(t, s.Selected())

	require.NoError(t, e.Handle(click(viewW/2, viewH/2, 0)))
	assert.True(t, s.IsSelected(obj))
	assert.Equal(t, obj, s.Active())

	// Shift-click on the active object deselects it.
	require.NoError(t, e.Handle(click(viewW/2, viewH/2, event.ModShift)))
	assert.False(t, s.IsSelected(obj))
}

func TestClickSelectVertex(t *testing.T) {
	s, obj := planeScene()
	e := newEditor(t, s, "")
	require.NoError(t, e.Handle(key("Tab", 0)))

	x, y := screenOf(e, math.Vec3{X: 0.9, Y: 0.9})
	require.NoError(t, e.Handle(click(x, y, 0)))
	assert.Equal(t, []int{3}, obj.Mesh.SelectedVerts(false))
	active, ok := obj.Mesh.Active()
	require.True(t, ok)
	assert.Equal(t, mesh.ElementRef{Kind: mesh.KindVertex, Index: 3}, active)

	x, y = screenOf(e, math.Vec3{X: -0.9, Y: -0.9})
	require.NoError(t, e.Handle(click(x, y, event.ModShift)))
	assert.Equal(t, []int{0, 3}, obj.Mesh.SelectedVerts(false))

	require.NoError(t, e.Handle(key("3", 0)))
	require.NoError(t, e.Handle(click(viewW/2, viewH/2, 0)))
	assert.Equal(t, []int{0}, obj.Mesh.SelectedFaces(false))
}

func TestDrawPolygon(t *testing.T) {
	s := scene.New()
	e := newEditor(t, s, "")

	require.NoError(t, e.Handle(key("P", 0)))
	require.True(t, e.Drawing())

	for _, p := range [][2]int{{400, 300}, {500, 300}, {500, 200}} {
		require.NoError(t, e.Handle(click(p[0], p[1], 0)))
		require.NoError(t, e.Handle(release(p[0], p[1])))
	}
	assert.Contains(t, e.Title(), "3 points")

	require.NoError(t, e.Handle(key("Return", 0)))
	assert.False(t, e.Drawing())

	require.Len(t, s.Objects, 1)
	m := s.Objects[0].Mesh
	assert.Len(t, m.Verts, 3)
	require.Len(t, m.Faces, 1)
	for _, v := range m.Verts {
		assert.InDelta(t, 0, v.Co.Z, 1e-3)
	}
}

func TestDrawPolygonCancel(t *testing.T) {
	s := scene.New()
	e := newEditor(t, s, "")

	require.NoError(t, e.Handle(key("P", 0)))
	require.NoError(t, e.Handle(click(400, 300, 0)))
	require.NoError(t, e.Handle(click(500, 300, 0)))
	require.NoError(t, e.Handle(key("Escape", 0)))

	assert.False(t, e.Drawing())
	assert.Empty(t, s.Objects)
	assert.Equal(t, mesh.ModeObject, s.SelectionMode())
	assert.Contains(t, e.Status(), "cancelled")
}

func TestCameraEvents(t *testing.T) {
	s, _ := planeScene()
	e := newEditor(t, s, "")
	cam := e.camera

	dist := cam.Distance
	require.NoError(t, e.Handle(event.Event{Type: event.MouseWheel, Wheel: 1}))
	assert.Less(t, cam.Distance, dist)

	yaw := cam.Yaw
	require.NoError(t, e.Handle(event.Event{Type: event.MouseDown, Button: event.ButtonMiddle}))
	require.NoError(t, e.Handle(event.Event{Type: event.MouseMove, RelX: 50}))
	require.NoError(t, e.Handle(event.Event{Type: event.MouseUp, Button: event.ButtonMiddle}))
	assert.NotEqual(t, yaw, cam.Yaw)

	yaw = cam.Yaw
	require.NoError(t, e.Handle(event.Event{Type: event.MouseMove, RelX: 50}))
	assert.Equal(t, yaw, cam.Yaw)

	focus := cam.Focus
	require.NoError(t, e.Handle(event.Event{Type: event.MouseDown, Button: event.ButtonMiddle, Mod: event.ModShift}))
	require.NoError(t, e.Handle(event.Event{Type: event.MouseMove, RelX: 50}))
	assert.NotEqual(t, focus, cam.Focus)
}

func TestSaveAndQuit(t *testing.T) {
	s, _ := planeScene()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	e := newEditor(t, s, path)

	require.NoError(t, e.Handle(key("S", event.ModCtrl)))
	_, err := os.Stat(path)
	require.NoError(t, err)
	loaded, err := scene.Load(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Objects, 1)
	assert.Contains(t, e.Title(), "Saved")

	require.NoError(t, e.Handle(key("Q", event.ModCtrl)))
	assert.True(t, e.Quit())
}

func TestBuffersTrackChanges(t *testing.T) {
	s, _ := planeScene()
	e := newEditor(t, s, "")

	b, changed := e.Buffers()
	assert.True(t, changed)
	assert.Positive(t, b.LineCount())

	_, changed = e.Buffers()
	assert.False(t, changed)

	require.NoError(t, e.Handle(key("Tab", 0)))
	b, changed = e.Buffers()
	assert.True(t, changed)
	assert.Equal(t, 4, b.PointCount())
}
