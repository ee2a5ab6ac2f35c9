// Package polygon implements the interactive polygon drawing session.
//
// A session places vertices on a virtual plane: each left click adds a vertex
// connected to the previous one, with a closing edge back to the first vertex
// once there are three. Finishing turns the outline into a face. Cancelling
// removes what the current outline created and restores the selection the
// session started from.
package polygon

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshops/internal/logger"
	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
	"github.com/Faultbox/meshops/pkg/scene"
)

// ErrNotRunning is returned when events arrive after the session ended.
var ErrNotRunning = errors.New("polygon session is not running")

// Where the drawing plane passes through.
const (
	PivotOrigin = "ORIGIN"
	PivotObject = "PIVOT"
	PivotCursor = "CURSOR"
	PivotFocal  = "FOCAL"
	PivotActive = "ACTIVE"
)

// What the drawing plane is aligned to.
const (
	AlignScreen = "SCREEN"
	AlignAuto   = "AUTO"
	AlignCursor = "CURSOR"
	AlignSet    = "SET"
	AlignActive = "ACTIVE"
)

// TempObjectName names the object created when drawing starts in object mode.
const TempObjectName = "make_polygon"

// Options configure the drawing plane.
type Options struct {
	Pivot string `yaml:"pivot"`
	Align string `yaml:"align"`
	// Axis is XY, XZ or YZ and is used with AlignSet.
	Axis string `yaml:"axis"`
}

// DefaultOptions draws on the world plane facing the view, through the focal point.
func DefaultOptions() Options {
	return Options{Pivot: PivotFocal, Align: AlignAuto, Axis: "XY"}
}

// View is the viewer camera the plane is derived from.
type View struct {
	// Focus is the point the camera orbits.
	Focus math.Vec3
	// Direction is the viewing direction.
	Direction math.Vec3
}

// State is the lifecycle state of a session.
type State int

const (
	Running State = iota
	Finished
	Cancelled
)

func (s State) String() string {
	switch s {
	case Finished:
		return "FINISHED"
	case Cancelled:
		return "CANCELLED"
	default:
		return "RUNNING"
	}
}

type savedSelection struct {
	obj     *scene.Object
	kind    mesh.ElementKind
	indices []int
}

// Session is one run of the polygon tool.
type Session struct {
	scene *scene.Scene
	obj   *scene.Object
	temp  bool
	opts  Options

	planePoint  math.Vec3
	planeNormal math.Vec3

	initialActive *scene.Object
	initialMode   mesh.SelectMode
	initialMask   mesh.SelectMask
	initialObjs   []*scene.Object
	saved         []savedSelection

	verts    []int
	dragging bool
	mode     mesh.SelectMode
	state    State
	log      *zap.Logger
}

// Start begins a session. In object mode a new mesh object is created to draw
// into; otherwise the active mesh is used. The selection of every selected
// mesh is saved and cleared.
func Start(s *scene.Scene, opts Options, view View) (*Session, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	ss := &Session{
		scene:         s,
		opts:          opts,
		initialActive: s.Active(),
		initialMode:   s.SelectionMode(),
		initialMask:   s.Tools.SelectMask,
		initialObjs:   s.Selected(),
		mode:          mesh.ModeVertex,
		log:           logger.Named("polygon"),
	}

	kind := mesh.KindVertex
	if k, ok := ss.initialMode.Kind(); ok {
		kind = k
	}
	for _, o := range ss.touched() {
		ss.saved = append(ss.saved, savedSelection{obj: o, kind: kind, indices: o.Mesh.Selected(kind, false)})
	}

	if ss.initialMode == mesh.ModeObject || ss.initialActive == nil || !ss.initialActive.IsMesh() {
		ss.obj = s.AddObject(TempObjectName, mesh.New())
		ss.temp = true
		s.DeselectAll()
		s.Select(ss.obj, true)
		s.SetActive(ss.obj)
	} else {
		ss.obj = ss.initialActive
	}
	if err := s.SetSelectionMode(mesh.ModeVertex, mesh.MaskOf(mesh.ModeVertex)); err != nil {
		return nil, fmt.Errorf("start polygon: %w", err)
	}
	for _, sel := range ss.saved {
		sel.obj.Mesh.DeselectAll()
	}
	ss.obj.Mesh.DeselectAll()
	ss.plane(view)

	ss.log.Debug("polygon session started",
		zap.String("object", ss.obj.Name),
		zap.Bool("temporary", ss.temp),
		zap.String("pivot", opts.Pivot),
		zap.String("align", opts.Align))
	return ss, nil
}

func (o Options) validate() error {
	switch o.Pivot {
	case PivotOrigin, PivotObject, PivotCursor, PivotFocal, PivotActive:
	default:
		return fmt.Errorf("invalid polygon pivot %q", o.Pivot)
	}
	switch o.Align {
	case AlignScreen, AlignAuto, AlignCursor, AlignSet, AlignActive:
	default:
		return fmt.Errorf("invalid polygon align %q", o.Align)
	}
	switch o.Axis {
	case "XY", "XZ", "YZ":
	default:
		return fmt.Errorf("invalid polygon axis %q", o.Axis)
	}
	return nil
}

// touched returns the mesh objects whose selection the session changes.
func (ss *Session) touched() []*scene.Object {
	var out []*scene.Object
	seen := make(map[*scene.Object]bool)
	add := func(o *scene.Object) {
		if o != nil && o.IsMesh() && !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	add(ss.initialActive)
	for _, o := range ss.initialObjs {
		add(o)
	}
	return out
}

// plane picks the drawing plane from the options and the view.
func (ss *Session) plane(view View) {
	s := ss.scene
	switch ss.opts.Pivot {
	case PivotObject:
		ss.planePoint = ss.obj.Location
	case PivotCursor:
		ss.planePoint = s.Cursor.Location
	case PivotFocal:
		ss.planePoint = view.Focus
	case PivotActive:
		if loc, _, ok := ss.activeSelection(); ok {
			ss.planePoint = loc
		}
	}

	switch ss.opts.Align {
	case AlignScreen:
		ss.planeNormal = view.Direction.Normalize()
		return
	case AlignCursor:
		ss.planeNormal = s.Cursor.Rotation.Quat().Rotate(math.Vec3{Z: 1})
		return
	case AlignActive:
		if _, n, ok := ss.activeSelection(); ok {
			ss.planeNormal = n
			return
		}
	}

	axis := "XY"
	switch ss.opts.Align {
	case AlignAuto:
		x, y, z := abs(view.Direction.X), abs(view.Direction.Y), abs(view.Direction.Z)
		if x > y {
			if x > z {
				axis = "YZ"
			}
		} else if y > z {
			axis = "XZ"
		}
	case AlignSet:
		axis = ss.opts.Axis
	}
	switch axis {
	case "XZ":
		ss.planeNormal = math.Vec3{Y: 1}
	case "YZ":
		ss.planeNormal = math.Vec3{X: 1}
	default:
		ss.planeNormal = math.Vec3{Z: 1}
	}
}

// activeSelection returns the world location and normal of the saved
// selection of the active object.
func (ss *Session) activeSelection() (loc, normal math.Vec3, ok bool) {
	for _, sel := range ss.saved {
		if sel.obj != ss.initialActive || len(sel.indices) == 0 {
			continue
		}
		elems := make([]mesh.ElementRef, len(sel.indices))
		for i, idx := range sel.indices {
			elems[i] = mesh.ElementRef{Kind: sel.kind, Index: idx}
		}
		world := sel.obj.World()
		l, err := sel.obj.Mesh.AverageLocation(elems, world)
		if err != nil {
			return loc, normal, false
		}
		n, nok, err := sel.obj.Mesh.AverageNormal(elems, world)
		if err != nil || !nok {
			n = math.Vec3{Z: 1}
		}
		return l, n, true
	}
	return loc, normal, false
}

// Locate intersects a ray with the drawing plane.
func (ss *Session) Locate(ray scene.Ray) (math.Vec3, bool) {
	return ray.IntersectPlane(ss.planePoint, ss.planeNormal)
}

// State returns the session state.
func (ss *Session) State() State {
	return ss.state
}

// Object returns the object being drawn into.
func (ss *Session) Object() *scene.Object {
	return ss.obj
}

// Verts returns the vertices of the current outline.
func (ss *Session) Verts() []int {
	return append([]int(nil), ss.verts...)
}

// AddPoint places a vertex at a world position and links it into the outline.
func (ss *Session) AddPoint(world math.Vec3) error {
	if ss.state != Running {
		return ErrNotRunning
	}
	m := ss.obj.Mesh
	if n := len(ss.verts); n > 0 {
		last := mesh.ElementRef{Kind: mesh.KindVertex, Index: ss.verts[n-1]}
		m.SetSelect(last, false)
		m.DiscardHistory(last)
	}
	v := m.AddVert(ss.obj.World().Inverse().TransformVec3(world))
	ss.verts = append(ss.verts, v)
	ref := mesh.ElementRef{Kind: mesh.KindVertex, Index: v}
	m.SetSelect(ref, true)
	if err := m.AddHistory(ref); err != nil {
		return err
	}

	n := len(ss.verts)
	if n > 1 {
		if _, err := m.AddEdge(ss.verts[n-2], v); err != nil {
			return err
		}
	}
	if n > 3 {
		if err := ss.removeEdge(ss.verts[n-2], ss.verts[0]); err != nil {
			return err
		}
	}
	if n > 2 {
		if _, err := m.AddEdge(v, ss.verts[0]); err != nil {
			return err
		}
	}
	return nil
}

// MoveLast moves the newest vertex to a world position.
func (ss *Session) MoveLast(world math.Vec3) error {
	if ss.state != Running {
		return ErrNotRunning
	}
	if len(ss.verts) == 0 {
		return nil
	}
	v := ss.verts[len(ss.verts)-1]
	ss.obj.Mesh.Verts[v].Co = ss.obj.World().Inverse().TransformVec3(world)
	return nil
}

// RemoveLast removes the newest vertex and re-closes the outline.
func (ss *Session) RemoveLast() error {
	if ss.state != Running {
		return ErrNotRunning
	}
	if len(ss.verts) == 0 {
		return nil
	}
	m := ss.obj.Mesh
	last := ss.verts[len(ss.verts)-1]
	// The newest vertex has the highest index, so removing it renumbers nothing else.
	if _, err := m.DeleteVerts([]int{last}); err != nil {
		return err
	}
	ss.verts = ss.verts[:len(ss.verts)-1]
	ss.dragging = false

	n := len(ss.verts)
	if n == 0 {
		return nil
	}
	ref := mesh.ElementRef{Kind: mesh.KindVertex, Index: ss.verts[n-1]}
	m.SetSelect(ref, true)
	if err := m.AddHistory(ref); err != nil {
		return err
	}
	if n > 2 {
		if _, err := m.AddEdge(ss.verts[n-1], ss.verts[0]); err != nil {
			return err
		}
	}
	return nil
}

func (ss *Session) removeEdge(a, b int) error {
	m := ss.obj.Mesh
	e, ok := m.FindEdge(a, b)
	if !ok {
		return nil
	}
	_, err := m.RemoveEdges([]int{e})
	return err
}

// finishSection turns the outline into a face, or selects its vertices when
// there are fewer than three, and starts a new outline.
func (ss *Session) finishSection() error {
	m := ss.obj.Mesh
	ss.mode = mesh.ModeVertex
	if len(ss.verts) > 2 {
		f, err := m.AddFace(ss.verts, 0)
		if err != nil {
			return err
		}
		if err := m.ReverseFaces([]int{f}); err != nil {
			return err
		}
		ss.mode = mesh.ModeFace
		m.SetSelect(mesh.ElementRef{Kind: mesh.KindFace, Index: f}, true)
	} else {
		for _, v := range ss.verts {
			m.SetSelect(mesh.ElementRef{Kind: mesh.KindVertex, Index: v}, true)
		}
	}
	ss.log.Debug("polygon section finished", zap.Int("verts", len(ss.verts)))
	ss.verts = nil
	ss.dragging = false
	return ss.scene.SetSelectionMode(ss.mode, mesh.MaskOf(ss.mode))
}

// NewSection finishes the current outline and keeps drawing.
func (ss *Session) NewSection() error {
	if ss.state != Running {
		return ErrNotRunning
	}
	if err := ss.finishSection(); err != nil {
		return err
	}
	ss.obj.Mesh.DeselectAll()
	return ss.scene.SetSelectionMode(mesh.ModeVertex, mesh.MaskOf(mesh.ModeVertex))
}

// Finish completes the session.
func (ss *Session) Finish() error {
	if ss.state != Running {
		return ErrNotRunning
	}
	if err := ss.finishSection(); err != nil {
		return err
	}
	ss.state = Finished
	return nil
}

// Cancel removes the current outline, restores the saved selection and
// deletes the temporary object.
func (ss *Session) Cancel() error {
	if ss.state != Running {
		return ErrNotRunning
	}
	s := ss.scene
	if len(ss.verts) > 0 {
		if _, err := ss.obj.Mesh.DeleteVerts(ss.verts); err != nil {
			return err
		}
		ss.verts = nil
	}
	for _, sel := range ss.saved {
		if err := sel.obj.Mesh.SelectByID(sel.kind, sel.indices, mesh.SelectOptions{Clear: true}); err != nil {
			return err
		}
	}
	if ss.temp {
		s.Remove(ss.obj)
	}
	for _, o := range ss.initialObjs {
		s.Select(o, true)
	}
	s.SetActive(ss.initialActive)
	ss.state = Cancelled

	if ss.initialMode == mesh.ModeObject || s.Active() == nil {
		return s.SetSelectionMode(mesh.ModeObject, mesh.SelectMask{})
	}
	return s.SetSelectionMode(ss.initialMode, ss.initialMask)
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
