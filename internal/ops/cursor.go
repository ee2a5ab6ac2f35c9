package ops

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
	"github.com/Faultbox/meshops/pkg/scene"
)

// Targets for set_cursor and set_pivot.
const (
	TargetOrigin    = "ORIGIN"
	TargetPivot     = "PIVOT"
	TargetCursor    = "CURSOR"
	TargetSelection = "SELECTION"
	TargetActive    = "ACTIVE"
	TargetBBCenter  = "BB_CENTER"
	TargetBBBottom  = "BB_BOTTOM"
	TargetBBTop     = "BB_TOP"
	TargetBBFront   = "BB_FRONT"
	TargetBBBack    = "BB_BACK"
	TargetBBLeft    = "BB_LEFT"
	TargetBBRight   = "BB_RIGHT"
)

var up = math.Vec3{Z: 1}

// selectedElements returns the selected elements for the selection mode. Mixed
// masks resolve to their primary mode.
func selectedElements(m *mesh.Mesh, mask mesh.SelectMask) []mesh.ElementRef {
	mode, ok := mask.Primary()
	if !ok {
		return nil
	}
	kind, _ := mode.Kind()
	var out []mesh.ElementRef
	for _, i := range m.Selected(kind, false) {
		out = append(out, mesh.ElementRef{Kind: kind, Index: i})
	}
	return out
}

// alignZ returns the rotation that turns +Z onto n.
func alignZ(n math.Vec3) math.Euler {
	return math.RotationDifference(up, n).ToEuler()
}

// selectedMeshes returns the selected mesh objects, or the active one when
// nothing is selected.
func selectedMeshes(s *scene.Scene) []*scene.Object {
	var out []*scene.Object
	for _, o := range s.Selected() {
		if o.IsMesh() {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		if a := s.Active(); a != nil && a.IsMesh() {
			out = append(out, a)
		}
	}
	return out
}

func selectedObjects(s *scene.Scene) []*scene.Object {
	objs := s.Selected()
	if len(objs) == 0 && s.Active() != nil {
		objs = []*scene.Object{s.Active()}
	}
	return objs
}

func averageTransform(objs []*scene.Object) (math.Vec3, math.Euler) {
	var loc, rot math.Vec3
	for _, o := range objs {
		loc = loc.Add(o.Location)
		rot = rot.Add(o.Rotation.Vec3())
	}
	k := 1 / float32(len(objs))
	rot = rot.Scale(k)
	return loc.Scale(k), math.Euler{X: rot.X, Y: rot.Y, Z: rot.Z}
}

type setCursorParams struct {
	Target string `yaml:"target"`
}

func setCursor() OperatorSpec {
	return OperatorSpec{
		ID:          "set_cursor",
		Label:       "Set Cursor",
		Description: "Snap the 3D cursor to the origin, the active object, the selection or the active element.",
		Poll:        pollSelected,
		Execute:     executeSetCursor,
	}
}

func executeSetCursor(ctx *Context, params Params) (Result, error) {
	p := setCursorParams{Target: TargetOrigin}
	if err := params.Decode(&p); err != nil {
		return Result{}, err
	}
	if err := oneOf("target", p.Target, TargetOrigin, TargetPivot, TargetSelection, TargetActive); err != nil {
		return Result{}, err
	}
	s := ctx.Scene
	cursor := &s.Cursor
	objs := selectedObjects(s)
	if len(objs) == 0 {
		return Cancelled("Nothing selected"), nil
	}
	active := s.Active()
	if active == nil {
		active = objs[0]
	}

	switch {
	case p.Target == TargetOrigin:
		*cursor = scene.Cursor{}
		return Finished(""), nil
	case p.Target == TargetPivot:
		cursor.Location, cursor.Rotation = active.Location, active.Rotation
		return Finished(""), nil
	case s.SelectionMode() == mesh.ModeObject:
		if p.Target == TargetActive {
			cursor.Location, cursor.Rotation = active.Location, active.Rotation
		} else {
			cursor.Location, cursor.Rotation = averageTransform(objs)
		}
		return Finished(""), nil
	}

	if p.Target == TargetActive {
		if !active.IsMesh() {
			return Cancelled("Active object has no mesh"), nil
		}
		ref, ok := active.Mesh.Active()
		if !ok {
			return Cancelled("No active element"), nil
		}
		world := active.World()
		elems := []mesh.ElementRef{ref}
		loc, err := active.Mesh.AverageLocation(elems, world)
		if err != nil {
			return Result{}, err
		}
		cursor.Location = loc
		if n, ok, err := active.Mesh.AverageNormal(elems, world); err != nil {
			return Result{}, err
		} else if ok {
			cursor.Rotation = alignZ(n)
		}
		return Finished(""), nil
	}

	var (
		loc, normal math.Vec3
		count       int
	)
	for _, o := range s.EditedMeshes() {
		elems := selectedElements(o.Mesh, s.Tools.SelectMask)
		if len(elems) == 0 {
			continue
		}
		world := o.World()
		l, err := o.Mesh.AverageLocation(elems, world)
		if err != nil {
			return Result{}, err
		}
		n, _, err := o.Mesh.AverageNormal(elems, world)
		if err != nil {
			return Result{}, err
		}
		loc = loc.Add(l)
		normal = normal.Add(n)
		count++
	}
	if count == 0 {
		return Cancelled("Nothing selected"), nil
	}
	cursor.Location = loc.Scale(1 / float32(count))
	if normal.Length() > 1e-6 {
		cursor.Rotation = alignZ(normal.Normalize())
	} else {
		cursor.Rotation = math.Euler{}
	}
	return Finished(""), nil
}

type setPivotParams struct {
	Target string `yaml:"target"`
	Orient bool   `yaml:"orient"`
}

func setPivot() OperatorSpec {
	return OperatorSpec{
		ID:          "set_pivot",
		Label:       "Set Pivot",
		Description: "Move the origin of the selected objects without moving their geometry.",
		Poll: func(ctx *Context) bool {
			return ctx.Scene != nil && len(selectedMeshes(ctx.Scene)) > 0
		},
		Execute: executeSetPivot,
	}
}

// originMover moves object origins while keeping the geometry in place.
// Linked duplicates share one mesh: the first selected user decides the new
// origin, the mesh is offset once and the other users move along so none of
// them changes in world space.
type originMover struct {
	s    *scene.Scene
	done map[*mesh.Mesh]bool
}

func newOriginMover(s *scene.Scene) *originMover {
	return &originMover{s: s, done: make(map[*mesh.Mesh]bool)}
}

// set moves the origin of obj to loc, and optionally rotates it to rot.
// Rotating the origin of shared mesh data is refused with errSharedMesh.
func (om *originMover) set(obj *scene.Object, loc math.Vec3, rot *math.Euler) error {
	if om.done[obj.Mesh] {
		return nil
	}
	users := om.s.Users(obj.Mesh)
	if rot != nil && len(users) > 1 {
		return errSharedMesh
	}
	before := obj.World()
	if before.Det() == 0 {
		return fmt.Errorf("object %q: %w", obj.Name, mesh.ErrSingularTransform)
	}
	// The new origin in the old local space of obj.
	shift := before.Inverse().TransformVec3(loc)

	obj.Location = loc
	if rot != nil {
		obj.Rotation = *rot
	}
	fix := obj.World().Inverse().Mul(before)
	for i := range obj.Mesh.Verts {
		obj.Mesh.Verts[i].Co = fix.TransformVec3(obj.Mesh.Verts[i].Co)
	}
	for _, u := range users {
		if u != obj {
			u.Location = u.World().TransformVec3(shift)
		}
	}
	om.done[obj.Mesh] = true
	return nil
}

// errSharedMesh cancels an origin rotation on mesh data used by several
// objects.
var errSharedMesh = errors.New("cannot rotate the origin of mesh data shared by several objects")

func executeSetPivot(ctx *Context, params Params) (Result, error) {
	p := setPivotParams{Target: TargetActive}
	if err := params.Decode(&p); err != nil {
		return Result{}, err
	}
	if err := oneOf("target", p.Target, TargetOrigin, TargetCursor, TargetSelection, TargetActive,
		TargetBBCenter, TargetBBBottom, TargetBBTop, TargetBBFront, TargetBBBack, TargetBBLeft, TargetBBRight); err != nil {
		return Result{}, err
	}
	s := ctx.Scene
	objs := selectedMeshes(s)
	objectMode := s.SelectionMode() == mesh.ModeObject

	om := newOriginMover(s)
	apply := func(loc math.Vec3, rot *math.Euler) (Result, error) {
		for _, o := range objs {
			if err := om.set(o, loc, rot); err != nil {
				return originResult(err)
			}
		}
		return Finished(""), nil
	}
	var rot *math.Euler
	switch {
	case p.Target == TargetOrigin:
		if p.Orient {
			rot = &math.Euler{}
		}
		return apply(math.Vec3{}, rot)
	case p.Target == TargetCursor:
		if p.Orient {
			rot = &s.Cursor.Rotation
		}
		return apply(s.Cursor.Location, rot)
	case objectMode && p.Target == TargetActive:
		active := s.Active()
		if active == nil {
			return Cancelled("No active object"), nil
		}
		if p.Orient {
			r := active.Rotation
			rot = &r
		}
		return apply(active.Location, rot)
	case objectMode && p.Target == TargetSelection:
		loc, r := averageTransform(objs)
		if p.Orient {
			rot = &r
		}
		return apply(loc, rot)
	}

	moved := 0
	for _, o := range objs {
		loc, normal, ok, err := pivotTarget(s, o, p.Target, objectMode)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			continue
		}
		var r *math.Euler
		if p.Orient && normal.Length() > 1e-6 {
			e := alignZ(normal.Normalize())
			r = &e
		}
		if err := om.set(o, loc, r); err != nil {
			return originResult(err)
		}
		moved++
	}
	if moved == 0 {
		return Cancelled("Nothing to set the pivot to"), nil
	}
	return Finished(""), nil
}

func originResult(err error) (Result, error) {
	if errors.Is(err, errSharedMesh) {
		return Cancelled("%s", err.Error()), nil
	}
	return Result{}, err
}

// pivotTarget resolves per-object targets: the active element, the selection
// or a bounding box point, all in world space.
func pivotTarget(s *scene.Scene, o *scene.Object, target string, objectMode bool) (loc, normal math.Vec3, ok bool, err error) {
	m := o.Mesh
	world := o.World()
	var elems []mesh.ElementRef
	switch target {
	case TargetActive:
		ref, found := m.Active()
		if !found {
			return loc, normal, false, nil
		}
		elems = []mesh.ElementRef{ref}
	case TargetSelection:
		elems = selectedElements(m, s.Tools.SelectMask)
		if objectMode || len(elems) == 0 {
			return loc, normal, false, nil
		}
	default:
		if len(m.Verts) == 0 {
			return loc, normal, false, nil
		}
		box := scene.NewAABB(world.TransformVec3(m.Verts[0].Co), world.TransformVec3(m.Verts[0].Co))
		for _, v := range m.Verts {
			box = box.Extend(world.TransformVec3(v.Co))
		}
		loc = box.Center()
		switch target {
		case TargetBBBottom:
			loc.Z = box.Min.Z
		case TargetBBTop:
			loc.Z = box.Max.Z
		case TargetBBFront:
			loc.Y = box.Min.Y
		case TargetBBBack:
			loc.Y = box.Max.Y
		case TargetBBLeft:
			loc.X = box.Min.X
		case TargetBBRight:
			loc.X = box.Max.X
		}
		return loc, normal, true, nil
	}
	if loc, err = m.AverageLocation(elems, world); err != nil {
		return loc, normal, false, err
	}
	normal, _, err = m.AverageNormal(elems, world)
	return loc, normal, err == nil, err
}

// actionCenters maps presets to pivot point, orientation and snap target.
var actionCenters = map[string][3]string{
	"GLOBAL":            {scene.PivotBoundingBoxCenter, scene.OrientationGlobal, scene.SnapTargetCenter},
	"OBJECT":            {scene.PivotBoundingBoxCenter, scene.OrientationLocal, scene.SnapTargetCenter},
	"SCREEN":            {scene.PivotBoundingBoxCenter, scene.OrientationView, scene.SnapTargetCenter},
	"ACTIVE_CENTER":     {scene.PivotActiveElement, scene.OrientationGlobal, scene.SnapTargetActive},
	"NORMAL_SELECTION":  {scene.PivotBoundingBoxCenter, scene.OrientationNormal, scene.SnapTargetCenter},
	"NORMAL_ACTIVE":     {scene.PivotActiveElement, scene.OrientationNormal, scene.SnapTargetActive},
	"NORMAL_INDIVIDUAL": {scene.PivotIndividualOrigins, scene.OrientationNormal, scene.SnapTargetCenter},
	"CURSOR":            {scene.PivotCursor, scene.OrientationCursor, scene.SnapTargetCenter},
}

// ActionCenters lists the action center presets in menu order.
var ActionCenters = []string{
	"GLOBAL", "OBJECT", "SCREEN", "ACTIVE_CENTER",
	"NORMAL_SELECTION", "NORMAL_ACTIVE", "NORMAL_INDIVIDUAL", "CURSOR",
}

type actionCenterParams struct {
	ActionCenter string `yaml:"action_center"`
}

func setActionCenter() OperatorSpec {
	return OperatorSpec{
		ID:          "set_action_center",
		Label:       "Set Tool Center and Orientation",
		Description: "Set the transform pivot, orientation and snap target from a preset.",
		Poll:        func(ctx *Context) bool { return ctx.Scene != nil },
		Execute: func(ctx *Context, params Params) (Result, error) {
			p := actionCenterParams{ActionCenter: "GLOBAL"}
			if err := params.Decode(&p); err != nil {
				return Result{}, err
			}
			preset, ok := actionCenters[strings.ToUpper(p.ActionCenter)]
			if !ok {
				return Result{}, fmt.Errorf("unknown action center %q", p.ActionCenter)
			}
			tools := &ctx.Scene.Tools
			tools.PivotPoint, tools.Orientation, tools.SnapTarget = preset[0], preset[1], preset[2]
			return Finished(""), nil
		},
	}
}

type selectionModeParams struct {
	SelectionMode mesh.SelectMode `yaml:"selection_mode"`
	Mask          *mesh.SelectMask `yaml:"mask"`
}

func setSelectionMode() OperatorSpec {
	return OperatorSpec{
		ID:          "set_selection_mode",
		Label:       "Set Mesh Selection Mode",
		Description: "Switch between object mode and vertex, edge or face selection.",
		Poll:        pollActiveMesh,
		Execute: func(ctx *Context, params Params) (Result, error) {
			p := selectionModeParams{SelectionMode: mesh.ModeObject}
			if err := params.Decode(&p); err != nil {
				return Result{}, err
			}
			var mask mesh.SelectMask
			if p.SelectionMode == mesh.ModeMixed {
				if p.Mask == nil {
					return Result{}, fmt.Errorf("selection mode MIXED needs a mask")
				}
				mask = *p.Mask
			}
			if err := ctx.Scene.SetSelectionMode(p.SelectionMode, mask); err != nil {
				return Result{}, err
			}
			return Finished(""), nil
		},
	}
}
