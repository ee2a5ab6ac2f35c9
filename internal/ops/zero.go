package ops

import (
	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
	"github.com/Faultbox/meshops/pkg/scene"
)

type moveToZeroParams struct {
	X bool `yaml:"x"`
	Y bool `yaml:"y"`
	Z bool `yaml:"z"`
}

func (p moveToZeroParams) mask(v math.Vec3) math.Vec3 {
	if !p.X {
		v.X = 0
	}
	if !p.Y {
		v.Y = 0
	}
	if !p.Z {
		v.Z = 0
	}
	return v
}

func moveToZero() OperatorSpec {
	return OperatorSpec{
		ID:          "move_to_zero",
		Label:       "Move to Zero",
		Description: "Move the selection, or the active object, to the world origin on the chosen axes.",
		Poll:        pollObject,
		Execute:     executeMoveToZero,
	}
}

func executeMoveToZero(ctx *Context, params Params) (Result, error) {
	p := moveToZeroParams{X: true, Y: true, Z: true}
	if err := params.Decode(&p); err != nil {
		return Result{}, err
	}
	s := ctx.Scene
	obj, err := s.ActiveObject()
	if err != nil {
		return Result{}, err
	}
	if !pollEditMesh(ctx) {
		obj.Location = obj.Location.Sub(p.mask(obj.Location))
		return Finished(""), nil
	}

	// The centre is taken over every mesh in edit mode.
	var (
		sum   math.Vec3
		count int
	)
	editing := s.EditedMeshes()
	for _, o := range editing {
		world := o.World()
		for _, v := range o.Mesh.SelectedVerts(false) {
			sum = sum.Add(world.TransformVec3(o.Mesh.Verts[v].Co))
			count++
		}
	}
	if count == 0 {
		return Cancelled("Nothing selected"), nil
	}
	offset := p.mask(sum.Scale(-1 / float32(count)))
	for _, o := range editing {
		if err := o.Mesh.TranslateVerts(o.Mesh.SelectedVerts(false), offset, o.World()); err != nil {
			return Result{}, err
		}
	}
	return Finished(""), nil
}

type scaleToZeroParams struct {
	Axis math.Axis `yaml:"axis"`
}

func scaleToZero() OperatorSpec {
	return OperatorSpec{
		ID:          "scale_to_zero",
		Label:       "Scale to Zero",
		Description: "Flatten the selection along an axis around the transform pivot.",
		Poll:        pollEditMesh,
		Execute:     executeScaleToZero,
	}
}

func executeScaleToZero(ctx *Context, params Params) (Result, error) {
	p := scaleToZeroParams{Axis: math.AxisX}
	if err := params.Decode(&p); err != nil {
		return Result{}, err
	}
	obj, m, err := editTarget(ctx)
	if err != nil {
		return Result{}, err
	}
	verts := m.SelectedVerts(false)
	if len(verts) == 0 {
		return Cancelled("Nothing selected"), nil
	}
	world := obj.World()
	pivot, err := transformPivot(ctx.Scene, obj, verts)
	if err != nil {
		return Result{}, err
	}
	factor := math.Vec3{X: 1, Y: 1, Z: 1}.WithComponent(p.Axis, 0)
	if err := m.ScaleVerts(verts, factor, &pivot, world); err != nil {
		return Result{}, err
	}
	return Finished(""), nil
}

// transformPivot resolves the scene's pivot point setting for a vertex set.
func transformPivot(s *scene.Scene, obj *scene.Object, verts []int) (math.Vec3, error) {
	m := obj.Mesh
	world := obj.World()
	switch s.Tools.PivotPoint {
	case scene.PivotCursor:
		return s.Cursor.Location, nil
	case scene.PivotIndividualOrigins:
		return obj.Location, nil
	case scene.PivotActiveElement:
		if ref, ok := m.Active(); ok {
			return m.AverageLocation([]mesh.ElementRef{ref}, world)
		}
	case scene.PivotBoundingBoxCenter:
		lo, hi, err := m.Bounds(verts)
		if err != nil {
			return math.Vec3{}, err
		}
		return world.TransformVec3(lo.Lerp(hi, 0.5)), nil
	}
	return m.AverageLocation(mesh.Verts(verts...), world)
}

type rotateToZeroParams struct {
	Axis math.Axis `yaml:"axis"`
	Flip bool      `yaml:"flip"`
	Spin float32   `yaml:"spin"`
}

func rotateToZero() OperatorSpec {
	return OperatorSpec{
		ID:          "rotate_to_zero",
		Label:       "Rotate to Zero",
		Description: "Rotate the island so the selected faces point along an axis.",
		Poll:        pollMode(mesh.ModeFace),
		Execute:     executeRotateToZero,
	}
}

func executeRotateToZero(ctx *Context, params Params) (Result, error) {
	p := rotateToZeroParams{Axis: math.AxisX}
	if err := params.Decode(&p); err != nil {
		return Result{}, err
	}
	obj, m, err := editTarget(ctx)
	if err != nil {
		return Result{}, err
	}
	faces := m.SelectedFaces(false)
	if len(faces) == 0 {
		return Finished(""), nil
	}
	world := obj.World()
	normal, ok, err := m.AverageNormal(mesh.Faces(faces...), world)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Cancelled("Selected faces have no common direction"), nil
	}

	target := p.Axis.Unit()
	if normal.Dot(target) < normal.Dot(target.Neg()) {
		target = target.Neg()
	}
	if p.Flip {
		target = target.Neg()
	}

	verts := m.SelectedVerts(false)
	center, err := m.AverageLocation(mesh.Verts(verts...), world)
	if err != nil {
		return Result{}, err
	}
	island, err := m.Island(verts)
	if err != nil {
		return Result{}, err
	}
	if err := m.RotateVerts(island, math.RotationDifference(normal, target), &center, world); err != nil {
		return Result{}, err
	}
	if p.Spin != 0 {
		spin := math.AxisAngle{Axis: target, Angle: radians(p.Spin)}
		if err := m.RotateVerts(island, spin, &center, world); err != nil {
			return Result{}, err
		}
	}
	if err := setMode(ctx, mesh.ModeFace); err != nil {
		return Result{}, err
	}
	return Finished(""), nil
}
