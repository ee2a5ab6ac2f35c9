package ops

import (
	"fmt"

	"github.com/chewxy/math32"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
	"github.com/Faultbox/meshops/pkg/scene"
)

type radialParams struct {
	Pivot string    `yaml:"pivot"`
	Axis  math.Axis `yaml:"axis"`
	Count int       `yaml:"count"`
}

func radialArray() OperatorSpec {
	return OperatorSpec{
		ID:          "radial_array",
		Label:       "Radial Array",
		Description: "Duplicate the selected faces around an axis through the pivot.",
		Poll:        pollMode(mesh.ModeFace),
		Execute:     executeRadialArray,
	}
}

func executeRadialArray(ctx *Context, params Params) (Result, error) {
	p := radialParams{Pivot: PivotOrigin, Axis: math.AxisZ, Count: ctx.Tools.RadialCount}
	if err := params.Decode(&p); err != nil {
		return Result{}, err
	}
	obj, m, err := editTarget(ctx)
	if err != nil {
		return Result{}, err
	}
	pivot, err := pivotLocation(ctx, obj, p.Pivot)
	if err != nil {
		return Result{}, err
	}
	if p.Count <= 1 {
		return Finished(""), nil
	}

	world := obj.World()
	step := 2 * math32.Pi / float32(p.Count)
	selected := m.SelectedVerts(false)
	for i := 1; i < p.Count; i++ {
		dup, err := m.Duplicate(selected, false)
		if err != nil {
			return Result{}, err
		}
		rot := math.AxisAngle{Axis: p.Axis.Unit(), Angle: step * float32(i)}
		if err := m.RotateVerts(dup.Verts, rot, &pivot, world); err != nil {
			return Result{}, err
		}
	}
	if err := setMode(ctx, mesh.ModeFace); err != nil {
		return Result{}, err
	}
	ctx.Log.Debug("radial array", zap.Int("count", p.Count), zap.Int("verts", len(selected)))
	return Finished(""), nil
}

type linearParams struct {
	Count   [3]int     `yaml:"count,flow"`
	Offset  [3]float32 `yaml:"offset,flow"`
	Between bool       `yaml:"between"`
	Islands bool       `yaml:"islands"`
	Linked  bool       `yaml:"linked"`
}

func linearArray() OperatorSpec {
	return OperatorSpec{
		ID:          "linear_array",
		Label:       "Linear Array",
		Description: "Create a line or grid of copies of the selection.",
		Poll:        pollActiveMesh,
		Execute:     executeLinearArray,
	}
}

func pollActiveMesh(ctx *Context) bool {
	return pollObject(ctx) && ctx.Scene.Active().IsMesh()
}

func executeLinearArray(ctx *Context, params Params) (Result, error) {
	p := linearParams{Count: [3]int{1, 1, 1}}
	if err := params.Decode(&p); err != nil {
		return Result{}, err
	}
	var step [3]float32
	for axis := range step {
		if p.Count[axis] < 1 {
			return Result{}, fmt.Errorf("count must be at least 1, got %d", p.Count[axis])
		}
		step[axis] = p.Offset[axis]
		if p.Between && p.Count[axis] > 1 {
			step[axis] = p.Offset[axis] / float32(p.Count[axis]-1)
		}
	}

	s := ctx.Scene
	obj, err := s.ActiveMesh()
	if err != nil {
		return Result{}, err
	}

	if s.SelectionMode() == mesh.ModeObject {
		objs := []*scene.Object{obj}
		for axis, d := range step {
			if d == 0 {
				continue
			}
			var added []*scene.Object
			for i := 1; i < p.Count[axis]; i++ {
				shift := math.Vec3{}.WithComponent(math.Axis(axis), d*float32(i))
				for _, o := range objs {
					dup := s.Duplicate(o, p.Linked)
					dup.Location = dup.Location.Add(shift)
					added = append(added, dup)
				}
			}
			objs = append(objs, added...)
		}
		for _, o := range objs {
			s.Select(o, true)
		}
		ctx.Log.Debug("linear array", zap.Int("objects", len(objs)))
		return Finished(""), nil
	}

	m := obj.Mesh
	verts, err := scopeVerts(m, m.SelectedVerts(false), p.Islands)
	if err != nil {
		return Result{}, err
	}
	for axis, d := range step {
		if d == 0 {
			continue
		}
		var added []int
		for i := 1; i < p.Count[axis]; i++ {
			dup, err := m.Duplicate(verts, false)
			if err != nil {
				return Result{}, err
			}
			shift := math.Vec3{}.WithComponent(math.Axis(axis), d*float32(i))
			for _, v := range dup.Verts {
				m.Verts[v].Co = m.Verts[v].Co.Add(shift)
			}
			added = append(added, dup.Verts...)
		}
		verts = append(verts, added...)
	}
	if err := m.SelectByID(mesh.KindVertex, verts, mesh.SelectOptions{Clear: true}); err != nil {
		return Result{}, err
	}
	restoreMode(ctx, m)
	ctx.Log.Debug("linear array", zap.Int("verts", len(verts)))
	return Finished(""), nil
}

type scatterParams struct {
	Count               int        `yaml:"count"`
	Offset              [3]float32 `yaml:"offset,flow"`
	AddNegativeOffset   bool       `yaml:"add_negative_offset"`
	Rotation            [3]float32 `yaml:"rotation,flow"`
	AddNegativeRotation bool       `yaml:"add_negative_rotation"`
	Seed                int64      `yaml:"seed"`
	Islands             bool       `yaml:"islands"`
	Linked              bool       `yaml:"linked"`
}

// scatter draws random offsets and rotations from the parameter ranges.
type scatter struct {
	rng                      *rand.Rand
	minOffset, maxOffset     [3]float32
	minRotation, maxRotation [3]float32
}

func newScatter(p scatterParams) *scatter {
	sc := &scatter{
		rng:         rand.New(rand.NewSource(uint64(p.Seed))),
		maxOffset:   p.Offset,
		maxRotation: p.Rotation,
	}
	for i := 0; i < 3; i++ {
		if p.AddNegativeOffset {
			sc.minOffset[i] = -p.Offset[i]
		}
		if p.AddNegativeRotation {
			sc.minRotation[i] = -p.Rotation[i]
		}
	}
	return sc
}

func (sc *scatter) uniform(lo, hi float32) float32 {
	return lo + (hi-lo)*sc.rng.Float32()
}

func (sc *scatter) next() (math.Vec3, math.Euler) {
	var offset, rotation [3]float32
	for i := 0; i < 3; i++ {
		offset[i] = sc.uniform(sc.minOffset[i], sc.maxOffset[i])
	}
	for i := 0; i < 3; i++ {
		rotation[i] = sc.uniform(sc.minRotation[i], sc.maxRotation[i])
	}
	return vec(offset), eulerDegrees(rotation)
}

func scatterDuplicate() OperatorSpec {
	return OperatorSpec{
		ID:          "scatter_duplicate",
		Label:       "Scatter Duplicate",
		Description: "Duplicate the selection with random offsets and rotations.",
		Poll:        pollActiveMesh,
		Execute:     executeScatterDuplicate,
	}
}

func executeScatterDuplicate(ctx *Context, params Params) (Result, error) {
	p := scatterParams{Count: 1, Seed: ctx.Tools.ScatterSeed, Islands: true}
	if err := params.Decode(&p); err != nil {
		return Result{}, err
	}
	s := ctx.Scene
	obj, err := s.ActiveMesh()
	if err != nil {
		return Result{}, err
	}
	sc := newScatter(p)

	if s.SelectionMode() == mesh.ModeObject {
		for i := 1; i < p.Count; i++ {
			dup := s.Duplicate(obj, p.Linked)
			offset, rotation := sc.next()
			dup.Rotation = dup.Rotation.Rotate(rotation)
			dup.Location = dup.Location.Add(offset)
			s.Select(dup, true)
		}
		return Finished(""), nil
	}

	m := obj.Mesh
	world := obj.World()
	verts, err := scopeVerts(m, m.SelectedVerts(false), p.Islands)
	if err != nil {
		return Result{}, err
	}
	if len(verts) == 0 {
		return Cancelled("No vertices selected"), nil
	}
	center, err := m.AverageLocation(mesh.Verts(verts...), world)
	if err != nil {
		return Result{}, err
	}
	all := append([]int(nil), verts...)
	for i := 1; i < p.Count; i++ {
		offset, rotation := sc.next()
		dup, err := m.Duplicate(verts, false)
		if err != nil {
			return Result{}, err
		}
		if err := m.RotateVerts(dup.Verts, rotation, &center, world); err != nil {
			return Result{}, err
		}
		if err := m.TranslateVerts(dup.Verts, offset, world); err != nil {
			return Result{}, err
		}
		all = append(all, dup.Verts...)
	}
	if err := m.SelectByID(mesh.KindVertex, all, mesh.SelectOptions{Clear: true}); err != nil {
		return Result{}, err
	}
	restoreMode(ctx, m)
	ctx.Log.Debug("scatter duplicate", zap.Int("count", p.Count), zap.Int64("seed", p.Seed))
	return Finished(""), nil
}
