package ops

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
)

type mirrorParams struct {
	Axis              math.Axis `yaml:"axis"`
	Pivot             string    `yaml:"pivot"`
	Scope             string    `yaml:"scope"`
	DeleteTarget      string    `yaml:"delete_target"`
	AutoMerge         bool      `yaml:"auto_merge"`
	AutoMergeDistance float32   `yaml:"auto_merge_distance"`
}

func (p *mirrorParams) validate() error {
	if err := oneOf("pivot", p.Pivot, PivotOrigin, PivotObject, PivotCursor); err != nil {
		return err
	}
	if err := oneOf("scope", p.Scope, ScopeSelected, ScopeIsland, ScopeAll); err != nil {
		return err
	}
	if err := oneOf("delete_target", p.DeleteTarget, ScopeNone, ScopeIsland, ScopeAll); err != nil {
		return err
	}
	if p.AutoMergeDistance < 0 {
		return fmt.Errorf("auto_merge_distance must not be negative")
	}
	return nil
}

func quickMirror() OperatorSpec {
	return OperatorSpec{
		ID:          "quick_mirror",
		Label:       "Quick Mirror",
		Description: "Mirror the selection across an axis plane, optionally deleting the far side first and welding the seam.",
		Poll:        pollEditMesh,
		Execute:     executeQuickMirror,
	}
}

func executeQuickMirror(ctx *Context, params Params) (Result, error) {
	axis, err := math.ParseAxis(ctx.Tools.MirrorAxis)
	if err != nil {
		return Result{}, err
	}
	p := mirrorParams{
		Axis:              axis,
		Pivot:             ctx.Tools.MirrorPivot,
		Scope:             ctx.Tools.MirrorScope,
		DeleteTarget:      ctx.Tools.MirrorDeleteTarget,
		AutoMerge:         true,
		AutoMergeDistance: ctx.Tools.MergeDistance,
	}
	if err := params.Decode(&p); err != nil {
		return Result{}, err
	}
	if err := p.validate(); err != nil {
		return Result{}, err
	}

	obj, m, err := editTarget(ctx)
	if err != nil {
		return Result{}, err
	}
	world := obj.World()
	inv := world.Inverse()
	cursor := ctx.Scene.Cursor.Location.Component(p.Axis)

	// offset is the signed distance of a vertex from the mirror plane.
	offset := func(co math.Vec3) float32 {
		if p.Pivot == PivotObject {
			return co.Component(p.Axis)
		}
		d := world.TransformVec3(co).Component(p.Axis)
		if p.Pivot == PivotCursor {
			d -= cursor
		}
		return d
	}

	selected := m.SelectedVerts(false)
	if len(selected) == 0 {
		return Cancelled("No vertices selected"), nil
	}
	var sum float32
	for _, v := range selected {
		sum += offset(m.Verts[v].Co)
	}
	average := sum / float32(len(selected))

	if p.DeleteTarget != ScopeNone {
		side := float32(1)
		if average > 0 {
			side = -1
		}
		check := allVerts(m)
		if p.DeleteTarget == ScopeIsland {
			if check, err = m.Island(selected); err != nil {
				return Result{}, err
			}
		}
		var doomed []int
		for _, v := range check {
			if offset(m.Verts[v].Co)*side > p.AutoMergeDistance {
				doomed = append(doomed, v)
			}
		}
		if len(doomed) > 0 {
			remap, err := m.DeleteVerts(doomed)
			if err != nil {
				return Result{}, err
			}
			selected = keep(selected, remap.Verts)
		}
	}

	var source []int
	switch p.Scope {
	case ScopeIsland:
		if source, err = m.Island(selected); err != nil {
			return Result{}, err
		}
	case ScopeSelected:
		source = selected
	default:
		source = allVerts(m)
	}

	dup, err := m.Duplicate(source, true)
	if err != nil {
		return Result{}, err
	}
	for _, v := range dup.Verts {
		co := m.Verts[v].Co
		if p.Pivot == PivotObject {
			m.Verts[v].Co = co.WithComponent(p.Axis, -co.Component(p.Axis))
			continue
		}
		w := world.TransformVec3(co)
		c := w.Component(p.Axis)
		if p.Pivot == PivotCursor {
			c = 2*cursor - c
		} else {
			c = -c
		}
		m.Verts[v].Co = inv.TransformVec3(w.WithComponent(p.Axis, c))
	}

	merged := 0
	if p.AutoMerge && len(dup.Verts) > 0 {
		if err := m.SelectByID(mesh.KindVertex, dup.Verts, mesh.SelectOptions{Clear: true}); err != nil {
			return Result{}, err
		}
		if merged, _, err = m.MergeByDistance(m.SelectedVerts(false), p.AutoMergeDistance, true); err != nil {
			return Result{}, err
		}
	}
	restoreMode(ctx, m)

	ctx.Log.Debug("quick mirror",
		zap.Stringer("axis", p.Axis),
		zap.Int("duplicated", len(dup.Verts)),
		zap.Int("merged", merged))
	return Finished(""), nil
}
