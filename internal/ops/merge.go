package ops

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
)

// Merge types accepted by merge_by_type.
const (
	MergeNone     = "NO"
	MergeCenter   = "CENTER"
	MergeCursor   = "CURSOR"
	MergeCollapse = "COLLAPSE"
	MergeFirst    = "FIRST"
	MergeLast     = "LAST"
)

func mergeToActive() OperatorSpec {
	return OperatorSpec{
		ID:          "merge_to_active",
		Label:       "Merge to Active",
		Description: "Merge every selected vertex at the location of the active vertex.",
		Poll:        pollMode(mesh.ModeVertex),
		Execute:     executeMergeToActive,
	}
}

func executeMergeToActive(ctx *Context, params Params) (Result, error) {
	if err := params.Decode(&struct{}{}); err != nil {
		return Result{}, err
	}
	_, m, err := editTarget(ctx)
	if err != nil {
		return Result{}, err
	}
	ref, ok := m.Active()
	if !ok || ref.Kind != mesh.KindVertex {
		return Cancelled("No active vertex found to merge to"), nil
	}
	verts := append(m.SelectedVerts(false), ref.Index)
	if _, _, err := m.MergeAt(verts, m.Verts[ref.Index].Co); err != nil {
		return Result{}, err
	}
	restoreMode(ctx, m)
	return Finished(""), nil
}

type mergeByTypeParams struct {
	OverrideMode string `yaml:"override_mode"`
}

func mergeByType() OperatorSpec {
	return OperatorSpec{
		ID:          "merge_by_type",
		Label:       "Merge by Type",
		Description: "Merge at the centre in vertex mode, collapse in edge and face mode.",
		Poll:        pollEditMesh,
		Execute:     executeMergeByType,
	}
}

func executeMergeByType(ctx *Context, params Params) (Result, error) {
	p := mergeByTypeParams{OverrideMode: MergeNone}
	if err := params.Decode(&p); err != nil {
		return Result{}, err
	}
	if err := oneOf("override_mode", p.OverrideMode,
		MergeNone, MergeCenter, MergeCursor, MergeCollapse, MergeFirst, MergeLast); err != nil {
		return Result{}, err
	}
	obj, m, err := editTarget(ctx)
	if err != nil {
		return Result{}, err
	}

	mode := MergeCenter
	if sm := ctx.Scene.SelectionMode(); sm == mesh.ModeEdge || sm == mesh.ModeFace {
		mode = MergeCollapse
	}
	if p.OverrideMode != MergeNone {
		mode = p.OverrideMode
	}

	verts := m.SelectedVerts(false)
	if len(verts) == 0 {
		return Cancelled("Nothing selected"), nil
	}
	switch mode {
	case MergeCollapse:
		if _, err := m.MergeCollapse(verts); err != nil {
			return Result{}, err
		}
	case MergeFirst, MergeLast:
		v, ok := historyVert(m, mode == MergeLast)
		if !ok {
			return Cancelled("Requires a vertex in the selection history"), nil
		}
		if _, _, err := m.MergeAt(append(verts, v), m.Verts[v].Co); err != nil {
			return Result{}, err
		}
	default:
		var co math.Vec3
		if mode == MergeCursor {
			co = obj.World().Inverse().TransformVec3(ctx.Scene.Cursor.Location)
		} else {
			for _, v := range verts {
				co = co.Add(m.Verts[v].Co)
			}
			co = co.Scale(1 / float32(len(verts)))
		}
		if _, _, err := m.MergeAt(verts, co); err != nil {
			return Result{}, err
		}
	}
	restoreMode(ctx, m)
	ctx.Log.Debug("merge", zap.String("type", mode), zap.Int("verts", len(verts)))
	return Finished(""), nil
}

// historyVert returns the first, or with last the last, vertex of the
// selection history.
func historyVert(m *mesh.Mesh, last bool) (int, bool) {
	found, v := false, -1
	for _, h := range m.SelectHistory {
		if h.Kind != mesh.KindVertex {
			continue
		}
		if !found || last {
			v = h.Index
		}
		found = true
	}
	return v, found
}
