package ops

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshops/pkg/mesh"
)

func selectLoop() OperatorSpec {
	return OperatorSpec{
		ID:          "select_loop",
		Label:       "Select Edge Loop or Face Loop",
		Description: "Select the edge loops of the selected edges, or the face loop through the selected faces.",
		Poll:        pollEditMesh,
		Execute:     executeSelectLoop,
	}
}

func executeSelectLoop(ctx *Context, params Params) (Result, error) {
	_, m, err := editTarget(ctx)
	if err != nil {
		return Result{}, err
	}
	switch ctx.Scene.SelectionMode() {
	case mesh.ModeVertex, mesh.ModeEdge:
		if _, err := m.SelectLoops(false); err != nil {
			return Result{}, err
		}
	case mesh.ModeFace:
		if res, err := selectSharedEdges(m); err != nil || res.Status != "" {
			return res, err
		}
		ring, err := m.SelectLoops(true)
		if err != nil {
			return Result{}, err
		}
		inRing := make(map[int]bool, len(ring))
		for _, e := range ring {
			inRing[e] = true
		}
		var faces []int
		for f := range m.Faces {
			n := 0
			for _, e := range m.FaceEdges(f) {
				if inRing[e] {
					n++
				}
			}
			if n == 2 {
				faces = append(faces, f)
			}
		}
		if err := m.SelectByID(mesh.KindFace, faces, mesh.SelectOptions{Clear: true}); err != nil {
			return Result{}, err
		}
	}
	return Finished(""), nil
}

// selectSharedEdges replaces the selection with the edges shared by the
// selected faces. A non-empty result means the operator must cancel.
func selectSharedEdges(m *mesh.Mesh) (Result, error) {
	_, err := m.SelectSharedEdgesFromFaces()
	switch {
	case err == nil:
		return Result{}, nil
	case errors.Is(err, mesh.ErrTooFewFaces), errors.Is(err, mesh.ErrNoSharedEdges),
		errors.Is(err, mesh.ErrSharedEdgesUnselected):
		return Cancelled("%s", err.Error()), nil
	}
	return Result{}, err
}

type loopSliceParams struct {
	Multi bool `yaml:"multi"`
	Count int  `yaml:"count"`
}

func loopSlice() OperatorSpec {
	return OperatorSpec{
		ID:          "loop_slice",
		Label:       "Loop Slice",
		Description: "Cut new edge loops through the edge ring of the selection.",
		Poll:        pollMode(mesh.ModeEdge, mesh.ModeFace),
		Execute:     executeLoopSlice,
	}
}

func executeLoopSlice(ctx *Context, params Params) (Result, error) {
	p := loopSliceParams{Count: 1}
	if err := params.Decode(&p); err != nil {
		return Result{}, err
	}
	if p.Count < 1 {
		return Result{}, fmt.Errorf("count must be at least 1, got %d", p.Count)
	}
	_, m, err := editTarget(ctx)
	if err != nil {
		return Result{}, err
	}
	if ctx.Scene.SelectionMode() == mesh.ModeFace {
		if res, err := selectSharedEdges(m); err != nil || res.Status != "" {
			return res, err
		}
	}
	if _, err := m.SelectLoops(true); err != nil {
		return Result{}, err
	}
	ring := m.SelectedEdges(false)
	if len(ring) == 0 {
		return Cancelled("No edges selected"), nil
	}
	cuts := 1
	if p.Multi {
		cuts = p.Count
	}
	cut, err := m.SubdivideEdgeRing(ring, cuts)
	if err != nil {
		return Result{}, err
	}

	// Select the new loops only. Segments of the cut ring edges that join two
	// new vertices are not part of a loop.
	if err := m.SelectByID(mesh.KindVertex, cut.Verts, mesh.SelectOptions{Clear: true}); err != nil {
		return Result{}, err
	}
	loop := make(map[int]bool, len(cut.LoopEdges))
	for _, e := range cut.LoopEdges {
		loop[e] = true
	}
	for e := range m.Edges {
		if m.Edges[e].Select && !loop[e] {
			m.Edges[e].Select = false
		}
	}
	for f := range m.Faces {
		m.Faces[f].Select = false
	}
	ctx.Scene.Tools.SelectMask = mesh.MaskOf(mesh.ModeEdge)
	ctx.Log.Debug("loop slice", zap.Int("ring", len(ring)), zap.Int("cuts", cuts))
	return Finished(""), nil
}

func selectEdgeOrIsland() OperatorSpec {
	return OperatorSpec{
		ID:          "select_edge_or_island",
		Label:       "Select Edge Loop or Island",
		Description: "Select edge loops in edge mode, otherwise the islands of the selection.",
		Poll:        pollEditMesh,
		Execute:     executeSelectEdgeOrIsland,
	}
}

func executeSelectEdgeOrIsland(ctx *Context, params Params) (Result, error) {
	_, m, err := editTarget(ctx)
	if err != nil {
		return Result{}, err
	}
	switch ctx.Scene.SelectionMode() {
	case mesh.ModeEdge:
		if _, err := m.SelectLoops(false); err != nil {
			return Result{}, err
		}
	case mesh.ModeVertex, mesh.ModeFace:
		linked, err := m.LinkedByEdges(m.SelectedVerts(false))
		if err != nil {
			return Result{}, err
		}
		if err := m.SelectByID(mesh.KindVertex, linked, mesh.SelectOptions{}); err != nil {
			return Result{}, err
		}
		restoreMode(ctx, m)
	}
	return Finished(""), nil
}

func connectOrKnife() OperatorSpec {
	return OperatorSpec{
		ID:          "connect_or_knife",
		Label:       "Connect Vertices",
		Description: "Connect the two selected vertices with an edge, splitting the faces they share.",
		Poll:        pollEditMesh,
		Execute:     executeConnectOrKnife,
	}
}

func executeConnectOrKnife(ctx *Context, params Params) (Result, error) {
	_, m, err := editTarget(ctx)
	if err != nil {
		return Result{}, err
	}
	verts := m.SelectedVerts(false)
	if ctx.Scene.SelectionMode() != mesh.ModeVertex || len(verts) != 2 {
		// Cutting anything else needs the interactive knife.
		return Cancelled("Select two vertices to connect"), nil
	}
	faces := len(m.Faces)
	e, err := m.ConnectVerts(verts[0], verts[1])
	if errors.Is(err, mesh.ErrNoSharedFace) {
		return Cancelled("Could not connect vertices"), nil
	}
	if err != nil {
		return Result{}, err
	}
	restoreMode(ctx, m)
	ctx.Log.Debug("connect vertices",
		zap.Int("edge", e),
		zap.Int("split", len(m.Faces)-faces))
	return Finished(""), nil
}
