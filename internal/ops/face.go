package ops

import (
	"errors"

	"github.com/Faultbox/meshops/pkg/mesh"
)

func makeFace() OperatorSpec {
	return OperatorSpec{
		ID:    "make_face",
		Label: "Make Face",
		Description: "Create a triangle from three vertices or two adjacent edges, " +
			"otherwise fill the open border the selection touches.",
		Poll:    pollEditMesh,
		Execute: executeMakeFace,
	}
}

func executeMakeFace(ctx *Context, params Params) (Result, error) {
	_, m, err := editTarget(ctx)
	if err != nil {
		return Result{}, err
	}
	switch ctx.Scene.SelectionMode() {
	case mesh.ModeVertex:
		verts := m.SelectedVerts(false)
		linked := linkedEdges(m, verts)
		if !(len(verts) == 3 && len(m.SelectedEdges(false)) > 0) {
			if err := selectOpenBorder(m, linked); err != nil {
				return Result{}, err
			}
		}
	case mesh.ModeEdge:
		edges := m.SelectedEdges(false)
		if !(len(edges) == 2 && len(edgeVerts(m, edges)) == 3) {
			if err := selectOpenBorder(m, edges); err != nil {
				return Result{}, err
			}
		}
	}
	if _, err := m.FillSelected(); err != nil {
		if errors.Is(err, mesh.ErrFaceExists) || errors.Is(err, mesh.ErrEmptySelection) {
			return Cancelled("%v", err), nil
		}
		return Result{}, err
	}
	if err := setMode(ctx, mesh.ModeFace); err != nil {
		return Result{}, err
	}
	return Finished(""), nil
}

// linkedEdges returns the edges touching any of the vertices.
func linkedEdges(m *mesh.Mesh, verts []int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, v := range verts {
		for _, e := range m.VertEdges(v) {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	return out
}

func edgeVerts(m *mesh.Mesh, edges []int) map[int]bool {
	out := make(map[int]bool)
	for _, e := range edges {
		out[m.Edges[e].Key[0]] = true
		out[m.Edges[e].Key[1]] = true
	}
	return out
}

// selectOpenBorder adds the boundary loops touched by edges to the selection.
func selectOpenBorder(m *mesh.Mesh, edges []int) error {
	border, err := m.OpenBorderLoop(edges)
	if err != nil {
		return err
	}
	return m.SelectByID(mesh.KindEdge, border, mesh.SelectOptions{})
}

type deleteParams struct {
	Dissolve bool `yaml:"dissolve"`
}

func deleteElements() OperatorSpec {
	return OperatorSpec{
		ID:          "delete",
		Label:       "Delete",
		Description: "Delete or dissolve the selection according to the selection mode.",
		Poll:        pollEditMesh,
		Execute:     executeDelete,
	}
}

func executeDelete(ctx *Context, params Params) (Result, error) {
	var p deleteParams
	if err := params.Decode(&p); err != nil {
		return Result{}, err
	}
	_, m, err := editTarget(ctx)
	if err != nil {
		return Result{}, err
	}
	switch ctx.Scene.SelectionMode() {
	case mesh.ModeVertex:
		verts := m.SelectedVerts(false)
		if p.Dissolve {
			err = m.DissolveVerts(verts)
		} else {
			_, err = m.DeleteVerts(verts)
		}
	case mesh.ModeEdge:
		edges := m.SelectedEdges(false)
		if p.Dissolve {
			err = m.DissolveEdges(edges, true)
		} else {
			_, err = m.DeleteEdges(edges)
		}
	case mesh.ModeFace:
		faces := m.SelectedFaces(false)
		if p.Dissolve {
			err = m.DissolveFaces(faces)
		} else {
			_, err = m.DeleteFaces(faces)
		}
	}
	if err != nil {
		return Result{}, err
	}
	return Finished(""), nil
}
