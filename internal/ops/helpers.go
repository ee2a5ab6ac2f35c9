package ops

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
	"github.com/Faultbox/meshops/pkg/scene"
)

// Pivot values shared by several operators.
const (
	PivotOrigin = "ORIGIN"
	PivotObject = "PIVOT"
	PivotCursor = "CURSOR"
)

// Scope values select which vertices an operator works on.
const (
	ScopeSelected = "SELECTED"
	ScopeIsland   = "ISLAND"
	ScopeAll      = "ALL"
	ScopeNone     = "NO"
)

func pollObject(ctx *Context) bool {
	return ctx.Scene != nil && ctx.Scene.Active() != nil
}

func pollSelected(ctx *Context) bool {
	return ctx.Scene != nil && (ctx.Scene.Active() != nil || len(ctx.Scene.Selected()) > 0)
}

func pollEditMesh(ctx *Context) bool {
	if ctx.Scene == nil || !ctx.Scene.InEditMode() {
		return false
	}
	return ctx.Scene.Active().IsMesh()
}

func pollMode(modes ...mesh.SelectMode) func(*Context) bool {
	return func(ctx *Context) bool {
		if !pollEditMesh(ctx) {
			return false
		}
		current := ctx.Scene.SelectionMode()
		for _, m := range modes {
			if m == current {
				return true
			}
		}
		return false
	}
}

// editTarget returns the active object and its mesh in edit mode.
func editTarget(ctx *Context) (*scene.Object, *mesh.Mesh, error) {
	obj, err := ctx.Scene.ActiveMesh()
	if err != nil {
		return nil, nil, err
	}
	return obj, obj.Mesh, nil
}

// restoreMode re-applies the current selection mode so derived selection
// matches the mask again after an edit.
func restoreMode(ctx *Context, m *mesh.Mesh) {
	m.SelectFlush(ctx.Scene.Tools.SelectMask)
}

// setMode switches the editor to a single element mode.
func setMode(ctx *Context, mode mesh.SelectMode) error {
	return ctx.Scene.SetSelectionMode(mode, mesh.MaskOf(mode))
}

// scopeVerts expands the selected vertices to their islands when islands is set.
func scopeVerts(m *mesh.Mesh, selected []int, islands bool) ([]int, error) {
	if !islands {
		return selected, nil
	}
	return m.Island(selected)
}

func allVerts(m *mesh.Mesh) []int {
	out := make([]int, len(m.Verts))
	for i := range out {
		out[i] = i
	}
	return out
}

// pivotLocation resolves ORIGIN, PIVOT and CURSOR to a world position.
func pivotLocation(ctx *Context, obj *scene.Object, pivot string) (math.Vec3, error) {
	switch pivot {
	case PivotOrigin:
		return math.Vec3{}, nil
	case PivotObject:
		return obj.Location, nil
	case PivotCursor:
		return ctx.Scene.Cursor.Location, nil
	}
	return math.Vec3{}, fmt.Errorf("unknown pivot %q", pivot)
}

func oneOf(name, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q, want one of %v", name, value, allowed)
}

func radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

func vec(a [3]float32) math.Vec3 {
	return math.Vec3FromArray(a)
}

func eulerDegrees(a [3]float32) math.Euler {
	return math.Euler{X: radians(a[0]), Y: radians(a[1]), Z: radians(a[2])}
}

// keep returns the indices remapped through r, dropping removed ones.
func keep(indices []int, r []int) []int {
	out := indices[:0:0]
	for _, i := range indices {
		if i >= 0 && i < len(r) && r[i] >= 0 {
			out = append(out, r[i])
		}
	}
	return out
}
