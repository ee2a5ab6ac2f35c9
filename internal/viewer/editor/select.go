package editor

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
	"github.com/Faultbox/meshops/pkg/scene"
)

// clickSelect selects what is under the ray. In object mode that is the
// object, in edit mode the nearest vertex, edge or face of the hit face.
// extend adds to the selection instead of replacing it.
func (e *Editor) clickSelect(ray scene.Ray, extend bool) {
	e.dirty = true
	if !e.scene.InEditMode() {
		e.selectObject(ray, extend)
		return
	}

	hit, ok := e.scene.RaycastFiltered(ray, func(o *scene.Object) bool {
		return o.Mode == scene.EditMode
	})
	if !extend {
		for _, obj := range e.scene.EditObjects() {
			obj.Mesh.DeselectAll()
		}
	}
	if !ok {
		return
	}

	m := hit.Object.Mesh
	mask := e.scene.Tools.SelectMask
	mode, _ := mask.Primary()
	ref := nearestElement(hit, mode)
	if err := m.SelectByID(ref.Kind, []int{ref.Index}, mesh.SelectOptions{}); err != nil {
		e.log.Warn("click select failed", zap.Error(err))
		return
	}
	if err := m.AddHistory(ref); err != nil {
		e.log.Warn("click select failed", zap.Error(err))
		return
	}
	m.SelectFlush(mask)
	e.log.Debug("element selected",
		zap.String("object", hit.Object.Name),
		zap.Stringer("kind", ref.Kind),
		zap.Int("index", ref.Index))
}

func (e *Editor) selectObject(ray scene.Ray, extend bool) {
	hit, ok := e.scene.Raycast(ray)
	if !ok {
		if !extend {
			e.scene.DeselectAll()
		}
		return
	}
	obj := hit.Object
	if extend && e.scene.IsSelected(obj) && e.scene.Active() == obj {
		e.scene.Select(obj, false)
		return
	}
	if !extend {
		e.scene.DeselectAll()
	}
	e.scene.Select(obj, true)
	e.scene.SetActive(obj)
}

// nearestElement picks the element of the hit face closest to the hit
// location for the selection mode.
func nearestElement(hit scene.Hit, mode mesh.SelectMode) mesh.ElementRef {
	m := hit.Object.Mesh
	face := m.Faces[hit.FaceIndex]
	local := hit.Object.World().Inverse().TransformVec3(hit.Location)

	switch mode {
	case mesh.ModeVertex:
		best, bestDist := face.Verts[0], float32(-1)
		for _, v := range face.Verts {
			if d := m.Verts[v].Co.Distance(local); bestDist < 0 || d < bestDist {
				best, bestDist = v, d
			}
		}
		return mesh.ElementRef{Kind: mesh.KindVertex, Index: best}
	case mesh.ModeEdge:
		best, bestDist := -1, float32(-1)
		for _, ei := range m.FaceEdges(hit.FaceIndex) {
			key := m.Edges[ei].Key
			d := pointSegmentDistance(local, m.Verts[key[0]].Co, m.Verts[key[1]].Co)
			if bestDist < 0 || d < bestDist {
				best, bestDist = ei, d
			}
		}
		if best >= 0 {
			return mesh.ElementRef{Kind: mesh.KindEdge, Index: best}
		}
	}
	return mesh.ElementRef{Kind: mesh.KindFace, Index: hit.FaceIndex}
}

func pointSegmentDistance(p, a, b math.Vec3) float32 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Distance(a.Add(ab.Scale(t)))
}
