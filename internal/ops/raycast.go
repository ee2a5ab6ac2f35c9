package ops

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
	"github.com/Faultbox/meshops/pkg/scene"
)

// pick casts the pointer ray into the scene. Objects rejected by filter are
// skipped.
func pick(ctx *Context, filter scene.RaycastFilter) (scene.Hit, bool, error) {
	if ctx.Pointer == nil {
		return scene.Hit{}, false, ErrNoPointer
	}
	hit, ok := ctx.Scene.RaycastFiltered(*ctx.Pointer, filter)
	return hit, ok, nil
}

type moveToFaceParams struct {
	Orient bool `yaml:"orient"`
}

func moveToFace() OperatorSpec {
	return OperatorSpec{
		ID:          "move_to_face",
		Label:       "Move to Face",
		Description: "Move the selected objects or the selected islands onto the face under the pointer.",
		Poll:        pollObject,
		Execute:     executeMoveToFace,
	}
}

func executeMoveToFace(ctx *Context, params Params) (Result, error) {
	var p moveToFaceParams
	if err := params.Decode(&p); err != nil {
		return Result{}, err
	}
	s := ctx.Scene
	edit := pollEditMesh(ctx)

	var filter scene.RaycastFilter
	if !edit {
		filter = func(o *scene.Object) bool { return !s.IsSelected(o) && o != s.Active() }
	}
	hit, ok, err := pick(ctx, filter)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Cancelled("Nothing under the pointer"), nil
	}

	if !edit {
		objs := selectedMeshes(s)
		if len(objs) == 0 {
			return Cancelled("Nothing selected"), nil
		}
		center, _ := averageTransform(objs)
		offset := center.Sub(hit.Location)
		for _, o := range objs {
			o.Location = o.Location.Sub(offset)
			if p.Orient {
				o.Rotation = alignZ(hit.Normal)
			}
		}
		return Finished(""), nil
	}

	type part struct {
		obj    *scene.Object
		island []int
	}
	var (
		parts  []part
		center math.Vec3
	)
	faceMode := s.SelectionMode() == mesh.ModeFace
	for _, o := range s.EditedMeshes() {
		m := o.Mesh
		world := o.World()
		selected := m.SelectedVerts(false)
		if len(selected) == 0 {
			continue
		}
		island, err := m.Island(selected)
		if err != nil {
			return Result{}, err
		}
		if p.Orient && faceMode {
			if n, ok, err := m.AverageNormal(mesh.Faces(m.SelectedFaces(false)...), world); err != nil {
				return Result{}, err
			} else if ok {
				pivot, err := m.AverageLocation(mesh.Verts(selected...), world)
				if err != nil {
					return Result{}, err
				}
				q := math.RotationDifference(n, hit.Normal.Neg())
				if err := m.RotateVerts(island, q, &pivot, world); err != nil {
					return Result{}, err
				}
			}
		}
		loc, err := m.AverageLocation(mesh.Verts(selected...), world)
		if err != nil {
			return Result{}, err
		}
		center = center.Add(loc)
		parts = append(parts, part{obj: o, island: island})
	}
	if len(parts) == 0 {
		return Cancelled("Nothing selected"), nil
	}
	center = center.Scale(1 / float32(len(parts)))
	offset := hit.Location.Sub(center)
	for _, pt := range parts {
		if err := pt.obj.Mesh.TranslateVerts(pt.island, offset, pt.obj.World()); err != nil {
			return Result{}, err
		}
	}
	return Finished(""), nil
}

func applyMaterial() OperatorSpec {
	return OperatorSpec{
		ID:    "apply_material",
		Label: "Apply Material",
		Description: "Apply the material under the pointer to the selection. " +
			"Pointing at nothing creates a new material.",
		Poll:    pollObject,
		Execute: executeApplyMaterial,
	}
}

func executeApplyMaterial(ctx *Context, params Params) (Result, error) {
	s := ctx.Scene
	hit, ok, err := pick(ctx, nil)
	if err != nil {
		return Result{}, err
	}
	material := ""
	if ok {
		material = hit.Object.FaceMaterial(hit.FaceIndex)
	}
	if material == "" {
		material = s.NewMaterial().Name
	} else if s.Material(material) == nil {
		s.Materials = append(s.Materials, &scene.Material{Name: material, Color: [4]float32{0.8, 0.8, 0.8, 1}})
	}

	objectMode := s.SelectionMode() == mesh.ModeObject
	for _, o := range selectedMeshes(s) {
		var faces []int
		if objectMode {
			faces = make([]int, len(o.Mesh.Faces))
			for i := range faces {
				faces[i] = i
			}
		} else {
			faces = o.Mesh.SelectedFaces(true)
		}
		if err := o.AssignMaterial(faces, material); err != nil {
			return Result{}, err
		}
	}
	ctx.Log.Debug("apply material", zap.String("material", material))
	return Finished(""), nil
}

type copyParams struct {
	Cut bool `yaml:"cut"`
}

func copyToMesh() OperatorSpec {
	return OperatorSpec{
		ID:          "copy_to_mesh",
		Label:       "Copy Polygons into Mesh under Pointer",
		Description: "Copy or cut the selected faces into the mesh under the pointer.",
		Poll:        pollEditMesh,
		Execute:     executeCopyToMesh,
	}
}

func executeCopyToMesh(ctx *Context, params Params) (Result, error) {
	var p copyParams
	if err := params.Decode(&p); err != nil {
		return Result{}, err
	}
	s := ctx.Scene
	hit, ok, err := pick(ctx, nil)
	if err != nil {
		return Result{}, err
	}
	var copies []*scene.Object
	for _, o := range s.EditedMeshes() {
		c, err := copySelected(o, p.Cut)
		if err != nil {
			return Result{}, err
		}
		if c != nil {
			copies = append(copies, c)
		}
	}
	if len(copies) == 0 {
		return Cancelled("Nothing selected"), nil
	}

	var target *scene.Object
	if ok && hit.Object.IsMesh() {
		target = hit.Object
		target.Mesh.DeselectAll()
	} else {
		target = copies[0]
		copies = copies[1:]
		s.Link(target)
	}
	if err := s.Join(target, copies); err != nil {
		return Result{}, err
	}
	for _, o := range s.Objects {
		o.Mode = scene.ObjectMode
	}
	target.Mode = scene.EditMode
	s.Select(target, true)
	s.SetActive(target)
	restoreMode(ctx, target.Mesh)
	return Finished(""), nil
}

// copySelected returns an unlinked object holding the selected faces of o,
// or the selected vertices when no face is selected. With cut the selected
// faces are removed from o. A nil object means nothing was selected.
func copySelected(o *scene.Object, cut bool) (*scene.Object, error) {
	m := o.Mesh
	faces := m.SelectedFaces(false)
	var (
		sub *mesh.Mesh
		err error
	)
	if len(faces) > 0 {
		sub, err = m.ExtractFaces(faces)
	} else {
		verts := m.SelectedVerts(false)
		if len(verts) == 0 {
			return nil, nil
		}
		sub, err = m.Subset(verts)
	}
	if err != nil {
		return nil, err
	}
	c := scene.NewObject(o.Name, sub)
	c.Location, c.Rotation, c.Scale = o.Location, o.Rotation, o.Scale
	c.MaterialSlots = append([]string(nil), o.MaterialSlots...)
	if cut && len(faces) > 0 {
		if _, err := m.DeleteFaces(faces); err != nil {
			return nil, err
		}
	}
	return c, nil
}
