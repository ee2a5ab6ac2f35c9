package ops

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/meshops/pkg/scene"
)

func clipboard(ctx *Context) *scene.Clipboard {
	if ctx.Clipboard == nil {
		ctx.Clipboard = scene.NewClipboard("")
	}
	return ctx.Clipboard
}

func copyToClipboard() OperatorSpec {
	return OperatorSpec{
		ID:          "copy_to_clipboard",
		Label:       "Copy to Clipboard",
		Description: "Copy the selected faces, or the selected objects, into the copy buffer.",
		Poll:        pollObject,
		Execute:     executeCopyToClipboard,
	}
}

func executeCopyToClipboard(ctx *Context, params Params) (Result, error) {
	var p copyParams
	if err := params.Decode(&p); err != nil {
		return Result{}, err
	}
	s := ctx.Scene
	clip := clipboard(ctx)

	if !pollEditMesh(ctx) {
		objs := selectedObjects(s)
		if err := clip.Copy(s, objs); err != nil {
			return Result{}, err
		}
		if p.Cut {
			for _, o := range objs {
				s.Remove(o)
			}
		}
		return Finished("Copied %d objects", len(objs)), nil
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
	if err := s.Join(copies[0], copies[1:]); err != nil {
		return Result{}, err
	}
	if err := clip.Copy(s, copies[:1]); err != nil {
		return Result{}, err
	}
	for _, o := range s.EditedMeshes() {
		restoreMode(ctx, o.Mesh)
	}
	ctx.Log.Debug("copied to clipboard",
		zap.String("path", clip.Path),
		zap.Int("faces", len(copies[0].Mesh.Faces)))
	return Finished(""), nil
}

func pasteFromClipboard() OperatorSpec {
	return OperatorSpec{
		ID:          "paste_from_clipboard",
		Label:       "Paste from Clipboard",
		Description: "Paste the copy buffer into the active mesh, or as new objects in object mode.",
		Poll:        func(ctx *Context) bool { return ctx.Scene != nil },
		Execute:     executePasteFromClipboard,
	}
}

func executePasteFromClipboard(ctx *Context, params Params) (Result, error) {
	s := ctx.Scene
	pasted, err := clipboard(ctx).Paste(s)
	if errors.Is(err, scene.ErrClipboardEmpty) {
		return Cancelled("Clipboard is empty"), nil
	}
	if err != nil {
		return Result{}, err
	}

	if !pollEditMesh(ctx) {
		s.DeselectAll()
		for _, o := range pasted {
			s.Select(o, true)
		}
		s.SetActive(pasted[0])
		return Finished("Pasted %d objects", len(pasted)), nil
	}

	// The copied geometry was selected when it was copied, so after the join
	// only the pasted part is selected.
	target := s.Active()
	target.Mesh.DeselectAll()
	var meshes []*scene.Object
	for _, o := range pasted {
		if o.IsMesh() {
			meshes = append(meshes, o)
		} else {
			s.Remove(o)
		}
	}
	if err := s.Join(target, meshes); err != nil {
		return Result{}, err
	}
	restoreMode(ctx, target.Mesh)
	return Finished(""), nil
}
