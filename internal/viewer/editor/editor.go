// Package editor holds the viewer's interaction state: it routes input
// events to the camera, the keymap, menus and the polygon drawing session,
// and runs operators against the scene. It has no window or GL dependency.
package editor

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshops/internal/logger"
	"github.com/Faultbox/meshops/internal/ops"
	"github.com/Faultbox/meshops/internal/ops/polygon"
	"github.com/Faultbox/meshops/internal/viewer/camera"
	"github.com/Faultbox/meshops/internal/viewer/event"
	"github.com/Faultbox/meshops/internal/viewer/geometry"
	"github.com/Faultbox/meshops/internal/viewer/picking"
	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
	"github.com/Faultbox/meshops/pkg/scene"
)

// Editor is the interactive state of one open scene.
type Editor struct {
	scene    *scene.Scene
	ctx      *ops.Context
	registry *ops.Registry
	keymap   event.Keymap
	camera   *camera.OrbitCamera
	geometry geometry.Options

	// path is where Save writes the scene, empty for an unsaved scene.
	path string

	width, height  int
	mouseX, mouseY int
	orbiting       bool
	panning        bool

	polygon *polygon.Session
	menu    *ops.MenuSpec
	status  string
	dirty   bool
	quit    bool

	log *zap.Logger
}

// New creates an editor for a scene. path may be empty.
func New(ctx *ops.Context, registry *ops.Registry, keymap event.Keymap, cam *camera.OrbitCamera, path string) *Editor {
	e := &Editor{
		scene:    ctx.Scene,
		ctx:      ctx,
		registry: registry,
		keymap:   keymap,
		camera:   cam,
		geometry: geometry.DefaultOptions(),
		path:     path,
		width:    1,
		height:   1,
		dirty:    true,
		log:      logger.Named("editor"),
	}
	e.FrameAll()
	return e
}

// SetViewport sets the drawable size used for picking and projection.
func (e *Editor) SetViewport(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	e.width, e.height = width, height
}

// Aspect returns the viewport aspect ratio.
func (e *Editor) Aspect() float32 {
	return float32(e.width) / float32(e.height)
}

// ViewProjection returns the camera matrix for the current viewport.
func (e *Editor) ViewProjection() math.Mat4 {
	return e.camera.ViewProjection(e.Aspect())
}

// Ray returns the world ray under a viewport position.
func (e *Editor) Ray(x, y int) scene.Ray {
	return picking.ScreenToRay(float32(x), float32(y), float32(e.width), float32(e.height),
		e.ViewProjection().Inverse())
}

// Status returns the message of the last operator or action.
func (e *Editor) Status() string { return e.status }

// Quit reports whether the user asked to leave.
func (e *Editor) Quit() bool { return e.quit }

// Drawing reports whether a polygon session is running.
func (e *Editor) Drawing() bool { return e.polygon != nil }

// Menu returns the open menu, or nil.
func (e *Editor) Menu() *ops.MenuSpec { return e.menu }

// Buffers rebuilds the draw data when the scene changed since the last call.
// It reports false, with empty buffers, when nothing changed.
func (e *Editor) Buffers() (geometry.Buffers, bool) {
	if !e.dirty {
		return geometry.Buffers{}, false
	}
	e.dirty = false
	return geometry.Build(e.scene, e.geometry), true
}

// Title summarises the editor state for the window title.
func (e *Editor) Title() string {
	var b strings.Builder
	b.WriteString("meshops")
	if e.path != "" {
		b.WriteString(" - ")
		b.WriteString(e.path)
	}
	fmt.Fprintf(&b, " [%s]", e.scene.SelectionMode())
	switch {
	case e.menu != nil:
		fmt.Fprintf(&b, " %s:", e.menu.Label)
		for i, item := range e.menu.Items {
			fmt.Fprintf(&b, " %d %s", i+1, item.Label)
		}
	case e.polygon != nil:
		fmt.Fprintf(&b, " Draw Polygon: %d points", len(e.polygon.Verts()))
	case e.status != "":
		b.WriteString(" ")
		b.WriteString(e.status)
	}
	return b.String()
}

// Handle applies one input event.
func (e *Editor) Handle(ev event.Event) error {
	switch ev.Type {
	case event.Quit:
		e.quit = true
		return nil
	case event.WindowResize:
		e.SetViewport(ev.Width, ev.Height)
		return nil
	case event.MouseMove, event.MouseDown, event.MouseUp:
		e.mouseX, e.mouseY = ev.MouseX, ev.MouseY
	}

	if e.handleCamera(ev) {
		return nil
	}
	if e.polygon != nil {
		return e.handlePolygon(ev)
	}
	if e.menu != nil && ev.Type == event.KeyDown {
		return e.handleMenu(ev)
	}

	switch ev.Type {
	case event.MouseDown:
		if ev.Button == event.ButtonLeft {
			e.clickSelect(e.Ray(ev.MouseX, ev.MouseY), ev.Mod&event.ModShift != 0)
		}
	case event.KeyDown:
		if b, ok := e.keymap.Lookup(ev); ok {
			switch {
			case b.Action != "":
				return e.action(b.Action)
			case b.Menu != "":
				return e.OpenMenu(b.Menu)
			default:
				return e.Run(b.Operator, ops.Params(b.Params))
			}
		}
	}
	return nil
}

// handleCamera orbits with the middle button, pans with shift+middle and
// zooms with the wheel. It reports whether it consumed the event.
func (e *Editor) handleCamera(ev event.Event) bool {
	switch ev.Type {
	case event.MouseDown:
		if ev.Button == event.ButtonMiddle {
			e.panning = ev.Mod&event.ModShift != 0
			e.orbiting = !e.panning
			return true
		}
	case event.MouseUp:
		if ev.Button == event.ButtonMiddle {
			e.orbiting, e.panning = false, false
			return true
		}
	case event.MouseMove:
		switch {
		case e.orbiting:
			e.camera.HandleDrag(float32(ev.RelX), float32(ev.RelY))
			return true
		case e.panning:
			e.camera.HandlePan(float32(ev.RelX), float32(ev.RelY))
			return true
		}
	case event.MouseWheel:
		e.camera.HandleZoom(ev.Wheel)
		return true
	}
	return false
}

func (e *Editor) handlePolygon(ev event.Event) error {
	pev, ok := event.ToPolygon(ev, e.Ray(e.mouseX, e.mouseY))
	if !ok {
		return nil
	}
	state, err := e.polygon.Handle(pev)
	e.dirty = true
	if err != nil {
		e.polygon = nil
		e.status = err.Error()
		return err
	}
	if state != polygon.Running {
		e.log.Info("polygon session ended", zap.Stringer("state", state))
		e.status = "Draw Polygon " + strings.ToLower(state.String())
		e.polygon = nil
	}
	return nil
}

func (e *Editor) handleMenu(ev event.Event) error {
	menu := e.menu
	e.menu = nil
	n, err := strconv.Atoi(ev.Key)
	if err != nil || n < 1 || n > len(menu.Items) {
		return nil
	}
	item := menu.Items[n-1]
	if item.Menu != "" {
		return e.OpenMenu(item.Menu)
	}
	return e.Run(item.Operator, item.Params)
}

// OpenMenu shows a menu. The next number key picks an item, any other key
// closes it.
func (e *Editor) OpenMenu(id string) error {
	menu := e.registry.Menu(id)
	if menu == nil {
		return fmt.Errorf("unknown menu %q", id)
	}
	e.menu = menu
	return nil
}

// Run executes an operator with the pointer ray at the mouse position.
// make_polygon starts an interactive drawing session instead.
func (e *Editor) Run(id string, params ops.Params) error {
	if id == "make_polygon" && len(params) == 0 {
		return e.startPolygon()
	}

	ray := e.Ray(e.mouseX, e.mouseY)
	e.ctx.Pointer = &ray
	defer func() { e.ctx.Pointer = nil }()

	res, err := e.registry.Run(e.ctx, id, params)
	if err != nil {
		e.status = err.Error()
		e.log.Warn("operator failed", zap.String("operator", id), zap.Error(err))
		return err
	}
	e.dirty = true
	e.status = res.Message
	if e.status == "" {
		e.status = fmt.Sprintf("%s %s", id, strings.ToLower(string(res.Status)))
	}
	return nil
}

func (e *Editor) startPolygon() error {
	opts := polygon.Options{
		Pivot: e.ctx.Tools.PolygonPivot,
		Align: e.ctx.Tools.PolygonAlign,
		Axis:  "XY",
	}
	view := polygon.View{Focus: e.camera.Focus, Direction: e.camera.Direction()}
	ss, err := polygon.Start(e.scene, opts, view)
	if err != nil {
		e.status = err.Error()
		return err
	}
	e.polygon = ss
	e.dirty = true
	e.log.Info("polygon session started", zap.String("object", ss.Object().Name))
	return nil
}

func (e *Editor) action(name string) error {
	switch name {
	case event.ActionQuit:
		e.quit = true
	case event.ActionFrameAll:
		e.FrameAll()
	case event.ActionSave:
		return e.Save()
	case event.ActionToggleEdit:
		return e.toggleEdit()
	default:
		return fmt.Errorf("unknown action %q", name)
	}
	return nil
}

func (e *Editor) toggleEdit() error {
	mask := e.scene.Tools.SelectMask
	mode := mesh.ModeObject
	if !e.scene.InEditMode() {
		mode = mask.Mode()
	}
	if err := e.scene.SetSelectionMode(mode, mask); err != nil {
		e.status = err.Error()
		return err
	}
	e.dirty = true
	return nil
}

// FrameAll points the camera at every object.
func (e *Editor) FrameAll() {
	var box scene.AABB
	found := false
	for _, obj := range e.scene.Objects {
		if !obj.IsMesh() {
			continue
		}
		world := obj.World()
		for _, v := range obj.Mesh.Verts {
			p := world.TransformVec3(v.Co)
			if !found {
				box = scene.NewAABB(p, p)
				found = true
			} else {
				box = box.Extend(p)
			}
		}
	}
	if found {
		e.camera.FitToBounds(box.Min, box.Max)
	}
}

// Save writes the scene to its file.
func (e *Editor) Save() error {
	if e.path == "" {
		e.status = "No file to save to"
		return nil
	}
	if err := scene.Save(e.scene, e.path); err != nil {
		e.status = err.Error()
		return err
	}
	e.status = "Saved " + e.path
	e.log.Info("scene saved", zap.String("path", e.path))
	return nil
}
