// Package viewer runs the interactive mesh viewer: an SDL2 window with an
// OpenGL wireframe view of a scene, key bindings that run operators, and the
// polygon drawing session.
package viewer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshops/internal/config"
	"github.com/Faultbox/meshops/internal/logger"
	"github.com/Faultbox/meshops/internal/ops"
	"github.com/Faultbox/meshops/internal/viewer/camera"
	"github.com/Faultbox/meshops/internal/viewer/editor"
	"github.com/Faultbox/meshops/internal/viewer/event"
	"github.com/Faultbox/meshops/internal/viewer/input"
	"github.com/Faultbox/meshops/internal/viewer/render"
	"github.com/Faultbox/meshops/internal/viewer/window"
)

// Viewer owns the window, renderer and editor.
type Viewer struct {
	window   *window.Window
	renderer *render.Renderer
	input    *input.Input
	editor   *editor.Editor

	title string
	log   *zap.Logger
}

// New opens a window showing the scene of ctx. path is where the scene is
// saved, empty for none.
func New(cfg *config.Config, ctx *ops.Context, registry *ops.Registry, path string) (*Viewer, error) {
	log := logger.Named("viewer")

	keymap, err := event.DefaultKeymap().Merge(cfg.Viewer.Keymap)
	if err != nil {
		return nil, fmt.Errorf("viewer keymap: %w", err)
	}
	if err := keymap.Validate(registry); err != nil {
		return nil, fmt.Errorf("viewer keymap: %w", err)
	}

	win, err := window.New(window.Config{
		Title:      "meshops",
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
		Samples:    cfg.Viewer.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window created.
	dw, dh := win.DrawableSize()
	rend, err := render.New(render.Config{
		Width:       dw,
		Height:      dh,
		Background:  cfg.Viewer.Background,
		Multisample: win.Samples() > 0,
	})
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	ed := editor.New(ctx, registry, keymap, camera.NewOrbitCamera(cfg.Viewer.FOV), path)
	ed.SetViewport(win.GetSize())

	log.Info("viewer initialized", zap.Int("objects", len(ctx.Scene.Objects)), zap.String("path", path))
	return &Viewer{
		window:   win,
		renderer: rend,
		input:    input.New(),
		editor:   ed,
		log:      log,
	}, nil
}

// Run processes input and redraws until the window is closed.
func (v *Viewer) Run() error {
	v.log.Info("starting viewer loop")
	frames := 0
	fpsTimer := time.Now()

	for !v.editor.Quit() {
		v.input.Update()
		for _, ev := range v.input.Events() {
			if ev.Type == event.WindowResize {
				v.renderer.Resize(v.window.DrawableSize())
			}
			// Operator failures are reported in the title bar.
			if err := v.editor.Handle(ev); err != nil {
				v.log.Debug("event not handled", zap.Error(err))
			}
		}

		if buf, changed := v.editor.Buffers(); changed {
			v.renderer.Upload(buf)
		}
		v.renderer.Draw(v.editor.ViewProjection())
		v.window.SwapBuffers()

		if title := v.editor.Title(); title != v.title {
			v.window.SetTitle(title)
			v.title = title
		}

		frames++
		if elapsed := time.Since(fpsTimer); elapsed >= 5*time.Second {
			v.log.Debug("frame rate", zap.Float64("fps", float64(frames)/elapsed.Seconds()))
			frames = 0
			fpsTimer = time.Now()
		}
	}

	v.log.Info("viewer loop ended")
	return nil
}

// Close releases the renderer and the window.
func (v *Viewer) Close() {
	v.renderer.Close()
	v.window.Close()
}
