// Package input polls SDL2 events and converts them to viewer events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/meshops/internal/viewer/event"
)

// Input handles all input processing.
type Input struct {
	events []event.Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]event.Event, 0, 16),
	}
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, event.Event{Type: event.Quit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, event.Event{
					Type:   event.WindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			typ := event.KeyUp
			if e.State == sdl.PRESSED {
				typ = event.KeyDown
			}
			i.events = append(i.events, event.Event{
				Type: typ,
				Key:  sdl.GetScancodeName(e.Keysym.Scancode),
				Mod:  mods(sdl.GetModState()),
			})

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, event.Event{
				Type:   event.MouseMove,
				Mod:    mods(sdl.GetModState()),
				MouseX: int(e.X),
				MouseY: int(e.Y),
				RelX:   int(e.XRel),
				RelY:   int(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			typ := event.MouseUp
			if e.State == sdl.PRESSED {
				typ = event.MouseDown
			}
			i.events = append(i.events, event.Event{
				Type:   typ,
				Mod:    mods(sdl.GetModState()),
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: event.Button(e.Button),
			})

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, event.Event{
				Type:  event.MouseWheel,
				Mod:   mods(sdl.GetModState()),
				Wheel: float32(e.Y),
			})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []event.Event {
	return i.events
}

// MousePosition returns the current pointer position in window pixels.
func MousePosition() (int, int) {
	x, y, _ := sdl.GetMouseState()
	return int(x), int(y)
}

func mods(m sdl.Keymod) event.Mod {
	var out event.Mod
	if m&sdl.KMOD_SHIFT != 0 {
		out |= event.ModShift
	}
	if m&sdl.KMOD_CTRL != 0 {
		out |= event.ModCtrl
	}
	if m&sdl.KMOD_ALT != 0 {
		out |= event.ModAlt
	}
	return out
}
