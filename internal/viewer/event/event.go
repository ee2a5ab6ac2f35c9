// Package event holds the viewer's input events and key bindings.
//
// Events are plain values so the translation to polygon session events and
// the keymap lookup work without a window.
package event

import (
	"strings"

	"github.com/Faultbox/meshops/internal/ops/polygon"
	"github.com/Faultbox/meshops/pkg/scene"
)

// Type identifies an input event.
type Type int

const (
	None Type = iota
	Quit
	WindowResize
	KeyDown
	KeyUp
	MouseMove
	MouseDown
	MouseUp
	MouseWheel
)

// Button is a mouse button. Values match SDL's button numbers.
type Button uint8

const (
	ButtonLeft   Button = 1
	ButtonMiddle Button = 2
	ButtonRight  Button = 3
)

// Mod is a set of held modifier keys.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
)

// Event is a processed input event.
type Event struct {
	Type Type
	// Key is the key name, e.g. "A", "Return", "Escape".
	Key    string
	Mod    Mod
	Width  int
	Height int
	MouseX int
	MouseY int
	// RelX and RelY are the motion since the previous move event.
	RelX   int
	RelY   int
	Button Button
	Wheel  float32
}

// Combo returns the key with its modifiers, e.g. "Ctrl+Shift+M".
func (e Event) Combo() string {
	return comboString(e.Mod, e.Key)
}

func comboString(mod Mod, key string) string {
	var b strings.Builder
	if mod&ModCtrl != 0 {
		b.WriteString("Ctrl+")
	}
	if mod&ModAlt != 0 {
		b.WriteString("Alt+")
	}
	if mod&ModShift != 0 {
		b.WriteString("Shift+")
	}
	b.WriteString(key)
	return b.String()
}

// ToPolygon translates an event for a running polygon session. ray is the
// pointer ray at the event position. It reports false for events the
// session ignores.
func ToPolygon(ev Event, ray scene.Ray) (polygon.Event, bool) {
	out := polygon.Event{Shift: ev.Mod&ModShift != 0, Ray: ray}
	switch ev.Type {
	case KeyDown:
		out.Type = polygon.EventPress
		switch ev.Key {
		case "Return", "Keypad Enter":
			out.Key = polygon.KeyEnter
		case "Space":
			out.Key = polygon.KeySpace
		case "Escape":
			out.Key = polygon.KeyEscape
		default:
			return polygon.Event{}, false
		}
	case MouseDown, MouseUp:
		out.Type = polygon.EventPress
		if ev.Type == MouseUp {
			out.Type = polygon.EventRelease
		}
		switch ev.Button {
		case ButtonLeft:
			out.Button = polygon.ButtonLeft
		case ButtonRight:
			out.Button = polygon.ButtonRight
		default:
			return polygon.Event{}, false
		}
	case MouseMove:
		out.Type = polygon.EventMove
	default:
		return polygon.Event{}, false
	}
	return out, true
}
