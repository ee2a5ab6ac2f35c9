package event

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Faultbox/meshops/internal/config"
	"github.com/Faultbox/meshops/internal/ops"
)

// Viewer actions a binding can trigger instead of an operator.
const (
	ActionToggleEdit = "toggle_edit"
	ActionFrameAll   = "frame_all"
	ActionSave       = "save"
	ActionQuit       = "quit"
)

var actions = map[string]bool{
	ActionToggleEdit: true,
	ActionFrameAll:   true,
	ActionSave:       true,
	ActionQuit:       true,
}

// Keymap maps normalized key combos to bindings.
type Keymap map[string]config.KeyBinding

func op(id string, params ops.Params) config.KeyBinding {
	return config.KeyBinding{Operator: id, Params: params}
}

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() Keymap {
	k := Keymap{}
	k["Tab"] = config.KeyBinding{Action: ActionToggleEdit}
	k["Home"] = config.KeyBinding{Action: ActionFrameAll}
	k["Ctrl+S"] = config.KeyBinding{Action: ActionSave}
	k["Ctrl+Q"] = config.KeyBinding{Action: ActionQuit}
	k["1"] = op("set_selection_mode", ops.Params{"selection_mode": "VERT"})
	k["2"] = op("set_selection_mode", ops.Params{"selection_mode": "EDGE"})
	k["3"] = op("set_selection_mode", ops.Params{"selection_mode": "FACE"})
	k["M"] = config.KeyBinding{Menu: "quick_mirror"}
	k["Shift+D"] = config.KeyBinding{Menu: "duplicate"}
	k["Q"] = config.KeyBinding{Menu: "create_and_center"}
	k["Shift+S"] = config.KeyBinding{Menu: "set_pivot"}
	k["Shift+A"] = config.KeyBinding{Menu: "action_center"}
	k["Shift+Z"] = config.KeyBinding{Menu: "scale_to_zero"}
	k["Alt+G"] = config.KeyBinding{Menu: "move_to_zero"}
	k["Alt+R"] = op("rotate_to_zero", nil)
	k["Shift+C"] = op("set_cursor", ops.Params{"target": "SELECTION"})
	k["L"] = op("select_loop", nil)
	k["Alt+L"] = op("select_edge_or_island", nil)
	k["Ctrl+R"] = op("loop_slice", nil)
	k["K"] = op("connect_or_knife", nil)
	k["Alt+M"] = op("merge_by_type", nil)
	k["Ctrl+M"] = op("merge_to_active", nil)
	k["F"] = op("make_face", nil)
	k["X"] = op("delete", nil)
	k["Ctrl+X"] = op("delete", ops.Params{"dissolve": true})
	k["P"] = op("make_polygon", nil)
	k["G"] = op("move_to_face", ops.Params{"orient": true})
	k["Alt+A"] = op("apply_material", nil)
	k["Alt+C"] = op("copy_to_mesh", nil)
	k["Ctrl+C"] = op("copy_to_clipboard", nil)
	k["Ctrl+Shift+X"] = op("copy_to_clipboard", ops.Params{"cut": true})
	k["Ctrl+V"] = op("paste_from_clipboard", nil)
	return k
}

// NormalizeCombo rewrites a combo so modifiers appear as Ctrl, Alt, Shift in
// that order, e.g. "shift+ctrl+m" becomes "Ctrl+Shift+M".
func NormalizeCombo(s string) (string, error) {
	parts := strings.Split(s, "+")
	key := strings.TrimSpace(parts[len(parts)-1])
	if key == "" {
		return "", fmt.Errorf("combo %q has no key", s)
	}
	var mod Mod
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "shift":
			mod |= ModShift
		case "ctrl", "control":
			mod |= ModCtrl
		case "alt":
			mod |= ModAlt
		default:
			return "", fmt.Errorf("combo %q: unknown modifier %q", s, p)
		}
	}
	if len(key) == 1 {
		key = strings.ToUpper(key)
	}
	return comboString(mod, key), nil
}

// Merge returns a copy of k with the overrides applied. Override combos are
// normalized first.
func (k Keymap) Merge(overrides map[string]config.KeyBinding) (Keymap, error) {
	out := make(Keymap, len(k)+len(overrides))
	for combo, b := range k {
		out[combo] = b
	}
	for combo, b := range overrides {
		norm, err := NormalizeCombo(combo)
		if err != nil {
			return nil, err
		}
		out[norm] = b
	}
	return out, nil
}

// Lookup returns the binding for a key press.
func (k Keymap) Lookup(ev Event) (config.KeyBinding, bool) {
	if ev.Type != KeyDown {
		return config.KeyBinding{}, false
	}
	b, ok := k[ev.Combo()]
	return b, ok
}

// Validate checks that every binding names exactly one known target.
func (k Keymap) Validate(r *ops.Registry) error {
	combos := make([]string, 0, len(k))
	for combo := range k {
		combos = append(combos, combo)
	}
	sort.Strings(combos)

	for _, combo := range combos {
		b := k[combo]
		targets := 0
		if b.Operator != "" {
			targets++
			if _, err := r.Operator(b.Operator); err != nil {
				return fmt.Errorf("key %s: %w", combo, err)
			}
		}
		if b.Menu != "" {
			targets++
			if r.Menu(b.Menu) == nil {
				return fmt.Errorf("key %s: unknown menu %q", combo, b.Menu)
			}
		}
		if b.Action != "" {
			targets++
			if !actions[b.Action] {
				return fmt.Errorf("key %s: unknown action %q", combo, b.Action)
			}
		}
		if targets != 1 {
			return fmt.Errorf("key %s: binding needs exactly one of operator, menu or action", combo)
		}
	}
	return nil
}
