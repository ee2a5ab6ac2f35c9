package ops

import "fmt"

func axisItems(operator string, extra Params) []MenuItem {
	items := make([]MenuItem, 0, 3)
	for _, axis := range []string{"X", "Y", "Z"} {
		params := Params{"axis": axis}
		for k, v := range extra {
			params[k] = v
		}
		items = append(items, MenuItem{Label: axis, Operator: operator, Params: params})
	}
	return items
}

func builtinMenus() []MenuSpec {
	moveToZero := MenuSpec{ID: "move_to_zero", Label: "Move to Zero"}
	for _, preset := range []struct {
		label   string
		x, y, z bool
	}{
		{"ALL", true, true, true},
		{"X", true, false, false},
		{"Y", false, true, false},
		{"Z", false, false, true},
		{"XY", true, true, false},
		{"XZ", true, false, true},
		{"YZ", false, true, true},
	} {
		moveToZero.Items = append(moveToZero.Items, MenuItem{
			Label:    preset.label,
			Operator: "move_to_zero",
			Params:   Params{"x": preset.x, "y": preset.y, "z": preset.z},
		})
	}

	setPivot := MenuSpec{ID: "set_pivot", Label: "Set Pivot", Pie: true}
	for _, target := range []string{
		TargetActive, TargetSelection, TargetOrigin, TargetCursor, TargetBBCenter,
		TargetBBBottom, TargetBBTop, TargetBBFront, TargetBBBack, TargetBBLeft, TargetBBRight,
	} {
		setPivot.Items = append(setPivot.Items, MenuItem{
			Label:    target,
			Operator: "set_pivot",
			Params:   Params{"target": target},
		})
	}

	actionCenter := MenuSpec{ID: "action_center", Label: "Action Center"}
	for _, preset := range ActionCenters {
		actionCenter.Items = append(actionCenter.Items, MenuItem{
			Label:    preset,
			Operator: "set_action_center",
			Params:   Params{"action_center": preset},
		})
	}

	// Submenus come before the menus that open them.
	return []MenuSpec{
		{
			ID:    "quick_mirror",
			Label: "Quick Mirror",
			Items: axisItems("quick_mirror", Params{
				"pivot":         PivotOrigin,
				"scope":         ScopeIsland,
				"delete_target": ScopeIsland,
				"auto_merge":    true,
			}),
		},
		{ID: "scale_to_zero", Label: "Scale to Zero", Items: axisItems("scale_to_zero", nil)},
		moveToZero,
		setPivot,
		actionCenter,
		{
			ID:    "duplicate",
			Label: "Duplicate",
			Pie:   true,
			Items: []MenuItem{
				{Label: "Radial Array", Operator: "radial_array"},
				{Label: "Quick Mirror", Menu: "quick_mirror"},
				{Label: "Linear Array", Operator: "linear_array"},
				{Label: "Scatter Duplicate", Operator: "scatter_duplicate"},
			},
		},
		{
			ID:    "create_and_center",
			Label: "Create and Center",
			Pie:   true,
			Items: []MenuItem{
				{Label: "Draw Polygon", Operator: "make_polygon"},
				{Label: "Center on Axis", Menu: "move_to_zero"},
				{Label: "Scale to Zero", Menu: "scale_to_zero"},
				{Label: "Duplicate", Menu: "duplicate"},
			},
		},
	}
}

func builtinOperators() []OperatorSpec {
	return []OperatorSpec{
		quickMirror(),
		radialArray(),
		linearArray(),
		scatterDuplicate(),
		moveToZero(),
		scaleToZero(),
		rotateToZero(),
		mergeToActive(),
		mergeByType(),
		selectLoop(),
		loopSlice(),
		connectOrKnife(),
		selectEdgeOrIsland(),
		makeFace(),
		deleteElements(),
		setCursor(),
		setPivot(),
		setActionCenter(),
		setSelectionMode(),
		moveToFace(),
		applyMaterial(),
		copyToMesh(),
		copyToClipboard(),
		pasteFromClipboard(),
		makePolygon(),
	}
}

// Default returns a registry holding every built-in operator and menu.
func Default() *Registry {
	r := NewRegistry()
	for _, op := range builtinOperators() {
		if err := r.Register(op); err != nil {
			panic(fmt.Sprintf("ops: %v", err))
		}
	}
	for _, menu := range builtinMenus() {
		if err := r.RegisterMenu(menu); err != nil {
			panic(fmt.Sprintf("ops: %v", err))
		}
	}
	return r
}
