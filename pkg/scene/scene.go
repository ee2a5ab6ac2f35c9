// Package scene holds the objects the mesh tools operate on: object
// transforms, the active and selected objects, the 3D cursor, tool settings
// and materials. It also provides ray casting, a copy buffer and scene files.
package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
)

var (
	// ErrNoActiveObject is returned when an operation needs an active object.
	ErrNoActiveObject = errors.New("no active object")
	// ErrObjectNotFound is returned for unknown object names or ids.
	ErrObjectNotFound = errors.New("object not found")
)

// Tool setting values.
const (
	PivotBoundingBoxCenter  = "BOUNDING_BOX_CENTER"
	PivotActiveElement      = "ACTIVE_ELEMENT"
	PivotIndividualOrigins  = "INDIVIDUAL_ORIGINS"
	PivotCursor             = "CURSOR"
	PivotMedianPoint        = "MEDIAN_POINT"
	OrientationGlobal       = "GLOBAL"
	OrientationLocal        = "LOCAL"
	OrientationView         = "VIEW"
	OrientationNormal       = "NORMAL"
	OrientationCursor       = "CURSOR"
	SnapTargetCenter        = "CENTER"
	SnapTargetActive        = "ACTIVE"
	defaultMaterialBaseName = "Material"
)

// Cursor is the 3D cursor.
type Cursor struct {
	Location math.Vec3
	Rotation math.Euler
}

// ToolSettings mirrors the editor's transform and selection settings.
type ToolSettings struct {
	SelectMask  mesh.SelectMask
	PivotPoint  string
	Orientation string
	SnapTarget  string
}

// Material is a named surface colour.
type Material struct {
	Name  string
	Color [4]float32
}

// Scene is the set of objects being edited.
type Scene struct {
	Objects   []*Object
	Cursor    Cursor
	Tools     ToolSettings
	Materials []*Material

	active   *Object
	selected map[uuid.UUID]bool
}

// New returns an empty scene in vertex selection mode.
func New() *Scene {
	return &Scene{
		Tools: ToolSettings{
			SelectMask:  mesh.MaskOf(mesh.ModeVertex),
			PivotPoint:  PivotMedianPoint,
			Orientation: OrientationGlobal,
			SnapTarget:  SnapTargetCenter,
		},
		selected: make(map[uuid.UUID]bool),
	}
}

// AddObject adds a mesh object with a unique name derived from name.
func (s *Scene) AddObject(name string, m *mesh.Mesh) *Object {
	obj := NewObject(s.UniqueName(name), m)
	s.Objects = append(s.Objects, obj)
	return obj
}

// Link adds an existing object, renaming it when its name is taken.
func (s *Scene) Link(obj *Object) {
	if obj.ID == uuid.Nil {
		obj.ID = uuid.New()
	}
	obj.Name = s.UniqueName(obj.Name)
	s.Objects = append(s.Objects, obj)
}

// UniqueName returns name, or name with the first free ".NNN" suffix.
func (s *Scene) UniqueName(name string) string {
	if name == "" {
		name = "Object"
	}
	if s.Object(name) == nil {
		return name
	}
	base := name
	if i := strings.LastIndexByte(name, '.'); i > 0 && isDigits(name[i+1:]) {
		base = name[:i]
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s.%03d", base, n)
		if s.Object(candidate) == nil {
			return candidate
		}
	}
}

// Object returns the object with the given name, or nil.
func (s *Scene) Object(name string) *Object {
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// ObjectByID returns the object with the given id, or nil.
func (s *Scene) ObjectByID(id uuid.UUID) *Object {
	for _, o := range s.Objects {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// Remove deletes an object from the scene.
func (s *Scene) Remove(obj *Object) {
	for i, o := range s.Objects {
		if o == obj {
			s.Objects = append(s.Objects[:i], s.Objects[i+1:]...)
			break
		}
	}
	delete(s.selected, obj.ID)
	if s.active == obj {
		s.active = nil
	}
}

// SetActive makes obj the active object. nil clears it.
func (s *Scene) SetActive(obj *Object) {
	s.active = obj
}

// Active returns the active object, or nil.
func (s *Scene) Active() *Object {
	return s.active
}

// ActiveObject returns the active object or ErrNoActiveObject.
func (s *Scene) ActiveObject() (*Object, error) {
	if s.active == nil {
		return nil, ErrNoActiveObject
	}
	return s.active, nil
}

// ActiveMesh returns the active object when it carries a mesh.
func (s *Scene) ActiveMesh() (*Object, error) {
	obj, err := s.ActiveObject()
	if err != nil {
		return nil, err
	}
	if !obj.IsMesh() {
		return nil, fmt.Errorf("object %q is not a mesh", obj.Name)
	}
	return obj, nil
}

// Select sets the selection state of an object.
func (s *Scene) Select(obj *Object, sel bool) {
	if s.selected == nil {
		s.selected = make(map[uuid.UUID]bool)
	}
	if sel {
		s.selected[obj.ID] = true
	} else {
		delete(s.selected, obj.ID)
	}
}

// IsSelected reports whether obj is selected.
func (s *Scene) IsSelected(obj *Object) bool {
	return s.selected[obj.ID]
}

// Selected returns the selected objects in scene order.
func (s *Scene) Selected() []*Object {
	var out []*Object
	for _, o := range s.Objects {
		if s.selected[o.ID] {
			out = append(out, o)
		}
	}
	return out
}

// DeselectAll clears the object selection.
func (s *Scene) DeselectAll() {
	s.selected = make(map[uuid.UUID]bool)
}

// Duplicate copies an object into the scene. Linked copies share the mesh.
func (s *Scene) Duplicate(obj *Object, linked bool) *Object {
	dup := &Object{
		ID:            uuid.New(),
		Name:          s.UniqueName(obj.Name),
		Location:      obj.Location,
		Rotation:      obj.Rotation,
		Scale:         obj.Scale,
		Mesh:          obj.Mesh,
		MaterialSlots: append([]string(nil), obj.MaterialSlots...),
	}
	if !linked && obj.Mesh != nil {
		dup.Mesh = obj.Mesh.Copy()
	}
	s.Objects = append(s.Objects, dup)
	return dup
}

// Join merges the meshes of others into target and removes them from the
// scene. Geometry keeps its world position; material slots are merged by name.
func (s *Scene) Join(target *Object, others []*Object) error {
	if !target.IsMesh() {
		return fmt.Errorf("join: target %q is not a mesh", target.Name)
	}
	inv := target.World().Inverse()
	for _, o := range others {
		if o == target || !o.IsMesh() {
			continue
		}
		slots := make([]int, len(o.MaterialSlots))
		for i, name := range o.MaterialSlots {
			slots[i] = target.EnsureSlot(name)
		}
		if _, err := target.Mesh.Join(o.Mesh, inv.Mul(o.World()), slots); err != nil {
			return fmt.Errorf("join %q into %q: %w", o.Name, target.Name, err)
		}
		s.Remove(o)
	}
	return nil
}

// EditObjects returns the objects currently in edit mode.
func (s *Scene) EditObjects() []*Object {
	var out []*Object
	for _, o := range s.Objects {
		if o.Mode == EditMode && o.IsMesh() {
			out = append(out, o)
		}
	}
	return out
}

// EditedMeshes returns one edit-mode object per distinct mesh, so linked
// duplicates are edited once. The active object stands for its mesh when it
// is in edit mode, otherwise the first user in scene order does.
func (s *Scene) EditedMeshes() []*Object {
	seen := make(map[*mesh.Mesh]int)
	var out []*Object
	for _, o := range s.EditObjects() {
		if i, ok := seen[o.Mesh]; ok {
			if o == s.active {
				out[i] = o
			}
			continue
		}
		seen[o.Mesh] = len(out)
		out = append(out, o)
	}
	return out
}

// Users returns the objects that share the mesh m, in scene order.
func (s *Scene) Users(m *mesh.Mesh) []*Object {
	var out []*Object
	for _, o := range s.Objects {
		if m != nil && o.Mesh == m {
			out = append(out, o)
		}
	}
	return out
}

// InEditMode reports whether the active object is being edited.
func (s *Scene) InEditMode() bool {
	return s.active != nil && s.active.Mode == EditMode
}

// SelectionMode returns OBJECT outside edit mode, otherwise the mode of the
// selection mask.
func (s *Scene) SelectionMode() mesh.SelectMode {
	if !s.InEditMode() {
		return mesh.ModeObject
	}
	return s.Tools.SelectMask.Mode()
}

// SetSelectionMode switches the selection granularity. Element modes enter
// edit mode on the active and selected mesh objects; ModeMixed applies mask.
// The edited meshes pass through object mode and are flushed for the new mode.
func (s *Scene) SetSelectionMode(mode mesh.SelectMode, mask mesh.SelectMask) error {
	if mode == mesh.ModeObject {
		for _, o := range s.Objects {
			o.Mode = ObjectMode
		}
		return nil
	}
	obj, err := s.ActiveMesh()
	if err != nil {
		return err
	}
	if mode != mesh.ModeMixed {
		mask = mesh.MaskOf(mode)
	}
	if !mask.Vertex && !mask.Edge && !mask.Face {
		return fmt.Errorf("set selection mode: empty mask")
	}
	editing := s.EditObjects()
	if len(editing) == 0 {
		s.Select(obj, true)
		for _, o := range s.Selected() {
			if o.IsMesh() {
				editing = append(editing, o)
			}
		}
	}
	s.Tools.SelectMask = mask
	for _, o := range editing {
		o.Mode = ObjectMode
		o.Mesh.SelectFlush(mask)
		o.Mode = EditMode
	}
	return nil
}

// NewMaterial adds a material named "Material", "Material.001", ...
func (s *Scene) NewMaterial() *Material {
	name := defaultMaterialBaseName
	for n := 1; s.Material(name) != nil; n++ {
		name = fmt.Sprintf("%s.%03d", defaultMaterialBaseName, n)
	}
	mat := &Material{Name: name, Color: [4]float32{0.8, 0.8, 0.8, 1}}
	s.Materials = append(s.Materials, mat)
	return mat
}

// Material returns the named material, or nil.
func (s *Scene) Material(name string) *Material {
	for _, m := range s.Materials {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
