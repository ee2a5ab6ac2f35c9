package scene

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
)

// Mode is the interaction mode of an object.
type Mode int

const (
	ObjectMode Mode = iota
	EditMode
)

func (m Mode) String() string {
	if m == EditMode {
		return "EDIT"
	}
	return "OBJECT"
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "OBJECT", "":
		*m = ObjectMode
	case "EDIT":
		*m = EditMode
	default:
		return fmt.Errorf("unknown object mode %q", text)
	}
	return nil
}

// Object places a mesh in the scene. Linked duplicates share the same Mesh.
type Object struct {
	ID       uuid.UUID
	Name     string
	Location math.Vec3
	Rotation math.Euler
	Scale    math.Vec3
	Mesh     *mesh.Mesh
	Mode     Mode
	// MaterialSlots holds material names; face material indices point into it.
	MaterialSlots []string
}

// NewObject returns an object with identity transform.
func NewObject(name string, m *mesh.Mesh) *Object {
	return &Object{
		ID:    uuid.New(),
		Name:  name,
		Scale: math.Vec3{X: 1, Y: 1, Z: 1},
		Mesh:  m,
	}
}

// World returns the object's world matrix.
func (o *Object) World() math.Mat4 {
	return math.Compose(o.Location, o.Rotation, o.Scale)
}

// IsMesh reports whether the object carries mesh data.
func (o *Object) IsMesh() bool {
	return o.Mesh != nil
}

// SlotIndex returns the slot holding the material, or -1.
func (o *Object) SlotIndex(material string) int {
	for i, s := range o.MaterialSlots {
		if s == material {
			return i
		}
	}
	return -1
}

// EnsureSlot returns the slot of the material, appending one when missing.
func (o *Object) EnsureSlot(material string) int {
	if i := o.SlotIndex(material); i >= 0 {
		return i
	}
	o.MaterialSlots = append(o.MaterialSlots, material)
	return len(o.MaterialSlots) - 1
}

// FaceMaterial returns the material name of a face. Indices past the last
// slot resolve to the last slot; objects without slots return "".
func (o *Object) FaceMaterial(face int) string {
	if len(o.MaterialSlots) == 0 || o.Mesh == nil || face < 0 || face >= len(o.Mesh.Faces) {
		return ""
	}
	idx := o.Mesh.Faces[face].Material
	if idx >= len(o.MaterialSlots) {
		idx = len(o.MaterialSlots) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return o.MaterialSlots[idx]
}

// AssignMaterial sets the material of the given faces, adding a slot for it
// when the object does not have one yet.
func (o *Object) AssignMaterial(faces []int, material string) error {
	if o.Mesh == nil {
		return fmt.Errorf("assign material: object %q has no mesh", o.Name)
	}
	for _, f := range faces {
		if f < 0 || f >= len(o.Mesh.Faces) {
			return fmt.Errorf("assign material: %w: face %d", mesh.ErrIndexOutOfRange, f)
		}
	}
	slot := o.EnsureSlot(material)
	for _, f := range faces {
		o.Mesh.Faces[f].Material = slot
	}
	return nil
}
