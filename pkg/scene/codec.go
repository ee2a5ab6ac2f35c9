package scene

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
)

// ErrUnsupportedFormat is returned for scene files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported scene format")

// Format is a scene file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

type sceneFile struct {
	Cursor    cursorFile            `yaml:"cursor" toml:"cursor"`
	Tools     toolsFile             `yaml:"tools" toml:"tools"`
	Materials []materialFile        `yaml:"materials,omitempty" toml:"materials,omitempty"`
	Meshes    map[string]*mesh.Mesh `yaml:"meshes,omitempty" toml:"meshes,omitempty"`
	Objects   []objectFile          `yaml:"objects,omitempty" toml:"objects,omitempty"`
	Active    string                `yaml:"active,omitempty" toml:"active,omitempty"`
	Selected  []string              `yaml:"selected,omitempty" toml:"selected,omitempty"`
}

type cursorFile struct {
	Location [3]float32 `yaml:"location,flow" toml:"location"`
	Rotation [3]float32 `yaml:"rotation,flow" toml:"rotation"`
}

type toolsFile struct {
	SelectMode  mesh.SelectMode `yaml:"select_mode" toml:"select_mode"`
	SelectMask  mesh.SelectMask `yaml:"select_mask" toml:"select_mask"`
	PivotPoint  string          `yaml:"pivot_point,omitempty" toml:"pivot_point,omitempty"`
	Orientation string          `yaml:"orientation,omitempty" toml:"orientation,omitempty"`
	SnapTarget  string          `yaml:"snap_target,omitempty" toml:"snap_target,omitempty"`
}

type materialFile struct {
	Name  string     `yaml:"name" toml:"name"`
	Color [4]float32 `yaml:"color,flow" toml:"color"`
}

type objectFile struct {
	ID       uuid.UUID  `yaml:"id" toml:"id"`
	Name     string     `yaml:"name" toml:"name"`
	Location [3]float32 `yaml:"location,flow" toml:"location"`
	Rotation [3]float32 `yaml:"rotation,flow" toml:"rotation"`
	Scale    [3]float32 `yaml:"scale,flow" toml:"scale"`
	Mesh     string     `yaml:"mesh,omitempty" toml:"mesh,omitempty"`
	Mode     Mode       `yaml:"mode" toml:"mode"`
	Slots    []string   `yaml:"material_slots,omitempty" toml:"material_slots,omitempty"`
}

// Load reads a scene file, choosing the decoder from the extension.
func Load(path string) (*Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	s, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return s, nil
}

// Save writes the scene to path, choosing the encoder from the extension.
func Save(s *Scene, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(s, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create scene directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}

// Encode serializes the whole scene.
func Encode(s *Scene, format Format) ([]byte, error) {
	return marshal(s.toFile(s.Objects), format)
}

// Decode parses a scene.
func Decode(data []byte, format Format) (*Scene, error) {
	var f sceneFile
	if err := unmarshal(data, format, &f); err != nil {
		return nil, err
	}
	return f.toScene()
}

func marshal(f *sceneFile, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		data, err := toml.Marshal(f)
		if err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func unmarshal(data []byte, format Format, f *sceneFile) error {
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, f); err != nil {
			return fmt.Errorf("parse yaml: %w", err)
		}
		return nil
	case FormatTOML:
		if err := toml.Unmarshal(data, f); err != nil {
			return fmt.Errorf("parse toml: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// toFile snapshots the given objects. Objects sharing mesh data reference
// one entry of the meshes table, named after the first object using it.
func (s *Scene) toFile(objects []*Object) *sceneFile {
	f := &sceneFile{
		Cursor: cursorFile{
			Location: s.Cursor.Location.Array(),
			Rotation: s.Cursor.Rotation.Vec3().Array(),
		},
		Tools: toolsFile{
			SelectMode:  s.Tools.SelectMask.Mode(),
			SelectMask:  s.Tools.SelectMask,
			PivotPoint:  s.Tools.PivotPoint,
			Orientation: s.Tools.Orientation,
			SnapTarget:  s.Tools.SnapTarget,
		},
		Meshes: make(map[string]*mesh.Mesh),
	}
	used := make(map[string]bool)
	for _, o := range objects {
		for _, slot := range o.MaterialSlots {
			used[slot] = true
		}
	}
	for _, m := range s.Materials {
		if used[m.Name] || len(objects) == len(s.Objects) {
			f.Materials = append(f.Materials, materialFile{Name: m.Name, Color: m.Color})
		}
	}

	names := make(map[*mesh.Mesh]string)
	for _, o := range objects {
		of := objectFile{
			ID:       o.ID,
			Name:     o.Name,
			Location: o.Location.Array(),
			Rotation: o.Rotation.Vec3().Array(),
			Scale:    o.Scale.Array(),
			Mode:     o.Mode,
			Slots:    o.MaterialSlots,
		}
		if o.Mesh != nil {
			name, ok := names[o.Mesh]
			if !ok {
				name = o.Name
				names[o.Mesh] = name
				f.Meshes[name] = o.Mesh
			}
			of.Mesh = name
		}
		f.Objects = append(f.Objects, of)
		if s.IsSelected(o) {
			f.Selected = append(f.Selected, o.Name)
		}
		if s.active == o {
			f.Active = o.Name
		}
	}
	return f
}

// objects rebuilds the objects of the file. Meshes are validated and
// shared between objects that referenced the same entry.
func (f *sceneFile) objects() ([]*Object, error) {
	meshes := make(map[string]*mesh.Mesh, len(f.Meshes))
	for name, m := range f.Meshes {
		if m == nil {
			m = mesh.New()
		}
		m.InvalidateLookup()
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", name, err)
		}
		meshes[name] = m
	}
	out := make([]*Object, 0, len(f.Objects))
	for _, of := range f.Objects {
		obj := &Object{
			ID:            of.ID,
			Name:          of.Name,
			Location:      math.Vec3FromArray(of.Location),
			Rotation:      eulerFromArray(of.Rotation),
			Scale:         math.Vec3FromArray(of.Scale),
			Mode:          of.Mode,
			MaterialSlots: of.Slots,
		}
		if obj.ID == uuid.Nil {
			obj.ID = uuid.New()
		}
		if of.Mesh != "" {
			m, ok := meshes[of.Mesh]
			if !ok {
				return nil, fmt.Errorf("object %q: unknown mesh %q", of.Name, of.Mesh)
			}
			obj.Mesh = m
		}
		out = append(out, obj)
	}
	return out, nil
}

func (f *sceneFile) toScene() (*Scene, error) {
	s := New()
	s.Cursor = Cursor{
		Location: math.Vec3FromArray(f.Cursor.Location),
		Rotation: eulerFromArray(f.Cursor.Rotation),
	}
	mask := f.Tools.SelectMask
	if f.Tools.SelectMode != mesh.ModeMixed && f.Tools.SelectMode != mesh.ModeObject {
		mask = mesh.MaskOf(f.Tools.SelectMode)
	}
	if mask.Vertex || mask.Edge || mask.Face {
		s.Tools.SelectMask = mask
	}
	if f.Tools.PivotPoint != "" {
		s.Tools.PivotPoint = f.Tools.PivotPoint
	}
	if f.Tools.Orientation != "" {
		s.Tools.Orientation = f.Tools.Orientation
	}
	if f.Tools.SnapTarget != "" {
		s.Tools.SnapTarget = f.Tools.SnapTarget
	}
	for _, mf := range f.Materials {
		s.Materials = append(s.Materials, &Material{Name: mf.Name, Color: mf.Color})
	}

	objects, err := f.objects()
	if err != nil {
		return nil, err
	}
	s.Objects = objects
	for _, name := range f.Selected {
		if o := s.Object(name); o != nil {
			s.Select(o, true)
		}
	}
	if f.Active != "" {
		o := s.Object(f.Active)
		if o == nil {
			return nil, fmt.Errorf("active object %q: %w", f.Active, ErrObjectNotFound)
		}
		s.active = o
	}
	return s, nil
}

func eulerFromArray(a [3]float32) math.Euler {
	return math.Euler{X: a[0], Y: a[1], Z: a[2]}
}
