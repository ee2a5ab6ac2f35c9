package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrClipboardEmpty is returned when pasting without a copy buffer.
var ErrClipboardEmpty = errors.New("clipboard is empty")

// DefaultClipboardPath is the copy buffer shared between sessions.
func DefaultClipboardPath() string {
	return filepath.Join(os.TempDir(), "meshops", "copybuffer.yaml")
}

// Clipboard stores objects in a YAML file so they can be pasted into another
// scene or process.
type Clipboard struct {
	Path string
}

// NewClipboard returns a clipboard at path, or at the default path when empty.
func NewClipboard(path string) *Clipboard {
	if path == "" {
		path = DefaultClipboardPath()
	}
	return &Clipboard{Path: path}
}

// Copy writes the objects, with the materials they use, to the buffer.
func (c *Clipboard) Copy(s *Scene, objects []*Object) error {
	if len(objects) == 0 {
		return fmt.Errorf("copy: %w", ErrClipboardEmpty)
	}
	f := s.toFile(objects)
	f.Selected = nil
	f.Active = ""
	data, err := marshal(f, FormatYAML)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return fmt.Errorf("create clipboard directory: %w", err)
	}
	if err := os.WriteFile(c.Path, data, 0644); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// Paste adds the buffered objects to s with new ids and unique names and
// returns them. Missing materials are added to the scene.
func (c *Clipboard) Paste(s *Scene) ([]*Object, error) {
	data, err := os.ReadFile(c.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrClipboardEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	var f sceneFile
	if err := unmarshal(data, FormatYAML, &f); err != nil {
		return nil, err
	}
	objects, err := f.objects()
	if err != nil {
		return nil, fmt.Errorf("paste: %w", err)
	}
	if len(objects) == 0 {
		return nil, ErrClipboardEmpty
	}
	for _, mf := range f.Materials {
		if s.Material(mf.Name) == nil {
			s.Materials = append(s.Materials, &Material{Name: mf.Name, Color: mf.Color})
		}
	}
	for _, o := range objects {
		o.ID = uuid.New()
		o.Mode = ObjectMode
		s.Link(o)
	}
	return objects, nil
}
