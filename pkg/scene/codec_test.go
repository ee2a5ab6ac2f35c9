package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshops/pkg/mesh"
)

func sampleScene(t *testing.T) *Scene {
	t.Helper()
	s := New()
	cube := s.AddObject("Cube", mesh.Cube(2))
	cube.Location = vec(1, 2, 3)
	cube.Rotation.Z = 0.5
	cube.MaterialSlots = []string{"Material"}
	cube.Mode = EditMode
	require.NoError(t, cube.Mesh.SelectByID(mesh.KindFace, []int{1}, mesh.SelectOptions{}))
	require.NoError(t, cube.Mesh.AddHistory(mesh.ElementRef{Kind: mesh.KindFace, Index: 1}))
	s.Duplicate(cube, true).Mode = ObjectMode
	s.NewMaterial()
	s.Cursor.Location = vec(0, 0, 1)
	s.Tools.SelectMask = mesh.MaskOf(mesh.ModeFace)
	s.SetActive(cube)
	s.Select(cube, true)
	return s
}

func TestSceneRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			s := sampleScene(t)
			path := filepath.Join(t.TempDir(), "scene"+ext)
			require.NoError(t, Save(s, path))

			got, err := Load(path)
			require.NoError(t, err)
			require.Len(t, got.Objects, 2)

			cube := got.Object("Cube")
			require.NotNil(t, cube)
			assert.Same(t, cube, got.Active())
			assert.True(t, got.IsSelected(cube))
			assert.Equal(t, s.Objects[0].ID, cube.ID)
			assert.Equal(t, EditMode, cube.Mode)
			assertVec(t, vec(1, 2, 3), cube.Location)
			assert.InDelta(t, 0.5, cube.Rotation.Z, eps)
			assert.Same(t, cube.Mesh, got.Object("Cube.001").Mesh, "linked meshes stay shared")
			assertVec(t, vec(0, 0, 1), got.Cursor.Location)
			assert.Equal(t, mesh.ModeFace, got.Tools.SelectMask.Mode())

			want := s.Objects[0].Mesh
			opts := []cmp.Option{cmpopts.IgnoreUnexported(mesh.Mesh{}), cmpopts.EquateEmpty()}
			if diff := cmp.Diff(want, cube.Mesh, opts...); diff != "" {
				t.Errorf("mesh mismatch (-want +got):\n%s", diff)
			}
			require.Len(t, got.Materials, 1)
			assert.Equal(t, "Material", got.Materials[0].Name)
		})
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "scene.obj"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadValidatesMeshes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := []byte(`
meshes:
  Bad:
    verts:
      - co: {x: 0, y: 0, z: 0}
    faces:
      - verts: [0, 1, 2]
objects:
  - name: Bad
    mesh: Bad
`)
	require.NoError(t, os.WriteFile(path, data, 0644))
	_, err := Load(path)
	assert.ErrorIs(t, err, mesh.ErrIndexOutOfRange)
}

func TestLoadHandWrittenYAML(t *testing.T) {
	data := []byte(`
tools:
  select_mode: EDGE
meshes:
  Tri:
    verts:
      - co: {x: 0, y: 0, z: 0}
      - co: {x: 1, y: 0, z: 0}
      - co: {x: 0, y: 1, z: 0}
    edges:
      - key: [0, 1]
      - key: [1, 2]
      - key: [0, 2]
    faces:
      - verts: [0, 1, 2]
objects:
  - name: Tri
    mesh: Tri
    scale: [1, 1, 1]
    mode: EDIT
active: Tri
`)
	s, err := Decode(data, FormatYAML)
	require.NoError(t, err)
	obj := s.Active()
	require.NotNil(t, obj)
	assert.Equal(t, mesh.ModeEdge, s.SelectionMode())
	assert.Len(t, obj.Mesh.Faces, 1)
	assert.NotEqual(t, [16]byte{}, [16]byte(obj.ID))
}

func TestClipboardCopyPaste(t *testing.T) {
	src := sampleScene(t)
	clip := NewClipboard(filepath.Join(t.TempDir(), "buffer", "copybuffer.yaml"))

	_, err := clip.Paste(src)
	assert.ErrorIs(t, err, ErrClipboardEmpty)

	require.NoError(t, clip.Copy(src, src.Objects[:1]))

	dst := New()
	dst.AddObject("Cube", mesh.Plane(1))
	pasted, err := clip.Paste(dst)
	require.NoError(t, err)
	require.Len(t, pasted, 1)
	assert.Equal(t, "Cube.001", pasted[0].Name)
	assert.NotEqual(t, src.Objects[0].ID, pasted[0].ID)
	assert.Equal(t, ObjectMode, pasted[0].Mode)
	assert.Len(t, pasted[0].Mesh.Faces, 6)
	assert.NotNil(t, dst.Material("Material"))
	assert.Len(t, dst.Objects, 2)
}

func TestDefaultClipboardPath(t *testing.T) {
	assert.Equal(t, DefaultClipboardPath(), NewClipboard("").Path)
	assert.Equal(t, "copybuffer.yaml", filepath.Base(DefaultClipboardPath()))
}
