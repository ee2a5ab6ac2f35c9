// Package geometry builds the vertex data the viewer draws: object
// wireframes, vertex points, shaded faces, the ground grid and the 3D cursor.
//
// Every vertex is six floats, position then color, so a buffer can be
// uploaded as-is.
package geometry

import (
	"github.com/Faultbox/meshops/pkg/math"
	"github.com/Faultbox/meshops/pkg/mesh"
	"github.com/Faultbox/meshops/pkg/scene"
)

// Stride is the number of floats per vertex.
const Stride = 6

// Color is an RGB color.
type Color [3]float32

// Colors used when drawing.
var (
	ColorWire         = Color{0.05, 0.05, 0.05}
	ColorWireObject   = Color{0.55, 0.55, 0.55}
	ColorSelected     = Color{1.0, 0.55, 0.15}
	ColorActive       = Color{1.0, 0.85, 0.45}
	ColorFace         = Color{0.45, 0.45, 0.48}
	ColorFaceSelected = Color{0.75, 0.5, 0.3}
	ColorGrid         = Color{0.3, 0.3, 0.3}
	ColorAxisX        = Color{0.8, 0.2, 0.25}
	ColorAxisY        = Color{0.4, 0.7, 0.15}
	ColorCursor       = Color{0.9, 0.1, 0.1}
)

// Buffers holds interleaved position/color data per primitive type.
type Buffers struct {
	Lines     []float32
	Points    []float32
	Triangles []float32
}

// LineCount returns the number of vertices in Lines.
func (b Buffers) LineCount() int { return len(b.Lines) / Stride }

// PointCount returns the number of vertices in Points.
func (b Buffers) PointCount() int { return len(b.Points) / Stride }

// TriangleCount returns the number of vertices in Triangles.
func (b Buffers) TriangleCount() int { return len(b.Triangles) / Stride }

// Options controls what Build adds besides the objects.
type Options struct {
	GridLines   int // Lines on each side of the axes, 0 disables the grid
	GridSpacing float32
	CursorSize  float32 // 0 hides the cursor
}

// DefaultOptions returns the viewer defaults.
func DefaultOptions() Options {
	return Options{GridLines: 10, GridSpacing: 1, CursorSize: 0.3}
}

func appendVertex(buf []float32, p math.Vec3, c Color) []float32 {
	return append(buf, p.X, p.Y, p.Z, c[0], c[1], c[2])
}

func appendLine(buf []float32, a, b math.Vec3, c Color) []float32 {
	return appendVertex(appendVertex(buf, a, c), b, c)
}

// Build collects the draw data for a scene.
func Build(s *scene.Scene, opts Options) Buffers {
	var b Buffers
	if opts.GridLines > 0 {
		b.Lines = Grid(b.Lines, opts.GridLines, opts.GridSpacing)
	}
	for _, obj := range s.Objects {
		if !obj.IsMesh() {
			continue
		}
		if obj.Mode == scene.EditMode {
			b.addEditObject(s, obj)
		} else {
			b.addObject(s, obj)
		}
	}
	if opts.CursorSize > 0 {
		b.Lines = Cursor(b.Lines, s.Cursor, opts.CursorSize)
	}
	return b
}

// addObject draws an object-mode mesh: one wire color for the whole object.
func (b *Buffers) addObject(s *scene.Scene, obj *scene.Object) {
	wire := ColorWireObject
	switch {
	case obj == s.Active() && s.IsSelected(obj):
		wire = ColorActive
	case s.IsSelected(obj):
		wire = ColorSelected
	}
	world := obj.World()
	m := obj.Mesh
	for _, e := range m.Edges {
		b.Lines = appendLine(b.Lines,
			world.TransformVec3(m.Verts[e.Key[0]].Co),
			world.TransformVec3(m.Verts[e.Key[1]].Co), wire)
	}
	for f := range m.Faces {
		b.addFace(s, obj, world, f, false)
	}
}

// addEditObject draws an edit-mode mesh with per-element selection colors.
func (b *Buffers) addEditObject(s *scene.Scene, obj *scene.Object) {
	world := obj.World()
	m := obj.Mesh
	mask := s.Tools.SelectMask
	active, hasActive := m.Active()

	for i, e := range m.Edges {
		c := ColorWire
		if e.Select {
			c = ColorSelected
			if hasActive && active == (mesh.ElementRef{Kind: mesh.KindEdge, Index: i}) {
				c = ColorActive
			}
		}
		b.Lines = appendLine(b.Lines,
			world.TransformVec3(m.Verts[e.Key[0]].Co),
			world.TransformVec3(m.Verts[e.Key[1]].Co), c)
	}
	if mask.Vertex {
		for i, v := range m.Verts {
			c := ColorWire
			if v.Select {
				c = ColorSelected
				if hasActive && active == (mesh.ElementRef{Kind: mesh.KindVertex, Index: i}) {
					c = ColorActive
				}
			}
			b.Points = appendVertex(b.Points, world.TransformVec3(v.Co), c)
		}
	}
	for f := range m.Faces {
		b.addFace(s, obj, world, f, mask.Face)
	}
}

// addFace fan triangulates a face. Faces take their material color, or the
// selection color when highlight is set and the face is selected.
func (b *Buffers) addFace(s *scene.Scene, obj *scene.Object, world math.Mat4, f int, highlight bool) {
	m := obj.Mesh
	face := m.Faces[f]
	c := ColorFace
	if mat := s.Material(obj.FaceMaterial(f)); mat != nil {
		c = Color{mat.Color[0], mat.Color[1], mat.Color[2]}
	}
	if highlight && face.Select {
		c = ColorFaceSelected
	}
	p0 := world.TransformVec3(m.Verts[face.Verts[0]].Co)
	for i := 1; i+1 < len(face.Verts); i++ {
		b.Triangles = appendVertex(b.Triangles, p0, c)
		b.Triangles = appendVertex(b.Triangles, world.TransformVec3(m.Verts[face.Verts[i]].Co), c)
		b.Triangles = appendVertex(b.Triangles, world.TransformVec3(m.Verts[face.Verts[i+1]].Co), c)
	}
}

// Grid appends a ground grid on the XY plane. The lines through the origin
// use the axis colors.
func Grid(buf []float32, lines int, spacing float32) []float32 {
	ext := float32(lines) * spacing
	for i := -lines; i <= lines; i++ {
		d := float32(i) * spacing
		cx, cy := ColorGrid, ColorGrid
		if i == 0 {
			cx, cy = ColorAxisX, ColorAxisY
		}
		buf = appendLine(buf, math.Vec3{X: -ext, Y: d}, math.Vec3{X: ext, Y: d}, cx)
		buf = appendLine(buf, math.Vec3{X: d, Y: -ext}, math.Vec3{X: d, Y: ext}, cy)
	}
	return buf
}

// Cursor appends the 3D cursor as three short lines along its local axes.
func Cursor(buf []float32, cursor scene.Cursor, size float32) []float32 {
	q := cursor.Rotation.Quat()
	for _, axis := range []math.Vec3{{X: 1}, {Y: 1}, {Z: 1}} {
		d := q.Rotate(axis).Scale(size)
		buf = appendLine(buf, cursor.Location.Sub(d), cursor.Location.Add(d), ColorCursor)
	}
	return buf
}
