// Package render draws the viewer's geometry buffers with OpenGL.
package render

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshops/internal/logger"
	"github.com/Faultbox/meshops/internal/viewer/geometry"
	"github.com/Faultbox/meshops/internal/viewer/shader"
	"github.com/Faultbox/meshops/pkg/math"
)

const vertexShader = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aColor;

uniform mat4 uViewProj;
uniform float uPointSize;

out vec3 vColor;

void main() {
    gl_Position = uViewProj * vec4(aPosition, 1.0);
    gl_PointSize = uPointSize;
    vColor = aColor;
}
`

const fragmentShader = `#version 410 core
in vec3 vColor;
uniform float uAlpha;
out vec4 FragColor;

void main() {
    FragColor = vec4(vColor, uAlpha);
}
`

// Config holds renderer configuration.
type Config struct {
	Width       int
	Height      int
	Background  [3]float32
	PointSize   float32
	FaceAlpha   float32
	Multisample bool
}

// batch is one vertex array with its buffer.
type batch struct {
	vao, vbo uint32
	count    int32
}

// Renderer draws lines, points and translucent faces.
type Renderer struct {
	config  Config
	program *shader.Program

	lines, points, triangles batch

	log *zap.Logger
}

// New creates a renderer. The OpenGL context must already exist.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{config: cfg, log: logger.Named("render")}
	if r.config.PointSize == 0 {
		r.config.PointSize = 6
	}
	if r.config.FaceAlpha == 0 {
		r.config.FaceAlpha = 0.35
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	program, err := shader.New(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.program = program

	for _, b := range []*batch{&r.lines, &r.points, &r.triangles} {
		b.init()
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	if cfg.Multisample {
		gl.Enable(gl.MULTISAMPLE)
	}
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

func (b *batch) init() {
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)

	stride := int32(geometry.Stride * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
}

func (b *batch) upload(data []float32) {
	b.count = int32(len(data) / geometry.Stride)
	if b.count == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.DYNAMIC_DRAW)
}

func (b *batch) draw(mode uint32) {
	if b.count == 0 {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(mode, 0, b.count)
}

func (b *batch) release() {
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteBuffers(1, &b.vbo)
}

// Upload replaces the geometry drawn by Draw.
func (r *Renderer) Upload(buf geometry.Buffers) {
	r.lines.upload(buf.Lines)
	r.points.upload(buf.Points)
	r.triangles.upload(buf.Triangles)
}

// Resize handles window resize. Sizes are drawable pixels.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Draw clears the frame and draws the uploaded geometry.
func (r *Renderer) Draw(viewProj math.Mat4) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.program.Use()
	r.program.SetMat4("uViewProj", viewProj.Ptr())
	r.program.SetFloat("uPointSize", r.config.PointSize)

	// Faces first without depth writes so the wireframe stays visible.
	gl.DepthMask(false)
	r.program.SetFloat("uAlpha", r.config.FaceAlpha)
	r.triangles.draw(gl.TRIANGLES)
	gl.DepthMask(true)

	r.program.SetFloat("uAlpha", 1)
	r.lines.draw(gl.LINES)
	r.points.draw(gl.POINTS)

	gl.BindVertexArray(0)
}

// Close releases GL resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for _, b := range []*batch{&r.lines, &r.points, &r.triangles} {
		b.release()
	}
	r.program.Delete()
}
