// Package shader compiles OpenGL programs and caches their uniform locations.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Program is a linked shader program.
type Program struct {
	ID       uint32
	uniforms map[string]int32
}

// New compiles the vertex and fragment sources and links them.
func New(vertexSrc, fragmentSrc string) (*Program, error) {
	vert, err := compile(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vert)

	frag, err := compile(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		msg := infoLog(logLen, func(buf *uint8) { gl.GetProgramInfoLog(id, logLen, nil, buf) })
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("link: %s", msg)
	}
	return &Program{ID: id, uniforms: make(map[string]int32)}, nil
}

func compile(source string, kind uint32) (uint32, error) {
	id := gl.CreateShader(kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(id, 1, csource, nil)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLen)
		msg := infoLog(logLen, func(buf *uint8) { gl.GetShaderInfoLog(id, logLen, nil, buf) })
		gl.DeleteShader(id)
		return 0, fmt.Errorf("compile: %s", msg)
	}
	return id, nil
}

func infoLog(n int32, read func(*uint8)) string {
	if n <= 0 {
		return "no info log"
	}
	buf := make([]uint8, n+1)
	read(&buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Uniform returns the location of a uniform, or -1 when the program has none
// by that name. Locations are looked up once.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.ID, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

// SetMat4 sets a mat4 uniform from 16 column-major floats.
func (p *Program) SetMat4(name string, m *float32) {
	gl.UniformMatrix4fv(p.Uniform(name), 1, false, m)
}

// SetFloat sets a float uniform.
func (p *Program) SetFloat(name string, v float32) {
	gl.Uniform1f(p.Uniform(name), v)
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}
