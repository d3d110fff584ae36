// Package glctx implements graphics.Context on OpenGL 4.1 core through go-gl.
// Every method must run on the thread that owns the current GL context.
package glctx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"lambert/internal/graphics"
)

var _ graphics.Context = (*Context)(nil)

// Context forwards to the GL context current on the calling thread.
type Context struct{}

// New loads the GL function pointers. A context must already be current.
func New() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init gl: %w", err)
	}
	return &Context{}, nil
}

// Version returns the driver's GL version string.
func (c *Context) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (c *Context) CompileShader(stage graphics.Stage, source string) (uint32, error) {
	var shaderType uint32
	switch stage {
	case graphics.VertexStage:
		shaderType = gl.VERTEX_SHADER
	case graphics.FragmentStage:
		shaderType = gl.FRAGMENT_SHADER
	default:
		return 0, fmt.Errorf("unsupported shader stage %d", stage)
	}

	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, errors.New(strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (c *Context) DeleteShader(id uint32) {
	gl.DeleteShader(id)
}

func (c *Context) LinkProgram(vertex, fragment uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, errors.New(strings.TrimRight(log, "\x00"))
	}

	// shaders can be flagged for deletion once the program holds them
	gl.DetachShader(program, vertex)
	gl.DetachShader(program, fragment)
	return program, nil
}

func (c *Context) DeleteProgram(id uint32) { gl.DeleteProgram(id) }
func (c *Context) UseProgram(id uint32)    { gl.UseProgram(id) }

func (c *Context) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (c *Context) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (c *Context) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (c *Context) UniformMatrix3(location int32, m mgl32.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, &m[0])
}

func (c *Context) NewVertexArray() (uint32, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	if vao == 0 {
		return 0, errors.New("glGenVertexArrays returned 0")
	}
	return vao, nil
}

func (c *Context) BindVertexArray(id uint32) { gl.BindVertexArray(id) }

func (c *Context) DeleteVertexArray(id uint32) {
	gl.DeleteVertexArrays(1, &id)
}

func (c *Context) VertexBuffer(data []float32) (uint32, error) {
	return upload(gl.ARRAY_BUFFER, len(data)*4, data)
}

func (c *Context) IndexBuffer(data []uint16) (uint32, error) {
	// ELEMENT_ARRAY_BUFFER stays bound: it is vertex array state
	return upload(gl.ELEMENT_ARRAY_BUFFER, len(data)*2, data)
}

func upload(target uint32, size int, data any) (uint32, error) {
	var buf uint32
	gl.GenBuffers(1, &buf)
	if buf == 0 {
		return 0, errors.New("glGenBuffers returned 0")
	}
	gl.BindBuffer(target, buf)
	if size == 0 {
		// gl.Ptr indexes the first element, so empty slices go through as nil
		data = nil
	}
	gl.BufferData(target, size, gl.Ptr(data), gl.STATIC_DRAW)
	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteBuffers(1, &buf)
		return 0, fmt.Errorf("glBufferData: error 0x%x", code)
	}
	return buf, nil
}

func (c *Context) DeleteBuffer(id uint32) {
	gl.DeleteBuffers(1, &id)
}

func (c *Context) VertexAttrib(location uint32, components int32, buffer uint32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointer(location, components, gl.FLOAT, false, 0, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (c *Context) EnableDepthTest() {
	gl.Enable(gl.DEPTH_TEST)
}

func (c *Context) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (c *Context) Clear(color mgl32.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (c *Context) DrawIndexed(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_SHORT, nil)
}
