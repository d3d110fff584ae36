package graphics

import "github.com/go-gl/mathgl/mgl32"

// Stage identifies a shader stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return "unknown"
}

// Context is the slice of a GPU API the renderer needs. Object ids are
// backend-defined and never zero for a live object. Calls that allocate or
// compile return an error; the rest are fire-and-forget like their GL
// counterparts.
type Context interface {
	// CompileShader returns a shader id, or the driver's info log as the error text.
	CompileShader(stage Stage, source string) (uint32, error)
	DeleteShader(id uint32)
	// LinkProgram links a vertex and a fragment shader into a program.
	LinkProgram(vertex, fragment uint32) (uint32, error)
	DeleteProgram(id uint32)
	UseProgram(id uint32)

	// UniformLocation and AttribLocation return -1 for names that are not
	// active in the linked program.
	UniformLocation(program uint32, name string) int32
	AttribLocation(program uint32, name string) int32
	UniformMatrix4(location int32, m mgl32.Mat4)
	UniformMatrix3(location int32, m mgl32.Mat3)

	NewVertexArray() (uint32, error)
	BindVertexArray(id uint32)
	DeleteVertexArray(id uint32)
	// VertexBuffer uploads static float data.
	VertexBuffer(data []float32) (uint32, error)
	// IndexBuffer uploads static 16-bit indices into the bound vertex array.
	IndexBuffer(data []uint16) (uint32, error)
	DeleteBuffer(id uint32)
	// VertexAttrib points attribute location at a tightly packed float buffer
	// with the given number of components per vertex and enables it.
	VertexAttrib(location uint32, components int32, buffer uint32)

	EnableDepthTest()
	Viewport(width, height int)
	Clear(color mgl32.Vec4)
	// DrawIndexed draws count indices of the bound vertex array as triangles.
	DrawIndexed(count int32)
}
