// Package soft is a CPU implementation of graphics.Context. It understands
// just enough GLSL to emulate compile, link and dead-uniform elimination, and
// rasterizes indexed triangles with the Lambert fragment model into an RGBA
// image. It backs the headless mode and every GL-free test.
package soft

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"lambert/internal/graphics"
)

var _ graphics.Context = (*Context)(nil)

type attribBinding struct {
	buffer     uint32
	components int32
}

type vertexArray struct {
	attribs  map[uint32]attribBinding
	elements uint32
}

// Stats counts submitted work since the last ResetStats.
type Stats struct {
	DrawCalls int
	Triangles int
	Clears    int
}

// Context renders into an in-memory framebuffer.
type Context struct {
	nextID uint32

	shaders      map[uint32]*shader
	programs     map[uint32]*program
	floatBuffers map[uint32][]float32
	indexBuffers map[uint32][]uint16
	vertexArrays map[uint32]*vertexArray

	current   uint32
	boundVAO  uint32
	depthTest bool

	color *image.RGBA
	depth []float32

	stats Stats

	// FailOn makes the named allocation ("NewVertexArray", "VertexBuffer",
	// "IndexBuffer") fail once. Used to exercise cleanup paths.
	FailOn string
}

// New creates a context with a width x height framebuffer.
func New(width, height int) *Context {
	c := &Context{
		nextID:       1,
		shaders:      make(map[uint32]*shader),
		programs:     make(map[uint32]*program),
		floatBuffers: make(map[uint32][]float32),
		indexBuffers: make(map[uint32][]uint16),
		vertexArrays: make(map[uint32]*vertexArray),
	}
	c.Viewport(width, height)
	return c
}

func (c *Context) id() uint32 {
	id := c.nextID
	c.nextID++
	return id
}

func (c *Context) fail(op string) error {
	if c.FailOn == op {
		c.FailOn = ""
		return fmt.Errorf("%s: injected failure", op)
	}
	return nil
}

// Image returns the color attachment. It is reallocated by Viewport.
func (c *Context) Image() *image.RGBA { return c.color }

func (c *Context) Stats() Stats { return c.stats }
func (c *Context) ResetStats()  { c.stats = Stats{} }

// Live returns the number of shader, program, buffer and vertex array
// objects that have not been deleted.
func (c *Context) Live() int {
	return len(c.shaders) + len(c.programs) + len(c.floatBuffers) + len(c.indexBuffers) + len(c.vertexArrays)
}

func (c *Context) CompileShader(stage graphics.Stage, source string) (uint32, error) {
	sh, err := parseShader(stage, source)
	if err != nil {
		return 0, err
	}
	id := c.id()
	c.shaders[id] = sh
	return id, nil
}

func (c *Context) DeleteShader(id uint32) { delete(c.shaders, id) }

func (c *Context) LinkProgram(vertex, fragment uint32) (uint32, error) {
	vs, ok := c.shaders[vertex]
	if !ok {
		return 0, fmt.Errorf("error: no shader object %d", vertex)
	}
	fs, ok := c.shaders[fragment]
	if !ok {
		return 0, fmt.Errorf("error: no shader object %d", fragment)
	}
	p, err := linkProgram(vs, fs)
	if err != nil {
		return 0, err
	}
	id := c.id()
	c.programs[id] = p
	return id, nil
}

func (c *Context) DeleteProgram(id uint32) {
	delete(c.programs, id)
	if c.current == id {
		c.current = 0
	}
}

func (c *Context) UseProgram(id uint32) { c.current = id }

func (c *Context) UniformLocation(program uint32, name string) int32 {
	p, ok := c.programs[program]
	if !ok {
		return -1
	}
	if loc, ok := p.uniformIdx[name]; ok {
		return loc
	}
	return -1
}

func (c *Context) AttribLocation(program uint32, name string) int32 {
	p, ok := c.programs[program]
	if !ok {
		return -1
	}
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	return -1
}

func (c *Context) UniformMatrix4(location int32, m mgl32.Mat4) {
	if p, ok := c.programs[c.current]; ok && location >= 0 {
		p.values[location] = m
	}
}

func (c *Context) UniformMatrix3(location int32, m mgl32.Mat3) {
	if p, ok := c.programs[c.current]; ok && location >= 0 {
		p.values[location] = m
	}
}

func (c *Context) NewVertexArray() (uint32, error) {
	if err := c.fail("NewVertexArray"); err != nil {
		return 0, err
	}
	id := c.id()
	c.vertexArrays[id] = &vertexArray{attribs: make(map[uint32]attribBinding)}
	return id, nil
}

func (c *Context) BindVertexArray(id uint32) { c.boundVAO = id }

func (c *Context) DeleteVertexArray(id uint32) {
	delete(c.vertexArrays, id)
	if c.boundVAO == id {
		c.boundVAO = 0
	}
}

func (c *Context) VertexBuffer(data []float32) (uint32, error) {
	if err := c.fail("VertexBuffer"); err != nil {
		return 0, err
	}
	id := c.id()
	c.floatBuffers[id] = append([]float32(nil), data...)
	return id, nil
}

func (c *Context) IndexBuffer(data []uint16) (uint32, error) {
	if err := c.fail("IndexBuffer"); err != nil {
		return 0, err
	}
	vao, ok := c.vertexArrays[c.boundVAO]
	if !ok {
		return 0, errors.New("index buffer needs a bound vertex array")
	}
	id := c.id()
	c.indexBuffers[id] = append([]uint16(nil), data...)
	vao.elements = id
	return id, nil
}

func (c *Context) DeleteBuffer(id uint32) {
	delete(c.floatBuffers, id)
	delete(c.indexBuffers, id)
}

func (c *Context) VertexAttrib(location uint32, components int32, buffer uint32) {
	if vao, ok := c.vertexArrays[c.boundVAO]; ok {
		vao.attribs[location] = attribBinding{buffer: buffer, components: components}
	}
}

func (c *Context) EnableDepthTest() { c.depthTest = true }

func (c *Context) Viewport(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if c.color != nil && c.color.Rect.Dx() == width && c.color.Rect.Dy() == height {
		return
	}
	c.color = image.NewRGBA(image.Rect(0, 0, width, height))
	c.depth = make([]float32, width*height)
}

func (c *Context) Clear(col mgl32.Vec4) {
	c.stats.Clears++
	rgba := toRGBA(col)
	pix := c.color.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = rgba.R, rgba.G, rgba.B, rgba.A
	}
	for i := range c.depth {
		c.depth[i] = 1
	}
}

func (c *Context) DrawIndexed(count int32) {
	c.stats.DrawCalls++
	p, ok := c.programs[c.current]
	if !ok {
		return
	}
	vao, ok := c.vertexArrays[c.boundVAO]
	if !ok {
		return
	}
	indices := c.indexBuffers[vao.elements]
	if int(count) > len(indices) {
		count = int32(len(indices))
	}

	mvp, _ := uniformMat4(p, graphics.UniformMVP)
	normalMat, _ := uniformMat3(p, graphics.UniformNormal)

	positions := c.attribStream(p, vao, graphics.AttribPosition)
	normals := c.attribStream(p, vao, graphics.AttribNormal)

	for t := int32(0); t+2 < count; t += 3 {
		var tri [3]vertex
		for k := 0; k < 3; k++ {
			tri[k] = shadeVertex(int(indices[t+int32(k)]), positions, normals, mvp, normalMat)
		}
		c.stats.Triangles++
		c.rasterize(tri)
	}
}

// attribStream returns the float data bound to the named attribute, or nil
// when the attribute is inactive or has no buffer.
func (c *Context) attribStream(p *program, vao *vertexArray, name string) []float32 {
	loc, ok := p.attribs[name]
	if !ok {
		return nil
	}
	binding, ok := vao.attribs[uint32(loc)]
	if !ok || binding.components != 3 {
		return nil
	}
	return c.floatBuffers[binding.buffer]
}

func uniformMat4(p *program, name string) (mgl32.Mat4, bool) {
	v, ok := p.uniform(name)
	if !ok {
		return mgl32.Mat4{}, false
	}
	m, ok := v.(mgl32.Mat4)
	return m, ok
}

func uniformMat3(p *program, name string) (mgl32.Mat3, bool) {
	v, ok := p.uniform(name)
	if !ok {
		return mgl32.Mat3{}, false
	}
	m, ok := v.(mgl32.Mat3)
	return m, ok
}

func toRGBA(c mgl32.Vec4) color.RGBA {
	conv := func(f float32) uint8 {
		return uint8(mgl32.Clamp(f, 0, 1)*255 + 0.5)
	}
	return color.RGBA{R: conv(c[0]), G: conv(c[1]), B: conv(c[2]), A: conv(c[3])}
}
