package graphics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Location is a resolved uniform location. The zero value is invalid, and
// uploads to an invalid location do nothing.
type Location struct {
	id    int32
	valid bool
}

func (l Location) Valid() bool { return l.valid }

// Program represents a linked shader program
type Program struct {
	ctx      Context
	ID       uint32
	uniforms map[string]Location
}

// CompileProgram compiles both stages and links them. Shader objects are
// always released before returning; on failure nothing is left allocated.
func CompileProgram(ctx Context, vertexSrc, fragmentSrc string) (*Program, error) {
	vertexShader, err := compileShader(ctx, VertexStage, vertexSrc)
	if err != nil {
		return nil, err
	}
	defer ctx.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(ctx, FragmentStage, fragmentSrc)
	if err != nil {
		return nil, err
	}
	defer ctx.DeleteShader(fragmentShader)

	id, err := ctx.LinkProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, &LinkError{Log: err.Error()}
	}

	return &Program{ctx: ctx, ID: id, uniforms: make(map[string]Location)}, nil
}

func compileShader(ctx Context, stage Stage, source string) (uint32, error) {
	id, err := ctx.CompileShader(stage, source)
	if err != nil {
		return 0, &CompileError{Stage: stage, Log: err.Error()}
	}
	return id, nil
}

// Use activates the program
func (p *Program) Use() {
	p.ctx.UseProgram(p.ID)
}

// UniformLocation resolves and caches a uniform location. For names the
// compiler optimized out it returns an invalid Location together with
// ErrUnknownUniform; the Location is still safe to pass to the setters.
func (p *Program) UniformLocation(name string) (Location, error) {
	if loc, ok := p.uniforms[name]; ok {
		if !loc.valid {
			return loc, fmt.Errorf("%w: %s", ErrUnknownUniform, name)
		}
		return loc, nil
	}

	id := p.ctx.UniformLocation(p.ID, name)
	loc := Location{id: id, valid: id >= 0}
	p.uniforms[name] = loc
	if !loc.valid {
		return loc, fmt.Errorf("%w: %s", ErrUnknownUniform, name)
	}
	return loc, nil
}

// AttribLocation resolves a vertex attribute location.
func (p *Program) AttribLocation(name string) (uint32, error) {
	loc := p.ctx.AttribLocation(p.ID, name)
	if loc < 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownAttribute, name)
	}
	return uint32(loc), nil
}

// SetMatrix4 uploads a 4x4 matrix uniform
func (p *Program) SetMatrix4(loc Location, m mgl32.Mat4) {
	if !loc.valid {
		return
	}
	p.ctx.UniformMatrix4(loc.id, m)
}

// SetMatrix3 uploads a 3x3 matrix uniform
func (p *Program) SetMatrix3(loc Location, m mgl32.Mat3) {
	if !loc.valid {
		return
	}
	p.ctx.UniformMatrix3(loc.id, m)
}

// Dispose deletes the program. It is safe to call more than once.
func (p *Program) Dispose() {
	if p.ID == 0 {
		return
	}
	p.ctx.DeleteProgram(p.ID)
	p.ID = 0
}
