package render

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"lambert/internal/graphics"
	"lambert/internal/mesh"
	"lambert/internal/profiling"
	"lambert/internal/transform"
)

// Options configures a Renderer.
type Options struct {
	Mesh          mesh.Mesh
	Width, Height int
	ClearColor    mgl32.Vec4
	// StepX and StepY are the per-tick rotation about X and Y in radians.
	StepX, StepY float32
}

// Renderer is the whole per-object render state: one program, one mesh
// buffer and the transform pipeline. Lifecycle is New, Tick*, Dispose.
type Renderer struct {
	ctx       graphics.Context
	program   *graphics.Program
	mesh      *graphics.MeshBuffer
	transform *transform.Pipeline

	clearColor   mgl32.Vec4
	stepX, stepY float32

	mvpLoc    graphics.Location
	modelLoc  graphics.Location
	normalLoc graphics.Location
}

// New compiles the Lambert program and uploads opts.Mesh. Every GPU object
// created before a failure is released.
func New(ctx graphics.Context, opts Options) (*Renderer, error) {
	pipeline, err := transform.New(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	program, err := graphics.CompileProgram(ctx, graphics.LambertVertexSource, graphics.LambertFragmentSource)
	if err != nil {
		return nil, err
	}

	mb, err := graphics.UploadMesh(ctx, program, opts.Mesh)
	if err != nil {
		program.Dispose()
		return nil, fmt.Errorf("upload mesh %q: %w", opts.Mesh.Name, err)
	}

	r := &Renderer{
		ctx:        ctx,
		program:    program,
		mesh:       mb,
		transform:  pipeline,
		clearColor: opts.ClearColor,
		stepX:      opts.StepX,
		stepY:      opts.StepY,
	}
	r.mvpLoc = r.uniform(graphics.UniformMVP)
	r.modelLoc = r.uniform(graphics.UniformModel)
	r.normalLoc = r.uniform(graphics.UniformNormal)

	ctx.EnableDepthTest()
	ctx.Viewport(opts.Width, opts.Height)

	slog.Info("renderer ready",
		"mesh", opts.Mesh.Name,
		"vertices", opts.Mesh.VertexCount(),
		"triangles", mb.Triangles(),
		"normals", mb.HasNormals())
	return r, nil
}

// uniform resolves a location, tolerating names the shader compiler dropped.
func (r *Renderer) uniform(name string) graphics.Location {
	loc, err := r.program.UniformLocation(name)
	if errors.Is(err, graphics.ErrUnknownUniform) {
		slog.Debug("uniform not active, uploads will be skipped", "name", name)
	}
	return loc
}

// Tick renders one frame: clear, advance the rotation, recompute the derived
// matrices, upload them, and draw.
func (r *Renderer) Tick() {
	defer profiling.Track("render.Tick")()

	func() {
		defer profiling.Track("render.Clear")()
		r.ctx.Clear(r.clearColor)
	}()

	func() {
		defer profiling.Track("render.Transform")()
		r.transform.Advance(r.stepX, r.stepY)
		r.transform.Recompute()
	}()

	func() {
		defer profiling.Track("render.Uniforms")()
		r.program.Use()
		r.program.SetMatrix4(r.mvpLoc, r.transform.MVP)
		r.program.SetMatrix4(r.modelLoc, r.transform.Model)
		r.program.SetMatrix3(r.normalLoc, r.transform.Normal)
	}()

	func() {
		defer profiling.Track("render.Draw")()
		r.mesh.Draw()
	}()
}

// Resize updates the projection and viewport. A degenerate size, such as a
// minimized window, is rejected and the previous projection is kept.
func (r *Renderer) Resize(width, height int) error {
	if err := r.transform.SetViewport(width, height); err != nil {
		return err
	}
	r.ctx.Viewport(width, height)
	return nil
}

// Transform exposes the matrices for inspection.
func (r *Renderer) Transform() *transform.Pipeline { return r.transform }

// Triangles is the number of triangles drawn per tick.
func (r *Renderer) Triangles() int { return r.mesh.Triangles() }

// Dispose releases the mesh buffer and the program.
func (r *Renderer) Dispose() {
	r.mesh.Dispose()
	r.program.Dispose()
}
