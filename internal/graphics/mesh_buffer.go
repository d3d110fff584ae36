package graphics

import (
	"fmt"
	"math"

	"lambert/internal/mesh"
)

// MeshBuffer owns the GPU copy of one mesh: a vertex array, its position
// (and optional normal) buffer, and a 16-bit index buffer.
type MeshBuffer struct {
	ctx        Context
	vao        uint32
	buffers    []uint32
	indexCount int32
	hasNormals bool
}

// UploadMesh validates m and copies it into GPU buffers bound to the
// program's position and normal attributes. Objects created before a
// failure are released.
func UploadMesh(ctx Context, program *Program, m mesh.Mesh) (mb *MeshBuffer, err error) {
	if len(m.Indices) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d indices exceed the 16-bit range", ErrIndexOverflow, len(m.Indices))
	}
	if m.VertexCount() > math.MaxUint16+1 {
		return nil, fmt.Errorf("%w: %d vertices cannot be addressed by 16-bit indices", ErrIndexOverflow, m.VertexCount())
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	positionLoc, err := program.AttribLocation(AttribPosition)
	if err != nil {
		return nil, err
	}

	mb = &MeshBuffer{ctx: ctx, indexCount: int32(len(m.Indices))}
	defer func() {
		if err != nil {
			mb.Dispose()
			mb = nil
		}
	}()

	mb.vao, err = ctx.NewVertexArray()
	if err != nil {
		return mb, fmt.Errorf("create vertex array: %w", err)
	}
	ctx.BindVertexArray(mb.vao)
	defer ctx.BindVertexArray(0)

	positions, err := ctx.VertexBuffer(m.Positions)
	if err != nil {
		return mb, fmt.Errorf("upload positions: %w", err)
	}
	mb.buffers = append(mb.buffers, positions)
	ctx.VertexAttrib(positionLoc, 3, positions)

	if m.HasNormals() {
		normalLoc, err := program.AttribLocation(AttribNormal)
		if err != nil {
			return mb, err
		}
		normals, err := ctx.VertexBuffer(m.Normals)
		if err != nil {
			return mb, fmt.Errorf("upload normals: %w", err)
		}
		mb.buffers = append(mb.buffers, normals)
		ctx.VertexAttrib(normalLoc, 3, normals)
		mb.hasNormals = true
	}

	indices := make([]uint16, len(m.Indices))
	for i, idx := range m.Indices {
		indices[i] = uint16(idx)
	}
	ibo, err := ctx.IndexBuffer(indices)
	if err != nil {
		return mb, fmt.Errorf("upload indices: %w", err)
	}
	mb.buffers = append(mb.buffers, ibo)

	return mb, nil
}

// Draw issues one indexed draw over every triangle.
func (mb *MeshBuffer) Draw() {
	mb.ctx.BindVertexArray(mb.vao)
	mb.ctx.DrawIndexed(mb.indexCount)
	mb.ctx.BindVertexArray(0)
}

func (mb *MeshBuffer) IndexCount() int32 { return mb.indexCount }
func (mb *MeshBuffer) Triangles() int    { return int(mb.indexCount) / 3 }
func (mb *MeshBuffer) HasNormals() bool  { return mb.hasNormals }

// Dispose frees the buffers and the vertex array. Safe to call twice.
func (mb *MeshBuffer) Dispose() {
	for i := len(mb.buffers) - 1; i >= 0; i-- {
		mb.ctx.DeleteBuffer(mb.buffers[i])
	}
	mb.buffers = nil
	if mb.vao != 0 {
		mb.ctx.DeleteVertexArray(mb.vao)
		mb.vao = 0
	}
}
