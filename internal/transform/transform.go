package transform

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrDegenerateAspect is returned for viewports with no area.
var ErrDegenerateAspect = errors.New("degenerate aspect ratio")

// Fixed camera.
var (
	Eye    = mgl32.Vec3{3, 3, 3}
	Target = mgl32.Vec3{0, 0, 0}
	Up     = mgl32.Vec3{0, 1, 0}
)

const (
	FovY      = math.Pi / 4
	NearPlane = 0.1
	FarPlane  = 100.0
)

// Pipeline holds the model, view and projection matrices and the values
// derived from them. MVP and Normal are only current after Recompute.
type Pipeline struct {
	Model      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4

	MVP    mgl32.Mat4
	Normal mgl32.Mat3
}

// New returns a pipeline with an identity model and the fixed camera for a
// width x height viewport.
func New(width, height int) (*Pipeline, error) {
	proj, err := Projection(width, height)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		Model:      mgl32.Ident4(),
		View:       mgl32.LookAtV(Eye, Target, Up),
		Projection: proj,
	}
	p.Recompute()
	return p, nil
}

// Projection builds the perspective matrix for a viewport, rejecting sizes
// that would put Inf or NaN into the matrix.
func Projection(width, height int) (mgl32.Mat4, error) {
	if width <= 0 || height <= 0 {
		return mgl32.Mat4{}, fmt.Errorf("%w: %dx%d", ErrDegenerateAspect, width, height)
	}
	aspect := float32(width) / float32(height)
	return mgl32.Perspective(FovY, aspect, NearPlane, FarPlane), nil
}

// SetViewport rebuilds the projection. On error the previous projection is kept.
func (p *Pipeline) SetViewport(width, height int) error {
	proj, err := Projection(width, height)
	if err != nil {
		return err
	}
	p.Projection = proj
	return nil
}

// Advance composes a further rotation into the model in object space:
// Model = Model * RotX(ax) * RotY(ay). Applied every frame this drifts the
// rotation axis, which is the intended look.
func (p *Pipeline) Advance(ax, ay float32) {
	p.Model = p.Model.Mul4(mgl32.HomogRotate3DX(ax)).Mul4(mgl32.HomogRotate3DY(ay))
}

// Recompute derives MVP = Projection * View * Model and the normal matrix,
// the inverse-transpose of Model's upper-left 3x3.
func (p *Pipeline) Recompute() {
	p.MVP = p.Projection.Mul4(p.View).Mul4(p.Model)
	p.Normal = NormalMatrix(p.Model)
}

// NormalMatrix returns transpose(inverse(upper-left 3x3 of m)). A singular
// model yields the zero matrix, which shades every fragment black.
func NormalMatrix(m mgl32.Mat4) mgl32.Mat3 {
	return m.Mat3().Inv().Transpose()
}
