package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func newPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(900, 600)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return p
}

func TestInitialState(t *testing.T) {
	p := newPipeline(t)
	if p.Model != mgl32.Ident4() {
		t.Fatalf("model after 0 frames: got %v, want identity", p.Model)
	}
	if want := p.Projection.Mul4(p.View); p.MVP != want {
		t.Fatalf("mvp after 0 frames: got %v, want projection*view %v", p.MVP, want)
	}
	if p.Normal != mgl32.Ident3() {
		t.Errorf("normal matrix after 0 frames: got %v, want identity", p.Normal)
	}

	// the eye looks at the origin from (3,3,3)
	eyeSpace := p.View.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !eyeSpace.Vec3().ApproxEqualThreshold(mgl32.Vec3{0, 0, -float32(math.Sqrt(27))}, 1e-5) {
		t.Errorf("origin in eye space: got %v", eyeSpace)
	}
}

func TestOneTickRotation(t *testing.T) {
	p := newPipeline(t)
	p.Advance(0.01, 0.01)

	want := mgl32.HomogRotate3DX(0.01).Mul4(mgl32.HomogRotate3DY(0.01))
	for i := range want {
		if d := math.Abs(float64(p.Model[i] - want[i])); d > 1e-6 {
			t.Fatalf("model[%d]: got %v, want %v (diff %g)", i, p.Model[i], want[i], d)
		}
	}
}

func TestAdvanceRightMultiplies(t *testing.T) {
	p := newPipeline(t)
	start := mgl32.HomogRotate3DZ(0.7).Mul4(mgl32.Translate3D(1, 2, 3))
	p.Model = start

	p.Advance(0.3, 0)
	p.Advance(0, 0.4)
	want := start.Mul4(mgl32.HomogRotate3DX(0.3)).Mul4(mgl32.HomogRotate3DY(0.4))
	if !p.Model.ApproxEqualThreshold(want, 1e-6) {
		t.Fatalf("model: got %v, want %v", p.Model, want)
	}

	// left multiplication would give a different result for this start
	left := mgl32.HomogRotate3DY(0.4).Mul4(mgl32.HomogRotate3DX(0.3)).Mul4(start)
	if p.Model.ApproxEqualThreshold(left, 1e-3) {
		t.Fatalf("model matches world-space composition; expected object-space")
	}
}

func TestAdvanceOrderMatters(t *testing.T) {
	a := newPipeline(t)
	a.Advance(0.5, 0.5)

	b := newPipeline(t)
	b.Advance(0, 0.5)
	b.Advance(0.5, 0)

	if a.Model.ApproxEqualThreshold(b.Model, 1e-3) {
		t.Fatalf("RotX*RotY and RotY*RotX should differ for 0.5 rad")
	}
	want := mgl32.HomogRotate3DY(0.5).Mul4(mgl32.HomogRotate3DX(0.5))
	if !b.Model.ApproxEqualThreshold(want, 1e-6) {
		t.Errorf("split advance: got %v, want %v", b.Model, want)
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	p := newPipeline(t)
	for i := 0; i < 37; i++ {
		p.Advance(0.01, 0.01)
	}
	p.Recompute()
	mvp, normal := p.MVP, p.Normal
	p.Recompute()
	if p.MVP != mvp || p.Normal != normal {
		t.Fatalf("recompute is not bit-identical")
	}
}

func TestNormalMatrixTracksModel(t *testing.T) {
	p := newPipeline(t)
	p.Model = mgl32.Scale3D(2, 1, 0.5)
	p.Recompute()

	want := mgl32.Diag3(mgl32.Vec3{0.5, 1, 2})
	if !p.Normal.ApproxEqualThreshold(want, 1e-6) {
		t.Fatalf("normal matrix: got %v, want %v", p.Normal, want)
	}

	// a pure rotation is its own inverse-transpose
	p.Model = mgl32.Ident4()
	p.Advance(0.2, 1.1)
	p.Recompute()
	if !p.Normal.ApproxEqualThreshold(p.Model.Mat3(), 1e-5) {
		t.Errorf("rotation normal matrix: got %v, want %v", p.Normal, p.Model.Mat3())
	}
}

func TestDegenerateAspect(t *testing.T) {
	for _, size := range [][2]int{{800, 0}, {0, 600}, {-1, 10}} {
		if _, err := New(size[0], size[1]); !errors.Is(err, ErrDegenerateAspect) {
			t.Errorf("%v: got %v, want ErrDegenerateAspect", size, err)
		}
	}

	p := newPipeline(t)
	before := p.Projection
	if err := p.SetViewport(900, 0); !errors.Is(err, ErrDegenerateAspect) {
		t.Fatalf("set viewport: got %v, want ErrDegenerateAspect", err)
	}
	if p.Projection != before {
		t.Fatalf("projection changed after rejected viewport")
	}
	for i, v := range p.Projection {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("projection[%d] = %v", i, v)
		}
	}

	if err := p.SetViewport(600, 600); err != nil {
		t.Fatalf("square viewport: %v", err)
	}
	if p.Projection[0] != p.Projection[5] {
		t.Errorf("square viewport should scale x and y equally: %v vs %v", p.Projection[0], p.Projection[5])
	}
}
