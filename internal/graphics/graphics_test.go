package graphics_test

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"lambert/internal/graphics"
	"lambert/internal/graphics/soft"
	"lambert/internal/mesh"
)

func newLambert(t *testing.T) (*soft.Context, *graphics.Program) {
	t.Helper()
	ctx := soft.New(64, 64)
	p, err := graphics.CompileProgram(ctx, graphics.LambertVertexSource, graphics.LambertFragmentSource)
	if err != nil {
		t.Fatalf("compile lambert: %v", err)
	}
	return ctx, p
}

func TestLambertUniforms(t *testing.T) {
	_, p := newLambert(t)

	for _, name := range []string{graphics.UniformMVP, graphics.UniformNormal} {
		loc, err := p.UniformLocation(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !loc.Valid() {
			t.Errorf("%s: location should be valid", name)
		}
	}

	// declared but never read, so it is dropped at link time
	loc, err := p.UniformLocation(graphics.UniformModel)
	if !errors.Is(err, graphics.ErrUnknownUniform) {
		t.Fatalf("model uniform: got %v, want ErrUnknownUniform", err)
	}
	if loc.Valid() {
		t.Fatalf("model uniform location should be invalid")
	}
	p.Use()
	p.SetMatrix4(loc, mgl32.Ident4())

	// cached lookups report the same outcome
	if _, err := p.UniformLocation(graphics.UniformModel); !errors.Is(err, graphics.ErrUnknownUniform) {
		t.Errorf("cached lookup: got %v", err)
	}
	if _, err := p.UniformLocation("uNeverDeclared"); !errors.Is(err, graphics.ErrUnknownUniform) {
		t.Errorf("undeclared uniform: got %v", err)
	}
}

func TestCompileErrorReleasesShaders(t *testing.T) {
	ctx := soft.New(8, 8)

	_, err := graphics.CompileProgram(ctx, "#version 410 core\nvoid notmain() {}\n", graphics.LambertFragmentSource)
	var ce *graphics.CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("got %v, want CompileError", err)
	}
	if ce.Stage != graphics.VertexStage {
		t.Errorf("stage: got %s, want vertex", ce.Stage)
	}

	_, err = graphics.CompileProgram(ctx, graphics.LambertVertexSource, "#version 410 core\nvoid main() {\n")
	if !errors.As(err, &ce) || ce.Stage != graphics.FragmentStage {
		t.Fatalf("got %v, want fragment CompileError", err)
	}
	if live := ctx.Live(); live != 0 {
		t.Fatalf("%d objects leaked after compile failures", live)
	}
}

func TestLinkErrorReleasesShaders(t *testing.T) {
	ctx := soft.New(8, 8)
	frag := strings.Replace(graphics.LambertFragmentSource, "vNormal", "vMissing", -1)

	_, err := graphics.CompileProgram(ctx, graphics.LambertVertexSource, frag)
	var le *graphics.LinkError
	if !errors.As(err, &le) {
		t.Fatalf("got %v, want LinkError", err)
	}
	if !strings.Contains(le.Log, "vMissing") {
		t.Errorf("link log should name the varying: %q", le.Log)
	}
	if live := ctx.Live(); live != 0 {
		t.Fatalf("%d objects leaked after link failure", live)
	}
}

func TestUploadCubeDrawsTwelveTriangles(t *testing.T) {
	ctx, p := newLambert(t)
	mb, err := graphics.UploadMesh(ctx, p, mesh.Cube())
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer mb.Dispose()

	if mb.Triangles() != 12 || mb.IndexCount() != 36 {
		t.Fatalf("got %d triangles / %d indices, want 12 / 36", mb.Triangles(), mb.IndexCount())
	}
	if mb.HasNormals() {
		t.Errorf("cube path should bind only the position attribute")
	}

	p.Use()
	mb.Draw()
	if got := ctx.Stats(); got.DrawCalls != 1 || got.Triangles != 12 {
		t.Fatalf("stats: got %+v, want 1 draw / 12 triangles", got)
	}
}

func TestUploadRandomMeshes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ctx, p := newLambert(t)
	p.Use()

	for i := 0; i < 50; i++ {
		verts := 1 + rng.Intn(200)
		tris := rng.Intn(300)
		m := mesh.Mesh{Positions: make([]float32, verts*3), Indices: make([]uint32, tris*3)}
		for j := range m.Positions {
			m.Positions[j] = rng.Float32()*2 - 1
		}
		for j := range m.Indices {
			m.Indices[j] = uint32(rng.Intn(verts))
		}
		if rng.Intn(2) == 0 {
			m = mesh.WithNormals(m)
		}

		mb, err := graphics.UploadMesh(ctx, p, m)
		if err != nil {
			t.Fatalf("mesh %d: %v", i, err)
		}
		ctx.ResetStats()
		mb.Draw()
		if got := ctx.Stats().Triangles; got != tris {
			t.Fatalf("mesh %d: drew %d triangles, want %d", i, got, tris)
		}
		mb.Dispose()
	}
}

func TestUploadIndexOverflow(t *testing.T) {
	ctx, p := newLambert(t)
	baseline := ctx.Live()

	m := mesh.Cube()
	m.Indices = make([]uint32, 70000)
	_, err := graphics.UploadMesh(ctx, p, m)
	if !errors.Is(err, graphics.ErrIndexOverflow) {
		t.Fatalf("70000 indices: got %v, want ErrIndexOverflow", err)
	}

	big := mesh.Mesh{Positions: make([]float32, (1<<16+1)*3)}
	_, err = graphics.UploadMesh(ctx, p, big)
	if !errors.Is(err, graphics.ErrIndexOverflow) {
		t.Fatalf("65537 vertices: got %v, want ErrIndexOverflow", err)
	}

	if live := ctx.Live(); live != baseline {
		t.Errorf("overflow allocated objects: %d live, want %d", live, baseline)
	}
}

func TestUploadRejectsInvalidMesh(t *testing.T) {
	ctx, p := newLambert(t)
	m := mesh.Cube()
	m.Indices = append(m.Indices, 0, 1, 8)
	if _, err := graphics.UploadMesh(ctx, p, m); !errors.Is(err, mesh.ErrInvalidMesh) {
		t.Fatalf("got %v, want ErrInvalidMesh", err)
	}
}

func TestUploadFailureReleasesBuffers(t *testing.T) {
	for _, op := range []string{"NewVertexArray", "VertexBuffer", "IndexBuffer"} {
		ctx, p := newLambert(t)
		baseline := ctx.Live()

		ctx.FailOn = op
		if _, err := graphics.UploadMesh(ctx, p, mesh.Diamond()); err == nil {
			t.Fatalf("%s: expected failure", op)
		}
		if live := ctx.Live(); live != baseline {
			t.Errorf("%s: %d objects live after failure, want %d", op, live, baseline)
		}
	}
}

func TestDisposeReleasesEverything(t *testing.T) {
	ctx, p := newLambert(t)
	mb, err := graphics.UploadMesh(ctx, p, mesh.Diamond())
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	mb.Dispose()
	mb.Dispose()
	p.Dispose()
	p.Dispose()
	if live := ctx.Live(); live != 0 {
		t.Fatalf("%d objects live after dispose", live)
	}
}

func TestShadeFragment(t *testing.T) {
	light := graphics.LightDirection.Normalize()

	if got := graphics.ShadeFragment(light.Mul(-1)); got != (mgl32.Vec4{0, 0, 0, 1}) {
		t.Errorf("anti-parallel normal: got %v, want (0,0,0,1)", got)
	}
	if got := graphics.ShadeFragment(light.Mul(5)); !got.ApproxEqualThreshold(mgl32.Vec4{1, 1, 1, 1}, 1e-6) {
		t.Errorf("parallel normal: got %v, want (1,1,1,1)", got)
	}
	if got := graphics.ShadeFragment(mgl32.Vec3{1, 0, 0}); !got.ApproxEqualThreshold(mgl32.Vec4{0.57735, 0.57735, 0.57735, 1}, 1e-5) {
		t.Errorf("x-axis normal: got %v", got)
	}
	if got := graphics.ShadeFragment(mgl32.Vec3{}); got != (mgl32.Vec4{0, 0, 0, 1}) {
		t.Errorf("zero normal: got %v, want black", got)
	}
}
