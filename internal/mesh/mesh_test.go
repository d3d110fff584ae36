package mesh

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func TestCubeLayout(t *testing.T) {
	c := Cube()
	if got := c.VertexCount(); got != 8 {
		t.Fatalf("cube vertices: got %d, want 8", got)
	}
	if got := c.TriangleCount(); got != 12 {
		t.Fatalf("cube triangles: got %d, want 12", got)
	}
	if c.HasNormals() {
		t.Errorf("cube should not carry normals")
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("cube invalid: %v", err)
	}
}

func TestDiamondFacetsFaceOutward(t *testing.T) {
	d := Diamond()
	if err := d.Validate(); err != nil {
		t.Fatalf("diamond invalid: %v", err)
	}
	if !d.HasNormals() {
		t.Fatalf("diamond should carry normals")
	}
	if got, want := d.TriangleCount(), 4*diamondSides; got != want {
		t.Fatalf("diamond triangles: got %d, want %d", got, want)
	}
	for v := 0; v < d.VertexCount(); v++ {
		p := mgl32.Vec3{d.Positions[v*3], d.Positions[v*3+1], d.Positions[v*3+2]}
		n := mgl32.Vec3{d.Normals[v*3], d.Normals[v*3+1], d.Normals[v*3+2]}
		if math.Abs(float64(n.Len())-1) > 1e-5 {
			t.Fatalf("vertex %d normal not unit length: %v", v, n)
		}
		// every vertex of a convex solid around the origin sees its facet normal pointing away
		if p.Dot(n) <= 0 {
			t.Errorf("vertex %d normal %v points inward from %v", v, n, p)
		}
	}
}

func TestValidateRejectsBadMeshes(t *testing.T) {
	cases := map[string]Mesh{
		"ragged positions": {Positions: []float32{0, 0}, Indices: nil},
		"ragged indices":   {Positions: []float32{0, 0, 0}, Indices: []uint32{0, 0}},
		"index overflow":   {Positions: []float32{0, 0, 0, 1, 1, 1, 2, 2, 2}, Indices: []uint32{0, 1, 3}},
		"normal mismatch":  {Positions: []float32{0, 0, 0}, Normals: []float32{0, 1, 0, 0, 1, 0}, Indices: nil},
	}
	for name, m := range cases {
		if err := m.Validate(); !errors.Is(err, ErrInvalidMesh) {
			t.Errorf("%s: got %v, want ErrInvalidMesh", name, err)
		}
	}
}

func TestWithNormalsOrientsCubeOutward(t *testing.T) {
	c := WithNormals(Cube())
	if err := c.Validate(); err != nil {
		t.Fatalf("invalid after normals: %v", err)
	}
	for v := 0; v < c.VertexCount(); v++ {
		p := mgl32.Vec3{c.Positions[v*3], c.Positions[v*3+1], c.Positions[v*3+2]}
		n := mgl32.Vec3{c.Normals[v*3], c.Normals[v*3+1], c.Normals[v*3+2]}
		want := p.Normalize()
		if !n.ApproxEqualThreshold(want, 1e-5) {
			t.Errorf("corner %d: got normal %v, want %v", v, n, want)
		}
	}
}

func TestWithNormalsKeepsExisting(t *testing.T) {
	d := Diamond()
	got := WithNormals(d)
	if &got.Normals[0] != &d.Normals[0] {
		t.Errorf("existing normals were replaced")
	}
}

func TestLoadBuiltinsAndUnknown(t *testing.T) {
	for _, name := range Builtins() {
		m, err := Load(name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if m.Name != name {
			t.Errorf("load %s: got name %q", name, m.Name)
		}
	}
	if _, err := Load("teapot"); !errors.Is(err, ErrUnknownMesh) {
		t.Errorf("got %v, want ErrUnknownMesh", err)
	}
}

func TestLoadGLTFTriangle(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	nrm := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    &idx,
			Attributes: map[string]int{gltf.POSITION: pos, gltf.NORMAL: nrm},
		}},
	}}

	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("save glb: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("load glb: %v", err)
	}
	if m.Name != "tri" {
		t.Errorf("name: got %q, want tri", m.Name)
	}
	if m.VertexCount() != 3 || m.TriangleCount() != 1 {
		t.Fatalf("got %d vertices / %d triangles, want 3 / 1", m.VertexCount(), m.TriangleCount())
	}
	if !m.HasNormals() || m.Normals[2] != 1 {
		t.Errorf("normals not loaded: %v", m.Normals)
	}
}
