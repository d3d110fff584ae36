package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Cube returns the 2x2x2 demo cube: 8 shared corners, 12 triangles, no normals.
func Cube() Mesh {
	return Mesh{
		Name: "cube",
		Positions: []float32{
			-1, -1, -1,
			1, -1, -1,
			1, 1, -1,
			-1, 1, -1,
			-1, -1, 1,
			1, -1, 1,
			1, 1, 1,
			-1, 1, 1,
		},
		Indices: []uint32{
			0, 1, 2, 0, 2, 3, // front
			1, 5, 6, 1, 6, 2, // right
			5, 4, 7, 5, 7, 6, // back
			4, 0, 3, 4, 3, 7, // left
			3, 2, 6, 3, 6, 7, // top
			4, 5, 1, 4, 1, 0, // bottom
		},
	}
}

const diamondSides = 8

// Diamond returns a brilliant-cut style gem with flat facet normals.
// Every facet owns its three vertices so normals do not blend across edges.
func Diamond() Mesh {
	const (
		tableY    = 0.75
		tableR    = 0.5
		girdleY   = 0.25
		girdleR   = 1.0
		culetY    = -1.0
		angleStep = 2 * math.Pi / diamondSides
	)

	ring := func(r, y float32) []mgl32.Vec3 {
		out := make([]mgl32.Vec3, diamondSides)
		for i := range out {
			a := float64(i) * angleStep
			out[i] = mgl32.Vec3{r * float32(math.Cos(a)), y, r * float32(math.Sin(a))}
		}
		return out
	}
	table := ring(tableR, tableY)
	girdle := ring(girdleR, girdleY)
	top := mgl32.Vec3{0, tableY, 0}
	culet := mgl32.Vec3{0, culetY, 0}

	b := facetBuilder{name: "diamond"}
	for i := 0; i < diamondSides; i++ {
		j := (i + 1) % diamondSides
		b.facet(top, table[i], table[j])
		b.facet(table[i], girdle[i], girdle[j])
		b.facet(table[i], girdle[j], table[j])
		b.facet(girdle[i], culet, girdle[j])
	}
	return b.mesh()
}

type facetBuilder struct {
	name      string
	positions []float32
	normals   []float32
	indices   []uint32
}

// facet appends one flat-shaded triangle, winding it counter-clockwise as seen
// from outside a solid centred on the origin.
func (b *facetBuilder) facet(p0, p1, p2 mgl32.Vec3) {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	centroid := p0.Add(p1).Add(p2).Mul(1.0 / 3.0)
	if n.Dot(centroid) < 0 {
		p1, p2 = p2, p1
		n = n.Mul(-1)
	}
	n = n.Normalize()

	base := uint32(len(b.positions) / 3)
	for _, p := range [3]mgl32.Vec3{p0, p1, p2} {
		b.positions = append(b.positions, p.X(), p.Y(), p.Z())
		b.normals = append(b.normals, n.X(), n.Y(), n.Z())
	}
	b.indices = append(b.indices, base, base+1, base+2)
}

func (b *facetBuilder) mesh() Mesh {
	return Mesh{Name: b.name, Positions: b.positions, Normals: b.normals, Indices: b.indices}
}
