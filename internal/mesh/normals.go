package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// WithNormals returns a copy of m with angle-weighted vertex normals, so the
// result does not depend on how a face was split into triangles.
// Each face normal is flipped to point away from the mesh centroid, so the
// result is only meaningful for roughly convex meshes such as the built-ins.
// A mesh that already has normals is returned unchanged.
func WithNormals(m Mesh) Mesh {
	if m.HasNormals() || m.VertexCount() == 0 {
		return m
	}

	vertex := func(i uint32) mgl32.Vec3 {
		return mgl32.Vec3{m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2]}
	}

	var centroid mgl32.Vec3
	for i := 0; i < m.VertexCount(); i++ {
		centroid = centroid.Add(vertex(uint32(i)))
	}
	centroid = centroid.Mul(1 / float32(m.VertexCount()))

	acc := make([]mgl32.Vec3, m.VertexCount())
	for t := 0; t+2 < len(m.Indices); t += 3 {
		i0, i1, i2 := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		p0, p1, p2 := vertex(i0), vertex(i1), vertex(i2)
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		if n.Len() == 0 {
			continue
		}
		n = n.Normalize()
		faceCenter := p0.Add(p1).Add(p2).Mul(1.0 / 3.0)
		if n.Dot(faceCenter.Sub(centroid)) < 0 {
			n = n.Mul(-1)
		}
		acc[i0] = acc[i0].Add(n.Mul(cornerAngle(p0, p1, p2)))
		acc[i1] = acc[i1].Add(n.Mul(cornerAngle(p1, p2, p0)))
		acc[i2] = acc[i2].Add(n.Mul(cornerAngle(p2, p0, p1)))
	}

	out := m
	out.Normals = make([]float32, 0, len(m.Positions))
	for _, n := range acc {
		if n.Len() > 0 {
			n = n.Normalize()
		}
		out.Normals = append(out.Normals, n.X(), n.Y(), n.Z())
	}
	return out
}

// cornerAngle is the interior angle at a between edges ab and ac.
func cornerAngle(a, b, c mgl32.Vec3) float32 {
	u, v := b.Sub(a), c.Sub(a)
	if u.Len() == 0 || v.Len() == 0 {
		return 0
	}
	cos := mgl32.Clamp(u.Normalize().Dot(v.Normalize()), -1, 1)
	return float32(math.Acos(float64(cos)))
}
