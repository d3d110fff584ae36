package soft

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"lambert/internal/graphics"
)

const minClipW = 1e-6

type vertex struct {
	clip   mgl32.Vec4
	normal mgl32.Vec3
}

// shadeVertex runs the Lambert vertex stage. Attributes without a bound
// buffer read as zero, matching the GL default for disabled arrays.
func shadeVertex(i int, positions, normals []float32, mvp mgl32.Mat4, normalMat mgl32.Mat3) vertex {
	var pos, n mgl32.Vec3
	if 3*i+2 < len(positions) {
		pos = mgl32.Vec3{positions[3*i], positions[3*i+1], positions[3*i+2]}
	}
	if 3*i+2 < len(normals) {
		n = mgl32.Vec3{normals[3*i], normals[3*i+1], normals[3*i+2]}
	}
	return vertex{
		clip:   mvp.Mul4x1(pos.Vec4(1)),
		normal: normalMat.Mul3x1(n),
	}
}

// rasterize fills one triangle with a top-left-agnostic edge test, depth
// test against the cleared depth buffer, and perspective-correct normal
// interpolation. Triangles touching the w <= 0 half-space are dropped
// instead of clipped.
func (c *Context) rasterize(tri [3]vertex) {
	w, h := c.color.Rect.Dx(), c.color.Rect.Dy()
	if w == 0 || h == 0 {
		return
	}

	var sx, sy, sz, invW [3]float32
	for k, v := range tri {
		if v.clip.W() <= minClipW {
			return
		}
		iw := 1 / v.clip.W()
		ndcX, ndcY, ndcZ := v.clip.X()*iw, v.clip.Y()*iw, v.clip.Z()*iw
		sx[k] = (ndcX + 1) * 0.5 * float32(w)
		sy[k] = (1 - ndcY) * 0.5 * float32(h)
		sz[k] = ndcZ*0.5 + 0.5
		invW[k] = iw
	}

	area := edge(sx[0], sy[0], sx[1], sy[1], sx[2], sy[2])
	if area == 0 {
		return
	}

	minX := clampInt(int(math.Floor(float64(min3(sx)))), 0, w-1)
	maxX := clampInt(int(math.Ceil(float64(max3(sx)))), 0, w-1)
	minY := clampInt(int(math.Floor(float64(min3(sy)))), 0, h-1)
	maxY := clampInt(int(math.Ceil(float64(max3(sy)))), 0, h-1)

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			b0 := edge(sx[1], sy[1], sx[2], sy[2], px, py) / area
			b1 := edge(sx[2], sy[2], sx[0], sy[0], px, py) / area
			b2 := edge(sx[0], sy[0], sx[1], sy[1], px, py) / area
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}

			z := b0*sz[0] + b1*sz[1] + b2*sz[2]
			if z < 0 || z > 1 {
				continue
			}
			di := y*w + x
			if c.depthTest && z >= c.depth[di] {
				continue
			}

			p0, p1, p2 := b0*invW[0], b1*invW[1], b2*invW[2]
			sum := p0 + p1 + p2
			n := tri[0].normal.Mul(p0 / sum).
				Add(tri[1].normal.Mul(p1 / sum)).
				Add(tri[2].normal.Mul(p2 / sum))

			if c.depthTest {
				c.depth[di] = z
			}
			c.color.SetRGBA(x, y, toRGBA(graphics.ShadeFragment(n)))
		}
	}
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func min3(v [3]float32) float32 { return min(v[0], v[1], v[2]) }
func max3(v [3]float32) float32 { return max(v[0], v[1], v[2]) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
