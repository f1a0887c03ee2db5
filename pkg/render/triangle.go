package render

import (
	"math"

	"github.com/taigrr/phong/pkg/shading"
)

// triangle is a screen-space primitive ready for edge-function
// rasterization.
type triangle struct {
	corners [3]shading.VertexOutput
	x, y, z [3]float64 // pixel coordinates and NDC depth
	w       [3]float64 // clip W for perspective-correct weights

	minX, maxX, minY, maxY int

	// Edge i runs opposite corner i: e(x, y) = a*x + b*y + c.
	a, b, c [3]float64
	invArea float64
}

// edgeCoeffs returns A, B, C such that A*x + B*y + C is positive to the
// left of the edge (x0, y0) -> (x1, y1) in y-down screen space.
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	return y0 - y1, x1 - x0, x0*y1 - x1*y0
}

// setupTriangles projects every face and keeps those that can cover a
// pixel. Faces with a corner at or behind the camera plane are dropped.
func (r *Rasterizer) setupTriangles(mesh MeshRenderer) {
	r.tris = r.tris[:0]
	width, height := float64(r.Width()), float64(r.Height())

faces:
	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)

		var t triangle
		for k, idx := range face {
			v := r.varyings[idx]
			if v.Clip.W <= 0 {
				continue faces
			}
			t.corners[k] = v
			t.x[k], t.y[k], t.z[k] = r.toScreen(v.Clip)
			t.w[k] = v.Clip.W
		}

		area := (t.x[1]-t.x[0])*(t.y[2]-t.y[0]) - (t.y[1]-t.y[0])*(t.x[2]-t.x[0])
		if area == 0 || math.IsNaN(area) {
			continue
		}
		if area < 0 {
			if !r.DisableBackfaceCulling {
				continue
			}
			t.swap(1, 2)
			area = -area
		}

		t.minX = int(math.Max(0, math.Floor(min(t.x[0], t.x[1], t.x[2]))))
		t.maxX = int(math.Min(width-1, math.Ceil(max(t.x[0], t.x[1], t.x[2]))))
		t.minY = int(math.Max(0, math.Floor(min(t.y[0], t.y[1], t.y[2]))))
		t.maxY = int(math.Min(height-1, math.Ceil(max(t.y[0], t.y[1], t.y[2]))))
		if t.minX > t.maxX || t.minY > t.maxY {
			continue
		}

		for k := range 3 {
			j, l := (k+1)%3, (k+2)%3
			t.a[k], t.b[k], t.c[k] = edgeCoeffs(t.x[j], t.y[j], t.x[l], t.y[l])
		}
		t.invArea = 1 / area

		r.tris = append(r.tris, t)
	}
}

func (t *triangle) swap(i, j int) {
	t.corners[i], t.corners[j] = t.corners[j], t.corners[i]
	t.x[i], t.x[j] = t.x[j], t.x[i]
	t.y[i], t.y[j] = t.y[j], t.y[i]
	t.z[i], t.z[j] = t.z[j], t.z[i]
	t.w[i], t.w[j] = t.w[j], t.w[i]
}

// rasterizeBand shades the part of t inside pixel rows [y0, y1). Edge
// functions are evaluated at pixel centers and stepped incrementally.
func (r *Rasterizer) rasterizeBand(t *triangle, prog *shading.Program, y0, y1 int) {
	minY := max(t.minY, y0)
	maxY := min(t.maxY, y1-1)
	if minY > maxY {
		return
	}

	px := float64(t.minX) + 0.5
	py := float64(minY) + 0.5
	var row [3]float64
	for k := range 3 {
		row[k] = t.a[k]*px + t.b[k]*py + t.c[k]
	}

	width := r.Width()
	zbuffer := r.zbuffer
	pixels := r.fb.Pixels

	for y := minY; y <= maxY; y++ {
		e := row
		offset := y * width

		for x := t.minX; x <= t.maxX; x++ {
			if e[0] >= 0 && e[1] >= 0 && e[2] >= 0 {
				bc := [3]float64{e[0] * t.invArea, e[1] * t.invArea, e[2] * t.invArea}
				z := bc[0]*t.z[0] + bc[1]*t.z[1] + bc[2]*t.z[2]

				idx := offset + x
				if z >= -1 && z <= 1 && z < zbuffer[idx] {
					if w, ok := shading.PerspectiveWeights(bc, t.w); ok {
						in := shading.Interpolate(&t.corners, w)
						zbuffer[idx] = z
						pixels[idx] = prog.Fragment(in).Color()
					}
				}
			}
			e[0] += t.a[0]
			e[1] += t.a[1]
			e[2] += t.a[2]
		}

		row[0] += t.b[0]
		row[1] += t.b[1]
		row[2] += t.b[2]
	}
}
