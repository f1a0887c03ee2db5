package render

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/phong/pkg/math3d"
	"github.com/taigrr/phong/pkg/shading"
)

// Work below these sizes is not worth a goroutine.
const (
	minVertexChunk = 256
	minBandRows    = 8
)

// Rasterizer draws meshes into a framebuffer through a shading.Program.
// It owns the depth buffer. A Rasterizer is not safe for concurrent draws;
// it parallelizes each draw internally.
type Rasterizer struct {
	fb      *Framebuffer
	zbuffer []float64

	// Workers caps the goroutines used per stage. Zero means GOMAXPROCS.
	Workers int
	// DisableBackfaceCulling draws triangles facing away from the camera.
	DisableBackfaceCulling bool
	// CullingStats counts frustum tests since the last ResetCullingStats.
	CullingStats CullingStats

	// Scratch reused between draws.
	varyings []shading.VertexOutput
	tris     []triangle
}

// CullingStats tracks frustum culling results.
type CullingStats struct {
	MeshesTested int
	MeshesCulled int
	MeshesDrawn  int
}

// MeshRenderer is the mesh view the rasterizer needs. models.Mesh
// implements it.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer adds object-space bounds for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// NewRasterizer creates a rasterizer targeting fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{fb: fb}
	r.Resize()
	return r
}

// Resize reallocates the depth buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
	r.ClearDepth()
}

// SetFramebuffer retargets the rasterizer, e.g. after a terminal resize.
func (r *Rasterizer) SetFramebuffer(fb *Framebuffer) {
	r.fb = fb
	r.Resize()
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth resets the depth buffer. Call it once per frame.
func (r *Rasterizer) ClearDepth() {
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// ResetCullingStats zeroes the culling counters.
func (r *Rasterizer) ResetCullingStats() {
	r.CullingStats = CullingStats{}
}

func (r *Rasterizer) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// cull reports whether a bounded mesh lies entirely outside the frustum of
// the clip matrix mvp. Meshes without bounds are never culled.
func (r *Rasterizer) cull(mesh MeshRenderer, mvp math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}
	r.CullingStats.MeshesTested++

	lo, hi := bounded.GetBounds()
	if !NewFrustumFromMatrix(mvp).IntersectAABB(NewAABB(lo, hi)) {
		r.CullingStats.MeshesCulled++
		return true
	}
	r.CullingStats.MeshesDrawn++
	return false
}

// DrawMesh renders mesh with prog. The vertex stage runs exactly once per
// mesh vertex; the fragment stage runs once per covered pixel that passes
// the depth test. Both stages are spread over Workers goroutines, and the
// framebuffer contents do not depend on the worker count.
//
// It returns ctx.Err() if ctx is canceled mid-draw, in which case the
// framebuffer may hold a partial frame.
func (r *Rasterizer) DrawMesh(ctx context.Context, mesh MeshRenderer, prog *shading.Program) error {
	tc := prog.Transform
	if r.cull(mesh, tc.Projection.Mul(tc.ModelView)) {
		return nil
	}
	if err := r.runVertexStage(ctx, mesh, prog); err != nil {
		return err
	}
	r.setupTriangles(mesh)
	return r.runFragmentStage(ctx, prog)
}

func (r *Rasterizer) runVertexStage(ctx context.Context, mesh MeshRenderer, prog *shading.Program) error {
	n := mesh.VertexCount()
	if cap(r.varyings) < n {
		r.varyings = make([]shading.VertexOutput, n)
	}
	out := r.varyings[:n]

	workers := r.workers()
	chunk := max((n+workers-1)/workers, minVertexChunk)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				pos, normal := mesh.GetVertex(i)
				out[i] = prog.Vertex(shading.Vertex{Position: pos, Normal: normal})
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *Rasterizer) runFragmentStage(ctx context.Context, prog *shading.Program) error {
	h := r.Height()
	if len(r.tris) == 0 || h == 0 {
		return nil
	}

	workers := r.workers()
	band := max((h+workers-1)/workers, minBandRows)

	// Bands own disjoint pixel rows, so they never touch the same depth or
	// color entry.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y0 := 0; y0 < h; y0 += band {
		y1 := min(y0+band, h)
		g.Go(func() error {
			for i := range r.tris {
				if i%64 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				r.rasterizeBand(&r.tris[i], prog, y0, y1)
			}
			return nil
		})
	}
	return g.Wait()
}

// DrawMeshWireframe draws the triangle edges of mesh in a flat color,
// without depth testing.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, tc *shading.TransformContext, c Color) {
	mvp := tc.Projection.Mul(tc.ModelView)
	if r.cull(mesh, mvp) {
		return
	}

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var clip [3]math3d.Vec4
		for k, idx := range face {
			pos, _ := mesh.GetVertex(idx)
			clip[k] = mvp.MulVec4(math3d.V4FromV3(pos, 1))
		}
		r.drawClipLine(clip[0], clip[1], c)
		r.drawClipLine(clip[1], clip[2], c)
		r.drawClipLine(clip[2], clip[0], c)
	}
}

// drawClipLine draws a segment given in clip space. Segments with an end
// behind the camera are skipped.
func (r *Rasterizer) drawClipLine(a, b math3d.Vec4, c Color) {
	if a.W <= 0 || b.W <= 0 {
		return
	}
	x0, y0, _ := r.toScreen(a)
	x1, y1, _ := r.toScreen(b)
	r.fb.DrawLine(int(x0), int(y0), int(x1), int(y1), c)
}

// toScreen maps a clip-space position to pixel coordinates and NDC depth.
func (r *Rasterizer) toScreen(clip math3d.Vec4) (x, y, z float64) {
	ndc := clip.PerspectiveDivide()
	x = (ndc.X + 1) * 0.5 * float64(r.Width())
	y = (1 - ndc.Y) * 0.5 * float64(r.Height())
	return x, y, ndc.Z
}
