package main

import (
	"context"
	"math"

	"github.com/taigrr/phong/pkg/config"
	"github.com/taigrr/phong/pkg/math3d"
	"github.com/taigrr/phong/pkg/render"
	"github.com/taigrr/phong/pkg/shading"
)

var wireColor = render.RGB(0, 255, 128)

// frame is the complete input of one drawn frame. It is assembled after
// every input and config update for the frame has been applied, and the
// draw only ever reads it.
type frame struct {
	cfg       *config.Config
	rotation  math3d.Vec3 // pitch, yaw, roll in radians
	distance  float64
	mode      shading.Mode
	wireframe bool
}

// model returns the object-to-world matrix.
func (f *frame) model() math3d.Mat4 {
	return math3d.RotateX(f.rotation.X).
		Mul(math3d.RotateY(f.rotation.Y)).
		Mul(math3d.RotateZ(f.rotation.Z))
}

// drawFrame clears fb and draws mesh into it.
func drawFrame(ctx context.Context, r *render.Rasterizer, fb *render.Framebuffer, cam *render.Camera, mesh render.MeshRenderer, f frame) error {
	s := f.cfg.Scene
	cam.SetFOV(s.FOV * math.Pi / 180)
	cam.SetClipPlanes(s.Near, s.Far)
	cam.SetAspectRatio(float64(fb.Width) / float64(fb.Height))
	cam.SetPosition(math3d.V3(0, 0, f.distance))

	bg, err := f.cfg.BackgroundColor()
	if err != nil {
		return err
	}
	fb.Clear(bg.WithAlpha(1).Color())
	r.ClearDepth()
	r.Workers = f.cfg.Render.Workers

	tc := cam.TransformContext(f.model())
	if f.wireframe {
		r.DrawMeshWireframe(mesh, &tc, wireColor)
		return nil
	}
	return r.DrawMesh(ctx, mesh, f.cfg.Program(&tc, f.mode))
}
