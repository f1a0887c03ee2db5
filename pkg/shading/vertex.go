package shading

import "github.com/taigrr/phong/pkg/math3d"

// TransformContext carries the per-draw matrices. Build it with
// NewTransformContext so Normal stays consistent with ModelView.
type TransformContext struct {
	ModelView  math3d.Mat4
	Projection math3d.Mat4
	Normal     math3d.Mat3 // inverse-transpose of ModelView's upper 3x3
}

// NewTransformContext derives the normal matrix from modelView.
// modelView must be invertible.
func NewTransformContext(modelView, projection math3d.Mat4) TransformContext {
	return TransformContext{
		ModelView:  modelView,
		Projection: projection,
		Normal:     modelView.NormalMatrix(),
	}
}

// TransformVertex runs the geometry stage for one vertex: it moves the
// vertex, its normal and the light into camera space and derives the
// light, reflection and view directions the shading equation needs.
// The camera sits at the origin of camera space.
func TransformVertex(v Vertex, tc *TransformContext, u *Uniforms) VertexOutput {
	lightCam := tc.ModelView.MulVec4(math3d.V4FromV3(u.LightPosition, 1))
	posCam := tc.ModelView.MulVec4(math3d.V4FromV3(v.Position, 1))
	vertPos := posCam.PerspectiveDivide()

	n := tc.Normal.MulVec3(v.Normal).Unit()
	l := lightCam.Vec3().Sub(posCam.Vec3()).Unit()

	return VertexOutput{
		Normal:     n,
		LightDir:   l,
		ReflectDir: l.Negate().Reflect(n),
		ViewDir:    vertPos.Negate().Unit(),
		Clip:       tc.Projection.MulVec4(posCam),
	}
}
