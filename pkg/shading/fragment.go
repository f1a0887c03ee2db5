package shading

import (
	"math"

	"github.com/taigrr/phong/pkg/math3d"
)

// Shininess exponents used by the two evaluation points.
const (
	DefaultFragmentShininess = 16.0
	DefaultVertexShininess   = 30.0
)

// Lighting returns the diffuse and specular attenuation factors for a
// surface with normal n lit from direction l, where r is the reflected
// light direction and v points to the eye.
//
// lambertian is max(n·l, 0). specular is max(r·v, 0)^shininess and is
// forced to zero whenever lambertian is zero, so a surface facing away
// from the light never shows a highlight.
func Lighting(n, l, r, v math3d.Vec3, shininess float64) (lambertian, specular float64) {
	lambertian = math.Max(n.Dot(l), 0)
	if lambertian > 0 {
		specAngle := math.Max(r.Dot(v), 0)
		specular = math.Pow(specAngle, shininess)
	}
	return lambertian, specular
}

// Illuminate evaluates ka*Ia + kd*Ip*lambertian + ks*Ip*specular.
// The sum is not clamped.
func Illuminate(n, l, r, v math3d.Vec3, u *Uniforms, shininess float64) RGB {
	lambertian, specular := Lighting(n, l, r, v, shininess)

	diffuse := u.KDiffuse.Mul(u.LightDiffuseColor).Scale(lambertian)
	highlight := u.KSpecular.Mul(u.LightDiffuseColor).Scale(specular)
	return u.Ambient().Add(diffuse).Add(highlight)
}

// ShadeFragment runs the shading stage for one fragment.
//
// N and L are re-normalized because interpolation does not preserve
// length. R and V are used exactly as interpolated.
func ShadeFragment(in FragmentInput, u *Uniforms, shininess float64) RGBA {
	n := in.Normal.Unit()
	l := in.LightDir.Unit()
	return Illuminate(n, l, in.ReflectDir, in.ViewDir, u, shininess).WithAlpha(1)
}
