package shading

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/phong/pkg/math3d"
)

const tol = 1e-9

func whiteMaterial() *Uniforms {
	return &Uniforms{
		AmbientIntensity:  RGB{0.3, 0.3, 0.3},
		LightDiffuseColor: RGB{0.7, 0.7, 0.7},
		KAmbient:          RGB{1, 1, 1},
		KDiffuse:          RGB{1, 1, 1},
		KSpecular:         RGB{1, 1, 1},
	}
}

func assertRGBA(t *testing.T, want, got RGBA) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, tol, "R")
	assert.InDelta(t, want.G, got.G, tol, "G")
	assert.InDelta(t, want.B, got.B, tol, "B")
	assert.InDelta(t, want.A, got.A, tol, "A")
}

func randomUnit(rng *rand.Rand) math3d.Vec3 {
	for {
		v := math3d.V3(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1)
		if l := v.Len(); l > 1e-3 && l <= 1 {
			return v.Unit()
		}
	}
}

func TestShadeFragmentHeadOn(t *testing.T) {
	n := math3d.V3(0, 0, 1)
	l := math3d.V3(0, 0, 1)
	r := l.Negate().Reflect(n)
	assert.Equal(t, math3d.V3(0, 0, 1), r)

	in := FragmentInput{Normal: n, LightDir: l, ReflectDir: r, ViewDir: math3d.V3(0, 0, 1)}

	lambertian, specular := Lighting(n, l, r, in.ViewDir, DefaultFragmentShininess)
	assert.Equal(t, 1.0, lambertian)
	assert.Equal(t, 1.0, specular)

	got := ShadeFragment(in, whiteMaterial(), DefaultFragmentShininess)
	assertRGBA(t, RGBA{1.7, 1.7, 1.7, 1}, got)
}

func TestShadeFragmentLightBehindSurface(t *testing.T) {
	n := math3d.V3(0, 0, 1)
	l := math3d.V3(0, 0, -1)
	in := FragmentInput{
		Normal:     n,
		LightDir:   l,
		ReflectDir: l.Negate().Reflect(n),
		ViewDir:    math3d.V3(0, 0, 1),
	}

	lambertian, specular := Lighting(n, l, in.ReflectDir, in.ViewDir, DefaultFragmentShininess)
	assert.Zero(t, lambertian)
	assert.Zero(t, specular)

	u := whiteMaterial()
	got := ShadeFragment(in, u, DefaultFragmentShininess)
	assertRGBA(t, u.Ambient().WithAlpha(1), got)
}

func TestShadeFragmentRenormalizesNormalAndLight(t *testing.T) {
	u := DefaultUniforms()
	base := FragmentInput{
		Normal:     math3d.V3(0, 0, 1),
		LightDir:   math3d.V3(0, 0.6, 0.8),
		ReflectDir: math3d.V3(0, -0.6, 0.8),
		ViewDir:    math3d.V3(0, 0, 1),
	}
	want := ShadeFragment(base, &u, DefaultFragmentShininess)

	stretched := base
	stretched.Normal = math3d.V3(0, 0, 2)
	stretched.LightDir = base.LightDir.Scale(0.25)
	assertRGBA(t, want, ShadeFragment(stretched, &u, DefaultFragmentShininess))
}

// R and V are consumed as interpolated; shortening them changes the
// highlight. This pins the asymmetry documented on ShadeFragment.
func TestShadeFragmentUsesReflectAndViewAsGiven(t *testing.T) {
	u := whiteMaterial()
	in := FragmentInput{
		Normal:     math3d.V3(0, 0, 1),
		LightDir:   math3d.V3(0, 0, 1),
		ReflectDir: math3d.V3(0, 0, 1),
		ViewDir:    math3d.V3(0, 0, 1),
	}
	full := ShadeFragment(in, u, DefaultFragmentShininess)

	in.ViewDir = math3d.V3(0, 0, 0.9)
	short := ShadeFragment(in, u, DefaultFragmentShininess)

	want := 0.3 + 0.7 + 0.7*math.Pow(0.9, DefaultFragmentShininess)
	assert.InDelta(t, want, short.R, tol)
	assert.Less(t, short.R, full.R)
}

func TestLightingBackFacingHasNoLight(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 2000 {
		n := randomUnit(rng)
		l := randomUnit(rng)
		if n.Dot(l) > 0 {
			l = l.Negate()
		}
		r := l.Negate().Reflect(n)
		v := randomUnit(rng)

		lambertian, specular := Lighting(n, l, r, v, DefaultFragmentShininess)
		require.Zero(t, lambertian, "n=%v l=%v", n, l)
		require.Zero(t, specular, "n=%v l=%v", n, l)
	}
}

func TestLightingFactorsInUnitRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for range 2000 {
		n := randomUnit(rng)
		l := randomUnit(rng)
		r := l.Negate().Reflect(n)
		v := randomUnit(rng)

		lambertian, specular := Lighting(n, l, r, v, DefaultFragmentShininess)
		require.GreaterOrEqual(t, lambertian, 0.0)
		require.LessOrEqual(t, lambertian, 1.0+tol)
		require.GreaterOrEqual(t, specular, 0.0)
		require.LessOrEqual(t, specular, 1.0+tol)

		specAngle := math.Max(r.Dot(v), 0)
		require.LessOrEqual(t, specAngle, 1.0+tol)
	}
}

func TestSpecularMonotonicInAngle(t *testing.T) {
	n := math3d.V3(0, 0, 1)
	l := math3d.V3(0, 0, 1)
	r := math3d.V3(0, 0, 1)

	for _, shininess := range []float64{1, DefaultFragmentShininess, DefaultVertexShininess, 128} {
		prev := -1.0
		for i := 0; i <= 100; i++ {
			theta := math.Pi / 2 * float64(100-i) / 100
			v := math3d.V3(math.Sin(theta), 0, math.Cos(theta))
			_, specular := Lighting(n, l, r, v, shininess)
			assert.GreaterOrEqual(t, specular, prev, "shininess=%v step=%d", shininess, i)
			prev = specular
		}
	}
}

func TestShadeFragmentIsDeterministic(t *testing.T) {
	u := DefaultUniforms()
	in := FragmentInput{
		Normal:     math3d.V3(0.1, 0.9, 0.3),
		LightDir:   math3d.V3(-0.5, 0.5, 0.7),
		ReflectDir: math3d.V3(0.2, 0.4, 0.8),
		ViewDir:    math3d.V3(0, 0.1, 0.99),
	}
	a := ShadeFragment(in, &u, DefaultFragmentShininess)
	b := ShadeFragment(in, &u, DefaultFragmentShininess)
	assert.Equal(t, a, b)
	assert.Equal(t, DefaultUniforms(), u, "uniforms must not be mutated")
}

func TestShadeFragmentDegenerateNormalIsNaN(t *testing.T) {
	u := DefaultUniforms()
	in := FragmentInput{
		LightDir:   math3d.V3(0, 0, 1),
		ReflectDir: math3d.V3(0, 0, 1),
		ViewDir:    math3d.V3(0, 0, 1),
	}
	got := ShadeFragment(in, &u, DefaultFragmentShininess)
	assert.True(t, math.IsNaN(got.R))
}

func TestShadeFragmentDoesNotClamp(t *testing.T) {
	u := whiteMaterial()
	u.LightDiffuseColor = RGB{2, 2, 2}
	in := FragmentInput{
		Normal:     math3d.V3(0, 0, 1),
		LightDir:   math3d.V3(0, 0, 1),
		ReflectDir: math3d.V3(0, 0, 1),
		ViewDir:    math3d.V3(0, 0, 1),
	}
	got := ShadeFragment(in, u, DefaultFragmentShininess)
	assert.InDelta(t, 4.3, got.R, tol)
	assert.Equal(t, uint8(255), got.Color().R)
}
