package shading

import (
	"errors"
	"fmt"

	"github.com/taigrr/phong/pkg/math3d"
)

// ErrNegativeComponent is returned by Uniforms.Validate when a color or
// coefficient has a negative channel.
var ErrNegativeComponent = errors.New("negative color component")

// Uniforms is the per-draw parameter block shared by both stages.
// It holds one ambient term and one point light.
type Uniforms struct {
	AmbientIntensity  RGB         // Ia
	LightPosition     math3d.Vec3 // object space
	LightDiffuseColor RGB         // Ip
	KAmbient          RGB         // ka
	KDiffuse          RGB         // kd
	KSpecular         RGB         // ks
}

// DefaultUniforms returns a dim grey ambient light, a light up and to the
// left of the origin, and a blue material with white highlights.
func DefaultUniforms() Uniforms {
	return Uniforms{
		AmbientIntensity:  RGB{0.3, 0.3, 0.3},
		LightPosition:     math3d.V3(-20, 10, 10),
		LightDiffuseColor: RGB{0.7, 0.7, 0.7},
		KAmbient:          RGB{0.25, 0.25, 0.85},
		KDiffuse:          RGB{0.25, 0.25, 0.85},
		KSpecular:         RGB{1, 1, 1},
	}
}

// Validate reports whether every color channel is non-negative.
// Coefficients above 1 are allowed.
func (u *Uniforms) Validate() error {
	fields := []struct {
		name string
		c    RGB
	}{
		{"ambient_intensity", u.AmbientIntensity},
		{"light_diffuse_color", u.LightDiffuseColor},
		{"k_ambient", u.KAmbient},
		{"k_diffuse", u.KDiffuse},
		{"k_specular", u.KSpecular},
	}
	for _, f := range fields {
		if f.c.R < 0 || f.c.G < 0 || f.c.B < 0 {
			return fmt.Errorf("%s %v: %w", f.name, f.c, ErrNegativeComponent)
		}
	}
	return nil
}

// Ambient returns ka * Ia. It does not depend on geometry.
func (u *Uniforms) Ambient() RGB {
	return u.KAmbient.Mul(u.AmbientIntensity)
}
