// Package shading implements the Phong local illumination pipeline: a
// per-vertex geometry transform stage and a per-fragment shading stage,
// parameterized by an explicit uniform block.
//
// Both stages are pure functions of their inputs. They never mutate the
// Uniforms or TransformContext they are given, so any number of goroutines
// may run them concurrently against the same draw state.
//
// Degenerate geometry (zero-length normals, a vertex coinciding with the
// light or the eye, a singular model-view matrix) is a caller precondition
// violation. The stages do not guard against it; NaN values propagate into
// the output color.
package shading

import (
	"image/color"
	"math"

	"github.com/taigrr/phong/pkg/math3d"
)

// RGB is a linear color with float64 channels. Channels are not clamped.
type RGB struct {
	R, G, B float64
}

// Add returns the channel-wise sum.
func (c RGB) Add(o RGB) RGB {
	return RGB{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Mul returns the channel-wise product.
func (c RGB) Mul(o RGB) RGB {
	return RGB{c.R * o.R, c.G * o.G, c.B * o.B}
}

// Scale multiplies every channel by s.
func (c RGB) Scale(s float64) RGB {
	return RGB{c.R * s, c.G * s, c.B * s}
}

// WithAlpha extends c to an RGBA.
func (c RGB) WithAlpha(a float64) RGBA {
	return RGBA{c.R, c.G, c.B, a}
}

// RGBA is a linear color with alpha. Values above 1 are legal; clamping is
// the display's job.
type RGBA struct {
	R, G, B, A float64
}

// Clamped limits every channel to [0, 1].
func (c RGBA) Clamped() RGBA {
	return RGBA{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

// Color converts to an 8-bit color, clamping first.
// NaN channels become 0.
func (c RGBA) Color() color.RGBA {
	c = c.Clamped()
	return color.RGBA{
		R: uint8(math.Round(c.R * 255)),
		G: uint8(math.Round(c.G * 255)),
		B: uint8(math.Round(c.B * 255)),
		A: uint8(math.Round(c.A * 255)),
	}
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Vertex is an object-space mesh vertex. Normal need not be unit length.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
}

// VertexOutput holds the values the geometry stage produces for one vertex.
// Every field except Clip is interpolated across the primitive before the
// fragment stage sees it.
type VertexOutput struct {
	Normal     math3d.Vec3 // camera-space normal (N)
	LightDir   math3d.Vec3 // toward the light (L)
	ReflectDir math3d.Vec3 // reflect(-L, N) (R)
	ViewDir    math3d.Vec3 // toward the eye (V)
	Clip       math3d.Vec4 // clip-space position

	// Color is the lit vertex color in PerVertex mode and zero otherwise.
	Color RGBA
}

// FragmentInput is a VertexOutput after interpolation. Its directional
// vectors are generally not unit length.
type FragmentInput = VertexOutput
