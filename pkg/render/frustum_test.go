package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taigrr/phong/pkg/math3d"
)

func TestPlane(t *testing.T) {
	p := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	p.Normalize()
	assert.InDelta(t, 1, p.Normal.Len(), 1e-12)
	assert.InDelta(t, 0.6, p.Normal.Y, 1e-12)
	assert.InDelta(t, 2, p.D, 1e-12)

	// Distance is measured along the normal only.
	assert.InDelta(t, 2+0.8*5, p.DistanceToPoint(math3d.V3(9, 0, 5)), 1e-12)
	assert.InDelta(t, 0, p.DistanceToPoint(math3d.V3(0, 0, -2.5)), 1e-12)

	zero := Plane{D: 3}
	zero.Normalize()
	assert.Equal(t, Plane{D: 3}, zero)
}

// defaultFrustum matches the viewer camera: 75 degrees, square aspect,
// clip planes 0.1 and 1000, looking down -Z from the origin.
func defaultFrustum() Frustum {
	return NewFrustumFromMatrix(math3d.Perspective(DefaultFOV, 1, DefaultNear, DefaultFar))
}

func TestFrustumPlanesNormalized(t *testing.T) {
	for i, plane := range defaultFrustum().Planes {
		assert.InDelta(t, 1, plane.Normal.Len(), 1e-9, "plane %d", i)
	}
}

func TestFrustumPlanesFaceInward(t *testing.T) {
	f := defaultFrustum()
	inside := math3d.V3(0, 0, -10)
	for i, plane := range f.Planes {
		assert.Positive(t, plane.DistanceToPoint(inside), "plane %d", i)
	}
	assert.InDelta(t, 0, f.Planes[FrustumNear].DistanceToPoint(math3d.V3(0, 0, -DefaultNear)), 1e-6)
	assert.InDelta(t, 0, f.Planes[FrustumFar].DistanceToPoint(math3d.V3(0, 0, -DefaultFar)), 1e-3)
}

func TestFrustumIntersectAABB(t *testing.T) {
	f := defaultFrustum()
	point := func(x, y, z float64) AABB {
		p := math3d.V3(x, y, z)
		return NewAABB(p, p)
	}

	tests := []struct {
		name string
		box  AABB
		want bool
	}{
		{"fully inside", NewAABB(math3d.V3(-1, -1, -10), math3d.V3(1, 1, -5)), true},
		{"straddles the eye", NewAABB(math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2)), true},
		{"encloses the frustum", NewAABB(math3d.V3(-2000, -2000, -2000), math3d.V3(2000, 2000, 2000)), true},
		{"behind", NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 10)), false},
		{"past far plane", NewAABB(math3d.V3(-1, -1, -1500), math3d.V3(1, 1, -1200)), false},
		{"right of view", NewAABB(math3d.V3(100, -1, -10), math3d.V3(110, 1, -5)), false},
		{"point on axis", point(0, 0, -50), true},
		{"point before near plane", point(0, 0, -0.01), false},
		{"point above view", point(0, 50, -10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.IntersectAABB(tt.box))
		})
	}
}

func TestFrustumObjectSpacePlanes(t *testing.T) {
	// Planes extracted from projection*modelView test boxes in object space.
	proj := math3d.Perspective(DefaultFOV, 1, DefaultNear, DefaultFar)
	torus := NewAABB(math3d.V3(-13, -13, -3), math3d.V3(13, 13, 3))

	tests := []struct {
		name      string
		modelView math3d.Mat4
		want      bool
	}{
		{"in front of camera", math3d.Translate(math3d.V3(0, 0, -25)), true},
		{"behind camera", math3d.Translate(math3d.V3(0, 0, 25)), false},
		{"off to the side", math3d.Translate(math3d.V3(200, 0, -25)), false},
		{"rotated in front", math3d.Translate(math3d.V3(0, 0, -25)).Mul(math3d.RotateX(1.2)), true},
		{"camera turned away", math3d.RotateY(math.Pi).Mul(math3d.Translate(math3d.V3(0, 0, -25))), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFrustumFromMatrix(proj.Mul(tt.modelView))
			assert.Equal(t, tt.want, f.IntersectAABB(torus))
		})
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	f := defaultFrustum()
	box := NewAABB(math3d.V3(-13, -13, -28), math3d.V3(13, 13, -22))
	for b.Loop() {
		_ = f.IntersectAABB(box)
	}
}

func BenchmarkFrustumExtraction(b *testing.B) {
	proj := math3d.Perspective(DefaultFOV, 16.0/9.0, DefaultNear, DefaultFar)
	mv := math3d.Translate(math3d.V3(0, 0, -25)).Mul(math3d.RotateX(0.4))
	clip := proj.Mul(mv)
	for b.Loop() {
		_ = NewFrustumFromMatrix(clip)
	}
}
